package domain

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// Review is the single review a guest keeps for a hotel.
type Review struct {
	ID        int64     `json:"id"`
	GuestID   int64     `json:"guest_id"`
	HotelID   int64     `json:"hotel_id"`
	BookingID int64     `json:"booking_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	GuestName string `json:"guest_name,omitempty"`
}
