package domain

import "time"

type Room struct {
	ID             int64     `json:"id"`
	HotelID        int64     `json:"hotel_id"`
	RoomType       string    `json:"room_type" validate:"required"`
	Capacity       int       `json:"capacity" validate:"required,gt=0"`
	RatePerNight   float64   `json:"rate_per_night" validate:"gte=0"`
	AvailableRooms int       `json:"available_rooms" validate:"gte=0"`
	CheckinDate    time.Time `json:"checkin_date"`
	CheckoutDate   time.Time `json:"checkout_date"`
	PhotoURL       string    `json:"photo_url,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Relations
	Hotel *User `json:"hotel,omitempty"`
}

// DateLayout is the wire format of room check-in/check-out dates.
const DateLayout = "2006-01-02"

func (r *Room) DatesValid() bool {
	return !r.CheckoutDate.Before(r.CheckinDate)
}

// Overlaps reports whether the room's stay window intersects [from, to].
// Zero bounds are open.
func (r *Room) Overlaps(from, to time.Time) bool {
	if !from.IsZero() && r.CheckoutDate.Before(calendarDate(from)) {
		return false
	}
	if !to.IsZero() && r.CheckinDate.After(calendarDate(to)) {
		return false
	}
	return true
}
