package catalog

import (
	"hotelbooking/internal/domain"
	"hotelbooking/internal/repository"
)

// ---------- ROOMS ----------

type RoomRequest struct {
	RoomType       string  `json:"room_type" validate:"required,max=100"`
	Capacity       int     `json:"capacity" validate:"required,gt=0"`
	RatePerNight   float64 `json:"rate_per_night" validate:"gte=0,lt=1000000"`
	AvailableRooms int     `json:"available_rooms" validate:"gte=0"`
	CheckinDate    string  `json:"checkin_date" validate:"required,datetime=2006-01-02"`
	CheckoutDate   string  `json:"checkout_date" validate:"required,datetime=2006-01-02"`
}

// ---------- SEARCH ----------

type SearchQuery struct {
	Location string `form:"location"`
	Guests   int    `form:"guests"`
	Checkin  string `form:"checkin"`
	Checkout string `form:"checkout"`
}

// RoomListing is a room as shown to guests, with its hotel's rating.
type RoomListing struct {
	domain.Room
	HotelName     string                   `json:"hotel_name"`
	HotelLocation string                   `json:"hotel_location"`
	Rating        repository.RatingSummary `json:"rating"`
}

type DeleteResult struct {
	Deleted bool `json:"deleted"`
	Retired bool `json:"retired"`
}
