package booking

import (
	"time"

	"hotelbooking/internal/domain"
)

type CheckoutRequest struct {
	FullName      string `json:"full_name" validate:"required,max=150"`
	Phone         string `json:"phone" validate:"omitempty,max=30"`
	RoomsCount    int    `json:"rooms_count" validate:"required,min=1"`
	PaymentOption string `json:"payment_option" validate:"required,oneof=pay_now pay_later"`
}

// StateTab is one entry of the status filter above a booking list.
type StateTab struct {
	State  string `json:"state"`
	Label  string `json:"label"`
	Count  int    `json:"count"`
	Active bool   `json:"active"`
}

type BookingView struct {
	domain.Booking
	StatusLabel      string         `json:"status_label"`
	HotelID          int64          `json:"hotel_id"`
	HotelName        string         `json:"hotel_name,omitempty"`
	PaymentExpiresAt *time.Time     `json:"payment_expires_at,omitempty"`
	CanCancel        bool           `json:"can_cancel"`
	CanPayNow        bool           `json:"can_pay_now"`
	CanReview        bool           `json:"can_review"`
	Review           *domain.Review `json:"review,omitempty"`
}

type HistoryView struct {
	State    string        `json:"state"`
	Tabs     []StateTab    `json:"tabs"`
	Bookings []BookingView `json:"bookings"`
}

// AdminBookingRequest creates a booking on behalf of a guest.
type AdminBookingRequest struct {
	GuestID int64 `json:"guest_id" validate:"required"`
	RoomID  int64 `json:"room_id" validate:"required"`
	CheckoutRequest
}

// AdminBookingUpdate edits contact details and optionally moves a pending
// booking to canceled or confirmed.
type AdminBookingUpdate struct {
	GuestName  string `json:"guest_name" validate:"required,max=150"`
	GuestPhone string `json:"guest_phone" validate:"omitempty,max=30"`
	Status     string `json:"status" validate:"omitempty,oneof=canceled confirmed"`
}
