package queue

import (
	"context"
	"time"
)

// QueueBookingStatus receives one message per applied booking status change.
const QueueBookingStatus = "booking.status_changed"

// BookingStatusEvent is published after a booking status change commits.
type BookingStatusEvent struct {
	BookingID     int64     `json:"booking_id"`
	GuestID       int64     `json:"guest_id"`
	HotelID       int64     `json:"hotel_id"`
	RoomID        int64     `json:"room_id"`
	RoomsCount    int       `json:"rooms_count"`
	PaymentOption string    `json:"payment_option"`
	From          string    `json:"from,omitempty"`
	To            string    `json:"to"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type Publisher interface {
	PublishBookingStatus(ctx context.Context, ev BookingStatusEvent) error
}

// Nop drops every event.
type Nop struct{}

func (Nop) PublishBookingStatus(context.Context, BookingStatusEvent) error { return nil }
