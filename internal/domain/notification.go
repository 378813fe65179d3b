package domain

import "time"

// NotificationKind is either a booking status or one of the review kinds.
type NotificationKind string

const (
	KindReviewAdded   NotificationKind = "review_added"
	KindReviewUpdated NotificationKind = "review_updated"
)

func StatusKind(s BookingStatus) NotificationKind { return NotificationKind(s) }

func (k NotificationKind) IsReview() bool {
	return k == KindReviewAdded || k == KindReviewUpdated
}

type BookingNotification struct {
	ID          int64            `json:"id"`
	RecipientID int64            `json:"recipient_id"`
	BookingID   int64            `json:"booking_id"`
	Kind        NotificationKind `json:"kind"`
	Message     string           `json:"message"`
	IsRead      bool             `json:"is_read"`
	CreatedAt   time.Time        `json:"created_at"`
}

var statusMessages = map[BookingStatus]string{
	BookingPending:   "Booking is pending payment.",
	BookingConfirmed: "Booking is confirmed.",
	BookingCompleted: "Booking is completed.",
	BookingCanceled:  "Booking is canceled.",
	BookingExpired:   "Booking expired due to unpaid balance.",
}

func StatusMessage(s BookingStatus) string {
	if m, ok := statusMessages[s]; ok {
		return m
	}
	return "Booking status updated."
}
