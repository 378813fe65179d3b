package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCanceled  BookingStatus = "canceled"
	BookingExpired   BookingStatus = "expired"
)

type PaymentOption string

const (
	PayNow   PaymentOption = "pay_now"
	PayLater PaymentOption = "pay_later"
)

// PendingPaymentExpiry is how long a pay_later booking may stay pending.
const PendingPaymentExpiry = 3 * time.Hour

type Booking struct {
	ID            int64         `json:"id"`
	GuestID       int64         `json:"guest_id"`
	RoomID        int64         `json:"room_id"`
	GuestName     string        `json:"guest_name"`
	GuestEmail    string        `json:"guest_email"`
	GuestPhone    string        `json:"guest_phone,omitempty"`
	RoomsCount    int           `json:"rooms_count"`
	PaymentOption PaymentOption `json:"payment_option"`
	Status        BookingStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`

	// Relations
	Room *Room `json:"room,omitempty"`
}

func (o PaymentOption) Valid() bool {
	return o == PayNow || o == PayLater
}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCompleted, BookingCanceled, BookingExpired:
		return true
	}
	return false
}

// IsTerminal reports whether no further lifecycle transition can happen.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingCanceled || s == BookingCompleted || s == BookingExpired
}

// HoldsInventory reports whether a booking in this status still occupies rooms.
func (s BookingStatus) HoldsInventory() bool {
	return s == BookingPending || s == BookingConfirmed
}

// ReviewEligible reports whether a booking in this status lets the guest review the hotel.
func (s BookingStatus) ReviewEligible() bool {
	return s == BookingConfirmed || s == BookingCompleted
}

// InitialStatus is the status a freshly created booking starts in.
func InitialStatus(opt PaymentOption) BookingStatus {
	if opt == PayNow {
		return BookingConfirmed
	}
	return BookingPending
}

func (b *Booking) PaymentExpiresAt() time.Time {
	return b.CreatedAt.Add(PendingPaymentExpiry)
}

func (b *Booking) PaymentOverdue(now time.Time) bool {
	return b.Status == BookingPending &&
		b.PaymentOption == PayLater &&
		!b.CreatedAt.IsZero() &&
		!now.Before(b.PaymentExpiresAt())
}

func (b *Booking) StayFinished(now, checkoutDate time.Time) bool {
	if b.Status != BookingConfirmed || checkoutDate.IsZero() {
		return false
	}
	return !calendarDate(now).Before(calendarDate(checkoutDate))
}

// Resolve returns the status the booking should be in at now. It has no side
// effects; callers persist the result. Expiry wins over completion.
func (b *Booking) Resolve(now, checkoutDate time.Time) BookingStatus {
	if b.PaymentOverdue(now) {
		return BookingExpired
	}
	if b.StayFinished(now, checkoutDate) {
		return BookingCompleted
	}
	return b.Status
}

func calendarDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// StateFilters lists the history tabs in display order.
var StateFilters = []string{"all", "pending", "confirmed", "completed", "canceled", "expired"}

var stateLabels = map[string]string{
	"all":                    "All",
	string(BookingPending):   "Pending",
	string(BookingConfirmed): "Confirmed",
	string(BookingCompleted): "Completed",
	string(BookingCanceled):  "Canceled",
	string(BookingExpired):   "Expired",
}

func StateLabel(state string) string {
	if l, ok := stateLabels[state]; ok {
		return l
	}
	return state
}
