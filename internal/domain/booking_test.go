package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestInitialStatus(t *testing.T) {
	assert.Equal(t, BookingConfirmed, InitialStatus(PayNow))
	assert.Equal(t, BookingPending, InitialStatus(PayLater))
}

func TestResolve_PendingPayLaterExpiryBoundary(t *testing.T) {
	created := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	b := &Booking{Status: BookingPending, PaymentOption: PayLater, CreatedAt: created}
	checkout := date(2025, 2, 1)

	assert.Equal(t, BookingPending, b.Resolve(created.Add(3*time.Hour-time.Minute), checkout))
	assert.Equal(t, BookingExpired, b.Resolve(created.Add(3*time.Hour), checkout))
	assert.Equal(t, BookingExpired, b.Resolve(created.Add(3*time.Hour+time.Minute), checkout))
}

func TestResolve_PendingPayNowNeverExpires(t *testing.T) {
	created := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	b := &Booking{Status: BookingPending, PaymentOption: PayNow, CreatedAt: created}

	assert.Equal(t, BookingPending, b.Resolve(created.Add(48*time.Hour), date(2025, 2, 1)))
}

func TestResolve_ConfirmedCompletesOnCheckoutDate(t *testing.T) {
	b := &Booking{Status: BookingConfirmed, PaymentOption: PayNow, CreatedAt: date(2025, 1, 1)}
	checkout := date(2025, 1, 15)

	assert.Equal(t, BookingConfirmed, b.Resolve(time.Date(2025, 1, 14, 23, 59, 0, 0, time.UTC), checkout))
	assert.Equal(t, BookingCompleted, b.Resolve(time.Date(2025, 1, 15, 0, 0, 1, 0, time.UTC), checkout))
	assert.Equal(t, BookingCompleted, b.Resolve(date(2025, 3, 1), checkout))
}

func TestResolve_TerminalStatusesAreStable(t *testing.T) {
	now := date(2030, 1, 1)
	for _, s := range []BookingStatus{BookingCanceled, BookingCompleted, BookingExpired} {
		b := &Booking{Status: s, PaymentOption: PayLater, CreatedAt: date(2025, 1, 1)}
		assert.Equal(t, s, b.Resolve(now, date(2025, 1, 2)), "status %s", s)
		assert.True(t, s.IsTerminal())
	}
}

func TestResolve_IsIdempotent(t *testing.T) {
	created := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	b := &Booking{Status: BookingPending, PaymentOption: PayLater, CreatedAt: created}
	now := created.Add(4 * time.Hour)

	first := b.Resolve(now, date(2025, 1, 11))
	b.Status = first
	assert.Equal(t, first, b.Resolve(now, date(2025, 1, 11)))
}

func TestResolve_ExpiryWinsOverCompletion(t *testing.T) {
	created := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	b := &Booking{Status: BookingPending, PaymentOption: PayLater, CreatedAt: created}

	assert.Equal(t, BookingExpired, b.Resolve(date(2025, 1, 20), date(2025, 1, 11)))
}

func TestStatusMessage(t *testing.T) {
	assert.Equal(t, "Booking is pending payment.", StatusMessage(BookingPending))
	assert.Equal(t, "Booking expired due to unpaid balance.", StatusMessage(BookingExpired))
	assert.Equal(t, "Booking status updated.", StatusMessage(BookingStatus("weird")))
}

func TestEffectiveActive(t *testing.T) {
	assert.False(t, EffectiveActive(RoleHotel, true, VerificationPending))
	assert.True(t, EffectiveActive(RoleHotel, true, VerificationApproved))
	assert.False(t, EffectiveActive(RoleHotel, false, VerificationApproved))
	assert.True(t, EffectiveActive(RoleGuest, true, VerificationPending))
}

func TestRoomOverlaps(t *testing.T) {
	r := &Room{CheckinDate: date(2025, 5, 1), CheckoutDate: date(2025, 5, 10)}

	assert.True(t, r.Overlaps(time.Time{}, time.Time{}))
	assert.True(t, r.Overlaps(date(2025, 5, 10), date(2025, 5, 12)))
	assert.False(t, r.Overlaps(date(2025, 5, 11), time.Time{}))
	assert.False(t, r.Overlaps(time.Time{}, date(2025, 4, 30)))
}
