package booking

import (
	"context"
	"testing"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelete_ReleasesHeldRooms(t *testing.T) {
	f := setup(t, 5)
	ctx := context.Background()

	held, err := f.svc.Checkout(ctx, f.guest, f.room.ID, payNow(2))
	require.NoError(t, err)
	gone, err := f.svc.Checkout(ctx, f.guest, f.room.ID, payLater(1))
	require.NoError(t, err)
	_, err = f.svc.Cancel(ctx, f.guest, gone.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, f.available(t))

	require.NoError(t, f.svc.Delete(ctx, held.ID))
	assert.Equal(t, 5, f.available(t))
	assert.Empty(t, f.notifications(t, held.ID))

	require.NoError(t, f.svc.Delete(ctx, gone.ID))
	assert.Equal(t, 5, f.available(t))

	assert.ErrorIs(t, f.svc.Delete(ctx, held.ID), ErrNotFound)
}

func TestUpdate_StatusChangeFollowsPendingRule(t *testing.T) {
	f := setup(t, 3)
	ctx := context.Background()

	b, err := f.svc.Checkout(ctx, f.guest, f.room.ID, payLater(1))
	require.NoError(t, err)

	got, err := f.svc.Update(ctx, b.ID, AdminBookingUpdate{GuestName: "Ann B", GuestPhone: "+1", Status: "confirmed"})
	require.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, got.Status)
	assert.Equal(t, domain.PayNow, got.PaymentOption)
	assert.Equal(t, "Ann B", got.GuestName)

	_, err = f.svc.Update(ctx, b.ID, AdminBookingUpdate{GuestName: "Changed Name", GuestPhone: "+2", Status: "canceled"})
	assert.ErrorIs(t, err, ErrNotPending)
	assert.Equal(t, 2, f.available(t))

	stored, err := repository.NewBookingRepository(f.db).GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann B", stored.GuestName, "rejected update must not keep contact edits")
	assert.Equal(t, "+1", stored.GuestPhone)
	assert.Equal(t, domain.BookingConfirmed, stored.Status)

	_, err = f.svc.Update(ctx, b.ID, AdminBookingUpdate{GuestName: "Ann", Status: "completed"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateFor_RequiresGuestAccount(t *testing.T) {
	f := setup(t, 3)
	ctx := context.Background()

	_, err := f.svc.CreateFor(ctx, AdminBookingRequest{GuestID: f.hotel.ID, RoomID: f.room.ID, CheckoutRequest: payLater(1)})
	assert.ErrorIs(t, err, ErrValidation)

	b, err := f.svc.CreateFor(ctx, AdminBookingRequest{GuestID: f.guest.ID, RoomID: f.room.ID, CheckoutRequest: payLater(1)})
	require.NoError(t, err)
	assert.Equal(t, f.guest.Email, b.GuestEmail)

	n, err := f.svc.DeleteForGuest(ctx, f.guest.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 3, f.available(t))
}
