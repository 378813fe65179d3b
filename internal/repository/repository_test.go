package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"hotelbooking/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:repository_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

func seedRoom(t *testing.T, db *gorm.DB, available int) (*domain.User, *domain.User, *domain.Room) {
	t.Helper()
	ctx := context.Background()
	users := NewUserRepository(db)

	hotel := &domain.User{Email: "hotel@example.com", Role: domain.RoleHotel, FullName: "Seaside", Location: "Nice",
		VerificationStatus: domain.VerificationApproved, IsActive: true}
	require.NoError(t, users.Create(ctx, hotel))
	guest := &domain.User{Email: "Guest@Example.com", Role: domain.RoleGuest, FullName: "Ann", IsActive: true}
	require.NoError(t, users.Create(ctx, guest))

	room := &domain.Room{
		HotelID:        hotel.ID,
		RoomType:       "Double",
		Capacity:       2,
		RatePerNight:   120.5,
		AvailableRooms: available,
		CheckinDate:    time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		CheckoutDate:   time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, NewRoomRepository(db).Create(ctx, room))
	return hotel, guest, room
}

func TestUserRepository_EmailIsLowercasedAndUnique(t *testing.T) {
	db := setupDB(t)
	_, guest, _ := seedRoom(t, db, 1)
	assert.Equal(t, "guest@example.com", guest.Email)

	users := NewUserRepository(db)
	found, err := users.GetByEmail(context.Background(), "GUEST@example.com ")
	require.NoError(t, err)
	assert.Equal(t, guest.ID, found.ID)

	err = users.Create(context.Background(), &domain.User{Email: "guest@example.com", Role: domain.RoleGuest})
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
}

func TestRoomRepository_ReserveNeverGoesNegative(t *testing.T) {
	db := setupDB(t)
	_, _, room := seedRoom(t, db, 2)
	rooms := NewRoomRepository(db)
	ctx := context.Background()

	ok, err := rooms.Reserve(ctx, room.ID, 3)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = rooms.Reserve(ctx, room.ID, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = rooms.Reserve(ctx, room.ID, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, rooms.Release(ctx, room.ID, 2))
	got, err := rooms.GetByID(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.AvailableRooms)
	assert.Equal(t, 5, got.CheckoutDate.Day())
}

func TestBookingRepository_TransitionAppliesOnce(t *testing.T) {
	db := setupDB(t)
	_, guest, room := seedRoom(t, db, 2)
	bookings := NewBookingRepository(db)
	ctx := context.Background()

	b := &domain.Booking{GuestID: guest.ID, RoomID: room.ID, GuestName: "Ann", GuestEmail: guest.Email,
		RoomsCount: 1, PaymentOption: domain.PayLater, Status: domain.BookingPending}
	require.NoError(t, bookings.Create(ctx, b))

	ok, err := bookings.TransitionStatus(ctx, b.ID, domain.BookingPending, domain.BookingExpired)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = bookings.TransitionStatus(ctx, b.ID, domain.BookingPending, domain.BookingExpired)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = bookings.SettlePayment(ctx, b.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBookingRepository_ScopeByHotel(t *testing.T) {
	db := setupDB(t)
	hotel, guest, room := seedRoom(t, db, 5)
	bookings := NewBookingRepository(db)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		require.NoError(t, bookings.Create(ctx, &domain.Booking{GuestID: guest.ID, RoomID: room.ID, GuestName: "Ann",
			GuestEmail: guest.Email, RoomsCount: 1, PaymentOption: domain.PayLater, Status: domain.BookingPending}))
	}

	list, err := bookings.List(ctx, BookingScope{HotelID: hotel.ID})
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.NotNil(t, list[0].Room)
	assert.Equal(t, hotel.ID, list[0].Room.HotelID)

	list, err = bookings.List(ctx, BookingScope{HotelID: hotel.ID + 100})
	require.NoError(t, err)
	assert.Empty(t, list)

	pending, err := bookings.ListAwaitingPayment(ctx, BookingScope{GuestID: guest.ID})
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}

func TestNotificationRepository_InsertIfAbsentDeduplicates(t *testing.T) {
	db := setupDB(t)
	_, guest, room := seedRoom(t, db, 1)
	ctx := context.Background()
	b := &domain.Booking{GuestID: guest.ID, RoomID: room.ID, GuestName: "Ann", GuestEmail: guest.Email,
		RoomsCount: 1, PaymentOption: domain.PayNow, Status: domain.BookingConfirmed}
	require.NoError(t, NewBookingRepository(db).Create(ctx, b))

	notifs := NewNotificationRepository(db)
	n := &domain.BookingNotification{RecipientID: guest.ID, BookingID: b.ID, Kind: domain.StatusKind(domain.BookingConfirmed),
		Message: domain.StatusMessage(domain.BookingConfirmed)}
	inserted, err := notifs.InsertIfAbsent(ctx, n)
	require.NoError(t, err)
	assert.True(t, inserted)

	dup := &domain.BookingNotification{RecipientID: guest.ID, BookingID: b.ID, Kind: domain.StatusKind(domain.BookingConfirmed),
		Message: "again"}
	inserted, err = notifs.InsertIfAbsent(ctx, dup)
	require.NoError(t, err)
	assert.False(t, inserted)

	all, err := notifs.ListByBooking(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Booking is confirmed.", all[0].Message)

	ok, err := notifs.MarkRead(ctx, all[0].ID, guest.ID+1)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = notifs.MarkRead(ctx, all[0].ID, guest.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	unread, err := notifs.CountUnread(ctx, guest.ID)
	require.NoError(t, err)
	assert.Zero(t, unread)
}

func TestNotificationRepository_RefreshMarksUnreadAgain(t *testing.T) {
	db := setupDB(t)
	hotel, guest, room := seedRoom(t, db, 1)
	ctx := context.Background()
	b := &domain.Booking{GuestID: guest.ID, RoomID: room.ID, GuestName: "Ann", GuestEmail: guest.Email,
		RoomsCount: 1, PaymentOption: domain.PayNow, Status: domain.BookingConfirmed}
	require.NoError(t, NewBookingRepository(db).Create(ctx, b))

	notifs := NewNotificationRepository(db)
	n := &domain.BookingNotification{RecipientID: hotel.ID, BookingID: b.ID, Kind: domain.KindReviewUpdated, Message: "first"}
	require.NoError(t, notifs.Refresh(ctx, n))
	_, err := notifs.MarkAllRead(ctx, hotel.ID)
	require.NoError(t, err)

	n2 := &domain.BookingNotification{RecipientID: hotel.ID, BookingID: b.ID, Kind: domain.KindReviewUpdated, Message: "second"}
	require.NoError(t, notifs.Refresh(ctx, n2))
	assert.Equal(t, n.ID, n2.ID)
	assert.False(t, n2.IsRead)
	assert.Equal(t, "second", n2.Message)
}
