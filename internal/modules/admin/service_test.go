package admin

import (
	"context"
	"fmt"
	"testing"

	"hotelbooking/internal/cache"
	"hotelbooking/internal/domain"
	"hotelbooking/internal/metrics"
	"hotelbooking/internal/modules/booking"
	"hotelbooking/internal/modules/catalog"
	"hotelbooking/internal/modules/notification"
	"hotelbooking/internal/pkg/logger"
	"hotelbooking/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type fixture struct {
	db    *gorm.DB
	svc   *Service
	admin *domain.User
	hotel *domain.User
	guest *domain.User
}

func setup(t *testing.T) *fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:admin_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, repository.Migrate(db))

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	admin := &domain.User{Email: "root@example.com", Role: domain.RoleAdmin, FullName: "Root", IsActive: true}
	hotel := &domain.User{Email: "inn@example.com", Role: domain.RoleHotel, FullName: "Inn",
		VerificationStatus: domain.VerificationPending}
	guest := &domain.User{Email: "ann@example.com", Role: domain.RoleGuest, FullName: "Ann", IsActive: true}
	for _, u := range []*domain.User{admin, hotel, guest} {
		require.NoError(t, users.Create(ctx, u))
	}

	log := logger.Discard()
	m := metrics.Nop()
	rooms := repository.NewRoomRepository(db)
	bookings := repository.NewBookingRepository(db)
	reviews := repository.NewReviewRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	roomCache := cache.NewRoomCache(nil, 0, log)

	catalogSvc := catalog.NewService(db, rooms, bookings, reviews, roomCache, m, log)
	bookingSvc := booking.NewService(booking.Deps{
		DB:            db,
		Bookings:      bookings,
		Rooms:         rooms,
		Users:         users,
		Reviews:       reviews,
		Notifications: notification.NewService(notifRepo, nil, m, log),
		Cache:         roomCache,
		Metrics:       m,
		Log:           log,
	})

	svc := NewService(users, rooms, bookings, notifRepo, catalogSvc, bookingSvc, log)
	return &fixture{db: db, svc: svc, admin: admin, hotel: hotel, guest: guest}
}

func (f *fixture) room(t *testing.T, available int) *domain.Room {
	t.Helper()
	room, err := f.svc.CreateRoom(context.Background(), AdminRoomRequest{HotelID: f.hotel.ID, RoomRequest: catalog.RoomRequest{
		RoomType: "Twin", Capacity: 2, RatePerNight: 80, AvailableRooms: available,
		CheckinDate: "2099-01-10", CheckoutDate: "2099-01-12",
	}})
	require.NoError(t, err)
	return room
}

func boolPtr(b bool) *bool { return &b }

func TestUpdateAccount_HotelActiveOnlyWhenApproved(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	req := AccountRequest{Email: f.hotel.Email, FullName: "Inn", AccountType: "hotel",
		VerificationStatus: "pending", IsActive: boolPtr(true)}
	u, err := f.svc.UpdateAccount(ctx, f.hotel.ID, req)
	require.NoError(t, err)
	assert.False(t, u.IsActive)

	req.VerificationStatus = "approved"
	u, err = f.svc.UpdateAccount(ctx, f.hotel.ID, req)
	require.NoError(t, err)
	assert.True(t, u.IsActive)

	req.IsActive = boolPtr(false)
	u, err = f.svc.UpdateAccount(ctx, f.hotel.ID, req)
	require.NoError(t, err)
	assert.False(t, u.IsActive)

	req = AccountRequest{Email: f.guest.Email, FullName: "Ann", AccountType: "guest", VerificationStatus: "rejected"}
	u, err = f.svc.UpdateAccount(ctx, f.guest.ID, req)
	require.NoError(t, err)
	assert.True(t, u.IsActive)
	assert.Empty(t, u.VerificationStatus)
}

func TestCreateAccount_Rejections(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.CreateAccount(ctx, AccountRequest{Email: "new@example.com", FullName: "New", AccountType: "guest"})
	assert.ErrorIs(t, err, ErrPasswordRequired)

	_, err = f.svc.CreateAccount(ctx, AccountRequest{Email: "ANN@example.com", Password: "long-enough",
		FullName: "Dup", AccountType: "guest"})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)

	u, err := f.svc.CreateAccount(ctx, AccountRequest{Email: "new@example.com", Password: "long-enough",
		FullName: "New Hotel", AccountType: "hotel"})
	require.NoError(t, err)
	assert.Equal(t, domain.VerificationPending, u.VerificationStatus)
	assert.False(t, u.IsActive)
}

func TestDeleteAccount(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	assert.ErrorIs(t, f.svc.DeleteAccount(ctx, f.admin.ID, f.admin.ID), ErrSelfDelete)

	room := f.room(t, 4)
	_, err := f.svc.CreateBooking(ctx, booking.AdminBookingRequest{GuestID: f.guest.ID, RoomID: room.ID,
		CheckoutRequest: booking.CheckoutRequest{FullName: "Ann", RoomsCount: 3, PaymentOption: "pay_later"}})
	require.Error(t, err, "inactive hotel rooms are not bookable")

	_, err = f.svc.UpdateAccount(ctx, f.hotel.ID, AccountRequest{Email: f.hotel.Email, FullName: "Inn",
		AccountType: "hotel", VerificationStatus: "approved"})
	require.NoError(t, err)
	_, err = f.svc.CreateBooking(ctx, booking.AdminBookingRequest{GuestID: f.guest.ID, RoomID: room.ID,
		CheckoutRequest: booking.CheckoutRequest{FullName: "Ann", RoomsCount: 3, PaymentOption: "pay_later"}})
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.DeleteAccount(ctx, f.admin.ID, f.hotel.ID), ErrAccountInUse)

	require.NoError(t, f.svc.DeleteAccount(ctx, f.admin.ID, f.guest.ID))
	r, err := repository.NewRoomRepository(f.db).GetByID(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, r.AvailableRooms)

	require.NoError(t, f.svc.DeleteAccount(ctx, f.admin.ID, f.hotel.ID))
	_, err = f.svc.GetAccount(ctx, f.hotel.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	stats, err := f.svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.AccountsCount)
	assert.Zero(t, stats.RoomsCount)
	assert.Zero(t, stats.BookingsCount)
}

func TestDashboard_CountsPendingHotels(t *testing.T) {
	f := setup(t)
	f.room(t, 1)

	stats, err := f.svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.AccountsCount)
	assert.EqualValues(t, 1, stats.RoomsCount)
	assert.EqualValues(t, 1, stats.PendingHotelsCount)
}

func TestCreateRoom_RequiresHotelAccount(t *testing.T) {
	f := setup(t)
	_, err := f.svc.CreateRoom(context.Background(), AdminRoomRequest{HotelID: f.guest.ID, RoomRequest: catalog.RoomRequest{
		RoomType: "Twin", Capacity: 2, CheckinDate: "2099-01-10", CheckoutDate: "2099-01-12",
	}})
	assert.ErrorIs(t, err, ErrInvalidHotel)
}
