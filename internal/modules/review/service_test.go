package review

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/metrics"
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
	hotel *domain.User
	guest *domain.User
	room  *domain.Room
}

func setup(t *testing.T) *fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:review_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	hotel := &domain.User{Email: "hotel@example.com", Role: domain.RoleHotel, FullName: "Seaside Inn", IsActive: true}
	guest := &domain.User{Email: "ann@example.com", Role: domain.RoleGuest, FullName: "Ann", IsActive: true}
	require.NoError(t, users.Create(ctx, hotel))
	require.NoError(t, users.Create(ctx, guest))

	room := &domain.Room{HotelID: hotel.ID, RoomType: "Suite", Capacity: 2, RatePerNight: 300, AvailableRooms: 4,
		CheckinDate: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC), CheckoutDate: time.Date(2025, 8, 4, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, repository.NewRoomRepository(db).Create(ctx, room))

	log := logger.Discard()
	notifs := notification.NewService(repository.NewNotificationRepository(db), nil, metrics.Nop(), log)
	svc := NewService(db, repository.NewReviewRepository(db), repository.NewBookingRepository(db), users, notifs, log)
	return &fixture{db: db, svc: svc, hotel: hotel, guest: guest, room: room}
}

func (f *fixture) book(t *testing.T, status domain.BookingStatus) *domain.Booking {
	t.Helper()
	b := &domain.Booking{GuestID: f.guest.ID, RoomID: f.room.ID, GuestName: "Ann", GuestEmail: f.guest.Email,
		RoomsCount: 1, PaymentOption: domain.PayNow, Status: status}
	require.NoError(t, repository.NewBookingRepository(f.db).Create(context.Background(), b))
	return b
}

func TestSubmit_RequiresEligibleBooking(t *testing.T) {
	f := setup(t)
	f.book(t, domain.BookingCanceled)
	f.book(t, domain.BookingPending)

	_, _, err := f.svc.Submit(context.Background(), f.guest, SubmitReviewRequest{HotelID: f.hotel.ID, Rating: 4})
	assert.ErrorIs(t, err, ErrReviewNotAllowed)
}

func TestSubmit_SecondSubmissionUpdatesInPlace(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.book(t, domain.BookingCompleted)
	latest := f.book(t, domain.BookingConfirmed)

	first, created, err := f.svc.Submit(ctx, f.guest, SubmitReviewRequest{HotelID: f.hotel.ID, Rating: 3, Comment: "ok"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, latest.ID, first.BookingID)

	second, created, err := f.svc.Submit(ctx, f.guest, SubmitReviewRequest{HotelID: f.hotel.ID, Rating: 5, Comment: " great "})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	out, err := f.svc.ForHotel(ctx, f.hotel.ID)
	require.NoError(t, err)
	require.Len(t, out.Reviews, 1)
	assert.Equal(t, 5, out.Reviews[0].Rating)
	assert.Equal(t, "great", out.Reviews[0].Comment)
	assert.Equal(t, "Ann", out.Reviews[0].GuestName)
	assert.EqualValues(t, 1, out.Summary.Count)
	assert.InDelta(t, 5.0, out.Summary.Average, 0.001)
}

func TestSubmit_NotifiesHotelOnly(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	b := f.book(t, domain.BookingConfirmed)

	_, _, err := f.svc.Submit(ctx, f.guest, SubmitReviewRequest{HotelID: f.hotel.ID, Rating: 4})
	require.NoError(t, err)
	_, _, err = f.svc.Submit(ctx, f.guest, SubmitReviewRequest{HotelID: f.hotel.ID, Rating: 2})
	require.NoError(t, err)

	list, err := repository.NewNotificationRepository(f.db).ListByBooking(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, n := range list {
		assert.Equal(t, f.hotel.ID, n.RecipientID)
		assert.True(t, n.Kind.IsReview())
	}
	assert.Equal(t, domain.KindReviewAdded, list[0].Kind)
	assert.Equal(t, domain.KindReviewUpdated, list[1].Kind)
}

func TestSubmit_UnknownHotel(t *testing.T) {
	f := setup(t)
	_, _, err := f.svc.Submit(context.Background(), f.guest, SubmitReviewRequest{HotelID: f.guest.ID, Rating: 4})
	assert.ErrorIs(t, err, ErrNotFound)

	_, _, err = f.svc.Submit(context.Background(), f.guest, SubmitReviewRequest{HotelID: f.hotel.ID, Rating: 9})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

// raceReviewInsert makes the next n "no review yet" lookups followed by a
// competing insert of the same guest+hotel review inside the caller's
// transaction, so the following Create hits the unique index.
func (f *fixture) raceReviewInsert(t *testing.T, bookingID int64, n *int) {
	t.Helper()
	err := f.db.Callback().Query().After("gorm:query").Register("review_test:race", func(db *gorm.DB) {
		if db.Statement.Table != "booking_reviews" || !errors.Is(db.Error, gorm.ErrRecordNotFound) || *n == 0 {
			return
		}
		*n--
		now := time.Now()
		_, err := db.Statement.ConnPool.ExecContext(db.Statement.Context,
			"INSERT INTO booking_reviews (guest_id, hotel_id, booking_id, rating, comment, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
			f.guest.ID, f.hotel.ID, bookingID, 1, "other tab", now, now)
		require.NoError(t, err)
	})
	require.NoError(t, err)
}

func TestSubmit_UniqueRaceRetriesOnce(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	b := f.book(t, domain.BookingConfirmed)

	races := 1
	f.raceReviewInsert(t, b.ID, &races)
	rv, _, err := f.svc.Submit(ctx, f.guest, SubmitReviewRequest{HotelID: f.hotel.ID, Rating: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, rv.Rating)
	assert.Zero(t, races)
}

func TestSubmit_UniqueRaceGivesUpAfterOneRetry(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	b := f.book(t, domain.BookingConfirmed)

	races := 5
	f.raceReviewInsert(t, b.ID, &races)
	_, _, err := f.svc.Submit(ctx, f.guest, SubmitReviewRequest{HotelID: f.hotel.ID, Rating: 4})
	require.Error(t, err)
	assert.True(t, repository.IsUniqueViolation(err))
	assert.Equal(t, 3, races, "first attempt plus a single retry")
}
