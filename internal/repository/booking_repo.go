package repository

import (
	"context"
	"time"

	"hotelbooking/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) DB() *gorm.DB { return r.db }

func (r *BookingRepository) WithTx(tx *gorm.DB) *BookingRepository {
	return &BookingRepository{db: tx}
}

type bookingModel struct {
	ID            int64     `gorm:"column:id;primaryKey"`
	GuestID       int64     `gorm:"column:guest_id;index"`
	RoomID        int64     `gorm:"column:room_id;index"`
	GuestName     string    `gorm:"column:guest_name;size:150"`
	GuestEmail    string    `gorm:"column:guest_email;size:254"`
	GuestPhone    *string   `gorm:"column:guest_phone;size:30"`
	RoomsCount    int       `gorm:"column:rooms_count"`
	PaymentOption string    `gorm:"column:payment_option;size:20"`
	Status        string    `gorm:"column:status;size:20;index"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`

	Guest *userModel `gorm:"foreignKey:GuestID;constraint:OnDelete:CASCADE"`
	Room  *roomModel `gorm:"foreignKey:RoomID;constraint:OnDelete:RESTRICT"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) *domain.Booking {
	b := &domain.Booking{
		ID:            m.ID,
		GuestID:       m.GuestID,
		RoomID:        m.RoomID,
		GuestName:     m.GuestName,
		GuestEmail:    m.GuestEmail,
		GuestPhone:    deref(m.GuestPhone),
		RoomsCount:    m.RoomsCount,
		PaymentOption: domain.PaymentOption(m.PaymentOption),
		Status:        domain.BookingStatus(m.Status),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if m.Room != nil {
		b.Room = toDomainRoom(*m.Room)
	}
	return b
}

func toBookingModel(b *domain.Booking) bookingModel {
	return bookingModel{
		ID:            b.ID,
		GuestID:       b.GuestID,
		RoomID:        b.RoomID,
		GuestName:     b.GuestName,
		GuestEmail:    NormalizeEmail(b.GuestEmail),
		GuestPhone:    ptr(b.GuestPhone),
		RoomsCount:    b.RoomsCount,
		PaymentOption: string(b.PaymentOption),
		Status:        string(b.Status),
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

// Create stores b. A non-zero CreatedAt on b is kept.
func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	m := toBookingModel(b)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	room := b.Room
	*b = *toDomainBooking(m)
	b.Room = room
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel
	if err := r.db.WithContext(ctx).Preload("Room").First(&m, id).Error; err != nil {
		return nil, err
	}
	return toDomainBooking(m), nil
}

// LockByID reads the booking and its room under a row lock on the booking.
func (r *BookingRepository) LockByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Room").
		First(&m, id).Error
	if err != nil {
		return nil, err
	}
	return toDomainBooking(m), nil
}

// TransitionStatus moves the booking from one status to another. It reports
// false when the stored status is no longer from, so concurrent resolvers apply
// a transition at most once.
func (r *BookingRepository) TransitionStatus(ctx context.Context, id int64, from, to domain.BookingStatus) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(map[string]any{"status": string(to), "updated_at": time.Now()})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

// SettlePayment switches a pending pay_later booking to pay_now and confirms it.
func (r *BookingRepository) SettlePayment(ctx context.Context, id int64) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("id = ? AND status = ? AND payment_option = ?", id, string(domain.BookingPending), string(domain.PayLater)).
		Updates(map[string]any{
			"status":         string(domain.BookingConfirmed),
			"payment_option": string(domain.PayNow),
			"updated_at":     time.Now(),
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

// Update is the admin edit path: every editable column is written as given.
func (r *BookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	m := toBookingModel(b)
	tx := r.db.WithContext(ctx).Model(&bookingModel{ID: m.ID}).
		Select("guest_id", "room_id", "guest_name", "guest_email", "guest_phone",
			"rooms_count", "payment_option", "status", "updated_at").
		Updates(&m)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *BookingRepository) Delete(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).Delete(&bookingModel{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// BookingScope narrows a query to a room, a guest or a hotel. Zero fields are
// not applied.
type BookingScope struct {
	RoomID  int64
	GuestID int64
	HotelID int64
}

func (s BookingScope) apply(q *gorm.DB) *gorm.DB {
	if s.HotelID != 0 {
		q = q.Joins("JOIN rooms ON rooms.id = bookings.room_id").
			Where("rooms.hotel_id = ?", s.HotelID)
	}
	if s.RoomID != 0 {
		q = q.Where("bookings.room_id = ?", s.RoomID)
	}
	if s.GuestID != 0 {
		q = q.Where("bookings.guest_id = ?", s.GuestID)
	}
	return q
}

// List returns bookings in scope with their rooms, newest first.
func (r *BookingRepository) List(ctx context.Context, scope BookingScope) ([]domain.Booking, error) {
	q := scope.apply(r.db.WithContext(ctx).Model(&bookingModel{}).Select("bookings.*")).
		Preload("Room").
		Preload("Room.Hotel").
		Order("bookings.created_at DESC, bookings.id DESC")

	var rows []bookingModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainBookings(rows), nil
}

// ListAwaitingPayment returns pending pay_later bookings in scope.
func (r *BookingRepository) ListAwaitingPayment(ctx context.Context, scope BookingScope) ([]domain.Booking, error) {
	q := scope.apply(r.db.WithContext(ctx).Model(&bookingModel{}).Select("bookings.*")).
		Where("bookings.status = ? AND bookings.payment_option = ?", string(domain.BookingPending), string(domain.PayLater)).
		Order("bookings.id ASC")

	var rows []bookingModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainBookings(rows), nil
}

func (r *BookingRepository) CountByRoom(ctx context.Context, roomID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&bookingModel{}).Where("room_id = ?", roomID).Count(&n).Error
	return n, err
}

func (r *BookingRepository) CountByHotel(ctx context.Context, hotelID int64) (int64, error) {
	var n int64
	err := BookingScope{HotelID: hotelID}.apply(r.db.WithContext(ctx).Model(&bookingModel{})).Count(&n).Error
	return n, err
}

func (r *BookingRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&bookingModel{}).Count(&n).Error
	return n, err
}

// LatestReviewable returns the most recently created confirmed or completed
// booking of the guest on any room of the hotel.
func (r *BookingRepository) LatestReviewable(ctx context.Context, guestID, hotelID int64) (*domain.Booking, error) {
	var m bookingModel
	err := BookingScope{GuestID: guestID, HotelID: hotelID}.
		apply(r.db.WithContext(ctx).Model(&bookingModel{}).Select("bookings.*")).
		Where("bookings.status IN ?", []string{string(domain.BookingConfirmed), string(domain.BookingCompleted)}).
		Order("bookings.created_at DESC, bookings.id DESC").
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return toDomainBooking(m), nil
}

func toDomainBookings(rows []bookingModel) []domain.Booking {
	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainBooking(m))
	}
	return out
}
