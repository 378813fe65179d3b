package repository

import (
	"context"
	"strings"
	"time"

	"hotelbooking/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

func (r *RoomRepository) DB() *gorm.DB { return r.db }

func (r *RoomRepository) WithTx(tx *gorm.DB) *RoomRepository {
	return &RoomRepository{db: tx}
}

type roomModel struct {
	ID             int64     `gorm:"column:id;primaryKey"`
	HotelID        int64     `gorm:"column:hotel_id;index"`
	RoomType       string    `gorm:"column:room_type;size:100"`
	Capacity       int       `gorm:"column:capacity"`
	RatePerNight   float64   `gorm:"column:rate_per_night;type:decimal(8,2)"`
	AvailableRooms int       `gorm:"column:available_rooms"`
	CheckinDate    time.Time `gorm:"column:checkin_date;type:date"`
	CheckoutDate   time.Time `gorm:"column:checkout_date;type:date"`
	PhotoURL       *string   `gorm:"column:photo_url"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`

	Hotel *userModel `gorm:"foreignKey:HotelID;constraint:OnDelete:CASCADE"`
}

func (roomModel) TableName() string { return "rooms" }

func toDomainRoom(m roomModel) *domain.Room {
	r := &domain.Room{
		ID:             m.ID,
		HotelID:        m.HotelID,
		RoomType:       m.RoomType,
		Capacity:       m.Capacity,
		RatePerNight:   m.RatePerNight,
		AvailableRooms: m.AvailableRooms,
		CheckinDate:    m.CheckinDate.UTC(),
		CheckoutDate:   m.CheckoutDate.UTC(),
		PhotoURL:       deref(m.PhotoURL),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
	if m.Hotel != nil {
		r.Hotel = toDomainUser(*m.Hotel)
	}
	return r
}

func toRoomModel(r *domain.Room) roomModel {
	return roomModel{
		ID:             r.ID,
		HotelID:        r.HotelID,
		RoomType:       strings.TrimSpace(r.RoomType),
		Capacity:       r.Capacity,
		RatePerNight:   r.RatePerNight,
		AvailableRooms: r.AvailableRooms,
		CheckinDate:    r.CheckinDate,
		CheckoutDate:   r.CheckoutDate,
		PhotoURL:       ptr(r.PhotoURL),
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func (r *RoomRepository) Create(ctx context.Context, room *domain.Room) error {
	m := toRoomModel(room)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*room = *toDomainRoom(m)
	return nil
}

func (r *RoomRepository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	var m roomModel
	if err := r.db.WithContext(ctx).Preload("Hotel").First(&m, id).Error; err != nil {
		return nil, err
	}
	return toDomainRoom(m), nil
}

// LockByID reads the room under a row lock. Must run inside a transaction.
func (r *RoomRepository) LockByID(ctx context.Context, id int64) (*domain.Room, error) {
	var m roomModel
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&m, id).Error
	if err != nil {
		return nil, err
	}
	return toDomainRoom(m), nil
}

// Update overwrites the descriptive columns and the availability counter.
func (r *RoomRepository) Update(ctx context.Context, room *domain.Room) error {
	m := toRoomModel(room)
	tx := r.db.WithContext(ctx).Model(&roomModel{ID: m.ID}).
		Select("hotel_id", "room_type", "capacity", "rate_per_night", "available_rooms",
			"checkin_date", "checkout_date", "photo_url", "updated_at").
		Updates(&m)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *RoomRepository) SetPhoto(ctx context.Context, id int64, url string) error {
	return r.db.WithContext(ctx).Model(&roomModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"photo_url": url, "updated_at": time.Now()}).Error
}

func (r *RoomRepository) Delete(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).Delete(&roomModel{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Reserve takes n rooms from the counter. It reports false when fewer than n
// are left; the counter never goes negative.
func (r *RoomRepository) Reserve(ctx context.Context, id int64, n int) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&roomModel{}).
		Where("id = ? AND available_rooms >= ?", id, n).
		UpdateColumn("available_rooms", gorm.Expr("available_rooms - ?", n))
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

func (r *RoomRepository) Release(ctx context.Context, id int64, n int) error {
	return r.db.WithContext(ctx).Model(&roomModel{}).
		Where("id = ?", id).
		UpdateColumn("available_rooms", gorm.Expr("available_rooms + ?", n)).Error
}

func (r *RoomRepository) SetAvailability(ctx context.Context, id int64, n int) error {
	return r.db.WithContext(ctx).Model(&roomModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"available_rooms": n, "updated_at": time.Now()}).Error
}

func (r *RoomRepository) ListByHotel(ctx context.Context, hotelID int64) ([]domain.Room, error) {
	var rows []roomModel
	err := r.db.WithContext(ctx).
		Where("hotel_id = ?", hotelID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainRooms(rows), nil
}

func (r *RoomRepository) ListAll(ctx context.Context) ([]domain.Room, error) {
	var rows []roomModel
	err := r.db.WithContext(ctx).Preload("Hotel").Order("created_at DESC, id DESC").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainRooms(rows), nil
}

type RoomFilter struct {
	Location string
	Guests   int
}

// Search returns bookable rooms of active hotels. Date overlap is applied by
// the caller on the calendar dates.
func (r *RoomRepository) Search(ctx context.Context, f RoomFilter) ([]domain.Room, error) {
	q := r.db.WithContext(ctx).
		Select("rooms.*").
		Preload("Hotel").
		Joins("JOIN users ON users.id = rooms.hotel_id").
		Where("rooms.available_rooms > 0").
		Where("users.is_active = ? AND users.role = ?", true, string(domain.RoleHotel))

	if loc := strings.TrimSpace(f.Location); loc != "" {
		q = q.Where("LOWER(users.location) LIKE ?", "%"+strings.ToLower(loc)+"%")
	}
	if f.Guests > 0 {
		q = q.Where("rooms.capacity >= ?", f.Guests)
	}

	var rows []roomModel
	if err := q.Order("rooms.rate_per_night ASC, rooms.id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainRooms(rows), nil
}

func (r *RoomRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&roomModel{}).Count(&n).Error
	return n, err
}

func toDomainRooms(rows []roomModel) []domain.Room {
	out := make([]domain.Room, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainRoom(m))
	}
	return out
}
