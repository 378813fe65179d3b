package repository

import (
	"context"
	"time"

	"hotelbooking/internal/domain"

	"gorm.io/gorm"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) DB() *gorm.DB { return r.db }

func (r *ReviewRepository) WithTx(tx *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: tx}
}

type reviewModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	GuestID   int64     `gorm:"column:guest_id;uniqueIndex:ux_review_guest_hotel,priority:1"`
	HotelID   int64     `gorm:"column:hotel_id;uniqueIndex:ux_review_guest_hotel,priority:2;index"`
	BookingID int64     `gorm:"column:booking_id;index"`
	Rating    int       `gorm:"column:rating"`
	Comment   string    `gorm:"column:comment;type:text"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`

	Guest   *userModel    `gorm:"foreignKey:GuestID;constraint:OnDelete:CASCADE"`
	Booking *bookingModel `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE"`
}

func (reviewModel) TableName() string { return "booking_reviews" }

func toDomainReview(m reviewModel) *domain.Review {
	rv := &domain.Review{
		ID:        m.ID,
		GuestID:   m.GuestID,
		HotelID:   m.HotelID,
		BookingID: m.BookingID,
		Rating:    m.Rating,
		Comment:   m.Comment,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.Guest != nil {
		rv.GuestName = m.Guest.FullName
	}
	return rv
}

func (r *ReviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	m := reviewModel{
		GuestID:   rv.GuestID,
		HotelID:   rv.HotelID,
		BookingID: rv.BookingID,
		Rating:    rv.Rating,
		Comment:   rv.Comment,
		CreatedAt: rv.CreatedAt,
		UpdatedAt: rv.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*rv = *toDomainReview(m)
	return nil
}

func (r *ReviewRepository) GetByGuestAndHotel(ctx context.Context, guestID, hotelID int64) (*domain.Review, error) {
	var m reviewModel
	err := r.db.WithContext(ctx).
		Where("guest_id = ? AND hotel_id = ?", guestID, hotelID).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return toDomainReview(m), nil
}

// UpdateContent rewrites rating and comment and bumps updated_at.
func (r *ReviewRepository) UpdateContent(ctx context.Context, id int64, rating int, comment string, at time.Time) error {
	tx := r.db.WithContext(ctx).Model(&reviewModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"rating": rating, "comment": comment, "updated_at": at})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ReviewRepository) ListByHotel(ctx context.Context, hotelID int64) ([]domain.Review, error) {
	var rows []reviewModel
	err := r.db.WithContext(ctx).
		Preload("Guest").
		Where("hotel_id = ?", hotelID).
		Order("updated_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.Review, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainReview(m))
	}
	return out, nil
}

func (r *ReviewRepository) ListByGuest(ctx context.Context, guestID int64) ([]domain.Review, error) {
	var rows []reviewModel
	err := r.db.WithContext(ctx).
		Where("guest_id = ?", guestID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.Review, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainReview(m))
	}
	return out, nil
}

type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

func (r *ReviewRepository) SummaryByHotel(ctx context.Context, hotelID int64) (RatingSummary, error) {
	var s RatingSummary
	err := r.db.WithContext(ctx).Model(&reviewModel{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("hotel_id = ?", hotelID).
		Scan(&s).Error
	return s, err
}

// DeleteByBooking drops reviews anchored to a booking that is going away.
func (r *ReviewRepository) DeleteByBooking(ctx context.Context, bookingID int64) error {
	return r.db.WithContext(ctx).Where("booking_id = ?", bookingID).Delete(&reviewModel{}).Error
}
