package repository

import (
	"context"
	"errors"
	"time"

	"hotelbooking/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) WithTx(tx *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: tx}
}

type notificationModel struct {
	ID          int64     `gorm:"column:id;primaryKey"`
	RecipientID int64     `gorm:"column:recipient_id;uniqueIndex:ux_notification_recipient_booking_kind,priority:1;index"`
	BookingID   int64     `gorm:"column:booking_id;uniqueIndex:ux_notification_recipient_booking_kind,priority:2"`
	Kind        string    `gorm:"column:kind;size:20;uniqueIndex:ux_notification_recipient_booking_kind,priority:3"`
	Message     string    `gorm:"column:message;size:255"`
	IsRead      bool      `gorm:"column:is_read"`
	CreatedAt   time.Time `gorm:"column:created_at"`

	Recipient *userModel    `gorm:"foreignKey:RecipientID;constraint:OnDelete:CASCADE"`
	Booking   *bookingModel `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE"`
}

func (notificationModel) TableName() string { return "booking_notifications" }

func toDomainNotification(m notificationModel) domain.BookingNotification {
	return domain.BookingNotification{
		ID:          m.ID,
		RecipientID: m.RecipientID,
		BookingID:   m.BookingID,
		Kind:        domain.NotificationKind(m.Kind),
		Message:     m.Message,
		IsRead:      m.IsRead,
		CreatedAt:   m.CreatedAt,
	}
}

var notificationKey = []clause.Column{{Name: "recipient_id"}, {Name: "booking_id"}, {Name: "kind"}}

// InsertIfAbsent stores n unless a row with the same recipient, booking and
// kind exists. It reports whether a row was written.
func (r *NotificationRepository) InsertIfAbsent(ctx context.Context, n *domain.BookingNotification) (bool, error) {
	m := notificationModel{
		RecipientID: n.RecipientID,
		BookingID:   n.BookingID,
		Kind:        string(n.Kind),
		Message:     n.Message,
		CreatedAt:   n.CreatedAt,
	}
	tx := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: notificationKey, DoNothing: true}).
		Create(&m)
	if tx.Error != nil {
		return false, tx.Error
	}
	if tx.RowsAffected == 0 {
		return false, nil
	}
	*n = toDomainNotification(m)
	return true, nil
}

// Refresh stores n, or marks the existing row for the same key unread again
// with the new message.
func (r *NotificationRepository) Refresh(ctx context.Context, n *domain.BookingNotification) error {
	m := notificationModel{
		RecipientID: n.RecipientID,
		BookingID:   n.BookingID,
		Kind:        string(n.Kind),
		Message:     n.Message,
		CreatedAt:   n.CreatedAt,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   notificationKey,
			DoUpdates: clause.AssignmentColumns([]string{"message", "is_read", "created_at"}),
		}).
		Create(&m).Error
	if err != nil {
		return err
	}
	var stored notificationModel
	err = r.db.WithContext(ctx).
		Where("recipient_id = ? AND booking_id = ? AND kind = ?", m.RecipientID, m.BookingID, m.Kind).
		First(&stored).Error
	if err != nil {
		return err
	}
	*n = toDomainNotification(stored)
	return nil
}

func (r *NotificationRepository) ListUnread(ctx context.Context, recipientID int64, limit int) ([]domain.BookingNotification, error) {
	var rows []notificationModel
	q := r.db.WithContext(ctx).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainNotifications(rows), nil
}

func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID int64, limit, offset int) ([]domain.BookingNotification, error) {
	var rows []notificationModel
	err := r.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainNotifications(rows), nil
}

func (r *NotificationRepository) ListByBooking(ctx context.Context, bookingID int64) ([]domain.BookingNotification, error) {
	var rows []notificationModel
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainNotifications(rows), nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, recipientID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&notificationModel{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&n).Error
	return n, err
}

// MarkRead flips is_read for one notification owned by recipientID. It
// reports false when no such notification exists.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, recipientID int64) (bool, error) {
	var m notificationModel
	err := r.db.WithContext(ctx).Where("id = ? AND recipient_id = ?", id, recipientID).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	if m.IsRead {
		return true, nil
	}
	err = r.db.WithContext(ctx).Model(&notificationModel{}).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Update("is_read", true).Error
	return err == nil, err
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, recipientID int64) (int64, error) {
	tx := r.db.WithContext(ctx).Model(&notificationModel{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Update("is_read", true)
	return tx.RowsAffected, tx.Error
}

func (r *NotificationRepository) DeleteByBooking(ctx context.Context, bookingID int64) error {
	return r.db.WithContext(ctx).Where("booking_id = ?", bookingID).Delete(&notificationModel{}).Error
}

func (r *NotificationRepository) DeleteByRecipient(ctx context.Context, recipientID int64) error {
	return r.db.WithContext(ctx).Where("recipient_id = ?", recipientID).Delete(&notificationModel{}).Error
}

func toDomainNotifications(rows []notificationModel) []domain.BookingNotification {
	out := make([]domain.BookingNotification, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainNotification(m))
	}
	return out
}
