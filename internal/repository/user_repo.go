package repository

import (
	"context"
	"strings"
	"time"

	"hotelbooking/internal/domain"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) DB() *gorm.DB { return r.db }

// WithTx returns a copy bound to tx.
func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{db: tx}
}

type userModel struct {
	ID                 int64     `gorm:"column:id;primaryKey"`
	Email              string    `gorm:"column:email;size:254;uniqueIndex"`
	PasswordHash       string    `gorm:"column:password_hash"`
	Role               string    `gorm:"column:role;size:20;index"`
	FullName           string    `gorm:"column:full_name;size:150"`
	Phone              *string   `gorm:"column:phone;size:30"`
	Location           *string   `gorm:"column:location;size:255"`
	Description        *string   `gorm:"column:description;type:text"`
	VerificationStatus *string   `gorm:"column:hotel_verification_status;size:20"`
	LicenseImageURL    *string   `gorm:"column:hotel_license_image"`
	ProfilePhotoURL    *string   `gorm:"column:profile_photo"`
	IsActive           bool      `gorm:"column:is_active"`
	CreatedAt          time.Time `gorm:"column:created_at"`
	UpdatedAt          time.Time `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }

func toDomainUser(m userModel) *domain.User {
	return &domain.User{
		ID:                 m.ID,
		Email:              m.Email,
		PasswordHash:       m.PasswordHash,
		Role:               domain.UserRole(m.Role),
		FullName:           m.FullName,
		Phone:              deref(m.Phone),
		Location:           deref(m.Location),
		Description:        deref(m.Description),
		VerificationStatus: domain.VerificationStatus(deref(m.VerificationStatus)),
		LicenseImageURL:    deref(m.LicenseImageURL),
		ProfilePhotoURL:    deref(m.ProfilePhotoURL),
		IsActive:           m.IsActive,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

func toUserModel(u *domain.User) userModel {
	return userModel{
		ID:                 u.ID,
		Email:              NormalizeEmail(u.Email),
		PasswordHash:       u.PasswordHash,
		Role:               string(u.Role),
		FullName:           u.FullName,
		Phone:              ptr(u.Phone),
		Location:           ptr(u.Location),
		Description:        ptr(u.Description),
		VerificationStatus: ptr(string(u.VerificationStatus)),
		LicenseImageURL:    ptr(u.LicenseImageURL),
		ProfilePhotoURL:    ptr(u.ProfilePhotoURL),
		IsActive:           u.IsActive,
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
	}
}

func NormalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	m := toUserModel(u)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*u = *toDomainUser(m)
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var m userModel
	tx := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", NormalizeEmail(email)).
		First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var m userModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainUser(m), nil
}

// Update saves every column of u, including zero values.
func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	m := toUserModel(u)
	m.UpdatedAt = time.Now()
	tx := r.db.WithContext(ctx).Model(&userModel{ID: m.ID}).
		Select("*").Omit("id", "created_at").
		Updates(&m)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	*u = *toDomainUser(m)
	return nil
}

func (r *UserRepository) UpdateContact(ctx context.Context, id int64, fullName, phone string) error {
	return r.db.WithContext(ctx).Model(&userModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"full_name":  fullName,
			"phone":      ptr(phone),
			"updated_at": time.Now(),
		}).Error
}

func (r *UserRepository) SetMedia(ctx context.Context, id int64, column, url string) error {
	return r.db.WithContext(ctx).Model(&userModel{}).
		Where("id = ?", id).
		Updates(map[string]any{column: url, "updated_at": time.Now()}).Error
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).Delete(&userModel{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type UserFilter struct {
	Role   domain.UserRole
	Search string
}

func (r *UserRepository) List(ctx context.Context, f UserFilter) ([]domain.User, error) {
	q := r.db.WithContext(ctx).Model(&userModel{})
	if f.Role != "" {
		q = q.Where("role = ?", string(f.Role))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(email) LIKE ? OR LOWER(full_name) LIKE ?", like, like)
	}

	var rows []userModel
	if err := q.Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.User, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainUser(m))
	}
	return out, nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&userModel{}).Count(&n).Error
	return n, err
}

func (r *UserRepository) CountByRole(ctx context.Context, role domain.UserRole) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&userModel{}).Where("role = ?", string(role)).Count(&n).Error
	return n, err
}

// CountPendingHotels counts hotel accounts still waiting for verification.
func (r *UserRepository) CountPendingHotels(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&userModel{}).
		Where("role = ? AND hotel_verification_status = ?", string(domain.RoleHotel), string(domain.VerificationPending)).
		Count(&n).Error
	return n, err
}

func ptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
