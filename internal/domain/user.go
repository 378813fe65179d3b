package domain

import "time"

type UserRole string

const (
	RoleGuest UserRole = "guest"
	RoleHotel UserRole = "hotel"
	RoleAdmin UserRole = "admin"
)

func (r UserRole) Valid() bool {
	return r == RoleGuest || r == RoleHotel || r == RoleAdmin
}

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

func (v VerificationStatus) Valid() bool {
	return v == VerificationPending || v == VerificationApproved || v == VerificationRejected
}

type User struct {
	ID                 int64              `json:"id"`
	Email              string             `json:"email" validate:"required,email"`
	PasswordHash       string             `json:"-"`
	Role               UserRole           `json:"role"`
	FullName           string             `json:"full_name"`
	Phone              string             `json:"phone,omitempty"`
	Location           string             `json:"location,omitempty"`
	Description        string             `json:"description,omitempty"`
	VerificationStatus VerificationStatus `json:"hotel_verification_status,omitempty"`
	LicenseImageURL    string             `json:"hotel_license_image,omitempty"`
	ProfilePhotoURL    string             `json:"profile_photo,omitempty"`
	IsActive           bool               `json:"is_active"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// EffectiveActive is the stored is_active flag for an account: hotels stay
// inactive until approved.
func EffectiveActive(role UserRole, active bool, v VerificationStatus) bool {
	if role == RoleHotel {
		return active && v == VerificationApproved
	}
	return active
}

func (u *User) IsHotel() bool { return u.Role == RoleHotel }
func (u *User) IsGuest() bool { return u.Role == RoleGuest }
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
