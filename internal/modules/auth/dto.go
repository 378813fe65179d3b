package auth

import "hotelbooking/internal/domain"

// SignupRequest binds from JSON or from a multipart form; hotels may attach
// their license image as the "license" file part.
type SignupRequest struct {
	AccountType     string `json:"account_type" form:"account_type" validate:"required,oneof=guest hotel"`
	FullName        string `json:"full_name" form:"full_name" validate:"required,max=150"`
	Email           string `json:"email" form:"email" validate:"required,email"`
	Password        string `json:"password" form:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password" validate:"required"`
}

type LoginRequest struct {
	AccountType string `json:"account_type" validate:"required,oneof=guest hotel admin"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	FullName    string `json:"full_name" validate:"required,max=150"`
	Phone       string `json:"phone" validate:"omitempty,max=30"`
	Location    string `json:"location" validate:"omitempty,max=255"`
	Description string `json:"description" validate:"omitempty,max=2000"`
}

// AuthResult carries a token only for accounts that may sign in right away.
type AuthResult struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token,omitempty"`
}

type MediaKind string

const (
	MediaProfilePhoto MediaKind = "profile_photo"
	MediaLicense      MediaKind = "hotel_license_image"
)
