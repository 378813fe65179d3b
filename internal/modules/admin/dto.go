package admin

import "hotelbooking/internal/modules/catalog"

type DashboardResponse struct {
	BookingsCount      int64 `json:"bookings_count"`
	RoomsCount         int64 `json:"rooms_count"`
	AccountsCount      int64 `json:"accounts_count"`
	PendingHotelsCount int64 `json:"pending_hotels_count"`
}

type AccountRequest struct {
	Email              string `json:"email" validate:"required,email"`
	Password           string `json:"password" validate:"omitempty,min=8"`
	FullName           string `json:"full_name" validate:"required,max=150"`
	AccountType        string `json:"account_type" validate:"required,oneof=guest hotel admin"`
	VerificationStatus string `json:"hotel_verification_status" validate:"omitempty,oneof=pending approved rejected"`
	IsActive           *bool  `json:"is_active"`
	Phone              string `json:"phone" validate:"omitempty,max=30"`
	Location           string `json:"location" validate:"omitempty,max=255"`
}

type AccountListFilter struct {
	Role  string `form:"role"`
	Query string `form:"q"` // name/email contains
}

// AdminRoomRequest is a room form with the owning hotel chosen by the admin.
type AdminRoomRequest struct {
	HotelID int64 `json:"hotel_id" validate:"required"`
	catalog.RoomRequest
}
