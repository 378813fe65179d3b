package admin

import "errors"

var (
	ErrNotFound           = errors.New("account not found")
	ErrSelfDelete         = errors.New("admins cannot delete their own account")
	ErrEmailAlreadyExists = errors.New("email already in use")
	ErrPasswordRequired   = errors.New("password is required")
	ErrAccountInUse       = errors.New("hotel still has bookings")
	ErrInvalidHotel       = errors.New("hotel account not found")
)
