package auth

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrEmailAlreadyExists  = errors.New("email already exists")
	ErrPasswordMismatch    = errors.New("passwords do not match")
	ErrAccountTypeMismatch = errors.New("account type does not match this user")
	ErrAccountInactive     = errors.New("account is inactive")
	ErrNotHotel            = errors.New("only hotel accounts can upload a license")
	ErrUnauthorized        = errors.New("unauthorized")
)
