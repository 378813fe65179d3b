package auth

import (
	"context"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/repository"
)

// UserRepositoryInterface lists the account store methods the auth service uses.
type UserRepositoryInterface interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	SetMedia(ctx context.Context, id int64, column, url string) error
}

type tokenIssuer interface {
	GenerateToken(userID int64, role string) (string, error)
}

var _ UserRepositoryInterface = (*repository.UserRepository)(nil)
