package admin

import (
	"context"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/repository"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f repository.UserFilter) ([]domain.User, error)
	Count(ctx context.Context) (int64, error)
	CountPendingHotels(ctx context.Context) (int64, error)
}

type RoomCounter interface {
	Count(ctx context.Context) (int64, error)
}

type BookingCounter interface {
	Count(ctx context.Context) (int64, error)
	CountByHotel(ctx context.Context, hotelID int64) (int64, error)
}

type NotificationCleaner interface {
	DeleteByRecipient(ctx context.Context, recipientID int64) error
}

var (
	_ UserRepository      = (*repository.UserRepository)(nil)
	_ RoomCounter         = (*repository.RoomRepository)(nil)
	_ BookingCounter      = (*repository.BookingRepository)(nil)
	_ NotificationCleaner = (*repository.NotificationRepository)(nil)
)
