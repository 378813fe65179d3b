package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/modules/booking"
	"hotelbooking/internal/modules/catalog"
	"hotelbooking/internal/repository"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Service struct {
	userRepo    UserRepository
	roomRepo    RoomCounter
	bookingRepo BookingCounter
	notifRepo   NotificationCleaner
	catalog     *catalog.Service
	bookings    *booking.Service
	log         *logrus.Logger
}

func NewService(
	userRepo UserRepository,
	roomRepo RoomCounter,
	bookingRepo BookingCounter,
	notifRepo NotificationCleaner,
	catalogSvc *catalog.Service,
	bookingSvc *booking.Service,
	log *logrus.Logger,
) *Service {
	return &Service{
		userRepo:    userRepo,
		roomRepo:    roomRepo,
		bookingRepo: bookingRepo,
		notifRepo:   notifRepo,
		catalog:     catalogSvc,
		bookings:    bookingSvc,
		log:         log,
	}
}

func (s *Service) Dashboard(ctx context.Context) (*DashboardResponse, error) {
	var (
		out DashboardResponse
		err error
	)
	if out.BookingsCount, err = s.bookingRepo.Count(ctx); err != nil {
		return nil, err
	}
	if out.RoomsCount, err = s.roomRepo.Count(ctx); err != nil {
		return nil, err
	}
	if out.AccountsCount, err = s.userRepo.Count(ctx); err != nil {
		return nil, err
	}
	if out.PendingHotelsCount, err = s.userRepo.CountPendingHotels(ctx); err != nil {
		return nil, err
	}
	return &out, nil
}

// -------------------- Rooms --------------------

func (s *Service) ListRooms(ctx context.Context) ([]domain.Room, error) {
	return s.catalog.ListAll(ctx)
}

func (s *Service) CreateRoom(ctx context.Context, req AdminRoomRequest) (*domain.Room, error) {
	hotel, err := s.userRepo.GetByID(ctx, req.HotelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidHotel
		}
		return nil, err
	}
	if !hotel.IsHotel() {
		return nil, ErrInvalidHotel
	}
	return s.catalog.CreateRoom(ctx, hotel.ID, req.RoomRequest)
}

func (s *Service) UpdateRoom(ctx context.Context, id int64, req catalog.RoomRequest) (*domain.Room, error) {
	return s.catalog.UpdateRoom(ctx, id, req)
}

func (s *Service) DeleteRoom(ctx context.Context, id int64) (*catalog.DeleteResult, error) {
	return s.catalog.DeleteRoom(ctx, id)
}

// -------------------- Bookings --------------------

func (s *Service) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	return s.bookings.All(ctx)
}

func (s *Service) GetBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	return s.bookings.Get(ctx, id)
}

func (s *Service) CreateBooking(ctx context.Context, req booking.AdminBookingRequest) (*domain.Booking, error) {
	return s.bookings.CreateFor(ctx, req)
}

func (s *Service) UpdateBooking(ctx context.Context, id int64, req booking.AdminBookingUpdate) (*domain.Booking, error) {
	return s.bookings.Update(ctx, id, req)
}

func (s *Service) DeleteBooking(ctx context.Context, id int64) error {
	return s.bookings.Delete(ctx, id)
}

// -------------------- Accounts --------------------

func (s *Service) ListAccounts(ctx context.Context, f AccountListFilter) ([]domain.User, error) {
	return s.userRepo.List(ctx, repository.UserFilter{Role: domain.UserRole(f.Role), Search: f.Query})
}

func (s *Service) GetAccount(ctx context.Context, id int64) (*domain.User, error) {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *Service) CreateAccount(ctx context.Context, req AccountRequest) (*domain.User, error) {
	if req.Password == "" {
		return nil, ErrPasswordRequired
	}
	if err := s.emailFree(ctx, req.Email, 0); err != nil {
		return nil, err
	}

	u := &domain.User{}
	if err := applyAccount(u, req); err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("create account: %w", err)
	}
	s.log.WithFields(logrus.Fields{"user_id": u.ID, "role": u.Role, "is_active": u.IsActive}).Info("account created by admin")
	return u, nil
}

// UpdateAccount rewrites an account. For hotels the stored is_active is the
// requested flag only once verification is approved.
func (s *Service) UpdateAccount(ctx context.Context, id int64, req AccountRequest) (*domain.User, error) {
	u, err := s.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.emailFree(ctx, req.Email, id); err != nil {
		return nil, err
	}
	if err := applyAccount(u, req); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, u); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("update account %d: %w", id, err)
	}
	s.log.WithFields(logrus.Fields{
		"user_id":      u.ID,
		"role":         u.Role,
		"verification": u.VerificationStatus,
		"is_active":    u.IsActive,
	}).Info("account updated by admin")
	return u, nil
}

// DeleteAccount removes an account other than the caller's own. Guest
// bookings are deleted first so their rooms are released; a hotel whose rooms
// have bookings is refused.
func (s *Service) DeleteAccount(ctx context.Context, adminID, id int64) error {
	if adminID == id {
		return ErrSelfDelete
	}
	u, err := s.GetAccount(ctx, id)
	if err != nil {
		return err
	}

	switch u.Role {
	case domain.RoleGuest:
		if _, err := s.bookings.DeleteForGuest(ctx, u.ID); err != nil {
			return err
		}
	case domain.RoleHotel:
		n, err := s.bookingRepo.CountByHotel(ctx, u.ID)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrAccountInUse
		}
		rooms, err := s.catalog.ListByHotel(ctx, u.ID)
		if err != nil {
			return err
		}
		for _, r := range rooms {
			if _, err := s.catalog.DeleteRoom(ctx, r.ID); err != nil && !errors.Is(err, catalog.ErrNotFound) {
				return err
			}
		}
	}

	if err := s.notifRepo.DeleteByRecipient(ctx, u.ID); err != nil {
		return fmt.Errorf("drop notifications: %w", err)
	}
	if err := s.userRepo.Delete(ctx, u.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.log.WithFields(logrus.Fields{"user_id": u.ID, "role": u.Role, "admin_id": adminID}).Info("account deleted")
	return nil
}

func (s *Service) emailFree(ctx context.Context, email string, selfID int64) error {
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return ErrEmailAlreadyExists
	}
	return nil
}

func applyAccount(u *domain.User, req AccountRequest) error {
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		u.PasswordHash = string(hash)
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	u.Email = repository.NormalizeEmail(req.Email)
	u.FullName = strings.TrimSpace(req.FullName)
	u.Role = domain.UserRole(req.AccountType)
	u.Phone = strings.TrimSpace(req.Phone)
	u.Location = strings.TrimSpace(req.Location)

	u.VerificationStatus = ""
	if u.IsHotel() {
		u.VerificationStatus = domain.VerificationStatus(req.VerificationStatus)
		if u.VerificationStatus == "" {
			u.VerificationStatus = domain.VerificationPending
		}
	}
	u.IsActive = domain.EffectiveActive(u.Role, active, u.VerificationStatus)
	return nil
}
