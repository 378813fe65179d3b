package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/repository"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Service contains all business logic for authentication and profiles
type Service struct {
	users UserRepositoryInterface
	jwt   tokenIssuer
	log   *logrus.Logger
}

func NewService(users UserRepositoryInterface, jwt tokenIssuer, log *logrus.Logger) *Service {
	return &Service{users: users, jwt: jwt, log: log}
}

// Signup creates a guest or hotel account. Hotels start pending verification
// and inactive, so they get no token until an admin approves them.
func (s *Service) Signup(ctx context.Context, req SignupRequest) (*AuthResult, error) {
	if req.Password != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}
	email := repository.NormalizeEmail(req.Email)
	if err := s.validateEmailUnique(ctx, email); err != nil {
		return nil, err
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
		Role:         domain.UserRole(req.AccountType),
		FullName:     strings.TrimSpace(req.FullName),
		IsActive:     true,
	}
	if user.IsHotel() {
		user.VerificationStatus = domain.VerificationPending
		user.IsActive = false
	}

	if err := s.users.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.log.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("account created")

	res := &AuthResult{User: withoutSecrets(user)}
	if user.IsActive {
		if res.Token, err = s.jwt.GenerateToken(user.ID, string(user.Role)); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// Login checks the password and that the selected account type is the
// account's role.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if string(user.Role) != req.AccountType {
		return nil, ErrAccountTypeMismatch
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	token, err := s.jwt.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: withoutSecrets(user), Token: token}, nil
}

func (s *Service) Me(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	return withoutSecrets(user), nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}

	user.FullName = strings.TrimSpace(req.FullName)
	user.Phone = strings.TrimSpace(req.Phone)
	user.Location = strings.TrimSpace(req.Location)
	user.Description = strings.TrimSpace(req.Description)

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return withoutSecrets(user), nil
}

// SetMedia stores url as the user's profile photo or license image and
// returns the URL it replaced.
func (s *Service) SetMedia(ctx context.Context, user *domain.User, kind MediaKind, url string) (string, error) {
	var previous string
	switch kind {
	case MediaLicense:
		if !user.IsHotel() {
			return "", ErrNotHotel
		}
		previous = user.LicenseImageURL
	case MediaProfilePhoto:
		previous = user.ProfilePhotoURL
	default:
		return "", fmt.Errorf("unknown media kind %q", kind)
	}

	if err := s.users.SetMedia(ctx, user.ID, string(kind), url); err != nil {
		return "", fmt.Errorf("set %s: %w", kind, err)
	}
	return previous, nil
}

// withoutSecrets copies u with the password hash cleared. The repository's
// value is left as loaded.
func withoutSecrets(u *domain.User) *domain.User {
	out := *u
	out.PasswordHash = ""
	return &out
}

func (s *Service) validateEmailUnique(ctx context.Context, email string) error {
	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return ErrEmailAlreadyExists
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}

func (s *Service) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
