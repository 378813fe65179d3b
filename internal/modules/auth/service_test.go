package auth

import (
	"context"
	"testing"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Mock User Repository implementing the interface
type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepo) SetMedia(ctx context.Context, id int64, column, url string) error {
	args := m.Called(ctx, id, column, url)
	return args.Error(0)
}

// Mock JWT Service
type mockJWTService struct {
	mock.Mock
}

func (m *mockJWTService) GenerateToken(userID int64, role string) (string, error) {
	args := m.Called(userID, role)
	return args.String(0), args.Error(1)
}

func newTestService() (*Service, *mockUserRepo, *mockJWTService) {
	users := new(mockUserRepo)
	jwt := new(mockJWTService)
	return NewService(users, jwt, logger.Discard()), users, jwt
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestSignup_Guest(t *testing.T) {
	svc, users, jwt := newTestService()
	ctx := context.Background()

	users.On("GetByEmail", ctx, "ann@example.com").Return(nil, gorm.ErrRecordNotFound)
	users.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.Role == domain.RoleGuest && u.IsActive && u.PasswordHash != "secret-pass"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.User).ID = 7
	}).Return(nil)
	jwt.On("GenerateToken", int64(7), "guest").Return("token-7", nil)

	res, err := svc.Signup(ctx, SignupRequest{AccountType: "guest", FullName: " Ann ", Email: " Ann@Example.com",
		Password: "secret-pass", ConfirmPassword: "secret-pass"})
	require.NoError(t, err)
	assert.Equal(t, "token-7", res.Token)
	assert.Equal(t, "Ann", res.User.FullName)
	assert.Empty(t, res.User.PasswordHash)
	users.AssertExpectations(t)
	jwt.AssertExpectations(t)
}

func TestSignup_HotelStartsPending(t *testing.T) {
	svc, users, jwt := newTestService()
	ctx := context.Background()

	users.On("GetByEmail", ctx, "inn@example.com").Return(nil, gorm.ErrRecordNotFound)
	users.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(nil)

	res, err := svc.Signup(ctx, SignupRequest{AccountType: "hotel", FullName: "Inn", Email: "inn@example.com",
		Password: "secret-pass", ConfirmPassword: "secret-pass"})
	require.NoError(t, err)
	assert.Empty(t, res.Token)
	assert.False(t, res.User.IsActive)
	assert.Equal(t, domain.VerificationPending, res.User.VerificationStatus)
	jwt.AssertNotCalled(t, "GenerateToken", mock.Anything, mock.Anything)
}

func TestSignup_Rejections(t *testing.T) {
	svc, users, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupRequest{AccountType: "guest", Email: "a@example.com", Password: "secret-pass",
		ConfirmPassword: "other-pass"})
	assert.ErrorIs(t, err, ErrPasswordMismatch)

	users.On("GetByEmail", ctx, "taken@example.com").Return(&domain.User{ID: 1}, nil)
	_, err = svc.Signup(ctx, SignupRequest{AccountType: "guest", Email: "taken@example.com", Password: "secret-pass",
		ConfirmPassword: "secret-pass"})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLogin(t *testing.T) {
	svc, users, jwt := newTestService()
	ctx := context.Background()
	hash := hashed(t, "secret-pass")

	ann := &domain.User{ID: 3, Role: domain.RoleGuest, PasswordHash: hash, IsActive: true}
	users.On("GetByEmail", ctx, "ann@example.com").Return(ann, nil)
	users.On("GetByEmail", ctx, "inn@example.com").Return(&domain.User{ID: 4, Role: domain.RoleHotel,
		PasswordHash: hash, VerificationStatus: domain.VerificationPending}, nil)
	users.On("GetByEmail", ctx, "nobody@example.com").Return(nil, gorm.ErrRecordNotFound)
	jwt.On("GenerateToken", int64(3), "guest").Return("token-3", nil)

	res, err := svc.Login(ctx, LoginRequest{AccountType: "guest", Email: "ann@example.com", Password: "secret-pass"})
	require.NoError(t, err)
	assert.Equal(t, "token-3", res.Token)
	assert.Empty(t, res.User.PasswordHash)
	assert.Equal(t, hash, ann.PasswordHash, "loaded account must keep its hash")

	res, err = svc.Login(ctx, LoginRequest{AccountType: "guest", Email: "ann@example.com", Password: "secret-pass"})
	require.NoError(t, err)
	assert.Equal(t, "token-3", res.Token)

	_, err = svc.Login(ctx, LoginRequest{AccountType: "guest", Email: "ann@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginRequest{AccountType: "hotel", Email: "ann@example.com", Password: "secret-pass"})
	assert.ErrorIs(t, err, ErrAccountTypeMismatch)

	_, err = svc.Login(ctx, LoginRequest{AccountType: "hotel", Email: "inn@example.com", Password: "secret-pass"})
	assert.ErrorIs(t, err, ErrAccountInactive)

	_, err = svc.Login(ctx, LoginRequest{AccountType: "guest", Email: "nobody@example.com", Password: "secret-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateProfile(t *testing.T) {
	svc, users, _ := newTestService()
	ctx := context.Background()

	users.On("GetByID", ctx, int64(5)).Return(&domain.User{ID: 5, Role: domain.RoleHotel, FullName: "Old"}, nil)
	users.On("Update", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.FullName == "Seaside" && u.Location == "Nice" && u.Phone == "+33 1"
	})).Return(nil)

	user, err := svc.UpdateProfile(ctx, 5, UpdateProfileRequest{FullName: "Seaside ", Phone: "+33 1", Location: " Nice"})
	require.NoError(t, err)
	assert.Equal(t, "Seaside", user.FullName)
	users.AssertExpectations(t)
}

func TestSetMedia(t *testing.T) {
	svc, users, _ := newTestService()
	ctx := context.Background()

	guest := &domain.User{ID: 1, Role: domain.RoleGuest, ProfilePhotoURL: "/static/profiles/old.png"}
	_, err := svc.SetMedia(ctx, guest, MediaLicense, "/static/licenses/x.png")
	assert.ErrorIs(t, err, ErrNotHotel)

	users.On("SetMedia", ctx, int64(1), "profile_photo", "/static/profiles/new.png").Return(nil)
	prev, err := svc.SetMedia(ctx, guest, MediaProfilePhoto, "/static/profiles/new.png")
	require.NoError(t, err)
	assert.Equal(t, "/static/profiles/old.png", prev)
	users.AssertExpectations(t)
}
