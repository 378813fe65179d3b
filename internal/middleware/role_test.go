package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"hotelbooking/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeAccounts map[int64]*domain.User

func (f fakeAccounts) GetByID(_ context.Context, id int64) (*domain.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeRooms map[int64]*domain.Room

func (f fakeRooms) GetByID(_ context.Context, id int64) (*domain.Room, error) {
	if r, ok := f[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func withUser(id int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", id)
		c.Next()
	}
}

func TestRequireRole_SoftDeniesToHome(t *testing.T) {
	gin.SetMode(gin.TestMode)
	accounts := fakeAccounts{
		1: {ID: 1, Role: domain.RoleGuest, IsActive: true},
		2: {ID: 2, Role: domain.RoleHotel, IsActive: true},
	}

	cases := []struct {
		name     string
		userID   int64
		wantCode int
		wantLoc  string
	}{
		{"hotel allowed", 2, http.StatusOK, ""},
		{"guest redirected", 1, http.StatusSeeOther, "/api/v1/bookings/history"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/hotel/rooms", withUser(tc.userID), AccountContext(accounts), RequireRole(domain.RoleHotel),
				func(c *gin.Context) { c.Status(http.StatusOK) })

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/hotel/rooms", nil))

			assert.Equal(t, tc.wantCode, w.Code)
			assert.Equal(t, tc.wantLoc, w.Header().Get("Location"))
		})
	}
}

func TestAccountContext_InactiveAccountRejected(t *testing.T) {
	accounts := fakeAccounts{3: {ID: 3, Role: domain.RoleGuest, IsActive: false}}
	router := gin.New()
	router.GET("/me", withUser(3), AccountContext(accounts), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "ACCOUNT_INACTIVE")
}

func TestCheckRoomOwnership(t *testing.T) {
	accounts := fakeAccounts{
		10: {ID: 10, Role: domain.RoleHotel, IsActive: true},
		11: {ID: 11, Role: domain.RoleHotel, IsActive: true},
	}
	rooms := fakeRooms{5: {ID: 5, HotelID: 10}}
	oc := NewOwnershipChecker(rooms)

	serve := func(userID int64, path string) *httptest.ResponseRecorder {
		router := gin.New()
		router.GET("/rooms/:id", withUser(userID), AccountContext(accounts), oc.CheckRoomOwnership(),
			func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"room": CurrentRoom(c).ID}) })
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	w := serve(10, "/rooms/5")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(11, "/rooms/5")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/api/v1/hotel/bookings", w.Header().Get("Location"))

	w = serve(10, "/rooms/99")
	assert.Equal(t, http.StatusSeeOther, w.Code)
}

func TestCORS_ReflectsConfiguredOrigin(t *testing.T) {
	router := gin.New()
	router.Use(CORS([]string{"https://book.example"}))
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://book.example")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "https://book.example", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
