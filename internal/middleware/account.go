package middleware

import (
	"context"
	"errors"
	"net/http"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/pkg/response"
	"hotelbooking/internal/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const accountKey = "account"

// AccountLoader is the part of the user repository the middleware needs.
type AccountLoader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// AccountContext resolves the authenticated account once per request. The
// stored role wins over the token's role so admin edits apply immediately.
func AccountContext(users AccountLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetInt64("user_id")
		if userID == 0 {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			c.Abort()
			return
		}

		account, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Account no longer exists")
			} else {
				response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load account")
			}
			c.Abort()
			return
		}
		if !account.IsActive {
			response.Error(c, http.StatusForbidden, "ACCOUNT_INACTIVE", "Account is not active")
			c.Abort()
			return
		}

		c.Set(accountKey, account)
		c.Set("role", string(account.Role))
		c.Next()
	}
}

// CurrentAccount returns the account set by AccountContext.
func CurrentAccount(c *gin.Context) *domain.User {
	v, ok := c.Get(accountKey)
	if !ok {
		return nil
	}
	account, _ := v.(*domain.User)
	return account
}

// HomePath is the listing an actor is sent back to on a soft deny.
func HomePath(role domain.UserRole) string {
	switch role {
	case domain.RoleHotel:
		return "/api/v1/hotel/bookings"
	case domain.RoleAdmin:
		return "/api/v1/admin/dashboard"
	default:
		return "/api/v1/bookings/history"
	}
}

// SoftDeny answers with a 303 to the actor's home listing.
func SoftDeny(c *gin.Context) {
	role := domain.RoleGuest
	if account := CurrentAccount(c); account != nil {
		role = account.Role
	} else if r := c.GetString("role"); r != "" {
		role = domain.UserRole(r)
	}
	response.SeeOther(c, HomePath(role))
	c.Abort()
}

var _ AccountLoader = (*repository.UserRepository)(nil)
