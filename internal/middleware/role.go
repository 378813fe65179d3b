package middleware

import (
	"hotelbooking/internal/domain"

	"github.com/gin-gonic/gin"
)

// RequireRole lets the request through only for the given roles. Other
// actors are redirected to their own home listing.
func RequireRole(roles ...domain.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := domain.UserRole(c.GetString("role"))
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		SoftDeny(c)
	}
}

// AdminOnly middleware requires admin role
func AdminOnly() gin.HandlerFunc {
	return RequireRole(domain.RoleAdmin)
}
