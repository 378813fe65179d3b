package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RoomLoader interface {
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
}

// OwnershipChecker verifies that a hotel account owns the room in the URL.
type OwnershipChecker struct {
	rooms RoomLoader
}

func NewOwnershipChecker(rooms RoomLoader) *OwnershipChecker {
	return &OwnershipChecker{rooms: rooms}
}

// CheckRoomOwnership expects the room ID in URL param "id" and stores the
// loaded room under "room". Missing and foreign rooms look the same.
func (oc *OwnershipChecker) CheckRoomOwnership() gin.HandlerFunc {
	return func(c *gin.Context) {
		account := CurrentAccount(c)
		if account == nil {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			c.Abort()
			return
		}

		roomID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			SoftDeny(c)
			return
		}

		room, err := oc.rooms.GetByID(c.Request.Context(), roomID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load room")
				c.Abort()
				return
			}
			SoftDeny(c)
			return
		}

		if room.HotelID != account.ID {
			SoftDeny(c)
			return
		}

		c.Set("room", room)
		c.Next()
	}
}

// CurrentRoom returns the room stored by CheckRoomOwnership.
func CurrentRoom(c *gin.Context) *domain.Room {
	v, ok := c.Get("room")
	if !ok {
		return nil
	}
	room, _ := v.(*domain.Room)
	return room
}
