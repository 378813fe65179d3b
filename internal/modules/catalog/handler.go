package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"hotelbooking/internal/middleware"
	"hotelbooking/internal/modules/media"
	"hotelbooking/internal/pkg/response"
	"hotelbooking/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service   *Service
	media     *media.Store
	ownership *middleware.OwnershipChecker
}

func NewHandler(service *Service, store *media.Store, ownership *middleware.OwnershipChecker) *Handler {
	return &Handler{service: service, media: store, ownership: ownership}
}

// RegisterRoutes mounts public search on public and room management on a
// hotel-only group.
func (h *Handler) RegisterRoutes(public, hotel *gin.RouterGroup) {
	public.GET("/rooms", h.SearchRooms)
	public.GET("/rooms/:id", h.GetRoom)

	rooms := hotel.Group("/rooms")
	{
		rooms.GET("", h.GetMyRooms)
		rooms.POST("", h.CreateRoom)

		owned := rooms.Group("/:id", h.ownership.CheckRoomOwnership())
		owned.PUT("", h.UpdateRoom)
		owned.DELETE("", h.DeleteRoom)
		owned.POST("/photo", h.UploadRoomPhoto)
	}
}

/* ---------- PUBLIC ---------- */

// SearchRooms handles GET /api/v1/rooms?location=&guests=&checkin=&checkout=
func (h *Handler) SearchRooms(c *gin.Context) {
	var q SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid search parameters")
		return
	}

	rooms, err := h.service.Search(c.Request.Context(), q)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"rooms": rooms, "count": len(rooms)})
}

func (h *Handler) GetRoom(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Room not found")
		return
	}
	room, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Room not found")
			return
		}
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"room": room})
}

/* ---------- HOTEL ---------- */

func (h *Handler) GetMyRooms(c *gin.Context) {
	rooms, err := h.service.ListByHotel(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"rooms": rooms})
}

func (h *Handler) CreateRoom(c *gin.Context) {
	var req RoomRequest
	if !bindRoom(c, &req) {
		return
	}
	room, err := h.service.CreateRoom(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"room": room})
}

func (h *Handler) UpdateRoom(c *gin.Context) {
	var req RoomRequest
	if !bindRoom(c, &req) {
		return
	}
	room, err := h.service.UpdateRoom(c.Request.Context(), middleware.CurrentRoom(c).ID, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"room": room})
}

func (h *Handler) DeleteRoom(c *gin.Context) {
	res, err := h.service.DeleteRoom(c.Request.Context(), middleware.CurrentRoom(c).ID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) UploadRoomPhoto(c *gin.Context) {
	room := middleware.CurrentRoom(c)

	fh, err := c.FormFile("photo")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "NO_FILE", "No photo uploaded")
		return
	}
	url, err := h.media.SaveImage(media.FolderRooms, fh)
	if err != nil {
		media.RespondError(c, err)
		return
	}
	if err := h.service.SetPhoto(c.Request.Context(), room.ID, url); err != nil {
		h.media.Remove(url)
		handleError(c, err)
		return
	}
	if room.PhotoURL != "" {
		h.media.Remove(room.PhotoURL)
	}
	response.Success(c, http.StatusOK, gin.H{"photo_url": url})
}

func bindRoom(c *gin.Context, req *RoomRequest) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return false
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid room", errs)
		return false
	}
	return true
}

/* ---------- ERROR HANDLING ---------- */

func handleError(c *gin.Context, err error) {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", ve.Message)
	case errors.Is(err, ErrNotFound):
		middleware.SoftDeny(c)
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
