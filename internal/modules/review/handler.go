package review

import (
	"errors"
	"net/http"
	"strconv"

	"hotelbooking/internal/middleware"
	"hotelbooking/internal/pkg/response"
	"hotelbooking/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the public, guest and hotel routes. Nil groups are
// skipped.
func (h *Handler) RegisterRoutes(public, guest, hotel *gin.RouterGroup) {
	if public != nil {
		public.GET("/hotels/:id/reviews", h.GetByHotel)
	}
	if guest != nil {
		guest.POST("/reviews", h.Submit)
	}
	if hotel != nil {
		hotel.GET("/reviews", h.GetOwn)
	}
}

func (h *Handler) Submit(c *gin.Context) {
	var req SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid review", errs)
		return
	}

	rv, created, err := h.svc.Submit(c.Request.Context(), middleware.CurrentAccount(c), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidRequest):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Rating must be between 1 and 5")
		case errors.Is(err, ErrNotFound):
			middleware.SoftDeny(c)
		case errors.Is(err, ErrReviewNotAllowed):
			response.Error(c, http.StatusForbidden, "REVIEW_NOT_ALLOWED", "You can review a hotel only after a confirmed or completed stay")
		default:
			_ = c.Error(err)
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to save review")
		}
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	response.Success(c, status, gin.H{"review": rv, "created": created})
}

func (h *Handler) GetByHotel(c *gin.Context) {
	hotelID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || hotelID <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid hotel ID")
		return
	}
	h.respond(c, hotelID)
}

func (h *Handler) GetOwn(c *gin.Context) {
	h.respond(c, c.GetInt64("user_id"))
}

func (h *Handler) respond(c *gin.Context, hotelID int64) {
	out, err := h.svc.ForHotel(c.Request.Context(), hotelID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Hotel not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load reviews")
		return
	}
	response.Success(c, http.StatusOK, out)
}
