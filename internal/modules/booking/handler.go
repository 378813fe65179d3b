package booking

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/middleware"
	"hotelbooking/internal/pkg/response"
	"hotelbooking/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

const (
	guestHistoryPath = "/api/v1/bookings/history"
	hotelHistoryPath = "/api/v1/hotel/bookings"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterGuestRoutes expects a group restricted to guests.
func (h *Handler) RegisterGuestRoutes(rg *gin.RouterGroup) {
	rg.POST("/rooms/:id/checkout", h.Checkout)
	rg.GET("/bookings/history", h.History)
	rg.POST("/bookings/:id/cancel", h.Cancel)
	rg.POST("/bookings/:id/pay-now", h.PayNow)
}

// RegisterHotelRoutes expects a group restricted to hotels.
func (h *Handler) RegisterHotelRoutes(rg *gin.RouterGroup) {
	rg.GET("/bookings", h.HotelHistory)
	rg.POST("/bookings/:id/cancel", h.HotelCancel)
}

func (h *Handler) Checkout(c *gin.Context) {
	roomID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		middleware.SoftDeny(c)
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid checkout form", errs)
		return
	}

	b, err := h.service.Checkout(c.Request.Context(), middleware.CurrentAccount(c), roomID, req)
	if err != nil {
		h.fail(c, err, "Failed to create booking")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"booking": b})
}

func (h *Handler) History(c *gin.Context) {
	view, err := h.service.History(c.Request.Context(), middleware.CurrentAccount(c), c.DefaultQuery("state", "all"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load bookings")
		return
	}
	response.Success(c, http.StatusOK, view)
}

func (h *Handler) HotelHistory(c *gin.Context) {
	view, err := h.service.HotelHistory(c.Request.Context(), middleware.CurrentAccount(c), c.DefaultQuery("state", "all"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load bookings")
		return
	}
	response.Success(c, http.StatusOK, view)
}

func (h *Handler) Cancel(c *gin.Context) {
	h.act(c, guestHistoryPath, h.service.Cancel)
}

func (h *Handler) HotelCancel(c *gin.Context) {
	h.act(c, hotelHistoryPath, h.service.HotelCancel)
}

func (h *Handler) PayNow(c *gin.Context) {
	h.act(c, guestHistoryPath, h.service.PayNow)
}

func (h *Handler) act(c *gin.Context, history string, do func(ctx context.Context, account *domain.User, id int64) (*domain.Booking, error)) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		middleware.SoftDeny(c)
		return
	}

	b, err := do(c.Request.Context(), middleware.CurrentAccount(c), id)
	switch {
	case err == nil:
		response.Success(c, http.StatusOK, gin.H{"booking": b})
	case errors.Is(err, ErrNotPending):
		response.SeeOther(c, history)
	default:
		h.fail(c, err, "Failed to update booking")
	}
}

func (h *Handler) fail(c *gin.Context, err error, fallback string) {
	var fe *FieldError
	switch {
	case errors.Is(err, ErrNotFound):
		middleware.SoftDeny(c)
	case errors.Is(err, ErrCapacityConflict) && errors.As(err, &fe):
		response.Error(c, http.StatusConflict, "CAPACITY_CONFLICT", fe.Message)
	case errors.As(err, &fe):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", fe.Message)
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", fallback)
	}
}
