package auth

import (
	"errors"
	"net/http"

	"hotelbooking/internal/middleware"
	"hotelbooking/internal/modules/media"
	"hotelbooking/internal/pkg/response"
	"hotelbooking/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

// Handler manages all HTTP interactions for authentication and profiles
type Handler struct {
	service *Service
	media   *media.Store
}

func NewHandler(service *Service, store *media.Store) *Handler {
	return &Handler{service: service, media: store}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/signup", h.Signup)
		authGroup.POST("/login", h.Login)
	}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	me := protected.Group("/me")
	{
		me.GET("", h.GetMe)
		me.PUT("", h.UpdateProfile)
		me.POST("/photo", h.UploadProfilePhoto)
		me.POST("/license", h.UploadLicense)
	}
}

// Signup handles POST /api/v1/auth/signup
func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid signup data", errs)
		return
	}

	res, err := h.service.Signup(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrPasswordMismatch):
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Passwords do not match.",
				map[string]string{"confirm_password": "mismatch"})
		case errors.Is(err, ErrEmailAlreadyExists):
			response.Error(c, http.StatusConflict, "EMAIL_EXISTS", "An account with this email already exists.")
		default:
			_ = c.Error(err)
			response.Error(c, http.StatusInternalServerError, "REGISTRATION_FAILED", "Failed to create account")
		}
		return
	}

	if res.User.IsHotel() {
		if fh, err := c.FormFile("license"); err == nil {
			url, err := h.media.SaveImage(media.FolderLicenses, fh)
			if err != nil {
				media.RespondError(c, err)
				return
			}
			if _, err := h.service.SetMedia(c.Request.Context(), res.User, MediaLicense, url); err != nil {
				h.media.Remove(url)
				_ = c.Error(err)
			} else {
				res.User.LicenseImageURL = url
			}
		}
	}

	response.Success(c, http.StatusCreated, res)
}

// Login handles POST /api/v1/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid login data", errs)
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password.")
		case errors.Is(err, ErrAccountTypeMismatch):
			response.Error(c, http.StatusUnauthorized, "ACCOUNT_TYPE_MISMATCH", "Account type does not match this user.")
		case errors.Is(err, ErrAccountInactive):
			response.Error(c, http.StatusForbidden, "ACCOUNT_INACTIVE", "This account is not active yet.")
		default:
			_ = c.Error(err)
			response.Error(c, http.StatusInternalServerError, "LOGIN_FAILED", "Failed to login")
		}
		return
	}

	response.Success(c, http.StatusOK, res)
}

func (h *Handler) GetMe(c *gin.Context) {
	user, err := h.service.Me(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		h.profileError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": user})
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid profile data", errs)
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		h.profileError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": user})
}

func (h *Handler) UploadProfilePhoto(c *gin.Context) {
	h.upload(c, "photo", media.FolderProfiles, MediaProfilePhoto)
}

func (h *Handler) UploadLicense(c *gin.Context) {
	h.upload(c, "license", media.FolderLicenses, MediaLicense)
}

func (h *Handler) upload(c *gin.Context, field, folder string, kind MediaKind) {
	user := middleware.CurrentAccount(c)
	if kind == MediaLicense && !user.IsHotel() {
		middleware.SoftDeny(c)
		return
	}

	fh, err := c.FormFile(field)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "NO_FILE", "No file uploaded")
		return
	}
	url, err := h.media.SaveImage(folder, fh)
	if err != nil {
		media.RespondError(c, err)
		return
	}

	previous, err := h.service.SetMedia(c.Request.Context(), user, kind, url)
	if err != nil {
		h.media.Remove(url)
		h.profileError(c, err)
		return
	}
	if previous != "" {
		h.media.Remove(previous)
	}
	response.Success(c, http.StatusOK, gin.H{string(kind): url})
}

func (h *Handler) profileError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUnauthorized):
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not found")
	case errors.Is(err, ErrNotHotel):
		middleware.SoftDeny(c)
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
