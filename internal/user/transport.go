package user

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/shared/logger"
	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/shared/web"
)

// Handler — HTTP слой для /api/auth
type Handler struct {
	svc *Service
	log *logger.Logger
}

func NewHandler(svc *Service, log *logger.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

type registerRequest struct {
	Name          string  `json:"name" binding:"required"`
	Email         string  `json:"email" binding:"required,email"`
	Phone         string  `json:"phone" binding:"required"`
	Password      string  `json:"password" binding:"required,min=6"`
	Role          string  `json:"role" binding:"required,oneof=passenger driver"`
	LicenseNumber string  `json:"license_number"`
	Vehicle       Vehicle `json:"vehicle"`
}

func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	u, token, err := h.svc.Register(c.Request.Context(), RegisterInput{
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		Password:      req.Password,
		Role:          req.Role,
		LicenseNumber: req.LicenseNumber,
		Vehicle:       req.Vehicle,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	web.OK(c, http.StatusCreated, gin.H{"token": token, "user": u})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	u, token, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	web.OK(c, http.StatusOK, gin.H{"token": token, "user": u})
}

type googleRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}

func (h *Handler) GoogleLogin(c *gin.Context) {
	var req googleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	u, token, err := h.svc.GoogleLogin(c.Request.Context(), req.IDToken)
	if err != nil {
		h.fail(c, err)
		return
	}

	web.OK(c, http.StatusOK, gin.H{"token": token, "user": u})
}

func (h *Handler) Me(c *gin.Context) {
	u, err := h.svc.Me(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	web.OK(c, http.StatusOK, gin.H{"user": u})
}

type updateProfileRequest struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	AvatarURL string `json:"avatar_url"`
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	u, err := h.svc.UpdateProfile(c.Request.Context(), c.GetString("user_id"), req.Name, req.Phone, req.AvatarURL)
	if err != nil {
		h.fail(c, err)
		return
	}
	web.OK(c, http.StatusOK, gin.H{"user": u})
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

func (h *Handler) UpdatePassword(c *gin.Context) {
	var req updatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.UpdatePassword(c.Request.Context(), c.GetString("user_id"), req.CurrentPassword, req.NewPassword); err != nil {
		h.fail(c, err)
		return
	}
	web.OK(c, http.StatusOK, gin.H{"message": "password updated"})
}

type settingsRequest struct {
	NotificationPrefs NotificationPrefs `json:"notification_prefs"`
	SecurityPrefs     SecurityPrefs     `json:"security_prefs"`
}

func (h *Handler) UpdateSettings(c *gin.Context) {
	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.UpdateSettings(c.Request.Context(), c.GetString("user_id"), req.NotificationPrefs, req.SecurityPrefs); err != nil {
		h.fail(c, err)
		return
	}
	web.OK(c, http.StatusOK, gin.H{"message": "settings updated"})
}

func (h *Handler) DeleteAccount(c *gin.Context) {
	if err := h.svc.DeleteAccount(c.Request.Context(), c.GetString("user_id")); err != nil {
		h.fail(c, err)
		return
	}
	web.OK(c, http.StatusOK, gin.H{"message": "account deleted"})
}

type trustedContactRequest struct {
	Name         string `json:"name" binding:"required"`
	Phone        string `json:"phone" binding:"required"`
	Relationship string `json:"relationship"`
	IsGuardian   bool   `json:"is_guardian"`
}

func (h *Handler) AddTrustedContact(c *gin.Context) {
	var req trustedContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	contact, err := h.svc.AddTrustedContact(c.Request.Context(), c.GetString("user_id"), TrustedContact{
		Name:         req.Name,
		Phone:        req.Phone,
		Relationship: req.Relationship,
		IsGuardian:   req.IsGuardian,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	web.OK(c, http.StatusCreated, gin.H{"contact": contact})
}

func (h *Handler) RemoveTrustedContact(c *gin.Context) {
	if err := h.svc.RemoveTrustedContact(c.Request.Context(), c.GetString("user_id"), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	web.OK(c, http.StatusOK, gin.H{"message": "contact removed"})
}

// fail маппит доменные ошибки на HTTP статусы
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrEmailTaken), errors.Is(err, ErrPhoneTaken),
		errors.Is(err, ErrInvalidRole), errors.Is(err, ErrWrongPassword):
		web.Fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInvalidCredentials):
		web.Fail(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrAccountDisabled):
		web.Fail(c, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrContactNotFound):
		web.Fail(c, http.StatusNotFound, err.Error())
	default:
		h.log.Error(logger.Entry{
			Action:  "auth_handler_error",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		web.Fail(c, http.StatusInternalServerError, "internal server error")
	}
}
