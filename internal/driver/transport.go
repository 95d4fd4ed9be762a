package driver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/shared/logger"
	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/shared/web"
	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/user"
)

// Handler — HTTP слой для /api/drivers
type Handler struct {
	svc *Service
	log *logger.Logger
}

func NewHandler(svc *Service, log *logger.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

type locationRequest struct {
	Lat float64 `json:"lat" binding:"required,gte=-90,lte=90"`
	Lng float64 `json:"lng" binding:"required,gte=-180,lte=180"`
}

func (h *Handler) UpdateLocation(c *gin.Context) {
	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.UpdateLocation(c.Request.Context(), c.GetString("user_id"), req.Lat, req.Lng); err != nil {
		h.fail(c, err)
		return
	}
	web.OK(c, http.StatusOK, gin.H{"message": "location updated"})
}

type availabilityRequest struct {
	Available *bool `json:"available" binding:"required"`
}

func (h *Handler) SetAvailability(c *gin.Context) {
	var req availabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.SetAvailability(c.Request.Context(), c.GetString("user_id"), *req.Available); err != nil {
		h.fail(c, err)
		return
	}
	web.OK(c, http.StatusOK, gin.H{"available": *req.Available})
}

type profileRequest struct {
	LicenseNumber string        `json:"license_number"`
	Vehicle       *user.Vehicle `json:"vehicle"`
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.UpdateProfile(c.Request.Context(), c.GetString("user_id"), req.LicenseNumber, req.Vehicle); err != nil {
		h.fail(c, err)
		return
	}
	web.OK(c, http.StatusOK, gin.H{"message": "profile updated"})
}

func (h *Handler) Earnings(c *gin.Context) {
	summary, err := h.svc.Earnings(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	web.OK(c, http.StatusOK, gin.H{"earnings": summary})
}

type cashoutRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

func (h *Handler) Cashout(c *gin.Context) {
	var req cashoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.svc.Cashout(c.Request.Context(), c.GetString("user_id"), req.Amount)
	if err != nil {
		h.fail(c, err)
		return
	}
	web.OK(c, http.StatusOK, gin.H{"payout": p})
}

type documentRequest struct {
	DocType string `json:"doc_type" binding:"required"`
	URL     string `json:"url" binding:"required,url"`
}

func (h *Handler) AddDocument(c *gin.Context) {
	var req documentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	d, err := h.svc.AddDocument(c.Request.Context(), c.GetString("user_id"), req.DocType, req.URL)
	if err != nil {
		h.fail(c, err)
		return
	}
	web.OK(c, http.StatusCreated, gin.H{"document": d})
}

func (h *Handler) Documents(c *gin.Context) {
	docs, err := h.svc.Documents(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	web.OK(c, http.StatusOK, gin.H{"documents": docs})
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrInsufficientFunds):
		web.Fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrDriverNotFound):
		web.Fail(c, http.StatusNotFound, err.Error())
	default:
		h.log.Error(logger.Entry{
			Action:  "driver_handler_error",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		web.Fail(c, http.StatusInternalServerError, "internal server error")
	}
}
