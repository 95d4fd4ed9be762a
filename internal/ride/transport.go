package ride

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/shared/logger"
	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/shared/web"
)

// Handler — HTTP слой для /api/rides
type Handler struct {
	svc *Service
	log *logger.Logger
}

func NewHandler(svc *Service, log *logger.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

type pointRequest struct {
	Address string  `json:"address" binding:"required"`
	Lat     float64 `json:"lat" binding:"required"`
	Lng     float64 `json:"lng" binding:"required"`
}

type createRideRequest struct {
	VehicleClass  string       `json:"vehicle_class" binding:"required,vehicleclass"`
	Pickup        pointRequest `json:"pickup" binding:"required"`
	Dropoff       pointRequest `json:"dropoff" binding:"required"`
	PaymentMethod string       `json:"payment_method" binding:"omitempty,oneof=cash card wallet"`
	DistanceKm    float64      `json:"distance_km" binding:"omitempty,gte=0"`
	DurationMin   float64      `json:"duration_min" binding:"omitempty,gte=0"`
}

func (h *Handler) Create(c *gin.Context) {
	var req createRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	r, err := h.svc.Create(c.Request.Context(), c.GetString("user_id"), CreateRideInput{
		VehicleClass:  req.VehicleClass,
		Pickup:        Point(req.Pickup),
		Dropoff:       Point(req.Dropoff),
		PaymentMethod: req.PaymentMethod,
		DistanceKm:    req.DistanceKm,
		DurationMin:   req.DurationMin,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	web.OK(c, http.StatusCreated, gin.H{"ride": r})
}

func (h *Handler) Accept(c *gin.Context) {
	r, err := h.svc.Accept(c.Request.Context(), c.Param("id"), c.GetString("user_id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	web.OK(c, http.StatusOK, gin.H{"ride": r})
}

type statusRequest struct {
	Status string `json:"status" binding:"required,oneof=arrived started completed"`
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	r, err := h.svc.UpdateStatus(c.Request.Context(), c.Param("id"), c.GetString("user_id"), req.Status)
	if err != nil {
		h.fail(c, err)
		return
	}
	web.OK(c, http.StatusOK, gin.H{"ride": r})
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) Cancel(c *gin.Context) {
	var req cancelRequest
	_ = c.ShouldBindJSON(&req)

	r, err := h.svc.Cancel(c.Request.Context(), c.Param("id"), c.GetString("user_id"), req.Reason)
	if err != nil {
		h.fail(c, err)
		return
	}
	web.OK(c, http.StatusOK, gin.H{"ride": r})
}

type rateRequest struct {
	Rating int    `json:"rating" binding:"required,min=1,max=5"`
	Review string `json:"review"`
}

func (h *Handler) Rate(c *gin.Context) {
	var req rateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.Rate(c.Request.Context(), c.Param("id"), c.GetString("user_id"), req.Rating, req.Review); err != nil {
		h.fail(c, err)
		return
	}
	web.OK(c, http.StatusOK, gin.H{"message": "rating saved"})
}

func (h *Handler) Share(c *gin.Context) {
	sent, err := h.svc.Share(c.Request.Context(), c.Param("id"), c.GetString("user_id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	web.OK(c, http.StatusOK, gin.H{"contacts_notified": sent})
}

func (h *Handler) Get(c *gin.Context) {
	r, err := h.svc.Get(c.Request.Context(), c.Param("id"), c.GetString("user_id"), c.GetString("user_role"))
	if err != nil {
		h.fail(c, err)
		return
	}
	web.OK(c, http.StatusOK, gin.H{"ride": r})
}

func (h *Handler) Active(c *gin.Context) {
	r, err := h.svc.Active(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	web.OK(c, http.StatusOK, gin.H{"ride": r})
}

func (h *Handler) History(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	rides, err := h.svc.History(c.Request.Context(), c.GetString("user_id"), limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	web.OK(c, http.StatusOK, gin.H{"rides": rides})
}

func (h *Handler) Pending(c *gin.Context) {
	rides, err := h.svc.Pending(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	web.OK(c, http.StatusOK, gin.H{"rides": rides})
}

// fail маппит доменные ошибки на HTTP статусы
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrRideUnavailable):
		web.Fail(c, http.StatusBadRequest, "Ride is no longer available")
	case errors.Is(err, ErrInvalidVehicleClass), errors.Is(err, ErrInvalidCoordinates),
		errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrRideNotCancellable),
		errors.Is(err, ErrRideNotCompleted), errors.Is(err, ErrAlreadyRated),
		errors.Is(err, ErrInvalidRating):
		web.Fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotRideParty), errors.Is(err, ErrNotAssignedDriver):
		web.Fail(c, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrRideNotFound), errors.Is(err, ErrNoActiveRide):
		web.Fail(c, http.StatusNotFound, err.Error())
	default:
		h.log.Error(logger.Entry{
			Action:  "ride_handler_error",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		web.Fail(c, http.StatusInternalServerError, "internal server error")
	}
}
