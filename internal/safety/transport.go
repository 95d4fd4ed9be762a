package safety

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/ride"
	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/shared/logger"
	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/shared/web"
	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/user"
)

// Handler — HTTP слой для /api/safety
type Handler struct {
	svc *Service
	log *logger.Logger
}

func NewHandler(svc *Service, log *logger.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

type sosRequest struct {
	RideID  string  `json:"ride_id"`
	Lat     float64 `json:"lat" binding:"omitempty,gte=-90,lte=90"`
	Lng     float64 `json:"lng" binding:"omitempty,gte=-180,lte=180"`
	Message string  `json:"message" binding:"max=500"`
}

func (h *Handler) SOS(c *gin.Context) {
	var req sosRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	alert, err := h.svc.Activate(c.Request.Context(), c.GetString("user_id"), SOSInput{
		RideID:  req.RideID,
		Lat:     req.Lat,
		Lng:     req.Lng,
		Message: req.Message,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	web.OK(c, http.StatusOK, gin.H{"alert": alert})
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotRideParty):
		web.Fail(c, http.StatusForbidden, err.Error())
	case errors.Is(err, ride.ErrRideNotFound), errors.Is(err, user.ErrNotFound):
		web.Fail(c, http.StatusNotFound, err.Error())
	default:
		h.log.Error(logger.Entry{
			Action:  "safety_handler_error",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		web.Fail(c, http.StatusInternalServerError, "internal server error")
	}
}
