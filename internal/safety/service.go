package safety

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/notify"
	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/ride"
	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/shared/logger"
	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/shared/metrics"
	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/user"
)

var ErrNotRideParty = errors.New("not a party to this ride")

// UserDirectory — данные пользователя, нужные для тревоги
type UserDirectory interface {
	FindByID(ctx context.Context, id string) (*user.User, error)
	TrustedContacts(ctx context.Context, userID string) ([]user.TrustedContact, error)
	AdminIDs(ctx context.Context) ([]string, error)
}

// RideSource — привязка тревоги к поездке
type RideSource interface {
	FindByID(ctx context.Context, id string) (*ride.Ride, error)
}

// Service — обработка SOS
type Service struct {
	users    UserDirectory
	rides    RideSource
	sms      SMSSender
	notifier notify.Notifier
	log      *logger.Logger
}

func NewService(users UserDirectory, rides RideSource, sms SMSSender, notifier notify.Notifier, log *logger.Logger) *Service {
	return &Service{
		users:    users,
		rides:    rides,
		sms:      sms,
		notifier: notifier,
		log:      log,
	}
}

// SOSInput — параметры тревоги; поездка и координаты опциональны
type SOSInput struct {
	RideID  string
	Lat     float64
	Lng     float64
	Message string
}

// Alert — результат активации SOS
type Alert struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	RideID           string    `json:"ride_id,omitempty"`
	Lat              float64   `json:"lat,omitempty"`
	Lng              float64   `json:"lng,omitempty"`
	Message          string    `json:"message,omitempty"`
	ContactsNotified int       `json:"contacts_notified"`
	CreatedAt        time.Time `json:"created_at"`
}

// Activate поднимает тревогу: SMS доверенным контактам и real-time
// событие администраторам. Сбой отдельного SMS не прерывает остальные.
func (s *Service) Activate(ctx context.Context, userID string, input SOSInput) (*Alert, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var r *ride.Ride
	if input.RideID != "" {
		r, err = s.rides.FindByID(ctx, input.RideID)
		if err != nil {
			return nil, err
		}
		if !r.IsParty(userID) {
			return nil, ErrNotRideParty
		}
	}

	alert := &Alert{
		ID:        uuid.New().String(),
		UserID:    userID,
		RideID:    input.RideID,
		Lat:       input.Lat,
		Lng:       input.Lng,
		Message:   input.Message,
		CreatedAt: time.Now().UTC(),
	}

	contacts, err := s.users.TrustedContacts(ctx, userID)
	if err != nil {
		return nil, err
	}

	body := sosMessage(u, r, input)
	for _, c := range contacts {
		if err := s.sms.Send(c.Phone, body); err != nil {
			s.log.Error(logger.Entry{
				Action:  "sos_sms_failed",
				Message: err.Error(),
				Error:   &logger.ErrObj{Msg: err.Error()},
				Additional: map[string]any{"contact": c.Name},
			})
			continue
		}
		alert.ContactsNotified++
	}

	admins, err := s.users.AdminIDs(ctx)
	if err != nil {
		s.log.Error(logger.Entry{
			Action:  "sos_admins_lookup_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	} else {
		s.notifier.Notify(ctx, notify.EventSOSActivated, admins, alert)
	}

	metrics.SOSAlerts.Inc()
	s.log.Warn(logger.Entry{
		Action:  "sos_activated",
		Message: userID,
		RideID:  input.RideID,
		Additional: map[string]any{
			"alert_id":          alert.ID,
			"contacts_notified": alert.ContactsNotified,
		},
	})

	return alert, nil
}

func sosMessage(u *user.User, r *ride.Ride, input SOSInput) string {
	msg := fmt.Sprintf("SOS from %s via Nova Transport.", u.Name)
	if r != nil {
		msg += fmt.Sprintf(" Ride %s, heading to %s.", r.RideNumber, r.Dropoff.Address)
	}
	if input.Lat != 0 || input.Lng != 0 {
		msg += fmt.Sprintf(" Location: https://maps.google.com/?q=%f,%f", input.Lat, input.Lng)
	}
	if input.Message != "" {
		msg += " " + input.Message
	}
	return msg
}
