package driver

import (
	"context"
	"errors"
	"time"

	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/notify"
	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/ride"
	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/shared/logger"
	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/user"
)

// GeoIndex — geo-индекс доступных водителей (Redis)
type GeoIndex interface {
	UpdateDriverLocation(ctx context.Context, driverID string, lng, lat float64) error
	RemoveDriver(ctx context.Context, driverID string) error
}

// ActiveRideSource отдаёт текущую поездку водителя, чтобы пробросить
// его координаты пассажиру
type ActiveRideSource interface {
	ActiveForUser(ctx context.Context, userID string) (*ride.Ride, error)
}

// Service — операции водительской стороны
type Service struct {
	repo     Repository
	geo      GeoIndex
	rides    ActiveRideSource
	notifier notify.Notifier
	log      *logger.Logger
}

func NewService(repo Repository, geo GeoIndex, rides ActiveRideSource, notifier notify.Notifier, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		geo:      geo,
		rides:    rides,
		notifier: notifier,
		log:      log,
	}
}

// locationUpdate — payload события driverLocationUpdate
type locationUpdate struct {
	RideID   string   `json:"ride_id"`
	DriverID string   `json:"driver_id"`
	Location Location `json:"location"`
}

// UpdateLocation сохраняет позицию водителя. Свободный водитель
// попадает в geo-индекс поиска; водитель на поездке вместо этого
// транслирует координаты своему пассажиру.
func (s *Service) UpdateLocation(ctx context.Context, driverID string, lat, lng float64) error {
	if err := s.repo.UpdateLocation(ctx, driverID, lat, lng); err != nil {
		return err
	}

	active, err := s.rides.ActiveForUser(ctx, driverID)
	if err != nil && !errors.Is(err, ride.ErrNoActiveRide) {
		return err
	}

	if active != nil && active.DriverID == driverID && active.Status != ride.StatusPending {
		s.notifier.Notify(ctx, notify.EventDriverLocationUpdate, []string{active.PassengerID}, locationUpdate{
			RideID:   active.ID,
			DriverID: driverID,
			Location: Location{Lat: lat, Lng: lng, UpdatedAt: time.Now().UTC()},
		})
		return nil
	}

	available, err := s.repo.IsAvailable(ctx, driverID)
	if err != nil {
		return err
	}
	if !available {
		return nil
	}

	if err := s.geo.UpdateDriverLocation(ctx, driverID, lng, lat); err != nil {
		// поиск деградирует до выборки из БД, запрос не роняем
		s.log.Warn(logger.Entry{
			Action:  "geo_update_failed",
			Message: err.Error(),
			Additional: map[string]any{"driver_id": driverID},
		})
	}
	return nil
}

// SetAvailability переключает доступность. Ушедший offline водитель
// сразу исчезает из geo-индекса.
func (s *Service) SetAvailability(ctx context.Context, driverID string, available bool) error {
	if err := s.repo.SetAvailability(ctx, driverID, available); err != nil {
		return err
	}

	if !available {
		if err := s.geo.RemoveDriver(ctx, driverID); err != nil {
			s.log.Warn(logger.Entry{
				Action:  "geo_remove_failed",
				Message: err.Error(),
				Additional: map[string]any{"driver_id": driverID},
			})
		}
	}

	s.log.Info(logger.Entry{
		Action:  "driver_availability_changed",
		Message: driverID,
		Additional: map[string]any{"available": available},
	})
	return nil
}

func (s *Service) UpdateProfile(ctx context.Context, driverID, licenseNumber string, vehicle *user.Vehicle) error {
	return s.repo.UpdateProfile(ctx, driverID, licenseNumber, vehicle)
}

func (s *Service) Earnings(ctx context.Context, driverID string) (*EarningsSummary, error) {
	return s.repo.Earnings(ctx, driverID)
}

// Cashout выводит заработок; сумма не может превышать баланс
func (s *Service) Cashout(ctx context.Context, driverID string, amount float64) (*Payout, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	p, err := s.repo.Cashout(ctx, driverID, amount)
	if err != nil {
		return nil, err
	}

	s.log.Info(logger.Entry{
		Action:  "driver_cashout",
		Message: driverID,
		Additional: map[string]any{"amount": amount, "payout_id": p.ID},
	})
	return p, nil
}

func (s *Service) AddDocument(ctx context.Context, driverID, docType, url string) (*Document, error) {
	d := &Document{DocType: docType, URL: url}
	if err := s.repo.AddDocument(ctx, driverID, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) Documents(ctx context.Context, driverID string) ([]Document, error) {
	return s.repo.Documents(ctx, driverID)
}
