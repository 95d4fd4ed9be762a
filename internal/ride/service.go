package ride

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/notify"
	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/shared/logger"
	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/shared/metrics"
	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/user"
)

// Радиус поиска водителей вокруг точки подачи
const searchRadiusKm = 10.0

// GeoIndex — geo-индекс доступных водителей (Redis)
type GeoIndex interface {
	NearbyDrivers(ctx context.Context, lng, lat, radiusKm float64) ([]string, error)
	RemoveDriver(ctx context.Context, driverID string) error
}

// DriverDirectory отдаёт доступных водителей из БД, когда geo-индекс
// пуст или недоступен
type DriverDirectory interface {
	AvailableDriverIDs(ctx context.Context) ([]string, error)
}

// ContactSource — доверенные контакты пассажира для share-ride
type ContactSource interface {
	TrustedContacts(ctx context.Context, userID string) ([]user.TrustedContact, error)
}

// SMSSender — канал исходящих SMS
type SMSSender interface {
	Send(to, body string) error
}

// Service — жизненный цикл поездки
type Service struct {
	repo     Repository
	geo      GeoIndex
	drivers  DriverDirectory
	contacts ContactSource
	sms      SMSSender
	notifier notify.Notifier
	log      *logger.Logger
}

func NewService(repo Repository, geo GeoIndex, drivers DriverDirectory, contacts ContactSource, sms SMSSender, notifier notify.Notifier, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		geo:      geo,
		drivers:  drivers,
		contacts: contacts,
		sms:      sms,
		notifier: notifier,
		log:      log,
	}
}

// CreateRideInput — параметры нового заказа
type CreateRideInput struct {
	VehicleClass  string
	Pickup        Point
	Dropoff       Point
	PaymentMethod string
	DistanceKm    float64
	DurationMin   float64
}

// Create создает заказ, фиксирует тариф и оповещает водителей поблизости
func (s *Service) Create(ctx context.Context, passengerID string, input CreateRideInput) (*Ride, error) {
	if !ValidVehicleClass(input.VehicleClass) {
		return nil, ErrInvalidVehicleClass
	}
	if !validCoords(input.Pickup) || !validCoords(input.Dropoff) {
		return nil, ErrInvalidCoordinates
	}

	distance := input.DistanceKm
	if distance <= 0 {
		distance = HaversineKm(input.Pickup.Lat, input.Pickup.Lng, input.Dropoff.Lat, input.Dropoff.Lng)
	}
	duration := input.DurationMin
	if duration <= 0 {
		duration = EstimateDurationMin(distance)
	}

	fare, err := ComputeFare(distance, input.VehicleClass, duration)
	if err != nil {
		return nil, err
	}

	method := input.PaymentMethod
	if method == "" {
		method = "cash"
	}

	now := time.Now().UTC()
	r := &Ride{
		ID:            uuid.New().String(),
		RideNumber:    newRideNumber(now),
		PassengerID:   passengerID,
		VehicleClass:  input.VehicleClass,
		Status:        StatusPending,
		Pickup:        input.Pickup,
		Dropoff:       input.Dropoff,
		Fare:          fare,
		DistanceKm:    distance,
		DurationMin:   duration,
		PaymentMethod: method,
		PaymentStatus: "pending",
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	metrics.RidesCreated.Inc()

	s.log.Info(logger.Entry{
		Action:  "ride_created",
		Message: r.RideNumber,
		RideID:  r.ID,
		Additional: map[string]any{
			"passenger_id":  passengerID,
			"vehicle_class": r.VehicleClass,
			"fare_total":    r.Fare.Total,
		},
	})

	s.notifier.Notify(ctx, notify.EventNewRideRequest, s.candidateDrivers(ctx, r), r)
	return r, nil
}

// candidateDrivers ищет водителей рядом с точкой подачи; при пустом
// или недоступном geo-индексе откатывается на всех доступных из БД
func (s *Service) candidateDrivers(ctx context.Context, r *Ride) []string {
	ids, err := s.geo.NearbyDrivers(ctx, r.Pickup.Lng, r.Pickup.Lat, searchRadiusKm)
	if err != nil {
		s.log.Warn(logger.Entry{
			Action:  "nearby_drivers_failed",
			Message: err.Error(),
			RideID:  r.ID,
		})
	}
	if len(ids) > 0 {
		return ids
	}

	ids, err = s.drivers.AvailableDriverIDs(ctx)
	if err != nil {
		s.log.Error(logger.Entry{
			Action:  "available_drivers_failed",
			Message: err.Error(),
			RideID:  r.ID,
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		return nil
	}
	return ids
}

// Accept назначает водителя. При гонке выигрывает первый,
// остальные получают ErrRideUnavailable.
func (s *Service) Accept(ctx context.Context, rideID, driverID string) (*Ride, error) {
	r, err := s.repo.Accept(ctx, rideID, driverID)
	if err != nil {
		return nil, err
	}
	metrics.RidesAccepted.Inc()

	// занятый водитель не должен попадать в выдачу поиска
	if err := s.geo.RemoveDriver(ctx, driverID); err != nil {
		s.log.Warn(logger.Entry{
			Action:  "geo_remove_failed",
			Message: err.Error(),
			RideID:  r.ID,
		})
	}

	s.log.Info(logger.Entry{
		Action:  "ride_accepted",
		Message: r.RideNumber,
		RideID:  r.ID,
		Additional: map[string]any{"driver_id": driverID},
	})

	s.notifier.Notify(ctx, notify.EventRideAccepted, []string{r.PassengerID}, r)
	return r, nil
}

// UpdateStatus двигает поездку по цепочке arrived -> started -> completed.
// Разрешено только назначенному водителю.
func (s *Service) UpdateStatus(ctx context.Context, rideID, driverID, to string) (*Ride, error) {
	r, err := s.repo.FindByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if r.DriverID != driverID {
		return nil, ErrNotAssignedDriver
	}
	if !CanTransition(r.Status, to) {
		return nil, ErrInvalidTransition
	}

	var updated *Ride
	if to == StatusCompleted {
		// наличные считаются оплаченными в момент завершения
		paymentStatus := "pending"
		if r.PaymentMethod == "cash" {
			paymentStatus = "completed"
		}
		updated, err = s.repo.Complete(ctx, r, paymentStatus)
		if err == nil {
			metrics.RidesCompleted.Inc()
		}
	} else {
		updated, err = s.repo.AdvanceStatus(ctx, rideID, r.Status, to)
	}
	if err != nil {
		return nil, err
	}

	s.log.Info(logger.Entry{
		Action:  "ride_status_updated",
		Message: to,
		RideID:  updated.ID,
	})

	s.notifier.Notify(ctx, notify.EventRideStatusUpdated, []string{updated.PassengerID}, updated)
	return updated, nil
}

// Cancel отменяет поездку. Доступно обоим участникам до завершения.
func (s *Service) Cancel(ctx context.Context, rideID, userID, reason string) (*Ride, error) {
	r, err := s.repo.FindByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if !r.IsParty(userID) {
		return nil, ErrNotRideParty
	}
	if IsTerminal(r.Status) {
		return nil, ErrRideNotCancellable
	}

	cancelled, err := s.repo.Cancel(ctx, rideID, userID, reason)
	if err != nil {
		return nil, err
	}
	metrics.RidesCancelled.Inc()

	s.log.Info(logger.Entry{
		Action:  "ride_cancelled",
		Message: cancelled.RideNumber,
		RideID:  cancelled.ID,
		Additional: map[string]any{
			"cancelled_by": userID,
			"reason":       reason,
		},
	})

	if other := cancelled.OtherParty(userID); other != "" {
		s.notifier.Notify(ctx, notify.EventRideCancelled, []string{other}, cancelled)
	}
	return cancelled, nil
}

// Rate выставляет оценку второму участнику завершенной поездки
// и пересчитывает его средний рейтинг
func (s *Service) Rate(ctx context.Context, rideID, userID string, rating int, review string) error {
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}

	r, err := s.repo.FindByID(ctx, rideID)
	if err != nil {
		return err
	}
	if !r.IsParty(userID) {
		return ErrNotRideParty
	}
	if r.Status != StatusCompleted {
		return ErrRideNotCompleted
	}

	byPassenger := userID == r.PassengerID
	if err := s.repo.SetRating(ctx, rideID, byPassenger, rating, review); err != nil {
		return err
	}

	if byPassenger {
		return s.repo.RecalcDriverRating(ctx, r.DriverID)
	}
	return s.repo.RecalcPassengerRating(ctx, r.PassengerID)
}

// Share отправляет SMS с деталями поездки доверенным контактам
// пассажира. Возвращает число отправленных сообщений.
func (s *Service) Share(ctx context.Context, rideID, userID string) (int, error) {
	r, err := s.repo.FindByID(ctx, rideID)
	if err != nil {
		return 0, err
	}
	if r.PassengerID != userID {
		return 0, ErrNotRideParty
	}

	contacts, err := s.contacts.TrustedContacts(ctx, userID)
	if err != nil {
		return 0, err
	}

	body := shareMessage(r)
	sent := 0
	for _, c := range contacts {
		if err := s.sms.Send(c.Phone, body); err != nil {
			s.log.Warn(logger.Entry{
				Action:  "share_sms_failed",
				Message: err.Error(),
				RideID:  r.ID,
			})
			continue
		}
		sent++
	}
	return sent, nil
}

// Get возвращает поездку участнику или администратору
func (s *Service) Get(ctx context.Context, rideID, userID, role string) (*Ride, error) {
	r, err := s.repo.FindByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if role != user.RoleAdmin && !r.IsParty(userID) {
		return nil, ErrNotRideParty
	}
	return r, nil
}

func (s *Service) Active(ctx context.Context, userID string) (*Ride, error) {
	return s.repo.ActiveForUser(ctx, userID)
}

func (s *Service) History(ctx context.Context, userID string, limit int) ([]Ride, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.HistoryForUser(ctx, userID, limit)
}

// Pending — открытые заказы для экрана водителя
func (s *Service) Pending(ctx context.Context) ([]Ride, error) {
	return s.repo.PendingRides(ctx)
}

func validCoords(p Point) bool {
	return p.Address != "" &&
		p.Lat >= -90 && p.Lat <= 90 &&
		p.Lng >= -180 && p.Lng <= 180
}

// newRideNumber — человекочитаемый номер заказа
func newRideNumber(now time.Time) string {
	suffix := strings.ToUpper(uuid.New().String()[:8])
	return fmt.Sprintf("NV-%s-%s", now.Format("20060102"), suffix)
}

func shareMessage(r *Ride) string {
	return fmt.Sprintf(
		"Nova Transport: ride %s (%s). From %s to %s. Track the trip in the app.",
		r.RideNumber, r.Status, r.Pickup.Address, r.Dropoff.Address,
	)
}
