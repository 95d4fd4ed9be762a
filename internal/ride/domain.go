package ride

import "time"

// ==== Статусы поездки ====
const (
	StatusPending   = "pending"
	StatusAccepted  = "accepted"
	StatusArrived   = "arrived"
	StatusStarted   = "started"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// transitions — допустимые переходы по ходу поездки.
// cancelled достижим из любого нетерминального статуса и
// обрабатывается отдельно (Cancel, не UpdateStatus).
var transitions = map[string]string{
	StatusPending:  StatusAccepted,
	StatusAccepted: StatusArrived,
	StatusArrived:  StatusStarted,
	StatusStarted:  StatusCompleted,
}

// CanTransition проверяет переход from -> to вдоль основной цепочки
func CanTransition(from, to string) bool {
	return transitions[from] == to
}

// IsTerminal — после completed и cancelled поездка не меняется
func IsTerminal(status string) bool {
	return status == StatusCompleted || status == StatusCancelled
}

// Point — адрес с координатами
type Point struct {
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// Ride — поездка. Тариф фиксируется при создании заказа.
type Ride struct {
	ID           string `json:"id"`
	RideNumber   string `json:"ride_number"`
	PassengerID  string `json:"passenger_id"`
	DriverID     string `json:"driver_id,omitempty"`
	VehicleClass string `json:"vehicle_class"`
	Status       string `json:"status"`

	Pickup  Point `json:"pickup"`
	Dropoff Point `json:"dropoff"`

	Fare        Fare    `json:"fare"`
	DistanceKm  float64 `json:"distance_km"`
	DurationMin float64 `json:"duration_min"`

	PaymentMethod string `json:"payment_method"`
	PaymentStatus string `json:"payment_status"`

	// passenger_rating — оценка, выставленная пассажиром (водителю),
	// driver_rating — наоборот
	PassengerRating int    `json:"passenger_rating,omitempty"`
	PassengerReview string `json:"passenger_review,omitempty"`
	DriverRating    int    `json:"driver_rating,omitempty"`
	DriverReview    string `json:"driver_review,omitempty"`

	CancelledBy        string `json:"cancelled_by,omitempty"`
	CancellationReason string `json:"cancellation_reason,omitempty"`

	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// IsParty — участвует ли пользователь в поездке
func (r *Ride) IsParty(userID string) bool {
	return r.PassengerID == userID || r.DriverID == userID
}

// OtherParty возвращает второго участника поездки (пустая строка,
// если водитель еще не назначен)
func (r *Ride) OtherParty(userID string) string {
	if r.PassengerID == userID {
		return r.DriverID
	}
	return r.PassengerID
}
