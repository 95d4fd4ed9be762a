package notify

// Имена событий real-time канала (совпадают с именами,
// на которые подписан фронтенд)
const (
	EventNewRideRequest       = "newRideRequest"
	EventRideAccepted         = "rideAccepted"
	EventRideStatusUpdated    = "rideStatusUpdated"
	EventRideCancelled        = "rideCancelled"
	EventDriverLocationUpdate = "driverLocationUpdate"
	EventSOSActivated         = "sosActivated"
)

// Envelope — сообщение, проходящее через брокер от сервисов к consumer'у
type Envelope struct {
	Event      string   `json:"event"`
	Recipients []string `json:"recipients"`
	Payload    any      `json:"payload"`
}

// Message — то, что уходит клиенту в WebSocket
type Message struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}
