package mq

import (
	"fmt"

	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/shared/logger"
)

const (
	// ExchangeRideEvents — topic exchange для всех событий жизненного цикла
	ExchangeRideEvents = "ride_events"

	// QueueNotifications — очередь, из которой consumer раздаёт события в WebSocket
	QueueNotifications = "notifications"
)

// SetupTopology создает exchanges, queues и bindings
func SetupTopology(mq *RabbitMQ, log *logger.Logger) error {
	ch := mq.Channel()
	if ch == nil {
		return fmt.Errorf("rabbitmq channel not available")
	}

	if err := ch.ExchangeDeclare(
		ExchangeRideEvents,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return fmt.Errorf("declare %s: %w", ExchangeRideEvents, err)
	}

	if _, err := ch.QueueDeclare(QueueNotifications, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", QueueNotifications, err)
	}

	// Все события (notify.*) уходят в одну очередь доставки
	if err := ch.QueueBind(QueueNotifications, "notify.#", ExchangeRideEvents, false, nil); err != nil {
		return fmt.Errorf("bind queue %s: %w", QueueNotifications, err)
	}

	log.Info(logger.Entry{
		Action:  "topology_setup_complete",
		Message: "all exchanges and queues created",
	})

	return nil
}
