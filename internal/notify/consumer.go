package notify

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/shared/logger"
	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/shared/mq"
)

// Sender — то, что умеет доставить JSON конкретному пользователю.
// Реализуется ws.Hub.
type Sender interface {
	SendToUserJSON(userID string, data any) error
}

// Consumer читает события из очереди и раздаёт их подключенным клиентам.
// At-most-once: сообщение подтверждается независимо от того, онлайн ли
// получатель; офлайн-клиенты восстанавливают состояние через REST.
type Consumer struct {
	mq     *mq.RabbitMQ
	sender Sender
	log    *logger.Logger
}

func NewConsumer(conn *mq.RabbitMQ, sender Sender, log *logger.Logger) *Consumer {
	return &Consumer{mq: conn, sender: sender, log: log}
}

// Run запускает consumer (неблокирующий, горутина внутри mq.Consume)
func (c *Consumer) Run(ctx context.Context) error {
	return c.mq.Consume(ctx, mq.QueueNotifications, "ws-fanout", c.handle)
}

func (c *Consumer) handle(msg amqp.Delivery) {
	var env Envelope
	if err := json.Unmarshal(msg.Body, &env); err != nil {
		c.log.Error(logger.Entry{
			Action:  "notify_unmarshal_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		_ = msg.Nack(false, false) // в dead letter, не requeue
		return
	}

	out := Message{Event: env.Event, Data: env.Payload}
	for _, userID := range env.Recipients {
		if err := c.sender.SendToUserJSON(userID, out); err != nil {
			c.log.Error(logger.Entry{
				Action:  "notify_send_failed",
				Message: err.Error(),
				Error:   &logger.ErrObj{Msg: err.Error()},
				Additional: map[string]any{
					"event":   env.Event,
					"user_id": userID,
				},
			})
		}
	}

	_ = msg.Ack(false)
}
