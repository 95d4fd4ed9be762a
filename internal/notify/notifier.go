package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/shared/logger"
	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/shared/mq"
)

// Notifier — порт для fan-out уведомлений. Сервисы жизненного цикла
// получают его через DI и ничего не знают о транспорте доставки.
// Доставка best-effort: ошибка публикации логируется, состояние БД
// никогда не откатывается.
type Notifier interface {
	Notify(ctx context.Context, event string, recipients []string, payload any)
}

// AMQPNotifier публикует события в topic exchange брокера
type AMQPNotifier struct {
	mq  *mq.RabbitMQ
	log *logger.Logger
}

func NewAMQPNotifier(conn *mq.RabbitMQ, log *logger.Logger) *AMQPNotifier {
	return &AMQPNotifier{mq: conn, log: log}
}

func (n *AMQPNotifier) Notify(ctx context.Context, event string, recipients []string, payload any) {
	if len(recipients) == 0 {
		return
	}

	body, err := json.Marshal(Envelope{
		Event:      event,
		Recipients: recipients,
		Payload:    payload,
	})
	if err != nil {
		n.log.Error(logger.Entry{
			Action:  "notify_marshal_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		return
	}

	routingKey := fmt.Sprintf("notify.%s", event)
	if err := n.mq.Publish(ctx, mq.ExchangeRideEvents, routingKey, body); err != nil {
		n.log.Error(logger.Entry{
			Action:  "notify_publish_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
			Additional: map[string]any{
				"event":      event,
				"recipients": len(recipients),
			},
		})
	}
}
