package safety

import (
	"fmt"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/shared/config"
	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/shared/logger"
)

// SMSSender — канал исходящих SMS
type SMSSender interface {
	Send(to, body string) error
}

// TwilioSender отправляет SMS через Twilio
type TwilioSender struct {
	client *twilio.RestClient
	from   string
	log    *logger.Logger
}

func NewTwilioSender(cfg config.TwilioConfig, log *logger.Logger) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return &TwilioSender{client: client, from: cfg.FromNumber, log: log}
}

func (s *TwilioSender) Send(to, body string) error {
	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("twilio send to %s: %w", to, err)
	}
	return nil
}

// LogSender пишет SMS в лог вместо отправки. Используется в dev-окружении
// без Twilio креденшалов.
type LogSender struct {
	log *logger.Logger
}

func NewLogSender(log *logger.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(to, body string) error {
	s.log.Info(logger.Entry{
		Action:  "sms_mock_send",
		Message: body,
		Additional: map[string]any{"to": to},
	})
	return nil
}

// NewSender выбирает реализацию по наличию номера отправителя в конфиге
func NewSender(cfg config.TwilioConfig, log *logger.Logger) SMSSender {
	if cfg.FromNumber == "" {
		return NewLogSender(log)
	}
	return NewTwilioSender(cfg, log)
}
