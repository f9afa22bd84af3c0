package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// PaymentNotice describes a successful payment for the student notification channel.
type PaymentNotice struct {
	Event     string    `json:"event"`
	Recipient string    `json:"recipient"`
	Name      string    `json:"name"`
	USN       string    `json:"usn"`
	Amount    int64     `json:"amount"`
	FeeType   string    `json:"fee_type"`
	Reference string    `json:"reference"`
	PaidAt    time.Time `json:"paid_at"`
}

// PaymentNotifier delivers payment notices. Delivery is best effort.
type PaymentNotifier interface {
	Notify(ctx context.Context, notice PaymentNotice) error
}

// BrokerPaymentNotifier publishes notices to Redis pub/sub and NATS when configured.
type BrokerPaymentNotifier struct {
	publishers []brokerPublisher
	logger     zerolog.Logger
}

type brokerPublisher struct {
	name    string
	publish func(ctx context.Context, payload []byte) error
}

// NewBrokerPaymentNotifier builds a notifier that fans out on channelBase. Either
// connection may be nil.
func NewBrokerPaymentNotifier(redisClient *redis.Client, natsConn *nats.Conn, channelBase string, logger zerolog.Logger) *BrokerPaymentNotifier {
	notifier := &BrokerPaymentNotifier{
		logger: logger.With().Str("component", "payment_notifier").Logger(),
	}
	if channelBase == "" {
		return notifier
	}

	if redisClient != nil {
		channel := channelBase + ":payments"
		notifier.publishers = append(notifier.publishers, brokerPublisher{
			name: "redis",
			publish: func(ctx context.Context, payload []byte) error {
				return redisClient.Publish(ctx, channel, payload).Err()
			},
		})
	}
	if natsConn != nil {
		subject := strings.ReplaceAll(channelBase, ":", ".") + ".payments"
		notifier.publishers = append(notifier.publishers, brokerPublisher{
			name: "nats",
			publish: func(_ context.Context, payload []byte) error {
				return natsConn.Publish(subject, payload)
			},
		})
	}
	return notifier
}

// Notify publishes notice on every configured broker. A failing broker does not
// stop the others; all failures are joined into the returned error.
func (n *BrokerPaymentNotifier) Notify(ctx context.Context, notice PaymentNotice) error {
	if notice.Event == "" {
		notice.Event = "payment.succeeded"
	}

	payload, err := json.Marshal(notice)
	if err != nil {
		return err
	}

	if len(n.publishers) == 0 {
		n.logger.Info().Str("usn", notice.USN).Int64("amount", notice.Amount).Str("fee_type", notice.FeeType).Msg("payment notice has no broker, logged only")
		return nil
	}

	var errs []error
	for _, publisher := range n.publishers {
		if err := publisher.publish(ctx, payload); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", publisher.name, err))
		}
	}
	return errors.Join(errs...)
}

// LogPaymentNotifier only logs notices.
type LogPaymentNotifier struct {
	logger zerolog.Logger
}

// NewLogPaymentNotifier constructs a logging notifier.
func NewLogPaymentNotifier(logger zerolog.Logger) *LogPaymentNotifier {
	return &LogPaymentNotifier{logger: logger.With().Str("component", "payment_notifier").Logger()}
}

// Notify logs the notice and returns nil.
func (l *LogPaymentNotifier) Notify(ctx context.Context, notice PaymentNotice) error {
	l.logger.Info().
		Str("usn", notice.USN).
		Int64("amount", notice.Amount).
		Str("fee_type", notice.FeeType).
		Str("reference", notice.Reference).
		Msg("payment notice delivered")
	return nil
}
