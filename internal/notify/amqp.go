package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/maitred-run/maitred/internal/entity"
)

// AMQPConfig holds the broker connection settings for the event relay.
type AMQPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Exchange string
}

// AMQPRelay publishes committed events to a topic exchange so external
// consumers (kitchen displays, analytics) can follow the floor without
// polling. Routing key is the event kind, e.g. "reservation.created".
type AMQPRelay struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	logger   *slog.Logger
}

// DialAMQP connects to the broker, enables publisher confirms and
// declares the exchange.
func DialAMQP(cfg AMQPConfig, logger *slog.Logger) (*AMQPRelay, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	url := fmt.Sprintf("amqp://%s:%s@%s:%d/", cfg.User, cfg.Password, cfg.Host, cfg.Port)
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.Confirm(false); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("enable publisher confirms: %w", err)
	}

	if err := ch.ExchangeDeclare(cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", cfg.Exchange, err)
	}

	return &AMQPRelay{conn: conn, ch: ch, exchange: cfg.Exchange, logger: logger}, nil
}

// Handler returns a notify.Handler that relays events to the broker.
// Register it on the notifier like any other subscriber.
func (r *AMQPRelay) Handler() Handler {
	return func(ev entity.Event) error {
		return r.publish(ev)
	}
}

func (r *AMQPRelay) publish(ev entity.Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event %d: %w", ev.Seq, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	confirm, err := r.ch.PublishWithDeferredConfirmWithContext(ctx,
		r.exchange,
		string(ev.Kind),
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    fmt.Sprintf("%d", ev.Seq),
			Timestamp:    ev.RecordedAt,
			Body:         body,
		})
	if err != nil {
		return fmt.Errorf("publish event %d: %w", ev.Seq, err)
	}

	ok, err := confirm.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("confirm event %d: %w", ev.Seq, err)
	}
	if !ok {
		return fmt.Errorf("event %d nacked by broker", ev.Seq)
	}

	r.logger.Debug("event relayed", "seq", ev.Seq, "kind", string(ev.Kind))
	return nil
}

// Close shuts down the channel and connection.
func (r *AMQPRelay) Close() error {
	if r.ch != nil {
		r.ch.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}
