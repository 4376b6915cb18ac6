// Package amqp publishes order events to a RabbitMQ topic exchange.
package amqp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	amqp091 "github.com/rabbitmq/amqp091-go"

	"github.com/Apurer/dineflow/internal/domains/orders/domain"
	"github.com/Apurer/dineflow/internal/domains/orders/ports"
)

// DefaultExchange receives every order event, routed by event name.
const DefaultExchange = "dineflow.orders"

const publishTimeout = 5 * time.Second

var _ ports.EventPublisher = (*Publisher)(nil)

// channel is the part of *amqp091.Channel the publisher uses.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// Publisher sends events as persistent JSON messages.
type Publisher struct {
	conn     io.Closer
	ch       channel
	exchange string
	logger   *slog.Logger
}

// Dial connects to the broker and declares the topic exchange.
func Dial(url, exchange string, logger *slog.Logger) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare %s exchange: %w", exchange, err)
	}
	return newPublisher(conn, ch, exchange, logger), nil
}

func newPublisher(conn io.Closer, ch channel, exchange string, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Publisher{conn: conn, ch: ch, exchange: exchange, logger: logger}
}

// Publish sends the event with its name as routing key.
func (p *Publisher) Publish(ctx context.Context, event domain.Event) error {
	if event == nil {
		return errors.New("event is nil")
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", event.EventName(), err)
	}
	publishing := amqp091.Publishing{
		ContentType:  "application/json",
		Type:         event.EventName(),
		Body:         body,
		DeliveryMode: amqp091.Persistent,
		Timestamp:    event.OccurredAt(),
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := p.ch.PublishWithContext(ctx, p.exchange, event.EventName(), false, false, publishing); err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.EventName(), err)
	}
	p.logger.LogAttrs(ctx, slog.LevelDebug, "order event published",
		slog.String("exchange", p.exchange),
		slog.String("routing_key", event.EventName()),
		slog.Int("message_size", len(body)),
	)
	return nil
}

// Close closes the channel and the connection.
func (p *Publisher) Close() error {
	var err error
	if p.ch != nil {
		err = errors.Join(err, p.ch.Close())
	}
	if p.conn != nil {
		err = errors.Join(err, p.conn.Close())
	}
	return err
}
