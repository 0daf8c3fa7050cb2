package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Cole-Dreyer/Restaurant-Reservation/utils"
	amqp "github.com/rabbitmq/amqp091-go"
)

var ErrClosed = errors.New("broker: publisher closed")

// Publisher sends floor events to a durable topic exchange. One channel is
// shared by all callers.
type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	mu       sync.Mutex
	closed   bool
}

// Dial connects to url and declares exchange.
func Dial(url, exchange string) (*Publisher, error) {
	if exchange == "" {
		return nil, fmt.Errorf("broker: exchange name is required")
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("broker: dial: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("broker: open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("broker: declare exchange %s: %w", exchange, err)
	}

	if utils.InfoLogger != nil {
		utils.InfoLogger.Printf("Connected to RabbitMQ exchange %s", exchange)
	}
	return &Publisher{conn: conn, channel: channel, exchange: exchange}, nil
}

// RoutingKey turns an event name such as "table_seated" into "table.seated".
func RoutingKey(event string) string {
	return strings.ReplaceAll(event, "_", ".")
}

// Publish sends payload as a persistent JSON message. A nil Publisher
// discards the event.
func (p *Publisher) Publish(ctx context.Context, event string, payload interface{}) error {
	if p == nil {
		return nil
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("broker: marshal %s: %w", event, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}

	err = p.channel.PublishWithContext(ctx,
		p.exchange,
		RoutingKey(event),
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Type:         event,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("broker: publish %s: %w", event, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	if err := p.channel.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		return err
	}
	return p.conn.Close()
}
