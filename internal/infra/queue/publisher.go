// Package queue moves analytics events through RabbitMQ. The publisher is an
// analytics.Sink for the HTTP process; the consumer drains the queue into the
// database.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"pulse/internal/domain/analytics"
	"pulse/internal/infra/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const AnalyticsQueue = "pulse.analytics"

// Publisher keeps one connection and channel open and redials after the
// broker drops them.
type Publisher struct {
	url string

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewPublisher(url string) *Publisher {
	return &Publisher{url: url}
}

func (p *Publisher) Record(ctx context.Context, ev analytics.Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal analytics event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", AnalyticsQueue, false, false, pub); err != nil {
		p.reset()
		logger.Error("rabbitmq: publish failed", "error", err)
		return fmt.Errorf("publish analytics event: %w", err)
	}
	return nil
}

// channel must be called with mu held.
func (p *Publisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	p.reset()

	conn, err := amqp.Dial(p.url)
	if err != nil {
		logger.Error("rabbitmq: dial failed", "error", err)
		return nil, fmt.Errorf("dial broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if _, err := ch.QueueDeclare(AnalyticsQueue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}
	p.conn, p.ch = conn, ch
	return ch, nil
}

func (p *Publisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.conn, p.ch = nil, nil
}

func (p *Publisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reset()
}
