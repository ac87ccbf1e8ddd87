package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"feedgraph/internal/model"
)

// publishChannel is the part of *amqp.Channel the publisher uses.
type publishChannel interface {
	queueDeclarer
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	IsClosed() bool
	Close() error
}

// EventPublisher sends feed events to a durable queue as persistent JSON
// messages.
type EventPublisher struct {
	open      func() (publishChannel, error)
	queueName string

	mu sync.Mutex
	ch publishChannel
}

func NewEventPublisher(conn *amqp.Connection, queueName string) *EventPublisher {
	return newEventPublisher(func() (publishChannel, error) {
		ch, err := conn.Channel()
		if err != nil {
			return nil, err
		}
		return ch, nil
	}, queueName)
}

func newEventPublisher(open func() (publishChannel, error), queueName string) *EventPublisher {
	return &EventPublisher{open: open, queueName: queueName}
}

func (p *EventPublisher) PublishFeedEvent(ctx context.Context, event model.FeedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal feed event failed: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		return err
	}

	if err := ch.PublishWithContext(ctx, "", p.queueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Type:         string(event.Kind),
		Timestamp:    event.OccurredAt,
		Body:         payload,
		DeliveryMode: amqp.Persistent,
	}); err != nil {
		// drop the channel so the next publish reopens it
		_ = ch.Close()
		p.ch = nil
		return fmt.Errorf("publish feed event failed: %w", err)
	}
	return nil
}

// channel returns the cached channel, reopening it after a failure. Callers
// hold p.mu.
func (p *EventPublisher) channel() (publishChannel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	ch, err := p.open()
	if err != nil {
		return nil, fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	if err := DeclareQueue(ch, p.queueName); err != nil {
		_ = ch.Close()
		return nil, err
	}
	p.ch = ch
	return ch, nil
}

func (p *EventPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch == nil {
		return nil
	}
	err := p.ch.Close()
	p.ch = nil
	return err
}
