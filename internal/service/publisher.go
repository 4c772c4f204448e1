// Package service provides the event publisher used by the HTTP handlers.
// Publishing is best effort: errors are logged and returned so callers can
// ignore them without interrupting the request.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/iliyamo/assistant-threads/internal/queue"
)

// Publisher sends conversation events to a durable RabbitMQ queue.  Each
// publish opens its own connection so a broker outage never leaves the
// server holding a dead channel.
type Publisher struct {
	URL    string
	Queue  string
	Logger *zap.Logger
}

func NewPublisher(url, queueName string, logger *zap.Logger) *Publisher {
	return &Publisher{URL: url, Queue: queueName, Logger: logger}
}

// Publish marshals ev and publishes it as a persistent message routed to
// the queue through the default exchange.
func (p *Publisher) Publish(ctx context.Context, ev queue.ConversationEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return p.fail("marshal event", err, ev)
	}

	conn, err := amqp.Dial(p.URL)
	if err != nil {
		return p.fail("dial broker", err, ev)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return p.fail("open channel", err, ev)
	}
	defer func() { _ = ch.Close() }()

	// idempotent; durable so events survive broker restarts
	if _, err := ch.QueueDeclare(p.Queue, true, false, false, false, nil); err != nil {
		return p.fail("declare queue", err, ev)
	}

	err = ch.PublishWithContext(ctx, "", p.Queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.ID,
		Type:         string(ev.Type),
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return p.fail("publish", err, ev)
	}
	return nil
}

func (p *Publisher) fail(step string, err error, ev queue.ConversationEvent) error {
	p.Logger.Warn("rabbitmq: "+step+" failed",
		zap.Error(err),
		zap.String("event_type", string(ev.Type)),
		zap.String("thread_id", ev.ThreadID))
	return fmt.Errorf("%s: %w", step, err)
}

// Discard drops every event.  It stands in for Publisher when event
// publishing is disabled.
type Discard struct{}

func (Discard) Publish(context.Context, queue.ConversationEvent) error { return nil }
