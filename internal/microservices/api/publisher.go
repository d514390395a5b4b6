package api

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"restaurant-admin/internal/connections/rabbitmq"
	"restaurant-admin/internal/domain"
)

const publishTimeout = 5 * time.Second

// broker is the part of *rabbitmq.Client the publisher uses.
type broker interface {
	Publish(ctx context.Context, exchange, key string, body []byte, headers amqp.Table, contentType string, persistent bool) error
}

type EventPublisher struct {
	b broker
}

func NewEventPublisher(c *rabbitmq.Client) *EventPublisher { return &EventPublisher{b: c} }

func (p *EventPublisher) Publish(ctx context.Context, ev domain.ResourceEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	return p.b.Publish(ctx, rabbitmq.EventsExchange, ev.RoutingKey(), body,
		amqp.Table{"x-source": "api"}, "application/json", true)
}
