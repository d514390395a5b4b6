package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"restaurant-admin/internal/common/logger"
	"restaurant-admin/internal/domain"
)

// NotificatorService prints every resource event it receives, one line per
// event.
type NotificatorService struct {
	out io.Writer
	lg  *logger.Logger
	// style wraps the action word; the CLI passes a colour function.
	style func(a ...any) string
}

func NewNotificatorService(out io.Writer, lg *logger.Logger, style func(a ...any) string) *NotificatorService {
	if style == nil {
		style = fmt.Sprint
	}
	return &NotificatorService{out: out, lg: lg, style: style}
}

// Format renders one event as "<time> <resource> <action> #<id>".
func (ns *NotificatorService) Format(ev domain.ResourceEvent) string {
	at := ev.OccurredAt
	if at.IsZero() {
		at = time.Now()
	}
	line := fmt.Sprintf("%s %-14s %s", at.Local().Format("15:04:05"), ev.Resource, ns.style(string(ev.Action)))
	if ev.RecordID != "" {
		line += " #" + ev.RecordID
	}
	return line
}

// Notify blocks until ctx ends or the delivery channel closes. Malformed
// bodies are logged and skipped.
func (ns *NotificatorService) Notify(ctx context.Context, msgs <-chan amqp.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("event stream closed")
			}
			var ev domain.ResourceEvent
			if err := json.Unmarshal(msg.Body, &ev); err != nil {
				ns.lg.Warn("event_malformed", map[string]any{"routing_key": msg.RoutingKey, "error": err.Error()})
				continue
			}
			fmt.Fprintln(ns.out, ns.Format(ev))
		}
	}
}
