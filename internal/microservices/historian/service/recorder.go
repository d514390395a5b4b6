package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"restaurant-admin/internal/client"
	"restaurant-admin/internal/common/logger"
	"restaurant-admin/internal/domain"
)

var (
	ErrRequeue = errors.New("requeue")     // nack(requeue=true)
	ErrDLQ     = errors.New("dead_letter") // nack(requeue=false)
)

// HistoryWriter stores one historico row; *client.Client satisfies it.
type HistoryWriter interface {
	Create(ctx context.Context, resource string, draft domain.Record) (domain.Record, error)
}

type RecorderServiceInterface interface {
	Handle(ctx context.Context, body []byte) error
	Run(ctx context.Context, msgs <-chan amqp.Delivery) error
}

type RecorderService struct {
	w  HistoryWriter
	lg *logger.Logger
}

func NewRecorderService(w HistoryWriter, lg *logger.Logger) *RecorderService {
	return &RecorderService{w: w, lg: lg}
}

// Handle turns one resource event into a historico entry.
func (rs *RecorderService) Handle(ctx context.Context, body []byte) error {
	var ev domain.ResourceEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("%w: %v", ErrDLQ, err)
	}
	if ev.Resource == "" || ev.Action == "" {
		return fmt.Errorf("%w: incomplete event", ErrDLQ)
	}
	if ev.Resource == domain.Historico.Name {
		return nil
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}

	_, err := rs.w.Create(ctx, domain.Historico.Name, domain.Record{
		"recurso":     ev.Resource,
		"acao":        string(ev.Action),
		"registro_id": ev.RecordID,
		"data":        ev.OccurredAt.UTC().Format(time.RFC3339),
	})
	var re *client.RequestError
	if errors.As(err, &re) && re.Status >= 400 && re.Status < 500 {
		return fmt.Errorf("%w: %v", ErrDLQ, err)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequeue, err)
	}
	rs.lg.Debug("history_recorded", map[string]any{"routing_key": ev.RoutingKey(), "record_id": ev.RecordID})
	return nil
}

// Run acks, requeues or dead-letters every delivery until ctx ends or msgs
// is closed. A delivery that already failed once is not requeued again.
func (rs *RecorderService) Run(ctx context.Context, msgs <-chan amqp.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("delivery channel closed")
			}
			rs.settle(d, rs.Handle(ctx, d.Body))
		}
	}
}

func (rs *RecorderService) settle(d amqp.Delivery, err error) {
	switch {
	case err == nil:
		_ = d.Ack(false)
	case errors.Is(err, ErrRequeue) && !d.Redelivered:
		rs.lg.Error("history_write_failed", err, map[string]any{"routing_key": d.RoutingKey})
		_ = d.Nack(false, true)
	default:
		rs.lg.Error("history_dead_lettered", err, map[string]any{"routing_key": d.RoutingKey})
		_ = d.Nack(false, false)
	}
}
