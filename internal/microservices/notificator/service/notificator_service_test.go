package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-admin/internal/common/logger"
	"restaurant-admin/internal/domain"
)

func TestFormat(t *testing.T) {
	ns := NewNotificatorService(nil, logger.Nop(), func(a ...any) string { return "<" + a[0].(string) + ">" })
	at := time.Date(2024, 5, 1, 12, 30, 5, 0, time.Local)

	line := ns.Format(domain.ResourceEvent{Resource: "pratos", Action: domain.ActionCreated, RecordID: "7", OccurredAt: at})
	assert.Equal(t, "12:30:05 pratos         <created> #7", line)

	line = ns.Format(domain.ResourceEvent{Resource: "pratos", Action: domain.ActionDeleted, OccurredAt: at})
	assert.False(t, strings.Contains(line, "#"))
}

func TestNotifyPrintsAndSkipsMalformed(t *testing.T) {
	var out bytes.Buffer
	ns := NewNotificatorService(&out, logger.Nop(), nil)

	msgs := make(chan amqp.Delivery, 2)
	msgs <- amqp.Delivery{Body: []byte("{not json")}
	msgs <- amqp.Delivery{Body: []byte(`{"resource":"clientes","action":"updated","record_id":"3","occurred_at":"2024-05-01T12:00:00Z"}`)}
	close(msgs)

	err := ns.Notify(context.Background(), msgs)
	require.Error(t, err)
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "clientes")
	assert.Contains(t, lines[0], "updated #3")
}

func TestNotifyStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ns := NewNotificatorService(&bytes.Buffer{}, logger.Nop(), nil)
	assert.NoError(t, ns.Notify(ctx, make(chan amqp.Delivery)))
}
