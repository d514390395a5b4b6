package domain

import (
	"fmt"
	"time"
)

type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// ResourceEvent is published by the API after every successful mutation.
type ResourceEvent struct {
	Resource   string    `json:"resource"`
	Action     Action    `json:"action"`
	RecordID   string    `json:"record_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// RoutingKey follows resource.<name>.<action>.
func (e ResourceEvent) RoutingKey() string {
	return fmt.Sprintf("resource.%s.%s", e.Resource, e.Action)
}
