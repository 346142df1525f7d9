// Package queue carries record change notifications over RabbitMQ: the
// event payload, the publisher used by the API server and the consumer
// behind cmd/audit-consumer.
package queue

import (
	"time"

	"github.com/google/uuid"
)

// DefaultQueue is the durable queue change events are published to.
const DefaultQueue = "records.changed"

// Actions reported in RecordChangedEvent.Action.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// RecordChangedEvent is published after a create, update or delete has
// been committed.  Record holds the record as returned to the client (the
// removed record for deletes) so consumers need not query the database.
type RecordChangedEvent struct {
	ID         string         `json:"id"`
	Collection string         `json:"collection"`
	Action     string         `json:"action"`
	Key        map[string]any `json:"key"`
	Record     any            `json:"record,omitempty"`
	At         string         `json:"at"`
}

// NewRecordChangedEvent stamps a new event with a random id and the
// current UTC time.
func NewRecordChangedEvent(collection, action string, key map[string]any, record any) RecordChangedEvent {
	return RecordChangedEvent{
		ID:         uuid.NewString(),
		Collection: collection,
		Action:     action,
		Key:        key,
		Record:     record,
		At:         time.Now().UTC().Format(time.RFC3339),
	}
}
