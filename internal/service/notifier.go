package service

import (
	"context"
	"log"

	"github.com/iliyamo/event-records/internal/queue"
)

// Notifier is told about every committed mutation.
type Notifier interface {
	Notify(ctx context.Context, ev queue.RecordChangedEvent) error
}

// Notifiers fans an event out to several notifiers.  A failing notifier is
// logged and does not stop the others.
type Notifiers []Notifier

func (ns Notifiers) Notify(ctx context.Context, ev queue.RecordChangedEvent) error {
	for _, n := range ns {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, ev); err != nil {
			log.Printf("notify %s %s: %v", ev.Collection, ev.Action, err)
		}
	}
	return nil
}
