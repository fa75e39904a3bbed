package audit

import (
	"context"

	id "nachlass/pkg/domain"
)

// Queue decorates a Store with a buffered inbox so emitters do not block on
// the backing store. Run must be started for appends to drain.
type Queue struct {
	store Store
	inbox chan Event
}

func NewQueue(store Store, size int) *Queue {
	return &Queue{store: store, inbox: make(chan Event, size)}
}

func (q *Queue) Append(ctx context.Context, event Event) error {
	select {
	case q.inbox <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ListByUniverse reads from the backing store. Events still sitting in the
// inbox are not visible yet.
func (q *Queue) ListByUniverse(ctx context.Context, universeID id.UniverseID) ([]Event, error) {
	return q.store.ListByUniverse(ctx, universeID)
}

// Run drains the inbox into the backing store until ctx is cancelled.
func (q *Queue) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event := <-q.inbox:
			if err := q.store.Append(ctx, event); err != nil {
				return err
			}
		}
	}
}
