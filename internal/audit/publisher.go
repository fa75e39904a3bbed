package audit

import (
	"context"

	id "nachlass/pkg/domain"
	"nachlass/pkg/requestcontext"
)

// Publisher captures structured audit events. It is append-only and uses the
// storage layer for persistence so tests can swap sinks easily.
type Publisher struct {
	store Store
}

func NewPublisher(store Store) *Publisher {
	return &Publisher{store: store}
}

func (p *Publisher) Emit(ctx context.Context, base Event) error {
	if base.Timestamp.IsZero() {
		base.Timestamp = requestcontext.Now(ctx)
	}
	return p.store.Append(ctx, base)
}

func (p *Publisher) List(ctx context.Context, universeID id.UniverseID) ([]Event, error) {
	return p.store.ListByUniverse(ctx, universeID)
}
