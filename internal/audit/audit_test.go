package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "nachlass/pkg/domain"
	"nachlass/pkg/requestcontext"
)

func TestPublisherStampsMissingTimestamp(t *testing.T) {
	store := NewMemoryStore()
	publisher := NewPublisher(store)

	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), fixed)

	universeID := id.NewUniverseID()
	err := publisher.Emit(ctx, Event{
		UniverseID: universeID,
		Action:     ActionMemberAdded,
		Actor:      "admin",
	})
	require.NoError(t, err)

	events, err := publisher.List(ctx, universeID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, fixed, events[0].Timestamp)
	assert.Equal(t, ActionMemberAdded, events[0].Action)
}

func TestPublisherKeepsExplicitTimestamp(t *testing.T) {
	store := NewMemoryStore()
	publisher := NewPublisher(store)

	explicit := time.Date(2025, 12, 24, 18, 0, 0, 0, time.UTC)
	universeID := id.NewUniverseID()
	err := publisher.Emit(context.Background(), Event{
		Timestamp:  explicit,
		UniverseID: universeID,
		Action:     ActionMemberDeleted,
	})
	require.NoError(t, err)

	events, err := publisher.List(context.Background(), universeID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, explicit, events[0].Timestamp)
}

func TestQueueDrainsIntoStore(t *testing.T) {
	store := NewMemoryStore()
	queue := NewQueue(store, 4)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = queue.Run(ctx)
	}()

	universeID := id.NewUniverseID()
	require.NoError(t, queue.Append(ctx, Event{UniverseID: universeID, Action: ActionMemberAdded}))

	require.Eventually(t, func() bool {
		events, err := queue.ListByUniverse(context.Background(), universeID)
		return err == nil && len(events) == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}

func TestMemoryStoreFiltersByUniverse(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	first := id.NewUniverseID()
	second := id.NewUniverseID()
	require.NoError(t, store.Append(ctx, Event{UniverseID: first, Action: ActionMemberAdded}))
	require.NoError(t, store.Append(ctx, Event{UniverseID: second, Action: ActionMemberAdded}))
	require.NoError(t, store.Append(ctx, Event{UniverseID: first, Action: ActionMemberUpdated}))

	events, err := store.ListByUniverse(ctx, first)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, ActionMemberAdded, events[0].Action)
	assert.Equal(t, ActionMemberUpdated, events[1].Action)
}
