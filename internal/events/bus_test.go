package events

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/cinetrack/internal/migrations"

	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, migrations.Apply(db))
	return db
}

func TestBus_PublishSubscribe(t *testing.T) {
	bus := NewBus(NewEventLog(setupTestDB(t)), nil)
	defer bus.Close()

	ch := bus.Subscribe(EventCatalogChanged, 10)

	err := bus.Publish(context.Background(), NewCatalogChanged(ReasonAdded, 550, 1))
	require.NoError(t, err)

	select {
	case received := <-ch:
		assert.Equal(t, EventCatalogChanged, received.EventType())
		assert.Equal(t, int64(550), received.EntityID())
		changed, ok := received.(*CatalogChanged)
		require.True(t, ok)
		assert.Equal(t, ReasonAdded, changed.Reason)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func TestBus_SubscribeIgnoresOtherTypes(t *testing.T) {
	bus := NewBus(nil, nil)
	defer bus.Close()

	ch := bus.Subscribe("other.type", 10)
	require.NoError(t, bus.Publish(context.Background(), NewCatalogChanged(ReasonLoaded, 0, 3)))

	select {
	case e := <-ch:
		t.Fatalf("unexpected event %s", e.EventType())
	default:
	}
}

func TestBus_SubscribeAll(t *testing.T) {
	bus := NewBus(nil, nil)
	defer bus.Close()

	ch := bus.SubscribeAll(10)

	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, NewCatalogChanged(ReasonAdded, 1, 1)))
	require.NoError(t, bus.Publish(ctx, NewCatalogChanged(ReasonRemoved, 1, 0)))

	var received []Event
	timeout := time.After(time.Second)
	for i := 0; i < 2; i++ {
		select {
		case e := <-ch:
			received = append(received, e)
		case <-timeout:
			t.Fatalf("timeout waiting for event %d", i+1)
		}
	}
	assert.Len(t, received, 2)
}

func TestBus_FullSubscriberDoesNotBlock(t *testing.T) {
	bus := NewBus(nil, nil)
	defer bus.Close()

	ch := bus.SubscribeAll(1)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 5; i++ {
			_ = bus.Publish(context.Background(), NewCatalogChanged(ReasonAdded, int64(i+1), i+1))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}
	assert.Len(t, ch, 1)
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus(nil, nil)
	defer bus.Close()

	ch := bus.Subscribe(EventCatalogChanged, 10)
	bus.Unsubscribe(ch)

	require.NoError(t, bus.Publish(context.Background(), NewCatalogChanged(ReasonAdded, 1, 1)))

	_, ok := <-ch
	assert.False(t, ok, "channel should be closed")
}

func TestBus_CloseClosesSubscribers(t *testing.T) {
	bus := NewBus(nil, nil)
	ch := bus.SubscribeAll(1)

	require.NoError(t, bus.Close())
	_, ok := <-ch
	assert.False(t, ok)

	// Publishing and subscribing after close are harmless.
	require.NoError(t, bus.Publish(context.Background(), NewCatalogChanged(ReasonAdded, 1, 1)))
	late := bus.Subscribe(EventCatalogChanged, 1)
	_, ok = <-late
	assert.False(t, ok)
}

func TestBus_ConcurrentPublish(t *testing.T) {
	bus := NewBus(nil, nil)
	defer bus.Close()

	ch := bus.SubscribeAll(100)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = bus.Publish(context.Background(), NewCatalogChanged(ReasonStatusChanged, int64(n+1), 10))
		}(i)
	}
	wg.Wait()

	assert.Len(t, ch, 10)
}

func TestBus_PersistsToEventLog(t *testing.T) {
	log := NewEventLog(setupTestDB(t))
	bus := NewBus(log, nil)
	defer bus.Close()

	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, NewCatalogChanged(ReasonAdded, 42, 1)))

	events, err := log.ForEntity(ctx, EntityRecord, 42)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, EventCatalogChanged, events[0].EventType)
}
