package storage

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *EventStore {
	t.Helper()
	store, err := OpenEventStore(filepath.Join(t.TempDir(), "events.sqlite"))
	if err != nil {
		t.Fatalf("open event store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestEventRoundTrip(t *testing.T) {
	store := openTestStore(t)
	store.Event("workflow", "demo-1", "repair-flow", "info", "phase: initialize")
	store.Event("workflow", "demo-1", "repair-flow", "info", "phase: scan")
	store.Event("workflow", "other", "repair-flow", "error", "device other not found")

	events, err := store.RecentEvents("demo-1", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events for demo-1, got %d", len(events))
	}
	// Newest first.
	if events[0].Message != "phase: scan" || events[1].Message != "phase: initialize" {
		t.Fatalf("unexpected order: %q, %q", events[0].Message, events[1].Message)
	}
	if events[0].Category != "workflow" || events[0].Method != "repair-flow" {
		t.Fatalf("keying lost: %+v", events[0])
	}
}

func TestRecentEventsAllDevicesAndLimit(t *testing.T) {
	store := openTestStore(t)
	for i := 0; i < 5; i++ {
		store.Event("workflow", "demo-1", "repair-flow", "info", "event")
	}
	events, err := store.RecentEvents("", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 3 {
		t.Fatalf("limit not applied: got %d", len(events))
	}
}

func TestEventOnClosedStoreIsNoop(t *testing.T) {
	var store *EventStore
	// Must not panic; the sink is a side channel.
	store.Event("workflow", "demo-1", "repair-flow", "info", "ignored")
	if _, err := store.RecentEvents("demo-1", 1); err == nil {
		t.Fatal("reads on a nil store should error")
	}
}
