package events

import (
	"context"
	"errors"
	"testing"
)

func TestDispatcherInvokesAllHandlers(t *testing.T) {
	d := NewInMemoryDispatcher()
	var calls []string
	d.Subscribe(EventPredictionServed, func(ctx context.Context, e Event) error {
		calls = append(calls, "first")
		return errors.New("boom")
	})
	d.Subscribe(EventPredictionServed, func(ctx context.Context, e Event) error {
		calls = append(calls, "second")
		return nil
	})
	d.Subscribe(EventPredictionFailed, func(ctx context.Context, e Event) error {
		calls = append(calls, "other")
		return nil
	})

	err := d.Publish(context.Background(), NewEvent(EventPredictionServed, "req", nil))
	if err == nil {
		t.Fatalf("expected handler error to be reported")
	}
	if len(calls) != 2 || calls[0] != "first" || calls[1] != "second" {
		t.Fatalf("unexpected calls: %v", calls)
	}
}

func TestNewEventStampsIDAndTime(t *testing.T) {
	a := NewEvent(EventArtifactsReloaded, "", nil)
	b := NewEvent(EventArtifactsReloaded, "", nil)
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("expected unique event ids, got %q and %q", a.ID, b.ID)
	}
	if a.Timestamp.IsZero() {
		t.Fatalf("expected timestamp")
	}
}
