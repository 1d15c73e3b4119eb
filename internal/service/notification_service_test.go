package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/resolution-estimator/internal/config"
	"github.com/spec-kit/resolution-estimator/internal/events"
)

type fakeQueue struct {
	accept bool
	events []events.Event
}

func (q *fakeQueue) Enqueue(event events.Event) bool {
	if !q.accept {
		return false
	}
	q.events = append(q.events, event)
	return true
}

func TestNotificationServiceForwardsEvents(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	queue := &fakeQueue{accept: true}
	NewNotificationService(dispatcher, zap.NewNop(), queue).RegisterHandlers()

	for _, et := range []events.EventType{events.EventPredictionServed, events.EventPredictionFailed, events.EventArtifactsReloaded} {
		if err := dispatcher.Publish(context.Background(), events.NewEvent(et, "req", nil)); err != nil {
			t.Fatalf("publish %s: %v", et, err)
		}
	}
	if len(queue.events) != 3 {
		t.Fatalf("expected 3 forwarded events, got %d", len(queue.events))
	}
}

func TestNotificationServiceFullQueueDoesNotFail(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	NewNotificationService(dispatcher, zap.NewNop(), &fakeQueue{accept: false}).RegisterHandlers()

	if err := dispatcher.Publish(context.Background(), events.NewEvent(events.EventPredictionServed, "req", nil)); err != nil {
		t.Fatalf("publish must not fail on a full queue: %v", err)
	}
}

func TestNewWebhookNotifierDisabled(t *testing.T) {
	if NewWebhookNotifier(config.NotificationConfig{WebhookURL: "  "}) != nil {
		t.Fatalf("expected nil notifier without webhook URL")
	}
}

func TestWebhookNotifierDeliver(t *testing.T) {
	received := make(chan events.Event, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var event events.Event
		if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		received <- event
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	notifier := NewWebhookNotifier(config.NotificationConfig{WebhookURL: srv.URL, TimeoutSeconds: 2})
	event := events.NewEvent(events.EventPredictionServed, "req-9", events.PredictionServedPayload{Hours: 3.5})
	if err := notifier.Deliver(context.Background(), event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := <-received
	if got.ID != event.ID || got.Type != events.EventPredictionServed || got.RequestID != "req-9" {
		t.Fatalf("unexpected delivered event: %+v", got)
	}
}

func TestWebhookNotifierRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	notifier := NewWebhookNotifier(config.NotificationConfig{WebhookURL: srv.URL})
	if err := notifier.Deliver(context.Background(), events.NewEvent(events.EventPredictionFailed, "", nil)); err == nil {
		t.Fatalf("expected error for 500 response")
	}
}
