package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/resolution-estimator/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventPredictionServed  EventType = "prediction_served"
	EventPredictionFailed  EventType = "prediction_failed"
	EventArtifactsReloaded EventType = "artifacts_reloaded"
)

// Event represents something the service did. Events are never persisted.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	RequestID string      `json:"request_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// NewEvent stamps a new event with an id and the current time.
func NewEvent(eventType EventType, requestID string, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		RequestID: requestID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// PredictionServedPayload payload.
type PredictionServedPayload struct {
	BundleID      string   `json:"bundle_id"`
	Hours         float64  `json:"estimated_resolution_time_hours"`
	UnknownFields []string `json:"unknown_fields,omitempty"`
}

// PredictionFailedPayload payload.
type PredictionFailedPayload struct {
	BundleID string       `json:"bundle_id,omitempty"`
	Stage    domain.Stage `json:"stage"`
	Message  string       `json:"message"`
}

// ArtifactsReloadedPayload payload.
type ArtifactsReloadedPayload struct {
	BundleID  string `json:"bundle_id"`
	Source    string `json:"source"`
	ModelKind string `json:"model_kind"`
}
