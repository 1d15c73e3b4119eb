package dto

import "time"

// PredictionResponse is the success body of POST /predict.
type PredictionResponse struct {
	EstimatedResolutionTimeHours float64 `json:"estimated_resolution_time_hours"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ModelResponse describes the active artifact bundle.
type ModelResponse struct {
	BundleID      string            `json:"bundle_id"`
	Source        string            `json:"source"`
	LoadedAt      time.Time         `json:"loaded_at"`
	ModelKind     string            `json:"model_kind"`
	ModelFeatures []string          `json:"model_features"`
	Encoders      []EncoderResponse `json:"encoders"`
}

// EncoderResponse summarizes one categorical encoder.
type EncoderResponse struct {
	Field      string `json:"field"`
	ClassCount int    `json:"class_count"`
}
