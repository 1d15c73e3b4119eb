package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/resolution-estimator/internal/artifacts"
	"github.com/spec-kit/resolution-estimator/internal/domain"
	"github.com/spec-kit/resolution-estimator/internal/events"
	"github.com/spec-kit/resolution-estimator/internal/observability"
	apperrors "github.com/spec-kit/resolution-estimator/pkg/util/errorutil"
)

// BundleProvider returns the currently active artifact bundle.
type BundleProvider interface {
	Current() (*artifacts.Bundle, error)
}

// PredictionService serves single-record estimates against the active bundle.
type PredictionService struct {
	bundles    BundleProvider
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// PredictionDependencies bundles collaborators for the prediction service.
type PredictionDependencies struct {
	Bundles    BundleProvider
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// NewPredictionService constructs the service.
func NewPredictionService(deps PredictionDependencies) *PredictionService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PredictionService{
		bundles:    deps.Bundles,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
	}
}

// Estimate runs the prediction pipeline for one record.
func (s *PredictionService) Estimate(ctx context.Context, requestID string, rec domain.RawRecord) (domain.PredictionResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.PredictionResult{}, apperrors.NewUnavailable("request cancelled", err)
	}
	bundle, err := s.bundles.Current()
	if err != nil {
		return domain.PredictionResult{}, apperrors.NewUnavailable("model artifacts not loaded", err)
	}

	start := time.Now()
	result, err := NewPipeline(bundle.EncoderLookup(), bundle.Model).Run(rec)
	elapsed := time.Since(start)

	if err != nil {
		stage, _ := domain.StageOf(err)
		s.metrics.ObservePrediction(elapsed, outcomeFor(stage), nil)
		s.logFailure(requestID, bundle.ID, stage, err)
		s.publish(ctx, events.NewEvent(events.EventPredictionFailed, requestID, events.PredictionFailedPayload{
			BundleID: bundle.ID,
			Stage:    stage,
			Message:  err.Error(),
		}))
		return domain.PredictionResult{}, err
	}

	s.metrics.ObservePrediction(elapsed, observability.OutcomeSuccess, result.UnknownFields)
	if len(result.UnknownFields) > 0 {
		s.logger.Debug("unseen category values encoded as unknown",
			zap.String("request_id", requestID),
			zap.Strings("fields", result.UnknownFields))
	}
	s.publish(ctx, events.NewEvent(events.EventPredictionServed, requestID, events.PredictionServedPayload{
		BundleID:      bundle.ID,
		Hours:         result.Hours,
		UnknownFields: result.UnknownFields,
	}))
	return result, nil
}

func (s *PredictionService) logFailure(requestID, bundleID string, stage domain.Stage, err error) {
	fields := []zap.Field{
		zap.String("request_id", requestID),
		zap.String("bundle_id", bundleID),
		zap.String("stage", string(stage)),
		zap.Error(err),
	}
	if stage == domain.StagePrediction {
		s.logger.Error("prediction pipeline failed", fields...)
		return
	}
	s.logger.Warn("prediction request rejected", fields...)
}

func (s *PredictionService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handlers failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func outcomeFor(stage domain.Stage) string {
	switch stage {
	case domain.StageEncoding:
		return observability.OutcomeEncodingError
	case domain.StageDateParsing:
		return observability.OutcomeDateParsingError
	default:
		return observability.OutcomePredictionError
	}
}

