package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/resolution-estimator/internal/artifacts"
	"github.com/spec-kit/resolution-estimator/internal/events"
	"github.com/spec-kit/resolution-estimator/internal/observability"
)

// ArtifactReloader loads and swaps in a fresh bundle.
type ArtifactReloader interface {
	BundleProvider
	Reload(ctx context.Context) (*artifacts.Bundle, error)
}

// ArtifactService loads artifacts and reports on the active bundle.
type ArtifactService struct {
	registry   ArtifactReloader
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewArtifactService constructs the service.
func NewArtifactService(registry ArtifactReloader, dispatcher events.Dispatcher, metrics *observability.Metrics, logger *zap.Logger) *ArtifactService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ArtifactService{registry: registry, dispatcher: dispatcher, metrics: metrics, logger: logger}
}

// Reload replaces the active bundle. The previous bundle stays active on failure.
func (s *ArtifactService) Reload(ctx context.Context) (*artifacts.Bundle, error) {
	b, err := s.registry.Reload(ctx)
	s.metrics.RecordReload(err)
	if err != nil {
		return nil, err
	}
	if s.dispatcher != nil {
		event := events.NewEvent(events.EventArtifactsReloaded, "", events.ArtifactsReloadedPayload{
			BundleID:  b.ID,
			Source:    b.Source,
			ModelKind: b.Model.Kind(),
		})
		if err := s.dispatcher.Publish(ctx, event); err != nil {
			s.logger.Warn("event handlers failed", zap.String("event_type", string(event.Type)), zap.Error(err))
		}
	}
	return b, nil
}

// Ready reports whether a bundle is active.
func (s *ArtifactService) Ready() bool {
	_, err := s.registry.Current()
	return err == nil
}

// EncoderInfo describes one loaded encoder.
type EncoderInfo struct {
	Field      string
	ClassCount int
}

// BundleInfo describes the active bundle.
type BundleInfo struct {
	ID            string
	Source        string
	LoadedAt      time.Time
	ModelKind     string
	ModelFeatures []string
	Encoders      []EncoderInfo
}

// Describe returns metadata for the active bundle.
func (s *ArtifactService) Describe() (BundleInfo, error) {
	b, err := s.registry.Current()
	if err != nil {
		return BundleInfo{}, err
	}
	info := BundleInfo{
		ID:            b.ID,
		Source:        b.Source,
		LoadedAt:      b.LoadedAt,
		ModelKind:     b.Model.Kind(),
		ModelFeatures: b.Model.Features(),
	}
	for field, enc := range b.Encoders {
		info.Encoders = append(info.Encoders, EncoderInfo{Field: field, ClassCount: len(enc.Classes())})
	}
	sort.Slice(info.Encoders, func(i, j int) bool { return info.Encoders[i].Field < info.Encoders[j].Field })
	return info, nil
}
