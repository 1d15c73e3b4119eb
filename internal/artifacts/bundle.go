package artifacts

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/resolution-estimator/internal/features"
	"github.com/spec-kit/resolution-estimator/internal/model"
)

// Bundle is one loaded, immutable pair of encoders and regressor.
type Bundle struct {
	ID       string
	Source   string
	LoadedAt time.Time
	Encoders model.EncoderSet
	Model    model.Regressor
	lookup   features.EncoderMap
}

// NewBundle assembles a bundle and assigns it a fresh version id.
func NewBundle(source string, encoders model.EncoderSet, regressor model.Regressor) (*Bundle, error) {
	if len(encoders) == 0 {
		return nil, fmt.Errorf("bundle has no encoders")
	}
	if regressor == nil {
		return nil, fmt.Errorf("bundle has no model")
	}
	lookup := make(features.EncoderMap, len(encoders))
	for field, enc := range encoders {
		lookup[field] = enc
	}
	return &Bundle{
		ID:       uuid.NewString(),
		Source:   source,
		LoadedAt: time.Now().UTC(),
		Encoders: encoders,
		Model:    regressor,
		lookup:   lookup,
	}, nil
}

// EncoderLookup exposes the encoders to the feature pipeline.
func (b *Bundle) EncoderLookup() features.EncoderLookup {
	return b.lookup
}

// Raw is the undecoded artifact pair as fetched from a Source.
type Raw struct {
	Encoders       []byte
	EncodersFormat model.Format
	Model          []byte
	ModelFormat    model.Format
}

// Source fetches raw artifacts from a backing store.
type Source interface {
	Name() string
	Fetch(ctx context.Context) (Raw, error)
}

// Load fetches and decodes a complete bundle from src.
func Load(ctx context.Context, src Source) (*Bundle, error) {
	raw, err := src.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch artifacts from %s: %w", src.Name(), err)
	}
	encoders, err := model.DecodeEncoders(raw.Encoders, raw.EncodersFormat)
	if err != nil {
		return nil, err
	}
	regressor, err := model.DecodeRegressor(raw.Model, raw.ModelFormat)
	if err != nil {
		return nil, err
	}
	return NewBundle(src.Name(), encoders, regressor)
}
