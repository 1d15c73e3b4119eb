package service

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/spec-kit/resolution-estimator/internal/domain"
	"github.com/spec-kit/resolution-estimator/internal/features"
)

// Predictor is the trained regression capability. It returns one value per row.
type Predictor interface {
	Predict(rows []domain.FeatureVector) ([]float64, error)
}

// Pipeline turns a raw record into a resolution-time estimate. It holds no
// mutable state and is safe for concurrent use.
type Pipeline struct {
	encoder   *features.CategoricalEncoder
	predictor Predictor
}

// NewPipeline binds a pipeline to an encoder set and predictor.
func NewPipeline(encoders features.EncoderLookup, predictor Predictor) *Pipeline {
	return &Pipeline{
		encoder:   features.NewCategoricalEncoder(encoders),
		predictor: predictor,
	}
}

// Run executes encode, derive, assemble and predict, stopping at the first failure.
// Every error returned is a *domain.StageError.
func (p *Pipeline) Run(rec domain.RawRecord) (domain.PredictionResult, error) {
	var (
		encoded domain.EncodedFeatures
		unknown []string
	)
	err := guard(domain.StageEncoding, func() (err error) {
		encoded, unknown, err = p.encoder.EncodeRecord(rec)
		return err
	})
	if err != nil {
		return domain.PredictionResult{}, err
	}

	var temporal domain.TemporalFeatures
	err = guard(domain.StageDateParsing, func() (err error) {
		temporal, err = features.ExtractRecordTemporal(rec)
		return err
	})
	if err != nil {
		return domain.PredictionResult{}, err
	}

	vec := features.Assemble(encoded, temporal)

	var hours float64
	err = guard(domain.StagePrediction, func() (err error) {
		hours, err = p.predict(vec)
		return err
	})
	if err != nil {
		return domain.PredictionResult{}, err
	}

	return domain.PredictionResult{
		Hours:         hours,
		UnknownFields: unknown,
		Features:      vec,
	}, nil
}

func (p *Pipeline) predict(vec domain.FeatureVector) (float64, error) {
	if p.predictor == nil {
		return 0, errors.New("no model loaded")
	}
	out, err := p.predictor.Predict([]domain.FeatureVector{vec})
	if err != nil {
		return 0, err
	}
	if len(out) == 0 {
		return 0, errors.New("model returned no predictions")
	}
	v := out[0]
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("model returned non-finite value %v", v)
	}
	if v < 0 {
		v = 0
	}
	return RoundHours(v), nil
}

// RoundHours rounds to two decimal places using the exact binary value, with
// exact halves going to the even digit.
func RoundHours(v float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	if err != nil {
		return v
	}
	return r
}

// guard runs fn and tags any error or panic with stage.
func guard(stage domain.Stage, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &domain.StageError{Stage: stage, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	if err := fn(); err != nil {
		return &domain.StageError{Stage: stage, Err: err}
	}
	return nil
}
