package domain

import (
	"errors"
	"fmt"
)

// Stage identifies the pipeline phase that failed.
type Stage string

const (
	StageEncoding    Stage = "encoding"
	StageDateParsing Stage = "date_parsing"
	StagePrediction  Stage = "prediction"
)

// StageError is the only error kind the prediction pipeline returns.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage.FailurePrefix(), e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// FailurePrefix is the caller-facing label of the stage.
func (s Stage) FailurePrefix() string {
	switch s {
	case StageEncoding:
		return "Encoding failed"
	case StageDateParsing:
		return "Date parsing failed"
	case StagePrediction:
		return "Prediction failed"
	default:
		return "Failed"
	}
}

// NewEncodingError tags err as an encoding stage failure.
func NewEncodingError(err error) error {
	return &StageError{Stage: StageEncoding, Err: err}
}

// NewDateParsingError tags err as a date parsing stage failure.
func NewDateParsingError(err error) error {
	return &StageError{Stage: StageDateParsing, Err: err}
}

// NewPredictionError tags err as a prediction stage failure.
func NewPredictionError(err error) error {
	return &StageError{Stage: StagePrediction, Err: err}
}

// StageOf reports the stage tagged on err, if any.
func StageOf(err error) (Stage, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage, true
	}
	return "", false
}
