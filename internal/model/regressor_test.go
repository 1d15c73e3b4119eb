package model

import (
	"errors"
	"math"
	"testing"

	"github.com/spec-kit/resolution-estimator/internal/domain"
)

func TestLinearRegressorPredict(t *testing.T) {
	m, err := NewLinearRegressor(
		[]string{domain.FieldPriority, domain.FeatureIsWeekend},
		1.5,
		map[string]float64{domain.FieldPriority: 2, domain.FeatureIsWeekend: 10},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out, err := m.Predict([]domain.FeatureVector{
		{Priority: 3, IsWeekend: 0},
		{Priority: 1, IsWeekend: 1},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 || out[0] != 7.5 || out[1] != 13.5 {
		t.Fatalf("unexpected predictions: %v", out)
	}
}

func TestLinearRegressorRejectsMissingCoefficient(t *testing.T) {
	_, err := NewLinearRegressor([]string{"priority", "category"}, 0, map[string]float64{"priority": 1})
	if err == nil {
		t.Fatalf("expected error for missing coefficient")
	}
}

func TestRegressorShapeMismatch(t *testing.T) {
	m, err := NewLinearRegressor([]string{"severity"}, 0, map[string]float64{"severity": 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = m.Predict([]domain.FeatureVector{{}})
	if !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("expected shape mismatch, got %v", err)
	}
}

func stump(feature int, threshold, left, right float64) Tree {
	return Tree{
		{Feature: feature, Threshold: threshold, Left: 1, Right: 2},
		{Left: -1, Right: -1, Value: left},
		{Left: -1, Right: -1, Value: right},
	}
}

func TestTreeEnsembleAveragesTrees(t *testing.T) {
	features := []string{domain.FieldPriority, domain.FeatureCreationMonth}
	m, err := NewTreeEnsemble(features, []Tree{
		stump(0, 1.5, 2, 10),
		stump(1, 6.5, 4, 8),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := []struct {
		row  domain.FeatureVector
		want float64
	}{
		{domain.FeatureVector{Priority: 1, CreationMonth: 3}, 3},
		{domain.FeatureVector{Priority: 2, CreationMonth: 3}, 7},
		{domain.FeatureVector{Priority: 2, CreationMonth: 12}, 9},
		{domain.FeatureVector{Priority: -1, CreationMonth: 7}, 5},
	}
	for _, tc := range cases {
		out, err := m.Predict([]domain.FeatureVector{tc.row})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if math.Abs(out[0]-tc.want) > 1e-9 {
			t.Fatalf("Predict(%+v) = %v, want %v", tc.row, out[0], tc.want)
		}
	}
}

func TestTreeEnsembleRejectsBackwardChild(t *testing.T) {
	bad := Tree{
		{Feature: 0, Threshold: 1, Left: 0, Right: 1},
		{Left: -1, Right: -1, Value: 1},
	}
	if _, err := NewTreeEnsemble([]string{"priority"}, []Tree{bad}); err == nil {
		t.Fatalf("expected error for self-referencing node")
	}
}

func TestTreeEnsembleRejectsFeatureOutOfRange(t *testing.T) {
	if _, err := NewTreeEnsemble([]string{"priority"}, []Tree{stump(3, 1, 0, 1)}); err == nil {
		t.Fatalf("expected error for feature index out of range")
	}
}
