package model

import (
	"errors"
	"fmt"

	"github.com/spec-kit/resolution-estimator/internal/domain"
)

// Model kinds accepted in the model artifact.
const (
	KindLinear       = "linear"
	KindTreeEnsemble = "tree_ensemble"
)

// ErrShapeMismatch is returned when a row lacks a feature the model was trained on.
var ErrShapeMismatch = errors.New("feature shape mismatch")

// Regressor predicts one value per input row.
type Regressor interface {
	Kind() string
	Features() []string
	Predict(rows []domain.FeatureVector) ([]float64, error)
}

// LinearRegressor is intercept + sum(coefficient * feature).
type LinearRegressor struct {
	features     []string
	intercept    float64
	coefficients []float64
}

// NewLinearRegressor aligns coefficients with the declared feature order.
func NewLinearRegressor(features []string, intercept float64, coefficients map[string]float64) (*LinearRegressor, error) {
	if len(features) == 0 {
		return nil, fmt.Errorf("linear model declares no features")
	}
	coef := make([]float64, len(features))
	for i, name := range features {
		w, ok := coefficients[name]
		if !ok {
			return nil, fmt.Errorf("linear model missing coefficient for %q", name)
		}
		coef[i] = w
	}
	if len(coefficients) != len(features) {
		return nil, fmt.Errorf("linear model has %d coefficients for %d features", len(coefficients), len(features))
	}
	return &LinearRegressor{
		features:     append([]string(nil), features...),
		intercept:    intercept,
		coefficients: coef,
	}, nil
}

func (m *LinearRegressor) Kind() string { return KindLinear }

func (m *LinearRegressor) Features() []string { return append([]string(nil), m.features...) }

// Predict scores every row.
func (m *LinearRegressor) Predict(rows []domain.FeatureVector) ([]float64, error) {
	out := make([]float64, 0, len(rows))
	x := make([]float64, len(m.features))
	for _, row := range rows {
		if err := project(row, m.features, x); err != nil {
			return nil, err
		}
		y := m.intercept
		for i, w := range m.coefficients {
			y += w * x[i]
		}
		out = append(out, y)
	}
	return out, nil
}

// TreeNode is one node of a regression tree. Leaves have Left == Right == -1.
type TreeNode struct {
	Feature   int
	Threshold float64
	Left      int
	Right     int
	Value     float64
}

// Tree is a regression tree in flat node order; node 0 is the root.
type Tree []TreeNode

// TreeEnsemble averages the output of its trees.
type TreeEnsemble struct {
	features []string
	trees    []Tree
}

// NewTreeEnsemble validates node references so evaluation always terminates.
func NewTreeEnsemble(features []string, trees []Tree) (*TreeEnsemble, error) {
	if len(features) == 0 {
		return nil, fmt.Errorf("tree ensemble declares no features")
	}
	if len(trees) == 0 {
		return nil, fmt.Errorf("tree ensemble has no trees")
	}
	for ti, tree := range trees {
		if len(tree) == 0 {
			return nil, fmt.Errorf("tree %d is empty", ti)
		}
		for ni, node := range tree {
			if node.isLeaf() {
				continue
			}
			if node.Feature < 0 || node.Feature >= len(features) {
				return nil, fmt.Errorf("tree %d node %d: feature index %d out of range", ti, ni, node.Feature)
			}
			// children must come after their parent
			for _, child := range []int{node.Left, node.Right} {
				if child <= ni || child >= len(tree) {
					return nil, fmt.Errorf("tree %d node %d: invalid child %d", ti, ni, child)
				}
			}
		}
	}
	return &TreeEnsemble{features: append([]string(nil), features...), trees: trees}, nil
}

func (n TreeNode) isLeaf() bool { return n.Left == -1 && n.Right == -1 }

func (m *TreeEnsemble) Kind() string { return KindTreeEnsemble }

func (m *TreeEnsemble) Features() []string { return append([]string(nil), m.features...) }

// Predict returns the mean leaf value across trees for every row.
func (m *TreeEnsemble) Predict(rows []domain.FeatureVector) ([]float64, error) {
	out := make([]float64, 0, len(rows))
	x := make([]float64, len(m.features))
	for _, row := range rows {
		if err := project(row, m.features, x); err != nil {
			return nil, err
		}
		sum := 0.0
		for _, tree := range m.trees {
			sum += tree.eval(x)
		}
		out = append(out, sum/float64(len(m.trees)))
	}
	return out, nil
}

func (t Tree) eval(x []float64) float64 {
	i := 0
	for {
		node := t[i]
		if node.isLeaf() {
			return node.Value
		}
		if x[node.Feature] <= node.Threshold {
			i = node.Left
		} else {
			i = node.Right
		}
	}
}

func project(row domain.FeatureVector, features []string, dst []float64) error {
	for i, name := range features {
		v, ok := row.Value(name)
		if !ok {
			return fmt.Errorf("%w: model expects feature %q", ErrShapeMismatch, name)
		}
		dst[i] = v
	}
	return nil
}
