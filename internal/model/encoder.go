package model

import (
	"fmt"
	"sort"
)

// LabelEncoder maps a closed set of labels to stable integer codes.
// The code of a label is its index in the sorted, de-duplicated class list.
type LabelEncoder struct {
	classes []string
	index   map[string]int
}

// NewLabelEncoder builds an encoder from the fitted classes.
func NewLabelEncoder(classes []string) (*LabelEncoder, error) {
	if len(classes) == 0 {
		return nil, fmt.Errorf("label encoder has no classes")
	}
	sorted := append([]string(nil), classes...)
	sort.Strings(sorted)

	uniq := sorted[:0]
	for _, c := range sorted {
		if len(uniq) > 0 && uniq[len(uniq)-1] == c {
			continue
		}
		uniq = append(uniq, c)
	}

	index := make(map[string]int, len(uniq))
	for i, c := range uniq {
		index[c] = i
	}
	return &LabelEncoder{classes: uniq, index: index}, nil
}

// Classes returns the known labels in code order.
func (e *LabelEncoder) Classes() []string {
	return append([]string(nil), e.classes...)
}

// Contains reports whether value was seen when the encoder was fitted.
func (e *LabelEncoder) Contains(value string) bool {
	_, ok := e.index[value]
	return ok
}

// Encode returns the code for a known label.
func (e *LabelEncoder) Encode(value string) (int, error) {
	code, ok := e.index[value]
	if !ok {
		return 0, fmt.Errorf("y contains previously unseen label %q", value)
	}
	return code, nil
}

// EncoderSet holds one encoder per categorical field.
type EncoderSet map[string]*LabelEncoder

// Fields returns the encoded field names, sorted.
func (s EncoderSet) Fields() []string {
	fields := make([]string, 0, len(s))
	for f := range s {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}
