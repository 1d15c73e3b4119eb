package features

import (
	"fmt"

	"github.com/spec-kit/resolution-estimator/internal/domain"
)

// Encoder is a fitted categorical encoder.
type Encoder interface {
	Contains(value string) bool
	Encode(value string) (int, error)
}

// EncoderLookup resolves the encoder for a categorical field.
type EncoderLookup interface {
	Encoder(field string) (Encoder, bool)
}

// EncoderMap is an EncoderLookup backed by a plain map.
type EncoderMap map[string]Encoder

// Encoder implements EncoderLookup.
func (m EncoderMap) Encoder(field string) (Encoder, bool) {
	enc, ok := m[field]
	if !ok || enc == nil {
		return nil, false
	}
	return enc, true
}

// CategoricalEncoder encodes request fields, degrading unseen values to domain.UnknownCategoryCode.
type CategoricalEncoder struct {
	encoders EncoderLookup
}

// NewCategoricalEncoder wraps an encoder lookup.
func NewCategoricalEncoder(encoders EncoderLookup) *CategoricalEncoder {
	return &CategoricalEncoder{encoders: encoders}
}

// Encode returns the code of value under field's encoder, or -1 when the value is unseen.
func (c *CategoricalEncoder) Encode(field string, value any) (code int, known bool, err error) {
	if c.encoders == nil {
		return 0, false, fmt.Errorf("no encoders loaded")
	}
	enc, ok := c.encoders.Encoder(field)
	if !ok {
		return 0, false, fmt.Errorf("no encoder for field %q", field)
	}
	s, ok := value.(string)
	if !ok || !enc.Contains(s) {
		return domain.UnknownCategoryCode, false, nil
	}
	code, err = enc.Encode(s)
	if err != nil {
		return 0, false, fmt.Errorf("field %q: %w", field, err)
	}
	return code, true, nil
}

// EncodeRecord encodes every categorical field of rec. The returned slice lists
// fields whose values were unseen.
func (c *CategoricalEncoder) EncodeRecord(rec domain.RawRecord) (domain.EncodedFeatures, []string, error) {
	encoded := make(domain.EncodedFeatures, len(domain.CategoricalFields))
	var unknown []string
	for _, field := range domain.CategoricalFields {
		value, ok := rec[field]
		if !ok {
			return nil, nil, fmt.Errorf("missing required field %q", field)
		}
		code, known, err := c.Encode(field, value)
		if err != nil {
			return nil, nil, err
		}
		if !known {
			unknown = append(unknown, field)
		}
		encoded[field] = code
	}
	return encoded, unknown, nil
}
