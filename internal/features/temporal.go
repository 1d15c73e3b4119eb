package features

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/spec-kit/resolution-estimator/internal/domain"
)

// Common creationDate layouts, tried in order before the general parser.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05 MST",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006-1-2",
	"2006/01/02 15:04:05",
	"2006/01/02",
	"01/02/2006 15:04:05",
	"01/02/2006",
	"1/2/2006",
	"January 2, 2006",
	"20060102",
}

var errEmptyDate = errors.New("creation date is empty")

// ParseCreationDate parses s. Offsets are kept, so calendar fields reflect the
// caller's wall clock; timestamps without one are read as UTC. Ambiguous
// slash dates are month first.
func ParseCreationDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errEmptyDate
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("unknown date format: %q", s)
	}
	return t, nil
}

// ExtractTemporal derives calendar features from a creation timestamp string.
func ExtractTemporal(creationDate string) (domain.TemporalFeatures, error) {
	t, err := ParseCreationDate(creationDate)
	if err != nil {
		return domain.TemporalFeatures{}, err
	}
	return TemporalFromTime(t), nil
}

// TemporalFromTime converts t using a Monday=0 weekday convention.
func TemporalFromTime(t time.Time) domain.TemporalFeatures {
	dow := (int(t.Weekday()) + 6) % 7
	weekend := 0
	if dow == 5 || dow == 6 {
		weekend = 1
	}
	return domain.TemporalFeatures{
		CreationMonth:     int(t.Month()),
		CreationDayOfWeek: dow,
		IsWeekend:         weekend,
	}
}

// ExtractRecordTemporal reads creationDate from rec.
func ExtractRecordTemporal(rec domain.RawRecord) (domain.TemporalFeatures, error) {
	raw, ok := rec[domain.FieldCreationDate]
	if !ok {
		return domain.TemporalFeatures{}, fmt.Errorf("missing required field %q", domain.FieldCreationDate)
	}
	s, ok := raw.(string)
	if !ok {
		return domain.TemporalFeatures{}, fmt.Errorf("field %q must be a string, got %T", domain.FieldCreationDate, raw)
	}
	return ExtractTemporal(s)
}
