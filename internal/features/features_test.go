package features

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/spec-kit/resolution-estimator/internal/domain"
)

type fakeEncoder map[string]int

func (f fakeEncoder) Contains(value string) bool {
	_, ok := f[value]
	return ok
}

func (f fakeEncoder) Encode(value string) (int, error) {
	code, ok := f[value]
	if !ok {
		return 0, errors.New("unseen")
	}
	return code, nil
}

func fullEncoders() EncoderMap {
	return EncoderMap{
		domain.FieldPriority:  fakeEncoder{"Low": 0, "High": 2},
		domain.FieldCategory:  fakeEncoder{"Feature": 0, "Bug": 1},
		domain.FieldIssueType: fakeEncoder{"Defect": 0, "Task": 1},
		domain.FieldSeverity:  fakeEncoder{"Critical": 0, "Minor": 1},
	}
}

func validRecord() domain.RawRecord {
	return domain.RawRecord{
		"priority":     "High",
		"category":     "Bug",
		"issueType":    "Defect",
		"severity":     "Critical",
		"creationDate": "2024-03-09",
	}
}

func TestEncodeKnownValuesReturnAssignedCode(t *testing.T) {
	enc := NewCategoricalEncoder(fullEncoders())
	for field, encoder := range fullEncoders() {
		for value, want := range encoder.(fakeEncoder) {
			got, known, err := enc.Encode(field, value)
			if err != nil {
				t.Fatalf("Encode(%s, %s) error: %v", field, value, err)
			}
			if !known || got != want {
				t.Fatalf("Encode(%s, %s) = %d (known=%v), want %d", field, value, got, known, want)
			}
		}
	}
}

func TestEncodeUnseenValueDegradesToSentinel(t *testing.T) {
	enc := NewCategoricalEncoder(fullEncoders())
	for _, value := range []any{"NeverSeenBefore", "", 42.0, nil, true} {
		got, known, err := enc.Encode(domain.FieldCategory, value)
		if err != nil {
			t.Fatalf("Encode(%v) unexpected error: %v", value, err)
		}
		if known || got != domain.UnknownCategoryCode {
			t.Fatalf("Encode(%v) = %d (known=%v), want -1", value, got, known)
		}
	}
}

func TestEncodeMissingEncoderFails(t *testing.T) {
	encoders := fullEncoders()
	delete(encoders, domain.FieldSeverity)
	enc := NewCategoricalEncoder(encoders)

	_, _, err := enc.EncodeRecord(validRecord())
	if err == nil || !strings.Contains(err.Error(), "severity") {
		t.Fatalf("expected missing encoder error naming severity, got %v", err)
	}
}

func TestEncodeRecordMissingFieldFails(t *testing.T) {
	rec := validRecord()
	delete(rec, domain.FieldCategory)

	_, _, err := NewCategoricalEncoder(fullEncoders()).EncodeRecord(rec)
	if err == nil || !strings.Contains(err.Error(), "category") {
		t.Fatalf("expected missing field error naming category, got %v", err)
	}
}

func TestEncodeRecordReportsUnknownFields(t *testing.T) {
	rec := validRecord()
	rec[domain.FieldCategory] = "NeverSeenBefore"

	encoded, unknown, err := NewCategoricalEncoder(fullEncoders()).EncodeRecord(rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if encoded[domain.FieldCategory] != -1 {
		t.Fatalf("category code = %d, want -1", encoded[domain.FieldCategory])
	}
	if len(unknown) != 1 || unknown[0] != domain.FieldCategory {
		t.Fatalf("unknown fields = %v", unknown)
	}
	if len(encoded) != len(domain.CategoricalFields) {
		t.Fatalf("expected %d encoded fields, got %d", len(domain.CategoricalFields), len(encoded))
	}
}

func TestEncodeWithoutEncoders(t *testing.T) {
	if _, _, err := NewCategoricalEncoder(nil).Encode(domain.FieldPriority, "High"); err == nil {
		t.Fatalf("expected error with no encoders")
	}
}

func TestExtractTemporal(t *testing.T) {
	cases := []struct {
		in      string
		month   int
		dow     int
		weekend int
	}{
		{"2024-03-09", 3, 5, 1},                    // Saturday
		{"2024-03-10T08:30:00Z", 3, 6, 1},          // Sunday
		{"2024-03-11 14:00:00", 3, 0, 0},           // Monday
		{"2024-03-15T23:59:59.123+02:00", 3, 4, 0}, // Friday in caller's zone
		{"2023-12-31T23:30:00-05:00", 12, 6, 1},    // Sunday local, Monday in UTC
		{"2024/01/03", 1, 2, 0},                    // Wednesday
		{"07/04/2024", 7, 3, 0},                    // Thursday
		{"2024-3-9", 3, 5, 1},
		{"3/9/2024", 3, 5, 1},
		{"March 9, 2024", 3, 5, 1},
		{"2024-03-09T10:00:00+0000", 3, 5, 1},
		{"2024-03-09 10:00:00 UTC", 3, 5, 1},
		{"Sat, 09 Mar 2024 10:00:00 GMT", 3, 5, 1},
	}
	for _, tc := range cases {
		got, err := ExtractTemporal(tc.in)
		if err != nil {
			t.Fatalf("ExtractTemporal(%q) error: %v", tc.in, err)
		}
		want := domain.TemporalFeatures{CreationMonth: tc.month, CreationDayOfWeek: tc.dow, IsWeekend: tc.weekend}
		if got != want {
			t.Fatalf("ExtractTemporal(%q) = %+v, want %+v", tc.in, got, want)
		}
	}
}

func TestWeekendMatchesDayOfWeek(t *testing.T) {
	// 2024-01-01 is a Monday; walk two full weeks
	for day := 1; day <= 14; day++ {
		in := fmt.Sprintf("2024-01-%02d", day)
		got, err := ExtractTemporal(in)
		if err != nil {
			t.Fatalf("ExtractTemporal(%q) error: %v", in, err)
		}
		if got.CreationDayOfWeek != (day-1)%7 {
			t.Fatalf("%s: day of week = %d, want %d", in, got.CreationDayOfWeek, (day-1)%7)
		}
		wantWeekend := 0
		if got.CreationDayOfWeek == 5 || got.CreationDayOfWeek == 6 {
			wantWeekend = 1
		}
		if got.IsWeekend != wantWeekend {
			t.Fatalf("%s: is_weekend = %d, want %d", in, got.IsWeekend, wantWeekend)
		}
	}
}

func TestExtractTemporalRejectsGarbage(t *testing.T) {
	for _, in := range []string{"not-a-date", "", "   ", "2024-13-01", "2024-02-30"} {
		if _, err := ExtractTemporal(in); err == nil {
			t.Fatalf("ExtractTemporal(%q) expected error", in)
		}
	}
}

func TestExtractRecordTemporalMissingOrWrongType(t *testing.T) {
	rec := validRecord()
	delete(rec, domain.FieldCreationDate)
	if _, err := ExtractRecordTemporal(rec); err == nil {
		t.Fatalf("expected error for missing creationDate")
	}
	rec[domain.FieldCreationDate] = 20240309.0
	if _, err := ExtractRecordTemporal(rec); err == nil {
		t.Fatalf("expected error for numeric creationDate")
	}
}

func TestAssemble(t *testing.T) {
	encoded := domain.EncodedFeatures{
		domain.FieldPriority:  2,
		domain.FieldCategory:  -1,
		domain.FieldIssueType: 0,
		domain.FieldSeverity:  3,
	}
	temporal := domain.TemporalFeatures{CreationMonth: 3, CreationDayOfWeek: 5, IsWeekend: 1}

	got := Assemble(encoded, temporal)
	want := domain.FeatureVector{
		Priority:          2,
		Category:          -1,
		IssueType:         0,
		CreationMonth:     3,
		IsWeekend:         1,
		CreationDayOfWeek: 5,
	}
	if got != want {
		t.Fatalf("Assemble = %+v, want %+v", got, want)
	}
	for _, name := range domain.FeatureNames {
		if _, ok := got.Value(name); !ok {
			t.Fatalf("feature %q missing from vector", name)
		}
	}
	if _, ok := got.Value(domain.FieldSeverity); ok {
		t.Fatalf("severity must not be part of the feature vector")
	}
}
