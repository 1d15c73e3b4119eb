package domain

// Categorical field names, as sent by the caller and as keyed in the encoder artifact.
const (
	FieldPriority     = "priority"
	FieldCategory     = "category"
	FieldIssueType    = "issueType"
	FieldSeverity     = "severity"
	FieldCreationDate = "creationDate"
)

// Derived feature names.
const (
	FeatureCreationMonth     = "creation_month"
	FeatureIsWeekend         = "is_weekend"
	FeatureCreationDayOfWeek = "creation_day_of_week"
)

// UnknownCategoryCode flags a categorical value never seen when the encoder was fitted.
const UnknownCategoryCode = -1

// CategoricalFields lists the fields run through the encoders, in encoding order.
var CategoricalFields = []string{FieldPriority, FieldCategory, FieldIssueType, FieldSeverity}

// FeatureNames is the predictor's input schema. Severity is encoded but deliberately absent.
var FeatureNames = []string{
	FieldPriority,
	FieldCategory,
	FieldIssueType,
	FeatureCreationMonth,
	FeatureIsWeekend,
	FeatureCreationDayOfWeek,
}

// RawRecord is the decoded request body. Values keep their JSON types.
type RawRecord map[string]any

// EncodedFeatures maps each categorical field to its integer code.
type EncodedFeatures map[string]int

// TemporalFeatures holds calendar features derived from the creation timestamp.
type TemporalFeatures struct {
	CreationMonth     int
	CreationDayOfWeek int // Monday=0 .. Sunday=6
	IsWeekend         int
}

// FeatureVector is the fixed six-field input row for the predictor.
type FeatureVector struct {
	Priority          int `json:"priority"`
	Category          int `json:"category"`
	IssueType         int `json:"issueType"`
	CreationMonth     int `json:"creation_month"`
	IsWeekend         int `json:"is_weekend"`
	CreationDayOfWeek int `json:"creation_day_of_week"`
}

// Value returns the feature by schema name.
func (v FeatureVector) Value(name string) (float64, bool) {
	switch name {
	case FieldPriority:
		return float64(v.Priority), true
	case FieldCategory:
		return float64(v.Category), true
	case FieldIssueType:
		return float64(v.IssueType), true
	case FeatureCreationMonth:
		return float64(v.CreationMonth), true
	case FeatureIsWeekend:
		return float64(v.IsWeekend), true
	case FeatureCreationDayOfWeek:
		return float64(v.CreationDayOfWeek), true
	default:
		return 0, false
	}
}

// PredictionResult is the estimated resolution time in hours, rounded to two decimals.
type PredictionResult struct {
	Hours float64
	// UnknownFields lists categorical fields that fell back to UnknownCategoryCode.
	UnknownFields []string
	Features      FeatureVector
}
