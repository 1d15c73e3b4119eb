package features

import "github.com/spec-kit/resolution-estimator/internal/domain"

// Assemble places encoded and temporal features into the predictor's schema.
// Missing encoded entries cannot occur after EncodeRecord succeeds.
func Assemble(encoded domain.EncodedFeatures, temporal domain.TemporalFeatures) domain.FeatureVector {
	return domain.FeatureVector{
		Priority:          encoded[domain.FieldPriority],
		Category:          encoded[domain.FieldCategory],
		IssueType:         encoded[domain.FieldIssueType],
		CreationMonth:     temporal.CreationMonth,
		IsWeekend:         temporal.IsWeekend,
		CreationDayOfWeek: temporal.CreationDayOfWeek,
	}
}
