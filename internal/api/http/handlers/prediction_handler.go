package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/resolution-estimator/internal/api/dto"
	"github.com/spec-kit/resolution-estimator/internal/domain"
	"github.com/spec-kit/resolution-estimator/internal/observability"
	"github.com/spec-kit/resolution-estimator/internal/service"
	apperrors "github.com/spec-kit/resolution-estimator/pkg/util/errorutil"
)

// PredictionHandler serves resolution-time estimates.
type PredictionHandler struct {
	predictions *service.PredictionService
	artifacts   *service.ArtifactService
}

// NewPredictionHandler constructs handler.
func NewPredictionHandler(predictions *service.PredictionService, artifacts *service.ArtifactService) *PredictionHandler {
	return &PredictionHandler{predictions: predictions, artifacts: artifacts}
}

// Predict POST /predict.
func (h *PredictionHandler) Predict(c *fiber.Ctx) error {
	var body any
	if err := c.App().Config().JSONDecoder(c.Body(), &body); err != nil {
		return apperrors.NewValidationError("invalid JSON payload")
	}
	fields, ok := body.(map[string]any)
	if !ok {
		return domain.NewEncodingError(fmt.Errorf("request body must be a JSON object, got %s", jsonKind(body)))
	}
	rec := domain.RawRecord(fields)
	result, err := h.predictions.Estimate(c.UserContext(), observability.RequestIDFrom(c), rec)
	if err != nil {
		return err
	}
	return c.JSON(dto.PredictionResponse{EstimatedResolutionTimeHours: result.Hours})
}

// Model GET /model.
func (h *PredictionHandler) Model(c *fiber.Ctx) error {
	info, err := h.artifacts.Describe()
	if err != nil {
		return apperrors.NewUnavailable("model artifacts not loaded", err)
	}
	encoders := make([]dto.EncoderResponse, 0, len(info.Encoders))
	for _, e := range info.Encoders {
		encoders = append(encoders, dto.EncoderResponse{Field: e.Field, ClassCount: e.ClassCount})
	}
	return c.JSON(dto.ModelResponse{
		BundleID:      info.ID,
		Source:        info.Source,
		LoadedAt:      info.LoadedAt,
		ModelKind:     info.ModelKind,
		ModelFeatures: info.ModelFeatures,
		Encoders:      encoders,
	})
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}
