package artifacts

import (
	"context"
	"fmt"
	"os"

	"github.com/spec-kit/resolution-estimator/internal/model"
)

// FileSource reads artifacts from the local filesystem.
type FileSource struct {
	EncodersPath string
	ModelPath    string
}

// NewFileSource builds a file-backed source.
func NewFileSource(encodersPath, modelPath string) *FileSource {
	return &FileSource{EncodersPath: encodersPath, ModelPath: modelPath}
}

func (s *FileSource) Name() string { return "file" }

// Fetch reads both artifact files.
func (s *FileSource) Fetch(ctx context.Context) (Raw, error) {
	if err := ctx.Err(); err != nil {
		return Raw{}, err
	}
	enc, err := os.ReadFile(s.EncodersPath)
	if err != nil {
		return Raw{}, fmt.Errorf("read encoders: %w", err)
	}
	mdl, err := os.ReadFile(s.ModelPath)
	if err != nil {
		return Raw{}, fmt.Errorf("read model: %w", err)
	}
	return Raw{
		Encoders:       enc,
		EncodersFormat: model.FormatFromPath(s.EncodersPath),
		Model:          mdl,
		ModelFormat:    model.FormatFromPath(s.ModelPath),
	}, nil
}
