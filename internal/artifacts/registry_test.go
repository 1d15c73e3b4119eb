package artifacts

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spec-kit/resolution-estimator/internal/domain"
)

const (
	encodersJSON = `{"priority": {"classes": ["High", "Low"]}, "category": {"classes": ["Bug"]},
		"issueType": {"classes": ["Defect"]}, "severity": {"classes": ["Critical"]}}`
	encodersYAML = "priority:\n  classes: [High, Low]\ncategory:\n  classes: [Bug]\nissueType:\n  classes: [Defect]\nseverity:\n  classes: [Critical]\n"
	modelJSON    = `{"type": "linear", "features": ["priority"], "intercept": 3, "coefficients": {"priority": 1}}`
)

type stubSource struct {
	mu  sync.Mutex
	raw Raw
	err error
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) Fetch(ctx context.Context) (Raw, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.raw, s.err
}

func (s *stubSource) set(raw Raw, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.raw, s.err = raw, err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestFileSourceLoadsJSONAndYAML(t *testing.T) {
	dir := t.TempDir()
	encPath := writeFile(t, dir, "label_encoders.yaml", encodersYAML)
	modelPath := writeFile(t, dir, "model.json", modelJSON)

	b, err := Load(context.Background(), NewFileSource(encPath, modelPath))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.ID == "" || b.Source != "file" || b.LoadedAt.IsZero() {
		t.Fatalf("unexpected bundle metadata: %+v", b)
	}
	enc, ok := b.EncoderLookup().Encoder(domain.FieldPriority)
	if !ok {
		t.Fatalf("priority encoder missing")
	}
	if code, err := enc.Encode("Low"); err != nil || code != 1 {
		t.Fatalf("Encode(Low) = %d, %v", code, err)
	}
	out, err := b.Model.Predict([]domain.FeatureVector{{Priority: 1}})
	if err != nil || out[0] != 4 {
		t.Fatalf("Predict = %v, %v", out, err)
	}
}

func TestFileSourceMissingFile(t *testing.T) {
	dir := t.TempDir()
	src := NewFileSource(filepath.Join(dir, "missing.json"), filepath.Join(dir, "model.json"))
	if _, err := Load(context.Background(), src); err == nil {
		t.Fatalf("expected error for missing encoder file")
	}
}

func TestRegistryNotLoaded(t *testing.T) {
	r := NewRegistry(&stubSource{}, nil)
	if _, err := r.Current(); !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded, got %v", err)
	}
}

func TestRegistryReloadSwapsWholeBundle(t *testing.T) {
	src := &stubSource{raw: Raw{Encoders: []byte(encodersJSON), Model: []byte(modelJSON)}}
	r := NewRegistry(src, nil)

	first, err := r.Reload(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := r.Reload(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.ID == second.ID {
		t.Fatalf("expected a new bundle id on reload")
	}
	cur, _ := r.Current()
	if cur != second {
		t.Fatalf("expected the latest bundle to be active")
	}
}

func TestRegistryBadArtifactsKeepPrevious(t *testing.T) {
	src := &stubSource{raw: Raw{Encoders: []byte(encodersJSON), Model: []byte(modelJSON)}}
	r := NewRegistry(src, nil)
	first, err := r.Reload(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	src.set(Raw{Encoders: []byte(encodersJSON), Model: []byte(`{"type": "mystery"}`)}, nil)
	if _, err := r.Reload(context.Background()); err == nil {
		t.Fatalf("expected decode error")
	}
	cur, err := r.Current()
	if err != nil || cur != first {
		t.Fatalf("expected previous bundle to remain active")
	}
}

func TestRegistryConcurrentReadsDuringReload(t *testing.T) {
	src := &stubSource{raw: Raw{Encoders: []byte(encodersJSON), Model: []byte(modelJSON)}}
	r := NewRegistry(src, nil)
	if _, err := r.Reload(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = r.Reload(context.Background())
		}()
		go func() {
			defer wg.Done()
			b, err := r.Current()
			if err != nil || b.Model == nil || len(b.Encoders) != 4 {
				t.Errorf("observed incomplete bundle: %+v (%v)", b, err)
			}
		}()
	}
	wg.Wait()
}

func TestNewBundleValidation(t *testing.T) {
	if _, err := NewBundle("x", nil, nil); err == nil {
		t.Fatalf("expected error for empty bundle")
	}
}
