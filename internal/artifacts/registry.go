package artifacts

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// ErrNotLoaded is returned before the first bundle has been installed.
var ErrNotLoaded = errors.New("artifacts not loaded")

// Registry holds the active bundle. Reloads swap the whole bundle at once.
type Registry struct {
	source  Source
	logger  *zap.Logger
	current atomic.Pointer[Bundle]
	// serializes reloads; readers never take it
	reloadMu sync.Mutex
}

// NewRegistry creates an empty registry for src.
func NewRegistry(src Source, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{source: src, logger: logger}
}

// Current returns the active bundle.
func (r *Registry) Current() (*Bundle, error) {
	b := r.current.Load()
	if b == nil {
		return nil, ErrNotLoaded
	}
	return b, nil
}

// Install makes b the active bundle.
func (r *Registry) Install(b *Bundle) {
	r.current.Store(b)
}

// Reload loads a fresh bundle from the source and swaps it in. On failure the
// previous bundle stays active.
func (r *Registry) Reload(ctx context.Context) (*Bundle, error) {
	r.reloadMu.Lock()
	defer r.reloadMu.Unlock()

	b, err := Load(ctx, r.source)
	if err != nil {
		r.logger.Error("artifact reload failed", zap.String("source", r.source.Name()), zap.Error(err))
		return nil, err
	}
	prev := r.current.Swap(b)
	fields := []zap.Field{
		zap.String("bundle_id", b.ID),
		zap.String("source", b.Source),
		zap.String("model_kind", b.Model.Kind()),
		zap.Strings("encoders", b.Encoders.Fields()),
	}
	if prev != nil {
		fields = append(fields, zap.String("previous_bundle_id", prev.ID))
	}
	r.logger.Info("artifacts loaded", fields...)
	return b, nil
}
