package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/resolution-estimator/internal/artifacts"
	"github.com/spec-kit/resolution-estimator/internal/model"
)

// ErrArtifactNotFound is returned when the store holds no artifact under the requested name or key.
var ErrArtifactNotFound = errors.New("artifact not found")

type postgresArtifactSource struct {
	pool *pgxpool.Pool
	name string
}

// NewPostgresArtifactSource reads the newest model_artifacts row for name.
func NewPostgresArtifactSource(pool *pgxpool.Pool, name string) artifacts.Source {
	return &postgresArtifactSource{pool: pool, name: name}
}

func (s *postgresArtifactSource) Name() string { return "postgres" }

func (s *postgresArtifactSource) Fetch(ctx context.Context) (artifacts.Raw, error) {
	if s.pool == nil {
		return artifacts.Raw{}, errors.New("postgres pool not configured")
	}
	const query = `
        SELECT encoders, encoders_format, model, model_format
        FROM model_artifacts
        WHERE name = $1
        ORDER BY created_at DESC
        LIMIT 1`
	var (
		raw         artifacts.Raw
		encFormat   string
		modelFormat string
	)
	err := s.pool.QueryRow(ctx, query, s.name).Scan(&raw.Encoders, &encFormat, &raw.Model, &modelFormat)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return artifacts.Raw{}, fmt.Errorf("%w: %s", ErrArtifactNotFound, s.name)
		}
		return artifacts.Raw{}, err
	}
	raw.EncodersFormat = model.Format(encFormat)
	raw.ModelFormat = model.Format(modelFormat)
	return raw, nil
}

type redisArtifactSource struct {
	client      *redis.Client
	encodersKey string
	modelKey    string
}

// NewRedisArtifactSource reads artifacts stored as plain string values.
func NewRedisArtifactSource(client *redis.Client, encodersKey, modelKey string) artifacts.Source {
	return &redisArtifactSource{client: client, encodersKey: encodersKey, modelKey: modelKey}
}

func (s *redisArtifactSource) Name() string { return "redis" }

func (s *redisArtifactSource) Fetch(ctx context.Context) (artifacts.Raw, error) {
	if s.client == nil {
		return artifacts.Raw{}, errors.New("redis client not configured")
	}
	// one round trip so both values come from the same moment
	pipe := s.client.Pipeline()
	encCmd := pipe.Get(ctx, s.encodersKey)
	modelCmd := pipe.Get(ctx, s.modelKey)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return artifacts.Raw{}, err
	}

	enc, err := encCmd.Bytes()
	if err != nil {
		return artifacts.Raw{}, redisErr(err, s.encodersKey)
	}
	mdl, err := modelCmd.Bytes()
	if err != nil {
		return artifacts.Raw{}, redisErr(err, s.modelKey)
	}
	return artifacts.Raw{
		Encoders:       enc,
		EncodersFormat: model.FormatAuto,
		Model:          mdl,
		ModelFormat:    model.FormatAuto,
	}, nil
}

func redisErr(err error, key string) error {
	if errors.Is(err, redis.Nil) {
		return fmt.Errorf("%w: %s", ErrArtifactNotFound, key)
	}
	return err
}
