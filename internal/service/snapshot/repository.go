// Package snapshot persists assembled analytics payloads so channel history
// can be charted across builds.
package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/castlens/castlens-go/internal/domain"
	"github.com/castlens/castlens-go/internal/service/database"
	"go.uber.org/zap"
)

type Repository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewRepository(postgres *database.PostgresService, logger *zap.Logger) *Repository {
	return &Repository{
		db:     postgres.GetDB(),
		logger: logger,
	}
}

// EnsureSchema creates the snapshot table if it does not exist yet.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS channel_snapshots (
			id BIGSERIAL PRIMARY KEY,
			channel_id TEXT NOT NULL,
			follower_count INT NOT NULL,
			engagement_rate DOUBLE PRECISION NOT NULL,
			payload JSONB NOT NULL,
			captured_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS channel_snapshots_channel_idx
			ON channel_snapshots (channel_id, captured_at DESC);
	`

	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to ensure snapshot schema: %w", err)
	}
	return nil
}

// Save stores one assembled analytics payload.
func (r *Repository) Save(ctx context.Context, analytics *domain.ChannelAnalytics) error {
	if analytics == nil || analytics.Channel == nil {
		return fmt.Errorf("analytics payload is missing its channel")
	}

	payload, err := json.Marshal(analytics)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot payload: %w", err)
	}

	query := `
		INSERT INTO channel_snapshots (channel_id, follower_count, engagement_rate, payload)
		VALUES ($1, $2, $3, $4)
	`

	_, err = r.db.ExecContext(ctx, query,
		analytics.Channel.ID,
		analytics.Channel.FollowerCount,
		analytics.EngagementRate,
		payload,
	)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}

	r.logger.Debug("Snapshot saved",
		zap.String("channel_id", analytics.Channel.ID),
		zap.Int("follower_count", analytics.Channel.FollowerCount),
	)
	return nil
}

// Latest returns the most recent snapshot for a channel, or nil if none has
// been captured yet.
func (r *Repository) Latest(ctx context.Context, channelID string) (*domain.ChannelAnalytics, time.Time, error) {
	query := `
		SELECT payload, captured_at
		FROM channel_snapshots
		WHERE channel_id = $1
		ORDER BY captured_at DESC
		LIMIT 1
	`

	var (
		payload    []byte
		capturedAt time.Time
	)
	err := r.db.QueryRowContext(ctx, query, channelID).Scan(&payload, &capturedAt)
	if err == sql.ErrNoRows {
		return nil, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to query latest snapshot: %w", err)
	}

	var analytics domain.ChannelAnalytics
	if err := json.Unmarshal(payload, &analytics); err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to unmarshal snapshot payload: %w", err)
	}
	return &analytics, capturedAt, nil
}
