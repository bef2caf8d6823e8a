package analytics

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/castlens/castlens-go/internal/constants"
	"github.com/castlens/castlens-go/internal/domain"
	"github.com/castlens/castlens-go/internal/paginate"
	"github.com/castlens/castlens-go/internal/provider"
	"github.com/castlens/castlens-go/pkg/errors"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// Cache stores assembled analytics keyed per channel. A miss is a nil-dest
// no-op, not an error.
type Cache interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// SnapshotStore persists assembled analytics for history charting.
type SnapshotStore interface {
	Save(ctx context.Context, analytics *domain.ChannelAnalytics) error
}

// Service assembles the ChannelAnalytics view model: it drains the upstream
// provider and runs the reducers. One build is independent of any other;
// nothing is shared between concurrent builds.
type Service struct {
	provider  provider.Client
	cache     Cache         // optional
	snapshots SnapshotStore // optional
	logger    *zap.Logger
	maxPages  int
}

func NewService(providerClient provider.Client, cache Cache, snapshots SnapshotStore, logger *zap.Logger) *Service {
	return &Service{
		provider:  providerClient,
		cache:     cache,
		snapshots: snapshots,
		logger:    logger,
		maxPages:  constants.PaginationConfig.MaxPages,
	}
}

func analyticsCacheKey(channelID string) string {
	return fmt.Sprintf("channel_analytics_%s", channelID)
}

// BuildChannelAnalytics runs one complete analytics build. The channel
// fetch, cast collection, and participant collection run concurrently, as do
// the reducers; any failure fails the whole build so a dashboard never shows
// partial analytics. Cancelling ctx stops in-flight pagination.
func (s *Service) BuildChannelAnalytics(ctx context.Context, channelID string) (*domain.ChannelAnalytics, error) {
	if channelID == "" {
		return nil, errors.NewAppError("channel id is required", errors.CodeValidation, 400, nil)
	}

	cacheKey := analyticsCacheKey(channelID)
	if s.cache != nil {
		var cached domain.ChannelAnalytics
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil && cached.Channel != nil {
			return &cached, nil
		}
	}

	start := time.Now()

	var (
		channel *domain.Channel
		casts   []*domain.Cast
		events  []*domain.ParticipantEvent
	)

	// The three upstream phases are independent until final assembly.
	fetches := pool.New().WithContext(ctx).WithFirstError().WithCancelOnError()
	fetches.Go(func(ctx context.Context) error {
		fetched, err := s.provider.FetchChannel(ctx, channelID)
		if err != nil {
			return err
		}
		channel = fetched
		return nil
	})
	fetches.Go(func(ctx context.Context) error {
		collected, err := paginate.Collect(ctx, func(ctx context.Context, cursor string) (paginate.Page[*domain.Cast], error) {
			return s.provider.FetchCastsPage(ctx, channelID, cursor)
		}, s.maxPages)
		if err != nil {
			return err
		}
		casts = collected
		return nil
	})
	fetches.Go(func(ctx context.Context) error {
		collected, err := paginate.Collect(ctx, func(ctx context.Context, cursor string) (paginate.Page[*domain.ParticipantEvent], error) {
			return s.provider.FetchParticipantsPage(ctx, channelID, cursor)
		}, s.maxPages)
		if err != nil {
			return err
		}
		events = collected
		return nil
	})
	if err := fetches.Wait(); err != nil {
		return nil, attachChannelID(err, channelID)
	}

	result := &domain.ChannelAnalytics{Channel: channel}

	// Reducers are pure over immutable snapshots; each writes its own field
	// and Wait orders those writes before assembly.
	reducers := pool.New().
		WithMaxGoroutines(constants.AnalyticsConfig.ReducerConcurrency).
		WithContext(ctx).
		WithFirstError().
		WithCancelOnError()
	reducers.Go(func(context.Context) error {
		series, err := CastsPerDay(casts)
		if err != nil {
			return err
		}
		result.CastsPerDay = series
		return nil
	})
	reducers.Go(func(context.Context) error {
		result.EngagementRate = EngagementRate(casts)
		return nil
	})
	reducers.Go(func(context.Context) error {
		result.TopContributors = TopContributors(casts)
		return nil
	})
	reducers.Go(func(context.Context) error {
		result.TopCasts = TopCasts(casts)
		return nil
	})
	reducers.Go(func(context.Context) error {
		result.ContentTypeDistribution = ContentTypeDistribution(casts)
		return nil
	})
	reducers.Go(func(context.Context) error {
		ranked, err := MostActiveHours(casts)
		if err != nil {
			return err
		}
		result.MostActiveHours = ranked
		return nil
	})
	reducers.Go(func(context.Context) error {
		trend, err := GrowthTrend(events)
		if err != nil {
			return err
		}
		result.GrowthTrend = trend
		return nil
	})
	if err := reducers.Wait(); err != nil {
		return nil, attachChannelID(err, channelID)
	}

	s.logger.Info("Channel analytics assembled",
		zap.String("channel_id", channelID),
		zap.Int("casts", len(casts)),
		zap.Int("participants", len(events)),
		zap.Duration("elapsed", time.Since(start)),
	)

	if s.cache != nil {
		_ = s.cache.Set(ctx, cacheKey, result, constants.CacheTTL.ChannelAnalytics)
	}
	if s.snapshots != nil {
		if err := s.snapshots.Save(ctx, result); err != nil {
			s.logger.Warn("Failed to persist analytics snapshot",
				zap.String("channel_id", channelID),
				zap.Error(err),
			)
		}
	}

	return result, nil
}

// attachChannelID adds the channel id to the error's diagnostic context
// without wrapping the error in a new kind.
func attachChannelID(err error, channelID string) error {
	var carrier interface{ SetContext(key string, value any) }
	if stderrors.As(err, &carrier) {
		carrier.SetContext("channel_id", channelID)
	}
	return err
}
