package analytics

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"github.com/castlens/castlens-go/internal/domain"
	"github.com/castlens/castlens-go/internal/paginate"
	apperrors "github.com/castlens/castlens-go/pkg/errors"
	"go.uber.org/zap"
)

type fakeProvider struct {
	channel          *domain.Channel
	channelErr       error
	castPages        map[string]paginate.Page[*domain.Cast]
	castsErr         error
	participantPages map[string]paginate.Page[*domain.ParticipantEvent]
	channelCalls     atomic.Int32
}

func (f *fakeProvider) FetchChannel(_ context.Context, _ string) (*domain.Channel, error) {
	f.channelCalls.Add(1)
	if f.channelErr != nil {
		return nil, f.channelErr
	}
	return f.channel, nil
}

func (f *fakeProvider) FetchCastsPage(_ context.Context, _, cursor string) (paginate.Page[*domain.Cast], error) {
	if f.castsErr != nil {
		return paginate.Page[*domain.Cast]{}, f.castsErr
	}
	return f.castPages[cursor], nil
}

func (f *fakeProvider) FetchParticipantsPage(_ context.Context, _, cursor string) (paginate.Page[*domain.ParticipantEvent], error) {
	return f.participantPages[cursor], nil
}

type fakeCache struct {
	store map[string][]byte
	sets  int
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: map[string][]byte{}}
}

func (f *fakeCache) Get(_ context.Context, key string, dest any) error {
	raw, ok := f.store[key]
	if !ok {
		return nil
	}
	return json.Unmarshal(raw, dest)
}

func (f *fakeCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.store[key] = raw
	f.sets++
	return nil
}

func healthyProvider() *fakeProvider {
	return &fakeProvider{
		channel: &domain.Channel{ID: "degen", Name: "Degen", FollowerCount: 100},
		castPages: map[string]paginate.Page[*domain.Cast]{
			"": {
				Items: []*domain.Cast{
					makeCast("0x1", "alice", "2023-06-01T10:00:00Z", 10, 5, 2),
					makeCast("0x2", "bob", "2023-06-01T12:00:00Z", 0, 0, 0),
				},
				NextCursor: "p2",
			},
			"p2": {
				Items: []*domain.Cast{
					makeCast("0x3", "alice", "2023-06-02T10:00:00Z", 1, 1, 1),
				},
			},
		},
		participantPages: map[string]paginate.Page[*domain.ParticipantEvent]{
			"": {
				Items: []*domain.ParticipantEvent{
					makeEvent(1, "2023-06-01T09:00:00Z"),
					makeEvent(2, "2023-06-02T09:00:00Z"),
				},
			},
		},
	}
}

func TestBuildChannelAnalytics(t *testing.T) {
	service := NewService(healthyProvider(), nil, nil, zap.NewNop())

	result, err := service.BuildChannelAnalytics(context.Background(), "degen")
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	if result.Channel == nil || result.Channel.ID != "degen" {
		t.Fatalf("channel = %+v", result.Channel)
	}
	if result.TotalCasts() != 3 {
		t.Errorf("TotalCasts = %d, want 3 (pages merged)", result.TotalCasts())
	}
	if want := float64(17+0+3) / 3; result.EngagementRate != want {
		t.Errorf("EngagementRate = %v, want %v", result.EngagementRate, want)
	}
	if len(result.TopContributors) != 2 || result.TopContributors[0].Username != "alice" {
		t.Errorf("TopContributors = %+v", result.TopContributors)
	}
	if len(result.TopCasts) != 3 || result.TopCasts[0].Hash != "0x1" {
		t.Errorf("TopCasts = %+v", result.TopCasts)
	}
	if len(result.GrowthTrend) != 2 || result.GrowthTrend[1].FollowerCount != 2 {
		t.Errorf("GrowthTrend = %+v", result.GrowthTrend)
	}
	if result.MostActiveHours == nil || result.ContentTypeDistribution == nil || result.CastsPerDay == nil {
		t.Error("derived series must be non-nil")
	}
}

func TestBuildEmptyChannel(t *testing.T) {
	provider := &fakeProvider{
		channel:          &domain.Channel{ID: "quiet", Name: "Quiet"},
		castPages:        map[string]paginate.Page[*domain.Cast]{},
		participantPages: map[string]paginate.Page[*domain.ParticipantEvent]{},
	}
	service := NewService(provider, nil, nil, zap.NewNop())

	result, err := service.BuildChannelAnalytics(context.Background(), "quiet")
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	if result.EngagementRate != 0 {
		t.Errorf("EngagementRate = %v, want 0", result.EngagementRate)
	}
	if result.TopContributors == nil || len(result.TopContributors) != 0 {
		t.Errorf("TopContributors = %v, want empty non-nil", result.TopContributors)
	}
	if result.TopCasts == nil || len(result.TopCasts) != 0 {
		t.Errorf("TopCasts = %v, want empty non-nil", result.TopCasts)
	}
	if result.ContentTypeDistribution == nil || len(result.ContentTypeDistribution) != 0 {
		t.Errorf("ContentTypeDistribution = %v, want empty non-nil", result.ContentTypeDistribution)
	}
}

func TestBuildChannelNotFound(t *testing.T) {
	provider := healthyProvider()
	provider.channelErr = apperrors.NewNotFoundError("channel", "nope")
	service := NewService(provider, nil, nil, zap.NewNop())

	_, err := service.BuildChannelAnalytics(context.Background(), "nope")
	if !apperrors.IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}

	var notFound *apperrors.NotFoundError
	if !asNotFound(err, &notFound) {
		t.Fatal("error does not unwrap")
	}
	if notFound.Context["channel_id"] != "nope" {
		t.Errorf("channel_id context missing: %+v", notFound.Context)
	}
}

func TestBuildFailsOnMalformedCast(t *testing.T) {
	provider := healthyProvider()
	provider.castPages[""] = paginate.Page[*domain.Cast]{
		Items: []*domain.Cast{makeCast("0xbad", "alice", "yesterday-ish", 0, 0, 0)},
	}
	service := NewService(provider, nil, nil, zap.NewNop())

	_, err := service.BuildChannelAnalytics(context.Background(), "degen")
	if !apperrors.IsMalformedRecord(err) {
		t.Fatalf("expected MalformedRecordError, got %v", err)
	}
}

func TestBuildTripsPaginationFuse(t *testing.T) {
	provider := healthyProvider()
	// A cursor that points at itself never terminates.
	provider.castPages["loop"] = paginate.Page[*domain.Cast]{NextCursor: "loop"}
	provider.castPages[""] = paginate.Page[*domain.Cast]{NextCursor: "loop"}
	service := NewService(provider, nil, nil, zap.NewNop())
	service.maxPages = 5

	_, err := service.BuildChannelAnalytics(context.Background(), "degen")
	if !apperrors.IsPaginationLimit(err) {
		t.Fatalf("expected PaginationLimitError, got %v", err)
	}
}

func TestBuildRejectsEmptyChannelID(t *testing.T) {
	service := NewService(healthyProvider(), nil, nil, zap.NewNop())
	_, err := service.BuildChannelAnalytics(context.Background(), "")
	if err == nil {
		t.Fatal("expected error for empty channel id")
	}
}

func TestBuildServesFromCache(t *testing.T) {
	provider := healthyProvider()
	cache := newFakeCache()
	service := NewService(provider, cache, nil, zap.NewNop())

	first, err := service.BuildChannelAnalytics(context.Background(), "degen")
	if err != nil {
		t.Fatalf("first build failed: %v", err)
	}
	if cache.sets != 1 {
		t.Fatalf("cache sets = %d, want 1", cache.sets)
	}

	second, err := service.BuildChannelAnalytics(context.Background(), "degen")
	if err != nil {
		t.Fatalf("second build failed: %v", err)
	}
	if provider.channelCalls.Load() != 1 {
		t.Errorf("provider hit %d times, want 1 (second build cached)", provider.channelCalls.Load())
	}
	if second.EngagementRate != first.EngagementRate {
		t.Errorf("cached rate %v != built rate %v", second.EngagementRate, first.EngagementRate)
	}
}

func TestBuildDeterministicAcrossRuns(t *testing.T) {
	// Every cast tied at score zero: ordering must still be stable.
	tied := map[string]paginate.Page[*domain.Cast]{
		"": {
			Items: []*domain.Cast{
				makeCast("0x1", "c", "2023-06-01T01:00:00Z", 0, 0, 0),
				makeCast("0x2", "a", "2023-06-01T02:00:00Z", 0, 0, 0),
				makeCast("0x3", "b", "2023-06-01T03:00:00Z", 0, 0, 0),
			},
		},
	}

	build := func() *domain.ChannelAnalytics {
		provider := healthyProvider()
		provider.castPages = tied
		service := NewService(provider, nil, nil, zap.NewNop())
		result, err := service.BuildChannelAnalytics(context.Background(), "degen")
		if err != nil {
			t.Fatalf("build failed: %v", err)
		}
		return result
	}

	first := build()
	for i := 0; i < 20; i++ {
		again := build()
		for j := range first.TopCasts {
			if first.TopCasts[j].Hash != again.TopCasts[j].Hash {
				t.Fatalf("run %d: top casts order diverged", i)
			}
		}
		for j := range first.TopContributors {
			if first.TopContributors[j] != again.TopContributors[j] {
				t.Fatalf("run %d: top contributors order diverged", i)
			}
		}
	}
}
