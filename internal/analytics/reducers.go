// Package analytics derives the channel analytics view model from raw cast
// and participant collections.
package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/castlens/castlens-go/internal/constants"
	"github.com/castlens/castlens-go/internal/domain"
	"github.com/castlens/castlens-go/internal/util"
	"github.com/castlens/castlens-go/pkg/errors"
)

// Reducers are pure and total over well-formed input. A cast or participant
// event with an unparsable timestamp fails the reduction with a
// MalformedRecordError naming the record; records are never silently
// dropped, since silent drops skew every aggregate without a visible signal.

func parseCastTime(cast *domain.Cast) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, cast.Timestamp)
	if err != nil {
		return time.Time{}, errors.NewMalformedRecordError(cast.Hash, "timestamp", err)
	}
	return t, nil
}

// CastsPerDay groups casts by UTC calendar date, ascending by date.
func CastsPerDay(casts []*domain.Cast) ([]domain.DayCount, error) {
	buckets := make(map[string]int)
	for _, cast := range casts {
		t, err := parseCastTime(cast)
		if err != nil {
			return nil, err
		}
		buckets[util.DayUTC(t)]++
	}

	days := make([]string, 0, len(buckets))
	for day := range buckets {
		days = append(days, day)
	}
	sort.Strings(days)

	series := make([]domain.DayCount, 0, len(days))
	for _, day := range days {
		series = append(series, domain.DayCount{Date: day, Count: buckets[day]})
	}
	return series, nil
}

// EngagementRate is the average engagement score per cast. Empty input
// yields 0, never NaN.
func EngagementRate(casts []*domain.Cast) float64 {
	if len(casts) == 0 {
		return 0
	}

	total := 0
	for _, cast := range casts {
		total += cast.EngagementScore()
	}
	return float64(total) / float64(len(casts))
}

// TopContributors ranks authors by cast count, descending. Ties keep
// first-seen order so repeated runs produce identical rankings.
func TopContributors(casts []*domain.Cast) []domain.Contributor {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, cast := range casts {
		username := cast.Author.Username
		if _, seen := counts[username]; !seen {
			order = append(order, username)
		}
		counts[username]++
	}

	ranked := make([]domain.Contributor, 0, len(order))
	for _, username := range order {
		ranked = append(ranked, domain.Contributor{Username: username, CastCount: counts[username]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].CastCount > ranked[j].CastCount
	})

	if len(ranked) > constants.AnalyticsConfig.TopContributorsLimit {
		ranked = ranked[:constants.AnalyticsConfig.TopContributorsLimit]
	}
	return ranked
}

// TopCasts ranks casts by engagement score, descending, ties in first-seen
// order. The input slice is not mutated.
func TopCasts(casts []*domain.Cast) []*domain.Cast {
	ranked := make([]*domain.Cast, len(casts))
	copy(ranked, casts)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].EngagementScore() > ranked[j].EngagementScore()
	})

	if len(ranked) > constants.AnalyticsConfig.TopCastsLimit {
		ranked = ranked[:constants.AnalyticsConfig.TopCastsLimit]
	}
	return ranked
}

// Content type labels
const (
	ContentTypeText  = "Text"
	ContentTypeMedia = "Media"
)

// ContentTypeDistribution splits casts into Media (embeds or a link in the
// body) versus Text, as percentages on a 0-100 scale. Types with no casts
// are omitted; output order is Text then Media.
func ContentTypeDistribution(casts []*domain.Cast) []domain.TypeShare {
	shares := make([]domain.TypeShare, 0, 2)
	if len(casts) == 0 {
		return shares
	}

	media := 0
	for _, cast := range casts {
		if cast.HasMedia() {
			media++
		}
	}
	text := len(casts) - media
	total := float64(len(casts))

	if text > 0 {
		shares = append(shares, domain.TypeShare{Type: ContentTypeText, Percentage: float64(text) / total * 100})
	}
	if media > 0 {
		shares = append(shares, domain.TypeShare{Type: ContentTypeMedia, Percentage: float64(media) / total * 100})
	}
	return shares
}

// MostActiveHours groups casts by UTC hour-of-day and ranks the hours by
// count, descending. This is a ranking, not a time series; count ties break
// by ascending hour.
func MostActiveHours(casts []*domain.Cast) ([]domain.HourCount, error) {
	var counts [24]int
	for _, cast := range casts {
		t, err := parseCastTime(cast)
		if err != nil {
			return nil, err
		}
		counts[util.HourUTC(t)]++
	}

	ranked := make([]domain.HourCount, 0)
	for hour, count := range counts {
		if count > 0 {
			ranked = append(ranked, domain.HourCount{Hour: hour, Count: count})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Hour < ranked[j].Hour
	})
	return ranked, nil
}

// GrowthTrend orders participant events by follow timestamp and accumulates
// the follower count per UTC calendar date. The resulting series is
// monotonically non-decreasing by construction.
func GrowthTrend(events []*domain.ParticipantEvent) ([]domain.TrendPoint, error) {
	type timedEvent struct {
		at    time.Time
		event *domain.ParticipantEvent
	}

	timed := make([]timedEvent, 0, len(events))
	for _, event := range events {
		t, err := time.Parse(time.RFC3339, event.FollowedAt)
		if err != nil {
			recordID := fmt.Sprintf("fid:%d", event.FID)
			return nil, errors.NewMalformedRecordError(recordID, "followed_at", err)
		}
		timed = append(timed, timedEvent{at: t, event: event})
	}

	// Upstream order is not guaranteed; the trend is defined over
	// timestamp order.
	sort.SliceStable(timed, func(i, j int) bool {
		return timed[i].at.Before(timed[j].at)
	})

	trend := make([]domain.TrendPoint, 0)
	running := 0
	for _, te := range timed {
		running++
		day := util.DayUTC(te.at)
		if n := len(trend); n > 0 && trend[n-1].Date == day {
			trend[n-1].FollowerCount = running
			continue
		}
		trend = append(trend, domain.TrendPoint{Date: day, FollowerCount: running})
	}
	return trend, nil
}
