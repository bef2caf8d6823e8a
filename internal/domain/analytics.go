package domain

// DayCount is one day bucket of a per-day series.
type DayCount struct {
	Date  string `json:"date"` // UTC calendar date, YYYY-MM-DD
	Count int    `json:"count"`
}

// Contributor is one entry of the top-contributors ranking.
type Contributor struct {
	Username  string `json:"username"`
	CastCount int    `json:"cast_count"`
}

// TypeShare is one slice of the content-type distribution, on a 0-100 scale.
type TypeShare struct {
	Type       string  `json:"type"`
	Percentage float64 `json:"percentage"`
}

// HourCount is one entry of the most-active-hours ranking.
type HourCount struct {
	Hour  int `json:"hour"` // UTC hour-of-day, 0-23
	Count int `json:"count"`
}

// TrendPoint is one entry of the follower growth trend. FollowerCount is
// cumulative and non-decreasing across successive points.
type TrendPoint struct {
	Date          string `json:"date"`
	FollowerCount int    `json:"follower_count"`
}

// ChannelAnalytics is the assembled view model handed to presentation. It is
// a pure value object: every series is non-nil, rankings are deterministic,
// and numeric rates default to 0 on empty input.
type ChannelAnalytics struct {
	Channel                 *Channel      `json:"channel"`
	CastsPerDay             []DayCount    `json:"casts_per_day"`
	EngagementRate          float64       `json:"engagement_rate"`
	TopContributors         []Contributor `json:"top_contributors"`
	TopCasts                []*Cast       `json:"top_casts"`
	ContentTypeDistribution []TypeShare   `json:"content_type_distribution"`
	MostActiveHours         []HourCount   `json:"most_active_hours"`
	GrowthTrend             []TrendPoint  `json:"growth_trend"`
}

// TotalCasts sums the per-day series.
func (a *ChannelAnalytics) TotalCasts() int {
	if a == nil {
		return 0
	}
	total := 0
	for _, day := range a.CastsPerDay {
		total += day.Count
	}
	return total
}
