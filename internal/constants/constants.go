package constants

import "time"

var CacheTTL = struct {
	ChannelAnalytics time.Duration
}{
	ChannelAnalytics: 10 * time.Minute,
}

var RetryConfig = struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Jitter      time.Duration
}{
	MaxAttempts: 3,
	BaseDelay:   500 * time.Millisecond,
	Jitter:      250 * time.Millisecond,
}

var CircuitBreakerConfig = struct {
	FailureThreshold int
	ResetTimeout     time.Duration
}{
	FailureThreshold: 3,
	ResetTimeout:     30 * time.Second,
}

var PaginationConfig = struct {
	// MaxPages bounds cursor-following so a misbehaving upstream that never
	// returns a terminating cursor cannot loop a build forever.
	MaxPages int
	PageSize int
}{
	MaxPages: 1000,
	PageSize: 50,
}

var APIConfig = struct {
	NeynarBaseURL   string
	NeynarTimeout   time.Duration
	AirstackBaseURL string
	AirstackTimeout time.Duration
}{
	NeynarBaseURL:   "https://api.neynar.com/v2/farcaster",
	NeynarTimeout:   10 * time.Second,
	AirstackBaseURL: "https://api.airstack.xyz/gql",
	AirstackTimeout: 15 * time.Second,
}

var ServerConfig = struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	BuildTimeout    time.Duration
}{
	ReadTimeout:     10 * time.Second,
	WriteTimeout:    60 * time.Second,
	ShutdownTimeout: 10 * time.Second,
	BuildTimeout:    2 * time.Minute,
}

var AnalyticsConfig = struct {
	TopContributorsLimit int
	TopCastsLimit        int
	ReducerConcurrency   int
}{
	TopContributorsLimit: 10,
	TopCastsLimit:        5,
	ReducerConcurrency:   7,
}
