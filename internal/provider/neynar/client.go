// Package neynar implements the REST provider against the Neynar Farcaster
// API.
package neynar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/castlens/castlens-go/internal/constants"
	"github.com/castlens/castlens-go/internal/domain"
	"github.com/castlens/castlens-go/internal/paginate"
	"github.com/castlens/castlens-go/internal/util"
	"github.com/castlens/castlens-go/pkg/errors"
	"go.uber.org/zap"
)

const providerName = "neynar"

// Client talks to the Neynar REST API. API keys rotate per request so a
// rate-limited key does not stall a build; repeated server failures open a
// circuit that rejects requests until the reset timeout passes.
type Client struct {
	httpClient       *http.Client
	baseURL          string
	apiKeys          []string
	currentKeyIndex  int
	keyMu            sync.Mutex
	logger           *zap.Logger
	failureCount     int
	failureMu        sync.Mutex
	circuitOpenUntil *time.Time
	circuitMu        sync.RWMutex
}

func NewClient(apiKeys []string, logger *zap.Logger) (*Client, error) {
	if len(apiKeys) == 0 {
		return nil, fmt.Errorf("at least one Neynar API key is required")
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: constants.APIConfig.NeynarTimeout,
		},
		baseURL: constants.APIConfig.NeynarBaseURL,
		apiKeys: apiKeys,
		logger:  logger,
	}, nil
}

// FetchChannel retrieves channel metadata. A 404 maps to NotFoundError.
func (c *Client) FetchChannel(ctx context.Context, channelID string) (*domain.Channel, error) {
	params := url.Values{}
	params.Set("id", channelID)

	body, err := c.doRequest(ctx, http.MethodGet, "/channel", params)
	if err != nil {
		if apiErr, ok := err.(*errors.UpstreamError); ok && apiErr.StatusCode == 404 {
			return nil, errors.NewNotFoundError("channel", channelID)
		}
		c.logger.Error("Failed to fetch channel", zap.String("channel_id", channelID), zap.Error(err))
		return nil, err
	}

	var raw channelResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, errors.NewUpstreamError("failed to decode channel response", providerName, 502, nil).WithCause(err)
	}
	if raw.Channel.ID == "" {
		return nil, errors.NewNotFoundError("channel", channelID)
	}

	return raw.Channel.toDomain(), nil
}

// FetchCastsPage retrieves one page of the channel feed.
func (c *Client) FetchCastsPage(ctx context.Context, channelID, cursor string) (paginate.Page[*domain.Cast], error) {
	params := url.Values{}
	params.Set("channel_id", channelID)
	params.Set("limit", strconv.Itoa(constants.PaginationConfig.PageSize))
	if cursor != "" {
		params.Set("cursor", cursor)
	}

	body, err := c.doRequest(ctx, http.MethodGet, "/feed/channels", params)
	if err != nil {
		c.logger.Error("Failed to fetch casts page",
			zap.String("channel_id", channelID),
			zap.String("cursor", cursor),
			zap.Error(err),
		)
		return paginate.Page[*domain.Cast]{}, err
	}

	var raw feedResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return paginate.Page[*domain.Cast]{}, errors.NewUpstreamError("failed to decode feed response", providerName, 502, nil).WithCause(err)
	}

	casts := make([]*domain.Cast, 0, len(raw.Casts))
	for i := range raw.Casts {
		casts = append(casts, raw.Casts[i].toDomain())
	}

	return paginate.Page[*domain.Cast]{
		Items:      casts,
		NextCursor: raw.Next.cursorValue(),
	}, nil
}

// FetchParticipantsPage retrieves one page of channel followers.
func (c *Client) FetchParticipantsPage(ctx context.Context, channelID, cursor string) (paginate.Page[*domain.ParticipantEvent], error) {
	params := url.Values{}
	params.Set("id", channelID)
	params.Set("limit", strconv.Itoa(constants.PaginationConfig.PageSize))
	if cursor != "" {
		params.Set("cursor", cursor)
	}

	body, err := c.doRequest(ctx, http.MethodGet, "/channel/followers", params)
	if err != nil {
		c.logger.Error("Failed to fetch participants page",
			zap.String("channel_id", channelID),
			zap.String("cursor", cursor),
			zap.Error(err),
		)
		return paginate.Page[*domain.ParticipantEvent]{}, err
	}

	var raw followersResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return paginate.Page[*domain.ParticipantEvent]{}, errors.NewUpstreamError("failed to decode followers response", providerName, 502, nil).WithCause(err)
	}

	events := make([]*domain.ParticipantEvent, 0, len(raw.Users))
	for i := range raw.Users {
		events = append(events, raw.Users[i].toDomain(channelID))
	}

	return paginate.Page[*domain.ParticipantEvent]{
		Items:      events,
		NextCursor: raw.Next.cursorValue(),
	}, nil
}

func (c *Client) doRequest(ctx context.Context, method, path string, params url.Values) ([]byte, error) {
	if c.isCircuitOpen() {
		c.circuitMu.RLock()
		var remainingMs int64
		if c.circuitOpenUntil != nil {
			remainingMs = time.Until(*c.circuitOpenUntil).Milliseconds()
		}
		c.circuitMu.RUnlock()

		c.logger.Warn("Circuit breaker is open", zap.Int64("retry_after_ms", remainingMs))
		return nil, errors.NewUpstreamError("circuit breaker open", providerName, 503, map[string]any{
			"retry_after_ms": remainingMs,
		})
	}

	maxAttempts := requestAttempts(len(c.apiKeys))
	var lastErr error

	for attempt := 0; attempt < maxAttempts; attempt++ {
		apiKey := c.getNextAPIKey()

		reqURL := c.baseURL + path
		if params != nil {
			reqURL += "?" + params.Encode()
		}

		req, err := http.NewRequestWithContext(ctx, method, reqURL, nil)
		if err != nil {
			return nil, err
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-api-key", apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}

			lastErr = err
			count := c.incrementFailureCount()

			if count >= constants.CircuitBreakerConfig.FailureThreshold {
				c.openCircuit()
				break
			}

			if attempt < maxAttempts-1 {
				delay := c.computeDelay(attempt)
				c.logger.Warn("Request failed, retrying",
					zap.Error(err),
					zap.Int("attempt", attempt+1),
					zap.Duration("delay", delay),
				)
				time.Sleep(delay)
				continue
			}
			break
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()

		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode == 429 || resp.StatusCode == 403 {
			c.logger.Warn("Rate limited, rotating key",
				zap.Int("status", resp.StatusCode),
				zap.Int("attempt", attempt+1),
			)

			if attempt < maxAttempts-1 {
				continue
			}

			return nil, errors.NewUpstreamError("all API keys rate limited", providerName, resp.StatusCode, map[string]any{
				"url": reqURL,
			})
		}

		if resp.StatusCode >= 500 {
			count := c.incrementFailureCount()
			c.logger.Warn("Server error",
				zap.Int("status", resp.StatusCode),
				zap.Int("failure_count", count),
			)

			if count >= constants.CircuitBreakerConfig.FailureThreshold {
				c.openCircuit()
				break
			}

			if attempt < maxAttempts-1 {
				time.Sleep(c.computeDelay(attempt))
				continue
			}

			return nil, errors.NewUpstreamError(fmt.Sprintf("server error: %d", resp.StatusCode), providerName, resp.StatusCode, nil)
		}

		if resp.StatusCode >= 400 {
			return nil, errors.NewUpstreamError(fmt.Sprintf("client error: %d", resp.StatusCode), providerName, resp.StatusCode, map[string]any{
				"url":  reqURL,
				"body": string(body),
			})
		}

		c.resetCircuit()
		return body, nil
	}

	if lastErr != nil {
		return nil, errors.NewUpstreamError("neynar request failed", providerName, 502, nil).WithCause(lastErr)
	}

	return nil, errors.NewUpstreamError("neynar request failed", providerName, 502, nil)
}

// requestAttempts gives every key two chances at rotation but never fewer
// tries than the configured retry floor, capped at 10.
func requestAttempts(keyCount int) int {
	return util.Min(util.Max(constants.RetryConfig.MaxAttempts, keyCount*2), 10)
}

func (c *Client) getNextAPIKey() string {
	c.keyMu.Lock()
	defer c.keyMu.Unlock()

	key := c.apiKeys[c.currentKeyIndex]
	c.currentKeyIndex = (c.currentKeyIndex + 1) % len(c.apiKeys)
	return key
}

func (c *Client) isCircuitOpen() bool {
	c.circuitMu.RLock()
	defer c.circuitMu.RUnlock()

	if c.circuitOpenUntil == nil {
		return false
	}

	return time.Now().Before(*c.circuitOpenUntil)
}

func (c *Client) openCircuit() {
	c.circuitMu.Lock()
	defer c.circuitMu.Unlock()

	resetTime := time.Now().Add(constants.CircuitBreakerConfig.ResetTimeout)
	c.circuitOpenUntil = &resetTime
	c.failureCount = 0

	c.logger.Error("Neynar circuit breaker opened",
		zap.Duration("reset_timeout", constants.CircuitBreakerConfig.ResetTimeout),
	)
}

func (c *Client) resetCircuit() {
	c.circuitMu.Lock()
	defer c.circuitMu.Unlock()

	c.failureCount = 0
	c.circuitOpenUntil = nil
}

func (c *Client) incrementFailureCount() int {
	c.failureMu.Lock()
	defer c.failureMu.Unlock()

	c.failureCount++
	return c.failureCount
}

func (c *Client) computeDelay(attempt int) time.Duration {
	base := constants.RetryConfig.BaseDelay * time.Duration(math.Pow(2, float64(attempt)))
	jitter := time.Duration(rand.Float64() * float64(constants.RetryConfig.Jitter))
	return base + jitter
}
