// Package airstack implements the GraphQL provider against the Airstack
// Farcaster API.
package airstack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/castlens/castlens-go/internal/constants"
	"github.com/castlens/castlens-go/internal/domain"
	"github.com/castlens/castlens-go/internal/paginate"
	"github.com/castlens/castlens-go/pkg/errors"
	"go.uber.org/zap"
)

const providerName = "airstack"

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *zap.Logger
}

func NewClient(apiKey string, logger *zap.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Airstack API key is required")
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: constants.APIConfig.AirstackTimeout,
		},
		baseURL: constants.APIConfig.AirstackBaseURL,
		apiKey:  apiKey,
		logger:  logger,
	}, nil
}

// FetchChannel retrieves channel metadata. A query returning no rows maps to
// NotFoundError.
func (c *Client) FetchChannel(ctx context.Context, channelID string) (*domain.Channel, error) {
	var data channelData
	err := c.doQuery(ctx, channelQuery, map[string]any{"channelId": channelID}, &data)
	if err != nil {
		c.logger.Error("Failed to fetch channel", zap.String("channel_id", channelID), zap.Error(err))
		return nil, err
	}

	if len(data.FarcasterChannels.Channel) == 0 {
		return nil, errors.NewNotFoundError("channel", channelID)
	}

	return data.FarcasterChannels.Channel[0].toDomain(), nil
}

// FetchCastsPage retrieves one page of channel casts.
func (c *Client) FetchCastsPage(ctx context.Context, channelID, cursor string) (paginate.Page[*domain.Cast], error) {
	variables := map[string]any{
		"channelId": channelID,
		"limit":     constants.PaginationConfig.PageSize,
		"cursor":    cursor,
	}

	var data castsData
	if err := c.doQuery(ctx, castsQuery, variables, &data); err != nil {
		c.logger.Error("Failed to fetch casts page",
			zap.String("channel_id", channelID),
			zap.String("cursor", cursor),
			zap.Error(err),
		)
		return paginate.Page[*domain.Cast]{}, err
	}

	casts := make([]*domain.Cast, 0, len(data.FarcasterCasts.Cast))
	for i := range data.FarcasterCasts.Cast {
		casts = append(casts, data.FarcasterCasts.Cast[i].toDomain())
	}

	return paginate.Page[*domain.Cast]{
		Items:      casts,
		NextCursor: data.FarcasterCasts.PageInfo.NextCursor,
	}, nil
}

// FetchParticipantsPage retrieves one page of channel participants.
func (c *Client) FetchParticipantsPage(ctx context.Context, channelID, cursor string) (paginate.Page[*domain.ParticipantEvent], error) {
	variables := map[string]any{
		"channelId": channelID,
		"limit":     constants.PaginationConfig.PageSize,
		"cursor":    cursor,
	}

	var data participantsData
	if err := c.doQuery(ctx, participantsQuery, variables, &data); err != nil {
		c.logger.Error("Failed to fetch participants page",
			zap.String("channel_id", channelID),
			zap.String("cursor", cursor),
			zap.Error(err),
		)
		return paginate.Page[*domain.ParticipantEvent]{}, err
	}

	events := make([]*domain.ParticipantEvent, 0, len(data.FarcasterChannelParticipants.Participant))
	for i := range data.FarcasterChannelParticipants.Participant {
		events = append(events, data.FarcasterChannelParticipants.Participant[i].toDomain(channelID))
	}

	return paginate.Page[*domain.ParticipantEvent]{
		Items:      events,
		NextCursor: data.FarcasterChannelParticipants.PageInfo.NextCursor,
	}, nil
}

func (c *Client) doQuery(ctx context.Context, query string, variables map[string]any, dest any) error {
	reqBody, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(reqBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errors.NewUpstreamError("airstack request failed", providerName, 502, nil).WithCause(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.NewUpstreamError("failed to read airstack response", providerName, 502, nil).WithCause(err)
	}

	if resp.StatusCode >= 400 {
		return errors.NewUpstreamError(fmt.Sprintf("airstack error: %d", resp.StatusCode), providerName, resp.StatusCode, map[string]any{
			"body": string(body),
		})
	}

	var envelope graphQLResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return errors.NewUpstreamError("failed to decode airstack response", providerName, 502, nil).WithCause(err)
	}

	// GraphQL reports failures in-band with a 200 status.
	if len(envelope.Errors) > 0 {
		return errors.NewUpstreamError(envelope.Errors[0].Message, providerName, 502, map[string]any{
			"errors": envelope.Errors,
		})
	}

	if dest != nil && envelope.Data != nil {
		if err := json.Unmarshal(envelope.Data, dest); err != nil {
			return errors.NewUpstreamError("failed to decode airstack data", providerName, 502, nil).WithCause(err)
		}
	}

	return nil
}
