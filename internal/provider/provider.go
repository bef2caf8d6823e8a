// Package provider defines the upstream data-source contract. Any concrete
// provider implementing Client is substitutable; upstream-specific field
// shapes never leak past the adapter.
package provider

import (
	"context"

	"github.com/castlens/castlens-go/internal/domain"
	"github.com/castlens/castlens-go/internal/paginate"
)

// Client fetches raw channel data from an upstream source. Empty result sets
// are valid, not errors. Implementations fail with errors.NotFoundError when
// a channel identifier does not resolve and errors.UpstreamError on
// transport or provider-level failures.
type Client interface {
	FetchChannel(ctx context.Context, channelID string) (*domain.Channel, error)
	FetchCastsPage(ctx context.Context, channelID, cursor string) (paginate.Page[*domain.Cast], error)
	FetchParticipantsPage(ctx context.Context, channelID, cursor string) (paginate.Page[*domain.ParticipantEvent], error)
}
