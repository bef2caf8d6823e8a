// Package paginate drains cursor-based paginated endpoints into complete
// in-memory collections.
package paginate

import (
	"context"

	"github.com/castlens/castlens-go/pkg/errors"
)

// Page is one page of a cursor-paginated result. An empty NextCursor means
// the upstream has no further pages.
type Page[T any] struct {
	Items      []T
	NextCursor string
}

// FetchFunc fetches the page identified by cursor. The first call receives
// an empty cursor.
type FetchFunc[T any] func(ctx context.Context, cursor string) (Page[T], error)

// Collect follows cursors until the upstream signals completion,
// accumulating items in the order the upstream returned them. maxPages is a
// hard budget: exceeding it fails with a PaginationLimitError rather than
// looping on an upstream that never terminates.
func Collect[T any](ctx context.Context, fetch FetchFunc[T], maxPages int) ([]T, error) {
	items := make([]T, 0)
	cursor := ""

	for page := 0; ; page++ {
		if page >= maxPages {
			return nil, errors.NewPaginationLimitError(maxPages)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := fetch(ctx, cursor)
		if err != nil {
			return nil, err
		}

		items = append(items, result.Items...)
		if result.NextCursor == "" {
			return items, nil
		}
		cursor = result.NextCursor
	}
}
