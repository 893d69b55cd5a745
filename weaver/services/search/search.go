// Package search wraps the web-search providers behind one interface so the
// pipeline never cares which backend answered.
package search

import (
	"context"

	"weaver/weaver/utils/types"
)

type Provider interface {
	Search(ctx context.Context, query string, limit int) (*types.SearchResultSet, error)
}
