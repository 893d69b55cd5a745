package controllers

import (
	"context"
	"strings"

	"weaver/weaver/apperrors"
	"weaver/weaver/services/search"
	"weaver/weaver/utils/logging"
	"weaver/weaver/utils/types"
)

const (
	DefaultSearchLimit = 6
	maxSearchLimit     = 10
)

// SearchController issues one search request and normalizes the response.
type SearchController struct {
	provider search.Provider
}

func NewSearchController(provider search.Provider) *SearchController {
	return &SearchController{provider: provider}
}

// ClampLimit bounds a requested result limit to [1, 10], defaulting when
// unset.
func ClampLimit(limit int) int {
	if limit == 0 {
		limit = DefaultSearchLimit
	}
	if limit < 1 {
		limit = 1
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	return limit
}

// Search runs one query. No pagination, no retry, no caching.
func (c *SearchController) Search(ctx context.Context, query string, limit int) (*types.SearchResultSet, error) {
	defer logging.LogDuration(ctx, "search_web")()

	if strings.TrimSpace(query) == "" {
		return nil, apperrors.New(apperrors.Validation, "Query cannot be empty")
	}
	limit = ClampLimit(limit)

	set, err := c.provider.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	if set == nil || (len(set.Organic) == 0 && set.AnswerBox == nil) {
		return nil, apperrors.New(apperrors.NotFound, "No search results found")
	}

	if len(set.Organic) > limit {
		set.Organic = set.Organic[:limit]
	}
	for i := range set.Organic {
		if set.Organic[i].Title == "" {
			set.Organic[i].Title = "Untitled"
		}
	}

	return set, nil
}
