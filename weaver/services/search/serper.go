package search

import (
	"context"
	"errors"

	"weaver/weaver/apperrors"
	httputils "weaver/weaver/utils/http"
	"weaver/weaver/utils/logging"
	"weaver/weaver/utils/types"
)

type SerperClient struct {
	apiKey  string
	baseURL string
}

func NewSerperClient(apiKey string) *SerperClient {
	return &SerperClient{
		apiKey:  apiKey,
		baseURL: "https://google.serper.dev/search",
	}
}

type serperResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

type serperResponse struct {
	Organic   []serperResult `json:"organic"`
	AnswerBox *struct {
		Answer string `json:"answer"`
		Title  string `json:"title"`
		Link   string `json:"link"`
	} `json:"answerBox"`
}

// Search issues one request, no pagination, no retry.
func (c *SerperClient) Search(ctx context.Context, query string, limit int) (*types.SearchResultSet, error) {
	defer logging.LogDuration(ctx, "serper_search")()

	body := map[string]any{"q": query, "num": limit}
	headers := map[string]string{"X-API-KEY": c.apiKey}

	var resp serperResponse
	if err := httputils.PostJSONWithHeaders(ctx, c.baseURL, headers, body, &resp); err != nil {
		var se *httputils.StatusError
		if errors.As(err, &se) {
			return nil, apperrors.Wrap(apperrors.Upstream, "search request failed", err)
		}
		return nil, apperrors.Wrap(apperrors.Internal, "search request error", err)
	}

	set := &types.SearchResultSet{}
	for _, r := range resp.Organic {
		set.Organic = append(set.Organic, types.SearchResult{
			Title:   r.Title,
			Link:    r.Link,
			Snippet: r.Snippet,
		})
	}
	if resp.AnswerBox != nil {
		set.AnswerBox = &types.AnswerBox{
			Answer: resp.AnswerBox.Answer,
			Title:  resp.AnswerBox.Title,
			Link:   resp.AnswerBox.Link,
		}
	}
	return set, nil
}
