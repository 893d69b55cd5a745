package extract

import (
	"context"
	"errors"
	"fmt"

	"weaver/weaver/apperrors"
	httputils "weaver/weaver/utils/http"
	"weaver/weaver/utils/logging"
	"weaver/weaver/utils/types"
)

type FirecrawlClient struct {
	apiKey  string
	baseURL string
}

func NewFirecrawlClient(apiKey string) *FirecrawlClient {
	return &FirecrawlClient{
		apiKey:  apiKey,
		baseURL: "https://api.firecrawl.dev/v1/extract",
	}
}

type firecrawlRequest struct {
	URLs            []string         `json:"urls"`
	Prompt          string           `json:"prompt"`
	Schema          types.JSONSchema `json:"schema"`
	EnableWebSearch bool             `json:"enableWebSearch,omitempty"`
}

type firecrawlResponse struct {
	Success bool                  `json:"success"`
	Data    types.ExtractedRecord `json:"data"`
	Error   string                `json:"error"`
}

// Extract runs one batch extraction. All-or-nothing: a provider-side
// failure fails the whole batch.
func (c *FirecrawlClient) Extract(ctx context.Context, urls []string, prompt string, schema types.JSONSchema, enableWebSearch bool) (types.ExtractedRecord, error) {
	defer logging.LogDuration(ctx, "firecrawl_extract")()

	req := firecrawlRequest{
		URLs:            urls,
		Prompt:          prompt,
		Schema:          schema,
		EnableWebSearch: enableWebSearch,
	}

	var resp firecrawlResponse
	err := httputils.PostJSONWithAuth(ctx, c.baseURL, c.apiKey, req, &resp)
	if err != nil {
		var se *httputils.StatusError
		if errors.As(err, &se) {
			return nil, apperrors.Wrap(apperrors.Upstream, fmt.Sprintf("extraction request failed: %s", se.Body), err)
		}
		return nil, err
	}

	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = "batch extraction failed"
		}
		return nil, apperrors.New(apperrors.Upstream, msg)
	}

	return resp.Data, nil
}
