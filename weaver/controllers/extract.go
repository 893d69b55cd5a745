package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"weaver/weaver/apperrors"
	"weaver/weaver/services/extract"
	"weaver/weaver/utils/logging"
	"weaver/weaver/utils/types"
)

const (
	maxExtractURLs        = 20
	DefaultExtractTimeout = 2 * time.Minute
)

// ExtractController bounds and classifies calls to the extraction provider.
// The provider itself has no latency guarantee; the bound lives here.
type ExtractController struct {
	provider extract.Provider
	timeout  time.Duration
}

func NewExtractController(provider extract.Provider, timeout time.Duration) *ExtractController {
	if timeout <= 0 {
		timeout = DefaultExtractTimeout
	}
	return &ExtractController{provider: provider, timeout: timeout}
}

// Extract runs one all-or-nothing batch extraction. When answer-box data
// accompanies the request, it is injected into the result under the
// answerBox key so downstream presentation can treat quick-answer data
// uniformly.
func (c *ExtractController) Extract(ctx context.Context, req types.ExtractRequest) (types.ExtractedRecord, error) {
	defer logging.LogDuration(ctx, "extract_web_data")()

	if len(req.URLs) == 0 {
		return nil, apperrors.New(apperrors.Validation, "At least one URL is required")
	}
	if len(req.URLs) > maxExtractURLs {
		return nil, apperrors.New(apperrors.Validation, fmt.Sprintf("too many URLs: %d (max %d)", len(req.URLs), maxExtractURLs))
	}
	for _, raw := range req.URLs {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, apperrors.New(apperrors.Validation, fmt.Sprintf("invalid URL: %q", raw))
		}
	}

	extractCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	data, err := c.provider.Extract(extractCtx, req.URLs, req.Prompt, req.Schema, req.EnableWebSearch)
	if err != nil {
		return nil, classifyExtractError(extractCtx, err)
	}
	if data == nil {
		data = types.ExtractedRecord{}
	}

	if req.AnswerBoxData != nil {
		// Deliberate convention: the field names mirror the original
		// stock-quote use even for other answer-box types.
		data["answerBox"] = map[string]any{
			"stockPrice":  req.AnswerBoxData.Answer,
			"description": req.AnswerBoxData.Title,
		}
	}

	return data, nil
}

// classifyExtractError sorts provider failures into the taxonomy: timeouts,
// network-level trouble with actionable guidance, and everything else as
// upstream.
func classifyExtractError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apperrors.Wrap(apperrors.Timeout, "Extraction timed out. Try fewer URLs or a simpler query.", err)
	}
	if apperrors.KindOf(err) != apperrors.Internal {
		// Already classified by the provider client
		return err
	}
	if isConnectivityMessage(err.Error()) {
		return apperrors.Wrap(apperrors.Connectivity,
			"Connection problem while extracting. Try fewer URLs or a simpler query.", err)
	}
	return apperrors.Wrap(apperrors.Upstream, err.Error(), err)
}

var connectivityMarkers = []string{"network", "stream", "connection", "socket", "reset by peer", "broken pipe", "eof"}

func isConnectivityMessage(msg string) bool {
	msg = strings.ToLower(msg)
	for _, marker := range connectivityMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
