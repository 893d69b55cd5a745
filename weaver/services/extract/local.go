package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"weaver/weaver/apperrors"
	"weaver/weaver/config"
	"weaver/weaver/services/llm"
	"weaver/weaver/sources/storage"
	"weaver/weaver/utils/jsonutils"
	"weaver/weaver/utils/logging"
	"weaver/weaver/utils/types"

	"go.uber.org/zap"
)

const (
	pageFetchTimeout = 15 * time.Second
	pageCharLimit    = 4000
)

// LocalExtractor is the key-less fallback: it fetches each page statically,
// strips it to text (cached in MinIO when configured) and asks the LLM to
// emit JSON matching the requested schema. JS-rendered pages are the hosted
// provider's job, not this one's.
type LocalExtractor struct {
	provider llm.Provider
	settings config.LLMSettings
	cache    *storage.PageCache
}

// NewLocalExtractor builds the fallback. cache may be nil; every page is
// then fetched fresh.
func NewLocalExtractor(provider llm.Provider, settings config.LLMSettings, cache *storage.PageCache) *LocalExtractor {
	return &LocalExtractor{provider: provider, settings: settings, cache: cache}
}

func (e *LocalExtractor) Extract(ctx context.Context, urls []string, prompt string, schema types.JSONSchema, enableWebSearch bool) (types.ExtractedRecord, error) {
	defer logging.LogDuration(ctx, "local_extract")()

	var pages []string
	for _, u := range urls {
		text, err := e.pageText(ctx, u)
		if err != nil {
			// All-or-nothing across the batch
			return nil, apperrors.Wrap(apperrors.Upstream, fmt.Sprintf("failed to fetch %s", u), err)
		}
		if len(text) > pageCharLimit {
			text = text[:pageCharLimit]
		}
		pages = append(pages, fmt.Sprintf("Source: %s\n%s", u, text))
	}

	schemaJSON := jsonutils.ToJSON(schema)
	fullPrompt := fmt.Sprintf(
		"Extract structured data from the following web page content.\n"+
			"Request: %s\n\n"+
			"The result MUST be a single JSON object conforming to this JSON Schema:\n%s\n\n"+
			"Respond ONLY with the JSON object, no explanatory text.\n\n%s",
		prompt, schemaJSON, strings.Join(pages, "\n\n---\n\n"),
	)

	text, err := e.provider.Run(ctx, llm.ChatRequest{
		Model:       e.settings.Models[e.settings.DefaultProvider],
		Messages:    []llm.Message{{Role: "user", Content: fullPrompt}},
		Temperature: e.settings.Temperature,
		MaxTokens:   e.settings.MaxTokens,
	})
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.New(apperrors.Generation, "extractor returned empty output")
	}

	cleaned := jsonutils.ExtractJSON(text)
	var record types.ExtractedRecord
	if err := json.Unmarshal([]byte(cleaned), &record); err != nil {
		return nil, apperrors.Wrap(apperrors.Parse, "extractor output is not valid JSON", err)
	}
	return record, nil
}

// pageText returns stripped page text, read through the cache when one is
// configured.
func (e *LocalExtractor) pageText(ctx context.Context, url string) (string, error) {
	if e.cache != nil {
		if text, err := e.cache.Get(ctx, url); err == nil {
			return text, nil
		}
	}

	fetchCtx, cancel := context.WithTimeout(ctx, pageFetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(fetchCtx, "GET", url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("bad status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	text := extractText(string(body))

	if e.cache != nil {
		if _, err := e.cache.Put(ctx, url, text); err != nil {
			logging.ErrorLogger.Error("page cache write failed", zap.String("url", url), zap.Error(err))
		}
	}
	return text, nil
}

// extractText extracts text content from HTML
func extractText(htmlContent string) string {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return ""
	}

	var sb strings.Builder
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data + " ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(doc)

	return strings.Join(strings.Fields(sb.String()), " ")
}
