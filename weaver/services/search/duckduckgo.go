package search

import (
	"context"
	"net/http"
	"net/url"
	"regexp"

	"github.com/PuerkitoBio/goquery"

	"weaver/weaver/apperrors"
	"weaver/weaver/utils/logging"
	"weaver/weaver/utils/types"
)

// DuckDuckGoClient scrapes the HTML results page. It is the key-less
// fallback used when no hosted search API is configured; it never returns
// an answer box.
type DuckDuckGoClient struct {
	baseURL string
}

func NewDuckDuckGoClient() *DuckDuckGoClient {
	return &DuckDuckGoClient{baseURL: "https://duckduckgo.com/html/"}
}

var reHTTP = regexp.MustCompile(`^https?://`)

func (c *DuckDuckGoClient) Search(ctx context.Context, query string, limit int) (*types.SearchResultSet, error) {
	defer logging.LogDuration(ctx, "duckduckgo_search")()

	params := url.Values{}
	params.Add("q", query)
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "search request error", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "search request error", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.New(apperrors.Upstream, "search request failed")
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "search parse error", err)
	}

	set := &types.SearchResultSet{}
	doc.Find(".result__body").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if len(set.Organic) >= limit {
			return false
		}
		titleSel := s.Find(".result__title a")
		snippetSel := s.Find(".result__snippet")
		if titleSel.Length() == 0 {
			return true
		}

		href, exists := titleSel.Attr("href")
		if !exists {
			return true
		}

		// DuckDuckGo wraps targets in a redirect; the real URL sits in uddg
		parsed, err := url.Parse(href)
		if err != nil {
			return true
		}
		actualURL := parsed.Query().Get("uddg")
		if actualURL == "" || !reHTTP.MatchString(actualURL) {
			return true
		}

		set.Organic = append(set.Organic, types.SearchResult{
			Title:   titleSel.Text(),
			Link:    actualURL,
			Snippet: snippetSel.Text(),
		})
		return true
	})

	return set, nil
}
