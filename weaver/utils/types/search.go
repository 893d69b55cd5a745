package types

type SearchResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet,omitempty"`
}

type AnswerBox struct {
	Answer string `json:"answer,omitempty"`
	Title  string `json:"title,omitempty"`
	Link   string `json:"link,omitempty"`
}

// SearchResultSet is the normalized search response: ranked organic results
// plus the provider's quick-answer widget when one came back.
type SearchResultSet struct {
	Organic   []SearchResult `json:"organic,omitempty"`
	AnswerBox *AnswerBox     `json:"answerBox,omitempty"`
}

type SearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

type SearchResponse struct {
	Success       bool             `json:"success"`
	SearchResults *SearchResultSet `json:"searchResults,omitempty"`
	Error         string           `json:"error,omitempty"`
}
