package types

// ExtractedRecord is the open-ended map the extraction provider returns.
// Its shape loosely follows the requested JSONSchema but is not validated
// against it; consumers must branch on runtime shape before traversal.
type ExtractedRecord map[string]any

type ExtractRequest struct {
	URLs            []string   `json:"urls"`
	Prompt          string     `json:"prompt"`
	Schema          JSONSchema `json:"schema"`
	EnableWebSearch bool       `json:"enableWebSearch,omitempty"`
	AnswerBoxData   *AnswerBox `json:"answerBoxData,omitempty"`
}

type ExtractResponse struct {
	Success bool            `json:"success"`
	Data    ExtractedRecord `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}
