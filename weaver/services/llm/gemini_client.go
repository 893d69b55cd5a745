package llm

import (
	"context"
	"fmt"

	httputils "weaver/weaver/utils/http"
	"weaver/weaver/utils/logging"
)

type GeminiClient struct {
	apiKey  string
	baseURL string
}

func NewGeminiClient(apiKey string) *GeminiClient {
	return &GeminiClient{
		apiKey:  apiKey,
		baseURL: "https://generativelanguage.googleapis.com/v1beta/models",
	}
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig geminiGenConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

// Run executes a single generateContent request. Chat messages are folded
// into one prompt part; schema generation only ever sends one user message.
func (c *GeminiClient) Run(ctx context.Context, req ChatRequest) (string, error) {
	defer logging.LogDuration(ctx, "gemini_service_run")()

	var prompt string
	for _, m := range req.Messages {
		if prompt != "" {
			prompt += "\n\n"
		}
		prompt += m.Content
	}

	url := fmt.Sprintf("%s/%s:generateContent", c.baseURL, req.Model)

	gemReq := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenConfig{
			Temperature:     req.Temperature,
			MaxOutputTokens: req.MaxTokens,
		},
	}

	var resp struct {
		Candidates []struct {
			Content struct {
				Parts []geminiPart `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	headers := map[string]string{"x-goog-api-key": c.apiKey}
	if err := httputils.PostJSONWithHeaders(ctx, url, headers, gemReq, &resp); err != nil {
		return "", err
	}

	if len(resp.Candidates) > 0 && len(resp.Candidates[0].Content.Parts) > 0 {
		return resp.Candidates[0].Content.Parts[0].Text, nil
	}
	return "", fmt.Errorf("no candidates returned")
}
