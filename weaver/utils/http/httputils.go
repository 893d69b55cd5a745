package httputils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

func PostJSON(ctx context.Context, url string, body interface{}, resp interface{}) error {
	return PostJSONWithHeaders(ctx, url, nil, body, resp)
}

func PostJSONWithAuth(ctx context.Context, url, apiKey string, body interface{}, resp interface{}) error {
	return PostJSONWithHeaders(ctx, url, map[string]string{
		"Authorization": "Bearer " + apiKey,
	}, body, resp)
}

// PostJSONWithHeaders posts a JSON body with extra headers (e.g. Serper's
// X-API-KEY) and decodes the JSON response into resp when non-nil.
func PostJSONWithHeaders(ctx context.Context, url string, headers map[string]string, body interface{}, resp interface{}) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	r, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer r.Body.Close()
	if r.StatusCode < 200 || r.StatusCode >= 300 {
		b, _ := io.ReadAll(r.Body)
		return &StatusError{Code: r.StatusCode, Body: string(b)}
	}
	if resp != nil {
		return json.NewDecoder(r.Body).Decode(resp)
	}
	return nil
}

// StatusError carries a non-success HTTP status so callers can classify it.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("bad status: %d", e.Code)
}
