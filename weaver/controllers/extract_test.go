package controllers

import (
	"context"
	"errors"
	"testing"
	"time"

	"weaver/weaver/apperrors"
	"weaver/weaver/utils/types"
)

// fakeExtract answers with canned data or an error.
type fakeExtract struct {
	data types.ExtractedRecord
	err  error
}

func (f *fakeExtract) Extract(ctx context.Context, urls []string, prompt string, schema types.JSONSchema, enableWebSearch bool) (types.ExtractedRecord, error) {
	return f.data, f.err
}

// blockingExtract never answers on its own; it waits out the caller's
// deadline.
type blockingExtract struct{}

func (blockingExtract) Extract(ctx context.Context, urls []string, prompt string, schema types.JSONSchema, enableWebSearch bool) (types.ExtractedRecord, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

var testSchema = types.JSONSchema{
	Type:       "object",
	Properties: map[string]types.PropertySpec{"price": {Type: "number"}},
}

func TestExtractNoURLs(t *testing.T) {
	ctrl := NewExtractController(&fakeExtract{}, time.Second)
	_, err := ctrl.Extract(context.Background(), types.ExtractRequest{Schema: testSchema})
	if !apperrors.Is(err, apperrors.Validation) {
		t.Fatalf("err = %v, want Validation", err)
	}
}

func TestExtractInvalidURL(t *testing.T) {
	ctrl := NewExtractController(&fakeExtract{}, time.Second)
	for _, bad := range []string{"not-a-url", "ftp-no-host://", "/relative/path", ""} {
		_, err := ctrl.Extract(context.Background(), types.ExtractRequest{
			URLs:   []string{bad},
			Schema: testSchema,
		})
		if !apperrors.Is(err, apperrors.Validation) {
			t.Errorf("URLs=[%q]: err = %v, want Validation", bad, err)
		}
	}
}

func TestExtractTooManyURLs(t *testing.T) {
	urls := make([]string, maxExtractURLs+1)
	for i := range urls {
		urls[i] = "https://example.com"
	}
	ctrl := NewExtractController(&fakeExtract{}, time.Second)
	_, err := ctrl.Extract(context.Background(), types.ExtractRequest{URLs: urls, Schema: testSchema})
	if !apperrors.Is(err, apperrors.Validation) {
		t.Fatalf("err = %v, want Validation", err)
	}
}

func TestExtractTimeout(t *testing.T) {
	ctrl := NewExtractController(blockingExtract{}, 20*time.Millisecond)
	start := time.Now()
	_, err := ctrl.Extract(context.Background(), types.ExtractRequest{
		URLs:   []string{"https://example.com"},
		Schema: testSchema,
	})
	if !apperrors.Is(err, apperrors.Timeout) {
		t.Fatalf("err = %v, want Timeout", err)
	}
	if err.Error() != "Extraction timed out. Try fewer URLs or a simpler query." {
		t.Errorf("message = %q", err.Error())
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("extraction did not resolve near the deadline: %v", elapsed)
	}
}

func TestExtractConnectivityClassification(t *testing.T) {
	ctrl := NewExtractController(&fakeExtract{err: errors.New("read tcp: connection reset by peer")}, time.Second)
	_, err := ctrl.Extract(context.Background(), types.ExtractRequest{
		URLs:   []string{"https://example.com"},
		Schema: testSchema,
	})
	if !apperrors.Is(err, apperrors.Connectivity) {
		t.Fatalf("err = %v, want Connectivity", err)
	}
}

func TestExtractClassifiedErrorPassesThrough(t *testing.T) {
	upstream := apperrors.New(apperrors.Upstream, "provider said no")
	ctrl := NewExtractController(&fakeExtract{err: upstream}, time.Second)
	_, err := ctrl.Extract(context.Background(), types.ExtractRequest{
		URLs:   []string{"https://example.com"},
		Schema: testSchema,
	})
	if !errors.Is(err, upstream) {
		t.Fatalf("err = %v, want the provider's classified error", err)
	}
}

func TestExtractAnswerBoxInjection(t *testing.T) {
	ctrl := NewExtractController(&fakeExtract{data: types.ExtractedRecord{"price": 128.44}}, time.Second)
	data, err := ctrl.Extract(context.Background(), types.ExtractRequest{
		URLs:          []string{"https://example.com"},
		Schema:        testSchema,
		AnswerBoxData: &types.AnswerBox{Answer: "$128.44", Title: "NVDA stock"},
	})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	box, ok := data["answerBox"].(map[string]any)
	if !ok {
		t.Fatalf("answerBox not injected: %v", data)
	}
	if box["stockPrice"] != "$128.44" || box["description"] != "NVDA stock" {
		t.Errorf("answerBox = %v", box)
	}
}

func TestExtractNoAnswerBoxNoInjection(t *testing.T) {
	ctrl := NewExtractController(&fakeExtract{data: types.ExtractedRecord{"price": 128.44}}, time.Second)
	data, err := ctrl.Extract(context.Background(), types.ExtractRequest{
		URLs:   []string{"https://example.com"},
		Schema: testSchema,
	})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if _, ok := data["answerBox"]; ok {
		t.Errorf("answerBox injected without answer-box data: %v", data)
	}
}

func TestExtractNilDataBecomesEmptyRecord(t *testing.T) {
	ctrl := NewExtractController(&fakeExtract{data: nil}, time.Second)
	data, err := ctrl.Extract(context.Background(), types.ExtractRequest{
		URLs:   []string{"https://example.com"},
		Schema: testSchema,
	})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if data == nil {
		t.Fatal("data = nil, want empty record")
	}
}
