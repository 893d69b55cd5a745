package controllers

import (
	"context"
	"strings"
	"testing"

	"weaver/weaver/apperrors"
	"weaver/weaver/config"
	"weaver/weaver/services/llm"
)

// fakeLLM replays a canned completion and records the last request.
type fakeLLM struct {
	response string
	err      error
	lastReq  llm.ChatRequest
}

func (f *fakeLLM) Run(ctx context.Context, req llm.ChatRequest) (string, error) {
	f.lastReq = req
	return f.response, f.err
}

func newSchemaController(provider llm.Provider) *SchemaController {
	registry := llm.NewRegistry("fake")
	registry.Register("fake", provider)
	settings := config.LLMSettings{
		DefaultProvider: "fake",
		Temperature:     0.2,
		MaxTokens:       1000,
		SchemaPrompt:    "You are a JSON Schema generator.",
		Models:          map[string]string{"fake": "fake-model"},
	}
	return NewSchemaController(registry, settings)
}

func TestGenerateSchemaEmptyQuery(t *testing.T) {
	ctrl := newSchemaController(&fakeLLM{})
	_, err := ctrl.GenerateSchema(context.Background(), "   ", "")
	if !apperrors.Is(err, apperrors.Validation) {
		t.Fatalf("err = %v, want Validation", err)
	}
	if err.Error() != "Description cannot be empty" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestGenerateSchemaStripsFences(t *testing.T) {
	fake := &fakeLLM{response: "```json\n{\"type\":\"object\",\"properties\":{\"price\":{\"type\":\"number\"}},\"required\":[\"price\"]}\n```"}
	ctrl := newSchemaController(fake)

	schema, err := ctrl.GenerateSchema(context.Background(), "Latest Nvidia Stocks", "")
	if err != nil {
		t.Fatalf("GenerateSchema: %v", err)
	}
	if schema.Type != "object" {
		t.Errorf("Type = %q, want object", schema.Type)
	}
	if _, ok := schema.Properties["price"]; !ok {
		t.Errorf("properties missing price: %v", schema.Properties)
	}
	if len(schema.Required) != 1 || schema.Required[0] != "price" {
		t.Errorf("Required = %v", schema.Required)
	}
	if fake.lastReq.Model != "fake-model" {
		t.Errorf("model = %q", fake.lastReq.Model)
	}
	if len(fake.lastReq.Messages) != 1 || !strings.Contains(fake.lastReq.Messages[0].Content, "Data Description: Latest Nvidia Stocks") {
		t.Errorf("prompt not assembled from template and query: %+v", fake.lastReq.Messages)
	}
}

func TestGenerateSchemaEmptyCompletion(t *testing.T) {
	ctrl := newSchemaController(&fakeLLM{response: "   "})
	_, err := ctrl.GenerateSchema(context.Background(), "anything", "")
	if !apperrors.Is(err, apperrors.Generation) {
		t.Fatalf("err = %v, want Generation", err)
	}
	if err.Error() != "Failed to generate JSON schema" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestGenerateSchemaInvalidJSON(t *testing.T) {
	ctrl := newSchemaController(&fakeLLM{response: "```json\n{not valid}\n```"})
	_, err := ctrl.GenerateSchema(context.Background(), "anything", "")
	if !apperrors.Is(err, apperrors.Parse) {
		t.Fatalf("err = %v, want Parse", err)
	}
}

func TestGenerateSchemaMissingTypeOrProperties(t *testing.T) {
	ctrl := newSchemaController(&fakeLLM{response: `{"type":"object"}`})
	_, err := ctrl.GenerateSchema(context.Background(), "anything", "")
	if !apperrors.Is(err, apperrors.Parse) {
		t.Fatalf("err = %v, want Parse", err)
	}
}

func TestGenerateSchemaUnknownProviderFallsBack(t *testing.T) {
	fake := &fakeLLM{response: `{"type":"object","properties":{"x":{"type":"string"}}}`}
	ctrl := newSchemaController(fake)

	if _, err := ctrl.GenerateSchema(context.Background(), "anything", "no-such-provider"); err != nil {
		t.Fatalf("GenerateSchema: %v", err)
	}
}
