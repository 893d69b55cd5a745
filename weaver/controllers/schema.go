package controllers

import (
	"context"
	"encoding/json"
	"strings"

	"weaver/weaver/apperrors"
	"weaver/weaver/config"
	"weaver/weaver/services/llm"
	"weaver/weaver/utils/jsonutils"
	"weaver/weaver/utils/logging"
	"weaver/weaver/utils/types"

	"go.uber.org/zap"
)

// SchemaController turns a free-text data description into a JSON Schema
// via the configured text-generation provider.
type SchemaController struct {
	registry *llm.Registry
	settings config.LLMSettings
}

func NewSchemaController(registry *llm.Registry, settings config.LLMSettings) *SchemaController {
	return &SchemaController{registry: registry, settings: settings}
}

// GenerateSchema runs a single generation attempt: no retry, no caching of
// identical queries.
func (c *SchemaController) GenerateSchema(ctx context.Context, query, providerName string) (*types.JSONSchema, error) {
	defer logging.LogDuration(ctx, "generate_schema")()

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.New(apperrors.Validation, "Description cannot be empty")
	}

	provider, name, ok := c.registry.Pick(providerName)
	if !ok {
		return nil, apperrors.New(apperrors.Internal, "no text-generation provider configured")
	}

	prompt := c.settings.SchemaPrompt + "\n\nData Description: " + query

	text, err := provider.Run(ctx, llm.ChatRequest{
		Model:       c.settings.Models[name],
		Messages:    []llm.Message{{Role: "user", Content: prompt}},
		Temperature: c.settings.Temperature,
		MaxTokens:   c.settings.MaxTokens,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Upstream, "Failed to generate JSON schema", err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.New(apperrors.Generation, "Failed to generate JSON schema")
	}

	// Strip markdown code fences before parsing
	cleaned := jsonutils.ExtractJSON(text)
	if cleaned == "" {
		return nil, apperrors.New(apperrors.Generation, "Failed to generate JSON schema")
	}

	var schema types.JSONSchema
	if err := json.Unmarshal([]byte(cleaned), &schema); err != nil {
		logging.ErrorLogger.Error("schema parse error", zap.Error(err), zap.String("raw", cleaned))
		return nil, apperrors.Wrap(apperrors.Parse, "generated schema is not valid JSON", err)
	}
	if schema.Type == "" || schema.Properties == nil {
		return nil, apperrors.New(apperrors.Parse, "generated schema is missing type or properties")
	}

	return &schema, nil
}
