package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"weaver/weaver/utils/logging"

	"go.uber.org/zap"
)

// LLMSettings holds the model/prompt configuration for schema generation,
// loaded from a YAML file so prompts can be tuned without a rebuild.
type LLMSettings struct {
	DefaultProvider string            `yaml:"default_provider"`
	Temperature     float64           `yaml:"temperature"`
	MaxTokens       int               `yaml:"max_tokens"`
	SchemaPrompt    string            `yaml:"schema_prompt"`
	Models          map[string]string `yaml:"models"`
}

const defaultSchemaPrompt = `You are a JSON Schema generator. Given a description of data, generate a JSON Schema that matches the description.
Follow these rules:
1. Use appropriate types (string, number, boolean, array, object)
2. Add required fields when they are essential
3. Use descriptive property names
4. Add descriptions for complex fields
5. Use proper JSON Schema format
6. Respond ONLY with the valid JSON Schema
7. Do not include any explanatory text before or after the JSON Schema`

func defaultLLMSettings() LLMSettings {
	return LLMSettings{
		DefaultProvider: "openai",
		Temperature:     0.2,
		MaxTokens:       1000,
		SchemaPrompt:    defaultSchemaPrompt,
		Models: map[string]string{
			"openai": "gpt-4o-mini",
			"gemini": "gemini-1.5-flash",
		},
	}
}

// LoadLLMSettings reads the YAML settings file, falling back to built-in
// defaults when the file is missing or partially filled.
func LoadLLMSettings(path string) LLMSettings {
	settings := defaultLLMSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		logging.AppLogger.Info("LLM settings file not found, using defaults", zap.String("path", path))
		return settings
	}

	var fileSettings LLMSettings
	if err := yaml.Unmarshal(data, &fileSettings); err != nil {
		logging.ErrorLogger.Error("LLM settings parse error", zap.Error(err), zap.String("path", path))
		return settings
	}

	if fileSettings.DefaultProvider != "" {
		settings.DefaultProvider = fileSettings.DefaultProvider
	}
	if fileSettings.Temperature != 0 {
		settings.Temperature = fileSettings.Temperature
	}
	if fileSettings.MaxTokens != 0 {
		settings.MaxTokens = fileSettings.MaxTokens
	}
	if fileSettings.SchemaPrompt != "" {
		settings.SchemaPrompt = fileSettings.SchemaPrompt
	}
	for provider, model := range fileSettings.Models {
		settings.Models[provider] = model
	}
	return settings
}
