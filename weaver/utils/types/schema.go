package types

// PropertySpec describes a single schema property. Object- and array-typed
// properties may carry nested specs; the generator is trusted to stay within
// this subset of JSON Schema.
type PropertySpec struct {
	Type        string                  `json:"type"`
	Description string                  `json:"description,omitempty"`
	Properties  map[string]PropertySpec `json:"properties,omitempty"`
	Items       *PropertySpec           `json:"items,omitempty"`
}

// JSONSchema is the descriptor produced by schema generation and consumed by
// extraction. Only type and properties are required; deeper JSON-Schema
// semantics are not validated.
type JSONSchema struct {
	Type        string                  `json:"type"`
	Description string                  `json:"description,omitempty"`
	Properties  map[string]PropertySpec `json:"properties"`
	Required    []string                `json:"required,omitempty"`
}

type GenerateSchemaRequest struct {
	Query    string `json:"query"`
	Provider string `json:"provider,omitempty"`
}

type GenerateSchemaResponse struct {
	Schema JSONSchema `json:"schema"`
}
