package workflow

import "weaver/weaver/utils/types"

// Step is one state of the deployment workflow.
type Step string

const (
	StepIdle             Step = "idle"
	StepSchemaGeneration Step = "schemaGeneration"
	StepSearch           Step = "search"
	StepExtraction       Step = "extraction"
	StepDeployment       Step = "deployment"
	StepCompleted        Step = "completed"
)

// Event is published on every state transition of a run.
type Event struct {
	RunID string `json:"runId"`
	Step  Step   `json:"step"`
	Error string `json:"error,omitempty"`
}

// RunState is a point-in-time snapshot of a run, safe to serialize.
type RunState struct {
	ID            string                `json:"id"`
	Step          Step                  `json:"step"`
	Query         string                `json:"query"`
	Provider      string                `json:"provider,omitempty"`
	Schema        *types.JSONSchema     `json:"schema,omitempty"`
	SearchResults *types.SearchResultSet `json:"searchResults,omitempty"`
	URLs          []string              `json:"urls,omitempty"`
	ExtractedData types.ExtractedRecord `json:"extractedData,omitempty"`
	Deployment    *types.DeployResponse `json:"deployment,omitempty"`
	Error         string                `json:"error,omitempty"`
}
