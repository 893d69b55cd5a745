// Package workflow sequences the four pipeline stages and carries their
// state. Transitions move strictly forward on success; a generation or
// search failure resets the run to idle, a deploy failure keeps the run at
// deployment so the user can retry without repeating extraction.
package workflow

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"weaver/weaver/apperrors"
	"weaver/weaver/utils/logging"
	"weaver/weaver/utils/types"

	"go.uber.org/zap"
)

// Stage collaborators are injected so tests can substitute doubles.
type SchemaGenerator interface {
	GenerateSchema(ctx context.Context, query, provider string) (*types.JSONSchema, error)
}

type Searcher interface {
	Search(ctx context.Context, query string, limit int) (*types.SearchResultSet, error)
}

type Extractor interface {
	Extract(ctx context.Context, req types.ExtractRequest) (types.ExtractedRecord, error)
}

type Deployer interface {
	Deploy(ctx context.Context, req types.DeployRequest) (*types.DeployResponse, error)
}

// maxExtractionURLs caps how many organic links feed extraction.
const maxExtractionURLs = 5

// Run is one workflow instance. All mutation goes through its engine.
type Run struct {
	ID string

	mu            sync.Mutex
	step          Step
	query         string
	provider      string
	schema        *types.JSONSchema
	searchResults *types.SearchResultSet
	urls          []string
	extractedData types.ExtractedRecord
	deployment    *types.DeployResponse
	errMsg        string

	events chan Event
}

// Events exposes the run's transition stream. The channel is never closed;
// readers stop when they see a terminal snapshot.
func (r *Run) Events() <-chan Event {
	return r.events
}

// Snapshot returns a consistent copy of the run's state.
func (r *Run) Snapshot() RunState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return RunState{
		ID:            r.ID,
		Step:          r.step,
		Query:         r.query,
		Provider:      r.provider,
		Schema:        r.schema,
		SearchResults: r.searchResults,
		URLs:          r.urls,
		ExtractedData: r.extractedData,
		Deployment:    r.deployment,
		Error:         r.errMsg,
	}
}

func (r *Run) setStep(step Step, errMsg string) {
	r.mu.Lock()
	r.step = step
	r.errMsg = errMsg
	r.mu.Unlock()

	select {
	case r.events <- Event{RunID: r.ID, Step: step, Error: errMsg}:
	default:
		// Slow or absent subscriber; state is still queryable
	}
}

// Engine owns all runs and drives them through the pipeline.
type Engine struct {
	mu   sync.RWMutex
	runs map[string]*Run

	schema   SchemaGenerator
	searcher Searcher
	extract  Extractor
	deployer Deployer
}

func NewEngine(schema SchemaGenerator, searcher Searcher, extract Extractor, deployer Deployer) *Engine {
	return &Engine{
		runs:     make(map[string]*Run),
		schema:   schema,
		searcher: searcher,
		extract:  extract,
		deployer: deployer,
	}
}

// Start registers a new run in idle state.
func (e *Engine) Start(query, provider string) (*Run, error) {
	if strings.TrimSpace(query) == "" {
		return nil, apperrors.New(apperrors.Validation, "Please enter a query to generate an API")
	}

	run := &Run{
		ID:       uuid.New().String(),
		step:     StepIdle,
		query:    query,
		provider: provider,
		events:   make(chan Event, 32),
	}

	e.mu.Lock()
	e.runs[run.ID] = run
	e.mu.Unlock()

	return run, nil
}

// Get returns the run for id.
func (e *Engine) Get(id string) (*Run, error) {
	e.mu.RLock()
	run, ok := e.runs[id]
	e.mu.RUnlock()
	if !ok {
		return nil, apperrors.New(apperrors.NotFound, "workflow run not found")
	}
	return run, nil
}

// Execute drives a run from idle through schema generation, search and
// extraction. Each stage begins only after the previous one resolved; any
// failure resets the run to idle with the stage's message. On success the
// run rests at extraction until the user invokes Deploy.
func (e *Engine) Execute(ctx context.Context, run *Run) RunState {
	defer logging.LogDuration(ctx, "workflow_execute")()

	run.setStep(StepSchemaGeneration, "")
	schema, err := e.schema.GenerateSchema(ctx, run.query, run.provider)
	if err != nil {
		run.setStep(StepIdle, "Schema generation failed: "+err.Error())
		return run.Snapshot()
	}
	run.mu.Lock()
	run.schema = schema
	run.mu.Unlock()

	run.setStep(StepSearch, "")
	results, err := e.searcher.Search(ctx, run.query, 0)
	if err != nil {
		run.setStep(StepIdle, "Search failed: "+err.Error())
		return run.Snapshot()
	}
	run.mu.Lock()
	run.searchResults = results
	run.mu.Unlock()

	urls := SelectURLs(results, maxExtractionURLs)
	if schema == nil || len(urls) == 0 {
		run.setStep(StepIdle, "No valid URLs found in search results")
		return run.Snapshot()
	}
	run.mu.Lock()
	run.urls = urls
	run.mu.Unlock()

	run.setStep(StepExtraction, "")
	data, err := e.extract.Extract(ctx, types.ExtractRequest{
		URLs:          urls,
		Prompt:        run.query,
		Schema:        *schema,
		AnswerBoxData: results.AnswerBox,
	})
	if err != nil {
		run.setStep(StepIdle, "Extraction failed: "+err.Error())
		return run.Snapshot()
	}
	run.mu.Lock()
	run.extractedData = data
	run.mu.Unlock()

	logging.AppLogger.Info("workflow extraction complete",
		zap.String("run_id", run.ID),
		zap.Int("urls", len(urls)),
	)

	// Rest at extraction; deployment is an explicit user action
	return run.Snapshot()
}

// Deploy moves a run from extraction into deployment. A deploy failure
// keeps the run at deployment with the error retained so the user can retry
// without repeating the earlier stages.
func (e *Engine) Deploy(ctx context.Context, runID, userID, name string) (RunState, error) {
	run, err := e.Get(runID)
	if err != nil {
		return RunState{}, err
	}

	run.mu.Lock()
	step := run.step
	data := run.extractedData
	schema := run.schema
	query := run.query
	urls := run.urls
	run.mu.Unlock()

	if (step != StepExtraction && step != StepDeployment) || data == nil || schema == nil {
		return run.Snapshot(), apperrors.New(apperrors.Validation, "no extracted data to deploy")
	}

	run.setStep(StepDeployment, "")
	resp, err := e.deployer.Deploy(ctx, types.DeployRequest{
		UserID:        userID,
		Schema:        schema,
		ExtractedData: data,
		Name:          name,
		Query:         query,
		URLs:          urls,
	})
	if err != nil {
		run.setStep(StepDeployment, "Deployment failed: "+err.Error())
		return run.Snapshot(), err
	}

	run.mu.Lock()
	run.deployment = resp
	run.mu.Unlock()
	run.setStep(StepCompleted, "")

	return run.Snapshot(), nil
}

// Reset unconditionally returns a run to idle, clearing all intermediate
// results and the error flag. It does not abort an in-flight stage.
func (e *Engine) Reset(runID string) (RunState, error) {
	run, err := e.Get(runID)
	if err != nil {
		return RunState{}, err
	}

	run.mu.Lock()
	run.schema = nil
	run.searchResults = nil
	run.urls = nil
	run.extractedData = nil
	run.deployment = nil
	run.mu.Unlock()
	run.setStep(StepIdle, "")

	return run.Snapshot(), nil
}

// SelectURLs picks the extraction inputs from organic results: non-empty
// links only, original order preserved, capped at max.
func SelectURLs(set *types.SearchResultSet, max int) []string {
	if set == nil {
		return nil
	}
	var urls []string
	for _, r := range set.Organic {
		if r.Link == "" {
			continue
		}
		urls = append(urls, r.Link)
		if len(urls) >= max {
			break
		}
	}
	return urls
}
