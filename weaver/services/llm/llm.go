package llm

import "context"

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

// Provider is one text-generation backend. Implementations are constructed
// once at process start and injected; no package-level clients.
type Provider interface {
	Run(ctx context.Context, req ChatRequest) (string, error)
}

// Registry selects a provider by name with a configured default.
type Registry struct {
	providers   map[string]Provider
	defaultName string
}

func NewRegistry(defaultName string) *Registry {
	return &Registry{
		providers:   make(map[string]Provider),
		defaultName: defaultName,
	}
}

func (r *Registry) Register(name string, p Provider) {
	r.providers[name] = p
}

// Pick returns the provider for name and its resolved name, falling back to
// the default when name is empty or unknown. ok is false when nothing is
// registered at all.
func (r *Registry) Pick(name string) (Provider, string, bool) {
	if p, ok := r.providers[name]; ok {
		return p, name, true
	}
	if p, ok := r.providers[r.defaultName]; ok {
		return p, r.defaultName, true
	}
	// Any provider beats none
	for n, p := range r.providers {
		return p, n, true
	}
	return nil, "", false
}
