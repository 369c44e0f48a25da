package trickle

import (
	"fmt"
	"slices"
)

// Model is an entry of the model registry. Name is sent as the request's
// model identifier; Label is for display and defaults to Name. URL and
// APIKey, when set, override the shared endpoint for this model only.
type Model struct {
	Name   string `yaml:"name"`
	Label  string `yaml:"label,omitempty"`
	URL    string `yaml:"url,omitempty"`
	APIKey string `yaml:"api_key,omitempty"`
}

// Endpoint returns base with the model's own URL and key applied.
func (m Model) Endpoint(base EndpointConfig) EndpointConfig {
	if m.URL != "" {
		base.URL = m.URL
	}
	if m.APIKey != "" {
		base.APIKey = m.APIKey
	}
	return base
}

// HasEndpoint reports whether the model overrides the shared endpoint.
func (m Model) HasEndpoint() bool { return m.URL != "" || m.APIKey != "" }

// DisplayName returns Label, or Name when Label is empty.
func (m Model) DisplayName() string {
	if m.Label != "" {
		return m.Label
	}
	return m.Name
}

// ModelRegistry holds the configured models and the current selection.
type ModelRegistry struct {
	models   []Model
	selected int
}

// NewModelRegistry creates a registry. An empty selected name picks the
// first model.
func NewModelRegistry(models []Model, selected string) (*ModelRegistry, error) {
	if len(models) == 0 {
		return nil, fmt.Errorf("at least one model is required: %w", ErrValidation)
	}
	seen := make(map[string]bool, len(models))
	for i, m := range models {
		if m.Name == "" {
			return nil, fmt.Errorf("model %d: name is required: %w", i, ErrValidation)
		}
		if seen[m.Name] {
			return nil, fmt.Errorf("model %q: duplicate name: %w", m.Name, ErrValidation)
		}
		seen[m.Name] = true
	}
	r := &ModelRegistry{models: slices.Clone(models)}
	if selected != "" {
		if err := r.Select(selected); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Models returns a copy of the registered models in configuration order.
func (r *ModelRegistry) Models() []Model {
	return slices.Clone(r.models)
}

// Selected returns the currently selected model.
func (r *ModelRegistry) Selected() Model {
	return r.models[r.selected]
}

// Select makes the named model current.
func (r *ModelRegistry) Select(name string) error {
	i := slices.IndexFunc(r.models, func(m Model) bool { return m.Name == name })
	if i < 0 {
		return fmt.Errorf("%q: %w", name, ErrUnknownModel)
	}
	r.selected = i
	return nil
}

// Next selects the following model, wrapping around, and returns it.
func (r *ModelRegistry) Next() Model {
	r.selected = (r.selected + 1) % len(r.models)
	return r.models[r.selected]
}
