package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// PromptStore holds named prompt templates loaded from prompts.yaml.
// Templates use {name} placeholders, ex: {transcript}.
type PromptStore struct {
	prompts map[string]string
}

func LoadPrompts(dir string) (*PromptStore, error) {
	raw, err := os.ReadFile(filepath.Join(dir, "prompts.yaml"))
	if err != nil {
		return nil, fmt.Errorf("config: read prompts.yaml: %w", err)
	}

	prompts := map[string]string{}
	if err := yaml.Unmarshal(raw, &prompts); err != nil {
		return nil, fmt.Errorf("config: parse prompts.yaml: %w", err)
	}
	return &PromptStore{prompts: prompts}, nil
}

// NewPromptStore wraps an in-memory template map; used by tests.
func NewPromptStore(prompts map[string]string) *PromptStore {
	return &PromptStore{prompts: prompts}
}

// Get returns the raw template, or "" when the name is unknown.
func (s *PromptStore) Get(name string) string {
	return s.prompts[name]
}

// Render substitutes {key} placeholders in the named template.
func (s *PromptStore) Render(name string, vars map[string]string) string {
	tmpl := s.prompts[name]
	for k, v := range vars {
		tmpl = strings.ReplaceAll(tmpl, "{"+k+"}", v)
	}
	return tmpl
}
