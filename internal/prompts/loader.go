// Package prompts holds the text templates sent to the language model.
// Templates live in ai.json and are compiled once, on first use.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"text/template"
)

//go:embed ai.json
var files embed.FS

const file = "ai.json"

// Template keys in ai.json.
const (
	KeyExtractSkills    = "extract-skills"
	KeyGenerateTags     = "generate-tags"
	KeyAnalyzeSentiment = "analyze-sentiment"
	KeyRecommendJobs    = "recommend-jobs"
)

// Set is a named collection of compiled prompt templates.
type Set struct {
	templates map[string]*template.Template
}

// Parse compiles every entry of a JSON object of key to template text.
// Executing a template with a missing field is an error.
func Parse(data []byte) (*Set, error) {
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse prompts: %w", err)
	}

	set := &Set{templates: make(map[string]*template.Template, len(raw))}
	for key, text := range raw {
		tmpl, err := template.New(key).Option("missingkey=error").Parse(text)
		if err != nil {
			return nil, fmt.Errorf("failed to compile prompt %q: %w", key, err)
		}
		set.templates[key] = tmpl
	}
	return set, nil
}

// Render executes the template stored under key.
func (s *Set) Render(key string, data map[string]string) (string, error) {
	tmpl, ok := s.templates[key]
	if !ok {
		return "", fmt.Errorf("prompt %q not found", key)
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("failed to render prompt %q: %w", key, err)
	}
	return sb.String(), nil
}

// Keys lists the template keys in sorted order.
func (s *Set) Keys() []string {
	keys := make([]string, 0, len(s.templates))
	for key := range s.templates {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

var loadDefault = sync.OnceValues(func() (*Set, error) {
	data, err := files.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", file, err)
	}
	return Parse(data)
})

// Default returns the embedded prompt set.
func Default() (*Set, error) {
	return loadDefault()
}

// Render executes an embedded template.
func Render(key string, data map[string]string) (string, error) {
	set, err := Default()
	if err != nil {
		return "", err
	}
	return set.Render(key, data)
}
