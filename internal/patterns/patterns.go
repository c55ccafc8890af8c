// Package patterns loads the optional domain filters a caller may
// hand to a drain.Index: named regexes that, when a line matches,
// exclude the line from the index entirely rather than have it
// tokenized and bucketed.
//
// Grounded on the teacher's own pattern-config loader
// (internal/patterns/patterns.go before this rework): same YAML shape
// (gopkg.in/yaml.v3), same Name/Regex/Description fields, same
// compile-once-at-load-time idiom. The Placeholder field and the
// capture-group substitution patterns it enabled belonged to the
// teacher's span-normalization use case and have no equivalent in a
// prefilter, which only ever answers match/no-match on a whole line.
package patterns

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Pattern is one named domain filter as read from a YAML config file.
type Pattern struct {
	Name        string `yaml:"name"`
	Regex       string `yaml:"regex"`
	Description string `yaml:"description"`
}

// Config is the top-level shape of a domain filter config file.
type Config struct {
	Patterns []Pattern `yaml:"patterns"`
}

// CompiledPattern is a Pattern with its regex compiled.
type CompiledPattern struct {
	Name        string
	Regex       *regexp.Regexp
	Description string
}

// Load reads and compiles a domain filter config file.
func Load(path string) ([]CompiledPattern, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading domain filter config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing domain filter config: %w", err)
	}
	return compile(cfg.Patterns)
}

func compile(patterns []Pattern) ([]CompiledPattern, error) {
	compiled := make([]CompiledPattern, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p.Regex)
		if err != nil {
			return nil, fmt.Errorf("compiling domain filter %s: %w", p.Name, err)
		}
		compiled = append(compiled, CompiledPattern{
			Name:        p.Name,
			Regex:       re,
			Description: p.Description,
		})
	}
	return compiled, nil
}

// Default returns a sensible default set of prefilters: chatty,
// low-signal line shapes that are rarely worth giving their own log
// group. Callers that want every line indexed regardless should pass
// an empty slice to drain.New instead of Default().
func Default() []CompiledPattern {
	compiled, err := compile([]Pattern{
		{
			Name:        "debug",
			Regex:       `(?i)^\s*(DEBUG|TRACE)\b`,
			Description: "debug/trace-level lines",
		},
		{
			Name:        "healthcheck",
			Regex:       `(?i)\b(GET|HEAD)\s+/(healthz?|ready|livez)\b`,
			Description: "load balancer and orchestrator health probes",
		},
		{
			Name:        "keepalive",
			Regex:       `(?i)\b(keepalive|heartbeat)\s+(ping|ok|received|sent)\b`,
			Description: "periodic keepalive/heartbeat noise",
		},
	})
	if err != nil {
		// Default()'s patterns are compile-time constants; a failure
		// here would be a programming error, not a runtime condition.
		panic(fmt.Sprintf("patterns: default set failed to compile: %v", err))
	}
	return compiled
}

// Sources extracts the raw regex text a slice of CompiledPattern was
// built from, the shape drain.New expects for its domain patterns
// parameter.
func Sources(patterns []CompiledPattern) []string {
	out := make([]string, len(patterns))
	for i, p := range patterns {
		out[i] = p.Regex.String()
	}
	return out
}
