package ignore

import (
	"path/filepath"
	"strings"
)

// Config lists glob patterns of catalog objects to leave out of discovery.
// A pattern starting with "!" re-includes names matched by another pattern.
type Config struct {
	Tables   []string `toml:"tables,omitempty"`
	Types    []string `toml:"types,omitempty"` // enums and composite types
	Routines []string `toml:"routines,omitempty"`
}

// ShouldIgnoreTable reports whether a table or view is filtered out
func (c *Config) ShouldIgnoreTable(name string) bool {
	if c == nil {
		return false
	}
	return shouldIgnore(name, c.Tables)
}

// ShouldIgnoreType reports whether an enum or composite type is filtered out
func (c *Config) ShouldIgnoreType(name string) bool {
	if c == nil {
		return false
	}
	return shouldIgnore(name, c.Types)
}

// ShouldIgnoreRoutine reports whether a routine is filtered out
func (c *Config) ShouldIgnoreRoutine(name string) bool {
	if c == nil {
		return false
	}
	return shouldIgnore(name, c.Routines)
}

// Negation patterns take precedence over inclusion patterns.
func shouldIgnore(name string, patterns []string) bool {
	matched := false
	for _, pattern := range patterns {
		if strings.HasPrefix(pattern, "!") {
			continue
		}
		if matchPattern(pattern, name) {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}

	for _, pattern := range patterns {
		if neg, ok := strings.CutPrefix(pattern, "!"); ok && matchPattern(neg, name) {
			return false
		}
	}
	return true
}

// matchPattern matches a glob-style pattern; invalid patterns match literally.
func matchPattern(pattern, name string) bool {
	matched, err := filepath.Match(pattern, name)
	if err != nil {
		return pattern == name
	}
	return matched
}
