package schema

import (
	"fmt"
	"strings"
)

// Violation records a single schema violation at a field path, e.g.
// {Path: "pricing.tables[0].items[2].discount.type", Reason: "expected string, got number"}.
type Violation struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

func (v Violation) String() string {
	return v.Path + ": " + v.Reason
}

// ValidationError aggregates every violation found while decoding a payload.
// Decoding collects all violations rather than stopping at the first, so a
// caller can report every problem in one response.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.String()
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(parts, "; "))
}

// violations accumulates schema violations during a decode pass.
type violations struct {
	list []Violation
}

func (vs *violations) add(path, reason string) {
	vs.list = append(vs.list, Violation{Path: path, Reason: reason})
}

func (vs *violations) addf(path, format string, args ...any) {
	vs.add(path, fmt.Sprintf(format, args...))
}

// err returns the accumulated *ValidationError, or nil if nothing was recorded.
func (vs *violations) err() error {
	if len(vs.list) == 0 {
		return nil
	}
	return &ValidationError{Violations: vs.list}
}
