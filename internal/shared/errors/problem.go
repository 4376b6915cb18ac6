// Package errors provides Problem Details for command-line failures, modeled on RFC 7807.
package errors

import (
	"fmt"
)

// ProblemDetail describes a failed operation in a form that can be printed
// for an operator or emitted as JSON.
type ProblemDetail struct {
	// Type is a URI reference that identifies the problem type.
	Type string `json:"type"`
	// Title is a short, human-readable summary of the problem type.
	Title string `json:"title"`
	// ExitCode is the process exit status for this occurrence.
	ExitCode int `json:"exit_code"`
	// Detail is a human-readable explanation specific to this occurrence.
	Detail string `json:"detail,omitempty"`
	// Instance names the command that failed.
	Instance string `json:"instance,omitempty"`
	// Extensions holds additional problem-specific properties.
	Extensions map[string]any `json:"extensions,omitempty"`
}

// Error implements the error interface.
func (p ProblemDetail) Error() string {
	if p.Detail != "" {
		return fmt.Sprintf("%s: %s", p.Title, p.Detail)
	}
	return p.Title
}

// WithDetail returns a copy with the given detail message.
func (p ProblemDetail) WithDetail(detail string) ProblemDetail {
	p.Detail = detail
	return p
}

// WithInstance returns a copy with the given instance.
func (p ProblemDetail) WithInstance(instance string) ProblemDetail {
	p.Instance = instance
	return p
}

// WithExtension returns a copy with an additional extension property.
func (p ProblemDetail) WithExtension(key string, value any) ProblemDetail {
	extensions := make(map[string]any, len(p.Extensions)+1)
	for k, v := range p.Extensions {
		extensions[k] = v
	}
	extensions[key] = value
	p.Extensions = extensions
	return p
}

// Common problem types as URI references.
const (
	TypeValidation  = "/problems/validation-error"
	TypeNotFound    = "/problems/not-found"
	TypeConflict    = "/problems/conflict"
	TypePersistence = "/problems/persistence-error"
	TypeInternal    = "/problems/internal-error"
)

// Exit codes. Persistence failures are warnings: the in-memory change was kept.
const (
	ExitInternal    = 1
	ExitValidation  = 2
	ExitNotFound    = 3
	ExitConflict    = 4
	ExitPersistence = 5
)

// Pre-defined problem templates for common scenarios.
var (
	// ErrNotFound indicates the requested item or order does not exist.
	ErrNotFound = ProblemDetail{
		Type:     TypeNotFound,
		Title:    "Not Found",
		ExitCode: ExitNotFound,
	}

	// ErrValidation indicates the input was rejected.
	ErrValidation = ProblemDetail{
		Type:     TypeValidation,
		Title:    "Invalid Input",
		ExitCode: ExitValidation,
	}

	// ErrConflict indicates a conflict with the current state.
	ErrConflict = ProblemDetail{
		Type:     TypeConflict,
		Title:    "Conflict",
		ExitCode: ExitConflict,
	}

	ErrPersistence = ProblemDetail{
		Type:     TypePersistence,
		Title:    "Changes Not Saved",
		ExitCode: ExitPersistence,
	}

	// ErrInternal indicates an unexpected failure.
	ErrInternal = ProblemDetail{
		Type:     TypeInternal,
		Title:    "Internal Error",
		ExitCode: ExitInternal,
	}
)
