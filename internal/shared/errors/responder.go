package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Format selects how problems are written.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

// Responder writes problems to an output stream, usually stderr.
type Responder struct {
	out    io.Writer
	format Format
	// BaseURI is prepended to problem type URIs if they are relative.
	BaseURI string
}

// NewResponder creates a problem responder writing to out.
func NewResponder(out io.Writer, format Format) *Responder {
	if out == nil {
		out = io.Discard
	}
	return &Responder{out: out, format: format}
}

// Respond writes a problem and returns its exit code.
func (r *Responder) Respond(problem ProblemDetail) int {
	if r.BaseURI != "" && len(problem.Type) > 0 && problem.Type[0] == '/' {
		problem.Type = r.BaseURI + problem.Type
	}
	switch r.format {
	case FormatJSON:
		enc := json.NewEncoder(r.out)
		if err := enc.Encode(problem); err != nil {
			fmt.Fprintf(r.out, "error: %s\n", problem.Error())
		}
	default:
		if problem.Instance != "" {
			fmt.Fprintf(r.out, "%s: %s\n", problem.Instance, problem.Error())
		} else {
			fmt.Fprintf(r.out, "error: %s\n", problem.Error())
		}
	}
	return problem.ExitCode
}

// RespondError converts err to a ProblemDetail, writes it, and returns the
// exit code. Errors that are not already problems become internal errors.
func (r *Responder) RespondError(err error) int {
	var problem ProblemDetail
	if errors.As(err, &problem) {
		return r.Respond(problem)
	}
	return r.Respond(ErrInternal.WithDetail(err.Error()))
}

// ErrorMapper maps domain/application errors to ProblemDetail.
type ErrorMapper func(err error) (ProblemDetail, bool)

// ChainedResponder supports custom error mapping.
type ChainedResponder struct {
	*Responder
	mappers []ErrorMapper
}

// NewChainedResponder creates a responder with custom error mappers.
func NewChainedResponder(out io.Writer, format Format, mappers ...ErrorMapper) *ChainedResponder {
	return &ChainedResponder{
		Responder: NewResponder(out, format),
		mappers:   mappers,
	}
}

// AddMapper adds an error mapper to the chain.
func (r *ChainedResponder) AddMapper(mapper ErrorMapper) {
	r.mappers = append(r.mappers, mapper)
}

// Classify runs the mappers and falls back to an internal problem.
func (r *ChainedResponder) Classify(err error) ProblemDetail {
	for _, mapper := range r.mappers {
		if problem, ok := mapper(err); ok {
			return problem
		}
	}
	var problem ProblemDetail
	if errors.As(err, &problem) {
		return problem
	}
	return ErrInternal.WithDetail(err.Error())
}

// RespondError tries each mapper before falling back to default handling.
func (r *ChainedResponder) RespondError(err error) int {
	return r.Respond(r.Classify(err))
}

// MapSentinel returns a mapper that turns any error matching target into
// the given problem, carrying the original message as detail.
func MapSentinel(target error, problem ProblemDetail) ErrorMapper {
	return func(err error) (ProblemDetail, bool) {
		if !errors.Is(err, target) {
			return ProblemDetail{}, false
		}
		return problem.WithDetail(err.Error()), true
	}
}
