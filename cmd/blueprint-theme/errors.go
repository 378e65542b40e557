package main

import (
	"errors"
	"fmt"

	"github.com/KyleBlankRollins/blueprint-sub003/internal/app/generate"
)

const (
	exitOK     = 0
	exitFailed = 1
	exitConfig = 2
)

func newCommandError(operation, context string, cause error, suggestion string) error {
	return &commandError{operation: operation, context: context, cause: cause, suggestion: suggestion}
}

type commandError struct {
	operation  string
	context    string
	cause      error
	suggestion string
}

func (e *commandError) Error() string {
	return fmt.Sprintf("Failed to %s: %s\n\nError: %v\n\nSuggestion: %s", e.operation, e.context, e.cause, e.suggestion)
}

func (e *commandError) Unwrap() error {
	return e.cause
}

// exitCode maps contrast and drift failures to 1 and everything else,
// configuration problems included, to 2.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, generate.ErrContrastViolations), errors.Is(err, generate.ErrDrift):
		return exitFailed
	default:
		return exitConfig
	}
}

// serviceError wraps a generate service failure with the suggestion the service
// attached to its result.
func serviceError(operation string, result *generate.Result, err error) error {
	suggestion := "Inspect the error above and fix the theme configuration."
	context := "running the theme pipeline"
	if result != nil && result.Error != nil {
		if result.Error.Suggestion != "" {
			suggestion = result.Error.Suggestion
		}
		if result.Error.Context != "" {
			context = result.Error.Context
		}
	}
	return newCommandError(operation, context, err, suggestion)
}
