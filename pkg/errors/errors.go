package errors

import (
	stdErrors "errors"
	"fmt"
)

// ErrInvalidConfiguration is the sentinel every configuration error matches via errors.Is.
var ErrInvalidConfiguration = stdErrors.New("invalid configuration")

// ParseError represents a YAML parsing failure with optional line metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}

	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// InvalidConfigurationError reports structurally malformed or inconsistent theme input.
// Section names the configuration area (spacing, colors, variants.dark, plugins),
// Name the offending entry within it.
type InvalidConfigurationError struct {
	Section string
	Name    string
	Message string
	Err     error
}

// NewInvalidConfiguration constructs an InvalidConfigurationError.
func NewInvalidConfiguration(section, name, message string, err error) error {
	return &InvalidConfigurationError{Section: section, Name: name, Message: message, Err: err}
}

// Invalidf is a formatting shorthand for NewInvalidConfiguration without a cause.
func Invalidf(section, name, format string, args ...any) error {
	return &InvalidConfigurationError{Section: section, Name: name, Message: fmt.Sprintf(format, args...)}
}

func (e *InvalidConfigurationError) Error() string {
	if e == nil {
		return ""
	}
	switch {
	case e.Section != "" && e.Name != "":
		return fmt.Sprintf("invalid configuration: %s: %s: %s", e.Section, e.Name, e.Message)
	case e.Section != "":
		return fmt.Sprintf("invalid configuration: %s: %s", e.Section, e.Message)
	default:
		return fmt.Sprintf("invalid configuration: %s", e.Message)
	}
}

// Unwrap exposes the underlying error.
func (e *InvalidConfigurationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches ErrInvalidConfiguration.
func (e *InvalidConfigurationError) Is(target error) bool {
	return target == ErrInvalidConfiguration
}

// IsInvalidConfiguration reports whether err is any configuration error.
func IsInvalidConfiguration(err error) bool {
	return stdErrors.Is(err, ErrInvalidConfiguration)
}
