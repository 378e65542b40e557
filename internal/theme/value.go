package theme

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var referencePattern = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9_-]*)\.(\S+)$`)

// Kind distinguishes the two shapes a token value can take.
type Kind int

const (
	// Literal values are emitted verbatim ("1px", "Inter, sans-serif", "#fff").
	Literal Kind = iota
	// Reference values name a step of a color family ("gray.900").
	Reference
)

// ColorRef addresses one step of a color family.
type ColorRef struct {
	Family string
	Step   int
}

func (r ColorRef) String() string {
	return fmt.Sprintf("%s.%d", r.Family, r.Step)
}

// Value is a token value parsed once at build time.
type Value struct {
	Kind Kind
	Ref  ColorRef
	Text string
}

// LiteralValue wraps raw text as a literal.
func LiteralValue(text string) Value {
	return Value{Kind: Literal, Text: text}
}

// ReferenceValue builds a reference value.
func ReferenceValue(family string, step int) Value {
	return Value{Kind: Reference, Ref: ColorRef{Family: family, Step: step}}
}

// ParseValue classifies raw. Strings shaped like "family.step" are references
// and must carry a positive integer step; everything else is a literal.
func ParseValue(raw string) (Value, error) {
	trimmed := strings.TrimSpace(raw)
	m := referencePattern.FindStringSubmatch(trimmed)
	if m == nil {
		return LiteralValue(trimmed), nil
	}

	step, err := strconv.Atoi(m[2])
	if err != nil || step <= 0 {
		return Value{}, fmt.Errorf("malformed color reference %q: step must be a positive integer", trimmed)
	}
	return ReferenceValue(m[1], step), nil
}

// IsReference reports whether v names a color step.
func (v Value) IsReference() bool {
	return v.Kind == Reference
}

// String renders the value the way it was written.
func (v Value) String() string {
	if v.Kind == Reference {
		return v.Ref.String()
	}
	return v.Text
}
