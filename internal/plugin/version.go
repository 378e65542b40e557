package plugin

import (
	"fmt"
	"strconv"
	"strings"
)

// VersionConstraint restricts acceptable plugin versions, either to a major
// line ("1.x") or to one exact release ("1.4.2").
type VersionConstraint struct {
	MajorVersion int
	Exact        string
}

// ParseVersionConstraint parses "N.x" or "X.Y.Z".
func ParseVersionConstraint(s string) (*VersionConstraint, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil, fmt.Errorf("version constraint string is empty")
	}

	if semverPattern.MatchString(trimmed) {
		major, _ := parseMajor(trimmed)
		return &VersionConstraint{MajorVersion: major, Exact: trimmed}, nil
	}

	parts := strings.Split(trimmed, ".")
	if len(parts) != 2 || parts[1] != "x" {
		return nil, fmt.Errorf("invalid version constraint '%s' (expected N.x or X.Y.Z)", s)
	}

	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid major version in constraint '%s'", s)
	}
	if major < 0 {
		return nil, fmt.Errorf("major version must be non-negative in constraint '%s'", s)
	}

	return &VersionConstraint{MajorVersion: major}, nil
}

// MustParseVersionConstraint panics if the constraint cannot be parsed.
func MustParseVersionConstraint(s string) *VersionConstraint {
	vc, err := ParseVersionConstraint(s)
	if err != nil {
		panic(err)
	}
	return vc
}

// Satisfies reports whether version meets the constraint. A nil constraint accepts anything.
func (vc *VersionConstraint) Satisfies(version string) bool {
	if vc == nil {
		return true
	}
	if vc.Exact != "" {
		return strings.TrimSpace(version) == vc.Exact
	}
	major, ok := parseMajor(version)
	if !ok {
		return false
	}
	return major == vc.MajorVersion
}

func parseMajor(version string) (int, bool) {
	head, _, _ := strings.Cut(strings.TrimSpace(version), ".")
	if head == "" {
		return 0, false
	}
	major, err := strconv.Atoi(head)
	if err != nil {
		return 0, false
	}
	return major, true
}

// String returns the canonical representation of the constraint.
func (vc *VersionConstraint) String() string {
	if vc == nil {
		return ""
	}
	if vc.Exact != "" {
		return vc.Exact
	}
	return fmt.Sprintf("%d.x", vc.MajorVersion)
}
