package plugin

import (
	"fmt"
	"sort"
	"strings"

	bperrors "github.com/KyleBlankRollins/blueprint-sub003/pkg/errors"
)

// ErrCircularDependency is returned when plugin dependencies form a cycle.
type ErrCircularDependency struct {
	Cycle []string
}

func (e ErrCircularDependency) Error() string {
	if len(e.Cycle) == 0 {
		return "circular plugin dependency detected\nHint: review plugin dependencies to remove cycles"
	}

	sequence := append(append([]string{}, e.Cycle...), e.Cycle[0])
	return fmt.Sprintf(
		"circular plugin dependency detected: %s\nHint: break the cycle by removing one of the depends_on entries",
		strings.Join(sequence, " -> "),
	)
}

// Is matches the invalid configuration sentinel.
func (e ErrCircularDependency) Is(target error) bool {
	return target == bperrors.ErrInvalidConfiguration
}

// ErrMissingDependency is returned when a plugin depends on a plugin that was not supplied.
type ErrMissingDependency struct {
	Plugin     string
	Dependency string
}

func (e ErrMissingDependency) Error() string {
	return fmt.Sprintf(
		"plugin '%s' depends on '%s' which was not supplied\nHint: pass the '%s' plugin alongside it",
		e.Plugin,
		e.Dependency,
		e.Dependency,
	)
}

// Is matches the invalid configuration sentinel.
func (e ErrMissingDependency) Is(target error) bool {
	return target == bperrors.ErrInvalidConfiguration
}

// ErrVersionConflict captures version mismatches between dependents and a plugin.
type ErrVersionConflict struct {
	Plugin        string
	RequiredBy    map[string]string // dependent -> version constraint
	ActualVersion string
}

func (e ErrVersionConflict) Error() string {
	conflicts := make([]string, 0, len(e.RequiredBy))
	for dependent, constraint := range e.RequiredBy {
		conflicts = append(conflicts, fmt.Sprintf("%s requires %s", dependent, constraint))
	}
	sort.Strings(conflicts)

	return fmt.Sprintf(
		"version conflict for plugin '%s' (actual %s):\n  %s\nHint: align plugin versions or relax constraints",
		e.Plugin,
		e.ActualVersion,
		strings.Join(conflicts, "\n  "),
	)
}

// Is matches the invalid configuration sentinel.
func (e ErrVersionConflict) Is(target error) bool {
	return target == bperrors.ErrInvalidConfiguration
}

// ErrDuplicatePlugin is returned when two supplied plugins share an id.
type ErrDuplicatePlugin struct {
	ID string
}

func (e ErrDuplicatePlugin) Error() string {
	return fmt.Sprintf("plugin '%s' supplied more than once", e.ID)
}

// Is matches the invalid configuration sentinel.
func (e ErrDuplicatePlugin) Is(target error) bool {
	return target == bperrors.ErrInvalidConfiguration
}
