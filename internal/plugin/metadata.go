package plugin

import (
	"regexp"
	"strings"

	bperrors "github.com/KyleBlankRollins/blueprint-sub003/pkg/errors"
)

var (
	semverPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)
	idPattern     = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)
)

const section = "plugins"

// Metadata describes a theme plugin's identity and dependency requirements.
type Metadata struct {
	ID           string
	Version      string
	Dependencies []Dependency
}

// Dependency captures a dependency on another plugin.
type Dependency struct {
	ID                string
	VersionConstraint *VersionConstraint
}

// Validate ensures metadata is well-formed.
func (m Metadata) Validate() error {
	if strings.TrimSpace(m.ID) == "" {
		return bperrors.Invalidf(section, "", "plugin requires a non-empty id")
	}
	if !idPattern.MatchString(m.ID) {
		return bperrors.Invalidf(section, m.ID, "invalid plugin id (expected lowercase letters, digits and dashes)")
	}
	if strings.TrimSpace(m.Version) == "" {
		return bperrors.Invalidf(section, m.ID, "plugin requires a version")
	}
	if !semverPattern.MatchString(m.Version) {
		return bperrors.Invalidf(section, m.ID, "invalid version '%s' (expected format: X.Y.Z)", m.Version)
	}

	seenDeps := map[string]struct{}{}
	for _, dep := range m.Dependencies {
		if strings.TrimSpace(dep.ID) == "" {
			return bperrors.Invalidf(section, m.ID, "dependency with empty id")
		}
		if dep.ID == m.ID {
			return bperrors.Invalidf(section, m.ID, "plugin cannot depend on itself")
		}
		if _, exists := seenDeps[dep.ID]; exists {
			return bperrors.Invalidf(section, m.ID, "dependency '%s' listed more than once", dep.ID)
		}
		seenDeps[dep.ID] = struct{}{}
	}

	return nil
}

// ParseDependency parses "id" or "id@constraint" (for example "brand@1.x").
func ParseDependency(s string) (Dependency, error) {
	id, constraint, found := strings.Cut(strings.TrimSpace(s), "@")
	dep := Dependency{ID: strings.TrimSpace(id)}
	if !found {
		return dep, nil
	}

	vc, err := ParseVersionConstraint(constraint)
	if err != nil {
		return Dependency{}, bperrors.NewInvalidConfiguration(section, dep.ID, "invalid dependency constraint", err)
	}
	dep.VersionConstraint = vc
	return dep, nil
}

// Order validates every plugin's metadata and returns plugin ids in application
// order: dependencies first, otherwise the order the plugins were supplied in.
func Order(plugins []Metadata) ([]string, error) {
	graph := NewDependencyGraph()
	byID := make(map[string]Metadata, len(plugins))

	for _, meta := range plugins {
		if err := meta.Validate(); err != nil {
			return nil, err
		}
		if _, exists := byID[meta.ID]; exists {
			return nil, ErrDuplicatePlugin{ID: meta.ID}
		}
		byID[meta.ID] = meta
		graph.AddNode(meta.ID)
	}

	conflicts := map[string]*ErrVersionConflict{}
	var conflictOrder []string
	for _, meta := range plugins {
		for _, dep := range meta.Dependencies {
			target, ok := byID[dep.ID]
			if !ok {
				return nil, ErrMissingDependency{Plugin: meta.ID, Dependency: dep.ID}
			}
			if !dep.VersionConstraint.Satisfies(target.Version) {
				vc := conflicts[dep.ID]
				if vc == nil {
					vc = &ErrVersionConflict{Plugin: dep.ID, ActualVersion: target.Version, RequiredBy: map[string]string{}}
					conflicts[dep.ID] = vc
					conflictOrder = append(conflictOrder, dep.ID)
				}
				vc.RequiredBy[meta.ID] = dep.VersionConstraint.String()
			}
			graph.AddEdge(meta.ID, dep.ID)
		}
	}
	if len(conflictOrder) > 0 {
		return nil, *conflicts[conflictOrder[0]]
	}

	return graph.TopologicalSort()
}
