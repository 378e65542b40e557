package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"

	bperrors "github.com/KyleBlankRollins/blueprint-sub003/pkg/errors"
)

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

// Bundle is a theme together with every plugin it pulls in.
type Bundle struct {
	Theme   *Theme
	Plugins []Plugin
}

// Files lists the theme file followed by the plugin files, for watchers.
func (b *Bundle) Files() []string {
	var files []string
	if b.Theme != nil && b.Theme.Path != "" {
		files = append(files, b.Theme.Path)
	}
	for _, p := range b.Plugins {
		if p.Path != "" {
			files = append(files, p.Path)
		}
	}
	return files
}

// LoadTheme loads a theme file from disk, validates it, and returns the resulting model.
func LoadTheme(path string) (*Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, bperrors.NewParseError(path, 0, err)
	}
	return ParseTheme(data, path)
}

// ParseTheme decodes and validates theme YAML. Path is used for error messages only.
func ParseTheme(data []byte, path string) (*Theme, error) {
	var theme Theme
	if err := decodeStrict(data, path, &theme); err != nil {
		return nil, err
	}
	theme.Path = path

	if err := ValidateTheme(&theme); err != nil {
		return nil, err
	}
	return &theme, nil
}

// LoadPlugin loads a plugin file from disk and validates it.
func LoadPlugin(path string) (*Plugin, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, bperrors.NewParseError(path, 0, err)
	}
	return ParsePlugin(data, path)
}

// ParsePlugin decodes and validates plugin YAML. Unknown keys, including scale
// sections that only a base theme may define, are parse errors.
func ParsePlugin(data []byte, path string) (*Plugin, error) {
	var plugin Plugin
	if err := decodeStrict(data, path, &plugin); err != nil {
		return nil, err
	}
	plugin.Path = path

	if err := ValidatePlugin(&plugin); err != nil {
		return nil, err
	}
	return &plugin, nil
}

// LoadBundle loads the theme at themePath, the plugins it lists (relative to the
// theme file) and any extra plugin files. A file named twice is loaded once.
func LoadBundle(themePath string, extraPlugins []string) (*Bundle, error) {
	theme, err := LoadTheme(themePath)
	if err != nil {
		return nil, err
	}

	baseDir := filepath.Dir(themePath)
	paths := make([]string, 0, len(theme.Plugins)+len(extraPlugins))
	for _, p := range theme.Plugins {
		if !filepath.IsAbs(p) {
			p = filepath.Join(baseDir, p)
		}
		paths = append(paths, p)
	}
	paths = append(paths, extraPlugins...)

	bundle := &Bundle{Theme: theme}
	seen := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		key := filepath.Clean(p)
		if abs, err := filepath.Abs(p); err == nil {
			key = abs
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		plugin, err := LoadPlugin(p)
		if err != nil {
			return nil, err
		}
		bundle.Plugins = append(bundle.Plugins, *plugin)
	}

	return bundle, nil
}

func decodeStrict(data []byte, path string, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return bperrors.NewParseError(path, 0, fmt.Errorf("document is empty"))
		}
		return bperrors.NewParseError(path, extractLine(err), err)
	}
	return nil
}

func extractLine(err error) int {
	if err == nil {
		return 0
	}

	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}

	var line int
	_, scanErr := fmt.Sscanf(matches[1], "%d", &line)
	if scanErr != nil {
		return 0
	}

	return line
}
