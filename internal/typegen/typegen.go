// Package typegen emits TypeScript declarations mirroring a resolved theme's names.
package typegen

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/KyleBlankRollins/blueprint-sub003/internal/theme"
)

// Family is a color family and the steps its scale exposes.
type Family struct {
	Name  string
	Steps []int
}

// Input is the name data the declarations are projected from.
type Input struct {
	Title    string
	Families []Family
	Variants []string
	Tokens   []string
}

var identPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// FromTheme collects the declaration input from a resolved theme.
func FromTheme(t *theme.Resolved) Input {
	in := Input{
		Title:    t.Name,
		Variants: t.VariantNames(),
		Tokens:   t.TokenNames(),
	}
	if t.Version != "" {
		in.Title += " v" + t.Version
	}
	for _, f := range t.Families() {
		in.Families = append(in.Families, Family{Name: f.Name, Steps: f.Scale.IDs()})
	}
	return in
}

// Generate renders the declarations for t.
func Generate(t *theme.Resolved) string {
	return Render(FromTheme(t))
}

// Render emits the header, the ColorName union, one <Pascal>Scale interface
// per family, the ColorRegistry interface and the ThemeVariant and
// SemanticToken unions. Repeated names keep their first occurrence.
func Render(in Input) string {
	families := dedupeFamilies(in.Families)
	interfaces := interfaceNames(families)

	var b strings.Builder
	b.WriteString("// Blueprint theme types")
	if in.Title != "" {
		b.WriteString(": " + in.Title)
	}
	b.WriteString("\n// Generated by blueprint-theme. Do not edit.\n\n")

	names := make([]string, len(families))
	for i, f := range families {
		names[i] = f.Name
	}
	writeUnion(&b, "ColorName", names)
	b.WriteString("\n")

	for i, f := range families {
		fmt.Fprintf(&b, "export interface %s {\n", interfaces[i])
		for _, step := range dedupe(f.Steps) {
			fmt.Fprintf(&b, "  %d: string;\n", step)
		}
		b.WriteString("}\n\n")
	}

	b.WriteString("export interface ColorRegistry {\n")
	for i, f := range families {
		fmt.Fprintf(&b, "  %s: %s;\n", propertyKey(f.Name), interfaces[i])
	}
	b.WriteString("}\n\n")

	writeUnion(&b, "ThemeVariant", dedupe(in.Variants))
	b.WriteString("\n")
	writeUnion(&b, "SemanticToken", dedupe(in.Tokens))
	return b.String()
}

func writeUnion(b *strings.Builder, name string, members []string) {
	fmt.Fprintf(b, "export type %s =", name)
	if len(members) == 0 {
		b.WriteString(" never;\n")
		return
	}
	for i, m := range members {
		if i > 0 {
			b.WriteString(" |")
		}
		b.WriteString(" " + quote(m))
	}
	b.WriteString(";\n")
}

// Pascal converts a family name to PascalCase: brand-blue -> BrandBlue.
func Pascal(name string) string {
	var b strings.Builder
	upper := true
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if upper {
			b.WriteRune(unicode.ToUpper(r))
			upper = false
			continue
		}
		b.WriteRune(r)
	}
	out := b.String()
	if out == "" || unicode.IsDigit(rune(out[0])) {
		out = "Color" + out
	}
	return out
}

// interfaceNames assigns <Pascal>Scale names, suffixing 2, 3, ... on collision.
func interfaceNames(families []Family) []string {
	used := make(map[string]struct{}, len(families))
	out := make([]string, len(families))
	for i, f := range families {
		base := Pascal(f.Name)
		name := base + "Scale"
		for n := 2; ; n++ {
			if _, taken := used[name]; !taken {
				break
			}
			name = base + strconv.Itoa(n) + "Scale"
		}
		used[name] = struct{}{}
		out[i] = name
	}
	return out
}

func dedupeFamilies(families []Family) []Family {
	seen := make(map[string]struct{}, len(families))
	out := make([]Family, 0, len(families))
	for _, f := range families {
		if _, dup := seen[f.Name]; dup {
			continue
		}
		seen[f.Name] = struct{}{}
		out = append(out, f)
	}
	return out
}

func dedupe[T comparable](items []T) []T {
	seen := make(map[T]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}

func propertyKey(name string) string {
	if identPattern.MatchString(name) {
		return name
	}
	return quote(name)
}
