package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/KyleBlankRollins/blueprint-sub003/internal/app/generate"
	"github.com/KyleBlankRollins/blueprint-sub003/internal/theme"
)

type listOptions struct {
	ThemePath string
	Plugins   []string
	JSON      bool
}

func newListCmd(app *appContext) *cobra.Command {
	opts := listOptions{}

	cmd := &cobra.Command{
		Use:   "list <theme.yaml>",
		Short: "List color families, variants, assets and plugin order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.ThemePath = args[0]
			return runList(cmd, app, opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.Plugins, "plugin", "p", nil, "Additional plugin file (repeatable)")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output in JSON format")

	return cmd
}

type listFamily struct {
	Name   string `json:"name"`
	Origin string `json:"origin"`
	Steps  []int  `json:"steps"`
}

type listVariant struct {
	Name    string `json:"name"`
	Default bool   `json:"default"`
	Tokens  int    `json:"tokens"`
}

type listAsset struct {
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Path   string `json:"path"`
	Origin string `json:"origin"`
}

type listPayload struct {
	Name        string        `json:"name"`
	Version     string        `json:"version"`
	PluginOrder []string      `json:"plugin_order"`
	Families    []listFamily  `json:"families"`
	Variants    []listVariant `json:"variants"`
	Assets      []listAsset   `json:"assets"`
}

func runList(cmd *cobra.Command, app *appContext, opts listOptions) error {
	prepared, err := app.service.Prepare(cmd.Context(), generate.Request{ThemePath: opts.ThemePath, PluginPaths: opts.Plugins})
	if err != nil {
		return newCommandError("list theme", "resolving "+opts.ThemePath, err, "Run 'blueprint-theme validate' for details.")
	}

	payload := inventory(prepared.Theme)
	if opts.JSON {
		return writeJSON(cmd.OutOrStdout(), payload)
	}
	return renderList(cmd, payload)
}

func inventory(t *theme.Resolved) listPayload {
	payload := listPayload{
		Name:        t.Name,
		Version:     t.Version,
		PluginOrder: t.PluginOrder(),
		Families:    []listFamily{},
		Variants:    []listVariant{},
		Assets:      []listAsset{},
	}
	for _, f := range t.Families() {
		payload.Families = append(payload.Families, listFamily{Name: f.Name, Origin: f.Origin, Steps: f.Scale.IDs()})
	}
	for _, v := range t.Variants() {
		payload.Variants = append(payload.Variants, listVariant{Name: v.Name, Default: v.Name == t.DefaultVariant(), Tokens: len(v.Tokens)})
	}
	for _, a := range t.Assets() {
		payload.Assets = append(payload.Assets, listAsset{Name: a.Name, Kind: a.Kind, Path: a.Path, Origin: a.Origin})
	}
	return payload
}

func renderList(cmd *cobra.Command, p listPayload) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s\n", p.Name, p.Version)
	if len(p.PluginOrder) > 0 {
		fmt.Fprintf(out, "plugins: %s\n", strings.Join(p.PluginOrder, " -> "))
	}
	fmt.Fprintln(out)

	writer := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "FAMILY\tORIGIN\tSTEPS")
	for _, f := range p.Families {
		steps := make([]string, len(f.Steps))
		for i, s := range f.Steps {
			steps[i] = fmt.Sprint(s)
		}
		fmt.Fprintf(writer, "%s\t%s\t%s\n", f.Name, f.Origin, strings.Join(steps, " "))
	}
	fmt.Fprintln(writer, "\t\t")
	fmt.Fprintln(writer, "VARIANT\tTOKENS\tDEFAULT")
	for _, v := range p.Variants {
		def := ""
		if v.Default {
			def = "yes"
		}
		fmt.Fprintf(writer, "%s\t%d\t%s\n", v.Name, v.Tokens, def)
	}
	if len(p.Assets) > 0 {
		fmt.Fprintln(writer, "\t\t")
		fmt.Fprintln(writer, "ASSET\tKIND\tPATH")
		for _, a := range p.Assets {
			fmt.Fprintf(writer, "%s\t%s\t%s\n", a.Name, a.Kind, a.Path)
		}
	}
	return writer.Flush()
}
