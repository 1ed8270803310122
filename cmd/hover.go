// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	json "github.com/goccy/go-json"

	"grimm.is/kcldoc/internal/config"
	"grimm.is/kcldoc/internal/errors"
	"grimm.is/kcldoc/internal/hover"
	"grimm.is/kcldoc/internal/logging"
	"grimm.is/kcldoc/internal/lsp"
	"grimm.is/kcldoc/internal/workspace"
)

type hoverOutput struct {
	File     string           `json:"file"`
	Position lsp.Position     `json:"position"`
	Hover    *hover.Rendered  `json:"hover"`
	Result   *lsp.HoverResult `json:"result,omitempty"`
}

// RunHover implements 'kcldoc hover'. Line and column are 1-based; the
// column counts characters as editors do.
func RunHover(args []string, stdio IO) error {
	fs := newFlagSet("hover", stdio)
	file := fs.String("file", "", "Schema source file")
	line := fs.Int("line", 0, "Line (1-based)")
	col := fs.Int("col", 0, "Column (1-based)")
	jsonOutput := fs.Bool("json", false, "Output JSON")
	cfgPath := fs.String("config", config.DefaultFilename, "Configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" || *line < 1 || *col < 1 {
		return errors.New(errors.KindValidation, "hover requires -file, -line and -col")
	}

	cfg, err := loadConfig(*cfgPath, stdio)
	if err != nil {
		return err
	}
	opts := cfg.HoverOptions()
	w := workspace.New(workspace.Options{Logger: logging.WithComponent("workspace"), Hover: &opts})
	doc, err := w.OpenFile(*file)
	if err != nil {
		return err
	}

	pos := lsp.Position{Line: uint32(*line - 1), Character: uint32(*col - 1)}
	r, _, err := w.Resolve(doc.URI, pos)
	if err != nil {
		return err
	}

	if *jsonOutput {
		out := hoverOutput{File: *file, Position: pos, Hover: r}
		if r != nil {
			res := lsp.NewHoverResult(doc.Text, r.Format(opts), r.Range)
			out.Result = &res
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return errors.Wrap(err, errors.KindInternal, "failed to marshal hover to JSON")
		}
		fmt.Fprintln(stdio.Out, string(data))
		return nil
	}

	if r == nil {
		fmt.Fprintln(stdio.Out, StyleDim.Render("No hover information at this position."))
		return nil
	}
	fmt.Fprintln(stdio.Out, renderHover(r, opts))
	return nil
}

// renderHover lays out a hover result for the terminal.
func renderHover(r *hover.Rendered, opts hover.Options) string {
	var parts []string
	parts = append(parts, StyleCode.Render(StyleTitle.Render(r.Header)))
	if r.TypeLine != "" {
		parts = append(parts, StyleType.Render(r.TypeLine))
	}
	if r.Description != "" {
		parts = append(parts, lipgloss.NewStyle().Width(80).Render(r.Description))
	}
	if len(r.Attributes) > 0 {
		rows := []string{StyleTitle.Render("Attributes")}
		for _, a := range r.Attributes {
			rows = append(rows, "  • "+a)
		}
		parts = append(parts, lipgloss.JoinVertical(lipgloss.Left, rows...))
	}
	for _, ex := range r.ExampleSnippets {
		parts = append(parts, StyleCode.Render(hover.TruncateLines(ex, opts.MaxExampleLines)))
	}
	if opts.ShowWarnings {
		for _, w := range r.Warnings {
			parts = append(parts, StyleWarn.Render("⚠ "+w))
		}
	}
	return strings.Join(parts, "\n\n")
}
