// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package hover

import (
	"strings"
)

// Options control markup assembly.
type Options struct {
	ShowWarnings bool
	// MaxExampleLines truncates each example snippet. Zero means no limit.
	MaxExampleLines int
}

// DefaultOptions shows warnings and does not truncate examples.
func DefaultOptions() Options {
	return Options{ShowWarnings: true}
}

// Markdown renders r with DefaultOptions.
func (r *Rendered) Markdown() string {
	return r.Format(DefaultOptions())
}

// Format renders r as markdown. Warnings are appended one per line.
func (r *Rendered) Format(opts Options) string {
	if r == nil {
		return ""
	}
	var blocks []string
	blocks = append(blocks, codeBlock(r.Header))
	if r.TypeLine != "" {
		blocks = append(blocks, "`"+r.TypeLine+"`")
	}
	if r.Description != "" {
		blocks = append(blocks, r.Description)
	}
	if len(r.Attributes) > 0 {
		var sb strings.Builder
		sb.WriteString("**Attributes**\n")
		for _, a := range r.Attributes {
			sb.WriteString("\n- `" + a + "`")
		}
		blocks = append(blocks, sb.String())
	}
	for _, ex := range r.ExampleSnippets {
		blocks = append(blocks, codeBlock(TruncateLines(ex, opts.MaxExampleLines)))
	}
	if opts.ShowWarnings && len(r.Warnings) > 0 {
		lines := make([]string, len(r.Warnings))
		for i, w := range r.Warnings {
			lines[i] = "Warning: " + w
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	return strings.Join(blocks, "\n\n")
}

func codeBlock(text string) string {
	return "```kcl\n" + text + "\n```"
}

// TruncateLines keeps the first max lines of text and marks the cut. max <= 0 keeps everything.
func TruncateLines(text string, max int) string {
	if max <= 0 {
		return text
	}
	lines := strings.Split(text, "\n")
	if len(lines) <= max {
		return text
	}
	return strings.Join(lines[:max], "\n") + "\n..."
}
