// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package configdoc

import (
	"fmt"
	"strings"
)

// GenerateMarkdown generates Markdown documentation from a Reference.
func GenerateMarkdown(ref *Reference) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# %s\n\n", ref.Title))
	if ref.Description != "" {
		sb.WriteString(fmt.Sprintf("%s\n\n", ref.Description))
	}
	sb.WriteString(fmt.Sprintf("**Reference Version:** %s\n\n", ref.Version))

	names := ref.SchemaNames()

	// Table of contents
	sb.WriteString("## Table of Contents\n\n")
	for _, name := range names {
		sb.WriteString(fmt.Sprintf("- [%s](#%s)", name, anchor(name)))
		if issues := countIssues(ref.Schemas[name]); issues > 0 {
			sb.WriteString(fmt.Sprintf(" ⚠️ *%d documentation issues*", issues))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	for _, name := range names {
		writeSchema(&sb, ref.Schemas[name])
	}
	return sb.String()
}

func anchor(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, "_", "-"))
}

func countIssues(sd *SchemaDoc) int {
	n := len(sd.Orphans)
	for _, f := range sd.Fields {
		n += len(f.Issues)
	}
	return n
}

// writeSchema writes a schema's documentation.
func writeSchema(sb *strings.Builder, sd *SchemaDoc) {
	sb.WriteString(fmt.Sprintf("## %s\n\n", sd.Name))
	if sd.Description != "" {
		sb.WriteString(fmt.Sprintf("%s\n\n", sd.Description))
	}
	if sd.Source != "" {
		sb.WriteString(fmt.Sprintf("*Declared in `%s`.*\n\n", sd.Source))
	}

	// Declaration syntax
	sb.WriteString("**Syntax:**\n\n```kcl\n")
	sb.WriteString(sd.Header + ":\n")
	shown := 0
	for _, f := range sd.Fields {
		if shown >= 3 {
			sb.WriteString("    # ...\n")
			break
		}
		sb.WriteString("    " + f.Signature + "\n")
		shown++
	}
	sb.WriteString("```\n\n")

	if len(sd.Fields) > 0 {
		sb.WriteString("**Attributes:**\n\n")
		writeFieldsTable(sb, sd.Fields)
	}

	if len(sd.Examples) > 0 {
		sb.WriteString("**Examples:**\n\n")
		for _, ex := range sd.Examples {
			sb.WriteString("```kcl\n" + ex + "\n```\n\n")
		}
	}

	if len(sd.Orphans) > 0 {
		sb.WriteString(fmt.Sprintf("> ⚠️ **Documented but not declared:** `%s`\n\n", strings.Join(sd.Orphans, "`, `")))
	}
}

// writeFieldsTable writes a markdown table for fields.
func writeFieldsTable(sb *strings.Builder, fields []*Field) {
	sb.WriteString("| Attribute | Type | Required | Description |\n")
	sb.WriteString("|-----------|------|----------|-------------|\n")

	for _, f := range fields {
		req := "Yes"
		if f.Optional {
			if f.Default != "" {
				req = fmt.Sprintf("No (default: `%s`)", f.Default)
			} else {
				req = "No"
			}
		}

		desc := truncateDesc(f.Description, 100)
		if len(f.Issues) > 0 {
			desc = "⚠️ " + desc
		}
		sb.WriteString(fmt.Sprintf("| `%s` | `%s` | %s | %s |\n",
			f.Name, escapeCell(f.Type), req, escapeCell(desc)))
	}
	sb.WriteString("\n")
}

// escapeCell escapes pipes so union types do not split table cells.
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// truncateDesc truncates a description to maxLen runes.
func truncateDesc(desc string, maxLen int) string {
	desc = strings.ReplaceAll(desc, "\n", " ")
	desc = strings.TrimSpace(desc)

	runes := []rune(desc)
	if len(runes) <= maxLen {
		return desc
	}
	return string(runes[:maxLen-3]) + "..."
}

// GenerateQuickReference generates a compact one-line-per-attribute reference.
func GenerateQuickReference(ref *Reference) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# %s Quick Reference\n", ref.Title))
	sb.WriteString(fmt.Sprintf("# Reference Version: %s\n\n", ref.Version))

	for _, name := range ref.SchemaNames() {
		sd := ref.Schemas[name]
		sb.WriteString(sd.Header + ":\n")
		for _, f := range sd.Fields {
			writeQuickRefField(&sb, f)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func writeQuickRefField(sb *strings.Builder, f *Field) {
	optStr := "required"
	if f.Optional {
		optStr = "optional"
		if f.Default != "" {
			optStr = fmt.Sprintf("default=%s", f.Default)
		}
	}
	issues := ""
	if len(f.Issues) > 0 {
		issues = " DOC-MISMATCH"
	}
	sb.WriteString(fmt.Sprintf("    %s: <%s>  # %s%s\n", f.Name, f.Type, optStr, issues))
}
