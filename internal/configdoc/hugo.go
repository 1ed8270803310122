// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package configdoc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// HugoOutput represents a set of Hugo-compatible markdown files.
type HugoOutput struct {
	Files map[string]string // path -> content
}

type frontMatter struct {
	Title       string `yaml:"title"`
	LinkTitle   string `yaml:"linkTitle"`
	Weight      int    `yaml:"weight"`
	Description string `yaml:"description,omitempty"`
}

// GenerateHugo generates Hugo-compatible markdown files with front matter:
// an _index.md overview and one page per schema.
func GenerateHugo(ref *Reference) (*HugoOutput, error) {
	output := &HugoOutput{Files: make(map[string]string)}

	index, err := generateHugoIndex(ref)
	if err != nil {
		return nil, err
	}
	output.Files["_index.md"] = index

	for i, name := range ref.SchemaNames() {
		page, err := generateHugoSchema(ref.Schemas[name], i+20) // weight starts at 20
		if err != nil {
			return nil, fmt.Errorf("schema %s: %w", name, err)
		}
		output.Files[strings.ToLower(name)+".md"] = page
	}
	return output, nil
}

func writeFrontMatter(sb *strings.Builder, fm frontMatter) error {
	data, err := yaml.Marshal(fm)
	if err != nil {
		return err
	}
	sb.WriteString("---\n")
	sb.Write(data)
	sb.WriteString("---\n\n")
	return nil
}

// generateHugoIndex creates the _index.md file with overview
func generateHugoIndex(ref *Reference) (string, error) {
	var sb strings.Builder
	err := writeFrontMatter(&sb, frontMatter{
		Title:       ref.Title,
		LinkTitle:   "Reference",
		Weight:      10,
		Description: ref.Description,
	})
	if err != nil {
		return "", err
	}

	sb.WriteString("This reference is generated from schema sources and their docstrings.\n\n")
	sb.WriteString(fmt.Sprintf("**Reference Version:** %s\n\n", ref.Version))

	sb.WriteString("## Schemas\n\n")
	sb.WriteString("| Schema | Description |\n")
	sb.WriteString("|--------|-------------|\n")
	for _, name := range ref.SchemaNames() {
		sd := ref.Schemas[name]
		link := fmt.Sprintf("[%s]({{< relref \"%s\" >}})", name, strings.ToLower(name))
		warn := ""
		if countIssues(sd) > 0 {
			warn = " ⚠️"
		}
		sb.WriteString(fmt.Sprintf("| %s%s | %s |\n", link, warn, escapeCell(truncateDesc(sd.Description, 60))))
	}
	sb.WriteString("\n")
	return sb.String(), nil
}

// generateHugoSchema creates a page for a single schema
func generateHugoSchema(sd *SchemaDoc, weight int) (string, error) {
	var sb strings.Builder
	err := writeFrontMatter(&sb, frontMatter{
		Title:       sd.Name,
		LinkTitle:   sd.Name,
		Weight:      weight,
		Description: truncateDesc(sd.Description, 100),
	})
	if err != nil {
		return "", err
	}

	if n := countIssues(sd); n > 0 {
		sb.WriteString("{{% alert title=\"Documentation issues\" color=\"warning\" %}}\n")
		sb.WriteString(fmt.Sprintf("This schema has %d documentation issues.\n", n))
		sb.WriteString("{{% /alert %}}\n\n")
	}

	if sd.Description != "" {
		sb.WriteString(sd.Description + "\n\n")
	}

	sb.WriteString("## Syntax\n\n```kcl\n")
	sb.WriteString(sd.Header + ":\n")
	for i, f := range sd.Fields {
		if i >= 5 {
			sb.WriteString("    # ...\n")
			break
		}
		sb.WriteString("    " + f.Signature + "\n")
	}
	sb.WriteString("```\n\n")

	if len(sd.Fields) > 0 {
		sb.WriteString("## Attributes\n\n")
		writeFieldsTable(&sb, sd.Fields)
	}
	if len(sd.Examples) > 0 {
		sb.WriteString("## Examples\n\n")
		for _, ex := range sd.Examples {
			sb.WriteString("```kcl\n" + ex + "\n```\n\n")
		}
	}
	return sb.String(), nil
}

// WriteToDir writes the Hugo output to a directory.
func (h *HugoOutput) WriteToDir(dir string) error {
	for path, content := range h.Files {
		fullPath := filepath.Join(dir, path)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return nil
}
