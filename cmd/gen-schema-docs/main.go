// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// gen-schema-docs generates reference documentation from schema sources.
//
// Usage:
//
//	go run ./cmd/gen-schema-docs -format=markdown -output=docs/schema-reference.md models/
//	go run ./cmd/gen-schema-docs -format=jsonschema -output=docs/schema.json models/
//	go run ./cmd/gen-schema-docs -format=quickref models/service.k
//	go run ./cmd/gen-schema-docs -format=hugo -output=site/content/reference models/
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"grimm.is/kcldoc/internal/configdoc"
	"grimm.is/kcldoc/internal/logging"
)

func main() {
	format := flag.String("format", "markdown", "Output format: markdown, jsonschema, yaml, quickref, hugo, all")
	output := flag.String("output", "", "Output file (default: stdout, or docs/ for 'all'; required for 'hugo')")
	title := flag.String("title", "Schema Reference", "Reference title")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Usage: gen-schema-docs [flags] FILES_OR_DIRS...")
		flag.PrintDefaults()
		os.Exit(2)
	}

	parser := configdoc.NewParser(logging.WithComponent("configdoc"))
	for _, path := range flag.Args() {
		info, err := os.Stat(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", path, err)
			os.Exit(1)
		}
		if info.IsDir() {
			err = parser.ParseDir(path)
		} else {
			err = parser.ParseFile(path)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing %s: %v\n", path, err)
			os.Exit(1)
		}
	}
	for _, d := range parser.Diagnostics() {
		fmt.Fprintf(os.Stderr, "%s\n", d.Error())
	}

	ref := parser.Build(*title)

	switch *format {
	case "markdown":
		writeOutput(*output, configdoc.GenerateMarkdown(ref))

	case "jsonschema":
		js := configdoc.GenerateSchema(ref, false)
		content, err := configdoc.ConfigSchemaToJSON(js)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating JSON schema: %v\n", err)
			os.Exit(1)
		}
		writeOutput(*output, content)

	case "yaml":
		js := configdoc.GenerateSchema(ref, true)
		node := configdoc.ToYAMLNode(js)
		data, err := yaml.Marshal(node)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating YAML schema: %v\n", err)
			os.Exit(1)
		}
		writeOutput(*output, string(data))

	case "quickref":
		writeOutput(*output, configdoc.GenerateQuickReference(ref))

	case "hugo":
		if *output == "" {
			fmt.Fprintln(os.Stderr, "-output is required for hugo")
			os.Exit(1)
		}
		hugoOutput, err := configdoc.GenerateHugo(ref)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating Hugo pages: %v\n", err)
			os.Exit(1)
		}
		if err := hugoOutput.WriteToDir(*output); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing Hugo pages: %v\n", err)
			os.Exit(1)
		}
		for name := range hugoOutput.Files {
			fmt.Printf("Generated %s\n", filepath.Join(*output, name))
		}

	case "all":
		outputDir := *output
		if outputDir == "" {
			outputDir = "docs"
		}
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
			os.Exit(1)
		}

		files := map[string]string{
			"schema-reference.md": configdoc.GenerateMarkdown(ref),
			"schema-quickref.txt": configdoc.GenerateQuickReference(ref),
		}
		jsContent, err := configdoc.ConfigSchemaToJSON(configdoc.GenerateSchema(ref, false))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating JSON schema: %v\n", err)
			os.Exit(1)
		}
		files["schema.json"] = jsContent

		for name, content := range files {
			path := filepath.Join(outputDir, name)
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", path, err)
				os.Exit(1)
			}
			fmt.Printf("Generated %s\n", path)
		}

	default:
		fmt.Fprintf(os.Stderr, "Unknown format: %s\n", *format)
		os.Exit(1)
	}
}

func writeOutput(path, content string) {
	if path == "" {
		fmt.Print(content)
		return
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Error creating directory: %v\n", err)
			os.Exit(1)
		}
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}
}
