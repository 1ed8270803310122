// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package configdoc generates reference documentation from parsed schema documents.
//
// It merges each schema's declarations with its docstring and generates
// documentation in multiple formats:
//   - Markdown for human consumption
//   - JSON Schema for editors and tooling
//   - YAML reference for quick lookup
//   - Hugo pages for the documentation site
//
// It also renders the canonical Attributes docstring section for a schema,
// which the linter offers as a fix.
package configdoc
