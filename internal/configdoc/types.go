// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package configdoc

import (
	"grimm.is/kcldoc/internal/types"
)

// Reference is the documentation of every schema found in a set of documents.
type Reference struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Version     string                `json:"version"`
	Schemas     map[string]*SchemaDoc `json:"schemas"`
}

// SchemaDoc documents one schema declaration.
type SchemaDoc struct {
	Name        string   `json:"name"`
	Header      string   `json:"header"`
	Base        string   `json:"base,omitempty"`
	Protocol    string   `json:"protocol,omitempty"`
	Description string   `json:"description"`
	Fields      []*Field `json:"fields,omitempty"`
	Examples    []string `json:"examples,omitempty"`
	// Orphans lists documented names that are not declared.
	Orphans []string `json:"orphans,omitempty"`
	Source  string   `json:"source,omitempty"`
}

// Field documents one declared attribute.
type Field struct {
	Name        string     `json:"name"`
	Signature   string     `json:"signature"`
	Type        string     `json:"type"`
	TypeModel   types.Type `json:"-"`
	Description string     `json:"description"`
	Required    bool       `json:"required"`
	Optional    bool       `json:"optional"`
	// Default is the default as written in code.
	Default string `json:"default,omitempty"`
	// DefaultValue is Default decoded to plain Go values, nil when it is not a literal.
	DefaultValue any      `json:"default_value,omitempty"`
	Enum         []any    `json:"enum,omitempty"`
	RefType      string   `json:"ref_type,omitempty"` // Name of a referenced schema
	Issues       []string `json:"issues,omitempty"`   // Documentation mismatches
}

// ConfigSchema is a JSON Schema document or sub-schema.
type ConfigSchema struct {
	Schema      string                   `json:"$schema,omitempty"`
	ID          string                   `json:"$id,omitempty"`
	Title       string                   `json:"title,omitempty"`
	Description string                   `json:"description,omitempty"`
	Type        string                   `json:"type,omitempty" yaml:"type,omitempty"`
	Definitions map[string]*ConfigSchema `json:"$defs,omitempty" yaml:"$defs,omitempty"`
	Properties  map[string]*ConfigSchema `json:"properties,omitempty" yaml:"properties,omitempty"`
	Required    []string                 `json:"required,omitempty" yaml:"required,omitempty"`

	// Field-level properties
	Items                *ConfigSchema   `json:"items,omitempty" yaml:"items,omitempty"`
	AdditionalProperties *ConfigSchema   `json:"additionalProperties,omitempty" yaml:"additionalProperties,omitempty"`
	AnyOf                []*ConfigSchema `json:"anyOf,omitempty" yaml:"anyOf,omitempty"`
	Enum                 []any           `json:"enum,omitempty" yaml:"enum,omitempty"`
	Default              any             `json:"default,omitempty" yaml:"default,omitempty"`
	Examples             []any           `json:"examples,omitempty" yaml:"examples,omitempty"`
	Ref                  string          `json:"$ref,omitempty" yaml:"$ref,omitempty"`
}
