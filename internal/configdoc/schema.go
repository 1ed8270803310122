// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package configdoc

import (
	"sort"

	gojson "github.com/goccy/go-json"

	"grimm.is/kcldoc/internal/types"
)

const (
	jsonSchemaDraft = "https://json-schema.org/draft/2020-12/schema"
	schemaID        = "https://grimm.is/kcldoc/schemas/reference.json"
)

// GenerateSchema generates a JSON Schema with one definition per schema.
// With useAnchors, references point at the definition values themselves so
// that ToYAMLNode can emit anchors and aliases; otherwise they are $ref strings.
func GenerateSchema(ref *Reference, useAnchors bool) *ConfigSchema {
	js := &ConfigSchema{
		Schema:      jsonSchemaDraft,
		ID:          schemaID,
		Title:       ref.Title,
		Description: ref.Description,
		Type:        "object",
		Properties:  make(map[string]*ConfigSchema),
		Definitions: make(map[string]*ConfigSchema),
	}

	// 1. Pre-allocate all definitions to establish stable pointers
	for name := range ref.Schemas {
		js.Definitions[name] = &ConfigSchema{}
	}

	// 2. Populate definitions
	for name, sd := range ref.Schemas {
		populateSchemaDef(js.Definitions[name], sd, js.Definitions, useAnchors)
	}

	// 3. Each schema is also a top-level property
	for name, sd := range ref.Schemas {
		if useAnchors {
			js.Properties[name] = js.Definitions[name]
		} else {
			js.Properties[name] = &ConfigSchema{Ref: "#/$defs/" + name, Description: sd.Description}
		}
	}
	return js
}

func populateSchemaDef(js *ConfigSchema, sd *SchemaDoc, defs map[string]*ConfigSchema, useAnchors bool) {
	js.Title = sd.Header
	js.Description = sd.Description
	js.Type = "object"
	js.Properties = make(map[string]*ConfigSchema)
	for _, ex := range sd.Examples {
		js.Examples = append(js.Examples, ex)
	}

	var required []string
	for _, f := range sd.Fields {
		js.Properties[f.Name] = fieldToSchema(f, defs, useAnchors)
		if f.Required {
			required = append(required, f.Name)
		}
	}
	if len(required) > 0 {
		js.Required = required
	}
}

// fieldToSchema converts a Field to a property schema.
func fieldToSchema(f *Field, defs map[string]*ConfigSchema, useAnchors bool) *ConfigSchema {
	js := typeToSchema(f.TypeModel, defs, useAnchors)
	if isShared(js, defs) {
		// Never decorate a shared definition; wrap it.
		js = &ConfigSchema{AnyOf: []*ConfigSchema{js}}
	}
	js.Description = f.Description
	if f.DefaultValue != nil {
		js.Default = f.DefaultValue
	}
	return js
}

func isShared(js *ConfigSchema, defs map[string]*ConfigSchema) bool {
	for _, d := range defs {
		if d == js {
			return true
		}
	}
	return false
}

// typeToSchema maps the type model onto JSON Schema.
func typeToSchema(t types.Type, defs map[string]*ConfigSchema, useAnchors bool) *ConfigSchema {
	switch t.Kind {
	case types.KindString:
		return &ConfigSchema{Type: "string"}
	case types.KindInt:
		return &ConfigSchema{Type: "integer"}
	case types.KindFloat:
		return &ConfigSchema{Type: "number"}
	case types.KindBool:
		return &ConfigSchema{Type: "boolean"}
	case types.KindNone:
		return &ConfigSchema{Type: "null"}
	case types.KindList:
		js := &ConfigSchema{Type: "array"}
		if t.Elem != nil && t.Elem.Kind != types.KindAny {
			js.Items = typeToSchema(*t.Elem, defs, useAnchors)
		}
		return js
	case types.KindMapping:
		js := &ConfigSchema{Type: "object"}
		if t.Elem != nil && t.Elem.Kind != types.KindAny {
			js.AdditionalProperties = typeToSchema(*t.Elem, defs, useAnchors)
		}
		return js
	case types.KindSchemaRef:
		name := lookupDef(t.Name, defs)
		if name == "" {
			return &ConfigSchema{Type: "object", Title: t.Name}
		}
		if useAnchors {
			return defs[name]
		}
		return &ConfigSchema{Ref: "#/$defs/" + name}
	case types.KindLiteral:
		if vals := enumValues(t); vals != nil {
			return &ConfigSchema{Type: jsonType(t.Base), Enum: vals}
		}
		return &ConfigSchema{Type: jsonType(t.Base)}
	case types.KindUnion:
		if vals := enumValues(t); vals != nil {
			js := &ConfigSchema{Enum: vals}
			if base, ok := commonBase(t.Members); ok {
				js.Type = jsonType(base)
			}
			return js
		}
		js := &ConfigSchema{}
		for _, m := range t.Members {
			js.AnyOf = append(js.AnyOf, typeToSchema(m, defs, useAnchors))
		}
		return js
	}
	// any
	return &ConfigSchema{}
}

// lookupDef finds the definition for a possibly qualified schema name.
func lookupDef(name string, defs map[string]*ConfigSchema) string {
	if _, ok := defs[name]; ok {
		return name
	}
	names := make([]string, 0, len(defs))
	for def := range defs {
		names = append(names, def)
	}
	sort.Strings(names)
	for _, def := range names {
		if types.Compatible(types.SchemaRef(def), types.SchemaRef(name)) {
			return def
		}
	}
	return ""
}

func commonBase(members []types.Type) (types.Kind, bool) {
	if len(members) == 0 {
		return types.KindInvalid, false
	}
	base := members[0].Base
	for _, m := range members[1:] {
		if m.Base != base {
			return types.KindInvalid, false
		}
	}
	return base, true
}

func jsonType(k types.Kind) string {
	switch k {
	case types.KindString:
		return "string"
	case types.KindInt:
		return "integer"
	case types.KindFloat:
		return "number"
	case types.KindBool:
		return "boolean"
	}
	return ""
}

// ConfigSchemaToJSON converts a ConfigSchema to pretty-printed JSON.
func ConfigSchemaToJSON(js *ConfigSchema) (string, error) {
	data, err := gojson.MarshalIndent(js, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
