// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package schema parses schema declarations and holds their attribute tables.
//
// A document may contain several schemas:
//
//	schema Service(Base):
//	    """Summary.
//
//	    Attributes
//	    ----------
//	    name : str, required
//	        The name of the long-running service.
//	    """
//	    name: str
//	    labels?: {str:str}
//	    workloadType: str = "Deployment"
//
// Each schema is parsed on its own: a structural error drops that schema and
// leaves the rest of the document intact. Parsed values are never mutated.
package schema

import (
	"github.com/hashicorp/hcl/v2"

	"grimm.is/kcldoc/internal/docstring"
)

// Schema is one parsed schema declaration. It owns copies of all text and
// stays valid after the source buffer is discarded.
type Schema struct {
	Name     string
	Base     string
	Protocol string

	NameRange hcl.Range
	Range     hcl.Range

	// Summary is the documentation text before the first section header.
	Summary    string
	Sections   []docstring.Section
	Attributes *Table
	Examples   []docstring.Example

	// Doc is the parsed documentation block, nil when the schema has none.
	Doc *docstring.Doc
}

// Section returns the text of the named documentation section.
func (s *Schema) Section(title string) (string, bool) {
	sec, ok := s.Doc.Section(title)
	return sec.Body, ok
}

// Header renders the schema declaration line without the trailing colon.
func (s *Schema) Header() string {
	h := "schema " + s.Name
	if s.Base != "" {
		h += "(" + s.Base + ")"
	}
	if s.Protocol != "" {
		h += " for " + s.Protocol
	}
	return h
}

// Document is the result of parsing one source buffer.
type Document struct {
	Filename    string
	Schemas     []*Schema
	Diagnostics hcl.Diagnostics
}

// Schema returns the schema named name, or nil.
func (d *Document) Schema(name string) *Schema {
	for _, s := range d.Schemas {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// SchemaAt returns the schema whose declaration contains the byte offset, or nil.
func (d *Document) SchemaAt(offset int) *Schema {
	for _, s := range d.Schemas {
		if s.Range.ContainsOffset(offset) {
			return s
		}
	}
	return nil
}
