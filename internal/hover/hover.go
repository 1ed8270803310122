// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package hover resolves a source position to the schema entity under it and
// renders that entity for display.
//
// Positions are matched against spans recorded at parse time. Attribute name
// spans take precedence over example spans, which take precedence over the
// schema name span.
package hover

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hashicorp/hcl/v2"

	"grimm.is/kcldoc/internal/resolver"
	"grimm.is/kcldoc/internal/schema"
)

// Kind identifies what a hover result describes.
type Kind int

const (
	KindSchema Kind = iota + 1
	KindAttribute
	KindExample
)

func (k Kind) String() string {
	switch k {
	case KindSchema:
		return "schema"
	case KindAttribute:
		return "attribute"
	case KindExample:
		return "example"
	default:
		return "unknown"
	}
}

// MarshalText renders the kind by name in JSON output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Rendered is the display-ready hover content.
type Rendered struct {
	Kind Kind `json:"kind"`
	// Range is the span of the entity that matched.
	Range       hcl.Range `json:"-"`
	Header      string    `json:"header"`
	TypeLine    string    `json:"type_line,omitempty"`
	Description string    `json:"description,omitempty"`
	// Attributes holds one signature per declared attribute on schema hovers.
	Attributes      []string `json:"attributes,omitempty"`
	ExampleSnippets []string `json:"example_snippets,omitempty"`
	Warnings        []string `json:"warnings,omitempty"`
}

type span struct {
	rng   hcl.Range
	index int
}

// Index holds the spans of one schema. Build it once per parsed schema and
// query it any number of times; it is safe for concurrent reads.
type Index struct {
	schema   *schema.Schema
	result   resolver.Result
	attrs    []span
	examples []span
}

// NewIndex resolves s and records its attribute and example spans.
func NewIndex(s *schema.Schema) *Index {
	ix := &Index{schema: s, result: resolver.Resolve(s)}
	if s == nil {
		return ix
	}
	for i, v := range ix.result.Views {
		ix.attrs = append(ix.attrs, span{rng: v.Decl.NameRange, index: i})
	}
	for i, ex := range s.Examples {
		ix.examples = append(ix.examples, span{rng: ex.Range, index: i})
	}
	return ix
}

// Schema returns the indexed schema.
func (ix *Index) Schema() *schema.Schema {
	return ix.schema
}

// Result returns the resolver output the index was built from.
func (ix *Index) Result() resolver.Result {
	return ix.result
}

// Resolve returns the hover for pos, or nil when pos is over nothing hoverable.
func (ix *Index) Resolve(pos hcl.Pos) *Rendered {
	if ix.schema == nil {
		return nil
	}
	for _, sp := range ix.attrs {
		if touches(sp.rng, pos) {
			return ix.renderAttribute(ix.result.Views[sp.index])
		}
	}
	for _, sp := range ix.examples {
		if sp.rng.ContainsOffset(pos.Byte) {
			return ix.renderExample(sp.index)
		}
	}
	if touches(ix.schema.NameRange, pos) {
		return ix.renderSchema()
	}
	return nil
}

// Resolve builds an index for s and resolves pos against it.
func Resolve(s *schema.Schema, pos hcl.Pos) *Rendered {
	return NewIndex(s).Resolve(pos)
}

// ResolveDocument resolves pos against the schema whose declaration contains it.
func ResolveDocument(doc *schema.Document, pos hcl.Pos) *Rendered {
	if doc == nil {
		return nil
	}
	s := doc.SchemaAt(pos.Byte)
	if s == nil {
		return nil
	}
	return Resolve(s, pos)
}

// touches reports whether pos lies on a token span, including the position
// just past its last character.
func touches(r hcl.Range, pos hcl.Pos) bool {
	return pos.Byte >= r.Start.Byte && pos.Byte <= r.End.Byte && r.End.Byte > r.Start.Byte
}

func (ix *Index) renderSchema() *Rendered {
	s := ix.schema
	r := &Rendered{
		Kind:        KindSchema,
		Range:       s.NameRange,
		Header:      s.Header(),
		Description: s.Summary,
	}
	for _, v := range ix.result.Views {
		r.Attributes = append(r.Attributes, v.Decl.Signature())
	}
	for _, ex := range s.Examples {
		r.ExampleSnippets = append(r.ExampleSnippets, ex.Text)
	}
	return r
}

func (ix *Index) renderAttribute(v resolver.View) *Rendered {
	r := &Rendered{
		Kind:        KindAttribute,
		Range:       v.Decl.NameRange,
		Header:      v.Decl.Signature(),
		TypeLine:    typeLine(v),
		Description: v.Description(),
	}
	mention := regexp.MustCompile(`\b` + regexp.QuoteMeta(v.Decl.Name) + `\b`)
	for _, ex := range ix.schema.Examples {
		if mention.MatchString(ex.Text) {
			r.ExampleSnippets = append(r.ExampleSnippets, ex.Text)
		}
	}
	for _, m := range v.Mismatches {
		r.Warnings = append(r.Warnings, m.Message)
	}
	return r
}

func (ix *Index) renderExample(i int) *Rendered {
	ex := ix.schema.Examples[i]
	return &Rendered{
		Kind:            KindExample,
		Range:           ex.Range,
		Header:          fmt.Sprintf("%s example", ix.schema.Header()),
		ExampleSnippets: []string{ex.Text},
	}
}

func typeLine(v resolver.View) string {
	parts := []string{v.Decl.Type.String()}
	if v.Decl.Required {
		parts = append(parts, "required")
	} else {
		parts = append(parts, "optional")
	}
	if v.Decl.Default != nil {
		parts = append(parts, "default is "+v.Decl.Default.Text)
	}
	return strings.Join(parts, ", ")
}
