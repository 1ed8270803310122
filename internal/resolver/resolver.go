// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package resolver merges a schema's declared attributes with its documentation
// entries and records where the two disagree.
//
// The declaration is always authoritative. Documentation never overrides it;
// divergence is reported as a Mismatch on the merged view.
package resolver

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"

	"grimm.is/kcldoc/internal/docstring"
	"grimm.is/kcldoc/internal/schema"
	"grimm.is/kcldoc/internal/types"
)

// MismatchKind classifies a divergence between code and documentation.
type MismatchKind int

const (
	Undocumented MismatchKind = iota + 1
	TypeMismatch
	RequirednessMismatch
	DefaultMismatch
	// OrphanDocEntry labels documentation for an attribute that is not declared.
	OrphanDocEntry
)

// Kinds lists every mismatch kind in reporting order.
var Kinds = []MismatchKind{Undocumented, TypeMismatch, RequirednessMismatch, DefaultMismatch, OrphanDocEntry}

func (k MismatchKind) String() string {
	switch k {
	case Undocumented:
		return "undocumented"
	case TypeMismatch:
		return "type_mismatch"
	case RequirednessMismatch:
		return "requiredness_mismatch"
	case DefaultMismatch:
		return "default_mismatch"
	case OrphanDocEntry:
		return "orphan_doc_entry"
	default:
		return "unknown"
	}
}

// ParseKind maps a kind name back to its MismatchKind.
func ParseKind(s string) (MismatchKind, bool) {
	for _, k := range Kinds {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// Mismatch is one detected divergence with a human-readable message.
type Mismatch struct {
	Kind    MismatchKind
	Message string
}

// View is the merged picture of one declared attribute.
type View struct {
	Decl schema.AttributeDecl
	// Doc is nil when the attribute is undocumented.
	Doc        *docstring.AttributeEntry
	Mismatches []Mismatch
}

// Has reports whether the view carries a mismatch of kind k.
func (v View) Has(k MismatchKind) bool {
	for _, m := range v.Mismatches {
		if m.Kind == k {
			return true
		}
	}
	return false
}

// Description returns the documented description, or "" when undocumented.
func (v View) Description() string {
	if v.Doc == nil {
		return ""
	}
	return v.Doc.Description
}

// Orphan is documentation for a name with no declaration.
type Orphan struct {
	Name  string
	Entry docstring.AttributeEntry
}

// Result is the output of Resolve.
type Result struct {
	Schema  *schema.Schema
	Views   []View
	Orphans []Orphan
}

// View returns the merged view for a declared attribute.
func (r Result) View(name string) (View, bool) {
	for _, v := range r.Views {
		if v.Decl.Name == name {
			return v, true
		}
	}
	return View{}, false
}

// Resolve merges the attribute table of s with its documentation entries.
// Views follow declaration order; orphans follow documentation order.
func Resolve(s *schema.Schema) Result {
	res := Result{Schema: s}
	if s == nil {
		return res
	}

	var entries []docstring.AttributeEntry
	if s.Doc != nil {
		entries = s.Doc.Attributes
	}
	byName := make(map[string]int, len(entries))
	claimed := make([]bool, len(entries))
	for i, e := range entries {
		if e.Name == "" {
			continue
		}
		if _, dup := byName[e.Name]; !dup {
			byName[e.Name] = i
		}
	}

	for _, decl := range s.Attributes.All() {
		v := View{Decl: decl}
		if i, ok := byName[decl.Name]; ok {
			e := entries[i]
			claimed[i] = true
			v.Doc = &e
			v.Mismatches = compare(decl, e)
		} else {
			v.Mismatches = []Mismatch{{
				Kind:    Undocumented,
				Message: fmt.Sprintf("attribute %q is not documented", decl.Name),
			}}
		}
		res.Views = append(res.Views, v)
	}

	for i, e := range entries {
		if !claimed[i] {
			res.Orphans = append(res.Orphans, Orphan{Name: e.Name, Entry: e})
		}
	}
	return res
}

func compare(decl schema.AttributeDecl, e docstring.AttributeEntry) []Mismatch {
	var out []Mismatch

	if e.TypeText != "" {
		docType, err := types.Parse(e.TypeText)
		switch {
		case err != nil:
			out = append(out, Mismatch{
				Kind:    TypeMismatch,
				Message: fmt.Sprintf("documented type %q is not a valid type: %v", e.TypeText, err),
			})
		case !types.Compatible(decl.Type, docType):
			out = append(out, Mismatch{
				Kind:    TypeMismatch,
				Message: fmt.Sprintf("documented type %s does not match declared type %s", docType, decl.Type),
			})
		}
	}

	switch {
	case e.Optionality == docstring.Required && !decl.Required:
		out = append(out, Mismatch{
			Kind:    RequirednessMismatch,
			Message: fmt.Sprintf("documented as required but %q is optional", decl.Name),
		})
	case e.Optionality == docstring.Optional && decl.Required:
		out = append(out, Mismatch{
			Kind:    RequirednessMismatch,
			Message: fmt.Sprintf("documented as optional but %q is required", decl.Name),
		})
	}

	docDefault := e.MentionsDefault()
	switch {
	case decl.HasDefault() && !docDefault:
		out = append(out, Mismatch{
			Kind:    DefaultMismatch,
			Message: fmt.Sprintf("default %s is not documented", decl.Default.Text),
		})
	case !decl.HasDefault() && docDefault:
		out = append(out, Mismatch{
			Kind:    DefaultMismatch,
			Message: "documentation states a default but none is declared",
		})
	case decl.HasDefault() && !strings.Contains(e.Text(), trimQuotes(decl.Default.Text)):
		out = append(out, Mismatch{
			Kind:    DefaultMismatch,
			Message: fmt.Sprintf("documented default does not mention declared default %s", decl.Default.Text),
		})
	}
	return out
}

func trimQuotes(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

// Diagnostics renders every mismatch and orphan as a warning diagnostic. The
// subject is the attribute name for views and the doc entry name for orphans.
func (r Result) Diagnostics() hcl.Diagnostics {
	var diags hcl.Diagnostics
	for _, v := range r.Views {
		subject := v.Decl.NameRange
		for _, m := range v.Mismatches {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagWarning,
				Summary:  summary(m.Kind),
				Detail:   m.Message,
				Subject:  &subject,
				Extra:    m.Kind,
			})
		}
	}
	for _, o := range r.Orphans {
		subject := o.Entry.NameRange
		name := o.Name
		if name == "" {
			name = o.Entry.Header
		}
		sum, detail := summary(OrphanDocEntry), fmt.Sprintf("documentation entry %q matches no declared attribute", name)
		if r.Schema != nil && o.Name != "" && r.declared(o.Name) {
			sum, detail = "Duplicate documentation entry", fmt.Sprintf("duplicate documentation entry for attribute %q", name)
		}
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagWarning,
			Summary:  sum,
			Detail:   detail,
			Subject:  &subject,
			Extra:    OrphanDocEntry,
		})
	}
	return diags
}

func summary(k MismatchKind) string {
	switch k {
	case Undocumented:
		return "Undocumented attribute"
	case TypeMismatch:
		return "Documented type differs"
	case RequirednessMismatch:
		return "Documented requiredness differs"
	case DefaultMismatch:
		return "Documented default differs"
	case OrphanDocEntry:
		return "Documentation for unknown attribute"
	}
	return "Documentation mismatch"
}

func (r Result) declared(name string) bool {
	_, ok := r.Schema.Attributes.Get(name)
	return ok
}
