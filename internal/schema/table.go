// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package schema

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"

	"grimm.is/kcldoc/internal/errors"
	"grimm.is/kcldoc/internal/types"
)

// AttributeDecl is one attribute as declared in code.
type AttributeDecl struct {
	Name     string
	Type     types.Type
	Required bool
	// Default is nil when the declaration has no "= value" part.
	Default *types.DefaultLiteral
	// OptionalMarker records the "?" after the name.
	OptionalMarker bool

	NameRange hcl.Range
	Range     hcl.Range
}

// HasDefault reports whether a default value was declared.
func (d AttributeDecl) HasDefault() bool {
	return d.Default != nil
}

// Signature renders the declaration the way it is written: name[?]: type [= default].
func (d AttributeDecl) Signature() string {
	var sb strings.Builder
	sb.WriteString(d.Name)
	if d.OptionalMarker {
		sb.WriteString("?")
	}
	sb.WriteString(": ")
	sb.WriteString(d.Type.String())
	if d.Default != nil {
		sb.WriteString(" = ")
		sb.WriteString(d.Default.Text)
	}
	return sb.String()
}

// Validate checks the required/default invariant.
func (d AttributeDecl) Validate() error {
	if d.Name == "" {
		return errors.New(errors.KindValidation, "attribute has no name")
	}
	if d.Type.Kind == types.KindInvalid {
		return errors.Errorf(errors.KindValidation, "attribute %q has no type", d.Name)
	}
	if d.Required && d.Default != nil {
		return errors.Errorf(errors.KindValidation, "required attribute %q cannot declare a default", d.Name)
	}
	if !d.Required && d.Default == nil && !d.OptionalMarker && !d.Type.IsOptional() {
		return errors.Errorf(errors.KindValidation, "optional attribute %q needs a default, a '?' marker or an optional type", d.Name)
	}
	return nil
}

// Table is the ordered, authoritative set of a schema's declared attributes.
// Declaration order is preserved.
type Table struct {
	decls []AttributeDecl
	index map[string]int
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{index: make(map[string]int)}
}

// Add appends decl. It fails on a duplicate name or an invalid declaration.
func (t *Table) Add(decl AttributeDecl) error {
	if err := decl.Validate(); err != nil {
		return errors.At(err, decl.Range)
	}
	if i, ok := t.index[decl.Name]; ok {
		prev := t.decls[i].NameRange
		err := errors.Errorf(errors.KindDuplicateAttribute, "duplicate attribute %q (first declared at %s)", decl.Name, posString(prev))
		return errors.At(errors.Attr(err, "attribute", decl.Name), decl.NameRange)
	}
	t.index[decl.Name] = len(t.decls)
	t.decls = append(t.decls, decl)
	return nil
}

// Get returns the declaration for name.
func (t *Table) Get(name string) (AttributeDecl, bool) {
	if t == nil {
		return AttributeDecl{}, false
	}
	i, ok := t.index[name]
	if !ok {
		return AttributeDecl{}, false
	}
	return t.decls[i], true
}

// All returns the declarations in declaration order. The slice is a copy.
func (t *Table) All() []AttributeDecl {
	if t == nil {
		return nil
	}
	out := make([]AttributeDecl, len(t.decls))
	copy(out, t.decls)
	return out
}

// Len returns the number of declarations.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.decls)
}

func posString(r hcl.Range) string {
	return fmt.Sprintf("%d:%d", r.Start.Line, r.Start.Column)
}
