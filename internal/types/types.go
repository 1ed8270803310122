// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package types models schema attribute types and compares them structurally.
//
// Type text follows the schema language's annotation syntax:
//
//	str | int | float | bool | None | any
//	[T]                 list of T
//	{K:V}               mapping, K must be primitive
//	Name, pkg.Name      schema reference
//	A | B               union
//	"Deployment", 1     literal types
package types

import (
	"strings"
)

// Kind identifies the variant held by a Type.
type Kind int

const (
	KindInvalid Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindNone
	KindAny
	KindList
	KindMapping
	KindSchemaRef
	KindUnion
	KindLiteral
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "str"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindNone:
		return "None"
	case KindAny:
		return "any"
	case KindList:
		return "list"
	case KindMapping:
		return "mapping"
	case KindSchemaRef:
		return "schema"
	case KindUnion:
		return "union"
	case KindLiteral:
		return "literal"
	default:
		return "invalid"
	}
}

// Type is an attribute type. The zero value is invalid.
type Type struct {
	Kind Kind

	// Elem is the list element or mapping value type.
	Elem *Type
	// Key is the mapping key type.
	Key *Type
	// Name is the referenced schema name, possibly package-qualified.
	Name string
	// Members holds union members, flattened and de-duplicated.
	Members []Type
	// Base and Text describe a literal type: its primitive kind and source text.
	Base Kind
	Text string
}

func String() Type { return Type{Kind: KindString} }
func Int() Type    { return Type{Kind: KindInt} }
func Float() Type  { return Type{Kind: KindFloat} }
func Bool() Type   { return Type{Kind: KindBool} }
func None() Type   { return Type{Kind: KindNone} }
func Any() Type    { return Type{Kind: KindAny} }

func List(elem Type) Type {
	return Type{Kind: KindList, Elem: &elem}
}

func Mapping(key, value Type) Type {
	return Type{Kind: KindMapping, Key: &key, Elem: &value}
}

func SchemaRef(name string) Type {
	return Type{Kind: KindSchemaRef, Name: name}
}

func Literal(base Kind, text string) Type {
	return Type{Kind: KindLiteral, Base: base, Text: text}
}

// Union flattens nested unions and drops duplicate members, keeping first-seen order.
// A union of a single member collapses to that member.
func Union(members ...Type) Type {
	var flat []Type
	seen := make(map[string]bool)
	var add func(Type)
	add = func(t Type) {
		if t.Kind == KindUnion {
			for _, m := range t.Members {
				add(m)
			}
			return
		}
		key := t.String()
		if seen[key] {
			return
		}
		seen[key] = true
		flat = append(flat, t)
	}
	for _, m := range members {
		add(m)
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return Type{Kind: KindUnion, Members: flat}
}

// IsPrimitive reports whether t is one of str, int, float or bool.
func (t Type) IsPrimitive() bool {
	switch t.Kind {
	case KindString, KindInt, KindFloat, KindBool:
		return true
	}
	return false
}

// IsOptional reports whether the type itself admits None.
func (t Type) IsOptional() bool {
	switch t.Kind {
	case KindNone:
		return true
	case KindUnion:
		for _, m := range t.Members {
			if m.IsOptional() {
				return true
			}
		}
	}
	return false
}

// String renders t in annotation syntax. Parse(t.String()) yields an equal type.
func (t Type) String() string {
	switch t.Kind {
	case KindString, KindInt, KindFloat, KindBool, KindNone, KindAny:
		return t.Kind.String()
	case KindList:
		return "[" + t.Elem.String() + "]"
	case KindMapping:
		return "{" + t.Key.String() + ":" + t.Elem.String() + "}"
	case KindSchemaRef:
		return t.Name
	case KindLiteral:
		return t.Text
	case KindUnion:
		parts := make([]string, len(t.Members))
		for i, m := range t.Members {
			parts[i] = m.String()
		}
		return strings.Join(parts, " | ")
	default:
		return "<invalid>"
	}
}

// Compatible reports whether a and b describe the same type structurally.
//
// A union is compatible with any of its members, and with another union when
// the members of one are all covered by the other. Schema references match by
// name only; an unqualified name matches the last segment of a qualified one.
// A literal type is compatible with its primitive base.
func Compatible(a, b Type) bool {
	if a.Kind == KindAny || b.Kind == KindAny {
		return true
	}
	if a.Kind == KindUnion || b.Kind == KindUnion {
		return unionCompatible(a, b)
	}
	switch {
	case a.Kind == KindLiteral && b.Kind == KindLiteral:
		return a.Base == b.Base && a.Text == b.Text
	case a.Kind == KindLiteral:
		return a.Base == b.Kind
	case b.Kind == KindLiteral:
		return b.Base == a.Kind
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindList:
		return Compatible(*a.Elem, *b.Elem)
	case KindMapping:
		return Compatible(*a.Key, *b.Key) && Compatible(*a.Elem, *b.Elem)
	case KindSchemaRef:
		return schemaNamesMatch(a.Name, b.Name)
	case KindInvalid:
		return false
	default:
		return true
	}
}

func unionCompatible(a, b Type) bool {
	am, bm := members(a), members(b)
	if a.Kind != KindUnion || b.Kind != KindUnion {
		// One side is a plain type: it must match some member of the other.
		single, set := a, bm
		if a.Kind == KindUnion {
			single, set = b, am
		}
		for _, m := range set {
			if Compatible(single, m) {
				return true
			}
		}
		return false
	}
	return covers(am, bm) || covers(bm, am)
}

// covers reports whether every type in sub is compatible with some type in super.
func covers(sub, super []Type) bool {
	for _, s := range sub {
		found := false
		for _, t := range super {
			if Compatible(s, t) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func members(t Type) []Type {
	if t.Kind == KindUnion {
		return t.Members
	}
	return []Type{t}
}

func schemaNamesMatch(a, b string) bool {
	if a == b {
		return true
	}
	qa, qb := strings.Contains(a, "."), strings.Contains(b, ".")
	if qa == qb {
		return false
	}
	return lastSegment(a) == lastSegment(b)
}

func lastSegment(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}
