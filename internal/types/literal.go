// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package types

import (
	"strconv"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

// DefaultLiteral is a default value as written in an attribute declaration.
type DefaultLiteral struct {
	// Text is the trimmed source text.
	Text string
	// Value is the decoded literal, or cty.DynamicVal when Text is not a pure literal.
	Value cty.Value
}

// IsKnown reports whether the default decoded to a concrete value.
func (d DefaultLiteral) IsKnown() bool {
	return d.Text != "" && d.Value.IsWhollyKnown()
}

// ParseLiteral decodes a default-value literal. Strings, numbers, booleans,
// None, and lists and mappings of those decode to a cty.Value. References,
// calls, schema instantiations and interpolations stay unknown; no evaluation
// context is ever supplied.
func ParseLiteral(text string) DefaultLiteral {
	text = strings.TrimSpace(text)
	lit := DefaultLiteral{Text: text, Value: cty.DynamicVal}
	src, ok := toHCLLiteral(text)
	if !ok {
		return lit
	}
	expr, diags := hclsyntax.ParseExpression([]byte(src), "<default>", hcl.InitialPos)
	if diags.HasErrors() {
		return lit
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() || !val.IsWhollyKnown() {
		return lit
	}
	lit.Value = val
	return lit
}

// toHCLLiteral rewrites the schema language's literal keywords into their HCL
// spelling outside of string literals. Single-quoted strings have no HCL
// equivalent and are rejected.
func toHCLLiteral(text string) (string, bool) {
	var sb strings.Builder
	for i := 0; i < len(text); {
		c := text[i]
		switch {
		case c == '\'':
			return "", false
		case c == '"':
			end, ok := scanString(text, i)
			if !ok {
				return "", false
			}
			sb.WriteString(text[i:end])
			i = end
		case c == '_' || isLetter(c):
			j := i + 1
			for j < len(text) && (text[j] == '_' || isLetter(text[j]) || isDigit(text[j])) {
				j++
			}
			switch word := text[i:j]; word {
			case "True":
				sb.WriteString("true")
			case "False":
				sb.WriteString("false")
			case "None":
				sb.WriteString("null")
			default:
				sb.WriteString(word)
			}
			i = j
		default:
			sb.WriteByte(c)
			i++
		}
	}
	return sb.String(), true
}

func isLetter(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') }

// Conforms reports whether v is a valid value for t. Unknown values conform to
// every type; schema references accept any object since schemas are not
// resolved here.
func Conforms(t Type, v cty.Value) bool {
	if !v.IsWhollyKnown() || t.Kind == KindAny {
		return true
	}
	if v.IsNull() {
		return t.IsOptional()
	}
	vt := v.Type()
	switch t.Kind {
	case KindString:
		return vt.Equals(cty.String)
	case KindBool:
		return vt.Equals(cty.Bool)
	case KindFloat:
		return vt.Equals(cty.Number)
	case KindInt:
		return vt.Equals(cty.Number) && v.AsBigFloat().IsInt()
	case KindNone:
		return false
	case KindLiteral:
		return literalEquals(t, v)
	case KindUnion:
		for _, m := range t.Members {
			if Conforms(m, v) {
				return true
			}
		}
		return false
	case KindList:
		if !vt.IsListType() && !vt.IsTupleType() && !vt.IsSetType() {
			return false
		}
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			if !Conforms(*t.Elem, ev) {
				return false
			}
		}
		return true
	case KindMapping:
		if !vt.IsMapType() && !vt.IsObjectType() {
			return false
		}
		for it := v.ElementIterator(); it.Next(); {
			k, ev := it.Element()
			if t.Key.Kind == KindString || t.Key.Kind == KindAny {
				if !Conforms(*t.Key, k) {
					return false
				}
			}
			if !Conforms(*t.Elem, ev) {
				return false
			}
		}
		return true
	case KindSchemaRef:
		return vt.IsMapType() || vt.IsObjectType()
	}
	return false
}

func literalEquals(t Type, v cty.Value) bool {
	switch t.Base {
	case KindString:
		if !v.Type().Equals(cty.String) {
			return false
		}
		s, err := unquote(t.Text)
		return err == nil && s == v.AsString()
	case KindInt, KindFloat:
		if !v.Type().Equals(cty.Number) {
			return false
		}
		n, err := cty.ParseNumberVal(t.Text)
		return err == nil && n.Equals(v).True()
	case KindBool:
		return v.Type().Equals(cty.Bool) && v.True() == (t.Text == "True")
	}
	return false
}

func unquote(s string) (string, error) {
	if strings.HasPrefix(s, "'") && strings.HasSuffix(s, "'") && len(s) >= 2 {
		s = `"` + strings.ReplaceAll(s[1:len(s)-1], `"`, `\"`) + `"`
	}
	return strconv.Unquote(s)
}
