// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package types

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"grimm.is/kcldoc/internal/errors"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokString
	tokNumber
	tokPunct
)

type token struct {
	kind tokenKind
	text string
	off  int
}

// Parse parses annotation text into a Type. Errors are of kind KindTypeSyntax
// and carry the byte offset of the offending token as the "offset" attribute.
func Parse(text string) (Type, error) {
	toks, err := lex(text)
	if err != nil {
		return Type{}, err
	}
	p := &parser{toks: toks}
	if p.peek().kind == tokEOF {
		return Type{}, errors.New(errors.KindTypeSyntax, "empty type")
	}
	t, err := p.union()
	if err != nil {
		return Type{}, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return Type{}, p.errorf(tok, "unexpected %q after type", tok.text)
	}
	return t, nil
}

// MustParse is like Parse but panics on error. Intended for tests and fixed tables.
func MustParse(text string) Type {
	t, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return t
}

func lex(text string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		switch {
		case unicode.IsSpace(r):
			i += size
		case r == '"' || r == '\'':
			end, ok := scanString(text, i)
			if !ok {
				return nil, errors.Attr(errors.New(errors.KindTypeSyntax, "unterminated string literal"), "offset", i)
			}
			toks = append(toks, token{kind: tokString, text: text[i:end], off: i})
			i = end
		case r == '-' || unicode.IsDigit(r):
			j := i + 1
			for j < len(text) && (isDigit(text[j]) || text[j] == '.' || text[j] == 'e' || text[j] == 'E') {
				j++
			}
			if text[i:j] == "-" {
				return nil, errors.Attr(errors.New(errors.KindTypeSyntax, "unexpected '-'"), "offset", i)
			}
			toks = append(toks, token{kind: tokNumber, text: text[i:j], off: i})
			i = j
		case r == '_' || unicode.IsLetter(r):
			j := i + size
			for j < len(text) {
				r2, s2 := utf8.DecodeRuneInString(text[j:])
				if r2 != '_' && r2 != '.' && !unicode.IsLetter(r2) && !unicode.IsDigit(r2) {
					break
				}
				j += s2
			}
			toks = append(toks, token{kind: tokIdent, text: text[i:j], off: i})
			i = j
		case strings.ContainsRune("[]{}:|()", r):
			toks = append(toks, token{kind: tokPunct, text: string(r), off: i})
			i += size
		default:
			return nil, errors.Attr(errors.Errorf(errors.KindTypeSyntax, "unrecognized character %q", r), "offset", i)
		}
	}
	toks = append(toks, token{kind: tokEOF, off: len(text)})
	return toks, nil
}

// scanString returns the end offset of the quoted string starting at start.
func scanString(text string, start int) (int, bool) {
	quote := text[start]
	for i := start + 1; i < len(text); i++ {
		switch text[i] {
		case '\\':
			i++
		case quote:
			return i + 1, true
		}
	}
	return 0, false
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) accept(punct string) bool {
	if t := p.peek(); t.kind == tokPunct && t.text == punct {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expect(punct, context string) error {
	if p.accept(punct) {
		return nil
	}
	tok := p.peek()
	if tok.kind == tokEOF {
		return p.errorf(tok, "missing %q in %s", punct, context)
	}
	return p.errorf(tok, "expected %q in %s, found %q", punct, context, tok.text)
}

func (p *parser) errorf(tok token, format string, args ...any) error {
	return errors.Attr(errors.Errorf(errors.KindTypeSyntax, format, args...), "offset", tok.off)
}

func (p *parser) union() (Type, error) {
	first, err := p.primary()
	if err != nil {
		return Type{}, err
	}
	ms := []Type{first}
	for p.accept("|") {
		m, err := p.primary()
		if err != nil {
			return Type{}, err
		}
		ms = append(ms, m)
	}
	return Union(ms...), nil
}

func (p *parser) primary() (Type, error) {
	tok := p.next()
	switch tok.kind {
	case tokPunct:
		switch tok.text {
		case "[":
			if p.accept("]") {
				return List(Any()), nil
			}
			elem, err := p.union()
			if err != nil {
				return Type{}, err
			}
			if err := p.expect("]", "list type"); err != nil {
				return Type{}, err
			}
			return List(elem), nil
		case "{":
			return p.mapping(tok)
		case "(":
			inner, err := p.union()
			if err != nil {
				return Type{}, err
			}
			if err := p.expect(")", "grouped type"); err != nil {
				return Type{}, err
			}
			return inner, nil
		}
		return Type{}, p.errorf(tok, "unexpected %q", tok.text)
	case tokString:
		return Literal(KindString, tok.text), nil
	case tokNumber:
		if strings.ContainsAny(tok.text, ".eE") {
			if _, err := strconv.ParseFloat(tok.text, 64); err != nil {
				return Type{}, p.errorf(tok, "malformed number %q", tok.text)
			}
			return Literal(KindFloat, tok.text), nil
		}
		return Literal(KindInt, tok.text), nil
	case tokIdent:
		for _, seg := range strings.Split(tok.text, ".") {
			if seg == "" {
				return Type{}, p.errorf(tok, "malformed schema name %q", tok.text)
			}
		}
		return identType(tok.text), nil
	}
	return Type{}, p.errorf(tok, "unexpected end of type")
}

func (p *parser) mapping(open token) (Type, error) {
	if p.accept("}") {
		return Mapping(Any(), Any()), nil
	}
	key := Any()
	if !p.accept(":") {
		k, err := p.union()
		if err != nil {
			return Type{}, err
		}
		if err := p.expect(":", "mapping type"); err != nil {
			return Type{}, err
		}
		key = k
	}
	if !key.IsPrimitive() && key.Kind != KindAny {
		return Type{}, p.errorf(open, "mapping key type %s is not a primitive type", key)
	}
	value := Any()
	if !p.accept("}") {
		v, err := p.union()
		if err != nil {
			return Type{}, err
		}
		if err := p.expect("}", "mapping type"); err != nil {
			return Type{}, err
		}
		value = v
	}
	return Mapping(key, value), nil
}

func identType(name string) Type {
	switch name {
	case "str":
		return String()
	case "int":
		return Int()
	case "float":
		return Float()
	case "bool":
		return Bool()
	case "None":
		return None()
	case "any":
		return Any()
	case "True", "False":
		return Literal(KindBool, name)
	}
	return SchemaRef(name)
}
