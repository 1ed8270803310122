// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package schema

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/hashicorp/hcl/v2"

	"grimm.is/kcldoc/internal/docstring"
	"grimm.is/kcldoc/internal/errors"
	"grimm.is/kcldoc/internal/logging"
	"grimm.is/kcldoc/internal/types"
)

var (
	schemaHeaderRe = regexp.MustCompile(`^schema\s+([A-Za-z_$][A-Za-z0-9_$]*)\s*(?:\(\s*([A-Za-z_$][A-Za-z0-9_$.]*)\s*\))?\s*(?:for\s+([A-Za-z_$][A-Za-z0-9_$.]*))?\s*:$`)
	attributeRe    = regexp.MustCompile(`^([A-Za-z_$][A-Za-z0-9_$]*)\s*(\?)?\s*:\s*(.+)$`)
)

var docQuotes = []string{`"""`, `'''`}

// Parser turns source buffers into Documents.
type Parser struct {
	logger *logging.Logger
}

// NewParser creates a parser that reports excluded attributes to logger.
func NewParser(logger *logging.Logger) *Parser {
	if logger == nil {
		logger = logging.WithComponent("schema")
	}
	return &Parser{logger: logger}
}

// Parse parses src with a default parser.
func Parse(filename string, src []byte) *Document {
	return NewParser(nil).Parse(filename, src)
}

// Parse parses every schema declaration in src. It never fails as a whole:
// problems are reported in Document.Diagnostics.
func (p *Parser) Parse(filename string, src []byte) *Document {
	doc := &Document{Filename: filename}
	lines := docstring.SplitLines(string(src), hcl.InitialPos)

	for i := 0; i < len(lines); {
		code := stripComment(lines[i].Text)
		m := schemaHeaderRe.FindStringSubmatch(strings.TrimSpace(code))
		if m == nil {
			i++
			continue
		}
		end := blockEnd(lines, i)
		s, diags := p.parseSchema(filename, lines[i:end], m)
		doc.Diagnostics = append(doc.Diagnostics, diags...)
		if s != nil {
			doc.Schemas = append(doc.Schemas, s)
		}
		i = end
	}
	return doc
}

// blockEnd returns the index just past the body of the block whose header is lines[start].
func blockEnd(lines []docstring.Line, start int) int {
	headerIndent := indentOf(lines[start].Text)
	end := start + 1
	inDoc := ""
	for j := start + 1; j < len(lines); j++ {
		text := lines[j].Text
		if inDoc != "" {
			if strings.Contains(text, inDoc) {
				inDoc = ""
			}
			end = j + 1
			continue
		}
		// Comment-only lines do not take part in indentation.
		if strings.TrimSpace(stripComment(text)) == "" {
			continue
		}
		if indentOf(text) <= headerIndent {
			break
		}
		if q, ok := opensDoc(text); ok {
			inDoc = q
		}
		end = j + 1
	}
	return end
}

// opensDoc reports whether the line opens a docstring that it does not also close.
func opensDoc(text string) (string, bool) {
	t := strings.TrimPrefix(strings.TrimSpace(text), "r")
	for _, q := range docQuotes {
		if strings.HasPrefix(t, q) {
			return q, !strings.Contains(t[len(q):], q)
		}
	}
	return "", false
}

func (p *Parser) parseSchema(filename string, block []docstring.Line, m []string) (*Schema, hcl.Diagnostics) {
	header := block[0]
	code := stripComment(header.Text)
	loc := schemaHeaderRe.FindStringSubmatchIndex(strings.TrimSpace(code))
	nameCol := len(code) - len(strings.TrimLeftFunc(code, unicode.IsSpace)) + loc[2]
	nameStart := docstring.Advance(header.Start, header.Text[:nameCol])
	s := &Schema{
		Name:       m[1],
		Base:       m[2],
		Protocol:   m[3],
		NameRange:  hcl.Range{Filename: filename, Start: nameStart, End: docstring.Advance(nameStart, m[1])},
		Range:      hcl.Range{Filename: filename, Start: header.Start, End: block[len(block)-1].End()},
		Attributes: NewTable(),
	}
	logger := p.logger.With("schema", s.Name)

	var diags hcl.Diagnostics
	body := block[1:]
	i := skipBlank(body, 0)
	if i < len(body) {
		if docLines, next, ok, unterminated := extractDoc(body, i); ok {
			s.Doc = docstring.Parse(filename, docLines)
			s.Summary = s.Doc.Summary
			s.Sections = s.Doc.Sections
			s.Examples = s.Doc.Examples
			if unterminated {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagWarning,
					Summary:  "Unterminated docstring",
					Detail:   fmt.Sprintf("The documentation block of schema %q is never closed; it runs to the end of the schema.", s.Name),
					Subject:  rangePtr(s.Doc.Range),
				})
			}
			i = next
		}
	}

	stmtIndent := -1
	for i < len(body) {
		l := body[i]
		code := stripComment(l.Text)
		if strings.TrimSpace(code) == "" {
			i++
			continue
		}
		if stmtIndent < 0 {
			stmtIndent = indentOf(code)
		}
		if indentOf(code) != stmtIndent {
			i++
			continue
		}
		am := attributeRe.FindStringSubmatch(strings.TrimSpace(code))
		if am == nil {
			i++
			continue
		}

		rest := am[3]
		consumed := 1
		typeText, defaultText, hasDefault := splitDefault(rest)
		if hasDefault {
			for depth(defaultText) > 0 && i+consumed < len(body) {
				defaultText += "\n" + strings.TrimSpace(stripComment(body[i+consumed].Text))
				consumed++
			}
		}
		last := body[i+consumed-1]
		i += consumed

		decl, diag := buildDecl(filename, l, last, am, typeText, defaultText, hasDefault)
		if diag != nil {
			logger.Warn("attribute excluded", "attribute", am[1], "error", diag.Detail)
			diags = append(diags, diag)
			continue
		}
		if decl.Default != nil && !types.Conforms(decl.Type, decl.Default.Value) {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagWarning,
				Summary:  "Default does not match type",
				Detail:   fmt.Sprintf("Default %s of attribute %q is not a valid %s.", decl.Default.Text, decl.Name, decl.Type),
				Subject:  rangePtr(decl.Range),
			})
		}
		if err := s.Attributes.Add(decl); err != nil {
			diag := errors.Diagnostic(err)
			if errors.GetKind(err) == errors.KindDuplicateAttribute {
				diag.Summary = "Duplicate attribute"
				diag.Detail = fmt.Sprintf("Schema %q was not loaded: %s.", s.Name, err.Error())
				logger.Error("schema dropped", "attribute", decl.Name)
				return nil, append(diags, diag)
			}
			diags = append(diags, diag)
		}
	}
	return s, diags
}

func buildDecl(filename string, first, last docstring.Line, am []string, typeText, defaultText string, hasDefault bool) (AttributeDecl, *hcl.Diagnostic) {
	indent := first.Text[:indentOf(first.Text)]
	nameStart := docstring.Advance(first.Start, indent)
	decl := AttributeDecl{
		Name:           am[1],
		OptionalMarker: am[2] == "?",
		NameRange:      hcl.Range{Filename: filename, Start: nameStart, End: docstring.Advance(nameStart, am[1])},
		Range:          hcl.Range{Filename: filename, Start: nameStart, End: last.End()},
	}

	t, err := types.Parse(typeText)
	if err != nil {
		subject := decl.Range
		typeCol := strings.Index(first.Text, typeText)
		if typeCol >= 0 {
			start := docstring.Advance(first.Start, first.Text[:typeCol])
			if off, ok := errors.GetAttributes(err)["offset"].(int); ok && off <= len(typeText) {
				start = docstring.Advance(start, typeText[:off])
			}
			subject = hcl.Range{Filename: filename, Start: start, End: start}
		}
		return decl, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid attribute type",
			Detail:   fmt.Sprintf("Attribute %q: %s.", decl.Name, err.Error()),
			Subject:  &subject,
			Extra:    errors.KindTypeSyntax,
		}
	}
	decl.Type = t
	if hasDefault {
		lit := types.ParseLiteral(defaultText)
		decl.Default = &lit
	}
	decl.Required = !decl.OptionalMarker && decl.Default == nil
	return decl, nil
}

// extractDoc collects the docstring starting at body[i], if any. It returns
// the content lines, the index after the docstring, and whether the closing
// quotes were missing.
func extractDoc(body []docstring.Line, i int) (lines []docstring.Line, next int, ok bool, unterminated bool) {
	first := body[i]
	trimmed := strings.TrimSpace(first.Text)
	prefix := len(first.Text) - len(strings.TrimLeft(first.Text, " \t"))
	if strings.HasPrefix(trimmed, "r") {
		trimmed = trimmed[1:]
		prefix++
	}
	var quote string
	for _, q := range docQuotes {
		if strings.HasPrefix(trimmed, q) {
			quote = q
			break
		}
	}
	if quote == "" {
		return nil, i, false, false
	}
	prefix += len(quote)
	rest := first.Text[prefix:]
	start := docstring.Advance(first.Start, first.Text[:prefix])

	if end := strings.Index(rest, quote); end >= 0 {
		return []docstring.Line{{Text: rest[:end], Start: start}}, i + 1, true, false
	}
	lines = append(lines, docstring.Line{Text: rest, Start: start})
	for j := i + 1; j < len(body); j++ {
		l := body[j]
		if end := strings.Index(l.Text, quote); end >= 0 {
			lines = append(lines, docstring.Line{Text: l.Text[:end], Start: l.Start})
			return lines, j + 1, true, false
		}
		lines = append(lines, l)
	}
	return lines, len(body), true, true
}

// splitDefault splits "type = default" at the first top-level '=' that is not part of '=='.
func splitDefault(rest string) (typeText, defaultText string, ok bool) {
	d := 0
	var quote byte
	for i := 0; i < len(rest); i++ {
		c := rest[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '[' || c == '{' || c == '(':
			d++
		case c == ']' || c == '}' || c == ')':
			d--
		case c == '=' && d == 0:
			if i+1 < len(rest) && rest[i+1] == '=' {
				i++
				continue
			}
			return strings.TrimSpace(rest[:i]), strings.TrimSpace(rest[i+1:]), true
		}
	}
	return strings.TrimSpace(rest), "", false
}

// depth returns the bracket nesting left open at the end of s.
func depth(s string) int {
	d := 0
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '[' || c == '{' || c == '(':
			d++
		case c == ']' || c == '}' || c == ')':
			d--
		}
	}
	return d
}

// stripComment removes a trailing '#' comment that is outside string literals.
func stripComment(s string) string {
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '#':
			return strings.TrimRight(s[:i], " \t")
		}
	}
	return s
}

func skipBlank(lines []docstring.Line, i int) int {
	for i < len(lines) && strings.TrimSpace(lines[i].Text) == "" {
		i++
	}
	return i
}

func indentOf(s string) int {
	return len(s) - len(strings.TrimLeft(s, " \t"))
}

func rangePtr(r hcl.Range) *hcl.Range {
	return &r
}
