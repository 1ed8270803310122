// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package docstring

import (
	"regexp"
	"strings"

	"github.com/hashicorp/hcl/v2"
)

// Optionality is the required/optional marker written in an entry header.
type Optionality int

const (
	Unspecified Optionality = iota
	Required
	Optional
)

func (o Optionality) String() string {
	switch o {
	case Required:
		return "required"
	case Optional:
		return "optional"
	default:
		return "unspecified"
	}
}

// AttributeEntry documents one attribute. It is purely textual.
type AttributeEntry struct {
	Name        string
	TypeText    string
	Optionality Optionality
	// DefaultText is the text following "default is" in the header.
	DefaultText string
	HasDefault  bool
	Description string
	// Header is the entry's first line, trimmed.
	Header string
	// Extra holds header qualifiers that are neither a default nor an optionality marker.
	Extra []string
	// Verbatim is set when the header did not follow the entry convention.
	Verbatim  bool
	NameRange hcl.Range
	Range     hcl.Range
}

// MentionsDefault reports whether the entry states a default anywhere in its text.
func (e AttributeEntry) MentionsDefault() bool {
	return e.HasDefault || strings.Contains(strings.ToLower(e.Description), defaultPhrase)
}

// Text returns the header and description joined, for textual comparisons.
func (e AttributeEntry) Text() string {
	if e.Description == "" {
		return e.Header
	}
	return e.Header + " " + e.Description
}

const defaultPhrase = "default is"

var (
	entryHeaderRe = regexp.MustCompile(`^([A-Za-z_$][A-Za-z0-9_$]*)\s*\??\s*(?::\s*(.*))?$`)
	identRe       = regexp.MustCompile(`[A-Za-z_$][A-Za-z0-9_$]*`)
)

// parseEntries splits an Attributes section body into entries. Lines at the
// section's base indentation start an entry; deeper lines continue it.
func parseEntries(filename string, body []Line) []AttributeEntry {
	base := -1
	for _, l := range body {
		if strings.TrimSpace(l.Text) != "" {
			base = indentOf(l.Text)
			break
		}
	}
	if base < 0 {
		return nil
	}

	var entries []AttributeEntry
	var desc []string
	var last Line
	flush := func() {
		if len(entries) == 0 {
			return
		}
		e := &entries[len(entries)-1]
		if len(desc) > 0 {
			joined := strings.Join(desc, " ")
			if e.Description != "" {
				e.Description += " " + joined
			} else {
				e.Description = joined
			}
		}
		e.Range.End = last.End()
		desc = nil
	}

	for _, l := range body {
		trimmed := strings.TrimSpace(l.Text)
		if trimmed == "" {
			continue
		}
		if indentOf(l.Text) <= base {
			flush()
			entries = append(entries, parseHeader(filename, l))
		} else {
			desc = append(desc, trimmed)
		}
		last = l
	}
	flush()
	return entries
}

func parseHeader(filename string, l Line) AttributeEntry {
	indent := l.Text[:indentOf(l.Text)]
	header := strings.TrimSpace(l.Text)
	nameStart := Advance(l.Start, indent)
	e := AttributeEntry{
		Header: header,
		Range:  hcl.Range{Filename: filename, Start: nameStart, End: l.End()},
	}

	m := entryHeaderRe.FindStringSubmatch(header)
	if m == nil {
		e.Verbatim = true
		e.Description = header
		if loc := identRe.FindStringIndex(header); loc != nil {
			e.Name = header[loc[0]:loc[1]]
			start := Advance(nameStart, header[:loc[0]])
			e.NameRange = hcl.Range{Filename: filename, Start: start, End: Advance(start, e.Name)}
		} else {
			e.NameRange = hcl.Range{Filename: filename, Start: nameStart, End: nameStart}
		}
		return e
	}

	e.Name = m[1]
	e.NameRange = hcl.Range{Filename: filename, Start: nameStart, End: Advance(nameStart, e.Name)}
	for i, part := range splitTopLevel(m[2]) {
		lower := strings.ToLower(part)
		switch {
		case part == "":
		case lower == "required":
			e.Optionality = Required
		case lower == "optional":
			e.Optionality = Optional
		case strings.HasPrefix(lower, defaultPhrase):
			e.HasDefault = true
			e.DefaultText = strings.TrimSpace(part[len(defaultPhrase):])
		case i == 0:
			e.TypeText = part
		default:
			e.Extra = append(e.Extra, part)
		}
	}
	return e
}

// splitTopLevel splits on commas that are outside brackets and quotes.
func splitTopLevel(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var parts []string
	depth := 0
	var quote byte
	start := 0
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
			depth++
		case c == ']' || c == '}' || c == ')':
			if depth > 0 {
				depth--
			}
		case c == ',' && depth == 0:
			parts = append(parts, strings.TrimSpace(s[start:i]))
			start = i + 1
		}
	}
	return append(parts, strings.TrimSpace(s[start:]))
}
