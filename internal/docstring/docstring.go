// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package docstring parses schema documentation blocks into sections and
// per-attribute entries.
//
// A section header is a line of text underlined by a run of dashes at least
// as long as the text:
//
//	Attributes
//	----------
//	name : str, required
//	    The name of the long-running service.
//
// Parsing never fails. Entries whose header does not follow the convention are
// kept verbatim so that the text still reaches the reader.
package docstring

import (
	"strings"
	"unicode/utf8"

	"github.com/hashicorp/hcl/v2"
	"golang.org/x/text/cases"
)

// Section titles with special meaning.
const (
	SectionAttributes = "Attributes"
	SectionExamples   = "Examples"
)

// Line is one line of documentation text and the source position of its first byte.
type Line struct {
	Text  string
	Start hcl.Pos
}

// End returns the position just past the last byte of the line.
func (l Line) End() hcl.Pos {
	return Advance(l.Start, l.Text)
}

// Doc is a parsed documentation block. It owns copies of all text.
type Doc struct {
	Summary    string
	Sections   []Section
	Attributes []AttributeEntry
	Examples   []Example
	Range      hcl.Range
}

// Section is a titled part of a documentation block.
type Section struct {
	Title string
	// Body is the dedented section text without leading or trailing blank lines.
	Body string
	// Raw is the source text from the title line through the last non-blank line.
	Raw   string
	Range hcl.Range

	lines []Line
}

// Example is one code block taken from an examples section.
type Example struct {
	Text  string
	Range hcl.Range
}

// Section returns the first section whose title matches under Unicode case folding.
func (d *Doc) Section(title string) (Section, bool) {
	if d == nil {
		return Section{}, false
	}
	want := fold(title)
	for _, s := range d.Sections {
		if fold(s.Title) == want {
			return s, true
		}
	}
	return Section{}, false
}

// Entry returns the first attribute entry named name.
func (d *Doc) Entry(name string) (AttributeEntry, bool) {
	if d == nil {
		return AttributeEntry{}, false
	}
	for _, e := range d.Attributes {
		if e.Name == name {
			return e, true
		}
	}
	return AttributeEntry{}, false
}

// ParseText parses a documentation block that starts at the beginning of a file.
func ParseText(filename, text string) *Doc {
	return Parse(filename, SplitLines(text, hcl.InitialPos))
}

// SplitLines splits text into lines, tracking the position of each line start.
// Carriage returns before a newline are dropped from the line text.
func SplitLines(text string, start hcl.Pos) []Line {
	var lines []Line
	pos := start
	for {
		i := strings.IndexByte(text, '\n')
		if i < 0 {
			lines = append(lines, Line{Text: strings.TrimSuffix(text, "\r"), Start: pos})
			return lines
		}
		raw := text[:i]
		lines = append(lines, Line{Text: strings.TrimSuffix(raw, "\r"), Start: pos})
		pos = hcl.Pos{Line: pos.Line + 1, Column: 1, Byte: pos.Byte + i + 1}
		text = text[i+1:]
	}
}

// Parse parses documentation lines. filename is recorded in every range.
func Parse(filename string, lines []Line) *Doc {
	doc := &Doc{}
	if len(lines) > 0 {
		doc.Range = lineRange(filename, lines[0], lines[len(lines)-1])
	}

	headers := findHeaders(lines)
	summaryEnd := len(lines)
	if len(headers) > 0 {
		summaryEnd = headers[0]
	}
	doc.Summary = paragraphs(lines[:summaryEnd])

	for i, h := range headers {
		end := len(lines)
		if i+1 < len(headers) {
			end = headers[i+1]
		}
		body := lines[h+2 : end]
		sec := Section{
			Title: strings.TrimSpace(lines[h].Text),
			Body:  dedent(trimBlank(body)),
			Raw:   rawText(trimBlank(lines[h:end])),
			Range: lineRange(filename, lines[h], lastNonBlank(lines[h:end], lines[h+1])),
			lines: body,
		}
		doc.Sections = append(doc.Sections, sec)
	}

	if sec, ok := doc.Section(SectionAttributes); ok {
		doc.Attributes = parseEntries(filename, sec.lines)
	}
	for _, sec := range doc.Sections {
		switch fold(sec.Title) {
		case fold(SectionExamples), fold("Example"):
			doc.Examples = append(doc.Examples, parseExamples(filename, sec.lines)...)
		}
	}
	return doc
}

// findHeaders returns the indexes of header lines.
func findHeaders(lines []Line) []int {
	var idx []int
	for i := 0; i+1 < len(lines); i++ {
		title := strings.TrimSpace(lines[i].Text)
		if title == "" || isDashes(title) {
			continue
		}
		under := strings.TrimSpace(lines[i+1].Text)
		if isDashes(under) && utf8.RuneCountInString(under) >= utf8.RuneCountInString(title) {
			idx = append(idx, i)
			i++
		}
	}
	return idx
}

func isDashes(s string) bool {
	return s != "" && strings.Trim(s, "-") == ""
}

// paragraphs joins each run of non-blank lines with single spaces and separates runs with a blank line.
func paragraphs(lines []Line) string {
	var paras []string
	var cur []string
	flush := func() {
		if len(cur) > 0 {
			paras = append(paras, strings.Join(cur, " "))
			cur = nil
		}
	}
	for _, l := range lines {
		t := strings.TrimSpace(l.Text)
		if t == "" {
			flush()
			continue
		}
		cur = append(cur, t)
	}
	flush()
	return strings.Join(paras, "\n\n")
}

func trimBlank(lines []Line) []Line {
	for len(lines) > 0 && strings.TrimSpace(lines[0].Text) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1].Text) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func rawText(lines []Line) string {
	texts := make([]string, len(lines))
	for i, l := range lines {
		texts[i] = l.Text
	}
	return strings.Join(texts, "\n")
}

func lastNonBlank(lines []Line, fallback Line) Line {
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.TrimSpace(lines[i].Text) != "" {
			return lines[i]
		}
	}
	return fallback
}

// dedent removes the indentation shared by all non-blank lines.
func dedent(lines []Line) string {
	minIndent := -1
	for _, l := range lines {
		if strings.TrimSpace(l.Text) == "" {
			continue
		}
		if n := indentOf(l.Text); minIndent < 0 || n < minIndent {
			minIndent = n
		}
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		if strings.TrimSpace(l.Text) == "" {
			continue
		}
		out[i] = strings.TrimRight(l.Text[minIndent:], " \t")
	}
	return strings.Join(out, "\n")
}

func indentOf(s string) int {
	return len(s) - len(strings.TrimLeft(s, " \t"))
}

func lineRange(filename string, first, last Line) hcl.Range {
	return hcl.Range{Filename: filename, Start: first.Start, End: last.End()}
}

// Advance moves pos past text, which must not contain newlines.
func Advance(pos hcl.Pos, text string) hcl.Pos {
	return hcl.Pos{
		Line:   pos.Line,
		Column: pos.Column + utf8.RuneCountInString(text),
		Byte:   pos.Byte + len(text),
	}
}

func fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}
