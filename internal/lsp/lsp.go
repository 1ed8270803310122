// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package lsp converts source ranges, diagnostics and hover results into the
// editor protocol's data shapes. It does not implement the transport.
//
// Protocol positions are 0-based and count UTF-16 code units; hcl positions
// are 1-based and count runes.
package lsp

import (
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/hashicorp/hcl/v2"
)

// https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification/#position
type Position struct {
	Line      uint32 `json:"line"`
	Character uint32 `json:"character"`
}

type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

type Location struct {
	URI   string `json:"uri"`
	Range Range  `json:"range"`
}

type MarkupContent struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

// https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification/#textDocument_hover
type HoverResult struct {
	Contents MarkupContent `json:"contents"`
	Range    *Range        `json:"range,omitempty"`
}

// FromPos converts an hcl position using its rune column. Lines and columns
// before the start of the file clamp to 0.
func FromPos(p hcl.Pos) Position {
	return Position{Line: clamp(p.Line - 1), Character: clamp(p.Column - 1)}
}

// FromRange converts an hcl range with FromPos.
func FromRange(r hcl.Range) Range {
	return Range{Start: FromPos(r.Start), End: FromPos(r.End)}
}

// FromPosIn converts an hcl position to a protocol position, counting the
// character offset in UTF-16 code units of src.
func FromPosIn(src []byte, p hcl.Pos) Position {
	if p.Byte < 0 || p.Byte > len(src) {
		return FromPos(p)
	}
	lineStart := p.Byte
	for lineStart > 0 && src[lineStart-1] != '\n' {
		lineStart--
	}
	return Position{Line: clamp(p.Line - 1), Character: uint32(utf16Len(src[lineStart:p.Byte]))}
}

// FromRangeIn converts an hcl range with FromPosIn.
func FromRangeIn(src []byte, r hcl.Range) Range {
	return Range{Start: FromPosIn(src, r.Start), End: FromPosIn(src, r.End)}
}

// ToPos maps a protocol position to a byte-accurate hcl position in src.
// A character past the end of its line lands at the line end; a line past
// the end of src is an error.
func ToPos(src []byte, p Position) (hcl.Pos, error) {
	pos := hcl.InitialPos
	for pos.Line-1 < int(p.Line) {
		i := indexNewline(src[pos.Byte:])
		if i < 0 {
			return hcl.Pos{}, fmt.Errorf("line %d is past the end of the document (%d lines)", p.Line, pos.Line)
		}
		pos = hcl.Pos{Line: pos.Line + 1, Column: 1, Byte: pos.Byte + i + 1}
	}

	var units uint32
	for pos.Byte < len(src) && units < p.Character {
		r, size := utf8.DecodeRune(src[pos.Byte:])
		if r == '\n' || r == '\r' {
			break
		}
		units += uint32(utf16.RuneLen(r))
		if units > p.Character {
			// Inside a surrogate pair: stay on the rune.
			break
		}
		pos.Byte += size
		pos.Column++
	}
	return pos, nil
}

func indexNewline(b []byte) int {
	for i, c := range b {
		if c == '\n' {
			return i
		}
	}
	return -1
}

func utf16Len(b []byte) int {
	n := 0
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		n += utf16.RuneLen(r)
		b = b[size:]
	}
	return n
}

func clamp(n int) uint32 {
	if n < 0 {
		return 0
	}
	return uint32(n)
}
