// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package lsp

import (
	"runtime"
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromPos(t *testing.T) {
	tests := []struct {
		name string
		in   hcl.Pos
		want Position
	}{
		{"first char", hcl.Pos{Line: 1, Column: 1}, Position{0, 0}},
		{"middle", hcl.Pos{Line: 26, Column: 5}, Position{25, 4}},
		{"zero line clamps", hcl.Pos{Line: 0, Column: 0}, Position{0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromPos(tt.in))
		})
	}
}

func TestUTF16Conversion(t *testing.T) {
	// "é" is one UTF-16 unit, "😀" is two.
	src := []byte("a = 1\né😀x = 2\n")
	xByte := len("a = 1\né😀")
	pos := hcl.Pos{Line: 2, Column: 3, Byte: xByte}

	assert.Equal(t, Position{Line: 1, Character: 3}, FromPosIn(src, pos))
	assert.Equal(t, Position{Line: 1, Character: 2}, FromPos(pos))

	back, err := ToPos(src, Position{Line: 1, Character: 3})
	require.NoError(t, err)
	assert.Equal(t, pos, back)
}

func TestToPos(t *testing.T) {
	src := []byte("schema S:\n    name: str\n")

	p, err := ToPos(src, Position{Line: 1, Character: 4})
	require.NoError(t, err)
	assert.Equal(t, hcl.Pos{Line: 2, Column: 5, Byte: 14}, p)

	end, err := ToPos(src, Position{Line: 0, Character: 100})
	require.NoError(t, err)
	assert.Equal(t, hcl.Pos{Line: 1, Column: 10, Byte: 9}, end, "clamps to the line end")

	_, err = ToPos(src, Position{Line: 5})
	assert.Error(t, err)

	mid, err := ToPos([]byte("😀x"), Position{Line: 0, Character: 1})
	require.NoError(t, err)
	assert.Equal(t, 0, mid.Byte, "inside a surrogate pair stays on the rune")
}

type kindExtra string

func (k kindExtra) String() string { return string(k) }

type fixExtra struct{ kindExtra }

func (fixExtra) SuggestedReplacement() string { return "name : str, required" }

func TestFromDiagnostic(t *testing.T) {
	subject := hcl.Range{Filename: "/w/s.k", Start: hcl.Pos{Line: 3, Column: 5, Byte: 20}, End: hcl.Pos{Line: 3, Column: 9, Byte: 24}}

	d := FromDiagnostic(nil, &hcl.Diagnostic{
		Severity: hcl.DiagWarning,
		Summary:  "Undocumented attribute",
		Detail:   `attribute "name" is not documented`,
		Subject:  &subject,
		Extra:    fixExtra{"undocumented"},
	})
	assert.Equal(t, SeverityWarning, d.Severity)
	assert.Equal(t, "undocumented", d.Code)
	assert.Equal(t, Source, d.Source)
	assert.Equal(t, `Undocumented attribute: attribute "name" is not documented`, d.Message)
	assert.Equal(t, Range{Start: Position{2, 4}, End: Position{2, 8}}, d.Range)
	assert.Equal(t, []string{"name : str, required"}, d.Data["suggested_replacement"])

	plain := FromDiagnostic(nil, &hcl.Diagnostic{Severity: hcl.DiagError, Summary: "boom"})
	assert.Equal(t, SeverityError, plain.Severity)
	assert.Equal(t, "boom", plain.Message)
	assert.Empty(t, plain.Code)
	assert.Nil(t, plain.Data)
}

func TestSeverityOf(t *testing.T) {
	assert.Equal(t, SeverityError, SeverityOf(hcl.DiagError))
	assert.Equal(t, SeverityWarning, SeverityOf(hcl.DiagWarning))
	assert.Equal(t, SeverityHint, SeverityOf(hcl.DiagInvalid))
}

func TestFromGroup(t *testing.T) {
	first := hcl.Range{Filename: "/w/s.k", Start: hcl.Pos{Line: 2, Column: 5}, End: hcl.Pos{Line: 2, Column: 6}}
	second := hcl.Range{Filename: "/w/s.k", Start: hcl.Pos{Line: 3, Column: 5}, End: hcl.Pos{Line: 3, Column: 6}}
	group := hcl.Diagnostics{
		{Severity: hcl.DiagError, Summary: "Duplicate attribute", Subject: &second},
		{Severity: hcl.DiagError, Summary: "First declared here", Subject: &first},
	}
	out := FromGroup(nil, group)
	require.Len(t, out, 2)
	require.Len(t, out[0].RelatedInformation, 1)
	assert.Equal(t, "First declared here", out[0].RelatedInformation[0].Message)
	assert.Equal(t, Position{1, 4}, out[0].RelatedInformation[0].Location.Range.Start)
	assert.Equal(t, "Duplicate attribute", out[1].RelatedInformation[0].Message)
}

func TestFileURI(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX paths")
	}
	assert.Equal(t, "file:///home/user/service.k", FileURI("/home/user/service.k"))
	assert.Equal(t, "file:///home/user/my%20app/s.k", FileURI("/home/user/my app/s.k"))
	assert.Equal(t, "file:///c:/Users/me/s.k", FileURI("C:/Users/me/s.k"))
	assert.Equal(t, "", FileURI(""))

	p, err := PathFromURI("file:///home/user/my%20app/s.k")
	require.NoError(t, err)
	assert.Equal(t, "/home/user/my app/s.k", p)

	p, err = PathFromURI("file:///c:/Users/me/s.k")
	require.NoError(t, err)
	assert.Equal(t, "c:/Users/me/s.k", p)

	_, err = PathFromURI("https://example.com/s.k")
	assert.Error(t, err)
}

func TestNewHoverResult(t *testing.T) {
	span := hcl.Range{Start: hcl.Pos{Line: 1, Column: 8, Byte: 7}, End: hcl.Pos{Line: 1, Column: 15, Byte: 14}}
	r := NewHoverResult([]byte("schema Service:\n"), "```kcl\nschema Service\n```", span)
	assert.Equal(t, MarkupKindMarkdown, r.Contents.Kind)
	require.NotNil(t, r.Range)
	assert.Equal(t, Position{0, 7}, r.Range.Start)
	assert.Equal(t, Position{0, 14}, r.Range.End)
}
