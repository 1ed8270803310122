// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package hover

import (
	"os"
	"strings"
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grimm.is/kcldoc/internal/docstring"
	"grimm.is/kcldoc/internal/schema"
	"grimm.is/kcldoc/internal/testutil"
)

func load(t *testing.T) (string, *schema.Document) {
	t.Helper()
	src, err := os.ReadFile("testdata/service.k")
	require.NoError(t, err)
	doc := schema.Parse("service.k", src)
	require.Len(t, doc.Schemas, 2)
	return string(src), doc
}

// posAt returns the position delta bytes past the nth occurrence of needle.
func posAt(t *testing.T, src, needle string, nth, delta int) hcl.Pos {
	t.Helper()
	p := testutil.PosAt(t, []byte(src), needle, nth)
	return docstring.Advance(p, src[p.Byte:p.Byte+delta])
}

func TestHoverAttribute(t *testing.T) {
	src, doc := load(t)

	// occurrence 0 of "    name: str" is the declaration line
	pos := posAt(t, src, "    name: str", 0, 6)
	r := ResolveDocument(doc, pos)
	require.NotNil(t, r)
	assert.Equal(t, KindAttribute, r.Kind)
	assert.True(t, strings.HasPrefix(r.Description, "The name of the long-running service."))
	assert.Equal(t, "name: str", r.Header)
	assert.Equal(t, "str, required", r.TypeLine)
	assert.Empty(t, r.Warnings)
}

func TestHoverAttributeEdges(t *testing.T) {
	src, doc := load(t)
	svc := doc.Schema("Service")
	ix := NewIndex(svc)

	start := posAt(t, src, "    labels?:", 0, 4)
	r := ix.Resolve(start)
	require.NotNil(t, r)
	assert.Equal(t, "labels?: {str:str}", r.Header)

	end := posAt(t, src, "    labels?:", 0, 10)
	r = ix.Resolve(end)
	require.NotNil(t, r, "the position just past the name still hovers it")
	assert.Equal(t, KindAttribute, r.Kind)

	typePos := posAt(t, src, "    labels?: {str", 0, 14)
	assert.Nil(t, ix.Resolve(typePos))
}

func TestHoverAttributeWarnings(t *testing.T) {
	src, doc := load(t)
	r := ResolveDocument(doc, posAt(t, src, "    workloadType: str", 0, 4))
	require.NotNil(t, r)
	require.Len(t, r.Warnings, 1)
	assert.Contains(t, r.Warnings[0], "required")
	assert.Equal(t, `str, optional, default is "Deployment"`, r.TypeLine)
	assert.Contains(t, r.Markdown(), "Warning: ")
	assert.NotContains(t, r.Format(Options{}), "Warning: ")
}

func TestHoverInsideExampleIsNeverAnAttribute(t *testing.T) {
	src, doc := load(t)
	for _, needle := range []string{"mainContainer", "appConfiguration", "frontend.Server"} {
		r := ResolveDocument(doc, posAt(t, src, needle, 0, 2))
		if r == nil {
			continue
		}
		assert.NotEqual(t, KindAttribute, r.Kind, needle)
		assert.Equal(t, KindExample, r.Kind, needle)
		require.Len(t, r.ExampleSnippets, 1)
		assert.Contains(t, r.ExampleSnippets[0], "mainContainer = container.Main {}")
	}
}

func TestHoverSchemaName(t *testing.T) {
	src, doc := load(t)
	r := ResolveDocument(doc, posAt(t, src, "schema Service", 0, 9))
	require.NotNil(t, r)
	assert.Equal(t, KindSchema, r.Kind)
	assert.Equal(t, "schema Service(Base)", r.Header)
	assert.Equal(t, []string{`workloadType: str = "Deployment"`, "name: str", "labels?: {str:str}"}, r.Attributes)
	assert.True(t, strings.HasPrefix(r.Description, "Service is a kind of workload profile"))
	require.Len(t, r.ExampleSnippets, 1)

	md := r.Markdown()
	assert.True(t, strings.HasPrefix(md, "```kcl\nschema Service(Base)\n```"))
	assert.Contains(t, md, "- `name: str`")
}

func TestHoverOutsideEntities(t *testing.T) {
	src, doc := load(t)
	tests := []struct {
		name string
		pos  hcl.Pos
	}{
		{"import line", posAt(t, src, "import base", 0, 2)},
		{"schema keyword", posAt(t, src, "schema Service", 0, 1)},
		{"summary text", posAt(t, src, "workload profile", 0, 2)},
		{"check block", posAt(t, src, "len(name)", 0, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, ResolveDocument(doc, tt.pos))
		})
	}
}

func TestHoverSecondSchema(t *testing.T) {
	src, doc := load(t)
	r := ResolveDocument(doc, posAt(t, src, "    protocol:", 0, 5))
	require.NotNil(t, r)
	assert.Equal(t, `protocol: "TCP" | "UDP" = "TCP"`, r.Header)
	assert.Empty(t, r.Description)
	require.Len(t, r.Warnings, 1, "Port has no Attributes section")
}

func TestAttributeExamplesAreFiltered(t *testing.T) {
	src, doc := load(t)
	svc := doc.Schema("Service")
	ix := NewIndex(svc)

	r := ix.Resolve(posAt(t, src, "    labels?:", 0, 5))
	require.NotNil(t, r)
	assert.Empty(t, r.ExampleSnippets, "the example never mentions labels")
}

func TestNilInputs(t *testing.T) {
	assert.Nil(t, Resolve(nil, hcl.InitialPos))
	assert.Nil(t, ResolveDocument(nil, hcl.InitialPos))
	var r *Rendered
	assert.Equal(t, "", r.Markdown())
}

func TestFormatTruncatesExamples(t *testing.T) {
	r := &Rendered{Header: "h", ExampleSnippets: []string{"a\nb\nc"}}
	out := r.Format(Options{MaxExampleLines: 2})
	assert.Contains(t, out, "a\nb\n...")
	assert.NotContains(t, out, "c\n```")
}

func TestHoverShortSchemaName(t *testing.T) {
	src := "schema ma:\n    \"\"\"Short name.\"\"\"\n    a: int\n"
	doc := schema.Parse("short.k", []byte(src))
	require.Len(t, doc.Schemas, 1)

	r := ResolveDocument(doc, posAt(t, src, "ma:", 0, 1))
	require.NotNil(t, r)
	assert.Equal(t, KindSchema, r.Kind)
	assert.Contains(t, r.Description, "Short name.")

	assert.Nil(t, ResolveDocument(doc, posAt(t, src, "schema", 0, 4)), "the keyword is not the name")
}
