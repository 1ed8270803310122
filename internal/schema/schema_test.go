// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package schema

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grimm.is/kcldoc/internal/errors"
	"grimm.is/kcldoc/internal/testutil"
	"grimm.is/kcldoc/internal/types"
)

func loadFixture(t *testing.T) []byte {
	return testutil.ReadFile(t, "testdata/service.k")
}

func quietParser() *Parser {
	return NewParser(testutil.QuietLogger())
}

func TestParseServiceFixture(t *testing.T) {
	doc := quietParser().Parse("service.k", loadFixture(t))
	assert.Empty(t, doc.Diagnostics)
	require.Len(t, doc.Schemas, 2)

	svc := doc.Schema("Service")
	require.NotNil(t, svc)
	assert.Equal(t, "Base", svc.Base)
	assert.Equal(t, "schema Service(Base)", svc.Header())
	assert.Equal(t, 3, svc.NameRange.Start.Line)
	assert.Equal(t, 8, svc.NameRange.Start.Column)
	assert.Equal(t, "Service is a kind of workload profile that describes how to run your application code.", svc.Summary)

	decls := svc.Attributes.All()
	require.Len(t, decls, 3)
	assert.Equal(t, []string{"workloadType", "name", "labels"}, []string{decls[0].Name, decls[1].Name, decls[2].Name})

	name, ok := svc.Attributes.Get("name")
	require.True(t, ok)
	assert.True(t, name.Required)
	assert.False(t, name.HasDefault())
	assert.Equal(t, types.String(), name.Type)
	assert.Equal(t, 26, name.NameRange.Start.Line)
	assert.Equal(t, 5, name.NameRange.Start.Column)

	wt, _ := svc.Attributes.Get("workloadType")
	assert.False(t, wt.Required)
	require.NotNil(t, wt.Default)
	assert.Equal(t, `"Deployment"`, wt.Default.Text)
	assert.Equal(t, `workloadType: str = "Deployment"`, wt.Signature())

	labels, _ := svc.Attributes.Get("labels")
	assert.True(t, labels.OptionalMarker)
	assert.False(t, labels.Required)
	assert.Equal(t, types.Mapping(types.String(), types.String()), labels.Type)

	usage, ok := svc.Section("attributes")
	require.True(t, ok)
	assert.Contains(t, usage, "name : str, required")

	require.Len(t, svc.Examples, 1)
	assert.Equal(t, 18, svc.Examples[0].Range.Start.Line)
	assert.Equal(t, 22, svc.Examples[0].Range.End.Line)
	assert.Contains(t, svc.Examples[0].Text, "mainContainer")
}

func TestParseProtocolAndComments(t *testing.T) {
	doc := quietParser().Parse("service.k", loadFixture(t))
	port := doc.Schema("Port")
	require.NotNil(t, port)
	assert.Equal(t, "PortProtocol", port.Protocol)
	assert.Equal(t, "A network port.", port.Summary)

	p, ok := port.Attributes.Get("port")
	require.True(t, ok)
	assert.Equal(t, "80", p.Default.Text)

	proto, _ := port.Attributes.Get("protocol")
	assert.Equal(t, `"TCP" | "UDP"`, proto.Type.String())

	tp, _ := port.Attributes.Get("targetPort")
	assert.Equal(t, types.Union(types.Int(), types.String()), tp.Type)
}

func TestParseIsDeterministic(t *testing.T) {
	src := loadFixture(t)
	a := quietParser().Parse("service.k", src)
	b := quietParser().Parse("service.k", src)
	assert.Equal(t, a, b)
}

func TestSchemaAt(t *testing.T) {
	src := loadFixture(t)
	doc := quietParser().Parse("service.k", src)

	off := bytes.Index(src, []byte("labels?:"))
	s := doc.SchemaAt(off)
	require.NotNil(t, s)
	assert.Equal(t, "Service", s.Name)

	assert.Nil(t, doc.SchemaAt(0), "the import line is outside every schema")
}

func TestDuplicateAttributeDropsOnlyThatSchema(t *testing.T) {
	src := `schema Broken:
    a: int
    a: str

schema Fine:
    b: int
`
	logger, logs := testutil.CaptureLogger()
	p := NewParser(logger)
	doc := p.Parse("dup.k", []byte(src))

	require.Len(t, doc.Schemas, 1)
	assert.Equal(t, "Fine", doc.Schemas[0].Name)

	require.Len(t, doc.Diagnostics, 1)
	d := doc.Diagnostics[0]
	assert.Equal(t, hcl.DiagError, d.Severity)
	assert.Equal(t, "Duplicate attribute", d.Summary)
	require.NotNil(t, d.Subject)
	assert.Equal(t, 3, d.Subject.Start.Line)
	assert.Equal(t, errors.KindDuplicateAttribute, d.Extra)
	assert.Contains(t, logs.String(), "schema dropped")
}

func TestTypeSyntaxErrorExcludesAttribute(t *testing.T) {
	src := `schema S:
    good: int
    bad: {str:str
    after?: str
`
	logger, logs := testutil.CaptureLogger()
	p := NewParser(logger)
	doc := p.Parse("bad.k", []byte(src))

	require.Len(t, doc.Schemas, 1)
	s := doc.Schemas[0]
	assert.Equal(t, 2, s.Attributes.Len())
	_, ok := s.Attributes.Get("bad")
	assert.False(t, ok)

	require.Len(t, doc.Diagnostics, 1)
	d := doc.Diagnostics[0]
	assert.Equal(t, "Invalid attribute type", d.Summary)
	assert.Equal(t, errors.KindTypeSyntax, d.Extra)
	assert.Equal(t, 3, d.Subject.Start.Line)
	assert.True(t, strings.Contains(logs.String(), `"attribute":"bad"`))
}

func TestDefaultTypeMismatchWarns(t *testing.T) {
	doc := quietParser().Parse("w.k", []byte("schema S:\n    replicas: int = \"three\"\n"))
	require.Len(t, doc.Schemas, 1)
	require.Len(t, doc.Diagnostics, 1)
	assert.Equal(t, hcl.DiagWarning, doc.Diagnostics[0].Severity)
	_, ok := doc.Schemas[0].Attributes.Get("replicas")
	assert.True(t, ok)
}

func TestUnterminatedDocstring(t *testing.T) {
	doc := quietParser().Parse("u.k", []byte("schema S:\n    \"\"\"Never closed.\n    name: str\n"))
	require.Len(t, doc.Schemas, 1)
	s := doc.Schemas[0]
	assert.Equal(t, 0, s.Attributes.Len())
	assert.Contains(t, s.Summary, "Never closed.")
	require.Len(t, doc.Diagnostics, 1)
	assert.Equal(t, "Unterminated docstring", doc.Diagnostics[0].Summary)
}

func TestMultilineDefault(t *testing.T) {
	src := "schema S:\n    ports: [int] = [\n        80,\n        443,\n    ]\n    host?: str\n"
	doc := quietParser().Parse("m.k", []byte(src))
	require.Len(t, doc.Schemas, 1)
	s := doc.Schemas[0]
	require.Equal(t, 2, s.Attributes.Len())
	ports, _ := s.Attributes.Get("ports")
	assert.Equal(t, 5, ports.Range.End.Line)
	assert.True(t, ports.Default.IsKnown())
}

func TestSchemaWithoutDocstring(t *testing.T) {
	doc := quietParser().Parse("n.k", []byte("schema S:\n    a: int\n"))
	require.Len(t, doc.Schemas, 1)
	s := doc.Schemas[0]
	assert.Nil(t, s.Doc)
	assert.Empty(t, s.Summary)
	_, ok := s.Section("Attributes")
	assert.False(t, ok)
}

func TestShortSchemaNameRange(t *testing.T) {
	src := []byte("  schema ma:\n    a: int\n")
	doc := quietParser().Parse("short.k", src)
	require.Len(t, doc.Schemas, 1)
	r := doc.Schemas[0].NameRange
	assert.Equal(t, "ma", string(src[r.Start.Byte:r.End.Byte]))
	assert.Equal(t, 10, r.Start.Column)
}

func TestCommentLineInsideBody(t *testing.T) {
	src := "schema A:\n    x: int = 1\n# note about y\n    y: str\n\nschema B:\n    z: int\n"
	doc := quietParser().Parse("c.k", []byte(src))
	assert.Empty(t, doc.Diagnostics)
	require.Len(t, doc.Schemas, 2)

	var names []string
	for _, d := range doc.Schemas[0].Attributes.All() {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"x", "y"}, names)
	assert.Equal(t, "B", doc.Schemas[1].Name)
}

func TestTableAdd(t *testing.T) {
	lit := types.ParseLiteral("1")
	tests := []struct {
		name string
		decl AttributeDecl
		kind errors.Kind
	}{
		{"required", AttributeDecl{Name: "a", Type: types.Int(), Required: true}, errors.KindUnknown},
		{"optional marker", AttributeDecl{Name: "a", Type: types.Int(), OptionalMarker: true}, errors.KindUnknown},
		{"default", AttributeDecl{Name: "a", Type: types.Int(), Default: &lit}, errors.KindUnknown},
		{"optional type", AttributeDecl{Name: "a", Type: types.Union(types.Int(), types.None())}, errors.KindUnknown},
		{"required with default", AttributeDecl{Name: "a", Type: types.Int(), Required: true, Default: &lit}, errors.KindValidation},
		{"optional without default", AttributeDecl{Name: "a", Type: types.Int()}, errors.KindValidation},
		{"no type", AttributeDecl{Name: "a", Required: true}, errors.KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewTable().Add(tt.decl)
			if tt.kind == errors.KindUnknown {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.kind, errors.GetKind(err))
		})
	}

	t.Run("duplicate", func(t *testing.T) {
		tbl := NewTable()
		require.NoError(t, tbl.Add(AttributeDecl{Name: "a", Type: types.Int(), Required: true}))
		err := tbl.Add(AttributeDecl{Name: "a", Type: types.String(), Required: true})
		require.Error(t, err)
		assert.Equal(t, errors.KindDuplicateAttribute, errors.GetKind(err))
		assert.Equal(t, 1, tbl.Len())
	})

	t.Run("order and copy", func(t *testing.T) {
		tbl := NewTable()
		for _, n := range []string{"c", "a", "b"} {
			require.NoError(t, tbl.Add(AttributeDecl{Name: n, Type: types.Int(), Required: true}))
		}
		all := tbl.All()
		assert.Equal(t, []string{"c", "a", "b"}, []string{all[0].Name, all[1].Name, all[2].Name})
		all[0].Name = "changed"
		_, ok := tbl.Get("c")
		assert.True(t, ok)
		assert.Equal(t, "c", tbl.All()[0].Name)
	})
}
