// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"grimm.is/kcldoc/internal/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		text string
		want Type
	}{
		{"str", String()},
		{"int", Int()},
		{"float", Float()},
		{"bool", Bool()},
		{"any", Any()},
		{"None", None()},
		{"[str]", List(String())},
		{"[]", List(Any())},
		{"{str:str}", Mapping(String(), String())},
		{"{ str : [int] }", Mapping(String(), List(Int()))},
		{"{:}", Mapping(Any(), Any())},
		{"{}", Mapping(Any(), Any())},
		{"Container", SchemaRef("Container")},
		{"container.Main", SchemaRef("container.Main")},
		{"str | int", Union(String(), Int())},
		{"str | None", Union(String(), None())},
		{`"Deployment" | "StatefulSet"`, Union(Literal(KindString, `"Deployment"`), Literal(KindString, `"StatefulSet"`))},
		{"1 | 2.5 | True", Union(Literal(KindInt, "1"), Literal(KindFloat, "2.5"), Literal(KindBool, "True"))},
		{"(str | int)", Union(String(), Int())},
		{"[{str:Container}]", List(Mapping(String(), SchemaRef("Container")))},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := Parse(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			again, err := Parse(got.String())
			require.NoError(t, err)
			assert.Equal(t, got, again, "String() must round-trip")
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"",
		"{str:str",
		"[str",
		"str]",
		"{[str]:int}",
		"{Container:int}",
		"str |",
		"str int",
		"a..b",
		`"unterminated`,
		"str & int",
		"(str",
		"1.2.3",
		"1e",
		"int | 2.5.1",
	}
	for _, text := range tests {
		t.Run(text, func(t *testing.T) {
			_, err := Parse(text)
			require.Error(t, err)
			assert.Equal(t, errors.KindTypeSyntax, errors.GetKind(err))
		})
	}
}

func TestParseErrorOffset(t *testing.T) {
	_, err := Parse("{str:str")
	require.Error(t, err)
	assert.Equal(t, 8, errors.GetAttributes(err)["offset"])
}

func TestCompatible(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"str", "str", true},
		{"str", "int", false},
		{"int", "float", false},
		{"[str]", "[str]", true},
		{"[str]", "[int]", false},
		{"{str:str}", "{str:str}", true},
		{"{str:str}", "{str:int}", false},
		{"{str:str}", "[str]", false},
		{"str | int", "str", true},
		{"int", "str | int", true},
		{"str | int", "bool", false},
		{"str | int", "int | str", true},
		{"str | int", "str | int | None", true},
		{"str | bool", "int | float", false},
		{"Container", "Container", true},
		{"Container", "Sidecar", false},
		{"container.Main", "Main", true},
		{"a.Main", "b.Main", false},
		{"any", "{str:[int]}", true},
		{`"Deployment"`, "str", true},
		{`"Deployment"`, `"Deployment"`, true},
		{`"Deployment"`, `"Job"`, false},
		{`"Deployment" | "StatefulSet"`, "str", true},
		{"1", "str", false},
	}
	for _, tt := range tests {
		t.Run(tt.a+" vs "+tt.b, func(t *testing.T) {
			a, b := MustParse(tt.a), MustParse(tt.b)
			assert.Equal(t, tt.want, Compatible(a, b))
			assert.Equal(t, tt.want, Compatible(b, a), "compatibility is symmetric")
		})
	}
}

func TestZeroTypeIsIncompatible(t *testing.T) {
	assert.False(t, Compatible(Type{}, Type{}))
}

func TestUnionFlattening(t *testing.T) {
	u := Union(String(), Union(Int(), String()), None())
	require.Equal(t, KindUnion, u.Kind)
	assert.Len(t, u.Members, 3)
	assert.Equal(t, "str | int | None", u.String())
	assert.True(t, u.IsOptional())
	assert.Equal(t, String(), Union(String(), String()))
}

func TestIsOptional(t *testing.T) {
	assert.False(t, MustParse("{str:str}").IsOptional())
	assert.True(t, MustParse("None").IsOptional())
	assert.True(t, MustParse("int | None").IsOptional())
	assert.False(t, MustParse("any").IsOptional())
}

func TestParseLiteral(t *testing.T) {
	tests := []struct {
		text  string
		want  cty.Value
		known bool
	}{
		{`"Deployment"`, cty.StringVal("Deployment"), true},
		{"1", cty.NumberIntVal(1), true},
		{"-2", cty.NumberIntVal(-2), true},
		{"True", cty.True, true},
		{"False", cty.False, true},
		{`[1, 2]`, cty.TupleVal([]cty.Value{cty.NumberIntVal(1), cty.NumberIntVal(2)}), true},
		{`{app: "web"}`, cty.ObjectVal(map[string]cty.Value{"app": cty.StringVal("web")}), true},
		{`"True is kept"`, cty.StringVal("True is kept"), true},
		{"'single'", cty.DynamicVal, false},
		{"container.Main {}", cty.DynamicVal, false},
		{"name + 1", cty.DynamicVal, false},
		{`"${x}"`, cty.DynamicVal, false},
		{"1Ki", cty.DynamicVal, false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			lit := ParseLiteral("  " + tt.text + " ")
			assert.Equal(t, tt.text, lit.Text)
			assert.Equal(t, tt.known, lit.IsKnown())
			if tt.known {
				assert.True(t, tt.want.RawEquals(lit.Value), "got %#v", lit.Value)
			}
		})
	}

	none := ParseLiteral("None")
	assert.True(t, none.IsKnown())
	assert.True(t, none.Value.IsNull())
}

func TestConforms(t *testing.T) {
	tests := []struct {
		typ  string
		lit  string
		want bool
	}{
		{"str", `"x"`, true},
		{"str", "1", false},
		{"int", "1", true},
		{"int", "1.5", false},
		{"float", "1.5", true},
		{"bool", "True", true},
		{"[int]", "[1, 2]", true},
		{"[int]", `[1, "a"]`, false},
		{"{str:str}", `{a: "b"}`, true},
		{"{str:int}", `{a: "b"}`, false},
		{`"Deployment" | "StatefulSet"`, `"Deployment"`, true},
		{`"Deployment" | "StatefulSet"`, `"Job"`, false},
		{"str | None", "None", true},
		{"str", "None", false},
		{"Container", "container.Main {}", true},
		{"any", "1", true},
	}
	for _, tt := range tests {
		t.Run(tt.typ+" = "+tt.lit, func(t *testing.T) {
			assert.Equal(t, tt.want, Conforms(MustParse(tt.typ), ParseLiteral(tt.lit).Value))
		})
	}
}
