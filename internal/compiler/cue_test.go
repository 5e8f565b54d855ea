package compiler

import (
	"testing"

	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/fizzbuzz/internal/ir"
)

func TestCompileCUEBasic(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		name: "classic"
		format: { separator: "\n", case: "lower" }
		rules: [
			{kind: "numeric"},
			{name: "fizz", kind: "fixed", token: "Fizz", priority: 1, divisors: [3]},
			{name: "buzz", kind: "streak", token: "Buzz", suffix: "!", priority: 1, divisor: 5, rivals: [3]},
		]
	`)
	require.NoError(t, v.Err())

	rs, err := CompileCUE(v)
	require.NoError(t, err)

	assert.Equal(t, "classic", rs.Name)
	assert.Equal(t, ir.FormatOptions{Separator: "\n", Case: ir.CaseLower}, rs.Format)
	require.Len(t, rs.Rules, 3)
	assert.Equal(t, ir.Rule{Kind: ir.KindNumeric}, rs.Rules[0])
	assert.Equal(t, ir.Rule{Name: "fizz", Kind: ir.KindFixed, Token: "Fizz", Priority: 1, Divisors: []uint32{3}}, rs.Rules[1])
	assert.Equal(t, ir.Rule{
		Name: "buzz", Kind: ir.KindStreak, Token: "Buzz", Suffix: "!",
		Priority: 1, Divisor: 5, Rivals: []uint32{3},
	}, rs.Rules[2])
}

func TestCompileCUEDefaults(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`rules: [{kind: "numeric"}]`)

	rs, err := CompileCUE(v)
	require.NoError(t, err)
	assert.Empty(t, rs.Name)
	assert.Equal(t, ir.FormatOptions{}, rs.Format)
	assert.Len(t, rs.Rules, 1)
}

func TestCompileCUESchemaErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unknown field", `rules: [{kind: "numeric", colour: "red"}]`},
		{"unknown kind", `rules: [{kind: "modulo"}]`},
		{"missing kind", `rules: [{token: "Fizz"}]`},
		{"negative divisor", `rules: [{kind: "fixed", token: "F", divisors: [-3]}]`},
		{"divisor too large", `rules: [{kind: "streak", token: "F", divisor: 4294967296}]`},
		{"float priority", `rules: [{kind: "fixed", token: "F", priority: 1.5, divisors: [2]}]`},
		{"bad case", `format: {case: "shout"}, rules: []`},
		{"top-level extra", `rules: [], iterations: 10`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := cuecontext.New()
			v := ctx.CompileString(tt.src)
			_, err := CompileCUE(v)
			assert.Error(t, err)
		})
	}
}

func TestCompileCUESyntaxErrorHasPosition(t *testing.T) {
	src := []byte("rules: [\n\t{kind: \"numeric\",,},\n]\n")

	_, err := ParseCUE(src, "broken.cue")
	require.Error(t, err)

	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.True(t, ce.Pos.IsValid())
	assert.Equal(t, "broken.cue", ce.Pos.Filename())
	assert.Equal(t, 2, ce.Pos.Line())
}

func TestCompileErrorFormat(t *testing.T) {
	err := &CompileError{Field: "rules", Message: "rules is required"}
	assert.Equal(t, "rules: rules is required", err.Error())
}

func TestFormatCUEErrorNil(t *testing.T) {
	assert.NoError(t, formatCUEError(nil))
}

func TestCompileCUEErrorNamesField(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`rules: [{kind: "numeric"}, {kind: "fixed", token: "F", divisors: [-3]}]`)

	_, err := CompileCUE(v)
	require.Error(t, err)

	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, ce.Field, "rules.1")
}
