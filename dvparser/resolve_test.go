package dvparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveBuildsModuleTable(t *testing.T) {
	c := mustParse(t, fullAdder)
	table, diags := Resolve(c)
	assert.Empty(t, diags)

	sum, ok := table.Lookup("sum")
	require.True(t, ok)
	assert.Equal(t, SymbolModule, sum.Kind)
	assert.Equal(t, 3, sum.Arity)
	require.NotNil(t, sum.Def)
	assert.Equal(t, []string{"a_in", "b_in", "c_in"}, sum.Def.Params)

	bit0, ok := table.Lookup("bit0")
	require.True(t, ok)
	assert.Equal(t, SymbolWire, bit0.Kind)

	assert.Len(t, table.Modules(), 5)
}

func TestResolveArityMismatch(t *testing.T) {
	c := mustParse(t, `
half = mod(a, b) { out a xor b };
x = half(1)
`)
	_, diags := Resolve(c)
	require.Len(t, diags, 1)
	assert.Equal(t, "arity_mismatch", diags[0].Rule)
	assert.Equal(t, Error, diags[0].Severity)
	assert.Contains(t, diags[0].Message, "passes 1 argument(s), expected 2")
}

func TestResolveForwardReference(t *testing.T) {
	// modules may be called before their binding appears in source order
	c := mustParse(t, `
x = later(1, 0);
later = mod(a, b) { out a or b }
`)
	_, diags := Resolve(c)
	assert.Empty(t, diags)
}

func TestResolveSelfReference(t *testing.T) {
	// a self call resolves to its own binding; only arity is checked here
	c := mustParse(t, "m = mod(a) { out m(a) }")
	_, diags := Resolve(c)
	assert.Empty(t, diags)
}

func TestResolveUnknownTargetIsWarning(t *testing.T) {
	c := mustParse(t, "x = ghost(1)")
	_, diags := Resolve(c)
	require.Len(t, diags, 1)
	assert.Equal(t, "unresolved_call", diags[0].Rule)
	assert.Equal(t, Warning, diags[0].Severity)
}

func TestResolveWireTargetIsError(t *testing.T) {
	c := mustParse(t, `
w = 1;
x = w(0)
`)
	_, diags := Resolve(c)
	require.Len(t, diags, 1)
	assert.Equal(t, "call_target_kind", diags[0].Rule)
	assert.Equal(t, Error, diags[0].Severity)
	assert.Contains(t, diags[0].Message, "bound to an expression")
}

func TestResolveParamTargetIsWarning(t *testing.T) {
	c := mustParse(t, "m = mod(f) { out f(1) }")
	_, diags := Resolve(c)
	require.Len(t, diags, 1)
	assert.Equal(t, "call_target_kind", diags[0].Rule)
	assert.Equal(t, Warning, diags[0].Severity)
}

func TestResolveNestedScopes(t *testing.T) {
	// the inner body sees the outer module through the scope chain
	c := mustParse(t, `
half = mod(a, b) { out a xor b };
outer = mod(x) {
  inner = mod(y) { out half(y, 1) };
  out inner(x)
}
`)
	_, diags := Resolve(c)
	assert.Empty(t, diags)
}

func TestResolveInnerModuleNotVisibleOutside(t *testing.T) {
	c := mustParse(t, `
outer = mod(x) {
  inner = mod(y) { out y };
  out inner(x)
};
z = inner(1)
`)
	_, diags := Resolve(c)
	require.Len(t, diags, 1)
	assert.Equal(t, "unresolved_call", diags[0].Rule)
}

func TestResolveChecksContractsAndRegisters(t *testing.T) {
	c := mustParse(t, `
half = mod(a, b) { out a xor b };
m = mod(p) [req half(p) eq 0; ens res] { out p };
r -> 0, half(r)
`)
	_, diags := Resolve(c)
	require.Len(t, diags, 2)
	for _, d := range diags {
		assert.Equal(t, "arity_mismatch", d.Rule)
	}
}

func TestResolveArgumentsOfBadCallStillChecked(t *testing.T) {
	c := mustParse(t, `
half = mod(a, b) { out a xor b };
x = ghost(half(1))
`)
	_, diags := Resolve(c)
	require.Len(t, diags, 2)
	assert.Equal(t, "arity_mismatch", diags[0].Rule)
	assert.Equal(t, "unresolved_call", diags[1].Rule)
}
