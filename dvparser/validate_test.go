package dvparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) *Circuit {
	t.Helper()
	c, err := Parse([]byte(src))
	require.NoError(t, err)
	return c
}

func rulesOf(diags []Diagnostic) []string {
	var result []string
	for _, d := range diags {
		result = append(result, d.Rule)
	}
	return result
}

func TestValidateCleanCircuit(t *testing.T) {
	c := mustParse(t, `
half = mod(a, b) { s = a xor b; out s };
r -> 0, half(r, 1);
assert r xor 1
`)
	diags, err := ValidateOrError(c)
	require.NoError(t, err)
	assert.Empty(t, diags)
}

func TestValidateModuleMissingOut(t *testing.T) {
	c := mustParse(t, "m = mod(a) { x = a }")
	diags, err := ValidateOrError(c)
	require.Error(t, err)

	var structErr *StructuralError
	require.ErrorAs(t, err, &structErr)
	require.Len(t, diags, 1)
	assert.Equal(t, "module_out", diags[0].Rule)
	assert.Contains(t, diags[0].Message, `module "m"`)
	assert.Contains(t, diags[0].Message, "out")
}

func TestValidateTopLevelNeedsNoOut(t *testing.T) {
	c := mustParse(t, "a = 1; b = a xor 0")
	_, err := ValidateOrError(c)
	assert.NoError(t, err)
}

func TestValidateContractMissingEns(t *testing.T) {
	// grammatically fine, structurally a partial contract
	c := mustParse(t, "m = mod(a, b) [req 1] { out a }")
	diags, err := ValidateOrError(c)
	require.Error(t, err)

	var structErr *StructuralError
	require.ErrorAs(t, err, &structErr)
	require.Len(t, structErr.Diagnostics, 1)
	assert.Equal(t, "contract_clauses", structErr.Diagnostics[0].Rule)
	assert.Contains(t, structErr.Diagnostics[0].Message, "ens")
	_ = diags
}

func TestValidateContractMissingReq(t *testing.T) {
	c := mustParse(t, "m = mod(a) [ens res] { out a }")
	_, err := ValidateOrError(c)
	require.Error(t, err)

	var structErr *StructuralError
	require.ErrorAs(t, err, &structErr)
	assert.Contains(t, structErr.Diagnostics[0].Message, "req")
}

func TestValidateEmptyContract(t *testing.T) {
	c := mustParse(t, "m = mod(a) [] { out a }")
	diags, err := ValidateOrError(c)
	require.Error(t, err)
	assert.Equal(t, []string{"contract_clauses", "contract_clauses"}, rulesOf(diags))
}

func TestValidateDuplicateParams(t *testing.T) {
	c := mustParse(t, "m = mod(a, b, a) { out a }")
	diags, err := ValidateOrError(c)
	require.Error(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, "distinct_params", diags[0].Rule)
	assert.Contains(t, diags[0].Message, `"a"`)
}

func TestValidateDuplicateNamesInBody(t *testing.T) {
	// bound names and registers share one namespace per body
	c := mustParse(t, "x = 1; x -> 0, x")
	diags, err := ValidateOrError(c)
	require.Error(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, "unique_names", diags[0].Rule)
}

func TestValidateBindingShadowingParam(t *testing.T) {
	c := mustParse(t, "m = mod(a) { a = 1; out a }")
	_, err := ValidateOrError(c)
	require.Error(t, err)
}

func TestValidateSameNameInSiblingModulesOK(t *testing.T) {
	c := mustParse(t, `
m1 = mod(a) { s = a; out s };
m2 = mod(a) { s = a; out s }
`)
	_, err := ValidateOrError(c)
	assert.NoError(t, err)
}

func TestValidateNestedModules(t *testing.T) {
	// defects inside nested anonymous modules are found too
	c := mustParse(t, "m = mod(a) { inner = mod(b) { x = b }; out inner(a) }")
	diags, err := ValidateOrError(c)
	require.Error(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, "module_out", diags[0].Rule)
	assert.Contains(t, diags[0].Message, `"inner"`)
}

func TestValidateResInHandBuiltAST(t *testing.T) {
	// the parser rejects res outside ens; a programmatically built AST is
	// caught by the res_placement rule instead
	c := &Circuit{Stmts: []Stmt{
		&Assert{Cond: &BinArith{Op: OpEq, LHS: &Res{}, RHS: &Bit{Value: 1}}},
	}}
	diags, err := ValidateOrError(c)
	require.Error(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, "res_placement", diags[0].Rule)
}

func TestValidateResInPrecondition(t *testing.T) {
	c := &Circuit{Stmts: []Stmt{
		&Bind{Name: "m", Mod: &Module{
			Params:   []string{"a"},
			Contract: &Contract{Pre: &Res{}, Post: &Res{}},
			Body:     Body{Out: &VarRef{Name: "a"}},
		}},
	}}
	diags, err := ValidateOrError(c)
	require.Error(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, "res_placement", diags[0].Rule)
	assert.Contains(t, diags[0].Message, "req")
}

func TestValidateExtraRule(t *testing.T) {
	noAsserts := ruleFunc{
		name: "no_asserts",
		apply: func(c *Circuit) []Diagnostic {
			var diags []Diagnostic
			for _, a := range c.Asserts() {
				diags = append(diags, Diagnostic{
					Rule:     "no_asserts",
					Severity: Warning,
					Pos:      a.Position,
					Message:  "assertion found",
				})
			}
			return diags
		},
	}

	c := mustParse(t, "assert 1")
	diags, err := ValidateOrError(c, noAsserts)
	require.NoError(t, err) // warnings do not fail the build
	require.Len(t, diags, 1)
	assert.Equal(t, Warning, diags[0].Severity)
}

type ruleFunc struct {
	name  string
	apply func(c *Circuit) []Diagnostic
}

func (r ruleFunc) Name() string                  { return r.name }
func (r ruleFunc) Apply(c *Circuit) []Diagnostic { return r.apply(c) }

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{
		Rule:     "module_out",
		Severity: Error,
		Message:  "module body has no out expression",
		Pos:      Position{Line: 3, Column: 7},
		Fix:      "end the module body with 'out <expr>'",
	}
	s := d.String()
	assert.Contains(t, s, "[ERROR] module_out")
	assert.Contains(t, s, "line 3, col 7")
	assert.Contains(t, s, "fix:")
}
