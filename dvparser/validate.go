package dvparser

import (
	"fmt"
	"strings"
)

// Severity represents the severity level of a validation diagnostic.
type Severity int

const (
	// Error means the circuit violates a structural invariant and cannot be
	// handed to an elaborator.
	Error Severity = iota
	// Warning means the circuit is structurally sound but likely wrong.
	Warning
	// Info is an informational note.
	Info
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "ERROR"
	case Warning:
		return "WARNING"
	case Info:
		return "INFO"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Diagnostic is a single validation or resolution finding.
type Diagnostic struct {
	Rule     string   // rule identifier (e.g., "module_out")
	Severity Severity // ERROR, WARNING, or INFO
	Message  string   // human-readable description
	Pos      Position // source location of the offending construct
	Fix      string   // suggested fix (optional)
}

func (d Diagnostic) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s: %s", d.Severity, d.Rule, d.Message)
	if d.Pos.Line > 0 {
		fmt.Fprintf(&b, " (line %d, col %d)", d.Pos.Line, d.Pos.Column)
	}
	if d.Fix != "" {
		fmt.Fprintf(&b, " -- fix: %s", d.Fix)
	}
	return b.String()
}

// Rule is the interface for a single structural validation rule.
type Rule interface {
	Name() string
	Apply(c *Circuit) []Diagnostic
}

// StructuralError is returned by ValidateOrError when error-severity
// diagnostics exist: the source is grammatically valid but violates an
// AST-level shape invariant.
type StructuralError struct {
	Diagnostics []Diagnostic
}

func (e *StructuralError) Error() string {
	var msgs []string
	for _, d := range e.Diagnostics {
		msgs = append(msgs, d.String())
	}
	return fmt.Sprintf("structural validation failed with %d error(s):\n  %s", len(e.Diagnostics), strings.Join(msgs, "\n  "))
}

// Validate runs all built-in rules (and any extra rules) against the
// circuit. Returns all diagnostics regardless of severity.
func Validate(c *Circuit, extraRules ...Rule) []Diagnostic {
	rules := builtInRules()
	rules = append(rules, extraRules...)

	var diagnostics []Diagnostic
	for _, rule := range rules {
		diagnostics = append(diagnostics, rule.Apply(c)...)
	}
	return diagnostics
}

// ValidateOrError runs Validate and returns a *StructuralError if any
// error-severity diagnostics are found. Non-error diagnostics are still
// returned.
func ValidateOrError(c *Circuit, extraRules ...Rule) ([]Diagnostic, error) {
	diagnostics := Validate(c, extraRules...)

	var errors []Diagnostic
	for _, d := range diagnostics {
		if d.Severity == Error {
			errors = append(errors, d)
		}
	}
	if len(errors) > 0 {
		return diagnostics, &StructuralError{Diagnostics: errors}
	}
	return diagnostics, nil
}

func builtInRules() []Rule {
	return []Rule{
		moduleOutRule{},
		contractClausesRule{},
		distinctParamsRule{},
		uniqueNamesRule{},
		resPlacementRule{},
	}
}

// --- Traversal helpers ---

// eachModule visits every module in the circuit, including modules nested
// inside other module bodies, in source order. name is the bound name or ""
// for anonymous modules.
func eachModule(c *Circuit, visit func(name string, m *Module)) {
	eachModuleInStmts(c.Stmts, visit)
}

func eachModuleInStmts(stmts []Stmt, visit func(name string, m *Module)) {
	for _, s := range stmts {
		switch s := s.(type) {
		case *Bind:
			if s.Mod != nil {
				visit(s.Name, s.Mod)
				eachModuleInStmts(s.Mod.Body.Stmts, visit)
			}
		case *ModStmt:
			visit("", s.Mod)
			eachModuleInStmts(s.Mod.Body.Stmts, visit)
		}
	}
}

func describeModule(name string) string {
	if name == "" {
		return "anonymous module"
	}
	return fmt.Sprintf("module %q", name)
}

// containsRes reports whether the arithmetic expression contains a Res node.
// Expr slots cannot hold Res by type, so only arithmetic forms recurse.
func containsRes(a Arith) bool {
	switch a := a.(type) {
	case *Res:
		return true
	case *BinArith:
		return containsRes(a.LHS) || containsRes(a.RHS)
	case *Not:
		return containsRes(a.Operand)
	default:
		return false
	}
}

// --- Rule implementations ---

// module_out: every module body must end in exactly one out expression.
// The top-level circuit is exempt: it has no out slot at all.
type moduleOutRule struct{}

func (moduleOutRule) Name() string { return "module_out" }

func (moduleOutRule) Apply(c *Circuit) []Diagnostic {
	var diags []Diagnostic
	eachModule(c, func(name string, m *Module) {
		if m.Body.Out == nil {
			diags = append(diags, Diagnostic{
				Rule:     "module_out",
				Severity: Error,
				Message:  fmt.Sprintf("%s body has no out expression", describeModule(name)),
				Pos:      m.Position,
				Fix:      "end the module body with 'out <expr>'",
			})
		}
	})
	return diags
}

// contract_clauses: a contract's req and ens clauses are both present or the
// contract is absent entirely. A partial contract is never silently dropped.
type contractClausesRule struct{}

func (contractClausesRule) Name() string { return "contract_clauses" }

func (contractClausesRule) Apply(c *Circuit) []Diagnostic {
	var diags []Diagnostic
	eachModule(c, func(name string, m *Module) {
		if m.Contract == nil {
			return
		}
		if m.Contract.Pre == nil {
			diags = append(diags, Diagnostic{
				Rule:     "contract_clauses",
				Severity: Error,
				Message:  fmt.Sprintf("contract on %s is missing its req clause", describeModule(name)),
				Pos:      m.Contract.Position,
				Fix:      "add 'req <arith>' before the ens clause",
			})
		}
		if m.Contract.Post == nil {
			diags = append(diags, Diagnostic{
				Rule:     "contract_clauses",
				Severity: Error,
				Message:  fmt.Sprintf("contract on %s is missing its ens clause", describeModule(name)),
				Pos:      m.Contract.Position,
				Fix:      "add 'ens <post>' after the req clause",
			})
		}
	})
	return diags
}

// distinct_params: parameter names within one module are pairwise distinct.
type distinctParamsRule struct{}

func (distinctParamsRule) Name() string { return "distinct_params" }

func (distinctParamsRule) Apply(c *Circuit) []Diagnostic {
	var diags []Diagnostic
	eachModule(c, func(name string, m *Module) {
		seen := make(map[string]bool, len(m.Params))
		for _, param := range m.Params {
			if seen[param] {
				diags = append(diags, Diagnostic{
					Rule:     "distinct_params",
					Severity: Error,
					Message:  fmt.Sprintf("%s declares parameter %q more than once", describeModule(name), param),
					Pos:      m.Position,
					Fix:      "rename or remove the duplicate parameter",
				})
			}
			seen[param] = true
		}
	})
	return diags
}

// unique_names: bound names and registers share one namespace per body and
// must be unique within it; inside a module they must also not collide with
// the module's parameters.
type uniqueNamesRule struct{}

func (uniqueNamesRule) Name() string { return "unique_names" }

func (uniqueNamesRule) Apply(c *Circuit) []Diagnostic {
	diags := checkBodyNames(c.Stmts, nil, "top level")
	eachModule(c, func(name string, m *Module) {
		diags = append(diags, checkBodyNames(m.Body.Stmts, m.Params, describeModule(name))...)
	})
	return diags
}

func checkBodyNames(stmts []Stmt, params []string, where string) []Diagnostic {
	seen := make(map[string]bool, len(params))
	for _, p := range params {
		seen[p] = true
	}

	var diags []Diagnostic
	declare := func(name string, pos Position) {
		if seen[name] {
			diags = append(diags, Diagnostic{
				Rule:     "unique_names",
				Severity: Error,
				Message:  fmt.Sprintf("name %q is declared more than once in %s", name, where),
				Pos:      pos,
				Fix:      "bound names, registers and parameters share one namespace per body; rename one",
			})
		}
		seen[name] = true
	}

	for _, s := range stmts {
		switch s := s.(type) {
		case *Bind:
			declare(s.Name, s.Position)
		case *Reg:
			declare(s.Name, s.Position)
		}
	}
	return diags
}

// res_placement: Res is meaningful only inside a postcondition. The parser
// already enforces this for parsed sources; this rule covers ASTs built
// programmatically.
type resPlacementRule struct{}

func (resPlacementRule) Name() string { return "res_placement" }

func (resPlacementRule) Apply(c *Circuit) []Diagnostic {
	diags := checkResInStmts(c.Stmts)
	eachModule(c, func(name string, m *Module) {
		if m.Contract != nil && m.Contract.Pre != nil && containsRes(m.Contract.Pre) {
			diags = append(diags, Diagnostic{
				Rule:     "res_placement",
				Severity: Error,
				Message:  fmt.Sprintf("res appears in the req clause of %s", describeModule(name)),
				Pos:      m.Contract.Position,
				Fix:      "res denotes the module output and is valid only in the ens clause",
			})
		}
		diags = append(diags, checkResInStmts(m.Body.Stmts)...)
	})
	return diags
}

func checkResInStmts(stmts []Stmt) []Diagnostic {
	var diags []Diagnostic
	flag := func(kind string, cond Arith, pos Position) {
		if containsRes(cond) {
			diags = append(diags, Diagnostic{
				Rule:     "res_placement",
				Severity: Error,
				Message:  fmt.Sprintf("res appears in an %s condition", kind),
				Pos:      pos,
				Fix:      "res denotes the module output and is valid only in the ens clause",
			})
		}
	}
	for _, s := range stmts {
		switch s := s.(type) {
		case *Assert:
			flag("assert", s.Cond, s.Position)
		case *Assume:
			flag("assume", s.Cond, s.Position)
		}
	}
	return diags
}
