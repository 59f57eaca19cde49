package dvparser

import "fmt"

// SymbolKind classifies what a name is bound to.
type SymbolKind int

const (
	// SymbolModule is a module-valued binding.
	SymbolModule SymbolKind = iota
	// SymbolWire is an expression-valued binding or a register.
	SymbolWire
	// SymbolParam is a module formal parameter.
	SymbolParam
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolModule:
		return "module"
	case SymbolWire:
		return "wire"
	case SymbolParam:
		return "parameter"
	default:
		return fmt.Sprintf("SymbolKind(%d)", int(k))
	}
}

// Symbol is a single resolved name.
type Symbol struct {
	Name  string
	Kind  SymbolKind
	Arity int     // meaningful when Kind == SymbolModule
	Def   *Module // meaningful when Kind == SymbolModule
	Pos   Position
}

// SymbolTable maps the names of one lexical scope to their symbols, chained
// to the enclosing scope. All module bindings of a scope are collected before
// any of its call sites are checked, so forward and self references resolve.
type SymbolTable struct {
	parent  *SymbolTable
	symbols map[string]*Symbol
}

// Lookup resolves a name through the scope chain.
func (t *SymbolTable) Lookup(name string) (*Symbol, bool) {
	for s := t; s != nil; s = s.parent {
		if sym, ok := s.symbols[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// Modules returns the module symbols declared directly in this scope.
func (t *SymbolTable) Modules() []*Symbol {
	var result []*Symbol
	for _, sym := range t.symbols {
		if sym.Kind == SymbolModule {
			result = append(result, sym)
		}
	}
	return result
}

// Resolve builds the symbol table for the circuit and checks every call site
// against it: a call to a known module must pass exactly as many arguments
// as the module has parameters, and a call target bound to a wire is an
// error. Targets that resolve to a parameter or to nothing are warnings,
// since the elaborator may still bind them. Resolve never fails outright; it
// reports findings as diagnostics like Validate does.
func Resolve(c *Circuit) (*SymbolTable, []Diagnostic) {
	r := &resolver{}
	table := r.resolveScope(c.Stmts, nil, nil)
	return table, r.diags
}

type resolver struct {
	diags []Diagnostic
}

// resolveScope processes one statement list: collect the scope's own
// bindings first, then check every expression in it, recursing into nested
// module bodies with a child scope.
func (r *resolver) resolveScope(stmts []Stmt, params []string, parent *SymbolTable) *SymbolTable {
	table := &SymbolTable{parent: parent, symbols: make(map[string]*Symbol)}

	for _, p := range params {
		table.symbols[p] = &Symbol{Name: p, Kind: SymbolParam}
	}

	for _, s := range stmts {
		switch s := s.(type) {
		case *Bind:
			if s.Mod != nil {
				table.symbols[s.Name] = &Symbol{
					Name:  s.Name,
					Kind:  SymbolModule,
					Arity: s.Mod.Arity(),
					Def:   s.Mod,
					Pos:   s.Position,
				}
			} else {
				table.symbols[s.Name] = &Symbol{Name: s.Name, Kind: SymbolWire, Pos: s.Position}
			}
		case *Reg:
			table.symbols[s.Name] = &Symbol{Name: s.Name, Kind: SymbolWire, Pos: s.Position}
		}
	}

	for _, s := range stmts {
		switch s := s.(type) {
		case *Reg:
			r.checkArith(s.Next, table)
		case *Bind:
			if s.Mod != nil {
				r.resolveModule(s.Mod, table)
			} else {
				r.checkArith(s.Expr, table)
			}
		case *Assert:
			r.checkArith(s.Cond, table)
		case *Assume:
			r.checkArith(s.Cond, table)
		case *ModStmt:
			r.resolveModule(s.Mod, table)
		}
	}

	return table
}

func (r *resolver) resolveModule(m *Module, parent *SymbolTable) {
	scope := r.resolveScope(m.Body.Stmts, m.Params, parent)
	if m.Body.Out != nil {
		r.checkArith(m.Body.Out, scope)
	}
	if m.Contract != nil {
		if m.Contract.Pre != nil {
			r.checkArith(m.Contract.Pre, scope)
		}
		if m.Contract.Post != nil {
			r.checkArith(m.Contract.Post, scope)
		}
	}
}

// checkArith walks an expression tree and checks every call site it contains.
func (r *resolver) checkArith(a Arith, table *SymbolTable) {
	switch a := a.(type) {
	case *Call:
		r.checkCall(a, table)
	case *BinExpr:
		r.checkArith(a.LHS, table)
		r.checkArith(a.RHS, table)
	case *BinArith:
		r.checkArith(a.LHS, table)
		r.checkArith(a.RHS, table)
	case *Mux:
		r.checkArith(a.Cond, table)
		r.checkArith(a.Then, table)
		r.checkArith(a.Else, table)
	case *Not:
		r.checkArith(a.Operand, table)
	}
}

func (r *resolver) checkCall(call *Call, table *SymbolTable) {
	for _, arg := range call.Args {
		r.checkArith(arg, table)
	}

	sym, ok := table.Lookup(call.Target)
	if !ok {
		r.diags = append(r.diags, Diagnostic{
			Rule:     "unresolved_call",
			Severity: Warning,
			Message:  fmt.Sprintf("call target %q does not resolve to any binding", call.Target),
			Pos:      call.Position,
			Fix:      fmt.Sprintf("bind %q to a module before elaboration", call.Target),
		})
		return
	}

	switch sym.Kind {
	case SymbolModule:
		if len(call.Args) != sym.Arity {
			r.diags = append(r.diags, Diagnostic{
				Rule:     "arity_mismatch",
				Severity: Error,
				Message:  fmt.Sprintf("call to module %q passes %d argument(s), expected %d", call.Target, len(call.Args), sym.Arity),
				Pos:      call.Position,
				Fix:      "match the argument list to the module's parameter list",
			})
		}
	case SymbolWire:
		r.diags = append(r.diags, Diagnostic{
			Rule:     "call_target_kind",
			Severity: Error,
			Message:  fmt.Sprintf("call target %q is bound to an expression, not a module", call.Target),
			Pos:      call.Position,
		})
	case SymbolParam:
		r.diags = append(r.diags, Diagnostic{
			Rule:     "call_target_kind",
			Severity: Warning,
			Message:  fmt.Sprintf("call target %q is a module parameter; its arity is unknown until elaboration", call.Target),
			Pos:      call.Position,
		})
	}
}
