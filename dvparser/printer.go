package dvparser

import (
	"fmt"
	"strings"
)

// Format serializes a circuit back to surface syntax. The output reparses to
// a structurally identical AST: binary chains print their left spine bare
// and parenthesize compound right operands, which is exactly the shape the
// left-associative parser rebuilds.
func Format(c *Circuit) string {
	var b strings.Builder
	writeStmts(&b, c.Stmts, 0, false)
	return b.String()
}

// FormatModule serializes a single module definition.
func FormatModule(m *Module) string {
	var b strings.Builder
	writeModule(&b, m, 0)
	return b.String()
}

func indentTo(b *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString("  ")
	}
}

// writeStmts writes one statement per line. Inside a module body every
// statement is terminated, since the out clause follows; at top level the
// last statement carries no separator.
func writeStmts(b *strings.Builder, stmts []Stmt, depth int, terminateAll bool) {
	for i, s := range stmts {
		indentTo(b, depth)
		writeStmt(b, s, depth)
		if terminateAll || i < len(stmts)-1 {
			b.WriteString(";")
		}
		b.WriteString("\n")
	}
}

func writeStmt(b *strings.Builder, s Stmt, depth int) {
	switch s := s.(type) {
	case *Reg:
		fmt.Fprintf(b, "%s -> %d, ", escapeName(s.Name), s.Init.Value)
		writeArith(b, s.Next, false)
	case *Bind:
		fmt.Fprintf(b, "%s = ", escapeName(s.Name))
		if s.Mod != nil {
			writeModule(b, s.Mod, depth)
		} else {
			writeArith(b, s.Expr, false)
		}
	case *Assert:
		b.WriteString("assert ")
		writeArith(b, s.Cond, false)
	case *Assume:
		b.WriteString("assume ")
		writeArith(b, s.Cond, false)
	case *ModStmt:
		writeModule(b, s.Mod, depth)
	}
}

func writeModule(b *strings.Builder, m *Module, depth int) {
	b.WriteString("mod(")
	for i, p := range m.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(escapeName(p))
	}
	b.WriteString(")")

	if m.Contract != nil {
		b.WriteString(" [")
		if m.Contract.Pre != nil {
			b.WriteString("req ")
			writeArith(b, m.Contract.Pre, false)
		}
		if m.Contract.Pre != nil && m.Contract.Post != nil {
			b.WriteString("; ")
		}
		if m.Contract.Post != nil {
			b.WriteString("ens ")
			writeArith(b, m.Contract.Post, false)
		}
		b.WriteString("]")
	}

	if len(m.Body.Stmts) == 0 {
		b.WriteString(" { ")
		if m.Body.Out != nil {
			b.WriteString("out ")
			writeArith(b, m.Body.Out, false)
		}
		b.WriteString(" }")
		return
	}

	b.WriteString(" {\n")
	writeStmts(b, m.Body.Stmts, depth+1, true)
	if m.Body.Out != nil {
		indentTo(b, depth+1)
		b.WriteString("out ")
		writeArith(b, m.Body.Out, false)
		b.WriteString("\n")
	}
	indentTo(b, depth)
	b.WriteString("}")
}

// writeArith writes an expression or arithmetic tree. asOperand wraps
// compound right operands so the flat left-associative grammar regroups the
// printed text into the same tree.
func writeArith(b *strings.Builder, a Arith, asOperand bool) {
	switch a := a.(type) {
	case *Bit:
		fmt.Fprintf(b, "%d", a.Value)
	case *VarRef:
		b.WriteString(escapeName(a.Name))
	case *Res:
		b.WriteString("res")
	case *Call:
		b.WriteString(escapeName(a.Target))
		b.WriteString("(")
		for i, arg := range a.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			writeArith(b, arg, false)
		}
		b.WriteString(")")
	case *Mux:
		b.WriteString("mux ")
		writeMuxOperand(b, a.Cond)
		b.WriteString(" ")
		writeMuxOperand(b, a.Then)
		b.WriteString(" ")
		writeMuxOperand(b, a.Else)
	case *Not:
		b.WriteString("not ")
		writeArith(b, a.Operand, true)
	case *BinExpr:
		if asOperand {
			b.WriteString("(")
		}
		writeArith(b, a.LHS, false)
		fmt.Fprintf(b, " %s ", a.Op)
		writeArith(b, a.RHS, true)
		if asOperand {
			b.WriteString(")")
		}
	case *BinArith:
		if asOperand {
			b.WriteString("(")
		}
		writeArith(b, a.LHS, false)
		fmt.Fprintf(b, " %s ", a.Op)
		writeArith(b, a.RHS, true)
		if asOperand {
			b.WriteString(")")
		}
	}
}

// writeMuxOperand wraps anything that is not already an atom, since mux
// operands are atoms in the grammar.
func writeMuxOperand(b *strings.Builder, e Expr) {
	switch e.(type) {
	case *BinExpr, *Mux:
		b.WriteString("(")
		writeArith(b, e, false)
		b.WriteString(")")
	default:
		writeArith(b, e, false)
	}
}

// escapeName renders a name, escaping it when it would not survive the
// lexer: keywords, names with non-identifier characters, and names starting
// with a digit.
func escapeName(name string) string {
	if name == "" {
		return "\\"
	}
	if _, isKeyword := keywords[name]; isKeyword {
		return "\\" + name
	}
	if !isIdentStart(name[0]) {
		return "\\" + name
	}
	for i := 1; i < len(name); i++ {
		if !isIdentPart(name[i]) {
			return "\\" + name
		}
	}
	return name
}

// Tree renders an indented tree dump of the AST, one node per line, in the
// spirit of a grammar tool's pretty-printed parse tree. Used by `dvrtl ast`
// and handy in tests.
func Tree(c *Circuit) string {
	var b strings.Builder
	b.WriteString("circuit\n")
	for _, s := range c.Stmts {
		treeStmt(&b, s, 1)
	}
	return b.String()
}

func treeLine(b *strings.Builder, depth int, label string) {
	indentTo(b, depth)
	b.WriteString(label)
	b.WriteString("\n")
}

func treeStmt(b *strings.Builder, s Stmt, depth int) {
	switch s := s.(type) {
	case *Reg:
		treeLine(b, depth, "reg")
		treeLine(b, depth+1, s.Name)
		treeLine(b, depth+1, fmt.Sprintf("bit %d", s.Init.Value))
		treeArith(b, s.Next, depth+1)
	case *Bind:
		treeLine(b, depth, "bind")
		treeLine(b, depth+1, s.Name)
		if s.Mod != nil {
			treeModule(b, s.Mod, depth+1)
		} else {
			treeArith(b, s.Expr, depth+1)
		}
	case *Assert:
		treeLine(b, depth, "assert")
		treeArith(b, s.Cond, depth+1)
	case *Assume:
		treeLine(b, depth, "assume")
		treeArith(b, s.Cond, depth+1)
	case *ModStmt:
		treeModule(b, s.Mod, depth)
	}
}

func treeModule(b *strings.Builder, m *Module, depth int) {
	treeLine(b, depth, "module")
	treeLine(b, depth+1, "params")
	for _, p := range m.Params {
		treeLine(b, depth+2, p)
	}
	if m.Contract != nil {
		treeLine(b, depth+1, "contract")
		if m.Contract.Pre != nil {
			treeLine(b, depth+2, "req")
			treeArith(b, m.Contract.Pre, depth+3)
		}
		if m.Contract.Post != nil {
			treeLine(b, depth+2, "ens")
			treeArith(b, m.Contract.Post, depth+3)
		}
	}
	treeLine(b, depth+1, "body")
	for _, s := range m.Body.Stmts {
		treeStmt(b, s, depth+2)
	}
	if m.Body.Out != nil {
		treeLine(b, depth+2, "out")
		treeArith(b, m.Body.Out, depth+3)
	}
}

func treeArith(b *strings.Builder, a Arith, depth int) {
	switch a := a.(type) {
	case *Bit:
		treeLine(b, depth, fmt.Sprintf("bit %d", a.Value))
	case *VarRef:
		treeLine(b, depth, a.Name)
	case *Res:
		treeLine(b, depth, "res")
	case *Call:
		treeLine(b, depth, "call")
		treeLine(b, depth+1, a.Target)
		for _, arg := range a.Args {
			treeArith(b, arg, depth+1)
		}
	case *Mux:
		treeLine(b, depth, "mux")
		treeArith(b, a.Cond, depth+1)
		treeArith(b, a.Then, depth+1)
		treeArith(b, a.Else, depth+1)
	case *Not:
		treeLine(b, depth, "not")
		treeArith(b, a.Operand, depth+1)
	case *BinExpr:
		treeLine(b, depth, a.Op.String())
		treeArith(b, a.LHS, depth+1)
		treeArith(b, a.RHS, depth+1)
	case *BinArith:
		treeLine(b, depth, a.Op.String())
		treeArith(b, a.LHS, depth+1)
		treeArith(b, a.RHS, depth+1)
	}
}
