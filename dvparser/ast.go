package dvparser

// Position tracks a source location for error messages.
type Position struct {
	Line   int // 1-based line number
	Column int // 1-based column number
	Offset int // 0-based byte offset into source
}

// Op identifies a binary operator.
type Op int

const (
	OpXor Op = iota
	OpAnd
	OpOr
	OpImpl
	OpAdd
	OpSub
	OpEq
)

var opNames = map[Op]string{
	OpXor:  "xor",
	OpAnd:  "and",
	OpOr:   "or",
	OpImpl: "impl",
	OpAdd:  "+",
	OpSub:  "-",
	OpEq:   "eq",
}

func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return "unknown"
}

// Circuit reports whether the operator is part of the synthesizable circuit
// layer. impl, +, - and eq exist only at the arithmetic layer.
func (o Op) Circuit() bool {
	return o == OpXor || o == OpAnd || o == OpOr
}

// Arith is an arithmetic expression as used in assertions, assumptions and
// contract clauses. Every circuit Expr is also an Arith.
type Arith interface {
	Pos() Position
	arithNode()
}

// Expr is a synthesizable circuit expression: a strict subset of Arith.
type Expr interface {
	Arith
	exprNode()
}

// Bit is a literal bit value, 0 or 1.
type Bit struct {
	Value    uint8
	Position Position
}

// VarRef is an identifier used as a value: a module parameter, a bound name,
// or a register name in the enclosing scope.
type VarRef struct {
	Name     string
	Position Position
}

// BinExpr is a binary circuit operation (xor, and, or) over circuit operands.
type BinExpr struct {
	Op       Op
	LHS      Expr
	RHS      Expr
	Position Position
}

// Mux selects Then when Cond is 1 and Else when Cond is 0.
type Mux struct {
	Cond     Expr
	Then     Expr
	Else     Expr
	Position Position
}

// Call instantiates a module by name with an ordered argument list. The
// target is either a module name or a module-valued binding; argument arity
// is checked by Resolve, not by the parser.
type Call struct {
	Target   string
	Args     []Expr
	Position Position
}

// BinArith is a binary arithmetic operation. The boolean connectives reappear
// here over arithmetic operands; impl, +, - and eq have no circuit form.
type BinArith struct {
	Op       Op
	LHS      Arith
	RHS      Arith
	Position Position
}

// Not negates an arithmetic operand. Sugar for xor with 1.
type Not struct {
	Operand  Arith
	Position Position
}

// Res is the symbolic module output, valid only inside an ens clause.
type Res struct {
	Position Position
}

func (n *Bit) Pos() Position      { return n.Position }
func (n *VarRef) Pos() Position   { return n.Position }
func (n *BinExpr) Pos() Position  { return n.Position }
func (n *Mux) Pos() Position      { return n.Position }
func (n *Call) Pos() Position     { return n.Position }
func (n *BinArith) Pos() Position { return n.Position }
func (n *Not) Pos() Position      { return n.Position }
func (n *Res) Pos() Position      { return n.Position }

func (*Bit) arithNode()      {}
func (*VarRef) arithNode()   {}
func (*BinExpr) arithNode()  {}
func (*Mux) arithNode()      {}
func (*Call) arithNode()     {}
func (*BinArith) arithNode() {}
func (*Not) arithNode()      {}
func (*Res) arithNode()      {}

func (*Bit) exprNode()     {}
func (*VarRef) exprNode()  {}
func (*BinExpr) exprNode() {}
func (*Mux) exprNode()     {}
func (*Call) exprNode()    {}

// Stmt is a single statement in a circuit or module body. Sequencing is not
// a node: the parser flattens semicolon chains into ordered statement lists.
type Stmt interface {
	Pos() Position
	stmtNode()
}

// Reg declares a register: a name, an initial bit value, and the expression
// computing its value for the next step.
type Reg struct {
	Name     string
	Init     Bit
	Next     Expr
	Position Position
}

// Bind associates a name with either an expression or an inline module
// definition. Exactly one of Expr and Mod is set.
type Bind struct {
	Name     string
	Expr     Expr
	Mod      *Module
	Position Position
}

// Assert states an arithmetic condition that must hold.
type Assert struct {
	Cond     Arith
	Position Position
}

// Assume states an arithmetic condition taken as given.
type Assume struct {
	Cond     Arith
	Position Position
}

// ModStmt is an anonymous module definition in statement position.
type ModStmt struct {
	Mod      *Module
	Position Position
}

func (s *Reg) Pos() Position     { return s.Position }
func (s *Bind) Pos() Position    { return s.Position }
func (s *Assert) Pos() Position  { return s.Position }
func (s *Assume) Pos() Position  { return s.Position }
func (s *ModStmt) Pos() Position { return s.Position }

func (*Reg) stmtNode()     {}
func (*Bind) stmtNode()    {}
func (*Assert) stmtNode()  {}
func (*Assume) stmtNode()  {}
func (*ModStmt) stmtNode() {}

// Contract pairs a precondition (req) with a postcondition (ens). The parser
// fills whichever clauses are present; validation rejects a contract with
// only one of the two.
type Contract struct {
	Pre      Arith // nil when the req clause is missing
	Post     Arith // nil when the ens clause is missing; may contain Res
	Position Position
}

// Body is the ordered, flattened statement list of a module followed by its
// single output expression. Out is nil when the source omitted the out
// clause; validation rejects that for modules.
type Body struct {
	Stmts []Stmt
	Out   Expr
}

// Module is a parameterized hardware module: ordered formal parameters, an
// optional contract, and a body ending in an out expression.
type Module struct {
	Params   []string
	Contract *Contract
	Body     Body
	Position Position
}

// Arity returns the number of formal parameters.
func (m *Module) Arity() int { return len(m.Params) }

// Circuit is the top-level unit: a flat ordered statement list with no
// output clause, unlike module bodies.
type Circuit struct {
	Stmts []Stmt
}

// BindByName returns the top-level binding with the given name, or nil.
func (c *Circuit) BindByName(name string) *Bind {
	for _, s := range c.Stmts {
		if b, ok := s.(*Bind); ok && b.Name == name {
			return b
		}
	}
	return nil
}

// ModuleByName returns the module bound to the given name at top level, or
// nil if the name is unbound or bound to an expression.
func (c *Circuit) ModuleByName(name string) *Module {
	if b := c.BindByName(name); b != nil {
		return b.Mod
	}
	return nil
}

// Asserts returns the top-level assertions in source order.
func (c *Circuit) Asserts() []*Assert {
	var result []*Assert
	for _, s := range c.Stmts {
		if a, ok := s.(*Assert); ok {
			result = append(result, a)
		}
	}
	return result
}

// Registers returns the top-level register declarations in source order.
func (c *Circuit) Registers() []*Reg {
	var result []*Reg
	for _, s := range c.Stmts {
		if r, ok := s.(*Reg); ok {
			result = append(result, r)
		}
	}
	return result
}
