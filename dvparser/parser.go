package dvparser

import "fmt"

// Parse parses DVRTL source text and returns the top-level Circuit.
// Returns a *SyntaxError or *LexError on failure. Structural invariants not
// expressible in the grammar are checked separately by Validate.
func Parse(src []byte) (*Circuit, error) {
	p := &parser{lex: NewLexer(src)}
	return p.parseCircuit()
}

type parser struct {
	lex *Lexer
}

func (p *parser) peek() (Token, error) {
	return p.lex.Peek()
}

func (p *parser) next() (Token, error) {
	return p.lex.Next()
}

func (p *parser) expect(kind TokenKind) (Token, error) {
	tok, err := p.next()
	if err != nil {
		return Token{}, err
	}
	if tok.Kind != kind {
		return Token{}, &SyntaxError{
			ParseError: ParseError{Pos: tok.Pos},
			Expected:   kind.String(),
			Got:        describe(tok),
		}
	}
	return tok, nil
}

func (p *parser) consumeOptionalSemicolon() error {
	tok, err := p.peek()
	if err != nil {
		return err
	}
	if tok.Kind == TokenSemicolon {
		_, _ = p.next()
	}
	return nil
}

func describe(tok Token) string {
	if tok.Kind == TokenEOF {
		return "EOF"
	}
	return fmt.Sprintf("%s (%q)", tok.Kind, tok.Literal)
}

// parseCircuit parses 'stmt*' up to EOF. The top level, unlike a module
// body, carries no out clause.
func (p *parser) parseCircuit() (*Circuit, error) {
	c := &Circuit{}
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind == TokenEOF {
			return c, nil
		}
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		c.Stmts = append(c.Stmts, s)
		if err := p.consumeOptionalSemicolon(); err != nil {
			return nil, err
		}
	}
}

// parseStmt parses one of the five statement forms: register declaration,
// binding, assert, assume, or anonymous module.
func (p *parser) parseStmt() (Stmt, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}

	switch tok.Kind {
	case TokenAssert:
		_, _ = p.next()
		cond, err := p.parseArith(false)
		if err != nil {
			return nil, err
		}
		return &Assert{Cond: cond, Position: tok.Pos}, nil

	case TokenAssume:
		_, _ = p.next()
		cond, err := p.parseArith(false)
		if err != nil {
			return nil, err
		}
		return &Assume{Cond: cond, Position: tok.Pos}, nil

	case TokenMod:
		m, err := p.parseModule()
		if err != nil {
			return nil, err
		}
		return &ModStmt{Mod: m, Position: m.Position}, nil

	case TokenIdentifier:
		return p.parseIdentifierStatement()

	default:
		return nil, &SyntaxError{
			ParseError: ParseError{Pos: tok.Pos},
			Expected:   "statement",
			Got:        describe(tok),
		}
	}
}

// parseIdentifierStatement disambiguates between a register declaration
// (name -> bit, expr) and a binding (name = expr | module).
func (p *parser) parseIdentifierStatement() (Stmt, error) {
	nameTok, _ := p.next()

	tok, err := p.peek()
	if err != nil {
		return nil, err
	}

	switch tok.Kind {
	case TokenArrow:
		_, _ = p.next()
		initTok, err := p.expect(TokenBit)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenComma); err != nil {
			return nil, err
		}
		nextExpr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &Reg{
			Name:     nameTok.Literal,
			Init:     Bit{Value: bitValue(initTok), Position: initTok.Pos},
			Next:     nextExpr,
			Position: nameTok.Pos,
		}, nil

	case TokenEquals:
		_, _ = p.next()
		rhs, err := p.peek()
		if err != nil {
			return nil, err
		}
		if rhs.Kind == TokenMod {
			m, err := p.parseModule()
			if err != nil {
				return nil, err
			}
			return &Bind{Name: nameTok.Literal, Mod: m, Position: nameTok.Pos}, nil
		}
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &Bind{Name: nameTok.Literal, Expr: e, Position: nameTok.Pos}, nil

	default:
		return nil, &SyntaxError{
			ParseError: ParseError{Pos: tok.Pos},
			Expected:   "'->' or '='",
			Got:        describe(tok),
		}
	}
}

// parseModule parses 'mod' '(' params ')' contract? '{' body '}'.
func (p *parser) parseModule() (*Module, error) {
	modTok, err := p.expect(TokenMod)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenLParen); err != nil {
		return nil, err
	}

	m := &Module{Position: modTok.Pos}

	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if tok.Kind != TokenRParen {
		for {
			param, err := p.expect(TokenIdentifier)
			if err != nil {
				return nil, err
			}
			m.Params = append(m.Params, param.Literal)

			tok, err := p.peek()
			if err != nil {
				return nil, err
			}
			if tok.Kind != TokenComma {
				break
			}
			_, _ = p.next()
		}
	}

	if _, err := p.expect(TokenRParen); err != nil {
		return nil, err
	}

	tok, err = p.peek()
	if err != nil {
		return nil, err
	}
	if tok.Kind == TokenLBracket {
		contract, err := p.parseContract()
		if err != nil {
			return nil, err
		}
		m.Contract = contract
	}

	if _, err := p.expect(TokenLBrace); err != nil {
		return nil, err
	}

	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	m.Body = body

	if _, err := p.expect(TokenRBrace); err != nil {
		return nil, err
	}

	return m, nil
}

// parseContract parses '[' ('req' arith)? ';'? ('ens' post)? ']'. Either
// clause may be syntactically absent; contract completeness is a structural
// invariant checked by Validate, so a lone req or ens parses here and fails
// there with a clear diagnostic.
func (p *parser) parseContract() (*Contract, error) {
	lb, err := p.expect(TokenLBracket)
	if err != nil {
		return nil, err
	}
	c := &Contract{Position: lb.Pos}

	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if tok.Kind == TokenReq {
		_, _ = p.next()
		pre, err := p.parseArith(false)
		if err != nil {
			return nil, err
		}
		c.Pre = pre
	}

	if err := p.consumeOptionalSemicolon(); err != nil {
		return nil, err
	}

	tok, err = p.peek()
	if err != nil {
		return nil, err
	}
	if tok.Kind == TokenEns {
		_, _ = p.next()
		// res is admitted as an arithmetic atom only here.
		post, err := p.parseArith(true)
		if err != nil {
			return nil, err
		}
		c.Post = post
	}

	if _, err := p.expect(TokenRBracket); err != nil {
		return nil, err
	}

	return c, nil
}

// parseBody parses 'stmt* (out expr)?' up to the closing brace. A missing
// out clause leaves Body.Out nil for Validate to reject; the grammar itself
// also guarantees nothing follows the out expression.
func (p *parser) parseBody() (Body, error) {
	var b Body
	for {
		tok, err := p.peek()
		if err != nil {
			return Body{}, err
		}
		switch tok.Kind {
		case TokenRBrace:
			return b, nil
		case TokenOut:
			_, _ = p.next()
			out, err := p.parseExpr()
			if err != nil {
				return Body{}, err
			}
			b.Out = out
			if err := p.consumeOptionalSemicolon(); err != nil {
				return Body{}, err
			}
			return b, nil
		default:
			s, err := p.parseStmt()
			if err != nil {
				return Body{}, err
			}
			b.Stmts = append(b.Stmts, s)
			if err := p.consumeOptionalSemicolon(); err != nil {
				return Body{}, err
			}
		}
	}
}

// parseExpr parses a circuit expression: a left-associative chain of xor,
// and, or over atoms. All three connectives share one precedence level.
func (p *parser) parseExpr() (Expr, error) {
	lhs, err := p.parseExprAtom()
	if err != nil {
		return nil, err
	}

	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		op, ok := circuitOp(tok.Kind)
		if !ok {
			return lhs, nil
		}
		_, _ = p.next()

		rhs, err := p.parseExprAtom()
		if err != nil {
			return nil, err
		}
		lhs = &BinExpr{Op: op, LHS: lhs, RHS: rhs, Position: tok.Pos}
	}
}

// parseExprAtom parses a circuit atom: bit literal, mux, parenthesized
// expression, variable reference, or module call.
func (p *parser) parseExprAtom() (Expr, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}

	switch tok.Kind {
	case TokenBit:
		_, _ = p.next()
		return &Bit{Value: bitValue(tok), Position: tok.Pos}, nil

	case TokenMux:
		_, _ = p.next()
		cond, err := p.parseExprAtom()
		if err != nil {
			return nil, err
		}
		thenE, err := p.parseExprAtom()
		if err != nil {
			return nil, err
		}
		elseE, err := p.parseExprAtom()
		if err != nil {
			return nil, err
		}
		return &Mux{Cond: cond, Then: thenE, Else: elseE, Position: tok.Pos}, nil

	case TokenLParen:
		// scoped_expr affects grouping only; no AST node of its own.
		_, _ = p.next()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		return e, nil

	case TokenIdentifier:
		_, _ = p.next()
		nxt, err := p.peek()
		if err != nil {
			return nil, err
		}
		if nxt.Kind == TokenLParen {
			return p.parseCallArgs(tok)
		}
		return &VarRef{Name: tok.Literal, Position: tok.Pos}, nil

	default:
		return nil, &SyntaxError{
			ParseError: ParseError{Pos: tok.Pos},
			Expected:   "expression",
			Got:        describe(tok),
		}
	}
}

// parseCallArgs parses '(' (expr (',' expr)*)? ')' after the target name.
func (p *parser) parseCallArgs(target Token) (Expr, error) {
	if _, err := p.expect(TokenLParen); err != nil {
		return nil, err
	}

	call := &Call{Target: target.Literal, Position: target.Pos}

	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if tok.Kind != TokenRParen {
		for {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, arg)

			tok, err := p.peek()
			if err != nil {
				return nil, err
			}
			if tok.Kind != TokenComma {
				break
			}
			_, _ = p.next()
		}
	}

	if _, err := p.expect(TokenRParen); err != nil {
		return nil, err
	}

	return call, nil
}

// parseArith parses an arithmetic expression: a left-associative chain over
// the full operator set (impl, +, -, eq, xor, and, or), all at one
// precedence level. allowRes admits the symbolic result res as an atom and
// is set only while parsing an ens clause.
func (p *parser) parseArith(allowRes bool) (Arith, error) {
	lhs, err := p.parseArithUnary(allowRes)
	if err != nil {
		return nil, err
	}

	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		op, ok := arithOp(tok.Kind)
		if !ok {
			return lhs, nil
		}
		_, _ = p.next()

		rhs, err := p.parseArithUnary(allowRes)
		if err != nil {
			return nil, err
		}
		lhs = &BinArith{Op: op, LHS: lhs, RHS: rhs, Position: tok.Pos}
	}
}

func (p *parser) parseArithUnary(allowRes bool) (Arith, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if tok.Kind == TokenNot {
		_, _ = p.next()
		operand, err := p.parseArithUnary(allowRes)
		if err != nil {
			return nil, err
		}
		return &Not{Operand: operand, Position: tok.Pos}, nil
	}
	return p.parseArithAtom(allowRes)
}

func (p *parser) parseArithAtom(allowRes bool) (Arith, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}

	switch tok.Kind {
	case TokenRes:
		if !allowRes {
			return nil, &SyntaxError{
				ParseError: ParseError{
					Message: "res is only valid inside an ens clause",
					Pos:     tok.Pos,
				},
				Expected: "arithmetic expression",
				Got:      describe(tok),
			}
		}
		_, _ = p.next()
		return &Res{Position: tok.Pos}, nil

	case TokenLParen:
		// scoped_arith, elided like scoped_expr.
		_, _ = p.next()
		a, err := p.parseArith(allowRes)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		return a, nil

	case TokenBit, TokenMux, TokenIdentifier:
		return p.parseExprAtom()

	default:
		return nil, &SyntaxError{
			ParseError: ParseError{Pos: tok.Pos},
			Expected:   "arithmetic expression",
			Got:        describe(tok),
		}
	}
}

func circuitOp(kind TokenKind) (Op, bool) {
	switch kind {
	case TokenXor:
		return OpXor, true
	case TokenAnd:
		return OpAnd, true
	case TokenOr:
		return OpOr, true
	}
	return 0, false
}

func arithOp(kind TokenKind) (Op, bool) {
	switch kind {
	case TokenImpl:
		return OpImpl, true
	case TokenPlus:
		return OpAdd, true
	case TokenMinus:
		return OpSub, true
	case TokenEq:
		return OpEq, true
	case TokenXor:
		return OpXor, true
	case TokenAnd:
		return OpAnd, true
	case TokenOr:
		return OpOr, true
	}
	return 0, false
}

func bitValue(tok Token) uint8 {
	if tok.Literal == "1" {
		return 1
	}
	return 0
}
