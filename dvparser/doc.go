// Package dvparser implements the front end of the DVRTL language, a minimal
// register-transfer-level description language with a deductive-verification
// contract sublanguage (req/ens clauses and the symbolic result res).
//
// The front end is structured as a hand-rolled recursive-descent parser with
// three layers:
//
//   - Lexer: converts raw bytes into a token stream, stripping // line and
//     /* block */ comments and whitespace. Identifiers are either plain names
//     or escaped identifiers (a backslash followed by non-whitespace
//     characters, backslash stripped).
//   - Parser: consumes tokens according to the layered grammar (circuit
//     expressions, the arithmetic superset used in assertions and contracts,
//     contracts, statements, modules) and builds an AST.
//   - Validation and resolution: Validate checks structural invariants the
//     grammar cannot express (a module body ends in exactly one out clause,
//     a contract carries both its req and ens clause, names are unique within
//     a body). Resolve is a separate pass building a symbol table of module
//     arities and checking call sites against it.
//
// The surface grammar declares xor, and, and or at a single rule level
// without associativity. This implementation resolves the ambiguity as
// uniform left associativity with equal precedence, at both the circuit and
// arithmetic levels; arithmetic folds impl, +, -, and eq into the same
// single level. "a xor b and c" therefore parses as "(a xor b) and c".
// Operands of the ternary mux are atoms; parenthesize compound operands.
//
// Usage:
//
//	circuit, err := dvparser.Parse(src)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if _, err := dvparser.ValidateOrError(circuit); err != nil {
//	    log.Fatal(err)
//	}
//
// Parsing and validation are pure transformations with no shared state, so
// independent source units may be processed concurrently.
package dvparser
