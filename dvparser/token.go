package dvparser

// TokenKind identifies the type of a lexical token.
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenIdentifier // plain name or escaped identifier (backslash stripped)
	TokenBit        // the single characters 0 and 1
	TokenLParen     // (
	TokenRParen     // )
	TokenLBrace     // {
	TokenRBrace     // }
	TokenLBracket   // [
	TokenRBracket   // ]
	TokenComma      // ,
	TokenSemicolon  // ;
	TokenEquals     // =
	TokenArrow      // ->
	TokenPlus       // +
	TokenMinus      // -

	// Keywords (identifier text checked against keyword map)
	TokenMod    // mod
	TokenMux    // mux
	TokenOut    // out
	TokenReq    // req
	TokenEns    // ens
	TokenRes    // res
	TokenAssert // assert
	TokenAssume // assume
	TokenXor    // xor
	TokenAnd    // and
	TokenOr     // or
	TokenImpl   // impl
	TokenEq     // eq
	TokenNot    // not
)

var tokenNames = map[TokenKind]string{
	TokenEOF:        "EOF",
	TokenIdentifier: "identifier",
	TokenBit:        "bit",
	TokenLParen:     "'('",
	TokenRParen:     "')'",
	TokenLBrace:     "'{'",
	TokenRBrace:     "'}'",
	TokenLBracket:   "'['",
	TokenRBracket:   "']'",
	TokenComma:      "','",
	TokenSemicolon:  "';'",
	TokenEquals:     "'='",
	TokenArrow:      "'->'",
	TokenPlus:       "'+'",
	TokenMinus:      "'-'",
	TokenMod:        "'mod'",
	TokenMux:        "'mux'",
	TokenOut:        "'out'",
	TokenReq:        "'req'",
	TokenEns:        "'ens'",
	TokenRes:        "'res'",
	TokenAssert:     "'assert'",
	TokenAssume:     "'assume'",
	TokenXor:        "'xor'",
	TokenAnd:        "'and'",
	TokenOr:         "'or'",
	TokenImpl:       "'impl'",
	TokenEq:         "'eq'",
	TokenNot:        "'not'",
}

func (k TokenKind) String() string {
	if name, ok := tokenNames[k]; ok {
		return name
	}
	return "unknown"
}

// Token is a single lexical unit produced by the Lexer.
type Token struct {
	Kind    TokenKind
	Literal string // text content (backslash stripped for escaped identifiers)
	Pos     Position
}

// keywords maps keyword strings to their token kinds. Escaped identifiers
// bypass this map, so \mod names a variable called "mod".
var keywords = map[string]TokenKind{
	"mod":    TokenMod,
	"mux":    TokenMux,
	"out":    TokenOut,
	"req":    TokenReq,
	"ens":    TokenEns,
	"res":    TokenRes,
	"assert": TokenAssert,
	"assume": TokenAssume,
	"xor":    TokenXor,
	"and":    TokenAnd,
	"or":     TokenOr,
	"impl":   TokenImpl,
	"eq":     TokenEq,
	"not":    TokenNot,
}
