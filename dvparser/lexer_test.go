package dvparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectTokens(t *testing.T, src string) []Token {
	t.Helper()
	lex := NewLexer([]byte(src))
	var tokens []Token
	for {
		tok, err := lex.Next()
		require.NoError(t, err)
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			break
		}
	}
	return tokens
}

func kinds(tokens []Token) []TokenKind {
	result := make([]TokenKind, len(tokens))
	for i, tok := range tokens {
		result[i] = tok.Kind
	}
	return result
}

func TestLexerPunctuation(t *testing.T) {
	tokens := collectTokens(t, "( ) { } [ ] , ; = + -")
	expected := []TokenKind{
		TokenLParen, TokenRParen, TokenLBrace, TokenRBrace,
		TokenLBracket, TokenRBracket, TokenComma, TokenSemicolon,
		TokenEquals, TokenPlus, TokenMinus, TokenEOF,
	}
	assert.Equal(t, expected, kinds(tokens))
}

func TestLexerArrowVersusMinus(t *testing.T) {
	tokens := collectTokens(t, "a -> 0, a - b")
	expected := []TokenKind{
		TokenIdentifier, TokenArrow, TokenBit, TokenComma,
		TokenIdentifier, TokenMinus, TokenIdentifier, TokenEOF,
	}
	assert.Equal(t, expected, kinds(tokens))
}

func TestLexerKeywords(t *testing.T) {
	tokens := collectTokens(t, "mod mux out req ens res assert assume xor and or impl eq not")
	expected := []TokenKind{
		TokenMod, TokenMux, TokenOut, TokenReq, TokenEns, TokenRes,
		TokenAssert, TokenAssume, TokenXor, TokenAnd, TokenOr,
		TokenImpl, TokenEq, TokenNot, TokenEOF,
	}
	assert.Equal(t, expected, kinds(tokens))
}

func TestLexerBitLiterals(t *testing.T) {
	tokens := collectTokens(t, "0 1")
	require.Len(t, tokens, 3)
	assert.Equal(t, TokenBit, tokens[0].Kind)
	assert.Equal(t, "0", tokens[0].Literal)
	assert.Equal(t, TokenBit, tokens[1].Kind)
	assert.Equal(t, "1", tokens[1].Literal)
}

func TestLexerRejectsWiderDigits(t *testing.T) {
	lex := NewLexer([]byte("7"))
	_, err := lex.Next()
	require.Error(t, err)
	var lexErr *LexError
	require.ErrorAs(t, err, &lexErr)
	assert.Contains(t, lexErr.Message, "bit literal")
}

func TestLexerIdentifiersMayContainDigits(t *testing.T) {
	tokens := collectTokens(t, "bit0 add2_1 _carry")
	require.Len(t, tokens, 4)
	assert.Equal(t, "bit0", tokens[0].Literal)
	assert.Equal(t, "add2_1", tokens[1].Literal)
	assert.Equal(t, "_carry", tokens[2].Literal)
	for _, tok := range tokens[:3] {
		assert.Equal(t, TokenIdentifier, tok.Kind)
	}
}

func TestLexerEscapedIdentifier(t *testing.T) {
	tokens := collectTokens(t, `\foo-bar = 1`)
	require.Len(t, tokens, 4)
	assert.Equal(t, TokenIdentifier, tokens[0].Kind)
	assert.Equal(t, "foo-bar", tokens[0].Literal)
	assert.Equal(t, TokenEquals, tokens[1].Kind)
	assert.Equal(t, TokenBit, tokens[2].Kind)
}

func TestLexerEscapedIdentifierBypassesKeywords(t *testing.T) {
	tokens := collectTokens(t, `\mod \out`)
	require.Len(t, tokens, 3)
	assert.Equal(t, TokenIdentifier, tokens[0].Kind)
	assert.Equal(t, "mod", tokens[0].Literal)
	assert.Equal(t, TokenIdentifier, tokens[1].Kind)
	assert.Equal(t, "out", tokens[1].Literal)
}

func TestLexerBareBackslash(t *testing.T) {
	lex := NewLexer([]byte("\\ a"))
	_, err := lex.Next()
	require.Error(t, err)
	var lexErr *LexError
	require.ErrorAs(t, err, &lexErr)
	assert.Contains(t, lexErr.Message, "backslash")
}

func TestLexerLineComments(t *testing.T) {
	tokens := collectTokens(t, "a // the rest is noise -> = mux\nb")
	require.Len(t, tokens, 3)
	assert.Equal(t, "a", tokens[0].Literal)
	assert.Equal(t, "b", tokens[1].Literal)
}

func TestLexerBlockComments(t *testing.T) {
	tokens := collectTokens(t, "a /* spans\nlines * with stars */ b")
	require.Len(t, tokens, 3)
	assert.Equal(t, "a", tokens[0].Literal)
	assert.Equal(t, "b", tokens[1].Literal)
	// comment swallowed the newline, so b sits on line 2
	assert.Equal(t, 2, tokens[1].Pos.Line)
}

func TestLexerUnterminatedBlockComment(t *testing.T) {
	lex := NewLexer([]byte("a /* never closed"))
	_, err := lex.Next()
	require.NoError(t, err)
	_, err = lex.Next()
	require.Error(t, err)
	var lexErr *LexError
	require.ErrorAs(t, err, &lexErr)
	assert.Contains(t, lexErr.Message, "unterminated block comment")
}

func TestLexerPositions(t *testing.T) {
	tokens := collectTokens(t, "a ->\n  0")
	require.Len(t, tokens, 4)
	assert.Equal(t, Position{Line: 1, Column: 1, Offset: 0}, tokens[0].Pos)
	assert.Equal(t, Position{Line: 1, Column: 3, Offset: 2}, tokens[1].Pos)
	assert.Equal(t, Position{Line: 2, Column: 3, Offset: 7}, tokens[2].Pos)
}

func TestLexerPeekDoesNotConsume(t *testing.T) {
	lex := NewLexer([]byte("mux"))
	peeked, err := lex.Peek()
	require.NoError(t, err)
	next, err := lex.Next()
	require.NoError(t, err)
	assert.Equal(t, peeked, next)
	eof, err := lex.Next()
	require.NoError(t, err)
	assert.Equal(t, TokenEOF, eof.Kind)
}

func TestLexerUnexpectedCharacter(t *testing.T) {
	lex := NewLexer([]byte("a ? b"))
	_, err := lex.Next()
	require.NoError(t, err)
	_, err = lex.Next()
	require.Error(t, err)
	var lexErr *LexError
	require.ErrorAs(t, err, &lexErr)
	assert.Equal(t, 3, lexErr.Pos.Column)
}
