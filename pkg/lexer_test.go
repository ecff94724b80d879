package glox

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"

	"go.glox.dev/internal/test"
)

func TestLexer(t *testing.T) {
	cases := []struct {
		data   string
		fail   bool
		expect []Token
	}{
		{
			"fun main () {}",
			false,
			[]Token{
				{TokenFun, "fun", nil, 1},
				{TokenIdentifier, "main", nil, 1},
				{TokenOpenParentheses, "(", nil, 1},
				{TokenCloseParentheses, ")", nil, 1},
				{TokenOpenCurly, "{", nil, 1},
				{TokenCloseCurly, "}", nil, 1},
			},
		},
		{
			"//this is a comment\n",
			false,
			[]Token{
				{TokenLineComment, "this is a comment", nil, 1},
			},
		},
		{
			"fun main () {\n// this is a comment \n}",
			false,
			[]Token{
				{TokenFun, "fun", nil, 1},
				{TokenIdentifier, "main", nil, 1},
				{TokenOpenParentheses, "(", nil, 1},
				{TokenCloseParentheses, ")", nil, 1},
				{TokenOpenCurly, "{", nil, 1},
				{TokenLineComment, " this is a comment ", nil, 2},
				{TokenCloseCurly, "}", nil, 3},
			},
		},
		{
			"var únicódeShouldBeVàlid_2 = 1;",
			false,
			[]Token{
				{TokenVar, "var", nil, 1},
				{TokenIdentifier, "únicódeShouldBeVàlid_2", nil, 1},
				{TokenEqual, "=", nil, 1},
				{TokenNumber, "1", 1.0, 1},
				{TokenSemicolon, ";", nil, 1},
			},
		},
		{
			"identifier = \"string\"",
			false,
			[]Token{
				{TokenIdentifier, "identifier", nil, 1},
				{TokenEqual, "=", nil, 1},
				{TokenString, "\"string\"", "string", 1},
			},
		},
		{
			"\"\"",
			false,
			[]Token{
				{TokenString, "\"\"", "", 1},
			},
		},
		{
			"\"two\nlines\" x",
			false,
			[]Token{
				{TokenString, "\"two\nlines\"", "two\nlines", 2},
				{TokenIdentifier, "x", nil, 2},
			},
		},
		{
			"12.5 7. != == <= >= < > ! =",
			false,
			[]Token{
				{TokenNumber, "12.5", 12.5, 1},
				{TokenNumber, "7", 7.0, 1},
				{TokenDot, ".", nil, 1},
				{TokenBangEqual, "!=", nil, 1},
				{TokenEqualEqual, "==", nil, 1},
				{TokenLessEqual, "<=", nil, 1},
				{TokenGreaterEqual, ">=", nil, 1},
				{TokenLess, "<", nil, 1},
				{TokenGreater, ">", nil, 1},
				{TokenBang, "!", nil, 1},
				{TokenEqual, "=", nil, 1},
			},
		},
		{
			"and or nil true false return while for if else class this super",
			false,
			[]Token{
				{TokenAnd, "and", nil, 1},
				{TokenOr, "or", nil, 1},
				{TokenNil, "nil", nil, 1},
				{TokenTrue, "true", nil, 1},
				{TokenFalse, "false", nil, 1},
				{TokenReturn, "return", nil, 1},
				{TokenWhile, "while", nil, 1},
				{TokenFor, "for", nil, 1},
				{TokenIf, "if", nil, 1},
				{TokenElse, "else", nil, 1},
				{TokenClass, "class", nil, 1},
				{TokenThis, "this", nil, 1},
				{TokenSuper, "super", nil, 1},
			},
		},
		{
			"\"unclosed string",
			true,
			nil,
		},
		{
			"a @ b",
			true,
			[]Token{
				{TokenIdentifier, "a", nil, 1},
				{TokenIdentifier, "b", nil, 1},
			},
		},
	}

	for _, c := range cases {
		r := strings.NewReader(c.data)
		l := NewLexer(r)

		toks, err := l.RunBlocking()
		if c.fail {
			assert.Error(t, err)
		} else {
			assert.NoError(t, err)
		}

		assert.Equal(t, c.expect, toks, c.data)
	}
}

func TestLexerErrorsCarryLine(t *testing.T) {
	l := NewLexer(strings.NewReader("1;\n\n#"))

	_, err := l.RunBlocking()
	assert.EqualError(t, err, "[line 3] Error: Unexpected character.")
}

func TestLexerStopsOnReadError(t *testing.T) {
	r := io.MultiReader(strings.NewReader("x = \"abc"), iotest.ErrReader(errors.New("disk failure")))
	l := NewLexer(r)

	toks, err := l.RunBlocking()
	assert.EqualError(t, err, "[line 1] Error: Unterminated string.")
	assert.Equal(t, []Token{
		{TokenIdentifier, "x", nil, 1},
		{TokenEqual, "=", nil, 1},
	}, toks)
}

func TestLexerGetAfterDrain(t *testing.T) {
	l := NewLexer(strings.NewReader("x"))
	go l.Do()

	assert.Equal(t, TokenIdentifier, l.Get().Typ)
	assert.Equal(t, TokenEOF, l.Get().Typ)
	assert.Equal(t, TokenEOF, l.Get().Typ)
}

// Use a package-level variable to avoid compiler optimisation
var benchResult []Token

func benchmarkLexer(size int, b *testing.B) {
	for n := 0; n < b.N; n++ {
		// Setup
		b.StopTimer()
		data := test.GetRandomTokens(size)
		r := strings.NewReader(data)
		l := NewLexer(r)

		var err error
		b.StartTimer()

		benchResult, err = l.RunBlocking()
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkLexer100(b *testing.B) {
	benchmarkLexer(100, b)
}

func BenchmarkLexer1000(b *testing.B) {
	benchmarkLexer(1000, b)
}

func BenchmarkLexer10000(b *testing.B) {
	benchmarkLexer(10000, b)
}

func BenchmarkLexer100000(b *testing.B) {
	benchmarkLexer(100000, b)
}
