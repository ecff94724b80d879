package glox

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsoleReporter(t *testing.T) {
	var out bytes.Buffer
	r := NewConsoleReporter(&out)

	assert.False(t, r.HadError())
	assert.False(t, r.HadRuntimeError())

	r.CompileError(&SyntaxError{Line: 3, Where: " at end", Message: "Expect ';' after value."})
	r.CompileError(&ResolutionError{Token: name("a"), Message: "Can't read local variable in its own initializer."})
	r.RuntimeError(runtimeErrorf(ArityError, Token{Typ: TokenCloseParentheses, Lexeme: ")", Line: 7}, "Expected %d arguments but got %d.", 2, 1))

	assert.True(t, r.HadError())
	assert.True(t, r.HadRuntimeError())
	assert.Equal(t,
		"[line 3] Error at end: Expect ';' after value.\n"+
			"[line 1] Error at 'a': Can't read local variable in its own initializer.\n"+
			"Expected 2 arguments but got 1.\n[line 7]: )\n",
		out.String())

	r.Reset()
	assert.False(t, r.HadError())
	assert.False(t, r.HadRuntimeError())
}

func TestCompileErrorPosition(t *testing.T) {
	line, where := (&SyntaxError{Line: 2, Message: "Unexpected character."}).Position()
	assert.Equal(t, 2, line)
	assert.Equal(t, "", where)

	line, where = (&ResolutionError{Token: Token{Typ: TokenEOF, Line: 9}}).Position()
	assert.Equal(t, 9, line)
	assert.Equal(t, " at end", where)
}

func TestCompileFailure(t *testing.T) {
	f := &CompileFailure{Errors: []CompileError{
		&SyntaxError{Line: 1, Where: " at ';'", Message: "Expect expression."},
		&SyntaxError{Line: 4, Message: "Unterminated string."},
	}}

	assert.EqualError(t, f, "[line 1] Error at ';': Expect expression.\n[line 4] Error: Unterminated string.")
}

func TestErrorKindString(t *testing.T) {
	assert.Equal(t, "type error", TypeError.String())
	assert.Equal(t, "name error", NameError.String())
	assert.Equal(t, "arity error", ArityError.String())
	assert.Equal(t, "call error", CallError.String())
}
