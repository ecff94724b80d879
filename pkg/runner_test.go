package glox

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRunner(cfg *Config) (*Runner, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return NewRunner(cfg, &stdout, &stderr), &stdout, &stderr
}

func TestRunnerRun(t *testing.T) {
	r, stdout, stderr := newTestRunner(nil)

	require.NoError(t, r.Run("var greeting = \"hello\"; print greeting + \" world\";"))
	assert.Equal(t, "hello world\n", stdout.String())
	assert.Empty(t, stderr.String())
}

func TestRunnerCompileErrorsSuppressExecution(t *testing.T) {
	r, stdout, stderr := newTestRunner(nil)

	err := r.Run("print \"side effect\";\nprint 1 +;\nvar = 2;")

	var failure *CompileFailure
	require.True(t, errors.As(err, &failure))
	assert.Len(t, failure.Errors, 2)
	assert.True(t, r.Reporter().HadError())
	assert.False(t, r.Reporter().HadRuntimeError())
	assert.Empty(t, stdout.String())
	assert.Equal(t,
		"[line 2] Error at ';': Expect expression.\n[line 3] Error at '=': Expect variable name.\n",
		stderr.String())
}

func TestRunnerResolutionErrorsSuppressExecution(t *testing.T) {
	r, stdout, stderr := newTestRunner(nil)

	err := r.Run("print 1;\nreturn 2;")

	var failure *CompileFailure
	require.True(t, errors.As(err, &failure))
	assert.IsType(t, &ResolutionError{}, failure.Errors[0])
	assert.Empty(t, stdout.String())
	assert.Equal(t, "[line 2] Error at 'return': Can't return from top-level code.\n", stderr.String())
}

func TestRunnerRuntimeError(t *testing.T) {
	r, stdout, stderr := newTestRunner(nil)

	err := r.Run("print 1;\nprint 1 + nil;\nprint 2;")

	var rtErr *RuntimeError
	require.True(t, errors.As(err, &rtErr))
	assert.Equal(t, TypeError, rtErr.Kind)
	assert.True(t, r.Reporter().HadRuntimeError())
	assert.Equal(t, "1\n", stdout.String())
	assert.Equal(t, "Operands must be two numbers or two strings.\n[line 2]: +\n", stderr.String())
}

func TestRunnerNativeFailure(t *testing.T) {
	r, stdout, stderr := newTestRunner(nil)
	r.Interpreter().DefineNative("fail", 0, func(_ *Interpreter, _ []Value) (Value, error) {
		return nil, errors.New("boom")
	})

	err := r.Run("print 1;\nfail();\nprint 2;")

	var rtErr *RuntimeError
	require.True(t, errors.As(err, &rtErr))
	assert.Equal(t, CallError, rtErr.Kind)
	assert.Equal(t, 2, rtErr.Token.Line)
	assert.True(t, r.Reporter().HadRuntimeError())
	assert.Equal(t, "1\n", stdout.String())
	assert.Equal(t, "boom\n[line 2]: )\n", stderr.String())
}

func TestRunnerKeepsGlobalsBetweenRuns(t *testing.T) {
	r, stdout, _ := newTestRunner(nil)

	require.NoError(t, r.Run("var count = 1;"))
	require.NoError(t, r.Run("fun bump() { count = count + 1; return count; }"))
	require.Error(t, r.Run("bump(); undefined;"))
	assert.False(t, r.Reporter().HadError())

	require.NoError(t, r.Run("print bump();"))
	assert.False(t, r.Reporter().HadRuntimeError())
	assert.Equal(t, "3\n", stdout.String())
}

func TestRunnerPrintAST(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PrintAST = true
	r, stdout, _ := newTestRunner(cfg)

	require.NoError(t, r.Run("print 1 + 2;"))
	assert.Equal(t, "(print (+ 1 2))\n3\n", stdout.String())
}

func TestRunnerRunFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.lox")
	require.NoError(t, os.WriteFile(path, []byte("for (var i = 0; i < 3; i = i + 1) print i;\n"), 0o644))

	r, stdout, _ := newTestRunner(nil)
	require.NoError(t, r.RunFile(path))
	assert.Equal(t, "0\n1\n2\n", stdout.String())

	err := r.RunFile(filepath.Join(t.TempDir(), "missing.lox"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestNeedsMoreInput(t *testing.T) {
	cases := []struct {
		data   string
		expect bool
	}{
		{"print 1;", false},
		{"", false},
		{"print 1", true},
		{"fun f() {", true},
		{"fun f() {\n  print 1;", true},
		{"if (x) {\n} else", true},
		{"\"open string", true},
		{"print 1 +;", false},
		{"print ); {", false},
	}

	for _, c := range cases {
		assert.Equal(t, c.expect, NeedsMoreInput(c.data), c.data)
	}
}
