package glox

import (
	"fmt"
	"io"
	"strings"
)

// CompileError is reported by the parser and the resolver. Any of them
// prevents the program from running.
type CompileError interface {
	error
	Position() (line int, where string)
}

// SyntaxError is a parse or scan failure. Where is empty for scan errors.
type SyntaxError struct {
	Line    int
	Where   string
	Message string
}

func (e *SyntaxError) Error() string {
	return formatCompileError(e.Line, e.Where, e.Message)
}

func (e *SyntaxError) Position() (int, string) {
	return e.Line, e.Where
}

// ResolutionError is a static scoping failure found by the resolver.
type ResolutionError struct {
	Token   Token
	Message string
}

func (e *ResolutionError) Error() string {
	return formatCompileError(e.Token.Line, locate(e.Token), e.Message)
}

func (e *ResolutionError) Position() (int, string) {
	return e.Token.Line, locate(e.Token)
}

func locate(tok Token) string {
	if tok.Typ == TokenEOF {
		return " at end"
	}

	return fmt.Sprintf(" at '%s'", tok.Lexeme)
}

func formatCompileError(line int, where, message string) string {
	return fmt.Sprintf("[line %d] Error%s: %s", line, where, message)
}

type ErrorKind int

const (
	TypeError ErrorKind = iota
	NameError
	ArityError
	CallError
)

func (k ErrorKind) String() string {
	switch k {
	case TypeError:
		return "type error"
	case NameError:
		return "name error"
	case ArityError:
		return "arity error"
	case CallError:
		return "call error"
	default:
		return "runtime error"
	}
}

// RuntimeError aborts the current Interpret call. Token locates the failure.
type RuntimeError struct {
	Kind    ErrorKind
	Token   Token
	Message string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s\n[line %d]: %s", e.Message, e.Token.Line, e.Token.Lexeme)
}

func runtimeErrorf(kind ErrorKind, tok Token, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{
		Kind:    kind,
		Token:   tok,
		Message: fmt.Sprintf(format, args...),
	}
}

// CompileFailure is returned by the runner when the program was rejected
// before execution.
type CompileFailure struct {
	Errors []CompileError
}

func (f *CompileFailure) Error() string {
	msgs := make([]string, 0, len(f.Errors))
	for _, err := range f.Errors {
		msgs = append(msgs, err.Error())
	}

	return strings.Join(msgs, "\n")
}

// Reporter receives every error the pipeline produces.
type Reporter interface {
	CompileError(err CompileError)
	RuntimeError(err *RuntimeError)
}

// ConsoleReporter prints errors and remembers whether any were seen.
type ConsoleReporter struct {
	out             io.Writer
	hadError        bool
	hadRuntimeError bool
}

func NewConsoleReporter(out io.Writer) *ConsoleReporter {
	return &ConsoleReporter{out: out}
}

func (r *ConsoleReporter) CompileError(err CompileError) {
	fmt.Fprintln(r.out, err.Error())
	r.hadError = true
}

func (r *ConsoleReporter) RuntimeError(err *RuntimeError) {
	fmt.Fprintln(r.out, err.Error())
	r.hadRuntimeError = true
}

func (r *ConsoleReporter) HadError() bool {
	return r.hadError
}

func (r *ConsoleReporter) HadRuntimeError() bool {
	return r.hadRuntimeError
}

// Reset clears the flags between REPL inputs.
func (r *ConsoleReporter) Reset() {
	r.hadError = false
	r.hadRuntimeError = false
}
