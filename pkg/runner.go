package glox

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// Runner drives source text through scanning, parsing, resolution and
// execution. One Runner keeps one interpreter, so globals survive between
// calls to Run.
type Runner struct {
	cfg      *Config
	stdout   io.Writer
	reporter *ConsoleReporter
	interp   *Interpreter
	log      *slog.Logger
}

func NewRunner(cfg *Config, stdout, stderr io.Writer) *Runner {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	return &Runner{
		cfg:      cfg,
		stdout:   stdout,
		reporter: NewConsoleReporter(stderr),
		interp:   NewInterpreter(stdout, logger),
		log:      logger,
	}
}

func (r *Runner) Interpreter() *Interpreter {
	return r.interp
}

func (r *Runner) Reporter() *ConsoleReporter {
	return r.reporter
}

func (r *Runner) RunFile(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return errors.Wrapf(err, "open %s", filename)
	}
	defer file.Close()

	return r.run(NewNamedLexer(filename, file))
}

func (r *Runner) RunReader(reader io.Reader) error {
	return r.run(NewLexer(reader))
}

func (r *Runner) Run(source string) error {
	return r.run(NewLexer(strings.NewReader(source)))
}

// run returns a *CompileFailure when the program is rejected and a
// *RuntimeError when it fails while executing. Both are also reported.
func (r *Runner) run(tokenizer Tokenizer) error {
	r.reporter.Reset()

	ast := NewParser(tokenizer).Run()
	r.log.Debug("Parsed",
		slog.String("file", ast.Filename),
		slog.Int("statements", len(ast.Statements)),
		slog.Int("errors", len(ast.Errors)))

	if len(ast.Errors) != 0 {
		return r.reject(ast.Errors)
	}

	if r.cfg.PrintAST {
		fmt.Fprint(r.stdout, Print(ast.Statements))
	}

	if errs := NewResolver(r.interp).Resolve(ast.Statements); len(errs) != 0 {
		return r.reject(errs)
	}

	if err := r.interp.Interpret(ast.Statements); err != nil {
		var rtErr *RuntimeError
		if errors.As(err, &rtErr) {
			r.reporter.RuntimeError(rtErr)
		}

		return err
	}

	return nil
}

func (r *Runner) reject(errs []CompileError) error {
	for _, err := range errs {
		r.reporter.CompileError(err)
	}

	return &CompileFailure{Errors: errs}
}

// NeedsMoreInput reports whether source stops in the middle of a statement,
// which is the case when every syntax error sits at the end of input.
func NeedsMoreInput(source string) bool {
	ast := NewParser(NewLexer(strings.NewReader(source))).Run()
	if len(ast.Errors) == 0 {
		return false
	}

	for _, err := range ast.Errors {
		if _, where := err.Position(); where == " at end" || isUnterminatedString(err) {
			continue
		}

		return false
	}

	return true
}

func isUnterminatedString(err CompileError) bool {
	var syn *SyntaxError
	return errors.As(err, &syn) && syn.Where == "" && syn.Message == "Unterminated string."
}
