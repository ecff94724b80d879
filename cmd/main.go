package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"github.com/pkg/errors"

	"go.glox.dev/pkg"
)

const (
	exitUsage   = 64
	exitCompile = 65
	exitRuntime = 70
	exitIO      = 74
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("glox", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to a YAML configuration file")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: glox [-config file] [script]")
	}

	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	if fs.NArg() > 1 {
		fs.Usage()
		return exitUsage
	}

	cfg, err := glox.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}

	runner := glox.NewRunner(cfg, os.Stdout, os.Stderr)
	if fs.NArg() == 1 {
		return exitCode(runner.RunFile(fs.Arg(0)))
	}

	return repl(runner, cfg)
}

// exitCode maps a pipeline error to the process exit status. Compile and
// runtime errors have already been reported by the runner.
func exitCode(err error) int {
	if err == nil {
		return 0
	}

	var compileErr *glox.CompileFailure
	var runtimeErr *glox.RuntimeError
	switch {
	case errors.As(err, &compileErr):
		return exitCompile
	case errors.As(err, &runtimeErr):
		return exitRuntime
	default:
		fmt.Fprintln(os.Stderr, err)
		return exitIO
	}
}

func repl(runner *glox.Runner, cfg *glox.Config) int {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := cfg.HistoryPath()
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		src, ok := readInput(ln, cfg.Prompt, cfg.ContinuationPrompt)
		if !ok {
			fmt.Println()
			return 0
		}

		switch strings.TrimSpace(src) {
		case "":
			continue
		case ":quit":
			return 0
		}

		// Errors are reported by the runner; the session goes on with the
		// globals defined so far.
		_ = runner.Run(src)
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
	}
}

// readInput reads lines until they form complete statements. It returns false
// when the input is closed.
func readInput(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		p := prompt
		if b.Len() > 0 {
			p = cont
		}

		line, err := ln.Prompt(p)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		if !glox.NeedsMoreInput(b.String()) {
			return b.String(), true
		}
	}
}
