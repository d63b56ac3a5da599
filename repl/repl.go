// Package repl implements the interactive read-eval-print loop: a
// `Zox REPL` banner, a `>>> ` prompt, line-at-a-time lex/parse/eval,
// `exit`/EOF termination, and a small dot-command surface
// (`.clear`/`.debug`/`.help`).
package repl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/zokis/zox/config"
	"github.com/zokis/zox/eval"
	"github.com/zokis/zox/lexer"
	"github.com/zokis/zox/parser"
	"github.com/zokis/zox/stdlib"
	"github.com/zokis/zox/token"
	"github.com/zokis/zox/value"
	"github.com/zokis/zox/zerr"
)

const banner = "Zox REPL\n"

// REPL holds one interactive session's state across lines.
type REPL struct {
	in        *bufio.Scanner
	out       io.Writer
	cfg       config.Config
	interp    *eval.Interpreter
	sessionID uuid.UUID
	history   io.WriteCloser
	debug     bool
}

// New creates a REPL reading from in and writing to out, bootstrapped
// with the default native module catalog plus whatever modules cfg asks
// to have preloaded before the first prompt.
func New(in io.Reader, out io.Writer, cfg config.Config) (*REPL, error) {
	interp, err := stdlib.Bootstrap(nil)
	if err != nil {
		return nil, err
	}
	for _, module := range cfg.PreloadModules {
		if err := preloadModule(interp, module); err != nil {
			return nil, fmt.Errorf("preloading module %q: %w", module, err)
		}
	}
	r := &REPL{
		in:        bufio.NewScanner(in),
		out:       out,
		cfg:       cfg,
		interp:    interp,
		sessionID: uuid.New(),
	}
	r.openHistory()
	return r, nil
}

// openHistory opens the configured history file for appending, writing a
// session marker so entries can be correlated with one interactive run.
// History is a convenience; an unwritable file just disables it.
func (r *REPL) openHistory() {
	if r.cfg.HistoryFile == "" {
		return
	}
	f, err := os.OpenFile(r.cfg.HistoryFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return
	}
	fmt.Fprintf(f, "-# session %s\n", r.sessionID)
	r.history = f
}

func (r *REPL) recordHistory(line string) {
	if r.history == nil {
		return
	}
	fmt.Fprintln(r.history, line)
}

// preloadModule runs a bare `~> name;` import against interp's global
// environment, binding the whole module under its own name exactly as a
// user-typed import would.
func preloadModule(interp *eval.Interpreter, name string) error {
	src := "~> " + name + ";"
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		return err
	}
	p := parser.New(tokens, src, "<preload>")
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		return errs[0]
	}
	_, err = interp.Run(prog)
	return err
}

// Run drives the loop until `exit`, EOF, or an unrecoverable read error.
func (r *REPL) Run() {
	defer r.closeHistory()
	fmt.Fprint(r.out, banner)
	for {
		fmt.Fprint(r.out, r.cfg.Prompt)
		if !r.in.Scan() {
			return
		}
		line := strings.TrimSpace(r.in.Text())

		if line == "" || line == ";" {
			continue
		}
		if line == "exit" {
			return
		}
		if strings.HasPrefix(line, ".") {
			r.handleCommand(line)
			continue
		}

		r.recordHistory(line)
		r.evalLine(line)
	}
}

func (r *REPL) closeHistory() {
	if r.history != nil {
		r.history.Close()
		r.history = nil
	}
}

func (r *REPL) handleCommand(line string) {
	switch line {
	case ".clear":
		interp, err := stdlib.Bootstrap(nil)
		if err != nil {
			fmt.Fprintf(r.out, "error resetting session: %s\n", err)
			return
		}
		r.interp = interp
		fmt.Fprintln(r.out, "environment cleared")
	case ".debug":
		r.debug = !r.debug
		state := "off"
		if r.debug {
			state = "on"
		}
		fmt.Fprintf(r.out, "debug mode: %s (session %s)\n", state, r.sessionID)
	case ".help":
		r.printHelp()
	default:
		fmt.Fprintf(r.out, "unknown command: %s (try .help)\n", line)
	}
}

func (r *REPL) printHelp() {
	fmt.Fprintln(r.out, "commands:")
	fmt.Fprintln(r.out, "  exit    quit the REPL")
	fmt.Fprintln(r.out, "  .clear  reset the session environment")
	fmt.Fprintln(r.out, "  .debug  toggle token/AST dump before evaluation")
	fmt.Fprintln(r.out, "  .help   show this message")
}

func (r *REPL) evalLine(line string) {
	tokens, err := lexer.Tokenize(line)
	if err != nil {
		fmt.Fprintln(r.out, err.Error())
		return
	}
	if r.debug {
		r.dumpTokens(tokens)
	}

	p := parser.New(tokens, line, "<repl>")
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		fmt.Fprintln(r.out, zerr.FormatErrors(errs, false))
		return
	}
	if r.debug {
		fmt.Fprintln(r.out, prog.String())
	}

	result, err := r.interp.Run(prog)
	if err != nil {
		fmt.Fprintln(r.out, err.Error())
		return
	}
	if _, isNil := result.(value.NilVal); !isNil {
		fmt.Fprintln(r.out, result.Inspect())
	}
}

func (r *REPL) dumpTokens(tokens []token.Token) {
	for _, t := range tokens {
		fmt.Fprintln(r.out, t.String())
	}
}
