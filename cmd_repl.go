package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/chzyer/readline"
	"github.com/google/subcommands"

	"github.com/jorisshh/testlang/interpreter"
	"github.com/jorisshh/testlang/lexer"
	"github.com/jorisshh/testlang/parser"
)

// replCmd is a line-by-line lex/parse/dry-run-eval loop for iterating on the
// front end without an LLVM toolchain installed (adapted from the teacher's
// replCmd, swapping its bufio.Scanner loop for readline so history and line
// editing come for free).
type replCmd struct{}

func (*replCmd) Name() string     { return "repl" }
func (*replCmd) Synopsis() string { return "Start an interactive lex/parse/eval session" }
func (*replCmd) Usage() string {
	return `repl:
  Start an interactive session. Each line is lexed, parsed, and evaluated by
  the debug evaluator; type "exit" to quit.
`
}
func (*replCmd) SetFlags(_ *flag.FlagSet) {}

func (*replCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	fmt.Println("\n\nlanguage repl")
	rl, err := readline.New(">>> ")
	if err != nil {
		fmt.Println(err)
		return subcommands.ExitFailure
	}
	defer rl.Close()

	interp := interpreter.Make()
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return subcommands.ExitSuccess
		}
		if err != nil {
			fmt.Println(err)
			return subcommands.ExitFailure
		}
		if line == "exit" {
			return subcommands.ExitSuccess
		}
		if line == "" {
			continue
		}

		lx := lexer.New(line)
		tokens := lx.Scan()
		for _, lexErr := range lx.Errors() {
			fmt.Println(lexErr)
		}

		p := parser.New(tokens)
		roots, err := p.Parse()
		if err != nil {
			fmt.Println(err)
			continue
		}
		interp.Interpret(roots)
	}
}
