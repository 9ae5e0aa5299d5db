package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	"github.com/jorisshh/testlang/ast"
	"github.com/jorisshh/testlang/codegen"
	"github.com/jorisshh/testlang/irsink"
	"github.com/jorisshh/testlang/lexer"
	"github.com/jorisshh/testlang/parser"
	"github.com/jorisshh/testlang/source"
)

// outputPath is the fixed relative path the compiler always writes generated
// IR to; it is overwritten on every run.
const outputPath = "../ir_output.ll"

const (
	colorYellow = "\033[33m"
	colorReset  = "\033[0m"
)

// compileCmd runs the full lex -> parse -> codegen pipeline over one source
// file (adapted from the teacher's runCmd, which wired the same three stages
// against the bytecode compiler instead of LLVM).
type compileCmd struct {
	verbose bool
}

func (*compileCmd) Name() string     { return "compile" }
func (*compileCmd) Synopsis() string { return "Compile a source file to LLVM IR" }
func (*compileCmd) Usage() string {
	return `compile <entry-file>:
  Lex, parse, and generate LLVM IR for a single source file, writing the
  result to ../ir_output.ll.
`
}

func (c *compileCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.verbose, "verbose", true, "print the lexer and parser dumps to standard output")
}

func (c *compileCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "💥 entry file not provided\n")
		return subcommands.ExitStatus(-1)
	}
	entryFile := args[0]

	start := time.Now()
	fmt.Printf("Starting compilation of %s\n", entryFile)

	provider := source.NewFileProvider(entryFile)
	data, err := provider.Read()
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 failed to read %s: %v\n", entryFile, err)
		return subcommands.ExitFailure
	}

	lx := lexer.New(string(data))
	tokens := lx.Scan()
	for _, lexErr := range lx.Errors() {
		fmt.Fprintln(os.Stderr, lexErr)
	}
	if c.verbose {
		for _, tok := range tokens {
			fmt.Println(tok.String())
		}
	}

	p := parser.New(tokens)
	roots, err := p.Parse()
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 parse error: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.verbose {
		dump, err := ast.PrintJSON(roots)
		if err == nil {
			fmt.Println(colorYellow + "----- AST JSON -----")
			fmt.Println(colorYellow + dump)
			fmt.Println(colorYellow + "-----" + colorReset)
		}
	}

	ctx := codegen.New(entryFile)
	defer ctx.Dispose()
	if err := codegen.Generate(ctx, roots); err != nil {
		fmt.Fprintf(os.Stderr, "💥 codegen error: %v\n", err)
		return subcommands.ExitFailure
	}

	sink := irsink.NewFileSink(outputPath)
	if err := sink.Write(ctx.String()); err != nil {
		fmt.Fprintf(os.Stderr, "💥 failed to write %s: %v\n", outputPath, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("compile time: %dms\n", time.Since(start).Milliseconds())
	return subcommands.ExitSuccess
}
