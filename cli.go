package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/do"

	"github.com/lekdel21/log3210-tp3/ast"
	"github.com/lekdel21/log3210-tp3/config"
	"github.com/lekdel21/log3210-tp3/interp"
)

func showUsage() {
	fmt.Fprintf(os.Stderr, `tac - three-address code generator

Usage:
    tac <command> [arguments]

Commands:
    gen <file>      Translate a program to three-address code
    eval <code>     Translate inline source code
    run <file>      Translate and execute, then print the variables
    ast <file>      Print the syntax tree as an s-expression
    check <file>    Parse and translate without printing
    llvm <file>     Translate and lower to LLVM IR
    init [dir]      Write a default tac.toml
    help            Show this help message

Examples:
    tac gen examples/loop.tac
    tac gen -strategy jump -o loop.txt examples/loop.tac
    tac gen -tree examples/assign.sexpr
    tac eval 'num x; x = 2 + 3 * 4;'
    tac run -input env.txt examples/loop.tac

Settings are read from the nearest tac.toml above the input file.
Use "tac <command> -h" for more information about a command.
`)
}

// commonFlags are shared by every command that reads a program.
type commonFlags struct {
	strategy *string
	config   *string
	tree     *bool
	verbose  *bool
}

func newFlagSet(name, args, summary string) (*flag.FlagSet, *commonFlags) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	c := &commonFlags{
		strategy: fs.String("strategy", "", `Boolean layout, "fall" or "jump" (default from tac.toml, else fall)`),
		config:   fs.String("config", "", "Path to tac.toml (default: search upward from the input)"),
		tree:     fs.Bool("tree", false, "Input is an s-expression syntax tree"),
		verbose:  fs.Bool("v", false, "Show verbose compilation details"),
	}
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: tac %s [flags] %s\n", name, args)
		fmt.Fprintf(os.Stderr, "%s\n\n", summary)
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}
	return fs, c
}

// parseArgs parses the flags and returns the single positional argument.
func parseArgs(fs *flag.FlagSet, args []string, what string) string {
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one %s argument\n", what)
		fs.Usage()
		os.Exit(1)
	}
	return fs.Arg(0)
}

func (c *commonFlags) compiler(searchDir string) *Compiler {
	i := newInjector(Options{
		ConfigPath: *c.config,
		SearchDir:  searchDir,
		Strategy:   *c.strategy,
		Verbose:    *c.verbose,
	})
	comp, err := do.Invoke[*Compiler](i)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}
	return comp
}

func readInput(filename string) []byte {
	sourceBytes, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file %s: %v\n", filename, err)
		os.Exit(1)
	}
	return sourceBytes
}

// compileFile reads, parses and translates filename, exiting on failure.
func compileFile(comp *Compiler, filename string, tree bool) []string {
	lines, err := comp.Compile(readInput(filename), tree)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Compilation failed: %v\n", err)
		os.Exit(1)
	}
	return lines
}

func genCommand(args []string) {
	fs, common := newFlagSet("gen", "<file>", "Translate a program to three-address code")
	output := fs.String("o", "", "Output file path (default: standard output)")
	filename := parseArgs(fs, args, "file")

	comp := common.compiler(filepath.Dir(filename))
	root, err := comp.Parse(readInput(filename), *common.tree)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Compilation failed: %v\n", err)
		os.Exit(1)
	}

	var w io.Writer = os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating %s: %v\n", *output, err)
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}

	if err := comp.GenerateTo(w, root); err != nil {
		fmt.Fprintf(os.Stderr, "Compilation failed: %v\n", err)
		os.Exit(1)
	}
	if *output != "" && *common.verbose {
		fmt.Fprintf(os.Stderr, "Generated %s\n", *output)
	}
}

func evalCommand(args []string) {
	fs, common := newFlagSet("eval", "<code>", "Translate inline source code")
	code := parseArgs(fs, args, "code")

	comp := common.compiler(".")
	lines, err := comp.Compile([]byte(code), *common.tree)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Compilation failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Print(strings.Join(lines, "\n") + "\n")
}

func runCommand(args []string) {
	fs, common := newFlagSet("run", "<file>", "Translate and execute, then print the variables")
	input := fs.String("input", "", `File of "name = value" lines giving initial variables`)
	temps := fs.Bool("temps", false, "Also print temporaries")
	trace := fs.Bool("trace", false, "Print the labels passed, in order")
	filename := parseArgs(fs, args, "file")

	comp := common.compiler(filepath.Dir(filename))
	lines := compileFile(comp, filename, *common.tree)

	env := interp.Env{}
	if *input != "" {
		var err error
		env, err = interp.ParseEnv(string(readInput(*input)))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", *input, err)
			os.Exit(1)
		}
	}

	res, err := comp.Run(lines, env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Execution failed: %v\n", err)
		os.Exit(1)
	}
	if *trace {
		fmt.Printf("trace: %s\n", strings.Join(res.Trace, " "))
	}
	skip := comp.IsTemp
	if *temps {
		skip = nil
	}
	fmt.Print(res.Env.Format(skip))
}

func astCommand(args []string) {
	fs, common := newFlagSet("ast", "<file>", "Print the syntax tree as an s-expression")
	filename := parseArgs(fs, args, "file")

	comp := common.compiler(filepath.Dir(filename))
	root, err := comp.Parse(readInput(filename), *common.tree)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Parsing failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(ast.ToSExpr(root))
}

func checkCommand(args []string) {
	fs, common := newFlagSet("check", "<file>", "Parse and translate without printing")
	filename := parseArgs(fs, args, "file")

	if *common.verbose {
		fmt.Printf("Checking %s...\n", filename)
	}
	comp := common.compiler(filepath.Dir(filename))
	lines := compileFile(comp, filename, *common.tree)
	fmt.Printf("%s: no errors found\n", filename)

	if *common.verbose {
		fmt.Printf("%d lines of three-address code\n", len(lines))
	}
}

func llvmCommand(args []string) {
	fs, common := newFlagSet("llvm", "<file>", "Translate and lower to LLVM IR")
	output := fs.String("o", "", "Output file path (default: <filename>.ll)")
	filename := parseArgs(fs, args, "file")

	comp := common.compiler(filepath.Dir(filename))
	lines := compileFile(comp, filename, *common.tree)

	ir, err := comp.LLVM(lines)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Lowering failed: %v\n", err)
		os.Exit(1)
	}

	outputFile := *output
	if outputFile == "" {
		outputFile = strings.TrimSuffix(filename, filepath.Ext(filename)) + ".ll"
	}
	if err := os.WriteFile(outputFile, []byte(ir), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", outputFile, err)
		os.Exit(1)
	}
	fmt.Printf("Generated %s (%d bytes)\n", outputFile, len(ir))
}

func initCommand(args []string) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	force := fs.Bool("force", false, "Overwrite an existing tac.toml")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: tac init [flags] [dir]\n")
		fmt.Fprintf(os.Stderr, "Write a default tac.toml (default dir: current directory)\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	dir := "."
	switch fs.NArg() {
	case 0:
	case 1:
		dir = fs.Arg(0)
	default:
		fs.Usage()
		os.Exit(1)
	}

	path, err := config.Init(dir, *force)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", path)
}

func main() {
	if len(os.Args) < 2 {
		showUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "gen":
		genCommand(args)
	case "eval":
		evalCommand(args)
	case "run":
		runCommand(args)
	case "ast":
		astCommand(args)
	case "check":
		checkCommand(args)
	case "llvm":
		llvmCommand(args)
	case "init":
		initCommand(args)
	case "help", "-h", "--help":
		showUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		showUsage()
		os.Exit(1)
	}
}
