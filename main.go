package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/samber/do"

	"github.com/lekdel21/log3210-tp3/ast"
	"github.com/lekdel21/log3210-tp3/config"
	"github.com/lekdel21/log3210-tp3/interp"
	"github.com/lekdel21/log3210-tp3/llvm"
	"github.com/lekdel21/log3210-tp3/syntax"
	"github.com/lekdel21/log3210-tp3/tac"
)

// Compiler runs the pipeline: source or tree, listing, then execution or
// LLVM IR.
type Compiler struct {
	cfg      *config.Config
	log      *slog.Logger
	strategy tac.Strategy
}

// Options are the command-line settings that take part in building the
// injector. Empty fields fall back to tac.toml.
type Options struct {
	ConfigPath string
	SearchDir  string // start of the upward search for tac.toml
	Strategy   string
	Verbose    bool
	LogOutput  io.Writer
}

// newInjector registers the services shared by all commands.
func newInjector(opts Options) *do.Injector {
	i := do.New()

	do.ProvideValue(i, opts)

	do.Provide(i, func(i *do.Injector) (*slog.Logger, error) {
		opts := do.MustInvoke[Options](i)
		out := opts.LogOutput
		if out == nil {
			out = os.Stderr
		}
		level := slog.LevelWarn
		if opts.Verbose {
			level = slog.LevelDebug
		}
		return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})), nil
	})

	do.Provide(i, func(i *do.Injector) (*config.Config, error) {
		opts := do.MustInvoke[Options](i)
		log := do.MustInvoke[*slog.Logger](i)
		if opts.ConfigPath != "" {
			return config.Load(opts.ConfigPath)
		}
		dir := opts.SearchDir
		if dir == "" {
			dir = "."
		}
		cfg, path, err := config.Resolve(dir)
		if err != nil {
			return nil, err
		}
		if path != "" {
			log.Debug("loaded config", "path", path)
		}
		return cfg, nil
	})

	do.Provide(i, func(i *do.Injector) (*Compiler, error) {
		opts := do.MustInvoke[Options](i)
		cfg, err := do.Invoke[*config.Config](i)
		if err != nil {
			return nil, err
		}
		name := cfg.Strategy
		if opts.Strategy != "" {
			name = opts.Strategy
		}
		strategy, err := tac.ParseStrategy(name)
		if err != nil {
			return nil, err
		}
		return &Compiler{
			cfg:      cfg,
			log:      do.MustInvoke[*slog.Logger](i),
			strategy: strategy,
		}, nil
	})

	return i
}

// Parse reads a program. When tree is set the input is an s-expression
// syntax tree instead of source text.
func (c *Compiler) Parse(input []byte, tree bool) (*ast.Node, error) {
	if tree {
		root, err := ast.ParseSExpr(string(input))
		if err != nil {
			return nil, fmt.Errorf("syntax tree: %w", err)
		}
		return root, nil
	}

	l := syntax.NewLexer(input)
	l.NextToken()
	root := syntax.ParseProgram(l)
	if l.Errors.HasErrors() {
		return nil, fmt.Errorf("parsing errors:\n%s", l.Errors.String())
	}
	c.log.Debug("parsed", "ast", ast.ToSExpr(root))
	return root, nil
}

// Generate translates a tree into a listing.
func (c *Compiler) Generate(root *ast.Node) ([]string, error) {
	return tac.Generate(root,
		tac.WithStrategy(c.strategy),
		tac.WithNames(c.cfg.Names.TempPrefix, c.cfg.Names.LabelPrefix),
		tac.WithLogger(c.log))
}

// GenerateTo writes the listing to w line by line. On a translation error
// the lines emitted before it are still written.
func (c *Compiler) GenerateTo(w io.Writer, root *ast.Node) error {
	sink := tac.NewWriterSink(w)
	t := tac.New(sink,
		tac.WithStrategy(c.strategy),
		tac.WithNames(c.cfg.Names.TempPrefix, c.cfg.Names.LabelPrefix),
		tac.WithLogger(c.log))
	err := t.Translate(root)
	if flushErr := sink.Flush(); err == nil {
		err = flushErr
	}
	return err
}

// Compile parses and translates in one step.
func (c *Compiler) Compile(input []byte, tree bool) ([]string, error) {
	root, err := c.Parse(input, tree)
	if err != nil {
		return nil, err
	}
	return c.Generate(root)
}

// Run executes a listing from the given initial variables.
func (c *Compiler) Run(lines []string, env interp.Env) (*interp.Result, error) {
	res, err := interp.Run(lines, env, c.cfg.Run.MaxSteps)
	if res != nil {
		c.log.Debug("executed", "steps", res.Steps, "labels", len(res.Trace))
	}
	return res, err
}

// LLVM lowers a listing to LLVM assembly.
func (c *Compiler) LLVM(lines []string) (string, error) {
	return llvm.Emit(lines)
}

// IsTemp reports whether name is a generated temporary.
func (c *Compiler) IsTemp(name string) bool {
	return strings.HasPrefix(name, c.cfg.Names.TempPrefix)
}
