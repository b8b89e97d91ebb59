package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"github.com/lekdel21/log3210-tp3/ast"
	"github.com/lekdel21/log3210-tp3/config"
	"github.com/lekdel21/log3210-tp3/interp"
	"github.com/lekdel21/log3210-tp3/sexy"
	"github.com/lekdel21/log3210-tp3/tac"
)

func testCompiler(strategy tac.Strategy) *Compiler {
	return &Compiler{
		cfg:      config.Default(),
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		strategy: strategy,
	}
}

func TestSexyAllTests(t *testing.T) {
	testFiles, err := filepath.Glob("test/*_test.md")
	be.Err(t, err, nil)
	be.True(t, len(testFiles) > 0)

	for _, testFile := range testFiles {
		testName := strings.TrimSuffix(filepath.Base(testFile), ".md")

		t.Run(testName, func(t *testing.T) {
			content, err := os.ReadFile(testFile)
			be.Err(t, err, nil)

			testCases, err := sexy.ExtractTestCases(string(content))
			be.Err(t, err, nil)

			for _, tc := range testCases {
				t.Run(tc.Name, func(t *testing.T) {
					for i, assertion := range tc.Assertions {
						t.Run("assertion_"+string(rune('a'+i)), func(t *testing.T) {
							runAssertion(t, tc, assertion)
						})
					}
				})
			}
		})
	}
}

func runAssertion(t *testing.T, tc sexy.TestCase, assertion sexy.Assertion) {
	tree := tc.InputType == sexy.InputTypeTree

	switch assertion.Type {
	case sexy.AssertionTypeAST:
		root, err := testCompiler(tac.FallThrough).Parse([]byte(tc.Input), tree)
		be.Err(t, err, nil)
		got, err := sexy.Parse(ast.ToSExpr(root))
		be.Err(t, err, nil)
		if !matchPattern(got, assertion.ParsedSexy) {
			t.Errorf("tree mismatch\ngot:  %s\nwant: %s", got, assertion.ParsedSexy)
		}

	case sexy.AssertionTypeTAC:
		strategy, err := tac.ParseStrategy(assertion.Options["strategy"])
		be.Err(t, err, nil)
		lines, err := testCompiler(strategy).Compile([]byte(tc.Input), tree)
		be.Err(t, err, nil)
		be.Equal(t, strings.Join(lines, "\n"), assertion.Content)

	case sexy.AssertionTypeExecute:
		env, err := interp.ParseEnv(tc.InputData)
		be.Err(t, err, nil)
		strategies := []tac.Strategy{tac.FallThrough, tac.JumpCode}
		if name, ok := assertion.Options["strategy"]; ok {
			s, err := tac.ParseStrategy(name)
			be.Err(t, err, nil)
			strategies = []tac.Strategy{s}
		}
		for _, strategy := range strategies {
			comp := testCompiler(strategy)
			lines, err := comp.Compile([]byte(tc.Input), tree)
			be.Err(t, err, nil)
			res, err := comp.Run(lines, env)
			be.Err(t, err, nil)
			got := strings.TrimRight(res.Env.Format(comp.IsTemp), "\n")
			be.Equal(t, got, assertion.Content)
		}

	case sexy.AssertionTypeCompileError:
		for _, strategy := range []tac.Strategy{tac.FallThrough, tac.JumpCode} {
			_, err := testCompiler(strategy).Compile([]byte(tc.Input), tree)
			be.Err(t, err, assertion.Content)
		}

	default:
		t.Fatalf("unsupported assertion type: %s", assertion.Type)
	}
}

// matchPattern reports whether node matches pattern. An ellipsis in a list
// pattern matches any number of items, including none.
func matchPattern(node, pattern *sexy.Node) bool {
	if pattern.Type == sexy.NodeEllipsis {
		return true
	}
	if node.Type != pattern.Type {
		return false
	}
	if node.Type != sexy.NodeList {
		return node.Text == pattern.Text
	}
	return matchItems(node.Items, pattern.Items)
}

func matchItems(items, patterns []*sexy.Node) bool {
	if len(patterns) == 0 {
		return len(items) == 0
	}
	if patterns[0].Type == sexy.NodeEllipsis {
		for skip := 0; skip <= len(items); skip++ {
			if matchItems(items[skip:], patterns[1:]) {
				return true
			}
		}
		return false
	}
	if len(items) == 0 || !matchPattern(items[0], patterns[0]) {
		return false
	}
	return matchItems(items[1:], patterns[1:])
}
