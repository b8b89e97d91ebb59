package sexy

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// InputType represents the type of input code fence in a test case
type InputType string

const (
	// InputTypeProgram holds source text for the syntax package.
	InputTypeProgram InputType = "tac-program"
	// InputTypeTree holds a syntax tree written as an s-expression.
	InputTypeTree InputType = "tac-tree"
)

// AssertionType represents the type of assertion code fence in a test case
type AssertionType string

const (
	// AssertionTypeAST compares the parsed tree against a pattern.
	AssertionTypeAST AssertionType = "ast"
	// AssertionTypeTAC compares the generated listing line by line.
	AssertionTypeTAC AssertionType = "tac"
	// AssertionTypeExecute compares variables after running the listing.
	AssertionTypeExecute AssertionType = "execute"
	// AssertionTypeCompileError expects generation to fail with this message.
	AssertionTypeCompileError AssertionType = "compile-error"
	// AssertionTypeInput is not an assertion: it sets the initial variables
	// for execute.
	AssertionTypeInput AssertionType = "input"
)

// Options is the info string after the fence language, e.g. "strategy=jump"
// in ```tac strategy=jump.
type Options map[string]string

// Assertion represents a single assertion in a test case
type Assertion struct {
	Type       AssertionType
	Content    string
	Options    Options
	ParsedSexy *Node // set for ast assertions
}

// TestCase represents a complete test case extracted from Markdown
type TestCase struct {
	Name       string // heading text after "Test: "
	Input      string
	InputType  InputType
	InputData  string // content of the input fence, if any
	Line       int
	Assertions []Assertion
}

// ExtractTestCases parses a Markdown document and extracts all test cases
func ExtractTestCases(markdownContent string) ([]TestCase, error) {
	source := []byte(markdownContent)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var testCases []TestCase
	var current *TestCase

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := node.(type) {
		case *ast.Heading:
			headingText := extractTextFromNode(n, source)
			if !strings.HasPrefix(headingText, "Test: ") {
				return ast.WalkContinue, nil
			}
			if current != nil {
				if err := validateTestCase(current); err != nil {
					return ast.WalkStop, err
				}
				testCases = append(testCases, *current)
			}
			current = &TestCase{
				Name:       strings.TrimPrefix(headingText, "Test: "),
				Line:       getLineNumber(n, source),
				Assertions: []Assertion{},
			}

		case *ast.FencedCodeBlock:
			language := string(n.Language(source))
			content := extractCodeBlockContent(n, source)
			lineNum := getLineNumber(n, source)

			if current == nil {
				// Plain code blocks may appear anywhere as documentation.
				if language == "" {
					return ast.WalkContinue, nil
				}
				if isInputFence(language) || isAssertionFence(language) {
					return ast.WalkStop, fmt.Errorf("line %d: %s fence found outside of test case", lineNum, language)
				}
				return ast.WalkStop, fmt.Errorf("line %d: unknown fence language '%s' found outside of test case", lineNum, language)
			}

			switch {
			case language == "":
			case isInputFence(language):
				if current.Input != "" {
					return ast.WalkStop, fmt.Errorf("line %d: multiple input fences found in test '%s'", lineNum, current.Name)
				}
				current.Input = strings.TrimRight(content, "\n")
				current.InputType = InputType(language)

			case language == string(AssertionTypeInput):
				if current.InputData != "" {
					return ast.WalkStop, fmt.Errorf("line %d: multiple input fences found in test '%s'", lineNum, current.Name)
				}
				current.InputData = content

			case isAssertionFence(language):
				opts, err := parseOptions(infoOptions(n, source))
				if err != nil {
					return ast.WalkStop, fmt.Errorf("line %d: %w in test '%s'", lineNum, err, current.Name)
				}
				assertion := Assertion{
					Type:    AssertionType(language),
					Content: strings.TrimRight(content, "\n"),
					Options: opts,
				}
				if assertion.Type == AssertionTypeAST {
					parsed, err := Parse(assertion.Content)
					if err != nil {
						return ast.WalkStop, fmt.Errorf("line %d: failed to parse ast assertion in test '%s': %w", lineNum, current.Name, err)
					}
					assertion.ParsedSexy = parsed
				}
				current.Assertions = append(current.Assertions, assertion)

			default:
				return ast.WalkStop, fmt.Errorf("line %d: unknown fence language '%s' in test '%s'", lineNum, language, current.Name)
			}
		}

		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking markdown AST: %w", err)
	}

	if current != nil {
		if err := validateTestCase(current); err != nil {
			return nil, err
		}
		testCases = append(testCases, *current)
	}
	return testCases, nil
}

func extractTextFromNode(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if t, ok := n.(*ast.Text); ok {
				buf.Write(t.Segment.Value(source))
			}
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func extractCodeBlockContent(codeBlock *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	for i := 0; i < codeBlock.Lines().Len(); i++ {
		line := codeBlock.Lines().At(i)
		buf.Write(line.Value(source))
	}
	return buf.String()
}

// infoOptions returns the part of the fence info string after the language.
func infoOptions(codeBlock *ast.FencedCodeBlock, source []byte) string {
	if codeBlock.Info == nil {
		return ""
	}
	info := strings.TrimSpace(string(codeBlock.Info.Segment.Value(source)))
	_, rest, _ := strings.Cut(info, " ")
	return rest
}

func parseOptions(s string) (Options, error) {
	opts := Options{}
	for _, field := range strings.Fields(s) {
		key, value, ok := strings.Cut(field, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("malformed fence option %q", field)
		}
		opts[key] = value
	}
	return opts, nil
}

func isInputFence(language string) bool {
	switch InputType(language) {
	case InputTypeProgram, InputTypeTree:
		return true
	}
	return false
}

func isAssertionFence(language string) bool {
	switch AssertionType(language) {
	case AssertionTypeAST, AssertionTypeTAC, AssertionTypeExecute,
		AssertionTypeCompileError, AssertionTypeInput:
		return true
	}
	return false
}

// validateTestCase ensures a test case has both input and at least one assertion
func validateTestCase(testCase *TestCase) error {
	if testCase.Input == "" {
		return fmt.Errorf("test '%s' has no input fence", testCase.Name)
	}
	if len(testCase.Assertions) == 0 {
		return fmt.Errorf("test '%s' has no assertion fences", testCase.Name)
	}
	return nil
}

func getLineNumber(node ast.Node, source []byte) int {
	if node.Lines().Len() == 0 {
		return 1
	}
	start := node.Lines().At(0).Start
	return bytes.Count(source[:min(start, len(source))], []byte("\n")) + 1
}
