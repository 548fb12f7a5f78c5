package conformance

import (
	"fmt"

	"github.com/clayne/papyrus-parser/pkg/ast"
	"github.com/clayne/papyrus-parser/pkg/parser"
)

// Result is the outcome of checking one Scenario, in the teacher's
// pkg/assertion.Result{Passed, Errors} shape.
type Result struct {
	Name   string
	Passed bool
	Errors []string
}

// toOptions converts an OptionsOverride into parser.Options, starting
// from parser.DefaultOptions() the same way config.Profile.ToOptions
// does for its profiles.
func (o *OptionsOverride) toOptions() parser.Options {
	opts := parser.DefaultOptions()
	if o == nil {
		return opts
	}
	applyBool(&opts.ThrowScriptnameMissing, o.ThrowScriptnameMissing)
	applyBool(&opts.ThrowScriptnameMismatch, o.ThrowScriptnameMismatch)
	applyBool(&opts.ThrowReturnOutside, o.ThrowReturnOutside)
	applyBool(&opts.ThrowIfOutside, o.ThrowIfOutside)
	applyBool(&opts.ThrowWhileOutside, o.ThrowWhileOutside)
	applyBool(&opts.ThrowBinaryOutside, o.ThrowBinaryOutside)
	applyBool(&opts.ThrowCallOutside, o.ThrowCallOutside)
	applyBool(&opts.ThrowCastOutside, o.ThrowCastOutside)
	applyBool(&opts.ThrowNewOutside, o.ThrowNewOutside)
	return opts
}

func applyBool(dst *bool, override *bool) {
	if override != nil {
		*dst = *override
	}
}

// Check parses s.Source under s.Filename/s.Options and verifies the
// outcome against s.ExpectError/s.ErrorKind or s.Expect.
func Check(s Scenario) *Result {
	result := &Result{Name: s.Name, Passed: true}

	program, err := parser.ParseWithOptions(s.Source, s.Filename, s.Options.toOptions())

	if s.ExpectError {
		checkExpectedError(s, err, result)
		return result
	}

	if err != nil {
		result.Passed = false
		result.Errors = append(result.Errors, fmt.Sprintf("unexpected parse error: %v", err))
		return result
	}

	checkExpectation(s.Expect, program, result)
	return result
}

func checkExpectedError(s Scenario, err error, result *Result) {
	if err == nil {
		result.Passed = false
		result.Errors = append(result.Errors, "expected a parse error but parsing succeeded")
		return
	}
	if s.ErrorKind == "" {
		return
	}
	perr, ok := err.(*parser.Error)
	if !ok {
		result.Passed = false
		result.Errors = append(result.Errors, fmt.Sprintf("error %v is not a *parser.Error", err))
		return
	}
	if string(perr.Kind) != s.ErrorKind {
		result.Passed = false
		result.Errors = append(result.Errors, fmt.Sprintf("error kind = %q, want %q", perr.Kind, s.ErrorKind))
	}
}

func checkExpectation(exp Expectation, program *ast.Program, result *Result) {
	if exp.ScriptName != "" {
		name := programScriptName(program)
		if name != exp.ScriptName {
			result.Passed = false
			result.Errors = append(result.Errors, fmt.Sprintf("script name = %q, want %q", name, exp.ScriptName))
		}
	}

	if exp.BodyLen != nil && len(program.Body) != *exp.BodyLen {
		result.Passed = false
		result.Errors = append(result.Errors, fmt.Sprintf("len(Program.Body) = %d, want %d", len(program.Body), *exp.BodyLen))
	}

	if exp.HasFunction != "" && !hasFunction(program, exp.HasFunction) {
		result.Passed = false
		result.Errors = append(result.Errors, fmt.Sprintf("no FunctionStatement named %q found", exp.HasFunction))
	}

	if exp.HasEvent != "" && !hasEvent(program, exp.HasEvent) {
		result.Passed = false
		result.Errors = append(result.Errors, fmt.Sprintf("no EventStatement named %q found", exp.HasEvent))
	}
}

func programScriptName(program *ast.Program) string {
	for _, node := range program.Body {
		if sn, ok := node.(*ast.ScriptNameStatement); ok {
			return sn.ID.Name
		}
	}
	return ""
}

func hasFunction(program *ast.Program, name string) bool {
	for _, node := range program.Body {
		switch n := node.(type) {
		case *ast.FunctionStatement:
			if n.ID.Name == name {
				return true
			}
		case *ast.StateStatement:
			for _, child := range n.Body.Body {
				if fn, ok := child.(*ast.FunctionStatement); ok && fn.ID.Name == name {
					return true
				}
			}
		}
	}
	return false
}

func hasEvent(program *ast.Program, name string) bool {
	for _, node := range program.Body {
		switch n := node.(type) {
		case *ast.EventStatement:
			if n.ID.Name == name {
				return true
			}
		case *ast.StateStatement:
			for _, child := range n.Body.Body {
				if ev, ok := child.(*ast.EventStatement); ok && ev.ID.Name == name {
					return true
				}
			}
		}
	}
	return false
}
