// Package conformance represents spec §8's concrete end-to-end parse
// scenarios as YAML-loaded fixtures, rather than only as ad-hoc Go test
// literals, so they can be kept as data and run by the CLI's
// conformance mode. The package's own tests build their Scenario values
// in Go and do not read the fixture file. Grounded on the teacher's pkg/testspec: a TestSpec
// loaded from (possibly multi-document) YAML, defaulted, and validated
// before use.
package conformance

import "fmt"

// Scenario is one fixture: a source text to parse, optional parser
// options overrides, and the shape the resulting AST (or error) must
// have.
type Scenario struct {
	// Name identifies the scenario in failure output.
	Name string `yaml:"name"`
	// Source is the Papyrus source text to parse.
	Source string `yaml:"source"`
	// Filename is passed to parser.Parse as the optional filename
	// (defaults to Name+".psc" — see ApplyDefaults).
	Filename string `yaml:"filename,omitempty"`
	// Options overrides parser.DefaultOptions() selectively; nil fields
	// keep the default.
	Options *OptionsOverride `yaml:"options,omitempty"`

	// ExpectError, when true, means parsing must fail; Expect is ignored.
	ExpectError bool `yaml:"expect_error,omitempty"`
	// ErrorKind, if set, must match the resulting parser.Error.Kind
	// (only checked when ExpectError is true).
	ErrorKind string `yaml:"error_kind,omitempty"`

	// Expect describes the shape a successful parse's Program must have.
	Expect Expectation `yaml:"expect,omitempty"`
}

// OptionsOverride mirrors parser.Options with pointer fields so a
// scenario can leave most options at their default.
type OptionsOverride struct {
	ThrowScriptnameMissing  *bool `yaml:"throw_scriptname_missing,omitempty"`
	ThrowScriptnameMismatch *bool `yaml:"throw_scriptname_mismatch,omitempty"`
	ThrowReturnOutside      *bool `yaml:"throw_return_outside,omitempty"`
	ThrowIfOutside          *bool `yaml:"throw_if_outside,omitempty"`
	ThrowWhileOutside       *bool `yaml:"throw_while_outside,omitempty"`
	ThrowBinaryOutside      *bool `yaml:"throw_binary_outside,omitempty"`
	ThrowCallOutside        *bool `yaml:"throw_call_outside,omitempty"`
	ThrowCastOutside        *bool `yaml:"throw_cast_outside,omitempty"`
	ThrowNewOutside         *bool `yaml:"throw_new_outside,omitempty"`
}

// Expectation is a small set of shape assertions against a parsed
// Program, deliberately far short of a full AST comparison: spec §8's
// scenarios describe salient fields ("a FunctionStatement with kind=Int
// and no flags"), not entire trees.
type Expectation struct {
	// ScriptName, if set, must equal the program's ScriptNameStatement.ID.Name.
	ScriptName string `yaml:"script_name,omitempty"`
	// BodyLen, if set, must equal len(Program.Body).
	BodyLen *int `yaml:"body_len,omitempty"`
	// HasFunction, if set, must name a FunctionStatement present
	// somewhere in the program (top level or inside a State).
	HasFunction string `yaml:"has_function,omitempty"`
	// HasEvent, if set, must name an EventStatement present somewhere in
	// the program.
	HasEvent string `yaml:"has_event,omitempty"`
}

// ApplyDefaults fills in fields a fixture author can reasonably omit.
func (s *Scenario) ApplyDefaults() {
	if s.Filename == "" {
		s.Filename = s.Name + ".psc"
	}
}

// Validate checks that a Scenario is well-formed before it is used.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("scenario name is required")
	}
	if s.Source == "" {
		return fmt.Errorf("scenario %q: source is required", s.Name)
	}
	return nil
}
