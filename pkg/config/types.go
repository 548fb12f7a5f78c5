package config

// Profile represents a named parser.Options preset loaded from YAML, so
// a batch-parse invocation can pin one instead of re-specifying spec
// §6.1's nine boolean flags on every call.
type Profile struct {
	// Name identifies the profile for -profile lookups.
	Name string `yaml:"name"`
	// ThrowScriptnameMissing requires the first statement to be ScriptName.
	ThrowScriptnameMissing *bool `yaml:"throw_scriptname_missing,omitempty"`
	// ThrowScriptnameMismatch requires ScriptName to match the filename.
	ThrowScriptnameMismatch *bool `yaml:"throw_scriptname_mismatch,omitempty"`
	// ThrowReturnOutside rejects Return outside Function/Event.
	ThrowReturnOutside *bool `yaml:"throw_return_outside,omitempty"`
	// ThrowIfOutside rejects If outside Function/Event.
	ThrowIfOutside *bool `yaml:"throw_if_outside,omitempty"`
	// ThrowWhileOutside rejects While outside Function/Event.
	ThrowWhileOutside *bool `yaml:"throw_while_outside,omitempty"`
	// ThrowBinaryOutside rejects binary/logical expressions outside Function/Event.
	ThrowBinaryOutside *bool `yaml:"throw_binary_outside,omitempty"`
	// ThrowCallOutside rejects call expressions outside Function/Event.
	ThrowCallOutside *bool `yaml:"throw_call_outside,omitempty"`
	// ThrowCastOutside rejects cast expressions outside Function/Event.
	ThrowCastOutside *bool `yaml:"throw_cast_outside,omitempty"`
	// ThrowNewOutside rejects New outside Function/Event.
	ThrowNewOutside *bool `yaml:"throw_new_outside,omitempty"`
}

// Config is the top-level YAML document: a set of named profiles plus
// the one to apply when none is named explicitly on the command line.
type Config struct {
	// DefaultProfile names the Profiles entry used when -profile is omitted.
	DefaultProfile string `yaml:"default_profile,omitempty"`
	// Profiles is the set of named parser.Options presets.
	Profiles []Profile `yaml:"profiles"`
	// ScriptDirs lists script search directories, in order. It is decoded
	// and kept on Config; nothing in this module passes it on to
	// pkg/scriptloader.
	ScriptDirs []string `yaml:"script_dirs,omitempty"`
}
