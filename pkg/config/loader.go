// Package config loads named parser.Options presets from YAML, in the
// Load/validate/applyDefaults shape the teacher repo uses for its own
// daemon configuration.
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/clayne/papyrus-parser/pkg/parser"
)

// Load reads and parses a YAML profile file.
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

// validate checks that required fields are present and valid.
func validate(cfg *Config) error {
	if len(cfg.Profiles) == 0 {
		return fmt.Errorf("at least one profile is required")
	}

	seen := make(map[string]bool, len(cfg.Profiles))
	for _, p := range cfg.Profiles {
		if p.Name == "" {
			return fmt.Errorf("profile name is required")
		}
		if seen[p.Name] {
			return fmt.Errorf("duplicate profile name %q", p.Name)
		}
		seen[p.Name] = true
	}

	if cfg.DefaultProfile != "" && !seen[cfg.DefaultProfile] {
		return fmt.Errorf("default_profile %q does not name a profile", cfg.DefaultProfile)
	}

	return nil
}

// applyDefaults fills in an implicit default_profile when none was
// named: the first profile in the document, mirroring the teacher's
// "first-is-default" convention for its own optional fields.
func applyDefaults(cfg *Config) {
	if cfg.DefaultProfile == "" {
		cfg.DefaultProfile = cfg.Profiles[0].Name
	}
}

// Profile looks up a named profile, or the document's default when name
// is empty.
func (c *Config) Profile(name string) (*Profile, error) {
	if name == "" {
		name = c.DefaultProfile
	}
	for i := range c.Profiles {
		if c.Profiles[i].Name == name {
			return &c.Profiles[i], nil
		}
	}
	return nil, fmt.Errorf("no profile named %q", name)
}

// ToOptions converts a Profile into parser.Options, starting from
// parser.DefaultOptions() and overriding only the fields the profile
// explicitly set.
func (p *Profile) ToOptions() parser.Options {
	opts := parser.DefaultOptions()
	applyBool(&opts.ThrowScriptnameMissing, p.ThrowScriptnameMissing)
	applyBool(&opts.ThrowScriptnameMismatch, p.ThrowScriptnameMismatch)
	applyBool(&opts.ThrowReturnOutside, p.ThrowReturnOutside)
	applyBool(&opts.ThrowIfOutside, p.ThrowIfOutside)
	applyBool(&opts.ThrowWhileOutside, p.ThrowWhileOutside)
	applyBool(&opts.ThrowBinaryOutside, p.ThrowBinaryOutside)
	applyBool(&opts.ThrowCallOutside, p.ThrowCallOutside)
	applyBool(&opts.ThrowCastOutside, p.ThrowCastOutside)
	applyBool(&opts.ThrowNewOutside, p.ThrowNewOutside)
	return opts
}

func applyBool(dst *bool, override *bool) {
	if override != nil {
		*dst = *override
	}
}
