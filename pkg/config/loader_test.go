package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_ValidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")

	configYAML := `
default_profile: strict
script_dirs:
  - /scripts/base
  - /scripts/mods
profiles:
  - name: strict
    throw_scriptname_missing: true
    throw_scriptname_mismatch: true
  - name: fragment
    throw_scriptname_missing: false
    throw_scriptname_mismatch: false
    throw_return_outside: false
`

	if err := os.WriteFile(configFile, []byte(configYAML), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configFile)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.DefaultProfile != "strict" {
		t.Errorf("DefaultProfile = %q, want %q", cfg.DefaultProfile, "strict")
	}
	if len(cfg.Profiles) != 2 {
		t.Fatalf("len(Profiles) = %d, want 2", len(cfg.Profiles))
	}
	if len(cfg.ScriptDirs) != 2 {
		t.Errorf("len(ScriptDirs) = %d, want 2", len(cfg.ScriptDirs))
	}

	frag, err := cfg.Profile("fragment")
	if err != nil {
		t.Fatalf("Profile(fragment) error = %v", err)
	}
	opts := frag.ToOptions()
	if opts.ThrowScriptnameMissing {
		t.Error("fragment profile should disable ThrowScriptnameMissing")
	}
	if opts.ThrowReturnOutside {
		t.Error("fragment profile should disable ThrowReturnOutside")
	}
	if !opts.ThrowIfOutside {
		t.Error("fragment profile should leave ThrowIfOutside at its default (true)")
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	if err == nil {
		t.Error("Load() expected error for nonexistent file")
	}
	if !strings.Contains(err.Error(), "reading config file") {
		t.Errorf("Load() error = %v, want 'reading config file' error", err)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")

	invalidYAML := `
profiles:
  - name: "unclosed string
`

	if err := os.WriteFile(configFile, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	_, err := Load(configFile)
	if err == nil {
		t.Error("Load() expected error for invalid YAML")
	}
	if !strings.Contains(err.Error(), "parsing config file") {
		t.Errorf("Load() error = %v, want 'parsing config file' error", err)
	}
}

func TestLoad_NoProfiles(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configFile, []byte("default_profile: strict\n"), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	_, err := Load(configFile)
	if err == nil {
		t.Error("Load() expected error when no profiles are defined")
	}
	if !strings.Contains(err.Error(), "at least one profile") {
		t.Errorf("Load() error = %v, want 'at least one profile' error", err)
	}
}

func TestLoad_DuplicateProfileName(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")

	dup := `
profiles:
  - name: strict
  - name: strict
`
	if err := os.WriteFile(configFile, []byte(dup), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	_, err := Load(configFile)
	if err == nil {
		t.Error("Load() expected error for duplicate profile name")
	}
	if !strings.Contains(err.Error(), "duplicate profile name") {
		t.Errorf("Load() error = %v, want 'duplicate profile name' error", err)
	}
}

func TestLoad_UnknownDefaultProfile(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")

	bad := `
default_profile: missing
profiles:
  - name: strict
`
	if err := os.WriteFile(configFile, []byte(bad), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	_, err := Load(configFile)
	if err == nil {
		t.Error("Load() expected error for unknown default_profile")
	}
	if !strings.Contains(err.Error(), "does not name a profile") {
		t.Errorf("Load() error = %v, want 'does not name a profile' error", err)
	}
}

func TestLoad_DefaultsToFirstProfile(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")

	noDefault := `
profiles:
  - name: lenient
  - name: strict
`
	if err := os.WriteFile(configFile, []byte(noDefault), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configFile)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DefaultProfile != "lenient" {
		t.Errorf("DefaultProfile = %q, want %q (first profile)", cfg.DefaultProfile, "lenient")
	}
}

func TestProfile_ToOptions_Defaults(t *testing.T) {
	p := Profile{Name: "bare"}
	opts := p.ToOptions()
	if !opts.ThrowScriptnameMissing || !opts.ThrowScriptnameMismatch || !opts.ThrowNewOutside {
		t.Errorf("ToOptions() on an unset profile should match parser.DefaultOptions(), got %+v", opts)
	}
}
