package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"archivist/internal/failure"
)

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "Group by:    month")

	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	requireExists(t, target)

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected init to refuse an existing file")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}

	out, _, err = runCLI(t, []string{"config", "validate"}, target)
	if err != nil {
		t.Fatalf("validate sample: %v", err)
	}
	requireContains(t, out, "Configuration valid")
}

func TestConfigValidateReportsProblems(t *testing.T) {
	env := setupCLITestEnv(t)
	writeTestConfig(t, env.configPath, "[paths]\nsource = \"/tmp/a\"\n")

	_, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if !errors.Is(err, failure.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}

	writeTestConfig(t, env.configPath, "[paths]\nsorce = \"/tmp/a\"\n")
	if _, _, err := runCLI(t, []string{"config", "validate"}, env.configPath); !errors.Is(err, failure.ErrConfiguration) {
		t.Fatalf("expected unknown key to be rejected, got %v", err)
	}

	missing := filepath.Join(t.TempDir(), "absent.toml")
	_, _, err = runCLI(t, []string{"config", "validate"}, missing)
	if err == nil {
		t.Fatal("defaults alone lack source and destination")
	}
	if _, statErr := os.Stat(missing); !os.IsNotExist(statErr) {
		t.Fatal("validate must not create the config file")
	}
}
