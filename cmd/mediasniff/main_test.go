// cmd/mediasniff/main_test.go
package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/valpere/mediasniff/internal/config"
)

func TestCLIVersion(t *testing.T) {
	version = "test-version"
	buildTime = "2025-06-23"
	gitCommit = "abc123"

	output := captureOutput(func() {
		printVersion()
	})

	for _, want := range []string{"test-version", "2025-06-23", "abc123"} {
		if !strings.Contains(output, want) {
			t.Errorf("version output should contain %q, got: %s", want, output)
		}
	}
}

func TestCLIHelp(t *testing.T) {
	output := captureOutput(func() {
		printUsage()
	})

	commands := []string{"parse", "validate", "template", "version", "help"}
	for _, cmd := range commands {
		if !strings.Contains(output, cmd) {
			t.Errorf("help output should contain command %q, got: %s", cmd, output)
		}
	}
}

func TestGenerateTemplate_RoundTrips(t *testing.T) {
	template, err := generateTemplate()
	if err != nil {
		t.Fatalf("template generation failed: %v", err)
	}
	if !strings.Contains(template, "navigation_timeout: 30s") {
		t.Errorf("expected human-readable durations, got:\n%s", template)
	}

	cfg, err := config.LoadFromBytes([]byte(template))
	if err != nil {
		t.Fatalf("generated template does not load: %v", err)
	}
	if cfg.Server.Port != config.DefaultPort {
		t.Errorf("expected default port, got %d", cfg.Server.Port)
	}
}

func TestValidateConfig(t *testing.T) {
	for _, env := range []string{config.EnvPort, config.EnvChromePath, config.EnvLogLevel} {
		t.Setenv(env, "")
		os.Unsetenv(env)
	}

	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	bad := filepath.Join(dir, "bad.yaml")
	os.WriteFile(good, []byte("server:\n  port: 8080\n"), 0o644)
	os.WriteFile(bad, []byte("server:\n  port: 99999\n"), 0o644)

	var out bytes.Buffer
	if err := validateConfig(good, &out); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
	if !strings.Contains(out.String(), "is valid") {
		t.Errorf("unexpected output: %q", out.String())
	}

	if err := validateConfig(bad, &out); err == nil {
		t.Error("expected validation error for port 99999")
	}
}

func TestConfigFlag(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"--config", "a.yaml"}, "a.yaml"},
		{[]string{"-v", "-c", "b.yaml"}, "b.yaml"},
		{[]string{"--config"}, ""},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := configFlag(tt.args); got != tt.want {
			t.Errorf("configFlag(%v) = %q, want %q", tt.args, got, tt.want)
		}
	}
}

// captureOutput captures stdout during function execution
func captureOutput(f func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	outC := make(chan string)
	go func() {
		var buf bytes.Buffer
		io.Copy(&buf, r)
		outC <- buf.String()
	}()

	f()

	w.Close()
	os.Stdout = old
	return <-outC
}
