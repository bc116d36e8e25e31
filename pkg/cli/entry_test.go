package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const hello = `module Main where

greet name = "hello {}" % name

main = println (greet "siko")
`

// project writes a siko.yaml and the given files into a temp dir and
// returns the config path.
func project(t *testing.T, yaml string, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, text := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(text), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	cfg := filepath.Join(dir, "siko.yaml")
	if err := os.WriteFile(cfg, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	return cfg
}

func runMain(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := Main(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun(t *testing.T) {
	cfg := project(t, "sources: [main.sk]\ndiagnostics:\n  color: never\n", map[string]string{"main.sk": hello})
	code, out, errOut := runMain("run", "-config", cfg)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if out != "hello siko\n" {
		t.Errorf("stdout = %q", out)
	}
}

func TestCheckReportsDiagnostics(t *testing.T) {
	src := "module Main where\n\nmain = println undefinedName\n"
	cfg := project(t, "sources: [main.sk]\ndiagnostics:\n  color: never\n", map[string]string{"main.sk": src})
	code, _, errOut := runMain("check", "-config", cfg)
	if code != 1 {
		t.Fatalf("exit %d, want 1", code)
	}
	if !strings.Contains(errOut, "undefinedName") {
		t.Errorf("stderr does not name the unresolved identifier:\n%s", errOut)
	}
}

func TestEntryOverride(t *testing.T) {
	cfg := project(t, "sources: [main.sk]\ndiagnostics:\n  color: never\n", map[string]string{"main.sk": hello})
	code, _, errOut := runMain("run", "-config", cfg, "-entry", "Main.start")
	if code != 1 {
		t.Fatalf("exit %d, want 1", code)
	}
	if !strings.Contains(errOut, "C003") {
		t.Errorf("missing entry diagnostic:\n%s", errOut)
	}
}

func TestEmit(t *testing.T) {
	cfg := project(t, "sources: [main.sk]\nemit:\n  dir: gen\n  sqlite: units.db\n", map[string]string{"main.sk": hello})
	code, out, errOut := runMain("emit", "-config", cfg)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if !strings.HasPrefix(out, "emitted ") {
		t.Errorf("stdout = %q", out)
	}
	dir := filepath.Dir(cfg)
	for _, name := range []string{"main.go", "siko_main.go", "std_prelude.go"} {
		if _, err := os.Stat(filepath.Join(dir, "gen", name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "units.db")); err != nil {
		t.Errorf("database not written: %v", err)
	}
}

func TestParse(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.sk")
	if err := os.WriteFile(path, []byte(hello), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := project(t, "", nil)
	code, out, errOut := runMain("parse", "-config", cfg, path)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if !strings.HasPrefix(out, "module Main where\n") || !strings.Contains(out, "greet name") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestUsage(t *testing.T) {
	tests := []struct {
		args []string
		code int
	}{
		{nil, 2},
		{[]string{"help"}, 0},
		{[]string{"version"}, 0},
		{[]string{"build"}, 2},
		{[]string{"run", "-color", "pink"}, 1},
	}
	for _, tt := range tests {
		code, _, _ := runMain(tt.args...)
		if code != tt.code {
			t.Errorf("siko %v: exit %d, want %d", tt.args, code, tt.code)
		}
	}
}
