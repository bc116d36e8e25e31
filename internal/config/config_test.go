package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte("sources: [src]\n"), "proj/siko.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Entry != "Main.main" {
		t.Errorf("Entry = %q, want Main.main", cfg.Entry)
	}
	if cfg.EntryModule() != "Main" || cfg.EntryName() != "main" {
		t.Errorf("entry split = %q %q", cfg.EntryModule(), cfg.EntryName())
	}
	if cfg.Diagnostics.Color != "auto" {
		t.Errorf("Color = %q, want auto", cfg.Diagnostics.Color)
	}
	if cfg.Emit.Dir != "out" || cfg.Emit.Format == nil || !*cfg.Emit.Format {
		t.Errorf("emit defaults not applied: %+v", cfg.Emit)
	}
	if cfg.Parallel == nil || !*cfg.Parallel {
		t.Errorf("parallel should default to true")
	}
	if got := cfg.Resolve("src"); got != filepath.Join("proj", "src") {
		t.Errorf("Resolve = %q", got)
	}
}

func TestParseConfigFull(t *testing.T) {
	src := `
entry: Data.Tool.run
sources:
  - lib
  - app/Main.sk
emit:
  dir: gen
  format: false
  sqlite: build.db
diagnostics:
  color: never
parallel: false
verbose: true
`
	cfg, err := ParseConfig([]byte(src), "siko.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.EntryModule() != "Data.Tool" || cfg.EntryName() != "run" {
		t.Errorf("entry = %q", cfg.Entry)
	}
	if *cfg.Emit.Format || *cfg.Parallel || !cfg.Verbose {
		t.Errorf("explicit values overridden: %+v", cfg)
	}
	if cfg.Emit.SQLite != "build.db" || cfg.Emit.Dir != "gen" {
		t.Errorf("emit = %+v", cfg.Emit)
	}
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"bad entry", "entry: main\n", "qualified function name"},
		{"bad color", "diagnostics:\n  color: rainbow\n", "diagnostics.color"},
		{"empty source", "sources: ['']\n", "empty path"},
		{"dup source", "sources: [a, a]\n", "duplicate path"},
		{"abs source", "sources: [/abs]\n", "relative"},
		{"same outputs", "emit:\n  dir: x\n  sqlite: x\n", "must differ"},
		{"not yaml", "entry: [\n", "parsing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.src), "siko.yaml")
			if err == nil {
				t.Fatalf("expected error containing %q", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not contain %q", err, tt.want)
			}
		})
	}
}

func TestFindConfigAndSourceFiles(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "siko.yaml"), []byte("sources: [a]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	for _, f := range []string{"a/One.sk", "a/b/Two.sk", "a/b/notes.txt"} {
		if err := os.WriteFile(filepath.Join(root, f), []byte("module X where\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	path, err := FindConfig(sub)
	if err != nil {
		t.Fatal(err)
	}
	if path != filepath.Join(root, "siko.yaml") {
		t.Fatalf("FindConfig = %q", path)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	files, err := cfg.SourceFiles()
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Fatalf("SourceFiles = %v, want 2 .sk files", files)
	}
	for _, f := range files {
		if !IsSourceFile(f) {
			t.Errorf("%s is not a source file", f)
		}
	}
}

func TestClassSets(t *testing.T) {
	for _, c := range []string{"Eq", "Show", "Ord"} {
		if !IsDerivable(c) {
			t.Errorf("%s should be derivable", c)
		}
	}
	if IsDerivable("Num") {
		t.Errorf("Num is not derivable")
	}
	if !IsKnownClass("Num") || IsKnownClass("Monad") {
		t.Errorf("known class set is wrong")
	}
	if Qualified(IntTypeName) != "Std.Prelude.Int" {
		t.Errorf("Qualified = %q", Qualified(IntTypeName))
	}
}
