package modules

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/funvibe/siko/internal/ast"
	"github.com/funvibe/siko/internal/diagnostics"
	"github.com/funvibe/siko/internal/location"
)

func module(name string, imports ...string) *Module {
	m := &ast.Module{Name: name, File: strings.ToLower(name) + ".sk"}
	for _, imp := range imports {
		m.Imports = append(m.Imports, &ast.Import{Module: imp})
	}
	return FromAST(m)
}

func names(levels [][]*Module) [][]string {
	var out [][]string
	for _, level := range levels {
		var ns []string
		for _, m := range level {
			ns = append(ns, m.Name)
		}
		out = append(out, ns)
	}
	return out
}

func TestFromASTAddsPrelude(t *testing.T) {
	tests := []struct {
		name string
		mod  *Module
		want []string
	}{
		{"implicit", module("Main", "Data.Map"), []string{"Std.Prelude", "Data.Map"}},
		{"explicit", module("Main", "Std.Prelude", "Data.Map", "Data.Map"), []string{"Std.Prelude", "Data.Map"}},
		{"prelude itself", module("Std.Prelude"), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.mod.Imports); diff != "" {
				t.Errorf("imports mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLevels(t *testing.T) {
	g := NewGraph(location.NewTable())
	for _, m := range []*Module{
		module("Main", "Data.Map", "Data.List"),
		module("Data.Map", "Data.List"),
		module("Data.List"),
		module("Std.Prelude"),
		module("Other", "Unknown.Module"),
	} {
		if err := g.Add(m); err != nil {
			t.Fatal(err)
		}
	}
	levels, err := g.Levels()
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{
		{"Std.Prelude"},
		{"Data.List", "Other"},
		{"Data.Map"},
		{"Main"},
	}
	if diff := cmp.Diff(want, names(levels)); diff != "" {
		t.Errorf("levels mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Main", "Data.Map"}, g.Dependents("Data.List")); diff != "" {
		t.Errorf("dependents mismatch (-want +got):\n%s", diff)
	}
}

func TestCycle(t *testing.T) {
	g := NewGraph(location.NewTable())
	g.Add(module("Std.Prelude"))
	g.Add(module("Main", "A"))
	g.Add(module("A", "B"))
	g.Add(module("B", "A"))
	_, err := g.Levels()
	if err == nil {
		t.Fatal("expected a cycle error")
	}
	if err.Code != diagnostics.ErrC001 {
		t.Errorf("code = %s, want C001", err.Code)
	}
	if !strings.Contains(err.Message, "A -> B -> A") {
		t.Errorf("message = %q", err.Message)
	}
}

func TestDuplicateModule(t *testing.T) {
	g := NewGraph(location.NewTable())
	if err := g.Add(module("Main")); err != nil {
		t.Fatal(err)
	}
	err := g.Add(&Module{Name: "Main", File: "other.sk"})
	if err == nil || err.Code != diagnostics.ErrC002 {
		t.Fatalf("err = %v, want C002", err)
	}
	if !strings.Contains(err.Message, "main.sk") || !strings.Contains(err.Message, "other.sk") {
		t.Errorf("message = %q", err.Message)
	}
}

func TestLoader(t *testing.T) {
	fsys := fstest.MapFS{
		"std/prelude.sk":  {Data: []byte("module Std.Prelude where\n")},
		"std/data/map.sk": {Data: []byte("module Data.Map where\n")},
		"std/README":      {Data: []byte("not a source")},
	}
	l := NewLoader()
	srcs, err := l.LoadFS(fsys, "std", "embedded")
	if err != nil {
		t.Fatal(err)
	}
	var paths []string
	for _, s := range srcs {
		paths = append(paths, s.Path)
	}
	if diff := cmp.Diff([]string{"embedded/std/data/map.sk", "embedded/std/prelude.sk"}, paths); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}

	dir := t.TempDir()
	p := filepath.Join(dir, "main.sk")
	if err := os.WriteFile(p, []byte("module Main where\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	srcs, err = l.LoadFiles(p, p)
	if err != nil {
		t.Fatal(err)
	}
	if len(srcs) != 1 || srcs[0].Text != "module Main where\n" {
		t.Errorf("sources = %v", srcs)
	}
	if _, err := l.LoadFiles(filepath.Join(dir, "missing.sk")); err == nil {
		t.Error("missing file loaded")
	}
}
