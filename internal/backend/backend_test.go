package backend

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/funvibe/siko/internal/artifact"
	"github.com/funvibe/siko/internal/compiler"
	"github.com/funvibe/siko/internal/diagnostics"
)

func build(t *testing.T, src string) *compiler.Result {
	t.Helper()
	s, err := compiler.NewSession(compiler.Options{Parallel: true})
	if err != nil {
		t.Fatal(err)
	}
	s.AddSource("main.sk", src)
	res, err := s.Compile(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Failed() {
		t.Fatalf("compile errors: %v", res.Errors)
	}
	return res
}

func codes(errs []*diagnostics.DiagnosticError) []string {
	var out []string
	for _, e := range errs {
		out = append(out, string(e.Code))
	}
	return out
}

func TestEvalBackend(t *testing.T) {
	var out bytes.Buffer
	res := build(t, "module Main where\n\nmain = do\n    println \"hi\"\n    1 + 2\n")
	p := NewExecutionProcessor(NewEval("Main.main", &out), "Main.main")
	if err := p.Process(context.Background(), res); err != nil {
		t.Fatal(err)
	}
	if len(res.Errors) != 0 {
		t.Fatalf("errors = %v", res.Errors)
	}
	if out.String() != "hi\n" || p.Result != int64(3) {
		t.Errorf("output %q, result %v", out.String(), p.Result)
	}
}

func TestExecutionDiagnostics(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		entry string
		want  []string
		msg   string
	}{
		{
			name:  "missing entry",
			src:   "module Main where\n\nhelper = 1\n",
			entry: "Main.main",
			want:  []string{"C003"},
			msg:   "Main.main",
		},
		{
			name:  "runtime error",
			src:   "module Main where\n\nmain = 1 / 0\n",
			entry: "Main.main",
			want:  []string{"R001"},
			msg:   "division by zero",
		},
		{
			name:  "extern without implementation",
			src:   "module Main where\n\nfetch :: Int -> Int\nfetch n = extern\n\nmain = fetch 1\n",
			entry: "Main.main",
			want:  []string{"G001", "R001"},
			msg:   "Main.fetch",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := build(t, tt.src)
			p := NewExecutionProcessor(NewEval(tt.entry, &bytes.Buffer{}), tt.entry)
			if err := p.Process(context.Background(), res); err != nil {
				t.Fatal(err)
			}
			if got := codes(res.Errors); strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Fatalf("codes = %v, want %v", got, tt.want)
			}
			if !strings.Contains(res.Errors[0].Message, tt.msg) {
				t.Errorf("message = %q", res.Errors[0].Message)
			}
		})
	}
}

func TestEmitBackend(t *testing.T) {
	ctx := context.Background()
	res := build(t, "module Main where\n\nmain = println (1, \"a\")\n")
	dir := t.TempDir()
	db, err := artifact.OpenSQLite(ctx, filepath.Join(dir, "units.db"), res.BuildID)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	files, err := artifact.NewDirSink(filepath.Join(dir, "out"))
	if err != nil {
		t.Fatal(err)
	}
	b := &EmitBackend{Entry: "Main.main", Format: true, Sink: artifact.Multi{files, db}}
	if err := NewExecutionProcessor(b, "Main.main").Process(ctx, res); err != nil {
		t.Fatal(err)
	}
	if len(res.Errors) != 0 {
		t.Fatalf("errors = %v", res.Errors)
	}
	recs, err := db.Units(ctx, res.BuildID)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != len(b.Units) || len(recs) != 4 {
		t.Errorf("stored %d units, generated %d", len(recs), len(b.Units))
	}
}
