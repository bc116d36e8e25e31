package compiler

import (
	"context"
	"testing"
)

// FuzzCompile checks that user programs only ever produce diagnostics,
// never an internal error.
func FuzzCompile(f *testing.F) {
	f.Add("module Main where\nmain = println 1\n")
	f.Add("module Main where\ndata C = R | G deriving (Eq, Show)\nf c = case c of\n    R -> 1\n")
	f.Add("module Main where\nmain = True + 1\n")
	f.Add("module Main where\nimport Data.Map as M\nmain = M.get 1 (M.insert 1 2 M.empty)\n")
	f.Add("module Main where\nf :: Eq a => a -> Bool\nf x = x == x\nmain = f id\n")

	f.Fuzz(func(t *testing.T, src string) {
		if len(src) > 2048 {
			return
		}
		s, err := NewSession(Options{})
		if err != nil {
			t.Fatal(err)
		}
		s.AddSource("fuzz.sk", src)
		if _, err := s.Compile(context.Background()); err != nil {
			t.Fatalf("internal error: %+v\nsource:\n%s", err, src)
		}
	})
}
