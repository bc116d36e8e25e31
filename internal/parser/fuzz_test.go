package parser

import (
	"testing"

	"github.com/funvibe/siko/internal/layout"
	"github.com/funvibe/siko/internal/lexer"
	"github.com/funvibe/siko/internal/location"
	"github.com/funvibe/siko/internal/pipeline"
	"github.com/funvibe/siko/internal/prettyprinter"
)

// FuzzParse checks that no input makes the front end panic and that
// whatever parses prints to a fixed point.
func FuzzParse(f *testing.F) {
	f.Add("module Main where\nmain = 1\n")
	f.Add("module Main where\n\nf x = case x of\n    Some y if y > 0 -> y\n    _ -> 0\n")
	f.Add("module Main where\nmain = do\n    a <- 1\n    \\x -> x + a\n")
	f.Add("module M where\ndata P = { a :: Int } deriving (Eq, Show)\nf p = p { a = 2 }\n")
	f.Add("module M where\nf = \"{} {}\" % (1, \"x\")\n")
	f.Add("module M where\nf = (\n")

	front := pipeline.New(&lexer.LexerProcessor{}, &layout.LayoutProcessor{}, &ParserProcessor{})
	f.Fuzz(func(t *testing.T, input string) {
		if len(input) > 4096 {
			return
		}
		ctx := front.Run(pipeline.NewContext("fuzz.sk", input, location.NewTable()))
		if len(ctx.Errors) > 0 {
			return
		}
		first := prettyprinter.Print(ctx.AstRoot)
		again := front.Run(pipeline.NewContext("fuzz.sk", first, location.NewTable()))
		if len(again.Errors) > 0 {
			t.Fatalf("printed module does not parse: %v\n%s", again.Errors[0], first)
		}
		if second := prettyprinter.Print(again.AstRoot); second != first {
			t.Fatalf("printing is not stable:\n--- first\n%s\n--- second\n%s", first, second)
		}
	})
}
