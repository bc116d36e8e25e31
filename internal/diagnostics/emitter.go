package diagnostics

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/mattn/go-isatty"
)

const (
	colorRed    = "\x1b[31m"
	colorYellow = "\x1b[33m"
	colorBold   = "\x1b[1m"
	colorReset  = "\x1b[0m"
)

// Emitter prints diagnostics, optionally with ANSI colours.
type Emitter struct {
	w     io.Writer
	color bool
}

// NewEmitter creates an emitter. mode is "auto", "always" or "never";
// auto enables colour only when w is a terminal.
func NewEmitter(w io.Writer, mode string) *Emitter {
	color := false
	switch mode {
	case "always":
		color = true
	case "auto":
		if f, ok := w.(*os.File); ok {
			fd := f.Fd()
			color = isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
		}
	}
	return &Emitter{w: w, color: color}
}

// Emit prints every diagnostic in a stable order (file, line, column,
// then insertion order) and returns the number of errors.
func (em *Emitter) Emit(errs []*DiagnosticError) int {
	sorted := make([]*DiagnosticError, len(errs))
	copy(sorted, errs)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Pos, sorted[j].Pos
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
	count := 0
	for _, e := range sorted {
		if !e.IsWarning() {
			count++
		}
		em.emitOne(e)
	}
	return count
}

func (em *Emitter) emitOne(e *DiagnosticError) {
	if !em.color {
		fmt.Fprintln(em.w, e.Error())
		return
	}
	c := colorRed
	if e.IsWarning() {
		c = colorYellow
	}
	pos := ""
	if e.Pos.IsValid() {
		pos = colorBold + e.Pos.String() + ":" + colorReset + " "
	}
	fmt.Fprintf(em.w, "%s%s%s [%s %s]%s: %s\n", pos, c, e.Severity, e.Kind, e.Code, colorReset, e.Message)
}
