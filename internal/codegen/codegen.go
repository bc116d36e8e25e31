// Package codegen translates core modules into Go source. Every module
// becomes one file of package main; values are rt.Value and functions
// follow the runtime's generalized application.
package codegen

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/tools/imports"

	"github.com/funvibe/siko/internal/core"
	"github.com/funvibe/siko/internal/diagnostics"
)

// RuntimeImport is the package generated code links against.
const RuntimeImport = "github.com/funvibe/siko/pkg/rt"

// MainFile holds the driver that calls the entry function.
const MainFile = "siko_main.go"

const header = "// Code generated by siko. DO NOT EDIT.\n\n"

// Unit is one generated Go file.
type Unit struct {
	Module string
	File   string
	Source []byte
}

type Options struct {
	// Format runs every unit through goimports.
	Format bool
}

// FileName returns the file generated for a module: the lower-cased
// name with dots replaced by underscores.
func FileName(module string) string {
	return strings.ToLower(strings.ReplaceAll(module, ".", "_")) + ".go"
}

// Generate translates one module. program resolves references to other
// modules. IR that breaks an earlier stage's guarantee is reported as
// a *diagnostics.InvariantError.
func Generate(mod *core.Module, program *core.Program, opts Options) (unit Unit, err error) {
	defer catch(&err)
	e := newEmitter(mod, program)
	e.module()
	var buf bytes.Buffer
	buf.WriteString(header)
	buf.WriteString("package main\n\n")
	if bytes.Contains(e.buf.Bytes(), []byte("rt.")) {
		fmt.Fprintf(&buf, "import %q\n\n", RuntimeImport)
	}
	buf.Write(e.buf.Bytes())
	return finish(Unit{Module: mod.Name, File: FileName(mod.Name), Source: buf.Bytes()}, opts)
}

// Main generates the driver for entry, which must be a function of no
// arguments.
func Main(program *core.Program, entry string, opts Options) (Unit, error) {
	fn := program.Function(entry)
	if fn == nil {
		return Unit{}, errors.Errorf("entry function %s not found", entry)
	}
	if fn.Arity() != 0 {
		return Unit{}, errors.Errorf("entry function %s must not take arguments", entry)
	}
	var buf bytes.Buffer
	buf.WriteString(header)
	fmt.Fprintf(&buf, `package main

import (
	"fmt"
	"os"

	%q
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() (err error) {
	defer rt.Recover(&err)
	%s()
	return nil
}
`, RuntimeImport, ident(entry))
	return finish(Unit{File: MainFile, Source: buf.Bytes()}, opts)
}

// Program generates every module of program followed by the driver.
func Program(program *core.Program, entry string, opts Options) ([]Unit, error) {
	var units []Unit
	for _, m := range program.Modules {
		u, err := Generate(m, program, opts)
		if err != nil {
			return nil, err
		}
		if u.File == MainFile {
			return nil, errors.Errorf("module %s would overwrite %s", m.Name, MainFile)
		}
		units = append(units, u)
	}
	u, err := Main(program, entry, opts)
	if err != nil {
		return nil, err
	}
	return append(units, u), nil
}

func finish(u Unit, opts Options) (Unit, error) {
	if !opts.Format {
		return u, nil
	}
	src, err := imports.Process(u.File, u.Source, &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return Unit{}, diagnostics.Invariant("codegen", "generated code for %s does not parse: %v", u.File, err)
	}
	u.Source = src
	return u, nil
}

func catch(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if inv, ok := r.(*diagnostics.InvariantError); ok {
		*err = inv
		return
	}
	panic(r)
}

func invariant(format string, args ...interface{}) {
	panic(diagnostics.Invariant("codegen", format, args...))
}

// ident turns a qualified name into a Go identifier.
func ident(name string) string {
	return strings.ReplaceAll(name, ".", "_")
}

func shortName(name string) string {
	return name[strings.LastIndex(name, ".")+1:]
}
