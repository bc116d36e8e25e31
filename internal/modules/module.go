// Package modules orders the modules of a build by their imports.
package modules

import (
	"github.com/funvibe/siko/internal/ast"
	"github.com/funvibe/siko/internal/config"
	"github.com/funvibe/siko/internal/location"
)

// Module is a parsed module as the graph sees it.
type Module struct {
	Name string
	File string
	Loc  location.ID

	// Imports lists the imported module names in source order without
	// duplicates. Std.Prelude is included when imported implicitly.
	Imports []string

	index int
}

// FromAST describes a parsed module.
func FromAST(m *ast.Module) *Module {
	out := &Module{Name: m.Name, File: m.File, Loc: m.Loc}
	seen := make(map[string]bool)
	add := func(name string) {
		if !seen[name] && name != m.Name {
			seen[name] = true
			out.Imports = append(out.Imports, name)
		}
	}
	if m.Name != config.PreludeModule {
		add(config.PreludeModule)
	}
	for _, imp := range m.Imports {
		add(imp.Module)
	}
	return out
}
