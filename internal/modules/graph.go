package modules

import (
	"sort"
	"strings"

	"github.com/funvibe/siko/internal/diagnostics"
	"github.com/funvibe/siko/internal/location"
)

// Graph is the import graph of a build. Imports of modules that are not
// part of the graph are ignored here; the resolver reports them.
type Graph struct {
	table   *location.Table
	modules []*Module
	byName  map[string]*Module
}

func NewGraph(table *location.Table) *Graph {
	return &Graph{table: table, byName: make(map[string]*Module)}
}

// Add registers a module. A second module with the same name is a
// configuration error.
func (g *Graph) Add(m *Module) *diagnostics.DiagnosticError {
	if prev, ok := g.byName[m.Name]; ok {
		return diagnostics.NewError(diagnostics.ErrC002, g.table, m.Loc,
			"module %s is defined in both %s and %s", m.Name, prev.File, m.File)
	}
	m.index = len(g.modules)
	g.modules = append(g.modules, m)
	g.byName[m.Name] = m
	return nil
}

func (g *Graph) Module(name string) (*Module, bool) {
	m, ok := g.byName[name]
	return m, ok
}

// Modules returns the modules in the order they were added.
func (g *Graph) Modules() []*Module {
	return g.modules
}

func (g *Graph) deps(m *Module) []*Module {
	var out []*Module
	for _, name := range m.Imports {
		if d, ok := g.byName[name]; ok {
			out = append(out, d)
		}
	}
	return out
}

// Levels schedules the modules: every module comes in a later level
// than all of its imports, and the modules of one level do not depend
// on each other. Within a level modules keep the order they were added
// in. An import cycle is reported before anything is scheduled.
func (g *Graph) Levels() ([][]*Module, *diagnostics.DiagnosticError) {
	inDegree := make(map[*Module]int, len(g.modules))
	dependents := make(map[*Module][]*Module, len(g.modules))
	for _, m := range g.modules {
		for _, d := range g.deps(m) {
			inDegree[m]++
			dependents[d] = append(dependents[d], m)
		}
	}

	var levels [][]*Module
	var ready []*Module
	for _, m := range g.modules {
		if inDegree[m] == 0 {
			ready = append(ready, m)
		}
	}
	done := 0
	for len(ready) > 0 {
		levels = append(levels, ready)
		done += len(ready)
		var next []*Module
		for _, m := range ready {
			for _, dep := range dependents[m] {
				inDegree[dep]--
				if inDegree[dep] == 0 {
					next = append(next, dep)
				}
			}
		}
		sort.Slice(next, func(i, j int) bool { return next[i].index < next[j].index })
		ready = next
	}

	if done != len(g.modules) {
		return nil, g.cycleError(inDegree)
	}
	return levels, nil
}

// cycleError walks the unscheduled modules until one repeats.
func (g *Graph) cycleError(inDegree map[*Module]int) *diagnostics.DiagnosticError {
	var start *Module
	for _, m := range g.modules {
		if inDegree[m] > 0 {
			start = m
			break
		}
	}
	pos := make(map[*Module]int)
	var path []*Module
	m := start
	for {
		if i, ok := pos[m]; ok {
			path = path[i:]
			break
		}
		pos[m] = len(path)
		path = append(path, m)
		for _, d := range g.deps(m) {
			if inDegree[d] > 0 {
				m = d
				break
			}
		}
	}
	names := make([]string, 0, len(path)+1)
	for _, p := range path {
		names = append(names, p.Name)
	}
	names = append(names, path[0].Name)
	return diagnostics.NewError(diagnostics.ErrC001, g.table, path[0].Loc,
		"import cycle: %s", strings.Join(names, " -> "))
}

// Dependents returns every module that imports name directly or
// indirectly, in the order they were added.
func (g *Graph) Dependents(name string) []string {
	affected := map[string]bool{name: true}
	for changed := true; changed; {
		changed = false
		for _, m := range g.modules {
			if affected[m.Name] {
				continue
			}
			for _, imp := range m.Imports {
				if affected[imp] {
					affected[m.Name] = true
					changed = true
					break
				}
			}
		}
	}
	var out []string
	for _, m := range g.modules {
		if m.Name != name && affected[m.Name] {
			out = append(out, m.Name)
		}
	}
	return out
}
