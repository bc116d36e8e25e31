package symbols

import (
	"sort"
	"strings"

	"github.com/funvibe/siko/internal/ast"
	"github.com/funvibe/siko/internal/location"
)

type source struct {
	item Item
	imp  int
}

// ImportRecord is one applied import of a Scope.
type ImportRecord struct {
	Module   string
	Loc      location.ID
	Implicit bool
	used     bool
}

// Scope answers name lookups for one module: its own definitions first,
// then whatever its imports make visible. Several distinct imported
// candidates for one name make the name ambiguous.
type Scope struct {
	module  string
	locals  map[key]Item
	fields  map[string][]Item
	unqual  map[key][]source
	qual    map[key][]source
	imports []*ImportRecord
}

func NewScope(module string) *Scope {
	return &Scope{
		module: module,
		locals: make(map[key]Item),
		fields: make(map[string][]Item),
		unqual: make(map[key][]source),
		qual:   make(map[key][]source),
	}
}

// AddLocals makes every definition of the module's own table visible.
func (s *Scope) AddLocals(t *ModuleTable) {
	for _, it := range t.Items {
		if it.Kind == FieldItem {
			s.fields[it.Name] = appendUnique(s.fields[it.Name], it)
			continue
		}
		k := key{it.Kind.Namespace(), it.Name}
		if _, ok := s.locals[k]; !ok {
			s.locals[k] = it
		}
		qk := key{it.Kind.Namespace(), t.Name + "." + it.Name}
		if _, ok := s.locals[qk]; !ok {
			s.locals[qk] = it
		}
	}
}

// AddImport applies one import against the exporting module's table and
// returns the listed items the module does not export.
func (s *Scope) AddImport(imp *ast.Import, t *ModuleTable, implicit bool) []*ast.ExportItem {
	idx := len(s.imports)
	s.imports = append(s.imports, &ImportRecord{Module: imp.Module, Loc: imp.Loc, Implicit: implicit})

	var items []Item
	var missing []*ast.ExportItem
	switch imp.Kind {
	case ast.ImportList:
		items, missing = SelectItems(t.Exports, imp.Items, t.exportedMembers)
	case ast.ImportHiding:
		var hidden []Item
		hidden, missing = SelectItems(t.Exports, imp.Items, t.exportedMembers)
		items = without(t.Exports, hidden)
	default:
		items = t.Exports
	}

	prefix := imp.Module
	if imp.Alias != "" {
		prefix = imp.Alias
	}
	for _, it := range items {
		src := source{item: it, imp: idx}
		if it.Kind == FieldItem {
			s.fields[it.Name] = appendUnique(s.fields[it.Name], it)
			continue
		}
		ns := it.Kind.Namespace()
		if imp.Alias == "" {
			k := key{ns, it.Name}
			s.unqual[k] = append(s.unqual[k], src)
		}
		qk := key{ns, prefix + "." + it.Name}
		s.qual[qk] = append(s.qual[qk], src)
	}
	return missing
}

// Lookup returns the candidates for name. A single result is a
// successful resolution; more than one is an ambiguity.
func (s *Scope) Lookup(ns Namespace, name string) []Item {
	if it, ok := s.locals[key{ns, name}]; ok {
		return []Item{it}
	}
	k := key{ns, name}
	srcs := s.unqual[k]
	if strings.Contains(name, ".") {
		srcs = s.qual[k]
	}
	var out []Item
	for _, src := range srcs {
		s.imports[src.imp].used = true
		out = appendUnique(out, src.item)
	}
	return out
}

// Fields returns every visible record field called name.
func (s *Scope) Fields(name string) []Item {
	if items, ok := s.fields[name]; ok {
		for _, src := range s.sourcesOfField(name) {
			s.imports[src].used = true
		}
		return items
	}
	return nil
}

func (s *Scope) sourcesOfField(name string) []int {
	var out []int
	for i, rec := range s.imports {
		for _, it := range s.fields[name] {
			if it.Module == rec.Module {
				out = append(out, i)
			}
		}
	}
	return out
}

// MarkModuleUsed flags every import of module as used. Type class
// instances and qualified record types reach a module without naming an
// item of it.
func (s *Scope) MarkModuleUsed(module string) {
	for _, rec := range s.imports {
		if rec.Module == module {
			rec.used = true
		}
	}
}

// Names lists every name visible in a namespace, sorted.
func (s *Scope) Names(ns Namespace) []string {
	set := make(map[string]bool)
	for k := range s.locals {
		if k.ns == ns {
			set[k.name] = true
		}
	}
	for k := range s.unqual {
		if k.ns == ns {
			set[k.name] = true
		}
	}
	for k := range s.qual {
		if k.ns == ns {
			set[k.name] = true
		}
	}
	if ns == FieldNamespace {
		for name := range s.fields {
			set[name] = true
		}
	}
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Unused returns the explicit imports none of whose items were looked up.
func (s *Scope) Unused() []*ImportRecord {
	used := make(map[string]bool)
	for _, rec := range s.imports {
		if rec.used {
			used[rec.Module] = true
		}
	}
	var out []*ImportRecord
	for _, rec := range s.imports {
		if !rec.Implicit && !used[rec.Module] {
			out = append(out, rec)
		}
	}
	return out
}

func appendUnique(items []Item, it Item) []Item {
	for _, existing := range items {
		if existing == it {
			return items
		}
	}
	return append(items, it)
}

func without(items, drop []Item) []Item {
	skip := make(map[Item]bool, len(drop))
	for _, it := range drop {
		skip[it] = true
	}
	var out []Item
	for _, it := range items {
		if !skip[it] {
			out = append(out, it)
		}
	}
	return out
}
