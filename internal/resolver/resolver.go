// Package resolver turns a parsed module into ir: every name becomes a
// qualified global reference or a module-unique local.
package resolver

import (
	"github.com/funvibe/siko/internal/ast"
	"github.com/funvibe/siko/internal/config"
	"github.com/funvibe/siko/internal/diagnostics"
	"github.com/funvibe/siko/internal/ir"
	"github.com/funvibe/siko/internal/location"
	"github.com/funvibe/siko/internal/symbols"
)

// Resolver holds the state of resolving one module.
type Resolver struct {
	mod      *ast.Module
	table    *location.Table
	snapshot *symbols.Snapshot
	own      *symbols.ModuleTable
	scope    *symbols.Scope
	data     map[string]*symbols.DataInfo // by qualified name

	errors []*diagnostics.DiagnosticError

	nextNode int
	nextVar  ir.VarID
	frames   []map[string]ir.VarID
	lambdas  []*lambdaFrame
}

type lambdaFrame struct {
	base     int // index of the lambda's parameter frame
	node     *ir.Lambda
	captured map[ir.VarID]bool
}

// Resolve resolves mod against the export tables of the modules it
// imports. The result is a pure function of its inputs.
func Resolve(mod *ast.Module, snapshot *symbols.Snapshot, table *location.Table) (*ir.Module, []*diagnostics.DiagnosticError) {
	r := &Resolver{
		mod:      mod,
		table:    table,
		snapshot: snapshot,
		own:      symbols.NewModuleTable(mod.Name),
		scope:    symbols.NewScope(mod.Name),
		data:     make(map[string]*symbols.DataInfo),
	}
	out := r.resolveModule()
	return out, r.errors
}

func (r *Resolver) errorf(code diagnostics.ErrorCode, loc location.ID, format string, args ...interface{}) {
	r.errors = append(r.errors, diagnostics.NewError(code, r.table, loc, format, args...))
}

func (r *Resolver) warnf(code diagnostics.ErrorCode, loc location.ID, format string, args ...interface{}) {
	r.errors = append(r.errors, diagnostics.NewWarning(code, r.table, loc, format, args...))
}

func (r *Resolver) base(loc location.ID) ir.Base {
	r.nextNode++
	return ir.Base{ID: r.nextNode, Loc: loc}
}

func (r *Resolver) resolveModule() *ir.Module {
	r.defineItems()
	if missing := r.own.ApplyExportList(r.mod.Exports); missing != nil {
		for _, item := range missing {
			r.errorf(diagnostics.ErrN004, item.Loc, "module %s exports %s, which it does not define", r.mod.Name, item.Name)
		}
	}
	r.scope.AddLocals(r.own)
	for _, info := range r.own.Data {
		r.data[info.Qualified()] = info
	}
	r.applyImports()

	out := &ir.Module{Name: r.mod.Name, File: r.mod.File, Table: r.own}
	for _, d := range r.mod.Data {
		out.Data = append(out.Data, r.resolveData(d))
	}
	sigs := r.signatures()
	for _, fn := range r.mod.Functions {
		if r.isDuplicateFunction(fn) {
			continue
		}
		out.Functions = append(out.Functions, r.resolveFunction(fn, sigs[fn.Name]))
	}
	for _, rec := range r.scope.Unused() {
		r.warnf(diagnostics.ErrN010, rec.Loc, "unused import %s", rec.Module)
	}
	out.NodeCount = r.nextNode
	out.VarCount = int(r.nextVar)
	return out
}

// defineItems fills the module's own table, reporting duplicates.
func (r *Resolver) defineItems() {
	for _, d := range r.mod.Data {
		r.defineData(d)
	}
	for _, fn := range r.mod.Functions {
		item := symbols.Item{Kind: symbols.FunctionItem, Name: fn.Name, Loc: fn.Loc}
		if prev, ok := r.own.Define(item); !ok {
			r.errorf(diagnostics.ErrN005, fn.Loc, "duplicate definition of %s (first defined at %s)", fn.Name, r.table.Lookup(prev.Loc))
		}
	}
}

func (r *Resolver) isDuplicateFunction(fn *ast.Function) bool {
	item, ok := r.own.Lookup(symbols.ValueNamespace, fn.Name)
	return !ok || item.Kind != symbols.FunctionItem || item.Loc != fn.Loc
}

func (r *Resolver) defineData(d ast.DataDefinition) {
	name := d.DataName()
	info := &symbols.DataInfo{Name: name, Params: d.Params()}
	if prev, ok := r.own.Define(symbols.Item{Kind: symbols.TypeItem, Name: name, Loc: d.Location()}); !ok {
		r.errorf(diagnostics.ErrN005, d.Location(), "duplicate definition of type %s (first defined at %s)", name, r.table.Lookup(prev.Loc))
		return
	}
	seenParams := make(map[string]bool)
	for _, p := range d.Params() {
		if seenParams[p] {
			r.errorf(diagnostics.ErrN005, d.Location(), "duplicate type parameter %s in %s", p, name)
		}
		seenParams[p] = true
	}
	for _, c := range d.DerivedClasses() {
		if !config.IsDerivable(c.Name) {
			r.errorf(diagnostics.ErrN006, c.Loc, "cannot derive %s for %s: derivable classes are Eq, Show and Ord", c.Name, name)
			continue
		}
		info.Derived = append(info.Derived, c.Name)
	}

	switch def := d.(type) {
	case *ast.AdtDef:
		for i, v := range def.Variants {
			item := symbols.Item{Kind: symbols.VariantItem, Name: v.Name, Owner: name, Index: i, Loc: v.Loc}
			if prev, ok := r.own.Define(item); !ok {
				r.errorf(diagnostics.ErrN005, v.Loc, "duplicate definition of constructor %s (first defined at %s)", v.Name, r.table.Lookup(prev.Loc))
			}
			info.Variants = append(info.Variants, symbols.VariantInfo{Name: v.Name, Arity: len(v.Fields)})
		}
	case *ast.RecordDef:
		info.Record = true
		info.Extern = def.External
		if def.External {
			break
		}
		item := symbols.Item{Kind: symbols.VariantItem, Name: name, Owner: name, Loc: def.Loc}
		if prev, ok := r.own.Define(item); !ok {
			r.errorf(diagnostics.ErrN005, def.Loc, "duplicate definition of constructor %s (first defined at %s)", name, r.table.Lookup(prev.Loc))
		}
		info.Variants = []symbols.VariantInfo{{Name: name, Arity: len(def.Fields)}}
		for i, f := range def.Fields {
			if info.FieldIndex(f.Name) >= 0 {
				r.errorf(diagnostics.ErrN005, f.Loc, "duplicate field %s in record %s", f.Name, name)
				continue
			}
			info.Fields = append(info.Fields, f.Name)
			r.own.Define(symbols.Item{Kind: symbols.FieldItem, Name: f.Name, Owner: name, Index: i, Loc: f.Loc})
		}
	}
	r.own.DefineData(info)
}

// applyImports brings imported names into scope. Std.Prelude is
// imported implicitly unless the module imports it itself.
func (r *Resolver) applyImports() {
	explicitPrelude := false
	for _, imp := range r.mod.Imports {
		if imp.Module == config.PreludeModule {
			explicitPrelude = true
		}
	}
	if !explicitPrelude && r.mod.Name != config.PreludeModule {
		if t, ok := r.snapshot.Module(config.PreludeModule); ok {
			r.addImport(&ast.Import{Loc: r.mod.Loc, Module: config.PreludeModule}, t, true)
		}
	}
	for _, imp := range r.mod.Imports {
		if imp.Module == r.mod.Name {
			r.errorf(diagnostics.ErrN003, imp.Loc, "module %s imports itself", imp.Module)
			continue
		}
		t, ok := r.snapshot.Module(imp.Module)
		if !ok {
			r.errorf(diagnostics.ErrN003, imp.Loc, "unknown module %s%s", imp.Module, suggestion(imp.Module, r.snapshot.Names()))
			continue
		}
		r.addImport(imp, t, false)
	}
}

func (r *Resolver) addImport(imp *ast.Import, t *symbols.ModuleTable, implicit bool) {
	for _, item := range r.scope.AddImport(imp, t, implicit) {
		r.errorf(diagnostics.ErrN004, item.Loc, "module %s does not export %s", imp.Module, item.Name)
	}
	for _, info := range t.Data {
		r.data[info.Qualified()] = info
	}
}

func (r *Resolver) signatures() map[string]*ast.FunctionSignature {
	sigs := make(map[string]*ast.FunctionSignature)
	for _, s := range r.mod.Signatures {
		if prev, ok := sigs[s.Name]; ok {
			r.errorf(diagnostics.ErrN005, s.Loc, "duplicate signature for %s (first at %s)", s.Name, r.table.Lookup(prev.Loc))
			continue
		}
		sigs[s.Name] = s
		if item, ok := r.own.Lookup(symbols.ValueNamespace, s.Name); !ok || item.Kind != symbols.FunctionItem {
			r.errorf(diagnostics.ErrN009, s.Loc, "signature for %s has no function definition", s.Name)
		}
	}
	return sigs
}
