package symbols

import (
	"github.com/funvibe/siko/internal/ast"
)

type key struct {
	ns   Namespace
	name string
}

// ModuleTable lists everything a module defines, in declaration order,
// and the subset it exports.
type ModuleTable struct {
	Name    string
	Items   []Item
	Exports []Item
	Data    map[string]*DataInfo

	defined map[key]Item
}

func NewModuleTable(name string) *ModuleTable {
	return &ModuleTable{Name: name, Data: make(map[string]*DataInfo), defined: make(map[key]Item)}
}

// Define adds an item. It reports the earlier item when the name is
// already taken in the same namespace; fields may repeat across records.
func (t *ModuleTable) Define(item Item) (Item, bool) {
	item.Module = t.Name
	k := key{item.Kind.Namespace(), item.Name}
	if prev, ok := t.defined[k]; ok && item.Kind != FieldItem {
		return prev, false
	}
	if _, ok := t.defined[k]; !ok {
		t.defined[k] = item
	}
	t.Items = append(t.Items, item)
	return item, true
}

// DefineData records the shape of a data type.
func (t *ModuleTable) DefineData(info *DataInfo) {
	info.Module = t.Name
	t.Data[info.Name] = info
}

// Lookup finds a definition of this module by unqualified name.
func (t *ModuleTable) Lookup(ns Namespace, name string) (Item, bool) {
	item, ok := t.defined[key{ns, name}]
	return item, ok
}

// members returns the variants of a type, or the constructor and fields
// of a record.
func (t *ModuleTable) members(typeName string) []Item {
	var out []Item
	for _, it := range t.Items {
		if (it.Kind == VariantItem || it.Kind == FieldItem) && it.Owner == typeName {
			out = append(out, it)
		}
	}
	return out
}

// SelectItems expands an item list (`f`, `T`, `T(..)`) against the given
// candidate items. A type name selects the type, with its members when
// written `T(..)`; otherwise a name selects functions and constructors.
// Names that match nothing are returned separately.
func SelectItems(from []Item, list []*ast.ExportItem, members func(string) []Item) ([]Item, []*ast.ExportItem) {
	var out []Item
	var missing []*ast.ExportItem
	for _, entry := range list {
		var typ *Item
		var values []Item
		for i, it := range from {
			if it.Name != entry.Name {
				continue
			}
			switch it.Kind {
			case TypeItem:
				typ = &from[i]
			case FunctionItem, VariantItem:
				values = append(values, it)
			}
		}
		switch {
		case typ != nil:
			out = append(out, *typ)
			if entry.Members {
				out = append(out, members(typ.Name)...)
			}
		case len(values) > 0:
			out = append(out, values...)
		default:
			missing = append(missing, entry)
		}
	}
	return dedupe(out), missing
}

// ApplyExportList computes the exports. A nil list exports everything.
func (t *ModuleTable) ApplyExportList(list []*ast.ExportItem) []*ast.ExportItem {
	if list == nil {
		t.Exports = append([]Item(nil), t.Items...)
		return nil
	}
	exports, missing := SelectItems(t.Items, list, t.members)
	t.Exports = exports
	return missing
}

// exportedMembers is members restricted to exported items.
func (t *ModuleTable) exportedMembers(typeName string) []Item {
	var out []Item
	for _, it := range t.Exports {
		if (it.Kind == VariantItem || it.Kind == FieldItem) && it.Owner == typeName {
			out = append(out, it)
		}
	}
	return out
}

// IsExported reports whether item is visible to importers.
func (t *ModuleTable) IsExported(item Item) bool {
	for _, it := range t.Exports {
		if it == item {
			return true
		}
	}
	return false
}

func dedupe(items []Item) []Item {
	seen := make(map[Item]bool, len(items))
	out := items[:0]
	for _, it := range items {
		if !seen[it] {
			seen[it] = true
			out = append(out, it)
		}
	}
	return out
}
