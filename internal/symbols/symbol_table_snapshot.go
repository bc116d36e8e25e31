package symbols

import "sort"

// Snapshot is the read-only view of every module processed so far. It
// is replaced, never edited, when a level of modules completes.
type Snapshot struct {
	tables map[string]*ModuleTable
}

func NewSnapshot(tables ...*ModuleTable) *Snapshot {
	s := &Snapshot{tables: make(map[string]*ModuleTable, len(tables))}
	for _, t := range tables {
		s.tables[t.Name] = t
	}
	return s
}

// Module returns the table of a processed module.
func (s *Snapshot) Module(name string) (*ModuleTable, bool) {
	if s == nil {
		return nil, false
	}
	t, ok := s.tables[name]
	return t, ok
}

// With returns a new snapshot that also contains tables.
func (s *Snapshot) With(tables ...*ModuleTable) *Snapshot {
	next := &Snapshot{tables: make(map[string]*ModuleTable, len(s.tables)+len(tables))}
	for name, t := range s.tables {
		next.tables[name] = t
	}
	for _, t := range tables {
		next.tables[t.Name] = t
	}
	return next
}

// Names returns the module names in sorted order.
func (s *Snapshot) Names() []string {
	names := make([]string, 0, len(s.tables))
	for n := range s.tables {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
