package analyzer

import (
	"sort"

	"github.com/funvibe/siko/internal/ir"
)

// components splits fns into strongly connected components of the
// call graph, callees before callers. Only references between members
// of fns count as edges.
func components(fns []*ir.Function, module string) [][]*ir.Function {
	byName := make(map[string]int, len(fns))
	for i, fn := range fns {
		byName[fn.Name] = i
	}
	edges := make([][]int, len(fns))
	for i, fn := range fns {
		seen := make(map[int]bool)
		ir.Inspect(fn.Body, func(n ir.Node) bool {
			if g, ok := n.(*ir.GlobalRef); ok && g.Ref.Module == module {
				if j, ok := byName[g.Ref.Name]; ok && !seen[j] {
					seen[j] = true
					edges[i] = append(edges[i], j)
				}
			}
			return true
		})
	}

	t := &tarjan{edges: edges, index: make([]int, len(fns)), low: make([]int, len(fns)), onStack: make([]bool, len(fns))}
	for i := range t.index {
		t.index[i] = -1
	}
	for i := range fns {
		if t.index[i] < 0 {
			t.visit(i)
		}
	}
	out := make([][]*ir.Function, len(t.sccs))
	for i, scc := range t.sccs {
		for _, j := range scc {
			out[i] = append(out[i], fns[j])
		}
	}
	return out
}

type tarjan struct {
	edges   [][]int
	index   []int
	low     []int
	onStack []bool
	stack   []int
	counter int
	sccs    [][]int
}

func (t *tarjan) visit(v int) {
	t.index[v] = t.counter
	t.low[v] = t.counter
	t.counter++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for _, w := range t.edges[v] {
		if t.index[w] < 0 {
			t.visit(w)
			t.low[v] = min(t.low[v], t.low[w])
		} else if t.onStack[w] {
			t.low[v] = min(t.low[v], t.index[w])
		}
	}

	if t.low[v] == t.index[v] {
		var scc []int
		for {
			w := t.stack[len(t.stack)-1]
			t.stack = t.stack[:len(t.stack)-1]
			t.onStack[w] = false
			scc = append(scc, w)
			if w == v {
				break
			}
		}
		sort.Ints(scc)
		t.sccs = append(t.sccs, scc)
	}
}
