package evaluator

import (
	"github.com/funvibe/siko/internal/core"
	"github.com/funvibe/siko/pkg/rt"
)

func NewEnvironment() *Environment {
	return &Environment{store: make(map[int]rt.Value)}
}

func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.outer = outer
	return env
}

// Environment maps variables to values. Variables are unique within a
// module, so lookups never need to skip a shadowed binding.
type Environment struct {
	store map[int]rt.Value
	outer *Environment
}

func (e *Environment) Get(v core.Var) (rt.Value, bool) {
	for env := e; env != nil; env = env.outer {
		if val, ok := env.store[v.ID]; ok {
			return val, true
		}
	}
	return nil, false
}

func (e *Environment) Set(v core.Var, val rt.Value) rt.Value {
	e.store[v.ID] = val
	return val
}
