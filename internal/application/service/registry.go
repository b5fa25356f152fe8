package service

import (
	"sort"

	"policy-agent/internal/application/port/output"
)

var _ output.TaskRegistry = (*TaskRegistryImpl)(nil)

type TaskRegistryImpl struct {
	units map[string]output.TaskUnit
}

func NewTaskRegistry() *TaskRegistryImpl {
	return &TaskRegistryImpl{
		units: make(map[string]output.TaskUnit),
	}
}

func (r *TaskRegistryImpl) Register(unit output.TaskUnit) {
	r.units[unit.Name()] = unit
}

func (r *TaskRegistryImpl) Get(name string) (output.TaskUnit, bool) {
	unit, ok := r.units[name]
	return unit, ok
}

func (r *TaskRegistryImpl) Names() []string {
	names := make([]string, 0, len(r.units))
	for name := range r.units {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
