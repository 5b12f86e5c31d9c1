package task

import (
	"errors"
	"sort"

	phonyerrors "github.com/AndreyAkinshin/phony/internal/errors"
	"github.com/AndreyAkinshin/phony/internal/topsort"
)

// Registry manages a collection of tasks.
//
// A Registry is populated once and then only read; concurrent reads are safe
// once construction is complete.
type Registry struct {
	tasks map[string]Task
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tasks: make(map[string]Task)}
}

// Register adds t, replacing any task already registered under t.Name.
// It reports whether an existing task was replaced.
//
// Prerequisites are not checked here: they may name tasks registered later.
func (r *Registry) Register(t Task) (replaced bool) {
	_, replaced = r.tasks[t.Name]
	r.tasks[t.Name] = t.clone()
	return replaced
}

// Lookup retrieves a copy of the task registered under name.
func (r *Registry) Lookup(name string) (Task, error) {
	t, ok := r.tasks[name]
	if !ok {
		return Task{}, phonyerrors.UnknownTask(name)
	}
	return t.clone(), nil
}

// Has reports whether a task named name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.tasks[name]
	return ok
}

// Len returns the number of registered tasks.
func (r *Registry) Len() int {
	return len(r.tasks)
}

// Names returns all task names sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tasks))
	for name := range r.tasks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns copies of all tasks sorted by name.
func (r *Registry) All() []Task {
	names := r.Names()
	result := make([]Task, len(names))
	for i, name := range names {
		result[i] = r.tasks[name].clone()
	}
	return result
}

// buildGraph creates a topsort.Graph from the registry.
func (r *Registry) buildGraph() topsort.Graph {
	g := make(topsort.Graph, len(r.tasks))
	for name, t := range r.tasks {
		g[name] = t.DependsOn
	}
	return g
}

// Plan returns the execution plan for root: every transitive prerequisite,
// each exactly once and after its own prerequisites, followed by root.
// Sibling prerequisites keep their declared order.
func (r *Registry) Plan(root string) (Plan, error) {
	names, err := topsort.Resolve(r.buildGraph(), root)
	if err != nil {
		return nil, translate(err)
	}
	return Plan(names), nil
}

// Validate checks every registered task for unknown prerequisites and cycles.
func (r *Registry) Validate() error {
	return translate(topsort.Validate(r.buildGraph()))
}

// translate maps topsort errors onto the phony error taxonomy.
func translate(err error) error {
	if err == nil {
		return nil
	}
	var missing *topsort.MissingError
	if errors.As(err, &missing) {
		if missing.From == "" {
			return phonyerrors.UnknownTask(missing.Name)
		}
		return phonyerrors.UnknownPrerequisite(missing.Name, missing.From)
	}
	var cycle *topsort.CycleError
	if errors.As(err, &cycle) {
		return phonyerrors.CyclicDependency(cycle.Path)
	}
	return err
}
