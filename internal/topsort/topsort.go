// Package topsort provides topological sorting with cycle detection.
package topsort

import (
	"fmt"
	"sort"
	"strings"
)

// Graph represents a directed graph for topological sorting.
// The keys are node names, values are lists of dependencies (edges point to dependencies).
// The order of each dependency list is significant: dependencies are visited
// left to right, which makes the resulting order reproducible.
type Graph map[string][]string

// CycleError reports a dependency cycle. Path starts and ends at the node
// that was revisited, e.g. [a b a].
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("circular dependency detected: %s", strings.Join(e.Path, " -> "))
}

// MissingError reports a node that is referenced but not defined.
// From is the node whose dependency list references Name; it is empty when
// Name was requested directly.
type MissingError struct {
	Name string
	From string
}

func (e *MissingError) Error() string {
	if e.From == "" {
		return fmt.Sprintf("node %q not found in graph", e.Name)
	}
	return fmt.Sprintf("node %q not found in graph (required by %q)", e.Name, e.From)
}

// sorter holds the traversal state of a single Sort call.
type sorter struct {
	g        Graph
	resolved map[string]bool
	visiting []string
	onPath   map[string]int // node -> index in visiting
	result   []string
}

// Sort performs topological sort on the graph, returning nodes in dependency order.
// Dependencies appear before dependents in the result and every node appears once.
// Returns *CycleError if a cycle is detected and *MissingError if a node or
// dependency is undefined.
//
// The nodes parameter specifies which nodes to sort. If nil, all nodes in the graph are sorted
// in name order. When nodes is provided, only those nodes and their transitive dependencies
// are included, visited in the given order.
func Sort(g Graph, nodes []string) ([]string, error) {
	if nodes == nil {
		nodes = make([]string, 0, len(g))
		for name := range g {
			nodes = append(nodes, name)
		}
		sort.Strings(nodes)
	}

	s := &sorter{
		g:        g,
		resolved: make(map[string]bool),
		onPath:   make(map[string]int),
	}

	for _, name := range nodes {
		if err := s.visit(name, ""); err != nil {
			return nil, err
		}
	}

	return s.result, nil
}

// Resolve returns the execution order for a single root: every transitive
// dependency of root followed by root itself, which is always last.
func Resolve(g Graph, root string) ([]string, error) {
	return Sort(g, []string{root})
}

func (s *sorter) visit(name, from string) error {
	if s.resolved[name] {
		return nil
	}
	if idx, ok := s.onPath[name]; ok {
		path := make([]string, 0, len(s.visiting)-idx+1)
		path = append(path, s.visiting[idx:]...)
		path = append(path, name)
		return &CycleError{Path: path}
	}

	deps, exists := s.g[name]
	if !exists {
		return &MissingError{Name: name, From: from}
	}

	s.onPath[name] = len(s.visiting)
	s.visiting = append(s.visiting, name)

	for _, dep := range deps {
		if err := s.visit(dep, name); err != nil {
			return err
		}
	}

	s.visiting = s.visiting[:len(s.visiting)-1]
	delete(s.onPath, name)
	s.resolved[name] = true
	s.result = append(s.result, name)

	return nil
}

// Validate checks the graph for undefined dependencies and cycles.
// Returns nil if the graph is valid. Nodes are checked in name order so the
// reported error is stable.
func Validate(g Graph) error {
	names := make([]string, 0, len(g))
	for name := range g {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		for _, dep := range g[name] {
			if _, ok := g[dep]; !ok {
				return &MissingError{Name: dep, From: name}
			}
		}
	}

	_, err := Sort(g, names)
	return err
}
