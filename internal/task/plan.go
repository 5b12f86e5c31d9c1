package task

import "strings"

// Plan is an ordered list of distinct task names in which every task comes
// after all of its prerequisites and the requested task comes last.
type Plan []string

// Root returns the requested task, or "" for an empty plan.
func (p Plan) Root() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Contains reports whether name is part of the plan.
func (p Plan) Contains(name string) bool {
	for _, n := range p {
		if n == name {
			return true
		}
	}
	return false
}

func (p Plan) String() string {
	return strings.Join(p, " -> ")
}
