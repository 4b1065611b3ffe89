package graph

import (
	"errors"
	"sort"
)

var ErrCycleDetected = errors.New("cycle detected in graph")

// TopologicalSort orders nodes so that every node comes after the nodes it
// depends on. Nodes on the same level are sorted by id.
func (g *Graph) TopologicalSort() ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	dependents := make(map[string][]string, len(g.nodes))
	inDegree := make(map[string]int, len(g.nodes))

	for id := range g.nodes {
		inDegree[id] = 0
	}

	for id, deps := range g.edges {
		for _, dep := range deps {
			if _, exists := g.nodes[dep]; exists {
				dependents[dep] = append(dependents[dep], id)
				inDegree[id]++
			}
		}
	}

	var queue []string
	for id, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, id)
		}
	}
	sort.Strings(queue)

	var sorted []string
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		sorted = append(sorted, node)

		var ready []string
		for _, dependent := range dependents[node] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				ready = append(ready, dependent)
			}
		}
		sort.Strings(ready)
		queue = append(queue, ready...)
	}

	if len(sorted) != len(g.nodes) {
		return nil, ErrCycleDetected
	}
	return sorted, nil
}
