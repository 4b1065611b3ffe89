package graph

import (
	"sort"
	"sync"
)

// Graph is a directed dependency graph. An edge A -> B means A needs B.
// Dependencies that were never added as nodes are reported by Missing.
type Graph struct {
	mu    sync.RWMutex
	nodes map[string]struct{}
	edges map[string][]string
}

func New() *Graph {
	return &Graph{
		nodes: make(map[string]struct{}),
		edges: make(map[string][]string),
	}
}

func (g *Graph) AddNode(id string, dependencies []string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	deps := make([]string, len(dependencies))
	copy(deps, dependencies)

	g.nodes[id] = struct{}{}
	g.edges[id] = deps
}

func (g *Graph) Dependencies(id string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	deps, exists := g.edges[id]
	if !exists {
		return nil
	}

	result := make([]string, len(deps))
	copy(result, deps)
	return result
}

// Dependents returns the nodes that depend on id, sorted.
func (g *Graph) Dependents(id string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var dependents []string
	for nodeID, deps := range g.edges {
		for _, dep := range deps {
			if dep == id {
				dependents = append(dependents, nodeID)
				break
			}
		}
	}
	sort.Strings(dependents)
	return dependents
}

// Nodes returns every node id, sorted.
func (g *Graph) Nodes() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.sortedNodes()
}

func (g *Graph) sortedNodes() []string {
	nodes := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		nodes = append(nodes, id)
	}
	sort.Strings(nodes)
	return nodes
}

func (g *Graph) Size() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.nodes)
}

// Missing returns the dependencies that are not nodes of the graph, sorted.
func (g *Graph) Missing() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var missing []string
	seen := make(map[string]bool)

	for _, deps := range g.edges {
		for _, dep := range deps {
			if _, exists := g.nodes[dep]; !exists && !seen[dep] {
				missing = append(missing, dep)
				seen[dep] = true
			}
		}
	}

	sort.Strings(missing)
	return missing
}
