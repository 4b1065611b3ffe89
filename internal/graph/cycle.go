package graph

type cycleDetector struct {
	graph   *Graph
	index   int
	stack   []string
	onStack map[string]bool
	indices map[string]int
	lowlink map[string]int
	sccs    [][]string
}

// detectCycles returns the strongly connected components that form cycles,
// including nodes that depend on themselves. Callers hold g.mu.
func (g *Graph) detectCycles() [][]string {
	detector := &cycleDetector{
		graph:   g,
		onStack: make(map[string]bool),
		indices: make(map[string]int),
		lowlink: make(map[string]int),
	}

	for _, id := range g.sortedNodes() {
		if _, visited := detector.indices[id]; !visited {
			detector.strongConnect(id)
		}
	}

	var cycles [][]string
	for _, scc := range detector.sccs {
		if len(scc) > 1 {
			cycles = append(cycles, scc)
			continue
		}
		for _, dep := range g.edges[scc[0]] {
			if dep == scc[0] {
				cycles = append(cycles, scc)
				break
			}
		}
	}
	return cycles
}

func (d *cycleDetector) strongConnect(id string) {
	d.indices[id] = d.index
	d.lowlink[id] = d.index
	d.index++
	d.stack = append(d.stack, id)
	d.onStack[id] = true

	for _, dep := range d.graph.edges[id] {
		if _, exists := d.graph.nodes[dep]; !exists {
			continue
		}

		if _, visited := d.indices[dep]; !visited {
			d.strongConnect(dep)
			d.lowlink[id] = min(d.lowlink[id], d.lowlink[dep])
		} else if d.onStack[dep] {
			d.lowlink[id] = min(d.lowlink[id], d.indices[dep])
		}
	}

	if d.lowlink[id] == d.indices[id] {
		var scc []string
		for {
			n := len(d.stack) - 1
			w := d.stack[n]
			d.stack = d.stack[:n]
			d.onStack[w] = false
			scc = append(scc, w)
			if w == id {
				break
			}
		}
		d.sccs = append(d.sccs, scc)
	}
}

// findCyclePath returns a path that starts and ends at the same node,
// reachable from start, or nil.
func (g *Graph) findCyclePath(start string) []string {
	visited := make(map[string]bool)
	inPath := make(map[string]bool)
	var path []string

	var dfs func(id string) []string
	dfs = func(id string) []string {
		if inPath[id] {
			var cycle []string
			found := false
			for _, p := range path {
				if p == id {
					found = true
				}
				if found {
					cycle = append(cycle, p)
				}
			}
			return append(cycle, id)
		}
		if visited[id] {
			return nil
		}

		visited[id] = true
		path = append(path, id)
		inPath[id] = true

		for _, dep := range g.edges[id] {
			if _, exists := g.nodes[dep]; !exists {
				continue
			}
			if cycle := dfs(dep); cycle != nil {
				return cycle
			}
		}

		path = path[:len(path)-1]
		inPath[id] = false
		return nil
	}

	return dfs(start)
}

// CyclePaths returns one concrete path per detected cycle.
func (g *Graph) CyclePaths() [][]string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var paths [][]string
	for _, scc := range g.detectCycles() {
		if path := g.findCyclePath(scc[0]); path != nil {
			paths = append(paths, path)
		}
	}
	return paths
}
