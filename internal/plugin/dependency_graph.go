package plugin

import (
	"fmt"
	"sort"
)

// DependencyGraph tracks theme plugin relationships and yields the order in which
// plugins are merged. Nodes remember their declaration order so that plugins with
// no dependency relationship keep the caller's ordering.
type DependencyGraph struct {
	order    map[string]int
	nodes    []string
	incoming map[string]map[string]struct{}
	outgoing map[string]map[string]struct{}
}

// NewDependencyGraph creates an empty dependency graph.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		order:    make(map[string]int),
		incoming: make(map[string]map[string]struct{}),
		outgoing: make(map[string]map[string]struct{}),
	}
}

// AddNode ensures the plugin exists within the graph. The first call fixes its declaration rank.
func (g *DependencyGraph) AddNode(name string) {
	if _, exists := g.order[name]; exists {
		return
	}

	g.order[name] = len(g.nodes)
	g.nodes = append(g.nodes, name)
	g.incoming[name] = make(map[string]struct{})
	g.outgoing[name] = make(map[string]struct{})
}

// AddEdge records that dependent must be applied after dependency.
func (g *DependencyGraph) AddEdge(dependent, dependency string) {
	g.AddNode(dependent)
	g.AddNode(dependency)

	g.outgoing[dependent][dependency] = struct{}{}
	g.incoming[dependency][dependent] = struct{}{}
}

// DetectCycles returns the members of one cycle, or nil when the graph is acyclic.
// Nodes are explored in declaration order so the reported cycle is stable.
func (g *DependencyGraph) DetectCycles() []string {
	visited := make(map[string]bool, len(g.nodes))
	onPath := make(map[string]bool, len(g.nodes))
	path := []string{}

	var cycle []string
	var dfs func(node string) bool

	dfs = func(node string) bool {
		visited[node] = true
		onPath[node] = true
		path = append(path, node)

		for _, dependency := range g.GetDependencies(node) {
			if onPath[dependency] {
				idx := len(path) - 1
				for idx >= 0 && path[idx] != dependency {
					idx--
				}
				cycle = append([]string{}, path[idx:]...)
				return true
			}
			if !visited[dependency] && dfs(dependency) {
				return true
			}
		}

		onPath[node] = false
		path = path[:len(path)-1]
		return false
	}

	for _, node := range g.nodes {
		if !visited[node] && dfs(node) {
			break
		}
	}

	return cycle
}

// TopologicalSort returns nodes with dependencies first. Among nodes that are
// ready at the same time the earliest declared wins, so independent plugins are
// applied in the order the caller listed them.
func (g *DependencyGraph) TopologicalSort() ([]string, error) {
	remaining := make(map[string]int, len(g.nodes))
	var ready []string
	for _, node := range g.nodes {
		remaining[node] = len(g.outgoing[node])
		if remaining[node] == 0 {
			ready = append(ready, node)
		}
	}

	result := make([]string, 0, len(g.nodes))
	for len(ready) > 0 {
		current := ready[0]
		ready = ready[1:]
		result = append(result, current)

		for dependent := range g.incoming[current] {
			remaining[dependent]--
			if remaining[dependent] == 0 {
				ready = append(ready, dependent)
			}
		}
		sort.Slice(ready, func(i, j int) bool {
			return g.order[ready[i]] < g.order[ready[j]]
		})
	}

	if len(result) != len(g.nodes) {
		if cycle := g.DetectCycles(); len(cycle) > 0 {
			return nil, ErrCircularDependency{Cycle: cycle}
		}
		return nil, fmt.Errorf("dependency graph contains unresolved nodes")
	}

	return result, nil
}

// GetDependencies returns the direct dependencies of node in declaration order.
func (g *DependencyGraph) GetDependencies(node string) []string {
	return g.ranked(g.outgoing[node])
}

// GetDependents returns the nodes that directly depend on node in declaration order.
func (g *DependencyGraph) GetDependents(node string) []string {
	return g.ranked(g.incoming[node])
}

// HasNode reports if the node exists in the graph.
func (g *DependencyGraph) HasNode(node string) bool {
	if g == nil {
		return false
	}
	_, ok := g.order[node]
	return ok
}

func (g *DependencyGraph) ranked(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Slice(out, func(i, j int) bool {
		return g.order[out[i]] < g.order[out[j]]
	})
	return out
}
