package commits

// NewGraph builds an ancestry graph from flattened edges.
// Parents keep the order of the edges, so Parents(c)[0] is the first parent
// of a merge commit. Repeated edges are recorded once.
func NewGraph(edges []Edge) *Graph {
	g := &Graph{
		parents:  make(map[string][]string),
		children: make(map[string][]string),
		order:    []string{},
	}

	for _, e := range edges {
		g.add(e.Child)
		if e.IsRoot() {
			continue
		}

		g.add(e.Parent)
		if contains(g.parents[e.Child], e.Parent) {
			continue
		}

		g.parents[e.Child] = append(g.parents[e.Child], e.Parent)
		g.children[e.Parent] = append(g.children[e.Parent], e.Child)
	}

	return g
}

// Graph is a read-only commit ancestry graph.
// It is safe for concurrent use once built.
type Graph struct {
	parents  map[string][]string
	children map[string][]string
	order    []string // commits in first-seen order
}

func (g *Graph) add(commit string) {
	if _, ok := g.parents[commit]; ok {
		return
	}

	g.parents[commit] = nil
	g.order = append(g.order, commit)
}

// Len returns the number of commits, including parents that never appeared
// as a child.
func (g *Graph) Len() int {
	return len(g.order)
}

// Has reports whether commit is part of the graph.
func (g *Graph) Has(commit string) bool {
	_, ok := g.parents[commit]
	return ok
}

// Commits returns all commits in first-seen order.
func (g *Graph) Commits() []string {
	return append([]string(nil), g.order...)
}

// Parents returns the parents of commit in log order.
func (g *Graph) Parents(commit string) []string {
	return append([]string(nil), g.parents[commit]...)
}

// FirstParent returns the first parent of commit.
func (g *Graph) FirstParent(commit string) (string, bool) {
	parents := g.parents[commit]
	if len(parents) == 0 {
		return "", false
	}
	return parents[0], true
}

// Children returns the commits having commit as a parent, in discovery order.
func (g *Graph) Children(commit string) []string {
	return append([]string(nil), g.children[commit]...)
}

// Roots returns the commits without parents, in first-seen order.
// Commits only known as a parent (truncated history) are included.
func (g *Graph) Roots() []string {
	roots := []string{}
	for _, commit := range g.order {
		if len(g.parents[commit]) == 0 {
			roots = append(roots, commit)
		}
	}
	return roots
}

// Ancestors returns up to limit ancestors of commit in breadth-first order,
// nearest first. A limit <= 0 means no limit.
func (g *Graph) Ancestors(commit string, limit int) []string {
	ancestors := []string{}
	if !g.Has(commit) {
		return ancestors
	}

	seen := map[string]struct{}{commit: {}}
	queue := []string{commit}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, parent := range g.parents[current] {
			if _, ok := seen[parent]; ok {
				continue
			}
			seen[parent] = struct{}{}

			ancestors = append(ancestors, parent)
			if limit > 0 && len(ancestors) == limit {
				return ancestors
			}
			queue = append(queue, parent)
		}
	}

	return ancestors
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
