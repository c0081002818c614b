package commits

// DefaultMaxDistance bounds the traversal of Nearest when no explicit limit
// is given.
const DefaultMaxDistance = 100

// Match is the result of a nearest-commit lookup.
type Match struct {
	Commit   string
	Distance int
	// Ancestor is true when Commit is reachable through parents only.
	// It is also true for a distance of 0.
	Ancestor bool
}

type visit struct {
	commit   string
	distance int
	ancestor bool
}

// Nearest finds the closest commit, ancestor or descendant of commit, for
// which isIndexed returns true. The commit itself is checked first.
//
// The walk is breadth-first and never goes further than maxDistance hops
// (DefaultMaxDistance if maxDistance <= 0). For each commit, parents are
// queued before children, in graph order, so that among candidates at the
// same distance the first-parent ancestry wins.
func (g *Graph) Nearest(commit string, isIndexed func(string) bool, maxDistance int) (Match, bool) {
	if !g.Has(commit) {
		return Match{}, false
	}
	if maxDistance <= 0 {
		maxDistance = DefaultMaxDistance
	}

	seen := map[string]struct{}{commit: {}}
	queue := []visit{{commit: commit, ancestor: true}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if isIndexed(current.commit) {
			return Match{
				Commit:   current.commit,
				Distance: current.distance,
				Ancestor: current.ancestor,
			}, true
		}

		if current.distance == maxDistance {
			continue
		}

		for _, parent := range g.parents[current.commit] {
			if _, ok := seen[parent]; ok {
				continue
			}
			seen[parent] = struct{}{}
			queue = append(queue, visit{commit: parent, distance: current.distance + 1, ancestor: current.ancestor})
		}

		for _, child := range g.children[current.commit] {
			if _, ok := seen[child]; ok {
				continue
			}
			seen[child] = struct{}{}
			queue = append(queue, visit{commit: child, distance: current.distance + 1, ancestor: false})
		}
	}

	return Match{}, false
}
