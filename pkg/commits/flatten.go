package commits

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedInput is returned when a commit line cannot be decomposed
// into a child and its parents.
var ErrMalformedInput = errors.New("commits: malformed input")

// Edge links a commit to one of its parents.
// An empty Parent marks a root commit.
type Edge struct {
	Child  string
	Parent string
}

// IsRoot reports whether the edge is the sentinel of a commit without parents.
func (e Edge) IsRoot() bool {
	return e.Parent == ""
}

// FlattenParents turns lines of the form "<child> [parent ...]" into one edge
// per parent. A line without parents produces a single (child, "") edge.
//
// Edges follow the order of the lines, then the order of the parents within
// a line, so the first edge of a merge commit points to its first parent.
// Identical edges are not merged.
//
// Tokens are separated by exactly one space. Empty or blank lines and empty
// tokens (leading, trailing or repeated spaces) are rejected with an error
// wrapping ErrMalformedInput; no edges are returned in that case.
func FlattenParents(lines []string) ([]Edge, error) {
	size := 0
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			return nil, fmt.Errorf("%w: line %d is blank", ErrMalformedInput, i+1)
		}
		size += max(strings.Count(line, " "), 1)
	}

	edges := make([]Edge, 0, size)

	for i, line := range lines {
		tokens := strings.Split(line, " ")
		for j, token := range tokens {
			if token == "" {
				return nil, fmt.Errorf("%w: line %d has an empty token at position %d: %q", ErrMalformedInput, i+1, j+1, line)
			}
		}

		child, parents := tokens[0], tokens[1:]
		if len(parents) == 0 {
			edges = append(edges, Edge{Child: child})
			continue
		}

		for _, parent := range parents {
			edges = append(edges, Edge{Child: child, Parent: parent})
		}
	}

	return edges, nil
}
