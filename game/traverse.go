package game

import "fmt"

// Flow is the verdict of Strategy.Process: keep walking, or stop and report
// an index.
type Flow struct {
	stop bool
	at   Index
}

// Continue lets the traversal go on past the processed cell.
func Continue() Flow {
	return Flow{}
}

// Stop halts the traversal; it will return i.
func Stop(i Index) Flow {
	return Flow{stop: true, at: i}
}

// Stopped reports whether the flow halts the traversal, and where.
func (f Flow) Stopped() (Index, bool) {
	return f.at, f.stop
}

// Strategy parameterizes a traversal. It alone decides what counts as
// visited: the walk keeps no visited set of its own, so a strategy may mark
// cells on the board (multi-pass marking) or keep its own set.
type Strategy interface {
	// Visited reports whether the cell at i must not be processed (again).
	Visited(b Board, i Index) bool
	// Process handles the cell at i and decides whether to go on.
	Process(b Board, i Index) Flow
}

// Traverse walks the connected painted cells reachable from start. Each cell
// taken from the frontier is skipped if s reports it visited, otherwise it is
// processed; painted neighbors not yet visited are pushed afterwards. The
// walk returns the index given to Stop, or ok == false once the frontier is
// exhausted.
func Traverse(b Board, start Index, s Strategy) (at Index, ok bool, err error) {
	h, err := b.Cell(start)
	if err != nil {
		return 0, false, err
	}
	if h.Kind() != Painted {
		return 0, false, fmt.Errorf("%w: index %d is %s", ErrNotPainted, start, h.Kind())
	}

	frontier := []Index{start}
	for len(frontier) > 0 {
		current := frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]

		if s.Visited(b, current) {
			continue
		}
		if at, stop := s.Process(b, current).Stopped(); stop {
			return at, true, nil
		}

		for _, n := range b.Adjacent(current) {
			if c, ok := CellAt(b, n); ok && c.Kind == Painted && !s.Visited(b, n) {
				frontier = append(frontier, n)
			}
		}
	}
	return 0, false, nil
}
