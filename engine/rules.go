package engine

import (
	"crosses/game"
)

// A chain of player p is a connected group of p's painted cells. It is alive
// while one of its cells touches a marker of p. Evaluating a chain takes two
// walks: a search that looks for such a marker, then a settle pass that
// writes the verdict to every cell of the chain.
//
// The marker found by the search is flagged as the chain's anchor, and the
// chain cell touching it becomes Anchored. Every living chain keeps at least
// one anchor marker next to it, so losing a marker that is not an anchor can
// never kill a chain and needs no evaluation.

func ownPainted(b game.Board, i game.Index, p game.Player) (game.Cell, bool) {
	c, ok := game.CellAt(b, i)
	return c, ok && c.Kind == game.Painted && c.Owner == p
}

// searchStrategy marks the cells it walks as Marked and stops at the first
// marker of its player touching the chain.
type searchStrategy struct {
	player  game.Player
	contact game.Index
	err     error
}

func (s *searchStrategy) Visited(b game.Board, i game.Index) bool {
	c, own := ownPainted(b, i, s.player)
	return !own || c.Status == game.Marked
}

func (s *searchStrategy) Process(b game.Board, i game.Index) game.Flow {
	h, err := b.Cell(i)
	if err == nil {
		err = h.SetStatus(game.Marked)
	}
	if err != nil {
		s.err = err
		return game.Stop(i)
	}
	for _, n := range b.Adjacent(i) {
		if c, ok := game.CellAt(b, n); ok && c.Kind == game.Marker && c.Owner == s.player {
			s.contact = i
			return game.Stop(n)
		}
	}
	return game.Continue()
}

// settleStrategy sets every cell of a chain to Alive or Dead and collects the
// empty and marker cells around it. It keeps its own visited set because it
// has to pass over whatever statuses an earlier search left behind.
type settleStrategy struct {
	player game.Player
	alive  bool
	seen   map[game.Index]struct{}
	rim    []game.Index
	onRim  map[game.Index]struct{}
	err    error
}

func newSettleStrategy(p game.Player, alive bool) *settleStrategy {
	return &settleStrategy{
		player: p,
		alive:  alive,
		seen:   make(map[game.Index]struct{}),
		onRim:  make(map[game.Index]struct{}),
	}
}

func (s *settleStrategy) Visited(b game.Board, i game.Index) bool {
	if _, own := ownPainted(b, i, s.player); !own {
		return true
	}
	_, ok := s.seen[i]
	return ok
}

func (s *settleStrategy) Process(b game.Board, i game.Index) game.Flow {
	s.seen[i] = struct{}{}
	status := game.Dead
	if s.alive {
		status = game.Alive
	}
	h, err := b.Cell(i)
	if err == nil {
		err = h.SetStatus(status)
	}
	if err != nil {
		s.err = err
		return game.Stop(i)
	}
	for _, n := range b.Adjacent(i) {
		c, ok := game.CellAt(b, n)
		if !ok || (c.Kind != game.Empty && c.Kind != game.Marker) {
			continue
		}
		if _, dup := s.onRim[n]; !dup {
			s.onRim[n] = struct{}{}
			s.rim = append(s.rim, n)
		}
	}
	return game.Continue()
}

// evaluateChain decides whether the chain of p containing start lives, writes
// the verdict and refreshes p's reach around the chain. It reports the cells
// of the chain.
func evaluateChain(b game.Board, start game.Index, p game.Player) (map[game.Index]struct{}, error) {
	search := &searchStrategy{player: p}
	marker, found, err := b.Traverse(start, search)
	if err != nil {
		return nil, err
	}
	if search.err != nil {
		return nil, search.err
	}

	settle := newSettleStrategy(p, found)
	if _, _, err := b.Traverse(start, settle); err != nil {
		return nil, err
	}
	if settle.err != nil {
		return nil, settle.err
	}

	if found {
		if err := setStatus(b, search.contact, game.Anchored); err != nil {
			return nil, err
		}
		h, err := b.Cell(marker)
		if err != nil {
			return nil, err
		}
		if err := h.SetAnchor(true); err != nil {
			return nil, err
		}
	}

	for _, r := range settle.rim {
		if err := refreshActivity(b, r, p); err != nil {
			return nil, err
		}
	}
	return settle.seen, nil
}

func setStatus(b game.Board, i game.Index, s game.Status) error {
	h, err := b.Cell(i)
	if err != nil {
		return err
	}
	return h.SetStatus(s)
}

// refreshActivity recomputes p's flag on an empty cell or on another
// player's marker from the cell's neighborhood. Other cells are left alone.
func refreshActivity(b game.Board, i game.Index, p game.Player) error {
	h, err := b.Cell(i)
	if err != nil {
		return err
	}
	switch h.Kind() {
	case game.Empty:
	case game.Marker:
		if h.Owner() == p {
			return nil
		}
	default:
		return nil
	}
	if want := game.SupportedBy(b, i, p); h.IsActive(p) != want {
		return h.SetActive(p, want)
	}
	return nil
}

// activate grants p's flag to an empty cell or another player's marker.
func activate(b game.Board, i game.Index, p game.Player) error {
	h, err := b.Cell(i)
	if err != nil {
		return err
	}
	switch {
	case h.Kind() == game.Empty, h.Kind() == game.Marker && h.Owner() != p:
		if !h.IsActive(p) {
			return h.SetActive(p, true)
		}
	}
	return nil
}

// evaluateAround evaluates each distinct chain of p touching i. With
// onlyDead, chains that are already alive are skipped.
func evaluateAround(b game.Board, i game.Index, p game.Player, onlyDead bool) error {
	done := make(map[game.Index]struct{})
	for _, n := range b.Adjacent(i) {
		c, own := ownPainted(b, n, p)
		if !own {
			continue
		}
		if _, ok := done[n]; ok {
			continue
		}
		if onlyDead && c.Status.IsAlive() {
			continue
		}
		chain, err := evaluateChain(b, n, p)
		if err != nil {
			return err
		}
		for k := range chain {
			done[k] = struct{}{}
		}
	}
	return nil
}
