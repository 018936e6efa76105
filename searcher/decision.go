package searcher

import (
	"fmt"
	"math"
	"sync"

	"crosses/engine"
	"crosses/game"
)

// decision is a node of the search tree: a position reached by playing move,
// which was made by mover. Statistics are kept from the mover's point of
// view, so a parent picks the child that is best for its own player.
type decision struct {
	sync.RWMutex
	parent   *decision
	move     game.Index
	mover    game.Player
	player   game.Player // to move in this position
	moves    []game.Index
	children []*decision
	rewards  float64
	visits   int
}

func newDecision(parent *decision, move game.Index, mover game.Player, g *engine.Game) *decision {
	moves := g.LegalMoves()
	return &decision{
		parent:   parent,
		move:     move,
		mover:    mover,
		player:   g.Player(),
		moves:    moves,
		children: make([]*decision, 0, len(moves)),
	}
}

// SelectOrExpand walks one step down the tree, playing the chosen move on g.
// An expandable node adds and returns a new child; a fully expanded node
// returns its best child with selected set. A terminal node returns itself.
// The returned child carries a virtual loss until it is backed up.
func (d *decision) SelectOrExpand(g *engine.Game) (child *decision, selected bool) {
	d.Lock()
	defer d.Unlock()

	if len(d.moves) == 0 { // Terminal node
		return d, false
	}

	if len(d.moves) > len(d.children) { // Expandable node
		move := d.moves[len(d.children)]
		play(g, move)
		child = newDecision(d, move, d.player, g)
		d.children = append(d.children, child)
		child.applyLoss()
		return child, false
	}

	// Fully expanded node
	child = d.children[d.pickChild()]
	play(g, child.move)
	child.applyLoss()
	return child, true
}

func play(g *engine.Game, move game.Index) {
	if _, err := g.Play(move); err != nil {
		panic(fmt.Sprintf("tree move %d is not playable: %v", move, err))
	}
}

func (d *decision) pickChild() int {
	total := 0
	for _, child := range d.children {
		total += child.Visits()
	}
	if total == 0 {
		panic("node has children but no visits")
	}
	policy := newUCT(CSquared, total)

	maxIndex := -1
	maxScore := math.Inf(-1)
	for i, child := range d.children {
		if score := child.score(policy); score > maxScore {
			maxScore = score
			maxIndex = i
		}
	}
	return maxIndex
}

func (d *decision) applyLoss() {
	d.Lock()
	defer d.Unlock()

	d.rewards += Loss
	d.visits++
}

func (d *decision) reverseLoss() {
	d.rewards -= Loss
	d.visits--
}

func (d *decision) score(policy uct) float64 {
	d.RLock()
	defer d.RUnlock()

	return policy.evaluate(d.rewards, d.visits)
}

// Backup records the outcome of one episode and returns the parent.
func (d *decision) Backup(reward func(game.Player) float64) *decision {
	d.Lock()
	defer d.Unlock()

	if d.parent != nil { // Non-root node
		d.reverseLoss()
	}

	d.rewards += reward(d.mover)
	d.visits++

	return d.parent
}

func (d *decision) Visits() int {
	d.RLock()
	defer d.RUnlock()

	return d.visits
}

// child returns the child reached by move, if it was expanded.
func (d *decision) child(move game.Index) *decision {
	d.RLock()
	defer d.RUnlock()

	for _, c := range d.children {
		if c.move == move {
			return c
		}
	}
	return nil
}

// Policy returns the visit count of every expanded move.
func (d *decision) Policy() map[game.Index]float64 {
	d.RLock()
	defer d.RUnlock()

	policy := make(map[game.Index]float64, len(d.children))
	for _, child := range d.children {
		policy[child.move] = float64(child.Visits())
	}
	return policy
}

func (d *decision) findBestMove() (game.Index, bool) {
	d.RLock()
	defer d.RUnlock()

	best, maxVisits := -1, -1
	for i, child := range d.children {
		if v := child.Visits(); v > maxVisits {
			best, maxVisits = i, v
		}
	}
	if best < 0 {
		return 0, false
	}
	return d.children[best].move, true
}
