package searcher

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"crosses/engine"
	"crosses/experiments/metrics"
	"crosses/game"
)

type Option func(mcts *MCTS)

// MCTS is a tree-parallel Monte Carlo tree search: goroutines share one tree
// and steer each other apart with virtual losses. Every goroutine plays on
// its own clone of the game and takes its moves back after each episode.
type MCTS struct {
	goroutines int
	duration   time.Duration
	episodes   int
	cutoff     int
	evaluate   Evaluate
	seed       uint64
	seeds      atomic.Uint64
	root       *decision
	rootPath   []game.Index
	metrics    metrics.Collector
}

func WithDuration(duration time.Duration) Option {
	return func(m *MCTS) {
		if duration > 0 {
			m.duration = duration
		}
	}
}

func WithEpisodes(episodes int) Option {
	return func(m *MCTS) {
		if episodes > 0 {
			m.episodes = episodes
		}
	}
}

func WithCutoff(depth int) Option {
	return func(m *MCTS) {
		if depth > 0 {
			m.cutoff = depth
		}
	}
}

func WithGoroutines(goroutines int) Option {
	return func(m *MCTS) {
		if goroutines > 0 {
			m.goroutines = goroutines
		}
	}
}

func WithEvaluationFn(evaluate Evaluate) Option {
	return func(m *MCTS) {
		if evaluate != nil {
			m.evaluate = evaluate
		}
	}
}

// WithSeed makes rollouts reproducible for a single goroutine.
func WithSeed(seed uint64) Option {
	return func(m *MCTS) {
		m.seed = seed
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = metrics.NewCollector()
	}
}

func NewMCTS(options ...Option) *MCTS {
	m := &MCTS{ // Default values
		goroutines: 1,
		cutoff:     MaxCutoff,
		evaluate:   EvaluateReach,
		seed:       uint64(time.Now().UnixNano()),
		metrics:    metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.episodes <= 0 && m.duration <= 0 {
		panic("Must specify search episodes or duration")
	}
	return m
}

// Simulate searches from the position of g and returns the visit count of
// every move explored at the root. g itself is left untouched.
func (m *MCTS) Simulate(g *engine.Game) (map[game.Index]float64, metrics.SearchMetric) {
	m.findRoot(g)

	// Run simulations to collect statistics
	m.metrics.Start(m.goroutines, m.cutoff)
	if m.episodes > 0 {
		m.iterate(g)
	} else {
		m.countdown(g)
	}
	metric := m.metrics.Complete()

	return m.root.Policy(), metric
}

// FindMove returns the most visited move from the position of g.
func (m *MCTS) FindMove(g *engine.Game) (game.Index, metrics.SearchMetric) {
	_, metric := m.Simulate(g)
	move, ok := m.root.findBestMove()
	if !ok {
		panic("no move to search from a finished game")
	}
	return move, metric
}

func (m *MCTS) iterate(g *engine.Game) {
	task := make(chan any, m.episodes)
	for i := 0; i < m.episodes; i++ {
		task <- nil
	}
	close(task)

	var wg sync.WaitGroup
	for i := 0; i < m.goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			w := m.newWorker(g)
			for range task {
				w.simulate()
				m.metrics.AddEpisode()
			}
		}()
	}

	wg.Wait()
}

func (m *MCTS) countdown(g *engine.Game) {
	done := make(chan any)

	var wg sync.WaitGroup
	for i := 0; i < m.goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			w := m.newWorker(g)
			for {
				select {
				case <-done:
					return
				default:
					w.simulate()
					m.metrics.AddEpisode()
				}
			}
		}()
	}

	<-time.After(m.duration)
	close(done)
	wg.Wait()
}

// findRoot reuses the subtree of the previous search when the game has only
// moved forward since, and starts a fresh tree otherwise.
func (m *MCTS) findRoot(g *engine.Game) {
	path := moves(g)
	root := traverse(m.root, m.rootPath, path)
	if root == nil {
		m.root = newDecision(nil, 0, 0, g)
		m.metrics.SetTreeReset(true)
	} else {
		root.Lock()
		root.parent = nil
		root.Unlock()
		m.root = root
		m.metrics.SetTreeReset(false)
		log.Debug().Msgf("Reusing search tree with %d visits", root.Visits())
	}
	m.rootPath = path
}

func traverse(root *decision, rootPath, path []game.Index) *decision {
	if root == nil || len(path) < len(rootPath) {
		return nil
	}
	for i, move := range rootPath {
		if path[i] != move {
			return nil
		}
	}

	node := root
	for _, move := range path[len(rootPath):] {
		node = node.child(move)
		if node == nil { // Node has not expanded this move
			return nil
		}
	}
	return node
}

func moves(g *engine.Game) []game.Index {
	history := g.History()
	path := make([]game.Index, len(history))
	for i, rec := range history {
		path[i] = rec.Index
	}
	return path
}

// worker runs episodes on a private clone of the searched game.
type worker struct {
	*MCTS
	game *engine.Game
	rand *rand.Rand
}

func (m *MCTS) newWorker(g *engine.Game) *worker {
	return &worker{
		MCTS: m,
		game: g.Clone(),
		rand: rand.New(rand.NewSource(m.seed + m.seeds.Add(1))),
	}
}

func (w *worker) simulate() {
	start := len(w.game.History())

	leaf := selectThenExpand(w.root, w.game)
	reward := w.rollout()
	backup(leaf, reward)

	for len(w.game.History()) > start {
		if err := w.game.Undo(); err != nil {
			panic(err)
		}
	}
}

func selectThenExpand(root *decision, g *engine.Game) *decision {
	parent := root
	child, selected := parent.SelectOrExpand(g)
	for selected && (child != parent) {
		parent = child
		child, selected = parent.SelectOrExpand(g)
	}
	return child
}

func (w *worker) rollout() func(game.Player) float64 {
	g := w.game
	depth := 0
	moves := g.LegalMoves()
	// Rollout till game over or for cutoff number of moves
	for len(moves) > 0 && (depth < w.cutoff) {
		move := moves[w.rand.Intn(len(moves))] // Random rollout policy
		play(g, move)
		moves = g.LegalMoves()
		depth++
	}

	if g.Over() {
		w.metrics.AddFullPlayout()
		return rewarder(g)
	}

	// At cutoff, score the position for every player
	scores := make([]float64, g.Players())
	for p := range scores {
		scores[p] = w.evaluate(g, game.Player(p))
	}
	return func(p game.Player) float64 { return scores[p] }
}

func backup(leaf *decision, reward func(game.Player) float64) {
	node := leaf
	for node != nil {
		node = node.Backup(reward)
	}
}
