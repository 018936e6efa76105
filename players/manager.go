package players

import (
	"errors"
	"fmt"

	"crosses/game"
)

var (
	ErrGameOver = errors.New("game has already ended")
	ErrNoMoves  = errors.New("no moves to reverse")
)

// State is the outcome of a game so far.
type State uint8

const (
	Ongoing State = iota
	Won
	Draw
)

func (s State) String() string {
	switch s {
	case Ongoing:
		return "ongoing"
	case Won:
		return "won"
	case Draw:
		return "draw"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Loss records when a player dropped out: the move number and how many moves
// of its turn the player still had.
type Loss struct {
	Move      int
	Remaining int
}

// Manager rotates the turn between players, each turn lasting a fixed number
// of moves, and drops players who can no longer play. Advance and Reverse are
// exact inverses, so a game driven by Manager can be undone move by move.
type Manager struct {
	movesPerTurn int
	remaining    int
	current      game.Player
	players      int
	move         int
	state        State
	winner       game.Player
	losers       []*Loss
}

// New returns a manager for players 0..players-1 where player 0 moves first.
func New(players, movesPerTurn int) (*Manager, error) {
	if players < 2 || players > game.MaxPlayers {
		return nil, fmt.Errorf("player count %d not in [2, %d]", players, game.MaxPlayers)
	}
	if movesPerTurn < 1 {
		return nil, fmt.Errorf("moves per turn must be positive, got %d", movesPerTurn)
	}
	return &Manager{
		movesPerTurn: movesPerTurn,
		remaining:    movesPerTurn,
		players:      players,
		losers:       make([]*Loss, players),
	}, nil
}

func (m *Manager) Current() game.Player { return m.current }

// Remaining is the number of moves left in the current turn.
func (m *Manager) Remaining() int { return m.remaining }

// Move is the number of moves made so far.
func (m *Manager) Move() int { return m.move }

func (m *Manager) State() State { return m.state }

func (m *Manager) Players() int { return m.players }

func (m *Manager) Over() bool { return m.state != Ongoing }

func (m *Manager) Winner() (game.Player, bool) {
	return m.winner, m.state == Won
}

// Lost returns the loss record of p, if p is out of the game.
func (m *Manager) Lost(p game.Player) (Loss, bool) {
	if int(p) >= m.players || m.losers[p] == nil {
		return Loss{}, false
	}
	return *m.losers[p], true
}

// Advance consumes one move of the current player. When the turn is used up,
// or the mover has nowhere left to play, the following players are checked
// in seat order: a player without markers and reach is out, and so is a
// player without reach as long as someone else is still in. The checks stop
// at the first player who can still play, unless the mover itself just lost.
// The game ends when at most one player is left.
func (m *Manager) Advance(outOfMoves, outOfMarkers func(game.Player) bool) error {
	if m.Over() {
		return ErrGameOver
	}
	m.remaining--

	var change, checkAll bool
	if m.remaining == 0 {
		change = true
	} else if outOfMoves(m.current) {
		m.losers[m.current] = &Loss{Move: m.move, Remaining: m.remaining}
		change, checkAll = true, true
	}

	if change {
		m.checkOthers(checkAll, outOfMoves, outOfMarkers)
		switch left := m.inGame(); left {
		case 0:
			m.state = Draw
		case 1:
			m.state = Won
			m.winner = m.firstInGame()
		default:
			m.current = m.next()
			m.remaining = m.movesPerTurn
		}
	}
	m.move++
	return nil
}

func (m *Manager) checkOthers(checkAll bool, outOfMoves, outOfMarkers func(game.Player) bool) {
	left := m.inGame()
	for delta := 1; delta < m.players; delta++ {
		p := m.seat(delta)
		if m.losers[p] != nil {
			continue
		}
		switch {
		case outOfMarkers(p):
			m.losers[p] = &Loss{Move: m.move}
			left--
		case outOfMoves(p):
			if left <= 1 {
				return
			}
			m.losers[p] = &Loss{Move: m.move}
			left--
		case !checkAll:
			return
		}
	}
}

// Reverse undoes the last Advance, which was a move of p.
func (m *Manager) Reverse(p game.Player) error {
	if m.move == 0 {
		return ErrNoMoves
	}
	if int(p) >= m.players {
		return fmt.Errorf("unknown player %s", p)
	}
	m.move--
	m.state = Ongoing
	m.winner = 0

	if l := m.losers[p]; l != nil && l.Move == m.move {
		m.remaining = l.Remaining
	} else if m.current != p {
		m.remaining = 0
	}
	for i, l := range m.losers {
		if l != nil && l.Move == m.move {
			m.losers[i] = nil
		}
	}
	m.current = p
	m.remaining++
	return nil
}

// Clone returns an independent copy of the manager.
func (m *Manager) Clone() game.PlayerManager {
	c := *m
	c.losers = make([]*Loss, len(m.losers))
	for i, l := range m.losers {
		if l != nil {
			loss := *l
			c.losers[i] = &loss
		}
	}
	return &c
}

func (m *Manager) seat(delta int) game.Player {
	return game.Player((int(m.current) + delta) % m.players)
}

func (m *Manager) inGame() int {
	n := 0
	for _, l := range m.losers {
		if l == nil {
			n++
		}
	}
	return n
}

func (m *Manager) firstInGame() game.Player {
	for i, l := range m.losers {
		if l == nil {
			return game.Player(i)
		}
	}
	panic("no player left in the game")
}

func (m *Manager) next() game.Player {
	for delta := 1; delta < m.players; delta++ {
		if p := m.seat(delta); m.losers[p] == nil {
			return p
		}
	}
	panic("no next player")
}
