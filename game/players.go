package game

// PlayerManager keeps the turn order. The engine asks it who is to move,
// advances it after every successful move and reverses it on undo.
type PlayerManager interface {
	// Current is the player to move.
	Current() Player
	// Advance consumes one move of the current player. The predicates tell
	// the manager which players can no longer play.
	Advance(outOfMoves, outOfMarkers func(Player) bool) error
	// Reverse undoes the last Advance; p is the player who made that move.
	Reverse(p Player) error
	// Winner returns the winner once the game is won.
	Winner() (Player, bool)
	// Over reports whether the game has ended, won or drawn.
	Over() bool
	Clone() PlayerManager
}
