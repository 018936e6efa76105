package game

// Index addresses a cell on a board. Its meaning (row-major offset, hash key,
// graph node id) is up to the board.
type Index = int

// CellHandle is the access a board grants to one of its cells. Handles may be
// proxies doing extra bookkeeping, but every mutation must follow the Cell
// transition rules exactly. A handle is only valid until the next move.
type CellHandle interface {
	// Cell returns a snapshot of the cell's full state.
	Cell() Cell
	Kind() Kind
	Owner() Player
	Previous() Player
	Status() Status
	IsActive(p Player) bool
	Anchor() bool

	Mark(p Player) error
	Unmark() error
	Paint(p Player) error
	Unpaint() error

	SetActive(p Player, v bool) error
	SetAnchor(v bool) error
	SetStatus(s Status) error
}

// Board is everything the rules engine needs from a board implementation.
type Board interface {
	// Cell returns the handle of the cell at i, or ErrIndexOutOfRange.
	Cell(i Index) (CellHandle, error)
	// Adjacent returns the indices of the cells adjacent to i.
	Adjacent(i Index) []Index
	// Indices returns the index of every live cell.
	Indices() []Index
	// Traverse walks the painted chain containing start under s. Boards
	// without a smarter walk delegate to the package level Traverse.
	Traverse(start Index, s Strategy) (Index, bool, error)
}

// Counters is implemented by boards that keep per-player tallies.
type Counters interface {
	// Reachable is the number of cells player p may currently play on.
	Reachable(p Player) int
	// Markers is the number of markers player p has on the board.
	Markers(p Player) int
}

// CellAt returns a snapshot of the cell at i; ok is false for a bad index.
func CellAt(b Board, i Index) (Cell, bool) {
	h, err := b.Cell(i)
	if err != nil {
		return Cell{}, false
	}
	return h.Cell(), true
}

// SupportedBy reports whether some neighbor of i extends player p's reach.
func SupportedBy(b Board, i Index, p Player) bool {
	for _, n := range b.Adjacent(i) {
		if c, ok := CellAt(b, n); ok && c.Supports(p) {
			return true
		}
	}
	return false
}
