package game

import "errors"

var (
	// ErrIndexOutOfRange is returned for an index that does not address a
	// live cell.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrInvalidTransition is returned when a transition or setter is applied
	// to a cell of the wrong kind. It always indicates a bug in the caller.
	ErrInvalidTransition = errors.New("invalid cell transition")
	// ErrNotPainted is returned when a traversal starts on a cell that is not
	// painted.
	ErrNotPainted = errors.New("traversal must start on a painted cell")

	ErrCellNotEmpty    = errors.New("cell is not empty")
	ErrCellNotActive   = errors.New("cell is not active for player")
	ErrCellNotMarker   = errors.New("cell is not a marker")
	ErrSelfCapture     = errors.New("cannot capture own marker")
	ErrCellPainted     = errors.New("cell is already painted")
	ErrBorderHit       = errors.New("cell is a border")
	ErrNothingToCancel = errors.New("nothing to cancel")
	ErrRecordMismatch  = errors.New("move record does not match board")
	ErrBoardNotFresh   = errors.New("board is not in its initial state")
)
