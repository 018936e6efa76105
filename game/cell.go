package game

import (
	"fmt"
)

// MaxPlayers is the number of player identities an Activity can hold.
const MaxPlayers = 8

// Player identifies a player by its seat, 0..MaxPlayers-1.
type Player uint8

func (p Player) String() string {
	return fmt.Sprintf("Player%d", int(p)+1)
}

// Activity holds one "may interact" flag per player.
type Activity uint8

// Has reports whether the flag of player p is set.
func (a Activity) Has(p Player) bool {
	return a&(1<<p) != 0
}

// With returns a copy of a with the flag of player p set to v. Other players'
// flags are never touched.
func (a Activity) With(p Player, v bool) Activity {
	if v {
		return a | 1<<p
	}
	return a &^ (1 << p)
}

// Kind is the variant of a cell.
type Kind uint8

const (
	Empty Kind = iota
	Marker
	Painted
	Border
)

func (k Kind) String() string {
	switch k {
	case Empty:
		return "empty"
	case Marker:
		return "marker"
	case Painted:
		return "painted"
	case Border:
		return "border"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Status is the life state of a painted cell.
type Status uint8

const (
	Dead Status = iota
	Alive
	Anchored // alive and touching the marker that keeps its chain alive
	Marked   // transient mark left by a search pass
)

// IsAlive reports whether a painted cell with this status supports its
// neighborhood.
func (s Status) IsAlive() bool {
	return s == Alive || s == Anchored
}

func (s Status) String() string {
	switch s {
	case Dead:
		return "dead"
	case Alive:
		return "alive"
	case Anchored:
		return "anchored"
	case Marked:
		return "marked"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

// Cell is the full state of one board cell. Fields that do not belong to the
// current Kind are kept zero, so two cells are identical iff they are ==.
//
//   - Empty:   Active
//   - Marker:  Owner, Active, Anchor
//   - Painted: Owner (current player), Previous, Status
//   - Border:  nothing
type Cell struct {
	Kind     Kind
	Owner    Player
	Previous Player
	Status   Status
	Active   Activity
	Anchor   bool
}

// NewBorder returns an inert border cell.
func NewBorder() Cell {
	return Cell{Kind: Border}
}

func invalid(op string, k Kind) error {
	return fmt.Errorf("%w: %s on %s cell", ErrInvalidTransition, op, k)
}

// Mark turns an Empty cell into a Marker of player p. Activity is preserved,
// including p's own bit, which is left to the caller.
func (c *Cell) Mark(p Player) error {
	if c.Kind != Empty {
		return invalid("mark", c.Kind)
	}
	*c = Cell{Kind: Marker, Owner: p, Active: c.Active}
	return nil
}

// Unmark turns a Marker back into an Empty cell. The former owner's bit is
// always set: the owner could place the marker, so it can place it again.
func (c *Cell) Unmark() error {
	if c.Kind != Marker {
		return invalid("unmark", c.Kind)
	}
	*c = Cell{Kind: Empty, Active: c.Active.With(c.Owner, true)}
	return nil
}

// Paint turns a Marker into a Painted cell of player p. The marker's owner is
// remembered as Previous, which is exactly what Unpaint restores.
func (c *Cell) Paint(p Player) error {
	if c.Kind != Marker {
		return invalid("paint", c.Kind)
	}
	*c = Cell{Kind: Painted, Owner: p, Previous: c.Owner, Status: Alive}
	return nil
}

// Unpaint turns a Painted cell back into a Marker of its previous owner with
// cleared activity and no anchor.
func (c *Cell) Unpaint() error {
	if c.Kind != Painted {
		return invalid("unpaint", c.Kind)
	}
	*c = Cell{Kind: Marker, Owner: c.Previous}
	return nil
}

// SetActive sets the activity flag of player p on an Empty or Marker cell.
func (c *Cell) SetActive(p Player, v bool) error {
	if c.Kind != Empty && c.Kind != Marker {
		return invalid("set activity", c.Kind)
	}
	c.Active = c.Active.With(p, v)
	return nil
}

// SetAnchor sets the anchor flag of a Marker.
func (c *Cell) SetAnchor(v bool) error {
	if c.Kind != Marker {
		return invalid("set anchor", c.Kind)
	}
	c.Anchor = v
	return nil
}

// SetStatus sets the status of a Painted cell.
func (c *Cell) SetStatus(s Status) error {
	if c.Kind != Painted {
		return invalid("set status", c.Kind)
	}
	c.Status = s
	return nil
}

// IsActive reports whether player p may interact with the cell. Only Empty
// and Marker cells carry activity.
func (c Cell) IsActive(p Player) bool {
	return (c.Kind == Empty || c.Kind == Marker) && c.Active.Has(p)
}

// Supports reports whether the cell extends player p's reach to its
// neighbors: p's own markers and p's living painted cells do.
func (c Cell) Supports(p Player) bool {
	switch c.Kind {
	case Marker:
		return c.Owner == p
	case Painted:
		return c.Owner == p && c.Status.IsAlive()
	default:
		return false
	}
}

func (c Cell) String() string {
	switch c.Kind {
	case Empty:
		return fmt.Sprintf("empty(active=%08b)", uint8(c.Active))
	case Marker:
		return fmt.Sprintf("marker(%s, active=%08b, anchor=%t)", c.Owner, uint8(c.Active), c.Anchor)
	case Painted:
		return fmt.Sprintf("painted(%s, prev=%s, %s)", c.Owner, c.Previous, c.Status)
	default:
		return c.Kind.String()
	}
}
