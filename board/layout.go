package board

import (
	"strings"

	"crosses/game"
)

// Topology selects which cells count as adjacent.
type Topology int

const (
	Moore      Topology = iota // 8 neighbors, the rule of the game
	VonNeumann                 // 4 neighbors
)

var (
	mooreOffsets      = [][2]int{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}
	vonNeumannOffsets = [][2]int{{-1, 0}, {0, -1}, {0, 1}, {1, 0}}
)

type Option func(l *layout)

// WithTopology sets the adjacency rule. Moore is the default.
func WithTopology(t Topology) Option {
	return func(l *layout) {
		l.topology = t
	}
}

// WithBorder surrounds the playable area with a ring of Border cells. The
// ring is part of the board, so a WxH board with a border has (W+2)x(H+2)
// cells.
func WithBorder() Option {
	return func(l *layout) {
		l.bordered = true
	}
}

// layout is the rectangular geometry shared by the grid implementations.
// Indices are row-major offsets.
type layout struct {
	width    int
	height   int
	topology Topology
	bordered bool
}

func newLayout(width, height int, options ...Option) layout {
	l := layout{width: width, height: height}
	for _, option := range options {
		option(&l)
	}
	if l.bordered {
		l.width += 2
		l.height += 2
	}
	return l
}

// Width returns the number of columns, border included.
func (l layout) Width() int { return l.width }

// Height returns the number of rows, border included.
func (l layout) Height() int { return l.height }

// Size returns the number of cells.
func (l layout) Size() int { return l.width * l.height }

// At returns the index of the cell at (row, col).
func (l layout) At(row, col int) game.Index {
	return row*l.width + col
}

// Coords returns the (row, col) of index i.
func (l layout) Coords(i game.Index) (row, col int) {
	return i / l.width, i % l.width
}

func (l layout) contains(i game.Index) bool {
	return i >= 0 && i < l.Size()
}

func (l layout) onRing(i game.Index) bool {
	if !l.bordered {
		return false
	}
	row, col := l.Coords(i)
	return row == 0 || col == 0 || row == l.height-1 || col == l.width-1
}

// Adjacent returns the in-bounds neighbors of i.
func (l layout) Adjacent(i game.Index) []game.Index {
	if !l.contains(i) {
		return nil
	}
	offsets := mooreOffsets
	if l.topology == VonNeumann {
		offsets = vonNeumannOffsets
	}
	row, col := l.Coords(i)
	adjacent := make([]game.Index, 0, len(offsets))
	for _, d := range offsets {
		r, c := row+d[0], col+d[1]
		if r >= 0 && r < l.height && c >= 0 && c < l.width {
			adjacent = append(adjacent, l.At(r, c))
		}
	}
	return adjacent
}

// Homes returns up to n starting cells inside the playable area: the four
// corners, opposite corners first, then the middles of the four edges, then
// any other playable cell in row-major order. Fewer than n homes are only
// returned when the playable area has fewer than n cells.
func (l layout) Homes(n int) []game.Index {
	top, left, bottom, right := 0, 0, l.height-1, l.width-1
	if l.bordered {
		top, left, bottom, right = 1, 1, l.height-2, l.width-2
	}
	midRow, midCol := (top+bottom)/2, (left+right)/2
	spots := [][2]int{
		{top, left}, {bottom, right}, {top, right}, {bottom, left},
		{top, midCol}, {bottom, midCol}, {midRow, left}, {midRow, right},
	}

	homes := make([]game.Index, 0, n)
	seen := make(map[game.Index]bool)
	for _, s := range spots {
		if len(homes) == n {
			break
		}
		if i := l.At(s[0], s[1]); !seen[i] {
			seen[i] = true
			homes = append(homes, i)
		}
	}
	for row := top; row <= bottom && len(homes) < n; row++ {
		for col := left; col <= right && len(homes) < n; col++ {
			if i := l.At(row, col); !seen[i] {
				seen[i] = true
				homes = append(homes, i)
			}
		}
	}
	return homes
}

// Indices returns every index of the layout in row-major order.
func (l layout) Indices() []game.Index {
	indices := make([]game.Index, l.Size())
	for i := range indices {
		indices[i] = i
	}
	return indices
}

// render draws one character per cell, one line per row:
// '#' border, '.' empty, '1'.. markers, 'A'.. living and 'a'.. dead painted
// cells, by player.
func (l layout) render(cell func(game.Index) game.Cell) string {
	var sb strings.Builder
	for row := 0; row < l.height; row++ {
		for col := 0; col < l.width; col++ {
			sb.WriteByte(glyph(cell(l.At(row, col))))
		}
		if row < l.height-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func glyph(c game.Cell) byte {
	switch c.Kind {
	case game.Border:
		return '#'
	case game.Marker:
		return '1' + byte(c.Owner)
	case game.Painted:
		if c.Status == game.Dead {
			return 'a' + byte(c.Owner)
		}
		return 'A' + byte(c.Owner)
	default:
		return '.'
	}
}
