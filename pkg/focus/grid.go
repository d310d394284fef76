// Package focus implements the focus-point picker: a grid of cells laid
// over an item where exactly one cell is the selected focus point.
//
// The grid is a small state machine driven by pointer events. It holds no
// rendering state; the CLI picker and any other front end draw it from
// [Grid.State].
package focus

import (
	"github.com/matzehuels/brickwall/pkg/errors"
	"github.com/matzehuels/brickwall/pkg/wall"
)

// State is the visual state of one grid cell.
type State int

const (
	Unselected State = iota
	Hovered
	Selected
)

func (s State) String() string {
	switch s {
	case Hovered:
		return "hovered"
	case Selected:
		return "selected"
	default:
		return "unselected"
	}
}

// Selection is emitted when a cell is chosen. X is the column, Y the row.
type Selection struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Grid is the focus-point picker over Points.X columns and Points.Y rows.
//
// Exactly one cell is selected at any time. Hover is tracked separately so
// that hovering never alters the selected cell. Grid is not safe for
// concurrent use.
type Grid struct {
	points   wall.FocusPoints
	selected int
	hovered  int // -1 when nothing is hovered
}

// NewGrid returns a grid with the item's resolved focus cell pre-selected.
// Unset or out-of-range focus coordinates select the centre.
func NewGrid(points wall.FocusPoints, initial wall.Item) *Grid {
	points = points.Clamp()
	x, y := wall.ResolveFocus(initial, points)
	return &Grid{points: points, selected: y*points.X + x, hovered: -1}
}

// Points returns the grid size.
func (g *Grid) Points() wall.FocusPoints { return g.points }

func (g *Grid) contains(x, y int) bool {
	return x >= 0 && x < g.points.X && y >= 0 && y < g.points.Y
}

func (g *Grid) index(x, y int) int { return y*g.points.X + x }

// State returns the state of cell (x, y). Cells outside the grid are
// reported as Unselected.
func (g *Grid) State(x, y int) State {
	if !g.contains(x, y) {
		return Unselected
	}
	switch i := g.index(x, y); {
	case i == g.selected:
		return Selected
	case i == g.hovered:
		return Hovered
	default:
		return Unselected
	}
}

// PointerEnter marks (x, y) as hovered. The selected cell stays selected.
func (g *Grid) PointerEnter(x, y int) {
	if !g.contains(x, y) {
		return
	}
	g.hovered = g.index(x, y)
}

// PointerLeave clears the hover on (x, y).
func (g *Grid) PointerLeave(x, y int) {
	if g.contains(x, y) && g.hovered == g.index(x, y) {
		g.hovered = -1
	}
}

// Hover returns the hovered cell, if any.
func (g *Grid) Hover() (x, y int, ok bool) {
	if g.hovered < 0 {
		return 0, 0, false
	}
	return g.hovered % g.points.X, g.hovered / g.points.X, true
}

// Select makes (x, y) the focus point, deselecting the previous cell.
func (g *Grid) Select(x, y int) (Selection, error) {
	if !g.contains(x, y) {
		return Selection{}, errors.New(errors.ErrCodeInvalidInput,
			"focus cell (%d,%d) outside %dx%d grid", x, y, g.points.X, g.points.Y)
	}
	g.selected = g.index(x, y)
	return g.Selection(), nil
}

// Selection returns the currently selected cell.
func (g *Grid) Selection() Selection {
	return Selection{X: g.selected % g.points.X, Y: g.selected / g.points.X}
}

// Apply returns it with its focus set to the current selection.
func (g *Grid) Apply(it wall.Item) wall.Item {
	s := g.Selection()
	return it.WithFocus(s.X, s.Y)
}
