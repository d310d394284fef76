package focus

// Rect is a cell's geometry in item pixel coordinates.
type Rect struct {
	X, Y, Width, Height float64
}

// Cell returns the geometry of cell (x, y) for an item of the given size.
// Each cell is width/points.X wide and height/points.Y tall.
func (g *Grid) Cell(x, y int, width, height float64) Rect {
	w := width / float64(g.points.X)
	h := height / float64(g.points.Y)
	return Rect{X: float64(x) * w, Y: float64(y) * h, Width: w, Height: h}
}

// At returns the cell under the point (px, py) of an item of the given
// size. ok is false when the point is outside the item.
func (g *Grid) At(px, py, width, height float64) (x, y int, ok bool) {
	if px < 0 || py < 0 || px >= width || py >= height {
		return 0, 0, false
	}
	x = int(px / (width / float64(g.points.X)))
	y = int(py / (height / float64(g.points.Y)))
	return min(x, g.points.X-1), min(y, g.points.Y-1), true
}

// Direction is a keyboard move.
type Direction int

const (
	Left Direction = iota
	Right
	Up
	Down
)

// Move shifts the hover cursor one cell in d, clamped to the grid edge.
// With nothing hovered the cursor starts from the selected cell.
func (g *Grid) Move(d Direction) (x, y int) {
	x, y, ok := g.Hover()
	if !ok {
		s := g.Selection()
		x, y = s.X, s.Y
	}
	switch d {
	case Left:
		x = max(x-1, 0)
	case Right:
		x = min(x+1, g.points.X-1)
	case Up:
		y = max(y-1, 0)
	case Down:
		y = min(y+1, g.points.Y-1)
	}
	g.PointerEnter(x, y)
	return x, y
}

// SelectHovered selects the hovered cell, or re-emits the current
// selection when nothing is hovered.
func (g *Grid) SelectHovered() Selection {
	x, y, ok := g.Hover()
	if !ok {
		return g.Selection()
	}
	s, _ := g.Select(x, y)
	return s
}
