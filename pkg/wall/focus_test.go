package wall

import "testing"

func TestResolveFocus(t *testing.T) {
	grid := FocusPoints{X: 5, Y: 5}
	tests := []struct {
		name   string
		item   Item
		points FocusPoints
		wantX  int
		wantY  int
	}{
		{"unset resolves to centre", Item{}, grid, 2, 2},
		{"explicit", Item{FocusX: Index(0), FocusY: Index(4)}, grid, 0, 4},
		{"x only", Item{FocusX: Index(1)}, grid, 1, 2},
		{"negative", Item{FocusX: Index(-1), FocusY: Index(-7)}, grid, 2, 2},
		{"too large", Item{FocusX: Index(5), FocusY: Index(9)}, grid, 2, 2},
		{"even grid", Item{}, FocusPoints{X: 4, Y: 2}, 2, 1},
		{"single cell", Item{FocusX: Index(3)}, FocusPoints{X: 1, Y: 1}, 0, 0},
		{"zero grid clamps", Item{FocusX: Index(0)}, FocusPoints{X: 0, Y: -3}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := ResolveFocus(tt.item, tt.points)
			if x != tt.wantX || y != tt.wantY {
				t.Errorf("ResolveFocus() = (%d, %d), want (%d, %d)", x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestFocusOffset(t *testing.T) {
	grid := FocusPoints{X: 5, Y: 5}
	tests := []struct {
		name     string
		w, h     float64
		line     float64
		slot     float64
		fx, fy   int
		wantTop  float64
		wantLeft float64
	}{
		{"top left has no shift", 900, 600, 400, 800, 0, 0, 0, 0},
		{"centre", 900, 600, 400, 800, 2, 2, -80, -40},
		{"bottom right", 900, 600, 400, 800, 4, 4, -160, -80},
		{"no overflow", 800, 400, 400, 800, 3, 3, 0, 0},
		{"image shorter than row pushes down", 800, 300, 400, 800, 2, 2, 40, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			top, left := FocusOffset(tt.w, tt.h, tt.line, tt.slot, tt.fx, tt.fy, grid)
			if !approx(top, tt.wantTop) || !approx(left, tt.wantLeft) {
				t.Errorf("FocusOffset() = (%v, %v), want (%v, %v)", top, left, tt.wantTop, tt.wantLeft)
			}
		})
	}
}

func TestFocusOffsetBounds(t *testing.T) {
	for _, points := range []FocusPoints{{1, 1}, {3, 2}, {5, 5}, {9, 4}} {
		for fx := 0; fx < points.X; fx++ {
			for fy := 0; fy < points.Y; fy++ {
				const w, h, line, slot = 1000.0, 700.0, 400.0, 640.0
				top, left := FocusOffset(w, h, line, slot, fx, fy, points)
				if top > 0 || top < -(h-line) {
					t.Errorf("points %v cell (%d,%d): top %v outside [-%v, 0]", points, fx, fy, top, h-line)
				}
				if left > 0 || left < -(w-slot) {
					t.Errorf("points %v cell (%d,%d): left %v outside [-%v, 0]", points, fx, fy, left, w-slot)
				}
			}
		}
	}
}

func TestFocusOffsetNoNegativeZero(t *testing.T) {
	top, left := FocusOffset(800, 400, 400, 800, 2, 2, FocusPoints{X: 5, Y: 5})
	if 1/top < 0 || 1/left < 0 {
		t.Errorf("got negative zero: top=%v left=%v", top, left)
	}
}
