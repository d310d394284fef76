package wall

import (
	"slices"
	"testing"
)

func sized(dims ...float64) []Item {
	items := make([]Item, 0, len(dims)/2)
	for i := 0; i+1 < len(dims); i += 2 {
		items = append(items, Item{Width: dims[i], Height: dims[i+1]})
	}
	return items
}

func TestPack(t *testing.T) {
	tests := []struct {
		name        string
		items       []Item
		width       float64
		margin      float64
		resizeLast  bool
		wantRows    [][]int
		wantMissing []float64
	}{
		{
			name:        "two items overflow into two rows",
			items:       sized(600, 400, 500, 400),
			width:       900,
			margin:      3,
			resizeLast:  true,
			wantRows:    [][]int{{0}, {1}},
			wantMissing: []float64{294, 394},
		},
		{
			name:        "last row left at natural width",
			items:       sized(600, 400, 500, 400),
			width:       900,
			margin:      3,
			resizeLast:  false,
			wantRows:    [][]int{{0}, {1}},
			wantMissing: []float64{294, 0},
		},
		{
			name:        "several items share a row",
			items:       sized(200, 100, 200, 100, 200, 100, 200, 100),
			width:       650,
			margin:      3,
			resizeLast:  true,
			wantRows:    [][]int{{0, 1, 2}, {3}},
			wantMissing: []float64{650 - 618, 650 - 206},
		},
		{
			name:        "exact fit stays on the row",
			items:       sized(444, 100, 444, 100),
			width:       900,
			margin:      3,
			resizeLast:  true,
			wantRows:    [][]int{{0, 1}},
			wantMissing: []float64{0},
		},
		{
			name:        "oversized first item gets its own row",
			items:       sized(1200, 800, 300, 200),
			width:       900,
			margin:      3,
			resizeLast:  true,
			wantRows:    [][]int{{0}, {1}},
			wantMissing: []float64{900 - 1206, 900 - 306},
		},
		{
			name:        "oversized item in the middle",
			items:       sized(300, 200, 900, 600, 300, 200),
			width:       900,
			margin:      0,
			resizeLast:  true,
			wantRows:    [][]int{{0}, {1}, {2}},
			wantMissing: []float64{600, 0, 600},
		},
		{
			name:        "oversized last row is zeroed without resizeLast",
			items:       sized(300, 100, 1200, 400),
			width:       900,
			margin:      3,
			resizeLast:  false,
			wantRows:    [][]int{{0}, {1}},
			wantMissing: []float64{594, 0},
		},
		{
			name:        "item narrower than container but wider with margins",
			items:       sized(898, 400),
			width:       900,
			margin:      3,
			resizeLast:  true,
			wantRows:    [][]int{{0}},
			wantMissing: []float64{-4},
		},
		{
			name:        "empty input",
			items:       nil,
			width:       900,
			margin:      3,
			resizeLast:  true,
			wantRows:    [][]int{nil},
			wantMissing: []float64{900},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := Pack(tt.items, tt.width, tt.margin, tt.resizeLast)
			if len(rows) != len(tt.wantRows) {
				t.Fatalf("got %d rows, want %d", len(rows), len(tt.wantRows))
			}
			for i, row := range rows {
				if row.Index != i {
					t.Errorf("row %d: Index = %d", i, row.Index)
				}
				if !slices.Equal(row.Items, tt.wantRows[i]) {
					t.Errorf("row %d: Items = %v, want %v", i, row.Items, tt.wantRows[i])
				}
				if row.Missing != tt.wantMissing[i] {
					t.Errorf("row %d: Missing = %v, want %v", i, row.Missing, tt.wantMissing[i])
				}
			}
		})
	}
}

func TestPackProperties(t *testing.T) {
	items := sized(
		640, 480, 480, 640, 1024, 768, 300, 300, 2000, 1000,
		120, 600, 800, 600, 350, 500, 700, 300, 450, 450,
	)
	for _, width := range []float64{320, 700, 900, 1280, 1920} {
		for _, resizeLast := range []bool{true, false} {
			const margin = 4
			rows := Pack(items, width, margin, resizeLast)

			var order []int
			for i, row := range rows {
				order = append(order, row.Items...)

				if row.Len() > 1 && row.Width > width {
					t.Errorf("width %v row %d: multi-item row width %v exceeds container", width, i, row.Width)
				}
				if row.Oversized(width) && row.Len() != 1 {
					t.Errorf("width %v row %d: oversized row has %d items", width, i, row.Len())
				}
				last := i == len(rows)-1
				switch {
				case !last || resizeLast:
					if row.Width+row.Missing != width {
						t.Errorf("width %v row %d: Width+Missing = %v", width, i, row.Width+row.Missing)
					}
				case row.Missing != 0:
					t.Errorf("width %v last row: Missing = %v, want 0", width, row.Missing)
				}
			}

			want := make([]int, len(items))
			for i := range want {
				want[i] = i
			}
			if !slices.Equal(order, want) {
				t.Errorf("width %v: concatenated rows = %v, want original order", width, order)
			}
		}
	}
}
