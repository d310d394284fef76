package wall

import (
	"math"
	"testing"
)

const tolerance = 1e-9

func approx(a, b float64) bool { return math.Abs(a-b) < tolerance }

func TestScaleRowStretch(t *testing.T) {
	items := sized(600, 400)
	row := Row{Items: []int{0}, Width: 606, Missing: 294}

	got := ScaleRow(row, items, 900, 3)
	if len(got) != 1 {
		t.Fatalf("got %d results, want 1", len(got))
	}
	s := got[0]
	if !approx(s.FinalWidth, 894) {
		t.Errorf("FinalWidth = %v, want 894", s.FinalWidth)
	}
	if s.SlotWidth != 894 {
		t.Errorf("SlotWidth = %v, want 894", s.SlotWidth)
	}
	if !approx(s.Ratio, 894.0/600) {
		t.Errorf("Ratio = %v, want %v", s.Ratio, 894.0/600)
	}
	if !approx(s.Height, 400*894.0/600) {
		t.Errorf("Height = %v, want %v", s.Height, 400*894.0/600)
	}
}

func TestScaleRowProportionalShare(t *testing.T) {
	// Row of 206 + 406 = 612 in a 700px container: 88px of slack.
	items := sized(200, 100, 400, 100)
	row := Row{Items: []int{0, 1}, Width: 612, Missing: 88}

	got := ScaleRow(row, items, 700, 3)
	wantFinal := []float64{200 + 88*206.0/612, 400 + 88*406.0/612}
	for i, s := range got {
		if !approx(s.FinalWidth, wantFinal[i]) {
			t.Errorf("item %d: FinalWidth = %v, want %v", i, s.FinalWidth, wantFinal[i])
		}
		if s.SlotWidth != math.Floor(wantFinal[i]) {
			t.Errorf("item %d: SlotWidth = %v, want floor(%v)", i, s.SlotWidth, wantFinal[i])
		}
	}
	if got[1].FinalWidth-400 <= got[0].FinalWidth-200 {
		t.Error("wider item should absorb more of the stretch")
	}

	var sum float64
	for _, s := range got {
		sum += s.FinalWidth + 6
	}
	if !approx(sum, 700) {
		t.Errorf("row fills %v, want 700", sum)
	}
}

func TestScaleRowShrinkToFit(t *testing.T) {
	items := sized(1200, 800)
	row := Row{Items: []int{0}, Width: 1206, Missing: -306}

	s := ScaleRow(row, items, 900, 3)[0]
	wantRatio := (900.0 - 6) / 1200
	if !approx(s.Ratio, wantRatio) {
		t.Errorf("Ratio = %v, want %v", s.Ratio, wantRatio)
	}
	if s.SlotWidth != 894 {
		t.Errorf("SlotWidth = %v, want 894", s.SlotWidth)
	}
	if !approx(s.Width, 894) || !approx(s.Height, 800*wantRatio) {
		t.Errorf("image = %vx%v, want 894x%v", s.Width, s.Height, 800*wantRatio)
	}
}

func TestScaleRowShrinksZeroedLastRow(t *testing.T) {
	items := sized(1200, 800)
	row := Row{Items: []int{0}, Width: 1206, Missing: 0}

	s := ScaleRow(row, items, 900, 3)[0]
	if s.SlotWidth != 894 || !approx(s.Ratio, 894.0/1200) {
		t.Errorf("got %+v, want shrink to 894", s)
	}
}

func TestScaleRowUnfilledLastRow(t *testing.T) {
	items := sized(500, 400)
	row := Row{Items: []int{0}, Width: 506, Missing: 0}

	s := ScaleRow(row, items, 900, 3)[0]
	if s.Ratio != 1 || s.SlotWidth != 500 || s.Height != 400 {
		t.Errorf("got %+v, want natural size", s)
	}
}

func TestScaleRowZeroWidth(t *testing.T) {
	items := sized(300, 200)
	row := Row{Items: []int{0}, Width: 0, Missing: 900}

	s := ScaleRow(row, items, 900, 0)[0]
	if s.Ratio != 1 || s.FinalWidth != 300 {
		t.Errorf("got %+v, want no stretch", s)
	}
	if math.IsNaN(s.Width) || math.IsInf(s.Width, 0) {
		t.Errorf("Width = %v", s.Width)
	}
}

func TestScaleRowFloorsSlotWidth(t *testing.T) {
	items := sized(100, 100, 100, 100, 100, 100)
	row := Row{Items: []int{0, 1, 2}, Width: 300, Missing: 100}

	for i, s := range ScaleRow(row, items, 400, 0) {
		if s.SlotWidth != 133 {
			t.Errorf("item %d: SlotWidth = %v, want 133", i, s.SlotWidth)
		}
		if !approx(s.Width, 400.0/3) {
			t.Errorf("item %d: image width = %v, want %v", i, s.Width, 400.0/3)
		}
	}
}
