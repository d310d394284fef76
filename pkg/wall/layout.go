package wall

import (
	"github.com/matzehuels/brickwall/pkg/errors"
)

// Placement is the computed geometry of one item.
//
// The item's box (slot) is SlotWidth x LineHeight and sits at (X, Y) in
// container coordinates, margins excluded. Inside the slot the image is
// drawn at Width x Height and shifted by (MarginLeft, MarginTop); whatever
// falls outside the slot is cropped.
type Placement struct {
	Index      int     `json:"index"`
	ID         string  `json:"id,omitempty"`
	Row        int     `json:"row"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	SlotWidth  float64 `json:"slot_width"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Ratio      float64 `json:"ratio"`
	FocusX     int     `json:"focus_x"`
	FocusY     int     `json:"focus_y"`
	MarginTop  float64 `json:"margin_top"`
	MarginLeft float64 `json:"margin_left"`
}

// Result is the output of one layout pass.
type Result struct {
	ContainerWidth float64     `json:"container_width"`
	LineHeight     float64     `json:"line_height"`
	Config         Config      `json:"config"`
	Rows           []Row       `json:"rows"`
	Placements     []Placement `json:"placements"`
}

// Height returns the total wall height: every non-empty row is LineHeight
// tall plus the margin above and below.
func (r Result) Height() float64 {
	n := 0
	for _, row := range r.Rows {
		if row.Len() > 0 {
			n++
		}
	}
	return float64(n) * (r.LineHeight + 2*r.Config.Margin)
}

// RowPlacements returns the placements of row i, in order.
func (r Result) RowPlacements(i int) []Placement {
	if i < 0 || i >= len(r.Rows) {
		return nil
	}
	out := make([]Placement, 0, r.Rows[i].Len())
	for _, idx := range r.Rows[i].Items {
		out = append(out, r.Placements[idx])
	}
	return out
}

// Layout computes the full wall for items in a container of the given width.
//
// The configuration is normalized first (focus grid clamped). Invalid input
// (non-positive container width, item sizes that are not positive finite
// numbers, negative margin or line height, margins that consume the whole
// container) fails the whole pass with a
// coded error; no partial result is returned. An empty item list is not an
// error and yields a Result without placements.
func Layout(items []Item, containerWidth float64, cfg Config) (Result, error) {
	if err := Validate(items, containerWidth, cfg); err != nil {
		return Result{}, err
	}
	cfg = cfg.Normalize()

	lineHeight := DeriveLineHeight(items, cfg.LineHeight)
	rows := Pack(items, containerWidth, cfg.Margin, cfg.ResizeLast)

	res := Result{
		ContainerWidth: containerWidth,
		LineHeight:     lineHeight,
		Config:         cfg,
		Rows:           rows,
		Placements:     make([]Placement, len(items)),
	}

	for _, row := range rows {
		y := float64(row.Index)*(lineHeight+2*cfg.Margin) + cfg.Margin
		x := cfg.Margin
		for k, s := range ScaleRow(row, items, containerWidth, cfg.Margin) {
			idx := row.Items[k]
			it := items[idx]
			fx, fy := ResolveFocus(it, cfg.FocusPoints)
			top, left := FocusOffset(s.Width, s.Height, lineHeight, s.SlotWidth, fx, fy, cfg.FocusPoints)

			res.Placements[idx] = Placement{
				Index:      idx,
				ID:         it.ID,
				Row:        row.Index,
				X:          x,
				Y:          y,
				SlotWidth:  s.SlotWidth,
				Width:      s.Width,
				Height:     s.Height,
				Ratio:      s.Ratio,
				FocusX:     fx,
				FocusY:     fy,
				MarginTop:  top,
				MarginLeft: left,
			}
			x += s.SlotWidth + 2*cfg.Margin
		}
	}
	return res, nil
}

// Validate checks the layout inputs and returns the first violation.
func Validate(items []Item, containerWidth float64, cfg Config) error {
	if err := errors.ValidatePositive(errors.ErrCodeInvalidWidth, "container width", containerWidth); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if 2*cfg.Margin >= containerWidth {
		return errors.New(errors.ErrCodeInvalidConfig,
			"margin %v leaves no inner width in a container of %v", cfg.Margin, containerWidth)
	}
	for i, it := range items {
		if err := validateItem(it); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidItem, err, "item %d", i)
		}
	}
	return nil
}

func validateItem(it Item) error {
	if err := errors.ValidateItemID(it.ID); err != nil {
		return err
	}
	if err := errors.ValidatePositive(errors.ErrCodeInvalidItem, "width", it.Width); err != nil {
		return err
	}
	return errors.ValidatePositive(errors.ErrCodeInvalidItem, "height", it.Height)
}
