package wall

// Item is one rectangular media element to place in the wall.
//
// Width and Height are intrinsic pixel sizes and must be positive.
// FocusX and FocusY are indices into the configured focus grid; nil or
// out-of-range values resolve to the grid centre.
type Item struct {
	ID     string  `json:"id,omitempty" toml:"id,omitempty"`
	Width  float64 `json:"width" toml:"width"`
	Height float64 `json:"height" toml:"height"`
	FocusX *int    `json:"focus_x,omitempty" toml:"focus_x,omitempty"`
	FocusY *int    `json:"focus_y,omitempty" toml:"focus_y,omitempty"`
}

// Index returns a pointer to i, for populating Item focus fields.
func Index(i int) *int { return &i }

// WithFocus returns a copy of it with the focus cell set to (x, y).
func (it Item) WithFocus(x, y int) Item {
	it.FocusX = Index(x)
	it.FocusY = Index(y)
	return it
}

// TotalWidth returns the item's intrinsic width plus margin on both sides.
func (it Item) TotalWidth(margin float64) float64 {
	return it.Width + 2*margin
}
