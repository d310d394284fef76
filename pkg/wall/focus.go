package wall

// ResolveFocus returns the item's effective focus cell on the grid.
// Unset or out-of-range coordinates fall back to the grid centre,
// independently per axis.
func ResolveFocus(it Item, points FocusPoints) (x, y int) {
	points = points.Clamp()
	cx, cy := points.Center()
	return resolveAxis(it.FocusX, points.X, cx), resolveAxis(it.FocusY, points.Y, cy)
}

func resolveAxis(v *int, n, center int) int {
	if v == nil || *v < 0 || *v >= n {
		return center
	}
	return *v
}

// FocusOffset returns the (top, left) shift that keeps focus cell (fx, fy)
// visible inside a slot of slotWidth x lineHeight.
//
// The overflow on each axis is the amount the scaled image exceeds the
// slot. Index 0 keeps the image aligned to the top/left edge; larger
// indices shift it by a linear fraction (index/points) of the overflow.
// A negative overflow (image smaller than the slot) yields a positive,
// push-down offset by the same formula.
func FocusOffset(width, height, lineHeight, slotWidth float64, fx, fy int, points FocusPoints) (top, left float64) {
	points = points.Clamp()
	overflowH := height - lineHeight
	overflowW := width - slotWidth
	top = shift(overflowH, fy, points.Y)
	left = shift(overflowW, fx, points.X)
	return top, left
}

func shift(overflow float64, index, points int) float64 {
	v := -(overflow * float64(index) / float64(points))
	if v == 0 {
		return 0 // no negative zero in encoded output
	}
	return v
}
