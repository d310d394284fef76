package wall

// DeriveLineHeight returns the row height used as the pre-scale baseline.
// A fixed height is returned unchanged. For [Auto] it returns the smallest
// intrinsic height in items, or 0 when items is empty.
func DeriveLineHeight(items []Item, configured LineHeight) float64 {
	if !configured.IsAuto() {
		return float64(configured)
	}
	if len(items) == 0 {
		return 0
	}
	h := items[0].Height
	for _, it := range items[1:] {
		h = min(h, it.Height)
	}
	return h
}
