package wall

import "math"

// Scaled is the scaling outcome for one item of a row.
type Scaled struct {
	// Ratio is the uniform scale applied to both image axes.
	Ratio float64
	// FinalWidth is the unfloored target slot width.
	FinalWidth float64
	// SlotWidth is FinalWidth floored, the width the item's box gets.
	// Flooring keeps sub-pixel rounding in renderers from wrapping rows.
	SlotWidth float64
	// Width and Height are the scaled image dimensions.
	Width, Height float64
}

// ScaleRow computes the scale of every item in row.
//
// An item whose width plus margins exceeds the container shrinks to the
// container's inner width (containerWidth - 2*margin), whatever the row's
// Missing says. Other rows distribute Missing across their
// items in proportion to each item's share of the row width, so wider
// items absorb more of the stretch. A row of zero width is left unscaled.
func ScaleRow(row Row, items []Item, containerWidth, margin float64) []Scaled {
	out := make([]Scaled, 0, len(row.Items))
	for _, idx := range row.Items {
		it := items[idx]

		var final float64
		switch {
		case it.TotalWidth(margin) > containerWidth:
			final = containerWidth - 2*margin
		case row.Width == 0:
			final = it.Width
		default:
			final = it.Width + row.Missing*(it.TotalWidth(margin)/row.Width)
		}

		ratio := final / it.Width
		out = append(out, Scaled{
			Ratio:      ratio,
			FinalWidth: final,
			SlotWidth:  math.Floor(final),
			Width:      it.Width * ratio,
			Height:     it.Height * ratio,
		})
	}
	return out
}
