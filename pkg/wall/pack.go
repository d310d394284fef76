package wall

// Row is one horizontal line of the wall.
//
// Items holds indices into the item slice passed to [Pack], in order.
// Width is the pre-scale width including margins; Missing is the signed
// slack (containerWidth - Width) that scaling distributes across the row.
type Row struct {
	Index   int     `json:"index"`
	Items   []int   `json:"items"`
	Width   float64 `json:"width"`
	Missing float64 `json:"missing"`
}

// Len returns the number of items in the row.
func (r Row) Len() int { return len(r.Items) }

// Oversized reports whether the row, margins included, is wider than the
// container. Packing only produces such rows for a single item that cannot
// fit on its own. It is judged on Width so that a last row whose Missing
// was zeroed is still recognized.
func (r Row) Oversized(containerWidth float64) bool { return r.Width > containerWidth }

// Pack partitions items into rows with a single greedy pass.
//
// An item opens a new row when it is at least as wide as the container on
// its own, or when adding it (plus margins) would overflow the current row.
// Item order is never changed. The last row gets Missing = 0 unless
// resizeLast is set, so it renders at natural width. An oversized last row
// is still shrunk to fit by [ScaleRow], which tests the item itself.
//
// Empty input yields a single empty row.
func Pack(items []Item, containerWidth, margin float64, resizeLast bool) []Row {
	rows := []Row{{}}
	cur := 0
	for i, it := range items {
		total := it.TotalWidth(margin)
		if it.Width >= containerWidth || rows[cur].Width+total > containerWidth {
			rows = append(rows, Row{})
			cur++
		}
		rows[cur].Items = append(rows[cur].Items, i)
		rows[cur].Width += total
	}

	// The first item may have opened a new row, leaving row 0 empty.
	if len(rows) > 1 && len(rows[0].Items) == 0 {
		rows = rows[1:]
	}

	for i := range rows {
		rows[i].Index = i
		rows[i].Missing = containerWidth - rows[i].Width
	}
	if !resizeLast {
		rows[len(rows)-1].Missing = 0
	}
	return rows
}
