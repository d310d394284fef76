// Package wall computes justified "brick wall" gallery layouts.
//
// # Overview
//
// Items with known intrinsic sizes are packed left to right into rows that
// fill a container of fixed width. Each row is then scaled so its items fill
// the container exactly, and every item gets a crop offset that keeps its
// focus point inside the visible slot. The package is purely computational:
// it never decodes images and never touches a rendering surface.
//
// # Pipeline
//
// A layout pass runs four stages:
//
//  1. [DeriveLineHeight]: fixed, or the smallest intrinsic height (Auto)
//  2. [Pack]: greedy, order preserving partition into [Row] values
//  3. [ScaleRow]: per-row stretch (or shrink-to-fit for oversized items)
//  4. [FocusOffset]: crop offsets from the item's focus grid cell
//
// [Layout] runs all four and returns a [Result] with one [Placement] per
// item.
//
// # Usage
//
//	items := []wall.Item{
//	    {ID: "beach.jpg", Width: 600, Height: 400},
//	    {ID: "dunes.jpg", Width: 500, Height: 400, FocusX: wall.Index(4)},
//	}
//	res, err := wall.Layout(items, 900, wall.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	for _, p := range res.Placements {
//	    fmt.Println(p.Row, p.SlotWidth, p.MarginTop, p.MarginLeft)
//	}
//
// Callers that re-run layout on container resize keep a [State]:
//
//	st, err := wall.Initialize(items, 900, cfg)
//	// ... container resized ...
//	err = st.Recompute(items, 720)
//
// Every call is a pure function of its inputs; there is no shared state, so
// a superseded computation can simply be discarded.
package wall
