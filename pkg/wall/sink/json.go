package sink

import (
	"encoding/json"
	"time"

	"github.com/matzehuels/brickwall/pkg/wall"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	compact bool
	reveal  bool
	waiting time.Duration
}

// WithJSONCompact disables indentation.
func WithJSONCompact() JSONOption { return func(r *jsonRenderer) { r.compact = true } }

// WithJSONReveal includes the per-item reveal delay, in milliseconds.
func WithJSONReveal(waiting time.Duration) JSONOption {
	return func(r *jsonRenderer) { r.reveal = true; r.waiting = waiting }
}

type jsonOutput struct {
	Width      float64         `json:"width"`
	Height     float64         `json:"height"`
	LineHeight float64         `json:"line_height"`
	Config     wall.Config     `json:"config"`
	Rows       []jsonRow       `json:"rows"`
	Placements []jsonPlacement `json:"placements"`
}

type jsonRow struct {
	Index   int     `json:"index"`
	Items   []int   `json:"items"`
	Width   float64 `json:"width"`
	Missing float64 `json:"missing"`
}

type jsonPlacement struct {
	wall.Placement
	RevealMS *int64 `json:"reveal_ms,omitempty"`
}

// RenderJSON exports the result as a JSON document. Placements are listed
// in item order and rows reference them by index.
func RenderJSON(res wall.Result, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Width:      res.ContainerWidth,
		Height:     res.Height(),
		LineHeight: res.LineHeight,
		Config:     res.Config,
		Rows:       make([]jsonRow, 0, len(res.Rows)),
		Placements: make([]jsonPlacement, 0, len(res.Placements)),
	}
	for _, row := range res.Rows {
		items := row.Items
		if items == nil {
			items = []int{}
		}
		out.Rows = append(out.Rows, jsonRow{Index: row.Index, Items: items, Width: row.Width, Missing: row.Missing})
	}

	var delays []time.Duration
	if r.reveal {
		delays = RevealDelays(res, r.waiting)
	}
	for i, p := range res.Placements {
		jp := jsonPlacement{Placement: p}
		if delays != nil {
			ms := delays[i].Milliseconds()
			jp.RevealMS = &ms
		}
		out.Placements = append(out.Placements, jp)
	}

	if r.compact {
		return json.Marshal(out)
	}
	return json.MarshalIndent(out, "", "  ")
}
