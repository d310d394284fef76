package sink

import (
	"time"

	"github.com/matzehuels/brickwall/pkg/wall"
)

// Progressive reveal defaults: each row appears waiting after the previous
// one and fades in over the display time.
const (
	DefaultRevealDelay = 100 * time.Millisecond
	DefaultDisplayTime = 500 * time.Millisecond
)

// RevealDelays returns the reveal delay of every placement, indexed like
// res.Placements: row index times waiting.
func RevealDelays(res wall.Result, waiting time.Duration) []time.Duration {
	out := make([]time.Duration, len(res.Placements))
	for i, p := range res.Placements {
		out[i] = time.Duration(p.Row) * waiting
	}
	return out
}
