// Package cache stores computed layouts and rendered artifacts.
//
// Entries are opaque byte slices addressed by string keys. Keys are built
// by a [Keyer] from a content hash of the layout inputs, so identical galleries
// share entries regardless of where the manifest lives.
//
// Three backends are provided:
//
//   - [FileCache]: one JSON file per entry, for CLI use
//   - [RedisCache]: shared cache for the HTTP server
//   - [NullCache]: never stores anything
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss
	// (hit == false) and not an error.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Default TTLs per cache tier.
const (
	// TTLLayout is how long a computed layout is kept. Layouts are a pure
	// function of their inputs, so the TTL only bounds disk usage.
	TTLLayout = 7 * 24 * time.Hour

	// TTLArtifact is how long a rendered artifact is kept.
	TTLArtifact = 24 * time.Hour
)

// Keyer builds cache keys.
type Keyer interface {
	// LayoutKey addresses a layout computed from contentHash.
	LayoutKey(contentHash string, opts LayoutKeyOpts) string

	// ArtifactKey addresses a rendered artifact of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the layout parameters that change the result.
type LayoutKeyOpts struct {
	Width       float64 `json:"width"`
	Margin      float64 `json:"margin"`
	LineHeight  float64 `json:"line_height"`
	ResizeLast  bool    `json:"resize_last"`
	FocusPointX int     `json:"focus_x"`
	FocusPointY int     `json:"focus_y"`
}

// ArtifactKeyOpts are the render parameters that change an artifact.
type ArtifactKeyOpts struct {
	Format      string `json:"format"`
	Images      bool   `json:"images,omitempty"`
	Markers     bool   `json:"markers,omitempty"`
	RevealMS    int64  `json:"reveal_ms,omitempty"`
	DisplayMS   int64  `json:"display_ms,omitempty"`
	Background  string `json:"background,omitempty"`
	ImagePrefix string `json:"image_prefix,omitempty"`
}

// DefaultKeyer hashes key options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns "layout:<sha256>".
func (DefaultKeyer) LayoutKey(contentHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", contentHash, opts)
}

// ArtifactKey returns "artifact:<format>:<sha256>".
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+opts.Format, layoutHash, opts)
}
