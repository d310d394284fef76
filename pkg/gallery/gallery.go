// Package gallery reads and writes gallery manifests.
//
// A manifest lists the items of one wall together with its container width
// and layout options. TOML and JSON are supported; the format is chosen
// from the file extension:
//
//	width = 900
//
//	[layout]
//	margin = 3
//	line_height = "auto"
//	resize_last = true
//	focus_points = { x = 5, y = 5 }
//
//	[[items]]
//	id = "beach.jpg"
//	width = 600
//	height = 400
//	focus_x = 1
//	focus_y = 3
//
// Keys missing from [layout] keep their [wall.DefaultConfig] values.
package gallery

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/brickwall/pkg/errors"
	"github.com/matzehuels/brickwall/pkg/wall"
)

// Format is a manifest encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// Gallery is a decoded manifest.
type Gallery struct {
	Width  float64     `json:"width,omitempty" toml:"width,omitempty"`
	Layout wall.Config `json:"layout" toml:"layout"`
	Items  []wall.Item `json:"items" toml:"items"`
}

// New returns an empty gallery with default layout options.
func New(width float64) *Gallery {
	return &Gallery{Width: width, Layout: wall.DefaultConfig()}
}

// FormatFromPath picks the manifest format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat,
			"unsupported manifest extension %q (want .toml or .json)", filepath.Ext(path))
	}
}

// Read decodes a manifest from r.
func Read(r io.Reader, format Format) (*Gallery, error) {
	g := New(0)
	switch format {
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(g)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode toml manifest")
		}
		if keys := md.Undecoded(); len(keys) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidManifest, "unknown manifest key %q", keys[0].String())
		}
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(g); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode json manifest")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported manifest format %q", format)
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// ReadFile reads the manifest at path.
func ReadFile(path string) (*Gallery, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "manifest %s", path)
		}
		return nil, err
	}
	defer f.Close()
	return Read(f, format)
}

// Write encodes g to w.
func Write(w io.Writer, g *Gallery, format Format) error {
	switch format {
	case FormatTOML:
		return toml.NewEncoder(w).Encode(g)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(g)
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported manifest format %q", format)
	}
}

// WriteFile writes g to path, replacing the file atomically. The format
// follows the extension.
func WriteFile(g *Gallery, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Write(&buf, g, format); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Validate checks that item IDs are unique. Geometry is checked by the
// layout engine.
func (g *Gallery) Validate() error {
	seen := make(map[string]int, len(g.Items))
	for i, it := range g.Items {
		if it.ID == "" {
			continue
		}
		if prev, ok := seen[it.ID]; ok {
			return errors.New(errors.ErrCodeInvalidManifest, "duplicate item id %q (items %d and %d)", it.ID, prev, i)
		}
		seen[it.ID] = i
	}
	return nil
}

// Index returns the position of the item with the given ID.
func (g *Gallery) Index(id string) (int, bool) {
	for i, it := range g.Items {
		if it.ID == id {
			return i, true
		}
	}
	return -1, false
}

// Item returns the item with the given ID.
func (g *Gallery) Item(id string) (wall.Item, error) {
	i, ok := g.Index(id)
	if !ok {
		return wall.Item{}, errors.New(errors.ErrCodeItemNotFound, "no item %q in gallery", id)
	}
	return g.Items[i], nil
}

// SetFocus sets the focus cell of the item with the given ID.
// The coordinates must lie on the gallery's focus grid.
func (g *Gallery) SetFocus(id string, x, y int) error {
	i, ok := g.Index(id)
	if !ok {
		return errors.New(errors.ErrCodeItemNotFound, "no item %q in gallery", id)
	}
	points := g.Layout.FocusPoints.Clamp()
	if x < 0 || x >= points.X || y < 0 || y >= points.Y {
		return errors.New(errors.ErrCodeInvalidInput, "focus (%d,%d) outside %dx%d grid", x, y, points.X, points.Y)
	}
	g.Items[i] = g.Items[i].WithFocus(x, y)
	return nil
}

// Append adds an item, rejecting duplicate non-empty IDs.
func (g *Gallery) Append(it wall.Item) error {
	if it.ID != "" {
		if _, dup := g.Index(it.ID); dup {
			return errors.New(errors.ErrCodeInvalidManifest, "duplicate item id %q", it.ID)
		}
	}
	g.Items = append(g.Items, it)
	return nil
}
