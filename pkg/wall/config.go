package wall

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/brickwall/pkg/errors"
)

// Default configuration values.
const (
	// DefaultMargin is the uniform margin around every item, in pixels.
	DefaultMargin = 3.0

	// DefaultFocusPoints is the focus grid size along each axis.
	DefaultFocusPoints = 5
)

// LineHeight is the common display height of every row.
// The zero value is [Auto]: the height is derived from the items.
type LineHeight float64

// Auto derives the line height from the smallest intrinsic item height.
const Auto LineHeight = 0

const autoLiteral = "auto"

// IsAuto reports whether h requests a derived line height.
func (h LineHeight) IsAuto() bool { return h == Auto }

// String returns "auto" or the fixed height in pixels.
func (h LineHeight) String() string {
	if h.IsAuto() {
		return autoLiteral
	}
	return strconv.FormatFloat(float64(h), 'f', -1, 64)
}

// ParseLineHeight parses "auto" (case-insensitive, or empty) or a pixel value.
func ParseLineHeight(s string) (LineHeight, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, autoLiteral) {
		return Auto, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "px"), 64)
	if err != nil {
		return Auto, errors.Wrap(errors.ErrCodeInvalidConfig, err, "line height %q", s)
	}
	if err := errors.ValidateNonNegative(errors.ErrCodeInvalidConfig, "line height", v); err != nil {
		return Auto, err
	}
	return LineHeight(v), nil
}

// MarshalJSON encodes Auto as the string "auto" and fixed heights as numbers.
func (h LineHeight) MarshalJSON() ([]byte, error) {
	if h.IsAuto() {
		return json.Marshal(autoLiteral)
	}
	return json.Marshal(float64(h))
}

// UnmarshalJSON accepts "auto", a numeric string, or a number.
func (h *LineHeight) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v, err := ParseLineHeight(s)
		if err != nil {
			return err
		}
		*h = v
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "line height must be \"auto\" or a number")
	}
	*h = LineHeight(f)
	return nil
}

// MarshalTOML implements toml.Marshaler.
func (h LineHeight) MarshalTOML() ([]byte, error) {
	if h.IsAuto() {
		return []byte(strconv.Quote(autoLiteral)), nil
	}
	return []byte(h.String()), nil
}

// UnmarshalTOML implements toml.Unmarshaler.
func (h *LineHeight) UnmarshalTOML(v any) error {
	switch x := v.(type) {
	case string:
		lh, err := ParseLineHeight(x)
		if err != nil {
			return err
		}
		*h = lh
	case int64:
		*h = LineHeight(x)
	case float64:
		*h = LineHeight(x)
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "line height must be \"auto\" or a number, got %T", v)
	}
	return nil
}

// FocusPoints is the size of the focus grid laid over each item.
type FocusPoints struct {
	X int `json:"x" toml:"x"`
	Y int `json:"y" toml:"y"`
}

// Clamp returns p with each axis raised to at least 1.
func (p FocusPoints) Clamp() FocusPoints {
	return FocusPoints{X: max(p.X, 1), Y: max(p.Y, 1)}
}

// Center returns the default focus cell (floor(points/2) on each axis).
func (p FocusPoints) Center() (x, y int) {
	return p.X / 2, p.Y / 2
}

// Config holds the layout options for one wall.
//
// Config is a plain value: layout functions never modify it, and the same
// Config can be shared across goroutines.
type Config struct {
	Margin      float64     `json:"margin" toml:"margin"`
	LineHeight  LineHeight  `json:"line_height" toml:"line_height"`
	ResizeLast  bool        `json:"resize_last" toml:"resize_last"`
	FocusPoints FocusPoints `json:"focus_points" toml:"focus_points"`
}

// DefaultConfig returns the default options: 3px margin, Auto line height,
// last row resized, 5x5 focus grid.
func DefaultConfig() Config {
	return Config{
		Margin:      DefaultMargin,
		LineHeight:  Auto,
		ResizeLast:  true,
		FocusPoints: FocusPoints{X: DefaultFocusPoints, Y: DefaultFocusPoints},
	}
}

// Normalize returns c with silently correctable values fixed: focus grid
// axes below 1 are clamped to 1.
func (c Config) Normalize() Config {
	c.FocusPoints = c.FocusPoints.Clamp()
	return c
}

// Validate reports caller contract violations that cannot be corrected.
//
// A line height of zero is not an error: it is [Auto], and the height is
// derived from the items. Only negative or non-finite heights are rejected.
// Margins are checked against the container width in [Validate].
func (c Config) Validate() error {
	if err := errors.ValidateNonNegative(errors.ErrCodeInvalidConfig, "margin", c.Margin); err != nil {
		return err
	}
	return errors.ValidateNonNegative(errors.ErrCodeInvalidConfig, "line height", float64(c.LineHeight))
}

// String returns a compact, stable description used in logs.
func (c Config) String() string {
	return fmt.Sprintf("margin=%g line_height=%s resize_last=%t focus=%dx%d",
		c.Margin, c.LineHeight, c.ResizeLast, c.FocusPoints.X, c.FocusPoints.Y)
}
