package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"time"

	"github.com/matzehuels/brickwall/pkg/wall"
)

const revealCSS = `
    .brick { opacity: 0; animation-name: reveal; animation-fill-mode: forwards; animation-timing-function: ease-in; }
    @keyframes reveal { from { opacity: 0; } to { opacity: 1; } }`

const (
	placeholderFill = "#d9d9d9"
	placeholderEdge = "#9e9e9e"
	focusColor      = "#e53935"
)

// SVGOption configures SVG rendering via [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	images     bool
	href       func(id string) string
	markers    bool
	reveal     bool
	waiting    time.Duration
	display    time.Duration
	background string
}

// WithImages draws <image> elements whose href is the item ID.
func WithImages() SVGOption { return func(r *svgRenderer) { r.images = true } }

// WithHref draws <image> elements with the href returned by fn.
func WithHref(fn func(id string) string) SVGOption {
	return func(r *svgRenderer) { r.images = true; r.href = fn }
}

// WithFocusMarkers draws a marker on each item's focus cell.
func WithFocusMarkers() SVGOption { return func(r *svgRenderer) { r.markers = true } }

// WithReveal fades rows in one after another: row n starts after
// n*waiting and takes display to become opaque.
func WithReveal(waiting, display time.Duration) SVGOption {
	return func(r *svgRenderer) { r.reveal = true; r.waiting = waiting; r.display = display }
}

// WithBackground fills the canvas with color.
func WithBackground(color string) SVGOption { return func(r *svgRenderer) { r.background = color } }

// RenderSVG returns a standalone SVG preview of the wall. Each item is
// drawn at its scaled size, shifted by its crop offsets and clipped to
// its slot.
func RenderSVG(res wall.Result, opts ...SVGOption) []byte {
	r := svgRenderer{href: func(id string) string { return id }}
	for _, opt := range opts {
		opt(&r)
	}

	height := res.Height()
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		res.ContainerWidth, height, res.ContainerWidth, height)

	if r.reveal {
		fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", revealCSS)
	}
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", escapeXML(r.background))
	}

	renderClipPaths(&buf, res)

	var delays []time.Duration
	if r.reveal {
		delays = RevealDelays(res, r.waiting)
	}
	for i, p := range res.Placements {
		var delay time.Duration
		if delays != nil {
			delay = delays[i]
		}
		r.renderBrick(&buf, res, p, delay)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func clipID(i int) string { return fmt.Sprintf("slot-%d", i) }

func renderClipPaths(buf *bytes.Buffer, res wall.Result) {
	if len(res.Placements) == 0 {
		return
	}
	buf.WriteString("  <defs>\n")
	for i, p := range res.Placements {
		fmt.Fprintf(buf, `    <clipPath id="%s"><rect x="%.2f" y="%.2f" width="%.2f" height="%.2f"/></clipPath>`+"\n",
			clipID(i), p.X, p.Y, p.SlotWidth, res.LineHeight)
	}
	buf.WriteString("  </defs>\n")
}

func (r *svgRenderer) renderBrick(buf *bytes.Buffer, res wall.Result, p wall.Placement, delay time.Duration) {
	buf.WriteString(`  <g class="brick"`)
	fmt.Fprintf(buf, ` data-row="%d"`, p.Row)
	if p.ID != "" {
		fmt.Fprintf(buf, ` data-id="%s"`, escapeXML(p.ID))
	}
	if r.reveal {
		fmt.Fprintf(buf, ` style="animation-delay: %dms; animation-duration: %dms"`, delay.Milliseconds(), r.display.Milliseconds())
	}
	fmt.Fprintf(buf, ` clip-path="url(#%s)">`+"\n", clipID(p.Index))

	x, y := p.X+p.MarginLeft, p.Y+p.MarginTop
	if r.images && p.ID != "" {
		fmt.Fprintf(buf, `    <image href="%s" x="%.2f" y="%.2f" width="%.2f" height="%.2f" preserveAspectRatio="none"/>`+"\n",
			escapeXML(r.href(p.ID)), x, y, p.Width, p.Height)
	} else {
		fmt.Fprintf(buf, `    <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" stroke="%s"/>`+"\n",
			x, y, p.Width, p.Height, placeholderFill, placeholderEdge)
	}

	if r.markers {
		cx, cy := focusCenter(res.Config.FocusPoints, p)
		fmt.Fprintf(buf, `    <circle class="focus" cx="%.2f" cy="%.2f" r="%.1f" fill="none" stroke="%s" stroke-width="2"/>`+"\n",
			cx, cy, markerRadius(res.LineHeight), focusColor)
	}
	buf.WriteString("  </g>\n")
}

// focusCenter returns the centre of p's focus cell in canvas coordinates.
func focusCenter(points wall.FocusPoints, p wall.Placement) (cx, cy float64) {
	points = points.Clamp()
	cw := p.Width / float64(points.X)
	ch := p.Height / float64(points.Y)
	cx = p.X + p.MarginLeft + (float64(p.FocusX)+0.5)*cw
	cy = p.Y + p.MarginTop + (float64(p.FocusY)+0.5)*ch
	return cx, cy
}

func markerRadius(lineHeight float64) float64 {
	return max(4, min(12, lineHeight/20))
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
