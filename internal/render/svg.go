// Package render draws a room layout as SVG. Rendering is a pure read of the
// layout and never changes it.
package render

import (
	"fmt"
	"html"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/hostel-manager/room-designer/internal/geometry"
	"github.com/hostel-manager/room-designer/internal/models"
)

const (
	// DefaultScale is pixels per meter.
	DefaultScale = 50.0

	wallThickness = 0.15
	padding       = 0.5

	// maxGridLines bounds the grid lines drawn along each axis. Finer grids
	// are drawn at a multiple of the requested spacing.
	maxGridLines = 200
)

var statusColors = map[models.BedStatus]string{
	models.BedAvailable:   "#7BC47F",
	models.BedOccupied:    "#E57373",
	models.BedReserved:    "#FFB74D",
	models.BedMaintenance: "#9E9E9E",
}

// Options controls how a layout is drawn.
type Options struct {
	Scale    float64
	ShowGrid bool
	GridSize float64
	Selected []string
}

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render returns the layout as a standalone SVG document.
func (r *Renderer) Render(layout models.Layout, opts Options) (string, error) {
	room := layout.Dimensions
	if room.Length <= 0 || room.Width <= 0 {
		return "", fmt.Errorf("layout has no room dimensions")
	}

	scale := opts.Scale
	if scale <= 0 {
		scale = DefaultScale
	}
	theme := layout.Theme
	if theme.WallColor == "" || theme.FloorColor == "" {
		theme = models.DefaultTheme()
	}

	selected := make(map[string]bool, len(opts.Selected))
	for _, id := range opts.Selected {
		selected[id] = true
	}

	p := painter{scale: scale}
	totalW := room.Length + 2*padding
	totalH := room.Width + 2*padding

	var parts []string
	parts = append(parts, p.rect("room", 0, 0, room.Length, room.Width,
		fmt.Sprintf(`fill="%s" stroke="%s" stroke-width="%s"`,
			theme.FloorColor, theme.WallColor, formatFloat(wallThickness*scale))))
	if opts.ShowGrid {
		parts = append(parts, r.renderGrid(p, room, opts.GridSize)...)
	}
	for _, e := range paintOrder(layout.Elements) {
		parts = append(parts, r.renderElement(p, e, selected[e.ID])...)
	}

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`,
		formatFloat(totalW*scale), formatFloat(totalH*scale), formatFloat(totalW*scale), formatFloat(totalH*scale)))
	builder.WriteString("\n")
	builder.WriteString(fmt.Sprintf(`  <g transform="translate(%s %s)">`, formatFloat(padding*scale), formatFloat(padding*scale)))
	builder.WriteString("\n")

	for _, part := range parts {
		if part == "" {
			continue
		}
		builder.WriteString("    ")
		builder.WriteString(part)
		builder.WriteString("\n")
	}

	builder.WriteString("  </g>\n")
	builder.WriteString(`</svg>`)
	return builder.String(), nil
}

func (r *Renderer) renderGrid(p painter, room models.Dimensions, size float64) []string {
	if size <= 0 {
		size = geometry.DefaultGridSize
	}
	if math.IsInf(room.Length, 0) || math.IsInf(room.Width, 0) {
		return nil
	}
	for room.Length/size > maxGridLines || room.Width/size > maxGridLines {
		size *= 2
	}

	var out []string
	for x := size; x < room.Length; x += size {
		out = append(out, p.line(x, 0, x, room.Width))
	}
	for y := size; y < room.Width; y += size {
		out = append(out, p.line(0, y, room.Length, y))
	}
	return out
}

func (r *Renderer) renderElement(p painter, e models.Element, selected bool) []string {
	w, h := geometry.EffectiveFootprint(e)
	stroke := `stroke="#333333" stroke-width="1"`
	if selected {
		stroke = `stroke="#FF6600" stroke-width="3"`
	}

	var out []string
	switch props := e.Properties.(type) {
	case models.BedProperties:
		out = append(out, p.rect(e.ID, e.X, e.Y, w, h, fmt.Sprintf(`fill="%s" %s`, bedColor(props.Status), stroke)))
		out = append(out, p.label(e.X+w/2, e.Y+h/2, props.BedLabel))

	case models.BunkBedProperties:
		out = append(out, p.rect(e.ID, e.X, e.Y, w, h, fmt.Sprintf(`fill="%s" %s data-levels="%d"`,
			bedColor(props.Status), stroke, len(props.Levels))))
		// One divider per level boundary, across the long side.
		n := len(props.Levels)
		for i := 1; i < n; i++ {
			if w >= h {
				x := e.X + w*float64(i)/float64(n)
				out = append(out, p.dashed(x, e.Y, x, e.Y+h))
			} else {
				y := e.Y + h*float64(i)/float64(n)
				out = append(out, p.dashed(e.X, y, e.X+w, y))
			}
		}
		out = append(out, p.label(e.X+w/2, e.Y+h/2, props.BedLabel))

	case models.DoorProperties:
		out = append(out, p.rect(e.ID, e.X, e.Y, w, h, `fill="#8B4513" `+stroke))

	case models.WindowProperties:
		fill := "#87CEEB"
		if props.IsOpen {
			fill = "#E0F7FA"
		}
		out = append(out, p.rect(e.ID, e.X, e.Y, w, h, fmt.Sprintf(`fill="%s" %s`, fill, stroke)))

	default:
		out = append(out, p.rect(e.ID, e.X, e.Y, w, h, `fill="#BCAAA4" `+stroke))
		out = append(out, p.label(e.X+w/2, e.Y+h/2, string(e.Type)))
	}
	return out
}

// paintOrder sorts by zIndex, keeping insertion order for ties.
func paintOrder(elements []models.Element) []models.Element {
	out := append([]models.Element(nil), elements...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ZIndex < out[j].ZIndex
	})
	return out
}

func bedColor(status models.BedStatus) string {
	if c, ok := statusColors[status]; ok {
		return c
	}
	return statusColors[models.BedAvailable]
}

// painter converts meters to pixels.
type painter struct {
	scale float64
}

func (p painter) rect(id string, x, y, w, h float64, attrs string) string {
	return fmt.Sprintf(`<rect id="%s" x="%s" y="%s" width="%s" height="%s" %s />`,
		html.EscapeString(id), p.px(x), p.px(y), p.px(w), p.px(h), attrs)
}

func (p painter) line(x1, y1, x2, y2 float64) string {
	return fmt.Sprintf(`<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="#000000" stroke-opacity="0.1" />`,
		p.px(x1), p.px(y1), p.px(x2), p.px(y2))
}

func (p painter) dashed(x1, y1, x2, y2 float64) string {
	return fmt.Sprintf(`<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="#333333" stroke-dasharray="4 2" />`,
		p.px(x1), p.px(y1), p.px(x2), p.px(y2))
}

func (p painter) label(cx, cy float64, text string) string {
	if text == "" {
		return ""
	}
	return fmt.Sprintf(`<text x="%s" y="%s" font-size="%s" text-anchor="middle" dominant-baseline="middle">%s</text>`,
		p.px(cx), p.px(cy), formatFloat(math.Round(p.scale*0.25)), html.EscapeString(text))
}

func (p painter) px(meters float64) string {
	return formatFloat(math.Round(meters*p.scale*100) / 100)
}

func formatFloat(val float64) string {
	return strconv.FormatFloat(val, 'f', -1, 64)
}
