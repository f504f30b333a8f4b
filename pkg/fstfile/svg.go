package fstfile

import (
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/ha1tch/fst-toolkit/pkg/fst"
)

// SVGOptions controls SVG rendering.
type SVGOptions struct {
	Width       int    // canvas width in pixels
	Height      int    // canvas height in pixels
	Title       string // diagram title
	FontSize    int    // font size for state labels
	LabelSize   int    // font size for transition labels (0 = FontSize - 2)
	TitleSize   int    // font size for the title (0 = FontSize + 4)
	StateRadius int
	Padding     int
}

// DefaultSVGOptions returns sensible defaults.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Width:       800,
		Height:      600,
		FontSize:    14,
		StateRadius: 30,
		Padding:     50,
	}
}

func (o *SVGOptions) fill() {
	d := DefaultSVGOptions()
	if o.Width == 0 {
		o.Width = d.Width
	}
	if o.Height == 0 {
		o.Height = d.Height
	}
	if o.FontSize == 0 {
		o.FontSize = d.FontSize
	}
	if o.LabelSize == 0 {
		o.LabelSize = o.FontSize - 2
	}
	if o.TitleSize == 0 {
		o.TitleSize = o.FontSize + 4
	}
	if o.StateRadius == 0 {
		o.StateRadius = d.StateRadius
	}
	if o.Padding == 0 {
		o.Padding = d.Padding
	}
}

// GenerateSVG renders the transducer as a standalone SVG document using
// the layered layout.
func GenerateSVG(t *fst.Transducer, opts SVGOptions) string {
	opts.fill()

	titleSpace := 0.0
	if opts.Title != "" {
		titleSpace = 35
	}
	r := float64(opts.StateRadius)
	pos := canvas{
		width:   opts.Width,
		height:  opts.Height,
		padding: opts.Padding,
		top:     titleSpace,
		radius:  r,
	}.place(Layout(t))

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<defs>
  <marker id="arrowhead" markerWidth="10" markerHeight="7" refX="9" refY="3.5" orient="auto">
    <polygon points="0 0, 10 3.5, 0 7" fill="#333"/>
  </marker>
</defs>
<style>
  .state { fill: white; stroke: #333; stroke-width: 2; }
  .state-initial { fill: #e8f5e9; stroke: #2e7d32; stroke-width: 2; }
  .state-final { fill: #fff3e0; stroke: #e65100; stroke-width: 2; }
  .state-both { fill: #e3f2fd; stroke: #1565c0; stroke-width: 2; }
  .state-label { font-family: sans-serif; font-size: %dpx; text-anchor: middle; dominant-baseline: middle; }
  .transition { fill: none; stroke: #333; stroke-width: 1.5; marker-end: url(#arrowhead); }
  .epsilon { stroke-dasharray: 4 3; }
  .trans-label { font-family: sans-serif; font-size: %dpx; fill: #333; text-anchor: middle; }
  .title { font-family: sans-serif; font-size: %dpx; font-weight: bold; text-anchor: middle; }
</style>
<rect width="%d" height="%d" fill="white"/>
`, opts.Width, opts.Height, opts.Width, opts.Height,
		opts.FontSize, opts.LabelSize, opts.TitleSize, opts.Width, opts.Height))

	if opts.Title != "" {
		sb.WriteString(fmt.Sprintf("<text x=\"%d\" y=\"25\" class=\"title\">%s</text>\n",
			opts.Width/2, html.EscapeString(opts.Title)))
	}

	groups := groupEdges(t)
	for _, g := range groups {
		from, to := pos[g.from], pos[g.to]
		label := strings.Join(g.labels, ", ")
		class := "transition"
		if allEpsilon(g.labels) {
			class += " epsilon"
		}
		switch {
		case g.from == g.to:
			drawSelfLoop(&sb, from.X, from.Y, r, label, class)
		case hasReverse(groups, g.from, g.to):
			drawCurvedTransition(&sb, from, to, r, label, class)
		default:
			drawTransition(&sb, from, to, r, label, class)
		}
	}

	for _, q := range t.InitialStates() {
		p := pos[q]
		sb.WriteString(fmt.Sprintf("<line x1=\"%.1f\" y1=\"%.1f\" x2=\"%.1f\" y2=\"%.1f\" class=\"transition\"/>\n",
			p.X-r-30, p.Y, p.X-r-2, p.Y))
	}

	for q, p := range pos {
		class := stateClass(t, q)
		sb.WriteString(fmt.Sprintf("<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\" class=\"%s\"/>\n", p.X, p.Y, r, class))
		if t.IsFinal(q) {
			sb.WriteString(fmt.Sprintf("<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\" class=\"%s\" fill=\"none\"/>\n", p.X, p.Y, r-4, class))
		}
		sb.WriteString(fmt.Sprintf("<text x=\"%.1f\" y=\"%.1f\" class=\"state-label\">%d</text>\n", p.X, p.Y, q))
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

func stateClass(t *fst.Transducer, q int) string {
	switch initial, final := t.IsInitial(q), t.IsFinal(q); {
	case initial && final:
		return "state-both"
	case initial:
		return "state-initial"
	case final:
		return "state-final"
	}
	return "state"
}

func allEpsilon(labels []string) bool {
	for _, l := range labels {
		if !strings.HasPrefix(l, "ε:") {
			return false
		}
	}
	return true
}

// drawTransition draws a straight arrow, or a curve for edges that skip
// layers or point backwards.
func drawTransition(sb *strings.Builder, from, to Point, r float64, label, class string) {
	dx, dy := to.X-from.X, to.Y-from.Y
	dist := math.Hypot(dx, dy)
	if dist < 1 {
		return
	}
	nx, ny := dx/dist, dy/dist
	sx, sy := from.X+nx*r, from.Y+ny*r
	ex, ey := to.X-nx*(r+2), to.Y-ny*(r+2)

	if dx < 0 || dist > r*6 {
		bend := dist * 0.25
		if dx < 0 {
			bend = dist * 0.35
		}
		cx := (from.X+to.X)/2 - ny*bend
		cy := (from.Y+to.Y)/2 + nx*bend
		sb.WriteString(fmt.Sprintf("<path d=\"M%.1f,%.1f Q%.1f,%.1f %.1f,%.1f\" class=\"%s\"/>\n",
			sx, sy, cx, cy, ex, ey, class))
		writeLabel(sb, 0.25*sx+0.5*cx+0.25*ex-ny*8, 0.25*sy+0.5*cy+0.25*ey+nx*8, label)
		return
	}

	sb.WriteString(fmt.Sprintf("<line x1=\"%.1f\" y1=\"%.1f\" x2=\"%.1f\" y2=\"%.1f\" class=\"%s\"/>\n",
		sx, sy, ex, ey, class))
	writeLabel(sb, (sx+ex)/2-ny*12, (sy+ey)/2+nx*12-4, label)
}

// drawCurvedTransition draws one direction of a pair of opposite edges,
// bent to its left so the two do not overlap.
func drawCurvedTransition(sb *strings.Builder, from, to Point, r float64, label, class string) {
	dx, dy := to.X-from.X, to.Y-from.Y
	dist := math.Hypot(dx, dy)
	if dist < 1 {
		return
	}
	nx, ny := dx/dist, dy/dist
	px, py := ny*20, -nx*20

	sx, sy := from.X+nx*r+px/4, from.Y+ny*r+py/4
	ex, ey := to.X-nx*(r+2)+px/4, to.Y-ny*(r+2)+py/4
	cx, cy := (from.X+to.X)/2+px, (from.Y+to.Y)/2+py

	sb.WriteString(fmt.Sprintf("<path d=\"M%.1f,%.1f Q%.1f,%.1f %.1f,%.1f\" class=\"%s\"/>\n",
		sx, sy, cx, cy, ex, ey, class))
	writeLabel(sb, cx+px/2, cy+py/2, label)
}

// drawSelfLoop draws a loop above the state.
func drawSelfLoop(sb *strings.Builder, x, y, r float64, label, class string) {
	loop := r * 0.6
	sx, sy := x-r*0.7, y-r*0.7
	ex, ey := x+r*0.7, y-r*0.7
	sb.WriteString(fmt.Sprintf("<path d=\"M%.1f,%.1f C%.1f,%.1f %.1f,%.1f %.1f,%.1f\" class=\"%s\"/>\n",
		sx, sy, x-loop*1.5, y-r-loop*2, x+loop*1.5, y-r-loop*2, ex, ey, class))
	writeLabel(sb, x, y-r-loop*2-8, label)
}

func writeLabel(sb *strings.Builder, x, y float64, label string) {
	sb.WriteString(fmt.Sprintf("<text x=\"%.1f\" y=\"%.1f\" class=\"trans-label\">%s</text>\n",
		x, y, html.EscapeString(label)))
}
