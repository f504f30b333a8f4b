// PNG rendering of transducer diagrams. The drawing follows the SVG
// renderer and uses the same layout.

package fstfile

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/ha1tch/fst-toolkit/pkg/fst"
)

// PNGOptions configures PNG rendering.
type PNGOptions struct {
	Width       int
	Height      int
	Padding     int
	StateRadius int
	FontSize    int
	Title       string
}

// DefaultPNGOptions returns sensible defaults for PNG rendering.
func DefaultPNGOptions() PNGOptions {
	return PNGOptions{
		Width:       800,
		Height:      600,
		Padding:     50,
		StateRadius: 30,
		FontSize:    14,
	}
}

// supersample is the factor the image is drawn at before downsampling.
const supersample = 4

var (
	colorWhite      = color.RGBA{255, 255, 255, 255}
	colorBlack      = color.RGBA{51, 51, 51, 255}    // #333
	colorGray       = color.RGBA{102, 102, 102, 255} // #666
	colorInitial    = color.RGBA{232, 245, 233, 255} // #e8f5e9
	colorInitialBdr = color.RGBA{46, 125, 50, 255}   // #2e7d32
	colorFinal      = color.RGBA{255, 243, 224, 255} // #fff3e0
	colorFinalBdr   = color.RGBA{230, 81, 0, 255}    // #e65100
	colorBoth       = color.RGBA{227, 242, 253, 255} // #e3f2fd
	colorBothBdr    = color.RGBA{21, 101, 192, 255}  // #1565c0
)

// renderContext holds the target image and scaled drawing parameters.
type renderContext struct {
	img       *image.RGBA
	scale     float64 // multiplier for line width and arrow size
	lineWidth float64
	face      font.Face
}

func newRenderContext(img *image.RGBA, fontSize, scale int) (*renderContext, error) {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    float64(fontSize * scale),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("create font face: %w", err)
	}
	return &renderContext{
		img:       img,
		scale:     float64(scale),
		lineWidth: float64(scale) * 2,
		face:      face,
	}, nil
}

func (o *PNGOptions) fill() {
	d := DefaultPNGOptions()
	if o.Width == 0 {
		o.Width = d.Width
	}
	if o.Height == 0 {
		o.Height = d.Height
	}
	if o.Padding == 0 {
		o.Padding = d.Padding
	}
	if o.StateRadius == 0 {
		o.StateRadius = d.StateRadius
	}
	if o.FontSize == 0 {
		o.FontSize = d.FontSize
	}
}

// RenderPNG renders the transducer to w as a PNG image. The diagram is
// drawn at four times the size and downsampled for smoother edges.
func RenderPNG(t *fst.Transducer, w io.Writer, opts PNGOptions) error {
	opts.fill()
	large, err := renderImage(t, opts, supersample)
	if err != nil {
		return err
	}
	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.CatmullRom.Scale(img, img.Bounds(), large, large.Bounds(), draw.Over, nil)
	return png.Encode(w, img)
}

// renderImage draws the diagram at scale times the requested size.
func renderImage(t *fst.Transducer, opts PNGOptions, scale int) (*image.RGBA, error) {
	width, height := opts.Width*scale, opts.Height*scale
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(colorWhite), image.Point{}, draw.Src)

	ctx, err := newRenderContext(img, opts.FontSize, scale)
	if err != nil {
		return nil, err
	}

	s := float64(scale)
	r := float64(opts.StateRadius) * s
	titleSpace := 0.0
	if opts.Title != "" {
		titleSpace = 35 * s
		drawTextCentered(ctx, width/2, int(25*s), opts.Title, colorBlack)
	}
	pos := canvas{
		width:   width,
		height:  height,
		padding: opts.Padding * scale,
		top:     titleSpace,
		radius:  r,
	}.place(Layout(t))

	groups := groupEdges(t)
	for _, g := range groups {
		from, to := pos[g.from], pos[g.to]
		label := strings.Join(g.labels, ", ")
		edge := colorBlack
		if allEpsilon(g.labels) {
			edge = colorGray
		}
		switch {
		case g.from == g.to:
			drawSelfLoopPNG(ctx, from.X, from.Y, r, label, edge)
		case hasReverse(groups, g.from, g.to):
			drawCurvedTransitionPNG(ctx, from, to, r, label, edge)
		default:
			drawTransitionPNG(ctx, from, to, r, label, edge)
		}
	}

	for _, q := range t.InitialStates() {
		p := pos[q]
		drawArrowLine(ctx, p.X-r-30*s, p.Y, p.X-r-2*s, p.Y, colorBlack)
	}

	for q, p := range pos {
		fill, border := stateColors(t, q)
		drawEllipse(ctx, p.X, p.Y, r, r, fill, border)
		if t.IsFinal(q) {
			drawEllipse(ctx, p.X, p.Y, r-4*s, r-4*s, color.Transparent, border)
		}
		drawTextCentered(ctx, int(p.X), int(p.Y+4*s), strconv.Itoa(q), colorBlack)
	}
	return img, nil
}

func stateColors(t *fst.Transducer, q int) (fill, border color.Color) {
	switch initial, final := t.IsInitial(q), t.IsFinal(q); {
	case initial && final:
		return colorBoth, colorBothBdr
	case initial:
		return colorInitial, colorInitialBdr
	case final:
		return colorFinal, colorFinalBdr
	}
	return colorWhite, colorBlack
}

// drawEllipse fills an ellipse unless fill is transparent, then strokes it.
func drawEllipse(ctx *renderContext, cx, cy, rx, ry float64, fill, stroke color.Color) {
	if fill != color.Transparent {
		for dy := -ry; dy <= ry; dy++ {
			yn := dy / ry
			xExtent := rx * math.Sqrt(math.Max(0, 1-yn*yn))
			for dx := -xExtent; dx <= xExtent; dx++ {
				ctx.img.Set(int(cx+dx), int(cy+dy), fill)
			}
		}
	}
	half := ctx.lineWidth / 2
	for angle := 0.0; angle < 2*math.Pi; angle += 0.005 {
		c, s := math.Cos(angle), math.Sin(angle)
		for d := -half; d <= half; d += 0.5 {
			ctx.img.Set(int(cx+(rx+d)*c), int(cy+(ry+d)*s), stroke)
		}
	}
}

// drawLine draws a line of the context's width.
func drawLine(ctx *renderContext, x1, y1, x2, y2 float64, c color.Color) {
	dx, dy := x2-x1, y2-y1
	dist := math.Hypot(dx, dy)
	half := ctx.lineWidth / 2
	if dist < 1 {
		for ty := -half; ty <= half; ty++ {
			for tx := -half; tx <= half; tx++ {
				ctx.img.Set(int(x1+tx), int(y1+ty), c)
			}
		}
		return
	}
	px, py := -dy/dist, dx/dist
	steps := math.Max(math.Abs(dx), math.Abs(dy))
	for i := 0.0; i <= steps; i++ {
		t := i / steps
		x, y := x1+dx*t, y1+dy*t
		for d := -half; d <= half; d += 0.5 {
			ctx.img.Set(int(x+px*d), int(y+py*d), c)
		}
	}
}

// drawArrowHead draws a filled arrowhead at (x, y) pointing along (nx, ny).
func drawArrowHead(ctx *renderContext, x, y, nx, ny float64, c color.Color) {
	length, width := 8*ctx.scale, 4*ctx.scale
	ax1, ay1 := x-nx*length+ny*width, y-ny*length-nx*width
	ax2, ay2 := x-nx*length-ny*width, y-ny*length+nx*width
	for t := 0.0; t <= 1.0; t += 0.05 {
		drawLine(ctx, x, y, ax1+(ax2-ax1)*t, ay1+(ay2-ay1)*t, c)
	}
}

// drawArrowLine draws a line with an arrowhead at the end.
func drawArrowLine(ctx *renderContext, x1, y1, x2, y2 float64, c color.Color) {
	drawLine(ctx, x1, y1, x2, y2, c)
	dist := math.Hypot(x2-x1, y2-y1)
	if dist < 1 {
		return
	}
	drawArrowHead(ctx, x2, y2, (x2-x1)/dist, (y2-y1)/dist, c)
}

// drawQuadBezierArrow draws a quadratic Bézier curve ending in an arrowhead.
func drawQuadBezierArrow(ctx *renderContext, x1, y1, cx, cy, x2, y2 float64, c color.Color) {
	const steps = 100.0
	px, py := x1, y1
	for i := 1.0; i <= steps; i++ {
		t := i / steps
		x := (1-t)*(1-t)*x1 + 2*(1-t)*t*cx + t*t*x2
		y := (1-t)*(1-t)*y1 + 2*(1-t)*t*cy + t*t*y2
		drawLine(ctx, px, py, x, y, c)
		px, py = x, y
	}
	dist := math.Hypot(x2-cx, y2-cy)
	if dist < 1 {
		return
	}
	drawArrowHead(ctx, x2, y2, (x2-cx)/dist, (y2-cy)/dist, c)
}

// drawTextCentered draws text horizontally centred on x with its visual
// middle near y.
func drawTextCentered(ctx *renderContext, x, y int, text string, c color.Color) {
	width := font.MeasureString(ctx.face, text).Ceil()
	ascent := ctx.face.Metrics().Ascent.Ceil()
	d := &font.Drawer{
		Dst:  ctx.img,
		Src:  image.NewUniform(c),
		Face: ctx.face,
		Dot:  fixed.P(x-width/2, y+int(float64(ascent)*0.15)),
	}
	d.DrawString(text)
}

func drawTransitionPNG(ctx *renderContext, from, to Point, r float64, label string, c color.Color) {
	dx, dy := to.X-from.X, to.Y-from.Y
	dist := math.Hypot(dx, dy)
	if dist < 1 {
		return
	}
	nx, ny := dx/dist, dy/dist
	sx, sy := from.X+nx*r, from.Y+ny*r
	ex, ey := to.X-nx*(r+2*ctx.scale), to.Y-ny*(r+2*ctx.scale)

	if dx < 0 || dist > r*6 {
		bend := dist * 0.25
		if dx < 0 {
			bend = dist * 0.35
		}
		cx := (from.X+to.X)/2 - ny*bend
		cy := (from.Y+to.Y)/2 + nx*bend
		drawQuadBezierArrow(ctx, sx, sy, cx, cy, ex, ey, c)
		lx := 0.25*sx + 0.5*cx + 0.25*ex - ny*10*ctx.scale
		ly := 0.25*sy + 0.5*cy + 0.25*ey + nx*10*ctx.scale
		drawTextCentered(ctx, int(lx), int(ly), label, colorBlack)
		return
	}

	drawArrowLine(ctx, sx, sy, ex, ey, c)
	lx := (sx+ex)/2 - ny*12*ctx.scale
	ly := (sy+ey)/2 + nx*12*ctx.scale - 4*ctx.scale
	drawTextCentered(ctx, int(lx), int(ly), label, colorBlack)
}

func drawCurvedTransitionPNG(ctx *renderContext, from, to Point, r float64, label string, c color.Color) {
	dx, dy := to.X-from.X, to.Y-from.Y
	dist := math.Hypot(dx, dy)
	if dist < 1 {
		return
	}
	nx, ny := dx/dist, dy/dist
	px, py := ny*20*ctx.scale, -nx*20*ctx.scale

	sx, sy := from.X+nx*r+px/4, from.Y+ny*r+py/4
	ex, ey := to.X-nx*(r+2*ctx.scale)+px/4, to.Y-ny*(r+2*ctx.scale)+py/4
	cx, cy := (from.X+to.X)/2+px, (from.Y+to.Y)/2+py
	drawQuadBezierArrow(ctx, sx, sy, cx, cy, ex, ey, c)
	drawTextCentered(ctx, int(cx+px/2), int(cy+py/2), label, colorBlack)
}

// drawSelfLoopPNG draws a loop above the state.
func drawSelfLoopPNG(ctx *renderContext, x, y, r float64, label string, c color.Color) {
	loop := r * 0.6
	sx, sy := x-r*0.7, y-r*0.7
	ex, ey := x+r*0.7, y-r*0.7
	c1x, c1y := x-loop*1.5, y-r-loop*2
	c2x, c2y := x+loop*1.5, y-r-loop*2

	const steps = 60.0
	px, py := sx, sy
	for i := 1.0; i <= steps; i++ {
		t := i / steps
		u := 1 - t
		bx := u*u*u*sx + 3*u*u*t*c1x + 3*u*t*t*c2x + t*t*t*ex
		by := u*u*u*sy + 3*u*u*t*c1y + 3*u*t*t*c2y + t*t*t*ey
		drawLine(ctx, px, py, bx, by, c)
		px, py = bx, by
	}
	dist := math.Hypot(ex-c2x, ey-c2y)
	if dist >= 1 {
		drawArrowHead(ctx, ex, ey, (ex-c2x)/dist, (ey-c2y)/dist, c)
	}
	drawTextCentered(ctx, int(x), int(y-r-loop*2-8*ctx.scale), label, colorBlack)
}
