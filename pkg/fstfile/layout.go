package fstfile

import (
	"math"
	"sort"

	"github.com/ha1tch/fst-toolkit/pkg/fst"
)

// Point is a position in layout units: X is the layer, Y the row.
type Point struct {
	X, Y float64
}

// Layout places states in layers by their breadth-first distance from the
// initial states. States not reachable from an initial state go in a last
// layer. Within a layer states are ordered to reduce edge crossings, and
// rows are centred on 0.
func Layout(t *fst.Transducer) []Point {
	n := t.Size()
	layer := make([]int, n)
	for q := range layer {
		layer[q] = -1
	}

	var queue []int
	for _, q := range t.InitialStates() {
		layer[q] = 0
		queue = append(queue, q)
	}
	succ := successors(t)
	maxLayer := 0
	for len(queue) > 0 {
		q := queue[0]
		queue = queue[1:]
		for _, r := range succ[q] {
			if layer[r] < 0 {
				layer[r] = layer[q] + 1
				maxLayer = max(maxLayer, layer[r])
				queue = append(queue, r)
			}
		}
	}

	layers := make([][]int, maxLayer+2)
	for q := 0; q < n; q++ {
		if layer[q] < 0 {
			layer[q] = maxLayer + 1
		}
		layers[layer[q]] = append(layers[layer[q]], q)
	}
	if reordered := reduceCrossings(layers, succ); totalCrossings(reordered, succ) < totalCrossings(layers, succ) {
		layers = reordered
	}

	pos := make([]Point, n)
	for l, states := range layers {
		mid := float64(len(states)-1) / 2
		for i, q := range states {
			pos[q] = Point{X: float64(l), Y: float64(i) - mid}
		}
	}
	return pos
}

// successors lists the distinct destinations of each state in order.
func successors(t *fst.Transducer) [][]int {
	succ := make([][]int, t.Size())
	seen := make(map[[2]int]bool)
	for _, e := range t.Edges() {
		key := [2]int{e.From, e.To}
		if !seen[key] {
			seen[key] = true
			succ[e.From] = append(succ[e.From], e.To)
		}
	}
	for _, s := range succ {
		sort.Ints(s)
	}
	return succ
}

// canvas maps layout units to pixels.
type canvas struct {
	width, height int
	padding       int
	top           float64 // space reserved for the title
	radius        float64
}

// place scales the layout to fit the canvas, keeping the aspect of the
// layer grid and centring the drawing.
func (c canvas) place(layout []Point) []Point {
	if len(layout) == 0 {
		return nil
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range layout {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	// leave room for the initial arrows and self-loops
	margin := c.radius * 2
	availW := float64(c.width-2*c.padding) - 2*margin
	availH := float64(c.height-2*c.padding) - c.top - 2*margin
	spanX, spanY := maxX-minX, maxY-minY

	step := c.radius * 4
	if spanX > 0 {
		step = math.Min(step, availW/spanX)
	}
	if spanY > 0 {
		step = math.Min(step, availH/spanY)
	}
	step = math.Max(step, c.radius*2.2)

	offX := float64(c.padding) + margin + (availW-spanX*step)/2
	offY := float64(c.padding) + c.top + margin + (availH-spanY*step)/2

	out := make([]Point, len(layout))
	for q, p := range layout {
		out[q] = Point{X: offX + (p.X-minX)*step, Y: offY + (p.Y-minY)*step}
	}
	return out
}

// edgeGroup collects the labels of every transition between two states.
type edgeGroup struct {
	from, to int
	labels   []string
}

// groupEdges merges parallel transitions, ordered by endpoints.
func groupEdges(t *fst.Transducer) []edgeGroup {
	index := make(map[[2]int]int)
	var groups []edgeGroup
	for _, e := range t.Edges() {
		key := [2]int{e.From, e.To}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, edgeGroup{from: e.From, to: e.To})
		}
		groups[i].labels = append(groups[i].labels, e.Label())
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].from != groups[j].from {
			return groups[i].from < groups[j].from
		}
		return groups[i].to < groups[j].to
	})
	return groups
}

// hasReverse reports whether groups contains an edge to -> from.
func hasReverse(groups []edgeGroup, from, to int) bool {
	for _, g := range groups {
		if g.from == to && g.to == from {
			return true
		}
	}
	return false
}
