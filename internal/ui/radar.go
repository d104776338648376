package ui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/DaanHessen/humanos-tui/internal/domain"
	"github.com/DaanHessen/humanos-tui/internal/text"
)

const (
	runeEmpty  = ' '
	runeRing   = '·'
	runeEdge   = '•'
	runeVertex = '◆'
)

// axis directions clockwise from the top, in text.Axes order
var radarDirs = [][2]float64{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

type radarCell struct {
	r      rune
	series int // -1 for grid
}

// radarGrid plots each series (values in text.Axes order, 0..100) onto a
// w x h character grid. Later series draw over earlier ones.
func radarGrid(series [][]float64, w, h int) [][]radarCell {
	grid := make([][]radarCell, h)
	for y := range grid {
		grid[y] = make([]radarCell, w)
		for x := range grid[y] {
			grid[y][x] = radarCell{r: runeEmpty, series: -1}
		}
	}
	cx, cy := float64(w-1)/2, float64(h-1)/2
	point := func(axis int, v float64) (float64, float64) {
		v = math.Max(0, math.Min(100, v)) / 100
		d := radarDirs[axis%len(radarDirs)]
		return cx + d[0]*cx*v, cy + d[1]*cy*v
	}
	set := func(x, y float64, c radarCell) {
		ix, iy := int(math.Round(x)), int(math.Round(y))
		if iy < 0 || iy >= h || ix < 0 || ix >= w {
			return
		}
		if c.series < 0 && grid[iy][ix].series >= 0 {
			return
		}
		if grid[iy][ix].r == runeVertex && c.r != runeVertex && grid[iy][ix].series == c.series {
			return
		}
		grid[iy][ix] = c
	}
	line := func(x0, y0, x1, y1 float64, c radarCell) {
		steps := int(math.Max(math.Abs(x1-x0), math.Abs(y1-y0))*2) + 1
		for i := 0; i <= steps; i++ {
			t := float64(i) / float64(steps)
			set(x0+(x1-x0)*t, y0+(y1-y0)*t, c)
		}
	}
	polygon := func(values []float64, c radarCell) {
		n := len(radarDirs)
		for i := 0; i < n; i++ {
			x0, y0 := point(i, at(values, i))
			x1, y1 := point(i+1, at(values, (i+1)%n))
			line(x0, y0, x1, y1, c)
		}
	}

	ring := radarCell{r: runeRing, series: -1}
	polygon([]float64{100, 100, 100, 100}, ring)
	polygon([]float64{50, 50, 50, 50}, ring)
	for i := range radarDirs {
		x, y := point(i, 100)
		line(cx, cy, x, y, ring)
	}

	for s, values := range series {
		polygon(values, radarCell{r: runeEdge, series: s})
		for i := range radarDirs {
			x, y := point(i, at(values, i))
			set(x, y, radarCell{r: runeVertex, series: s})
		}
	}
	return grid
}

func at(values []float64, i int) float64 {
	if i < len(values) {
		return values[i]
	}
	return 0
}

// radarSeries extracts the axis values of each outcome.
func radarSeries(outcomes []domain.Outcome) [][]float64 {
	out := make([][]float64, 0, len(outcomes))
	for _, o := range outcomes {
		vals := make([]float64, len(text.Axes))
		for i, ax := range text.Axes {
			vals[i] = ax.Value(o)
		}
		out = append(out, vals)
	}
	return out
}

// renderRadar draws the labelled chart and its legend.
func renderRadar(outcomes []domain.Outcome, w, h int, st styles) string {
	grid := radarGrid(radarSeries(outcomes), w, h)
	left, right := text.Axes[3].Label, text.Axes[1].Label
	pad := strings.Repeat(" ", len(left)+1)

	var b strings.Builder
	b.WriteString(pad + center(text.Axes[0].Label, w) + "\n")
	for y, row := range grid {
		if y == h/2 {
			b.WriteString(st.muted.Render(left) + " ")
		} else {
			b.WriteString(pad)
		}
		for _, c := range row {
			s := string(c.r)
			switch {
			case c.series >= 0 && c.series < len(st.path):
				s = st.path[c.series].Render(s)
			case c.r != runeEmpty:
				s = st.muted.Render(s)
			}
			b.WriteString(s)
		}
		if y == h/2 {
			b.WriteString(" " + st.muted.Render(right))
		}
		b.WriteString("\n")
	}
	b.WriteString(pad + center(text.Axes[2].Label, w) + "\n\n")
	legend := make([]string, 0, len(outcomes))
	for i := range outcomes {
		if i < len(st.path) && i < len(text.PathNames) {
			legend = append(legend, st.path[i].Render(string(runeVertex)+" "+text.PathNames[i]))
		}
	}
	b.WriteString(pad + strings.Join(legend, "   "))
	return b.String()
}

func center(s string, w int) string {
	n := lipgloss.Width(s)
	if n >= w {
		return s
	}
	left := (w - n) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", w-n-left)
}
