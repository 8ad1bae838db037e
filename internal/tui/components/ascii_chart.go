package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/cppbridge/internal/tui/tuistyles"
)

// DataSeries is one line on a chart. Points are evenly spaced on the x axis.
type DataSeries struct {
	Name   string
	Points []float64
	Color  lipgloss.Color
}

// ASCIIChart draws one or more series on a character grid
type ASCIIChart struct {
	Title      string
	Series     []*DataSeries
	StartX     int // x value of the first point, e.g. the first age
	Width      int
	Height     int
	MinY, MaxY float64 // Fixed y range; equal values auto-scale
	MarkerX    int     // Vertical marker at this x value, 0 for none
	MarkerName string
	YFormat    func(float64) string
	ShowLegend bool
}

// NewASCIIChart creates an auto-scaling chart
func NewASCIIChart(title string) *ASCIIChart {
	return &ASCIIChart{
		Title:      title,
		Width:      60,
		Height:     12,
		ShowLegend: true,
		YFormat:    func(v float64) string { return fmt.Sprintf("%.0f", v) },
	}
}

// NewSurvivalChart plots survival probabilities from startAge on a fixed
// 0-100% axis
func NewSurvivalChart(startAge int, curve []float64) *ASCIIChart {
	c := NewASCIIChart("Survival probability by age")
	c.StartX = startAge
	c.MinY, c.MaxY = 0, 1
	c.YFormat = func(v float64) string { return fmt.Sprintf("%.0f%%", v*100) }
	c.ShowLegend = false
	return c.AddSeries("survival", curve, tuistyles.ColorChartEarly)
}

// AddSeries adds a data series to the chart
func (c *ASCIIChart) AddSeries(name string, points []float64, color lipgloss.Color) *ASCIIChart {
	c.Series = append(c.Series, &DataSeries{Name: name, Points: points, Color: color})
	return c
}

// WithSize sets the chart dimensions
func (c *ASCIIChart) WithSize(width, height int) *ASCIIChart {
	c.Width = width
	c.Height = height
	return c
}

// WithMarker draws a vertical line at x
func (c *ASCIIChart) WithMarker(x int, name string) *ASCIIChart {
	c.MarkerX = x
	c.MarkerName = name
	return c
}

// Render returns the chart or a placeholder when there is nothing to plot
func (c *ASCIIChart) Render() string {
	if c.pointCount() < 2 {
		return tuistyles.InfoStyle.Render("No data to display")
	}

	var b strings.Builder
	if c.Title != "" {
		b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary).Render(c.Title))
		b.WriteString("\n")
	}
	lo, hi := c.yRange()
	b.WriteString(c.renderGrid(lo, hi))
	if c.ShowLegend && len(c.Series) > 1 {
		b.WriteString("\n")
		b.WriteString(c.renderLegend())
	}
	return b.String()
}

func (c *ASCIIChart) pointCount() int {
	n := 0
	for _, s := range c.Series {
		n = max(n, len(s.Points))
	}
	return n
}

func (c *ASCIIChart) yRange() (float64, float64) {
	if c.MaxY > c.MinY {
		return c.MinY, c.MaxY
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range c.Series {
		for _, v := range s.Points {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if hi == lo {
		hi = lo + 1
	}
	pad := (hi - lo) * 0.1
	return lo - pad, hi + pad
}

// column maps point index i of n onto the plot width
func column(i, n, width int) int {
	if n < 2 {
		return 0
	}
	return int(math.Round(float64(i) / float64(n-1) * float64(width-1)))
}

func (c *ASCIIChart) row(v, lo, hi float64) int {
	return c.Height - 1 - int(math.Round((v-lo)/(hi-lo)*float64(c.Height-1)))
}

func (c *ASCIIChart) renderGrid(lo, hi float64) string {
	const axisWidth = 6
	plotWidth := max(10, c.Width-axisWidth-3)
	n := c.pointCount()

	grid := make([][]rune, c.Height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", plotWidth))
	}

	if c.MarkerX > c.StartX && c.MarkerX < c.StartX+n {
		x := column(c.MarkerX-c.StartX, n, plotWidth)
		for y := range grid {
			grid[y][x] = '┊'
		}
	}

	for idx, s := range c.Series {
		ch := seriesChar(idx)
		for i, v := range s.Points {
			x, y := column(i, n, plotWidth), c.row(v, lo, hi)
			if i > 0 {
				drawLine(grid, column(i-1, n, plotWidth), c.row(s.Points[i-1], lo, hi), x, y)
			}
			plot(grid, x, y, ch)
		}
	}

	axisStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Width(axisWidth).Align(lipgloss.Right)
	var b strings.Builder
	for i, r := range grid {
		label := ""
		if i == 0 || i == c.Height-1 || i == c.Height/2 {
			label = c.YFormat(hi - float64(i)/float64(c.Height-1)*(hi-lo))
		}
		b.WriteString(axisStyle.Render(label))
		b.WriteString(" │")
		b.WriteString(string(r))
		b.WriteString("\n")
	}
	b.WriteString(strings.Repeat(" ", axisWidth))
	b.WriteString(" └")
	b.WriteString(strings.Repeat("─", plotWidth))
	b.WriteString("\n")

	first := fmt.Sprintf("%d", c.StartX)
	last := fmt.Sprintf("%d", c.StartX+n-1)
	gap := max(1, plotWidth-len(first)-len(last))
	b.WriteString(strings.Repeat(" ", axisWidth+2))
	b.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Render(first + strings.Repeat(" ", gap) + last))
	if c.MarkerName != "" && c.MarkerX > 0 {
		b.WriteString("\n")
		b.WriteString(tuistyles.SubtitleStyle.Render(fmt.Sprintf("┊ %s at %d", c.MarkerName, c.MarkerX)))
	}
	return b.String()
}

func seriesChar(index int) rune {
	chars := []rune{'●', '■', '▲', '♦'}
	return chars[index%len(chars)]
}

func plot(grid [][]rune, x, y int, ch rune) {
	if y >= 0 && y < len(grid) && x >= 0 && x < len(grid[y]) {
		grid[y][x] = ch
	}
}

// drawLine joins two points with Bresenham's algorithm, leaving plotted
// points in place
func drawLine(grid [][]rune, x0, y0, x1, y1 int) {
	dx, dy := abs(x1-x0), abs(y1-y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	e := dx - dy
	for x, y := x0, y0; ; {
		if y >= 0 && y < len(grid) && x >= 0 && x < len(grid[y]) && (grid[y][x] == ' ' || grid[y][x] == '┊') {
			grid[y][x] = '·'
		}
		if x == x1 && y == y1 {
			return
		}
		e2 := 2 * e
		if e2 > -dy {
			e -= dy
			x += sx
		}
		if e2 < dx {
			e += dx
			y += sy
		}
	}
}

func (c *ASCIIChart) renderLegend() string {
	items := make([]string, 0, len(c.Series))
	for i, s := range c.Series {
		symbol := lipgloss.NewStyle().Foreground(s.Color).Render(string(seriesChar(i)))
		items = append(items, symbol+" "+s.Name)
	}
	return tuistyles.SubtitleStyle.Render("Legend: " + strings.Join(items, " • "))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
