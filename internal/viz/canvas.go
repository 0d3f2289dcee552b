package viz

import (
	"math"
	"strings"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

// Canvas is a monochrome pixel grid rendered with braille runes. Each cell
// holds 2x4 sub-pixels.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// PixelSize returns the canvas size in sub-pixels.
func (c *Canvas) PixelSize() (int, int) {
	return c.Width * 2, c.Height * 4
}

// Set turns on the sub-pixel at (x, y). Out-of-range coordinates are
// ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) Get(x, y int) bool {
	if x < 0 || y < 0 {
		return false
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return false
	}
	return c.Grid[row][col]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawDot fills a square of side 2r+1 around (x, y).
func (c *Canvas) DrawDot(x, y, r int) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			c.Set(x+dx, y+dy)
		}
	}
}

// Viewport maps data coordinates onto a canvas. Y grows upward in data space
// and downward on screen.
type Viewport struct {
	XMin, XMax float64
	YMin, YMax float64
	W, H       int
}

func (c *Canvas) Viewport(xMin, xMax, yMin, yMax float64) Viewport {
	w, h := c.PixelSize()
	return Viewport{XMin: xMin, XMax: xMax, YMin: yMin, YMax: yMax, W: w, H: h}
}

func (v Viewport) Project(x, y float64) (int, int) {
	px, py := 0.0, 0.0
	if v.XMax > v.XMin {
		px = (x - v.XMin) / (v.XMax - v.XMin) * float64(v.W-1)
	}
	if v.YMax > v.YMin {
		py = (v.YMax - y) / (v.YMax - v.YMin) * float64(v.H-1)
	}
	return int(math.Round(px)), int(math.Round(py))
}

// Plot draws the polyline through (xs[i], ys[i]).
func (c *Canvas) Plot(v Viewport, xs, ys []float64) {
	n := min(len(xs), len(ys))
	if n == 0 {
		return
	}
	px, py := v.Project(xs[0], ys[0])
	c.Set(px, py)
	for i := 1; i < n; i++ {
		nx, ny := v.Project(xs[i], ys[i])
		c.DrawLine(px, py, nx, ny)
		px, py = nx, ny
	}
}

// HLine draws a dotted horizontal line at data height y if it is in view.
func (c *Canvas) HLine(v Viewport, y float64) {
	if y < v.YMin || y > v.YMax {
		return
	}
	_, py := v.Project(v.XMin, y)
	for x := 0; x < v.W; x += 4 {
		c.Set(x, py)
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
