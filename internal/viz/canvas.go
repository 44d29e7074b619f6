package viz

import "strings"

// Braille patterns: 2x4 dots per character cell, Unicode offset 0x2800.
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a braille pixel canvas with a per-cell color level. Level 0
// means uncolored; positive levels index into a colormap.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Levels        [][]uint8
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Levels: make([][]uint8, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Levels[i] = make([]uint8, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
		}
	}
	return c
}

// Set lights the sub-pixel at (x, y). Sub-pixel space is
// (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int) {
	c.SetLevel(x, y, 0)
}

// SetLevel lights a sub-pixel and tags its cell with a color level.
// A cell keeps the highest level written to it.
func (c *Canvas) SetLevel(x, y int, level uint8) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	if level > c.Levels[row][col] {
		c.Levels[row][col] = level
	}
}

// Clear resets all pixels and color levels.
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
			c.Levels[i][j] = 0
		}
	}
}

// DrawLine draws a line in sub-pixel space using Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, level uint8) {
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
		c.SetLevel(x0, y0, level)
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

// String renders the canvas without color.
func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Colored renders the canvas with each cell styled by its color level.
func (c *Canvas) Colored(cm *Colormap) string {
	var b strings.Builder
	for i, row := range c.Grid {
		for j, r := range row {
			if r == 0x2800 || c.Levels[i][j] == 0 {
				b.WriteRune(r)
				continue
			}
			b.WriteString(cm.Style(c.Levels[i][j]).Render(string(r)))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
