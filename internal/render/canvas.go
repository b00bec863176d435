// Package render draws the tower as a fixed dimetric projection of 3D boxes
// onto a half-block ANSI canvas with 2x vertical resolution.
package render

import (
	"math"
	"sort"
)

// Point is a 2D coordinate in logical canvas space.
type Point struct {
	X, Y float64
}

// Shade levels for canvas pixels, from empty to solid.
var shadeRunes = []rune{' ', '░', '▒', '▓', '█'}

// MaxShade is the highest pixel intensity.
const MaxShade = uint8(4)

// Canvas is a drawing buffer with 2x vertical resolution. Each sub-pixel
// holds a shade level; Flush diffs against the previously written frame and
// only emits changed cells.
type Canvas struct {
	termWidth      int
	termHeight     int
	subPixelHeight int // termHeight * 2
	pixels         []uint8
	prevCells      []rune // last flushed character per terminal cell
	forceRedraw    bool

	// Scaling from logical to pixel coordinates.
	logicalWidth  float64
	logicalHeight float64 // in sub-pixels
	scaleX        float64
	scaleY        float64

	// 0-based terminal offsets for centering the render area.
	offsetCol int
	offsetRow int

	// Reusable buffers to keep the per-frame path allocation-free.
	scaledBuf       []Point
	intersectionBuf []float64
	pointBuf        []Point
}

// NewCanvas creates a canvas that scales from logical coordinates to
// terminal pixels. logicalWidth/Height define the coordinate space used by
// the scene; termWidth/Height are actual terminal dimensions.
func NewCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
	}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the canvas for new terminal dimensions while keeping the
// logical size. Forces a full redraw on any actual change.
func (c *Canvas) Resize(termWidth, termHeight int) {
	subPixelHeight := termHeight * 2

	if termWidth != c.termWidth || termHeight != c.termHeight {
		c.pixels = make([]uint8, subPixelHeight*termWidth)
		c.prevCells = make([]rune, termHeight*termWidth)
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = subPixelHeight
		c.forceRedraw = true
	}

	c.scaleX = float64(termWidth) / c.logicalWidth
	c.scaleY = float64(subPixelHeight) / c.logicalHeight
}

// SetOffset sets the column and row offset for centering the canvas.
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.offsetCol = col
		c.offsetRow = row
		c.forceRedraw = true
	}
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int { return c.offsetCol }

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int { return c.offsetRow }

// TerminalWidth returns the terminal column count.
func (c *Canvas) TerminalWidth() int { return c.termWidth }

// TerminalHeight returns the terminal row count.
func (c *Canvas) TerminalHeight() int { return c.termHeight }

// LogicalWidth returns the logical width.
func (c *Canvas) LogicalWidth() float64 { return c.logicalWidth }

// LogicalHeight returns the logical height in sub-pixels.
func (c *Canvas) LogicalHeight() float64 { return c.logicalHeight }

// ForceRedraw makes the next Flush rewrite every cell instead of diffing,
// used after the terminal has been cleared externally.
func (c *Canvas) ForceRedraw() {
	c.forceRedraw = true
}

// Clear resets all pixels.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// setPixel sets a sub-pixel at terminal pixel coordinates.
func (c *Canvas) setPixel(x, y int, shade uint8) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = shade
	}
}

// SetFloat sets a sub-pixel at logical coordinates.
func (c *Canvas) SetFloat(x, y float64, shade uint8) {
	px := int(math.Round(x * c.scaleX))
	py := int(math.Round(y * c.scaleY))
	c.setPixel(px, py, shade)
}

// DrawLine draws a line in logical space using Bresenham's algorithm.
func (c *Canvas) DrawLine(p1, p2 Point, shade uint8) {
	x1 := int(math.Round(p1.X * c.scaleX))
	y1 := int(math.Round(p1.Y * c.scaleY))
	x2 := int(math.Round(p2.X * c.scaleX))
	y2 := int(math.Round(p2.Y * c.scaleY))

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		c.setPixel(x1, y1, shade)

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// FillPolygon fills a polygon with the given shade using a scanline fill,
// then traces the outline so thin shapes stay visible.
func (c *Canvas) FillPolygon(points []Point, shade uint8) {
	if len(points) < 3 {
		return
	}

	c.fillScanlines(points, shade)

	n := len(points)
	for i := 0; i < n; i++ {
		c.DrawLine(points[i], points[(i+1)%n], shade)
	}
}

// fillScanlines fills the polygon interior in pixel space.
func (c *Canvas) fillScanlines(points []Point, shade uint8) {
	if cap(c.scaledBuf) < len(points) {
		c.scaledBuf = make([]Point, len(points))
	}
	scaled := c.scaledBuf[:len(points)]

	for i, p := range points {
		scaled[i] = Point{X: p.X * c.scaleX, Y: p.Y * c.scaleY}
	}

	minY, maxY := scaled[0].Y, scaled[0].Y
	for _, p := range scaled {
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	yStart := int(math.Floor(minY))
	yEnd := int(math.Ceil(maxY))

	for y := yStart; y <= yEnd; y++ {
		scanY := float64(y) + 0.5

		intersections := c.intersectionBuf[:0]

		n := len(scaled)
		for i := 0; i < n; i++ {
			p1 := scaled[i]
			p2 := scaled[(i+1)%n]

			if (p1.Y <= scanY && p2.Y > scanY) || (p2.Y <= scanY && p1.Y > scanY) {
				t := (scanY - p1.Y) / (p2.Y - p1.Y)
				intersections = append(intersections, p1.X+t*(p2.X-p1.X))
			}
		}
		c.intersectionBuf = intersections

		sort.Float64s(intersections)

		for i := 0; i+1 < len(intersections); i += 2 {
			xStart := int(math.Ceil(intersections[i]))
			xEnd := int(math.Floor(intersections[i+1]))
			for x := xStart; x <= xEnd; x++ {
				c.setPixel(x, y, shade)
			}
		}
	}
}

// cellRune merges the two sub-pixels of a terminal cell into one character.
// Differing nonzero shades collapse to the darker one; a single lit
// sub-pixel becomes a half block.
func cellRune(top, bottom uint8) rune {
	switch {
	case top == 0 && bottom == 0:
		return ' '
	case top == bottom:
		return shadeRunes[top]
	case top == 0:
		return '▄'
	case bottom == 0:
		return '▀'
	case top > bottom:
		return shadeRunes[top]
	default:
		return shadeRunes[bottom]
	}
}

// Flush writes cells that changed since the last flush to the writer.
func (c *Canvas) Flush(w *ChunkWriter) {
	for row := 0; row < c.termHeight; row++ {
		topOffset := row * 2 * c.termWidth
		bottomOffset := topOffset + c.termWidth
		cellOffset := row * c.termWidth

		for col := 0; col < c.termWidth; col++ {
			top := c.pixels[topOffset+col]
			var bottom uint8
			if row*2+1 < c.subPixelHeight {
				bottom = c.pixels[bottomOffset+col]
			}

			ch := cellRune(top, bottom)
			if !c.forceRedraw && c.prevCells[cellOffset+col] == ch {
				continue
			}
			c.prevCells[cellOffset+col] = ch

			w.MoveCursor(col+1, row+1)
			w.WriteRune(ch)
		}
	}
	c.forceRedraw = false
}

// BorrowPoints returns a reusable slice of Points with the given length,
// valid until the next call. Avoids per-frame polygon allocations.
func (c *Canvas) BorrowPoints(n int) []Point {
	if cap(c.pointBuf) < n {
		c.pointBuf = make([]Point, n)
	}
	return c.pointBuf[:n]
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
