// Package render draws a FinalView onto a terminal using a half-block
// pixel canvas, adapted from a browser canvas renderer's drawing
// primitives into an ANSI terminal's character grid.
package render

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
)

// Point is a 2D coordinate in canvas pixel space.
type Point struct {
	X, Y float64
}

// Block characters used to double vertical resolution: each terminal row
// holds two logical pixel rows via the upper/lower half-block glyphs.
const (
	blockFull      = '█'
	blockUpperHalf = '▀'
	blockLowerHalf = '▄'
)

// maxChunkSize bounds a single write to the underlying writer, keeping
// frame output flowing smoothly over a slow connection.
const maxChunkSize = 1400

// Canvas is a drawing buffer with 2x vertical resolution (half-block
// characters), scaled from a fixed logical coordinate space (the
// interpolator's camera-relative world units) to the terminal's actual
// character grid.
type Canvas struct {
	termWidth, termHeight int
	subPixelHeight        int
	pixels                []bool

	logicalWidth, logicalHeight float64
	scaleX, scaleY              float64

	renderBuf strings.Builder
	out       *bufio.Writer
}

// NewCanvas creates a canvas for termWidth x termHeight terminal cells,
// mapping logicalWidth x logicalHeight world units onto it.
func NewCanvas(w io.Writer, termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	subPixelHeight := termHeight * 2
	return &Canvas{
		termWidth:      termWidth,
		termHeight:     termHeight,
		subPixelHeight: subPixelHeight,
		pixels:         make([]bool, subPixelHeight*termWidth),
		logicalWidth:   logicalWidth,
		logicalHeight:  logicalHeight,
		scaleX:         float64(termWidth) / logicalWidth,
		scaleY:         float64(subPixelHeight) / logicalHeight,
		out:            bufio.NewWriterSize(w, 8192),
	}
}

// Resize reallocates the pixel buffer for a new terminal size, keeping the
// same logical coordinate space.
func (c *Canvas) Resize(termWidth, termHeight int) {
	subPixelHeight := termHeight * 2
	if termWidth != c.termWidth || termHeight != c.termHeight {
		c.pixels = make([]bool, subPixelHeight*termWidth)
		c.termWidth, c.termHeight, c.subPixelHeight = termWidth, termHeight, subPixelHeight
	}
	c.scaleX = float64(termWidth) / c.logicalWidth
	c.scaleY = float64(subPixelHeight) / c.logicalHeight
}

// Clear resets every pixel to unset.
func (c *Canvas) Clear() {
	for i := range c.pixels {
		c.pixels[i] = false
	}
}

func (c *Canvas) setPixel(x, y int) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = true
	}
}

func (c *Canvas) scale(p Point) Point {
	return Point{X: p.X * c.scaleX, Y: p.Y * c.scaleY}
}

// DrawLine draws a line between two logical-space points.
func (c *Canvas) DrawLine(p1, p2 Point) {
	a, b := c.scale(p1), c.scale(p2)
	x1, y1 := int(math.Round(a.X)), int(math.Round(a.Y))
	x2, y2 := int(math.Round(b.X)), int(math.Round(b.Y))

	dx, dy := absInt(x2-x1), absInt(y2-y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy
	for {
		c.setPixel(x1, y1)
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

// FillDisk fills a filled circle of the given logical-space radius
// centered at center, via the same scanline polygon fill a browser canvas
// would use for a circle path, approximated as a 24-gon.
func (c *Canvas) FillDisk(center Point, radius float64) {
	const sides = 24
	points := make([]Point, sides)
	for i := range points {
		theta := 2 * math.Pi * float64(i) / sides
		points[i] = Point{X: center.X + radius*math.Cos(theta), Y: center.Y + radius*math.Sin(theta)}
	}
	c.fillPolygon(points)
}

// DiskOutline draws the unfilled outline of a disk, used for the player's
// lighter outline ring.
func (c *Canvas) DiskOutline(center Point, radius float64) {
	const sides = 24
	prev := Point{X: center.X + radius, Y: center.Y}
	for i := 1; i <= sides; i++ {
		theta := 2 * math.Pi * float64(i) / sides
		next := Point{X: center.X + radius*math.Cos(theta), Y: center.Y + radius*math.Sin(theta)}
		c.DrawLine(prev, next)
		prev = next
	}
}

func (c *Canvas) fillPolygon(points []Point) {
	scaled := make([]Point, len(points))
	for i, p := range points {
		scaled[i] = c.scale(p)
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

	for y := int(math.Floor(minY)); y <= int(math.Ceil(maxY)); y++ {
		scanY := float64(y) + 0.5
		var intersections []float64
		n := len(scaled)
		for i := 0; i < n; i++ {
			p1, p2 := scaled[i], scaled[(i+1)%n]
			if (p1.Y <= scanY && p2.Y > scanY) || (p2.Y <= scanY && p1.Y > scanY) {
				t := (scanY - p1.Y) / (p2.Y - p1.Y)
				intersections = append(intersections, p1.X+t*(p2.X-p1.X))
			}
		}
		sort.Float64s(intersections)
		for i := 0; i+1 < len(intersections); i += 2 {
			xStart, xEnd := int(math.Ceil(intersections[i])), int(math.Floor(intersections[i+1]))
			for x := xStart; x <= xEnd; x++ {
				c.setPixel(x, y)
			}
		}
	}
}

// Rect draws an unfilled rectangle outline between logical-space corners.
func (c *Canvas) Rect(topLeft, bottomRight Point) {
	tr := Point{X: bottomRight.X, Y: topLeft.Y}
	bl := Point{X: topLeft.X, Y: bottomRight.Y}
	c.DrawLine(topLeft, tr)
	c.DrawLine(tr, bottomRight)
	c.DrawLine(bottomRight, bl)
	c.DrawLine(bl, topLeft)
}

// Dot fills a single-pixel-radius mark at a logical-space point, used for
// the minimap's self and celestial markers.
func (c *Canvas) Dot(p Point) {
	c.FillDisk(p, 1/c.scaleX)
}

// Text draws a string at a 1-based terminal (col, row) position, outside
// the pixel buffer (terminal text, not half-block pixels).
func (c *Canvas) Text(col, row int, s string) {
	fmt.Fprintf(&c.renderBuf, "\033[%d;%dH%s", row, col, s)
}

// TerminalPos converts a logical-space point to a 1-based terminal
// (col, row), for centering text over a drawn shape.
func (c *Canvas) TerminalPos(p Point) (col, row int) {
	s := c.scale(p)
	return int(math.Round(s.X)) + 1, int(math.Round(s.Y))/2 + 1
}

// Flush renders the pixel buffer plus any queued text to the underlying
// writer and clears the text buffer.
func (c *Canvas) Flush() error {
	for row := 0; row < c.termHeight; row++ {
		topOffset := row * 2 * c.termWidth
		bottomOffset := (row*2 + 1) * c.termWidth
		for col := 0; col < c.termWidth; col++ {
			top := c.pixels[topOffset+col]
			bottom := row*2+1 < c.subPixelHeight && c.pixels[bottomOffset+col]

			var ch rune
			switch {
			case top && bottom:
				ch = blockFull
			case top:
				ch = blockUpperHalf
			case bottom:
				ch = blockLowerHalf
			default:
				continue
			}
			fmt.Fprintf(&c.renderBuf, "\033[%d;%dH%c", row+1, col+1, ch)
		}
	}

	data := c.renderBuf.String()
	c.renderBuf.Reset()
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		if _, err := c.out.WriteString(chunk); err != nil {
			return err
		}
		data = data[len(chunk):]
	}
	return c.out.Flush()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ClearScreen clears the terminal and homes the cursor.
func ClearScreen(w io.Writer) { fmt.Fprint(w, "\033[H\033[2J") }

// HideCursor hides the terminal cursor.
func HideCursor(w io.Writer) { fmt.Fprint(w, "\033[?25l") }

// ShowCursor shows the terminal cursor.
func ShowCursor(w io.Writer) { fmt.Fprint(w, "\033[?25h") }
