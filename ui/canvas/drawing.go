package canvas

import (
	"image"
	"image/color"
	"math"

	"screen-slicer/internal/app"
	"screen-slicer/pkg/colorutil"
	"screen-slicer/pkg/geometry"
)

// screenFillOpacity tints screens before an image is loaded.
const screenFillOpacity = 0.7

// digitPatterns contains 3x5 pixel patterns for digits 0-9.
// Each digit is represented as 5 rows of 3 bits.
var digitPatterns = [10][5]uint8{
	{0b111, 0b101, 0b101, 0b101, 0b111}, // 0
	{0b010, 0b110, 0b010, 0b010, 0b111}, // 1
	{0b111, 0b001, 0b111, 0b100, 0b111}, // 2
	{0b111, 0b001, 0b111, 0b001, 0b111}, // 3
	{0b101, 0b101, 0b111, 0b001, 0b001}, // 4
	{0b111, 0b100, 0b111, 0b001, 0b111}, // 5
	{0b111, 0b100, 0b111, 0b101, 0b111}, // 6
	{0b111, 0b001, 0b001, 0b001, 0b001}, // 7
	{0b111, 0b101, 0b111, 0b101, 0b111}, // 8
	{0b111, 0b101, 0b111, 0b001, 0b111}, // 9
}

// letterPatterns covers the letters used in screen labels.
var letterPatterns = map[rune][5]uint8{
	'C': {0b011, 0b100, 0b100, 0b100, 0b011},
	'E': {0b111, 0b100, 0b110, 0b100, 0b111},
	'N': {0b101, 0b111, 0b111, 0b101, 0b101},
	'R': {0b110, 0b101, 0b110, 0b101, 0b101},
	'S': {0b011, 0b100, 0b010, 0b001, 0b110},
	' ': {0b000, 0b000, 0b000, 0b000, 0b000},
}

// getCharPattern returns the 3x5 pixel pattern for a character.
// Returns a zero pattern for unsupported characters.
func getCharPattern(ch rune) [5]uint8 {
	if ch >= '0' && ch <= '9' {
		return digitPatterns[ch-'0']
	}
	if ch >= 'a' && ch <= 'z' {
		ch = ch - 'a' + 'A'
	}
	if pattern, ok := letterPatterns[ch]; ok {
		return pattern
	}
	return [5]uint8{}
}

// renderFrame draws one preview frame: the composited image, then a frame
// and a label for every screen. pixelScale converts viewport units to
// output pixels. active is the index of the screen being dragged, or -1.
func renderFrame(sn app.Snapshot, w, h int, pixelScale float64, active int) *image.RGBA {
	if pixelScale <= 0 {
		pixelScale = 1
	}
	toPixels := geometry.Scale(pixelScale, pixelScale)

	scene := sn.Scene()
	scene.ImageToViewport = toPixels.Compose(scene.ImageToViewport)
	for i := range scene.Screens {
		scene.Screens[i] = toPixels.ApplyRect(scene.Screens[i])
	}
	output := scene.Render(w, h)

	thickness := int(math.Max(1, math.Round(2*pixelScale)))
	labelScale := int(math.Max(1, math.Min(6, math.Round(3*pixelScale*sn.Pipeline.View.Zoom))))

	for i, r := range scene.Screens {
		rect := r.ImageRect()
		if !sn.HasImage() {
			blendRect(output, rect, colorutil.ScreenFill, screenFillOpacity)
		}
		col := colorutil.ScreenOutline
		if sn.HasImage() && i < len(sn.Covered) {
			col = colorutil.Outline(sn.Covered[i])
		}
		if i == active {
			col = colorutil.Grip
		}
		drawRectOutline(output, rect, col, thickness)

		label := sn.Arrangement[i].Label()
		c := r.Center()
		drawLabel(output, label, int(c.X), int(c.Y), colorutil.Black, labelScale)
	}
	return output
}

// blendRect tints r with col at opacity, clipped to the output. Overlapping
// screens show through each other.
func blendRect(output *image.RGBA, r image.Rectangle, col color.RGBA, opacity float64) {
	r = r.Intersect(output.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			output.SetRGBA(x, y, colorutil.Blend(output.RGBAAt(x, y), col, opacity))
		}
	}
}

// drawRectOutline draws the border of r, thickness pixels wide, inside r.
func drawRectOutline(output *image.RGBA, r image.Rectangle, col color.RGBA, thickness int) {
	if thickness < 1 {
		thickness = 1
	}
	x1, y1, x2, y2 := r.Min.X, r.Min.Y, r.Max.X-1, r.Max.Y-1
	for t := 0; t < thickness; t++ {
		drawLine(output, x1, y1+t, x2, y1+t, col)
		drawLine(output, x1, y2-t, x2, y2-t, col)
		drawLine(output, x1+t, y1, x1+t, y2, col)
		drawLine(output, x2-t, y1, x2-t, y2, col)
	}
}

// drawLine draws a line between two points using Bresenham's algorithm.
func drawLine(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA) {
	bounds := output.Bounds()

	dx := x2 - x1
	dy := y2 - y1
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}

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
		if (image.Point{X: x1, Y: y1}).In(bounds) {
			output.SetRGBA(x1, y1, col)
		}

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

// labelWidth returns the pixel width of label drawn at scale.
func labelWidth(label string, scale int) int {
	n := len([]rune(label))
	if n == 0 {
		return 0
	}
	return n*3*scale + (n-1)*scale
}

// drawLabel draws label centered on (centerX, centerY).
func drawLabel(output *image.RGBA, label string, centerX, centerY int, col color.RGBA, scale int) {
	if scale < 1 {
		scale = 1
	}
	charWidth := 3 * scale
	charHeight := 5 * scale
	spacing := scale

	startX := centerX - labelWidth(label, scale)/2
	startY := centerY - charHeight/2

	bounds := output.Bounds()

	for i, ch := range []rune(label) {
		pattern := getCharPattern(ch)
		charX := startX + i*(charWidth+spacing)

		for row := 0; row < 5; row++ {
			for c := 0; c < 3; c++ {
				if (pattern[row] & (1 << (2 - c))) == 0 {
					continue
				}
				for dy := 0; dy < scale; dy++ {
					for dx := 0; dx < scale; dx++ {
						px := charX + c*scale + dx
						py := startY + row*scale + dy
						if px >= bounds.Min.X && px < bounds.Max.X &&
							py >= bounds.Min.Y && py < bounds.Max.Y {
							output.SetRGBA(px, py, col)
						}
					}
				}
			}
		}
	}
}
