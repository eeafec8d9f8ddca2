package draw

import (
	"image"
	"image/color"
	"math"
)

// Line draws a line between two points.
func Line(dst Image, a, b image.Point, c color.Color) {
	bresenham(dst, a.X, a.Y, b.X, b.Y, c)
}

// ThickLine draws a line between two points, widened by stroke pixels perpendicular to its
// dominant axis.
func ThickLine(dst Image, a, b image.Point, stroke int, c color.Color) {
	if stroke < 1 {
		return
	}
	var (
		dx       = abs(b.X - a.X)
		dy       = abs(b.Y - a.Y)
		from, to = -(stroke - 1) / 2, stroke / 2
	)
	for i := from; i <= to; i++ {
		if dx >= dy {
			bresenham(dst, a.X, a.Y+i, b.X, b.Y+i, c)
		} else {
			bresenham(dst, a.X+i, a.Y, b.X+i, b.Y, c)
		}
	}
}

// HorizontalLine draws a line between (x,y) and (x+w-1,y).
func HorizontalLine(dst Image, x, y, w int, c color.Color) {
	for i := 0; i < w; i++ {
		dst.Set(x+i, y, c)
	}
}

// VerticalLine draws a line between (x,y) and (x,y+h-1).
func VerticalLine(dst Image, x, y, h int, c color.Color) {
	for i := 0; i < h; i++ {
		dst.Set(x, y+i, c)
	}
}

// Rectangle draws the outline of rect.
func Rectangle(dst Image, rect image.Rectangle, c color.Color) {
	rect = rect.Canon()
	if rect.Empty() {
		return
	}
	var (
		w = rect.Dx()
		h = rect.Dy()
	)
	HorizontalLine(dst, rect.Min.X, rect.Min.Y, w, c)
	HorizontalLine(dst, rect.Min.X, rect.Max.Y-1, w, c)
	VerticalLine(dst, rect.Min.X, rect.Min.Y, h, c)
	VerticalLine(dst, rect.Max.X-1, rect.Min.Y, h, c)
}

// Box draws a filled rectangle.
func Box(dst Image, rect image.Rectangle, c color.Color) {
	rect = rect.Canon()
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		HorizontalLine(dst, rect.Min.X, y, rect.Dx(), c)
	}
}

// Bar draws the outline of rect and fills its inside, one pixel away from the border, up to the
// fraction fill of its width. Fill is clamped to [0, 1].
func Bar(dst Image, rect image.Rectangle, fill float64, c color.Color) {
	rect = rect.Canon()
	Rectangle(dst, rect, c)

	fill = math.Max(0, math.Min(1, fill))
	inner := rect.Inset(2)
	if inner.Empty() {
		return
	}
	w := int(math.Floor(fill * float64(inner.Dx())))
	Box(dst, image.Rect(inner.Min.X, inner.Min.Y, inner.Min.X+w, inner.Max.Y), c)
}

// Arc draws a ring segment of the circle with the given diameter whose bounding square has its top
// left corner at origin. Angles are in degrees, zero points right and positive angles turn
// clockwise. A negative sweep draws counter clockwise.
func Arc(dst Image, origin image.Point, diameter, stroke int, start, sweep float64, c color.Color) {
	if diameter <= 0 || stroke <= 0 || sweep == 0 {
		return
	}
	var (
		r     = float64(diameter) / 2
		cx    = float64(origin.X) + r
		cy    = float64(origin.Y) + r
		inner = r - float64(stroke)
	)
	if math.Abs(sweep) >= 360 {
		sweep = math.Copysign(360, sweep)
	}
	for y := origin.Y; y < origin.Y+diameter; y++ {
		for x := origin.X; x < origin.X+diameter; x++ {
			var (
				px = float64(x) + .5 - cx
				py = float64(y) + .5 - cy
				d  = math.Hypot(px, py)
			)
			if d > r || d <= inner {
				continue
			}
			angle := math.Atan2(py, px) * 180 / math.Pi
			if inSweep(angle, start, sweep) {
				dst.Set(x, y, c)
			}
		}
	}
}

func inSweep(angle, start, sweep float64) bool {
	offset := angle - start
	if sweep < 0 {
		offset, sweep = -offset, -sweep
	}
	offset = math.Mod(offset, 360)
	if offset < 0 {
		offset += 360
	}
	return offset <= sweep
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// bresenham draws a one pixel wide line between (x1,y1) and (x2,y2), both included.
func bresenham(dst Image, x1, y1, x2, y2 int, c color.Color) {
	var (
		dx  = abs(x2 - x1)
		dy  = -abs(y2 - y1)
		sx  = 1
		sy  = 1
		err = dx + dy
	)
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	for {
		dst.Set(x1, y1, c)
		if x1 == x2 && y1 == y2 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x1 += sx
		}
		if e2 <= dx {
			err += dx
			y1 += sy
		}
	}
}
