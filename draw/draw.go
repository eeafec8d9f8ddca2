// Package draw contains the drawing primitives used to compose frames: shapes, icons and text.
//
// All primitives draw onto any [image/draw.Image], colors are converted by the destination's
// color model, so on the binary images of the pixel package anything brighter than mid gray
// lights a pixel.
package draw

import (
	"image"
	"image/draw"
)

// Image is an alias for [image/draw.Image].
type Image = draw.Image

// Op is an alias for [image/draw.Op].
type Op = draw.Op

const (
	// Over specifies ``(src in mask) over dst''.
	Over Op = draw.Over

	// Src specifies ``src in mask''.
	Src Op = draw.Src
)

// Draw aligns r.Min in dst with sp in src and replaces the rectangle r in dst with the result of
// a Porter-Duff composition.
func Draw(dst Image, r image.Rectangle, src image.Image, sp image.Point, op Op) {
	draw.DrawMask(dst, r, src, sp, nil, image.Point{}, op)
}

// Copy draws all of src onto dst with its origin at p, overwriting the destination pixels.
func Copy(dst Image, p image.Point, src image.Image) {
	b := src.Bounds()
	Draw(dst, image.Rectangle{Min: p, Max: p.Add(b.Size())}, src, b.Min, Src)
}
