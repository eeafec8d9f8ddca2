package pixel

import (
	"image"
	"image/color"
)

// Canvas is a one bit per pixel image of arbitrary size without any envelope, stored row major
// with one bit per pixel and no padding between rows.
type Canvas struct {
	// Rect is the image bounding box, it always starts at the origin.
	Rect image.Rectangle

	// Pix holds the pixels, pixel (x, y) is bit x+y*width counted from the most significant bit.
	Pix []byte
}

// NewCanvas returns a canvas with all pixels off.
func NewCanvas(w, h int) *Canvas {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Canvas{
		Rect: image.Rect(0, 0, w, h),
		Pix:  make([]byte, (w*h+7)/8),
	}
}

// Len is the number of pixels on the canvas.
func (p *Canvas) Len() int {
	return p.Rect.Dx() * p.Rect.Dy()
}

// Bit reports whether the pixel with linear index i is on.
func (p *Canvas) Bit(i int) bool {
	if i < 0 || i >= p.Len() {
		return false
	}
	return p.Pix[i>>3]&(0x80>>uint(i&7)) != 0
}

// SetBit turns the pixel with linear index i on or off.
func (p *Canvas) SetBit(i int, on bool) {
	if i < 0 || i >= p.Len() {
		return
	}
	if on {
		p.Pix[i>>3] |= 0x80 >> uint(i&7)
	} else {
		p.Pix[i>>3] &^= 0x80 >> uint(i&7)
	}
}

func (p *Canvas) ColorModel() color.Model {
	return MonoModel
}

func (p *Canvas) Bounds() image.Rectangle {
	return p.Rect
}

func (p *Canvas) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return color.Transparent
	}
	return Mono{On: p.Bit(x + y*p.Rect.Dx())}
}

func (p *Canvas) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return
	}
	p.SetBit(x+y*p.Rect.Dx(), IsOn(c))
}

// Clear turns all pixels off.
func (p *Canvas) Clear() {
	for i := range p.Pix {
		p.Pix[i] = 0x00
	}
}

// Fill the canvas with a single color.
func (p *Canvas) Fill(c color.Color) {
	var value byte
	if IsOn(c) {
		value = 0xff
	}
	for i := range p.Pix {
		p.Pix[i] = value
	}
}
