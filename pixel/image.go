package pixel

import (
	"image"
	"image/color"
	"image/draw"
)

// Image is a mutable binary image.
type Image interface {
	draw.Image

	// Clear the image.
	Clear()

	// Fill the image with a single color.
	Fill(color.Color)
}

// VerticalImage is a 1-bit per pixel monochrome image organised in pages of eight rows, where each
// byte holds one column of a page with the top pixel in the least significant bit.
//
// This is the memory layout of SSD1xxx and SH1106 OLED controllers.
type VerticalImage struct {
	Rect   image.Rectangle
	Pix    []byte
	Stride int
}

func NewVerticalImage(w, h int) *VerticalImage {
	pages := (h + 7) / 8
	return &VerticalImage{
		Rect:   image.Rect(0, 0, w, h),
		Pix:    make([]byte, pages*w),
		Stride: w,
	}
}

func (p *VerticalImage) ColorModel() color.Model {
	return MonoModel
}

func (p *VerticalImage) Bounds() image.Rectangle {
	return p.Rect
}

// Page returns the bytes of one page (eight rows).
func (p *VerticalImage) Page(page int) []byte {
	off := page * p.Stride
	return p.Pix[off : off+p.Stride]
}

func (p *VerticalImage) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return color.Transparent
	}
	return Mono{On: p.Pix[y/8*p.Stride+x]&(1<<uint(y&7)) != 0}
}

func (p *VerticalImage) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return
	}
	var (
		pos = y/8*p.Stride + x
		bit = byte(1) << uint(y&7)
	)
	if IsOn(c) {
		p.Pix[pos] |= bit
	} else {
		p.Pix[pos] &^= bit
	}
}

func (p *VerticalImage) Clear() {
	for i := range p.Pix {
		p.Pix[i] = 0x00
	}
}

func (p *VerticalImage) Fill(c color.Color) {
	var value byte
	if IsOn(c) {
		value = 0xff
	}
	for i := range p.Pix {
		p.Pix[i] = value
	}
}

// Blit copies the frame onto dst with its top left corner at offset.
func Blit(dst draw.Image, src *FrameBuffer, offset image.Point) {
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			dst.Set(x+offset.X, y+offset.Y, Mono{On: src.ReadPixel(x, y)})
		}
	}
}

// Interface checks.
var (
	_ Image = (*FrameBuffer)(nil)
	_ Image = (*Canvas)(nil)
	_ Image = (*VerticalImage)(nil)
)
