package pixel

import (
	"image"
	"image/color"
)

// Display geometry of the frames produced for the keyboard OLED.
const (
	Width  = 128
	Height = 40
)

const (
	// Header is the report id leading every frame sent to the device.
	Header byte = 0x61

	// FrameSize is the packed frame size: one header byte, the pixels and one trailing pad byte.
	FrameSize = Width*Height/8 + 2

	headerBits = 8
)

// FrameBuffer is a 128x40 one bit per pixel image, packed most significant bit first.
//
// The pixel data is wrapped in the envelope expected by the device, so the buffer can be sent as
// is: byte 0 is Header and the last byte is padding. Bytes writes the header for the zero value
// too. A FrameBuffer is a value type, copying it copies the pixels.
type FrameBuffer struct {
	buf [FrameSize]byte
}

// NewFrameBuffer returns a frame with all pixels off.
func NewFrameBuffer() FrameBuffer {
	var f FrameBuffer
	f.buf[0] = Header
	return f
}

func bitOffset(x, y int) (int, bool) {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return 0, false
	}
	return headerBits + y*Width + x, true
}

// DrawPixel turns the pixel at (x, y) on or off. Coordinates outside the frame are ignored.
func (f *FrameBuffer) DrawPixel(x, y int, on bool) {
	i, ok := bitOffset(x, y)
	if !ok {
		return
	}
	if on {
		f.buf[i>>3] |= 0x80 >> uint(i&7)
	} else {
		f.buf[i>>3] &^= 0x80 >> uint(i&7)
	}
}

// ReadPixel reports whether the pixel at (x, y) is on.
func (f *FrameBuffer) ReadPixel(x, y int) bool {
	i, ok := bitOffset(x, y)
	if !ok {
		return false
	}
	return f.buf[i>>3]&(0x80>>uint(i&7)) != 0
}

// Bytes returns a copy of the packed frame including the header and pad bytes.
func (f *FrameBuffer) Bytes() []byte {
	b := make([]byte, FrameSize)
	copy(b, f.buf[:])
	b[0] = Header
	return b
}

// Clear turns all pixels off.
func (f *FrameBuffer) Clear() {
	f.Fill(Off)
}

// Fill sets all pixels to a single color.
func (f *FrameBuffer) Fill(c color.Color) {
	var value byte
	if IsOn(c) {
		value = 0xff
	}
	for i := 1; i < FrameSize-1; i++ {
		f.buf[i] = value
	}
	f.buf[0] = Header
	f.buf[FrameSize-1] = 0
}

func (f *FrameBuffer) ColorModel() color.Model {
	return MonoModel
}

func (f *FrameBuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, Width, Height)
}

func (f *FrameBuffer) At(x, y int) color.Color {
	if _, ok := bitOffset(x, y); !ok {
		return color.Transparent
	}
	return Mono{On: f.ReadPixel(x, y)}
}

func (f *FrameBuffer) Set(x, y int, c color.Color) {
	f.DrawPixel(x, y, IsOn(c))
}
