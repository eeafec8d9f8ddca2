package draw

import (
	"fmt"
	"image"
	"image/color"
	"os"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/math/fixed"
)

// Face is an alias for [golang.org/x/image/font.Face].
type Face = font.Face

// Built-in fixed width faces.
var (
	// RegularFace is a 7x13 pixel face.
	RegularFace Face = basicfont.Face7x13

	// BoldFace is a 8x16 pixel bold face.
	BoldFace Face = inconsolata.Bold8x16
)

// LoadFont parses TrueType font data into a face of size points at 72 DPI, so one point is one
// pixel. Glyph edges are anti-aliased by the rasterizer and thresholded by the destination.
func LoadFont(ttf []byte, size float64) (Face, error) {
	f, err := truetype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("draw: error parsing font: %w", err)
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

// LoadFontFile reads a TrueType font from disk, see LoadFont.
func LoadFontFile(name string, size float64) (Face, error) {
	b, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return LoadFont(b, size)
}

// MonoFace returns Go Mono at size points.
func MonoFace(size float64) Face {
	face, err := LoadFont(gomono.TTF, size)
	if err != nil {
		// The embedded font is known to parse.
		panic(err)
	}
	return face
}

// SmallFace returns Go Mono at 6 points, small enough to fit five lines of text on a frame.
func SmallFace() Face {
	return MonoFace(6)
}

// Text draws s using face with the top left corner of the text at p.
func Text(dst Image, p image.Point, face Face, s string, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(p.X, p.Y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)
}

// Measure returns the bounding size of s rendered with face: the advance width and the line
// height (ascent plus descent).
func Measure(face Face, s string) image.Point {
	m := face.Metrics()
	return image.Point{
		X: font.MeasureString(face, s).Ceil(),
		Y: (m.Ascent + m.Descent).Ceil(),
	}
}

// GlyphSize is the size of a single character cell for fixed width faces.
func GlyphSize(face Face) image.Point {
	return Measure(face, "0")
}
