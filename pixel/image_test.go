package pixel

import (
	"image"
	"image/color"
	"math/rand"
	"testing"
)

func TestCanvas(t *testing.T) {
	testImage(t, func(size image.Point) Image {
		return NewCanvas(size.X, size.Y)
	}, []image.Point{
		{},
		image.Pt(1, 1),
		image.Pt(3, 5),
		image.Pt(256, 13),
	})
}

func TestVerticalImage(t *testing.T) {
	testImage(t, func(size image.Point) Image {
		return NewVerticalImage(size.X, size.Y)
	}, []image.Point{
		{},
		image.Pt(1, 1),
		image.Pt(128, 32),
		image.Pt(128, 64),
	})
}

func TestFrameBufferImage(t *testing.T) {
	testImage(t, func(size image.Point) Image {
		f := NewFrameBuffer()
		return &f
	}, []image.Point{
		image.Pt(Width, Height),
	})
}

func testImage(t *testing.T, f func(image.Point) Image, sizes []image.Point) {
	t.Helper()
	for _, test := range sizes {
		t.Run(test.String(), func(it *testing.T) {
			i := f(test)

			if v := i.Bounds().Size(); !v.Eq(test) {
				it.Errorf("expected image size %s, got %s", test, v)
			}

			if v := i.ColorModel(); v != MonoModel {
				it.Errorf("expected mono color model, got %T", v)
			}

			it.Run("in-bounds", func(itt *testing.T) {
				for y := 0; y < test.Y; y++ {
					for x := 0; x < test.X; x++ {
						c := testRandomColor()
						i.Set(x, y, c)
						if v := MonoModel.Convert(c); i.At(x, y) != v {
							itt.Fatalf("pixel (%d,%d) is %#+v, expected %#+v (%v)", x, y, i.At(x, y), v, c)
						}
					}
				}
			})

			it.Run("out-bounds", func(itt *testing.T) {
				for y := -2; y < test.Y+2; y++ {
					for x := -2; x < test.X+2; x++ {
						if (image.Point{X: x, Y: y}).In(i.Bounds()) {
							continue
						}
						i.Set(x, y, On)
						if v := i.At(x, y); v != color.Transparent {
							itt.Fatalf("pixel (%d,%d) is %#+v, expected transparent", x, y, v)
						}
					}
				}
			})

			it.Run("fill", func(itt *testing.T) {
				i.Fill(On)
				if test.X > 0 && test.Y > 0 {
					x := rand.Intn(test.X)
					y := rand.Intn(test.Y)
					if v := i.At(x, y); v != On {
						itt.Fatalf("pixel (%d,%d) is %#+v, expected on", x, y, v)
					}
				}
			})

			it.Run("clear", func(itt *testing.T) {
				i.Clear()
				for y := 0; y < test.Y; y++ {
					for x := 0; x < test.X; x++ {
						if v := i.At(x, y); v != Off {
							itt.Fatalf("pixel (%d,%d) is not black", x, y)
						}
					}
				}
			})
		})
	}
}

func testRandomColor() color.Color {
	return color.RGBA{
		R: uint8(rand.Intn(255)),
		G: uint8(rand.Intn(255)),
		B: uint8(rand.Intn(255)),
		A: 0xFF,
	}
}
