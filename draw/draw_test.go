package draw

import (
	"image"
	"testing"

	"github.com/BeatGlow/oled/pixel"
)

func countOn(f *pixel.FrameBuffer) (n int) {
	for y := 0; y < pixel.Height; y++ {
		for x := 0; x < pixel.Width; x++ {
			if f.ReadPixel(x, y) {
				n++
			}
		}
	}
	return
}

func TestLine(t *testing.T) {
	tests := []struct {
		Name string
		A, B image.Point
		Want int
	}{
		{"point", image.Pt(3, 3), image.Pt(3, 3), 1},
		{"horizontal", image.Pt(0, 0), image.Pt(9, 0), 10},
		{"vertical", image.Pt(5, 10), image.Pt(5, 1), 10},
		{"diagonal", image.Pt(0, 0), image.Pt(7, 7), 8},
		{"shallow", image.Pt(0, 0), image.Pt(20, 5), 21},
		{"steep", image.Pt(10, 0), image.Pt(7, 30), 31},
	}
	for _, test := range tests {
		t.Run(test.Name, func(it *testing.T) {
			f := pixel.NewFrameBuffer()
			Line(&f, test.A, test.B, pixel.On)
			if !f.ReadPixel(test.A.X, test.A.Y) || !f.ReadPixel(test.B.X, test.B.Y) {
				it.Errorf("line does not include both end points")
			}
			if n := countOn(&f); n != test.Want {
				it.Errorf("expected %d pixels, got %d", test.Want, n)
			}
		})
	}
}

func TestRectangle(t *testing.T) {
	f := pixel.NewFrameBuffer()
	Rectangle(&f, image.Rect(2, 2, 12, 7), pixel.On)
	if n := countOn(&f); n != 2*10+2*3 {
		t.Errorf("expected %d pixels, got %d", 2*10+2*3, n)
	}
	if f.ReadPixel(5, 4) {
		t.Error("rectangle outline is filled")
	}
}

func TestBar(t *testing.T) {
	for _, fill := range []float64{-1, 0, .5, 1, 2} {
		f := pixel.NewFrameBuffer()
		Bar(&f, image.Rect(0, 0, 24, 7), fill, pixel.On)
		var (
			inner = 24 - 4
			want  = 2*24 + 2*5
		)
		switch {
		case fill >= 1:
			want += inner * 3
		case fill > 0:
			want += int(fill*float64(inner)) * 3
		}
		if n := countOn(&f); n != want {
			t.Errorf("fill %g: expected %d pixels, got %d", fill, want, n)
		}
	}
}

func TestArc(t *testing.T) {
	full := pixel.NewFrameBuffer()
	Arc(&full, image.Pt(0, 0), 10, 2, 90, 360, pixel.On)
	half := pixel.NewFrameBuffer()
	Arc(&half, image.Pt(0, 0), 10, 2, 90, -180, pixel.On)

	if n, m := countOn(&full), countOn(&half); n == 0 || m == 0 || m >= n {
		t.Errorf("expected half arc (%d pixels) to be smaller than full ring (%d pixels)", m, n)
	}
	if full.ReadPixel(5, 5) {
		t.Error("ring center is lit")
	}
}

func TestIcon(t *testing.T) {
	icon, err := Icon(
		"#..",
		".#.",
		"..#",
	)
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			if on := pixel.IsOn(icon.At(x, y)); on != (x == y) {
				t.Errorf("pixel (%d,%d) is %t", x, y, on)
			}
		}
	}

	if _, err = Icon("##", "#"); err == nil {
		t.Error("expected error for ragged icon")
	}
	if _, err = Icon(); err != ErrIconEmpty {
		t.Errorf("expected ErrIconEmpty, got %v", err)
	}
}

func TestText(t *testing.T) {
	f := pixel.NewFrameBuffer()
	Text(&f, image.Pt(0, 0), RegularFace, "Hi", pixel.On)
	if countOn(&f) == 0 {
		t.Fatal("text did not light any pixel")
	}

	size := Measure(RegularFace, "Hi")
	for y := 0; y < pixel.Height; y++ {
		for x := 0; x < pixel.Width; x++ {
			if f.ReadPixel(x, y) && (x >= size.X || y >= size.Y) {
				t.Fatalf("pixel (%d,%d) outside of measured text size %s", x, y, size)
			}
		}
	}

	if g := GlyphSize(RegularFace); g.X != 7 || g.Y != 13 {
		t.Errorf("expected 7x13 glyphs, got %s", g)
	}
}

func TestSmallFace(t *testing.T) {
	face := SmallFace()
	if h := Measure(face, "C: 100%").Y; h > 10 {
		t.Errorf("expected small face to fit a 10 pixel row, got %d pixels", h)
	}
}
