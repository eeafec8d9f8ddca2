package text

import (
	"image"
	"testing"

	"github.com/BeatGlow/oled/pixel"
)

func render(s *Scrollable, tick int) pixel.FrameBuffer {
	f := pixel.NewFrameBuffer()
	s.AtTick(&f, tick)
	return f
}

func TestScrollablePeriodic(t *testing.T) {
	tests := []struct {
		Name       string
		Text       string
		Projection image.Point
	}{
		{"narrow", "Hello, world", image.Pt(30, 13)},
		{"half", "Now playing: something long", image.Pt(64, 13)},
		{"clipped rows", "Clipped", image.Pt(20, 6)},
		{"one column", "x", image.Pt(1, 13)},
	}
	for _, test := range tests {
		t.Run(test.Name, func(it *testing.T) {
			s := NewBuilder().WithProjection(test.Projection).WithPosition(image.Pt(3, 2)).Build(test.Text)
			if !s.NeedsScroll() {
				it.Fatalf("expected %q to need scrolling in %s", test.Text, test.Projection)
			}
			cw := s.Canvas.Rect.Dx()
			for tick := 0; tick < cw; tick++ {
				if a, b := render(s, tick), render(s, tick+cw); a != b {
					it.Fatalf("tick %d and %d differ", tick, tick+cw)
				}
			}
		})
	}
}

func TestScrollableWraps(t *testing.T) {
	var (
		s  = NewBuilder().WithProjection(image.Pt(40, 13)).Build("Wrapping around")
		cw = s.Canvas.Rect.Dx()
		ch = s.Canvas.Rect.Dy()
	)
	for _, tick := range []int{0, 1, cw - 40, cw - 39, cw - 10, cw - 1} {
		f := render(s, tick)
		for y := 0; y < ch; y++ {
			for x := 0; x < 40; x++ {
				want := s.Canvas.Bit(y*cw + (tick+x)%cw)
				if got := f.ReadPixel(x, y); got != want {
					t.Fatalf("tick %d: pixel (%d,%d) is %t, expected %t", tick, x, y, got, want)
				}
			}
		}
	}
}

func TestScrollableStatic(t *testing.T) {
	s := NewBuilder().WithProjection(image.Pt(pixel.Width, pixel.Height)).Build("Hi")
	if s.NeedsScroll() {
		t.Fatal("expected short text not to need scrolling")
	}

	var (
		want = render(s, 0)
		cw   = s.Canvas.Rect.Dx()
	)
	for _, tick := range []int{1, 2, cw - 1, cw, cw + 1, 1000} {
		if got := render(s, tick); got != want {
			t.Errorf("tick %d differs from tick 0", tick)
		}
	}
	for y := 0; y < pixel.Height; y++ {
		for x := cw; x < pixel.Width; x++ {
			if want.ReadPixel(x, y) {
				t.Fatalf("pixel (%d,%d) lit past the canvas width %d", x, y, cw)
			}
		}
	}
}

func TestScrollableScroll(t *testing.T) {
	s := NewBuilder().WithProjection(image.Pt(10, 13)).Build("Scrolling")
	for i := 0; i < 3; i++ {
		s.Scroll()
	}
	if s.Tick() != 3 {
		t.Fatalf("expected tick 3, got %d", s.Tick())
	}

	f := pixel.NewFrameBuffer()
	s.Draw(&f)
	if want := render(s, 3); f != want {
		t.Error("Draw does not render the current tick")
	}

	s.Reset()
	if s.Tick() != 0 {
		t.Errorf("expected tick 0 after reset, got %d", s.Tick())
	}
}

func TestBuilderSpacing(t *testing.T) {
	a := NewBuilder().Build("abc")
	b := NewBuilder().WithSpacing(12).Build("abc")
	if d := b.Canvas.Rect.Dx() - a.Canvas.Rect.Dx(); d != 12-DefaultSpacing {
		t.Errorf("expected canvas width to grow by %d, got %d", 12-DefaultSpacing, d)
	}
}

func TestStateful(t *testing.T) {
	s := NewStateful(NewBuilder().WithProjection(image.Pt(20, 13)))
	if !s.Update("first title") {
		t.Fatal("expected rebuild for new text")
	}
	first := s.Scrollable()
	first.Scroll()

	if s.Update("first title") {
		t.Error("expected no rebuild for the same text")
	}
	if s.Scrollable() != first || first.Tick() != 1 {
		t.Error("scrollable replaced for the same text")
	}

	if !s.Update("second title") {
		t.Fatal("expected rebuild for changed text")
	}
	if s.Scrollable() == first || s.Scrollable().Tick() != 0 || s.Text() != "second title" {
		t.Error("scrollable not rebuilt for changed text")
	}
}
