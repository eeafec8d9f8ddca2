package image

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/BeatGlow/oled/pixel"
)

func checkerboard(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x+y)%2 == 0 {
				img.Set(x, y, color.White)
			} else {
				img.Set(x, y, color.Black)
			}
		}
	}
	return img
}

func TestMedian(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 1))
	img.Set(0, 0, color.NRGBA{R: 10, G: 10, B: 10, A: 255})
	img.Set(1, 0, color.NRGBA{R: 20, G: 20, B: 20, A: 255})
	img.Set(2, 0, color.NRGBA{R: 200, G: 200, B: 200, A: 255})
	img.Set(3, 0, color.NRGBA{R: 250, G: 250, B: 250, A: 0})
	if m := Median(img); m != 20 {
		t.Errorf("expected median 20, got %d", m)
	}

	if m := Median(image.NewNRGBA(image.Rect(0, 0, 2, 2))); m != 1 {
		t.Errorf("expected median 1 for a black image, got %d", m)
	}
}

func TestThreshold(t *testing.T) {
	frame := Threshold(checkerboard(4, 4))
	offset := image.Pt((pixel.Width-4)/2, (pixel.Height-4)/2)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if on := frame.ReadPixel(offset.X+x, offset.Y+y); on != ((x+y)%2 == 0) {
				t.Errorf("pixel (%d,%d) is %t", x, y, on)
			}
		}
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		W, H int
		Want image.Point
	}{
		{10, 10, image.Pt(10, 10)},
		{256, 40, image.Pt(128, 20)},
		{100, 80, image.Pt(50, 40)},
		{1000, 1, image.Pt(128, 1)},
	}
	for _, test := range tests {
		if size := Fit(image.NewNRGBA(image.Rect(0, 0, test.W, test.H))).Bounds().Size(); size != test.Want {
			t.Errorf("%dx%d: expected %s, got %s", test.W, test.H, test.Want, size)
		}
	}
}

func TestDecodeGIF(t *testing.T) {
	palette := color.Palette{color.Black, color.White}
	a := image.NewPaletted(image.Rect(0, 0, 8, 8), palette)
	b := image.NewPaletted(image.Rect(0, 0, 8, 8), palette)
	for i := 0; i < 8; i++ {
		a.SetColorIndex(i, 0, 1)
		b.SetColorIndex(0, i, 1)
	}

	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, &gif.GIF{
		Image:    []*image.Paletted{a, b},
		Delay:    []int{0, 50},
		Disposal: []byte{gif.DisposalBackground, gif.DisposalNone},
	}); err != nil {
		t.Fatal(err)
	}

	frames, err := Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(frames))
	}
	if frames[0].Delay != MinDelay || frames[1].Delay != 500*time.Millisecond {
		t.Errorf("unexpected delays %s, %s", frames[0].Delay, frames[1].Delay)
	}
	if frames[0].Image == frames[1].Image {
		t.Error("expected different frames")
	}
}

func TestDecodeStill(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, checkerboard(6, 6)); err != nil {
		t.Fatal(err)
	}
	frames, err := Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) != 1 || frames[0].Delay != StillDelay {
		t.Errorf("unexpected frames %+v", frames)
	}
}

func TestOpenMissing(t *testing.T) {
	p := Open(filepath.Join(t.TempDir(), "missing.gif"))
	if len(p.Frames()) != 1 || p.Frames()[0].Image != Missing() {
		t.Error("expected missing image frame")
	}

	name := filepath.Join(t.TempDir(), "broken.png")
	if err := os.WriteFile(name, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if p = Open(name); p.Frames()[0].Image != Missing() {
		t.Error("expected missing image frame for broken image")
	}
}

func TestStreamLoops(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	var (
		a = pixel.NewFrameBuffer()
		b = pixel.NewFrameBuffer()
	)
	b.DrawPixel(0, 0, true)

	s, err := New([]Frame{{a, time.Millisecond}, {b, time.Millisecond}}).Stream(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range []pixel.FrameBuffer{a, b, a, b} {
		select {
		case r := <-s.Next():
			if r.Value != want {
				t.Errorf("frame %d: unexpected image", i)
			}
		case <-ctx.Done():
			t.Fatal("timeout")
		}
	}
}
