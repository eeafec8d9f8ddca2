package simulator

import (
	"bytes"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/BeatGlow/oled/input"
	"github.com/BeatGlow/oled/pixel"
)

func TestWritePixels(t *testing.T) {
	frame := pixel.NewFrameBuffer()
	frame.DrawPixel(1, 0, true)
	frame.DrawPixel(127, 39, true)

	pix := make([]byte, pixel.Width*pixel.Height*4)
	writePixels(pix, &frame)

	tests := []struct {
		X, Y int
		Want [4]byte
	}{
		{0, 0, OffColor},
		{1, 0, OnColor},
		{127, 39, OnColor},
		{126, 39, OffColor},
	}
	for _, test := range tests {
		off := (test.Y*pixel.Width + test.X) * 4
		if got := pix[off : off+4]; !bytes.Equal(got, test.Want[:]) {
			t.Errorf("(%d, %d): expected %v, got %v", test.X, test.Y, test.Want, got)
		}
	}
}

func TestKeys(t *testing.T) {
	tests := []struct {
		Key  ebiten.Key
		Want input.Command
	}{
		{ebiten.KeyArrowLeft, input.PreviousSource},
		{ebiten.KeyArrowRight, input.NextSource},
		{ebiten.KeyQ, input.Shutdown},
		{ebiten.KeyEscape, input.Shutdown},
	}
	for _, test := range tests {
		if got, ok := keys[test.Key]; !ok || got != test.Want {
			t.Errorf("%s: expected %s, got %s", test.Key, test.Want, got)
		}
	}
}

func TestSink(t *testing.T) {
	w := New(0)
	if w.scale != DefaultScale {
		t.Errorf("expected default scale %d, got %d", DefaultScale, w.scale)
	}
	if x, y := w.Layout(0, 0); x != pixel.Width*DefaultScale || y != pixel.Height*DefaultScale {
		t.Errorf("unexpected layout %dx%d", x, y)
	}

	sink := w.Sink()
	if err := sink.Fill(); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(w.pix[:4], OnColor[:]) {
		t.Error("expected lit pixel after fill")
	}
	if err := sink.Clear(); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(w.pix[:4], OffColor[:]) {
		t.Error("expected dark pixel after clear")
	}

	if err := sink.Shutdown(); err != nil {
		t.Fatal(err)
	}
	if err := w.Update(); err != ebiten.Termination {
		t.Errorf("expected termination after shutdown, got %v", err)
	}
}

func TestEmitDropsWhenFull(t *testing.T) {
	w := New(1)
	for i := 0; i < cap(w.pending)+5; i++ {
		w.emit(input.NextSource)
	}
	if len(w.pending) != cap(w.pending) {
		t.Errorf("expected %d pending commands, got %d", cap(w.pending), len(w.pending))
	}
}
