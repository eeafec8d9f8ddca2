package clock

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/BeatGlow/oled/pixel"
)

func TestLayout(t *testing.T) {
	tests := []struct {
		Name               string
		TwelveHour, Second bool
		Want               string
	}{
		{"24h", false, true, "15:04:05"},
		{"24h short", false, false, "15:04"},
		{"12h", true, true, "03:04:05 PM"},
		{"12h short", true, false, "03:04 PM"},
	}
	for _, test := range tests {
		t.Run(test.Name, func(it *testing.T) {
			if c := New(test.TwelveHour, test.Second); c.layout != test.Want {
				it.Errorf("expected layout %q, got %q", test.Want, c.layout)
			}
		})
	}
}

func TestRender(t *testing.T) {
	var (
		c = New(false, true)
		a = c.Render(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
		b = c.Render(time.Date(2024, 1, 1, 12, 0, 1, 0, time.UTC))
	)
	if a == pixel.NewFrameBuffer() {
		t.Fatal("expected time to be drawn")
	}
	if a == b {
		t.Error("expected different frames for different seconds")
	}
	if a.Bytes()[0] != pixel.Header {
		t.Error("header overwritten")
	}
}

func TestStream(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	v := viper.New()
	v.Set("clock.twelve_hour", true)
	p, err := Registration.New(v)
	if err != nil {
		t.Fatal(err)
	}
	if p.Name() != Name {
		t.Errorf("expected name %q, got %q", Name, p.Name())
	}

	c := p.(*Clock)
	fixed := time.Date(2024, 1, 1, 18, 30, 0, 0, time.UTC)
	c.now = func() time.Time { return fixed }

	s, err := c.Stream(ctx)
	if err != nil {
		t.Fatal(err)
	}
	select {
	case r := <-s.Next():
		if r.Err != nil || r.Value != c.Render(fixed) {
			t.Errorf("unexpected frame (%v)", r.Err)
		}
	case <-ctx.Done():
		t.Fatal("timeout")
	}
}

func TestFontPath(t *testing.T) {
	v := viper.New()
	v.Set("font.path", "testdata/missing.ttf")
	if _, err := Registration.New(v); err == nil {
		t.Error("expected error for missing font file")
	}
}
