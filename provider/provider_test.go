package provider

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/BeatGlow/oled/pixel"
)

func TestConfigDefaults(t *testing.T) {
	v := viper.New()
	v.Set("clock.enabled", false)
	v.Set("clock.priority", 3)
	v.Set("sysinfo.polling_interval", 500)
	v.Set("refresh.interval", 1.5)
	v.Set("crypto.currency", "")

	if Enabled(v, "clock") {
		t.Error("expected clock to be disabled")
	}
	if !Enabled(v, "image") {
		t.Error("expected providers to be enabled by default")
	}
	if p := Priority(v, "clock"); p != 3 {
		t.Errorf("expected priority 3, got %d", p)
	}
	if p := Priority(v, "image"); p != math.MaxInt {
		t.Errorf("expected lowest priority by default, got %d", p)
	}
	if d := Millis(v, "sysinfo.polling_interval", time.Second); d != 500*time.Millisecond {
		t.Errorf("expected 500ms, got %s", d)
	}
	if d := Seconds(v, "refresh.interval", time.Minute); d != 1500*time.Millisecond {
		t.Errorf("expected 1.5s, got %s", d)
	}
	if s := String(v, "crypto.currency", "USD"); s != "USD" {
		t.Errorf("expected default for empty string, got %q", s)
	}
	if !Bool(nil, "x", true) || Int(nil, "x", 7) != 7 || Float(nil, "x", .5) != .5 {
		t.Error("expected defaults for nil config")
	}
}

func TestTicker(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	var (
		calls  int
		failed = errors.New("failed")
	)
	s := Ticker(ctx, time.Millisecond, func(context.Context) (pixel.FrameBuffer, error) {
		calls++
		if calls == 2 {
			return pixel.FrameBuffer{}, failed
		}
		return pixel.NewFrameBuffer(), nil
	})

	for i := 1; i <= 3; i++ {
		select {
		case r := <-s.Next():
			if i == 2 && r.Err != failed {
				t.Errorf("frame %d: expected error, got %v", i, r.Err)
			}
			if i != 2 && (r.Err != nil || r.Value != pixel.NewFrameBuffer()) {
				t.Errorf("frame %d: unexpected result %v", i, r.Err)
			}
		case <-ctx.Done():
			t.Fatal("timeout")
		}
	}
	if s.Terminated() {
		t.Error("ticker stream terminated while running")
	}
}
