package oled

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"periph.io/x/conn/v3/gpio"

	"github.com/BeatGlow/oled/pixel"
)

type fakeConn struct {
	commands [][]byte
	data     [][]byte
	resets   []gpio.Level
	closed   bool
}

func (c *fakeConn) String() string { return "fake" }

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

func (c *fakeConn) Reset(level gpio.Level) error {
	c.resets = append(c.resets, level)
	return nil
}

func (c *fakeConn) Command(cmnd byte, args ...byte) error {
	c.commands = append(c.commands, append([]byte{cmnd}, args...))
	return nil
}

func (c *fakeConn) Data(data ...byte) error {
	c.data = append(c.data, append([]byte(nil), data...))
	return nil
}

func (c *fakeConn) reset() {
	c.commands, c.data = nil, nil
}

func TestPanels(t *testing.T) {
	tests := []struct {
		Name   string
		New    func(Conn, *Config) (Panel, error)
		Config Config
		Pages  int
	}{
		{"SSD1306 128x64", SSD1306, Config{}, 8},
		{"SSD1306 128x32", SSD1306, Config{Width: 128, Height: 32}, 4},
		{"SH1106 128x64", SH1106, Config{}, 8},
		{"SH1106 128x32", SH1106, Config{Width: 128, Height: 32}, 4},
		{"SSD1305 128x32", SSD1305, Config{}, 4},
		{"SSD1305 128x64", SSD1305, Config{Width: 128, Height: 64}, 8},
	}
	for _, test := range tests {
		t.Run(test.Name, func(it *testing.T) {
			c := new(fakeConn)
			config := test.Config
			panel, err := test.New(c, &config)
			if err != nil {
				it.Fatal(err)
			}
			if len(c.resets) == 0 {
				it.Error("expected reset pulse")
			}
			if last := c.commands[len(c.commands)-1]; last[0] != ssd1xxxSetDisplayOn {
				it.Errorf("expected display on as last command, got %#02x", last[0])
			}
			if len(c.data) != test.Pages {
				it.Errorf("expected %d pages, got %d", test.Pages, len(c.data))
			}
			for i, page := range c.data {
				if len(page) != 128 {
					it.Errorf("page %d: expected 128 bytes, got %d", i, len(page))
				}
			}

			if err = panel.Close(); err != nil {
				it.Fatal(err)
			}
			if !c.closed {
				it.Error("connection not closed")
			}
			if last := c.commands[len(c.commands)-1]; last[0] != ssd1xxxSetDisplayOff {
				it.Errorf("expected display off after close, got %#02x", last[0])
			}
		})
	}
}

func TestPanelUnsupportedSize(t *testing.T) {
	if _, err := SSD1306(new(fakeConn), &Config{Width: 100, Height: 10}); err == nil {
		t.Error("expected error for unsupported SSD1306 size")
	}
	if _, err := SH1106(new(fakeConn), &Config{Width: 64, Height: 48}); err == nil {
		t.Error("expected error for unsupported SH1106 size")
	}
}

func TestPanelSink(t *testing.T) {
	frame := pixel.NewFrameBuffer()
	frame.DrawPixel(0, 0, true)

	tests := []struct {
		Name     string
		Height   int
		Rotation Rotation
		Page     int
		Column   int
		Want     byte
	}{
		// Centred on 64 rows, frame row 0 is panel row 12.
		{"64 rows", 64, NoRotation, 1, 0, 1 << 4},
		// Rotated, frame (0, 0) is panel (127, 51).
		{"64 rows flipped", 64, Rotate180, 6, 127, 1 << 3},
		// Row 0 is clipped on 32 rows.
		{"32 rows", 32, NoRotation, 0, 0, 0},
	}
	for _, test := range tests {
		t.Run(test.Name, func(it *testing.T) {
			c := new(fakeConn)
			panel, err := SSD1306(c, &Config{Width: 128, Height: test.Height})
			if err != nil {
				it.Fatal(err)
			}
			sink, err := NewPanelSink(panel, test.Rotation)
			if err != nil {
				it.Fatal(err)
			}

			c.reset()
			if err = sink.Draw(frame); err != nil {
				it.Fatal(err)
			}
			if v := c.data[test.Page][test.Column]; v != test.Want {
				it.Errorf("expected page %d column %d to be %#08b, got %#08b", test.Page, test.Column, test.Want, v)
			}

			c.reset()
			if err = sink.Clear(); err != nil {
				it.Fatal(err)
			}
			for i, page := range c.data {
				if !bytes.Equal(page, make([]byte, 128)) {
					it.Errorf("page %d not blank after clear", i)
				}
			}
		})
	}
}

func TestPanelSinkRotation(t *testing.T) {
	panel, err := SSD1306(new(fakeConn), nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err = NewPanelSink(panel, Rotate90); !errors.Is(err, ErrRotation) {
		t.Errorf("expected ErrRotation, got %v", err)
	}
}

func TestParseRotation(t *testing.T) {
	for s, want := range map[string]Rotation{"": NoRotation, "flip": Rotate180, "180": Rotate180, "cw": Rotate90} {
		if r, err := ParseRotation(s); err != nil || r != want {
			t.Errorf("%q: expected %s, got %s (%v)", s, want, r, err)
		}
	}
	if _, err := ParseRotation("45"); !errors.Is(err, ErrRotation) {
		t.Errorf("expected ErrRotation, got %v", err)
	}
}

type fakeReporter struct {
	reports [][]byte
	short   bool
	closed  bool
}

func (r *fakeReporter) SendFeatureReport(b []byte) (int, error) {
	r.reports = append(r.reports, append([]byte(nil), b...))
	if r.short {
		return len(b) - 1, nil
	}
	return len(b), nil
}

func (r *fakeReporter) Close() error {
	r.closed = true
	return nil
}

func TestApex(t *testing.T) {
	var (
		dev   = new(fakeReporter)
		apex  = &Apex{dev: dev}
		frame = pixel.NewFrameBuffer()
	)
	frame.DrawPixel(5, 5, true)

	if err := apex.Draw(frame); err != nil {
		t.Fatal(err)
	}
	if len(dev.reports) != 1 || !bytes.Equal(dev.reports[0], frame.Bytes()) {
		t.Fatal("expected frame bytes as feature report")
	}
	if n := len(dev.reports[0]); n != pixel.FrameSize {
		t.Errorf("expected report of %d bytes, got %d", pixel.FrameSize, n)
	}

	if err := apex.Shutdown(); err != nil {
		t.Fatal(err)
	}
	blank := pixel.NewFrameBuffer()
	if last := dev.reports[len(dev.reports)-1]; !bytes.Equal(last, blank.Bytes()) {
		t.Error("expected blank frame before shutdown")
	}
	if !dev.closed {
		t.Error("device not closed")
	}
	if err := apex.Draw(frame); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestApexShortWrite(t *testing.T) {
	apex := &Apex{dev: &fakeReporter{short: true}}
	if err := apex.Clear(); err == nil {
		t.Error("expected error on short write")
	}
}

func TestRender(t *testing.T) {
	frame := pixel.NewFrameBuffer()
	frame.DrawPixel(0, 0, true)
	frame.DrawPixel(1, 1, true)
	frame.DrawPixel(2, 0, true)
	frame.DrawPixel(2, 1, true)

	lines := strings.Split(strings.TrimSuffix(Render(&frame), "\r\n"), "\r\n")
	if len(lines) != TerminalLines {
		t.Fatalf("expected %d lines, got %d", TerminalLines, len(lines))
	}
	for i, line := range lines {
		if n := len([]rune(line)); n != TerminalColumns {
			t.Errorf("line %d: expected %d columns, got %d", i, TerminalColumns, n)
		}
	}
	if got := string([]rune(lines[1])[1:5]); got != "▀▄█ " {
		t.Errorf("expected %q, got %q", "▀▄█ ", got)
	}
}

func TestTerminal(t *testing.T) {
	var out bytes.Buffer
	sink, err := newTerminal(&out)
	if err != nil {
		t.Fatal(err)
	}
	if err = sink.Fill(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), strings.Repeat("█", pixel.Width)) {
		t.Error("expected filled rows")
	}
	out.Reset()
	if err = sink.Shutdown(); err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(out.String(), escShowCursor) {
		t.Error("expected cursor restored on shutdown")
	}
}

func TestTerminalRequiresTerminal(t *testing.T) {
	out, err := os.Create(filepath.Join(t.TempDir(), "preview"))
	if err != nil {
		t.Fatal(err)
	}
	defer out.Close()

	if _, err = NewTerminal(out, false); !errors.Is(err, ErrNotTerminal) {
		t.Errorf("expected ErrNotTerminal, got %v", err)
	}
	if _, err = NewTerminal(out, true); err != nil {
		t.Errorf("expected forced preview to a file, got %v", err)
	}
}
