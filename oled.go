// Package oled contains the sinks that show frames: SteelSeries keyboard screens, I²C/SPI OLED
// panels and a terminal preview.
package oled

import (
	"errors"

	"github.com/BeatGlow/oled/pixel"
	"github.com/BeatGlow/oled/scheduler"
)

// Errors
var (
	ErrNoDevice    = errors.New("oled: no supported device found")
	ErrRotation    = errors.New("oled: rotation not supported")
	ErrNotTerminal = errors.New("oled: output is not a terminal")
	ErrTooSmall    = errors.New("oled: terminal too small")
	ErrClosed      = errors.New("oled: device closed")
)

// Rotation defines pixel rotation.
type Rotation uint8

// Supported rotations.
const (
	NoRotation Rotation = iota
	Rotate90            // Rotate 90° clock wise
	Rotate180           // Rotate 180°
	Rotate270           // Rotate 270° clock wise
)

func (r Rotation) String() string {
	switch r % 4 {
	case Rotate90:
		return "90°"
	case Rotate180:
		return "180°"
	case Rotate270:
		return "270°"
	default:
		return "0°"
	}
}

// ParseRotation parses "0", "180", "flip" and friends.
func ParseRotation(s string) (Rotation, error) {
	switch s {
	case "", "no", "0":
		return NoRotation, nil
	case "90", "right", "cw":
		return Rotate90, nil
	case "180", "flip":
		return Rotate180, nil
	case "270", "left", "ccw":
		return Rotate270, nil
	default:
		return NoRotation, ErrRotation
	}
}

// Sink is a device frames are drawn on.
type Sink = scheduler.Device

// Filler is implemented by sinks that can light up every pixel, used for testing hardware.
type Filler interface {
	Fill() error
}

func allOn() pixel.FrameBuffer {
	frame := pixel.NewFrameBuffer()
	frame.Fill(pixel.On)
	return frame
}

// Interface checks.
var (
	_ Sink   = (*Apex)(nil)
	_ Sink   = (*PanelSink)(nil)
	_ Sink   = (*Terminal)(nil)
	_ Filler = (*Apex)(nil)
	_ Filler = (*PanelSink)(nil)
	_ Filler = (*Terminal)(nil)
)
