package oled

import (
	"image"
	"image/color"
	"time"

	"periph.io/x/conn/v3/gpio"

	"github.com/BeatGlow/oled/pixel"
)

// Panel is a monochrome OLED panel with an in-memory page buffer.
type Panel interface {
	// Close turns the panel off and closes the connection.
	Close() error

	// Clear the page buffer.
	Clear()

	// At returns the color of the pixel at (x, y).
	At(x, y int) color.Color

	// Set the pixel color at (x, y).
	Set(x, y int, c color.Color)

	// Bounds is the display bounding box (dimensions).
	Bounds() image.Rectangle

	// ColorModel used by the display.
	ColorModel() color.Model

	// Show toggles the display on or off.
	Show(bool) error

	// SetContrast adjusts the contrast level.
	SetContrast(level uint8) error

	// Refresh sends the page buffer to the panel.
	Refresh() error
}

// Config is the panel configuration.
type Config struct {
	// Width of the panel in pixels.
	Width int

	// Height of the panel in pixels.
	Height int
}

// monoDisplay is the base of the page addressed panels.
type monoDisplay struct {
	*pixel.VerticalImage
	c      Conn
	halted bool
}

func (d *monoDisplay) init(config *Config) {
	d.VerticalImage = pixel.NewVerticalImage(config.Width, config.Height)
}

// reset pulses the reset line of the controller.
func (d *monoDisplay) reset() (err error) {
	for _, level := range []gpio.Level{gpio.High, gpio.Low, gpio.High} {
		if err = d.c.Reset(level); err != nil {
			return
		}
		time.Sleep(time.Millisecond)
	}
	return
}

func (d *monoDisplay) data(data ...byte) error {
	return d.c.Data(data...)
}

func (d *monoDisplay) command(command byte, data ...byte) error {
	return d.c.Command(command, data...)
}

func (d *monoDisplay) Close() error {
	if !d.halted {
		if err := d.Show(false); err != nil {
			_ = d.c.Close()
			return err
		}
		d.halted = true
	}
	return d.c.Close()
}

func (d *monoDisplay) Show(show bool) error {
	if show {
		return d.command(ssd1xxxSetDisplayOn)
	}
	return d.command(ssd1xxxSetDisplayOff)
}

func (d *monoDisplay) SetContrast(level uint8) error {
	return d.command(ssd1xxxSetContrast, level)
}
