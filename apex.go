package oled

import (
	"errors"
	"fmt"
	"slices"

	"github.com/sstallion/go-hid"

	"github.com/BeatGlow/oled/pixel"
)

// SteelSeriesVendorID is the USB vendor of the supported keyboards.
const SteelSeriesVendorID = 0x1038

// SupportedProducts are the USB product IDs of keyboards with a 128x40 screen.
var SupportedProducts = []uint16{
	0x1614, // Apex Pro
	0x1612, // Apex 7
	0x1610,
	0x1618,
	0x161C,
}

// apexInterface is the HID interface that accepts screen reports.
const apexInterface = 1

var errFound = errors.New("found")

type featureReporter interface {
	SendFeatureReport([]byte) (int, error)
	Close() error
}

// Apex shows frames on the screen of a SteelSeries Apex keyboard. The frame buffer is sent as is
// in a HID feature report.
type Apex struct {
	dev    featureReporter
	name   string
	exit   func() error
	closed bool
}

// OpenApex opens the first supported keyboard. Access to the hidraw device usually needs a udev
// rule.
func OpenApex() (*Apex, error) {
	if err := hid.Init(); err != nil {
		return nil, fmt.Errorf("oled: error initializing HID: %w", err)
	}

	var found *hid.DeviceInfo
	err := hid.Enumerate(SteelSeriesVendorID, hid.ProductIDAny, func(info *hid.DeviceInfo) error {
		if info.InterfaceNbr == apexInterface && slices.Contains(SupportedProducts, info.ProductID) {
			found = info
			return errFound
		}
		return nil
	})
	if err != nil && !errors.Is(err, errFound) {
		_ = hid.Exit()
		return nil, fmt.Errorf("oled: error enumerating HID devices: %w", err)
	}
	if found == nil {
		_ = hid.Exit()
		return nil, ErrNoDevice
	}

	dev, err := hid.OpenPath(found.Path)
	if err != nil {
		_ = hid.Exit()
		return nil, fmt.Errorf("oled: error opening %s: %w", found.Path, err)
	}
	return &Apex{
		dev:  dev,
		name: fmt.Sprintf("%s %s (%04x:%04x)", found.MfrStr, found.ProductStr, found.VendorID, found.ProductID),
		exit: hid.Exit,
	}, nil
}

func (d *Apex) String() string {
	return d.name
}

// Draw sends frame to the keyboard.
func (d *Apex) Draw(frame pixel.FrameBuffer) error {
	if d.closed {
		return ErrClosed
	}
	report := frame.Bytes()
	n, err := d.dev.SendFeatureReport(report)
	if err != nil {
		return fmt.Errorf("oled: error sending report: %w", err)
	}
	if n < len(report) {
		return fmt.Errorf("oled: short report write of %d/%d bytes", n, len(report))
	}
	return nil
}

// Clear blanks the screen.
func (d *Apex) Clear() error {
	return d.Draw(pixel.NewFrameBuffer())
}

// Fill lights every pixel.
func (d *Apex) Fill() error {
	return d.Draw(allOn())
}

// Shutdown blanks the screen and releases the device.
func (d *Apex) Shutdown() error {
	if d.closed {
		return nil
	}
	err := d.Clear()
	d.closed = true
	if closeErr := d.dev.Close(); closeErr != nil {
		err = errors.Join(err, closeErr)
	}
	if d.exit != nil {
		_ = d.exit()
	}
	return err
}
