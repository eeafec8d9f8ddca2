package oled

import (
	"fmt"
)

const (
	sh1106DefaultWidth  = 128
	sh1106DefaultHeight = 64

	// The SH1106 has 132 columns of RAM, 128 wide panels start at column 2.
	sh1106ColumnOffset = 2
)

type sh1106 struct {
	monoDisplay
	pages int
}

// SH1106 is a driver for the Sino Wealth SH1106 OLED controller.
func SH1106(conn Conn, config *Config) (Panel, error) {
	d := &sh1106{
		monoDisplay: monoDisplay{
			c: conn,
		},
	}

	if config == nil {
		config = new(Config)
	}
	if config.Width == 0 {
		config.Width = sh1106DefaultWidth
	}
	if config.Height == 0 {
		config.Height = sh1106DefaultHeight
	}

	if err := d.init(config); err != nil {
		return nil, err
	}

	return d, nil
}

func (d *sh1106) String() string {
	bounds := d.Bounds()
	return fmt.Sprintf("SH1106 OLED %dx%d", bounds.Dx(), bounds.Dy())
}

func (d *sh1106) init(config *Config) (err error) {
	var (
		multiplexRatio byte
		displayOffset  byte
	)
	switch {
	case config.Width == 128 && config.Height == 32:
		multiplexRatio, displayOffset = 0x1f, 0x0f
	case config.Width == 128 && config.Height == 64:
		multiplexRatio, displayOffset = 0x3f, 0x00
	case config.Width == 128 && config.Height == 128:
		multiplexRatio, displayOffset = 0x7f, 0x02
	default:
		return fmt.Errorf("oled: SH1106 unsupported size %dx%d", config.Width, config.Height)
	}

	d.pages = config.Height >> 3
	d.monoDisplay.init(config)

	if err = d.reset(); err != nil {
		return
	}
	if err = d.command(
		ssd1xxxSetDisplayOff,
		ssd1xxxSetMemoryMode,
		ssd1xxxSetStartLine,
		ssd1xxxSetSegmentRemap,
		ssd1xxxSetComScanDec,
		ssd1xxxSetNormalDisplay,
		ssd1xxxSetMultiplexRatio, multiplexRatio,
		ssd1xxxSetDisplayAllOnResume,
		ssd1xxxSetDisplayOffset, displayOffset,
		ssd1xxxSetDisplayClockDiv, 0xF0,
		ssd1xxxSetPrecharge, 0x22,
		ssd1xxxSetComPins, 0x12,
		ssd1xxxSetVCOMDeselect, 0x20,
		ssd1xxxSetChargePump, 0x14,
	); err != nil {
		return
	}

	if err = d.SetContrast(0x7F); err != nil {
		return
	}
	if err = d.Refresh(); err != nil {
		return
	}
	return d.Show(true)
}

func (d *sh1106) Refresh() (err error) {
	for page := 0; page < d.pages; page++ {
		if err = d.command(
			ssd1xxxSetPageStart|byte(page&0xf),
			ssd1xxxSetLowColumn|sh1106ColumnOffset,
			ssd1xxxSetHighColumn,
		); err != nil {
			return
		}
		if err = d.data(d.Page(page)...); err != nil {
			return
		}
	}
	return
}
