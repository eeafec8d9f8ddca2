package oled

import (
	"fmt"
)

const (
	ssd1305DefaultWidth    = 128
	ssd1305DefaultHeight   = 32
	ssd1305SetLUT          = 0x91
	ssd1305SetMasterConfig = 0xAD
	ssd1305SetAreaColor    = 0xD8

	// The SSD1305 has 132 columns of RAM, 128 wide panels start at column 4.
	ssd1305ColumnOffset = 4
)

type ssd1305 struct {
	monoDisplay
	pages int
}

// SSD1305 is a driver for the Solomon Systech SSD1305 OLED controller.
func SSD1305(conn Conn, config *Config) (Panel, error) {
	d := &ssd1305{
		monoDisplay: monoDisplay{
			c: conn,
		},
	}

	if config == nil {
		config = new(Config)
	}
	if config.Width == 0 {
		config.Width = ssd1305DefaultWidth
	}
	if config.Height == 0 {
		config.Height = ssd1305DefaultHeight
	}

	if err := d.init(config); err != nil {
		return nil, err
	}

	return d, nil
}

func (d *ssd1305) String() string {
	bounds := d.Bounds()
	return fmt.Sprintf("SSD1305 OLED %dx%d", bounds.Dx(), bounds.Dy())
}

func (d *ssd1305) init(config *Config) (err error) {
	var comPins byte
	switch {
	case config.Width == 128 && config.Height == 32:
		comPins = 0x12
	case config.Width == 128 && config.Height == 64:
		comPins = 0x12
	default:
		return fmt.Errorf("oled: SSD1305 unsupported size %dx%d", config.Width, config.Height)
	}

	d.pages = config.Height >> 3
	d.monoDisplay.init(config)

	if err = d.reset(); err != nil {
		return
	}
	if err = d.command(
		ssd1xxxSetDisplayOff,
		ssd1xxxSetDisplayClockDiv, 0xF0,
		ssd1xxxSetMultiplexRatio, byte(config.Height-1),
		ssd1xxxSetDisplayOffset, 0x00,
		ssd1xxxSetStartLine,
		ssd1305SetMasterConfig, 0x8E,
		ssd1305SetAreaColor, 0x05,
		ssd1xxxSetMemoryMode, 0x02,
		ssd1xxxSetSegmentRemap,
		ssd1xxxSetComScanDec,
		ssd1xxxSetComPins, comPins,
		ssd1305SetLUT, 0x3F, 0x3F, 0x3F, 0x3F,
		ssd1xxxSetPrecharge, 0xD2,
		ssd1xxxSetVCOMDeselect, 0x34,
		ssd1xxxSetDisplayAllOnResume,
		ssd1xxxSetNormalDisplay,
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

func (d *ssd1305) Refresh() (err error) {
	for page := 0; page < d.pages; page++ {
		if err = d.command(
			ssd1xxxSetPageStart|byte(page&0x7),
			ssd1xxxSetLowColumn|ssd1305ColumnOffset,
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
