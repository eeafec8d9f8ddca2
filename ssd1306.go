package oled

import (
	"fmt"
)

const (
	ssd1306DefaultWidth  = 128
	ssd1306DefaultHeight = 64
)

type ssd1306 struct {
	monoDisplay
	pages    int
	colStart byte
	colEnd   byte
}

// SSD1306 is a driver for the Solomon Systech SSD1306 OLED controller.
func SSD1306(conn Conn, config *Config) (Panel, error) {
	d := &ssd1306{
		monoDisplay: monoDisplay{
			c: conn,
		},
	}

	if config == nil {
		config = new(Config)
	}
	if config.Width == 0 {
		config.Width = ssd1306DefaultWidth
	}
	if config.Height == 0 {
		config.Height = ssd1306DefaultHeight
	}

	if err := d.init(config); err != nil {
		return nil, err
	}

	return d, nil
}

func (d *ssd1306) String() string {
	bounds := d.Bounds()
	return fmt.Sprintf("SSD1306 OLED %dx%d", bounds.Dx(), bounds.Dy())
}

func (d *ssd1306) init(config *Config) (err error) {
	var (
		multiplexRatio  = byte(config.Height - 1)
		displayClockDiv byte
		comPins         byte
		colStart        byte
	)
	switch {
	case config.Width == 64 && config.Height == 32:
		displayClockDiv, comPins, colStart = 0x80, 0x12, 32
	case config.Width == 64 && config.Height == 48:
		displayClockDiv, comPins, colStart = 0x80, 0x12, 32
	case config.Width == 96 && config.Height == 16:
		displayClockDiv, comPins, colStart = 0x60, 0x02, 0
	case config.Width == 128 && config.Height == 32:
		displayClockDiv, comPins, colStart = 0x80, 0x02, 0
	case config.Width == 128 && config.Height == 64:
		displayClockDiv, comPins, colStart = 0x80, 0x12, 0
	default:
		return fmt.Errorf("oled: SSD1306 unsupported size %dx%d", config.Width, config.Height)
	}

	d.pages = config.Height >> 3
	d.colStart = colStart
	d.colEnd = colStart + byte(config.Width)
	d.monoDisplay.init(config)

	if err = d.reset(); err != nil {
		return
	}
	if err = d.command(
		ssd1xxxSetDisplayOff,
		ssd1xxxSetDisplayClockDiv, displayClockDiv,
		ssd1xxxSetMultiplexRatio, multiplexRatio,
		ssd1xxxSetDisplayOffset, 0x00,
		ssd1xxxSetStartLine,
		ssd1xxxSetChargePump, 0x14,
		ssd1xxxSetMemoryMode, 0x00,
		ssd1xxxSetSegmentRemap,
		ssd1xxxSetComScanDec,
		ssd1xxxSetComPins, comPins,
		ssd1xxxSetPrecharge, 0xF1,
		ssd1xxxSetVCOMDeselect, 0x40,
		ssd1xxxSetDisplayAllOnResume,
		ssd1xxxSetNormalDisplay,
	); err != nil {
		return
	}

	if err = d.SetContrast(0xCF); err != nil {
		return
	}
	if err = d.Refresh(); err != nil {
		return
	}
	return d.Show(true)
}

func (d *ssd1306) Refresh() (err error) {
	for page := 0; page < d.pages; page++ {
		if err = d.command(
			ssd1xxxSetColumnAddr, d.colStart, d.colEnd-1,
			ssd1xxxSetPageAddr, byte(page), byte(page),
		); err != nil {
			return
		}
		if err = d.data(d.Page(page)...); err != nil {
			return
		}
	}
	return
}
