// Package cli holds the flags and sink setup shared by the commands.
package cli

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/BeatGlow/oled"
)

// Flags select and configure a sink.
type Flags struct {
	bus     *string
	driver  *string
	width   *int
	height  *int
	i2cBus  *string
	i2cAddr *uint
	spiPort *string
	spiHz   *int64
	reset   *string
	dc      *string
	rotate  *string
	force   *bool
}

// RegisterFlags adds the sink flags to fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	return &Flags{
		bus:     fs.String("bus", "i2c", "Panel bus: i2c or spi"),
		driver:  fs.String("driver", "ssd1306", "Panel driver: ssd1306, sh1106 or ssd1305"),
		width:   fs.Int("width", 0, "Panel width"),
		height:  fs.Int("height", 0, "Panel height"),
		i2cBus:  fs.String("i2c-bus", "", "I²C bus name (default: use first available)"),
		i2cAddr: fs.Uint("i2c-addr", uint(oled.DefaultI2CConfig.Addr), "I²C device address"),
		spiPort: fs.String("spi-port", "", "SPI port name (default: use first available)"),
		spiHz:   fs.Int64("spi-hz", oled.DefaultSPIConfig.SpeedHz, "SPI speed in Hz"),
		reset:   fs.String("reset", "GPIO25", "Reset GPIO pin"),
		dc:      fs.String("dc", "GPIO24", "Data/Command GPIO pin (DC)"),
		rotate:  fs.String("rotate", "", "Panel rotation: 0 or 180"),
		force:   fs.Bool("force", false, "Use the terminal preview even if stdout is not a terminal"),
	}
}

// Open returns the sink called name: apex, panel or terminal.
func Open(name string, flags *Flags) (oled.Sink, error) {
	switch name {
	case "apex":
		return oled.OpenApex()
	case "panel":
		return openPanel(flags)
	case "terminal":
		return oled.NewTerminal(os.Stdout, *flags.force)
	default:
		return nil, fmt.Errorf("unsupported sink %q", name)
	}
}

func openPanel(flags *Flags) (*oled.PanelSink, error) {
	rotation, err := oled.ParseRotation(*flags.rotate)
	if err != nil {
		return nil, err
	}
	if _, err = host.Init(); err != nil {
		return nil, err
	}

	var conn oled.Conn
	switch bus := *flags.bus; bus {
	case "i2c":
		conn, err = oled.OpenI2C(&oled.I2CConfig{
			Bus:   *flags.i2cBus,
			Addr:  uint16(*flags.i2cAddr),
			Reset: gpioreg.ByName(*flags.reset),
		})
	case "spi":
		conn, err = oled.OpenSPI(&oled.SPIConfig{
			Port:    *flags.spiPort,
			SpeedHz: *flags.spiHz,
			Reset:   gpioreg.ByName(*flags.reset),
			DC:      gpioreg.ByName(*flags.dc),
		})
	default:
		err = fmt.Errorf("unsupported bus type %q", bus)
	}
	if err != nil {
		return nil, err
	}

	var (
		config = &oled.Config{Width: *flags.width, Height: *flags.height}
		panel  oled.Panel
	)
	switch driver := strings.ToLower(*flags.driver); driver {
	case "ssd1306":
		panel, err = oled.SSD1306(conn, config)
	case "sh1106":
		panel, err = oled.SH1106(conn, config)
	case "ssd1305":
		panel, err = oled.SSD1305(conn, config)
	default:
		err = fmt.Errorf("unsupported driver %q", driver)
	}
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return oled.NewPanelSink(panel, rotation)
}
