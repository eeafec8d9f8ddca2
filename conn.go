package oled

import (
	"errors"
	"fmt"
	"io"

	"periph.io/x/conn/v3/gpio"

	"github.com/BeatGlow/oled/conn"
)

// Conn errors.
var (
	ErrResetPin = errors.New("oled: reset GPIO pin is invalid")
	ErrDCPin    = errors.New("oled: data/command (DC) GPIO pin is invalid")
)

// Conn is the connection interface for communicating with a panel controller.
type Conn interface {
	String() string

	// Close the connection.
	Close() error

	// Reset sets the reset pin to the provided level.
	Reset(gpio.Level) error

	// Command sends a command byte with optional arguments.
	Command(byte, ...byte) error

	// Data sends data bytes.
	Data(...byte) error
}

type writeCloser interface {
	io.WriteCloser
	fmt.Stringer
}

// I2CConfig describes the I²C bus configuration.
type I2CConfig struct {
	// Bus is the I²C bus name, empty to use the first available bus.
	Bus string

	// Addr is the I²C address.
	Addr uint16

	// Reset pin, optional.
	Reset gpio.PinOut
}

// DefaultI2CConfig is used by OpenI2C when config is nil.
var DefaultI2CConfig = I2CConfig{
	Addr: 0x3c,
}

type i2cConn struct {
	bus   writeCloser
	reset gpio.PinOut
}

// OpenI2C connects to a panel on an I²C bus.
func OpenI2C(config *I2CConfig) (Conn, error) {
	if config == nil {
		config = new(I2CConfig)
		*config = DefaultI2CConfig
	}
	if config.Addr == 0 {
		config.Addr = DefaultI2CConfig.Addr
	}

	c, err := conn.OpenI2C(config.Bus, config.Addr)
	if err != nil {
		return nil, err
	}

	return &i2cConn{
		bus:   c,
		reset: config.Reset,
	}, nil
}

func (c *i2cConn) String() string {
	return c.bus.String()
}

func (c *i2cConn) Close() error {
	return c.bus.Close()
}

// Command prefixes the bytes with the control byte for a command stream.
func (c *i2cConn) Command(cmnd byte, args ...byte) (err error) {
	_, err = c.bus.Write(append([]byte{0x00, cmnd}, args...))
	return
}

// Data prefixes the bytes with the control byte for a data stream.
func (c *i2cConn) Data(data ...byte) (err error) {
	_, err = c.bus.Write(append([]byte{0x40}, data...))
	return
}

func (c *i2cConn) Reset(level gpio.Level) error {
	if c.reset == nil || c.reset == gpio.INVALID {
		return nil
	}
	return c.reset.Out(level)
}

// SPIConfig describes the SPI bus configuration.
type SPIConfig struct {
	// Port is the SPI port name, empty to use the first available port.
	Port    string
	Mode    conn.SPIMode
	SpeedHz int64
	DataLow bool
	Reset   gpio.PinOut
	DC      gpio.PinOut
}

// DefaultSPIConfig are the default configuration values.
var DefaultSPIConfig = SPIConfig{
	Mode:    conn.SPIMode0,
	SpeedHz: 8_000_000,
}

type spiConn struct {
	bus     writeCloser
	reset   gpio.PinOut
	dc      gpio.PinOut
	dcLevel gpio.Level
	dcSet   bool
	dataLow bool
}

// OpenSPI connects to a panel on an SPI port. The panel needs a reset and a data/command pin.
func OpenSPI(config *SPIConfig) (Conn, error) {
	if config == nil {
		config = new(SPIConfig)
		*config = DefaultSPIConfig
	}
	if config.Reset == nil || config.Reset == gpio.INVALID {
		return nil, ErrResetPin
	}
	if config.DC == nil || config.DC == gpio.INVALID {
		return nil, ErrDCPin
	}
	if config.SpeedHz == 0 {
		config.SpeedHz = DefaultSPIConfig.SpeedHz
	}

	c, err := conn.OpenSPI(config.Port, config.SpeedHz, config.Mode)
	if err != nil {
		return nil, err
	}

	return &spiConn{
		bus:     c,
		reset:   config.Reset,
		dc:      config.DC,
		dataLow: config.DataLow,
	}, nil
}

func (c *spiConn) String() string {
	return c.bus.String()
}

func (c *spiConn) Close() error {
	return c.bus.Close()
}

func (c *spiConn) Reset(level gpio.Level) error {
	return c.reset.Out(level)
}

func (c *spiConn) updateDC(level gpio.Level) error {
	if !c.dcSet || c.dcLevel != level {
		if err := c.dc.Out(level); err != nil {
			return err
		}
		c.dcLevel, c.dcSet = level, true
	}
	return nil
}

func (c *spiConn) Command(cmnd byte, data ...byte) (err error) {
	if err = c.updateDC(gpio.Level(c.dataLow)); err != nil {
		return
	}
	_, err = c.bus.Write(append([]byte{cmnd}, data...))
	return
}

func (c *spiConn) Data(data ...byte) (err error) {
	if len(data) == 0 {
		return
	}
	if err = c.updateDC(gpio.Level(!c.dataLow)); err != nil {
		return
	}
	_, err = c.bus.Write(data)
	return
}
