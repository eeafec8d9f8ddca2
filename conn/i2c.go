// Package conn opens the serial buses OLED panels are attached to.
package conn

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
)

// I2C is a device on an I²C bus.
type I2C struct {
	bus i2c.BusCloser
	dev *i2c.Dev
}

// OpenI2C opens the named I²C bus, use an empty name for the first available bus.
func OpenI2C(name string, addr uint16) (*I2C, error) {
	bus, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("conn: error opening I²C bus %q: %w", name, err)
	}

	return &I2C{
		bus: bus,
		dev: &i2c.Dev{Bus: bus, Addr: addr},
	}, nil
}

func (c *I2C) String() string {
	return fmt.Sprintf("I²C bus %s address %#02x", c.bus, c.dev.Addr)
}

func (c *I2C) Close() error {
	return c.bus.Close()
}

func (c *I2C) Write(p []byte) (int, error) {
	if err := c.dev.Tx(p, nil); err != nil {
		return 0, err
	}
	return len(p), nil
}
