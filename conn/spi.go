package conn

import (
	"fmt"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
)

// SPIMode is the clock polarity and phase.
type SPIMode = spi.Mode

// Supported SPI modes.
const (
	SPIMode0 = spi.Mode0
	SPIMode1 = spi.Mode1
	SPIMode2 = spi.Mode2
	SPIMode3 = spi.Mode3
)

// DefaultSPIBatchSize is used when the port does not report its maximum transfer size.
const DefaultSPIBatchSize = 4096

// SPI is a device on an SPI port.
type SPI struct {
	port      spi.PortCloser
	conn      spi.Conn
	speed     physic.Frequency
	mode      SPIMode
	batchSize int
}

// OpenSPI opens the named SPI port, use an empty name for the first available port.
func OpenSPI(name string, hz int64, mode SPIMode) (*SPI, error) {
	port, err := spireg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("conn: error opening SPI port %q: %w", name, err)
	}

	speed := physic.Frequency(hz) * physic.Hertz
	c, err := port.Connect(speed, mode, 8)
	if err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("conn: error connecting to SPI port %q: %w", name, err)
	}

	batchSize := DefaultSPIBatchSize
	if limits, ok := c.(conn.Limits); ok && limits.MaxTxSize() > 0 {
		batchSize = limits.MaxTxSize()
	}

	return &SPI{
		port:      port,
		conn:      c,
		speed:     speed,
		mode:      mode,
		batchSize: batchSize,
	}, nil
}

func (c *SPI) String() string {
	return fmt.Sprintf("SPI port %s mode=%d speed=%s", c.port, c.mode, c.speed)
}

func (c *SPI) Close() error {
	return c.port.Close()
}

// Write sends p in chunks no larger than the port's maximum transfer size.
func (c *SPI) Write(p []byte) (n int, err error) {
	for len(p) > 0 {
		chunk := p
		if len(chunk) > c.batchSize {
			chunk = chunk[:c.batchSize]
		}
		if err = c.conn.Tx(chunk, nil); err != nil {
			return
		}
		n += len(chunk)
		p = p[len(chunk):]
	}
	return
}
