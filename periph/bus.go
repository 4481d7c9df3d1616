package periph

import (
	"sync/atomic"

	"tinygo.org/x/drivers"

	"lowpower-go/drivers/jn5189"
	"lowpower-go/errcode"
)

var (
	_ drivers.I2C = (*I2CPort)(nil)
	_ drivers.SPI = (*SPIPort)(nil)
)

// port is the gating state shared by the bus wrappers.
type port struct {
	clk   jn5189.Clock
	gate  ClockGate
	gated atomic.Bool
}

func (p *port) Name() string { return p.clk.String() }

func (p *port) GateClock() error {
	p.gated.Store(true)
	p.gate.SetPeripheralClock(p.clk, false)
	return nil
}

func (p *port) UngateClock() error {
	p.gate.SetPeripheralClock(p.clk, true)
	p.gated.Store(false)
	return nil
}

func (p *port) Gated() bool { return p.gated.Load() }

func (p *port) check(op string) error {
	if p.gated.Load() {
		return errcode.New(errcode.ClockGated, op, p.clk.String())
	}
	return nil
}

// I2CPort is I2C0 with clock gating. Transfers fail with clock_gated while
// the domain is off.
type I2CPort struct {
	port
	bus drivers.I2C
}

func NewI2CPort(bus drivers.I2C, gate ClockGate) *I2CPort {
	return &I2CPort{port: port{clk: jn5189.ClockI2C0, gate: gate}, bus: bus}
}

func (p *I2CPort) Tx(addr uint16, w, r []byte) error {
	if err := p.check("i2c_tx"); err != nil {
		return err
	}
	return p.bus.Tx(addr, w, r)
}

// SPIPort is SPI0 with clock gating.
type SPIPort struct {
	port
	bus drivers.SPI
}

func NewSPIPort(bus drivers.SPI, gate ClockGate) *SPIPort {
	return &SPIPort{port: port{clk: jn5189.ClockSPI0, gate: gate}, bus: bus}
}

func (p *SPIPort) Tx(w, r []byte) error {
	if err := p.check("spi_tx"); err != nil {
		return err
	}
	return p.bus.Tx(w, r)
}

func (p *SPIPort) Transfer(b byte) (byte, error) {
	if err := p.check("spi_transfer"); err != nil {
		return 0, err
	}
	return p.bus.Transfer(b)
}
