//go:build !jn5189

package periph

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"lowpower-go/drivers/jn5189"
	"lowpower-go/errcode"
	"lowpower-go/power"
)

var (
	_ power.Console    = (*Console)(nil)
	_ power.Peripheral = (*Console)(nil)
	_ power.Peripheral = (*I2CPort)(nil)
	_ power.Peripheral = (*SPIPort)(nil)
)

type syncBuf struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *syncBuf) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuf) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

func TestConsole_FlushAndDeinit(t *testing.T) {
	sim := jn5189.NewSim()
	var out syncBuf
	c := NewConsole(&out, sim, 64)

	if _, err := c.Write([]byte("hello ")); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Write([]byte("world")); err != nil {
		t.Fatal(err)
	}
	if err := c.Deinit(); err != nil {
		t.Fatal(err)
	}
	if out.String() != "hello world" {
		t.Fatalf("sink = %q", out.String())
	}
	if _, err := c.Write([]byte("x")); !errors.Is(err, errcode.ClockGated) {
		t.Fatalf("write after deinit err = %v", err)
	}
	if c.Dropped() != 1 {
		t.Fatalf("dropped = %d", c.Dropped())
	}
	_ = c.Init()
	if _, err := c.Write([]byte("again")); err != nil {
		t.Fatal(err)
	}
	_ = c.Flush()
	if out.String() != "hello worldagain" {
		t.Fatalf("sink = %q", out.String())
	}
}

func TestConsole_OverflowDrops(t *testing.T) {
	var out syncBuf
	c := NewConsole(&out, jn5189.NewSim(), 8)
	n, err := c.Write([]byte("0123456789"))
	if err != nil || n != 10 {
		t.Fatalf("Write = %d, %v", n, err)
	}
	if c.Pending() != 8 || c.Dropped() != 2 {
		t.Fatalf("pending=%d dropped=%d", c.Pending(), c.Dropped())
	}
}

func TestConsole_RunPumps(t *testing.T) {
	var out syncBuf
	c := NewConsole(&out, jn5189.NewSim(), 0)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { c.Run(ctx); close(done) }()

	_, _ = c.Write([]byte("pumped"))
	deadline := time.Now().Add(time.Second)
	for out.String() != "pumped" {
		if time.Now().After(deadline) {
			t.Fatalf("sink = %q", out.String())
		}
		time.Sleep(time.Millisecond)
	}
	cancel()
	<-done
}

func TestConsole_GatesUSART0(t *testing.T) {
	sim := jn5189.NewSim()
	c := NewConsole(&bytes.Buffer{}, sim, 0)
	_ = c.GateClock()
	if sim.ClockOn(jn5189.ClockUSART0) {
		t.Fatal("usart0 clock still on")
	}
	_ = c.UngateClock()
	if !sim.ClockOn(jn5189.ClockUSART0) {
		t.Fatal("usart0 clock still off")
	}
	if c.Name() != "usart0" {
		t.Fatalf("Name = %q", c.Name())
	}
}

func TestI2CPort_ClockGated(t *testing.T) {
	sim := jn5189.NewSim()
	bus := jn5189.NewSimBus()
	p := NewI2CPort(bus, sim)

	if err := p.Tx(0x38, []byte{0x71}, make([]byte, 1)); err != nil {
		t.Fatal(err)
	}
	_ = p.GateClock()
	if sim.ClockOn(jn5189.ClockI2C0) || !p.Gated() {
		t.Fatal("i2c0 not gated")
	}
	if err := p.Tx(0x38, []byte{0x71}, nil); !errors.Is(err, errcode.ClockGated) {
		t.Fatalf("gated Tx err = %v", err)
	}
	_ = p.UngateClock()
	if err := p.Tx(0x38, nil, make([]byte, 2)); err != nil {
		t.Fatal(err)
	}
	if n := len(bus.Log()); n != 2 {
		t.Fatalf("bus saw %d transactions, want 2", n)
	}
}

func TestSPIPort_ClockGated(t *testing.T) {
	sim := jn5189.NewSim()
	bus := jn5189.NewSimBus()
	bus.Fill = 0xA5
	p := NewSPIPort(bus.SPI(), sim)

	got, err := p.Transfer(0x9F)
	if err != nil || got != 0xA5 {
		t.Fatalf("Transfer = %#x, %v", got, err)
	}
	_ = p.GateClock()
	if _, err := p.Transfer(0x9F); !errors.Is(err, errcode.ClockGated) {
		t.Fatalf("gated Transfer err = %v", err)
	}
	if sim.ClockOn(jn5189.ClockSPI0) {
		t.Fatal("spi0 clock still on")
	}
}

func TestHandoff_GatesComm0Peripherals(t *testing.T) {
	sim := jn5189.NewSim()
	var out syncBuf
	con := NewConsole(&out, sim, 0)
	i2c := NewI2CPort(jn5189.NewSimBus(), sim)
	c := power.New(sim, power.Options{
		Trim:    power.NewTrimResolver(sim),
		Console: con,
		Comm0:   []power.Peripheral{con, i2c},
	})

	sim.SetPendingIRQ(true)
	_, _ = con.Write([]byte("bye\n"))
	err := c.EnterPowerMode(power.PowerDown, power.Request{})
	if !errors.Is(err, errcode.Aborted) {
		t.Fatalf("err = %v", err)
	}
	if out.String() != "bye\n" {
		t.Fatalf("console not flushed before entry: %q", out.String())
	}
	if !con.Ready() || i2c.Gated() || !sim.ClockOn(jn5189.ClockI2C0) {
		t.Fatal("abort did not restore COMM0")
	}
}

type brokenSink struct{}

func (brokenSink) Write([]byte) (int, error) { return 0, errors.New("tx fifo stuck") }

func TestHandoff_ConsoleSinkFailureRestores(t *testing.T) {
	sim := jn5189.NewSim()
	con := NewConsole(brokenSink{}, sim, 0)
	i2c := NewI2CPort(jn5189.NewSimBus(), sim)
	c := power.New(sim, power.Options{
		Trim:    power.NewTrimResolver(sim),
		Console: con,
		Comm0:   []power.Peripheral{con, i2c},
	})

	_, _ = con.Write([]byte("bye\n"))
	if err := c.EnterPowerMode(power.PowerDown, power.Request{}); err == nil {
		t.Fatal("want error from a stuck console")
	}
	if len(sim.Entered()) != 0 {
		t.Fatal("sequencer ran with a stuck console")
	}
	if !con.Ready() {
		t.Fatal("console left deinitialised")
	}
	if i2c.Gated() || sim.DCBusDisabled() || sim.FastLDOEnabled() {
		t.Fatal("pre-entry state not restored")
	}
}
