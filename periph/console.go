package periph

import (
	"context"
	"io"
	"sync"
	"sync/atomic"

	"lowpower-go/drivers/jn5189"
	"lowpower-go/errcode"
	"lowpower-go/x/ring"
)

const (
	DefaultConsoleBuf = 1024
	chunk             = 64
)

// Console is the buffered debug console on USART0. Writes land in a ring
// and are drained to the sink by Run or Flush. While deinitialised, writes
// are counted as dropped.
type Console struct {
	tx   *ring.Ring
	sink io.Writer
	gate ClockGate

	wmu sync.Mutex // single producer
	rmu sync.Mutex // single consumer

	up      atomic.Bool
	dropped atomic.Uint32
}

// NewConsole returns a live console. size must be a power of two; zero
// picks DefaultConsoleBuf.
func NewConsole(sink io.Writer, gate ClockGate, size int) *Console {
	if size == 0 {
		size = DefaultConsoleBuf
	}
	c := &Console{tx: ring.New(size), sink: sink, gate: gate}
	c.up.Store(true)
	return c
}

// Write never blocks. Bytes that do not fit are dropped.
func (c *Console) Write(p []byte) (int, error) {
	if !c.up.Load() {
		c.dropped.Add(uint32(len(p)))
		return 0, errcode.New(errcode.ClockGated, "console_write", "")
	}
	c.wmu.Lock()
	n := c.tx.TryWriteFrom(p)
	c.wmu.Unlock()
	if n < len(p) {
		c.dropped.Add(uint32(len(p) - n))
	}
	return len(p), nil
}

// Dropped counts bytes lost to a full ring or a gated console.
func (c *Console) Dropped() uint32 { return c.dropped.Load() }

// Pending is the number of buffered bytes.
func (c *Console) Pending() int { return c.tx.Available() }

func (c *Console) drain() error {
	c.rmu.Lock()
	defer c.rmu.Unlock()
	var buf [chunk]byte
	for {
		n := c.tx.TryReadInto(buf[:])
		if n == 0 {
			return nil
		}
		if _, err := c.sink.Write(buf[:n]); err != nil {
			return err
		}
	}
}

// Run pumps the ring to the sink until ctx ends.
func (c *Console) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			_ = c.drain()
			return
		case <-c.tx.Readable():
			if c.up.Load() {
				_ = c.drain()
			}
		}
	}
}

// Flush drains synchronously.
func (c *Console) Flush() error {
	if err := c.drain(); err != nil {
		return errcode.Wrap(errcode.Error, "console_flush", err)
	}
	return nil
}

// Deinit flushes and stops accepting writes.
func (c *Console) Deinit() error {
	err := c.Flush()
	c.up.Store(false)
	return err
}

func (c *Console) Init() error {
	c.up.Store(true)
	return nil
}

// Ready reports whether writes are accepted.
func (c *Console) Ready() bool { return c.up.Load() }

func (c *Console) Name() string { return jn5189.ClockUSART0.String() }

func (c *Console) GateClock() error {
	c.gate.SetPeripheralClock(jn5189.ClockUSART0, false)
	return nil
}

func (c *Console) UngateClock() error {
	c.gate.SetPeripheralClock(jn5189.ClockUSART0, true)
	return nil
}
