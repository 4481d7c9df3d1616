//go:build !jn5189

package jn5189

import "sync"

// BusTx is one recorded COMM0 bus transaction.
type BusTx struct {
	Addr uint16
	W    []byte
	R    int
}

// SimBus stands in for I2C0 and SPI0 on host builds. Reads return Fill.
type SimBus struct {
	mu   sync.Mutex
	log  []BusTx
	Fill byte
}

func NewSimBus() *SimBus { return &SimBus{} }

func (b *SimBus) Tx(addr uint16, w, r []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.log = append(b.log, BusTx{Addr: addr, W: append([]byte(nil), w...), R: len(r)})
	for i := range r {
		r[i] = b.Fill
	}
	return nil
}

// SimSPI is the SPI view of a SimBus. Transactions record address 0.
type SimSPI struct{ b *SimBus }

func (b *SimBus) SPI() SimSPI { return SimSPI{b} }

func (s SimSPI) Tx(w, r []byte) error { return s.b.Tx(0, w, r) }

func (s SimSPI) Transfer(c byte) (byte, error) {
	var r [1]byte
	err := s.b.Tx(0, []byte{c}, r[:])
	return r[0], err
}

func (b *SimBus) Log() []BusTx {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]BusTx(nil), b.log...)
}
