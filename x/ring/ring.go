// Package ring is a single-producer, single-consumer byte ring used for the
// debug console transmit path.
package ring

import "sync/atomic"

// Ring is lock-free for one writer and one reader. Indices are monotonic and
// wrap through the power-of-two mask.
type Ring struct {
	buf  []byte
	mask uint32
	rd   atomic.Uint32
	wr   atomic.Uint32

	readable chan struct{} // empty -> non-empty edge
	writable chan struct{} // full -> non-full edge
}

// New panics unless size is a power of two >= 2.
func New(size int) *Ring {
	if size < 2 || (size&(size-1)) != 0 {
		panic("ring: size must be power of two >= 2")
	}
	return &Ring{
		buf:      make([]byte, size),
		mask:     uint32(size - 1),
		readable: make(chan struct{}, 1),
		writable: make(chan struct{}, 1),
	}
}

func (r *Ring) size() uint32 { return uint32(len(r.buf)) }

func (r *Ring) Cap() int { return len(r.buf) }

func (r *Ring) Space() int {
	return int(r.size() - (r.wr.Load() - r.rd.Load()))
}

func (r *Ring) Available() int {
	return int(r.wr.Load() - r.rd.Load())
}

// TryWriteFrom copies as much of src as fits and returns the count.
func (r *Ring) TryWriteFrom(src []byte) int {
	if len(src) == 0 {
		return 0
	}
	rd := r.rd.Load()
	wr := r.wr.Load()
	before := wr - rd
	n := int(r.size() - before)
	if n <= 0 {
		return 0
	}
	if len(src) < n {
		n = len(src)
	}

	idx := wr & r.mask
	first := int(r.size() - idx)
	if first > n {
		first = n
	}
	copy(r.buf[idx:idx+uint32(first)], src[:first])
	if rest := n - first; rest > 0 {
		copy(r.buf[:rest], src[first:n])
	}
	r.wr.Store(wr + uint32(n))

	if before == 0 {
		select {
		case r.readable <- struct{}{}:
		default:
		}
	}
	return n
}

// TryReadInto moves up to len(dst) bytes out of the ring.
func (r *Ring) TryReadInto(dst []byte) int {
	if len(dst) == 0 {
		return 0
	}
	rd := r.rd.Load()
	wr := r.wr.Load()
	n := int(wr - rd)
	if n <= 0 {
		return 0
	}
	if len(dst) < n {
		n = len(dst)
	}

	idx := rd & r.mask
	first := int(r.size() - idx)
	if first > n {
		first = n
	}
	copy(dst[:first], r.buf[idx:idx+uint32(first)])
	if rest := n - first; rest > 0 {
		copy(dst[first:n], r.buf[:rest])
	}
	r.rd.Store(rd + uint32(n))

	if wr-rd == r.size() {
		select {
		case r.writable <- struct{}{}:
		default:
		}
	}
	return n
}

// Drop discards everything currently readable. Consumer side only.
func (r *Ring) Drop() int {
	rd := r.rd.Load()
	wr := r.wr.Load()
	r.rd.Store(wr)
	return int(wr - rd)
}

func (r *Ring) Readable() <-chan struct{} { return r.readable }
func (r *Ring) Writable() <-chan struct{} { return r.writable }
