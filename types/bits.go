package types

// Generic pairing of a bit value with a printable name.
type BitName[T ~uint16] struct {
	Bit  T
	Name string
}

// BitIter is a zero-alloc iterator over set bits in a value, filtered by a table.
// Caller advances with Next(); no callbacks, no closures.
type BitIter[T ~uint16] struct {
	v     uint16
	i     int
	table []BitName[T]
}

func NewBitIter[T ~uint16](v T, table []BitName[T]) BitIter[T] {
	return BitIter[T]{v: uint16(v), table: table}
}

// Next returns the next SET bit: (name, ok). ok=false when done.
func (it *BitIter[T]) Next() (string, bool) {
	for it.i < len(it.table) {
		e := it.table[it.i]
		it.i++
		if it.v&uint16(e.Bit) != 0 {
			return e.Name, true
		}
	}
	return "", false
}

func (it *BitIter[T]) Reset() { it.i = 0 }

// Names collects every set bit's name in table order.
func Names[T ~uint16](v T, table []BitName[T]) []string {
	var out []string
	it := NewBitIter(v, table)
	for {
		n, ok := it.Next()
		if !ok {
			return out
		}
		out = append(out, n)
	}
}

// Lookup maps a name back to its bit.
func Lookup[T ~uint16](name string, table []BitName[T]) (T, bool) {
	for _, e := range table {
		if e.Name == name {
			return e.Bit, true
		}
	}
	return 0, false
}
