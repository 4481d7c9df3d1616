package mathx

import "golang.org/x/exp/constraints"

// Clamp limits v to [lo, hi]. If lo > hi, the bounds are swapped.
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	c, _ := ClampHit(v, lo, hi)
	return c
}

// ClampHit is Clamp that also reports whether a bound was applied.
func ClampHit[T constraints.Ordered](v, lo, hi T) (T, bool) {
	if hi < lo {
		lo, hi = hi, lo
	}
	if v < lo {
		return lo, true
	}
	if v > hi {
		return hi, true
	}
	return v, false
}

// Between reports lo <= v && v <= hi (order-insensitive).
func Between[T constraints.Ordered](v, lo, hi T) bool {
	if hi < lo {
		lo, hi = hi, lo
	}
	return v >= lo && v <= hi
}

// SignMag decodes an n-bit sign-magnitude field: the top bit is the sign,
// the remaining n-1 bits the magnitude.
func SignMag[T constraints.Unsigned](raw T, bits uint) int32 {
	if bits < 2 {
		return 0
	}
	mag := int32(raw & (T(1)<<(bits-1) - 1))
	if raw&(T(1)<<(bits-1)) != 0 {
		return -mag
	}
	return mag
}
