package common

import "cmp"

type Float interface {
	~float32 | ~float64
}

// Lerp interpolates from a to b by t in [0, 1].
func Lerp[T Float](a, b, t T) T {
	return a + t*(b-a)
}

// Clamp limits v to [lo, hi].
func Clamp[T cmp.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
