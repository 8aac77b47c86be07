package changetoken

import "sync/atomic"

// Cell caches a value computed on first access. Two goroutines may race to compute
// it; the first store wins and every caller observes that value afterwards, so
// compute must be free of side effects.
type Cell[T any] struct {
	v atomic.Pointer[T]
}

func (c *Cell[T]) Get(compute func() T) T {
	if p := c.v.Load(); p != nil {
		return *p
	}
	val := compute()
	if c.v.CompareAndSwap(nil, &val) {
		return val
	}
	return *c.v.Load()
}

// Loaded reports whether the value has been computed.
func (c *Cell[T]) Loaded() bool { return c.v.Load() != nil }
