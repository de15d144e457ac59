package catalog

import "sync/atomic"

// Handle publishes the active catalog to concurrent readers. Reload builds
// a wholly new Catalog and swaps it in atomically; in-flight reads keep the
// snapshot they started with.
type Handle struct {
	current atomic.Pointer[Catalog]
}

// NewHandle creates a handle serving c.
func NewHandle(c *Catalog) *Handle {
	h := &Handle{}
	h.current.Store(c)
	return h
}

// Current returns the active catalog.
func (h *Handle) Current() *Catalog {
	return h.current.Load()
}

// Swap installs a freshly loaded catalog.
func (h *Handle) Swap(c *Catalog) {
	h.current.Store(c)
}
