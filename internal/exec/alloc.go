package exec

import "sync"

// Arena is the execution context's memory allocator handle. Packed plan
// buffers are taken from and returned to it, with usage tracked so the
// context can report its footprint.
type Arena struct {
	mu    sync.Mutex
	inUse int64
	peak  int64
}

// Allocate returns a zeroed buffer of n bytes owned by the context.
func (a *Arena) Allocate(n int) []byte {
	a.mu.Lock()
	a.inUse += int64(n)
	if a.inUse > a.peak {
		a.peak = a.inUse
	}
	a.mu.Unlock()
	return make([]byte, n)
}

// Release returns a buffer obtained from Allocate.
func (a *Arena) Release(buf []byte) {
	a.mu.Lock()
	a.inUse -= int64(cap(buf))
	a.mu.Unlock()
}

// InUse returns the bytes currently allocated.
func (a *Arena) InUse() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.inUse
}

// Peak returns the high-water mark of allocated bytes.
func (a *Arena) Peak() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.peak
}
