// Package secure provides best-effort memory hygiene and an injectable
// randomness source for sensitive material: SSS polynomial coefficients,
// reconstructed secrets, and shard payloads staged for export. It
// consolidates secure-memory handling into one package rather than
// splitting it across several, since this module's only secret material
// is SSS coefficients/secrets and shard payloads staged for export.
package secure

import (
	"runtime"
	"sync"
)

// Bytes wraps a sensitive byte slice with mlock (best effort) and explicit
// zeroing on Destroy.
type Bytes struct {
	data   []byte
	locked bool
	mu     sync.Mutex
}

// New allocates a Bytes of the given size and attempts to lock it in
// physical memory.
func New(size int) *Bytes {
	data := make([]byte, size)

	sb := &Bytes{data: data}
	sb.locked = mlock(data)

	runtime.SetFinalizer(sb, func(s *Bytes) {
		s.Destroy()
	})

	return sb
}

// FromSlice copies data into a new, locked Bytes.
func FromSlice(data []byte) *Bytes {
	sb := New(len(data))
	copy(sb.data, data)
	return sb
}

// Bytes returns the underlying slice, or nil once Destroy has run.
func (s *Bytes) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data
}

// IsLocked reports whether the backing memory is mlocked.
func (s *Bytes) IsLocked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locked
}

// Len returns the length of the data, or 0 once destroyed.
func (s *Bytes) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

// Destroy zeros and unlocks the memory. Safe to call more than once.
func (s *Bytes) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		return
	}

	for i := range s.data {
		s.data[i] = 0
	}

	if s.locked {
		munlock(s.data)
		s.locked = false
	}

	s.data = nil
	runtime.SetFinalizer(s, nil)
}

// Zero overwrites a plain byte slice in place. Used for transient
// plaintexts that never warranted a full Bytes allocation.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
