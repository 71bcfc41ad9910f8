//go:build !windows

package secure

import (
	"golang.org/x/sys/unix"
)

// mlock attempts to lock the memory region containing data. Returns true
// on success; failure is not fatal, callers fall back to best-effort
// zeroing alone.
func mlock(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	return unix.Mlock(data) == nil
}

// munlock unlocks a previously locked region.
func munlock(data []byte) {
	if len(data) == 0 {
		return
	}
	_ = unix.Munlock(data)
}
