package secure

import (
	"crypto/rand"
	"io"
)

// Reader is the cryptographically secure randomness source used by
// default throughout this module. It wraps crypto/rand.Reader for
// consistency and so tests can substitute a deterministic io.Reader.
var Reader io.Reader = rand.Reader

// RandomBytes reads n cryptographically secure random bytes from Reader.
func RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(Reader, b); err != nil {
		return nil, err
	}
	return b, nil
}

// SecureRandomBytes generates n random bytes into a locked Bytes
// container.
func SecureRandomBytes(n int) (*Bytes, error) {
	sb := New(n)
	if _, err := io.ReadFull(Reader, sb.Bytes()); err != nil {
		sb.Destroy()
		return nil, err
	}
	return sb, nil
}
