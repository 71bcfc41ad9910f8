// Package gf256 implements arithmetic over the Galois field GF(2^8) used
// by both the Reed-Solomon erasure coder and the Shamir secret sharing
// engine.
//
// The field is built on the irreducible polynomial x^8 + x^4 + x^3 + x^2 + 1
// (0x11D), with primitive element 2. Multiplication, division, inversion
// and exponentiation are implemented via precomputed exp/log tables so
// every operation after the one-time table build is an O(1) lookup.
package gf256

import "sync"

// GF256 is an element of the finite field GF(2^8).
type GF256 = byte

const (
	// modulus is the irreducible polynomial x^8 + x^4 + x^3 + x^2 + 1.
	modulus = 0x11D

	// generator is the primitive element used to build the exp/log tables.
	generator = 2

	// order is the number of non-zero elements in the field (2^8 - 1).
	order = 255
)

var (
	// expTable is doubled (512 entries) so that mul/div can index
	// exp[log[a]+log[b]] or exp[log[a]-log[b]+255] without a modulo.
	expTable [512]byte
	logTable [256]byte

	initOnce sync.Once
)

// initTables builds the exp and log tables once, eagerly and race-free.
func initTables() {
	initOnce.Do(func() {
		x := 1
		for i := 0; i < order; i++ {
			expTable[i] = byte(x)
			logTable[x] = byte(i)

			x <<= 1
			if x&0x100 != 0 {
				x ^= modulus
			}
		}
		for i := 0; i < order; i++ {
			expTable[i+order] = expTable[i]
		}
	})
}

func init() {
	// Eager initialization: the tables are immutable read-only state
	// shared across goroutines, so there is no benefit to lazy init.
	initTables()
}

// Add returns a + b in GF(2^8), which is XOR.
func Add(a, b GF256) GF256 {
	return a ^ b
}

// Sub returns a - b in GF(2^8). Subtraction is identical to addition.
func Sub(a, b GF256) GF256 {
	return a ^ b
}

// Mul returns a * b in GF(2^8) using the log/exp tables.
func Mul(a, b GF256) GF256 {
	if a == 0 || b == 0 {
		return 0
	}
	return expTable[int(logTable[a])+int(logTable[b])]
}

// Div returns a / b in GF(2^8). It never panics: b == 0 is reported by a
// false second result, since this package keeps no error type of its own;
// callers turn that into their own error (see ErrDivideByZero in
// internal/polynomial).
func Div(a, b GF256) (GF256, bool) {
	if b == 0 {
		return 0, false
	}
	if a == 0 {
		return 0, true
	}
	diff := int(logTable[a]) - int(logTable[b]) + order
	return expTable[diff], true
}

// Pow returns base^e in GF(2^8).
func Pow(base GF256, e int) GF256 {
	if e == 0 {
		return 1
	}
	if base == 0 {
		return 0
	}
	l := (int(logTable[base]) * e) % order
	if l < 0 {
		l += order
	}
	return expTable[l]
}

// Inv returns the multiplicative inverse of a in GF(2^8).
func Inv(a GF256) (GF256, bool) {
	if a == 0 {
		return 0, false
	}
	return expTable[order-int(logTable[a])], true
}

// ExpOf returns generator^(e mod order), i.e. the e-th power of the
// primitive element 2.
func ExpOf(e int) GF256 {
	m := e % order
	if m < 0 {
		m += order
	}
	return expTable[m]
}

// Log returns the discrete logarithm of a (base generator). The result is
// undefined for a == 0, matching the field's convention that log[0] is
// unused.
func Log(a GF256) byte {
	return logTable[a]
}
