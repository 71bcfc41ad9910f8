// Package sss implements Shamir's Secret Sharing over GF(2^8): splitting a
// secret into n shares such that any k reconstruct it, while any fewer
// reveal nothing.
package sss

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/mrz1836/strata/internal/secure"
)

var (
	// ErrInvalidSecret covers empty secrets and secrets over the configured
	// maximum size.
	ErrInvalidSecret = errors.New("sss: invalid secret")

	// ErrInvalidShare covers malformed shares, out-of-range x-coordinates,
	// and shares whose metadata does not match the rest of the set.
	ErrInvalidShare = errors.New("sss: invalid share")

	// ErrInsufficientShares is returned when Combine is given fewer than
	// threshold shares.
	ErrInsufficientShares = errors.New("sss: insufficient shares to reconstruct secret")

	// ErrInvalidConfig covers Config construction failures.
	ErrInvalidConfig = errors.New("sss: invalid configuration")

	// ErrCorruptedShare is returned when the reconstructed secret's hash
	// does not match the share metadata.
	ErrCorruptedShare = errors.New("sss: secret hash mismatch after reconstruction")

	// ErrMathError signals a degenerate interpolation (duplicate
	// x-coordinates slipping past validation).
	ErrMathError = errors.New("sss: interpolation failed")
)

// Config describes one Shamir split: threshold k, total shares n, and
// whether the random polynomial coefficients must come from a
// cryptographically secure source.
type Config struct {
	Threshold      int
	TotalShares    int
	UseSecureRandom bool
	SecretMaxSize  int

	// Rand overrides the randomness source used by Split. Nil defaults to
	// secure.Reader, whatever UseSecureRandom is set to.
	Rand io.Reader
}

// NewConfig validates and returns a Config. secretMaxSize of 0 means
// unbounded.
func NewConfig(threshold, totalShares, secretMaxSize int, useSecureRandom bool) (Config, error) {
	cfg := Config{
		Threshold:       threshold,
		TotalShares:     totalShares,
		UseSecureRandom: useSecureRandom,
		SecretMaxSize:   secretMaxSize,
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Threshold < 1 || c.Threshold > 255 {
		return fmt.Errorf("%w: threshold must be in [1,255], got %d", ErrInvalidConfig, c.Threshold)
	}
	if c.TotalShares < c.Threshold || c.TotalShares > 255 {
		return fmt.Errorf("%w: total_shares must be in [%d,255], got %d", ErrInvalidConfig, c.Threshold, c.TotalShares)
	}
	return nil
}

// randSource returns the randomness source for Split: an explicit
// override if one was configured, otherwise the package's secure default.
// UseSecureRandom is carried on Config (and echoed nowhere in
// ShareMetadata) purely to document caller intent; this module has no
// non-cryptographic source to fall back to.
func (c Config) randSource() io.Reader {
	if c.Rand != nil {
		return c.Rand
	}
	return secure.Reader
}

// ShareMetadata is shared, byte-for-byte identical, across every share
// produced by one Split call.
type ShareMetadata struct {
	Threshold   int
	TotalShares int
	SecretSize  int
	SecretHash  [32]byte // SHA-256 of the original secret
	Timestamp   time.Time
	ShareSetID  string
}

func newShareMetadata(secret []byte, cfg Config) ShareMetadata {
	return ShareMetadata{
		Threshold:   cfg.Threshold,
		TotalShares: cfg.TotalShares,
		SecretSize:  len(secret),
		SecretHash:  sha256.Sum256(secret),
		Timestamp:   time.Now(),
		ShareSetID:  uuid.NewString(),
	}
}

func (m ShareMetadata) equal(o ShareMetadata) bool {
	return m.Threshold == o.Threshold &&
		m.TotalShares == o.TotalShares &&
		m.SecretSize == o.SecretSize &&
		m.SecretHash == o.SecretHash &&
		m.ShareSetID == o.ShareSetID
}

// Share is one point (x, f(x)) on every per-byte polynomial, plus the
// metadata describing the whole share set it belongs to.
type Share struct {
	X        byte
	Y        []byte
	Metadata ShareMetadata
}
