package sss

import (
	"crypto/sha256"
	"fmt"
	"sort"

	"github.com/mrz1836/strata/internal/gf256"
)

// Combine reconstructs the original secret from shares.
// Requires at least threshold shares sharing identical metadata and
// distinct x-coordinates; the first threshold shares by ascending x are
// used, so the result is deterministic regardless of input order.
func Combine(shares []Share) ([]byte, error) {
	if len(shares) == 0 {
		return nil, ErrInsufficientShares
	}

	meta := shares[0].Metadata
	for _, sh := range shares[1:] {
		if !sh.Metadata.equal(meta) {
			return nil, fmt.Errorf("%w: share metadata does not match the rest of the set", ErrInvalidShare)
		}
	}

	if len(shares) < meta.Threshold {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrInsufficientShares, len(shares), meta.Threshold)
	}

	seen := make(map[byte]bool, len(shares))
	for _, sh := range shares {
		if sh.X == 0 || int(sh.X) > meta.TotalShares {
			return nil, fmt.Errorf("%w: x-coordinate %d out of range [1,%d]", ErrInvalidShare, sh.X, meta.TotalShares)
		}
		if len(sh.Y) != meta.SecretSize {
			return nil, fmt.Errorf("%w: share value length %d does not match secret size %d", ErrInvalidShare, len(sh.Y), meta.SecretSize)
		}
		if seen[sh.X] {
			return nil, fmt.Errorf("%w: duplicate x-coordinate %d", ErrInvalidShare, sh.X)
		}
		seen[sh.X] = true
	}

	sorted := append([]Share(nil), shares...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })
	chosen := sorted[:meta.Threshold]

	secret, err := interpolateAtZero(chosen, meta.SecretSize)
	if err != nil {
		return nil, err
	}

	sum := sha256.Sum256(secret)
	if sum != meta.SecretHash {
		return nil, ErrCorruptedShare
	}

	return secret, nil
}

// interpolateAtZero reconstructs every secret byte via Lagrange
// interpolation at x=0. The Lagrange weights only depend on the chosen
// x-coordinates, so they are computed once and reused across all
// secretSize bytes.
func interpolateAtZero(shares []Share, secretSize int) ([]byte, error) {
	weights := make([]byte, len(shares))
	for i, si := range shares {
		weight := gf256.GF256(1)
		for j, sj := range shares {
			if i == j {
				continue
			}
			top := sj.X
			bottom := gf256.Sub(sj.X, si.X)
			factor, ok := gf256.Div(top, bottom)
			if !ok {
				return nil, ErrMathError
			}
			weight = gf256.Mul(weight, factor)
		}
		weights[i] = weight
	}

	secret := make([]byte, secretSize)
	for b := 0; b < secretSize; b++ {
		var val gf256.GF256
		for i, sh := range shares {
			val = gf256.Add(val, gf256.Mul(sh.Y[b], weights[i]))
		}
		secret[b] = val
	}

	return secret, nil
}
