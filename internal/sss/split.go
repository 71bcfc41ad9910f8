package sss

import (
	"fmt"
	"io"

	"github.com/mrz1836/strata/internal/gf256"
)

// Split divides secret into cfg.TotalShares shares such that any
// cfg.Threshold of them reconstruct it. Each byte of the
// secret gets an independent random polynomial of degree threshold-1;
// shares are the polynomials' values at x = 1..total_shares.
func Split(secret []byte, cfg Config) ([]Share, error) {
	if len(secret) == 0 {
		return nil, ErrInvalidSecret
	}
	if cfg.SecretMaxSize > 0 && len(secret) > cfg.SecretMaxSize {
		return nil, fmt.Errorf("%w: secret of %d bytes exceeds max %d", ErrInvalidSecret, len(secret), cfg.SecretMaxSize)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	coeffs, err := generateCoefficients(secret, cfg.Threshold, cfg.randSource())
	if err != nil {
		return nil, fmt.Errorf("sss: generating coefficients: %w", err)
	}

	meta := newShareMetadata(secret, cfg)

	shares := make([]Share, cfg.TotalShares)
	for i := 0; i < cfg.TotalShares; i++ {
		x := byte(i + 1)
		y := make([]byte, len(secret))
		for b, s0 := range secret {
			y[b] = evalCoeffs(s0, coeffs[b], x)
		}
		shares[i] = Share{X: x, Y: y, Metadata: meta}
	}

	return shares, nil
}

// generateCoefficients produces, for every secret byte, the threshold-1
// random non-constant coefficients of its polynomial. When threshold > 1
// a polynomial whose coefficients all turn out to be zero is regenerated
// so that every share genuinely depends on more than the secret byte
// alone.
func generateCoefficients(secret []byte, threshold int, rnd io.Reader) ([][]byte, error) {
	degree := threshold - 1
	coeffs := make([][]byte, len(secret))

	for b := range secret {
		coeffs[b] = make([]byte, degree)
		if degree == 0 {
			continue
		}

		for {
			if _, err := io.ReadFull(rnd, coeffs[b]); err != nil {
				return nil, err
			}
			if threshold == 1 || !allZero(coeffs[b]) {
				break
			}
		}
	}

	return coeffs, nil
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

// evalCoeffs evaluates f(x) = secretByte + coeffs[0]*x + coeffs[1]*x^2 +
// ... at x using Horner-style iterative accumulation of powers of x.
func evalCoeffs(secretByte byte, coeffs []byte, x gf256.GF256) byte {
	val := secretByte
	power := x
	for j, c := range coeffs {
		val = gf256.Add(val, gf256.Mul(c, power))
		if j < len(coeffs)-1 {
			power = gf256.Mul(power, x)
		}
	}
	return val
}
