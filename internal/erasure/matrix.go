package erasure

import "github.com/mrz1836/strata/internal/polynomial"

// columnMatrix returns the (k+m) x k linear map implied by encodeColumn:
// row i (0 <= i < k) is the identity row (data shards pass through
// unchanged), and row k+p (0 <= p < m) holds the parity coefficients
// produced by encoding each standard basis vector. Building the decode
// matrix this way guarantees it is exactly consistent with Encode's
// systematic convention.
func columnMatrix(k, m int, gen polynomial.Polynomial) *polynomial.Matrix {
	mat := polynomial.NewMatrix(k+m, k)

	basis := make([]byte, k)
	for j := 0; j < k; j++ {
		mat.Set(j, j, 1)

		for i := range basis {
			basis[i] = 0
		}
		basis[j] = 1

		parity := encodeColumn(basis, gen, k, m)
		for p := 0; p < m; p++ {
			mat.Set(k+p, j, parity[p])
		}
	}

	return mat
}
