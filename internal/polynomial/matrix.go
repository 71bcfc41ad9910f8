package polynomial

import (
	"errors"

	"github.com/mrz1836/strata/internal/gf256"
)

// ErrSingularMatrix is returned when Gauss-Jordan elimination finds a
// column with no non-zero pivot candidate (for a well-formed Vandermonde
// minor this should not occur; callers treat it as a corruption signal).
var ErrSingularMatrix = errors.New("polynomial: matrix is singular over GF(2^8)")

// Matrix is a dense row-major matrix of GF(2^8) elements.
type Matrix struct {
	rows, cols int
	data       []gf256.GF256
}

// NewMatrix allocates a zeroed rows x cols matrix.
func NewMatrix(rows, cols int) *Matrix {
	return &Matrix{rows: rows, cols: cols, data: make([]gf256.GF256, rows*cols)}
}

// At returns the element at (r, c).
func (m *Matrix) At(r, c int) gf256.GF256 {
	return m.data[r*m.cols+c]
}

// Set assigns the element at (r, c).
func (m *Matrix) Set(r, c int, v gf256.GF256) {
	m.data[r*m.cols+c] = v
}

// Rows returns the row count.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the column count.
func (m *Matrix) Cols() int { return m.cols }

// swapRows exchanges two rows in place.
func (m *Matrix) swapRows(a, b int) {
	if a == b {
		return
	}
	ra := m.data[a*m.cols : a*m.cols+m.cols]
	rb := m.data[b*m.cols : b*m.cols+m.cols]
	for i := range ra {
		ra[i], rb[i] = rb[i], ra[i]
	}
}

// VandermondeRows builds a (len(points)) x k matrix where row i, column j
// is points[i]^j, evaluated in GF(2^8). The Reed-Solomon decoder in
// internal/erasure does not use it; its matrix is derived from the
// encoder itself (see erasure's columnMatrix).
func VandermondeRows(points []gf256.GF256, k int) *Matrix {
	m := NewMatrix(len(points), k)
	for i, x := range points {
		acc := byte(1)
		for j := 0; j < k; j++ {
			m.Set(i, j, acc)
			acc = gf256.Mul(acc, x)
		}
	}
	return m
}

// Invert computes the inverse of a square matrix via Gauss-Jordan
// elimination over GF(2^8): augment with the identity, and for each
// column find a non-zero pivot (linear scan, swapping rows if needed),
// scale the pivot row to 1, then eliminate that column from every other
// row. The right half of the augmented matrix is the inverse.
func (m *Matrix) Invert() (*Matrix, error) {
	n := m.rows
	if m.cols != n {
		return nil, ErrSingularMatrix
	}

	aug := NewMatrix(n, 2*n)
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			aug.Set(r, c, m.At(r, c))
		}
		aug.Set(r, n+r, 1)
	}

	for col := 0; col < n; col++ {
		pivot := -1
		for r := col; r < n; r++ {
			if aug.At(r, col) != 0 {
				pivot = r
				break
			}
		}
		if pivot < 0 {
			return nil, ErrSingularMatrix
		}
		aug.swapRows(col, pivot)

		pivotInv, ok := gf256.Inv(aug.At(col, col))
		if !ok {
			return nil, ErrSingularMatrix
		}
		for c := 0; c < 2*n; c++ {
			aug.Set(col, c, gf256.Mul(aug.At(col, c), pivotInv))
		}

		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			factor := aug.At(r, col)
			if factor == 0 {
				continue
			}
			for c := 0; c < 2*n; c++ {
				aug.Set(r, c, gf256.Add(aug.At(r, c), gf256.Mul(factor, aug.At(col, c))))
			}
		}
	}

	inv := NewMatrix(n, n)
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			inv.Set(r, c, aug.At(r, n+c))
		}
	}
	return inv, nil
}

// MulVector multiplies the matrix by a column vector of length m.cols,
// returning a vector of length m.rows.
func (m *Matrix) MulVector(v []gf256.GF256) []gf256.GF256 {
	out := make([]gf256.GF256, m.rows)
	for r := 0; r < m.rows; r++ {
		var acc byte
		for c := 0; c < m.cols; c++ {
			acc = gf256.Add(acc, gf256.Mul(m.At(r, c), v[c]))
		}
		out[r] = acc
	}
	return out
}

// SelectRows returns a new matrix containing only the given row indices,
// in the given order.
func (m *Matrix) SelectRows(indices []int) *Matrix {
	out := NewMatrix(len(indices), m.cols)
	for i, idx := range indices {
		for c := 0; c < m.cols; c++ {
			out.Set(i, c, m.At(idx, c))
		}
	}
	return out
}
