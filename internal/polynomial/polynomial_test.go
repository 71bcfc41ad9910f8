package polynomial_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/strata/internal/gf256"
	"github.com/mrz1836/strata/internal/polynomial"
)

func TestAddLength(t *testing.T) {
	t.Parallel()
	p := polynomial.Polynomial{1, 2, 3}
	q := polynomial.Polynomial{9, 9}
	sum := polynomial.Add(p, q)
	assert.Len(t, sum, 3)
	assert.Equal(t, byte(1^9), sum[0])
	assert.Equal(t, byte(2^9), sum[1])
	assert.Equal(t, byte(3), sum[2])
}

func TestMulLength(t *testing.T) {
	t.Parallel()
	p := polynomial.Polynomial{1, 1} // degree 1
	q := polynomial.Polynomial{1, 1} // degree 1
	prod := polynomial.Mul(p, q)
	assert.Len(t, prod, 3) // degree 2
}

func TestEvalMultiplicative(t *testing.T) {
	t.Parallel()
	p := polynomial.Polynomial{3, 5, 7}
	q := polynomial.Polynomial{2, 11}
	x := gf256.GF256(13)

	lhs := polynomial.Eval(polynomial.Mul(p, q), x)
	rhs := gf256.Mul(polynomial.Eval(p, x), polynomial.Eval(q, x))
	assert.Equal(t, rhs, lhs)
}

func TestDivModIdentity(t *testing.T) {
	t.Parallel()
	dividend := polynomial.Polynomial{5, 0, 3, 7, 1} // degree 4
	divisor := polynomial.Polynomial{9, 2, 1}        // degree 2, leading coeff 1

	quot, rem, err := polynomial.DivMod(dividend, divisor)
	require.NoError(t, err)

	// p = q*quot + rem
	reconstructed := polynomial.Add(polynomial.Mul(divisor, quot), rem)
	// reconstructed may be longer due to trailing zero coefficients; compare
	// elementwise over the dividend's length.
	for i, c := range dividend {
		assert.Equal(t, c, reconstructed[i])
	}
	assert.Less(t, polynomial.Degree(rem), polynomial.Degree(divisor))
}

func TestDivModZeroRemainder(t *testing.T) {
	t.Parallel()
	divisor := polynomial.Polynomial{1, 1, 1}
	quot := polynomial.Polynomial{2, 3}
	dividend := polynomial.Mul(divisor, quot)

	_, rem, err := polynomial.DivMod(dividend, divisor)
	require.NoError(t, err)
	assert.Equal(t, polynomial.Polynomial{0}, rem)
}

func TestDivModEmptyDivisor(t *testing.T) {
	t.Parallel()
	_, _, err := polynomial.DivMod(polynomial.Polynomial{1, 2}, polynomial.Polynomial{0, 0})
	require.ErrorIs(t, err, polynomial.ErrEmptyDivisor)
}

func TestGeneratorDegree(t *testing.T) {
	t.Parallel()
	g := polynomial.Generator(4)
	assert.Len(t, g, 5)
	assert.Equal(t, byte(1), g[4]) // leading coefficient is 1
}

func TestGeneratorRootsEvaluateToZero(t *testing.T) {
	t.Parallel()
	g := polynomial.Generator(6)
	for i := 0; i < 6; i++ {
		root := gf256.ExpOf(i)
		assert.Equal(t, byte(0), polynomial.Eval(g, root))
	}
}

func TestInterpolatePassesThroughPoints(t *testing.T) {
	t.Parallel()
	points := []polynomial.Point{
		{X: 1, Y: 5},
		{X: 2, Y: 17},
		{X: 3, Y: 200},
		{X: 4, Y: 9},
	}
	poly, err := polynomial.Interpolate(points)
	require.NoError(t, err)
	for _, p := range points {
		assert.Equal(t, p.Y, polynomial.Eval(poly, p.X))
	}
}

func TestInterpolateAtMatchesCoefficientForm(t *testing.T) {
	t.Parallel()
	points := []polynomial.Point{
		{X: 10, Y: 44},
		{X: 20, Y: 99},
		{X: 30, Y: 1},
	}
	poly, err := polynomial.Interpolate(points)
	require.NoError(t, err)

	for _, x := range []byte{0, 5, 77} {
		want := polynomial.Eval(poly, x)
		got, err := polynomial.InterpolateAt(points, x)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestScale(t *testing.T) {
	t.Parallel()
	p := polynomial.Polynomial{1, 2, 3}
	s := gf256.GF256(5)
	scaled := polynomial.Scale(p, s)
	for i, c := range p {
		assert.Equal(t, gf256.Mul(c, s), scaled[i])
	}
}

func TestDegreeOfZeroPolynomial(t *testing.T) {
	t.Parallel()
	assert.Equal(t, -1, polynomial.Degree(polynomial.Polynomial{0, 0, 0}))
	assert.Equal(t, -1, polynomial.Degree(nil))
}
