// Package polynomial implements polynomial arithmetic over GF(2^8) for
// Reed-Solomon encoding/decoding and Shamir secret sharing: addition,
// multiplication, Horner evaluation, synthetic division, generator
// polynomial construction, and Lagrange interpolation.
//
// Convention: coefficient index 0 is the lowest-degree term; the index
// increases with degree. Callers that need a different convention (the
// Reed-Solomon systematic encoder places data in the high positions of
// its working buffer) handle that locally — see internal/erasure.
package polynomial

import (
	"errors"

	"github.com/mrz1836/strata/internal/gf256"
)

// ErrDivideByZero is returned when a polynomial operation would require
// dividing by the zero field element.
var ErrDivideByZero = errors.New("polynomial: division by zero in GF(2^8)")

// ErrEmptyDivisor is returned by DivMod when the divisor is empty or has a
// zero leading (highest-degree) coefficient.
var ErrEmptyDivisor = errors.New("polynomial: divisor must have a non-zero leading coefficient")

// Polynomial is a sequence of GF(2^8) coefficients, index 0 = constant term.
type Polynomial []gf256.GF256

// Add returns p + q, pointwise XOR, with length max(len(p), len(q)).
func Add(p, q Polynomial) Polynomial {
	n := len(p)
	if len(q) > n {
		n = len(q)
	}
	out := make(Polynomial, n)
	for i := 0; i < n; i++ {
		var a, b byte
		if i < len(p) {
			a = p[i]
		}
		if i < len(q) {
			b = q[i]
		}
		out[i] = gf256.Add(a, b)
	}
	return out
}

// Mul returns the schoolbook convolution p * q, of length
// len(p) + len(q) - 1. An empty operand yields an empty polynomial.
func Mul(p, q Polynomial) Polynomial {
	if len(p) == 0 || len(q) == 0 {
		return Polynomial{}
	}
	out := make(Polynomial, len(p)+len(q)-1)
	for i, a := range p {
		if a == 0 {
			continue
		}
		for j, b := range q {
			out[i+j] = gf256.Add(out[i+j], gf256.Mul(a, b))
		}
	}
	return out
}

// Eval evaluates p at x using Horner-equivalent accumulation of running
// powers of x (coefficient i contributes coeff_i * x^i).
func Eval(p Polynomial, x gf256.GF256) gf256.GF256 {
	var result byte
	xPow := byte(1)
	for _, c := range p {
		result = gf256.Add(result, gf256.Mul(c, xPow))
		xPow = gf256.Mul(xPow, x)
	}
	return result
}

// Degree returns the index of the highest non-zero coefficient, or -1 for
// the zero polynomial (or an empty one).
func Degree(p Polynomial) int {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i] != 0 {
			return i
		}
	}
	return -1
}

// trim removes leading (high-degree) zero coefficients. An all-zero
// polynomial collapses to the single element [0].
func trim(p Polynomial) Polynomial {
	d := Degree(p)
	if d < 0 {
		return Polynomial{0}
	}
	return append(Polynomial(nil), p[:d+1]...)
}

// DivMod performs synthetic (long) division of dividend by divisor, both
// using the low-to-high coefficient convention. divisor must have a
// non-zero leading (highest-degree) coefficient. The remainder is
// trimmed of leading zeros; an all-zero remainder is returned as [0].
func DivMod(dividend, divisor Polynomial) (quotient, remainder Polynomial, err error) {
	divDeg := Degree(divisor)
	if divDeg < 0 {
		return nil, nil, ErrEmptyDivisor
	}
	leadInv, ok := gf256.Inv(divisor[divDeg])
	if !ok {
		return nil, nil, ErrDivideByZero
	}

	rem := append(Polynomial(nil), dividend...)
	remDeg := Degree(rem)

	if remDeg < divDeg {
		return Polynomial{0}, trim(rem), nil
	}

	quot := make(Polynomial, remDeg-divDeg+1)
	for remDeg >= divDeg {
		coeff := gf256.Mul(rem[remDeg], leadInv)
		quot[remDeg-divDeg] = coeff
		for j := 0; j <= divDeg; j++ {
			rem[remDeg-divDeg+j] = gf256.Add(rem[remDeg-divDeg+j], gf256.Mul(coeff, divisor[j]))
		}
		remDeg = Degree(rem)
	}

	return quot, trim(rem), nil
}

// Generator returns the Reed-Solomon generator polynomial of degree m:
//
//	g(x) = prod_{i=0}^{m-1} (x - alpha^i)
//
// where alpha = 2 is GF(2^8)'s primitive element. Built iteratively by
// monomial multiplication; the result has m+1 coefficients.
func Generator(m int) Polynomial {
	gen := Polynomial{1}
	for i := 0; i < m; i++ {
		root := gf256.ExpOf(i)
		// (x - alpha^i) = (alpha^i + x) in characteristic 2.
		monomial := Polynomial{root, 1}
		gen = Mul(gen, monomial)
	}
	return gen
}

// Point is an (x, y) sample used for Lagrange interpolation.
type Point struct {
	X, Y gf256.GF256
}

// Interpolate returns the coefficients (degree <= len(points)-1) of the
// unique polynomial passing through the given distinct-x points, via
// Lagrange interpolation over GF(2^8).
func Interpolate(points []Point) (Polynomial, error) {
	result := make(Polynomial, len(points))

	for i, pi := range points {
		// basis_i(x) = prod_{j != i} (x - x_j) / (x_i - x_j)
		basis := Polynomial{1}
		denom := byte(1)
		for j, pj := range points {
			if i == j {
				continue
			}
			// (x - x_j) = (x_j + x) in characteristic 2.
			basis = Mul(basis, Polynomial{pj.X, 1})
			denom = gf256.Mul(denom, gf256.Add(pi.X, pj.X))
		}
		denomInv, ok := gf256.Inv(denom)
		if !ok {
			return nil, ErrDivideByZero
		}
		scale := gf256.Mul(pi.Y, denomInv)
		scaled := Scale(basis, scale)
		result = Add(result, scaled)
	}

	return trim(result), nil
}

// Scale multiplies every coefficient of p by the scalar s.
func Scale(p Polynomial, s gf256.GF256) Polynomial {
	out := make(Polynomial, len(p))
	for i, c := range p {
		out[i] = gf256.Mul(c, s)
	}
	return out
}

// InterpolateAt evaluates the Lagrange interpolation of the given points
// directly at x, without materializing the coefficient form. This is the
// form used by Shamir combine (§4.6), which only ever needs the value at
// x = 0.
func InterpolateAt(points []Point, x gf256.GF256) (gf256.GF256, error) {
	var result byte
	for i, pi := range points {
		weight := byte(1)
		for j, pj := range points {
			if i == j {
				continue
			}
			num := gf256.Sub(x, pj.X)
			den := gf256.Sub(pi.X, pj.X)
			factor, ok := gf256.Div(num, den)
			if !ok {
				return 0, ErrDivideByZero
			}
			weight = gf256.Mul(weight, factor)
		}
		result = gf256.Add(result, gf256.Mul(pi.Y, weight))
	}
	return result, nil
}
