// Package rational provides exact fraction arithmetic for settlement math.
// All intermediate products are computed in 128 bits so that comparison and
// scaling never overflow for int64 operands.
package rational

import (
	"fmt"
	"math"
	"math/bits"
)

// Fraction is an immutable numerator/denominator pair. No reduction is
// performed. The denominator is conventionally positive; the type does not
// enforce it, and a zero denominator is a caller error.
type Fraction struct {
	N int64 `json:"n"`
	D int64 `json:"d"`
}

// New returns the fraction n/d.
func New(n, d int64) Fraction {
	return Fraction{N: n, D: d}
}

// Zero reports whether the fraction has a zero numerator.
func (f Fraction) Zero() bool {
	return f.N == 0
}

// Float converts the fraction to a float64. Reporting only, never used in
// settlement paths.
func (f Fraction) Float() float64 {
	return float64(f.N) / float64(f.D)
}

func (f Fraction) String() string {
	return fmt.Sprintf("%d/%d", f.N, f.D)
}

// Eq reports whether f and g denote the same rational value, comparing
// cross-products in 128 bits.
func (f Fraction) Eq(g Fraction) bool {
	return cmp128(mul128(f.N, g.D), mul128(g.N, f.D)) == 0
}

// Less reports whether f < g. Meaningful only for positive denominators.
func (f Fraction) Less(g Fraction) bool {
	return cmp128(mul128(f.N, g.D), mul128(g.N, f.D)) < 0
}

// ScaleFloor scales a through the fraction rounding toward zero:
// trunc(a*f.N / f.D). Used where rounding must favor the payer.
func (f Fraction) ScaleFloor(a int64) int64 {
	return MulDivFloor(a, f.N, f.D)
}

// ScaleCeil scales a through the fraction rounding away from zero:
// ceil(a*f.N / f.D) for positive results. Used where rounding must favor
// the receiver of a cost.
func (f Fraction) ScaleCeil(a int64) int64 {
	return MulDivCeil(a, f.N, f.D)
}

// int128 is a sign/magnitude 128-bit value for intermediate products.
type int128 struct {
	neg    bool
	hi, lo uint64
}

// mag returns the unsigned magnitude of a, correct for MinInt64.
func mag(a int64) uint64 {
	u := uint64(a)
	if a < 0 {
		return -u
	}
	return u
}

func mul128(a, b int64) int128 {
	hi, lo := bits.Mul64(mag(a), mag(b))
	neg := (a < 0) != (b < 0)
	if hi == 0 && lo == 0 {
		neg = false
	}
	return int128{neg: neg, hi: hi, lo: lo}
}

func cmp128(x, y int128) int {
	if x.neg != y.neg {
		if x.neg {
			return -1
		}
		return 1
	}
	c := 0
	switch {
	case x.hi != y.hi:
		if x.hi < y.hi {
			c = -1
		} else {
			c = 1
		}
	case x.lo != y.lo:
		if x.lo < y.lo {
			c = -1
		} else {
			c = 1
		}
	}
	if x.neg {
		return -c
	}
	return c
}

// MulDivFloor computes a*n/d with a 128-bit intermediate product, rounding
// toward zero. Panics if d is zero or the quotient overflows int64.
func MulDivFloor(a, n, d int64) int64 {
	q, _, neg := mulDiv(a, n, d)
	return narrow(q, neg)
}

// MulDivCeil computes a*n/d with a 128-bit intermediate product, rounding
// away from zero.
func MulDivCeil(a, n, d int64) int64 {
	q, r, neg := mulDiv(a, n, d)
	if r != 0 {
		q++
	}
	return narrow(q, neg)
}

// mulDiv returns the magnitude quotient and remainder of a*n/d, plus the
// sign of the exact result.
func mulDiv(a, n, d int64) (q, r uint64, neg bool) {
	if d == 0 {
		panic("rational: division by zero denominator")
	}
	p := mul128(a, n)
	dm := mag(d)
	if p.hi >= dm {
		panic("rational: quotient overflows int64")
	}
	q, r = bits.Div64(p.hi, p.lo, dm)
	neg = p.neg != (d < 0)
	if q == 0 && r == 0 {
		neg = false
	}
	return q, r, neg
}

// narrow converts a magnitude/sign pair back to int64, panicking on overflow.
func narrow(q uint64, neg bool) int64 {
	if neg {
		if q > 1<<63 {
			panic("rational: quotient overflows int64")
		}
		if q == 1<<63 {
			return math.MinInt64
		}
		return -int64(q)
	}
	if q > 1<<63-1 {
		panic("rational: quotient overflows int64")
	}
	return int64(q)
}
