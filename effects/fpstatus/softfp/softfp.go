// Package softfp provides IEEE 754 checked arithmetic over float64.
//
// Go exposes no portable way to read the hardware floating-point
// environment, so softfp supplies the producer side of the fpstatus
// contract in software: each operation computes the ordinary float64
// result and raises the exception flags the operation would have set on a
// strict IEEE environment — invalid operation, divide-by-zero, overflow,
// underflow, and inexact result.
//
// Exactness is decided with fused-multiply-add residuals, which are exact
// for the finite normal results these checks care about. Note that softfp
// models the strict environment: it reports Inexact for ordinary rounding,
// which some hardware environments legitimately do not. Identical
// arithmetic may therefore report different masks under a different
// register implementation; callers comparing masks should account for the
// environment in use.
//
// The plain operations raise into fpstatus.Ambient(); the *On variants take
// an explicit Raiser for scoped or test registers.
package softfp

import (
	"math"

	"github.com/out-of-band/efftrack/effects/fpstatus"
)

// Add returns a+b, raising flags on the ambient register.
func Add(a, b float64) float64 { return AddOn(fpstatus.Ambient(), a, b) }

// Sub returns a-b, raising flags on the ambient register.
func Sub(a, b float64) float64 { return SubOn(fpstatus.Ambient(), a, b) }

// Mul returns a*b, raising flags on the ambient register.
func Mul(a, b float64) float64 { return MulOn(fpstatus.Ambient(), a, b) }

// Div returns a/b, raising flags on the ambient register.
func Div(a, b float64) float64 { return DivOn(fpstatus.Ambient(), a, b) }

// Sqrt returns the square root of x, raising flags on the ambient register.
func Sqrt(x float64) float64 { return SqrtOn(fpstatus.Ambient(), x) }

// AddOn returns a+b, raising flags on r.
func AddOn(r fpstatus.Raiser, a, b float64) float64 {
	s := a + b
	switch {
	case math.IsNaN(s) && !math.IsNaN(a) && !math.IsNaN(b):
		// Inf + (-Inf)
		r.Raise(fpstatus.Invalid)
	case math.IsInf(s, 0) && !math.IsInf(a, 0) && !math.IsInf(b, 0):
		r.Raise(fpstatus.Overflow | fpstatus.Inexact)
	case !math.IsInf(s, 0) && !math.IsNaN(s):
		// 2Sum: the exact rounding error of a+b.
		bv := s - a
		err := (a - (s - bv)) + (b - bv)
		if err != 0 {
			r.Raise(fpstatus.Inexact)
			if isSubnormal(s) {
				r.Raise(fpstatus.Underflow)
			}
		}
	}
	return s
}

// SubOn returns a-b, raising flags on r.
func SubOn(r fpstatus.Raiser, a, b float64) float64 {
	return AddOn(r, a, -b)
}

// MulOn returns a*b, raising flags on r.
func MulOn(r fpstatus.Raiser, a, b float64) float64 {
	p := a * b
	switch {
	case math.IsNaN(p) && !math.IsNaN(a) && !math.IsNaN(b):
		// 0 * Inf
		r.Raise(fpstatus.Invalid)
	case math.IsInf(p, 0) && !math.IsInf(a, 0) && !math.IsInf(b, 0):
		r.Raise(fpstatus.Overflow | fpstatus.Inexact)
	case !math.IsInf(p, 0) && !math.IsNaN(p):
		if math.FMA(a, b, -p) != 0 {
			r.Raise(fpstatus.Inexact)
			if p == 0 || isSubnormal(p) {
				r.Raise(fpstatus.Underflow)
			}
		}
	}
	return p
}

// DivOn returns a/b, raising flags on r.
func DivOn(r fpstatus.Raiser, a, b float64) float64 {
	q := a / b
	switch {
	case math.IsNaN(q) && !math.IsNaN(a) && !math.IsNaN(b):
		// 0/0 or Inf/Inf
		r.Raise(fpstatus.Invalid)
	case b == 0 && !math.IsNaN(a) && !math.IsInf(a, 0):
		// a is finite nonzero here, the NaN case above caught 0/0
		r.Raise(fpstatus.DivideByZero)
	case math.IsInf(q, 0) && !math.IsInf(a, 0) && !math.IsInf(b, 0):
		r.Raise(fpstatus.Overflow | fpstatus.Inexact)
	case !math.IsInf(q, 0) && !math.IsNaN(q) && !math.IsInf(b, 0):
		if math.FMA(q, b, -a) != 0 {
			r.Raise(fpstatus.Inexact)
			if q == 0 && a != 0 || isSubnormal(q) {
				r.Raise(fpstatus.Underflow)
			}
		}
	}
	return q
}

// SqrtOn returns the square root of x, raising flags on r.
func SqrtOn(r fpstatus.Raiser, x float64) float64 {
	s := math.Sqrt(x)
	switch {
	case x < 0:
		r.Raise(fpstatus.Invalid)
	case !math.IsInf(s, 0) && !math.IsNaN(s):
		if math.FMA(s, s, -x) != 0 {
			r.Raise(fpstatus.Inexact)
		}
	}
	return s
}

// isSubnormal reports whether x is nonzero with a zero biased exponent.
func isSubnormal(x float64) bool {
	bits := math.Float64bits(x)
	return bits&0x7ff0000000000000 == 0 && bits&0x000fffffffffffff != 0
}
