package decfloat

import (
	"math"
	"math/big"
)

// addends further apart than this many decades cannot influence each other
// beyond the rounding direction
const farApart = 40

// Add returns x+y.
func Add(x, y Number, mode RoundingMode) (Number, error) {
	if !mode.Valid() {
		return Number{}, ErrMalformed
	}
	if x.IsZero() {
		return y, nil
	}
	if y.IsZero() {
		return x, nil
	}
	if x.exponent < y.exponent {
		x, y = y, x
	}
	diff := int64(x.exponent) - int64(y.exponent)
	a := x.big()
	if diff > farApart {
		// y stands in as a single unit well below x's last digit
		a.Mul(a, pow10(22))
		a.Add(a, big.NewInt(int64(y.Sign())))
		return roundBig(a, int64(x.exponent)-22, false, mode)
	}
	a.Mul(a, pow10(diff))
	a.Add(a, y.big())
	return roundBig(a, int64(y.exponent), false, mode)
}

// Sub returns x-y.
func Sub(x, y Number, mode RoundingMode) (Number, error) {
	return Add(x, y.Neg(), mode)
}

// Mul returns x*y.
func Mul(x, y Number, mode RoundingMode) (Number, error) {
	if !mode.Valid() {
		return Number{}, ErrMalformed
	}
	if x.IsZero() || y.IsZero() {
		return Number{}, nil
	}
	a := x.big()
	a.Mul(a, y.big())
	return roundBig(a, int64(x.exponent)+int64(y.exponent), false, mode)
}

// Div returns x/y. Division by zero is a computation error.
func Div(x, y Number, mode RoundingMode) (Number, error) {
	if !mode.Valid() {
		return Number{}, ErrMalformed
	}
	if y.IsZero() {
		return Number{}, ErrComputation
	}
	if x.IsZero() {
		return Number{}, nil
	}
	const scale = 20
	num := new(big.Int).Mul(big.NewInt(x.abs()), pow10(scale))
	q, r := new(big.Int).QuoRem(num, big.NewInt(y.abs()), new(big.Int))
	if x.Sign() != y.Sign() {
		q.Neg(q)
	}
	return roundBig(q, int64(x.exponent)-int64(y.exponent)-scale, r.Sign() != 0, mode)
}

// MaxPower is the largest exponent accepted by Pow.
const MaxPower = MaxExponent

// Pow returns x raised to the non-negative integer power n.
func Pow(x Number, n int32, mode RoundingMode) (Number, error) {
	if n < 0 || n > MaxPower {
		return Number{}, ErrMalformed
	}
	if !mode.Valid() {
		return Number{}, ErrMalformed
	}
	if n == 0 {
		if x.IsZero() {
			return Number{}, ErrZeroPowZero
		}
		return One, nil
	}
	if x.IsZero() {
		return Number{}, nil
	}
	a := new(big.Int).Exp(x.big(), big.NewInt(int64(n)), nil)
	return roundBig(a, int64(x.exponent)*int64(n), false, mode)
}

// exactRootDegree bounds the degrees computed with integer arithmetic.
const exactRootDegree = 64

// Root returns the n-th root of x for n >= 1. Even roots of negative values are
// a computation error.
func Root(x Number, n int32, mode RoundingMode) (Number, error) {
	if n < 1 {
		return Number{}, ErrMalformed
	}
	if !mode.Valid() {
		return Number{}, ErrMalformed
	}
	if x.IsZero() || n == 1 {
		return x, nil
	}
	if x.Sign() < 0 && n%2 == 0 {
		return Number{}, ErrComputation
	}
	if x.abs() == minMantissa && int64(x.exponent+15)%int64(n) == 0 {
		// exact power of ten
		r := Number{mantissa: minMantissa, exponent: (x.exponent+15)/n - 15}
		if x.Sign() < 0 {
			r = r.Neg()
		}
		return r, nil
	}
	if n > exactRootDegree {
		return approxRoot(x, n, mode)
	}
	// scale the radicand so the integer root carries at least 17 digits and
	// the remaining exponent divides evenly by n
	deg := int64(n)
	e := int64(x.exponent)
	shift := 17*deg - 16
	if rem := ((e-shift)%deg + deg) % deg; rem != 0 {
		shift += rem
	}
	radicand := new(big.Int).Mul(big.NewInt(x.abs()), pow10(shift))
	root := intRoot(radicand, deg)
	check := new(big.Int).Exp(root, big.NewInt(deg), nil)
	exact := check.Cmp(radicand) == 0
	if x.Sign() < 0 {
		root.Neg(root)
	}
	return roundBig(root, (e-shift)/deg, !exact, mode)
}

// intRoot returns floor(v^(1/n)) by Newton iteration.
func intRoot(v *big.Int, n int64) *big.Int {
	if v.Sign() == 0 {
		return new(big.Int)
	}
	bn := big.NewInt(n)
	bn1 := big.NewInt(n - 1)
	// initial guess above the root: 2^ceil(bits/n)
	x := new(big.Int).Lsh(big.NewInt(1), uint(v.BitLen()/int(n)+1))
	for {
		// y = ((n-1)x + v / x^(n-1)) / n
		t := new(big.Int).Exp(x, bn1, nil)
		t.Quo(v, t)
		y := new(big.Int).Mul(x, bn1)
		y.Add(y, t)
		y.Quo(y, bn)
		if y.Cmp(x) >= 0 {
			return x
		}
		x = y
	}
}

const floatPrec = 192

// approxRoot handles high degrees with extended precision floating point;
// such roots are never exact for encodable inputs other than powers of ten.
func approxRoot(x Number, n int32, mode RoundingMode) (Number, error) {
	v := toFloat(x.abs(), x.exponent)
	ln := lnFloat(v)
	ln.Quo(ln, new(big.Float).SetPrec(floatPrec).SetInt64(int64(n)))
	r := expFloat(ln)
	if x.Sign() < 0 {
		r.Neg(r)
	}
	return fromFloat(r, mode)
}

// Log10 returns the base-10 logarithm of a positive x.
func Log10(x Number, mode RoundingMode) (Number, error) {
	if !mode.Valid() {
		return Number{}, ErrMalformed
	}
	if x.Sign() <= 0 {
		return Number{}, ErrComputation
	}
	whole := int64(x.exponent) + 15
	if x.mantissa == minMantissa {
		return roundBig(big.NewInt(whole), 0, false, mode)
	}
	// log10(m / 10^15) in (0, 1)
	frac := lnFloat(toFloat(x.mantissa, -15))
	frac.Quo(frac, ln10())
	res := new(big.Float).SetPrec(floatPrec).SetInt64(whole)
	res.Add(res, frac)
	return fromFloat(res, mode)
}

func toFloat(m int64, e int32) *big.Float {
	f := new(big.Float).SetPrec(floatPrec).SetInt64(m)
	p := new(big.Float).SetPrec(floatPrec).SetInt(pow10(int64(absInt32(e))))
	if e < 0 {
		return f.Quo(f, p)
	}
	return f.Mul(f, p)
}

func absInt32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// fromFloat rounds an inexact extended precision value.
func fromFloat(f *big.Float, mode RoundingMode) (Number, error) {
	if f.Sign() == 0 {
		return Number{}, nil
	}
	// scale to a 20+ digit integer, keep the remainder as sticky
	e2 := f.MantExp(nil)
	dec := int64(math.Floor(float64(e2) * math.Log10(2)))
	scale := 20 - dec
	scaled := new(big.Float).SetPrec(floatPrec).Set(f)
	p := new(big.Float).SetPrec(floatPrec).SetInt(pow10(absInt64(scale)))
	if scale >= 0 {
		scaled.Mul(scaled, p)
	} else {
		scaled.Quo(scaled, p)
	}
	i, acc := scaled.Int(nil)
	// Int truncates toward zero, matching the sticky convention
	return roundBig(i, -scale, acc != big.Exact, mode)
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// lnFloat computes ln(v) for v > 0 by halving into [1, 2) and summing the
// atanh series.
func lnFloat(v *big.Float) *big.Float {
	mant := new(big.Float).SetPrec(floatPrec)
	e2 := v.MantExp(mant) // v = mant * 2^e2, mant in [0.5, 1)
	mant.SetMantExp(mant, 1)
	e2--
	res := atanhLn(mant)
	if e2 != 0 {
		l2 := ln2()
		l2.Mul(l2, new(big.Float).SetPrec(floatPrec).SetInt64(int64(e2)))
		res.Add(res, l2)
	}
	return res
}

// atanhLn computes ln(y) = 2 atanh((y-1)/(y+1)) for y in [1, 2].
func atanhLn(y *big.Float) *big.Float {
	one := new(big.Float).SetPrec(floatPrec).SetInt64(1)
	num := new(big.Float).SetPrec(floatPrec).Sub(y, one)
	den := new(big.Float).SetPrec(floatPrec).Add(y, one)
	z := num.Quo(num, den)
	z2 := new(big.Float).SetPrec(floatPrec).Mul(z, z)
	sum := new(big.Float).SetPrec(floatPrec)
	term := new(big.Float).SetPrec(floatPrec).Set(z)
	eps := new(big.Float).SetPrec(floatPrec).SetMantExp(one, -floatPrec)
	for k := int64(1); ; k += 2 {
		t := new(big.Float).SetPrec(floatPrec).Quo(term, new(big.Float).SetPrec(floatPrec).SetInt64(k))
		sum.Add(sum, t)
		if t.Sign() == 0 || new(big.Float).Abs(t).Cmp(eps) < 0 {
			break
		}
		term.Mul(term, z2)
	}
	return sum.Mul(sum, new(big.Float).SetPrec(floatPrec).SetInt64(2))
}

func ln2() *big.Float {
	return atanhLn(new(big.Float).SetPrec(floatPrec).SetInt64(2))
}

func ln10() *big.Float {
	return lnFloat(new(big.Float).SetPrec(floatPrec).SetInt64(10))
}

// expFloat computes e^v by reducing v modulo ln 2 and summing the Taylor
// series of the remainder.
func expFloat(v *big.Float) *big.Float {
	l2 := ln2()
	kf := new(big.Float).SetPrec(floatPrec).Quo(v, l2)
	k, _ := kf.Int64()
	r := new(big.Float).SetPrec(floatPrec).Mul(l2, new(big.Float).SetPrec(floatPrec).SetInt64(k))
	r.Sub(v, r)

	one := new(big.Float).SetPrec(floatPrec).SetInt64(1)
	eps := new(big.Float).SetPrec(floatPrec).SetMantExp(one, -floatPrec)
	sum := new(big.Float).SetPrec(floatPrec).SetInt64(1)
	term := new(big.Float).SetPrec(floatPrec).SetInt64(1)
	for i := int64(1); i < 1000; i++ {
		term.Mul(term, r)
		term.Quo(term, new(big.Float).SetPrec(floatPrec).SetInt64(i))
		sum.Add(sum, term)
		if new(big.Float).Abs(term).Cmp(eps) < 0 {
			break
		}
	}
	return sum.SetMantExp(sum, int(k))
}
