package decfloat

import (
	"math/big"
)

// RoundingMode selects how inexact results are rounded to 16 digits.
type RoundingMode int32

const (
	ToNearest RoundingMode = iota
	TowardsZero
	Downward
	Upward
)

// Valid reports whether m is a known mode.
func (m RoundingMode) Valid() bool {
	return m >= ToNearest && m <= Upward
}

func (m RoundingMode) String() string {
	switch m {
	case ToNearest:
		return "to_nearest"
	case TowardsZero:
		return "towards_zero"
	case Downward:
		return "downward"
	case Upward:
		return "upward"
	}
	return "invalid"
}

// exponent bounds kept while computing; far outside the encodable range
const (
	internalMaxExponent = 1 << 20
	internalMinExponent = -(1 << 20)
)

var (
	bigTen     = big.NewInt(10)
	bigMaxMant = big.NewInt(maxMantissa)
	pow10Cache [64]*big.Int
)

func init() {
	p := big.NewInt(1)
	for i := range pow10Cache {
		pow10Cache[i] = new(big.Int).Set(p)
		p.Mul(p, bigTen)
	}
}

func pow10(k int64) *big.Int {
	if k < int64(len(pow10Cache)) {
		return pow10Cache[k]
	}
	return new(big.Int).Exp(bigTen, big.NewInt(k), nil)
}

func numDigits(x *big.Int) int64 {
	// bit length gives a close lower bound; fix up with one comparison
	d := int64(float64(x.BitLen())*0.30102999566398120) + 1
	if x.CmpAbs(pow10(d-1)) < 0 {
		d--
	}
	for x.CmpAbs(pow10(d)) >= 0 {
		d++
	}
	return d
}

// roundBig rounds value*10^exp to a normalized Number. sticky marks that the
// true value lies strictly above |value| in magnitude by less than one unit.
func roundBig(value *big.Int, exp int64, sticky bool, mode RoundingMode) (Number, error) {
	if value.Sign() == 0 {
		return Number{}, nil
	}
	neg := value.Sign() < 0
	q := new(big.Int).Abs(value)

	inexact := sticky
	roundUp := false
	if k := numDigits(q) - 16; k > 0 {
		divisor := pow10(k)
		r := new(big.Int)
		q.QuoRem(q, divisor, r)
		exp += k
		if r.Sign() != 0 {
			inexact = true
		}
		switch mode {
		case ToNearest:
			c := new(big.Int).Lsh(r, 1).Cmp(divisor)
			roundUp = c > 0 || (c == 0 && (sticky || q.Bit(0) == 1))
		case Downward:
			roundUp = neg && inexact
		case Upward:
			roundUp = !neg && inexact
		}
	} else {
		if k < 0 {
			q.Mul(q, pow10(-k))
			exp += k
		}
		// remaining sticky portion is below half a unit
		switch mode {
		case Downward:
			roundUp = neg && inexact
		case Upward:
			roundUp = !neg && inexact
		}
	}
	if roundUp {
		q.Add(q, big.NewInt(1))
		if q.Cmp(bigMaxMant) > 0 {
			q.Quo(q, bigTen)
			exp++
		}
	}
	if exp > internalMaxExponent {
		return Number{}, ErrComputation
	}
	if exp < internalMinExponent {
		return Number{}, nil
	}
	m := q.Int64()
	if neg {
		m = -m
	}
	return Number{mantissa: m, exponent: int32(exp)}, nil
}

// New builds mantissa*10^exponent, rounding to 16 digits.
func New(mantissa int64, exponent int32, mode RoundingMode) (Number, error) {
	if !mode.Valid() {
		return Number{}, ErrMalformed
	}
	return roundBig(big.NewInt(mantissa), int64(exponent), false, mode)
}

// FromInt converts a signed integer.
func FromInt(x int64, mode RoundingMode) (Number, error) {
	return New(x, 0, mode)
}

// FromUint converts an unsigned integer.
func FromUint(x uint64, mode RoundingMode) (Number, error) {
	if !mode.Valid() {
		return Number{}, ErrMalformed
	}
	return roundBig(new(big.Int).SetUint64(x), 0, false, mode)
}

func (n Number) big() *big.Int {
	return big.NewInt(n.mantissa)
}
