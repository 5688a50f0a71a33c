// Package decfloat implements the 8-byte opaque decimal float used for token
// amounts. A Number is a signed 16 digit mantissa scaled by a power of ten.
package decfloat

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
)

const (
	minMantissa int64 = 1_000_000_000_000_000
	maxMantissa int64 = 9_999_999_999_999_999

	// MinExponent and MaxExponent bound the exponent of an encodable value.
	MinExponent = -96
	MaxExponent = 80

	// Size is the encoded width in bytes.
	Size = 8

	issuedBit    uint64 = 1 << 63
	positiveBit  uint64 = 1 << 62
	mantissaMax  uint64 = 1<<54 - 1
	exponentBias        = 97
)

var (
	// ErrMalformed is returned for undecodable input or an invalid argument.
	ErrMalformed = errors.New("decfloat: malformed input")
	// ErrComputation is returned when a result cannot be represented.
	ErrComputation = errors.New("decfloat: computation error")
	// ErrZeroPowZero is returned for zero raised to the zeroth power.
	ErrZeroPowZero = errors.New("decfloat: zero to the power of zero")
)

// Zero is the canonical encoding of zero.
var Zero = [Size]byte{0x80}

// Number is a normalized decimal float. The zero value is zero.
type Number struct {
	mantissa int64
	exponent int32
}

// One and MinusOne are the unit constants.
var (
	One      = Number{mantissa: minMantissa, exponent: -15}
	MinusOne = Number{mantissa: -minMantissa, exponent: -15}
)

// Mantissa returns the signed mantissa, zero or 16 digits.
func (n Number) Mantissa() int64 { return n.mantissa }

// Exponent returns the power of ten applied to the mantissa.
func (n Number) Exponent() int32 { return n.exponent }

func (n Number) IsZero() bool { return n.mantissa == 0 }

// Sign returns -1, 0 or 1.
func (n Number) Sign() int {
	switch {
	case n.mantissa < 0:
		return -1
	case n.mantissa > 0:
		return 1
	}
	return 0
}

// Neg returns -n.
func (n Number) Neg() Number {
	return Number{mantissa: -n.mantissa, exponent: n.exponent}
}

func (n Number) abs() int64 {
	if n.mantissa < 0 {
		return -n.mantissa
	}
	return n.mantissa
}

// Compare returns -1 if n < o, 0 if equal and 1 if n > o.
func (n Number) Compare(o Number) int {
	ns, os := n.Sign(), o.Sign()
	if ns != os {
		if ns < os {
			return -1
		}
		return 1
	}
	if ns == 0 {
		return 0
	}
	c := 0
	switch {
	case n.exponent != o.exponent:
		if n.exponent < o.exponent {
			c = -1
		} else {
			c = 1
		}
	case n.abs() != o.abs():
		if n.abs() < o.abs() {
			c = -1
		} else {
			c = 1
		}
	}
	return c * ns
}

// Bytes encodes n. Values below the smallest exponent flush to zero; values
// above the largest exponent are an error.
func (n Number) Bytes() ([Size]byte, error) {
	if n.mantissa == 0 {
		return Zero, nil
	}
	if n.exponent > MaxExponent {
		return [Size]byte{}, ErrComputation
	}
	if n.exponent < MinExponent {
		return Zero, nil
	}
	v := issuedBit
	if n.mantissa > 0 {
		v |= positiveBit
	}
	v |= uint64(n.abs())
	v |= uint64(n.exponent+exponentBias) << 54
	var out [Size]byte
	binary.BigEndian.PutUint64(out[:], v)
	return out, nil
}

// Decode parses an encoded value.
func Decode(b []byte) (Number, error) {
	if len(b) != Size {
		return Number{}, ErrMalformed
	}
	if [Size]byte(b) == Zero {
		return Number{}, nil
	}
	v := binary.BigEndian.Uint64(b)
	if v&issuedBit == 0 {
		return Number{}, ErrMalformed
	}
	e := int32((v >> 54) & 0xff)
	if e < 1 || e > 177 {
		return Number{}, ErrMalformed
	}
	m := int64(v & mantissaMax)
	if m == 0 {
		return Number{}, ErrMalformed
	}
	if v&positiveBit == 0 {
		m = -m
	}
	return New(m, e-exponentBias, ToNearest)
}

// MustDecode is Decode for trusted constants.
func MustDecode(b []byte) Number {
	n, err := Decode(b)
	if err != nil {
		panic(err)
	}
	return n
}

// String renders n in plain notation for moderate exponents and in
// mantissa-e-exponent form otherwise.
func (n Number) String() string {
	if n.mantissa == 0 {
		return "0"
	}
	var sb strings.Builder
	if n.mantissa < 0 {
		sb.WriteByte('-')
	}
	digits := strconv.FormatInt(n.abs(), 10)
	exp := int(n.exponent)
	if exp < -25 || exp > -5 {
		trimmed := strings.TrimRight(digits, "0")
		exp += len(digits) - len(trimmed)
		sb.WriteString(trimmed)
		if exp != 0 {
			sb.WriteByte('e')
			sb.WriteString(strconv.Itoa(exp))
		}
		return sb.String()
	}
	// exp in [-25, -5]: the decimal point falls inside or before the digits
	point := len(digits) + exp
	var intPart, fracPart string
	if point > 0 {
		intPart, fracPart = digits[:point], digits[point:]
	} else {
		intPart, fracPart = "0", strings.Repeat("0", -point)+digits
	}
	sb.WriteString(intPart)
	if fracPart = strings.TrimRight(fracPart, "0"); fracPart != "" {
		sb.WriteByte('.')
		sb.WriteString(fracPart)
	}
	return sb.String()
}

// Describe renders encoded bytes for diagnostics, falling back to hex for
// undecodable input.
func Describe(b []byte) string {
	n, err := Decode(b)
	if err != nil {
		return "Invalid data: " + strings.ToUpper(hex.EncodeToString(b))
	}
	return n.String()
}
