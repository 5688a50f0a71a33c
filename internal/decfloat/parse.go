package decfloat

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// Parse reads a decimal string such as "-12.5", "3e-7" or "1000".
func Parse(s string, mode RoundingMode) (Number, error) {
	if !mode.Valid() {
		return Number{}, ErrMalformed
	}
	str := strings.TrimSpace(s)
	neg := false
	switch {
	case strings.HasPrefix(str, "-"):
		neg = true
		str = str[1:]
	case strings.HasPrefix(str, "+"):
		str = str[1:]
	}
	var exp int64
	if i := strings.IndexAny(str, "eE"); i >= 0 {
		e, err := strconv.ParseInt(str[i+1:], 10, 32)
		if err != nil {
			return Number{}, fmt.Errorf("%w: exponent of %q", ErrMalformed, s)
		}
		exp = e
		str = str[:i]
	}
	intPart, fracPart, _ := strings.Cut(str, ".")
	digits := intPart + fracPart
	if digits == "" || strings.Trim(digits, "0123456789") != "" {
		return Number{}, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	exp -= int64(len(fracPart))
	m, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return Number{}, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	if neg {
		m.Neg(m)
	}
	return roundBig(m, exp, false, mode)
}
