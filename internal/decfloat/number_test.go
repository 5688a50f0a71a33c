package decfloat

import (
	"encoding/hex"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fromHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func encode(t *testing.T, n Number) string {
	t.Helper()
	b, err := n.Bytes()
	require.NoError(t, err)
	return hex.EncodeToString(b[:])
}

func num(t *testing.T, m int64, e int32) Number {
	t.Helper()
	n, err := New(m, e, ToNearest)
	require.NoError(t, err)
	return n
}

func TestKnownEncodings(t *testing.T) {
	cases := map[string]Number{
		"d4838d7ea4c68000": One,
		"94838d7ea4c68000": MinusOne,
		"d4c38d7ea4c68000": num(t, 10, 0),
		"d4871afd498d0000": num(t, 2, 0),
		"ec6386f26fc0ffff": num(t, maxMantissa, MaxExponent),
		"ec438d7ea4c68000": num(t, minMantissa, MaxExponent),
		"ec038d7ea4c68000": num(t, minMantissa, MaxExponent-1),
		"ac438d7ea4c68000": num(t, -minMantissa, MaxExponent),
		"c0438d7ea4c68000": num(t, minMantissa, MinExponent),
		"d4838d7ea4c68001": num(t, minMantissa+1, -15),
		"8000000000000000": {},
	}
	for want, n := range cases {
		assert.Equal(t, want, encode(t, n), n.String())
		back, err := Decode(fromHex(t, want))
		require.NoError(t, err)
		assert.Equal(t, n, back)
	}
}

func TestFromInt(t *testing.T) {
	maxInt, err := FromInt(math.MaxInt64, ToNearest)
	require.NoError(t, err)
	assert.Equal(t, "d920c49ba5e353f8", encode(t, maxInt))

	minInt, err := FromInt(math.MinInt64, ToNearest)
	require.NoError(t, err)
	assert.Equal(t, "9920c49ba5e353f8", encode(t, minInt))

	down, err := FromInt(math.MaxInt64, TowardsZero)
	require.NoError(t, err)
	assert.Equal(t, int64(9223372036854775), down.Mantissa())

	u, err := FromUint(math.MaxUint64, Upward)
	require.NoError(t, err)
	assert.Equal(t, int64(1844674407370956), u.Mantissa())
	assert.Equal(t, int32(4), u.Exponent())

	_, err = FromInt(1, RoundingMode(4))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestDecodeRejects(t *testing.T) {
	for _, s := range []string{
		"",
		"d4838d7ea4c680",     // short
		"54838d7ea4c68000",   // not an issued value
		"c000000000000000",   // zero mantissa outside canonical zero
		"800000000000000100", // long
		"803fffffffffffff",   // exponent field zero
	} {
		_, err := Decode(fromHex(t, s))
		assert.ErrorIs(t, err, ErrMalformed, s)
	}
	assert.Equal(t, "Invalid data: C000000000000000", Describe(fromHex(t, "c000000000000000")))
	assert.Equal(t, "1", Describe(fromHex(t, "d4838d7ea4c68000")))
}

func TestEncodeBounds(t *testing.T) {
	huge := Number{mantissa: minMantissa, exponent: MaxExponent + 1}
	_, err := huge.Bytes()
	assert.ErrorIs(t, err, ErrComputation)

	tiny := Number{mantissa: minMantissa, exponent: MinExponent - 1}
	b, err := tiny.Bytes()
	require.NoError(t, err)
	assert.Equal(t, Zero, b)

	maxIOU := MustDecode(fromHex(t, "ec6386f26fc0ffff"))
	ten := num(t, 10, 0)
	r, err := Mul(maxIOU, ten, ToNearest)
	require.NoError(t, err)
	_, err = r.Bytes()
	assert.ErrorIs(t, err, ErrComputation)
}

func TestArithmeticRoundTrips(t *testing.T) {
	nine := num(t, 9, 0)
	ten := num(t, 10, 0)

	sum, err := Add(One, nine, ToNearest)
	require.NoError(t, err)
	assert.Equal(t, 0, sum.Compare(ten))

	v := One
	for i := 0; i < 6; i++ {
		v, err = Mul(v, ten, ToNearest)
		require.NoError(t, err)
	}
	assert.Equal(t, num(t, 1, 6), v)
	assert.Equal(t, "1000000", v.String())

	for i := 0; i < 7; i++ {
		v, err = Div(v, ten, ToNearest)
		require.NoError(t, err)
	}
	assert.Equal(t, num(t, 1, -1), v)
	assert.Equal(t, "0.1", v.String())

	diff, err := Sub(ten, nine, ToNearest)
	require.NoError(t, err)
	assert.Equal(t, One, diff)

	zero, err := Sub(ten, ten, ToNearest)
	require.NoError(t, err)
	assert.True(t, zero.IsZero())
}

func TestAddFarApart(t *testing.T) {
	big := num(t, 1, 40)
	small := num(t, 1, -40)

	r, err := Add(big, small, ToNearest)
	require.NoError(t, err)
	assert.Equal(t, big, r)

	r, err = Add(big, small, Upward)
	require.NoError(t, err)
	assert.Equal(t, minMantissa+1, r.Mantissa())

	r, err = Sub(big, small, Downward)
	require.NoError(t, err)
	assert.Equal(t, maxMantissa, r.Mantissa())
	assert.Equal(t, int32(24), r.Exponent())

	r, err = Sub(big, small, TowardsZero)
	require.NoError(t, err)
	assert.Equal(t, maxMantissa, r.Mantissa())
}

func TestDirectedDivision(t *testing.T) {
	three := num(t, 3, 0)
	cases := []struct {
		mode RoundingMode
		x    Number
		want int64
	}{
		{ToNearest, One, 3333333333333333},
		{TowardsZero, One, 3333333333333333},
		{Upward, One, 3333333333333334},
		{Downward, One, 3333333333333333},
		{Downward, MinusOne, -3333333333333334},
		{Upward, MinusOne, -3333333333333333},
		{TowardsZero, MinusOne, -3333333333333333},
	}
	for _, c := range cases {
		r, err := Div(c.x, three, c.mode)
		require.NoError(t, err)
		assert.Equal(t, c.want, r.Mantissa(), c.mode.String())
		assert.Equal(t, int32(-16), r.Exponent())
	}

	two := num(t, 2, 0)
	r, err := Div(two, three, ToNearest)
	require.NoError(t, err)
	assert.Equal(t, int64(6666666666666667), r.Mantissa())

	_, err = Div(One, Number{}, ToNearest)
	assert.ErrorIs(t, err, ErrComputation)
}

func TestNearestTiesToEven(t *testing.T) {
	r, err := New(10000000000000005, 0, ToNearest)
	require.NoError(t, err)
	assert.Equal(t, int64(1000000000000000), r.Mantissa())

	r, err = New(10000000000000015, 0, ToNearest)
	require.NoError(t, err)
	assert.Equal(t, int64(1000000000000002), r.Mantissa())
}

func TestPow(t *testing.T) {
	_, err := Pow(Number{}, 0, ToNearest)
	assert.ErrorIs(t, err, ErrZeroPowZero)

	r, err := Pow(num(t, 7, 0), 0, ToNearest)
	require.NoError(t, err)
	assert.Equal(t, One, r)

	r, err = Pow(num(t, 2, 0), 10, ToNearest)
	require.NoError(t, err)
	assert.Equal(t, num(t, 1024, 0), r)

	r, err = Pow(MinusOne, 3, ToNearest)
	require.NoError(t, err)
	assert.Equal(t, MinusOne, r)

	r, err = Pow(Number{}, 5, ToNearest)
	require.NoError(t, err)
	assert.True(t, r.IsZero())

	_, err = Pow(One, -1, ToNearest)
	assert.ErrorIs(t, err, ErrMalformed)
	_, err = Pow(One, MaxPower+1, ToNearest)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestRoot(t *testing.T) {
	r, err := Root(num(t, 100, 0), 2, ToNearest)
	require.NoError(t, err)
	assert.Equal(t, num(t, 10, 0), r)

	r, err = Root(num(t, 4, 0), 2, ToNearest)
	require.NoError(t, err)
	assert.Equal(t, num(t, 2, 0), r)

	r, err = Root(num(t, -27, 0), 3, ToNearest)
	require.NoError(t, err)
	assert.Equal(t, num(t, -3, 0), r)

	r, err = Root(num(t, 2, 0), 2, ToNearest)
	require.NoError(t, err)
	assert.Equal(t, int64(1414213562373095), r.Mantissa())

	r, err = Root(num(t, 2, 0), 2, Upward)
	require.NoError(t, err)
	assert.Equal(t, int64(1414213562373096), r.Mantissa())

	r, err = Root(num(t, 2, 0), 65, ToNearest)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Compare(One))
	assert.Equal(t, -1, r.Compare(num(t, 102, -2)))

	_, err = Root(MinusOne, 2, ToNearest)
	assert.ErrorIs(t, err, ErrComputation)
	_, err = Root(One, 0, ToNearest)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestLog10(t *testing.T) {
	r, err := Log10(num(t, 100, 0), ToNearest)
	require.NoError(t, err)
	assert.Equal(t, num(t, 2, 0), r)

	r, err = Log10(num(t, 1, -3), ToNearest)
	require.NoError(t, err)
	assert.Equal(t, num(t, -3, 0), r)

	r, err = Log10(One, ToNearest)
	require.NoError(t, err)
	assert.True(t, r.IsZero())

	r, err = Log10(num(t, 2, 0), ToNearest)
	require.NoError(t, err)
	assert.Equal(t, int64(3010299956639812), r.Mantissa())
	assert.Equal(t, int32(-16), r.Exponent())

	_, err = Log10(Number{}, ToNearest)
	assert.ErrorIs(t, err, ErrComputation)
	_, err = Log10(MinusOne, ToNearest)
	assert.ErrorIs(t, err, ErrComputation)
}

func TestCompareAndString(t *testing.T) {
	assert.Equal(t, 0, One.Compare(One))
	assert.Equal(t, 1, One.Compare(MinusOne))
	assert.Equal(t, -1, MinusOne.Compare(Number{}))
	assert.Equal(t, -1, num(t, -10, 0).Compare(MinusOne))
	assert.Equal(t, 1, num(t, 10, 0).Compare(num(t, 9, 0)))

	assert.Equal(t, "0", Number{}.String())
	assert.Equal(t, "-1", MinusOne.String())
	assert.Equal(t, "1e95", num(t, 1, 95).String())
	assert.Equal(t, "1.5", num(t, 15, -1).String())
	assert.Equal(t, "123e-30", num(t, 123, -30).String())
}

func TestParse(t *testing.T) {
	cases := map[string]Number{
		"1":                 One,
		"-1":                MinusOne,
		"0.1":               num(t, 1, -1),
		"12.50":             num(t, 125, -1),
		"3e-7":              num(t, 3, -7),
		"+1000":             num(t, 1, 3),
		"0":                 {},
		"0.000":             {},
		"1.5E2":             num(t, 150, 0),
		"99999999999999995": num(t, 1, 17),
	}
	for in, want := range cases {
		got, err := Parse(in, ToNearest)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, in := range []string{"", "-", "1.2.3", "abc", "1e", "1ex"} {
		_, err := Parse(in, ToNearest)
		assert.ErrorIs(t, err, ErrMalformed, in)
	}
}
