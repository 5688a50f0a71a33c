package hostabi

import (
	"encoding/binary"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XRPLF/wasmhost/internal/decfloat"
	"github.com/XRPLF/wasmhost/internal/sto"
)

type floatEnv struct {
	*env
	c   *Context
	out int32
}

func newFloatEnv(t *testing.T) *floatEnv {
	e := newEnv(t)
	return &floatEnv{env: e, c: e.context(nil, sto.Hash256{}), out: e.alloc(8)}
}

func (f *floatEnv) float(n decfloat.Number) (int32, int32) {
	return f.put(floatBytes(f.t, n))
}

// result decodes the float written to the output buffer.
func (f *floatEnv) result(n int32, err error) decfloat.Number {
	t := f.t
	t.Helper()
	require.NoError(t, err)
	require.Equal(t, int32(decfloat.Size), n)
	v, err := decfloat.Decode(f.bytes(f.out, n))
	require.NoError(t, err)
	return v
}

func TestFloatConstruction(t *testing.T) {
	f := newFloatEnv(t)
	mode := int32(decfloat.ToNearest)

	n, err := f.c.FloatFromInt(f.mem, 1, f.out, 8, mode)
	require.NoError(t, err)
	assert.Equal(t, int32(8), n)
	assert.Equal(t, "d4838d7ea4c68000", hex.EncodeToString(f.bytes(f.out, 8)))

	u, ul := f.put(binary.LittleEndian.AppendUint64(nil, 12345))
	got := f.result(f.c.FloatFromUint(f.mem, u, ul, f.out, 8, mode))
	assert.Equal(t, 0, got.Compare(number(t, 12345, 0)))

	got = f.result(f.c.FloatSet(f.mem, -1, 25, f.out, 8, mode))
	assert.Equal(t, "2.5", got.String())

	_, err = f.c.FloatFromInt(f.mem, 1, f.out, 8, 9)
	assert.ErrorIs(t, err, ErrFloatInputMalformed)
	_, err = f.c.FloatFromInt(f.mem, 1, f.out, 7, mode)
	assert.ErrorIs(t, err, ErrBufferTooSmall)
	_, err = f.c.FloatFromUint(f.mem, u, 4, f.out, 8, mode)
	assert.ErrorIs(t, err, ErrInvalidParams)
	_, err = f.c.FloatSet(f.mem, 81, 1_000_000_000_000_000, f.out, 8, mode)
	assert.Equal(t, ErrFloatComputation, codeOf(err))
}

func TestFloatArithmetic(t *testing.T) {
	f := newFloatEnv(t)
	mode := int32(decfloat.ToNearest)
	x, xl := f.float(number(t, 25, -1))
	y, yl := f.float(number(t, 2, 0))

	sum := f.result(f.c.FloatAdd(f.mem, x, xl, y, yl, f.out, 8, mode))
	assert.Equal(t, "4.5", sum.String())

	diff := f.result(f.c.FloatSubtract(f.mem, x, xl, y, yl, f.out, 8, mode))
	assert.Equal(t, "0.5", diff.String())

	prod := f.result(f.c.FloatMultiply(f.mem, x, xl, y, yl, f.out, 8, mode))
	assert.Equal(t, "5", prod.String())

	quot := f.result(f.c.FloatDivide(f.mem, x, xl, y, yl, f.out, 8, mode))
	assert.Equal(t, "1.25", quot.String())

	third := func(mode decfloat.RoundingMode) decfloat.Number {
		one, ol := f.float(decfloat.One)
		three, tl := f.float(number(t, 3, 0))
		return f.result(f.c.FloatDivide(f.mem, one, ol, three, tl, f.out, 8, int32(mode)))
	}
	down, up := third(decfloat.Downward), third(decfloat.Upward)
	assert.Equal(t, -1, down.Compare(up))

	zero, zl := f.float(decfloat.Number{})
	_, err := f.c.FloatDivide(f.mem, x, xl, zero, zl, f.out, 8, mode)
	assert.Equal(t, ErrFloatComputation, codeOf(err))

	big, bl := f.float(number(t, 9_999_999_999_999_999, decfloat.MaxExponent))
	_, err = f.c.FloatMultiply(f.mem, big, bl, y, yl, f.out, 8, mode)
	assert.Equal(t, ErrFloatComputation, codeOf(err))
}

func TestFloatCompare(t *testing.T) {
	f := newFloatEnv(t)
	small, sl := f.float(number(t, 1, 0))
	large, ll := f.float(number(t, 2, 0))

	cases := []struct {
		x, xl, y, yl int32
		want         int32
	}{
		{small, sl, small, sl, 0},
		{large, ll, small, sl, 1},
		{small, sl, large, ll, 2},
	}
	for _, tc := range cases {
		got, err := f.c.FloatCompare(f.mem, tc.x, tc.xl, tc.y, tc.yl)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}
}

func TestFloatPowRootLog(t *testing.T) {
	f := newFloatEnv(t)
	mode := int32(decfloat.ToNearest)
	four, fl := f.float(number(t, 4, 0))
	hundred, hl := f.float(number(t, 100, 0))
	zero, zl := f.float(decfloat.Number{})

	sq := f.result(f.c.FloatPow(f.mem, four, fl, 2, f.out, 8, mode))
	assert.Equal(t, "16", sq.String())

	root := f.result(f.c.FloatRoot(f.mem, four, fl, 2, f.out, 8, mode))
	assert.Equal(t, "2", root.String())

	lg := f.result(f.c.FloatLog(f.mem, hundred, hl, f.out, 8, mode))
	assert.Equal(t, "2", lg.String())

	_, err := f.c.FloatPow(f.mem, zero, zl, 0, f.out, 8, mode)
	assert.Equal(t, ErrInvalidParams, codeOf(err))
	_, err = f.c.FloatPow(f.mem, four, fl, 81, f.out, 8, mode)
	assert.Equal(t, ErrFloatInputMalformed, codeOf(err))
	_, err = f.c.FloatRoot(f.mem, four, fl, 0, f.out, 8, mode)
	assert.Equal(t, ErrFloatInputMalformed, codeOf(err))
	_, err = f.c.FloatLog(f.mem, zero, zl, f.out, 8, mode)
	assert.Equal(t, ErrFloatComputation, codeOf(err))
}

func TestFloatInputValidation(t *testing.T) {
	f := newFloatEnv(t)
	mode := int32(decfloat.ToNearest)
	bad, bl := f.put(make([]byte, 8))
	good, gl := f.float(decfloat.One)

	_, err := f.c.FloatAdd(f.mem, bad, bl, good, gl, f.out, 8, mode)
	assert.Equal(t, ErrFloatInputMalformed, codeOf(err))

	_, err = f.c.FloatAdd(f.mem, good, gl-1, good, gl, f.out, 8, mode)
	assert.ErrorIs(t, err, ErrInvalidParams)

	_, err = f.c.FloatAdd(f.mem, good, gl, good, gl, f.out, 8, -1)
	assert.ErrorIs(t, err, ErrFloatInputMalformed)

	_, err = f.c.FloatCompare(f.mem, memorySize-4, 8, good, gl)
	assert.ErrorIs(t, err, ErrPointerOutOfBounds)
}
