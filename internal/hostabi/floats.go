package hostabi

import (
	"github.com/XRPLF/wasmhost/internal/decfloat"
)

func rounding(mode int32) (decfloat.RoundingMode, error) {
	m := decfloat.RoundingMode(mode)
	if !m.Valid() {
		return 0, ErrFloatInputMalformed
	}
	return m, nil
}

// emit encodes the result of a float operation into the guest buffer.
func (g gateway) emit(out, outLen int32, n decfloat.Number, err error) (int32, error) {
	if err != nil {
		return 0, err
	}
	b, err := n.Bytes()
	if err != nil {
		return 0, err
	}
	return g.write(out, outLen, b[:])
}

func (c *Context) FloatFromInt(mem Memory, x int64, out, outLen, mode int32) (int32, error) {
	m, err := rounding(mode)
	if err != nil {
		return 0, err
	}
	n, err := decfloat.FromInt(x, m)
	return c.gateway(mem).emit(out, outLen, n, err)
}

// FloatFromUint reads the integer as 8 little-endian bytes.
func (c *Context) FloatFromUint(mem Memory, in, inLen, out, outLen, mode int32) (int32, error) {
	g := c.gateway(mem)
	x, err := g.uint64LE(in, inLen)
	if err != nil {
		return 0, err
	}
	m, err := rounding(mode)
	if err != nil {
		return 0, err
	}
	n, err := decfloat.FromUint(x, m)
	return g.emit(out, outLen, n, err)
}

func (c *Context) FloatSet(mem Memory, exponent int32, mantissa int64, out, outLen, mode int32) (int32, error) {
	m, err := rounding(mode)
	if err != nil {
		return 0, err
	}
	n, err := decfloat.New(mantissa, exponent, m)
	return c.gateway(mem).emit(out, outLen, n, err)
}

// FloatCompare returns 0 when x == y, 1 when x > y and 2 when x < y.
func (c *Context) FloatCompare(mem Memory, x, xLen, y, yLen int32) (int32, error) {
	a, b, err := c.operands(mem, x, xLen, y, yLen)
	if err != nil {
		return 0, err
	}
	switch a.Compare(b) {
	case 1:
		return 1, nil
	case -1:
		return 2, nil
	}
	return 0, nil
}

func (c *Context) operands(mem Memory, x, xLen, y, yLen int32) (decfloat.Number, decfloat.Number, error) {
	g := c.gateway(mem)
	a, err := g.float(x, xLen)
	if err != nil {
		return a, a, err
	}
	b, err := g.float(y, yLen)
	return a, b, err
}

type binaryOp func(x, y decfloat.Number, mode decfloat.RoundingMode) (decfloat.Number, error)

func (c *Context) binary(mem Memory, op binaryOp, x, xLen, y, yLen, out, outLen, mode int32) (int32, error) {
	a, b, err := c.operands(mem, x, xLen, y, yLen)
	if err != nil {
		return 0, err
	}
	m, err := rounding(mode)
	if err != nil {
		return 0, err
	}
	n, err := op(a, b, m)
	return c.gateway(mem).emit(out, outLen, n, err)
}

func (c *Context) FloatAdd(mem Memory, x, xLen, y, yLen, out, outLen, mode int32) (int32, error) {
	return c.binary(mem, decfloat.Add, x, xLen, y, yLen, out, outLen, mode)
}

func (c *Context) FloatSubtract(mem Memory, x, xLen, y, yLen, out, outLen, mode int32) (int32, error) {
	return c.binary(mem, decfloat.Sub, x, xLen, y, yLen, out, outLen, mode)
}

func (c *Context) FloatMultiply(mem Memory, x, xLen, y, yLen, out, outLen, mode int32) (int32, error) {
	return c.binary(mem, decfloat.Mul, x, xLen, y, yLen, out, outLen, mode)
}

func (c *Context) FloatDivide(mem Memory, x, xLen, y, yLen, out, outLen, mode int32) (int32, error) {
	return c.binary(mem, decfloat.Div, x, xLen, y, yLen, out, outLen, mode)
}

type integerOp func(x decfloat.Number, n int32, mode decfloat.RoundingMode) (decfloat.Number, error)

func (c *Context) integer(mem Memory, op integerOp, x, xLen, n, out, outLen, mode int32) (int32, error) {
	g := c.gateway(mem)
	a, err := g.float(x, xLen)
	if err != nil {
		return 0, err
	}
	m, err := rounding(mode)
	if err != nil {
		return 0, err
	}
	r, err := op(a, n, m)
	return g.emit(out, outLen, r, err)
}

// FloatPow raises x to the integer power n in [0, 80].
func (c *Context) FloatPow(mem Memory, x, xLen, n, out, outLen, mode int32) (int32, error) {
	return c.integer(mem, decfloat.Pow, x, xLen, n, out, outLen, mode)
}

// FloatRoot takes the n-th root of x for n >= 1.
func (c *Context) FloatRoot(mem Memory, x, xLen, n, out, outLen, mode int32) (int32, error) {
	return c.integer(mem, decfloat.Root, x, xLen, n, out, outLen, mode)
}

// FloatLog is the base-10 logarithm.
func (c *Context) FloatLog(mem Memory, x, xLen, out, outLen, mode int32) (int32, error) {
	g := c.gateway(mem)
	a, err := g.float(x, xLen)
	if err != nil {
		return 0, err
	}
	m, err := rounding(mode)
	if err != nil {
		return 0, err
	}
	r, err := decfloat.Log10(a, m)
	return g.emit(out, outLen, r, err)
}
