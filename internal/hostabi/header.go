package hostabi

import (
	"math"

	"github.com/XRPLF/wasmhost/internal/keylet"
	"github.com/XRPLF/wasmhost/internal/sto"
)

func (c *Context) LedgerSqn(mem Memory, out, outLen int32) (int32, error) {
	return c.gateway(mem).writeUint32(out, outLen, c.view.Header().Sequence)
}

func (c *Context) ParentLedgerTime(mem Memory, out, outLen int32) (int32, error) {
	return c.gateway(mem).writeUint32(out, outLen, c.view.Header().ParentCloseTime)
}

func (c *Context) ParentLedgerHash(mem Memory, out, outLen int32) (int32, error) {
	return c.writeHash(mem, out, outLen, c.view.Header().ParentHash)
}

func (c *Context) LedgerAccountHash(mem Memory, out, outLen int32) (int32, error) {
	return c.writeHash(mem, out, outLen, c.view.Header().AccountHash)
}

func (c *Context) LedgerTxHash(mem Memory, out, outLen int32) (int32, error) {
	return c.writeHash(mem, out, outLen, c.view.Header().TxHash)
}

func (c *Context) writeHash(mem Memory, out, outLen int32, h sto.Hash256) (int32, error) {
	return c.gateway(mem).write(out, outLen, h[:])
}

// BaseFee returns the reference fee in drops.
func (c *Context) BaseFee() (int32, error) {
	fee := c.view.Header().BaseFee
	if fee > math.MaxInt32 {
		return 0, ErrInternal
	}
	return int32(fee), nil
}

// AmendmentEnabled accepts a 32-byte amendment id or an amendment name and
// returns 1 when it is enabled.
func (c *Context) AmendmentEnabled(mem Memory, ptr, n int32) (int32, error) {
	v, err := c.gateway(mem).slice(ptr, n)
	if err != nil {
		return 0, err
	}
	var id sto.Hash256
	switch {
	case v.len() == sto.HashSize:
		id = sto.Hash256(v.bytes())
	case v.len() > int(c.cfg.MaxAmendmentNameLength):
		return 0, ErrDataFieldTooLarge
	default:
		id = keylet.AmendmentID(string(v.bytes()))
	}
	if c.view.AmendmentEnabled(id) {
		return 1, nil
	}
	return 0, nil
}
