package hostabi

import (
	"encoding/hex"
	"strings"

	"github.com/XRPLF/wasmhost/internal/decfloat"
	"github.com/XRPLF/wasmhost/internal/sto"
)

// The trace family only logs. Each returns the number of characters it
// emitted so a guest can tell the call went through.

func (c *Context) traceMsg(g gateway, msg, msgLen int32) (string, error) {
	if msgLen > c.cfg.MaxWasmDataLength {
		return "", ErrDataFieldTooLarge
	}
	v, err := g.slice(msg, msgLen)
	if err != nil {
		return "", err
	}
	return string(v.bytes()), nil
}

func (c *Context) emitTrace(kind, msg, data string) {
	c.traces++
	c.log.Debug().Str("trace", kind).Str("msg", msg).Str("data", data).Msg("guest trace")
}

// Trace logs msg followed by data, rendered as upper-case hex when asHex is
// non-zero.
func (c *Context) Trace(mem Memory, msg, msgLen, data, dataLen, asHex int32) (int32, error) {
	if int64(msgLen)+int64(dataLen) > int64(c.cfg.MaxWasmDataLength) {
		return 0, ErrDataFieldTooLarge
	}
	g := c.gateway(mem)
	m, err := c.traceMsg(g, msg, msgLen)
	if err != nil {
		return 0, err
	}
	d, err := g.slice(data, dataLen)
	if err != nil {
		return 0, err
	}
	rendered := string(d.bytes())
	if asHex != 0 {
		rendered = strings.ToUpper(hex.EncodeToString(d.bytes()))
	}
	c.emitTrace("data", m, rendered)
	return int32(len(m) + len(rendered)), nil
}

func (c *Context) TraceNum(mem Memory, msg, msgLen int32, x int64) (int32, error) {
	m, err := c.traceMsg(c.gateway(mem), msg, msgLen)
	if err != nil {
		return 0, err
	}
	c.log.Debug().Str("trace", "num").Str("msg", m).Int64("data", x).Msg("guest trace")
	c.traces++
	return int32(len(m) + 8), nil
}

// TraceAccount logs the classic address of a 20-byte account id.
func (c *Context) TraceAccount(mem Memory, msg, msgLen, acc, accLen int32) (int32, error) {
	g := c.gateway(mem)
	m, err := c.traceMsg(g, msg, msgLen)
	if err != nil {
		return 0, err
	}
	a, err := g.account(acc, accLen)
	if err != nil {
		return 0, err
	}
	addr := a.String()
	c.emitTrace("account", m, addr)
	return int32(len(m) + len(addr)), nil
}

// TraceOpaqueFloat logs the decimal rendering of an encoded float, or its
// hex when it does not decode.
func (c *Context) TraceOpaqueFloat(mem Memory, msg, msgLen, f, fLen int32) (int32, error) {
	g := c.gateway(mem)
	m, err := c.traceMsg(g, msg, msgLen)
	if err != nil {
		return 0, err
	}
	v, err := g.slice(f, fLen)
	if err != nil {
		return 0, err
	}
	s := decfloat.Describe(v.bytes())
	c.emitTrace("float", m, s)
	return int32(len(m) + len(s)), nil
}

// TraceAmount logs an XRP, IOU or MPT amount in its ledger encoding.
func (c *Context) TraceAmount(mem Memory, msg, msgLen, amt, amtLen int32) (int32, error) {
	g := c.gateway(mem)
	m, err := c.traceMsg(g, msg, msgLen)
	if err != nil {
		return 0, err
	}
	v, err := g.slice(amt, amtLen)
	if err != nil {
		return 0, err
	}
	a, err := sto.ParseAmount(v.bytes())
	if err != nil {
		return 0, ErrInvalidParams
	}
	s := a.String()
	c.emitTrace("amount", m, s)
	return int32(len(m) + len(s)), nil
}
