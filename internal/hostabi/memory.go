package hostabi

import (
	"bytes"
	"encoding/binary"

	"github.com/XRPLF/wasmhost/internal/decfloat"
	"github.com/XRPLF/wasmhost/internal/sto"
)

// Memory is the part of guest linear memory the host touches. wazero's
// api.Memory satisfies it.
type Memory interface {
	Size() uint32
	Read(offset, byteCount uint32) ([]byte, bool)
	Write(offset uint32, v []byte) bool
}

// gateway validates every guest supplied range before the host touches it.
type gateway struct {
	mem Memory
	max int32
}

// view is a validated copy of a guest range. Only gateway.slice builds one.
type view struct {
	b []byte
}

func (v view) bytes() []byte { return v.b }

func (v view) len() int { return len(v.b) }

// inBounds reports whether [off, off+n) lies inside memory, computed in
// 64 bits so that the sum cannot wrap.
func (g gateway) inBounds(off, n int32) bool {
	return uint64(off)+uint64(n) <= uint64(g.mem.Size())
}

func (g gateway) slice(ptr, n int32) (view, error) {
	if ptr < 0 || n < 0 {
		return view{}, ErrInvalidParams
	}
	if n == 0 {
		return view{}, nil
	}
	if g.mem == nil {
		return view{}, ErrNoMemExported
	}
	if !g.inBounds(ptr, n) {
		return view{}, ErrPointerOutOfBounds
	}
	if n > g.max {
		return view{}, ErrDataFieldTooLarge
	}
	b, ok := g.mem.Read(uint32(ptr), uint32(n))
	if !ok {
		return view{}, ErrPointerOutOfBounds
	}
	return view{b: bytes.Clone(b)}, nil
}

func (g gateway) fixed(ptr, n int32, size int) ([]byte, error) {
	v, err := g.slice(ptr, n)
	if err != nil {
		return nil, err
	}
	if v.len() != size {
		return nil, ErrInvalidParams
	}
	return v.bytes(), nil
}

func (g gateway) account(ptr, n int32) (sto.AccountID, error) {
	b, err := g.fixed(ptr, n, sto.AccountIDSize)
	if err != nil {
		return sto.AccountID{}, err
	}
	return sto.AccountID(b), nil
}

// nonZeroAccount is account for inputs that must name a real account.
func (g gateway) nonZeroAccount(ptr, n int32) (sto.AccountID, error) {
	a, err := g.account(ptr, n)
	if err != nil {
		return a, err
	}
	if a.IsZero() {
		return a, ErrInvalidAccount
	}
	return a, nil
}

func (g gateway) hash256(ptr, n int32) (sto.Hash256, error) {
	b, err := g.fixed(ptr, n, sto.HashSize)
	if err != nil {
		return sto.Hash256{}, err
	}
	return sto.Hash256(b), nil
}

func (g gateway) currency(ptr, n int32) (sto.Currency, error) {
	b, err := g.fixed(ptr, n, sto.CurrencySize)
	if err != nil {
		return sto.Currency{}, err
	}
	return sto.Currency(b), nil
}

func (g gateway) mptID(ptr, n int32) (sto.MPTID, error) {
	b, err := g.fixed(ptr, n, sto.MPTIDSize)
	if err != nil {
		return sto.MPTID{}, err
	}
	return sto.MPTID(b), nil
}

// float reads an encoded decimal float. A wrong width is a parameter error;
// a malformed encoding surfaces as decfloat.ErrMalformed.
func (g gateway) float(ptr, n int32) (decfloat.Number, error) {
	b, err := g.fixed(ptr, n, decfloat.Size)
	if err != nil {
		return decfloat.Number{}, err
	}
	return decfloat.Decode(b)
}

// uint64LE reads a little-endian unsigned integer.
func (g gateway) uint64LE(ptr, n int32) (uint64, error) {
	b, err := g.fixed(ptr, n, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// asset reads an MPT id (24 bytes), the XRP currency (20 zero bytes) or a
// currency followed by its issuer (40 bytes).
func (g gateway) asset(ptr, n int32) (sto.Issue, error) {
	v, err := g.slice(ptr, n)
	if err != nil {
		return sto.Issue{}, err
	}
	b := v.bytes()
	switch len(b) {
	case sto.MPTIDSize:
		return sto.MPTIssue(sto.MPTID(b)), nil
	case sto.CurrencySize:
		if !sto.Currency(b).IsZero() {
			return sto.Issue{}, ErrInvalidParams
		}
		return sto.XRPIssue(), nil
	case sto.CurrencySize + sto.AccountIDSize:
		return sto.IOUIssue(sto.Currency(b[:sto.CurrencySize]), sto.AccountID(b[sto.CurrencySize:])), nil
	}
	return sto.Issue{}, ErrInvalidParams
}

// write copies src into the guest buffer [dst, dst+dstLen) and returns the
// number of bytes written.
func (g gateway) write(dst, dstLen int32, src []byte) (int32, error) {
	if dst < 0 || dstLen < 0 {
		return 0, ErrInvalidParams
	}
	if g.mem == nil {
		return 0, ErrNoMemExported
	}
	if !g.inBounds(dst, dstLen) {
		return 0, ErrPointerOutOfBounds
	}
	if len(src) > int(dstLen) {
		return 0, ErrBufferTooSmall
	}
	if len(src) > 0 && !g.mem.Write(uint32(dst), src) {
		return 0, ErrPointerOutOfBounds
	}
	return int32(len(src)), nil
}

// writeUint32 stores v as 4 little-endian bytes.
func (g gateway) writeUint32(dst, dstLen int32, v uint32) (int32, error) {
	return g.write(dst, dstLen, binary.LittleEndian.AppendUint32(nil, v))
}
