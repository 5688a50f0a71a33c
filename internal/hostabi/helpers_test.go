package hostabi

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/XRPLF/wasmhost/internal/decfloat"
	"github.com/XRPLF/wasmhost/internal/keylet"
	"github.com/XRPLF/wasmhost/internal/ledger"
	"github.com/XRPLF/wasmhost/internal/sfield"
	"github.com/XRPLF/wasmhost/internal/sto"
	"github.com/XRPLF/wasmhost/types"
)

const memorySize = 1 << 16

// testMemory is a flat linear memory.
type testMemory []byte

func (m testMemory) Size() uint32 { return uint32(len(m)) }

func (m testMemory) Read(off, n uint32) ([]byte, bool) {
	if uint64(off)+uint64(n) > uint64(len(m)) {
		return nil, false
	}
	return m[off : off+n], true
}

func (m testMemory) Write(off uint32, v []byte) bool {
	if uint64(off)+uint64(len(v)) > uint64(len(m)) {
		return false
	}
	copy(m[off:], v)
	return true
}

var (
	alice = sto.AccountID{0xa1, 0x01}
	bob   = sto.AccountID{0xb0, 0x02}
	carol = sto.AccountID{0xc0, 0x03}
)

// env is a guest memory with a bump allocator over a ledger.
type env struct {
	t     *testing.T
	store *ledger.Store
	mem   testMemory
	top   int32
}

func newEnv(t *testing.T) *env {
	t.Helper()
	return &env{
		t: t,
		store: ledger.NewMemStore(ledger.Header{
			Sequence:        42,
			ParentCloseTime: 777,
			ParentHash:      sto.Hash256{0x01},
			AccountHash:     sto.Hash256{0x02},
			TxHash:          sto.Hash256{0x03},
			BaseFee:         10,
		}),
		mem: make(testMemory, memorySize),
		top: 16,
	}
}

// put copies b into guest memory and returns its range.
func (e *env) put(b []byte) (int32, int32) {
	ptr := e.alloc(int32(len(b)))
	copy(e.mem[ptr:], b)
	return ptr, int32(len(b))
}

// alloc reserves n bytes, 8-byte aligned.
func (e *env) alloc(n int32) int32 {
	ptr := e.top
	e.top += (n + 7) &^ 7
	require.Less(e.t, e.top, int32(memorySize), "test memory exhausted")
	return ptr
}

func (e *env) bytes(ptr, n int32) []byte {
	return append([]byte(nil), e.mem[ptr:ptr+n]...)
}

func (e *env) insert(k keylet.Keylet, obj *sto.Object) {
	require.NoError(e.t, e.store.Insert(k, obj))
}

func (e *env) options() Options {
	return Options{
		Config: types.DefaultHostConfig(),
		Logger: zerolog.Nop(),
		View:   e.store,
	}
}

func (e *env) context(tx *sto.Object, current sto.Hash256) *Context {
	opts := e.options()
	opts.Tx = tx
	opts.CurrentKey = current
	return NewContext(opts)
}

func floatBytes(t *testing.T, n decfloat.Number) []byte {
	t.Helper()
	b, err := n.Bytes()
	require.NoError(t, err)
	return b[:]
}

func number(t *testing.T, m int64, e int32) decfloat.Number {
	t.Helper()
	n, err := decfloat.New(m, e, decfloat.ToNearest)
	require.NoError(t, err)
	return n
}

func accountRoot(t *testing.T, drops int64, seq uint32) *sto.Object {
	t.Helper()
	o := sto.NewObject().
		SetAccount(sfield.Account, alice).
		SetUint32(sfield.Sequence, seq)
	require.NoError(t, o.SetAmount(sfield.Balance, sto.XRP(drops)))
	return o
}

// memo builds a Memo element; an empty kind leaves MemoType out.
func memo(kind, data string) sto.Element {
	obj := sto.NewObject()
	if kind != "" {
		obj.SetBlob(sfield.MemoType, []byte(kind))
	}
	return sto.Element{Field: sfield.Memo, Object: obj.SetBlob(sfield.MemoData, []byte(data))}
}

// payment is a transaction with leaves of every width and two memos, the
// first with a MemoType.
func payment(t *testing.T) *sto.Object {
	t.Helper()
	usd, err := sto.CurrencyFromCode("USD")
	require.NoError(t, err)
	tx := sto.NewObject().
		SetUint16(sfield.TransactionType, 0).
		SetAccount(sfield.Account, alice).
		SetAccount(sfield.Destination, bob).
		SetUint32(sfield.Sequence, 7).
		SetHash(sfield.InvoiceID, bytesOf(0x5a, sto.HashSize)).
		SetArray(sfield.Memos, sto.Array{memo("text", "hello"), memo("", "world")}).
		SetArray(sfield.Signers, sto.Array{})
	require.NoError(t, tx.SetAmount(sfield.Amount, sto.XRP(1000)))
	require.NoError(t, tx.SetAmount(sfield.SendMax, sto.IOU(decfloat.One, usd, carol)))
	return tx
}

func bytesOf(b byte, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = b
	}
	return out
}
