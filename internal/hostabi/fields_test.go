package hostabi

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XRPLF/wasmhost/internal/keylet"
	"github.com/XRPLF/wasmhost/internal/sfield"
	"github.com/XRPLF/wasmhost/internal/sto"
	"github.com/XRPLF/wasmhost/locator"
)

func TestTxFieldWidths(t *testing.T) {
	e := newEnv(t)
	c := e.context(payment(t), sto.Hash256{})
	out := e.alloc(64)

	cases := []struct {
		field *sfield.Field
		want  int32
	}{
		{sfield.Account, 20},
		{sfield.InvoiceID, 32},
		{sfield.Sequence, 4},
		{sfield.TransactionType, 2},
		{sfield.Amount, 8},
		{sfield.SendMax, 48},
	}
	for _, tc := range cases {
		t.Run(tc.field.Name, func(t *testing.T) {
			n, err := c.Field(e.mem, TransactionScope, tc.field.Code(), out, 64)
			require.NoError(t, err)
			assert.Equal(t, tc.want, n)
		})
	}

	n, err := c.Field(e.mem, TransactionScope, sfield.Account.Code(), out, 64)
	require.NoError(t, err)
	assert.Equal(t, alice[:], e.bytes(out, n))

	n, err = c.Field(e.mem, TransactionScope, sfield.Sequence.Code(), out, 64)
	require.NoError(t, err)
	assert.Equal(t, uint32(7), binary.LittleEndian.Uint32(e.bytes(out, n)))
}

func TestTxFieldErrors(t *testing.T) {
	e := newEnv(t)
	c := e.context(payment(t), sto.Hash256{})
	out := e.alloc(64)

	cases := []struct {
		name   string
		field  int32
		out    int32
		outLen int32
		want   HostError
	}{
		{"buffer too small", sfield.Account.Code(), out, 10, ErrBufferTooSmall},
		{"absent field", sfield.Owner.Code(), out, 64, ErrFieldNotFound},
		{"unknown field", 0x7fff0001, out, 64, ErrInvalidField},
		{"array is not a leaf", sfield.Memos.Code(), out, 64, ErrNotLeafField},
		{"out of bounds", sfield.Account.Code(), memorySize - 4, 20, ErrPointerOutOfBounds},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.Field(e.mem, TransactionScope, tc.field, tc.out, tc.outLen)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestNestedFieldWalksMemos(t *testing.T) {
	e := newEnv(t)
	c := e.context(payment(t), sto.Hash256{})
	out := e.alloc(64)

	read := func(l *locator.Locator) (string, error) {
		ptr, n := e.put(l.Addr())
		got, err := c.NestedField(e.mem, TransactionScope, ptr, n, out, 64)
		if err != nil {
			return "", err
		}
		return string(e.bytes(out, got)), nil
	}

	l := locator.New(sfield.Memos.Code(), 0, sfield.Memo.Code(), sfield.MemoData.Code())
	got, err := read(l)
	require.NoError(t, err)
	assert.Equal(t, "hello", got)

	// the element wrapper step is optional
	l = locator.New(sfield.Memos.Code(), 1, sfield.MemoData.Code())
	got, err = read(l)
	require.NoError(t, err)
	assert.Equal(t, "world", got)

	l = locator.New(sfield.Memos.Code(), 1, sfield.Memo.Code())
	_, err = read(l)
	assert.ErrorIs(t, err, ErrNotLeafField)
	l.RepackLast(sfield.MemoData.Code())
	got, err = read(l)
	require.NoError(t, err)
	assert.Equal(t, "world", got)

	_, err = read(locator.New(sfield.Memos.Code(), 2, sfield.MemoData.Code()))
	assert.ErrorIs(t, err, ErrIndexOutOfBounds)

	// sibling fields of one memo through the same locator
	l = locator.New(sfield.Memos.Code(), 0, sfield.Memo.Code(), sfield.MemoType.Code())
	got, err = read(l)
	require.NoError(t, err)
	assert.Equal(t, "text", got)
	require.True(t, l.RepackLast(sfield.MemoData.Code()))
	got, err = read(l)
	require.NoError(t, err)
	assert.Equal(t, "hello", got)

	_, err = read(locator.New(sfield.Memos.Code(), 1, sfield.MemoType.Code()))
	assert.ErrorIs(t, err, ErrFieldNotFound)

	_, err = read(locator.New(sfield.Account.Code(), 0))
	assert.ErrorIs(t, err, ErrLocatorMalformed)
	assert.Equal(t, int32(ErrInvalidParams), ErrLocatorMalformed.ABI())

	ptr, _ := e.put([]byte{1, 2, 3})
	_, err = c.NestedField(e.mem, TransactionScope, ptr, 3, out, 64)
	assert.ErrorIs(t, err, ErrLocatorMalformed)

	_, err = c.NestedField(e.mem, TransactionScope, ptr, 0, out, 64)
	assert.ErrorIs(t, err, ErrLocatorMalformed)
}

func TestArrayLen(t *testing.T) {
	e := newEnv(t)
	c := e.context(payment(t), sto.Hash256{})

	n, err := c.ArrayLen(TransactionScope, sfield.Memos.Code())
	require.NoError(t, err)
	assert.Equal(t, int32(2), n)

	n, err = c.ArrayLen(TransactionScope, sfield.Signers.Code())
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = c.ArrayLen(TransactionScope, sfield.Account.Code())
	assert.ErrorIs(t, err, ErrInvalidField)

	_, err = c.ArrayLen(TransactionScope, sfield.NFTokens.Code())
	assert.ErrorIs(t, err, ErrFieldNotFound)

	ptr, l := e.put(locator.New(sfield.Memos.Code()).Addr())
	n, err = c.NestedArrayLen(e.mem, TransactionScope, ptr, l)
	require.NoError(t, err)
	assert.Equal(t, int32(2), n)

	ptr, l = e.put(locator.New(sfield.Memos.Code(), 0, sfield.MemoData.Code()).Addr())
	_, err = c.NestedArrayLen(e.mem, TransactionScope, ptr, l)
	assert.ErrorIs(t, err, ErrInvalidField)
}

func TestCurrentObjectScope(t *testing.T) {
	e := newEnv(t)
	k := keylet.Account(alice)
	e.insert(k, accountRoot(t, 5000, 3))
	out := e.alloc(64)

	c := e.context(nil, k.Key)
	n, err := c.Field(e.mem, CurrentObjectScope, sfield.Balance.Code(), out, 64)
	require.NoError(t, err)
	assert.Equal(t, int32(8), n)

	n, err = c.Field(e.mem, CurrentObjectScope, sfield.Account.Code(), out, 64)
	require.NoError(t, err)
	assert.Equal(t, alice[:], e.bytes(out, n))

	missing := e.context(nil, keylet.Account(bob).Key)
	_, err = missing.Field(e.mem, CurrentObjectScope, sfield.Balance.Code(), out, 64)
	assert.Equal(t, ErrLedgerObjNotFound, codeOf(err))

	// the field code is checked before the object is looked up
	_, err = missing.Field(e.mem, CurrentObjectScope, 0x7fff0001, out, 64)
	assert.ErrorIs(t, err, ErrInvalidField)
	_, err = c.Field(e.mem, CachedSlotScope(1), 0x7fff0001, out, 64)
	assert.ErrorIs(t, err, ErrInvalidField)
	_, err = c.Field(e.mem, CachedSlotScope(1), sfield.Balance.Code(), out, 64)
	assert.ErrorIs(t, err, ErrEmptySlot)

	// an empty transaction reads as an object without fields
	_, err = c.Field(e.mem, TransactionScope, sfield.Account.Code(), out, 64)
	assert.ErrorIs(t, err, ErrFieldNotFound)
}

func TestCacheLedgerObj(t *testing.T) {
	e := newEnv(t)
	ka, kb := keylet.Account(alice), keylet.Account(bob)
	e.insert(ka, accountRoot(t, 100, 1))
	e.insert(kb, accountRoot(t, 200, 2))
	c := e.context(nil, sto.Hash256{})

	aptr, an := e.put(ka.Key[:])
	bptr, bn := e.put(kb.Key[:])
	missing := keylet.Account(carol)
	mptr, mn := e.put(missing.Key[:])

	slot, err := c.CacheLedgerObj(e.mem, aptr, an, 0)
	require.NoError(t, err)
	assert.Equal(t, int32(1), slot)

	// caching the same key again reuses the slot
	slot, err = c.CacheLedgerObj(e.mem, aptr, an, 0)
	require.NoError(t, err)
	assert.Equal(t, int32(1), slot)

	// a missing object does not take a slot
	_, err = c.CacheLedgerObj(e.mem, mptr, mn, 0)
	assert.Equal(t, ErrLedgerObjNotFound, codeOf(err))

	slot, err = c.CacheLedgerObj(e.mem, bptr, bn, 0)
	require.NoError(t, err)
	assert.Equal(t, int32(2), slot)

	slot, err = c.CacheLedgerObj(e.mem, bptr, bn, 9)
	require.NoError(t, err)
	assert.Equal(t, int32(9), slot)

	_, err = c.CacheLedgerObj(e.mem, aptr, an, 257)
	assert.ErrorIs(t, err, ErrSlotOutRange)
	_, err = c.CacheLedgerObj(e.mem, aptr, an, -1)
	assert.ErrorIs(t, err, ErrSlotOutRange)
	_, err = c.CacheLedgerObj(e.mem, aptr, an-1, 0)
	assert.ErrorIs(t, err, ErrInvalidParams)

	out := e.alloc(64)
	n, err := c.Field(e.mem, CachedSlotScope(2), sfield.Sequence.Code(), out, 64)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(e.bytes(out, n)))

	_, err = c.Field(e.mem, CachedSlotScope(3), sfield.Sequence.Code(), out, 64)
	assert.ErrorIs(t, err, ErrEmptySlot)
	_, err = c.Field(e.mem, CachedSlotScope(0), sfield.Sequence.Code(), out, 64)
	assert.ErrorIs(t, err, ErrSlotOutRange)
	_, err = c.ArrayLen(CachedSlotScope(300), sfield.Memos.Code())
	assert.ErrorIs(t, err, ErrSlotOutRange)
}

func TestCacheRunsOutOfSlots(t *testing.T) {
	e := newEnv(t)
	opts := e.options()
	opts.Config.MaxCacheSlots = 2
	c := NewContext(opts)

	var ptrs [3][2]int32
	for i, acc := range []sto.AccountID{alice, bob, carol} {
		k := keylet.Account(acc)
		e.insert(k, accountRoot(t, 1, uint32(i)))
		ptrs[i][0], ptrs[i][1] = e.put(k.Key[:])
	}
	for i := 0; i < 2; i++ {
		slot, err := c.CacheLedgerObj(e.mem, ptrs[i][0], ptrs[i][1], 0)
		require.NoError(t, err)
		assert.Equal(t, int32(i+1), slot)
	}
	_, err := c.CacheLedgerObj(e.mem, ptrs[2][0], ptrs[2][1], 0)
	assert.ErrorIs(t, err, ErrNoFreeSlots)

	// an explicit slot may still be overwritten
	slot, err := c.CacheLedgerObj(e.mem, ptrs[2][0], ptrs[2][1], 1)
	require.NoError(t, err)
	assert.Equal(t, int32(1), slot)
}
