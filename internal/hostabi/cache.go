package hostabi

import (
	"github.com/XRPLF/wasmhost/internal/sto"
)

// slot holds a snapshot of a ledger object. A nil obj marks a free slot.
type slot struct {
	key sto.Hash256
	obj *sto.Object
}

// CacheLedgerObj reads the object at the 32-byte key into the cache. With
// idx 0 the object goes to the slot already holding that key or else to the
// first free slot; any other idx names the slot to fill. It returns the
// 1-based slot number.
func (c *Context) CacheLedgerObj(mem Memory, keyPtr, keyLen, idx int32) (int32, error) {
	key, err := c.gateway(mem).hash256(keyPtr, keyLen)
	if err != nil {
		return 0, err
	}
	if idx < 0 || int(idx) > len(c.slots) {
		return 0, ErrSlotOutRange
	}
	if idx == 0 {
		if i, ok := c.pinned(key); ok {
			return int32(i + 1), nil
		}
	}
	obj, err := c.view.Read(key)
	if err != nil {
		return 0, err
	}
	if idx == 0 {
		i, ok := c.free()
		if !ok {
			return 0, ErrNoFreeSlots
		}
		idx = int32(i + 1)
	}
	c.slots[idx-1] = slot{key: key, obj: obj}
	return idx, nil
}

func (c *Context) pinned(key sto.Hash256) (int, bool) {
	for i, s := range c.slots {
		if s.obj != nil && s.key == key {
			return i, true
		}
	}
	return 0, false
}

func (c *Context) free() (int, bool) {
	for i, s := range c.slots {
		if s.obj == nil {
			return i, true
		}
	}
	return 0, false
}

// cached returns the object in a 1-based slot.
func (c *Context) cached(idx int32) (*sto.Object, error) {
	if idx < 1 || int(idx) > len(c.slots) {
		return nil, ErrSlotOutRange
	}
	s := c.slots[idx-1]
	if s.obj == nil {
		return nil, ErrEmptySlot
	}
	return s.obj, nil
}
