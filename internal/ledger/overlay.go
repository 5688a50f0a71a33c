package ledger

import (
	"bytes"

	"github.com/google/btree"

	"github.com/XRPLF/wasmhost/internal/sto"
)

const overlayDegree = 8

type staged struct {
	key sto.Hash256
	obj *sto.Object
}

func (s *staged) Less(other btree.Item) bool {
	return less(s.key, other.(*staged).key)
}

func less(a, b sto.Hash256) bool {
	return bytes.Compare(a[:], b[:]) < 0
}

// Overlay layers staged writes over a base view. Reads and successor queries
// see staged objects first; Apply flushes them in key order.
type Overlay struct {
	base  View
	items *btree.BTree
}

var _ View = (*Overlay)(nil)

func NewOverlay(base View) *Overlay {
	return &Overlay{base: base, items: btree.New(overlayDegree)}
}

// Stage records obj as the new content of key.
func (o *Overlay) Stage(key sto.Hash256, obj *sto.Object) {
	o.items.ReplaceOrInsert(&staged{key: key, obj: obj})
}

// Staged returns the staged object for key, if any.
func (o *Overlay) Staged(key sto.Hash256) (*sto.Object, bool) {
	it := o.items.Get(&staged{key: key})
	if it == nil {
		return nil, false
	}
	return it.(*staged).obj, true
}

// Len returns the number of staged objects.
func (o *Overlay) Len() int { return o.items.Len() }

func (o *Overlay) Header() Header { return o.base.Header() }

func (o *Overlay) Read(key sto.Hash256) (*sto.Object, error) {
	if obj, ok := o.Staged(key); ok {
		return obj.Clone(), nil
	}
	return o.base.Read(key)
}

func (o *Overlay) Succ(key, bound sto.Hash256) (sto.Hash256, bool, error) {
	found, ok, err := o.base.Succ(key, bound)
	if err != nil {
		return sto.Hash256{}, false, err
	}
	o.items.AscendGreaterOrEqual(&staged{key: key}, func(i btree.Item) bool {
		k := i.(*staged).key
		if k == key {
			return true
		}
		if less(k, bound) && (!ok || less(k, found)) {
			found, ok = k, true
		}
		return false
	})
	return found, ok, nil
}

func (o *Overlay) AmendmentEnabled(id sto.Hash256) bool {
	return o.base.AmendmentEnabled(id)
}

// Apply writes every staged object to w in ascending key order and clears
// the overlay.
func (o *Overlay) Apply(w Writer) error {
	var err error
	o.items.Ascend(func(i btree.Item) bool {
		s := i.(*staged)
		err = w.Write(s.key, s.obj)
		return err == nil
	})
	if err != nil {
		return err
	}
	o.Discard()
	return nil
}

// Discard drops all staged objects.
func (o *Overlay) Discard() {
	o.items.Clear(false)
}
