// Package ledger is the narrow ledger engine seen by the host: a read-only
// view with ordered key successor lookups, plus a write path for the single
// staged update an invocation may produce.
package ledger

import (
	"errors"

	"github.com/XRPLF/wasmhost/internal/keylet"
	"github.com/XRPLF/wasmhost/internal/sfield"
	"github.com/XRPLF/wasmhost/internal/sto"
)

// ErrNotFound is returned when no object lives at a key.
var ErrNotFound = errors.New("ledger: object not found")

// Header carries the ledger-wide values readable by guests.
type Header struct {
	Sequence        uint32      `yaml:"sequence" json:"sequence"`
	ParentCloseTime uint32      `yaml:"parent_close_time" json:"parent_close_time"`
	ParentHash      sto.Hash256 `yaml:"-" json:"-"`
	AccountHash     sto.Hash256 `yaml:"-" json:"-"`
	TxHash          sto.Hash256 `yaml:"-" json:"-"`
	BaseFee         uint64      `yaml:"base_fee" json:"base_fee"`
}

// View is a read-only snapshot of ledger state.
type View interface {
	Header() Header
	// Read returns a private copy of the object at key or ErrNotFound.
	Read(key sto.Hash256) (*sto.Object, error)
	// Succ returns the first key strictly greater than key and strictly
	// less than bound.
	Succ(key, bound sto.Hash256) (sto.Hash256, bool, error)
	AmendmentEnabled(id sto.Hash256) bool
}

// Writer persists objects.
type Writer interface {
	Write(key sto.Hash256, obj *sto.Object) error
}

// ReadKeylet reads an object and checks its entry type.
func ReadKeylet(v View, k keylet.Keylet) (*sto.Object, error) {
	obj, err := v.Read(k.Key)
	if err != nil {
		return nil, err
	}
	if t, ok := obj.Uint16(sfield.LedgerEntryType); ok && keylet.EntryType(t) != k.Type {
		return nil, ErrNotFound
	}
	return obj, nil
}

// amendmentsEnabled looks id up in the Amendments singleton of v.
func amendmentsEnabled(v View, id sto.Hash256) bool {
	obj, err := ReadKeylet(v, keylet.Amendments())
	if err != nil {
		return false
	}
	ids, ok := obj.Vector256(sfield.Amendments)
	if !ok {
		return false
	}
	for _, a := range ids {
		if a == id {
			return true
		}
	}
	return false
}
