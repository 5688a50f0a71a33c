package sto

import (
	"encoding/binary"
	"fmt"
	"slices"

	"github.com/XRPLF/wasmhost/internal/decfloat"
	"github.com/XRPLF/wasmhost/internal/sfield"
)

// Entry is one field of an object. Exactly one of the leaf bytes, the inner
// object or the array is meaningful, depending on the field type.
type Entry struct {
	Field *sfield.Field
	leaf  []byte
	obj   *Object
	arr   Array
}

// Leaf returns the canonical leaf bytes.
func (e Entry) Leaf() []byte { return e.leaf }

// Object returns the inner object of an object-typed field.
func (e Entry) Object() *Object { return e.obj }

// Array returns the elements of an array-typed field.
func (e Entry) Array() Array { return e.arr }

// Element is one member of an array: a single-field wrapper around an
// inner object, for example a Memo inside Memos.
type Element struct {
	Field  *sfield.Field
	Object *Object
}

type Array []Element

// Object is an ordered set of fields kept in canonical (type, index) order.
type Object struct {
	entries []Entry
}

func NewObject() *Object { return &Object{} }

// Len returns the number of fields.
func (o *Object) Len() int { return len(o.entries) }

// Entries returns the fields in canonical order.
func (o *Object) Entries() []Entry { return o.entries }

func (o *Object) find(code int32) (int, bool) {
	return slices.BinarySearchFunc(o.entries, code, func(e Entry, c int32) int {
		return cmpCode(e.Field.Code(), c)
	})
}

func cmpCode(a, b int32) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Lookup returns the entry for a field code.
func (o *Object) Lookup(code int32) (Entry, bool) {
	if o == nil {
		return Entry{}, false
	}
	i, ok := o.find(code)
	if !ok {
		return Entry{}, false
	}
	return o.entries[i], true
}

// Has reports whether f is present.
func (o *Object) Has(f *sfield.Field) bool {
	_, ok := o.Lookup(f.Code())
	return ok
}

func (o *Object) put(e Entry) *Object {
	i, ok := o.find(e.Field.Code())
	if ok {
		o.entries[i] = e
	} else {
		o.entries = slices.Insert(o.entries, i, e)
	}
	return o
}

// Remove deletes f if present.
func (o *Object) Remove(f *sfield.Field) {
	if i, ok := o.find(f.Code()); ok {
		o.entries = slices.Delete(o.entries, i, i+1)
	}
}

func mustType(f *sfield.Field, types ...sfield.Type) {
	if !slices.Contains(types, f.Type) {
		panic(fmt.Sprintf("sto: field %s has type %v", f.Name, f.Type))
	}
}

func (o *Object) setLeaf(f *sfield.Field, b []byte) *Object {
	return o.put(Entry{Field: f, leaf: b})
}

func (o *Object) SetUint8(f *sfield.Field, v uint8) *Object {
	mustType(f, sfield.TypeUInt8)
	return o.setLeaf(f, []byte{v})
}

func (o *Object) SetUint16(f *sfield.Field, v uint16) *Object {
	mustType(f, sfield.TypeUInt16)
	return o.setLeaf(f, binary.LittleEndian.AppendUint16(nil, v))
}

func (o *Object) SetUint32(f *sfield.Field, v uint32) *Object {
	mustType(f, sfield.TypeUInt32)
	return o.setLeaf(f, binary.LittleEndian.AppendUint32(nil, v))
}

func (o *Object) SetUint64(f *sfield.Field, v uint64) *Object {
	mustType(f, sfield.TypeUInt64)
	return o.setLeaf(f, binary.BigEndian.AppendUint64(nil, v))
}

// SetHash sets any fixed width hash field; the width must match the type.
func (o *Object) SetHash(f *sfield.Field, b []byte) *Object {
	mustType(f, sfield.TypeHash128, sfield.TypeHash160, sfield.TypeHash192, sfield.TypeHash256)
	if len(b) != hashWidth(f.Type) {
		panic(fmt.Sprintf("sto: %s needs %d bytes, got %d", f.Name, hashWidth(f.Type), len(b)))
	}
	return o.setLeaf(f, slices.Clone(b))
}

func hashWidth(t sfield.Type) int {
	switch t {
	case sfield.TypeHash128:
		return 16
	case sfield.TypeHash160:
		return 20
	case sfield.TypeHash192:
		return 24
	}
	return 32
}

func (o *Object) SetBlob(f *sfield.Field, b []byte) *Object {
	mustType(f, sfield.TypeBlob)
	return o.setLeaf(f, slices.Clone(b))
}

func (o *Object) SetAccount(f *sfield.Field, a AccountID) *Object {
	mustType(f, sfield.TypeAccount)
	return o.setLeaf(f, slices.Clone(a[:]))
}

func (o *Object) SetCurrency(f *sfield.Field, c Currency) *Object {
	mustType(f, sfield.TypeCurrency)
	return o.setLeaf(f, slices.Clone(c[:]))
}

func (o *Object) SetIssue(f *sfield.Field, i Issue) *Object {
	mustType(f, sfield.TypeIssue)
	return o.setLeaf(f, i.Bytes())
}

// SetAmount fails only for values that have no encoding.
func (o *Object) SetAmount(f *sfield.Field, a Amount) error {
	mustType(f, sfield.TypeAmount)
	b, err := a.Bytes()
	if err != nil {
		return fmt.Errorf("%s: %w", f.Name, err)
	}
	o.setLeaf(f, b)
	return nil
}

// SetNumber stores the 12 byte mantissa/exponent form.
func (o *Object) SetNumber(f *sfield.Field, n decfloat.Number) *Object {
	mustType(f, sfield.TypeNumber)
	b := binary.BigEndian.AppendUint64(nil, uint64(n.Mantissa()))
	b = binary.BigEndian.AppendUint32(b, uint32(n.Exponent()))
	return o.setLeaf(f, b)
}

// SetVector256 stores the hashes back to back.
func (o *Object) SetVector256(f *sfield.Field, hs []Hash256) *Object {
	mustType(f, sfield.TypeVector256)
	b := make([]byte, 0, len(hs)*HashSize)
	for _, h := range hs {
		b = append(b, h[:]...)
	}
	return o.setLeaf(f, b)
}

func (o *Object) SetObject(f *sfield.Field, inner *Object) *Object {
	mustType(f, sfield.TypeObject)
	return o.put(Entry{Field: f, obj: inner})
}

func (o *Object) SetArray(f *sfield.Field, arr Array) *Object {
	mustType(f, sfield.TypeArray)
	for _, el := range arr {
		mustType(el.Field, sfield.TypeObject)
	}
	return o.put(Entry{Field: f, arr: arr})
}

// typed getters used by the ledger engine

func (o *Object) leaf(f *sfield.Field) ([]byte, bool) {
	e, ok := o.Lookup(f.Code())
	if !ok || !f.IsLeaf() {
		return nil, false
	}
	return e.leaf, true
}

func (o *Object) Uint16(f *sfield.Field) (uint16, bool) {
	b, ok := o.leaf(f)
	if !ok || len(b) != 2 {
		return 0, false
	}
	return binary.LittleEndian.Uint16(b), true
}

func (o *Object) Uint32(f *sfield.Field) (uint32, bool) {
	b, ok := o.leaf(f)
	if !ok || len(b) != 4 {
		return 0, false
	}
	return binary.LittleEndian.Uint32(b), true
}

func (o *Object) Uint64(f *sfield.Field) (uint64, bool) {
	b, ok := o.leaf(f)
	if !ok || len(b) != 8 {
		return 0, false
	}
	return binary.BigEndian.Uint64(b), true
}

func (o *Object) Blob(f *sfield.Field) ([]byte, bool) {
	return o.leaf(f)
}

func (o *Object) Hash256(f *sfield.Field) (Hash256, bool) {
	b, ok := o.leaf(f)
	if !ok || len(b) != HashSize {
		return Hash256{}, false
	}
	return Hash256(b), true
}

func (o *Object) Account(f *sfield.Field) (AccountID, bool) {
	b, ok := o.leaf(f)
	if !ok || len(b) != AccountIDSize {
		return AccountID{}, false
	}
	return AccountID(b), true
}

func (o *Object) Amount(f *sfield.Field) (Amount, bool) {
	b, ok := o.leaf(f)
	if !ok {
		return Amount{}, false
	}
	a, err := ParseAmount(b)
	return a, err == nil
}

func (o *Object) Vector256(f *sfield.Field) ([]Hash256, bool) {
	b, ok := o.leaf(f)
	if !ok || len(b)%HashSize != 0 {
		return nil, false
	}
	out := make([]Hash256, len(b)/HashSize)
	for i := range out {
		out[i] = Hash256(b[i*HashSize:])
	}
	return out, true
}

func (o *Object) Array(f *sfield.Field) (Array, bool) {
	e, ok := o.Lookup(f.Code())
	if !ok || f.Type != sfield.TypeArray {
		return nil, false
	}
	return e.arr, true
}

// Clone returns a deep copy.
func (o *Object) Clone() *Object {
	if o == nil {
		return nil
	}
	c := &Object{entries: make([]Entry, len(o.entries))}
	for i, e := range o.entries {
		ce := Entry{Field: e.Field, leaf: slices.Clone(e.leaf), obj: e.obj.Clone()}
		if e.arr != nil {
			ce.arr = make(Array, len(e.arr))
			for j, el := range e.arr {
				ce.arr[j] = Element{Field: el.Field, Object: el.Object.Clone()}
			}
		}
		c.entries[i] = ce
	}
	return c
}
