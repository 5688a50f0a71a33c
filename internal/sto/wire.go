package sto

import (
	"fmt"

	"github.com/shamaton/msgpack/v2"

	"github.com/XRPLF/wasmhost/internal/sfield"
)

// wireEntry is the storage form of an Entry. Field codes replace schema
// pointers; which payload is used follows from the code's type.
type wireEntry struct {
	Code   int32         `msgpack:"c"`
	Leaf   []byte        `msgpack:"l"`
	Object []wireEntry   `msgpack:"o"`
	Array  []wireElement `msgpack:"a"`
}

type wireElement struct {
	Code   int32       `msgpack:"c"`
	Object []wireEntry `msgpack:"o"`
}

// Marshal encodes an object with msgpack.
func Marshal(o *Object) ([]byte, error) {
	return msgpack.Marshal(toWire(o))
}

// Unmarshal decodes an object written by Marshal. Unknown field codes are an
// error.
func Unmarshal(b []byte) (*Object, error) {
	var w []wireEntry
	if err := msgpack.Unmarshal(b, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	return fromWire(w)
}

func toWire(o *Object) []wireEntry {
	out := make([]wireEntry, 0, o.Len())
	for _, e := range o.Entries() {
		we := wireEntry{Code: e.Field.Code()}
		switch e.Field.Type {
		case sfield.TypeObject:
			we.Object = toWire(e.obj)
		case sfield.TypeArray:
			we.Array = make([]wireElement, len(e.arr))
			for i, el := range e.arr {
				we.Array[i] = wireElement{Code: el.Field.Code(), Object: toWire(el.Object)}
			}
		default:
			we.Leaf = e.leaf
		}
		out = append(out, we)
	}
	return out
}

func fromWire(w []wireEntry) (*Object, error) {
	o := NewObject()
	for _, we := range w {
		f, ok := sfield.ByCode(we.Code)
		if !ok {
			return nil, fmt.Errorf("%w: unknown field code %#x", ErrInvalidEncoding, we.Code)
		}
		switch f.Type {
		case sfield.TypeObject:
			inner, err := fromWire(we.Object)
			if err != nil {
				return nil, err
			}
			o.put(Entry{Field: f, obj: inner})
		case sfield.TypeArray:
			arr := make(Array, len(we.Array))
			for i, wel := range we.Array {
				ef, ok := sfield.ByCode(wel.Code)
				if !ok || ef.Type != sfield.TypeObject {
					return nil, fmt.Errorf("%w: bad array element code %#x", ErrInvalidEncoding, wel.Code)
				}
				inner, err := fromWire(wel.Object)
				if err != nil {
					return nil, err
				}
				arr[i] = Element{Field: ef, Object: inner}
			}
			o.put(Entry{Field: f, arr: arr})
		default:
			o.put(Entry{Field: f, leaf: we.Leaf})
		}
	}
	return o, nil
}
