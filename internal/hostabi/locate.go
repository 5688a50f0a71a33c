package hostabi

import (
	"github.com/XRPLF/wasmhost/internal/sfield"
	"github.com/XRPLF/wasmhost/internal/sto"
	"github.com/XRPLF/wasmhost/locator"
)

// node is the position reached while walking a path: a leaf, an inner
// object or an array.
type node struct {
	field *sfield.Field
	leaf  []byte
	obj   *sto.Object
	arr   sto.Array
	// wrapped is set on an object reached by indexing an array, until the
	// wrapper field step that may follow it is consumed.
	wrapped bool
}

func (n node) isArray() bool { return n.field.Type == sfield.TypeArray }

func (n node) isObject() bool { return n.field.Type == sfield.TypeObject }

func entryNode(e sto.Entry) node {
	return node{field: e.Field, leaf: e.Leaf(), obj: e.Object(), arr: e.Array()}
}

func child(obj *sto.Object, code int32) (node, error) {
	f, ok := sfield.ByCode(code)
	if !ok {
		return node{}, ErrInvalidField
	}
	e, ok := obj.Lookup(f.Code())
	if !ok {
		return node{}, ErrFieldNotFound
	}
	return entryNode(e), nil
}

// locate walks path from root. Each step is a field code when the current
// position is an object and an index when it is an array.
func locate(root *sto.Object, path []int32) (node, error) {
	if len(path) == 0 {
		return node{}, ErrLocatorMalformed
	}
	cur, err := child(root, path[0])
	if err != nil {
		return node{}, err
	}
	for _, step := range path[1:] {
		switch {
		case cur.isArray():
			if step < 0 || int(step) >= len(cur.arr) {
				return node{}, ErrIndexOutOfBounds
			}
			el := cur.arr[step]
			cur = node{field: el.Field, obj: el.Object, wrapped: true}
		case cur.isObject():
			if cur.wrapped && step == cur.field.Code() {
				cur.wrapped = false
				continue
			}
			if cur, err = child(cur.obj, step); err != nil {
				return node{}, err
			}
		default:
			return node{}, ErrLocatorMalformed
		}
	}
	return cur, nil
}

// path decodes a packed locator from guest memory.
func (g gateway) path(ptr, n int32) ([]int32, error) {
	v, err := g.slice(ptr, n)
	if err != nil {
		return nil, err
	}
	steps, ok := locator.Steps(v.bytes())
	if !ok {
		return nil, ErrLocatorMalformed
	}
	return steps, nil
}
