package hostabi

import (
	"github.com/XRPLF/wasmhost/internal/sfield"
	"github.com/XRPLF/wasmhost/internal/sto"
)

type scopeKind uint8

const (
	scopeTx scopeKind = iota
	scopeCurrent
	scopeCached
)

// Scope selects the object a field read starts from.
type Scope struct {
	kind scopeKind
	slot int32
}

var (
	TransactionScope   = Scope{kind: scopeTx}
	CurrentObjectScope = Scope{kind: scopeCurrent}
)

// CachedSlotScope reads from a 1-based cache slot.
func CachedSlotScope(slot int32) Scope { return Scope{kind: scopeCached, slot: slot} }

func (c *Context) root(s Scope) (*sto.Object, error) {
	switch s.kind {
	case scopeTx:
		return c.tx, nil
	case scopeCurrent:
		return c.view.Read(c.current)
	case scopeCached:
		return c.cached(s.slot)
	}
	return nil, ErrInternal
}

// Field copies the leaf bytes of a top-level field into the guest buffer.
// An unknown field code fails before the scope object is resolved.
func (c *Context) Field(mem Memory, s Scope, field, out, outLen int32) (int32, error) {
	if _, ok := sfield.ByCode(field); !ok {
		return 0, ErrInvalidField
	}
	return c.readLeaf(mem, s, []int32{field}, out, outLen)
}

// NestedField is Field for a packed locator path.
func (c *Context) NestedField(mem Memory, s Scope, loc, locLen, out, outLen int32) (int32, error) {
	path, err := c.gateway(mem).path(loc, locLen)
	if err != nil {
		return 0, err
	}
	return c.readLeaf(mem, s, path, out, outLen)
}

func (c *Context) readLeaf(mem Memory, s Scope, path []int32, out, outLen int32) (int32, error) {
	root, err := c.root(s)
	if err != nil {
		return 0, err
	}
	n, err := locate(root, path)
	if err != nil {
		return 0, err
	}
	if !n.field.IsLeaf() {
		return 0, ErrNotLeafField
	}
	return c.gateway(mem).write(out, outLen, n.leaf)
}

// ArrayLen returns the element count of a top-level array field.
func (c *Context) ArrayLen(s Scope, field int32) (int32, error) {
	f, ok := sfield.ByCode(field)
	if !ok || f.Type != sfield.TypeArray {
		return 0, ErrInvalidField
	}
	return c.arrayLen(s, []int32{field})
}

// NestedArrayLen is ArrayLen for a packed locator path.
func (c *Context) NestedArrayLen(mem Memory, s Scope, loc, locLen int32) (int32, error) {
	path, err := c.gateway(mem).path(loc, locLen)
	if err != nil {
		return 0, err
	}
	return c.arrayLen(s, path)
}

func (c *Context) arrayLen(s Scope, path []int32) (int32, error) {
	root, err := c.root(s)
	if err != nil {
		return 0, err
	}
	n, err := locate(root, path)
	if err != nil {
		return 0, err
	}
	if !n.isArray() {
		return 0, ErrInvalidField
	}
	return int32(len(n.arr)), nil
}
