package hostabi

import (
	"github.com/XRPLF/wasmhost/types"
)

func (c *Context) FunctionParam(mem Memory, index, typ, out, outLen int32) (int32, error) {
	return c.param(mem, c.fnParams, index, typ, out, outLen)
}

func (c *Context) InstanceParam(mem Memory, index, typ, out, outLen int32) (int32, error) {
	return c.param(mem, c.instParams, index, typ, out, outLen)
}

// param copies the canonical bytes of params[index] after checking that
// the guest asked for the stored type.
func (c *Context) param(mem Memory, params []types.Param, index, typ, out, outLen int32) (int32, error) {
	if index < 0 || int(index) >= len(params) {
		return 0, ErrIndexOutOfBounds
	}
	t := types.ParamType(typ)
	if !t.Valid() {
		return 0, ErrInvalidParams
	}
	p := params[index]
	if p.Type != t {
		return 0, ErrInvalidParams
	}
	return c.gateway(mem).write(out, outLen, p.Data)
}
