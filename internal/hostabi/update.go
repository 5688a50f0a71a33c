package hostabi

import (
	"github.com/XRPLF/wasmhost/internal/sfield"
)

// UpdateData stages data as the Data field of the current ledger object.
// The write reaches the ledger only when the VM commits the invocation.
func (c *Context) UpdateData(mem Memory, ptr, n int32) (int32, error) {
	if n > c.cfg.MaxWasmDataLength {
		return 0, ErrDataFieldTooLarge
	}
	v, err := c.gateway(mem).slice(ptr, n)
	if err != nil {
		return 0, err
	}
	obj, err := c.view.Read(c.current)
	if err != nil {
		return 0, ErrLedgerObjNotFound
	}
	obj.SetBlob(sfield.Data, v.bytes())
	c.view.Stage(c.current, obj)
	return 0, nil
}
