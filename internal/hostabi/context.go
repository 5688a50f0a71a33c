// Package hostabi implements the host functions a guest contract imports
// from the "env" module. Every function validates its (pointer, length)
// arguments through the memory gateway and reports failures as negative
// codes instead of trapping.
package hostabi

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/XRPLF/wasmhost/internal/ledger"
	"github.com/XRPLF/wasmhost/internal/sto"
	"github.com/XRPLF/wasmhost/types"
)

// Options describe one invocation.
type Options struct {
	Config types.HostConfig
	Logger zerolog.Logger
	View   ledger.View
	// Tx is the transaction that triggered the invocation.
	Tx *sto.Object
	// CurrentKey addresses the ledger object the guest is attached to.
	CurrentKey     sto.Hash256
	FunctionParams []types.Param
	InstanceParams []types.Param
}

// Context is the per-invocation host state. It is not safe for concurrent
// use; the VM creates one per run.
type Context struct {
	cfg     types.HostConfig
	log     zerolog.Logger
	view    *ledger.Overlay
	tx      *sto.Object
	current sto.Hash256

	slots      []slot
	fnParams   []types.Param
	instParams []types.Param

	traces int
}

func NewContext(opts Options) *Context {
	tx := opts.Tx
	if tx == nil {
		tx = sto.NewObject()
	}
	return &Context{
		cfg:        opts.Config,
		log:        opts.Logger.With().Str("key", opts.CurrentKey.String()).Logger(),
		view:       ledger.NewOverlay(opts.View),
		tx:         tx,
		current:    opts.CurrentKey,
		slots:      make([]slot, opts.Config.MaxCacheSlots),
		fnParams:   opts.FunctionParams,
		instParams: opts.InstanceParams,
	}
}

func (c *Context) gateway(mem Memory) gateway {
	return gateway{mem: mem, max: c.cfg.MaxWasmDataLength}
}

// Updated reports whether the guest staged a write.
func (c *Context) Updated() bool { return c.view.Len() > 0 }

// Commit applies the staged write to w.
func (c *Context) Commit(w ledger.Writer) error { return c.view.Apply(w) }

// Discard drops the staged write.
func (c *Context) Discard() { c.view.Discard() }

// TraceCount is the number of trace calls served.
func (c *Context) TraceCount() int { return c.traces }

// finish turns a host result into the value handed back to the guest and
// logs failures.
func (c *Context) finish(fn string, cat Category, n int32, err error) int32 {
	if err == nil {
		return n
	}
	code := codeOf(err)
	c.log.Debug().
		Str("fn", fn).
		Stringer("category", cat).
		Str("code", HostError(code.ABI()).String()).
		Str("reason", code.String()).
		Err(err).
		Msg("host call failed")
	return code.ABI()
}

type contextKey string

const hostKey contextKey = "env"

// WithContext binds c to ctx; host functions called with the result serve
// c.
func WithContext(ctx context.Context, c *Context) context.Context {
	return context.WithValue(ctx, hostKey, c)
}

func fromContext(ctx context.Context) (*Context, bool) {
	c, ok := ctx.Value(hostKey).(*Context)
	return c, ok
}
