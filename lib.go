// Package wasmhost runs guest contracts against a read-only ledger view. A
// guest imports the host functions of the "env" module, reads the
// transaction, the ledger object it is attached to and any object it
// caches, and may stage one update to its own object's Data field.
package wasmhost

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/XRPLF/wasmhost/internal/hostabi"
	"github.com/XRPLF/wasmhost/internal/ledger"
	"github.com/XRPLF/wasmhost/internal/sto"
	"github.com/XRPLF/wasmhost/internal/wazeroimpl"
	"github.com/XRPLF/wasmhost/types"
)

// Checksum identifies compiled guest code.
type Checksum = types.Checksum

var (
	// ErrNotFound is returned for code that was never compiled or was removed.
	ErrNotFound = wazeroimpl.ErrCodeNotFound
	// ErrMissingExport is returned when the entry function does not exist.
	ErrMissingExport = errors.New("missing export")
	// ErrEntrySignature is returned when the entry function is not () -> i32.
	ErrEntrySignature = errors.New("entry must take no arguments and return i32")
	// ErrInvalidGuest is returned by Compile for code importing anything
	// other than the host functions.
	ErrInvalidGuest = wazeroimpl.ErrInvalidGuest
	// ErrNoView is returned for an invocation without a ledger view.
	ErrNoView = errors.New("invocation has no ledger view")
)

// RuntimeError is a trap raised while the guest was running: unreachable,
// an out of bounds access by the guest itself, or a cancelled context.
type RuntimeError struct {
	Entry string
	Err   error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("guest %s trapped: %v", e.Entry, e.Err)
}

func (e *RuntimeError) Unwrap() error { return e.Err }

// Invocation is the ledger state one Run reads.
type Invocation struct {
	View ledger.View
	// Store receives the staged update when the guest succeeds. A nil Store
	// makes the run read-only.
	Store ledger.Writer
	// Tx is the triggering transaction; nil reads as an empty object.
	Tx *sto.Object
	// CurrentKey addresses the object the guest is attached to.
	CurrentKey     sto.Hash256
	FunctionParams []types.Param
	InstanceParams []types.Param
}

// Result is the outcome of a guest that returned normally.
type Result struct {
	// Invocation identifies the run in the VM's log.
	Invocation uuid.UUID
	// Code is the value the entry function returned.
	Code int32
	// Category and Reason split a negative Code built from a host error.
	Category hostabi.Category
	Reason   hostabi.HostError
	// Updated reports whether a staged update was committed to the Store.
	Updated    bool
	TraceCount int
}

// Success reports a non-negative exit code.
func (r *Result) Success() bool { return r.Code >= 0 }

type options struct {
	codeDir  string
	registry prometheus.Registerer
}

// Option configures a VM.
type Option func(*options)

// WithCodeDir persists compiled code in dir. The directory is locked while
// the VM is open, so two VMs cannot share it.
func WithCodeDir(dir string) Option {
	return func(o *options) { o.codeDir = dir }
}

// WithMetrics registers the VM's run counters and latency histogram with
// reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *options) { o.registry = reg }
}

// VM compiles guest code and runs it. It is safe for concurrent use.
type VM struct {
	cfg     types.HostConfig
	log     zerolog.Logger
	cache   *wazeroimpl.Cache
	metrics *metrics
}

// NewVM creates a VM enforcing cfg.
//
// logger receives one line per run and, when cfg.Debug is set, the debug
// output of host function failures and guest traces.
func NewVM(ctx context.Context, cfg types.HostConfig, logger zerolog.Logger, opts ...Option) (*VM, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	m, err := newMetrics(o.registry)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}
	cache, err := wazeroimpl.NewCache(ctx, cfg, o.codeDir)
	if err != nil {
		return nil, err
	}
	host, err := hostabi.Register(ctx, cache.Runtime())
	if err != nil {
		_ = cache.Close(ctx)
		return nil, fmt.Errorf("register host module: %w", err)
	}
	cache.SetValidator(wazeroimpl.HostImports(host))
	return &VM{cfg: cfg, log: logger, cache: cache, metrics: m}, nil
}

// Close releases the runtime. Runs in flight fail.
func (vm *VM) Close(ctx context.Context) error {
	return vm.cache.Close(ctx)
}

// Compile validates code and keeps it for later runs. Compiling the same
// code twice returns the same checksum.
func (vm *VM) Compile(ctx context.Context, code []byte) (Checksum, error) {
	sum, err := vm.cache.Store(ctx, code)
	if err == nil {
		vm.metrics.compiles.Inc()
	}
	return sum, err
}

// Code returns the original wasm bytes for a checksum.
func (vm *VM) Code(sum Checksum) ([]byte, error) {
	return vm.cache.Code(sum)
}

// Remove forgets compiled code.
func (vm *VM) Remove(sum Checksum) error {
	return vm.cache.Remove(sum)
}

// Checksums lists the compiled code.
func (vm *VM) Checksums() []Checksum {
	return vm.cache.Checksums()
}

// Run calls entry in a fresh instance of the guest. A trap returns a
// *RuntimeError; any other Go error means the guest never ran. The staged
// update is committed only when the guest returns a non-negative code.
func (vm *VM) Run(ctx context.Context, sum Checksum, entry string, inv Invocation) (*Result, error) {
	start := time.Now()
	res, err := vm.run(ctx, sum, entry, inv)
	vm.metrics.observe(start, res, err)
	return res, err
}

func (vm *VM) run(ctx context.Context, sum Checksum, entry string, inv Invocation) (*Result, error) {
	if inv.View == nil {
		return nil, ErrNoView
	}
	id := uuid.New()
	log := vm.log.With().
		Stringer("invocation", id).
		Str("entry", entry).
		Stringer("checksum", sum).
		Logger()
	hostLog := log
	if !vm.cfg.Debug {
		hostLog = log.Level(zerolog.InfoLevel)
	}

	hc := hostabi.NewContext(hostabi.Options{
		Config:         vm.cfg,
		Logger:         hostLog,
		View:           inv.View,
		Tx:             inv.Tx,
		CurrentKey:     inv.CurrentKey,
		FunctionParams: inv.FunctionParams,
		InstanceParams: inv.InstanceParams,
	})
	ctx = hostabi.WithContext(ctx, hc)

	mod, err := vm.cache.Instantiate(ctx, sum, wazero.NewModuleConfig().
		WithName("guest-"+id.String()).
		WithStartFunctions())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("instantiate: %w", err)
	}
	defer mod.Close(context.WithoutCancel(ctx))

	fn := mod.ExportedFunction(entry)
	if fn == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingExport, entry)
	}
	def := fn.Definition()
	if len(def.ParamTypes()) != 0 || len(def.ResultTypes()) != 1 || def.ResultTypes()[0] != api.ValueTypeI32 {
		return nil, fmt.Errorf("%w: %s", ErrEntrySignature, entry)
	}

	res, err := fn.Call(ctx)
	if err != nil {
		hc.Discard()
		log.Info().Err(err).Int("traces", hc.TraceCount()).Msg("guest trapped")
		return nil, &RuntimeError{Entry: entry, Err: err}
	}

	out := &Result{Invocation: id, Code: api.DecodeI32(res[0]), TraceCount: hc.TraceCount()}
	switch {
	case !out.Success():
		out.Category, out.Reason = hostabi.SplitCode(out.Code)
		hc.Discard()
	case hc.Updated() && inv.Store != nil:
		if err := hc.Commit(inv.Store); err != nil {
			return nil, fmt.Errorf("commit update: %w", err)
		}
		out.Updated = true
	default:
		hc.Discard()
	}
	log.Info().
		Int32("code", out.Code).
		Bool("updated", out.Updated).
		Int("traces", out.TraceCount).
		Msg("guest returned")
	return out, nil
}
