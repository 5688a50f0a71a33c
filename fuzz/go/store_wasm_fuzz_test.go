//go:build go1.18

package gofuzz

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/XRPLF/wasmhost"
	"github.com/XRPLF/wasmhost/internal/keylet"
	"github.com/XRPLF/wasmhost/internal/ledger"
	"github.com/XRPLF/wasmhost/internal/sfield"
	"github.com/XRPLF/wasmhost/internal/sto"
	"github.com/XRPLF/wasmhost/internal/wasmtest"
	"github.com/XRPLF/wasmhost/types"
)

var owner = sto.AccountID{0x0f, 0x0f}

func newVM(t testing.TB) *wasmhost.VM {
	t.Helper()
	ctx := context.Background()
	vm, err := wasmhost.NewVM(ctx, types.DefaultHostConfig(), zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { vm.Close(ctx) })
	return vm
}

// newLedger holds the owner's account root, which guests update.
func newLedger(t testing.TB) (*ledger.Store, wasmhost.Invocation) {
	t.Helper()
	store := ledger.NewMemStore(ledger.Header{Sequence: 1, BaseFee: 10})
	k := keylet.Account(owner)
	if err := store.Insert(k, sto.NewObject().SetAccount(sfield.Account, owner)); err != nil {
		t.Fatal(err)
	}
	return store, wasmhost.Invocation{View: store, Store: store, CurrentKey: k.Key}
}

// returning is a guest whose "run" returns v.
func returning(v int32) []byte {
	m := &wasmtest.Module{
		MemoryPages:  1,
		MemoryExport: "memory",
		Funcs: []wasmtest.Func{{
			Export: "run",
			Type:   wasmtest.FuncType{Results: []wasmtest.ValueType{wasmtest.I32}},
			Body:   wasmtest.I32Const(v),
		}},
	}
	return m.Bytes()
}

func FuzzCompile(f *testing.F) {
	f.Add(returning(0))
	f.Add([]byte{})
	f.Add([]byte{0x00, 0x61, 0x73, 0x6d})
	f.Add([]byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00})

	vm := newVM(f)
	f.Fuzz(func(t *testing.T, wasm []byte) {
		sum, err := vm.Compile(context.Background(), wasm)
		if err != nil {
			return
		}
		if sum != types.ComputeChecksum(wasm) {
			t.Fatalf("checksum %s does not hash the code", sum)
		}
		_ = vm.Remove(sum)
	})
}
