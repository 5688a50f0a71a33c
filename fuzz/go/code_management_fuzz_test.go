//go:build go1.18

package gofuzz

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/XRPLF/wasmhost"
)

func FuzzCodeManagement(f *testing.F) {
	f.Add(int32(0), true, true)
	f.Add(int32(7), true, false)
	f.Add(int32(-1), false, true)
	f.Add(int32(1<<20), false, false)

	f.Fuzz(func(t *testing.T, ret int32, getCode, removeCode bool) {
		vm := newVM(t)
		ctx := context.Background()
		wasm := returning(ret)

		sum, err := vm.Compile(ctx, wasm)
		if err != nil {
			t.Fatal(err)
		}
		if getCode {
			code, err := vm.Code(sum)
			if err != nil || !bytes.Equal(code, wasm) {
				t.Fatalf("code: %v", err)
			}
		}
		if removeCode {
			if err := vm.Remove(sum); err != nil {
				t.Fatal(err)
			}
			if _, err := vm.Code(sum); !errors.Is(err, wasmhost.ErrNotFound) {
				t.Fatalf("removed code still readable: %v", err)
			}
			return
		}

		_, inv := newLedger(t)
		res, err := vm.Run(ctx, sum, "run", inv)
		if err != nil {
			t.Fatal(err)
		}
		if res.Code != ret {
			t.Fatalf("got %d, want %d", res.Code, ret)
		}
	})
}
