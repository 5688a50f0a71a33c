//go:build go1.18

package gofuzz

import (
	"testing"

	"github.com/XRPLF/wasmhost/internal/decfloat"
)

func FuzzFloatCodec(f *testing.F) {
	one, _ := decfloat.One.Bytes()
	f.Add(one[:], uint8(0))
	f.Add(decfloat.Zero[:], uint8(3))
	f.Add([]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, uint8(1))
	f.Add([]byte{0x80, 0, 0, 0, 0, 0, 0, 1}, uint8(2))

	f.Fuzz(func(t *testing.T, b []byte, mode uint8) {
		n, err := decfloat.Decode(b)
		if err != nil {
			return
		}
		enc, err := n.Bytes()
		if err != nil {
			t.Fatalf("decoded %s does not encode: %v", n, err)
		}
		back, err := decfloat.Decode(enc[:])
		if err != nil || back.Compare(n) != 0 {
			t.Fatalf("%x: round trip gave %s, want %s (%v)", b, back, n, err)
		}
		parsed, err := decfloat.Parse(n.String(), decfloat.ToNearest)
		if err != nil || parsed.Compare(n) != 0 {
			t.Fatalf("%s does not parse back: %v", n, err)
		}

		rm := decfloat.RoundingMode(mode % 4)
		if diff, err := decfloat.Sub(n, n, rm); err != nil || !diff.IsZero() {
			t.Fatalf("%s - %s = %s (%v)", n, n, diff, err)
		}
		_, _ = decfloat.Add(n, n, rm)
		_, _ = decfloat.Mul(n, n, rm)
		_, _ = decfloat.Div(decfloat.One, n, rm)
		_, _ = decfloat.Log10(n, rm)
		_, _ = decfloat.Root(n, 3, rm)
	})
}
