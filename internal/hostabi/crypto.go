package hostabi

import (
	"bytes"
	"crypto/ed25519"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/XRPLF/wasmhost/internal/keylet"
)

const (
	publicKeySize = 33
	ed25519Prefix = 0xED
)

// ComputeSha512Half writes the first half of the SHA-512 digest of the
// input.
func (c *Context) ComputeSha512Half(mem Memory, ptr, n, out, outLen int32) (int32, error) {
	g := c.gateway(mem)
	v, err := g.slice(ptr, n)
	if err != nil {
		return 0, err
	}
	h := keylet.SHA512Half(v.bytes())
	return g.write(out, outLen, h[:])
}

// CheckSig returns 1 when sig is a valid signature of msg by pk and 0
// otherwise. The key type is taken from the first byte of the 33-byte key.
func (c *Context) CheckSig(mem Memory, msg, msgLen, sig, sigLen, pk, pkLen int32) (int32, error) {
	g := c.gateway(mem)
	m, err := g.slice(msg, msgLen)
	if err != nil {
		return 0, err
	}
	s, err := g.slice(sig, sigLen)
	if err != nil {
		return 0, err
	}
	key, err := g.slice(pk, pkLen)
	if err != nil {
		return 0, err
	}
	ok, err := verify(key.bytes(), m.bytes(), s.bytes())
	if err != nil {
		return 0, err
	}
	if ok {
		return 1, nil
	}
	return 0, nil
}

func verify(pk, msg, sig []byte) (bool, error) {
	if len(pk) != publicKeySize {
		return false, ErrInvalidParams
	}
	switch pk[0] {
	case ed25519Prefix:
		if len(sig) != ed25519.SignatureSize {
			return false, nil
		}
		return ed25519.Verify(ed25519.PublicKey(pk[1:]), msg, sig), nil
	case 0x02, 0x03:
		pub, err := secp256k1.ParsePubKey(pk)
		if err != nil {
			return false, nil
		}
		parsed, err := ecdsa.ParseDERSignature(sig)
		if err != nil {
			return false, nil
		}
		// Serialize emits the canonical low-S encoding; anything else is
		// malleated
		if !bytes.Equal(parsed.Serialize(), sig) {
			return false, nil
		}
		digest := keylet.SHA512Half(msg)
		return parsed.Verify(digest[:], pub), nil
	}
	return false, ErrInvalidParams
}
