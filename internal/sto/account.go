// Package sto models serialized ledger objects and transactions: typed leaf
// values, nested objects and arrays, and their canonical leaf encodings.
package sto

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // account ids are defined over RIPEMD-160
)

const (
	AccountIDSize = 20
	CurrencySize  = 20
	MPTIDSize     = 24
	HashSize      = 32
)

// ErrInvalidEncoding is returned when a value cannot be decoded.
var ErrInvalidEncoding = errors.New("sto: invalid encoding")

var addressAlphabet = base58.NewAlphabet("rpshnaf39wBUDNEGHJKLM4PQRST7VWXYZ2bcdeCg65jkm8oFqi1tuvAxyz")

const accountPrefix = 0x00

// AccountID is the 160-bit account identifier.
type AccountID [AccountIDSize]byte

func (a AccountID) IsZero() bool { return a == AccountID{} }

// String returns the classic address.
func (a AccountID) String() string {
	payload := make([]byte, 0, 1+AccountIDSize+4)
	payload = append(payload, accountPrefix)
	payload = append(payload, a[:]...)
	payload = append(payload, checksum(payload)...)
	return base58.EncodeAlphabet(payload, addressAlphabet)
}

func checksum(b []byte) []byte {
	first := sha256.Sum256(b)
	second := sha256.Sum256(first[:])
	return second[:4]
}

// ParseAddress decodes a classic address.
func ParseAddress(s string) (AccountID, error) {
	raw, err := base58.DecodeAlphabet(s, addressAlphabet)
	if err != nil {
		return AccountID{}, fmt.Errorf("%w: address %q: %v", ErrInvalidEncoding, s, err)
	}
	if len(raw) != 1+AccountIDSize+4 || raw[0] != accountPrefix {
		return AccountID{}, fmt.Errorf("%w: address %q", ErrInvalidEncoding, s)
	}
	body, sum := raw[:1+AccountIDSize], raw[1+AccountIDSize:]
	if !bytes.Equal(checksum(body), sum) {
		return AccountID{}, fmt.Errorf("%w: address %q has a bad checksum", ErrInvalidEncoding, s)
	}
	return AccountID(body[1:]), nil
}

// AccountIDFromPublicKey derives the account id controlled by a public key.
func AccountIDFromPublicKey(pk []byte) AccountID {
	sum := sha256.Sum256(pk)
	h := ripemd160.New()
	h.Write(sum[:])
	return AccountID(h.Sum(nil))
}

// Currency is a 160-bit currency code. The all-zero value is XRP.
type Currency [CurrencySize]byte

func (c Currency) IsZero() bool { return c == Currency{} }

// CurrencyFromCode builds a standard three letter currency. "XRP" maps to
// the zero currency.
func CurrencyFromCode(code string) (Currency, error) {
	var c Currency
	if code == "XRP" {
		return c, nil
	}
	if len(code) == 2*CurrencySize {
		b, err := hex.DecodeString(code)
		if err != nil {
			return c, fmt.Errorf("%w: currency %q", ErrInvalidEncoding, code)
		}
		return Currency(b), nil
	}
	if len(code) != 3 {
		return c, fmt.Errorf("%w: currency %q", ErrInvalidEncoding, code)
	}
	copy(c[12:], code)
	return c, nil
}

func (c Currency) String() string {
	if c.IsZero() {
		return "XRP"
	}
	std := true
	for i, b := range c {
		if (i < 12 || i > 14) && b != 0 {
			std = false
			break
		}
	}
	if std {
		return string(c[12:15])
	}
	return strings.ToUpper(hex.EncodeToString(c[:]))
}

// MPTID identifies a multi-purpose token issuance: a big-endian sequence
// followed by the issuer.
type MPTID [MPTIDSize]byte

func (m MPTID) IsZero() bool { return m == MPTID{} }

func (m MPTID) String() string { return strings.ToUpper(hex.EncodeToString(m[:])) }

// Hash256 is a 256-bit key or digest.
type Hash256 [HashSize]byte

func (h Hash256) IsZero() bool { return h == Hash256{} }

func (h Hash256) String() string { return strings.ToUpper(hex.EncodeToString(h[:])) }

// ParseHash256 decodes 64 hex characters.
func ParseHash256(s string) (Hash256, error) {
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != HashSize {
		return Hash256{}, fmt.Errorf("%w: hash %q", ErrInvalidEncoding, s)
	}
	return Hash256(b), nil
}
