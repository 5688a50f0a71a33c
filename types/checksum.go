package types

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ChecksumLen is the length of a checksum in bytes.
const ChecksumLen = 32

// Checksum identifies a compiled guest: the SHA-256 of its wasm bytes.
type Checksum [ChecksumLen]byte

// ComputeChecksum hashes guest code.
func ComputeChecksum(code []byte) Checksum {
	return sha256.Sum256(code)
}

func (cs Checksum) String() string {
	return hex.EncodeToString(cs[:])
}

// MarshalText renders the checksum as lower-case hex, for JSON and YAML.
func (cs Checksum) MarshalText() ([]byte, error) {
	return []byte(cs.String()), nil
}

func (cs *Checksum) UnmarshalText(b []byte) error {
	parsed, err := ParseChecksum(string(b))
	if err != nil {
		return err
	}
	*cs = parsed
	return nil
}

// ParseChecksum decodes a hex checksum.
func ParseChecksum(s string) (Checksum, error) {
	var cs Checksum
	data, err := hex.DecodeString(s)
	if err != nil {
		return cs, fmt.Errorf("checksum: %w", err)
	}
	if len(data) != ChecksumLen {
		return cs, fmt.Errorf("checksum: got %d bytes, want %d", len(data), ChecksumLen)
	}
	copy(cs[:], data)
	return cs, nil
}
