package types

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

// ParamType tags a function or instance parameter. Guests name the tag they
// expect when reading a parameter back.
type ParamType int32

const (
	ParamUint8   ParamType = 1
	ParamUint16  ParamType = 2
	ParamUint32  ParamType = 3
	ParamUint64  ParamType = 4
	ParamUint128 ParamType = 5
	ParamUint160 ParamType = 6
	ParamUint192 ParamType = 7
	ParamUint256 ParamType = 8
	ParamVL      ParamType = 9
	ParamAccount ParamType = 10
	ParamAmount  ParamType = 11
	ParamNumber  ParamType = 12
)

var paramNames = map[ParamType]string{
	ParamUint8:   "uint8",
	ParamUint16:  "uint16",
	ParamUint32:  "uint32",
	ParamUint64:  "uint64",
	ParamUint128: "uint128",
	ParamUint160: "uint160",
	ParamUint192: "uint192",
	ParamUint256: "uint256",
	ParamVL:      "vl",
	ParamAccount: "account",
	ParamAmount:  "amount",
	ParamNumber:  "number",
}

// paramWidths holds the fixed encoded width of each tag; zero means
// variable.
var paramWidths = map[ParamType]int{
	ParamUint8:   1,
	ParamUint16:  2,
	ParamUint32:  4,
	ParamUint64:  8,
	ParamUint128: 16,
	ParamUint160: 20,
	ParamUint192: 24,
	ParamUint256: 32,
	ParamAccount: 20,
	ParamNumber:  8,
}

func (t ParamType) Valid() bool {
	_, ok := paramNames[t]
	return ok
}

func (t ParamType) String() string {
	if n, ok := paramNames[t]; ok {
		return n
	}
	return fmt.Sprintf("ParamType(%d)", int32(t))
}

// ParseParamType resolves a tag by name, case-insensitively.
func ParseParamType(name string) (ParamType, error) {
	for t, n := range paramNames {
		if strings.EqualFold(n, name) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown parameter type %q", ErrInvalidParam, name)
}

var ErrInvalidParam = errors.New("invalid parameter")

// Param is one typed parameter in its canonical byte form: fixed-width
// integers little-endian, hashes and accounts raw, amounts in ledger
// encoding and numbers as the 8-byte opaque float.
type Param struct {
	Type ParamType
	Data []byte
}

// Validate checks the data width against the tag.
func (p Param) Validate() error {
	if !p.Type.Valid() {
		return fmt.Errorf("%w: %v", ErrInvalidParam, p.Type)
	}
	if w := paramWidths[p.Type]; w != 0 && len(p.Data) != w {
		return fmt.Errorf("%w: %v needs %d bytes, got %d", ErrInvalidParam, p.Type, w, len(p.Data))
	}
	if p.Type == ParamAmount {
		switch len(p.Data) {
		case 8, 33, 48:
		default:
			return fmt.Errorf("%w: amount of %d bytes", ErrInvalidParam, len(p.Data))
		}
	}
	return nil
}

func Uint8Param(v uint8) Param { return Param{Type: ParamUint8, Data: []byte{v}} }

func Uint16Param(v uint16) Param {
	return Param{Type: ParamUint16, Data: binary.LittleEndian.AppendUint16(nil, v)}
}

func Uint32Param(v uint32) Param {
	return Param{Type: ParamUint32, Data: binary.LittleEndian.AppendUint32(nil, v)}
}

func Uint64Param(v uint64) Param {
	return Param{Type: ParamUint64, Data: binary.LittleEndian.AppendUint64(nil, v)}
}

// BytesParam wraps raw bytes under any tag; callers should Validate.
func BytesParam(t ParamType, b []byte) Param {
	return Param{Type: t, Data: append([]byte(nil), b...)}
}
