package hostabi

import (
	"errors"
	"fmt"

	"github.com/XRPLF/wasmhost/internal/decfloat"
	"github.com/XRPLF/wasmhost/internal/ledger"
	"github.com/XRPLF/wasmhost/internal/sto"
)

// HostError is a negative result code returned to the guest in place of a
// byte count, slot or flag.
type HostError int32

const (
	ErrInternal            HostError = -1
	ErrFieldNotFound       HostError = -2
	ErrBufferTooSmall      HostError = -3
	ErrNoArray             HostError = -4
	ErrNotLeafField        HostError = -5
	ErrLocatorMalformed    HostError = -6
	ErrSlotOutRange        HostError = -7
	ErrNoFreeSlots         HostError = -8
	ErrEmptySlot           HostError = -9
	ErrLedgerObjNotFound   HostError = -10
	ErrInvalidDecoding     HostError = -11
	ErrDataFieldTooLarge   HostError = -12
	ErrPointerOutOfBounds  HostError = -13
	ErrNoMemExported       HostError = -14
	ErrInvalidParams       HostError = -15
	ErrInvalidAccount      HostError = -16
	ErrInvalidField        HostError = -17
	ErrIndexOutOfBounds    HostError = -18
	ErrFloatInputMalformed HostError = -19
	ErrFloatComputation    HostError = -20
)

var errorNames = map[HostError]string{
	ErrInternal:            "INTERNAL",
	ErrFieldNotFound:       "FIELD_NOT_FOUND",
	ErrBufferTooSmall:      "BUFFER_TOO_SMALL",
	ErrNoArray:             "NO_ARRAY",
	ErrNotLeafField:        "NOT_LEAF_FIELD",
	ErrLocatorMalformed:    "LOCATOR_MALFORMED",
	ErrSlotOutRange:        "SLOT_OUT_RANGE",
	ErrNoFreeSlots:         "NO_FREE_SLOTS",
	ErrEmptySlot:           "EMPTY_SLOT",
	ErrLedgerObjNotFound:   "LEDGER_OBJ_NOT_FOUND",
	ErrInvalidDecoding:     "INVALID_DECODING",
	ErrDataFieldTooLarge:   "DATA_FIELD_TOO_LARGE",
	ErrPointerOutOfBounds:  "POINTER_OUT_OF_BOUNDS",
	ErrNoMemExported:       "NO_MEM_EXPORTED",
	ErrInvalidParams:       "INVALID_PARAMS",
	ErrInvalidAccount:      "INVALID_ACCOUNT",
	ErrInvalidField:        "INVALID_FIELD",
	ErrIndexOutOfBounds:    "INDEX_OUT_OF_BOUNDS",
	ErrFloatInputMalformed: "FLOAT_INPUT_MALFORMED",
	ErrFloatComputation:    "FLOAT_COMPUTATION_ERROR",
}

func (e HostError) String() string {
	if n, ok := errorNames[e]; ok {
		return n
	}
	return fmt.Sprintf("HostError(%d)", int32(e))
}

func (e HostError) Error() string {
	return fmt.Sprintf("host error %s (%d)", e.String(), int32(e))
}

// ABI returns the code the guest sees. Locator and slot diagnostics are
// reported to the guest as INVALID_PARAMS.
func (e HostError) ABI() int32 {
	switch e {
	case ErrNoArray, ErrLocatorMalformed, ErrSlotOutRange, ErrEmptySlot:
		return int32(ErrInvalidParams)
	}
	return int32(e)
}

// codeOf maps any error produced while serving a call to a host error.
func codeOf(err error) HostError {
	var he HostError
	switch {
	case errors.As(err, &he):
		return he
	case errors.Is(err, decfloat.ErrZeroPowZero):
		return ErrInvalidParams
	case errors.Is(err, decfloat.ErrMalformed):
		return ErrFloatInputMalformed
	case errors.Is(err, decfloat.ErrComputation):
		return ErrFloatComputation
	case errors.Is(err, ledger.ErrNotFound):
		return ErrLedgerObjNotFound
	case errors.Is(err, sto.ErrInvalidEncoding):
		return ErrInvalidDecoding
	}
	return ErrInternal
}

// Category groups host functions so a guest can fold a host error into a
// distinct exit code per area.
type Category int32

const (
	CategoryNone          Category = 0
	CategoryHeader        Category = -100
	CategoryTransaction   Category = -200
	CategoryCurrentObject Category = -300
	CategoryCachedObject  Category = -400
	CategoryKeylet        Category = -500
	CategoryUtility       Category = -600
	CategoryUpdate        Category = -700
)

var categoryNames = map[Category]string{
	CategoryNone:          "none",
	CategoryHeader:        "header",
	CategoryTransaction:   "transaction",
	CategoryCurrentObject: "current_object",
	CategoryCachedObject:  "cached_object",
	CategoryKeylet:        "keylet",
	CategoryUtility:       "utility",
	CategoryUpdate:        "update",
}

func (c Category) String() string {
	if n, ok := categoryNames[c]; ok {
		return n
	}
	return fmt.Sprintf("Category(%d)", int32(c))
}

// Code folds err into the category range: base - |err|.
func (c Category) Code(err HostError) int32 {
	v := int32(err)
	if v < 0 {
		v = -v
	}
	return int32(c) - v
}

// SplitCode reverses Code for a guest exit code. Codes outside the
// category ranges report CategoryNone.
func SplitCode(code int32) (Category, HostError) {
	if code > int32(CategoryHeader) || code <= int32(CategoryUpdate)-100 {
		return CategoryNone, HostError(code)
	}
	base := code / 100 * 100
	return Category(base), HostError(code - base)
}
