package hostabi

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/XRPLF/wasmhost/internal/decfloat"
	"github.com/XRPLF/wasmhost/internal/ledger"
	"github.com/XRPLF/wasmhost/internal/sto"
)

func TestABIFoldsDiagnostics(t *testing.T) {
	for _, e := range []HostError{ErrNoArray, ErrLocatorMalformed, ErrSlotOutRange, ErrEmptySlot} {
		assert.Equal(t, int32(ErrInvalidParams), e.ABI(), e.String())
	}
	for code := int32(-1); code >= -20; code-- {
		e := HostError(code)
		if e == ErrNoArray || e == ErrLocatorMalformed || e == ErrSlotOutRange || e == ErrEmptySlot {
			continue
		}
		assert.Equal(t, code, e.ABI(), e.String())
	}
	assert.Equal(t, "FLOAT_COMPUTATION_ERROR", ErrFloatComputation.String())
	assert.Equal(t, "HostError(-99)", HostError(-99).String())
}

func TestHostErrorMessage(t *testing.T) {
	assert.Equal(t, "host error FIELD_NOT_FOUND (-2)", ErrFieldNotFound.Error())
	assert.Equal(t, "host error HostError(-99) (-99)", HostError(-99).Error())
	assert.EqualError(t, fmt.Errorf("read: %w", ErrBufferTooSmall), "read: host error BUFFER_TOO_SMALL (-3)")
}

func TestCodeOf(t *testing.T) {
	cases := []struct {
		err  error
		want HostError
	}{
		{ErrBufferTooSmall, ErrBufferTooSmall},
		{fmt.Errorf("wrapped: %w", ErrNoFreeSlots), ErrNoFreeSlots},
		{decfloat.ErrZeroPowZero, ErrInvalidParams},
		{decfloat.ErrMalformed, ErrFloatInputMalformed},
		{decfloat.ErrComputation, ErrFloatComputation},
		{ledger.ErrNotFound, ErrLedgerObjNotFound},
		{fmt.Errorf("decode: %w", sto.ErrInvalidEncoding), ErrInvalidDecoding},
		{fmt.Errorf("boom"), ErrInternal},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, codeOf(tc.err), tc.err.Error())
	}
}

func TestCategoryCodes(t *testing.T) {
	assert.Equal(t, int32(-213), CategoryTransaction.Code(ErrPointerOutOfBounds))
	assert.Equal(t, int32(-402), CategoryCachedObject.Code(ErrFieldNotFound))
	assert.Equal(t, int32(-5), CategoryNone.Code(ErrNotLeafField))

	for _, cat := range []Category{CategoryHeader, CategoryTransaction, CategoryCurrentObject,
		CategoryCachedObject, CategoryKeylet, CategoryUtility, CategoryUpdate} {
		for code := int32(-1); code >= -20; code-- {
			gotCat, gotErr := SplitCode(cat.Code(HostError(code)))
			assert.Equal(t, cat, gotCat)
			assert.Equal(t, HostError(code), gotErr)
		}
	}

	cat, err := SplitCode(-15)
	assert.Equal(t, CategoryNone, cat)
	assert.Equal(t, ErrInvalidParams, err)

	cat, _ = SplitCode(-950)
	assert.Equal(t, CategoryNone, cat)
	assert.Equal(t, "current_object", CategoryCurrentObject.String())
}

func TestFinishReturnsABICode(t *testing.T) {
	c := newEnv(t).context(nil, sto.Hash256{})
	assert.Equal(t, int32(12), c.finish("get_tx_field", CategoryTransaction, 12, nil))
	assert.Equal(t, int32(ErrInvalidParams), c.finish("get_tx_nested_field", CategoryTransaction, 0, ErrLocatorMalformed))
	assert.Equal(t, int32(ErrInternal), c.finish("float_add", CategoryUtility, 0, fmt.Errorf("boom")))
}
