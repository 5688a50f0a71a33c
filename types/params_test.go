package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParamWidths(t *testing.T) {
	require.NoError(t, Uint8Param(1).Validate())
	require.NoError(t, Uint16Param(1).Validate())
	require.NoError(t, Uint32Param(1).Validate())
	require.NoError(t, Uint64Param(1).Validate())
	require.NoError(t, BytesParam(ParamVL, nil).Validate())
	require.NoError(t, BytesParam(ParamAccount, make([]byte, 20)).Validate())
	require.NoError(t, BytesParam(ParamAmount, make([]byte, 48)).Validate())

	assert.ErrorIs(t, BytesParam(ParamUint256, make([]byte, 31)).Validate(), ErrInvalidParam)
	assert.ErrorIs(t, BytesParam(ParamAmount, make([]byte, 9)).Validate(), ErrInvalidParam)
	assert.ErrorIs(t, BytesParam(ParamType(13), nil).Validate(), ErrInvalidParam)

	assert.Equal(t, []byte{0x04, 0x03, 0x02, 0x01}, Uint32Param(0x01020304).Data)
}

func TestParamTypeNames(t *testing.T) {
	for typ := ParamUint8; typ <= ParamNumber; typ++ {
		require.True(t, typ.Valid())
		back, err := ParseParamType(typ.String())
		require.NoError(t, err)
		assert.Equal(t, typ, back)
	}
	_, err := ParseParamType("float")
	assert.ErrorIs(t, err, ErrInvalidParam)
	assert.Equal(t, "ParamType(0)", ParamType(0).String())

	got, err := ParseParamType("UINT160")
	require.NoError(t, err)
	assert.Equal(t, ParamUint160, got)
}
