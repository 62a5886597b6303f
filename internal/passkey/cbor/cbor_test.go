package cbor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeUnsignedInt(t *testing.T) {
	v, rest, err := Decode([]byte{0x01})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v)
	assert.Empty(t, rest)

	v, rest, err = Decode([]byte{0x18, 0xff})
	require.NoError(t, err)
	assert.Equal(t, uint64(255), v)
	assert.Empty(t, rest)
}

func TestDecodeNegativeInt(t *testing.T) {
	// -7 encodes as major type 1, value 6.
	v, _, err := Decode([]byte{0x26})
	require.NoError(t, err)
	assert.Equal(t, int64(-7), v)
}

func TestDecodeByteString(t *testing.T) {
	v, rest, err := Decode([]byte{0x43, 0x01, 0x02, 0x03})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02, 0x03}, v)
	assert.Empty(t, rest)
}

func TestDecodeTextString(t *testing.T) {
	v, rest, err := Decode([]byte{0x63, 'f', 'm', 't'})
	require.NoError(t, err)
	assert.Equal(t, "fmt", v)
	assert.Empty(t, rest)
}

func TestDecodeArray(t *testing.T) {
	// [1, 2, 3]
	v, rest, err := Decode([]byte{0x83, 0x01, 0x02, 0x03})
	require.NoError(t, err)
	assert.Equal(t, []interface{}{uint64(1), uint64(2), uint64(3)}, v)
	assert.Empty(t, rest)
}

func TestDecodeMapWithTextKeys(t *testing.T) {
	// {"fmt": "none"}
	data := []byte{
		0xa1,                   // map(1)
		0x63, 'f', 'm', 't',     // "fmt"
		0x64, 'n', 'o', 'n', 'e', // "none"
	}
	v, rest, err := Decode(data)
	require.NoError(t, err)
	m, ok := v.(Map)
	require.True(t, ok)
	assert.Equal(t, "none", m["fmt"])
	assert.Empty(t, rest)
}

func TestDecodeMapWithIntKeysNormalizesSign(t *testing.T) {
	// COSE-key-shaped: {1: 2, 3: -7, -1: 1}
	data := []byte{
		0xa3,
		0x01, 0x02, // 1: 2
		0x03, 0x26, // 3: -7
		0x20, 0x01, // -1: 1
	}
	v, _, err := Decode(data)
	require.NoError(t, err)
	m, ok := v.(Map)
	require.True(t, ok)
	assert.Equal(t, uint64(2), m[int64(1)])
	assert.Equal(t, int64(-7), m[int64(3)])
	assert.Equal(t, uint64(1), m[int64(-1)])
}

func TestDecodeTrailingBytesReturnedAsRest(t *testing.T) {
	v, rest, err := Decode([]byte{0x01, 0xff, 0xff})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v)
	assert.Equal(t, []byte{0xff, 0xff}, rest)
}

func TestDecodeTruncatedByteStringErrors(t *testing.T) {
	_, _, err := Decode([]byte{0x44, 0x01})
	require.Error(t, err)
}
