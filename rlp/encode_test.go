package rlp

import (
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestEncodeToBytes_SupportedKindsProduceOutput(t *testing.T) {
	cases := []interface{}{
		"dog",
		"",
		uint64(0),
		uint64(15),
		uint64(1024),
		[]byte{0x01, 0x02, 0x03},
	}
	for _, c := range cases {
		enc, err := EncodeToBytes(c)
		require.NoError(t, err)
		require.NotEmpty(t, enc)
	}
}

func TestEncodeEmptyString(t *testing.T) {
	enc, err := EncodeToBytes("")
	require.NoError(t, err)
	require.Equal(t, []byte{0x80}, enc)
}

func TestEncodeSingleByte(t *testing.T) {
	enc, err := EncodeToBytes([]byte{0x00})
	require.NoError(t, err)
	require.Equal(t, []byte{0x00}, enc)
}

func TestBigIntRoundTrip(t *testing.T) {
	in := big.NewInt(1000000)
	enc, err := EncodeToBytes(in)
	require.NoError(t, err)

	var out big.Int
	require.NoError(t, DecodeBytes(enc, &out))
	require.Equal(t, 0, in.Cmp(&out))
}

func TestUint256RoundTrip(t *testing.T) {
	in := uint256.NewInt(123456789)
	enc, err := EncodeToBytes(in)
	require.NoError(t, err)

	s := newByteStream(enc)
	out, err := s.Uint256()
	require.NoError(t, err)
	require.True(t, in.Eq(out))
}

type simpleStruct struct {
	A uint64
	B []byte
}

func TestStructRoundTrip(t *testing.T) {
	in := simpleStruct{A: 42, B: []byte("hello")}
	enc, err := EncodeToBytes(in)
	require.NoError(t, err)

	var out simpleStruct
	require.NoError(t, DecodeBytes(enc, &out))
	require.Equal(t, in, out)
}

func TestNonCanonicalSizeRejected(t *testing.T) {
	// Long-string prefix (0xb8) with a size that would fit in short form (<=55)
	// is non-canonical.
	bad := []byte{0xb8, 0x01, 0x61}
	s := newByteStream(bad)
	_, err := s.Bytes()
	require.ErrorIs(t, err, ErrNonCanonicalSize)
}
