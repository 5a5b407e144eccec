// SPDX-License-Identifier: MIT

package packets

import (
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/require"
)

func TestVarByteIntRoundTrip(t *testing.T) {
	f := func(v uint32) bool {
		val := int(v % (MaxVarByteInt + 1))
		enc := encodeVarByteInt(nil, val)
		got, next, err := decodeVarByteInt(enc, 0)
		return err == nil && got == val && next == len(enc)
	}
	require.NoError(t, quick.Check(f, nil))
}

func TestVarByteIntLengths(t *testing.T) {
	cases := []struct {
		v   int
		len int
	}{
		{0, 1},
		{127, 1},
		{128, 2},
		{16383, 2},
		{16384, 3},
		{2097151, 3},
		{2097152, 4},
		{MaxVarByteInt, 4},
	}
	for _, c := range cases {
		enc := encodeVarByteInt(nil, c.v)
		require.Len(t, enc, c.len)
		require.Equal(t, c.len, varByteIntLen(c.v))
	}
}

func TestVarByteIntOverflow(t *testing.T) {
	// four bytes with continuation bit still set on the fourth is illegal
	// regardless of value.
	buf := []byte{0xFF, 0xFF, 0xFF, 0xFF}
	_, _, err := decodeVarByteInt(buf, 0)
	require.Error(t, err)
	cerr, ok := err.(*Error)
	require.True(t, ok)
	require.Equal(t, ErrInvalidVarByteInt, cerr.Kind)
}

func TestVarByteIntNeedMore(t *testing.T) {
	buf := []byte{0x80, 0x80}
	_, _, err := decodeVarByteInt(buf, 0)
	require.Error(t, err)
	nm, ok := err.(*NeedMore)
	require.True(t, ok, "expected *NeedMore, got %T", err)
	require.Greater(t, nm.N, 0)
}

func TestStringRoundTrip(t *testing.T) {
	f := func(s string) bool {
		var buf []byte
		buf = encodeString(buf, s)
		got, next, err := decodeString(buf, 0)
		if !validUTF8([]byte(s)) {
			return err != nil
		}
		return err == nil && got == s && next == len(buf)
	}
	require.NoError(t, quick.Check(f, nil))
}

func TestValidUTF8RejectsNoncharacters(t *testing.T) {
	require.False(t, validUTF8([]byte{0xEF, 0xB7, 0x90})) // U+FDD0
	require.False(t, validUTF8([]byte{0x00}))
	require.True(t, validUTF8([]byte("hello/world")))
}

func TestDecodeBytesOverrun(t *testing.T) {
	buf := []byte{0x00, 0x05, 'a', 'b'}
	_, _, err := decodeBytes(buf, 0)
	require.Error(t, err)
	cerr, ok := err.(*Error)
	require.True(t, ok)
	require.Equal(t, ErrTrailingBytes, cerr.Kind)
}
