// SPDX-License-Identifier: MIT

package packets

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPropertiesRoundTrip(t *testing.T) {
	p := &Properties{
		ContentType:     "text/plain",
		HasMessageExpiry: true, MessageExpiryInterval: 30,
		User: []UserProperty{{Key: "a", Val: "1"}, {Key: "b", Val: "2"}},
	}
	var buf bytes.Buffer
	p.Encode(Publish, &buf)

	got, next, err := DecodeProperties(Publish, buf.Bytes(), 0, Options{})
	require.NoError(t, err)
	require.Equal(t, buf.Len(), next)
	require.Equal(t, p.ContentType, got.ContentType)
	require.Equal(t, p.MessageExpiryInterval, got.MessageExpiryInterval)
	require.Equal(t, p.User, got.User)
}

func TestPropertiesEmptyIsOneZeroByte(t *testing.T) {
	var buf bytes.Buffer
	(&Properties{}).Encode(Publish, &buf)
	require.Equal(t, []byte{0x00}, buf.Bytes())
}

func TestPropertiesRejectsDisallowedIdentifier(t *testing.T) {
	// ServerKeepAlive (0x13) is Connack-only; presenting it in a Publish
	// property block must fail.
	buf := []byte{0x03, PropServerKeepAlive, 0x00, 0x3C}
	_, _, err := DecodeProperties(Publish, buf, 0, Options{})
	require.Error(t, err)
	cerr, ok := err.(*Error)
	require.True(t, ok)
	require.Equal(t, ErrInvalidProperty, cerr.Kind)
}

func TestPropertiesRejectsDuplicateSingleOccurrence(t *testing.T) {
	one := []byte{PropContentType, 0x00, 0x01, 'a'}
	buf := append([]byte{byte(len(one) * 2)}, one...)
	buf = append(buf, one...)
	_, _, err := DecodeProperties(Publish, buf, 0, Options{})
	require.Error(t, err)
	cerr, ok := err.(*Error)
	require.True(t, ok)
	require.Equal(t, ErrInvalidProperty, cerr.Kind)
}

func TestPropertiesSubscriptionIdentifierLeniency(t *testing.T) {
	var inner []byte
	inner = append(inner, PropSubscriptionIdentifier)
	inner = encodeVarByteInt(inner, 7)
	var buf []byte
	buf = encodeVarByteInt(buf, len(inner))
	buf = append(buf, inner...)

	_, _, err := DecodeProperties(Publish, buf, 0, Options{})
	require.Error(t, err, "strict mode must reject a client-supplied subscription identifier on publish")

	got, _, err := DecodeProperties(Publish, buf, 0, Options{AllowClientSubscriptionIdentifier: true})
	require.NoError(t, err)
	require.Equal(t, []int{7}, got.SubscriptionIdentifier)
}

func TestPropertiesMultiUserPropertyOrderPreserved(t *testing.T) {
	p := &Properties{User: []UserProperty{{Key: "x", Val: "1"}, {Key: "x", Val: "2"}}}
	var buf bytes.Buffer
	p.Encode(Connect, &buf)

	got, _, err := DecodeProperties(Connect, buf.Bytes(), 0, Options{})
	require.NoError(t, err)
	require.Equal(t, p.User, got.User)
}
