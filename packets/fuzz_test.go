// SPDX-License-Identifier: MIT

package packets

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// corpus holds one encoded sample per packet type, used as the base for
// the mutation sweep below and by the length-agreement check. Grounded on
// the teacher's TPacketCases mutation-tagged table, generalized from one
// fixed mutation per case to a sweep of fixed XOR deltas over every byte.
func corpus(t *testing.T) map[byte][]byte {
	t.Helper()
	samples := map[byte]Packet{
		Connect:     &ConnectPacket{ProtocolVersion: Version311, ClientIdentifier: "c", KeepAlive: 10},
		Connack:     &ConnackPacket{ReasonCode: RCSuccess.Code},
		Publish:     &PublishPacket{TopicName: "a/b", Payload: []byte("hi")},
		Puback:      &PubackPacket{PacketIdentifier: 1},
		Pubrec:      &PubrecPacket{PacketIdentifier: 1},
		Pubrel:      &PubrelPacket{PacketIdentifier: 1},
		Pubcomp:     &PubcompPacket{PacketIdentifier: 1},
		Subscribe:   &SubscribePacket{PacketIdentifier: 1, Subscriptions: []Subscription{{Filter: "a", Qos: AtMostOnce}}},
		Suback:      &SubackPacket{PacketIdentifier: 1, ReasonCodes: []byte{0x00}},
		Unsubscribe: &UnsubscribePacket{PacketIdentifier: 1, Filters: []string{"a"}},
		Unsuback:    &UnsubackPacket{PacketIdentifier: 1},
		Pingreq:     &PingreqPacket{},
		Pingresp:    &PingrespPacket{},
		Disconnect:  &DisconnectPacket{},
	}

	out := make(map[byte][]byte, len(samples))
	for typ, pk := range samples {
		b, err := EncodePacket(Version311, pk)
		require.NoError(t, err)
		out[typ] = b
	}
	return out
}

// TestMutationNeverPanics feeds every single-byte mutation of every
// corpus sample through decode and asserts only that it never panics —
// the codec's safety property (spec.md §8: "never panics on arbitrary
// input").
func TestMutationNeverPanics(t *testing.T) {
	for typ, sample := range corpus(t) {
		for i := range sample {
			for _, delta := range []byte{1, 0x80, 0xFF} {
				mutated := append([]byte(nil), sample...)
				mutated[i] ^= delta
				require.NotPanics(t, func() {
					decodeOneFromWire(mutated)
				}, "type %d mutation at byte %d", typ, i)
			}
		}
	}
}

// TestRandomBytesNeverPanic throws uniformly random garbage at the
// decoder, the "never panic on arbitrary input" property without a seed
// corpus.
func TestRandomBytesNeverPanic(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 2000; i++ {
		n := rng.Intn(64)
		buf := make([]byte, n)
		rng.Read(buf)
		require.NotPanics(t, func() {
			decodeOneFromWire(buf)
		})
	}
}

// decodeOneFromWire is a minimal standalone decode used only by the
// fuzz/mutation tests in this package (the full incremental contract
// lives in the decoder package, which already depends on this one).
func decodeOneFromWire(buf []byte) {
	fh, n, err := DecodeFixedHeader(buf)
	if err != nil {
		return
	}
	if n+fh.Remaining > len(buf) {
		return
	}
	pk := New(fh.Type)
	if pk == nil {
		return
	}
	_ = pk.Decode(Version311, fh, buf[n:n+fh.Remaining], Options{})
}

func TestEncodePacketBodyLenMatchesRemaining(t *testing.T) {
	for typ, sample := range corpus(t) {
		fh, n, err := DecodeFixedHeader(sample)
		require.NoError(t, err, "type %d", typ)
		require.Equal(t, len(sample), n+fh.Remaining, "type %d", typ)
	}
}

func TestExactRejectionTrailingBytes(t *testing.T) {
	b, err := EncodePacket(Version311, &PingreqPacket{})
	require.NoError(t, err)
	var buf bytes.Buffer
	buf.Write(b[:1])
	buf.Write(encodeVarByteInt(nil, 1))
	buf.WriteByte(0xAA)

	fh, n, err := DecodeFixedHeader(buf.Bytes())
	require.NoError(t, err)
	err = (&PingreqPacket{}).Decode(Version311, fh, buf.Bytes()[n:n+fh.Remaining], Options{})
	require.Error(t, err)
	require.ErrorIs(t, err, &Error{Kind: ErrTrailingBytes})
}
