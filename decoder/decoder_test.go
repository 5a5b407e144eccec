// SPDX-License-Identifier: MIT

package decoder

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nimbus-labs/mqttcodec/packets"
)

func TestStepNeedMoreThenPacket(t *testing.T) {
	pk := &packets.PingreqPacket{}
	full, err := packets.EncodePacket(packets.Version311, pk)
	require.NoError(t, err)

	opts := Options{Version: packets.Version311}

	res := Step(full[:0], opts)
	require.Equal(t, OutcomeNeedMore, res.Outcome)

	res = Step(full, opts)
	require.Equal(t, OutcomePacket, res.Outcome)
	require.Equal(t, len(full), res.Consumed)
	require.Equal(t, byte(packets.Pingreq), res.Packet.Type())
}

func TestStepNeedMorePartialHeader(t *testing.T) {
	pub := &packets.PublishPacket{TopicName: "a/b", Payload: []byte("hello world")}
	full, err := packets.EncodePacket(packets.Version311, pub)
	require.NoError(t, err)

	opts := Options{Version: packets.Version311}
	for i := 0; i < len(full); i++ {
		res := Step(full[:i], opts)
		require.Equal(t, OutcomeNeedMore, res.Outcome, "prefix length %d", i)
		require.Greater(t, res.NeedMore, 0)
	}
	res := Step(full, opts)
	require.Equal(t, OutcomePacket, res.Outcome)
}

func TestStepRejectsOversizedPacket(t *testing.T) {
	pub := &packets.PublishPacket{TopicName: "a/b", Payload: make([]byte, 1000)}
	full, err := packets.EncodePacket(packets.Version311, pub)
	require.NoError(t, err)

	opts := Options{Version: packets.Version311, Options: packets.Options{MaxPacketSize: 100}}
	res := Step(full, opts)
	require.Equal(t, OutcomeError, res.Outcome)
	require.ErrorIs(t, res.Err, errPacketTooLarge)
}

func TestStepErrorOnMalformedFixedHeader(t *testing.T) {
	opts := Options{Version: packets.Version311}
	buf := []byte{byte(packets.Publish)<<4 | 0x06, 0x00} // qos == 3, illegal
	res := Step(buf, opts)
	require.Equal(t, OutcomeError, res.Outcome)
}

func TestStepMultiplePacketsSequentially(t *testing.T) {
	a, err := packets.EncodePacket(packets.Version311, &packets.PingreqPacket{})
	require.NoError(t, err)
	b, err := packets.EncodePacket(packets.Version311, &packets.PingreqPacket{})
	require.NoError(t, err)
	stream := append(append([]byte(nil), a...), b...)

	opts := Options{Version: packets.Version311}
	res := Step(stream, opts)
	require.Equal(t, OutcomePacket, res.Outcome)
	require.Equal(t, len(a), res.Consumed)

	res = Step(stream[res.Consumed:], opts)
	require.Equal(t, OutcomePacket, res.Outcome)
	require.Equal(t, len(b), res.Consumed)
}
