// SPDX-License-Identifier: MIT

package streamdecoder

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nimbus-labs/mqttcodec/decoder"
	"github.com/nimbus-labs/mqttcodec/packets"
)

// chunkedSource drips bytes out a few at a time, to exercise the
// multi-read accumulation path instead of handing the whole packet back
// on the first Read.
type chunkedSource struct {
	buf       []byte
	chunkSize int
}

func (c *chunkedSource) Read(p []byte) (int, error) {
	if len(c.buf) == 0 {
		return 0, io.EOF
	}
	n := c.chunkSize
	if n > len(p) {
		n = len(p)
	}
	if n > len(c.buf) {
		n = len(c.buf)
	}
	copy(p, c.buf[:n])
	c.buf = c.buf[n:]
	return n, nil
}

func TestNextAccumulatesAcrossReads(t *testing.T) {
	pub := &packets.PublishPacket{TopicName: "a/b", Payload: bytes.Repeat([]byte("x"), 500)}
	full, err := packets.EncodePacket(packets.Version311, pub)
	require.NoError(t, err)

	src := &chunkedSource{buf: full, chunkSize: 3}
	dec := New(src, decoder.Options{Version: packets.Version311})

	got, err := dec.Next(context.Background())
	require.NoError(t, err)
	gotPub, ok := got.(*packets.PublishPacket)
	require.True(t, ok)
	require.Equal(t, pub.TopicName, gotPub.TopicName)
	require.Equal(t, pub.Payload, gotPub.Payload)
}

func TestNextReadsMultiplePacketsInOrder(t *testing.T) {
	a, _ := packets.EncodePacket(packets.Version311, &packets.PingreqPacket{})
	b, _ := packets.EncodePacket(packets.Version311, &packets.DisconnectPacket{})
	src := &chunkedSource{buf: append(append([]byte(nil), a...), b...), chunkSize: 7}
	dec := New(src, decoder.Options{Version: packets.Version311})

	p1, err := dec.Next(context.Background())
	require.NoError(t, err)
	require.Equal(t, byte(packets.Pingreq), p1.Type())

	p2, err := dec.Next(context.Background())
	require.NoError(t, err)
	require.Equal(t, byte(packets.Disconnect), p2.Type())
}

func TestNextRespectsCancellation(t *testing.T) {
	src := &chunkedSource{buf: []byte{0x00}, chunkSize: 1}
	dec := New(src, decoder.Options{Version: packets.Version311})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := dec.Next(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestNextSurfacesUnexpectedEOF(t *testing.T) {
	pub := &packets.PublishPacket{TopicName: "a/b", Payload: []byte("hello")}
	full, _ := packets.EncodePacket(packets.Version311, pub)

	src := &chunkedSource{buf: full[:len(full)-2], chunkSize: 64}
	dec := New(src, decoder.Options{Version: packets.Version311})

	_, err := dec.Next(context.Background())
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestNextCleanEOFAtPacketBoundary(t *testing.T) {
	a, _ := packets.EncodePacket(packets.Version311, &packets.PingreqPacket{})
	src := &chunkedSource{buf: a, chunkSize: 64}
	dec := New(src, decoder.Options{Version: packets.Version311})

	p1, err := dec.Next(context.Background())
	require.NoError(t, err)
	require.Equal(t, byte(packets.Pingreq), p1.Type())

	// The source is now exhausted with nothing buffered for a next
	// packet: a clean stream close, not a truncation.
	_, err = dec.Next(context.Background())
	require.ErrorIs(t, err, io.EOF)
	require.NotErrorIs(t, err, io.ErrUnexpectedEOF)
}
