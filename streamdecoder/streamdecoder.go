// SPDX-License-Identifier: MIT

// Package streamdecoder adapts a byte-stream Source to the incremental
// decoder, growing an internal buffer (by doubling) only when a NeedMore
// request asks for more free space than it has, and never holding the Source across more than one read
// call — so a caller can cancel via context between packets (or mid-
// packet, between reads) without streamdecoder needing to know anything
// about cancellation itself beyond checking ctx.Err() before each read.
//
// Grounded on the teacher's bufio.Reader-based Parser (peek-without-
// consuming, then advance once a full unit is known) rather than its
// circ package: circ's Reader requires a continuously running background
// goroutine pumping ReadFrom, which holds the source for the lifetime of
// the connection and has no natural suspension point for cooperative
// cancellation between reads — see DESIGN.md.
package streamdecoder

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/nimbus-labs/mqttcodec/decoder"
	"github.com/nimbus-labs/mqttcodec/packets"
)

// Source is the minimal capability streamdecoder needs from a
// connection: a single blocking (or context-aware) read of up to
// len(p) bytes, io.Reader-shaped so any net.Conn, bufio.Reader, or test
// fake satisfies it directly.
type Source interface {
	Read(p []byte) (n int, err error)
}

// Decoder pulls complete packets off a Source, growing its read buffer
// on demand. It is not safe for concurrent use by multiple goroutines —
// it models one connection's single ordered byte stream, matching
// spec.md §5's "single-stream, cooperative" adapter contract.
type Decoder struct {
	src  Source
	opts decoder.Options
	log  zerolog.Logger

	buf    []byte
	filled int
}

// New constructs a Decoder reading from src. The default logger,
// zerolog.Nop(), discards all trace output; callers that want visibility
// into buffer-growth/retry decisions pass one via WithLogger.
func New(src Source, opts decoder.Options) *Decoder {
	return &Decoder{
		src:  src,
		opts: opts,
		log:  zerolog.Nop(),
		buf:  make([]byte, 4096),
	}
}

// WithLogger attaches a zerolog.Logger for debug tracing and returns the
// same Decoder, for chaining at construction time.
func (d *Decoder) WithLogger(log zerolog.Logger) *Decoder {
	d.log = log
	return d
}

// Next reads and decodes exactly one packet, blocking on the underlying
// Source as many times as needed to accumulate it. It returns
// context.Canceled or ctx.Err() promptly if ctx is done before the next
// read; a read already in flight on the underlying Source cannot itself
// be interrupted (Source has no cancellation hook), but streamdecoder
// never issues a new read once ctx is done, so cancellation is always
// observed at the next packet or read boundary, never held across many.
func (d *Decoder) Next(ctx context.Context) (packets.Packet, error) {
	for {
		res := decoder.Step(d.buf[:d.filled], d.opts)
		switch res.Outcome {
		case decoder.OutcomePacket:
			d.log.Debug().Int("consumed", res.Consumed).Str("type",
				packets.Names[res.Packet.Type()]).Msg("decoded packet")
			remaining := d.filled - res.Consumed
			copy(d.buf, d.buf[res.Consumed:d.filled])
			d.filled = remaining
			return res.Packet, nil

		case decoder.OutcomeError:
			return nil, res.Err

		case decoder.OutcomeNeedMore:
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			d.grow(res.NeedMore)
			n, err := d.src.Read(d.buf[d.filled:])
			if n > 0 {
				d.filled += n
				d.log.Debug().Int("read", n).Int("buffered", d.filled).Msg("filled buffer")
			}
			if err != nil {
				if n > 0 {
					// give the decoder a chance to use what was just read
					// before surfacing the read error (e.g. a final packet
					// immediately followed by EOF is still valid).
					continue
				}
				if err == io.EOF {
					// A clean close at a packet boundary (nothing buffered
					// yet for the next packet) is not an error — it's the
					// normal end of the stream. EOF with a partial packet
					// already buffered is a genuine truncation.
					if d.filled == 0 {
						return nil, io.EOF
					}
					return nil, io.ErrUnexpectedEOF
				}
				return nil, fmt.Errorf("streamdecoder: read: %w", err)
			}
		}
	}
}

// grow ensures the buffer has at least need bytes of free space past
// filled, doubling capacity as needed rather than growing by exactly
// need each time (amortizes repeated small NeedMore requests).
func (d *Decoder) grow(need int) {
	for len(d.buf)-d.filled < need {
		next := make([]byte, len(d.buf)*2)
		copy(next, d.buf[:d.filled])
		d.buf = next
	}
}
