// SPDX-License-Identifier: MIT

// Package decoder implements the incremental, "NeedMore"-based step
// decoder: given a byte slice that may hold zero, one, or a fragment of
// one control packet, Step reports exactly one of a decoded Packet, a
// request for more bytes, or a positioned decode error. It never retains
// a cursor between calls — callers own buffering.
//
// Grounded on the original codec's GenericPollPacket state machine (read
// the fixed header, then read exactly Remaining more bytes) and the
// teacher's Parser.ReadFixedHeader/Read peek-without-consuming approach,
// rewritten stateless per the stream decoder's cooperative-cancellation
// requirement.
package decoder

import (
	"fmt"

	"github.com/nimbus-labs/mqttcodec/packets"
)

// Options configures a decode pass. The zero value is strict decoding
// with no packet-size cap.
type Options struct {
	packets.Options

	// Version is the protocol version negotiated during CONNECT, used
	// to decode every packet type except CONNECT itself (which carries
	// its own version on the wire). Ignored when decoding a CONNECT.
	Version packets.Version
}

// Outcome distinguishes the three results Step can produce.
type Outcome int

const (
	// OutcomeNeedMore means buf holds a genuine but incomplete prefix of
	// a packet; the caller must append more bytes and retry.
	OutcomeNeedMore Outcome = iota
	// OutcomePacket means Packet and Consumed are populated.
	OutcomePacket
	// OutcomeError means Err is populated and buf is permanently
	// unparseable starting at offset 0; the caller should not retry.
	OutcomeError
)

// Result is the three-way outcome of one Step call.
type Result struct {
	Outcome  Outcome
	Packet   packets.Packet
	Consumed int
	NeedMore int // valid only when Outcome == OutcomeNeedMore
	Err      error
}

// Step attempts to decode exactly one packet from the front of buf. buf
// is never mutated or retained; Step only reads it. On OutcomePacket,
// Consumed is the number of leading bytes of buf the packet occupied —
// the caller is responsible for advancing its own buffer by that much
// before the next Step call.
func Step(buf []byte, opts Options) Result {
	fh, headerLen, err := packets.DecodeFixedHeader(buf)
	if nm, ok := err.(*packets.NeedMore); ok {
		return Result{Outcome: OutcomeNeedMore, NeedMore: nm.N}
	}
	if err != nil {
		return Result{Outcome: OutcomeError, Err: err}
	}

	if opts.MaxPacketSize > 0 && uint32(packets.TotalLen(fh.Remaining)) > opts.MaxPacketSize {
		return Result{Outcome: OutcomeError, Err: fmt.Errorf(
			"%w: packet of %d bytes exceeds maximum of %d",
			errPacketTooLarge, packets.TotalLen(fh.Remaining), opts.MaxPacketSize)}
	}

	total := headerLen + fh.Remaining
	if len(buf) < total {
		return Result{Outcome: OutcomeNeedMore, NeedMore: total - len(buf)}
	}

	pk := packets.New(fh.Type)
	if pk == nil {
		return Result{Outcome: OutcomeError, Err: fmt.Errorf(
			"%w: %d", errUnknownPacketType, fh.Type)}
	}

	version := opts.Version
	if fh.Type == packets.Connect {
		version = packets.VersionUnknown // Connect.Decode resolves its own version
	}
	if fh.Type == packets.Auth && !version.V5() {
		return Result{Outcome: OutcomeError, Err: fmt.Errorf(
			"%w: auth packet requires mqtt 5", errUnknownPacketType)}
	}

	body := buf[headerLen:total]
	if err := pk.Decode(version, fh, body, opts.Options); err != nil {
		if e, ok := err.(*packets.Error); ok {
			// Decode reports offsets within body; rebase onto the packet start.
			err = &packets.Error{Kind: e.Kind, Offset: e.Offset + headerLen, Reason: e.Reason}
		}
		return Result{Outcome: OutcomeError, Err: err}
	}

	return Result{Outcome: OutcomePacket, Packet: pk, Consumed: total}
}
