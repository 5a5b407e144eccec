// SPDX-License-Identifier: MIT

package packets

import "fmt"

// Kind is a machine-readable decoding error classification, per the error
// taxonomy in the specification. Every Kind is non-retryable: the codec
// offers no in-stream resynchronization, so a caller that sees one of
// these should terminate the connection.
type Kind int

const (
	ErrInvalidHeader Kind = iota
	ErrInvalidRemainingLength
	ErrInvalidVarByteInt
	ErrInvalidString
	ErrInvalidQos
	ErrInvalidPacketIdentifier
	ErrInvalidProtocol
	ErrInvalidConnectFlags
	ErrInvalidProperty
	ErrInvalidReasonCode
	ErrInvalidTopicName
	ErrInvalidTopicFilter
	ErrPacketTooLarge
	ErrTrailingBytes
	ErrUnexpectedEOF
)

var kindNames = map[Kind]string{
	ErrInvalidHeader:           "InvalidHeader",
	ErrInvalidRemainingLength:  "InvalidRemainingLength",
	ErrInvalidVarByteInt:       "InvalidVarByteInt",
	ErrInvalidString:           "InvalidString",
	ErrInvalidQos:              "InvalidQos",
	ErrInvalidPacketIdentifier: "InvalidPacketIdentifier",
	ErrInvalidProtocol:         "InvalidProtocol",
	ErrInvalidConnectFlags:     "InvalidConnectFlags",
	ErrInvalidProperty:         "InvalidProperty",
	ErrInvalidReasonCode:       "InvalidReasonCode",
	ErrInvalidTopicName:        "InvalidTopicName",
	ErrInvalidTopicFilter:      "InvalidTopicFilter",
	ErrPacketTooLarge:          "PacketTooLarge",
	ErrTrailingBytes:           "TrailingBytes",
	ErrUnexpectedEOF:           "UnexpectedEof",
}

// String returns the machine-readable name of the Kind (e.g. "InvalidQos").
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Unknown"
}

// Error is a typed, position-tagged decoding error. Offset is the byte
// offset into the original input (the start of the packet being decoded,
// i.e. offset 0 is the first byte of the fixed header) where the problem
// was detected.
type Error struct {
	Kind   Kind
	Offset int
	Reason string
}

func (e *Error) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s at offset %d", e.Kind, e.Offset)
	}
	return fmt.Sprintf("%s at offset %d: %s", e.Kind, e.Offset, e.Reason)
}

// Is supports errors.Is matching against another *Error: two errors match
// when their Kinds are equal, whatever their offsets and reasons.
func (e *Error) Is(target error) bool {
	if other, ok := target.(*Error); ok {
		return other.Kind == e.Kind
	}
	return false
}

func newError(kind Kind, offset int, reason string) *Error {
	return &Error{Kind: kind, Offset: offset, Reason: reason}
}

// withOffset returns a copy of a *Error with the offset rebased by delta,
// for a primitive decode error from a body that began partway through the
// original input (e.g. after the fixed header). Any other error is
// returned unchanged.
func withOffset(err error, delta int) error {
	if e, ok := err.(*Error); ok {
		return &Error{Kind: e.Kind, Offset: e.Offset + delta, Reason: e.Reason}
	}
	return err
}

// NeedMore is returned by incremental decode paths in place of an error or
// a packet, when the supplied bytes are a genuine (not malformed) prefix
// of a larger packet. N is a lower bound on how many additional bytes the
// caller must append before decoding is retried; it is not a promise that
// N bytes will be sufficient; the decoder may ask again with a larger N
// once more of the header is visible.
type NeedMore struct {
	N int
}

func (e *NeedMore) Error() string {
	return fmt.Sprintf("need at least %d more byte(s)", e.N)
}

// needMore is a convenience constructor.
func needMore(n int) *NeedMore {
	return &NeedMore{N: n}
}
