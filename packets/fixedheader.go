// SPDX-License-Identifier: MIT

package packets

import "bytes"

// DecodeFixedHeader decodes the full fixed header (type/flags byte plus
// the remaining-length VBI) starting at the front of buf. It returns the
// header plus the number of bytes it occupies. If buf is a genuine but
// incomplete prefix of a header, the error is a *NeedMore.
func DecodeFixedHeader(buf []byte) (FixedHeader, int, error) {
	if len(buf) == 0 {
		return FixedHeader{}, 0, needMore(1)
	}
	fh, err := DecodeFixedHeaderByte(buf[0])
	if err != nil {
		return fh, 0, err
	}
	remaining, next, err := decodeVarByteInt(buf, 1)
	if err != nil {
		// decodeVarByteInt reports non-termination within four bytes as
		// ErrInvalidVarByteInt, which is correct for a VBI nested inside a
		// packet body (e.g. a property block length) but not for the
		// remaining-length field itself — spec.md §8 scenario S6 names
		// that case InvalidRemainingLength specifically.
		if e, ok := err.(*Error); ok && e.Kind == ErrInvalidVarByteInt {
			return fh, 0, &Error{Kind: ErrInvalidRemainingLength, Offset: e.Offset, Reason: "remaining length did not terminate within four bytes"}
		}
		return fh, 0, err
	}
	fh.Remaining = remaining
	return fh, next, nil
}

// FixedHeader holds the decoded values of an MQTT fixed header: the
// packet type/flags byte and the variable-byte "remaining length".
// Grounded on the teacher's packets/fixedheader.go FixedHeader type.
type FixedHeader struct {
	Type      byte
	Dup       bool
	Qos       QoS
	Retain    bool
	Remaining int
}

// Encode writes the fixed header (type/flags byte followed by the
// remaining-length VBI) to buf.
func (fh FixedHeader) Encode(buf *bytes.Buffer) {
	var flags byte
	switch fh.Type {
	case Publish:
		flags = encodeBool(fh.Dup)<<3 | byte(fh.Qos)<<1 | encodeBool(fh.Retain)
	case Pubrel, Subscribe, Unsubscribe:
		flags = 0x02
	}
	buf.WriteByte(fh.Type<<4 | flags)
	var tmp [4]byte
	buf.Write(encodeVarByteInt(tmp[:0], fh.Remaining))
}

// DecodeFixedHeaderByte unpacks the type/flags byte. It validates the
// reserved low-nibble bits per packet type (spec.md §4.2): Publish uses
// them for dup/qos/retain; Pubrel/Subscribe/Unsubscribe require exactly
// 0b0010; every other type requires 0b0000.
func DecodeFixedHeaderByte(b byte) (FixedHeader, error) {
	fh := FixedHeader{Type: b >> 4}
	low := b & 0x0F

	switch fh.Type {
	case Publish:
		fh.Dup = low&0x08 > 0
		fh.Qos = QoS((low >> 1) & 0x03)
		fh.Retain = low&0x01 > 0
		if fh.Qos == 3 {
			return fh, newError(ErrInvalidQos, 0, "qos bits are 3")
		}
		if fh.Dup && fh.Qos == AtMostOnce {
			return fh, newError(ErrInvalidHeader, 0, "dup set with qos 0")
		}
	case Pubrel, Subscribe, Unsubscribe:
		if low != 0x02 {
			return fh, newError(ErrInvalidHeader, 0, "reserved flags must be 0b0010")
		}
	default:
		if low != 0x00 {
			return fh, newError(ErrInvalidHeader, 0, "reserved flags must be 0b0000")
		}
	}

	return fh, nil
}
