// SPDX-License-Identifier: MIT

package packets

import (
	"encoding/binary"
	"unicode/utf8"
	"unsafe"

	"golang.org/x/text/runes"
	"golang.org/x/text/unicode/rangetable"
)

// MaxVarByteInt is the largest value a variable-byte integer can encode
// (four base-128 bytes, continuation bit excluded from the value).
const MaxVarByteInt = 268435455

// bytesToString performs a zero-copy byte-to-string conversion, for the
// zero-copy decode path: the returned string aliases buf and must not
// outlive it. Grounded on the teacher's codec.go helper of the same name.
func bytesToString(buf []byte) string {
	return *(*string)(unsafe.Pointer(&buf))
}

// noncharacters covers U+FDD0-FDEF and the 0xFFFE/0xFFFF noncharacter at
// the end of every plane, which spec.md's UTF-8 string rule forbids.
var noncharacters = rangetable.New(
	rune(0xFDD0), rune(0xFDD1), rune(0xFDD2), rune(0xFDD3), rune(0xFDD4), rune(0xFDD5),
	rune(0xFDD6), rune(0xFDD7), rune(0xFDD8), rune(0xFDD9), rune(0xFDDA), rune(0xFDDB),
	rune(0xFDDC), rune(0xFDDD), rune(0xFDDE), rune(0xFDDF), rune(0xFDE0), rune(0xFDE1),
	rune(0xFDE2), rune(0xFDE3), rune(0xFDE4), rune(0xFDE5), rune(0xFDE6), rune(0xFDE7),
	rune(0xFDE8), rune(0xFDE9), rune(0xFDEA), rune(0xFDEB), rune(0xFDEC), rune(0xFDED),
	rune(0xFDEE), rune(0xFDEF),
	rune(0xFFFE), rune(0xFFFF), rune(0x1FFFE), rune(0x1FFFF), rune(0x2FFFE), rune(0x2FFFF),
	rune(0x3FFFE), rune(0x3FFFF), rune(0x4FFFE), rune(0x4FFFF), rune(0x5FFFE), rune(0x5FFFF),
	rune(0x6FFFE), rune(0x6FFFF), rune(0x7FFFE), rune(0x7FFFF), rune(0x8FFFE), rune(0x8FFFF),
	rune(0x9FFFE), rune(0x9FFFF), rune(0xAFFFE), rune(0xAFFFF), rune(0xBFFFE), rune(0xBFFFF),
	rune(0xCFFFE), rune(0xCFFFF), rune(0xDFFFE), rune(0xDFFFF), rune(0xEFFFE), rune(0xEFFFF),
	rune(0xFFFFE), rune(0xFFFFF), rune(0x10FFFE), rune(0x10FFFF),
)

// validUTF8 reports whether b is a well-formed MQTT UTF-8 string: valid
// UTF-8, no embedded NUL, and no noncharacter codepoint. Uses
// golang.org/x/text's rune-table machinery rather than a hand-rolled
// range scan, matching spec.md §4.1's "accelerated validator" guidance.
func validUTF8(b []byte) bool {
	if !utf8.Valid(b) {
		return false
	}
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == 0 {
			return false
		}
		if runes.In(noncharacters).Contains(r) {
			return false
		}
		i += size
	}
	return true
}

// decodeByte reads a single byte at offset.
func decodeByte(buf []byte, offset int) (byte, int, error) {
	if len(buf) <= offset {
		return 0, offset, newError(ErrTrailingBytes, offset, "expected a byte")
	}
	return buf[offset], offset + 1, nil
}

// decodeBool reads a single byte at offset as a boolean (any nonzero bit 0
// is true).
func decodeBool(buf []byte, offset int) (bool, int, error) {
	b, next, err := decodeByte(buf, offset)
	if err != nil {
		return false, offset, err
	}
	return b&0x01 > 0, next, nil
}

// decodeUint16 reads a big-endian uint16 at offset.
func decodeUint16(buf []byte, offset int) (uint16, int, error) {
	if len(buf) < offset+2 {
		return 0, offset, newError(ErrTrailingBytes, offset, "expected 2 bytes")
	}
	return binary.BigEndian.Uint16(buf[offset : offset+2]), offset + 2, nil
}

// decodeUint32 reads a big-endian uint32 at offset.
func decodeUint32(buf []byte, offset int) (uint32, int, error) {
	if len(buf) < offset+4 {
		return 0, offset, newError(ErrTrailingBytes, offset, "expected 4 bytes")
	}
	return binary.BigEndian.Uint32(buf[offset : offset+4]), offset + 4, nil
}

// decodeBytes reads a two-byte-length-prefixed binary blob at offset. The
// returned slice aliases buf (zero-copy); callers that need an owned copy
// must clone it themselves.
func decodeBytes(buf []byte, offset int) ([]byte, int, error) {
	length, next, err := decodeUint16(buf, offset)
	if err != nil {
		return nil, offset, err
	}
	end := next + int(length)
	if end > len(buf) {
		return nil, offset, newError(ErrTrailingBytes, offset, "length-prefixed field overruns buffer")
	}
	return buf[next:end], end, nil
}

// decodeString reads a two-byte-length-prefixed, UTF-8-validated string at
// offset. Like decodeBytes, the returned string aliases buf.
func decodeString(buf []byte, offset int) (string, int, error) {
	b, next, err := decodeBytes(buf, offset)
	if err != nil {
		return "", offset, err
	}
	if !validUTF8(b) {
		return "", offset, newError(ErrInvalidString, offset, "invalid utf-8 string")
	}
	return bytesToString(b), next, nil
}

// decodeVarByteInt decodes a variable-byte integer starting at offset,
// returning the value and the offset just past it. If buf ends before the integer terminates, but within the
// four-byte legal width, the error is a *NeedMore (the caller should
// re-present buf extended with more bytes); if the continuation bit is
// still set on the fourth byte, it is a genuine ErrInvalidVarByteInt.
// Four base-128 digits can represent at most MaxVarByteInt, so value
// itself never overflows — the only failure mode past NeedMore is
// non-termination within the four-byte width.
func decodeVarByteInt(buf []byte, offset int) (value int, next int, err error) {
	var multiplier uint32
	var v uint32
	i := offset
	for n := 0; n < 4; n++ {
		if i >= len(buf) {
			return 0, offset, needMore(1)
		}
		b := buf[i]
		i++
		v |= uint32(b&0x7F) << multiplier
		if b&0x80 == 0 {
			return int(v), i, nil
		}
		multiplier += 7
	}
	return 0, offset, newError(ErrInvalidVarByteInt, offset, "continuation bit set on fourth byte")
}

// varByteIntLen returns the number of bytes needed to encode v as a
// variable-byte integer (1-4).
func varByteIntLen(v int) int {
	switch {
	case v < 128:
		return 1
	case v < 16384:
		return 2
	case v < 2097152:
		return 3
	default:
		return 4
	}
}

// encodeBool returns 1 for true, 0 for false.
func encodeBool(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// encodeUint16 appends a big-endian uint16 to dst and returns the result.
func encodeUint16(dst []byte, v uint16) []byte {
	return append(dst, byte(v>>8), byte(v))
}

// encodeUint32 appends a big-endian uint32 to dst and returns the result.
func encodeUint32(dst []byte, v uint32) []byte {
	return append(dst, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

// encodeBytes appends a two-byte-length-prefixed blob to dst.
func encodeBytes(dst []byte, v []byte) []byte {
	dst = encodeUint16(dst, uint16(len(v)))
	return append(dst, v...)
}

// encodeString appends a two-byte-length-prefixed string to dst.
func encodeString(dst []byte, v string) []byte {
	dst = encodeUint16(dst, uint16(len(v)))
	return append(dst, v...)
}

// encodeVarByteInt appends a variable-byte integer encoding of v to dst.
func encodeVarByteInt(dst []byte, v int) []byte {
	for {
		b := byte(v % 128)
		v /= 128
		if v > 0 {
			b |= 0x80
		}
		dst = append(dst, b)
		if v == 0 {
			return dst
		}
	}
}
