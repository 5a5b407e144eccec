// SPDX-License-Identifier: MIT

package packets

import "bytes"

// EncodePacket renders pk as a complete on-wire packet: fixed header
// followed by body. Because the fixed header's remaining-length field
// must be known before it is written, the body is encoded first into a
// scratch buffer and then framed — the two-pass approach the original
// codec's Packet::to_bytes also takes, rather than reserving a
// worst-case VBI width and patching it after the fact.
func EncodePacket(v Version, pk Packet) ([]byte, error) {
	var body bytes.Buffer
	n, err := pk.Encode(v, &body)
	if err != nil {
		return nil, err
	}

	fh := FixedHeader{Type: pk.Type(), Remaining: n}
	if pb, ok := pk.(*PublishPacket); ok {
		fh.Dup, fh.Qos, fh.Retain = pb.Dup, pb.Qos, pb.Retain
	}

	var out bytes.Buffer
	out.Grow(TotalLen(n))
	fh.Encode(&out)
	out.Write(body.Bytes())
	return out.Bytes(), nil
}
