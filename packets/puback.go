// SPDX-License-Identifier: MIT

package packets

import "bytes"

// PubackPacket acknowledges a QoS 1 PUBLISH. Grounded on the teacher's
// packets/puback.go; v5 adds a reason code and properties that are both
// omittable when the reason is success and there are no properties
// (spec.md §4.5 "short form").
type PubackPacket struct {
	PacketIdentifier uint16
	ReasonCode       byte
	Properties       Properties
}

func (p *PubackPacket) Type() byte { return Puback }

func (p *PubackPacket) Encode(v Version, buf *bytes.Buffer) (int, error) {
	return encodeAck(Puback, p.PacketIdentifier, p.ReasonCode, &p.Properties, v, buf)
}

func (p *PubackPacket) Decode(v Version, fh FixedHeader, body []byte, opts Options) error {
	pid, reason, props, err := decodeAck(Puback, v, body, opts)
	if err != nil {
		return err
	}
	p.PacketIdentifier = pid
	p.ReasonCode = reason
	if props != nil {
		p.Properties = *props
	}
	return nil
}

func (p *PubackPacket) Validate(v Version) (byte, error) {
	if p.PacketIdentifier == 0 {
		return RCUnspecifiedError.Code, newError(ErrInvalidPacketIdentifier, 0, "packet identifier must be nonzero")
	}
	return RCSuccess.Code, nil
}

// encodeAck writes the common wire shape shared by Puback/Pubrec/
// Pubrel/Pubcomp: packet identifier, then (v5 only, and only if
// non-default) a reason code and property block. Grounded on the
// original codec's PubAck family sharing one encoder.
func encodeAck(pkt byte, pid uint16, reason byte, props *Properties, v Version, buf *bytes.Buffer) (int, error) {
	start := buf.Len()
	var head []byte
	head = encodeUint16(head, pid)
	buf.Write(head)

	if !v.V5() {
		return buf.Len() - start, nil
	}

	propsLen := props.EncodedLen(pkt)
	if reason == RCSuccess.Code && propsLen <= 1 {
		return buf.Len() - start, nil
	}
	buf.WriteByte(reason)
	props.Encode(pkt, buf)
	return buf.Len() - start, nil
}

// decodeAck parses the shape encodeAck writes, tolerating the short form
// (remaining length == 2, meaning success with no properties).
func decodeAck(pkt byte, v Version, body []byte, opts Options) (pid uint16, reason byte, props *Properties, err error) {
	var o int
	pid, o, err = decodeUint16(body, 0)
	if err != nil {
		return 0, 0, nil, err
	}
	if pid == 0 {
		return 0, 0, nil, newError(ErrInvalidPacketIdentifier, 0, "packet identifier must be nonzero")
	}

	if !v.V5() {
		if o != len(body) {
			return 0, 0, nil, newError(ErrTrailingBytes, o, "trailing bytes after packet identifier")
		}
		return pid, RCSuccess.Code, nil, nil
	}

	if o == len(body) {
		return pid, RCSuccess.Code, &Properties{}, nil
	}

	reason, o, err = decodeByte(body, o)
	if err != nil {
		return 0, 0, nil, err
	}
	if !ValidReasonCode(pkt, reason) {
		return 0, 0, nil, newError(ErrInvalidReasonCode, o-1, "reason code not valid for this packet type")
	}

	if o == len(body) {
		return pid, reason, &Properties{}, nil
	}

	props, o, err = DecodeProperties(pkt, body, o, opts)
	if err != nil {
		return 0, 0, nil, err
	}
	if o != len(body) {
		return 0, 0, nil, newError(ErrTrailingBytes, o, "trailing bytes after properties")
	}
	return pid, reason, props, nil
}
