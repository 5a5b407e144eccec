// SPDX-License-Identifier: MIT

package packets

import "bytes"

// PublishPacket carries application data on a topic. Dup/Qos/Retain live
// on the fixed header (spec.md §4.2) rather than here; Decode copies them
// in from the FixedHeader it is given so callers have one place to look.
// Grounded on the teacher's packets/publish.go struct shape.
type PublishPacket struct {
	Dup              bool
	Qos              QoS
	Retain           bool
	TopicName        string
	PacketIdentifier uint16
	Properties       Properties
	Payload          []byte
}

func (p *PublishPacket) Type() byte { return Publish }

func (p *PublishPacket) Encode(v Version, buf *bytes.Buffer) (int, error) {
	start := buf.Len()
	var head []byte
	head = encodeString(head, p.TopicName)
	buf.Write(head)

	if p.Qos > AtMostOnce {
		var pid []byte
		pid = encodeUint16(pid, p.PacketIdentifier)
		buf.Write(pid)
	}

	if v.V5() {
		p.Properties.Encode(Publish, buf)
	}

	buf.Write(p.Payload)
	return buf.Len() - start, nil
}

func (p *PublishPacket) Decode(v Version, fh FixedHeader, body []byte, opts Options) error {
	p.Dup = fh.Dup
	p.Qos = fh.Qos
	p.Retain = fh.Retain

	topic, o, err := decodeString(body, 0)
	if err != nil {
		return err
	}
	p.TopicName = topic

	if p.Qos > AtMostOnce {
		p.PacketIdentifier, o, err = decodeUint16(body, o)
		if err != nil {
			return err
		}
		if p.PacketIdentifier == 0 {
			return newError(ErrInvalidPacketIdentifier, o-2, "packet identifier must be nonzero")
		}
	}

	if v.V5() {
		var props *Properties
		props, o, err = DecodeProperties(Publish, body, o, opts)
		if err != nil {
			return err
		}
		p.Properties = *props
	}

	p.Payload = body[o:]
	return nil
}

func (p *PublishPacket) Validate(v Version) (byte, error) {
	if !p.Qos.Valid() {
		return RCUnspecifiedError.Code, newError(ErrInvalidQos, 0, "invalid qos")
	}
	if p.Qos == AtMostOnce && p.Dup {
		return RCProtocolError.Code, newError(ErrInvalidHeader, 0, "dup set with qos 0")
	}
	if p.Properties.HasTopicAlias && p.Properties.TopicAlias == 0 {
		return RCTopicAliasInvalid.Code, newError(ErrInvalidProperty, 0, "topic alias must be nonzero")
	}
	return RCSuccess.Code, nil
}
