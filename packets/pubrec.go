// SPDX-License-Identifier: MIT

package packets

import "bytes"

// PubrecPacket is the first acknowledgement of a QoS 2 PUBLISH.
type PubrecPacket struct {
	PacketIdentifier uint16
	ReasonCode       byte
	Properties       Properties
}

func (p *PubrecPacket) Type() byte { return Pubrec }

func (p *PubrecPacket) Encode(v Version, buf *bytes.Buffer) (int, error) {
	return encodeAck(Pubrec, p.PacketIdentifier, p.ReasonCode, &p.Properties, v, buf)
}

func (p *PubrecPacket) Decode(v Version, fh FixedHeader, body []byte, opts Options) error {
	pid, reason, props, err := decodeAck(Pubrec, v, body, opts)
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

func (p *PubrecPacket) Validate(v Version) (byte, error) {
	if p.PacketIdentifier == 0 {
		return RCUnspecifiedError.Code, newError(ErrInvalidPacketIdentifier, 0, "packet identifier must be nonzero")
	}
	return RCSuccess.Code, nil
}
