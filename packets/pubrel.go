// SPDX-License-Identifier: MIT

package packets

import "bytes"

// PubrelPacket releases a QoS 2 PUBLISH for delivery. Its fixed header
// carries the fixed 0b0010 reserved flags (handled by FixedHeader, not
// here).
type PubrelPacket struct {
	PacketIdentifier uint16
	ReasonCode       byte
	Properties       Properties
}

func (p *PubrelPacket) Type() byte { return Pubrel }

func (p *PubrelPacket) Encode(v Version, buf *bytes.Buffer) (int, error) {
	return encodeAck(Pubrel, p.PacketIdentifier, p.ReasonCode, &p.Properties, v, buf)
}

func (p *PubrelPacket) Decode(v Version, fh FixedHeader, body []byte, opts Options) error {
	pid, reason, props, err := decodeAck(Pubrel, v, body, opts)
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

func (p *PubrelPacket) Validate(v Version) (byte, error) {
	if p.PacketIdentifier == 0 {
		return RCUnspecifiedError.Code, newError(ErrInvalidPacketIdentifier, 0, "packet identifier must be nonzero")
	}
	return RCSuccess.Code, nil
}
