// SPDX-License-Identifier: MIT

package packets

import "bytes"

// PubcompPacket completes a QoS 2 PUBLISH exchange.
type PubcompPacket struct {
	PacketIdentifier uint16
	ReasonCode       byte
	Properties       Properties
}

func (p *PubcompPacket) Type() byte { return Pubcomp }

func (p *PubcompPacket) Encode(v Version, buf *bytes.Buffer) (int, error) {
	return encodeAck(Pubcomp, p.PacketIdentifier, p.ReasonCode, &p.Properties, v, buf)
}

func (p *PubcompPacket) Decode(v Version, fh FixedHeader, body []byte, opts Options) error {
	pid, reason, props, err := decodeAck(Pubcomp, v, body, opts)
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

func (p *PubcompPacket) Validate(v Version) (byte, error) {
	if p.PacketIdentifier == 0 {
		return RCUnspecifiedError.Code, newError(ErrInvalidPacketIdentifier, 0, "packet identifier must be nonzero")
	}
	return RCSuccess.Code, nil
}
