// SPDX-License-Identifier: MIT

package packets

import "bytes"

// SubackPacket acknowledges a SUBSCRIBE, with one reason code per
// requested filter, in request order (MQTT 5 §3.9.3).
type SubackPacket struct {
	PacketIdentifier uint16
	Properties       Properties
	ReasonCodes      []byte
}

func (p *SubackPacket) Type() byte { return Suback }

func (p *SubackPacket) Encode(v Version, buf *bytes.Buffer) (int, error) {
	start := buf.Len()
	var pid []byte
	pid = encodeUint16(pid, p.PacketIdentifier)
	buf.Write(pid)

	if v.V5() {
		p.Properties.Encode(Suback, buf)
	}

	buf.Write(p.ReasonCodes)
	return buf.Len() - start, nil
}

func (p *SubackPacket) Decode(v Version, fh FixedHeader, body []byte, opts Options) error {
	pid, o, err := decodeUint16(body, 0)
	if err != nil {
		return err
	}
	if pid == 0 {
		return newError(ErrInvalidPacketIdentifier, o-2, "packet identifier must be nonzero")
	}
	p.PacketIdentifier = pid

	if v.V5() {
		var props *Properties
		props, o, err = DecodeProperties(Suback, body, o, opts)
		if err != nil {
			return err
		}
		p.Properties = *props
	}

	for o < len(body) {
		var code byte
		code, o, err = decodeByte(body, o)
		if err != nil {
			return err
		}
		if v.V5() && !ValidReasonCode(Suback, code) {
			return newError(ErrInvalidReasonCode, o-1, "reason code not valid for suback")
		}
		if !v.V5() && code != 0x00 && code != 0x01 && code != 0x02 && code != 0x80 {
			return newError(ErrInvalidReasonCode, o-1, "return code not valid for v3 suback")
		}
		p.ReasonCodes = append(p.ReasonCodes, code)
	}

	if len(p.ReasonCodes) == 0 {
		return newError(ErrInvalidProtocol, o, "suback must carry at least one reason code")
	}
	return nil
}

func (p *SubackPacket) Validate(v Version) (byte, error) {
	return RCSuccess.Code, nil
}
