// SPDX-License-Identifier: MIT

package packets

import "bytes"

// UnsubackPacket acknowledges an UNSUBSCRIBE. In v3/v3.1.1 it carries no
// payload beyond the packet identifier; v5 adds a reason code per
// filter, mirroring Suback.
type UnsubackPacket struct {
	PacketIdentifier uint16
	Properties       Properties
	ReasonCodes      []byte // v5 only
}

func (p *UnsubackPacket) Type() byte { return Unsuback }

func (p *UnsubackPacket) Encode(v Version, buf *bytes.Buffer) (int, error) {
	start := buf.Len()
	var pid []byte
	pid = encodeUint16(pid, p.PacketIdentifier)
	buf.Write(pid)

	if v.V5() {
		p.Properties.Encode(Unsuback, buf)
		buf.Write(p.ReasonCodes)
	}
	return buf.Len() - start, nil
}

func (p *UnsubackPacket) Decode(v Version, fh FixedHeader, body []byte, opts Options) error {
	pid, o, err := decodeUint16(body, 0)
	if err != nil {
		return err
	}
	if pid == 0 {
		return newError(ErrInvalidPacketIdentifier, o-2, "packet identifier must be nonzero")
	}
	p.PacketIdentifier = pid

	if !v.V5() {
		if o != len(body) {
			return newError(ErrTrailingBytes, o, "trailing bytes after v3 unsuback")
		}
		return nil
	}

	var props *Properties
	props, o, err = DecodeProperties(Unsuback, body, o, opts)
	if err != nil {
		return err
	}
	p.Properties = *props

	for o < len(body) {
		var code byte
		code, o, err = decodeByte(body, o)
		if err != nil {
			return err
		}
		if !ValidReasonCode(Unsuback, code) {
			return newError(ErrInvalidReasonCode, o-1, "reason code not valid for unsuback")
		}
		p.ReasonCodes = append(p.ReasonCodes, code)
	}
	if len(p.ReasonCodes) == 0 {
		return newError(ErrInvalidProtocol, o, "v5 unsuback must carry at least one reason code")
	}
	return nil
}

func (p *UnsubackPacket) Validate(v Version) (byte, error) {
	return RCSuccess.Code, nil
}
