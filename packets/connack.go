// SPDX-License-Identifier: MIT

package packets

import "bytes"

// ConnackPacket acknowledges a CONNECT. Grounded on the teacher's
// packets/connack.go, generalized to carry v5 properties and the full
// reason code set alongside the v3 "session present" + return code pair.
type ConnackPacket struct {
	SessionPresent bool
	ReasonCode     byte // v3: "return code"; v5: reason code
	Properties     Properties
}

func (p *ConnackPacket) Type() byte { return Connack }

func (p *ConnackPacket) Encode(v Version, buf *bytes.Buffer) (int, error) {
	start := buf.Len()
	buf.WriteByte(encodeBool(p.SessionPresent))
	if v.V5() {
		buf.WriteByte(p.ReasonCode)
		p.Properties.Encode(Connack, buf)
	} else {
		buf.WriteByte(v3ReturnCode(p.ReasonCode))
	}
	return buf.Len() - start, nil
}

func (p *ConnackPacket) Decode(v Version, fh FixedHeader, body []byte, opts Options) error {
	present, o, err := decodeBool(body, 0)
	if err != nil {
		return err
	}
	p.SessionPresent = present

	p.ReasonCode, o, err = decodeByte(body, o)
	if err != nil {
		return err
	}
	if v.V5() && !ValidReasonCode(Connack, p.ReasonCode) {
		return newError(ErrInvalidReasonCode, o-1, "reason code not valid for connack")
	}
	if v.V5() {
		var props *Properties
		props, o, err = DecodeProperties(Connack, body, o, opts)
		if err != nil {
			return err
		}
		p.Properties = *props
	}

	if o != len(body) {
		return newError(ErrTrailingBytes, o, "trailing bytes after connack")
	}
	return nil
}

func (p *ConnackPacket) Validate(v Version) (byte, error) {
	if p.ReasonCode != RCSuccess.Code && p.SessionPresent {
		return RCProtocolError.Code, newError(ErrInvalidProtocol, 0,
			"session present must be false when connack is unsuccessful")
	}
	return RCSuccess.Code, nil
}
