// SPDX-License-Identifier: MIT

package packets

import "bytes"

// DisconnectPacket signals connection termination. v3.1.1 and earlier
// carry no body; v5 adds a reason code and properties, both omittable
// (spec.md §4.5 short form: absent body means "normal disconnection, no
// properties").
type DisconnectPacket struct {
	ReasonCode byte
	Properties Properties
}

func (p *DisconnectPacket) Type() byte { return Disconnect }

func (p *DisconnectPacket) Encode(v Version, buf *bytes.Buffer) (int, error) {
	start := buf.Len()
	if !v.V5() {
		return 0, nil
	}
	propsLen := p.Properties.EncodedLen(Disconnect)
	if p.ReasonCode == RCNormalDisconnection.Code && propsLen <= 1 {
		return 0, nil
	}
	buf.WriteByte(p.ReasonCode)
	p.Properties.Encode(Disconnect, buf)
	return buf.Len() - start, nil
}

func (p *DisconnectPacket) Decode(v Version, fh FixedHeader, body []byte, opts Options) error {
	if !v.V5() {
		if len(body) != 0 {
			return newError(ErrTrailingBytes, 0, "v3 disconnect must have no payload")
		}
		p.ReasonCode = RCNormalDisconnection.Code
		return nil
	}
	if len(body) == 0 {
		p.ReasonCode = RCNormalDisconnection.Code
		return nil
	}

	code, o, err := decodeByte(body, 0)
	if err != nil {
		return err
	}
	if !ValidReasonCode(Disconnect, code) {
		return newError(ErrInvalidReasonCode, o-1, "reason code not valid for disconnect")
	}
	p.ReasonCode = code

	if o == len(body) {
		return nil
	}
	props, o, err := DecodeProperties(Disconnect, body, o, opts)
	if err != nil {
		return err
	}
	p.Properties = *props
	if o != len(body) {
		return newError(ErrTrailingBytes, o, "trailing bytes after disconnect properties")
	}
	return nil
}

func (p *DisconnectPacket) Validate(v Version) (byte, error) {
	return RCSuccess.Code, nil
}
