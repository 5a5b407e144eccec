// SPDX-License-Identifier: MIT

package packets

import "bytes"

// AuthPacket carries extended (e.g. SASL-style) authentication exchange
// steps. It exists only in MQTT 5 (spec.md §2: Auth is "v5-only, packet
// type 15"); Decode/Encode do not check the version themselves. On the
// decode path, decoder.Step rejects a type-15 packet before routing it
// here unless the negotiated version is MQTT 5; the header framer itself
// accepts type 15 at any version.
type AuthPacket struct {
	ReasonCode byte
	Properties Properties
}

func (p *AuthPacket) Type() byte { return Auth }

func (p *AuthPacket) Encode(v Version, buf *bytes.Buffer) (int, error) {
	start := buf.Len()
	propsLen := p.Properties.EncodedLen(Auth)
	if p.ReasonCode == RCSuccess.Code && propsLen <= 1 {
		return 0, nil
	}
	buf.WriteByte(p.ReasonCode)
	p.Properties.Encode(Auth, buf)
	return buf.Len() - start, nil
}

func (p *AuthPacket) Decode(v Version, fh FixedHeader, body []byte, opts Options) error {
	if len(body) == 0 {
		p.ReasonCode = RCSuccess.Code
		return nil
	}
	code, o, err := decodeByte(body, 0)
	if err != nil {
		return err
	}
	if !ValidReasonCode(Auth, code) {
		return newError(ErrInvalidReasonCode, o-1, "reason code not valid for auth")
	}
	p.ReasonCode = code

	if o == len(body) {
		return nil
	}
	props, o, err := DecodeProperties(Auth, body, o, opts)
	if err != nil {
		return err
	}
	p.Properties = *props
	if o != len(body) {
		return newError(ErrTrailingBytes, o, "trailing bytes after auth properties")
	}
	return nil
}

func (p *AuthPacket) Validate(v Version) (byte, error) {
	if !v.V5() {
		return RCProtocolError.Code, newError(ErrInvalidProtocol, 0, "auth is only valid in mqtt 5")
	}
	if p.ReasonCode != RCSuccess.Code && p.Properties.AuthenticationMethod == "" {
		return RCProtocolError.Code, newError(ErrInvalidProperty, 0, "auth requires an authentication method")
	}
	return RCSuccess.Code, nil
}
