// SPDX-License-Identifier: MIT

package packets

import "bytes"

// ConnectPacket is the CONNECT control packet (client -> server), the
// first packet on every connection. Grounded on the teacher's
// packets/connect.go struct shape, generalized across all three protocol
// versions and the v5 property set.
type ConnectPacket struct {
	ProtocolVersion Version
	CleanStart      bool // "Clean Session" pre-v5
	KeepAlive       uint16

	ClientIdentifier string
	WillFlag         bool
	WillQos          QoS
	WillRetain       bool
	WillTopic        string
	WillPayload      []byte
	UsernameFlag     bool
	Username         string
	PasswordFlag     bool
	Password         []byte

	Properties     Properties
	WillProperties Properties
}

func (p *ConnectPacket) Type() byte { return Connect }

func (p *ConnectPacket) Encode(v Version, buf *bytes.Buffer) (int, error) {
	start := buf.Len()

	var name []byte
	name = encodeString(name, v.ProtocolName())
	buf.Write(name)
	buf.WriteByte(byte(v))

	var flags byte
	if p.CleanStart {
		flags |= 0x02
	}
	if p.WillFlag {
		flags |= 0x04
		flags |= byte(p.WillQos) << 3
		if p.WillRetain {
			flags |= 0x20
		}
	}
	if p.PasswordFlag {
		flags |= 0x40
	}
	if p.UsernameFlag {
		flags |= 0x80
	}
	buf.WriteByte(flags)

	var ka []byte
	ka = encodeUint16(ka, p.KeepAlive)
	buf.Write(ka)

	if v.V5() {
		p.Properties.Encode(Connect, buf)
	}

	var payload []byte
	payload = encodeString(payload, p.ClientIdentifier)
	if p.WillFlag {
		if v.V5() {
			var willBuf bytes.Buffer
			p.WillProperties.Encode(willProperties, &willBuf)
			payload = append(payload, willBuf.Bytes()...)
		}
		payload = encodeString(payload, p.WillTopic)
		payload = encodeBytes(payload, p.WillPayload)
	}
	if p.UsernameFlag {
		payload = encodeString(payload, p.Username)
	}
	if p.PasswordFlag {
		payload = encodeBytes(payload, p.Password)
	}
	buf.Write(payload)

	return buf.Len() - start, nil
}

func (p *ConnectPacket) Decode(v Version, fh FixedHeader, body []byte, opts Options) error {
	name, o, err := decodeString(body, 0)
	if err != nil {
		return err
	}
	level, o, err := decodeByte(body, o)
	if err != nil {
		return err
	}
	version, err := ParseProtocol(name, level)
	if err != nil {
		return err
	}
	p.ProtocolVersion = version

	flags, o, err := decodeByte(body, o)
	if err != nil {
		return err
	}
	p.CleanStart = flags&0x02 > 0
	p.WillFlag = flags&0x04 > 0
	p.WillQos = QoS((flags >> 3) & 0x03)
	p.WillRetain = flags&0x20 > 0
	p.PasswordFlag = flags&0x40 > 0
	p.UsernameFlag = flags&0x80 > 0
	if flags&0x01 > 0 {
		return newError(ErrInvalidConnectFlags, o-1, "reserved connect flag bit set")
	}
	if !p.WillFlag && (p.WillQos != AtMostOnce || p.WillRetain) {
		return newError(ErrInvalidConnectFlags, o-1, "will qos/retain set without will flag")
	}
	if !p.WillQos.Valid() {
		return newError(ErrInvalidQos, o-1, "invalid will qos")
	}
	if !p.UsernameFlag && p.PasswordFlag && !version.V5() {
		return newError(ErrInvalidConnectFlags, o-1, "password flag without username flag")
	}

	p.KeepAlive, o, err = decodeUint16(body, o)
	if err != nil {
		return err
	}

	if version.V5() {
		var props *Properties
		props, o, err = DecodeProperties(Connect, body, o, opts)
		if err != nil {
			return err
		}
		p.Properties = *props
	}

	p.ClientIdentifier, o, err = decodeString(body, o)
	if err != nil {
		return err
	}

	if p.WillFlag {
		if version.V5() {
			var props *Properties
			props, o, err = DecodeProperties(willProperties, body, o, opts)
			if err != nil {
				return err
			}
			p.WillProperties = *props
		}
		p.WillTopic, o, err = decodeString(body, o)
		if err != nil {
			return err
		}
		p.WillPayload, o, err = decodeBytes(body, o)
		if err != nil {
			return err
		}
	}
	if p.UsernameFlag {
		p.Username, o, err = decodeString(body, o)
		if err != nil {
			return err
		}
	}
	if p.PasswordFlag {
		p.Password, o, err = decodeBytes(body, o)
		if err != nil {
			return err
		}
	}

	if o != len(body) {
		return newError(ErrTrailingBytes, o, "trailing bytes after connect payload")
	}
	return nil
}

func (p *ConnectPacket) Validate(v Version) (byte, error) {
	if p.ClientIdentifier == "" && !v.V5() && !p.CleanStart {
		return RCClientIdentifierNotValid.Code, newError(ErrInvalidProtocol, 0,
			"empty client identifier requires clean start/session")
	}
	if !p.WillQos.Valid() {
		return RCUnspecifiedError.Code, newError(ErrInvalidQos, 0, "invalid will qos")
	}
	return RCSuccess.Code, nil
}
