// SPDX-License-Identifier: MIT

package packets

import (
	"bytes"

	"github.com/nimbus-labs/mqttcodec/topics"
)

// RetainHandling controls whether the server sends retained messages
// when a subscription is (re-)established (MQTT 5 only).
type RetainHandling byte

const (
	SendRetained             RetainHandling = 0
	SendRetainedIfNew        RetainHandling = 1
	DoNotSendRetained        RetainHandling = 2
)

// Subscription is one topic-filter/options pair within a SUBSCRIBE
// packet's payload.
type Subscription struct {
	Filter            string
	Qos               QoS
	NoLocal           bool // v5 only
	RetainAsPublished bool // v5 only
	RetainHandling    RetainHandling
}

// SubscribePacket requests one or more topic subscriptions. Grounded on
// the teacher's packets/subscribe.go; the fixed header's reserved low
// nibble (0b0010) is validated by DecodeFixedHeaderByte, not here.
type SubscribePacket struct {
	PacketIdentifier uint16
	Properties       Properties
	Subscriptions    []Subscription
}

func (p *SubscribePacket) Type() byte { return Subscribe }

func (p *SubscribePacket) Encode(v Version, buf *bytes.Buffer) (int, error) {
	start := buf.Len()
	var pid []byte
	pid = encodeUint16(pid, p.PacketIdentifier)
	buf.Write(pid)

	if v.V5() {
		p.Properties.Encode(Subscribe, buf)
	}

	for _, s := range p.Subscriptions {
		var sub []byte
		sub = encodeString(sub, s.Filter)
		var opts byte
		opts = byte(s.Qos)
		if v.V5() {
			if s.NoLocal {
				opts |= 0x04
			}
			if s.RetainAsPublished {
				opts |= 0x08
			}
			opts |= byte(s.RetainHandling) << 4
		}
		sub = append(sub, opts)
		buf.Write(sub)
	}

	return buf.Len() - start, nil
}

func (p *SubscribePacket) Decode(v Version, fh FixedHeader, body []byte, opts Options) error {
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
		props, o, err = DecodeProperties(Subscribe, body, o, opts)
		if err != nil {
			return err
		}
		p.Properties = *props
	}

	for o < len(body) {
		var filter string
		filter, o, err = decodeString(body, o)
		if err != nil {
			return err
		}
		var opts byte
		opts, o, err = decodeByte(body, o)
		if err != nil {
			return err
		}
		sub := Subscription{
			Filter: filter,
			Qos:    QoS(opts & 0x03),
		}
		if !sub.Qos.Valid() {
			return newError(ErrInvalidQos, o-1, "invalid subscribe qos")
		}
		if v.V5() {
			sub.NoLocal = opts&0x04 > 0
			sub.RetainAsPublished = opts&0x08 > 0
			sub.RetainHandling = RetainHandling((opts >> 4) & 0x03)
			if opts&0xC0 > 0 {
				return newError(ErrInvalidProperty, o-1, "reserved subscribe option bits set")
			}
		} else if opts&0xFC > 0 {
			return newError(ErrInvalidConnectFlags, o-1, "reserved subscribe option bits set")
		}
		p.Subscriptions = append(p.Subscriptions, sub)
	}

	if len(p.Subscriptions) == 0 {
		return newError(ErrInvalidProtocol, o, "subscribe must list at least one filter")
	}
	return nil
}

func (p *SubscribePacket) Validate(v Version) (byte, error) {
	for _, s := range p.Subscriptions {
		if !topics.ValidFilter(s.Filter) {
			return RCTopicFilterInvalid.Code, newError(ErrInvalidTopicFilter, 0, "malformed topic filter")
		}
	}
	return RCSuccess.Code, nil
}
