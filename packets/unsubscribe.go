// SPDX-License-Identifier: MIT

package packets

import (
	"bytes"

	"github.com/nimbus-labs/mqttcodec/topics"
)

// UnsubscribePacket withdraws one or more topic subscriptions. Like
// Subscribe, its reserved fixed-header nibble (0b0010) is checked by
// DecodeFixedHeaderByte.
type UnsubscribePacket struct {
	PacketIdentifier uint16
	Properties       Properties
	Filters          []string
}

func (p *UnsubscribePacket) Type() byte { return Unsubscribe }

func (p *UnsubscribePacket) Encode(v Version, buf *bytes.Buffer) (int, error) {
	start := buf.Len()
	var pid []byte
	pid = encodeUint16(pid, p.PacketIdentifier)
	buf.Write(pid)

	if v.V5() {
		p.Properties.Encode(Unsubscribe, buf)
	}

	for _, f := range p.Filters {
		var enc []byte
		enc = encodeString(enc, f)
		buf.Write(enc)
	}
	return buf.Len() - start, nil
}

func (p *UnsubscribePacket) Decode(v Version, fh FixedHeader, body []byte, opts Options) error {
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
		props, o, err = DecodeProperties(Unsubscribe, body, o, opts)
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
		p.Filters = append(p.Filters, filter)
	}

	if len(p.Filters) == 0 {
		return newError(ErrInvalidProtocol, o, "unsubscribe must list at least one filter")
	}
	return nil
}

func (p *UnsubscribePacket) Validate(v Version) (byte, error) {
	for _, f := range p.Filters {
		if !topics.ValidFilter(f) {
			return RCTopicFilterInvalid.Code, newError(ErrInvalidTopicFilter, 0, "malformed topic filter")
		}
	}
	return RCSuccess.Code, nil
}
