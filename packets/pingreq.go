// SPDX-License-Identifier: MIT

package packets

import "bytes"

// PingreqPacket is the keep-alive heartbeat sent client -> server. It has
// no variable header or payload at any protocol version.
type PingreqPacket struct{}

func (p *PingreqPacket) Type() byte { return Pingreq }

func (p *PingreqPacket) Encode(v Version, buf *bytes.Buffer) (int, error) {
	return 0, nil
}

func (p *PingreqPacket) Decode(v Version, fh FixedHeader, body []byte, opts Options) error {
	if len(body) != 0 {
		return newError(ErrTrailingBytes, 0, "pingreq must have no payload")
	}
	return nil
}

func (p *PingreqPacket) Validate(v Version) (byte, error) {
	return RCSuccess.Code, nil
}
