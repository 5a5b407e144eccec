// SPDX-License-Identifier: MIT

package packets

import "bytes"

// PingrespPacket answers a PINGREQ. Like it, carries no body.
type PingrespPacket struct{}

func (p *PingrespPacket) Type() byte { return Pingresp }

func (p *PingrespPacket) Encode(v Version, buf *bytes.Buffer) (int, error) {
	return 0, nil
}

func (p *PingrespPacket) Decode(v Version, fh FixedHeader, body []byte, opts Options) error {
	if len(body) != 0 {
		return newError(ErrTrailingBytes, 0, "pingresp must have no payload")
	}
	return nil
}

func (p *PingrespPacket) Validate(v Version) (byte, error) {
	return RCSuccess.Code, nil
}
