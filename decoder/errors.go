// SPDX-License-Identifier: MIT

package decoder

import "errors"

// errPacketTooLarge is wrapped into the Err returned when a packet's
// total length exceeds Options.MaxPacketSize — the codec's only
// admission-control knob (spec.md §4.6).
var errPacketTooLarge = errors.New("packet too large")

// errUnknownPacketType is wrapped into the Err returned when the fixed
// header's type nibble names a control packet type this codec does not
// implement (0 and, outside MQTT 5, 15).
var errUnknownPacketType = errors.New("unknown packet type")
