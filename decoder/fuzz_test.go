// SPDX-License-Identifier: MIT

package decoder

import (
	"testing"

	"github.com/nimbus-labs/mqttcodec/packets"
)

// FuzzDecode asserts the decoder's core safety property: Step never
// panics on arbitrary input (decoded as MQTT 5 with a 1 MiB size cap).
// Grounded on spec.md §8's fuzz-safety property and the teacher's
// TPacketCases mutation tables, generalized into a go test -fuzz target.
func FuzzDecode(f *testing.F) {
	seed, _ := packets.EncodePacket(packets.Version311, &packets.PublishPacket{
		TopicName: "a/b/c", Payload: []byte("seed"),
	})
	f.Add(seed)
	f.Add([]byte{})
	f.Add([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF})

	f.Fuzz(func(t *testing.T, data []byte) {
		opts := Options{Version: packets.Version5, Options: packets.Options{MaxPacketSize: 1 << 20}}
		_ = Step(data, opts)
	})
}
