// SPDX-License-Identifier: MIT

// Command mqttdump decodes a captured MQTT packet stream from stdin and
// logs each packet, one line per packet. It exists to exercise the
// codec/decoder/streamdecoder pipeline end to end from a real io.Reader,
// the way the teacher's cmd/main.go wires a config into a running
// server — here there is no server, so the "wiring" is just stdin into
// streamdecoder.Decoder.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/nimbus-labs/mqttcodec/decoder"
	"github.com/nimbus-labs/mqttcodec/packets"
	"github.com/nimbus-labs/mqttcodec/streamdecoder"
)

func main() {
	version := flag.Int("version", 4, "mqtt protocol version for non-CONNECT packets (3, 4, or 5)")
	maxSize := flag.Uint("max-size", 268435460, "maximum packet size in bytes, 0 for unbounded")
	format := flag.String("format", "text", "output format: text or msgpack")
	debug := flag.Bool("debug", false, "enable debug-level trace logging")
	flag.Parse()

	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	opts := decoder.Options{
		Options: packets.Options{MaxPacketSize: uint32(*maxSize)},
		Version: packets.Version(*version),
	}

	dec := streamdecoder.New(os.Stdin, opts).WithLogger(log)
	ctx := context.Background()

	count := 0
	for {
		pk, err := dec.Next(ctx)
		if err != nil {
			log.Info().Int("packets", count).Err(err).Msg("stream ended")
			return
		}
		count++
		if err := emit(*format, pk); err != nil {
			log.Error().Err(err).Msg("failed to emit packet")
		}
	}
}

func emit(format string, pk packets.Packet) error {
	switch format {
	case "msgpack":
		b, err := msgpack.Marshal(pk)
		if err != nil {
			return fmt.Errorf("marshal msgpack: %w", err)
		}
		os.Stdout.Write(b)
		os.Stdout.Write([]byte("\n"))
		return nil
	default:
		fmt.Printf("%s %+v\n", packets.Names[pk.Type()], pk)
		return nil
	}
}
