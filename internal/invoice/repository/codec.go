package repository

import (
	"errors"
	"fmt"

	"github.com/golang/snappy"
)

const (
	codecJSON   = "json"
	codecSnappy = "snappy"

	schemaVersion = 1
)

// Envelope prefixes used by stores that keep the codec inline.
const (
	prefixJSON   byte = 'j'
	prefixSnappy byte = 's'
)

var errUnknownCodec = errors.New("unknown_codec")

func encodePayload(value []byte, compress bool) ([]byte, string) {
	if !compress {
		return value, codecJSON
	}
	return snappy.Encode(nil, value), codecSnappy
}

func decodePayload(payload []byte, codec string) ([]byte, error) {
	switch codec {
	case codecJSON, "":
		return payload, nil
	case codecSnappy:
		out, err := snappy.Decode(nil, payload)
		if err != nil {
			return nil, fmt.Errorf("snappy decode: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("codec %q: %w", codec, errUnknownCodec)
	}
}

// pack prepends the one-byte codec marker.
func pack(value []byte, compress bool) []byte {
	payload, codec := encodePayload(value, compress)
	prefix := prefixJSON
	if codec == codecSnappy {
		prefix = prefixSnappy
	}
	out := make([]byte, 0, len(payload)+1)
	out = append(out, prefix)
	return append(out, payload...)
}

// unpack reverses pack. Records written without a marker are plain JSON.
func unpack(raw []byte) ([]byte, error) {
	if len(raw) == 0 {
		return raw, nil
	}
	switch raw[0] {
	case prefixJSON:
		return raw[1:], nil
	case prefixSnappy:
		return decodePayload(raw[1:], codecSnappy)
	default:
		return raw, nil
	}
}
