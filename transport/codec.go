package transport

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
)

// Scalar and structured payload codecs shared by both sides of the
// boundary. Scalars are fixed-width binary; structured values are JSON.

// EncodeBool encodes a boolean payload.
func EncodeBool(v bool) []byte {
	if v {
		return []byte{1}
	}
	return []byte{0}
}

// DecodeBool decodes a boolean payload.
func DecodeBool(p []byte) (bool, error) {
	if len(p) != 1 || p[0] > 1 {
		return false, fmt.Errorf("transport: bad bool payload (%d bytes)", len(p))
	}
	return p[0] == 1, nil
}

// EncodeUint32 encodes an unsigned 32-bit payload, big endian.
func EncodeUint32(v uint32) []byte {
	return binary.BigEndian.AppendUint32(nil, v)
}

// DecodeUint32 decodes an unsigned 32-bit payload.
func DecodeUint32(p []byte) (uint32, error) {
	if len(p) != 4 {
		return 0, fmt.Errorf("transport: bad uint32 payload (%d bytes)", len(p))
	}
	return binary.BigEndian.Uint32(p), nil
}

// EncodeStringMap encodes a string map payload.
func EncodeStringMap(m map[string]string) ([]byte, error) {
	return json.Marshal(m)
}

// DecodeStringMap decodes a string map payload.
func DecodeStringMap(p []byte) (map[string]string, error) {
	var m map[string]string
	if err := json.Unmarshal(p, &m); err != nil {
		return nil, fmt.Errorf("transport: bad string map payload: %w", err)
	}
	return m, nil
}

// EncodeStrings encodes a string list payload.
func EncodeStrings(s []string) ([]byte, error) {
	return json.Marshal(s)
}

// DecodeStrings decodes a string list payload.
func DecodeStrings(p []byte) ([]string, error) {
	var s []string
	if err := json.Unmarshal(p, &s); err != nil {
		return nil, fmt.Errorf("transport: bad string list payload: %w", err)
	}
	return s, nil
}
