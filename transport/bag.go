package transport

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sort"
)

// Bag is the single structured argument used by calls whose logical
// parameter count exceeds MaxArgs. Encoding is deterministic: entries
// are sorted by key, each written as a 1-byte key length, the key, a
// 4-byte big-endian value length, and the value.
type Bag map[string][]byte

// ErrBadBag is returned when a serialized bag is malformed.
var ErrBadBag = errors.New("transport: malformed argument bag")

// Encode serializes the bag. Keys longer than 255 bytes are rejected.
func (b Bag) Encode() ([]byte, error) {
	keys := make([]string, 0, len(b))
	size := 0
	for k, v := range b {
		if len(k) == 0 || len(k) > 255 {
			return nil, fmt.Errorf("%w: key length %d", ErrBadBag, len(k))
		}
		keys = append(keys, k)
		size += 1 + len(k) + 4 + len(v)
	}
	sort.Strings(keys)

	out := make([]byte, 0, size)
	for _, k := range keys {
		v := b[k]
		out = append(out, byte(len(k)))
		out = append(out, k...)
		out = binary.BigEndian.AppendUint32(out, uint32(len(v)))
		out = append(out, v...)
	}
	return out, nil
}

// DecodeBag parses a serialized bag. Values are defensive copies, safe
// from later mutation of the input slice. Malformed input yields
// ErrBadBag, never a panic.
func DecodeBag(data []byte) (Bag, error) {
	bag := make(Bag)
	off := 0
	for off < len(data) {
		keyLen := int(data[off])
		off++
		if keyLen == 0 || off+keyLen+4 > len(data) {
			return nil, fmt.Errorf("%w: truncated key at offset %d", ErrBadBag, off)
		}
		key := string(data[off : off+keyLen])
		off += keyLen

		valLen := int(binary.BigEndian.Uint32(data[off : off+4]))
		off += 4
		if off+valLen > len(data) {
			return nil, fmt.Errorf("%w: truncated value for %q", ErrBadBag, key)
		}
		if _, dup := bag[key]; dup {
			return nil, fmt.Errorf("%w: duplicate key %q", ErrBadBag, key)
		}
		bag[key] = append([]byte(nil), data[off:off+valLen]...)
		off += valLen
	}
	return bag, nil
}
