package securerpc

import (
	"crypto/subtle"
	"fmt"

	"github.com/awnumar/memguard"
)

// SecureBytes is an immutable container for sensitive byte material:
// key material, plaintext, ciphertext, signatures, hashes. The bytes are
// sealed in an encrypted memguard enclave at construction time and only
// decrypted transiently when Bytes is called. Once constructed a value is
// never mutated; every transform produces a new value.
//
// The zero value is valid and represents an empty payload.
type SecureBytes struct {
	enclave *memguard.Enclave
	size    int
}

// NewSecureBytes seals a copy of b. The caller's slice is left intact and
// may be wiped independently. Empty or nil input yields the empty value.
func NewSecureBytes(b []byte) SecureBytes {
	if len(b) == 0 {
		return SecureBytes{}
	}
	// memguard wipes the buffer it seals, so seal a private copy.
	sealed := make([]byte, len(b))
	copy(sealed, b)
	return SecureBytes{
		enclave: memguard.NewEnclave(sealed),
		size:    len(b),
	}
}

// Bytes opens the enclave and returns a fresh copy of the contents.
// Callers that are done with the copy should wipe it with Wipe.
func (s SecureBytes) Bytes() ([]byte, error) {
	if s.enclave == nil {
		return []byte{}, nil
	}
	buf, err := s.enclave.Open()
	if err != nil {
		return nil, InternalError("secure buffer open failed").WithCause(err)
	}
	defer buf.Destroy()

	out := make([]byte, buf.Size())
	copy(out, buf.Bytes())
	return out, nil
}

// Len returns the payload length in bytes without opening the enclave.
func (s SecureBytes) Len() int {
	return s.size
}

// IsEmpty reports whether the value carries no bytes.
func (s SecureBytes) IsEmpty() bool {
	return s.size == 0
}

// Equal compares two values in constant time with respect to content.
func (s SecureBytes) Equal(other SecureBytes) bool {
	if s.size != other.size {
		return false
	}
	if s.size == 0 {
		return true
	}
	a, err := s.Bytes()
	if err != nil {
		return false
	}
	defer Wipe(a)
	b, err := other.Bytes()
	if err != nil {
		return false
	}
	defer Wipe(b)
	return subtle.ConstantTimeCompare(a, b) == 1
}

// String never reveals the contents.
func (s SecureBytes) String() string {
	return fmt.Sprintf("SecureBytes(%d bytes)", s.size)
}

// Wipe zeroes a byte slice obtained from Bytes.
func Wipe(b []byte) {
	memguard.WipeBytes(b)
}
