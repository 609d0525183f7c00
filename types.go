package securerpc

import (
	"fmt"
	"time"
)

// KeyType names the kind of key a lifecycle operation works with.
type KeyType string

const (
	KeyTypeSymmetric KeyType = "symmetric"
	KeyTypePublic    KeyType = "public"
	KeyTypePrivate   KeyType = "private"
)

// ServiceStatus is a point-in-time snapshot of the remote service:
// whether it answered, what version it reported, and its free-form
// diagnostic pairs. Never persisted; immutable once returned.
type ServiceStatus struct {
	Reachable bool              `json:"reachable"`
	Version   string            `json:"version"`
	Info      map[string]string `json:"info,omitempty"`
}

// KeyMetadata describes a stored key without exposing its material.
type KeyMetadata struct {
	ID        string            `json:"id"`
	Type      KeyType           `json:"type"`
	Bits      int               `json:"bits"`
	Algorithm string            `json:"algorithm,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
	Options   map[string]string `json:"options,omitempty"`
}

// SecurityConfig names an algorithm, a key size in bits, and a string
// option bag consumed by derivation, signing, and backup operations.
// Values are built per call and treated as immutable; WithOption
// returns a modified copy.
type SecurityConfig struct {
	Algorithm   string            `json:"algorithm" toml:"algorithm"`
	KeySizeBits int               `json:"keySizeBits" toml:"key_size_bits"`
	Options     map[string]string `json:"options,omitempty" toml:"options"`
}

// NewSecurityConfig builds a configuration with no options set.
func NewSecurityConfig(algorithm string, keySizeBits int) SecurityConfig {
	return SecurityConfig{Algorithm: algorithm, KeySizeBits: keySizeBits}
}

// Option returns the named option and whether it was set.
func (c SecurityConfig) Option(key string) (string, bool) {
	v, ok := c.Options[key]
	return v, ok
}

// WithOption returns a copy with the named option set. The receiver is
// not modified.
func (c SecurityConfig) WithOption(key, value string) SecurityConfig {
	opts := make(map[string]string, len(c.Options)+1)
	for k, v := range c.Options {
		opts[k] = v
	}
	opts[key] = value
	c.Options = opts
	return c
}

// Validate rejects configurations no operation could act on.
func (c SecurityConfig) Validate() error {
	if c.Algorithm == "" {
		return InvalidInput("algorithm must not be empty")
	}
	if c.KeySizeBits <= 0 || c.KeySizeBits%8 != 0 {
		return InvalidInput(fmt.Sprintf("key size %d bits is not a positive multiple of 8", c.KeySizeBits))
	}
	return nil
}

// KeyExchangeParams pairs freshly generated public and private values
// with the negotiated algorithm. Produced by a generation operation,
// consumed by a shared-secret calculation, never persisted.
type KeyExchangeParams struct {
	PublicKey  SecureBytes
	PrivateKey SecureBytes
	Algorithm  string
	Params     map[string]string
}
