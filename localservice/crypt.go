package localservice

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/ed25519"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"strconv"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/pbkdf2"

	securerpc "github.com/rbaliyan/secure-rpc"
	"github.com/rbaliyan/secure-rpc/transport"
)

const (
	aesKeySize   = 32
	gcmNonceSize = 12

	defaultPBKDF2Iterations = 210_000
)

// Suboperation names reported in crypto faults. The client-side
// classifier dispatches on these exact strings.
const (
	subopEncryption     = "encryption"
	subopDecryption     = "decryption"
	subopKeyGeneration  = "key generation"
	subopKeyDerivation  = "key derivation"
	subopAuthentication = "authentication"
)

var errWrongKeySize = errors.New("key is not 32 bytes")

// sealAESGCM encrypts plaintext under key with the given additional
// data, producing nonce || ciphertext. The key identity travels in aad
// so ciphertext cannot be replayed under a different key name.
func sealAESGCM(key, plaintext, aad []byte) ([]byte, error) {
	aead, err := newGCM(key, subopEncryption)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcmNonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, &transport.CryptoFault{Subop: subopEncryption, Err: err}
	}
	return aead.Seal(nonce, nonce, plaintext, aad), nil
}

// openAESGCM reverses sealAESGCM.
func openAESGCM(key, data, aad []byte) ([]byte, error) {
	aead, err := newGCM(key, subopDecryption)
	if err != nil {
		return nil, err
	}
	if len(data) < gcmNonceSize {
		return nil, &transport.CryptoFault{
			Subop: subopDecryption,
			Err:   errors.New("ciphertext shorter than nonce"),
		}
	}
	plaintext, err := aead.Open(nil, data[:gcmNonceSize], data[gcmNonceSize:], aad)
	if err != nil {
		return nil, &transport.CryptoFault{Subop: subopDecryption, Err: err}
	}
	return plaintext, nil
}

func newGCM(key []byte, subop string) (cipher.AEAD, error) {
	if len(key) != aesKeySize {
		return nil, &transport.CryptoFault{Subop: subop, Err: errWrongKeySize}
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, &transport.CryptoFault{Subop: subop, Err: err}
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, &transport.CryptoFault{Subop: subop, Err: err}
	}
	return aead, nil
}

// hashSHA256 is the service digest.
func hashSHA256(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:]
}

// signHMAC authenticates data with HMAC-SHA256 under key.
func signHMAC(key, data []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(data)
	return mac.Sum(nil)
}

// verifyHMAC checks an HMAC-SHA256 signature in constant time.
func verifyHMAC(key, signature, data []byte) bool {
	return hmac.Equal(signature, signHMAC(key, data))
}

// signEd25519 signs data with a key whose material is an Ed25519 seed.
func signEd25519(seed, data []byte) ([]byte, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, &transport.CryptoFault{
			Subop: subopAuthentication,
			Err:   fmt.Errorf("ed25519 seed is %d bytes, want %d", len(seed), ed25519.SeedSize),
		}
	}
	return ed25519.Sign(ed25519.NewKeyFromSeed(seed), data), nil
}

// verifyEd25519 checks an Ed25519 signature made by signEd25519.
func verifyEd25519(seed, signature, data []byte) (bool, error) {
	if len(seed) != ed25519.SeedSize {
		return false, &transport.CryptoFault{
			Subop: subopAuthentication,
			Err:   fmt.Errorf("ed25519 seed is %d bytes, want %d", len(seed), ed25519.SeedSize),
		}
	}
	pub := ed25519.NewKeyFromSeed(seed).Public().(ed25519.PublicKey)
	return ed25519.Verify(pub, data, signature), nil
}

// deriveFromPassword stretches a password and salt into key material of
// the configured size. Iteration count comes from the config's
// iterations option, with an OWASP-grade default.
func deriveFromPassword(password, salt []byte, cfg securerpc.SecurityConfig) ([]byte, error) {
	iterations := defaultPBKDF2Iterations
	if v, ok := cfg.Option("iterations"); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, &transport.BadRequestError{Reason: "iterations option is not a positive integer"}
		}
		iterations = n
	}
	return pbkdf2.Key(password, salt, iterations, cfg.KeySizeBits/8, sha256.New), nil
}

// deriveFromKey expands stored key material and caller context info
// into new key material of the configured size.
func deriveFromKey(secret, info []byte, cfg securerpc.SecurityConfig) ([]byte, error) {
	out := make([]byte, cfg.KeySizeBits/8)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, info), out); err != nil {
		return nil, &transport.CryptoFault{Subop: subopKeyDerivation, Err: err}
	}
	return out, nil
}

// randomBytes returns n bytes from the system entropy source.
func randomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, &transport.CryptoFault{Subop: subopKeyGeneration, Err: err}
	}
	return b, nil
}
