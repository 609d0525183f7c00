// Package securerpc is the typed facade over an isolated security
// service. Application code calls cryptographic, key-management, and
// secure-storage operations through one of three capability tiers
// (Basic, Standard, Complete) without touching the inter-process
// transport underneath.
//
// The package defines the tier contracts, the SecureBytes container
// every sensitive payload crosses the boundary in, the closed error
// taxonomy all failures collapse into, and the reply interpretation
// that bridges raw transport answers into typed results. Adapters that
// bind a tier to a live connection live in the client package; a
// transport-independent mirror of the tiers lives in the dto package.
//
// Usage:
//
//	conn := transport.NewPipe(localservice.New())
//	svc := client.NewStandardClient(conn)
//
//	ok, err := svc.Ping(ctx)
//	sealed, err := svc.EncryptWithKey(ctx, securerpc.NewSecureBytes(data), "key-1")
package securerpc

import "context"

// Protocol identifiers, one per capability tier. Negotiation consumers
// compare these strings, not structural shape.
const (
	ProtocolIDBasic    = "com.rbaliyan.secure-rpc.basic"
	ProtocolIDStandard = "com.rbaliyan.secure-rpc.standard"
	ProtocolIDComplete = "com.rbaliyan.secure-rpc.complete"
	ProtocolIDDTO      = "com.rbaliyan.secure-rpc.dto"
)

// BasicService is the minimal capability tier: liveness and key
// synchronisation. Implementations are stateless contracts; all state
// lives behind the service boundary.
type BasicService interface {
	// ProtocolID returns the stable identifier of the contract version
	// this implementation speaks.
	ProtocolID() string

	// Ping probes the service for liveness.
	Ping(ctx context.Context) (bool, error)

	// SynchroniseKeys pushes key material to the remote side. Empty
	// input is a legitimate no-op unless the remote side rejects it.
	SynchroniseKeys(ctx context.Context, syncData SecureBytes) error
}

// StandardService extends Basic with random data, the core
// cryptographic operations, and status reporting.
type StandardService interface {
	BasicService

	// GenerateRandomData returns length cryptographically random bytes.
	GenerateRandomData(ctx context.Context, length int) (SecureBytes, error)

	// EncryptWithKey encrypts data under the named key. An empty keyID
	// selects the service's default key.
	EncryptWithKey(ctx context.Context, data SecureBytes, keyID string) (SecureBytes, error)

	// DecryptWithKey decrypts data under the named key. An empty keyID
	// selects the service's default key.
	DecryptWithKey(ctx context.Context, data SecureBytes, keyID string) (SecureBytes, error)

	// Hash computes the service's digest of data.
	Hash(ctx context.Context, data SecureBytes) (SecureBytes, error)

	// Sign produces a signature of data bound to the named key.
	Sign(ctx context.Context, data SecureBytes, keyID string) (SecureBytes, error)

	// Verify checks a signature of data against the named key. A failed
	// check is (false, nil); only operational problems return an error.
	Verify(ctx context.Context, signature, data SecureBytes, keyID string) (bool, error)

	// Status returns the service's diagnostic key/value snapshot.
	Status(ctx context.Context) (map[string]string, error)
}

// Encrypt encrypts data under the service's default key. It is a fixed
// convenience over EncryptWithKey, so the two cannot drift apart.
func Encrypt(ctx context.Context, s StandardService, data SecureBytes) (SecureBytes, error) {
	return s.EncryptWithKey(ctx, data, "")
}

// Decrypt decrypts data under the service's default key. It is a fixed
// convenience over DecryptWithKey, so the two cannot drift apart.
func Decrypt(ctx context.Context, s StandardService, data SecureBytes) (SecureBytes, error) {
	return s.DecryptWithKey(ctx, data, "")
}

// CompleteService extends Standard with key lifecycle, derivation,
// authenticated encryption, configured signatures, backup/restore, and
// service lifecycle. Concrete implementations that do not provide an
// operation must return a not-implemented error rather than no-op, so
// callers can feature-detect by error code.
type CompleteService interface {
	StandardService

	// GenerateKey creates a key of the given type and bit size inside
	// the service and returns its identifier.
	GenerateKey(ctx context.Context, keyType KeyType, bits int) (string, error)

	// ImportKey stores external key material under keyID. An empty
	// keyID asks the service to assign one. Returns the effective ID.
	ImportKey(ctx context.Context, keyData SecureBytes, keyID string) (string, error)

	// ExportKey returns the raw material of the named key.
	ExportKey(ctx context.Context, keyID string) (SecureBytes, error)

	// DeleteKey removes the named key.
	DeleteKey(ctx context.Context, keyID string) error

	// ListKeyIdentifiers returns the identifiers of all stored keys.
	ListKeyIdentifiers(ctx context.Context) ([]string, error)

	// GetKeyMetadata describes the named key without exposing material.
	GetKeyMetadata(ctx context.Context, keyID string) (KeyMetadata, error)

	// DeriveKeyFromPassword derives key material from a password and
	// salt under the given configuration.
	DeriveKeyFromPassword(ctx context.Context, password, salt SecureBytes, cfg SecurityConfig) (SecureBytes, error)

	// DeriveKeyFromKey derives new key material from a stored key and
	// caller-supplied context info under the given configuration.
	DeriveKeyFromKey(ctx context.Context, keyID string, info SecureBytes, cfg SecurityConfig) (SecureBytes, error)

	// EncryptAuthenticated encrypts data bound to associated data.
	EncryptAuthenticated(ctx context.Context, data, associated SecureBytes, keyID string) (SecureBytes, error)

	// DecryptAuthenticated decrypts data bound to associated data.
	DecryptAuthenticated(ctx context.Context, data, associated SecureBytes, keyID string) (SecureBytes, error)

	// SignWithConfig produces a signature under an explicit algorithm
	// configuration.
	SignWithConfig(ctx context.Context, data SecureBytes, cfg SecurityConfig) (SecureBytes, error)

	// VerifyWithConfig checks a signature under an explicit algorithm
	// configuration.
	VerifyWithConfig(ctx context.Context, signature, data SecureBytes, cfg SecurityConfig) (bool, error)

	// BackupKeys exports all stored keys as one blob sealed under the
	// given password.
	BackupKeys(ctx context.Context, password SecureBytes) (SecureBytes, error)

	// RestoreKeys restores keys from a backup blob sealed under the
	// given password.
	RestoreKeys(ctx context.Context, backup, password SecureBytes) error

	// ResetService wipes all service state.
	ResetService(ctx context.Context) error

	// GetDiagnosticInfo returns a reachability and version snapshot.
	GetDiagnosticInfo(ctx context.Context) (ServiceStatus, error)

	// GetConfiguration returns the service's active configuration.
	GetConfiguration(ctx context.Context) (SecurityConfig, error)

	// SetConfiguration replaces the service's active configuration.
	SetConfiguration(ctx context.Context, cfg SecurityConfig) error

	// GetMetrics returns the service's operation counters.
	GetMetrics(ctx context.Context) (map[string]string, error)
}
