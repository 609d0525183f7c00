package dto

import (
	"context"

	securerpc "github.com/rbaliyan/secure-rpc"
)

// The DTO tier contracts. Operation for operation these mirror the
// native tiers, with every answer wrapped in an OperationResult and all
// configuration expressed as SecurityConfig values.

// BasicService is the DTO mirror of the Basic tier.
type BasicService interface {
	// ProtocolID returns the DTO-suffixed contract identifier.
	ProtocolID() string

	// Ping probes the service for liveness.
	Ping(ctx context.Context) OperationResult[bool]

	// SynchroniseKeys pushes key material to the remote side.
	SynchroniseKeys(ctx context.Context, syncData securerpc.SecureBytes) OperationResult[Void]
}

// StandardService is the DTO mirror of the Standard tier.
type StandardService interface {
	BasicService

	GenerateRandomData(ctx context.Context, length int) OperationResult[securerpc.SecureBytes]
	EncryptWithKey(ctx context.Context, data securerpc.SecureBytes, keyID string) OperationResult[securerpc.SecureBytes]
	DecryptWithKey(ctx context.Context, data securerpc.SecureBytes, keyID string) OperationResult[securerpc.SecureBytes]
	Hash(ctx context.Context, data securerpc.SecureBytes) OperationResult[securerpc.SecureBytes]
	Sign(ctx context.Context, data securerpc.SecureBytes, keyID string) OperationResult[securerpc.SecureBytes]
	Verify(ctx context.Context, signature, data securerpc.SecureBytes, keyID string) OperationResult[bool]
	Status(ctx context.Context) OperationResult[map[string]string]
}

// CompleteService is the DTO mirror of the Complete tier, extended with
// the key-exchange composition built on the key lifecycle operations.
type CompleteService interface {
	StandardService

	GenerateKey(ctx context.Context, keyType securerpc.KeyType, bits int) OperationResult[string]
	ImportKey(ctx context.Context, keyData securerpc.SecureBytes, keyID string) OperationResult[string]
	ExportKey(ctx context.Context, keyID string) OperationResult[securerpc.SecureBytes]
	DeleteKey(ctx context.Context, keyID string) OperationResult[Void]
	ListKeyIdentifiers(ctx context.Context) OperationResult[[]string]
	GetKeyMetadata(ctx context.Context, keyID string) OperationResult[securerpc.KeyMetadata]

	DeriveKeyFromPassword(ctx context.Context, password, salt securerpc.SecureBytes, cfg securerpc.SecurityConfig) OperationResult[securerpc.SecureBytes]
	DeriveKeyFromKey(ctx context.Context, keyID string, info securerpc.SecureBytes, cfg securerpc.SecurityConfig) OperationResult[securerpc.SecureBytes]

	EncryptAuthenticated(ctx context.Context, data, associated securerpc.SecureBytes, keyID string) OperationResult[securerpc.SecureBytes]
	DecryptAuthenticated(ctx context.Context, data, associated securerpc.SecureBytes, keyID string) OperationResult[securerpc.SecureBytes]
	SignWithConfig(ctx context.Context, data securerpc.SecureBytes, cfg securerpc.SecurityConfig) OperationResult[securerpc.SecureBytes]
	VerifyWithConfig(ctx context.Context, signature, data securerpc.SecureBytes, cfg securerpc.SecurityConfig) OperationResult[bool]

	BackupKeys(ctx context.Context, password securerpc.SecureBytes) OperationResult[securerpc.SecureBytes]
	RestoreKeys(ctx context.Context, backup, password securerpc.SecureBytes) OperationResult[Void]

	ResetService(ctx context.Context) OperationResult[Void]
	GetDiagnosticInfo(ctx context.Context) OperationResult[securerpc.ServiceStatus]
	GetConfiguration(ctx context.Context) OperationResult[securerpc.SecurityConfig]
	SetConfiguration(ctx context.Context, cfg securerpc.SecurityConfig) OperationResult[Void]
	GetMetrics(ctx context.Context) OperationResult[map[string]string]

	// GenerateKeyExchangeData produces fresh public and private values
	// for a key exchange under cfg.
	GenerateKeyExchangeData(ctx context.Context, cfg securerpc.SecurityConfig) OperationResult[securerpc.KeyExchangeParams]

	// CalculateSharedSecret derives the shared value from one side's
	// private value and the peer's public value.
	CalculateSharedSecret(ctx context.Context, privateKey, peerPublicKey securerpc.SecureBytes, cfg securerpc.SecurityConfig) OperationResult[securerpc.SecureBytes]
}
