package dto

import (
	"context"

	"github.com/rs/zerolog"

	securerpc "github.com/rbaliyan/secure-rpc"
)

// Adapter option configuration.
type Option func(*options)

type options struct {
	logger zerolog.Logger
}

// WithLogger attaches a logger to the adapter. The default discards
// everything.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// BasicAdapter re-expresses a native Basic tier service through the
// OperationResult envelope.
type BasicAdapter struct {
	basic securerpc.BasicService
	log   zerolog.Logger
}

// Compile-time interface check.
var _ BasicService = (*BasicAdapter)(nil)

// NewBasicAdapter wraps a native Basic tier service.
func NewBasicAdapter(svc securerpc.BasicService, opts ...Option) *BasicAdapter {
	o := options{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &BasicAdapter{basic: svc, log: o.logger}
}

// ProtocolID identifies the DTO contract.
func (a *BasicAdapter) ProtocolID() string {
	return securerpc.ProtocolIDDTO
}

// Ping probes the wrapped service for liveness.
func (a *BasicAdapter) Ping(ctx context.Context) OperationResult[bool] {
	ok, err := a.basic.Ping(ctx)
	if err != nil {
		return FromError[bool](err)
	}
	return Success(ok)
}

// SynchroniseKeys pushes key material through the wrapped service.
func (a *BasicAdapter) SynchroniseKeys(ctx context.Context, syncData securerpc.SecureBytes) OperationResult[Void] {
	return voidResult(a.basic.SynchroniseKeys(ctx, syncData))
}

// StandardAdapter re-expresses a native Standard tier service through
// the OperationResult envelope.
type StandardAdapter struct {
	*BasicAdapter
	std securerpc.StandardService
}

// Compile-time interface check.
var _ StandardService = (*StandardAdapter)(nil)

// NewStandardAdapter wraps a native Standard tier service.
func NewStandardAdapter(svc securerpc.StandardService, opts ...Option) *StandardAdapter {
	return &StandardAdapter{
		BasicAdapter: NewBasicAdapter(svc, opts...),
		std:          svc,
	}
}

func (a *StandardAdapter) GenerateRandomData(ctx context.Context, length int) OperationResult[securerpc.SecureBytes] {
	return secureResult(a.std.GenerateRandomData(ctx, length))
}

func (a *StandardAdapter) EncryptWithKey(ctx context.Context, data securerpc.SecureBytes, keyID string) OperationResult[securerpc.SecureBytes] {
	return secureResult(a.std.EncryptWithKey(ctx, data, keyID))
}

func (a *StandardAdapter) DecryptWithKey(ctx context.Context, data securerpc.SecureBytes, keyID string) OperationResult[securerpc.SecureBytes] {
	return secureResult(a.std.DecryptWithKey(ctx, data, keyID))
}

func (a *StandardAdapter) Hash(ctx context.Context, data securerpc.SecureBytes) OperationResult[securerpc.SecureBytes] {
	return secureResult(a.std.Hash(ctx, data))
}

func (a *StandardAdapter) Sign(ctx context.Context, data securerpc.SecureBytes, keyID string) OperationResult[securerpc.SecureBytes] {
	return secureResult(a.std.Sign(ctx, data, keyID))
}

func (a *StandardAdapter) Verify(ctx context.Context, signature, data securerpc.SecureBytes, keyID string) OperationResult[bool] {
	ok, err := a.std.Verify(ctx, signature, data, keyID)
	if err != nil {
		return FromError[bool](err)
	}
	return Success(ok)
}

func (a *StandardAdapter) Status(ctx context.Context) OperationResult[map[string]string] {
	status, err := a.std.Status(ctx)
	if err != nil {
		return FromError[map[string]string](err)
	}
	return Success(status)
}

// Adapter re-expresses a native Complete tier service through the
// OperationResult envelope, including the key-exchange composition.
type Adapter struct {
	*StandardAdapter
	svc securerpc.CompleteService
}

// Compile-time interface check.
var _ CompleteService = (*Adapter)(nil)

// NewAdapter wraps a native Complete tier service.
func NewAdapter(svc securerpc.CompleteService, opts ...Option) *Adapter {
	return &Adapter{
		StandardAdapter: NewStandardAdapter(svc, opts...),
		svc:             svc,
	}
}

func (a *Adapter) GenerateKey(ctx context.Context, keyType securerpc.KeyType, bits int) OperationResult[string] {
	id, err := a.svc.GenerateKey(ctx, keyType, bits)
	if err != nil {
		return FromError[string](err)
	}
	return Success(id)
}

func (a *Adapter) ImportKey(ctx context.Context, keyData securerpc.SecureBytes, keyID string) OperationResult[string] {
	id, err := a.svc.ImportKey(ctx, keyData, keyID)
	if err != nil {
		return FromError[string](err)
	}
	return Success(id)
}

func (a *Adapter) ExportKey(ctx context.Context, keyID string) OperationResult[securerpc.SecureBytes] {
	return secureResult(a.svc.ExportKey(ctx, keyID))
}

func (a *Adapter) DeleteKey(ctx context.Context, keyID string) OperationResult[Void] {
	return voidResult(a.svc.DeleteKey(ctx, keyID))
}

func (a *Adapter) ListKeyIdentifiers(ctx context.Context) OperationResult[[]string] {
	ids, err := a.svc.ListKeyIdentifiers(ctx)
	if err != nil {
		return FromError[[]string](err)
	}
	return Success(ids)
}

func (a *Adapter) GetKeyMetadata(ctx context.Context, keyID string) OperationResult[securerpc.KeyMetadata] {
	meta, err := a.svc.GetKeyMetadata(ctx, keyID)
	if err != nil {
		return FromError[securerpc.KeyMetadata](err)
	}
	return Success(meta)
}

func (a *Adapter) DeriveKeyFromPassword(ctx context.Context, password, salt securerpc.SecureBytes, cfg securerpc.SecurityConfig) OperationResult[securerpc.SecureBytes] {
	return secureResult(a.svc.DeriveKeyFromPassword(ctx, password, salt, cfg))
}

func (a *Adapter) DeriveKeyFromKey(ctx context.Context, keyID string, info securerpc.SecureBytes, cfg securerpc.SecurityConfig) OperationResult[securerpc.SecureBytes] {
	return secureResult(a.svc.DeriveKeyFromKey(ctx, keyID, info, cfg))
}

func (a *Adapter) EncryptAuthenticated(ctx context.Context, data, associated securerpc.SecureBytes, keyID string) OperationResult[securerpc.SecureBytes] {
	return secureResult(a.svc.EncryptAuthenticated(ctx, data, associated, keyID))
}

func (a *Adapter) DecryptAuthenticated(ctx context.Context, data, associated securerpc.SecureBytes, keyID string) OperationResult[securerpc.SecureBytes] {
	return secureResult(a.svc.DecryptAuthenticated(ctx, data, associated, keyID))
}

func (a *Adapter) SignWithConfig(ctx context.Context, data securerpc.SecureBytes, cfg securerpc.SecurityConfig) OperationResult[securerpc.SecureBytes] {
	return secureResult(a.svc.SignWithConfig(ctx, data, cfg))
}

func (a *Adapter) VerifyWithConfig(ctx context.Context, signature, data securerpc.SecureBytes, cfg securerpc.SecurityConfig) OperationResult[bool] {
	ok, err := a.svc.VerifyWithConfig(ctx, signature, data, cfg)
	if err != nil {
		return FromError[bool](err)
	}
	return Success(ok)
}

func (a *Adapter) BackupKeys(ctx context.Context, password securerpc.SecureBytes) OperationResult[securerpc.SecureBytes] {
	return secureResult(a.svc.BackupKeys(ctx, password))
}

func (a *Adapter) RestoreKeys(ctx context.Context, backup, password securerpc.SecureBytes) OperationResult[Void] {
	return voidResult(a.svc.RestoreKeys(ctx, backup, password))
}

func (a *Adapter) ResetService(ctx context.Context) OperationResult[Void] {
	return voidResult(a.svc.ResetService(ctx))
}

func (a *Adapter) GetDiagnosticInfo(ctx context.Context) OperationResult[securerpc.ServiceStatus] {
	status, err := a.svc.GetDiagnosticInfo(ctx)
	if err != nil {
		return FromError[securerpc.ServiceStatus](err)
	}
	return Success(status)
}

func (a *Adapter) GetConfiguration(ctx context.Context) OperationResult[securerpc.SecurityConfig] {
	cfg, err := a.svc.GetConfiguration(ctx)
	if err != nil {
		return FromError[securerpc.SecurityConfig](err)
	}
	return Success(cfg)
}

func (a *Adapter) SetConfiguration(ctx context.Context, cfg securerpc.SecurityConfig) OperationResult[Void] {
	return voidResult(a.svc.SetConfiguration(ctx, cfg))
}

func (a *Adapter) GetMetrics(ctx context.Context) OperationResult[map[string]string] {
	metrics, err := a.svc.GetMetrics(ctx)
	if err != nil {
		return FromError[map[string]string](err)
	}
	return Success(metrics)
}

func secureResult(v securerpc.SecureBytes, err error) OperationResult[securerpc.SecureBytes] {
	if err != nil {
		return FromError[securerpc.SecureBytes](err)
	}
	return Success(v)
}

func voidResult(err error) OperationResult[Void] {
	if err != nil {
		return FromError[Void](err)
	}
	return Success(Void{})
}
