package client

import (
	"context"
	"encoding/json"

	securerpc "github.com/rbaliyan/secure-rpc"
	"github.com/rbaliyan/secure-rpc/transport"
)

// CompleteClient implements the Complete tier by composing a
// StandardClient. Operations whose logical parameter count exceeds the
// transport's positional arity pack their parameters into a single
// argument bag.
type CompleteClient struct {
	*StandardClient
}

// Compile-time interface check.
var _ securerpc.CompleteService = (*CompleteClient)(nil)

// NewCompleteClient binds a Complete tier adapter to conn.
func NewCompleteClient(conn transport.Conn, opts ...Option) *CompleteClient {
	return &CompleteClient{StandardClient: NewStandardClient(conn, opts...)}
}

// ProtocolID identifies the Complete contract.
func (c *CompleteClient) ProtocolID() string {
	return securerpc.ProtocolIDComplete
}

// GenerateKey creates a key inside the service and returns its identifier.
func (c *CompleteClient) GenerateKey(ctx context.Context, keyType securerpc.KeyType, bits int) (string, error) {
	if keyType == "" {
		return "", securerpc.InvalidInput("key type must not be empty")
	}
	if bits <= 0 || bits%8 != 0 {
		return "", securerpc.InvalidInput("key size must be a positive multiple of 8 bits")
	}
	r, err := c.call(ctx, transport.OpGenerateKey, []byte(keyType), transport.EncodeUint32(uint32(bits)))
	if err != nil {
		return "", err
	}
	return securerpc.DecodeReply(r, securerpc.StringPayload)
}

// ImportKey stores external key material and returns its effective
// identifier. An empty keyID asks the service to assign one.
func (c *CompleteClient) ImportKey(ctx context.Context, keyData securerpc.SecureBytes, keyID string) (string, error) {
	if keyData.IsEmpty() {
		return "", securerpc.InvalidData("Cannot import empty key material")
	}
	raw, err := keyData.Bytes()
	if err != nil {
		return "", securerpc.Classify(err)
	}
	defer securerpc.Wipe(raw)

	r, err := c.call(ctx, transport.OpImportKey, raw, []byte(keyID))
	if err != nil {
		return "", err
	}
	return securerpc.DecodeReply(r, securerpc.StringPayload)
}

// ExportKey returns the raw material of the named key.
func (c *CompleteClient) ExportKey(ctx context.Context, keyID string) (securerpc.SecureBytes, error) {
	if keyID == "" {
		return securerpc.SecureBytes{}, securerpc.InvalidInput("key identifier must not be empty")
	}
	r, err := c.call(ctx, transport.OpExportKey, []byte(keyID))
	if err != nil {
		return securerpc.SecureBytes{}, err
	}
	return securerpc.DecodeReply(r, securerpc.SecurePayload)
}

// DeleteKey removes the named key.
func (c *CompleteClient) DeleteKey(ctx context.Context, keyID string) error {
	if keyID == "" {
		return securerpc.InvalidInput("key identifier must not be empty")
	}
	r, err := c.call(ctx, transport.OpDeleteKey, []byte(keyID))
	if err != nil {
		return err
	}
	return securerpc.DecodeVoid(r)
}

// ListKeyIdentifiers returns the identifiers of all stored keys.
func (c *CompleteClient) ListKeyIdentifiers(ctx context.Context) ([]string, error) {
	r, err := c.call(ctx, transport.OpListKeyIdentifiers)
	if err != nil {
		return nil, err
	}
	return securerpc.DecodeReply(r, securerpc.StringsPayload)
}

// GetKeyMetadata describes the named key without exposing material.
func (c *CompleteClient) GetKeyMetadata(ctx context.Context, keyID string) (securerpc.KeyMetadata, error) {
	if keyID == "" {
		return securerpc.KeyMetadata{}, securerpc.InvalidInput("key identifier must not be empty")
	}
	r, err := c.call(ctx, transport.OpGetKeyMetadata, []byte(keyID))
	if err != nil {
		return securerpc.KeyMetadata{}, err
	}
	return securerpc.DecodeReply(r, securerpc.JSONPayload[securerpc.KeyMetadata])
}

// DeriveKeyFromPassword derives key material from a password and salt.
// Four logical parameters, so the call travels as one argument bag.
func (c *CompleteClient) DeriveKeyFromPassword(ctx context.Context, password, salt securerpc.SecureBytes, cfg securerpc.SecurityConfig) (securerpc.SecureBytes, error) {
	if password.IsEmpty() {
		return securerpc.SecureBytes{}, securerpc.InvalidData("Cannot derive from empty password")
	}
	if err := cfg.Validate(); err != nil {
		return securerpc.SecureBytes{}, securerpc.Classify(err)
	}
	pw, err := password.Bytes()
	if err != nil {
		return securerpc.SecureBytes{}, securerpc.Classify(err)
	}
	defer securerpc.Wipe(pw)
	saltRaw, err := salt.Bytes()
	if err != nil {
		return securerpc.SecureBytes{}, securerpc.Classify(err)
	}
	defer securerpc.Wipe(saltRaw)

	return c.bagCall(ctx, transport.OpDeriveKeyFromPassword, transport.Bag{
		"password": pw,
		"salt":     saltRaw,
	}, cfg)
}

// DeriveKeyFromKey derives new key material from a stored key and
// caller-supplied context info.
func (c *CompleteClient) DeriveKeyFromKey(ctx context.Context, keyID string, info securerpc.SecureBytes, cfg securerpc.SecurityConfig) (securerpc.SecureBytes, error) {
	if keyID == "" {
		return securerpc.SecureBytes{}, securerpc.InvalidInput("key identifier must not be empty")
	}
	if err := cfg.Validate(); err != nil {
		return securerpc.SecureBytes{}, securerpc.Classify(err)
	}
	infoRaw, err := info.Bytes()
	if err != nil {
		return securerpc.SecureBytes{}, securerpc.Classify(err)
	}
	defer securerpc.Wipe(infoRaw)

	return c.bagCall(ctx, transport.OpDeriveKeyFromKey, transport.Bag{
		"keyId": []byte(keyID),
		"info":  infoRaw,
	}, cfg)
}

// EncryptAuthenticated encrypts data bound to associated data.
func (c *CompleteClient) EncryptAuthenticated(ctx context.Context, data, associated securerpc.SecureBytes, keyID string) (securerpc.SecureBytes, error) {
	if data.IsEmpty() {
		return securerpc.SecureBytes{}, securerpc.InvalidData("Cannot encrypt empty data")
	}
	return c.aeadCall(ctx, transport.OpEncryptAuthenticated, data, associated, keyID)
}

// DecryptAuthenticated decrypts data bound to associated data.
func (c *CompleteClient) DecryptAuthenticated(ctx context.Context, data, associated securerpc.SecureBytes, keyID string) (securerpc.SecureBytes, error) {
	if data.IsEmpty() {
		return securerpc.SecureBytes{}, securerpc.InvalidData("Cannot decrypt empty data")
	}
	return c.aeadCall(ctx, transport.OpDecryptAuthenticated, data, associated, keyID)
}

// SignWithConfig produces a signature under an explicit algorithm
// configuration. The signing key is named by the config's keyId option.
func (c *CompleteClient) SignWithConfig(ctx context.Context, data securerpc.SecureBytes, cfg securerpc.SecurityConfig) (securerpc.SecureBytes, error) {
	if data.IsEmpty() {
		return securerpc.SecureBytes{}, securerpc.InvalidData("Cannot sign empty data")
	}
	if err := cfg.Validate(); err != nil {
		return securerpc.SecureBytes{}, securerpc.Classify(err)
	}
	cfgRaw, err := json.Marshal(cfg)
	if err != nil {
		return securerpc.SecureBytes{}, securerpc.InternalError("config encoding failed").WithCause(err)
	}
	return c.secureCall(ctx, transport.OpSignWithConfig, data, cfgRaw)
}

// VerifyWithConfig checks a signature under an explicit algorithm
// configuration.
func (c *CompleteClient) VerifyWithConfig(ctx context.Context, signature, data securerpc.SecureBytes, cfg securerpc.SecurityConfig) (bool, error) {
	if signature.IsEmpty() || data.IsEmpty() {
		return false, securerpc.InvalidData("Cannot verify empty data")
	}
	if err := cfg.Validate(); err != nil {
		return false, securerpc.Classify(err)
	}
	cfgRaw, err := json.Marshal(cfg)
	if err != nil {
		return false, securerpc.InternalError("config encoding failed").WithCause(err)
	}
	sig, err := signature.Bytes()
	if err != nil {
		return false, securerpc.Classify(err)
	}
	defer securerpc.Wipe(sig)
	raw, err := data.Bytes()
	if err != nil {
		return false, securerpc.Classify(err)
	}
	defer securerpc.Wipe(raw)

	r, err := c.call(ctx, transport.OpVerifyWithConfig, sig, raw, cfgRaw)
	if err != nil {
		return false, err
	}
	return securerpc.DecodeReply(r, securerpc.BoolPayload)
}

// BackupKeys exports all stored keys as one blob sealed under password.
func (c *CompleteClient) BackupKeys(ctx context.Context, password securerpc.SecureBytes) (securerpc.SecureBytes, error) {
	if password.IsEmpty() {
		return securerpc.SecureBytes{}, securerpc.InvalidInput("backup password must not be empty")
	}
	return c.secureCall(ctx, transport.OpBackupKeys, password)
}

// RestoreKeys restores keys from a backup blob sealed under password.
func (c *CompleteClient) RestoreKeys(ctx context.Context, backup, password securerpc.SecureBytes) error {
	if backup.IsEmpty() {
		return securerpc.InvalidData("Cannot restore from empty backup")
	}
	if password.IsEmpty() {
		return securerpc.InvalidInput("backup password must not be empty")
	}
	blob, err := backup.Bytes()
	if err != nil {
		return securerpc.Classify(err)
	}
	defer securerpc.Wipe(blob)
	pw, err := password.Bytes()
	if err != nil {
		return securerpc.Classify(err)
	}
	defer securerpc.Wipe(pw)

	r, err := c.call(ctx, transport.OpRestoreKeys, blob, pw)
	if err != nil {
		return err
	}
	return securerpc.DecodeVoid(r)
}

// ResetService wipes all service state.
func (c *CompleteClient) ResetService(ctx context.Context) error {
	r, err := c.call(ctx, transport.OpResetService)
	if err != nil {
		return err
	}
	return securerpc.DecodeVoid(r)
}

// GetDiagnosticInfo returns a reachability and version snapshot.
func (c *CompleteClient) GetDiagnosticInfo(ctx context.Context) (securerpc.ServiceStatus, error) {
	r, err := c.call(ctx, transport.OpGetDiagnosticInfo)
	if err != nil {
		return securerpc.ServiceStatus{}, err
	}
	return securerpc.DecodeReply(r, securerpc.JSONPayload[securerpc.ServiceStatus])
}

// GetConfiguration returns the service's active configuration.
func (c *CompleteClient) GetConfiguration(ctx context.Context) (securerpc.SecurityConfig, error) {
	r, err := c.call(ctx, transport.OpGetConfiguration)
	if err != nil {
		return securerpc.SecurityConfig{}, err
	}
	return securerpc.DecodeReply(r, securerpc.JSONPayload[securerpc.SecurityConfig])
}

// SetConfiguration replaces the service's active configuration.
func (c *CompleteClient) SetConfiguration(ctx context.Context, cfg securerpc.SecurityConfig) error {
	if err := cfg.Validate(); err != nil {
		return securerpc.Classify(err)
	}
	raw, err := json.Marshal(cfg)
	if err != nil {
		return securerpc.InternalError("config encoding failed").WithCause(err)
	}
	r, err := c.call(ctx, transport.OpSetConfiguration, raw)
	if err != nil {
		return err
	}
	return securerpc.DecodeVoid(r)
}

// GetMetrics returns the service's operation counters.
func (c *CompleteClient) GetMetrics(ctx context.Context) (map[string]string, error) {
	r, err := c.call(ctx, transport.OpGetMetrics)
	if err != nil {
		return nil, err
	}
	return securerpc.DecodeReply(r, securerpc.StringMapPayload)
}

// bagCall packs a parameter bag plus the serialized config into one
// argument and seals the result.
func (c *CompleteClient) bagCall(ctx context.Context, op transport.Op, bag transport.Bag, cfg securerpc.SecurityConfig) (securerpc.SecureBytes, error) {
	cfgRaw, err := json.Marshal(cfg)
	if err != nil {
		return securerpc.SecureBytes{}, securerpc.InternalError("config encoding failed").WithCause(err)
	}
	bag["config"] = cfgRaw

	encoded, err := bag.Encode()
	if err != nil {
		return securerpc.SecureBytes{}, securerpc.Classify(err)
	}
	defer securerpc.Wipe(encoded)

	r, err := c.call(ctx, op, encoded)
	if err != nil {
		return securerpc.SecureBytes{}, err
	}
	return securerpc.DecodeReply(r, securerpc.SecurePayload)
}

// aeadCall forwards data, associated data, and a key identifier.
func (c *CompleteClient) aeadCall(ctx context.Context, op transport.Op, data, associated securerpc.SecureBytes, keyID string) (securerpc.SecureBytes, error) {
	raw, err := data.Bytes()
	if err != nil {
		return securerpc.SecureBytes{}, securerpc.Classify(err)
	}
	defer securerpc.Wipe(raw)
	aad, err := associated.Bytes()
	if err != nil {
		return securerpc.SecureBytes{}, securerpc.Classify(err)
	}
	defer securerpc.Wipe(aad)

	r, err := c.call(ctx, op, raw, aad, []byte(keyID))
	if err != nil {
		return securerpc.SecureBytes{}, err
	}
	return securerpc.DecodeReply(r, securerpc.SecurePayload)
}
