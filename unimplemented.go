package securerpc

import "context"

// Unimplemented tier bases. Embedding one satisfies the tier interface
// with every operation answering a not-implemented error, so partial
// implementations stay feature-detectable by error code instead of
// crashing or silently succeeding. Ping is the one exception: with no
// remote check wired, liveness defaults to success.

// UnimplementedBasicService is the default Basic tier behavior.
type UnimplementedBasicService struct{}

func (UnimplementedBasicService) ProtocolID() string {
	return ProtocolIDBasic
}

func (UnimplementedBasicService) Ping(ctx context.Context) (bool, error) {
	return true, nil
}

func (UnimplementedBasicService) SynchroniseKeys(ctx context.Context, syncData SecureBytes) error {
	return NotImplemented("SynchroniseKeys is not implemented")
}

// UnimplementedStandardService is the default Standard tier behavior.
type UnimplementedStandardService struct {
	UnimplementedBasicService
}

func (UnimplementedStandardService) ProtocolID() string {
	return ProtocolIDStandard
}

func (UnimplementedStandardService) GenerateRandomData(ctx context.Context, length int) (SecureBytes, error) {
	return SecureBytes{}, NotImplemented("GenerateRandomData is not implemented")
}

func (UnimplementedStandardService) EncryptWithKey(ctx context.Context, data SecureBytes, keyID string) (SecureBytes, error) {
	return SecureBytes{}, NotImplemented("EncryptWithKey is not implemented")
}

func (UnimplementedStandardService) DecryptWithKey(ctx context.Context, data SecureBytes, keyID string) (SecureBytes, error) {
	return SecureBytes{}, NotImplemented("DecryptWithKey is not implemented")
}

func (UnimplementedStandardService) Hash(ctx context.Context, data SecureBytes) (SecureBytes, error) {
	return SecureBytes{}, NotImplemented("Hash is not implemented")
}

func (UnimplementedStandardService) Sign(ctx context.Context, data SecureBytes, keyID string) (SecureBytes, error) {
	return SecureBytes{}, NotImplemented("Sign is not implemented")
}

func (UnimplementedStandardService) Verify(ctx context.Context, signature, data SecureBytes, keyID string) (bool, error) {
	return false, NotImplemented("Verify is not implemented")
}

func (UnimplementedStandardService) Status(ctx context.Context) (map[string]string, error) {
	return nil, NotImplemented("Status is not implemented")
}

// UnimplementedCompleteService is the default Complete tier behavior.
type UnimplementedCompleteService struct {
	UnimplementedStandardService
}

func (UnimplementedCompleteService) ProtocolID() string {
	return ProtocolIDComplete
}

func (UnimplementedCompleteService) GenerateKey(ctx context.Context, keyType KeyType, bits int) (string, error) {
	return "", NotImplemented("GenerateKey is not implemented")
}

func (UnimplementedCompleteService) ImportKey(ctx context.Context, keyData SecureBytes, keyID string) (string, error) {
	return "", NotImplemented("ImportKey is not implemented")
}

func (UnimplementedCompleteService) ExportKey(ctx context.Context, keyID string) (SecureBytes, error) {
	return SecureBytes{}, NotImplemented("ExportKey is not implemented")
}

func (UnimplementedCompleteService) DeleteKey(ctx context.Context, keyID string) error {
	return NotImplemented("DeleteKey is not implemented")
}

func (UnimplementedCompleteService) ListKeyIdentifiers(ctx context.Context) ([]string, error) {
	return nil, NotImplemented("ListKeyIdentifiers is not implemented")
}

func (UnimplementedCompleteService) GetKeyMetadata(ctx context.Context, keyID string) (KeyMetadata, error) {
	return KeyMetadata{}, NotImplemented("GetKeyMetadata is not implemented")
}

func (UnimplementedCompleteService) DeriveKeyFromPassword(ctx context.Context, password, salt SecureBytes, cfg SecurityConfig) (SecureBytes, error) {
	return SecureBytes{}, NotImplemented("DeriveKeyFromPassword is not implemented")
}

func (UnimplementedCompleteService) DeriveKeyFromKey(ctx context.Context, keyID string, info SecureBytes, cfg SecurityConfig) (SecureBytes, error) {
	return SecureBytes{}, NotImplemented("DeriveKeyFromKey is not implemented")
}

func (UnimplementedCompleteService) EncryptAuthenticated(ctx context.Context, data, associated SecureBytes, keyID string) (SecureBytes, error) {
	return SecureBytes{}, NotImplemented("EncryptAuthenticated is not implemented")
}

func (UnimplementedCompleteService) DecryptAuthenticated(ctx context.Context, data, associated SecureBytes, keyID string) (SecureBytes, error) {
	return SecureBytes{}, NotImplemented("DecryptAuthenticated is not implemented")
}

func (UnimplementedCompleteService) SignWithConfig(ctx context.Context, data SecureBytes, cfg SecurityConfig) (SecureBytes, error) {
	return SecureBytes{}, NotImplemented("SignWithConfig is not implemented")
}

func (UnimplementedCompleteService) VerifyWithConfig(ctx context.Context, signature, data SecureBytes, cfg SecurityConfig) (bool, error) {
	return false, NotImplemented("VerifyWithConfig is not implemented")
}

func (UnimplementedCompleteService) BackupKeys(ctx context.Context, password SecureBytes) (SecureBytes, error) {
	return SecureBytes{}, NotImplemented("BackupKeys is not implemented")
}

func (UnimplementedCompleteService) RestoreKeys(ctx context.Context, backup, password SecureBytes) error {
	return NotImplemented("RestoreKeys is not implemented")
}

func (UnimplementedCompleteService) ResetService(ctx context.Context) error {
	return NotImplemented("ResetService is not implemented")
}

func (UnimplementedCompleteService) GetDiagnosticInfo(ctx context.Context) (ServiceStatus, error) {
	return ServiceStatus{}, NotImplemented("GetDiagnosticInfo is not implemented")
}

func (UnimplementedCompleteService) GetConfiguration(ctx context.Context) (SecurityConfig, error) {
	return SecurityConfig{}, NotImplemented("GetConfiguration is not implemented")
}

func (UnimplementedCompleteService) SetConfiguration(ctx context.Context, cfg SecurityConfig) error {
	return NotImplemented("SetConfiguration is not implemented")
}

func (UnimplementedCompleteService) GetMetrics(ctx context.Context) (map[string]string, error) {
	return nil, NotImplemented("GetMetrics is not implemented")
}

// Compile-time interface checks.
var (
	_ BasicService    = UnimplementedBasicService{}
	_ StandardService = UnimplementedStandardService{}
	_ CompleteService = UnimplementedCompleteService{}
)
