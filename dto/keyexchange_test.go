package dto

import (
	"context"
	"strings"
	"sync"
	"testing"

	securerpc "github.com/rbaliyan/secure-rpc"
)

// exchangeHost fakes the key lifecycle operations CalculateSharedSecret
// composes, recording imports and deletes and optionally failing the
// derivation step.
type exchangeHost struct {
	securerpc.UnimplementedCompleteService

	mu         sync.Mutex
	keys       map[string]securerpc.SecureBytes
	imported   []string
	deleted    []string
	failDerive bool
}

func newExchangeHost() *exchangeHost {
	return &exchangeHost{keys: make(map[string]securerpc.SecureBytes)}
}

func (h *exchangeHost) GenerateRandomData(ctx context.Context, length int) (securerpc.SecureBytes, error) {
	return securerpc.NewSecureBytes(make([]byte, length)), nil
}

func (h *exchangeHost) ImportKey(ctx context.Context, keyData securerpc.SecureBytes, keyID string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.keys[keyID] = keyData
	h.imported = append(h.imported, keyID)
	return keyID, nil
}

func (h *exchangeHost) ExportKey(ctx context.Context, keyID string) (securerpc.SecureBytes, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	k, ok := h.keys[keyID]
	if !ok {
		return securerpc.SecureBytes{}, securerpc.KeyNotFound(keyID)
	}
	return k, nil
}

func (h *exchangeHost) DeleteKey(ctx context.Context, keyID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.keys[keyID]; !ok {
		return securerpc.KeyNotFound(keyID)
	}
	delete(h.keys, keyID)
	h.deleted = append(h.deleted, keyID)
	return nil
}

func (h *exchangeHost) DeriveKeyFromKey(ctx context.Context, keyID string, info securerpc.SecureBytes, cfg securerpc.SecurityConfig) (securerpc.SecureBytes, error) {
	if h.failDerive {
		return securerpc.SecureBytes{}, securerpc.CryptographicError("key derivation", "forced failure")
	}
	return securerpc.NewSecureBytes(make([]byte, cfg.KeySizeBits/8)), nil
}

func (h *exchangeHost) remaining() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.keys)
}

func TestGenerateKeyExchangeData(t *testing.T) {
	a := NewAdapter(newExchangeHost())
	cfg := securerpc.NewSecurityConfig("hkdf-sha256", 256)

	r := a.GenerateKeyExchangeData(context.Background(), cfg)
	if !r.OK() {
		t.Fatalf("GenerateKeyExchangeData: %v", r.Err())
	}
	params, _ := r.Value()
	if params.PublicKey.Len() != 32 || params.PrivateKey.Len() != 32 {
		t.Errorf("value sizes: public %d, private %d, want 32 each",
			params.PublicKey.Len(), params.PrivateKey.Len())
	}
	if params.Algorithm != "hkdf-sha256" {
		t.Errorf("algorithm: got %q", params.Algorithm)
	}
}

func TestGenerateKeyExchangeDataRejectsBadConfig(t *testing.T) {
	a := NewAdapter(newExchangeHost())
	r := a.GenerateKeyExchangeData(context.Background(), securerpc.SecurityConfig{})
	if r.OK() {
		t.Fatal("invalid config accepted")
	}
	if r.ErrorCode() != CodeInvalidInput {
		t.Errorf("ErrorCode: got %d, want %d", r.ErrorCode(), CodeInvalidInput)
	}
}

func TestCalculateSharedSecret(t *testing.T) {
	host := newExchangeHost()
	a := NewAdapter(host)
	cfg := securerpc.NewSecurityConfig("hkdf-sha256", 256)

	r := a.CalculateSharedSecret(context.Background(),
		securerpc.NewSecureBytes(make([]byte, 32)),
		securerpc.NewSecureBytes(make([]byte, 32)),
		cfg)
	if !r.OK() {
		t.Fatalf("CalculateSharedSecret: %v", r.Err())
	}
	secret, _ := r.Value()
	if secret.Len() != 32 {
		t.Errorf("secret length: got %d, want 32", secret.Len())
	}

	// Both temporary keys must be gone again.
	if n := host.remaining(); n != 0 {
		t.Errorf("temporary keys left behind: %d", n)
	}
	if len(host.imported) != 2 || len(host.deleted) != 2 {
		t.Errorf("lifecycle: imported %d, deleted %d, want 2 each",
			len(host.imported), len(host.deleted))
	}
	for _, id := range host.imported {
		if !strings.HasPrefix(id, "kx-") {
			t.Errorf("temporary key %q not kx-prefixed", id)
		}
	}
}

func TestCalculateSharedSecretCleansUpOnFailure(t *testing.T) {
	host := newExchangeHost()
	host.failDerive = true
	a := NewAdapter(host)
	cfg := securerpc.NewSecurityConfig("hkdf-sha256", 256)

	r := a.CalculateSharedSecret(context.Background(),
		securerpc.NewSecureBytes(make([]byte, 32)),
		securerpc.NewSecureBytes(make([]byte, 32)),
		cfg)
	if r.OK() {
		t.Fatal("derivation failure reported success")
	}
	if r.ErrorCode() != CodeCryptographicError {
		t.Errorf("ErrorCode: got %d, want %d", r.ErrorCode(), CodeCryptographicError)
	}

	// The failed path must still delete both temporary keys.
	if n := host.remaining(); n != 0 {
		t.Errorf("temporary keys left behind after failure: %d", n)
	}
	if len(host.deleted) != 2 {
		t.Errorf("deleted: got %d, want 2", len(host.deleted))
	}
}

func TestCalculateSharedSecretRejectsEmptyInputs(t *testing.T) {
	host := newExchangeHost()
	a := NewAdapter(host)
	cfg := securerpc.NewSecurityConfig("hkdf-sha256", 256)

	r := a.CalculateSharedSecret(context.Background(),
		securerpc.SecureBytes{},
		securerpc.NewSecureBytes(make([]byte, 32)),
		cfg)
	if r.OK() {
		t.Fatal("empty private value accepted")
	}
	if r.ErrorCode() != CodeInvalidInput {
		t.Errorf("ErrorCode: got %d, want %d", r.ErrorCode(), CodeInvalidInput)
	}
	if len(host.imported) != 0 {
		t.Error("rejected call still imported keys")
	}
}
