package dto

import (
	"context"
	"testing"

	securerpc "github.com/rbaliyan/secure-rpc"
)

// stubComplete answers a handful of operations and leaves the rest on
// the not-implemented base.
type stubComplete struct {
	securerpc.UnimplementedCompleteService
}

func (stubComplete) GenerateRandomData(ctx context.Context, length int) (securerpc.SecureBytes, error) {
	return securerpc.NewSecureBytes(make([]byte, length)), nil
}

func (stubComplete) Hash(ctx context.Context, data securerpc.SecureBytes) (securerpc.SecureBytes, error) {
	return data, nil
}

func (stubComplete) DeleteKey(ctx context.Context, keyID string) error {
	if keyID == "absent" {
		return securerpc.KeyNotFound(keyID)
	}
	return nil
}

func TestAdapterProtocolID(t *testing.T) {
	a := NewAdapter(stubComplete{})
	if got := a.ProtocolID(); got != securerpc.ProtocolIDDTO {
		t.Errorf("ProtocolID: got %q, want %q", got, securerpc.ProtocolIDDTO)
	}
}

func TestAdapterWrapsSuccess(t *testing.T) {
	a := NewAdapter(stubComplete{})

	r := a.GenerateRandomData(context.Background(), 16)
	if !r.OK() {
		t.Fatalf("GenerateRandomData failed: %v", r.Err())
	}
	v, _ := r.Value()
	if v.Len() != 16 {
		t.Errorf("length: got %d, want 16", v.Len())
	}

	void := a.DeleteKey(context.Background(), "present")
	if !void.OK() {
		t.Errorf("DeleteKey failed: %v", void.Err())
	}
}

func TestAdapterWrapsFailure(t *testing.T) {
	a := NewAdapter(stubComplete{})

	r := a.DeleteKey(context.Background(), "absent")
	if r.OK() {
		t.Fatal("DeleteKey on a missing key succeeded")
	}
	if r.ErrorCode() != CodeKeyNotFound {
		t.Errorf("ErrorCode: got %d, want %d", r.ErrorCode(), CodeKeyNotFound)
	}
	if id, _ := r.Detail("keyId"); id != "absent" {
		t.Errorf("keyId detail: got %q", id)
	}
}

func TestAdapterWrapsNotImplemented(t *testing.T) {
	a := NewAdapter(stubComplete{})

	// The stub never overrides BackupKeys; feature detection must
	// survive the envelope conversion.
	r := a.BackupKeys(context.Background(), securerpc.NewSecureBytes([]byte("pw")))
	if r.ErrorCode() != CodeNotImplemented {
		t.Errorf("ErrorCode: got %d, want %d", r.ErrorCode(), CodeNotImplemented)
	}
	if !securerpc.IsCode(r.Err(), securerpc.CodeNotImplemented) {
		t.Errorf("Err: got %v, want not implemented", r.Err())
	}
}

func TestStandardAdapterOverBasicOnly(t *testing.T) {
	// A Standard adapter around a not-implemented base still answers
	// every operation, with detectable codes instead of crashes.
	a := NewStandardAdapter(securerpc.UnimplementedStandardService{})

	ping := a.Ping(context.Background())
	if !ping.OK() {
		t.Errorf("Ping: %v", ping.Err())
	}
	hash := a.Hash(context.Background(), securerpc.NewSecureBytes([]byte("x")))
	if hash.ErrorCode() != CodeNotImplemented {
		t.Errorf("Hash: got code %d, want %d", hash.ErrorCode(), CodeNotImplemented)
	}
}
