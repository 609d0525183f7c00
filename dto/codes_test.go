package dto

import (
	"testing"
	"time"

	securerpc "github.com/rbaliyan/secure-rpc"
)

// The wire code assignments are a published contract. This table pins
// every value; a failure here means a breaking protocol change.
func TestWireCodeTableIsStable(t *testing.T) {
	tests := []struct {
		err  *securerpc.Error
		code int
	}{
		{securerpc.ServiceUnavailable(), 1},
		{securerpc.ServiceNotReady("x"), 2},
		{securerpc.Timeout(time.Second), 3},
		{securerpc.ConnectionInterrupted(), 4},
		{securerpc.ConnectionInvalidated("x"), 5},
		{securerpc.AuthenticationFailed("x"), 100},
		{securerpc.AuthorizationDenied("x"), 101},
		{securerpc.InvalidInput("x"), 1001},
		{securerpc.InvalidState("x"), 1002},
		{securerpc.CryptographicError("op", "x"), 1003},
		{securerpc.NotImplemented("x"), 1004},
		{securerpc.InvalidData("x"), 1005},
		{securerpc.OperationNotSupported("x"), 1006},
		{securerpc.KeyNotFound("x"), 1007},
		{securerpc.InvalidKeyType("a", "b"), 1008},
		{securerpc.EncryptionFailed("x"), 1009},
		{securerpc.DecryptionFailed("x"), 1010},
		{securerpc.KeyGenerationFailed("x"), 1011},
		{securerpc.InternalError("x"), 10000},
	}
	for _, tc := range tests {
		t.Run(tc.err.Code.String(), func(t *testing.T) {
			code, _, _ := Encode(tc.err)
			if code != tc.code {
				t.Errorf("wire code: got %d, want %d", code, tc.code)
			}
		})
	}
}

func TestEncodeNil(t *testing.T) {
	code, message, details := Encode(nil)
	if code != 0 || message != "" || details != nil {
		t.Errorf("Encode(nil): got (%d, %q, %v)", code, message, details)
	}
}

func TestEncodeDetails(t *testing.T) {
	code, message, details := Encode(securerpc.InvalidKeyType("symmetric", "public"))
	if code != CodeInvalidKeyType {
		t.Errorf("code: got %d", code)
	}
	if message == "" {
		t.Error("message: empty")
	}
	if details["expected"] != "symmetric" || details["received"] != "public" {
		t.Errorf("details: got %v", details)
	}
}

func TestEncodeTimeoutCarriesMilliseconds(t *testing.T) {
	_, _, details := Encode(securerpc.Timeout(1500 * time.Millisecond))
	if details["timeoutMs"] != "1500" {
		t.Errorf("timeoutMs: got %q, want %q", details["timeoutMs"], "1500")
	}
}

func TestDecodeUnknownCode(t *testing.T) {
	got := Decode(424242, "mystery failure", nil)
	if got.Code != securerpc.CodeInternalError {
		t.Errorf("Code: got %v, want internal error", got.Code)
	}
	if got.Reason != "mystery failure" {
		t.Errorf("Reason: got %q", got.Reason)
	}
}

func TestDecodeWithMissingDetails(t *testing.T) {
	// A peer may omit the detail map entirely; decoding must not panic
	// and must still land on the right kind.
	got := Decode(CodeKeyNotFound, "key not found", nil)
	if got.Code != securerpc.CodeKeyNotFound {
		t.Errorf("Code: got %v", got.Code)
	}
}
