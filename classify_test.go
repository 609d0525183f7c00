package securerpc

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rbaliyan/secure-rpc/transport"
)

func TestClassifyNil(t *testing.T) {
	if got := Classify(nil); got != nil {
		t.Errorf("Classify(nil): got %v, want nil", got)
	}
}

func TestClassifyTransportErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
	}{
		{"unknown op", &transport.UnknownOpError{Op: "rotateKeys"}, CodeOperationNotSupported},
		{"key ref", &transport.KeyRefError{ID: "missing"}, CodeKeyNotFound},
		{"timeout", &transport.TimeoutError{After: time.Second}, CodeTimeout},
		{"bad request", &transport.BadRequestError{Reason: "short"}, CodeInvalidData},
		{"closed", transport.ErrClosed, CodeServiceUnavailable},
		{"invalidated", transport.ErrInvalidated, CodeConnectionInvalidated},
		{"interrupted", transport.ErrInterrupted, CodeConnectionInterrupted},
		{"bad bag", transport.ErrBadBag, CodeInvalidData},
		{"deadline", context.DeadlineExceeded, CodeTimeout},
		{"canceled", context.Canceled, CodeConnectionInterrupted},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(tc.err)
			if got == nil {
				t.Fatal("Classify: got nil")
			}
			if got.Code != tc.code {
				t.Errorf("Code: got %v, want %v", got.Code, tc.code)
			}
			if !errors.Is(got, tc.err) {
				t.Error("original error not preserved as cause")
			}
		})
	}
}

func TestClassifyWrappedTransportErrors(t *testing.T) {
	err := fmt.Errorf("call failed: %w", &transport.KeyRefError{ID: "k"})
	got := Classify(err)
	if got.Code != CodeKeyNotFound {
		t.Errorf("Code: got %v, want %v", got.Code, CodeKeyNotFound)
	}
	if got.KeyID != "k" {
		t.Errorf("KeyID: got %q, want %q", got.KeyID, "k")
	}
}

func TestClassifyCryptoFaults(t *testing.T) {
	tests := []struct {
		subop string
		code  Code
	}{
		{SubopEncryption, CodeEncryptionFailed},
		{SubopDecryption, CodeDecryptionFailed},
		{SubopKeyGeneration, CodeKeyGenerationFailed},
		{SubopKeyDerivation, CodeCryptographicError},
		{SubopAuthentication, CodeCryptographicError},
		{"padding", CodeCryptographicError},
	}
	for _, tc := range tests {
		t.Run(tc.subop, func(t *testing.T) {
			fault := &transport.CryptoFault{Subop: tc.subop, Err: errors.New("boom")}
			got := Classify(fault)
			if got.Code != tc.code {
				t.Errorf("Code: got %v, want %v", got.Code, tc.code)
			}
			if got.Reason != "boom" {
				t.Errorf("Reason: got %q, want %q", got.Reason, "boom")
			}
			if got.Code == CodeCryptographicError && got.Operation != tc.subop {
				t.Errorf("Operation: got %q, want %q", got.Operation, tc.subop)
			}
		})
	}
}

func TestClassifyIsTotal(t *testing.T) {
	inputs := []error{
		errors.New("completely unknown"),
		fmt.Errorf("wrapping %w", errors.New("another")),
		&transport.CryptoFault{Subop: "", Err: nil},
	}
	for _, err := range inputs {
		got := Classify(err)
		if got == nil {
			t.Fatalf("Classify(%v): got nil", err)
		}
	}
}

func TestClassifyUnknownKeepsDescription(t *testing.T) {
	got := Classify(errors.New("disk on fire"))
	if got.Code != CodeInternalError {
		t.Errorf("Code: got %v, want %v", got.Code, CodeInternalError)
	}
	if got.Reason != "disk on fire" {
		t.Errorf("Reason: got %q, want %q", got.Reason, "disk on fire")
	}
}

func TestClassifyIdempotent(t *testing.T) {
	original := KeyNotFound("k1")
	if got := Classify(original); got != original {
		t.Errorf("reclassification changed the error: got %v", got)
	}

	// A taxonomy error reached through wrapping also comes back intact.
	wrapped := fmt.Errorf("context: %w", original)
	if got := Classify(wrapped); got != original {
		t.Errorf("reclassifying a wrapped taxonomy error: got %v, want the original", got)
	}
}
