package securerpc

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Code identifies one failure kind in the closed taxonomy. Every
// operation in this module signals failure through exactly one Code.
type Code int32

const (
	// CodeUnknown is the zero value and never constructed deliberately.
	CodeUnknown Code = iota

	// CodeServiceUnavailable means no live connection to the service exists.
	CodeServiceUnavailable

	// CodeServiceNotReady means the service is reachable but not yet usable.
	CodeServiceNotReady

	// CodeTimeout means the call did not complete within its deadline.
	CodeTimeout

	// CodeAuthenticationFailed means the caller could not be authenticated.
	CodeAuthenticationFailed

	// CodeAuthorizationDenied means the caller may not perform the operation.
	CodeAuthorizationDenied

	// CodeOperationNotSupported means the remote side does not recognise the operation.
	CodeOperationNotSupported

	// CodeInvalidInput means a request parameter was rejected before any remote call.
	CodeInvalidInput

	// CodeInvalidData means a payload was malformed or unusable.
	CodeInvalidData

	// CodeInvalidState means the operation is not legal in the current service state.
	CodeInvalidState

	// CodeKeyNotFound means the named key does not exist.
	CodeKeyNotFound

	// CodeInvalidKeyType means a key of the wrong type was supplied.
	CodeInvalidKeyType

	// CodeCryptographicError means a cryptographic suboperation failed remotely.
	CodeCryptographicError

	// CodeEncryptionFailed means the encryption suboperation failed.
	CodeEncryptionFailed

	// CodeDecryptionFailed means the decryption suboperation failed.
	CodeDecryptionFailed

	// CodeKeyGenerationFailed means key generation failed.
	CodeKeyGenerationFailed

	// CodeNotImplemented means the implementation does not provide the operation.
	// Callers feature-detect by matching this code.
	CodeNotImplemented

	// CodeInternalError is the backstop for anything unclassifiable.
	CodeInternalError

	// CodeConnectionInterrupted means the transport dropped mid-call.
	CodeConnectionInterrupted

	// CodeConnectionInvalidated means the connection is permanently dead.
	CodeConnectionInvalidated
)

var codeNames = map[Code]string{
	CodeUnknown:               "unknown",
	CodeServiceUnavailable:    "service unavailable",
	CodeServiceNotReady:       "service not ready",
	CodeTimeout:               "timeout",
	CodeAuthenticationFailed:  "authentication failed",
	CodeAuthorizationDenied:   "authorization denied",
	CodeOperationNotSupported: "operation not supported",
	CodeInvalidInput:          "invalid input",
	CodeInvalidData:           "invalid data",
	CodeInvalidState:          "invalid state",
	CodeKeyNotFound:           "key not found",
	CodeInvalidKeyType:        "invalid key type",
	CodeCryptographicError:    "cryptographic error",
	CodeEncryptionFailed:      "encryption failed",
	CodeDecryptionFailed:      "decryption failed",
	CodeKeyGenerationFailed:   "key generation failed",
	CodeNotImplemented:        "not implemented",
	CodeInternalError:         "internal error",
	CodeConnectionInterrupted: "connection interrupted",
	CodeConnectionInvalidated: "connection invalidated",
}

// String returns the stable human-readable name of the code.
func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return codeNames[CodeUnknown]
}

// Error is the single error currency of this module. Exactly one Code is
// active per value; the remaining fields carry that code's context.
// Equality is structural over Code and context; a wrapped cause is kept
// for diagnostics only and excluded from equality.
type Error struct {
	Code Code

	// Reason carries free-form context (reason or details strings).
	Reason string

	// Operation names the denied, unsupported, or failed suboperation.
	Operation string

	// KeyID identifies the key for key lookup failures.
	KeyID string

	// Expected and Received describe a key type mismatch.
	Expected string
	Received string

	// Wait is the elapsed deadline for timeout failures.
	Wait time.Duration

	cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	b.WriteString("securerpc: ")
	b.WriteString(e.Code.String())

	switch {
	case e.Code == CodeTimeout && e.Wait > 0:
		fmt.Fprintf(&b, " after %s", e.Wait)
	case e.Code == CodeKeyNotFound && e.KeyID != "":
		fmt.Fprintf(&b, ": %s", e.KeyID)
	case e.Code == CodeInvalidKeyType:
		fmt.Fprintf(&b, ": expected %s, received %s", e.Expected, e.Received)
	case e.Code == CodeCryptographicError && e.Operation != "":
		fmt.Fprintf(&b, " in %s", e.Operation)
	case (e.Code == CodeAuthorizationDenied || e.Code == CodeOperationNotSupported) && e.Operation != "":
		fmt.Fprintf(&b, ": %s", e.Operation)
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	return b.String()
}

// Unwrap exposes the wrapped cause to errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches another *Error by code, so errors.Is(err, target) answers
// "is this failure of the same kind" without comparing context.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Equal reports structural equality: same code and same context payload.
// The wrapped cause does not participate.
func (e *Error) Equal(other *Error) bool {
	if e == nil || other == nil {
		return e == other
	}
	return e.Code == other.Code &&
		e.Reason == other.Reason &&
		e.Operation == other.Operation &&
		e.KeyID == other.KeyID &&
		e.Expected == other.Expected &&
		e.Received == other.Received &&
		e.Wait == other.Wait
}

// WithCause returns a copy carrying err as the wrapped cause.
func (e *Error) WithCause(err error) *Error {
	out := *e
	out.cause = err
	return &out
}

// ServiceUnavailable means no live connection to the service exists.
func ServiceUnavailable() *Error {
	return &Error{Code: CodeServiceUnavailable}
}

// ServiceNotReady means the service is reachable but cannot serve yet.
func ServiceNotReady(reason string) *Error {
	return &Error{Code: CodeServiceNotReady, Reason: reason}
}

// Timeout means the call exceeded its deadline.
func Timeout(after time.Duration) *Error {
	return &Error{Code: CodeTimeout, Wait: after}
}

// AuthenticationFailed means the caller could not be authenticated.
func AuthenticationFailed(reason string) *Error {
	return &Error{Code: CodeAuthenticationFailed, Reason: reason}
}

// AuthorizationDenied means the caller may not perform the named operation.
func AuthorizationDenied(operation string) *Error {
	return &Error{Code: CodeAuthorizationDenied, Operation: operation}
}

// OperationNotSupported means the remote side does not recognise the operation.
func OperationNotSupported(name string) *Error {
	return &Error{Code: CodeOperationNotSupported, Operation: name}
}

// InvalidInput means a request parameter was rejected locally.
func InvalidInput(details string) *Error {
	return &Error{Code: CodeInvalidInput, Reason: details}
}

// InvalidData means a payload was malformed or unusable.
func InvalidData(reason string) *Error {
	return &Error{Code: CodeInvalidData, Reason: reason}
}

// InvalidState means the operation is not legal in the current state.
func InvalidState(details string) *Error {
	return &Error{Code: CodeInvalidState, Reason: details}
}

// KeyNotFound means the named key does not exist.
func KeyNotFound(id string) *Error {
	return &Error{Code: CodeKeyNotFound, KeyID: id}
}

// InvalidKeyType means a key of the wrong type was supplied.
func InvalidKeyType(expected, received string) *Error {
	return &Error{Code: CodeInvalidKeyType, Expected: expected, Received: received}
}

// CryptographicError means the named cryptographic suboperation failed.
func CryptographicError(operation, details string) *Error {
	return &Error{Code: CodeCryptographicError, Operation: operation, Reason: details}
}

// EncryptionFailed means the encryption suboperation failed.
func EncryptionFailed(reason string) *Error {
	return &Error{Code: CodeEncryptionFailed, Operation: SubopEncryption, Reason: reason}
}

// DecryptionFailed means the decryption suboperation failed.
func DecryptionFailed(reason string) *Error {
	return &Error{Code: CodeDecryptionFailed, Operation: SubopDecryption, Reason: reason}
}

// KeyGenerationFailed means key generation failed.
func KeyGenerationFailed(reason string) *Error {
	return &Error{Code: CodeKeyGenerationFailed, Operation: SubopKeyGeneration, Reason: reason}
}

// NotImplemented means the implementation does not provide the operation.
func NotImplemented(reason string) *Error {
	return &Error{Code: CodeNotImplemented, Reason: reason}
}

// InternalError is the backstop for anything unclassifiable.
func InternalError(reason string) *Error {
	return &Error{Code: CodeInternalError, Reason: reason}
}

// ConnectionInterrupted means the transport dropped mid-call.
func ConnectionInterrupted() *Error {
	return &Error{Code: CodeConnectionInterrupted}
}

// ConnectionInvalidated means the connection is permanently dead.
func ConnectionInvalidated(reason string) *Error {
	return &Error{Code: CodeConnectionInvalidated, Reason: reason}
}

// IsCode reports whether err is (or wraps) an Error carrying one of the
// given codes.
func IsCode(err error, codes ...Code) bool {
	var e *Error
	if !errors.As(err, &e) || e == nil {
		return false
	}
	for _, c := range codes {
		if e.Code == c {
			return true
		}
	}
	return false
}

// CodeOf returns the code of err, or CodeUnknown when err carries none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) && e != nil {
		return e.Code
	}
	return CodeUnknown
}
