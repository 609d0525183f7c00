package securerpc

import (
	"context"
	"errors"

	"github.com/rbaliyan/secure-rpc/transport"
)

// Suboperation names carried by cryptographic provider faults. The
// classifier sub-dispatches on these when present.
const (
	SubopEncryption     = "encryption"
	SubopDecryption     = "decryption"
	SubopKeyGeneration  = "key generation"
	SubopKeyDerivation  = "key derivation"
	SubopAuthentication = "authentication"
)

// Classify converts any error into the closed taxonomy. It is total: it
// never fails, never panics, and maps anything it does not recognise to
// an internal error carrying the original description. Classifying an
// already classified error returns it unchanged, so reclassification is
// idempotent.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) && e != nil {
		return e
	}

	var unknownOp *transport.UnknownOpError
	if errors.As(err, &unknownOp) {
		return OperationNotSupported(string(unknownOp.Op)).WithCause(err)
	}
	var keyRef *transport.KeyRefError
	if errors.As(err, &keyRef) {
		return KeyNotFound(keyRef.ID).WithCause(err)
	}
	var timeout *transport.TimeoutError
	if errors.As(err, &timeout) {
		return Timeout(timeout.After).WithCause(err)
	}
	var badReq *transport.BadRequestError
	if errors.As(err, &badReq) {
		return InvalidData(badReq.Reason).WithCause(err)
	}
	var fault *transport.CryptoFault
	if errors.As(err, &fault) {
		return classifyCryptoFault(fault)
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return Timeout(0).WithCause(err)
	case errors.Is(err, context.Canceled):
		return ConnectionInterrupted().WithCause(err)
	case errors.Is(err, transport.ErrInterrupted):
		return ConnectionInterrupted().WithCause(err)
	case errors.Is(err, transport.ErrInvalidated):
		return ConnectionInvalidated(err.Error()).WithCause(err)
	case errors.Is(err, transport.ErrClosed):
		return ServiceUnavailable().WithCause(err)
	case errors.Is(err, transport.ErrBadBag):
		return InvalidData(err.Error()).WithCause(err)
	}

	return InternalError(err.Error()).WithCause(err)
}

// classifyCryptoFault dispatches a provider fault by suboperation name.
// Suboperations without a dedicated code keep the general cryptographic
// error with the suboperation recorded.
func classifyCryptoFault(fault *transport.CryptoFault) *Error {
	details := ""
	if fault.Err != nil {
		details = fault.Err.Error()
	}
	switch fault.Subop {
	case SubopEncryption:
		return EncryptionFailed(details).WithCause(fault)
	case SubopDecryption:
		return DecryptionFailed(details).WithCause(fault)
	case SubopKeyGeneration:
		return KeyGenerationFailed(details).WithCause(fault)
	default:
		return CryptographicError(fault.Subop, details).WithCause(fault)
	}
}
