package dto

import (
	"strconv"
	"time"

	securerpc "github.com/rbaliyan/secure-rpc"
)

// Wire codes, one per taxonomy kind. The table is a versioned contract:
// changing an assignment is a breaking change.
const (
	CodeServiceUnavailable    = 1
	CodeServiceNotReady       = 2
	CodeTimeout               = 3
	CodeConnectionInterrupted = 4
	CodeConnectionInvalidated = 5

	CodeAuthenticationFailed = 100
	CodeAuthorizationDenied  = 101

	CodeInvalidInput          = 1001
	CodeInvalidState          = 1002
	CodeCryptographicError    = 1003
	CodeNotImplemented        = 1004
	CodeInvalidData           = 1005
	CodeOperationNotSupported = 1006
	CodeKeyNotFound           = 1007
	CodeInvalidKeyType        = 1008
	CodeEncryptionFailed      = 1009
	CodeDecryptionFailed      = 1010
	CodeKeyGenerationFailed   = 1011

	CodeInternalError = 10000
)

// Detail map keys.
const (
	detailReason    = "reason"
	detailOperation = "operation"
	detailKeyID     = "keyId"
	detailExpected  = "expected"
	detailReceived  = "received"
	detailTimeout   = "timeoutMs"
)

var kindToWire = map[securerpc.Code]int{
	securerpc.CodeServiceUnavailable:    CodeServiceUnavailable,
	securerpc.CodeServiceNotReady:       CodeServiceNotReady,
	securerpc.CodeTimeout:               CodeTimeout,
	securerpc.CodeConnectionInterrupted: CodeConnectionInterrupted,
	securerpc.CodeConnectionInvalidated: CodeConnectionInvalidated,
	securerpc.CodeAuthenticationFailed:  CodeAuthenticationFailed,
	securerpc.CodeAuthorizationDenied:   CodeAuthorizationDenied,
	securerpc.CodeInvalidInput:          CodeInvalidInput,
	securerpc.CodeInvalidState:          CodeInvalidState,
	securerpc.CodeCryptographicError:    CodeCryptographicError,
	securerpc.CodeNotImplemented:        CodeNotImplemented,
	securerpc.CodeInvalidData:           CodeInvalidData,
	securerpc.CodeOperationNotSupported: CodeOperationNotSupported,
	securerpc.CodeKeyNotFound:           CodeKeyNotFound,
	securerpc.CodeInvalidKeyType:        CodeInvalidKeyType,
	securerpc.CodeEncryptionFailed:      CodeEncryptionFailed,
	securerpc.CodeDecryptionFailed:      CodeDecryptionFailed,
	securerpc.CodeKeyGenerationFailed:   CodeKeyGenerationFailed,
	securerpc.CodeInternalError:         CodeInternalError,
}

// Encode classifies err and flattens it into the wire representation.
func Encode(err error) (code int, message string, details map[string]string) {
	e := securerpc.Classify(err)
	if e == nil {
		return 0, "", nil
	}

	code, ok := kindToWire[e.Code]
	if !ok {
		code = CodeInternalError
	}

	details = make(map[string]string)
	if e.Reason != "" {
		details[detailReason] = e.Reason
	}
	if e.Operation != "" {
		details[detailOperation] = e.Operation
	}
	if e.KeyID != "" {
		details[detailKeyID] = e.KeyID
	}
	if e.Expected != "" {
		details[detailExpected] = e.Expected
	}
	if e.Received != "" {
		details[detailReceived] = e.Received
	}
	if e.Wait > 0 {
		details[detailTimeout] = strconv.FormatInt(e.Wait.Milliseconds(), 10)
	}
	if len(details) == 0 {
		details = nil
	}
	return code, e.Error(), details
}

// Decode rebuilds the taxonomy error a wire triple describes. Unknown
// codes collapse to an internal error carrying the message.
func Decode(code int, message string, details map[string]string) *securerpc.Error {
	reason := details[detailReason]
	operation := details[detailOperation]

	switch code {
	case CodeServiceUnavailable:
		return securerpc.ServiceUnavailable()
	case CodeServiceNotReady:
		return securerpc.ServiceNotReady(reason)
	case CodeTimeout:
		ms, _ := strconv.ParseInt(details[detailTimeout], 10, 64)
		return securerpc.Timeout(time.Duration(ms) * time.Millisecond)
	case CodeConnectionInterrupted:
		return securerpc.ConnectionInterrupted()
	case CodeConnectionInvalidated:
		return securerpc.ConnectionInvalidated(reason)
	case CodeAuthenticationFailed:
		return securerpc.AuthenticationFailed(reason)
	case CodeAuthorizationDenied:
		return securerpc.AuthorizationDenied(operation)
	case CodeInvalidInput:
		return securerpc.InvalidInput(reason)
	case CodeInvalidState:
		return securerpc.InvalidState(reason)
	case CodeCryptographicError:
		return securerpc.CryptographicError(operation, reason)
	case CodeNotImplemented:
		return securerpc.NotImplemented(reason)
	case CodeInvalidData:
		return securerpc.InvalidData(reason)
	case CodeOperationNotSupported:
		return securerpc.OperationNotSupported(operation)
	case CodeKeyNotFound:
		return securerpc.KeyNotFound(details[detailKeyID])
	case CodeInvalidKeyType:
		return securerpc.InvalidKeyType(details[detailExpected], details[detailReceived])
	case CodeEncryptionFailed:
		return securerpc.EncryptionFailed(reason)
	case CodeDecryptionFailed:
		return securerpc.DecryptionFailed(reason)
	case CodeKeyGenerationFailed:
		return securerpc.KeyGenerationFailed(reason)
	default:
		return securerpc.InternalError(message)
	}
}
