// Package transport defines the boundary to the isolated security
// service: the closed set of remote operation names, the connection
// contract with its callback completion and invalidation observer, and
// the native error shapes a connection may produce. Everything above
// this package speaks SecureBytes and classified errors; everything in
// it speaks raw bytes and native errors.
package transport

import (
	"errors"
	"fmt"
	"time"
)

// Op names one remote operation. The set is closed: dispatch is by
// tagged constant, never by reflection over arbitrary strings.
type Op string

const (
	OpPing               Op = "ping"
	OpSynchroniseKeys    Op = "synchroniseKeys"
	OpGenerateRandomData Op = "generateRandomData"
	OpEncryptData        Op = "encryptData"
	OpDecryptData        Op = "decryptData"
	OpHashData           Op = "hashData"
	OpSignData           Op = "signData"
	OpVerifyData         Op = "verifyData"
	OpGetServiceStatus   Op = "getServiceStatus"
	OpGetServiceVersion  Op = "getServiceVersion"

	OpGenerateKey        Op = "generateKey"
	OpImportKey          Op = "importKey"
	OpExportKey          Op = "exportKey"
	OpDeleteKey          Op = "deleteKey"
	OpListKeyIdentifiers Op = "listKeyIdentifiers"
	OpGetKeyMetadata     Op = "getKeyMetadata"

	OpDeriveKeyFromPassword Op = "deriveKeyFromPassword"
	OpDeriveKeyFromKey      Op = "deriveKeyFromKey"
	OpEncryptAuthenticated  Op = "encryptAuthenticated"
	OpDecryptAuthenticated  Op = "decryptAuthenticated"
	OpSignWithConfig        Op = "signWithConfig"
	OpVerifyWithConfig      Op = "verifyWithConfig"

	OpBackupKeys  Op = "backupKeys"
	OpRestoreKeys Op = "restoreKeys"

	OpResetService      Op = "resetService"
	OpGetDiagnosticInfo Op = "getDiagnosticInfo"
	OpGetConfiguration  Op = "getConfiguration"
	OpSetConfiguration  Op = "setConfiguration"
	OpGetMetrics        Op = "getMetrics"
)

// MaxArgs is the highest positional argument count the dispatch
// mechanism supports reliably. Calls needing more logical parameters
// pack them into a single Bag argument instead of extending arity.
const MaxArgs = 3

// Reply is the single transport answer shape: exactly one of a native
// error, a success payload, or an explicit no-data marker.
type Reply struct {
	Payload []byte
	NoData  bool
	Err     error
}

// ErrorReply wraps a native error as a reply.
func ErrorReply(err error) Reply {
	return Reply{Err: err}
}

// DataReply wraps a success payload as a reply.
func DataReply(payload []byte) Reply {
	return Reply{Payload: payload}
}

// EmptyReply is the explicit no-data success marker.
func EmptyReply() Reply {
	return Reply{NoData: true}
}

// Conn is one connection to the remote service. A Conn is owned by the
// adapter that constructed it; nobody else issues calls on it. Once
// invalidated a Conn is permanently dead.
type Conn interface {
	// Send issues op with up to MaxArgs positional byte arguments.
	// done is invoked exactly once with the reply, on an arbitrary
	// goroutine. Send returns an error only when the connection can no
	// longer accept calls at all.
	Send(op Op, args [][]byte, done func(Reply)) error

	// OnInvalidate registers f to run once when the connection dies.
	// Registering on an already dead connection invokes f immediately.
	OnInvalidate(f func(reason error))

	// Close invalidates the connection. Pending calls resolve with an
	// invalidation error; they never hang.
	Close() error
}

// Native transport failure classes. The classifier in the root package
// maps these onto the closed taxonomy; nothing above the adapter layer
// ever sees them.
var (
	// ErrClosed means the connection was closed locally.
	ErrClosed = errors.New("transport: connection closed")

	// ErrInvalidated means the connection was invalidated by the peer.
	ErrInvalidated = errors.New("transport: connection invalidated")

	// ErrInterrupted means the connection dropped mid-call and may not recover.
	ErrInterrupted = errors.New("transport: connection interrupted")
)

// UnknownOpError is returned when the remote side has no responder for
// the requested operation.
type UnknownOpError struct {
	Op Op
}

func (e *UnknownOpError) Error() string {
	return fmt.Sprintf("transport: unknown operation %q", string(e.Op))
}

// TimeoutError is the transport's own deadline failure.
type TimeoutError struct {
	After time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("transport: call timed out after %s", e.After)
}

// KeyRefError is the remote side's report of a missing key.
type KeyRefError struct {
	ID string
}

func (e *KeyRefError) Error() string {
	return fmt.Sprintf("transport: no key with identifier %q", e.ID)
}

// BadRequestError is the remote side's report of a request it could
// not parse: wrong argument count, malformed payload, unusable values.
type BadRequestError struct {
	Reason string
}

func (e *BadRequestError) Error() string {
	return "transport: bad request: " + e.Reason
}

// CryptoFault is the remote cryptographic provider's failure report,
// tagged with the suboperation that failed. Recognised suboperation
// names are listed in the root package's classifier.
type CryptoFault struct {
	Subop string
	Err   error
}

func (e *CryptoFault) Error() string {
	return fmt.Sprintf("transport: crypto fault in %s: %v", e.Subop, e.Err)
}

func (e *CryptoFault) Unwrap() error {
	return e.Err
}
