package client

import (
	"context"

	securerpc "github.com/rbaliyan/secure-rpc"
	"github.com/rbaliyan/secure-rpc/transport"
)

// StandardClient implements the Standard tier by composing a
// BasicClient and forwarding the added operations over the same
// connection. Input validation that needs no remote knowledge (empty
// payloads, non-positive lengths) short-circuits locally, before any
// transport round trip.
type StandardClient struct {
	*BasicClient
}

// Compile-time interface check.
var _ securerpc.StandardService = (*StandardClient)(nil)

// NewStandardClient binds a Standard tier adapter to conn.
func NewStandardClient(conn transport.Conn, opts ...Option) *StandardClient {
	return &StandardClient{BasicClient: NewBasicClient(conn, opts...)}
}

// ProtocolID identifies the Standard contract.
func (c *StandardClient) ProtocolID() string {
	return securerpc.ProtocolIDStandard
}

// GenerateRandomData returns length cryptographically random bytes from
// the service.
func (c *StandardClient) GenerateRandomData(ctx context.Context, length int) (securerpc.SecureBytes, error) {
	if length <= 0 {
		return securerpc.SecureBytes{}, securerpc.InvalidInput("length must be positive")
	}
	r, err := c.call(ctx, transport.OpGenerateRandomData, transport.EncodeUint32(uint32(length)))
	if err != nil {
		return securerpc.SecureBytes{}, err
	}
	return securerpc.DecodeReply(r, securerpc.SecurePayload)
}

// EncryptWithKey encrypts data under the named key, or the service
// default key when keyID is empty.
func (c *StandardClient) EncryptWithKey(ctx context.Context, data securerpc.SecureBytes, keyID string) (securerpc.SecureBytes, error) {
	if data.IsEmpty() {
		return securerpc.SecureBytes{}, securerpc.InvalidData("Cannot encrypt empty data")
	}
	return c.secureCall(ctx, transport.OpEncryptData, data, []byte(keyID))
}

// DecryptWithKey decrypts data under the named key, or the service
// default key when keyID is empty.
func (c *StandardClient) DecryptWithKey(ctx context.Context, data securerpc.SecureBytes, keyID string) (securerpc.SecureBytes, error) {
	if data.IsEmpty() {
		return securerpc.SecureBytes{}, securerpc.InvalidData("Cannot decrypt empty data")
	}
	return c.secureCall(ctx, transport.OpDecryptData, data, []byte(keyID))
}

// Hash computes the service digest of data.
func (c *StandardClient) Hash(ctx context.Context, data securerpc.SecureBytes) (securerpc.SecureBytes, error) {
	if data.IsEmpty() {
		return securerpc.SecureBytes{}, securerpc.InvalidData("Cannot hash empty data")
	}
	return c.secureCall(ctx, transport.OpHashData, data)
}

// Sign produces a signature of data bound to the named key.
func (c *StandardClient) Sign(ctx context.Context, data securerpc.SecureBytes, keyID string) (securerpc.SecureBytes, error) {
	if data.IsEmpty() {
		return securerpc.SecureBytes{}, securerpc.InvalidData("Cannot sign empty data")
	}
	if keyID == "" {
		return securerpc.SecureBytes{}, securerpc.InvalidInput("key identifier must not be empty")
	}
	return c.secureCall(ctx, transport.OpSignData, data, []byte(keyID))
}

// Verify checks a signature of data against the named key. A failed
// check is (false, nil).
func (c *StandardClient) Verify(ctx context.Context, signature, data securerpc.SecureBytes, keyID string) (bool, error) {
	if signature.IsEmpty() || data.IsEmpty() {
		return false, securerpc.InvalidData("Cannot verify empty data")
	}
	if keyID == "" {
		return false, securerpc.InvalidInput("key identifier must not be empty")
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

	r, err := c.call(ctx, transport.OpVerifyData, sig, raw, []byte(keyID))
	if err != nil {
		return false, err
	}
	return securerpc.DecodeReply(r, securerpc.BoolPayload)
}

// Status returns the service's diagnostic key/value snapshot.
func (c *StandardClient) Status(ctx context.Context) (map[string]string, error) {
	r, err := c.call(ctx, transport.OpGetServiceStatus)
	if err != nil {
		return nil, err
	}
	return securerpc.DecodeReply(r, securerpc.StringMapPayload)
}

// secureCall forwards one secure payload plus trailing byte args and
// seals the result.
func (c *StandardClient) secureCall(ctx context.Context, op transport.Op, data securerpc.SecureBytes, extra ...[]byte) (securerpc.SecureBytes, error) {
	raw, err := data.Bytes()
	if err != nil {
		return securerpc.SecureBytes{}, securerpc.Classify(err)
	}
	defer securerpc.Wipe(raw)

	args := append([][]byte{raw}, extra...)
	r, err := c.call(ctx, op, args...)
	if err != nil {
		return securerpc.SecureBytes{}, err
	}
	return securerpc.DecodeReply(r, securerpc.SecurePayload)
}
