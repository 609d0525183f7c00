package securerpc

import (
	"encoding/json"

	"github.com/rbaliyan/secure-rpc/transport"
)

// Reply interpretation: one transport reply is exactly one of a native
// error, a success payload, or an explicit no-data marker. Errors run
// through Classify; payloads run through a typed transform; anything
// else is invalid data. Malformed replies are a recoverable error
// condition, never a panic.

const unexpectedResultFormat = "unexpected result format"

// DecodeReply interprets a reply whose success carries a payload.
func DecodeReply[T any](r transport.Reply, transform func([]byte) (T, error)) (T, error) {
	var zero T
	if r.Err != nil {
		return zero, Classify(r.Err)
	}
	if r.NoData || r.Payload == nil {
		return zero, InvalidData(unexpectedResultFormat)
	}
	v, err := transform(r.Payload)
	if err != nil {
		return zero, InvalidData(err.Error()).WithCause(err)
	}
	return v, nil
}

// DecodeVoid interprets a reply for an operation with no result value.
// Both a no-data marker and an ignored payload count as success.
func DecodeVoid(r transport.Reply) error {
	if r.Err != nil {
		return Classify(r.Err)
	}
	return nil
}

// SecurePayload seals a raw payload into a SecureBytes value.
// Round trip with SecureBytes.Bytes is lossless, byte for byte.
func SecurePayload(p []byte) (SecureBytes, error) {
	return NewSecureBytes(p), nil
}

// BoolPayload decodes a boolean payload.
func BoolPayload(p []byte) (bool, error) {
	return transport.DecodeBool(p)
}

// StringPayload decodes a UTF-8 string payload.
func StringPayload(p []byte) (string, error) {
	return string(p), nil
}

// StringMapPayload decodes a string map payload.
func StringMapPayload(p []byte) (map[string]string, error) {
	return transport.DecodeStringMap(p)
}

// StringsPayload decodes a string list payload.
func StringsPayload(p []byte) ([]string, error) {
	return transport.DecodeStrings(p)
}

// JSONPayload decodes a JSON-encoded structured payload.
func JSONPayload[T any](p []byte) (T, error) {
	var v T
	if err := json.Unmarshal(p, &v); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}
