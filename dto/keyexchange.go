package dto

import (
	"context"

	"github.com/google/uuid"

	securerpc "github.com/rbaliyan/secure-rpc"
)

// GenerateKeyExchangeData produces fresh public and private values for
// a key exchange under cfg. Both values are random blocks of the
// configured key size.
func (a *Adapter) GenerateKeyExchangeData(ctx context.Context, cfg securerpc.SecurityConfig) OperationResult[securerpc.KeyExchangeParams] {
	if err := cfg.Validate(); err != nil {
		return FromError[securerpc.KeyExchangeParams](err)
	}
	size := cfg.KeySizeBits / 8

	private, err := a.svc.GenerateRandomData(ctx, size)
	if err != nil {
		return FromError[securerpc.KeyExchangeParams](err)
	}
	public, err := a.svc.GenerateRandomData(ctx, size)
	if err != nil {
		return FromError[securerpc.KeyExchangeParams](err)
	}
	return Success(securerpc.KeyExchangeParams{
		PublicKey:  public,
		PrivateKey: private,
		Algorithm:  cfg.Algorithm,
	})
}

// CalculateSharedSecret derives the shared value from one side's
// private value and the peer's public value. Both inputs are imported
// as temporary keys for the derivation and removed again before the
// result is returned, whether or not the derivation succeeds.
func (a *Adapter) CalculateSharedSecret(ctx context.Context, privateKey, peerPublicKey securerpc.SecureBytes, cfg securerpc.SecurityConfig) OperationResult[securerpc.SecureBytes] {
	if privateKey.IsEmpty() || peerPublicKey.IsEmpty() {
		return FromError[securerpc.SecureBytes](
			securerpc.InvalidInput("key exchange requires both a private and a peer public value"))
	}
	if err := cfg.Validate(); err != nil {
		return FromError[securerpc.SecureBytes](err)
	}

	privateID, err := a.svc.ImportKey(ctx, privateKey, "kx-"+uuid.NewString())
	if err != nil {
		return FromError[securerpc.SecureBytes](err)
	}
	defer a.deleteTemporary(ctx, privateID)

	publicID, err := a.svc.ImportKey(ctx, peerPublicKey, "kx-"+uuid.NewString())
	if err != nil {
		return FromError[securerpc.SecureBytes](err)
	}
	defer a.deleteTemporary(ctx, publicID)

	peer, err := a.svc.ExportKey(ctx, publicID)
	if err != nil {
		return FromError[securerpc.SecureBytes](err)
	}
	info, err := peer.Bytes()
	if err != nil {
		return FromError[securerpc.SecureBytes](err)
	}
	defer securerpc.Wipe(info)

	secret, err := a.svc.DeriveKeyFromKey(ctx, privateID, securerpc.NewSecureBytes(info), cfg)
	if err != nil {
		return FromError[securerpc.SecureBytes](err)
	}
	return Success(secret)
}

// deleteTemporary removes a temporary exchange key. Failures are logged
// rather than surfaced since the shared secret may already be
// committed to the caller.
func (a *Adapter) deleteTemporary(ctx context.Context, keyID string) {
	if err := a.svc.DeleteKey(ctx, keyID); err != nil {
		a.log.Warn().Err(err).Str("keyId", keyID).Msg("temporary exchange key not deleted")
	}
}
