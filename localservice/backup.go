package localservice

import (
	"encoding/json"
	"time"

	securerpc "github.com/rbaliyan/secure-rpc"
	"github.com/rbaliyan/secure-rpc/transport"
)

// Backup blob format constants.
const (
	// backupMagic is the 2-byte blob signature "SB" (Sealed Backup).
	backupMagic = "SB"

	// backupVersion is the current blob format version.
	backupVersion = 0x01

	// backupAlgPBKDF2GCM identifies PBKDF2-SHA256 key stretching with
	// AES-256-GCM sealing.
	backupAlgPBKDF2GCM = 0x01

	// backupSaltSize is the PBKDF2 salt length.
	backupSaltSize = 16

	// backupHeaderSize is magic(2) + version(1) + alg(1) + salt.
	backupHeaderSize = 4 + backupSaltSize
)

// backupEntry is one key in the serialized backup payload.
type backupEntry struct {
	Material []byte                `json:"material"`
	Meta     securerpc.KeyMetadata `json:"meta"`
}

// sealBackup serializes all stored keys and seals them under a key
// stretched from password. Layout: magic, version, algorithm, salt,
// then nonce-prefixed AES-GCM ciphertext with the header as AAD.
func sealBackup(entries map[string]keyEntry, password []byte) ([]byte, error) {
	payload := make(map[string]backupEntry, len(entries))
	for id, entry := range entries {
		payload[id] = backupEntry{Material: entry.material, Meta: entry.meta}
	}
	plaintext, err := json.Marshal(payload)
	if err != nil {
		return nil, &transport.CryptoFault{Subop: subopEncryption, Err: err}
	}

	salt, err := randomBytes(backupSaltSize)
	if err != nil {
		return nil, err
	}
	cfg := securerpc.NewSecurityConfig("pbkdf2-sha256", aesKeySize*8)
	key, err := deriveFromPassword(password, salt, cfg)
	if err != nil {
		return nil, err
	}
	defer clear(key)

	header := make([]byte, 0, backupHeaderSize)
	header = append(header, backupMagic...)
	header = append(header, backupVersion, backupAlgPBKDF2GCM)
	header = append(header, salt...)

	sealed, err := sealAESGCM(key, plaintext, header)
	if err != nil {
		return nil, err
	}
	return append(header, sealed...), nil
}

// openBackup reverses sealBackup. Malformed blobs and wrong passwords
// come back as native errors, never panics.
func openBackup(blob, password []byte) (map[string]keyEntry, error) {
	if len(blob) < backupHeaderSize {
		return nil, &transport.BadRequestError{Reason: "backup blob too short"}
	}
	if string(blob[0:2]) != backupMagic {
		return nil, &transport.BadRequestError{Reason: "not a backup blob"}
	}
	if blob[2] != backupVersion {
		return nil, &transport.BadRequestError{Reason: "unsupported backup version"}
	}
	if blob[3] != backupAlgPBKDF2GCM {
		return nil, &transport.BadRequestError{Reason: "unsupported backup algorithm"}
	}

	header := blob[:backupHeaderSize]
	salt := blob[4:backupHeaderSize]
	cfg := securerpc.NewSecurityConfig("pbkdf2-sha256", aesKeySize*8)
	key, err := deriveFromPassword(password, salt, cfg)
	if err != nil {
		return nil, err
	}
	defer clear(key)

	plaintext, err := openAESGCM(key, blob[backupHeaderSize:], header)
	if err != nil {
		return nil, err
	}
	defer clear(plaintext)

	var payload map[string]backupEntry
	if err := json.Unmarshal(plaintext, &payload); err != nil {
		return nil, &transport.BadRequestError{Reason: "backup payload is not decodable"}
	}

	entries := make(map[string]keyEntry, len(payload))
	for id, e := range payload {
		meta := e.Meta
		if meta.CreatedAt.IsZero() {
			meta.CreatedAt = time.Now().UTC()
		}
		entries[id] = keyEntry{material: e.Material, meta: meta}
	}
	return entries, nil
}
