// Package localservice is an in-process implementation of the remote
// security service boundary. It answers every operation of the wire
// contract with real cryptographic primitives and an in-memory key
// store, and plugs directly into transport.NewPipe, so the full adapter
// stack runs without a separate privileged process. It is the reference
// provider and the test bed, not a production secret store: nothing it
// holds survives the process.
package localservice

import (
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	securerpc "github.com/rbaliyan/secure-rpc"
	"github.com/rbaliyan/secure-rpc/transport"
)

const serviceVersion = "1.0.0"

// DefaultKeyID names the symmetric key the service creates at startup
// and uses whenever a call passes an empty key identifier.
const DefaultKeyID = "default"

// Service implements transport.Handler. Safe for concurrent use.
type Service struct {
	store *keyStore

	mu        sync.RWMutex
	cfg       securerpc.SecurityConfig
	startedAt time.Time

	metricsMu sync.Mutex
	opCounts  map[string]int64
}

// Compile-time interface check.
var _ transport.Handler = (*Service)(nil)

// New creates a service with a fresh default symmetric key.
func New() *Service {
	s := &Service{
		store:     newKeyStore(),
		cfg:       defaultConfig(),
		startedAt: time.Now().UTC(),
		opCounts:  make(map[string]int64),
	}
	s.installDefaultKey()
	return s
}

func defaultConfig() securerpc.SecurityConfig {
	return securerpc.NewSecurityConfig("aes-256-gcm", aesKeySize*8)
}

func (s *Service) installDefaultKey() {
	material, err := randomBytes(aesKeySize)
	if err != nil {
		// Entropy exhaustion at startup is unrecoverable.
		panic(fmt.Sprintf("localservice: cannot generate default key: %v", err))
	}
	s.store.put(DefaultKeyID, material, securerpc.KeyMetadata{
		Type:      securerpc.KeyTypeSymmetric,
		Bits:      aesKeySize * 8,
		Algorithm: "aes-256-gcm",
	})
	clear(material)
}

// Handle runs one operation and returns its reply. Unknown operations
// fail with the transport's unknown-op error; malformed requests fail
// with a bad-request error. Handle never panics on caller input.
func (s *Service) Handle(op transport.Op, args [][]byte) transport.Reply {
	s.count(op)

	switch op {
	case transport.OpPing:
		return transport.DataReply(transport.EncodeBool(true))
	case transport.OpSynchroniseKeys:
		return s.synchroniseKeys(args)
	case transport.OpGenerateRandomData:
		return s.generateRandomData(args)
	case transport.OpEncryptData:
		return s.encryptData(args)
	case transport.OpDecryptData:
		return s.decryptData(args)
	case transport.OpHashData:
		return s.hashData(args)
	case transport.OpSignData:
		return s.signData(args)
	case transport.OpVerifyData:
		return s.verifyData(args)
	case transport.OpGetServiceStatus:
		return s.serviceStatus()
	case transport.OpGetServiceVersion:
		return transport.DataReply([]byte(serviceVersion))
	case transport.OpGenerateKey:
		return s.generateKey(args)
	case transport.OpImportKey:
		return s.importKey(args)
	case transport.OpExportKey:
		return s.exportKey(args)
	case transport.OpDeleteKey:
		return s.deleteKey(args)
	case transport.OpListKeyIdentifiers:
		return s.listKeyIdentifiers()
	case transport.OpGetKeyMetadata:
		return s.getKeyMetadata(args)
	case transport.OpDeriveKeyFromPassword:
		return s.deriveKeyFromPassword(args)
	case transport.OpDeriveKeyFromKey:
		return s.deriveKeyFromKey(args)
	case transport.OpEncryptAuthenticated:
		return s.encryptAuthenticated(args)
	case transport.OpDecryptAuthenticated:
		return s.decryptAuthenticated(args)
	case transport.OpSignWithConfig:
		return s.signWithConfig(args)
	case transport.OpVerifyWithConfig:
		return s.verifyWithConfig(args)
	case transport.OpBackupKeys:
		return s.backupKeys(args)
	case transport.OpRestoreKeys:
		return s.restoreKeys(args)
	case transport.OpResetService:
		return s.resetService()
	case transport.OpGetDiagnosticInfo:
		return s.diagnosticInfo()
	case transport.OpGetConfiguration:
		return s.getConfiguration()
	case transport.OpSetConfiguration:
		return s.setConfiguration(args)
	case transport.OpGetMetrics:
		return s.getMetrics()
	default:
		return transport.ErrorReply(&transport.UnknownOpError{Op: op})
	}
}

func (s *Service) count(op transport.Op) {
	s.metricsMu.Lock()
	s.opCounts[string(op)]++
	s.metricsMu.Unlock()
}

func wantArgs(args [][]byte, n int) error {
	if len(args) != n {
		return &transport.BadRequestError{
			Reason: fmt.Sprintf("expected %d arguments, got %d", n, len(args)),
		}
	}
	return nil
}

func (s *Service) synchroniseKeys(args [][]byte) transport.Reply {
	if len(args) == 0 || len(args[0]) == 0 {
		// Nothing to push is a legitimate no-op.
		return transport.EmptyReply()
	}
	bag, err := transport.DecodeBag(args[0])
	if err != nil {
		return transport.ErrorReply(err)
	}
	for id, material := range bag {
		s.store.put(id, material, securerpc.KeyMetadata{
			Type: securerpc.KeyTypeSymmetric,
			Bits: len(material) * 8,
		})
	}
	return transport.EmptyReply()
}

func (s *Service) generateRandomData(args [][]byte) transport.Reply {
	if err := wantArgs(args, 1); err != nil {
		return transport.ErrorReply(err)
	}
	n, err := transport.DecodeUint32(args[0])
	if err != nil {
		return transport.ErrorReply(&transport.BadRequestError{Reason: err.Error()})
	}
	out, err := randomBytes(int(n))
	if err != nil {
		return transport.ErrorReply(err)
	}
	return transport.DataReply(out)
}

func (s *Service) encryptData(args [][]byte) transport.Reply {
	if err := wantArgs(args, 2); err != nil {
		return transport.ErrorReply(err)
	}
	entry, resolved, err := s.store.get(string(args[1]))
	if err != nil {
		return transport.ErrorReply(err)
	}
	defer clear(entry.material)

	sealed, err := sealAESGCM(entry.material, args[0], []byte(resolved))
	if err != nil {
		return transport.ErrorReply(err)
	}
	return transport.DataReply(sealed)
}

func (s *Service) decryptData(args [][]byte) transport.Reply {
	if err := wantArgs(args, 2); err != nil {
		return transport.ErrorReply(err)
	}
	entry, resolved, err := s.store.get(string(args[1]))
	if err != nil {
		return transport.ErrorReply(err)
	}
	defer clear(entry.material)

	plaintext, err := openAESGCM(entry.material, args[0], []byte(resolved))
	if err != nil {
		return transport.ErrorReply(err)
	}
	return transport.DataReply(plaintext)
}

func (s *Service) hashData(args [][]byte) transport.Reply {
	if err := wantArgs(args, 1); err != nil {
		return transport.ErrorReply(err)
	}
	return transport.DataReply(hashSHA256(args[0]))
}

func (s *Service) signData(args [][]byte) transport.Reply {
	if err := wantArgs(args, 2); err != nil {
		return transport.ErrorReply(err)
	}
	entry, _, err := s.store.get(string(args[1]))
	if err != nil {
		return transport.ErrorReply(err)
	}
	defer clear(entry.material)
	return transport.DataReply(signHMAC(entry.material, args[0]))
}

func (s *Service) verifyData(args [][]byte) transport.Reply {
	if err := wantArgs(args, 3); err != nil {
		return transport.ErrorReply(err)
	}
	entry, _, err := s.store.get(string(args[2]))
	if err != nil {
		return transport.ErrorReply(err)
	}
	defer clear(entry.material)
	return transport.DataReply(transport.EncodeBool(verifyHMAC(entry.material, args[0], args[1])))
}

func (s *Service) serviceStatus() transport.Reply {
	s.mu.RLock()
	uptime := time.Since(s.startedAt)
	s.mu.RUnlock()

	payload, err := transport.EncodeStringMap(map[string]string{
		"state":   "running",
		"version": serviceVersion,
		"keys":    strconv.Itoa(s.store.count()),
		"uptime":  uptime.Truncate(time.Second).String(),
	})
	if err != nil {
		return transport.ErrorReply(err)
	}
	return transport.DataReply(payload)
}

func (s *Service) generateKey(args [][]byte) transport.Reply {
	if err := wantArgs(args, 2); err != nil {
		return transport.ErrorReply(err)
	}
	keyType := securerpc.KeyType(args[0])
	bits, err := transport.DecodeUint32(args[1])
	if err != nil {
		return transport.ErrorReply(&transport.BadRequestError{Reason: err.Error()})
	}

	var material []byte
	var algorithm string
	switch keyType {
	case securerpc.KeyTypeSymmetric:
		material, err = randomBytes(int(bits) / 8)
		algorithm = "aes-256-gcm"
	case securerpc.KeyTypePrivate:
		if bits != 256 {
			return transport.ErrorReply(&transport.CryptoFault{
				Subop: subopKeyGeneration,
				Err:   fmt.Errorf("ed25519 keys are 256 bits, not %d", bits),
			})
		}
		material, err = randomBytes(32)
		algorithm = "ed25519"
	default:
		return transport.ErrorReply(&transport.CryptoFault{
			Subop: subopKeyGeneration,
			Err:   fmt.Errorf("cannot generate a key of type %q", keyType),
		})
	}
	if err != nil {
		return transport.ErrorReply(err)
	}
	defer clear(material)

	id := "key-" + uuid.NewString()
	s.store.put(id, material, securerpc.KeyMetadata{
		Type:      keyType,
		Bits:      int(bits),
		Algorithm: algorithm,
	})
	return transport.DataReply([]byte(id))
}

func (s *Service) importKey(args [][]byte) transport.Reply {
	if err := wantArgs(args, 2); err != nil {
		return transport.ErrorReply(err)
	}
	if len(args[0]) == 0 {
		return transport.ErrorReply(&transport.BadRequestError{Reason: "key material is empty"})
	}
	id := string(args[1])
	if id == "" {
		id = "key-" + uuid.NewString()
	}
	s.store.put(id, args[0], securerpc.KeyMetadata{
		Type: securerpc.KeyTypeSymmetric,
		Bits: len(args[0]) * 8,
	})
	return transport.DataReply([]byte(id))
}

func (s *Service) exportKey(args [][]byte) transport.Reply {
	if err := wantArgs(args, 1); err != nil {
		return transport.ErrorReply(err)
	}
	entry, _, err := s.store.get(string(args[0]))
	if err != nil {
		return transport.ErrorReply(err)
	}
	return transport.DataReply(entry.material)
}

func (s *Service) deleteKey(args [][]byte) transport.Reply {
	if err := wantArgs(args, 1); err != nil {
		return transport.ErrorReply(err)
	}
	if err := s.store.delete(string(args[0])); err != nil {
		return transport.ErrorReply(err)
	}
	return transport.EmptyReply()
}

func (s *Service) listKeyIdentifiers() transport.Reply {
	payload, err := transport.EncodeStrings(s.store.list())
	if err != nil {
		return transport.ErrorReply(err)
	}
	return transport.DataReply(payload)
}

func (s *Service) getKeyMetadata(args [][]byte) transport.Reply {
	if err := wantArgs(args, 1); err != nil {
		return transport.ErrorReply(err)
	}
	meta, err := s.store.metadata(string(args[0]))
	if err != nil {
		return transport.ErrorReply(err)
	}
	payload, err := json.Marshal(meta)
	if err != nil {
		return transport.ErrorReply(err)
	}
	return transport.DataReply(payload)
}

// decodeBagCall unpacks the single-bag argument convention used by
// calls with more than three logical parameters.
func decodeBagCall(args [][]byte) (transport.Bag, securerpc.SecurityConfig, error) {
	if err := wantArgs(args, 1); err != nil {
		return nil, securerpc.SecurityConfig{}, err
	}
	bag, err := transport.DecodeBag(args[0])
	if err != nil {
		return nil, securerpc.SecurityConfig{}, err
	}
	cfgRaw, ok := bag["config"]
	if !ok {
		return nil, securerpc.SecurityConfig{}, &transport.BadRequestError{Reason: "config entry is missing"}
	}
	var cfg securerpc.SecurityConfig
	if err := json.Unmarshal(cfgRaw, &cfg); err != nil {
		return nil, securerpc.SecurityConfig{}, &transport.BadRequestError{Reason: "config entry is not decodable"}
	}
	if cfg.KeySizeBits <= 0 || cfg.KeySizeBits%8 != 0 {
		return nil, securerpc.SecurityConfig{}, &transport.BadRequestError{Reason: "config key size is unusable"}
	}
	return bag, cfg, nil
}

func (s *Service) deriveKeyFromPassword(args [][]byte) transport.Reply {
	bag, cfg, err := decodeBagCall(args)
	if err != nil {
		return transport.ErrorReply(err)
	}
	password, ok := bag["password"]
	if !ok || len(password) == 0 {
		return transport.ErrorReply(&transport.BadRequestError{Reason: "password entry is missing"})
	}
	out, err := deriveFromPassword(password, bag["salt"], cfg)
	if err != nil {
		return transport.ErrorReply(err)
	}
	return transport.DataReply(out)
}

func (s *Service) deriveKeyFromKey(args [][]byte) transport.Reply {
	bag, cfg, err := decodeBagCall(args)
	if err != nil {
		return transport.ErrorReply(err)
	}
	keyID, ok := bag["keyId"]
	if !ok {
		return transport.ErrorReply(&transport.BadRequestError{Reason: "keyId entry is missing"})
	}
	entry, _, err := s.store.get(string(keyID))
	if err != nil {
		return transport.ErrorReply(err)
	}
	defer clear(entry.material)

	out, err := deriveFromKey(entry.material, bag["info"], cfg)
	if err != nil {
		return transport.ErrorReply(err)
	}
	return transport.DataReply(out)
}

// authenticatedAAD binds caller associated data and the resolved key
// identity together, mirrored on seal and open.
func authenticatedAAD(associated []byte, keyID string) []byte {
	out := make([]byte, 0, len(associated)+len(keyID))
	out = append(out, associated...)
	out = append(out, keyID...)
	return out
}

func (s *Service) encryptAuthenticated(args [][]byte) transport.Reply {
	if err := wantArgs(args, 3); err != nil {
		return transport.ErrorReply(err)
	}
	entry, resolved, err := s.store.get(string(args[2]))
	if err != nil {
		return transport.ErrorReply(err)
	}
	defer clear(entry.material)

	sealed, err := sealAESGCM(entry.material, args[0], authenticatedAAD(args[1], resolved))
	if err != nil {
		return transport.ErrorReply(err)
	}
	return transport.DataReply(sealed)
}

func (s *Service) decryptAuthenticated(args [][]byte) transport.Reply {
	if err := wantArgs(args, 3); err != nil {
		return transport.ErrorReply(err)
	}
	entry, resolved, err := s.store.get(string(args[2]))
	if err != nil {
		return transport.ErrorReply(err)
	}
	defer clear(entry.material)

	plaintext, err := openAESGCM(entry.material, args[0], authenticatedAAD(args[1], resolved))
	if err != nil {
		return transport.ErrorReply(err)
	}
	return transport.DataReply(plaintext)
}

// configuredKey decodes a serialized config and resolves the key named
// by its keyId option, defaulting to the service default key.
func (s *Service) configuredKey(cfgRaw []byte) (keyEntry, securerpc.SecurityConfig, error) {
	var cfg securerpc.SecurityConfig
	if err := json.Unmarshal(cfgRaw, &cfg); err != nil {
		return keyEntry{}, cfg, &transport.BadRequestError{Reason: "config is not decodable"}
	}
	keyID, _ := cfg.Option("keyId")
	entry, _, err := s.store.get(keyID)
	if err != nil {
		return keyEntry{}, cfg, err
	}
	return entry, cfg, nil
}

func (s *Service) signWithConfig(args [][]byte) transport.Reply {
	if err := wantArgs(args, 2); err != nil {
		return transport.ErrorReply(err)
	}
	entry, cfg, err := s.configuredKey(args[1])
	if err != nil {
		return transport.ErrorReply(err)
	}
	defer clear(entry.material)

	switch cfg.Algorithm {
	case "hmac-sha256":
		return transport.DataReply(signHMAC(entry.material, args[0]))
	case "ed25519":
		sig, err := signEd25519(entry.material, args[0])
		if err != nil {
			return transport.ErrorReply(err)
		}
		return transport.DataReply(sig)
	default:
		return transport.ErrorReply(&transport.CryptoFault{
			Subop: subopAuthentication,
			Err:   fmt.Errorf("unsupported signature algorithm %q", cfg.Algorithm),
		})
	}
}

func (s *Service) verifyWithConfig(args [][]byte) transport.Reply {
	if err := wantArgs(args, 3); err != nil {
		return transport.ErrorReply(err)
	}
	entry, cfg, err := s.configuredKey(args[2])
	if err != nil {
		return transport.ErrorReply(err)
	}
	defer clear(entry.material)

	switch cfg.Algorithm {
	case "hmac-sha256":
		return transport.DataReply(transport.EncodeBool(verifyHMAC(entry.material, args[0], args[1])))
	case "ed25519":
		ok, err := verifyEd25519(entry.material, args[0], args[1])
		if err != nil {
			return transport.ErrorReply(err)
		}
		return transport.DataReply(transport.EncodeBool(ok))
	default:
		return transport.ErrorReply(&transport.CryptoFault{
			Subop: subopAuthentication,
			Err:   fmt.Errorf("unsupported signature algorithm %q", cfg.Algorithm),
		})
	}
}

func (s *Service) backupKeys(args [][]byte) transport.Reply {
	if err := wantArgs(args, 1); err != nil {
		return transport.ErrorReply(err)
	}
	if len(args[0]) == 0 {
		return transport.ErrorReply(&transport.BadRequestError{Reason: "backup password is empty"})
	}
	blob, err := sealBackup(s.store.snapshot(), args[0])
	if err != nil {
		return transport.ErrorReply(err)
	}
	return transport.DataReply(blob)
}

func (s *Service) restoreKeys(args [][]byte) transport.Reply {
	if err := wantArgs(args, 2); err != nil {
		return transport.ErrorReply(err)
	}
	entries, err := openBackup(args[0], args[1])
	if err != nil {
		return transport.ErrorReply(err)
	}
	s.store.restore(entries)
	return transport.EmptyReply()
}

func (s *Service) resetService() transport.Reply {
	s.store.reset()
	s.installDefaultKey()

	s.mu.Lock()
	s.cfg = defaultConfig()
	s.startedAt = time.Now().UTC()
	s.mu.Unlock()

	s.metricsMu.Lock()
	s.opCounts = make(map[string]int64)
	s.metricsMu.Unlock()
	return transport.EmptyReply()
}

func (s *Service) diagnosticInfo() transport.Reply {
	s.mu.RLock()
	uptime := time.Since(s.startedAt)
	s.mu.RUnlock()

	payload, err := json.Marshal(securerpc.ServiceStatus{
		Reachable: true,
		Version:   serviceVersion,
		Info: map[string]string{
			"keys":   strconv.Itoa(s.store.count()),
			"uptime": uptime.Truncate(time.Second).String(),
		},
	})
	if err != nil {
		return transport.ErrorReply(err)
	}
	return transport.DataReply(payload)
}

func (s *Service) getConfiguration() transport.Reply {
	s.mu.RLock()
	cfg := s.cfg
	s.mu.RUnlock()

	payload, err := json.Marshal(cfg)
	if err != nil {
		return transport.ErrorReply(err)
	}
	return transport.DataReply(payload)
}

func (s *Service) setConfiguration(args [][]byte) transport.Reply {
	if err := wantArgs(args, 1); err != nil {
		return transport.ErrorReply(err)
	}
	var cfg securerpc.SecurityConfig
	if err := json.Unmarshal(args[0], &cfg); err != nil {
		return transport.ErrorReply(&transport.BadRequestError{Reason: "config is not decodable"})
	}
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	return transport.EmptyReply()
}

func (s *Service) getMetrics() transport.Reply {
	s.metricsMu.Lock()
	counts := make(map[string]string, len(s.opCounts))
	for op, n := range s.opCounts {
		counts[op] = strconv.FormatInt(n, 10)
	}
	s.metricsMu.Unlock()

	payload, err := transport.EncodeStringMap(counts)
	if err != nil {
		return transport.ErrorReply(err)
	}
	return transport.DataReply(payload)
}
