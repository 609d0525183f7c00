package localservice

import (
	"bytes"
	"errors"
	"testing"

	securerpc "github.com/rbaliyan/secure-rpc"
	"github.com/rbaliyan/secure-rpc/transport"
)

func testEntries() map[string]keyEntry {
	return map[string]keyEntry{
		"default": {
			material: bytes.Repeat([]byte{1}, 32),
			meta:     securerpc.KeyMetadata{ID: "default", Type: securerpc.KeyTypeSymmetric, Bits: 256},
		},
		"signing": {
			material: bytes.Repeat([]byte{2}, 32),
			meta:     securerpc.KeyMetadata{ID: "signing", Type: securerpc.KeyTypePrivate, Bits: 256},
		},
	}
}

func TestBackupRoundTrip(t *testing.T) {
	password := []byte("correct horse")
	blob, err := sealBackup(testEntries(), password)
	if err != nil {
		t.Fatalf("sealBackup: %v", err)
	}

	got, err := openBackup(blob, password)
	if err != nil {
		t.Fatalf("openBackup: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("entries: got %d, want 2", len(got))
	}
	if !bytes.Equal(got["default"].material, bytes.Repeat([]byte{1}, 32)) {
		t.Error("default material changed across round trip")
	}
	if got["signing"].meta.Type != securerpc.KeyTypePrivate {
		t.Errorf("signing meta type: got %q", got["signing"].meta.Type)
	}
}

func TestBackupBlobLayout(t *testing.T) {
	blob, err := sealBackup(testEntries(), []byte("pw"))
	if err != nil {
		t.Fatalf("sealBackup: %v", err)
	}
	if string(blob[0:2]) != backupMagic {
		t.Errorf("magic: got %q, want %q", blob[0:2], backupMagic)
	}
	if blob[2] != backupVersion {
		t.Errorf("version: got %d, want %d", blob[2], backupVersion)
	}
	if blob[3] != backupAlgPBKDF2GCM {
		t.Errorf("algorithm: got %d, want %d", blob[3], backupAlgPBKDF2GCM)
	}
}

func TestOpenBackupWrongPassword(t *testing.T) {
	blob, err := sealBackup(testEntries(), []byte("right"))
	if err != nil {
		t.Fatal(err)
	}
	_, err = openBackup(blob, []byte("wrong"))
	var fault *transport.CryptoFault
	if !errors.As(err, &fault) || fault.Subop != subopDecryption {
		t.Errorf("got %v, want a decryption fault", err)
	}
}

func TestOpenBackupMalformed(t *testing.T) {
	valid, err := sealBackup(testEntries(), []byte("pw"))
	if err != nil {
		t.Fatal(err)
	}

	tampered := append([]byte(nil), valid...)
	tampered[len(tampered)-1] ^= 0xFF

	wrongMagic := append([]byte(nil), valid...)
	wrongMagic[0] = 'X'

	wrongVersion := append([]byte(nil), valid...)
	wrongVersion[2] = 0x7F

	tests := []struct {
		name       string
		blob       []byte
		badRequest bool
	}{
		{"empty", nil, true},
		{"too short", []byte("SB"), true},
		{"wrong magic", wrongMagic, true},
		{"unknown version", wrongVersion, true},
		{"tampered ciphertext", tampered, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := openBackup(tc.blob, []byte("pw"))
			if err == nil {
				t.Fatal("malformed blob opened without error")
			}
			var badReq *transport.BadRequestError
			if got := errors.As(err, &badReq); got != tc.badRequest {
				t.Errorf("bad-request classification: got %v, want %v (%v)", got, tc.badRequest, err)
			}
		})
	}
}

func TestBackupSaltVaries(t *testing.T) {
	entries := testEntries()
	a, err := sealBackup(entries, []byte("pw"))
	if err != nil {
		t.Fatal(err)
	}
	b, err := sealBackup(entries, []byte("pw"))
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(a[4:backupHeaderSize], b[4:backupHeaderSize]) {
		t.Error("two backups share a salt")
	}
}
