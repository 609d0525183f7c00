package localservice

import (
	"errors"
	"testing"

	securerpc "github.com/rbaliyan/secure-rpc"
	"github.com/rbaliyan/secure-rpc/transport"
)

func TestKeyStoreEmptyIDSelectsDefault(t *testing.T) {
	s := newKeyStore()
	s.put("first", []byte{1}, securerpc.KeyMetadata{})
	s.put("second", []byte{2}, securerpc.KeyMetadata{})

	entry, resolved, err := s.get("")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if resolved != "first" {
		t.Errorf("resolved: got %q, want %q", resolved, "first")
	}
	if entry.material[0] != 1 {
		t.Errorf("material: got %v", entry.material)
	}
}

func TestKeyStoreDefaultMovesOnDelete(t *testing.T) {
	s := newKeyStore()
	s.put("first", []byte{1}, securerpc.KeyMetadata{})
	s.put("second", []byte{2}, securerpc.KeyMetadata{})

	if err := s.delete("first"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, resolved, err := s.get("")
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if resolved != "second" {
		t.Errorf("resolved: got %q, want %q", resolved, "second")
	}
}

func TestKeyStoreMissReportsRequestedID(t *testing.T) {
	s := newKeyStore()
	_, _, err := s.get("absent")
	var keyRef *transport.KeyRefError
	if !errors.As(err, &keyRef) {
		t.Fatalf("got %v, want KeyRefError", err)
	}
	if keyRef.ID != "absent" {
		t.Errorf("ID: got %q, want %q", keyRef.ID, "absent")
	}
}

func TestKeyStoreGetReturnsCopy(t *testing.T) {
	s := newKeyStore()
	s.put("k", []byte{9}, securerpc.KeyMetadata{})

	entry, _, err := s.get("k")
	if err != nil {
		t.Fatal(err)
	}
	entry.material[0] = 0

	again, _, err := s.get("k")
	if err != nil {
		t.Fatal(err)
	}
	if again.material[0] != 9 {
		t.Error("mutating a returned entry reached the store")
	}
}

func TestKeyStorePutCopiesMaterial(t *testing.T) {
	s := newKeyStore()
	material := []byte{5}
	s.put("k", material, securerpc.KeyMetadata{})
	material[0] = 0

	entry, _, err := s.get("k")
	if err != nil {
		t.Fatal(err)
	}
	if entry.material[0] != 5 {
		t.Error("store aliases the caller's slice")
	}
}

func TestKeyStoreMetadataStampsIDAndTime(t *testing.T) {
	s := newKeyStore()
	s.put("k", []byte{1}, securerpc.KeyMetadata{Type: securerpc.KeyTypeSymmetric})

	meta, err := s.metadata("k")
	if err != nil {
		t.Fatal(err)
	}
	if meta.ID != "k" {
		t.Errorf("ID: got %q, want %q", meta.ID, "k")
	}
	if meta.CreatedAt.IsZero() {
		t.Error("CreatedAt not stamped")
	}
}
