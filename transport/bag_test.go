package transport

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestBagRoundTrip(t *testing.T) {
	original := Bag{
		"password": []byte("hunter2"),
		"salt":     []byte{0x01, 0x02, 0x03},
		"config":   []byte(`{"algorithm":"aes-256-gcm"}`),
		"empty":    nil,
	}
	encoded, err := original.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := DecodeBag(encoded)
	if err != nil {
		t.Fatalf("DecodeBag: %v", err)
	}
	if len(got) != len(original) {
		t.Fatalf("entries: got %d, want %d", len(got), len(original))
	}
	for k, v := range original {
		if !bytes.Equal(got[k], v) {
			t.Errorf("entry %q: got %v, want %v", k, got[k], v)
		}
	}
}

func TestBagEncodeDeterministic(t *testing.T) {
	bag := Bag{"b": []byte("2"), "a": []byte("1"), "c": []byte("3")}
	first, err := bag.Encode()
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		again, err := bag.Encode()
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(first, again) {
			t.Fatal("encoding is not deterministic")
		}
	}
}

func TestBagEncodeRejectsBadKeys(t *testing.T) {
	for _, key := range []string{"", strings.Repeat("k", 256)} {
		bag := Bag{key: []byte("v")}
		if _, err := bag.Encode(); !errors.Is(err, ErrBadBag) {
			t.Errorf("key length %d: got %v, want ErrBadBag", len(key), err)
		}
	}
}

func TestBagEncodeEmpty(t *testing.T) {
	encoded, err := Bag{}.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := DecodeBag(encoded)
	if err != nil {
		t.Fatalf("DecodeBag: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d entries, want 0", len(got))
	}
}

func TestDecodeBagMalformed(t *testing.T) {
	valid, err := Bag{"key": []byte("value")}.Encode()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"zero key length", []byte{0, 'x'}},
		{"truncated key", []byte{5, 'a', 'b'}},
		{"truncated length", append([]byte{3}, []byte("key")...)},
		{"truncated value", valid[:len(valid)-1]},
		{"oversized value length", []byte{1, 'k', 0xFF, 0xFF, 0xFF, 0xFF}},
		{"duplicate key", append(append([]byte(nil), valid...), valid...)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeBag(tc.data); !errors.Is(err, ErrBadBag) {
				t.Errorf("got %v, want ErrBadBag", err)
			}
		})
	}
}

func TestDecodeBagCopiesValues(t *testing.T) {
	encoded, err := Bag{"k": []byte{7}}.Encode()
	if err != nil {
		t.Fatal(err)
	}
	bag, err := DecodeBag(encoded)
	if err != nil {
		t.Fatal(err)
	}

	// Mutating the wire buffer must not reach the decoded values.
	for i := range encoded {
		encoded[i] = 0xFF
	}
	if bag["k"][0] != 7 {
		t.Error("decoded value aliases the input buffer")
	}
}

func FuzzDecodeBag(f *testing.F) {
	seed, err := Bag{"password": []byte("pw"), "salt": []byte{1, 2}}.Encode()
	if err != nil {
		f.Fatal(err)
	}
	f.Add(seed)
	f.Add([]byte{})
	f.Add([]byte{0})
	f.Add([]byte{1, 'k', 0, 0, 0, 0})

	f.Fuzz(func(t *testing.T, data []byte) {
		bag, err := DecodeBag(data)
		if err != nil {
			if !errors.Is(err, ErrBadBag) {
				t.Errorf("non-bag error from malformed input: %v", err)
			}
			return
		}
		// A decodable bag must re-encode to something decodable.
		encoded, err := bag.Encode()
		if err != nil {
			t.Fatalf("re-encode of decoded bag: %v", err)
		}
		again, err := DecodeBag(encoded)
		if err != nil {
			t.Fatalf("re-decode: %v", err)
		}
		if len(again) != len(bag) {
			t.Fatalf("entries changed across round trip: %d != %d", len(again), len(bag))
		}
	})
}
