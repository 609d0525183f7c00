package transport

import (
	"testing"
)

func TestBoolCodec(t *testing.T) {
	for _, v := range []bool{true, false} {
		got, err := DecodeBool(EncodeBool(v))
		if err != nil {
			t.Fatalf("DecodeBool(%v): %v", v, err)
		}
		if got != v {
			t.Errorf("round trip: got %v, want %v", got, v)
		}
	}
}

func TestDecodeBoolRejectsMalformed(t *testing.T) {
	for _, p := range [][]byte{nil, {}, {2}, {0, 1}} {
		if _, err := DecodeBool(p); err == nil {
			t.Errorf("DecodeBool(%v): no error", p)
		}
	}
}

func TestUint32Codec(t *testing.T) {
	for _, v := range []uint32{0, 1, 256, 1 << 31, ^uint32(0)} {
		got, err := DecodeUint32(EncodeUint32(v))
		if err != nil {
			t.Fatalf("DecodeUint32(%d): %v", v, err)
		}
		if got != v {
			t.Errorf("round trip: got %d, want %d", got, v)
		}
	}
	if _, err := DecodeUint32([]byte{1, 2, 3}); err == nil {
		t.Error("short payload decoded without error")
	}
}

func TestStringMapCodec(t *testing.T) {
	want := map[string]string{"state": "running", "keys": "3"}
	p, err := EncodeStringMap(want)
	if err != nil {
		t.Fatal(err)
	}
	got, err := DecodeStringMap(p)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(want) || got["state"] != "running" || got["keys"] != "3" {
		t.Errorf("got %v, want %v", got, want)
	}
	if _, err := DecodeStringMap([]byte("not json")); err == nil {
		t.Error("malformed map decoded without error")
	}
}

func TestStringsCodec(t *testing.T) {
	want := []string{"default", "key-1"}
	p, err := EncodeStrings(want)
	if err != nil {
		t.Fatal(err)
	}
	got, err := DecodeStrings(p)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != "default" || got[1] != "key-1" {
		t.Errorf("got %v, want %v", got, want)
	}
}
