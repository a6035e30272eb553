package block

import "testing"

func TestBlockContentAddressable(t *testing.T) {
	b1 := New([]byte("hello"))
	b2 := New([]byte("hello"))
	if b1.Digest != b2.Digest {
		t.Fatalf("expected equal digests for equal content")
	}
	if !b1.Verify() {
		t.Fatalf("expected block to verify")
	}
}

func TestBlockTamperedFailsVerify(t *testing.T) {
	b := New([]byte("original"))
	b.Data = []byte("tampered")
	if b.Verify() {
		t.Fatalf("expected tampered block to fail verification")
	}
}

func TestFlateCodecRoundtrip(t *testing.T) {
	c := FlateCodec{}
	original := []byte("abcdefgh abcdefgh abcdefgh abcdefgh abcdefgh")
	encoded, err := c.Encode(original)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := c.Decode(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(decoded) != string(original) {
		t.Fatalf("roundtrip mismatch: got %q", decoded)
	}
}

func TestCodecByName(t *testing.T) {
	if _, ok := CodecByName("bogus"); ok {
		t.Fatalf("expected unknown codec name to fail")
	}
	if c, ok := CodecByName(""); !ok || c.Name() != "none" {
		t.Fatalf("expected empty name to resolve to passthrough")
	}
}
