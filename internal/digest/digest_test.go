package digest

import "testing"

func TestOfIsStable(t *testing.T) {
	a := Of([]byte("hello"))
	b := Of([]byte("hello"))
	if a != b {
		t.Fatalf("expected stable digest, got %s != %s", a, b)
	}
}

func TestOfDiffersOnContent(t *testing.T) {
	a := Of([]byte("hello"))
	b := Of([]byte("world"))
	if a == b {
		t.Fatalf("expected different digests for different content")
	}
}

func TestPrefix(t *testing.T) {
	d := Of([]byte("x"))
	if got := d.Prefix(2); len(got) != 2 {
		t.Fatalf("expected 2-char prefix, got %q", got)
	}
	short := Digest("a")
	if got := short.Prefix(2); got != "a" {
		t.Fatalf("expected short digest returned unchanged, got %q", got)
	}
}

func TestSeededVaries(t *testing.T) {
	a := Seeded(0, []byte("key"))
	b := Seeded(1, []byte("key"))
	if a == b {
		t.Fatalf("expected different seeds to produce different digests")
	}
}
