package block

import "testing"

func TestMemoryStoreBasics(t *testing.T) {
	m := NewMemoryStore()
	b := New([]byte("mem"))
	m.Put(b)
	if !m.Contains(b.Digest) {
		t.Fatalf("expected contains to be true")
	}
	if m.Len() != 1 {
		t.Fatalf("expected len 1, got %d", m.Len())
	}
	got, ok := m.Get(b.Digest)
	if !ok || string(got.Data) != "mem" {
		t.Fatalf("expected to retrieve stored block")
	}
}
