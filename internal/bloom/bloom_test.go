package bloom

import (
	"encoding/json"
	"fmt"
	"testing"
)

func TestBasicInsertAndLookup(t *testing.T) {
	f := New(100, 0.01)
	f.Insert([]byte("hello"))
	f.Insert([]byte("world"))

	if !f.MayContain([]byte("hello")) || !f.MayContain([]byte("world")) {
		t.Fatalf("expected inserted keys to be found")
	}
	if f.MayContain([]byte("missing")) {
		t.Logf("false positive on 'missing' (acceptable, bloom filters are probabilistic)")
	}
}

func TestNoFalseNegatives(t *testing.T) {
	f := New(1000, 0.01)
	keys := make([]string, 500)
	for i := range keys {
		keys[i] = fmt.Sprintf("key_%d", i)
	}
	for _, k := range keys {
		f.Insert([]byte(k))
	}
	for _, k := range keys {
		if !f.MayContain([]byte(k)) {
			t.Fatalf("false negative for %s", k)
		}
	}
}

func TestEmptyFilterHasNoMatches(t *testing.T) {
	f := New(100, 0.01)
	if f.MayContain([]byte("anything")) {
		t.Fatalf("expected empty filter to reject everything")
	}
	if f.Count() != 0 {
		t.Fatalf("expected count 0")
	}
}

func TestMergeFilters(t *testing.T) {
	f1 := New(100, 0.01)
	f2 := New(100, 0.01)
	f1.Insert([]byte("alpha"))
	f2.Insert([]byte("beta"))

	if f1.MayContain([]byte("beta")) {
		t.Fatalf("expected beta absent before merge")
	}
	if !f1.Merge(f2) {
		t.Fatalf("expected compatible merge to succeed")
	}
	if !f1.MayContain([]byte("alpha")) || !f1.MayContain([]byte("beta")) {
		t.Fatalf("expected both keys present after merge")
	}
}

func TestMergeIncompatibleFails(t *testing.T) {
	f1 := New(100, 0.01)
	f2 := New(1000, 0.1)
	if f1.Merge(f2) {
		t.Fatalf("expected incompatible merge to fail")
	}
}

func TestCountTracksInserts(t *testing.T) {
	f := New(100, 0.01)
	f.Insert([]byte("a"))
	f.Insert([]byte("b"))
	if f.Count() != 2 {
		t.Fatalf("expected count 2, got %d", f.Count())
	}
}

func TestPersistRoundtrip(t *testing.T) {
	f := New(100, 0.01)
	f.Insert([]byte("persisted"))

	data, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var f2 Filter
	if err := json.Unmarshal(data, &f2); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !f2.MayContain([]byte("persisted")) {
		t.Fatalf("expected restored filter to retain membership")
	}
}

func TestRebuildFromKeys(t *testing.T) {
	f := Rebuild([]string{"a", "b", "c"}, 0.01)
	for _, k := range []string{"a", "b", "c"} {
		if !f.MayContain([]byte(k)) {
			t.Fatalf("expected rebuilt filter to contain %s", k)
		}
	}
}
