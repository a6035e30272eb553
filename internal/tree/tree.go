// Package tree implements SnapshotTree: an immutable, sorted
// key-to-value mapping whose root digest is a pure function of its
// contents. Every mutator returns a new tree; inputs are never
// mutated (copy-on-write).
package tree

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/quantumnic/iceberg/internal/digest"
)

// Entry is one key/value pair of a tree, used where callers need an
// ordered view (range, scan_prefix, diff).
type Entry struct {
	Key   string
	Value []byte
}

// Tree is a finite, immutable mapping from string keys to byte values
// with deterministic sorted iteration order.
type Tree struct {
	root    digest.Digest
	entries map[string][]byte
}

// Empty returns the empty tree.
func Empty() *Tree {
	return &Tree{entries: map[string][]byte{}, root: computeRoot(map[string][]byte{})}
}

// RootDigest returns root_digest = hash(canonical_serialize(entries)).
func (t *Tree) RootDigest() digest.Digest {
	return t.root
}

// Len returns the number of entries.
func (t *Tree) Len() int {
	return len(t.entries)
}

// IsEmpty reports whether the tree has no entries.
func (t *Tree) IsEmpty() bool {
	return len(t.entries) == 0
}

// Get returns the value for key, if present.
func (t *Tree) Get(key string) ([]byte, bool) {
	v, ok := t.entries[key]
	return v, ok
}

// Contains reports whether key is present.
func (t *Tree) Contains(key string) bool {
	_, ok := t.entries[key]
	return ok
}

// Insert returns a new tree with key set to value, sharing no mutable
// state with the receiver.
func (t *Tree) Insert(key string, value []byte) *Tree {
	next := t.cloneEntries()
	next[key] = value
	return &Tree{entries: next, root: computeRoot(next)}
}

// Delete returns a new tree with key removed, if present.
func (t *Tree) Delete(key string) *Tree {
	next := t.cloneEntries()
	delete(next, key)
	return &Tree{entries: next, root: computeRoot(next)}
}

// Range returns entries with start <= k < end, in sorted order. Empty
// if start >= end.
func (t *Tree) Range(start, end string) []Entry {
	if start >= end {
		return nil
	}
	var out []Entry
	for _, k := range t.sortedKeys() {
		if k < start {
			continue
		}
		if k >= end {
			break
		}
		out = append(out, Entry{Key: k, Value: t.entries[k]})
	}
	return out
}

// ScanPrefix returns entries whose key starts with prefix, in sorted
// order. An empty prefix matches every key.
func (t *Tree) ScanPrefix(prefix string) []Entry {
	var out []Entry
	for _, k := range t.sortedKeys() {
		if strings.HasPrefix(k, prefix) {
			out = append(out, Entry{Key: k, Value: t.entries[k]})
		}
	}
	return out
}

// All returns every entry in sorted key order.
func (t *Tree) All() []Entry {
	return t.ScanPrefix("")
}

// Diff reports added, removed and modified keys between t (self) and
// other: added = keys in other not in t; removed = keys in t not in
// other; modified = keys in both with differing bytes. Each list is
// sorted.
func (t *Tree) Diff(other *Tree) Diff {
	var added, removed, modified []string
	for _, k := range other.sortedKeys() {
		oldV, ok := t.entries[k]
		if !ok {
			added = append(added, k)
		} else if string(oldV) != string(other.entries[k]) {
			modified = append(modified, k)
		}
	}
	for _, k := range t.sortedKeys() {
		if _, ok := other.entries[k]; !ok {
			removed = append(removed, k)
		}
	}
	sort.Strings(added)
	sort.Strings(removed)
	sort.Strings(modified)
	return Diff{Added: added, Removed: removed, Modified: modified}
}

// Diff is the result of comparing two trees.
type Diff struct {
	Added    []string
	Removed  []string
	Modified []string
}

// IsEmpty reports whether the diff carries no changes.
func (d Diff) IsEmpty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Modified) == 0
}

// TotalChanges returns the total number of changed keys.
func (d Diff) TotalChanges() int {
	return len(d.Added) + len(d.Removed) + len(d.Modified)
}

func (t *Tree) sortedKeys() []string {
	keys := make([]string, 0, len(t.entries))
	for k := range t.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (t *Tree) cloneEntries() map[string][]byte {
	next := make(map[string][]byte, len(t.entries)+1)
	for k, v := range t.entries {
		next[k] = v
	}
	return next
}

// canonical is the wire representation used to compute a tree's root
// digest: entries sorted ascending by key so identity is a pure
// function of contents, independent of construction order.
type canonical struct {
	Keys   []string `json:"keys"`
	Values [][]byte `json:"values"`
}

func computeRoot(entries map[string][]byte) digest.Digest {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	values := make([][]byte, len(keys))
	for i, k := range keys {
		values[i] = entries[k]
	}
	data, _ := json.Marshal(canonical{Keys: keys, Values: values})
	return digest.Of(data)
}

// MarshalJSON serializes the tree for persistence, keyed by root
// digest so BlockStore-style dedup and on-disk naming can use it.
func (t *Tree) MarshalJSON() ([]byte, error) {
	keys := t.sortedKeys()
	entries := make(map[string][]byte, len(keys))
	for _, k := range keys {
		entries[k] = t.entries[k]
	}
	return json.Marshal(struct {
		RootDigest digest.Digest     `json:"root_digest"`
		Entries    map[string][]byte `json:"entries"`
	}{RootDigest: t.root, Entries: entries})
}

// UnmarshalJSON restores a tree from its persisted form.
func (t *Tree) UnmarshalJSON(data []byte) error {
	var wire struct {
		RootDigest digest.Digest     `json:"root_digest"`
		Entries    map[string][]byte `json:"entries"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if wire.Entries == nil {
		wire.Entries = map[string][]byte{}
	}
	t.entries = wire.Entries
	t.root = wire.RootDigest
	return nil
}
