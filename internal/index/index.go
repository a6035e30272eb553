// Package index implements secondary JSON-field indexes over the
// engine's primary keyspace, following §4.7 of the specification.
package index

import (
	"sort"
	"strings"
	"sync"

	"github.com/quantumnic/iceberg/internal/icebergerr"
	"github.com/tidwall/gjson"
)

// SecondaryIndex is an inverted index: an extracted field value maps
// to the set of primary keys whose value produced it.
type SecondaryIndex struct {
	Name      string
	FieldPath string

	mu      sync.RWMutex
	entries map[string]map[string]struct{}
}

// New creates an empty secondary index on fieldPath (a dotted JSON
// path, e.g. "address.country").
func New(name, fieldPath string) *SecondaryIndex {
	return &SecondaryIndex{Name: name, FieldPath: fieldPath, entries: map[string]map[string]struct{}{}}
}

// IndexEntry indexes a key/value pair, first clearing any prior entry
// for primaryKey. Values that aren't valid JSON, or that are missing
// the field path, are silently left out of the index.
func (s *SecondaryIndex) IndexEntry(primaryKey string, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeKeyLocked(primaryKey)
	if fieldVal, ok := extractField(value, s.FieldPath); ok {
		set, ok := s.entries[fieldVal]
		if !ok {
			set = map[string]struct{}{}
			s.entries[fieldVal] = set
		}
		set[primaryKey] = struct{}{}
	}
}

// Restore replaces the index's live buckets with the given
// value->primaryKeys mapping, used to reload a persisted index without
// re-running field extraction over raw values.
func (s *SecondaryIndex) Restore(buckets map[string][]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]map[string]struct{}, len(buckets))
	for val, keys := range buckets {
		set := make(map[string]struct{}, len(keys))
		for _, k := range keys {
			set[k] = struct{}{}
		}
		s.entries[val] = set
	}
}

// RemoveKey removes primaryKey from every value bucket it appears in,
// dropping any bucket left empty.
func (s *SecondaryIndex) RemoveKey(primaryKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeKeyLocked(primaryKey)
}

func (s *SecondaryIndex) removeKeyLocked(primaryKey string) {
	var empty []string
	for val, keys := range s.entries {
		delete(keys, primaryKey)
		if len(keys) == 0 {
			empty = append(empty, val)
		}
	}
	for _, val := range empty {
		delete(s.entries, val)
	}
}

// Lookup returns the primary keys indexed under an exact field value,
// sorted.
func (s *SecondaryIndex) Lookup(fieldValue string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.entries[fieldValue])
}

// RangeLookup returns keys whose indexed value falls in [start, end).
func (s *SecondaryIndex) RangeLookup(start, end string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []string
	for val, keys := range s.entries {
		if val >= start && val < end {
			for k := range keys {
				result = append(result, k)
			}
		}
	}
	sort.Strings(result)
	return result
}

// PrefixLookup returns keys whose indexed value has the given prefix.
func (s *SecondaryIndex) PrefixLookup(prefix string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []string
	for val, keys := range s.entries {
		if strings.HasPrefix(val, prefix) {
			for k := range keys {
				result = append(result, k)
			}
		}
	}
	sort.Strings(result)
	return result
}

// DistinctValues returns every distinct indexed field value, sorted.
func (s *SecondaryIndex) DistinctValues() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	vals := make([]string, 0, len(s.entries))
	for val := range s.entries {
		vals = append(vals, val)
	}
	sort.Strings(vals)
	return vals
}

// Cardinality returns the number of distinct indexed values.
func (s *SecondaryIndex) Cardinality() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// TotalEntries returns the total number of indexed key references
// across all values.
func (s *SecondaryIndex) TotalEntries() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, keys := range s.entries {
		n += len(keys)
	}
	return n
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// extractField pulls the field at a dotted path out of a JSON value,
// coercing scalars to their string form the way the accelerator's
// index formula requires. Non-JSON values and missing paths report ok=false.
func extractField(value []byte, fieldPath string) (string, bool) {
	if !gjson.ValidBytes(value) {
		return "", false
	}
	result := gjson.GetBytes(value, fieldPath)
	if !result.Exists() {
		return "", false
	}
	switch result.Type {
	case gjson.String:
		return result.Str, true
	case gjson.Number:
		return result.Raw, true
	case gjson.True, gjson.False:
		return result.Raw, true
	default:
		return result.Raw, true
	}
}

// Manager owns the set of secondary indexes configured for an engine
// instance, guarded by the engine's index mutex (§5).
type Manager struct {
	mu      sync.RWMutex
	indexes map[string]*SecondaryIndex
	order   []string
}

// NewManager creates an empty index manager.
func NewManager() *Manager {
	return &Manager{indexes: map[string]*SecondaryIndex{}}
}

// CreateIndex registers a new secondary index. Returns
// icebergerr.ErrIndexExists if name is already in use.
func (m *Manager) CreateIndex(name, fieldPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.indexes[name]; ok {
		return icebergerr.IndexExists(name)
	}
	m.indexes[name] = New(name, fieldPath)
	m.order = append(m.order, name)
	return nil
}

// DropIndex removes a secondary index. Returns icebergerr.ErrIndexNotFound
// if it doesn't exist.
func (m *Manager) DropIndex(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.indexes[name]; !ok {
		return icebergerr.IndexNotFound(name)
	}
	delete(m.indexes, name)
	for i, n := range m.order {
		if n == name {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// OnPut re-indexes key/value across every registered index.
func (m *Manager) OnPut(key string, value []byte) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, idx := range m.indexes {
		idx.IndexEntry(key, value)
	}
}

// OnDelete removes key from every registered index.
func (m *Manager) OnDelete(key string) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, idx := range m.indexes {
		idx.RemoveKey(key)
	}
}

// Query looks up an exact field value on a named index.
func (m *Manager) Query(indexName, value string) ([]string, error) {
	idx, err := m.get(indexName)
	if err != nil {
		return nil, err
	}
	return idx.Lookup(value), nil
}

// QueryPrefix looks up a field-value prefix on a named index.
func (m *Manager) QueryPrefix(indexName, prefix string) ([]string, error) {
	idx, err := m.get(indexName)
	if err != nil {
		return nil, err
	}
	return idx.PrefixLookup(prefix), nil
}

// QueryRange looks up a field-value range on a named index.
func (m *Manager) QueryRange(indexName, start, end string) ([]string, error) {
	idx, err := m.get(indexName)
	if err != nil {
		return nil, err
	}
	return idx.RangeLookup(start, end), nil
}

func (m *Manager) get(name string) (*SecondaryIndex, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	idx, ok := m.indexes[name]
	if !ok {
		return nil, icebergerr.IndexNotFound(name)
	}
	return idx, nil
}

// GetIndex returns the named index, or nil if it doesn't exist.
func (m *Manager) GetIndex(name string) *SecondaryIndex {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.indexes[name]
}

// ListIndexes returns index names in creation order.
func (m *Manager) ListIndexes() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// RebuildAll clears and rebuilds every registered index from a full
// key/value snapshot, used after a checkout, merge, cherry-pick or
// rebase swaps the current tree, when the indexes must be
// reconstructed from the live tree rather than incrementally
// maintained.
func (m *Manager) RebuildAll(entries []KV) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, idx := range m.indexes {
		idx.mu.Lock()
		idx.entries = map[string]map[string]struct{}{}
		idx.mu.Unlock()
		for _, kv := range entries {
			idx.IndexEntry(kv.Key, kv.Value)
		}
	}
}

// KV is a primary key/value pair, used by RebuildAll.
type KV struct {
	Key   string
	Value []byte
}
