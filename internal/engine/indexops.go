package engine

import "github.com/quantumnic/iceberg/internal/index"

// reindexCurrentTree rebuilds every registered secondary index from
// the current tree's full key/value snapshot. Callers that swap the
// current tree wholesale (checkout, merge, cherry-pick, rebase) must call this
// afterward, since indexes are otherwise maintained incrementally and
// would keep pointing at the tree the engine was on before the swap.
func (e *Engine) reindexCurrentTree() error {
	entries := e.currentTree().All()
	kvs := make([]index.KV, len(entries))
	for i, entry := range entries {
		kvs[i] = index.KV{Key: entry.Key, Value: entry.Value}
	}

	e.indexMu.Lock()
	e.indexes.RebuildAll(kvs)
	err := e.saveIndexes()
	e.indexMu.Unlock()
	return err
}

// CreateIndex registers a secondary index on fieldPath, indexing
// every key currently in the tree.
func (e *Engine) CreateIndex(name, fieldPath string) error {
	e.indexMu.Lock()
	defer e.indexMu.Unlock()

	if err := e.indexes.CreateIndex(name, fieldPath); err != nil {
		return err
	}
	idx := e.indexes.GetIndex(name)
	for _, entry := range e.currentTree().All() {
		idx.IndexEntry(entry.Key, entry.Value)
	}
	return e.saveIndexes()
}

// DropIndex removes a secondary index.
func (e *Engine) DropIndex(name string) error {
	e.indexMu.Lock()
	defer e.indexMu.Unlock()

	if err := e.indexes.DropIndex(name); err != nil {
		return err
	}
	return e.saveIndexes()
}

// QueryIndex returns keys whose indexed field equals value.
func (e *Engine) QueryIndex(name, value string) ([]string, error) {
	e.indexMu.Lock()
	defer e.indexMu.Unlock()
	return e.indexes.Query(name, value)
}

// QueryIndexPrefix returns keys whose indexed field starts with prefix.
func (e *Engine) QueryIndexPrefix(name, prefix string) ([]string, error) {
	e.indexMu.Lock()
	defer e.indexMu.Unlock()
	return e.indexes.QueryPrefix(name, prefix)
}

// QueryIndexRange returns keys whose indexed field is in [start, end).
func (e *Engine) QueryIndexRange(name, start, end string) ([]string, error) {
	e.indexMu.Lock()
	defer e.indexMu.Unlock()
	return e.indexes.QueryRange(name, start, end)
}

// ListIndexes returns every index name in creation order.
func (e *Engine) ListIndexes() []string {
	e.indexMu.Lock()
	defer e.indexMu.Unlock()
	return e.indexes.ListIndexes()
}
