package engine

import (
	"golang.org/x/sync/errgroup"

	"github.com/quantumnic/iceberg/internal/block"
	"github.com/quantumnic/iceberg/internal/commit"
	"github.com/quantumnic/iceberg/internal/digest"
	"github.com/quantumnic/iceberg/internal/icebergerr"
	"github.com/quantumnic/iceberg/internal/tree"
)

// Get returns the value stored at key. The bloom filter is consulted
// first: on a definite negative, get returns KeyNotFound without
// touching the tree (§4.7, Scenario E).
func (e *Engine) Get(key string) ([]byte, error) {
	e.bloomMu.Lock()
	maybe := e.filter.MayContain([]byte(key))
	e.bloomMu.Unlock()
	if !maybe {
		return nil, icebergerr.KeyNotFound(key)
	}
	v, ok := e.currentTree().Get(key)
	if !ok {
		return nil, icebergerr.KeyNotFound(key)
	}
	return v, nil
}

// ScanPrefix returns entries whose key starts with prefix, sorted.
func (e *Engine) ScanPrefix(prefix string) []tree.Entry {
	return e.currentTree().ScanPrefix(prefix)
}

// Range returns entries with start <= k < end, sorted.
func (e *Engine) Range(start, end string) []tree.Entry {
	return e.currentTree().Range(start, end)
}

// Put writes key=value, producing a new commit on the current branch.
// Follows the five-step correctness-critical ordering of §5: WAL
// begin+intent, persist tree/blocks/commit, update refs, WAL commit
// with fsync, then update bloom and indexes.
func (e *Engine) Put(key string, value []byte, message string) (commit.Commit, error) {
	tx, err := e.wal.Begin()
	if err != nil {
		return commit.Commit{}, err
	}
	if err := e.wal.LogWrite(tx, key, value); err != nil {
		return commit.Commit{}, err
	}

	newTree := e.currentTree().Insert(key, value)
	newCommit, err := e.commitTree(newTree, message)
	if err != nil {
		return commit.Commit{}, err
	}

	if err := e.wal.Commit(tx, string(newCommit.ID)); err != nil {
		return commit.Commit{}, err
	}

	e.setCurrentTree(newTree)
	e.updateAcceleratorsOnPut(key, value)
	return newCommit, nil
}

// Delete removes key, producing a new commit. Fails with KeyNotFound
// if the key is absent from the current tree.
func (e *Engine) Delete(key string, message string) (commit.Commit, error) {
	if !e.currentTree().Contains(key) {
		return commit.Commit{}, icebergerr.KeyNotFound(key)
	}

	tx, err := e.wal.Begin()
	if err != nil {
		return commit.Commit{}, err
	}
	if err := e.wal.LogDelete(tx, key); err != nil {
		return commit.Commit{}, err
	}

	newTree := e.currentTree().Delete(key)
	newCommit, err := e.commitTree(newTree, message)
	if err != nil {
		return commit.Commit{}, err
	}

	if err := e.wal.Commit(tx, string(newCommit.ID)); err != nil {
		return commit.Commit{}, err
	}

	e.setCurrentTree(newTree)
	e.updateAcceleratorsOnDelete(key)
	return newCommit, nil
}

// commitTree is the put/delete path's steps 2-3: persist the new tree
// on top of the current head and advance the current branch ref to
// point at it.
func (e *Engine) commitTree(newTree *tree.Tree, message string) (commit.Commit, error) {
	e.refsMu.Lock()
	defer e.refsMu.Unlock()

	var parent *digest.Digest
	if id, ok := e.refs.HeadCommitID(); ok {
		parent = &id
	}

	newC, err := e.persistTreeAndCommit(parent, newTree, message)
	if err != nil {
		return commit.Commit{}, err
	}

	e.refs.Materialize(e.refs.Head, newC.ID)
	if err := e.saveRefs(); err != nil {
		return commit.Commit{}, err
	}
	return newC, nil
}

// persistTreeAndCommit persists a tree's value blocks and the tree
// object itself in parallel (neither depends on the other — both are
// content-addressed), then creates and persists a commit on top of an
// explicit parent. It does not touch refs, so rebase can replay a
// chain of commits before deciding which ref to advance.
func (e *Engine) persistTreeAndCommit(parent *digest.Digest, newTree *tree.Tree, message string) (commit.Commit, error) {
	g := new(errgroup.Group)
	g.Go(func() error {
		return e.saveTree(newTree)
	})
	g.Go(func() error {
		for _, entry := range newTree.All() {
			if _, err := e.blocks.Put(block.New(entry.Value)); err != nil {
				return err
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return commit.Commit{}, err
	}

	newC := commit.New(parent, newTree.RootDigest(), message)
	if err := e.saveCommit(newC); err != nil {
		return commit.Commit{}, err
	}
	return newC, nil
}

func (e *Engine) updateAcceleratorsOnPut(key string, value []byte) {
	e.bloomMu.Lock()
	e.filter.Insert([]byte(key))
	_ = e.saveBloom()
	e.bloomMu.Unlock()

	e.indexMu.Lock()
	e.indexes.OnPut(key, value)
	_ = e.saveIndexes()
	e.indexMu.Unlock()
}

func (e *Engine) updateAcceleratorsOnDelete(key string) {
	e.indexMu.Lock()
	e.indexes.OnDelete(key)
	_ = e.saveIndexes()
	e.indexMu.Unlock()
}
