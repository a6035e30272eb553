package engine

import (
	"github.com/quantumnic/iceberg/internal/commit"
	"github.com/quantumnic/iceberg/internal/digest"
	"github.com/quantumnic/iceberg/internal/icebergerr"
	"github.com/quantumnic/iceberg/internal/tree"
)

// HeadCommit resolves head -> branch -> commit_id -> commit. Fails
// with EmptyDatabase if the current branch has no commits.
func (e *Engine) HeadCommit() (commit.Commit, error) {
	e.refsMu.Lock()
	id, ok := e.refs.HeadCommitID()
	e.refsMu.Unlock()
	if !ok {
		return commit.Commit{}, icebergerr.ErrEmptyDatabase
	}
	return e.loadCommit(id)
}

// Log walks parent pointers from head, newest first, terminating at
// parent = nil. An empty current branch yields an empty log rather
// than an error.
func (e *Engine) Log() ([]commit.Commit, error) {
	e.refsMu.Lock()
	id, ok := e.refs.HeadCommitID()
	e.refsMu.Unlock()
	if !ok {
		return nil, nil
	}
	return e.logFrom(id)
}

// logFrom walks the parent chain starting at id, newest first.
func (e *Engine) logFrom(id digest.Digest) ([]commit.Commit, error) {
	var out []commit.Commit
	for {
		c, err := e.loadCommit(id)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
		if c.Parent == nil {
			return out, nil
		}
		id = *c.Parent
	}
}

// ancestorSet computes the full ancestor set of id (inclusive),
// cycle-safe via a visited set, used by rebase's fork-point search.
func (e *Engine) ancestorSet(id digest.Digest) (map[digest.Digest]bool, error) {
	set := map[digest.Digest]bool{}
	for {
		if set[id] {
			return set, nil
		}
		c, err := e.loadCommit(id)
		if err != nil {
			return nil, err
		}
		set[id] = true
		if c.Parent == nil {
			return set, nil
		}
		id = *c.Parent
	}
}

// TreeAt returns the snapshot tree a commit references.
func (e *Engine) TreeAt(id digest.Digest) (*tree.Tree, error) {
	c, err := e.loadCommit(id)
	if err != nil {
		return nil, err
	}
	return e.loadTree(c.TreeRoot)
}

// GetAt returns the value for key as of commit id.
func (e *Engine) GetAt(key string, id digest.Digest) ([]byte, error) {
	t, err := e.TreeAt(id)
	if err != nil {
		return nil, err
	}
	v, ok := t.Get(key)
	if !ok {
		return nil, icebergerr.KeyNotFound(key)
	}
	return v, nil
}

// Diff compares the trees referenced by two commits.
func (e *Engine) Diff(a, b digest.Digest) (tree.Diff, error) {
	ta, err := e.TreeAt(a)
	if err != nil {
		return tree.Diff{}, err
	}
	tb, err := e.TreeAt(b)
	if err != nil {
		return tree.Diff{}, err
	}
	return ta.Diff(tb), nil
}
