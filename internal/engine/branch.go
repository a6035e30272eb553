package engine

import (
	"github.com/quantumnic/iceberg/internal/digest"
	"github.com/quantumnic/iceberg/internal/icebergerr"
)

// CreateBranch copies the current branch's head commit under a new
// name if one exists; otherwise the new name becomes a pending branch
// that materializes on its first commit.
func (e *Engine) CreateBranch(name string) error {
	e.refsMu.Lock()
	defer e.refsMu.Unlock()

	if e.refs.HasBranch(name) {
		return icebergerr.BranchExists(name)
	}
	if id, ok := e.refs.HeadCommitID(); ok {
		e.refs.Branches[name] = id
	} else {
		e.refs.MarkPending(name)
	}
	return e.saveRefs()
}

// Checkout rebinds head to name, refreshes the in-memory tree cache to
// that branch's current snapshot, and rebuilds every secondary index
// against it — indexes are maintained incrementally against whichever
// tree is current, so a wholesale tree swap leaves them stale
// otherwise.
func (e *Engine) Checkout(name string) error {
	e.refsMu.Lock()
	if !e.refs.HasBranch(name) {
		e.refsMu.Unlock()
		return icebergerr.BranchNotFound(name)
	}
	e.refs.Head = name
	err := e.saveRefs()
	e.refsMu.Unlock()
	if err != nil {
		return err
	}
	if err := e.refreshTree(); err != nil {
		return err
	}
	return e.reindexCurrentTree()
}

// DeleteBranch removes a branch. Fails if the branch is head or
// doesn't exist.
func (e *Engine) DeleteBranch(name string) error {
	e.refsMu.Lock()
	defer e.refsMu.Unlock()

	if name == e.refs.Head {
		return icebergerr.BranchIsHead(name)
	}
	if !e.refs.HasBranch(name) {
		return icebergerr.BranchNotFound(name)
	}
	delete(e.refs.Branches, name)
	delete(e.refs.Pending, name)
	return e.saveRefs()
}

// Branches returns every known branch name, sorted.
func (e *Engine) Branches() []string {
	e.refsMu.Lock()
	defer e.refsMu.Unlock()
	return e.refs.BranchNames()
}

// CurrentBranch returns the name of the checked-out branch.
func (e *Engine) CurrentBranch() string {
	e.refsMu.Lock()
	defer e.refsMu.Unlock()
	return e.refs.Head
}

// BranchCommit returns the commit a branch currently points to. The
// second result is false if the branch is still pending (no commits).
func (e *Engine) BranchCommit(name string) (digest.Digest, bool) {
	e.refsMu.Lock()
	defer e.refsMu.Unlock()
	id, ok := e.refs.Branches[name]
	return id, ok
}
