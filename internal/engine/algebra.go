package engine

import (
	"github.com/quantumnic/iceberg/internal/commit"
	"github.com/quantumnic/iceberg/internal/digest"
	"github.com/quantumnic/iceberg/internal/icebergerr"
	"github.com/quantumnic/iceberg/internal/tree"
)

// Merge folds sourceBranch into the current branch: for each key in
// source ∪ current, the merged value is the source's if present, else
// the current's (source wins on overlap — there is no three-way
// conflict detection; see §4.4). Produces one new commit on the
// current branch.
func (e *Engine) Merge(sourceBranch, message string) (commit.Commit, error) {
	e.refsMu.Lock()
	if !e.refs.HasBranch(sourceBranch) {
		e.refsMu.Unlock()
		return commit.Commit{}, icebergerr.BranchNotFound(sourceBranch)
	}
	srcID, materialized := e.refs.Branches[sourceBranch]
	e.refsMu.Unlock()

	srcTree := tree.Empty()
	if materialized {
		t, err := e.TreeAt(srcID)
		if err != nil {
			return commit.Commit{}, err
		}
		srcTree = t
	}

	merged := e.currentTree()
	for _, entry := range srcTree.All() {
		merged = merged.Insert(entry.Key, entry.Value)
	}

	newC, err := e.commitTree(merged, message)
	if err != nil {
		return commit.Commit{}, err
	}
	e.setCurrentTree(merged)
	if err := e.reindexCurrentTree(); err != nil {
		return commit.Commit{}, err
	}
	return newC, nil
}

// CherryPick replays the single diff introduced by commitID — the
// difference between its tree and its parent's (empty for a root
// commit) — onto the current tree: added and modified keys take the
// commit's values, removed keys are deleted if present.
func (e *Engine) CherryPick(commitID digest.Digest, message string) (commit.Commit, error) {
	c, err := e.loadCommit(commitID)
	if err != nil {
		return commit.Commit{}, err
	}

	parentTree := tree.Empty()
	if c.Parent != nil {
		parentTree, err = e.TreeAt(*c.Parent)
		if err != nil {
			return commit.Commit{}, err
		}
	}
	commitTreeObj, err := e.loadTree(c.TreeRoot)
	if err != nil {
		return commit.Commit{}, err
	}
	d := parentTree.Diff(commitTreeObj)

	result := e.currentTree()
	for _, key := range append(append([]string{}, d.Added...), d.Modified...) {
		v, _ := commitTreeObj.Get(key)
		result = result.Insert(key, v)
	}
	for _, key := range d.Removed {
		if result.Contains(key) {
			result = result.Delete(key)
		}
	}

	newC, err := e.commitTree(result, message)
	if err != nil {
		return commit.Commit{}, err
	}
	e.setCurrentTree(result)
	if err := e.reindexCurrentTree(); err != nil {
		return commit.Commit{}, err
	}
	return newC, nil
}

// Rebase replays the current branch's commits not already reachable
// from ontoBranch's head onto that head, then advances the current
// branch to the last replayed commit. Returns the new commits in
// replay (oldest-first) order; a no-op returns nil. Forbidden when
// ontoBranch is already the current branch.
func (e *Engine) Rebase(ontoBranch string) ([]commit.Commit, error) {
	e.refsMu.Lock()
	current := e.refs.Head
	if ontoBranch == current {
		e.refsMu.Unlock()
		return nil, icebergerr.RebaseOntoSelf(ontoBranch)
	}
	if !e.refs.HasBranch(ontoBranch) {
		e.refsMu.Unlock()
		return nil, icebergerr.BranchNotFound(ontoBranch)
	}
	ontoID, ontoMaterialized := e.refs.Branches[ontoBranch]
	currentID, currentMaterialized := e.refs.HeadCommitID()
	e.refsMu.Unlock()

	if !currentMaterialized {
		return nil, nil
	}

	var ancestors map[digest.Digest]bool
	var err error
	if ontoMaterialized {
		ancestors, err = e.ancestorSet(ontoID)
		if err != nil {
			return nil, err
		}
	} else {
		ancestors = map[digest.Digest]bool{}
	}

	full, err := e.logFrom(currentID)
	if err != nil {
		return nil, err
	}
	var unique []commit.Commit
	for _, c := range full {
		if ancestors[c.ID] {
			break
		}
		unique = append(unique, c)
	}
	for i, j := 0, len(unique)-1; i < j; i, j = i+1, j-1 {
		unique[i], unique[j] = unique[j], unique[i]
	}
	if len(unique) == 0 {
		return nil, nil
	}

	newParent := &ontoID
	if !ontoMaterialized {
		newParent = nil
	}
	baseTree := tree.Empty()
	if ontoMaterialized {
		baseTree, err = e.TreeAt(ontoID)
		if err != nil {
			return nil, err
		}
	}

	var replayed []commit.Commit
	for _, old := range unique {
		oldParentTree := tree.Empty()
		if old.Parent != nil {
			oldParentTree, err = e.TreeAt(*old.Parent)
			if err != nil {
				return nil, err
			}
		}
		oldTree, err := e.loadTree(old.TreeRoot)
		if err != nil {
			return nil, err
		}
		d := oldParentTree.Diff(oldTree)

		next := baseTree
		for _, key := range append(append([]string{}, d.Added...), d.Modified...) {
			v, _ := oldTree.Get(key)
			next = next.Insert(key, v)
		}
		for _, key := range d.Removed {
			if next.Contains(key) {
				next = next.Delete(key)
			}
		}

		newC, err := e.persistTreeAndCommit(newParent, next, old.Message)
		if err != nil {
			return nil, err
		}
		replayed = append(replayed, newC)
		id := newC.ID
		newParent = &id
		baseTree = next
	}

	e.refsMu.Lock()
	e.refs.Materialize(current, replayed[len(replayed)-1].ID)
	err = e.saveRefs()
	e.refsMu.Unlock()
	if err != nil {
		return nil, err
	}
	e.setCurrentTree(baseTree)
	if err := e.reindexCurrentTree(); err != nil {
		return nil, err
	}
	return replayed, nil
}
