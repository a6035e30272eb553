package engine

import (
	"os"
	"path/filepath"
	"time"

	"github.com/quantumnic/iceberg/internal/compact"
	"github.com/quantumnic/iceberg/internal/digest"
)

// engineGraph adapts the engine's on-disk commit store to
// compact.Graph, so the sweep can walk ancestry without depending on
// the commit package directly.
type engineGraph struct{ e *Engine }

func (g engineGraph) Parent(id string) (string, bool) {
	c, err := g.e.loadCommit(digest.Digest(id))
	if err != nil || c.Parent == nil {
		return "", false
	}
	return string(*c.Parent), true
}

func (g engineGraph) TreeRoot(id string) string {
	c, err := g.e.loadCommit(digest.Digest(id))
	if err != nil {
		return ""
	}
	return string(c.TreeRoot)
}

// Compact runs the retention planner against the current branch's
// history, then a reachability sweep across every branch head before
// actually deleting anything (§4.5). Value blocks are retained
// conservatively: see the open-question note in the design ledger.
func (e *Engine) Compact(policy compact.Policy) (compact.Result, error) {
	log, err := e.Log()
	if err != nil {
		return compact.Result{}, err
	}
	infos := make([]compact.CommitInfo, len(log))
	for i, c := range log {
		infos[i] = compact.CommitInfo{ID: string(c.ID), Timestamp: c.Timestamp}
	}
	removable := compact.FindRemovableCommits(infos, policy, time.Now().UTC())

	e.refsMu.Lock()
	heads := make([]string, 0, len(e.refs.Branches))
	for _, id := range e.refs.Branches {
		heads = append(heads, string(id))
	}
	compactingHead, _ := e.refs.HeadCommitID()
	e.refsMu.Unlock()

	plan := compact.Sweep(heads, string(compactingHead), removable, engineGraph{e})

	var result compact.Result
	for _, id := range plan.OrphansToDetach {
		c, err := e.loadCommit(digest.Digest(id))
		if err != nil {
			return compact.Result{}, err
		}
		c.Parent = nil
		if err := e.saveCommit(c); err != nil {
			return compact.Result{}, err
		}
	}
	for _, id := range plan.ToDelete {
		path := e.commitPath(digest.Digest(id))
		if info, err := os.Stat(path); err == nil {
			result.BytesReclaimed += uint64(info.Size())
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return compact.Result{}, err
		}
		result.CommitsRemoved++
	}

	treesDirPath := filepath.Join(e.root, treesDir)
	entries, err := os.ReadDir(treesDirPath)
	if err != nil {
		return compact.Result{}, err
	}
	for _, entry := range entries {
		if plan.ReachableTreeRoots[entry.Name()] {
			continue
		}
		path := filepath.Join(treesDirPath, entry.Name())
		if info, err := entry.Info(); err == nil {
			result.BytesReclaimed += uint64(info.Size())
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return compact.Result{}, err
		}
		result.TreesRemoved++
	}

	return result, nil
}
