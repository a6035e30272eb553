package engine

import (
	"sort"

	"github.com/quantumnic/iceberg/internal/commit"
	"github.com/quantumnic/iceberg/internal/digest"
	"github.com/quantumnic/iceberg/internal/icebergerr"
)

// CreateTag creates an immutable named pointer to commitID. Tag name
// collisions are rejected.
func (e *Engine) CreateTag(name string, commitID digest.Digest, message *string) (commit.Tag, error) {
	e.tagMu.Lock()
	defer e.tagMu.Unlock()

	idx, err := e.loadTagIndex()
	if err != nil {
		return commit.Tag{}, err
	}
	if _, exists := idx[name]; exists {
		return commit.Tag{}, icebergerr.TagExists(name)
	}
	if _, err := e.loadCommit(commitID); err != nil {
		return commit.Tag{}, err
	}

	t := commit.NewTag(name, commitID, message)
	if err := e.saveTag(t); err != nil {
		return commit.Tag{}, err
	}
	idx[name] = t.ID
	if err := e.saveTagIndex(idx); err != nil {
		return commit.Tag{}, err
	}
	return t, nil
}

// Tags lists every tag, sorted by name.
func (e *Engine) Tags() ([]commit.Tag, error) {
	e.tagMu.Lock()
	defer e.tagMu.Unlock()

	idx, err := e.loadTagIndex()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(idx))
	for name := range idx {
		names = append(names, name)
	}
	sort.Strings(names)

	tags := make([]commit.Tag, 0, len(names))
	for _, name := range names {
		t, err := e.loadTag(idx[name])
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, nil
}

// DeleteTag removes a tag by name.
func (e *Engine) DeleteTag(name string) error {
	e.tagMu.Lock()
	defer e.tagMu.Unlock()

	idx, err := e.loadTagIndex()
	if err != nil {
		return err
	}
	id, ok := idx[name]
	if !ok {
		return icebergerr.TagNotFound(name)
	}
	if err := e.deleteTag(id); err != nil {
		return err
	}
	delete(idx, name)
	return e.saveTagIndex(idx)
}
