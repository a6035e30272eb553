package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/quantumnic/iceberg/internal/bloom"
	"github.com/quantumnic/iceberg/internal/commit"
	"github.com/quantumnic/iceberg/internal/digest"
	"github.com/quantumnic/iceberg/internal/icebergerr"
	"github.com/quantumnic/iceberg/internal/tree"
)

// writeAtomic writes data to path via a uniquely-named sibling temp
// file and rename, matching the block store's crash-safe write
// pattern for every other on-disk record the engine owns.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, fmt.Sprintf(".tmp-%s", uuid.NewString()))
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (e *Engine) refsPath() string { return filepath.Join(e.root, refsDir, refsFile) }

func (e *Engine) loadRefs() (commit.Refs, error) {
	data, err := os.ReadFile(e.refsPath())
	if os.IsNotExist(err) {
		return commit.NewRefs(), nil
	} else if err != nil {
		return commit.Refs{}, err
	}
	var r commit.Refs
	if err := json.Unmarshal(data, &r); err != nil {
		return commit.Refs{}, icebergerr.Corruption("refs parse error: %v", err)
	}
	if r.Branches == nil {
		r.Branches = map[string]digest.Digest{}
	}
	if r.Pending == nil {
		r.Pending = map[string]bool{}
	}
	return r, nil
}

// saveRefs persists e.refs. Callers must hold refsMu.
func (e *Engine) saveRefs() error {
	data, err := json.Marshal(e.refs)
	if err != nil {
		return err
	}
	return writeAtomic(e.refsPath(), data)
}

func (e *Engine) commitPath(id digest.Digest) string {
	return filepath.Join(e.root, commitsDir, string(id))
}

func (e *Engine) saveCommit(c commit.Commit) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return writeAtomic(e.commitPath(c.ID), data)
}

func (e *Engine) loadCommit(id digest.Digest) (commit.Commit, error) {
	data, err := os.ReadFile(e.commitPath(id))
	if os.IsNotExist(err) {
		return commit.Commit{}, icebergerr.CommitNotFound(string(id))
	} else if err != nil {
		return commit.Commit{}, err
	}
	var c commit.Commit
	if err := json.Unmarshal(data, &c); err != nil {
		return commit.Commit{}, icebergerr.Corruption("commit parse error: %v", err)
	}
	return c, nil
}

func (e *Engine) treePath(d digest.Digest) string {
	return filepath.Join(e.root, treesDir, string(d))
}

func (e *Engine) saveTree(t *tree.Tree) error {
	path := e.treePath(t.RootDigest())
	if _, err := os.Stat(path); err == nil {
		return nil // content-addressed: identical contents already on disk.
	}
	data, err := t.MarshalJSON()
	if err != nil {
		return err
	}
	return writeAtomic(path, data)
}

func (e *Engine) loadTree(d digest.Digest) (*tree.Tree, error) {
	data, err := os.ReadFile(e.treePath(d))
	if os.IsNotExist(err) {
		return nil, icebergerr.Corruption("tree object missing: %s", d)
	} else if err != nil {
		return nil, err
	}
	t := &tree.Tree{}
	if err := t.UnmarshalJSON(data); err != nil {
		return nil, icebergerr.Corruption("tree parse error: %v", err)
	}
	return t, nil
}

func (e *Engine) deleteTree(d digest.Digest) error {
	err := os.Remove(e.treePath(d))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// tagNameIndexPath is the name -> tag id lookup persisted alongside
// the content-addressed tag objects, mirroring refs.json's role for
// branches.
func (e *Engine) tagNameIndexPath() string {
	return filepath.Join(e.root, tagsDir, tagsIndex)
}

func (e *Engine) loadTagIndex() (map[string]digest.Digest, error) {
	data, err := os.ReadFile(e.tagNameIndexPath())
	if os.IsNotExist(err) {
		return map[string]digest.Digest{}, nil
	} else if err != nil {
		return nil, err
	}
	var idx map[string]digest.Digest
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, icebergerr.Corruption("tag index parse error: %v", err)
	}
	return idx, nil
}

func (e *Engine) saveTagIndex(idx map[string]digest.Digest) error {
	data, err := json.Marshal(idx)
	if err != nil {
		return err
	}
	return writeAtomic(e.tagNameIndexPath(), data)
}

func (e *Engine) tagPath(id digest.Digest) string {
	return filepath.Join(e.root, tagsDir, string(id))
}

func (e *Engine) saveTag(t commit.Tag) error {
	data, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return writeAtomic(e.tagPath(t.ID), data)
}

func (e *Engine) loadTag(id digest.Digest) (commit.Tag, error) {
	data, err := os.ReadFile(e.tagPath(id))
	if os.IsNotExist(err) {
		return commit.Tag{}, icebergerr.TagNotFound(string(id))
	} else if err != nil {
		return commit.Tag{}, err
	}
	var t commit.Tag
	if err := json.Unmarshal(data, &t); err != nil {
		return commit.Tag{}, icebergerr.Corruption("tag parse error: %v", err)
	}
	return t, nil
}

func (e *Engine) deleteTag(id digest.Digest) error {
	err := os.Remove(e.tagPath(id))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (e *Engine) bloomPath() string {
	return filepath.Join(e.root, bloomDir, bloomFile)
}

func (e *Engine) loadBloom(fpRate float64) error {
	data, err := os.ReadFile(e.bloomPath())
	if os.IsNotExist(err) {
		e.filter = bloom.New(1, fpRate)
		return nil
	} else if err != nil {
		return err
	}
	f := &bloom.Filter{}
	if err := f.UnmarshalJSON(data); err != nil {
		return icebergerr.Corruption("bloom filter parse error: %v", err)
	}
	e.filter = f
	return nil
}

// saveBloom persists the filter. Callers must hold bloomMu.
func (e *Engine) saveBloom() error {
	data, err := e.filter.MarshalJSON()
	if err != nil {
		return err
	}
	return writeAtomic(e.bloomPath(), data)
}

func (e *Engine) indexPath() string {
	return filepath.Join(e.root, indexFile)
}

// wireIndexes is the on-disk shape of the index manager: each entry's
// live buckets are rebuilt from entries rather than persisting the
// manager's internal structures directly, since index.Manager/
// SecondaryIndex keep unexported bucket maps.
type wireIndexes struct {
	Indexes []wireIndex `json:"indexes"`
}

type wireIndex struct {
	Name      string              `json:"name"`
	FieldPath string              `json:"field_path"`
	Buckets   map[string][]string `json:"buckets"`
}

func (e *Engine) loadIndexes() error {
	data, err := os.ReadFile(e.indexPath())
	if os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return err
	}
	var w wireIndexes
	if err := json.Unmarshal(data, &w); err != nil {
		return icebergerr.Corruption("index manager parse error: %v", err)
	}
	for _, wi := range w.Indexes {
		if err := e.indexes.CreateIndex(wi.Name, wi.FieldPath); err != nil {
			return err
		}
		e.indexes.GetIndex(wi.Name).Restore(wi.Buckets)
	}
	return nil
}

// saveIndexes persists the index manager. Callers must hold indexMu.
// Rather than rebuild buckets via a synthetic re-index, it walks each
// index's live distinct values directly.
func (e *Engine) saveIndexes() error {
	var w wireIndexes
	for _, name := range e.indexes.ListIndexes() {
		idx := e.indexes.GetIndex(name)
		buckets := map[string][]string{}
		for _, val := range idx.DistinctValues() {
			buckets[val] = idx.Lookup(val)
		}
		w.Indexes = append(w.Indexes, wireIndex{Name: idx.Name, FieldPath: idx.FieldPath, Buckets: buckets})
	}
	data, err := json.Marshal(w)
	if err != nil {
		return err
	}
	return writeAtomic(e.indexPath(), data)
}
