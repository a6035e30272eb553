// Package engine is the iceberg orchestrator: it wires BlockStore,
// SnapshotTree, the commit graph, the WAL and the accelerator layer
// (bloom filter, secondary indexes) into the public operations of
// §4.9. One Engine owns exactly one root directory; concurrent
// handles on the same directory are unsupported.
package engine

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
	"github.com/quantumnic/iceberg/internal/block"
	"github.com/quantumnic/iceberg/internal/bloom"
	"github.com/quantumnic/iceberg/internal/commit"
	"github.com/quantumnic/iceberg/internal/config"
	"github.com/quantumnic/iceberg/internal/icebergerr"
	"github.com/quantumnic/iceberg/internal/index"
	"github.com/quantumnic/iceberg/internal/logging"
	"github.com/quantumnic/iceberg/internal/tree"
	"github.com/quantumnic/iceberg/internal/wal"
)

const (
	storeDir   = "store"
	treesDir   = "trees"
	commitsDir = "commits"
	refsDir    = "refs"
	refsFile   = "refs.json"
	tagsDir    = "tags"
	tagsIndex  = "index.json"
	bloomDir   = "bloom"
	bloomFile  = "keys.json"
	indexFile  = "indexes.json"
	walDir     = "wal"
	walFile    = "wal.jsonl"
	lockFile   = ".iceberg.lock"

	defaultBloomFPRate = 0.01
)

// Engine is one open handle onto a root directory. All of its state is
// per-handle; there is no process-wide mutable state.
type Engine struct {
	root   string
	logger *slog.Logger
	flock  *flock.Flock

	blocks *block.Store
	wal    *wal.WAL

	// refsMu guards the in-memory refs cache and its on-disk file; refs
	// operations are short critical sections per §5.
	refsMu sync.Mutex
	refs   commit.Refs

	// bloomMu is the engine's scoped mutual exclusion over the bloom
	// filter (§5).
	bloomMu sync.Mutex
	filter  *bloom.Filter

	// indexMu is the engine's scoped mutual exclusion over the
	// secondary-index manager (§5).
	indexMu sync.Mutex
	indexes *index.Manager

	// tagMu guards the tag name index's read-modify-write, the same
	// role refsMu plays for branches.
	tagMu sync.Mutex

	// tree caches the snapshot tree for the current head commit, kept
	// current across every mutation and branch switch.
	treeMu sync.RWMutex
	tree   *tree.Tree

	codec block.Codec
}

// Options configures Open/Init beyond the root path.
type Options struct {
	Logger      *slog.Logger
	BloomFPRate float64
	Codec       block.Codec
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = logging.Discard()
	}
	if o.BloomFPRate <= 0 {
		o.BloomFPRate = defaultBloomFPRate
	}
	if o.Codec == nil {
		o.Codec = block.PassthroughCodec{}
	}
	return o
}

// Init creates a new store at root if one does not already exist, and
// is otherwise a no-op: it ensures a default branch exists and a store
// manifest is written.
func Init(root string, opts Options) (*Engine, error) {
	opts = opts.withDefaults()
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	if !config.ManifestExists(root) {
		if err := config.WriteManifest(root, config.NewManifest(opts.Codec.Name())); err != nil {
			return nil, err
		}
	}
	return Open(root, opts)
}

// Open opens an existing store, recovering any interrupted WAL
// transaction before returning a ready handle.
func Open(root string, opts Options) (*Engine, error) {
	opts = opts.withDefaults()

	m, err := config.ReadManifest(root)
	if err != nil {
		if !config.ManifestExists(root) {
			return nil, icebergerr.NotInitialized(root)
		}
		return nil, err
	}
	if c, ok := block.CodecByName(m.Codec); !ok || c.Name() != opts.Codec.Name() {
		return nil, icebergerr.Corruption("store manifest codec %q does not match codec %q", m.Codec, opts.Codec.Name())
	}

	fl := flock.New(filepath.Join(root, lockFile))
	locked, err := fl.TryLock()
	if err != nil {
		return nil, err
	}
	if !locked {
		return nil, icebergerr.AlreadyOpen(root)
	}

	for _, dir := range []string{treesDir, commitsDir, refsDir, tagsDir, bloomDir, walDir} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			_ = fl.Unlock()
			return nil, err
		}
	}

	blocks, err := block.Open(filepath.Join(root, storeDir), opts.Codec)
	if err != nil {
		_ = fl.Unlock()
		return nil, err
	}

	w, err := wal.Open(filepath.Join(root, walDir, walFile))
	if err != nil {
		_ = fl.Unlock()
		return nil, err
	}

	e := &Engine{
		root:    root,
		logger:  opts.Logger,
		flock:   fl,
		blocks:  blocks,
		wal:     w,
		codec:   opts.Codec,
		indexes: index.NewManager(),
	}

	if err := e.recoverWAL(); err != nil {
		_ = fl.Unlock()
		return nil, err
	}

	refs, err := e.loadRefs()
	if err != nil {
		_ = fl.Unlock()
		return nil, err
	}
	e.refs = refs

	if err := e.loadIndexes(); err != nil {
		_ = fl.Unlock()
		return nil, err
	}

	if err := e.loadBloom(opts.BloomFPRate); err != nil {
		_ = fl.Unlock()
		return nil, err
	}

	if err := e.refreshTree(); err != nil {
		_ = fl.Unlock()
		return nil, err
	}

	e.logger.Debug("engine opened", "root", root)
	return e, nil
}

// Close releases the root-directory lock. The engine must not be used
// afterward.
func (e *Engine) Close() error {
	return e.flock.Unlock()
}

// recoverWAL discards any uncommitted transaction left by a crash and
// truncates the log, satisfying (I2): a crash leaves the store
// unchanged and the WAL replays as a no-op rollback.
func (e *Engine) recoverWAL() error {
	rec, err := e.wal.Recover()
	if err != nil {
		return err
	}
	if len(rec.Uncommitted) > 0 {
		e.logger.Debug("discarding uncommitted WAL transactions", "count", len(rec.Uncommitted))
	}
	return e.wal.Truncate()
}

// refreshTree reloads the in-memory tree cache from the current
// head's commit, or the empty tree if the current branch has no
// commits yet.
func (e *Engine) refreshTree() error {
	id, ok := e.refs.HeadCommitID()
	if !ok {
		e.treeMu.Lock()
		e.tree = tree.Empty()
		e.treeMu.Unlock()
		return nil
	}
	c, err := e.loadCommit(id)
	if err != nil {
		return err
	}
	t, err := e.loadTree(c.TreeRoot)
	if err != nil {
		return err
	}
	e.treeMu.Lock()
	e.tree = t
	e.treeMu.Unlock()
	return nil
}

func (e *Engine) currentTree() *tree.Tree {
	e.treeMu.RLock()
	defer e.treeMu.RUnlock()
	return e.tree
}

func (e *Engine) setCurrentTree(t *tree.Tree) {
	e.treeMu.Lock()
	e.tree = t
	e.treeMu.Unlock()
}
