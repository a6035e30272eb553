package block

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/quantumnic/iceberg/internal/digest"
	"github.com/quantumnic/iceberg/internal/icebergerr"
)

const (
	blocksSubdir = "blocks"
	logSubdir    = "log"
	appendLog    = "append.jsonl"
	shardPrefix  = 2
)

// LogEntry is one line of the block store's append-only audit log,
// recording every write in order for replay and auditing.
type LogEntry struct {
	Sequence  uint64        `json:"sequence"`
	Digest    digest.Digest `json:"digest"`
	Timestamp string        `json:"timestamp"`
}

// Store is an append-only, content-addressed persistent block store
// with dedup and a fan-out-by-prefix directory layout.
type Store struct {
	dir   string
	codec Codec

	mu  sync.Mutex // guards the append log's sequence counter
	seq uint64
}

// Open opens or creates a block store rooted at dir.
func Open(dir string, codec Codec) (*Store, error) {
	if codec == nil {
		codec = PassthroughCodec{}
	}
	if err := os.MkdirAll(filepath.Join(dir, blocksSubdir), 0o755); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Join(dir, logSubdir), 0o755); err != nil {
		return nil, err
	}
	s := &Store{dir: dir, codec: codec}
	seq, err := s.readSequence()
	if err != nil {
		return nil, err
	}
	s.seq = seq
	return s, nil
}

// Put stores a block, returning its digest. A block already present
// is a no-op: two identical writes produce exactly one stored object.
func (s *Store) Put(b Block) (digest.Digest, error) {
	path := s.blockPath(b.Digest)
	if _, err := os.Stat(path); err == nil {
		return b.Digest, nil
	} else if !os.IsNotExist(err) {
		return "", err
	}

	encoded, err := s.codec.Encode(b.Data)
	if err != nil {
		return "", err
	}
	onDisk := Block{Digest: b.Digest, Data: encoded}
	data, err := json.Marshal(onDisk)
	if err != nil {
		return "", err
	}
	if err := writeAtomic(path, data); err != nil {
		return "", err
	}
	if err := s.appendLog(b.Digest); err != nil {
		return "", err
	}
	return b.Digest, nil
}

// Get loads and re-verifies a block by digest.
func (s *Store) Get(d digest.Digest) (Block, error) {
	path := s.blockPath(d)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Block{}, icebergerr.Corruption("block not found: %s", d)
	} else if err != nil {
		return Block{}, err
	}
	var onDisk Block
	if err := json.Unmarshal(data, &onDisk); err != nil {
		return Block{}, icebergerr.Corruption("block parse error: %v", err)
	}
	decoded, err := s.codec.Decode(onDisk.Data)
	if err != nil {
		return Block{}, icebergerr.Corruption("block decode error: %v", err)
	}
	b := Block{Digest: onDisk.Digest, Data: decoded}
	if !b.Verify() {
		return Block{}, icebergerr.Corruption("block integrity check failed: %s", d)
	}
	return b, nil
}

// Contains reports whether a block with the given digest is stored.
func (s *Store) Contains(d digest.Digest) bool {
	_, err := os.Stat(s.blockPath(d))
	return err == nil
}

// Delete removes a block by digest. Missing blocks are not an error,
// so callers (e.g. compaction sweeps) can delete idempotently.
func (s *Store) Delete(d digest.Digest) error {
	err := os.Remove(s.blockPath(d))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// BlockCount returns the number of stored blocks.
func (s *Store) BlockCount() (int, error) {
	count := 0
	shards, err := os.ReadDir(filepath.Join(s.dir, blocksSubdir))
	if err != nil {
		return 0, err
	}
	for _, shard := range shards {
		if !shard.IsDir() {
			continue
		}
		entries, err := os.ReadDir(filepath.Join(s.dir, blocksSubdir, shard.Name()))
		if err != nil {
			return 0, err
		}
		count += len(entries)
	}
	return count, nil
}

// DiskUsage returns the total bytes used by stored block files.
func (s *Store) DiskUsage() (uint64, error) {
	var total uint64
	shards, err := os.ReadDir(filepath.Join(s.dir, blocksSubdir))
	if err != nil {
		return 0, err
	}
	for _, shard := range shards {
		if !shard.IsDir() {
			continue
		}
		entries, err := os.ReadDir(filepath.Join(s.dir, blocksSubdir, shard.Name()))
		if err != nil {
			return 0, err
		}
		for _, e := range entries {
			info, err := e.Info()
			if err != nil {
				return 0, err
			}
			total += uint64(info.Size())
		}
	}
	return total, nil
}

func (s *Store) blockPath(d digest.Digest) string {
	shard := d.Prefix(shardPrefix)
	dir := filepath.Join(s.dir, blocksSubdir, shard)
	_ = os.MkdirAll(dir, 0o755)
	return filepath.Join(dir, string(d))
}

func (s *Store) appendLog(d digest.Digest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	entry := LogEntry{
		Sequence:  s.seq,
		Digest:    d,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	}
	line, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	line = append(line, '\n')
	f, err := os.OpenFile(filepath.Join(s.dir, logSubdir, appendLog), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(line)
	return err
}

func (s *Store) readSequence() (uint64, error) {
	path := filepath.Join(s.dir, logSubdir, appendLog)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return 0, nil
	} else if err != nil {
		return 0, err
	}
	var max uint64
	dec := json.NewDecoder(bytes.NewReader(data))
	for dec.More() {
		var entry LogEntry
		if err := dec.Decode(&entry); err != nil {
			break
		}
		if entry.Sequence > max {
			max = entry.Sequence
		}
	}
	return max, nil
}

// writeAtomic writes data to path by writing to a uniquely-named
// sibling temp file and renaming it into place, so a crash mid-write
// never leaves a partially-written block visible at its final path.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, fmt.Sprintf(".tmp-%s", uuid.NewString()))
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
