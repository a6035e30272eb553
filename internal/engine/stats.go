package engine

import (
	"os"
	"path/filepath"
)

// Stats is the aggregate snapshot returned by the engine's stats
// operation (§4.9).
type Stats struct {
	KeyCount     int
	CommitCount  int
	BranchCount  int
	BlockCount   int
	DiskUsage    uint64
	Bloom        BloomStats
	IndexCount   int
	WALSizeBytes int64
}

// Stats aggregates counters across every subsystem the engine owns.
func (e *Engine) Stats() (Stats, error) {
	blockCount, err := e.blocks.BlockCount()
	if err != nil {
		return Stats{}, err
	}
	diskUsage, err := e.blocks.DiskUsage()
	if err != nil {
		return Stats{}, err
	}
	commitCount, err := e.countFiles(commitsDir)
	if err != nil {
		return Stats{}, err
	}

	return Stats{
		KeyCount:     e.currentTree().Len(),
		CommitCount:  commitCount,
		BranchCount:  len(e.Branches()),
		BlockCount:   blockCount,
		DiskUsage:    diskUsage,
		Bloom:        e.BloomStats(),
		IndexCount:   len(e.ListIndexes()),
		WALSizeBytes: e.wal.Size(),
	}, nil
}

func (e *Engine) countFiles(subdir string) (int, error) {
	entries, err := os.ReadDir(filepath.Join(e.root, subdir))
	if err != nil {
		return 0, err
	}
	count := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			count++
		}
	}
	return count, nil
}
