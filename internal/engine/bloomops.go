package engine

import "github.com/quantumnic/iceberg/internal/bloom"

// BloomStats reports the filter's current sizing and fill state.
type BloomStats struct {
	NumBits         uint64
	NumHashes       uint32
	Count           uint64
	SizeBytes       int
	EstimatedFPRate float64
}

// RebuildBloom replaces the filter with a fresh one sized for the
// current tree's keyset at fpRate, re-inserting every key.
func (e *Engine) RebuildBloom(fpRate float64) error {
	e.bloomMu.Lock()
	defer e.bloomMu.Unlock()

	entries := e.currentTree().All()
	f := bloom.New(len(entries), fpRate)
	for _, entry := range entries {
		f.Insert([]byte(entry.Key))
	}
	e.filter = f
	return e.saveBloom()
}

// BloomStats returns the filter's current sizing and estimated false
// positive rate.
func (e *Engine) BloomStats() BloomStats {
	e.bloomMu.Lock()
	defer e.bloomMu.Unlock()

	return BloomStats{
		NumBits:         e.filter.NumBits(),
		NumHashes:       e.filter.NumHashes(),
		Count:           e.filter.Count(),
		SizeBytes:       e.filter.SizeBytes(),
		EstimatedFPRate: e.filter.EstimatedFPRate(),
	}
}
