package bloom

import "encoding/json"

type wireFilter struct {
	Bits      []byte `json:"bits"`
	NumBits   uint64 `json:"num_bits"`
	NumHashes uint32 `json:"num_hashes"`
	Count     uint64 `json:"count"`
}

// MarshalJSON serializes the filter's internal state for persistence
// at bloom/keys.json.
func (f *Filter) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireFilter{
		Bits:      f.bits,
		NumBits:   f.numBits,
		NumHashes: f.numHashes,
		Count:     f.count,
	})
}

// UnmarshalJSON restores filter state from its persisted form.
func (f *Filter) UnmarshalJSON(data []byte) error {
	var w wireFilter
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	f.bits = w.Bits
	f.numBits = w.NumBits
	f.numHashes = w.NumHashes
	f.count = w.Count
	return nil
}

// Rebuild constructs a fresh filter containing exactly the given keys,
// sized for len(keys) items at fpRate. Used by rebuild_bloom to
// reconstruct the filter from the current tree's keyset.
func Rebuild(keys []string, fpRate float64) *Filter {
	f := New(len(keys), fpRate)
	for _, k := range keys {
		f.Insert([]byte(k))
	}
	return f
}
