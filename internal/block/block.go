// Package block implements the content-addressed block: a byte
// container identified by the digest of its contents, and the
// append-only BlockStore that persists blocks on disk with dedup.
package block

import (
	"encoding/json"

	"github.com/quantumnic/iceberg/internal/digest"
	"github.com/quantumnic/iceberg/internal/icebergerr"
)

// Block is a pair (digest, bytes) where digest = hash(bytes). Any
// block loaded from disk must re-verify against its digest.
type Block struct {
	Digest digest.Digest `json:"digest"`
	Data   []byte        `json:"data"`
}

// New builds a Block from raw data, computing its digest.
func New(data []byte) Block {
	return Block{Digest: digest.Of(data), Data: data}
}

// Verify re-hashes the block's data and checks it against the stored
// digest, detecting tampering or disk corruption.
func (b Block) Verify() bool {
	return digest.Of(b.Data) == b.Digest
}

// Marshal serializes a block to its on-disk self-describing form.
func (b Block) Marshal() ([]byte, error) {
	return json.Marshal(b)
}

// Unmarshal parses a block from its on-disk form and verifies it.
func Unmarshal(data []byte) (Block, error) {
	var b Block
	if err := json.Unmarshal(data, &b); err != nil {
		return Block{}, icebergerr.Corruption("block parse error: %v", err)
	}
	if !b.Verify() {
		return Block{}, icebergerr.Corruption("block integrity check failed: %s", b.Digest)
	}
	return b, nil
}
