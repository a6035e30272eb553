// Package commit implements the commit graph: immutable commit
// records with at most one parent, branch refs, and tags.
package commit

import (
	"fmt"
	"time"

	"github.com/quantumnic/iceberg/internal/digest"
)

// Commit is an immutable record referencing a tree snapshot, with an
// optional parent forming a per-branch chain.
type Commit struct {
	ID        digest.Digest  `json:"id"`
	Parent    *digest.Digest `json:"parent,omitempty"`
	TreeRoot  digest.Digest  `json:"tree_root"`
	Timestamp time.Time      `json:"timestamp"`
	Message   string         `json:"message"`
}

// New creates a commit with the current time as its timestamp. Its id
// is a pure function of (parent, tree_root, timestamp, message).
func New(parent *digest.Digest, treeRoot digest.Digest, message string) Commit {
	return WithTimestamp(parent, treeRoot, message, time.Now().UTC())
}

// WithTimestamp creates a commit with an explicit timestamp, used for
// deterministic tests and for replay during rebase.
func WithTimestamp(parent *digest.Digest, treeRoot digest.Digest, message string, ts time.Time) Commit {
	ts = ts.UTC()
	id := computeID(parent, treeRoot, ts, message)
	return Commit{ID: id, Parent: parent, TreeRoot: treeRoot, Timestamp: ts, Message: message}
}

// computeID follows the canonical four-line digest input fixed by §6:
// "parent:<id|none>\ntree:<id>\ntime:<rfc3339>\nmsg:<message>".
func computeID(parent *digest.Digest, treeRoot digest.Digest, ts time.Time, message string) digest.Digest {
	parentStr := "none"
	if parent != nil {
		parentStr = string(*parent)
	}
	payload := fmt.Sprintf("parent:%s\ntree:%s\ntime:%s\nmsg:%s",
		parentStr, treeRoot, ts.Format(time.RFC3339Nano), message)
	return digest.Of([]byte(payload))
}
