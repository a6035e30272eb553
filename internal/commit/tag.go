package commit

import (
	"fmt"
	"time"

	"github.com/quantumnic/iceberg/internal/digest"
)

// Tag is an immutable, named pointer to a specific commit.
type Tag struct {
	ID        digest.Digest `json:"id"`
	Name      string        `json:"name"`
	CommitID  digest.Digest `json:"commit_id"`
	Message   *string       `json:"message,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

// NewTag creates a tag pointing to commitID. Its id is a hash of the
// name, commit and creation time, so two tags are never confused even
// if they happen to name the same commit.
func NewTag(name string, commitID digest.Digest, message *string) Tag {
	createdAt := time.Now().UTC()
	payload := fmt.Sprintf("tag:%s\ncommit:%s\ntime:%s", name, commitID, createdAt.Format(time.RFC3339Nano))
	id := digest.Of([]byte(payload))
	return Tag{ID: id, Name: name, CommitID: commitID, Message: message, CreatedAt: createdAt}
}
