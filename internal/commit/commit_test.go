package commit

import (
	"testing"
	"time"

	"github.com/quantumnic/iceberg/internal/digest"
)

func TestCommitHasUniqueID(t *testing.T) {
	c1 := New(nil, digest.Digest("abc"), "first")
	id := c1.ID
	c2 := New(&id, digest.Digest("def"), "second")
	if c1.ID == c2.ID {
		t.Fatalf("expected distinct commit ids")
	}
}

func TestCommitDeterministicWithSameInputs(t *testing.T) {
	ts := time.Now().UTC()
	c1 := WithTimestamp(nil, digest.Digest("root"), "msg", ts)
	c2 := WithTimestamp(nil, digest.Digest("root"), "msg", ts)
	if c1.ID != c2.ID {
		t.Fatalf("expected identical ids for identical inputs")
	}
}

func TestCommitIDChangesWithMessage(t *testing.T) {
	ts := time.Now().UTC()
	c1 := WithTimestamp(nil, digest.Digest("root"), "a", ts)
	c2 := WithTimestamp(nil, digest.Digest("root"), "b", ts)
	if c1.ID == c2.ID {
		t.Fatalf("expected different ids for different messages")
	}
}
