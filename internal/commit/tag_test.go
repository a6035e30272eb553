package commit

import "testing"

func TestTagCreation(t *testing.T) {
	msg := "release"
	tag := NewTag("v1.0", "abc123", &msg)
	if tag.Name != "v1.0" || tag.CommitID != "abc123" {
		t.Fatalf("unexpected tag fields: %+v", tag)
	}
	if tag.Message == nil || *tag.Message != "release" {
		t.Fatalf("expected message to roundtrip")
	}
	if tag.ID == "" {
		t.Fatalf("expected non-empty tag id")
	}
}

func TestTagsHaveUniqueIDs(t *testing.T) {
	t1 := NewTag("v1", "abc", nil)
	t2 := NewTag("v2", "abc", nil)
	if t1.ID == t2.ID {
		t.Fatalf("expected distinct tag ids for distinct names")
	}
}
