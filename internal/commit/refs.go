package commit

import (
	"sort"

	"github.com/quantumnic/iceberg/internal/digest"
)

// Refs is the persistent mapping of branch name to commit id, plus the
// distinguished "head" naming the current branch and the set of
// branches named but not yet materialized by a commit ("pending"
// state — see the branch state machine in §4.9). Head is always set
// (default "main") and is implicitly pending until its first commit.
type Refs struct {
	Branches map[string]digest.Digest `json:"branches"`
	Head     string                   `json:"head"`
	Pending  map[string]bool          `json:"pending,omitempty"`
}

// NewRefs returns fresh refs pointing at the default "main" branch
// with no commits yet.
func NewRefs() Refs {
	return Refs{Branches: map[string]digest.Digest{}, Head: "main", Pending: map[string]bool{}}
}

// HeadCommitID returns the commit id the current branch points to, if
// the branch has materialized (has at least one commit).
func (r Refs) HeadCommitID() (digest.Digest, bool) {
	id, ok := r.Branches[r.Head]
	return id, ok
}

// BranchNames returns every branch name known to refs, sorted,
// including pending branches (the head branch before its first commit,
// or any branch created while the database had no commits yet).
func (r Refs) BranchNames() []string {
	seen := map[string]bool{}
	var names []string
	for name := range r.Branches {
		names = append(names, name)
		seen[name] = true
	}
	for name := range r.Pending {
		if !seen[name] {
			names = append(names, name)
			seen[name] = true
		}
	}
	if !seen[r.Head] {
		names = append(names, r.Head)
	}
	sort.Strings(names)
	return names
}

// HasBranch reports whether name is a known branch (materialized,
// pending, or the pending head branch).
func (r Refs) HasBranch(name string) bool {
	if _, ok := r.Branches[name]; ok {
		return true
	}
	if r.Pending[name] {
		return true
	}
	return r.Head == name
}

// IsMaterialized reports whether name has at least one commit.
func (r Refs) IsMaterialized(name string) bool {
	_, ok := r.Branches[name]
	return ok
}

// MarkPending registers name as a known branch with no commits yet.
func (r Refs) MarkPending(name string) {
	r.Pending[name] = true
}

// Materialize records a branch's first commit, promoting it out of
// the pending set.
func (r Refs) Materialize(name string, id digest.Digest) {
	r.Branches[name] = id
	delete(r.Pending, name)
}

// Clone returns a deep copy of refs so callers can mutate safely.
func (r Refs) Clone() Refs {
	next := Refs{
		Branches: make(map[string]digest.Digest, len(r.Branches)),
		Head:     r.Head,
		Pending:  make(map[string]bool, len(r.Pending)),
	}
	for k, v := range r.Branches {
		next.Branches[k] = v
	}
	for k, v := range r.Pending {
		next.Pending[k] = v
	}
	return next
}
