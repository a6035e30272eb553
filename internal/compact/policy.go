// Package compact implements the two-step retention-and-sweep garbage
// collector described in §4.5: a pure planner that flags removable
// commits by policy, and a reachability sweep that only deletes what
// no branch still depends on.
package compact

import (
	"fmt"
	"time"
)

// Policy configures retention. Zero values mean unlimited: MaxVersions
// == 0 keeps every version, MaxAgeDays == nil keeps every age.
type Policy struct {
	MaxVersions int
	MaxAgeDays  *uint64
}

// CommitInfo is the minimal shape the planner needs: a commit's id and
// its creation timestamp.
type CommitInfo struct {
	ID        string
	Timestamp time.Time
}

// Result reports what a compaction run actually removed.
type Result struct {
	CommitsRemoved int
	TreesRemoved   int
	BlocksRemoved  int
	BytesReclaimed uint64
}

func (r Result) String() string {
	return fmt.Sprintf(
		"Commits removed: %d\nTrees removed:   %d\nBlocks removed:  %d\nBytes reclaimed: %d\n",
		r.CommitsRemoved, r.TreesRemoved, r.BlocksRemoved, r.BytesReclaimed,
	)
}

// FindRemovableCommits flags which commits a policy would remove,
// given a newest-first commit list. A commit at index i is removable
// if MaxVersions > 0 and i >= MaxVersions, or if MaxAgeDays is set and
// the commit's integer-day age exceeds it. Order of the returned ids
// matches the input order.
func FindRemovableCommits(commits []CommitInfo, policy Policy, now time.Time) []string {
	var toRemove []string
	for i, c := range commits {
		remove := false
		if policy.MaxVersions > 0 && i >= policy.MaxVersions {
			remove = true
		}
		if policy.MaxAgeDays != nil {
			ageDays := int64(now.Sub(c.Timestamp).Hours() / 24)
			if ageDays > int64(*policy.MaxAgeDays) {
				remove = true
			}
		}
		if remove {
			toRemove = append(toRemove, c.ID)
		}
	}
	return toRemove
}
