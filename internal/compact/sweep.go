package compact

import "sort"

// Graph gives the sweep enough of the commit graph to walk ancestors
// and know which tree each commit snapshots, without depending on the
// engine or commit packages directly.
type Graph interface {
	// Parent returns the id's parent commit and whether it has one.
	Parent(id string) (string, bool)
	// TreeRoot returns the digest of the tree a commit snapshots.
	TreeRoot(id string) string
}

// Plan is the outcome of the reachability sweep: which of the
// planner's removable ids are actually safe to delete, which kept
// commits need their parent link severed because their old parent is
// gone, and which tree roots remain reachable (everything else is
// eligible for tree GC).
type Plan struct {
	ToDelete []string
	// OrphansToDetach are kept commits whose stored parent no longer
	// resolves after deletion; each branch that lost its ancestry
	// prefix contributes at most one. Callers rewrite these to
	// parent = none so log() walks terminate cleanly.
	OrphansToDetach    []string
	ReachableTreeRoots map[string]bool
}

// Sweep computes the set of commits to actually delete and the
// resulting tree reachability. compactingHead is the head of the
// branch whose own retention policy produced removable — its own
// ancestry never protects its own removable commits (every commit on
// a linear chain is trivially an ancestor of its own head, which
// would otherwise mean nothing is ever collectible). A removable
// commit survives only if some *other* branch head's ancestor walk
// still reaches it.
func Sweep(branchHeads []string, compactingHead string, removable []string, graph Graph) Plan {
	var otherHeads []string
	for _, h := range branchHeads {
		if h != compactingHead {
			otherHeads = append(otherHeads, h)
		}
	}
	protected := ancestorUnion(otherHeads, graph)

	var toDelete []string
	for _, id := range removable {
		if !protected[id] {
			toDelete = append(toDelete, id)
		}
	}
	deletedSet := make(map[string]bool, len(toDelete))
	for _, id := range toDelete {
		deletedSet[id] = true
	}

	kept := ancestorUnionExcluding(branchHeads, deletedSet, graph)

	orphans := findOrphans(kept, deletedSet, graph)

	reachableRoots := map[string]bool{}
	for id := range kept {
		reachableRoots[graph.TreeRoot(id)] = true
	}

	return Plan{ToDelete: toDelete, OrphansToDetach: orphans, ReachableTreeRoots: reachableRoots}
}

// ancestorUnion walks the full ancestor chain of every head,
// cycle-safe via a visited set, with no awareness of deletion.
func ancestorUnion(heads []string, graph Graph) map[string]bool {
	return ancestorUnionExcluding(heads, nil, graph)
}

// ancestorUnionExcluding walks the ancestor chain of every head,
// stopping at (and not including) any id present in excluded, so the
// result reflects reachability as it will be after excluded ids are
// removed.
func ancestorUnionExcluding(heads []string, excluded map[string]bool, graph Graph) map[string]bool {
	kept := map[string]bool{}
	for _, head := range heads {
		id := head
		for id != "" {
			if excluded[id] {
				break
			}
			if kept[id] {
				break
			}
			kept[id] = true
			parent, ok := graph.Parent(id)
			if !ok {
				break
			}
			id = parent
		}
	}
	return kept
}

// findOrphans finds every kept commit whose stored parent no longer
// resolves after deletion, so log() walks can be rewritten to
// terminate there instead of failing to resolve a deleted ancestor.
func findOrphans(kept map[string]bool, deleted map[string]bool, graph Graph) []string {
	var orphans []string
	for id := range kept {
		parent, ok := graph.Parent(id)
		if !ok {
			continue
		}
		if deleted[parent] {
			orphans = append(orphans, id)
		}
	}
	sort.Strings(orphans)
	return orphans
}
