package compact

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// fakeGraph models a linear chain a -> b -> c -> d (a oldest), plus
// tests optionally fork a second branch off one of those commits.
type fakeGraph struct {
	parents   map[string]string
	treeRoots map[string]string
}

func (g fakeGraph) Parent(id string) (string, bool) {
	p, ok := g.parents[id]
	return p, ok
}

func (g fakeGraph) TreeRoot(id string) string {
	return g.treeRoots[id]
}

func newLinearGraph() fakeGraph {
	return fakeGraph{
		parents: map[string]string{
			"d": "c",
			"c": "b",
			"b": "a",
		},
		treeRoots: map[string]string{
			"a": "root-a", "b": "root-b", "c": "root-c", "d": "root-d",
		},
	}
}

// A lone branch's own retention never protects its own removable
// commits: ancestry-of-self can't be the criterion for keeping
// something, or nothing on a linear single-branch history would ever
// be collectible.
func TestSweepSoleBranchDeletesOwnRemovable(t *testing.T) {
	g := newLinearGraph()
	removable := []string{"a", "b"} // oldest two flagged by policy
	plan := Sweep([]string{"d"}, "d", removable, g)
	sort.Strings(plan.ToDelete)
	want := []string{"a", "b"}
	if diff := cmp.Diff(want, plan.ToDelete); diff != "" {
		t.Fatalf("deleted set mismatch (-want +got):\n%s", diff)
	}
	if len(plan.OrphansToDetach) != 1 || plan.OrphansToDetach[0] != "c" {
		t.Fatalf("expected c to be detached from its deleted parent b, got %v", plan.OrphansToDetach)
	}
}

func TestSweepOrphanDetach(t *testing.T) {
	g := newLinearGraph()
	// Head sits at d; policy flags a,b,c as removable (e.g. max_versions=1).
	removable := []string{"a", "b", "c"}
	plan := Sweep([]string{"d"}, "d", removable, g)
	sort.Strings(plan.ToDelete)
	want := []string{"a", "b", "c"}
	if diff := cmp.Diff(want, plan.ToDelete); diff != "" {
		t.Fatalf("deleted set mismatch (-want +got):\n%s", diff)
	}
	if len(plan.OrphansToDetach) != 1 || plan.OrphansToDetach[0] != "d" {
		t.Fatalf("expected d to be detached from its deleted parent c, got %v", plan.OrphansToDetach)
	}
	if !plan.ReachableTreeRoots["root-d"] {
		t.Fatalf("expected root-d to remain reachable")
	}
	if plan.ReachableTreeRoots["root-a"] || plan.ReachableTreeRoots["root-b"] || plan.ReachableTreeRoots["root-c"] {
		t.Fatalf("expected a/b/c tree roots to be unreachable, got %v", plan.ReachableTreeRoots)
	}
}

// A commit still needed by a different branch head survives even
// though the compacting branch flagged it removable.
func TestSweepOtherBranchProtectsSharedAncestry(t *testing.T) {
	// b forks into two branches: c (being compacted) and e (feature).
	g := fakeGraph{
		parents: map[string]string{
			"c": "b",
			"e": "b",
			"b": "a",
		},
		treeRoots: map[string]string{
			"a": "root-a", "b": "root-b", "c": "root-c", "e": "root-e",
		},
	}
	// Policy flags "a" and "b" as removable on c's own history, but "e"
	// also descends from "b" so both must survive.
	plan := Sweep([]string{"c", "e"}, "c", []string{"a", "b"}, g)
	if len(plan.ToDelete) != 0 {
		t.Fatalf("expected no deletions since e's branch still reaches a and b, got %v", plan.ToDelete)
	}
}

// When the other branch only needs part of the removable set, the
// rest is still collected.
func TestSweepPartialProtection(t *testing.T) {
	g := fakeGraph{
		parents: map[string]string{
			"c": "b",
			"e": "b",
			"b": "a",
		},
		treeRoots: map[string]string{
			"a": "root-a", "b": "root-b", "c": "root-c", "e": "root-e",
		},
	}
	// "e" forks off b, so b and a survive via e, but c itself (unique to
	// the compacted branch) is collectible if flagged removable.
	plan := Sweep([]string{"c", "e"}, "c", []string{"a", "b", "c"}, g)
	sort.Strings(plan.ToDelete)
	if diff := cmp.Diff([]string{"c"}, plan.ToDelete); diff != "" {
		t.Fatalf("deleted set mismatch (-want +got):\n%s", diff)
	}
}
