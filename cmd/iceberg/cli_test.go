package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// runCLI executes the root command with args, capturing everything it
// writes to stdout. Mirrors the in-process cobra invocation pattern
// used throughout this CLI's test suite.
func runCLI(t *testing.T, args ...string) string {
	t.Helper()

	var buf bytes.Buffer
	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	os.Stdout = w
	defer func() { os.Stdout = oldStdout }()

	rootCmd.SetArgs(args)
	runErr := rootCmd.Execute()

	w.Close()
	buf.ReadFrom(r)
	os.Stdout = oldStdout

	if runErr != nil {
		t.Fatalf("iceberg %s: %v", strings.Join(args, " "), runErr)
	}
	return buf.String()
}

// resetCLIFlags clears every package-level flag variable back to its
// zero value. Cobra only overwrites a bound variable when its flag is
// actually present on the command line, so stale values from an
// earlier test would otherwise leak into the next one that omits the
// same flag (e.g. a later plain "get" inheriting a previous "--at").
func resetCLIFlags(t *testing.T) {
	t.Helper()
	getAt = ""
	putMessage = ""
	deleteMessage = ""
	mergeMessage = ""
	cherryPickMessage = ""
	tagCommit = ""
	tagMessage = ""
	logLimit = 0
	queryPrefix = false
	queryRange = ""
	compactMaxVersions = 0
	compactMaxAgeDays = 0
	compactOlderThan = ""
}

func newTestStore(t *testing.T) string {
	t.Helper()
	resetCLIFlags(t)
	dir := t.TempDir()
	dbPath = filepath.Join(dir, "store")
	t.Cleanup(func() { dbPath = "" })
	runCLI(t, "init")
	return dbPath
}

// TestScenarioATimeTravelCLI walks through spec.md's Scenario A end to
// end through the command line: put two versions of the same key and
// confirm log/get/get --at all agree.
func TestScenarioATimeTravelCLI(t *testing.T) {
	newTestStore(t)

	c1 := strings.TrimSpace(runCLI(t, "put", "k", "v1", "-m", "first"))
	c2 := strings.TrimSpace(runCLI(t, "put", "k", "v2", "-m", "second"))

	if got := strings.TrimSpace(runCLI(t, "get", "k")); got != "v2" {
		t.Fatalf("get k = %q, want v2", got)
	}
	if got := strings.TrimSpace(runCLI(t, "get", "k", "--at", c1)); got != "v1" {
		t.Fatalf("get k --at c1 = %q, want v1", got)
	}

	log := runCLI(t, "log")
	if !strings.Contains(log, c1) || !strings.Contains(log, c2) {
		t.Fatalf("log output missing expected commit ids:\n%s", log)
	}
}

// TestScenarioBBranchIsolationAndMergeCLI covers branching, isolated
// writes, and a merge back onto main ("source wins" on overlap).
func TestScenarioBBranchIsolationAndMergeCLI(t *testing.T) {
	newTestStore(t)

	runCLI(t, "put", "shared", "main-value", "-m", "seed")
	runCLI(t, "branch", "feature")
	runCLI(t, "checkout", "feature")
	runCLI(t, "put", "shared", "feature-value", "-m", "override on feature")
	runCLI(t, "put", "only-on-feature", "x", "-m", "feature-only key")

	runCLI(t, "checkout", "main")
	if got := strings.TrimSpace(runCLI(t, "get", "shared")); got != "main-value" {
		t.Fatalf("main should be isolated from feature's write, got %q", got)
	}

	runCLI(t, "merge", "feature", "-m", "merge feature into main")
	if got := strings.TrimSpace(runCLI(t, "get", "shared")); got != "feature-value" {
		t.Fatalf("merge should have source (feature) win on overlap, got %q", got)
	}
	if got := strings.TrimSpace(runCLI(t, "get", "only-on-feature")); got != "x" {
		t.Fatalf("merge should bring across feature-only keys, got %q", got)
	}
}

// TestScenarioCCherryPickCLI replays a delete from a side branch onto
// main without merging the whole branch.
func TestScenarioCCherryPickCLI(t *testing.T) {
	newTestStore(t)

	runCLI(t, "put", "k", "v", "-m", "seed")
	runCLI(t, "branch", "cleanup")
	runCLI(t, "checkout", "cleanup")
	deleteCommit := strings.TrimSpace(runCLI(t, "delete", "k", "-m", "remove k"))

	runCLI(t, "checkout", "main")
	runCLI(t, "cherry-pick", deleteCommit)

	if _, err := runCLIExpectError(t, "get", "k"); err == nil {
		t.Fatalf("expected k to be gone on main after cherry-picking its deletion")
	}
}

// runCLIExpectError runs the CLI expecting a non-nil error, returning
// whatever stdout was written and the error rootCmd.Execute() produced.
func runCLIExpectError(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	os.Stdout = w

	rootCmd.SetArgs(args)
	runErr := rootCmd.Execute()

	w.Close()
	buf.ReadFrom(r)
	os.Stdout = oldStdout
	return buf.String(), runErr
}

// TestScenarioDRebaseCLI diverges two branches from a common base and
// rebases one onto the other, expecting both branches' keys present.
func TestScenarioDRebaseCLI(t *testing.T) {
	newTestStore(t)

	runCLI(t, "put", "base", "v", "-m", "common ancestor")
	runCLI(t, "branch", "topic")

	runCLI(t, "put", "main-only", "v", "-m", "advance main")

	runCLI(t, "checkout", "topic")
	runCLI(t, "put", "topic-only", "v", "-m", "advance topic")

	rebaseOut := runCLI(t, "rebase", "main")
	if strings.Contains(rebaseOut, "already up to date") {
		t.Fatalf("expected topic to have a unique commit to replay, got: %s", rebaseOut)
	}

	for _, key := range []string{"base", "main-only", "topic-only"} {
		if got := strings.TrimSpace(runCLI(t, "get", key)); got != "v" {
			t.Fatalf("after rebase, get %s = %q, want v", key, got)
		}
	}
}

// TestScenarioFCompactionCLI runs many versions of one key through a
// tight retention policy and confirms history actually shrinks.
func TestScenarioFCompactionCLI(t *testing.T) {
	newTestStore(t)

	for i := 0; i < 5; i++ {
		runCLI(t, "put", "k", strings.Repeat("v", i+1), "-m", "version")
	}

	result := runCLI(t, "compact", "--max-versions", "2")
	if !strings.Contains(result, "commits removed:") {
		t.Fatalf("expected a commits-removed line in compact output, got:\n%s", result)
	}

	log := runCLI(t, "log")
	if n := strings.Count(log, "\n"); n > 2 {
		t.Fatalf("expected history to shrink to at most 2 commits, got %d lines:\n%s", n, log)
	}
	if got := strings.TrimSpace(runCLI(t, "get", "k")); got != "vvvvv" {
		t.Fatalf("compaction must never change the current value, got %q", got)
	}
}

// TestIndexLifecycleCLI exercises secondary-index creation and lookup
// over a JSON-valued key.
func TestIndexLifecycleCLI(t *testing.T) {
	newTestStore(t)

	runCLI(t, "put", "user:1", `{"role":"admin"}`, "-m", "seed user 1")
	runCLI(t, "put", "user:2", `{"role":"member"}`, "-m", "seed user 2")
	runCLI(t, "create-index", "by-role", "role")

	out := runCLI(t, "query-index", "by-role", "admin")
	if !strings.Contains(out, "user:1") {
		t.Fatalf("expected query-index to find user:1, got:\n%s", out)
	}
	if strings.Contains(out, "user:2") {
		t.Fatalf("query-index matched the wrong user:\n%s", out)
	}
}

// TestTagLifecycleCLI confirms a tag survives as an immutable pointer
// even after the branch that created it moves on.
func TestTagLifecycleCLI(t *testing.T) {
	newTestStore(t)

	c1 := strings.TrimSpace(runCLI(t, "put", "k", "v1", "-m", "first"))
	runCLI(t, "tag", "v1-release", "--commit", c1)
	runCLI(t, "put", "k", "v2", "-m", "second")

	tags := runCLI(t, "tags")
	if !strings.Contains(tags, "v1-release") {
		t.Fatalf("expected v1-release in tags output, got:\n%s", tags)
	}
	if got := strings.TrimSpace(runCLI(t, "get", "k", "--at", c1)); got != "v1" {
		t.Fatalf("tag's underlying commit should still resolve to v1, got %q", got)
	}
}
