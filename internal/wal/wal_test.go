package wal

import (
	"path/filepath"
	"testing"
)

func open(t *testing.T) (*WAL, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wal.log")
	w, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return w, path
}

func TestBeginCommit(t *testing.T) {
	w, _ := open(t)
	tx, err := w.Begin()
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := w.LogWrite(tx, "k1", []byte("v1")); err != nil {
		t.Fatalf("LogWrite: %v", err)
	}
	if err := w.Commit(tx, "commit-1"); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	rec, err := w.Recover()
	if err != nil {
		t.Fatalf("Recover: %v", err)
	}
	if rec.Committed[tx] != "commit-1" {
		t.Fatalf("expected tx %d committed as commit-1, got %+v", tx, rec.Committed)
	}
	if len(rec.Uncommitted) != 0 {
		t.Fatalf("expected no uncommitted transactions, got %v", rec.Uncommitted)
	}
}

func TestRecoveryCommitted(t *testing.T) {
	w, path := open(t)
	tx, _ := w.Begin()
	_ = w.LogWrite(tx, "k", []byte("v"))
	_ = w.Commit(tx, "c1")

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	rec, err := reopened.Recover()
	if err != nil {
		t.Fatalf("Recover: %v", err)
	}
	if rec.Committed[tx] != "c1" {
		t.Fatalf("expected committed tx to survive reopen, got %+v", rec.Committed)
	}
}

func TestRecoveryUncommitted(t *testing.T) {
	w, path := open(t)
	tx, _ := w.Begin()
	_ = w.LogWrite(tx, "k", []byte("v"))
	// no Commit call: simulates a crash mid-transaction.

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	rec, err := reopened.Recover()
	if err != nil {
		t.Fatalf("Recover: %v", err)
	}
	if len(rec.Uncommitted) != 1 || rec.Uncommitted[0] != tx {
		t.Fatalf("expected tx %d reported uncommitted, got %v", tx, rec.Uncommitted)
	}
	if _, ok := rec.Committed[tx]; ok {
		t.Fatalf("uncommitted tx must not appear in Committed")
	}
}

func TestRollback(t *testing.T) {
	w, _ := open(t)
	tx, _ := w.Begin()
	_ = w.LogWrite(tx, "k", []byte("v"))
	if err := w.Rollback(tx); err != nil {
		t.Fatalf("Rollback: %v", err)
	}
	rec, err := w.Recover()
	if err != nil {
		t.Fatalf("Recover: %v", err)
	}
	if len(rec.Uncommitted) != 0 {
		t.Fatalf("rolled-back tx must not be reported uncommitted, got %v", rec.Uncommitted)
	}
	if _, ok := rec.Committed[tx]; ok {
		t.Fatalf("rolled-back tx must not be reported committed")
	}
}

func TestTruncate(t *testing.T) {
	w, _ := open(t)
	tx, _ := w.Begin()
	_ = w.Commit(tx, "c1")
	if w.Size() == 0 {
		t.Fatalf("expected nonzero WAL size before truncate")
	}
	if err := w.Truncate(); err != nil {
		t.Fatalf("Truncate: %v", err)
	}
	if w.Size() != 0 {
		t.Fatalf("expected zero size after truncate, got %d", w.Size())
	}
	entries, err := w.Entries()
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no entries after truncate, got %d", len(entries))
	}
}

func TestMultipleTransactions(t *testing.T) {
	w, _ := open(t)
	tx1, _ := w.Begin()
	tx2, _ := w.Begin()
	if tx1 == tx2 {
		t.Fatalf("expected distinct tx ids")
	}
	_ = w.LogWrite(tx1, "a", []byte("1"))
	_ = w.LogDelete(tx2, "b")
	_ = w.Commit(tx1, "c1")
	_ = w.Rollback(tx2)

	rec, err := w.Recover()
	if err != nil {
		t.Fatalf("Recover: %v", err)
	}
	if rec.Committed[tx1] != "c1" {
		t.Fatalf("expected tx1 committed")
	}
	if len(rec.Uncommitted) != 0 {
		t.Fatalf("expected no uncommitted tx, got %v", rec.Uncommitted)
	}
}

func TestReopenContinuesSequence(t *testing.T) {
	w, path := open(t)
	tx1, _ := w.Begin()
	_ = w.Commit(tx1, "c1")

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	tx2, err := reopened.Begin()
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if tx2 <= tx1 {
		t.Fatalf("expected tx id sequence to continue past %d, got %d", tx1, tx2)
	}
}
