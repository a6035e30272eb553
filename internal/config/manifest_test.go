package config

import "testing"

func TestWriteReadManifestRoundtrip(t *testing.T) {
	dir := t.TempDir()
	m := NewManifest("flate")
	if err := WriteManifest(dir, m); err != nil {
		t.Fatalf("WriteManifest: %v", err)
	}
	got, err := ReadManifest(dir)
	if err != nil {
		t.Fatalf("ReadManifest: %v", err)
	}
	if got != m {
		t.Fatalf("expected roundtrip manifest %+v, got %+v", m, got)
	}
}

func TestReadManifestMissing(t *testing.T) {
	dir := t.TempDir()
	if _, err := ReadManifest(dir); err == nil {
		t.Fatalf("expected error reading missing manifest")
	}
}

func TestReadManifestRejectsUnknownHash(t *testing.T) {
	dir := t.TempDir()
	m := NewManifest("passthrough")
	m.HashAlgorithm = "md5"
	if err := WriteManifest(dir, m); err != nil {
		t.Fatalf("WriteManifest: %v", err)
	}
	if _, err := ReadManifest(dir); err == nil {
		t.Fatalf("expected error for unsupported hash algorithm")
	}
}

func TestReadManifestRejectsIncompatibleSchema(t *testing.T) {
	dir := t.TempDir()
	m := NewManifest("passthrough")
	m.SchemaVersion = "v2.0.0"
	if err := WriteManifest(dir, m); err != nil {
		t.Fatalf("WriteManifest: %v", err)
	}
	if _, err := ReadManifest(dir); err == nil {
		t.Fatalf("expected error for incompatible schema major version")
	}
}

func TestManifestExists(t *testing.T) {
	dir := t.TempDir()
	if ManifestExists(dir) {
		t.Fatalf("expected no manifest in fresh dir")
	}
	if err := WriteManifest(dir, NewManifest("passthrough")); err != nil {
		t.Fatalf("WriteManifest: %v", err)
	}
	if !ManifestExists(dir) {
		t.Fatalf("expected manifest to exist after write")
	}
}
