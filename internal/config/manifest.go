package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/quantumnic/iceberg/internal/icebergerr"
	"golang.org/x/mod/semver"
)

// ManifestSchemaVersion is the schema version this build writes and
// accepts. It follows the semver "vMAJOR.MINOR.PATCH" form so
// golang.org/x/mod/semver can compare it.
const ManifestSchemaVersion = "v1.0.0"

// Manifest is the one-shot store descriptor written at init time,
// naming the pluggable hash family and block encoding spec.md reserves
// as out-of-scope choices. A store whose manifest names anything this
// build doesn't recognize fails to open with a corruption error rather
// than silently misinterpreting its blocks.
type Manifest struct {
	SchemaVersion string `toml:"schema_version"`
	HashAlgorithm string `toml:"hash_algorithm"`
	Encoding      string `toml:"encoding"`
	Codec         string `toml:"codec"`
}

// NewManifest builds the manifest this build writes for a freshly
// initialized store.
func NewManifest(codec string) Manifest {
	return Manifest{
		SchemaVersion: ManifestSchemaVersion,
		HashAlgorithm: "sha256",
		Encoding:      "json",
		Codec:         codec,
	}
}

func manifestPath(root string) string {
	return filepath.Join(root, "config.toml")
}

// WriteManifest persists m to root/config.toml.
func WriteManifest(root string, m Manifest) error {
	f, err := os.Create(manifestPath(root))
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(m)
}

// ReadManifest loads and validates the manifest at root/config.toml.
// It rejects a schema version this build cannot parse or a hash
// algorithm/encoding it does not implement.
func ReadManifest(root string) (Manifest, error) {
	var m Manifest
	if _, err := toml.DecodeFile(manifestPath(root), &m); err != nil {
		if os.IsNotExist(err) {
			return Manifest{}, icebergerr.Corruption("store manifest missing at %s", manifestPath(root))
		}
		return Manifest{}, icebergerr.Corruption("store manifest unreadable: %v", err)
	}
	if !semver.IsValid(m.SchemaVersion) {
		return Manifest{}, icebergerr.Corruption("store manifest has invalid schema version %q", m.SchemaVersion)
	}
	if semver.Major(m.SchemaVersion) != semver.Major(ManifestSchemaVersion) {
		return Manifest{}, icebergerr.Corruption(
			"store manifest schema version %q is incompatible with supported %q", m.SchemaVersion, ManifestSchemaVersion)
	}
	if m.HashAlgorithm != "sha256" {
		return Manifest{}, icebergerr.Corruption("unsupported hash algorithm %q", m.HashAlgorithm)
	}
	if m.Encoding != "json" {
		return Manifest{}, icebergerr.Corruption("unsupported encoding %q", m.Encoding)
	}
	return m, nil
}

// ManifestExists reports whether root already has a store manifest.
func ManifestExists(root string) bool {
	_, err := os.Stat(manifestPath(root))
	return err == nil
}

