package gen

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/syssam/entityc/compiler/load"
)

// ManifestVersion is bumped when the manifest layout changes.
const ManifestVersion = 1

// Manifest records the provenance of one generation run: which entities
// were generated, from which schema contents, into which files. It replaces
// marker comments embedded in emitted text.
type Manifest struct {
	Version     int                      `msgpack:"version"`
	GeneratedAt time.Time                `msgpack:"generated_at"`
	Entities    map[string]ManifestEntry `msgpack:"entities"`
}

// ManifestEntry is the record of one generated entity.
type ManifestEntry struct {
	// Checksum is the hex SHA-256 of the marshaled schema.
	Checksum string `msgpack:"checksum"`
	// Files lists the artifact files generated for the entity, relative
	// to the target directory.
	Files []string `msgpack:"files"`
}

// NewManifest creates an empty manifest stamped with the current time.
func NewManifest() *Manifest {
	return &Manifest{
		Version:     ManifestVersion,
		GeneratedAt: time.Now().UTC(),
		Entities:    make(map[string]ManifestEntry),
	}
}

// Record adds or extends the entry of an entity.
func (m *Manifest) Record(entity, checksum string, files ...string) {
	entry := m.Entities[entity]
	entry.Checksum = checksum
	entry.Files = append(entry.Files, files...)
	m.Entities[entity] = entry
}

// Changed reports whether the entity is new or its schema checksum differs
// from the recorded one.
func (m *Manifest) Changed(entity, checksum string) bool {
	entry, ok := m.Entities[entity]
	return !ok || entry.Checksum != checksum
}

// WriteFile encodes the manifest to the given path.
func (m *Manifest) WriteFile(path string) error {
	buf, err := msgpack.Marshal(m)
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0o644)
}

// ReadManifest decodes a manifest from the given path.
func ReadManifest(path string) (*Manifest, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m := &Manifest{}
	if err := msgpack.Unmarshal(buf, m); err != nil {
		return nil, err
	}
	if m.Entities == nil {
		m.Entities = make(map[string]ManifestEntry)
	}
	return m, nil
}

// SchemaChecksum returns the hex SHA-256 of the schema's canonical JSON
// form.
func SchemaChecksum(s *load.Schema) (string, error) {
	buf, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(buf)
	return hex.EncodeToString(sum[:]), nil
}
