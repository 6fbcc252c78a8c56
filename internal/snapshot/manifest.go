package snapshot

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dawsonblock/vecindex/internal/idxerr"
)

// CurrentFormatVersion is the format_version this build writes. LoadFrom
// accepts this version and the PriorVersionsAccepted major versions below
// it, per spec section 4.4's compatibility rule.
const CurrentFormatVersion = 1

// PriorVersionsAccepted is how many major versions below CurrentFormatVersion
// a reader tolerates.
const PriorVersionsAccepted = 2

// ChecksumAlgorithm names the hash used for the checksum file. Recorded in
// the manifest so a future format change can introduce a different one
// without breaking readers of old snapshots.
const ChecksumAlgorithm = "sha256"

// filenames within a snapshot directory.
const (
	fileManifest  = "manifest.json"
	fileGraph     = "graph.bin"
	fileVectors   = "vectors.bin"
	fileDocuments = "documents.jsonl"
	fileChecksum  = "checksum"
)

// ManifestStats is the small stats snapshot embedded in manifest.json,
// enough to report doc_count/deleted_count without decoding graph.bin or
// documents.jsonl first.
type ManifestStats struct {
	DocCount     int `json:"doc_count"`
	DeletedCount int `json:"deleted_count"`
}

// Manifest is the versioned header written as manifest.json.
type Manifest struct {
	FormatVersion     int           `json:"format_version"`
	CreatedAt         time.Time     `json:"created_at"`
	Config            ConfigView    `json:"config"`
	Stats             ManifestStats `json:"stats"`
	ChecksumAlgorithm string        `json:"checksum_algorithm"`
}

// ConfigView is the subset of config.IndexConfig persisted in the
// manifest. It is a separate type (rather than embedding config.IndexConfig
// directly) so internal/snapshot's on-disk schema doesn't silently change
// shape if IndexConfig grows fields unrelated to reconstructing an index.
type ConfigView struct {
	EmbeddingDim        int    `json:"embedding_dim"`
	MaxElements         int    `json:"max_elements"`
	M                   int    `json:"m"`
	EfConstruction      int    `json:"ef_construction"`
	EfSearch            int    `json:"ef_search"`
	NormalizeEmbeddings bool   `json:"normalize_embeddings"`
	SyncIntervalDocs    int    `json:"sync_interval_docs"`
	IndexPath           string `json:"index_path"`
	Seed                int64  `json:"seed"`
}

func writeManifest(path string, m Manifest) error {
	f, err := os.Create(path)
	if err != nil {
		return idxerr.New(idxerr.IoError, "create manifest file", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return idxerr.New(idxerr.IoError, "encode manifest", err)
	}
	return f.Sync()
}

func readManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, idxerr.New(idxerr.IoError, "read manifest file", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, idxerr.New(idxerr.IoError, "parse manifest file", err)
	}
	return m, nil
}
