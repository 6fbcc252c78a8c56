// Package snapshot implements the index's durable, atomic persistence
// format (spec component C4): a directory holding manifest.json, graph.bin,
// vectors.bin, documents.jsonl, and a checksum file, written and read back
// via a temp-directory-then-rename protocol so a crash mid-write never
// corrupts the previous generation.
package snapshot

import (
	"encoding/gob"
	"os"
	"path/filepath"
	"time"

	"github.com/dawsonblock/vecindex/internal/config"
	"github.com/dawsonblock/vecindex/internal/docstore"
	"github.com/dawsonblock/vecindex/internal/hnsw"
	"github.com/dawsonblock/vecindex/internal/idxerr"
)

// dataFiles lists every file (besides the checksum file itself) whose
// digest is recorded, in the fixed order they're always written/verified.
var dataFiles = []string{fileManifest, fileGraph, fileVectors, fileDocuments}

// Data is everything a snapshot captures about one index generation: the
// configuration it was opened with, every live document record, the HNSW
// graph's topology, and the vectors for every label the graph references
// (live or tombstoned).
type Data struct {
	Config   config.IndexConfig
	Records  []*docstore.Record
	Graph    hnsw.Snapshot
	Vectors  map[uint64][]float32
	DocCount int
	Deleted  int
}

// SaveAs atomically writes data to the snapshot directory at path,
// following spec section 4.4's protocol: build everything under a unique
// temp directory, fsync each file, then swap it into place. On any error
// before the final rename the temp directory is removed and the prior
// snapshot at path (if any) is left untouched.
func SaveAs(path string, data Data) error {
	parent := filepath.Dir(path)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return idxerr.New(idxerr.IoError, "create snapshot parent directory", err)
	}

	tmpDir, err := os.MkdirTemp(parent, filepath.Base(path)+".tmp-")
	if err != nil {
		return idxerr.New(idxerr.IoError, "create snapshot temp directory", err)
	}
	cleanupTmp := true
	defer func() {
		if cleanupTmp {
			os.RemoveAll(tmpDir)
		}
	}()

	if err := writeAll(tmpDir, data); err != nil {
		return err
	}
	if err := syncDir(tmpDir); err != nil {
		return err
	}

	if err := swapIntoPlace(tmpDir, path); err != nil {
		return err
	}
	cleanupTmp = false

	return syncDir(parent)
}

func writeAll(dir string, data Data) error {
	if err := writeDocuments(filepath.Join(dir, fileDocuments), data.Records); err != nil {
		return err
	}
	if err := writeVectors(filepath.Join(dir, fileVectors), data.Config.EmbeddingDim, data.Vectors); err != nil {
		return err
	}
	if err := writeGraph(filepath.Join(dir, fileGraph), data.Graph); err != nil {
		return err
	}

	manifest := Manifest{
		FormatVersion: CurrentFormatVersion,
		CreatedAt:     snapshotTime(),
		Config:        toConfigView(data.Config),
		Stats:         ManifestStats{DocCount: data.DocCount, DeletedCount: data.Deleted},
		ChecksumAlgorithm: ChecksumAlgorithm,
	}
	if err := writeManifest(filepath.Join(dir, fileManifest), manifest); err != nil {
		return err
	}

	return writeChecksums(dir, dataFiles)
}

// swapIntoPlace moves tmpDir into path, preserving the previous generation
// at path+".old" until the swap is confirmed, then removing it — the
// "rename old aside, rename new into place, delete old" variant spec
// section 4.4 allows as an alternative to a single atomic rename (needed
// since path may already be a populated directory, which os.Rename onto
// directly would refuse on some platforms).
func swapIntoPlace(tmpDir, path string) error {
	oldPath := path + ".old"
	os.RemoveAll(oldPath) // best-effort: a stale .old from a prior crash must not block us

	hadPrevious := false
	if _, err := os.Stat(path); err == nil {
		if err := os.Rename(path, oldPath); err != nil {
			return idxerr.New(idxerr.IoError, "move previous snapshot aside", err)
		}
		hadPrevious = true
	}

	if err := os.Rename(tmpDir, path); err != nil {
		if hadPrevious {
			os.Rename(oldPath, path) // best-effort restore
		}
		return idxerr.New(idxerr.IoError, "install new snapshot", err)
	}

	if hadPrevious {
		os.RemoveAll(oldPath)
	}
	return nil
}

func syncDir(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return idxerr.New(idxerr.IoError, "open directory for sync", err)
	}
	defer f.Close()
	if err := f.Sync(); err != nil {
		return idxerr.New(idxerr.IoError, "sync directory", err)
	}
	return nil
}

// Exists reports whether a snapshot is present at path, judged by whether
// its manifest.json can be stat'ed; any stat failure reports false.
func Exists(path string) bool {
	_, err := os.Stat(filepath.Join(path, fileManifest))
	return err == nil
}

// LoadFrom reads and verifies the snapshot at path, returning everything
// needed to reconstruct the document store and graph. It fails closed: any
// checksum mismatch, unsupported format version, or I/O error returns an
// error and no partial Data.
func LoadFrom(path string) (Data, error) {
	if !Exists(path) {
		return Data{}, idxerr.New(idxerr.NotFound, "no snapshot at path", nil)
	}

	if err := verifyChecksums(path, dataFiles); err != nil {
		return Data{}, err
	}

	manifest, err := readManifest(filepath.Join(path, fileManifest))
	if err != nil {
		return Data{}, err
	}
	if !formatVersionSupported(manifest.FormatVersion) {
		return Data{}, idxerr.New(idxerr.VersionMismatch, "unsupported snapshot format version", nil)
	}

	records, err := readDocuments(filepath.Join(path, fileDocuments))
	if err != nil {
		return Data{}, err
	}
	_, vectors, err := readVectors(filepath.Join(path, fileVectors))
	if err != nil {
		return Data{}, err
	}
	graphSnap, err := readGraph(filepath.Join(path, fileGraph))
	if err != nil {
		return Data{}, err
	}

	return Data{
		Config:   fromConfigView(manifest.Config),
		Records:  records,
		Graph:    graphSnap,
		Vectors:  vectors,
		DocCount: manifest.Stats.DocCount,
		Deleted:  manifest.Stats.DeletedCount,
	}, nil
}

func formatVersionSupported(v int) bool {
	return v <= CurrentFormatVersion && v > CurrentFormatVersion-PriorVersionsAccepted-1
}

func toConfigView(c config.IndexConfig) ConfigView {
	return ConfigView{
		EmbeddingDim:        c.EmbeddingDim,
		MaxElements:         c.MaxElements,
		M:                   c.M,
		EfConstruction:      c.EfConstruction,
		EfSearch:            c.EfSearch,
		NormalizeEmbeddings: c.NormalizeEmbeddings,
		SyncIntervalDocs:    c.SyncIntervalDocs,
		IndexPath:           c.IndexPath,
		Seed:                c.Seed,
	}
}

func fromConfigView(v ConfigView) config.IndexConfig {
	return config.IndexConfig{
		EmbeddingDim:        v.EmbeddingDim,
		MaxElements:         v.MaxElements,
		M:                   v.M,
		EfConstruction:      v.EfConstruction,
		EfSearch:            v.EfSearch,
		NormalizeEmbeddings: v.NormalizeEmbeddings,
		SyncIntervalDocs:    v.SyncIntervalDocs,
		IndexPath:           v.IndexPath,
		Seed:                v.Seed,
	}
}

// snapshotTime is isolated in its own function so tests can see exactly
// where wall-clock time enters this package.
func snapshotTime() time.Time { return time.Now().UTC() }

func writeGraph(path string, snap hnsw.Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return idxerr.New(idxerr.IoError, "create graph file", err)
	}
	defer f.Close()
	if err := gob.NewEncoder(f).Encode(snap); err != nil {
		return idxerr.New(idxerr.IoError, "encode graph snapshot", err)
	}
	return f.Sync()
}

func readGraph(path string) (hnsw.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return hnsw.Snapshot{}, idxerr.New(idxerr.IoError, "open graph file", err)
	}
	defer f.Close()
	var snap hnsw.Snapshot
	if err := gob.NewDecoder(f).Decode(&snap); err != nil {
		return hnsw.Snapshot{}, idxerr.New(idxerr.IoError, "decode graph snapshot", err)
	}
	return snap, nil
}
