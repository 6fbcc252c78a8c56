package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/dawsonblock/vecindex/internal/idxerr"
)

// checksumFile is the on-disk shape of the `checksum` file: a digest per
// data file, keyed by filename.
type checksumFile map[string]string

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", idxerr.New(idxerr.IoError, "open file for checksum", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", idxerr.New(idxerr.IoError, "hash file", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func writeChecksums(dir string, names []string) error {
	sums := make(checksumFile, len(names))
	for _, name := range names {
		sum, err := hashFile(filepath.Join(dir, name))
		if err != nil {
			return err
		}
		sums[name] = sum
	}

	data, err := json.MarshalIndent(sums, "", "  ")
	if err != nil {
		return idxerr.New(idxerr.IoError, "marshal checksum file", err)
	}

	path := filepath.Join(dir, fileChecksum)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return idxerr.New(idxerr.IoError, "write checksum file", err)
	}
	f, err := os.Open(path)
	if err != nil {
		return idxerr.New(idxerr.IoError, "open checksum file for sync", err)
	}
	defer f.Close()
	return f.Sync()
}

// verifyChecksums recomputes every file's digest and compares it against
// the recorded checksum file, failing closed (IoError) on any mismatch or
// missing entry.
func verifyChecksums(dir string, names []string) error {
	data, err := os.ReadFile(filepath.Join(dir, fileChecksum))
	if err != nil {
		return idxerr.New(idxerr.IoError, "read checksum file", err)
	}
	var recorded checksumFile
	if err := json.Unmarshal(data, &recorded); err != nil {
		return idxerr.New(idxerr.IoError, "parse checksum file", err)
	}

	for _, name := range names {
		want, ok := recorded[name]
		if !ok {
			return idxerr.New(idxerr.IoError, "checksum missing for "+name, nil)
		}
		got, err := hashFile(filepath.Join(dir, name))
		if err != nil {
			return err
		}
		if got != want {
			return idxerr.New(idxerr.IoError, "checksum mismatch for "+name, nil)
		}
	}
	return nil
}
