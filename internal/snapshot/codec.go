package snapshot

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"io"
	"os"
	"sort"
	"time"

	"github.com/dawsonblock/vecindex/internal/docstore"
	"github.com/dawsonblock/vecindex/internal/idxerr"
)

// docRecord is the JSON shape of one documents.jsonl line. It adds `label`
// beyond the fields spec section 4.4 lists illustratively, since a reload
// must be able to map each JSONL record back onto its graph/vector data
// without re-deriving labels by reinsertion order.
type docRecord struct {
	DocID     string            `json:"doc_id"`
	Label     uint64            `json:"label"`
	Text      string            `json:"text"`
	Metadata  map[string]string `json:"metadata"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func writeDocuments(path string, records []*docstore.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return idxerr.New(idxerr.IoError, "create documents file", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, rec := range records {
		line := docRecord{
			DocID:     rec.DocID,
			Label:     rec.Label,
			Text:      rec.Text,
			Metadata:  rec.Metadata,
			CreatedAt: rec.CreatedAt,
			UpdatedAt: rec.UpdatedAt,
		}
		if err := enc.Encode(line); err != nil {
			return idxerr.New(idxerr.IoError, "encode document record", err)
		}
	}
	if err := w.Flush(); err != nil {
		return idxerr.New(idxerr.IoError, "flush documents file", err)
	}
	return f.Sync()
}

func readDocuments(path string) ([]*docstore.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, idxerr.New(idxerr.IoError, "open documents file", err)
	}
	defer f.Close()

	var out []*docstore.Record
	dec := json.NewDecoder(bufio.NewReader(f))
	for {
		var line docRecord
		if err := dec.Decode(&line); err != nil {
			if err == io.EOF {
				break
			}
			return nil, idxerr.New(idxerr.IoError, "decode document record", err)
		}
		out = append(out, &docstore.Record{
			DocID:     line.DocID,
			Label:     line.Label,
			Text:      line.Text,
			Metadata:  line.Metadata,
			CreatedAt: line.CreatedAt,
			UpdatedAt: line.UpdatedAt,
		})
	}
	return out, nil
}

// writeVectors encodes vectors as a contiguous array indexed by label: a
// little-endian header (dimension, count) followed by (label, dim floats)
// tuples in ascending label order, covering every graph node (live and
// tombstoned) rather than just live documents — see hnsw.Graph.Vectors.
func writeVectors(path string, dim int, vectors map[uint64][]float32) error {
	f, err := os.Create(path)
	if err != nil {
		return idxerr.New(idxerr.IoError, "create vectors file", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	header := [2]int64{int64(dim), int64(len(vectors))}
	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		return idxerr.New(idxerr.IoError, "write vectors header", err)
	}

	labels := make([]uint64, 0, len(vectors))
	for label := range vectors {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })

	for _, label := range labels {
		if err := binary.Write(w, binary.LittleEndian, label); err != nil {
			return idxerr.New(idxerr.IoError, "write vector label", err)
		}
		if err := binary.Write(w, binary.LittleEndian, vectors[label]); err != nil {
			return idxerr.New(idxerr.IoError, "write vector data", err)
		}
	}
	if err := w.Flush(); err != nil {
		return idxerr.New(idxerr.IoError, "flush vectors file", err)
	}
	return f.Sync()
}

func readVectors(path string) (dim int, vectors map[uint64][]float32, err error) {
	f, openErr := os.Open(path)
	if openErr != nil {
		return 0, nil, idxerr.New(idxerr.IoError, "open vectors file", openErr)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var header [2]int64
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return 0, nil, idxerr.New(idxerr.IoError, "read vectors header", err)
	}
	dim = int(header[0])
	count := int(header[1])

	vectors = make(map[uint64][]float32, count)
	for i := 0; i < count; i++ {
		var label uint64
		if err := binary.Read(r, binary.LittleEndian, &label); err != nil {
			return 0, nil, idxerr.New(idxerr.IoError, "read vector label", err)
		}
		vec := make([]float32, dim)
		if err := binary.Read(r, binary.LittleEndian, vec); err != nil {
			return 0, nil, idxerr.New(idxerr.IoError, "read vector data", err)
		}
		vectors[label] = vec
	}
	return dim, vectors, nil
}
