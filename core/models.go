package core

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/go-crypt/x/blake2b"
)

// Document represents one ingested unit: the extracted text of an uploaded
// file or a fetched URL. Documents are created at ingestion time, consumed
// by the splitter and then discarded; only chunks persist.
type Document struct {
	Text     string
	Path     string // origin identifier: filename or URL
	Metadata Metadata
}

// Chunk is a bounded-length passage of a document's text. It carries a copy
// of the document's metadata and a content-derived key. Chunks are immutable
// once created; ownership transfers to the vector store on write.
type Chunk struct {
	Key      string
	Index    int
	Text     string
	Metadata Metadata
}

// ChunkKey generates a deterministic key for a chunk from its origin path,
// position within the document, and text, using BLAKE2b hashing. Identical
// chunk content always produces the same key, so gateways that upsert by key
// overwrite on a retried write instead of appending a duplicate.
func ChunkKey(path string, index int, text string) string {
	h, _ := blake2b.New(16, nil)
	h.Write([]byte(path))
	h.Write([]byte{0})

	var idx [8]byte
	binary.LittleEndian.PutUint64(idx[:], uint64(index))
	h.Write(idx[:])
	h.Write([]byte{0})

	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// RetrievedItem is one passage returned from a similarity query. Scores are
// non-negative; higher means more relevant. Items are produced fresh per
// query and never persisted.
type RetrievedItem struct {
	Text     string   `json:"text"`
	Score    float64  `json:"score"`
	Metadata Metadata `json:"metadata"`
}

// IngestionResult summarizes one ingestion call. Ingested counts source
// items that produced at least one chunk; Stored counts items the vector
// store confirmed as written; Failed lists origin identifiers that failed
// at any stage. A batch where every item failed is a valid zero-count
// result, not an error.
type IngestionResult struct {
	Ingested    int      `json:"ingested"`
	Stored      int      `json:"stored"`
	Failed      []string `json:"failed"`
	StoredPaths []string `json:"storedPaths,omitempty"`
}

// DocumentMeta holds the metadata a caller declares for a whole ingestion
// batch. Tags is the raw comma-separated form; normalization happens when
// the per-chunk Metadata record is built.
type DocumentMeta struct {
	Version string
	Tags    string
	Source  string
}
