package kbModel

import (
	"strconv"
	"sync"
	"time"
)

// TextUnit is one logical unit a format extractor yields - a page, a row,
// a sheet or a whole file. Produced fresh on every load, never mutated.
type TextUnit struct {
	Content        string            `json:"content"`
	SourceMetadata map[string]string `json:"source_metadata"`
}

// Chunk is the unit of indexing and retrieval: a bounded span of text plus
// the metadata it inherited from its TextUnit.
type Chunk struct {
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata"`
}

// ScoredChunk is a chunk plus the similarity score a query ranked it with.
type ScoredChunk struct {
	Chunk Chunk   `json:"chunk"`
	Score float32 `json:"score"`
}

type RecordStatus string

const (
	RecordPending   RecordStatus = "pending"
	RecordCommitted RecordStatus = "committed"
)

// DocumentRecord is the provenance entry the registry keeps per ingested
// document. Written pending before the index insert and flipped to
// committed after, so a crash in between can be rolled back on load.
type DocumentRecord struct {
	FilePath       string         `json:"file_path"`
	AddedTime      time.Time      `json:"added_time"`
	ChunkCount     int            `json:"doc_count"`
	CustomMetadata map[string]any `json:"custom_metadata"`
	Status         RecordStatus   `json:"status,omitempty"`
}

// DocumentInfo is a record paired with its id, for listings.
type DocumentInfo struct {
	DocID string `json:"doc_id"`
	DocumentRecord
}

// Stats is the aggregate view over the registry.
type Stats struct {
	TotalDocuments int        `json:"total_documents"`
	TotalChunks    int        `json:"total_chunks"`
	LastUpdated    *time.Time `json:"last_updated,omitempty"`
}

type DocType string

const (
	TXT     DocType = "TXT"
	MD      DocType = "MD"
	CSV     DocType = "CSV"
	JSON    DocType = "JSON"
	XLSX    DocType = "XLSX"
	PDF     DocType = "PDF"
	OFFICE  DocType = "OFFICE" //docx, odt, rtf
	Unknown DocType = "UNKNOWN"
)

var (
	idMu      sync.Mutex
	lastDocID int64
)

// NewDocID returns a unique, monotonically increasing document id based on
// a nanosecond timestamp. Rapid successive calls can land on the same
// nanosecond, so collisions are resolved by bumping past the last id.
func NewDocID() string {
	idMu.Lock()
	defer idMu.Unlock()
	now := time.Now().UnixNano()
	if now <= lastDocID {
		now = lastDocID + 1
	}
	lastDocID = now
	return strconv.FormatInt(now, 10)
}
