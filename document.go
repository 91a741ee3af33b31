package canon

import (
	"context"
	"time"
)

// DocType classifies a standards document by its role in the canon.
type DocType string

// Document types.
const (
	TypeTenet   DocType = "tenet"
	TypeBinding DocType = "binding"
	TypeUnknown DocType = "unknown"
)

// FrontMatter holds the typed header fields of a standards document.
// Unknown header keys are ignored during parsing.
type FrontMatter struct {
	ID           string `yaml:"id" json:"id,omitempty"`
	Version      string `yaml:"version" json:"version,omitempty"`
	LastModified string `yaml:"last_modified" json:"lastModified,omitempty"`
	DerivedFrom  string `yaml:"derived_from" json:"derivedFrom,omitempty"`
	EnforcedBy   string `yaml:"enforced_by" json:"enforcedBy,omitempty"`
}

// Document represents a scanned standards document. ContentHash always
// reflects the exact bytes scanned; a record is replaced wholesale on
// re-scan, never partially patched.
type Document struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Path        string      `json:"path"`
	Category    string      `json:"category"`
	Type        DocType     `json:"type"`
	FrontMatter FrontMatter `json:"frontMatter"`
	Preview     string      `json:"preview"`
	ContentHash string      `json:"contentHash"`
	Size        int64       `json:"size"`
	ModifiedAt  time.Time   `json:"modifiedAt"`
	ScannedAt   time.Time   `json:"scannedAt"`

	// Content carries the full file bytes from the scanner to consumers
	// that persist or copy them. It is cleared before caching and never
	// serialized.
	Content []byte `json:"-"`
}

// Validate returns an error if the document contains invalid fields.
func (d *Document) Validate() error {
	if d.Path == "" {
		return Errorf(EINVALID, "document path required")
	}
	if d.ID == "" {
		return Errorf(EINVALID, "document ID required")
	}
	return nil
}

// ScanStats reports running counters for a document scanner.
type ScanStats struct {
	FilesScanned      int           `json:"filesScanned"`
	ParseErrors       int           `json:"parseErrors"`
	BytesProcessed    int64         `json:"bytesProcessed"`
	AvgScanDuration   time.Duration `json:"avgScanDuration"`
	SequentialBatches int           `json:"sequentialBatches"`
	ParallelBatches   int           `json:"parallelBatches"`
}

// DocumentScanner extracts metadata records from standards documents.
//
// Scanning never returns errors to callers: a path that does not exist or a
// document that is rejected (oversized or malformed header, unreadable file)
// is logged, counted, and reported as absent so batch work continues.
type DocumentScanner interface {
	// DiscoverPaths returns the standards document paths under root,
	// sorted. Missing directories contribute nothing.
	DiscoverPaths(root string) []string

	// ScanDocument reads and parses a single document. The second return
	// is false when the document is absent or was rejected.
	ScanDocument(path string) (*Document, bool)

	// ScanDocuments scans a batch of paths. Results preserve input order
	// regardless of completion order; absent documents are omitted.
	ScanDocuments(ctx context.Context, paths []string) []*Document

	// Stats returns running scan counters.
	Stats() ScanStats
}
