package domain

import (
	"bytes"
	"encoding/json"
)

// UploadedFileRecord describes a PDF the backend has ingested.
// Chunks holds the backend's raw "chunks" value (a count or an array).
type UploadedFileRecord struct {
	Filename   string          `json:"filename" msgpack:"filename"`
	Pages      int             `json:"pages" msgpack:"pages"`
	Chunks     json.RawMessage `json:"chunks,omitempty" msgpack:"chunks,omitempty"`
	UploadedAt string          `json:"uploadedAt,omitempty" msgpack:"uploadedAt,omitempty"`
}

// ChunkCount returns the number of chunks: the integer value, or the array length.
func (r UploadedFileRecord) ChunkCount() int {
	if len(r.Chunks) == 0 {
		return 0
	}
	var n int
	if err := json.Unmarshal(r.Chunks, &n); err == nil && n > 0 {
		return n
	}
	var items []json.RawMessage
	if err := json.Unmarshal(r.Chunks, &items); err == nil {
		return len(items)
	}
	return 0
}

// SameUpload reports whether two records describe the same ingestion:
// equal filename, page count and chunks value.
func (r UploadedFileRecord) SameUpload(other UploadedFileRecord) bool {
	return r.Filename == other.Filename &&
		r.Pages == other.Pages &&
		bytes.Equal(compactJSON(r.Chunks), compactJSON(other.Chunks))
}

func compactJSON(raw json.RawMessage) []byte {
	if len(raw) == 0 {
		return nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return raw
	}
	return buf.Bytes()
}

// SelectedFile is a local PDF picked for upload but not yet submitted.
type SelectedFile struct {
	Name string
	Data []byte
}
