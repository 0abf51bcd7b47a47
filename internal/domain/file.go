package domain

import (
	"fmt"
	"time"
)

// Well-known bucket names. A bucket is an independent filename namespace
// inside the blob store.
const (
	BucketUploads = "uploads"
	BucketCovers  = "covers"
	BucketAvatars = "avatars"
)

// FileRecord describes one finalized blob: its identity, layout, and type.
// Records are immutable once the upload that produced them is finalized.
type FileRecord struct {
	ID          string    `json:"id"`
	Bucket      string    `json:"bucket"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Length      int64     `json:"length"`
	ChunkSize   int64     `json:"chunk_size"`
	ChunkCount  int       `json:"chunk_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// PendingUpload marks an upload that has started writing chunks but has not
// been finalized. Stale markers are removed by the pending sweep.
type PendingUpload struct {
	ID        string    `json:"id"`
	Bucket    string    `json:"bucket"`
	Filename  string    `json:"filename"`
	StartedAt time.Time `json:"started_at"`
}

// ByteRange is an inclusive byte window into a file.
type ByteRange struct {
	Start int64
	End   int64
}

// Len returns the number of bytes covered by the range.
func (r ByteRange) Len() int64 {
	return r.End - r.Start + 1
}

// ChunkKey builds the store key for one chunk of a file.
// Sequence indices are contiguous and start at 0.
func ChunkKey(bucket, fileID string, seq int) string {
	return fmt.Sprintf("chunk:%s:%s:%d", bucket, fileID, seq)
}

// FileKey builds the store key for a finalized file record.
func FileKey(bucket, fileID string) string {
	return fmt.Sprintf("file:%s:%s", bucket, fileID)
}

// PendingKey builds the store key for a pending upload marker.
func PendingKey(bucket, fileID string) string {
	return fmt.Sprintf("pending:%s:%s", bucket, fileID)
}
