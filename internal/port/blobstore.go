package port

import (
	"context"
	"io"
	"time"

	"github.com/anthanhphan/go-music-streaming/internal/domain"
)

//go:generate mockgen -destination=../service/mocks/blobstore_mock.go -package=mocks -source=blobstore.go

// Upload is an exclusive handle for one in-progress upload. Writes are
// sequential; the handle is not safe for concurrent use.
type Upload interface {
	io.Writer

	// Finalize flushes the tail chunk and publishes the file record,
	// making the file visible to reads. Fails with domain.ErrEmptyUpload
	// when nothing was written.
	Finalize(ctx context.Context) (*domain.FileRecord, error)

	// Abort discards every chunk persisted by this handle along with the
	// pending marker.
	Abort(ctx context.Context) error

	// Written returns the number of payload bytes accepted so far.
	Written() int64
}

// BlobStore stores large binary objects as fixed-size chunk sequences plus
// one file record, addressed by generated id or filename within a bucket.
type BlobStore interface {
	// Create allocates a pending upload. Fails with domain.ErrDuplicateName
	// when the filename collides with a live file in the bucket.
	Create(ctx context.Context, bucket, filename, contentType string) (Upload, error)

	// Stat resolves a finalized file record by id or filename.
	Stat(ctx context.Context, bucket, idOrName string) (*domain.FileRecord, error)

	// Open returns the record and a lazy chunk reader over the whole file,
	// or over the given inclusive byte range. The reader holds bounded
	// memory regardless of file size.
	Open(ctx context.Context, bucket, idOrName string, rng *domain.ByteRange) (*domain.FileRecord, io.ReadCloser, error)

	// Delete removes all chunks then the record, best-effort.
	Delete(ctx context.Context, bucket, idOrName string) error

	// ListFiles returns every finalized record in a bucket.
	ListFiles(ctx context.Context, bucket string) ([]*domain.FileRecord, error)

	// ListPending returns pending uploads older than the given age.
	ListPending(ctx context.Context, olderThan time.Duration) ([]domain.PendingUpload, error)

	// DiscardPending removes a stale pending upload's chunks and marker.
	DiscardPending(ctx context.Context, p domain.PendingUpload) error

	// VerifyFile checks chunk contiguity, length, and checksums for one
	// finalized file.
	VerifyFile(ctx context.Context, rec *domain.FileRecord) error

	// Fingerprint returns a Merkle root over all stored chunk checksums.
	Fingerprint() string

	// SegmentCount reports how many log segments back the store.
	SegmentCount() int

	// Compact rewrites live entries into fresh segments, reclaiming space
	// from deletes.
	Compact() error

	Close() error
}
