package blobstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/anthanhphan/go-music-streaming/internal/domain"
	"github.com/anthanhphan/go-music-streaming/internal/port"
	"github.com/anthanhphan/gosdk/logger"
)

// upload accumulates streamed bytes into chunk-size pieces and appends each
// full chunk as its own log entry. Not safe for concurrent use.
type upload struct {
	store       *Store
	id          string
	bucket      string
	filename    string
	contentType string

	buf     []byte
	fill    int
	seq     int
	written int64
	closed  bool
}

var _ port.Upload = (*upload)(nil)

func (u *upload) Write(p []byte) (int, error) {
	if u.closed {
		return 0, domain.ErrUploadClosed
	}

	total := 0
	for len(p) > 0 {
		n := copy(u.buf[u.fill:], p)
		u.fill += n
		p = p[n:]
		total += n

		if u.fill == len(u.buf) {
			if err := u.flushChunk(); err != nil {
				return total, err
			}
		}
	}
	u.written += int64(total)
	return total, nil
}

func (u *upload) flushChunk() error {
	key := domain.ChunkKey(u.bucket, u.id, u.seq)
	if err := u.store.appendEntry(key, u.buf[:u.fill], false); err != nil {
		return fmt.Errorf("failed to persist chunk %d: %w", u.seq, err)
	}
	u.seq++
	u.fill = 0
	return nil
}

func (u *upload) Written() int64 {
	return u.written
}

// Finalize flushes the trailing partial chunk, persists the file record and
// clears the pending marker. Zero-byte uploads are discarded and rejected.
func (u *upload) Finalize(ctx context.Context) (*domain.FileRecord, error) {
	if u.closed {
		return nil, domain.ErrUploadClosed
	}
	u.closed = true
	defer u.release()

	if u.written == 0 {
		u.discard()
		return nil, fmt.Errorf("%q in bucket %q: %w", u.filename, u.bucket, domain.ErrEmptyUpload)
	}

	if u.fill > 0 {
		if err := u.flushChunk(); err != nil {
			u.discard()
			return nil, err
		}
	}

	rec := &domain.FileRecord{
		ID:          u.id,
		Bucket:      u.bucket,
		Filename:    u.filename,
		ContentType: u.contentType,
		Length:      u.written,
		ChunkSize:   int64(len(u.buf)),
		ChunkCount:  u.seq,
		CreatedAt:   time.Now().UTC(),
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		u.discard()
		return nil, err
	}
	if err := u.store.appendEntry(domain.FileKey(u.bucket, u.id), payload, false); err != nil {
		u.discard()
		return nil, fmt.Errorf("failed to persist file record: %w", err)
	}

	u.store.mu.Lock()
	u.store.files[mapKey(u.bucket, u.id)] = rec
	delete(u.store.pending, mapKey(u.bucket, u.id))
	u.store.mu.Unlock()

	if err := u.store.appendEntry(domain.PendingKey(u.bucket, u.id), nil, true); err != nil {
		logger.Warnw("Failed to clear pending marker after finalize",
			"bucket", u.bucket, "file_id", u.id, "error", err.Error())
	}
	return rec, nil
}

// Abort drops the upload: chunks written so far are tombstoned and the
// filename reservation is released.
func (u *upload) Abort(ctx context.Context) error {
	if u.closed {
		return nil
	}
	u.closed = true
	u.release()
	u.discard()
	return nil
}

func (u *upload) release() {
	if u.buf != nil {
		u.store.bufPool.Put(u.buf) //nolint:staticcheck
		u.buf = nil
	}
}

func (u *upload) discard() {
	for seq := 0; seq < u.seq; seq++ {
		key := domain.ChunkKey(u.bucket, u.id, seq)
		if err := u.store.appendEntry(key, nil, true); err != nil {
			logger.Warnw("Failed to tombstone aborted chunk",
				"bucket", u.bucket, "file_id", u.id, "seq", seq, "error", err.Error())
		}
	}
	if err := u.store.appendEntry(domain.PendingKey(u.bucket, u.id), nil, true); err != nil {
		logger.Warnw("Failed to tombstone pending marker",
			"bucket", u.bucket, "file_id", u.id, "error", err.Error())
	}

	u.store.mu.Lock()
	delete(u.store.pending, mapKey(u.bucket, u.id))
	if u.store.names[mapKey(u.bucket, u.filename)] == u.id {
		if _, finalized := u.store.files[mapKey(u.bucket, u.id)]; !finalized {
			delete(u.store.names, mapKey(u.bucket, u.filename))
		}
	}
	u.store.mu.Unlock()
}
