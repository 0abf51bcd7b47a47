package blobstore

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/anthanhphan/go-music-streaming/internal/domain"
)

// rangeReader streams a byte window of a file by resolving each covered
// chunk on demand and reading the needed slice straight from its segment
// file. The segment handle is cached until the read position crosses into a
// chunk stored in a different segment.
type rangeReader struct {
	store *Store
	rec   *domain.FileRecord

	pos int64 // next absolute byte offset to read
	end int64 // last byte offset, inclusive

	mu      sync.Mutex
	segFile *os.File
	segID   uint64
	closed  bool
}

var _ io.ReadCloser = (*rangeReader)(nil)

func newRangeReader(s *Store, rec *domain.FileRecord, start, end int64) *rangeReader {
	return &rangeReader{store: s, rec: rec, pos: start, end: end}
}

func (r *rangeReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return 0, fmt.Errorf("reader is closed")
	}
	if r.pos > r.end {
		return 0, io.EOF
	}
	if len(p) == 0 {
		return 0, nil
	}

	seq := int(r.pos / r.rec.ChunkSize)
	inChunk := r.pos % r.rec.ChunkSize

	loc, ok := r.store.lookup(domain.ChunkKey(r.rec.Bucket, r.rec.ID, seq))
	if !ok {
		return 0, fmt.Errorf("chunk %d of file %s: %w", seq, r.rec.ID, domain.ErrChunkNotFound)
	}
	if inChunk >= loc.dataLen {
		return 0, fmt.Errorf("chunk %d of file %s is %d bytes, need offset %d: %w",
			seq, r.rec.ID, loc.dataLen, inChunk, domain.ErrChunkNotFound)
	}

	n := int64(len(p))
	if remain := loc.dataLen - inChunk; n > remain {
		n = remain
	}
	if remain := r.end - r.pos + 1; n > remain {
		n = remain
	}

	f, err := r.segmentFile(loc.segmentID)
	if err != nil {
		return 0, err
	}
	read, err := f.ReadAt(p[:n], loc.dataOff+inChunk)
	r.pos += int64(read)
	if err != nil {
		// The index says these bytes exist, so EOF here means the segment
		// file under us is shorter than the entry location claims.
		if err == io.EOF && int64(read) == n {
			return read, nil
		}
		return read, fmt.Errorf("failed to read chunk %d of file %s: %w", seq, r.rec.ID, err)
	}
	return read, nil
}

func (r *rangeReader) segmentFile(id uint64) (*os.File, error) {
	if r.segFile != nil && r.segID == id {
		return r.segFile, nil
	}
	if r.segFile != nil {
		_ = r.segFile.Close()
		r.segFile = nil
	}
	f, err := os.Open(r.store.segmentPath(id)) // #nosec G304
	if err != nil {
		return nil, err
	}
	r.segFile = f
	r.segID = id
	return f, nil
}

func (r *rangeReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	if r.segFile != nil {
		err := r.segFile.Close()
		r.segFile = nil
		return err
	}
	return nil
}
