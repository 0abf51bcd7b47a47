// Package blobstore implements the segmented blob store: large binary objects
// persisted as ordered fixed-size chunks in append-only segment logs, plus one
// file record per blob. The in-memory index is rebuilt by replaying the logs
// at startup.
package blobstore

import (
	"bufio"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/anthanhphan/go-music-streaming/internal/config"
	"github.com/anthanhphan/go-music-streaming/internal/domain"
	"github.com/anthanhphan/go-music-streaming/internal/port"
	"github.com/anthanhphan/gosdk/logger"
	"github.com/google/uuid"
)

const (
	segmentPrefix = "segment_"
	segmentSuffix = ".log"

	// defaultMaxSegmentSize is 64MB per log segment.
	defaultMaxSegmentSize = 64 * 1024 * 1024
	defaultChunkSize      = 256 * 1024

	maxKeyLen = 1024

	flagTombstone = 1
)

// entryLoc locates one live entry's payload inside a segment file.
type entryLoc struct {
	segmentID uint64
	dataOff   int64
	dataLen   int64
	checksum  uint32
}

// Store is the on-disk segment store. Entry kinds share one keyspace:
// "chunk:<bucket>:<id>:<seq>", "file:<bucket>:<id>", "pending:<bucket>:<id>".
// Deletes append tombstones; space is reclaimed by Compact.
type Store struct {
	mu     sync.RWMutex // guards index, files, names, pending
	fileMu sync.Mutex   // serializes appends, rotation, compaction

	dirPath        string
	chunkSize      int64
	maxSegmentSize int64
	fsync          bool

	activeFile *os.File
	activeID   uint64

	bufPool sync.Pool // chunk-size []byte buffers shared across uploads

	index   map[string]entryLoc
	files   map[string]*domain.FileRecord   // bucket+"/"+id
	names   map[string]string               // bucket+"/"+filename -> id
	pending map[string]domain.PendingUpload // bucket+"/"+id
}

var _ port.BlobStore = (*Store)(nil)

// New opens the store rooted at cfg.DataDir, replaying every segment log to
// rebuild the index. A torn tail from a crashed write is truncated.
func New(cfg config.StoreConfig, chunkSize int64) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}

	s := &Store{
		dirPath:        filepath.Clean(cfg.DataDir),
		chunkSize:      chunkSize,
		maxSegmentSize: defaultMaxSegmentSize,
		fsync:          cfg.FSync,
		index:          make(map[string]entryLoc),
		files:          make(map[string]*domain.FileRecord),
		names:          make(map[string]string),
		pending:        make(map[string]domain.PendingUpload),
	}
	s.bufPool.New = func() any {
		return make([]byte, chunkSize)
	}

	if err := s.replay(); err != nil {
		return nil, fmt.Errorf("failed to replay segment logs: %w", err)
	}
	return s, nil
}

func (s *Store) segmentPath(id uint64) string {
	return filepath.Join(s.dirPath, fmt.Sprintf("%s%05d%s", segmentPrefix, id, segmentSuffix))
}

func mapKey(bucket, id string) string {
	return bucket + "/" + id
}

// entryOverhead is the per-entry framing cost:
// u16 key length, key, u8 flags, u32 data length, payload, u32 crc32.
func entryOverhead(keyLen int) int64 {
	return int64(2 + keyLen + 1 + 4 + 4)
}

// appendEntry writes one entry to the active segment and updates the index.
// Tombstones carry no payload and remove the key instead.
func (s *Store) appendEntry(key string, data []byte, tombstone bool) error {
	if len(key) == 0 || len(key) > maxKeyLen {
		return fmt.Errorf("invalid entry key %q", key)
	}

	s.fileMu.Lock()
	defer s.fileMu.Unlock()

	if s.activeFile == nil {
		return fmt.Errorf("store is closed")
	}

	offset, err := s.activeFile.Seek(0, io.SeekEnd)
	if err != nil {
		return err
	}

	var flags byte
	if tombstone {
		flags = flagTombstone
		data = nil
	}
	checksum := crc32.ChecksumIEEE(data)

	buf := make([]byte, entryOverhead(len(key))+int64(len(data)))
	binary.BigEndian.PutUint16(buf[0:2], uint16(len(key)))
	copy(buf[2:], key)
	pos := 2 + len(key)
	buf[pos] = flags
	binary.BigEndian.PutUint32(buf[pos+1:pos+5], uint32(len(data)))
	copy(buf[pos+5:], data)
	binary.BigEndian.PutUint32(buf[len(buf)-4:], checksum)

	if _, err := s.activeFile.Write(buf); err != nil {
		return fmt.Errorf("failed to append entry: %w", err)
	}
	if s.fsync {
		_ = s.activeFile.Sync()
	}

	s.mu.Lock()
	if tombstone {
		delete(s.index, key)
	} else {
		s.index[key] = entryLoc{
			segmentID: s.activeID,
			dataOff:   offset + 2 + int64(len(key)) + 1 + 4,
			dataLen:   int64(len(data)),
			checksum:  checksum,
		}
	}
	s.mu.Unlock()

	if offset+int64(len(buf)) > s.maxSegmentSize {
		if err := s.rotateLocked(); err != nil {
			logger.Warnw("Segment rotation failed", "error", err.Error())
		}
	}
	return nil
}

// rotateLocked opens the next segment as the active file. Caller holds fileMu.
func (s *Store) rotateLocked() error {
	if s.activeFile != nil {
		_ = s.activeFile.Close()
	}
	s.activeID++
	return s.openActiveLocked()
}

func (s *Store) openActiveLocked() error {
	if s.activeID == 0 {
		s.activeID = 1
	}
	f, err := os.OpenFile(s.segmentPath(s.activeID), os.O_RDWR|os.O_CREATE, 0600) // #nosec G304
	if err != nil {
		return err
	}
	if _, err := f.Seek(0, io.SeekEnd); err != nil {
		_ = f.Close()
		return err
	}
	s.activeFile = f
	return nil
}

// listSegmentIDs returns on-disk segment ids in ascending order.
func (s *Store) listSegmentIDs() ([]uint64, error) {
	matches, err := filepath.Glob(filepath.Join(s.dirPath, segmentPrefix+"*"+segmentSuffix))
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(matches))
	for _, m := range matches {
		var id uint64
		if _, err := fmt.Sscanf(filepath.Base(m), segmentPrefix+"%d"+segmentSuffix, &id); err == nil {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// replay rebuilds index and record maps from every segment log.
func (s *Store) replay() error {
	ids, err := s.listSegmentIDs()
	if err != nil {
		return err
	}

	for _, id := range ids {
		if err := s.replaySegment(id); err != nil {
			return err
		}
		s.activeID = id
	}

	s.fileMu.Lock()
	defer s.fileMu.Unlock()
	return s.openActiveLocked()
}

func (s *Store) replaySegment(id uint64) error {
	f, err := os.OpenFile(s.segmentPath(id), os.O_RDWR, 0600) // #nosec G304
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	reader := bufio.NewReader(f)
	offset := int64(0)
	truncated := false

	header := make([]byte, 2)
	for {
		if _, err := io.ReadFull(reader, header); err != nil {
			if err == io.EOF {
				break
			}
			if err == io.ErrUnexpectedEOF {
				truncated = true
				break
			}
			return fmt.Errorf("failed to read key length: %w", err)
		}
		keyLen := int(binary.BigEndian.Uint16(header))
		if keyLen == 0 || keyLen > maxKeyLen {
			truncated = true
			break
		}

		rest := make([]byte, keyLen+1+4)
		if _, err := io.ReadFull(reader, rest); err != nil {
			truncated = true
			break
		}
		key := string(rest[:keyLen])
		flags := rest[keyLen]
		dataLen := int64(binary.BigEndian.Uint32(rest[keyLen+1:]))
		if dataLen > s.maxSegmentSize {
			truncated = true
			break
		}

		// File records and pending markers are small; keep their payload
		// to rebuild the record maps. Chunk payloads are skipped.
		var payload []byte
		small := strings.HasPrefix(key, "file:") || strings.HasPrefix(key, "pending:")
		if small && flags&flagTombstone == 0 {
			payload = make([]byte, dataLen)
			if _, err := io.ReadFull(reader, payload); err != nil {
				truncated = true
				break
			}
		} else {
			if _, err := io.CopyN(io.Discard, reader, dataLen); err != nil {
				truncated = true
				break
			}
		}

		crcBuf := make([]byte, 4)
		if _, err := io.ReadFull(reader, crcBuf); err != nil {
			truncated = true
			break
		}
		checksum := binary.BigEndian.Uint32(crcBuf)

		if flags&flagTombstone != 0 {
			s.applyTombstone(key)
		} else {
			s.index[key] = entryLoc{
				segmentID: id,
				dataOff:   offset + 2 + int64(keyLen) + 1 + 4,
				dataLen:   dataLen,
				checksum:  checksum,
			}
			if small {
				s.applyRecord(key, payload)
			}
		}

		offset += entryOverhead(keyLen) + dataLen
	}

	if truncated {
		if err := f.Truncate(offset); err != nil {
			return fmt.Errorf("failed to truncate torn segment %d: %w", id, err)
		}
		logger.Warnw("Truncated torn segment tail during replay", "segment_id", id, "valid_bytes", offset)
	}
	return nil
}

// applyRecord decodes a file record or pending marker into the maps.
func (s *Store) applyRecord(key string, payload []byte) {
	switch {
	case strings.HasPrefix(key, "file:"):
		var rec domain.FileRecord
		if err := json.Unmarshal(payload, &rec); err != nil {
			logger.Warnw("Skipping undecodable file record", "key", key, "error", err.Error())
			return
		}
		s.files[mapKey(rec.Bucket, rec.ID)] = &rec
		s.names[mapKey(rec.Bucket, rec.Filename)] = rec.ID
		delete(s.pending, mapKey(rec.Bucket, rec.ID))
	case strings.HasPrefix(key, "pending:"):
		var p domain.PendingUpload
		if err := json.Unmarshal(payload, &p); err != nil {
			logger.Warnw("Skipping undecodable pending marker", "key", key, "error", err.Error())
			return
		}
		s.pending[mapKey(p.Bucket, p.ID)] = p
		s.names[mapKey(p.Bucket, p.Filename)] = p.ID
	}
}

// applyTombstone removes replayed state for a deleted key.
func (s *Store) applyTombstone(key string) {
	delete(s.index, key)

	parts := strings.SplitN(key, ":", 3)
	if len(parts) != 3 {
		return
	}
	bucket, id := parts[1], parts[2]
	switch parts[0] {
	case "file":
		if rec, ok := s.files[mapKey(bucket, id)]; ok {
			delete(s.names, mapKey(bucket, rec.Filename))
			delete(s.files, mapKey(bucket, id))
		}
	case "pending":
		if p, ok := s.pending[mapKey(bucket, id)]; ok {
			// Keep the name reserved when the upload was finalized:
			// the file record's own entry re-added it.
			if s.names[mapKey(bucket, p.Filename)] == id {
				if _, finalized := s.files[mapKey(bucket, id)]; !finalized {
					delete(s.names, mapKey(bucket, p.Filename))
				}
			}
			delete(s.pending, mapKey(bucket, id))
		}
	}
}

// Create allocates a pending upload under a fresh id and reserves the
// filename within the bucket.
func (s *Store) Create(ctx context.Context, bucket, filename, contentType string) (port.Upload, error) {
	if bucket == "" || filename == "" {
		return nil, fmt.Errorf("bucket and filename are required")
	}

	id := uuid.NewString()
	marker := domain.PendingUpload{
		ID:        id,
		Bucket:    bucket,
		Filename:  filename,
		StartedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	if _, taken := s.names[mapKey(bucket, filename)]; taken {
		s.mu.Unlock()
		return nil, fmt.Errorf("%q in bucket %q: %w", filename, bucket, domain.ErrDuplicateName)
	}
	s.names[mapKey(bucket, filename)] = id
	s.pending[mapKey(bucket, id)] = marker
	s.mu.Unlock()

	payload, err := json.Marshal(marker)
	if err == nil {
		err = s.appendEntry(domain.PendingKey(bucket, id), payload, false)
	}
	if err != nil {
		s.mu.Lock()
		delete(s.names, mapKey(bucket, filename))
		delete(s.pending, mapKey(bucket, id))
		s.mu.Unlock()
		return nil, fmt.Errorf("failed to persist pending marker: %w", err)
	}

	return &upload{
		store:       s,
		id:          id,
		bucket:      bucket,
		filename:    filename,
		contentType: contentType,
		buf:         s.bufPool.Get().([]byte),
	}, nil
}

// resolveLocked maps an id or filename to a finalized record. Caller holds mu.
func (s *Store) resolveLocked(bucket, idOrName string) (*domain.FileRecord, bool) {
	if rec, ok := s.files[mapKey(bucket, idOrName)]; ok {
		return rec, true
	}
	if id, ok := s.names[mapKey(bucket, idOrName)]; ok {
		if rec, ok := s.files[mapKey(bucket, id)]; ok {
			return rec, true
		}
	}
	return nil, false
}

// Stat resolves a finalized file record by id or filename.
func (s *Store) Stat(ctx context.Context, bucket, idOrName string) (*domain.FileRecord, error) {
	s.mu.RLock()
	rec, ok := s.resolveLocked(bucket, idOrName)
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%q in bucket %q: %w", idOrName, bucket, domain.ErrFileNotFound)
	}
	return rec, nil
}

// Open returns the record and a lazy chunk reader over the file, trimmed to
// the optional inclusive byte range.
func (s *Store) Open(ctx context.Context, bucket, idOrName string, rng *domain.ByteRange) (*domain.FileRecord, io.ReadCloser, error) {
	rec, err := s.Stat(ctx, bucket, idOrName)
	if err != nil {
		return nil, nil, err
	}

	start, end := int64(0), rec.Length-1
	if rng != nil {
		start, end = rng.Start, rng.End
		if start < 0 || start > end || start >= rec.Length {
			return nil, nil, fmt.Errorf("range [%d,%d] in file of %d bytes: %w",
				start, end, rec.Length, domain.ErrRangeNotSatisfiable)
		}
		if end >= rec.Length {
			end = rec.Length - 1
		}
	}

	return rec, newRangeReader(s, rec, start, end), nil
}

// Delete removes all chunks then the record, best-effort: a failed chunk
// tombstone is logged and does not block record removal.
func (s *Store) Delete(ctx context.Context, bucket, idOrName string) error {
	rec, err := s.Stat(ctx, bucket, idOrName)
	if err != nil {
		return err
	}

	for seq := 0; seq < rec.ChunkCount; seq++ {
		key := domain.ChunkKey(rec.Bucket, rec.ID, seq)
		if err := s.appendEntry(key, nil, true); err != nil {
			logger.Warnw("Chunk delete failed",
				"bucket", rec.Bucket, "file_id", rec.ID, "seq", seq, "error", err.Error())
		}
	}

	if err := s.appendEntry(domain.FileKey(rec.Bucket, rec.ID), nil, true); err != nil {
		return fmt.Errorf("failed to delete file record: %w", err)
	}

	s.mu.Lock()
	delete(s.files, mapKey(rec.Bucket, rec.ID))
	if s.names[mapKey(rec.Bucket, rec.Filename)] == rec.ID {
		delete(s.names, mapKey(rec.Bucket, rec.Filename))
	}
	s.mu.Unlock()
	return nil
}

// Close flushes and closes the active segment.
func (s *Store) Close() error {
	s.fileMu.Lock()
	defer s.fileMu.Unlock()
	if s.activeFile == nil {
		return nil
	}
	err := s.activeFile.Sync()
	if cerr := s.activeFile.Close(); err == nil {
		err = cerr
	}
	s.activeFile = nil
	return err
}

// readPayload reads a window of one entry's payload from its segment file.
func (s *Store) readPayload(loc entryLoc, off, n int64, p []byte) (int, error) {
	f, err := os.Open(s.segmentPath(loc.segmentID)) // #nosec G304
	if err != nil {
		return 0, err
	}
	defer func() { _ = f.Close() }()
	return f.ReadAt(p[:n], loc.dataOff+off)
}

// lookup returns the live index entry for a key.
func (s *Store) lookup(key string) (entryLoc, bool) {
	s.mu.RLock()
	loc, ok := s.index[key]
	s.mu.RUnlock()
	return loc, ok
}
