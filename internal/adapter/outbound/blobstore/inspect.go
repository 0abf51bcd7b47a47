package blobstore

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"hash/crc32"
	"sort"
	"strings"
	"time"

	"github.com/anthanhphan/go-music-streaming/internal/domain"
	"github.com/anthanhphan/go-music-streaming/pkg/merkle"
	"github.com/anthanhphan/gosdk/logger"
	"github.com/spaolacci/murmur3"
)

// fingerprintLeaves is the Merkle leaf bucket count for Fingerprint.
const fingerprintLeaves = 256

// ListFiles returns every finalized record in a bucket, newest first.
func (s *Store) ListFiles(ctx context.Context, bucket string) ([]*domain.FileRecord, error) {
	s.mu.RLock()
	out := make([]*domain.FileRecord, 0, len(s.files))
	for _, rec := range s.files {
		if rec.Bucket == bucket {
			out = append(out, rec)
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// ListPending returns uploads that have held a pending marker longer than
// olderThan, across all buckets.
func (s *Store) ListPending(ctx context.Context, olderThan time.Duration) ([]domain.PendingUpload, error) {
	cutoff := time.Now().Add(-olderThan)

	s.mu.RLock()
	out := make([]domain.PendingUpload, 0, len(s.pending))
	for _, p := range s.pending {
		if p.StartedAt.Before(cutoff) {
			out = append(out, p)
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.Before(out[j].StartedAt) })
	return out, nil
}

// DiscardPending tombstones every chunk a stale upload left behind, then the
// pending marker itself.
func (s *Store) DiscardPending(ctx context.Context, p domain.PendingUpload) error {
	s.mu.RLock()
	_, finalized := s.files[mapKey(p.Bucket, p.ID)]
	s.mu.RUnlock()
	if finalized {
		return nil
	}

	for seq := 0; ; seq++ {
		key := domain.ChunkKey(p.Bucket, p.ID, seq)
		if _, ok := s.lookup(key); !ok {
			break
		}
		if err := s.appendEntry(key, nil, true); err != nil {
			return fmt.Errorf("failed to discard chunk %d of pending upload %s: %w", seq, p.ID, err)
		}
	}
	if err := s.appendEntry(domain.PendingKey(p.Bucket, p.ID), nil, true); err != nil {
		return fmt.Errorf("failed to discard pending marker %s: %w", p.ID, err)
	}

	s.mu.Lock()
	delete(s.pending, mapKey(p.Bucket, p.ID))
	if s.names[mapKey(p.Bucket, p.Filename)] == p.ID {
		delete(s.names, mapKey(p.Bucket, p.Filename))
	}
	s.mu.Unlock()

	logger.Infow("Discarded stale pending upload",
		"bucket", p.Bucket, "file_id", p.ID, "filename", p.Filename, "started_at", p.StartedAt)
	return nil
}

// VerifyFile re-reads every chunk of one finalized file and checks presence,
// contiguity, payload checksums, and that the chunk lengths sum to the
// recorded file length.
func (s *Store) VerifyFile(ctx context.Context, rec *domain.FileRecord) error {
	var total int64
	for seq := 0; seq < rec.ChunkCount; seq++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		key := domain.ChunkKey(rec.Bucket, rec.ID, seq)
		loc, ok := s.lookup(key)
		if !ok {
			return fmt.Errorf("file %s: chunk %d missing: %w", rec.ID, seq, domain.ErrChunkNotFound)
		}

		payload := make([]byte, loc.dataLen)
		if _, err := s.readPayload(loc, 0, loc.dataLen, payload); err != nil {
			return fmt.Errorf("file %s: chunk %d unreadable: %w", rec.ID, seq, err)
		}
		if sum := crc32.ChecksumIEEE(payload); sum != loc.checksum {
			return fmt.Errorf("file %s: chunk %d checksum mismatch: got %08x, want %08x",
				rec.ID, seq, sum, loc.checksum)
		}
		total += loc.dataLen
	}

	if _, ok := s.lookup(domain.ChunkKey(rec.Bucket, rec.ID, rec.ChunkCount)); ok {
		return fmt.Errorf("file %s: unexpected chunk beyond recorded count %d", rec.ID, rec.ChunkCount)
	}
	if total != rec.Length {
		return fmt.Errorf("file %s: chunk lengths sum to %d, record says %d", rec.ID, total, rec.Length)
	}
	return nil
}

// Fingerprint condenses every live chunk checksum into one Merkle root.
// Chunk keys are spread over the leaf buckets by murmur3 so unrelated files
// perturb different subtrees.
func (s *Store) Fingerprint() string {
	type chunkSum struct {
		key      string
		checksum uint32
	}

	buckets := make([][]chunkSum, fingerprintLeaves)
	s.mu.RLock()
	for key, loc := range s.index {
		if !strings.HasPrefix(key, "chunk:") {
			continue
		}
		b := int(murmur3.Sum64([]byte(key)) % fingerprintLeaves)
		buckets[b] = append(buckets[b], chunkSum{key: key, checksum: loc.checksum})
	}
	s.mu.RUnlock()

	tree := mustTree(fingerprintLeaves)
	sumBuf := make([]byte, 4)
	for b, chunks := range buckets {
		if len(chunks) == 0 {
			continue
		}
		sort.Slice(chunks, func(i, j int) bool { return chunks[i].key < chunks[j].key })

		h := sha256.New()
		for _, c := range chunks {
			h.Write([]byte(c.key))
			binary.BigEndian.PutUint32(sumBuf, c.checksum)
			h.Write(sumBuf)
		}
		_ = tree.SetLeaf(b, hex.EncodeToString(h.Sum(nil)))
	}
	return tree.Root()
}

// mustTree builds the fingerprint tree. fingerprintLeaves is a compile-time
// power of two, so construction cannot fail.
func mustTree(numLeaves int) *merkle.Tree {
	t, err := merkle.New(numLeaves)
	if err != nil {
		panic(err)
	}
	return t
}

// SegmentCount reports how many log segments back the store.
func (s *Store) SegmentCount() int {
	ids, err := s.listSegmentIDs()
	if err != nil {
		return 0
	}
	return len(ids)
}
