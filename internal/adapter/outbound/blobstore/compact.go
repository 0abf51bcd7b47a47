package blobstore

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/anthanhphan/gosdk/logger"
)

// Compact rewrites every live entry into a fresh set of segments and drops
// the old ones, reclaiming the space held by tombstoned chunks and records.
// New segments continue the id sequence past the old active segment; ids are
// never reused, so a reader that cached an old segment handle reopens the
// right file when its next chunk resolves to a compacted location.
// Appends are blocked for the duration.
func (s *Store) Compact() error {
	start := time.Now()

	s.fileMu.Lock()
	defer s.fileMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeFile == nil {
		return fmt.Errorf("store is closed")
	}

	type liveEntry struct {
		key string
		loc entryLoc
	}
	entries := make([]liveEntry, 0, len(s.index))
	for key, loc := range s.index {
		entries = append(entries, liveEntry{key: key, loc: loc})
	}
	// Source-order traversal keeps old-segment reads sequential.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].loc.segmentID != entries[j].loc.segmentID {
			return entries[i].loc.segmentID < entries[j].loc.segmentID
		}
		return entries[i].loc.dataOff < entries[j].loc.dataOff
	})

	base := s.activeID
	w, err := newCompactionWriter(s.dirPath, s.maxSegmentSize, base)
	if err != nil {
		return err
	}

	var srcFile *os.File
	var srcID uint64
	defer func() {
		if srcFile != nil {
			_ = srcFile.Close()
		}
	}()

	newLocs := make(map[string]entryLoc, len(entries))
	for _, e := range entries {
		if srcFile == nil || srcID != e.loc.segmentID {
			if srcFile != nil {
				_ = srcFile.Close()
			}
			srcFile, err = os.Open(s.segmentPath(e.loc.segmentID)) // #nosec G304
			if err != nil {
				w.abandon()
				return fmt.Errorf("failed to open segment %d for compaction: %w", e.loc.segmentID, err)
			}
			srcID = e.loc.segmentID
		}

		payload := make([]byte, e.loc.dataLen)
		if _, err := srcFile.ReadAt(payload, e.loc.dataOff); err != nil {
			w.abandon()
			return fmt.Errorf("failed to read entry %q during compaction: %w", e.key, err)
		}

		loc, err := w.append(e.key, payload, e.loc.checksum)
		if err != nil {
			w.abandon()
			return fmt.Errorf("failed to rewrite entry %q during compaction: %w", e.key, err)
		}
		newLocs[e.key] = loc
	}

	oldIDs, err := s.listSegmentIDs()
	if err != nil {
		w.abandon()
		return err
	}

	_ = s.activeFile.Close()
	s.activeFile = nil

	lastID, err := w.commit(func(id uint64) string { return s.segmentPath(id) }, oldIDs)
	if err != nil {
		return fmt.Errorf("failed to swap compacted segments: %w", err)
	}

	s.index = newLocs
	s.activeID = lastID
	if err := s.openActiveLocked(); err != nil {
		return err
	}

	logger.Infow("Compaction complete",
		"live_entries", len(entries),
		"segments_before", len(oldIDs),
		"segments_after", int(lastID-base),
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}

// compactionWriter streams re-encoded entries into temporary segment files,
// rotating at the size limit. Output ids count upward from baseID so the
// compacted segments never collide with ids a live reader may have cached.
type compactionWriter struct {
	dirPath string
	maxSize int64
	baseID  uint64

	tmpPaths []string
	cur      *os.File
	curID    uint64
	curSize  int64
}

func newCompactionWriter(dirPath string, maxSize int64, baseID uint64) (*compactionWriter, error) {
	w := &compactionWriter{dirPath: dirPath, maxSize: maxSize, baseID: baseID, curID: baseID}
	if err := w.rotate(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *compactionWriter) tmpPath(id uint64) string {
	return filepath.Join(w.dirPath, fmt.Sprintf("compact_%05d.tmp", id))
}

func (w *compactionWriter) rotate() error {
	if w.cur != nil {
		if err := w.cur.Sync(); err != nil {
			return err
		}
		if err := w.cur.Close(); err != nil {
			return err
		}
	}
	w.curID++
	f, err := os.OpenFile(w.tmpPath(w.curID), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600) // #nosec G304
	if err != nil {
		return err
	}
	w.cur = f
	w.curSize = 0
	w.tmpPaths = append(w.tmpPaths, w.tmpPath(w.curID))
	return nil
}

func (w *compactionWriter) append(key string, payload []byte, checksum uint32) (entryLoc, error) {
	buf := make([]byte, entryOverhead(len(key))+int64(len(payload)))
	binary.BigEndian.PutUint16(buf[0:2], uint16(len(key)))
	copy(buf[2:], key)
	pos := 2 + len(key)
	buf[pos] = 0
	binary.BigEndian.PutUint32(buf[pos+1:pos+5], uint32(len(payload)))
	copy(buf[pos+5:], payload)
	binary.BigEndian.PutUint32(buf[len(buf)-4:], checksum)

	offset := w.curSize
	if _, err := w.cur.Write(buf); err != nil {
		return entryLoc{}, err
	}
	w.curSize += int64(len(buf))

	loc := entryLoc{
		segmentID: w.curID,
		dataOff:   offset + 2 + int64(len(key)) + 1 + 4,
		dataLen:   int64(len(payload)),
		checksum:  checksum,
	}

	if w.curSize > w.maxSize {
		if err := w.rotate(); err != nil {
			return entryLoc{}, err
		}
	}
	return loc, nil
}

// commit syncs the temp files, removes the old segments, and renames the
// temps into their place. Returns the highest new segment id.
func (w *compactionWriter) commit(pathFor func(uint64) string, oldIDs []uint64) (uint64, error) {
	if w.cur != nil {
		if err := w.cur.Sync(); err != nil {
			return 0, err
		}
		if err := w.cur.Close(); err != nil {
			return 0, err
		}
		w.cur = nil
	}

	for _, id := range oldIDs {
		if err := os.Remove(pathFor(id)); err != nil {
			return 0, err
		}
	}
	for i, tmp := range w.tmpPaths {
		if err := os.Rename(tmp, pathFor(w.baseID+uint64(i)+1)); err != nil {
			return 0, err
		}
	}
	return w.baseID + uint64(len(w.tmpPaths)), nil
}

// abandon removes the temp files after a failed compaction.
func (w *compactionWriter) abandon() {
	if w.cur != nil {
		_ = w.cur.Close()
		w.cur = nil
	}
	for _, tmp := range w.tmpPaths {
		_ = os.Remove(tmp)
	}
}
