// Package service implements the application services on top of the blob
// store, the registry repositories, and the push notifier.
package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/anthanhphan/go-music-streaming/internal/config"
	"github.com/anthanhphan/go-music-streaming/internal/domain"
	"github.com/anthanhphan/go-music-streaming/internal/port"
	"github.com/anthanhphan/gosdk/logger"
)

const copyBufSize = 32 * 1024

// bucketRule ties one multipart field to its target bucket, validation, and
// size limit.
type bucketRule struct {
	bucket     string
	namePrefix string
	maxSize    int64
	accept     func(contentType, ext string) bool
}

func acceptAudio(contentType, ext string) bool {
	if strings.HasPrefix(contentType, "audio/") {
		return true
	}
	switch ext {
	case ".mp3", ".wav", ".m4a", ".ogg":
		return true
	}
	return false
}

func acceptImage(contentType, ext string) bool {
	return strings.HasPrefix(contentType, "image/")
}

func acceptAvatar(contentType, ext string) bool {
	if !strings.HasPrefix(contentType, "image/") {
		return false
	}
	switch ext {
	case ".jpeg", ".jpg", ".png", ".webp":
		return true
	}
	return false
}

// UploadSink streams multipart file parts into the blob store. Each part is
// validated by its headers before any byte is persisted, renamed under a
// collision-free generated name, and size-capped during the copy.
type UploadSink struct {
	store port.BlobStore
	idGen port.IDGenerator
	rules map[string]bucketRule

	bufPool sync.Pool
}

func NewUploadSink(store port.BlobStore, idGen port.IDGenerator, cfg config.AppConfig) *UploadSink {
	s := &UploadSink{
		store: store,
		idGen: idGen,
		rules: map[string]bucketRule{
			"song": {
				bucket:     domain.BucketUploads,
				namePrefix: "song",
				maxSize:    cfg.MaxSongSize,
				accept:     acceptAudio,
			},
			"coverImage": {
				bucket:     domain.BucketCovers,
				namePrefix: "cover",
				maxSize:    cfg.MaxCoverSize,
				accept:     acceptImage,
			},
			"avatar": {
				bucket:     domain.BucketAvatars,
				namePrefix: "avatar",
				maxSize:    cfg.MaxAvatarSize,
				accept:     acceptAvatar,
			},
		},
	}
	s.bufPool.New = func() any {
		return make([]byte, copyBufSize)
	}
	return s
}

// Store persists one multipart part into the bucket its field name maps to.
func (s *UploadSink) Store(ctx context.Context, part *port.FilePart) (*domain.FileRecord, error) {
	rule, ok := s.rules[part.FieldName]
	if !ok {
		return nil, fmt.Errorf("field %q: %w", part.FieldName, domain.ErrUnsupportedType)
	}

	ext := strings.ToLower(filepath.Ext(part.Filename))
	contentType := strings.ToLower(strings.TrimSpace(part.ContentType))
	if !rule.accept(contentType, ext) {
		return nil, fmt.Errorf("field %q with type %q and extension %q: %w",
			part.FieldName, part.ContentType, ext, domain.ErrUnsupportedType)
	}

	id, err := s.idGen.Next()
	if err != nil {
		return nil, fmt.Errorf("failed to generate filename: %w", err)
	}
	filename := fmt.Sprintf("%s-%d%s", rule.namePrefix, id, ext)

	up, err := s.store.Create(ctx, rule.bucket, filename, contentType)
	if err != nil {
		return nil, err
	}

	if err := s.copyCapped(up, part.Reader, rule.maxSize); err != nil {
		if abortErr := up.Abort(ctx); abortErr != nil {
			logger.Warnw("Failed to abort oversized upload",
				"bucket", rule.bucket, "filename", filename, "error", abortErr.Error())
		}
		return nil, err
	}

	rec, err := up.Finalize(ctx)
	if err != nil {
		return nil, err
	}

	logger.Infow("Stored upload",
		"bucket", rec.Bucket, "filename", rec.Filename, "bytes", rec.Length, "chunks", rec.ChunkCount)
	return rec, nil
}

// copyCapped streams src into the upload, failing with ErrTooLarge as soon as
// the byte count passes the limit.
func (s *UploadSink) copyCapped(dst io.Writer, src io.Reader, limit int64) error {
	buf := s.bufPool.Get().([]byte)
	defer s.bufPool.Put(buf) //nolint:staticcheck

	var written int64
	for {
		n, readErr := io.ReadFull(src, buf)
		if n > 0 {
			written += int64(n)
			if limit > 0 && written > limit {
				return fmt.Errorf("upload passed %d bytes with limit %d: %w",
					written, limit, domain.ErrTooLarge)
			}
			if _, err := dst.Write(buf[:n]); err != nil {
				return err
			}
		}
		if readErr == io.EOF || readErr == io.ErrUnexpectedEOF {
			return nil
		}
		if readErr != nil {
			return fmt.Errorf("failed to read upload stream: %w", readErr)
		}
	}
}
