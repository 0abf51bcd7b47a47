package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/anthanhphan/go-music-streaming/internal/domain"
	"github.com/anthanhphan/go-music-streaming/internal/port"
	"github.com/anthanhphan/go-music-streaming/pkg/httprange"
)

// StreamSvc resolves stored blobs into HTTP streaming responses with Range
// support.
type StreamSvc struct {
	store port.BlobStore
}

var _ port.StreamService = (*StreamSvc)(nil)

func NewStreamService(store port.BlobStore) *StreamSvc {
	return &StreamSvc{store: store}
}

// defaultContentType fills in a type for records stored without one.
func defaultContentType(bucket string) string {
	switch bucket {
	case domain.BucketUploads:
		return "audio/mpeg"
	case domain.BucketCovers, domain.BucketAvatars:
		return "image/jpeg"
	}
	return "application/octet-stream"
}

// Open prepares a 200 response for the whole file, a 206 for a satisfiable
// Range header, or a 416 descriptor (nil Reader) when the range lies outside
// the file. Malformed headers fail with httprange.ErrMalformed.
func (s *StreamSvc) Open(ctx context.Context, bucket, idOrName, rangeHeader string) (*port.Stream, error) {
	rec, err := s.store.Stat(ctx, bucket, idOrName)
	if err != nil {
		return nil, err
	}

	contentType := rec.ContentType
	if contentType == "" {
		contentType = defaultContentType(rec.Bucket)
	}

	if rangeHeader == "" {
		_, reader, err := s.store.Open(ctx, bucket, idOrName, nil)
		if err != nil {
			return nil, err
		}
		return &port.Stream{
			Status:        http.StatusOK,
			ContentType:   contentType,
			ContentLength: rec.Length,
			TotalSize:     rec.Length,
			Reader:        reader,
		}, nil
	}

	start, end, err := httprange.Parse(rangeHeader, rec.Length)
	if err != nil {
		if err == httprange.ErrUnsatisfiable {
			return &port.Stream{
				Status:       http.StatusRequestedRangeNotSatisfiable,
				ContentType:  contentType,
				ContentRange: fmt.Sprintf("bytes */%d", rec.Length),
				TotalSize:    rec.Length,
			}, nil
		}
		return nil, err
	}

	_, reader, err := s.store.Open(ctx, bucket, idOrName, &domain.ByteRange{Start: start, End: end})
	if err != nil {
		return nil, err
	}
	return &port.Stream{
		Status:        http.StatusPartialContent,
		ContentType:   contentType,
		ContentLength: end - start + 1,
		ContentRange:  fmt.Sprintf("bytes %d-%d/%d", start, end, rec.Length),
		TotalSize:     rec.Length,
		Reader:        reader,
	}, nil
}
