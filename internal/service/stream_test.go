package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"testing"

	"github.com/anthanhphan/go-music-streaming/internal/domain"
	"github.com/anthanhphan/go-music-streaming/internal/port"
	"github.com/anthanhphan/go-music-streaming/pkg/httprange"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storeBlob(t *testing.T, store port.BlobStore, bucket, filename, contentType string, data []byte) *domain.FileRecord {
	t.Helper()
	up, err := store.Create(context.Background(), bucket, filename, contentType)
	require.NoError(t, err)
	_, err = io.Copy(up, bytes.NewReader(data))
	require.NoError(t, err)
	rec, err := up.Finalize(context.Background())
	require.NoError(t, err)
	return rec
}

func streamBody(t *testing.T, st *port.Stream) []byte {
	t.Helper()
	require.NotNil(t, st.Reader)
	defer func() { _ = st.Reader.Close() }()
	data, err := io.ReadAll(st.Reader)
	require.NoError(t, err)
	return data
}

func TestStreamFullFile(t *testing.T) {
	store := newTestStore(t)
	data := make([]byte, 3000)
	_, err := rand.New(rand.NewSource(1)).Read(data)
	require.NoError(t, err)
	rec := storeBlob(t, store, domain.BucketUploads, "song-1.mp3", "audio/mpeg", data)

	svc := NewStreamService(store)
	st, err := svc.Open(context.Background(), domain.BucketUploads, rec.ID, "")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, st.Status)
	assert.Equal(t, "audio/mpeg", st.ContentType)
	assert.Equal(t, int64(3000), st.ContentLength)
	assert.Empty(t, st.ContentRange)
	assert.Equal(t, data, streamBody(t, st))
}

func TestStreamPartialContent(t *testing.T) {
	store := newTestStore(t)
	data := make([]byte, 2500)
	_, err := rand.New(rand.NewSource(2)).Read(data)
	require.NoError(t, err)
	rec := storeBlob(t, store, domain.BucketUploads, "song-2.mp3", "audio/mpeg", data)
	svc := NewStreamService(store)

	tests := []struct {
		name      string
		header    string
		wantStart int64
		wantEnd   int64
	}{
		{name: "first byte", header: "bytes=0-0", wantStart: 0, wantEnd: 0},
		{name: "middle window", header: "bytes=100-199", wantStart: 100, wantEnd: 199},
		{name: "open ended", header: "bytes=2000-", wantStart: 2000, wantEnd: 2499},
		{name: "suffix", header: "bytes=-100", wantStart: 2400, wantEnd: 2499},
		{name: "end clamped", header: "bytes=2400-99999", wantStart: 2400, wantEnd: 2499},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := svc.Open(context.Background(), domain.BucketUploads, rec.ID, tt.header)
			require.NoError(t, err)

			assert.Equal(t, http.StatusPartialContent, st.Status)
			assert.Equal(t, tt.wantEnd-tt.wantStart+1, st.ContentLength)
			wantRange := fmt.Sprintf("bytes %d-%d/2500", tt.wantStart, tt.wantEnd)
			assert.Equal(t, wantRange, st.ContentRange)
			assert.Equal(t, data[tt.wantStart:tt.wantEnd+1], streamBody(t, st))
		})
	}
}

func TestStreamUnsatisfiableRange(t *testing.T) {
	store := newTestStore(t)
	rec := storeBlob(t, store, domain.BucketUploads, "short.mp3", "audio/mpeg", []byte("0123456789"))
	svc := NewStreamService(store)

	for _, header := range []string{"bytes=10-", "bytes=10-20", "bytes=7-3"} {
		st, err := svc.Open(context.Background(), domain.BucketUploads, rec.ID, header)
		require.NoError(t, err, header)
		assert.Equal(t, http.StatusRequestedRangeNotSatisfiable, st.Status, header)
		assert.Equal(t, "bytes */10", st.ContentRange, header)
		assert.Nil(t, st.Reader, header)
	}
}

func TestStreamMalformedRange(t *testing.T) {
	store := newTestStore(t)
	rec := storeBlob(t, store, domain.BucketUploads, "m.mp3", "audio/mpeg", []byte("0123456789"))
	svc := NewStreamService(store)

	for _, header := range []string{"bytes", "bytes=", "bytes=a-b", "items=0-5", "bytes=1-2,4-5", "bytes=-0"} {
		_, err := svc.Open(context.Background(), domain.BucketUploads, rec.ID, header)
		assert.ErrorIs(t, err, httprange.ErrMalformed, header)
	}
}

func TestStreamUnknownFile(t *testing.T) {
	svc := NewStreamService(newTestStore(t))
	_, err := svc.Open(context.Background(), domain.BucketUploads, "missing.mp3", "")
	assert.ErrorIs(t, err, domain.ErrFileNotFound)
}

func TestStreamDefaultContentTypes(t *testing.T) {
	store := newTestStore(t)
	svc := NewStreamService(store)

	song := storeBlob(t, store, domain.BucketUploads, "notype.mp3", "", []byte("x"))
	cover := storeBlob(t, store, domain.BucketCovers, "notype.png", "", []byte("x"))

	st, err := svc.Open(context.Background(), domain.BucketUploads, song.ID, "")
	require.NoError(t, err)
	_ = st.Reader.Close()
	assert.Equal(t, "audio/mpeg", st.ContentType)

	st, err = svc.Open(context.Background(), domain.BucketCovers, cover.ID, "")
	require.NoError(t, err)
	_ = st.Reader.Close()
	assert.Equal(t, "image/jpeg", st.ContentType)
}
