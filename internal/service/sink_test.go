package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/anthanhphan/go-music-streaming/internal/adapter/outbound/blobstore"
	"github.com/anthanhphan/go-music-streaming/internal/config"
	"github.com/anthanhphan/go-music-streaming/internal/domain"
	"github.com/anthanhphan/go-music-streaming/internal/port"
	"github.com/anthanhphan/go-music-streaming/pkg/idgen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) port.BlobStore {
	t.Helper()
	store, err := blobstore.New(config.StoreConfig{DataDir: t.TempDir()}, 1024)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func idgenForTest() (*idgen.Snowflake, error) {
	return idgen.New(1, nil)
}

func newTestSink(t *testing.T, store port.BlobStore) *UploadSink {
	t.Helper()
	gen, err := idgenForTest()
	require.NoError(t, err)
	return NewUploadSink(store, gen, config.AppConfig{
		MaxSongSize:   4096,
		MaxCoverSize:  2048,
		MaxAvatarSize: 1024,
	})
}

func audioPart(name string, data []byte) *port.FilePart {
	return &port.FilePart{
		FieldName:   "song",
		Filename:    name,
		ContentType: "audio/mpeg",
		Reader:      bytes.NewReader(data),
	}
}

func TestSinkStoresSong(t *testing.T) {
	store := newTestStore(t)
	sink := newTestSink(t, store)

	rec, err := sink.Store(context.Background(), audioPart("track.mp3", []byte("mp3 bytes")))
	require.NoError(t, err)

	assert.Equal(t, domain.BucketUploads, rec.Bucket)
	assert.True(t, strings.HasPrefix(rec.Filename, "song-"), "got %q", rec.Filename)
	assert.True(t, strings.HasSuffix(rec.Filename, ".mp3"), "got %q", rec.Filename)
	assert.Equal(t, int64(9), rec.Length)

	// The blob is readable under its generated name.
	_, err = store.Stat(context.Background(), domain.BucketUploads, rec.Filename)
	require.NoError(t, err)
}

func TestSinkAcceptsAudioByExtension(t *testing.T) {
	sink := newTestSink(t, newTestStore(t))

	rec, err := sink.Store(context.Background(), &port.FilePart{
		FieldName:   "song",
		Filename:    "raw.wav",
		ContentType: "application/octet-stream",
		Reader:      strings.NewReader("wav"),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(rec.Filename, ".wav"))
}

func TestSinkRejectsUnsupportedType(t *testing.T) {
	store := newTestStore(t)
	sink := newTestSink(t, store)

	tests := []struct {
		name string
		part *port.FilePart
	}{
		{name: "unknown field", part: &port.FilePart{
			FieldName: "attachment", Filename: "x.mp3", ContentType: "audio/mpeg",
			Reader: strings.NewReader("x"),
		}},
		{name: "text as song", part: &port.FilePart{
			FieldName: "song", Filename: "notes.txt", ContentType: "text/plain",
			Reader: strings.NewReader("x"),
		}},
		{name: "audio as cover", part: &port.FilePart{
			FieldName: "coverImage", Filename: "x.mp3", ContentType: "audio/mpeg",
			Reader: strings.NewReader("x"),
		}},
		{name: "gif avatar", part: &port.FilePart{
			FieldName: "avatar", Filename: "pic.gif", ContentType: "image/gif",
			Reader: strings.NewReader("x"),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sink.Store(context.Background(), tt.part)
			assert.ErrorIs(t, err, domain.ErrUnsupportedType)
		})
	}

	// Header-level rejection happens before any byte is persisted.
	for _, bucket := range []string{domain.BucketUploads, domain.BucketCovers, domain.BucketAvatars} {
		files, err := store.ListFiles(context.Background(), bucket)
		require.NoError(t, err)
		assert.Empty(t, files)
	}
	pending, err := store.ListPending(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestSinkRejectsOversizedUpload(t *testing.T) {
	store := newTestStore(t)
	sink := newTestSink(t, store)

	big := bytes.Repeat([]byte("a"), 5000)
	_, err := sink.Store(context.Background(), audioPart("big.mp3", big))
	assert.ErrorIs(t, err, domain.ErrTooLarge)

	// The aborted upload leaves nothing behind.
	files, err := store.ListFiles(context.Background(), domain.BucketUploads)
	require.NoError(t, err)
	assert.Empty(t, files)
	pending, err := store.ListPending(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestSinkRejectsEmptyUpload(t *testing.T) {
	sink := newTestSink(t, newTestStore(t))

	_, err := sink.Store(context.Background(), audioPart("empty.mp3", nil))
	assert.ErrorIs(t, err, domain.ErrEmptyUpload)
}

func TestSinkAvatarBucket(t *testing.T) {
	sink := newTestSink(t, newTestStore(t))

	rec, err := sink.Store(context.Background(), &port.FilePart{
		FieldName:   "avatar",
		Filename:    "me.PNG",
		ContentType: "image/png",
		Reader:      strings.NewReader("png bytes"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.BucketAvatars, rec.Bucket)
	assert.True(t, strings.HasPrefix(rec.Filename, "avatar-"))
	assert.True(t, strings.HasSuffix(rec.Filename, ".png"))
}
