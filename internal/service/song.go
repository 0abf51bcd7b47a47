package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/anthanhphan/go-music-streaming/internal/domain"
	"github.com/anthanhphan/go-music-streaming/internal/port"
	"github.com/anthanhphan/gosdk/logger"
)

// SongSvc implements song publishing and engagement. Admin uploads go live
// immediately; user uploads wait for moderation.
type SongSvc struct {
	songs      port.SongRepository
	store      port.BlobStore
	sink       *UploadSink
	idGen      port.IDGenerator
	dispatcher port.Dispatcher
}

var _ port.SongService = (*SongSvc)(nil)

func NewSongService(
	songs port.SongRepository,
	store port.BlobStore,
	sink *UploadSink,
	idGen port.IDGenerator,
	dispatcher port.Dispatcher,
) *SongSvc {
	return &SongSvc{
		songs:      songs,
		store:      store,
		sink:       sink,
		idGen:      idGen,
		dispatcher: dispatcher,
	}
}

// Upload streams the audio part (and optional cover) into the blob store and
// registers the song. Blobs already persisted are dropped again if a later
// step fails.
func (s *SongSvc) Upload(ctx context.Context, up *port.SongUpload) (*domain.Song, error) {
	if up.Title == "" || up.Artist == "" {
		return nil, fmt.Errorf("title and artist are required: %w", domain.ErrUnsupportedType)
	}
	if up.Song == nil {
		return nil, fmt.Errorf("song file is required: %w", domain.ErrUnsupportedType)
	}

	audioRec, err := s.sink.Store(ctx, up.Song)
	if err != nil {
		return nil, err
	}

	var coverURL string
	var coverRec *domain.FileRecord
	if up.Cover != nil {
		coverRec, err = s.sink.Store(ctx, up.Cover)
		if err != nil {
			s.dropBlob(ctx, domain.BucketUploads, audioRec.ID)
			return nil, err
		}
		coverURL = up.CoverURLBase + "/" + coverRec.Filename
	}

	id, err := s.idGen.Next()
	if err != nil {
		s.dropBlob(ctx, domain.BucketUploads, audioRec.ID)
		if coverRec != nil {
			s.dropBlob(ctx, domain.BucketCovers, coverRec.ID)
		}
		return nil, err
	}

	status := domain.SongPending
	if up.Uploader.IsAdmin() {
		status = domain.SongApproved
	}

	song := &domain.Song{
		ID:         strconv.FormatInt(id, 10),
		Title:      up.Title,
		Artist:     up.Artist,
		Album:      up.Album,
		Genre:      up.Genre,
		FileID:     audioRec.ID,
		CoverImage: coverURL,
		Uploader:   up.Uploader.ID,
		UploadDate: time.Now().UTC(),
		Status:     status,
	}
	if err := s.songs.Create(ctx, song); err != nil {
		s.dropBlob(ctx, domain.BucketUploads, audioRec.ID)
		if coverRec != nil {
			s.dropBlob(ctx, domain.BucketCovers, coverRec.ID)
		}
		return nil, err
	}

	if status == domain.SongApproved {
		s.dispatcher.NotifyTopic(port.TopicAllUsers, "New song released",
			fmt.Sprintf("%s by %s is now available", song.Title, song.Artist),
			map[string]string{"songId": song.ID})
	} else {
		s.dispatcher.NotifyTopic(port.TopicAdminReviews, "Song awaiting review",
			fmt.Sprintf("%s by %s needs approval", song.Title, song.Artist),
			map[string]string{"songId": song.ID})
	}

	logger.Infow("Song uploaded",
		"song_id", song.ID, "uploader", song.Uploader, "status", string(song.Status))
	return song, nil
}

func (s *SongSvc) dropBlob(ctx context.Context, bucket, id string) {
	if err := s.store.Delete(ctx, bucket, id); err != nil && !errors.Is(err, domain.ErrFileNotFound) {
		logger.Warnw("Failed to drop blob after upload failure",
			"bucket", bucket, "file_id", id, "error", err.Error())
	}
}

func (s *SongSvc) ListApproved(ctx context.Context) ([]*domain.Song, error) {
	return s.songs.ListByStatus(ctx, domain.SongApproved)
}

func (s *SongSvc) Get(ctx context.Context, id string) (*domain.Song, error) {
	return s.songs.GetByID(ctx, id)
}

func (s *SongSvc) ToggleLike(ctx context.Context, songID, userID string) (bool, int64, error) {
	return s.songs.ToggleLike(ctx, songID, userID)
}

func (s *SongSvc) AddView(ctx context.Context, songID, userID string) (int64, error) {
	return s.songs.AddView(ctx, songID, userID)
}

// Delete removes the audio blob first, then the registry entry. A missing
// blob does not block removing the entry.
func (s *SongSvc) Delete(ctx context.Context, songID string, requester *domain.User) error {
	song, err := s.songs.GetByID(ctx, songID)
	if err != nil {
		return err
	}
	if !requester.IsAdmin() && song.Uploader != requester.ID {
		return domain.ErrAdminOnly
	}

	if err := s.store.Delete(ctx, domain.BucketUploads, song.FileID); err != nil {
		if !errors.Is(err, domain.ErrFileNotFound) {
			return err
		}
		logger.Warnw("Song blob already missing at delete", "song_id", songID, "file_id", song.FileID)
	}

	if err := s.songs.Delete(ctx, songID); err != nil {
		return err
	}
	logger.Infow("Song deleted", "song_id", songID, "requester", requester.ID)
	return nil
}
