package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/anthanhphan/go-music-streaming/internal/domain"
	"github.com/anthanhphan/go-music-streaming/internal/port"
	"github.com/anthanhphan/gosdk/logger"
)

// AdminSvc implements moderation and the operational endpoints.
type AdminSvc struct {
	users      port.UserRepository
	sessions   port.SessionStore
	songs      port.SongRepository
	store      port.BlobStore
	dispatcher port.Dispatcher
}

var _ port.AdminService = (*AdminSvc)(nil)

func NewAdminService(
	users port.UserRepository,
	sessions port.SessionStore,
	songs port.SongRepository,
	store port.BlobStore,
	dispatcher port.Dispatcher,
) *AdminSvc {
	return &AdminSvc{
		users:      users,
		sessions:   sessions,
		songs:      songs,
		store:      store,
		dispatcher: dispatcher,
	}
}

func (s *AdminSvc) Stats(ctx context.Context) (*port.AdminStats, error) {
	users, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	songs, err := s.songs.Count(ctx)
	if err != nil {
		return nil, err
	}
	online, err := s.sessions.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	return &port.AdminStats{Users: users, Songs: songs, Online: online}, nil
}

func (s *AdminSvc) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

// ToggleBan flips the ban flag. Banning force-logs-out by clearing the pinned
// session; admins cannot ban their own account.
func (s *AdminSvc) ToggleBan(ctx context.Context, adminID, userID string) (*domain.User, error) {
	if adminID == userID {
		return nil, fmt.Errorf("cannot ban own account: %w", domain.ErrAdminOnly)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.IsBanned = !user.IsBanned
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	if user.IsBanned {
		if err := s.sessions.Clear(ctx, userID); err != nil {
			logger.Warnw("Failed to clear banned user's session", "user_id", userID, "error", err.Error())
		}
	}
	logger.Infow("Ban toggled", "user_id", userID, "banned", user.IsBanned, "by", adminID)
	return user, nil
}

// DeleteUser removes the account and its avatar blob. The registry delete
// also drops the session.
func (s *AdminSvc) DeleteUser(ctx context.Context, adminID, userID string) error {
	if adminID == userID {
		return fmt.Errorf("cannot delete own account: %w", domain.ErrAdminOnly)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if user.Avatar != "" {
		if err := s.store.Delete(ctx, domain.BucketAvatars, user.Avatar); err != nil &&
			!errors.Is(err, domain.ErrFileNotFound) {
			logger.Warnw("Failed to delete user's avatar blob",
				"user_id", userID, "filename", user.Avatar, "error", err.Error())
		}
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	logger.Infow("User deleted", "user_id", userID, "by", adminID)
	return nil
}

func (s *AdminSvc) PendingSongs(ctx context.Context) ([]*domain.Song, error) {
	return s.songs.ListByStatus(ctx, domain.SongPending)
}

func (s *AdminSvc) ApproveSong(ctx context.Context, songID string) (*domain.Song, error) {
	if err := s.songs.UpdateStatus(ctx, songID, domain.SongApproved); err != nil {
		return nil, err
	}
	song, err := s.songs.GetByID(ctx, songID)
	if err != nil {
		return nil, err
	}

	s.dispatcher.NotifyTopic(port.TopicAllUsers, "New song released",
		fmt.Sprintf("%s by %s is now available", song.Title, song.Artist),
		map[string]string{"songId": song.ID})

	logger.Infow("Song approved", "song_id", songID)
	return song, nil
}

// Integrity audits every finalized blob and reports the store fingerprint
// with it, so two audits can be compared without re-reading chunks.
func (s *AdminSvc) Integrity(ctx context.Context) (*port.IntegrityReport, error) {
	report := &port.IntegrityReport{}

	for _, bucket := range []string{domain.BucketUploads, domain.BucketCovers, domain.BucketAvatars} {
		records, err := s.store.ListFiles(ctx, bucket)
		if err != nil {
			return nil, err
		}
		for _, rec := range records {
			report.FilesTotal++
			if err := s.store.VerifyFile(ctx, rec); err != nil {
				report.FilesBroken++
				report.Issues = append(report.Issues, err.Error())
			}
		}
	}

	report.Fingerprint = s.store.Fingerprint()
	if report.FilesBroken > 0 {
		logger.Warnw("Integrity audit found broken files",
			"total", report.FilesTotal, "broken", report.FilesBroken)
	}
	return report, nil
}
