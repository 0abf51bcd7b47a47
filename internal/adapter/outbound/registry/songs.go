package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/anthanhphan/go-music-streaming/internal/domain"
	"github.com/anthanhphan/go-music-streaming/internal/port"
	"github.com/redis/go-redis/v9"
)

// SongRepo stores song entries as JSON with per-status sorted sets for
// listing, and per-song member sets backing likes and unique views.
type SongRepo struct {
	rdb *redis.Client
}

var _ port.SongRepository = (*SongRepo)(nil)

func NewSongRepo(rdb *redis.Client) *SongRepo {
	return &SongRepo{rdb: rdb}
}

func songKey(id string) string {
	return keySongPrefix + id
}

func statusKey(status domain.SongStatus) string {
	return keySongsByStatus + string(status)
}

func (r *SongRepo) save(ctx context.Context, song *domain.Song) error {
	payload, err := json.Marshal(song)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, songKey(song.ID), payload, 0).Err()
}

func (r *SongRepo) Create(ctx context.Context, song *domain.Song) error {
	if err := r.save(ctx, song); err != nil {
		return fmt.Errorf("failed to store song: %w", err)
	}
	return r.rdb.ZAdd(ctx, statusKey(song.Status), redis.Z{
		Score:  float64(song.UploadDate.UnixMilli()),
		Member: song.ID,
	}).Err()
}

func (r *SongRepo) GetByID(ctx context.Context, id string) (*domain.Song, error) {
	raw, err := r.rdb.Get(ctx, songKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("song %s: %w", id, domain.ErrSongNotFound)
	}
	if err != nil {
		return nil, err
	}

	var song domain.Song
	if err := json.Unmarshal(raw, &song); err != nil {
		return nil, fmt.Errorf("failed to decode song %s: %w", id, err)
	}
	return &song, nil
}

// ListByStatus returns songs in the given moderation state, newest first.
func (r *SongRepo) ListByStatus(ctx context.Context, status domain.SongStatus) ([]*domain.Song, error) {
	ids, err := r.rdb.ZRevRange(ctx, statusKey(status), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = songKey(id)
	}
	rows, err := r.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	songs := make([]*domain.Song, 0, len(rows))
	for _, row := range rows {
		raw, ok := row.(string)
		if !ok {
			continue
		}
		var song domain.Song
		if err := json.Unmarshal([]byte(raw), &song); err != nil {
			continue
		}
		songs = append(songs, &song)
	}
	return songs, nil
}

func (r *SongRepo) UpdateStatus(ctx context.Context, id string, status domain.SongStatus) error {
	song, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if song.Status == status {
		return nil
	}

	prev := song.Status
	song.Status = status
	if err := r.save(ctx, song); err != nil {
		return err
	}

	pipe := r.rdb.TxPipeline()
	pipe.ZRem(ctx, statusKey(prev), id)
	pipe.ZAdd(ctx, statusKey(status), redis.Z{
		Score:  float64(song.UploadDate.UnixMilli()),
		Member: id,
	})
	_, err = pipe.Exec(ctx)
	return err
}

func (r *SongRepo) ToggleLike(ctx context.Context, songID, userID string) (bool, int64, error) {
	song, err := r.GetByID(ctx, songID)
	if err != nil {
		return false, 0, err
	}

	likesKey := keySongLikes + songID
	wasLiked, err := r.rdb.SIsMember(ctx, likesKey, userID).Result()
	if err != nil {
		return false, 0, err
	}
	if wasLiked {
		err = r.rdb.SRem(ctx, likesKey, userID).Err()
	} else {
		err = r.rdb.SAdd(ctx, likesKey, userID).Err()
	}
	if err != nil {
		return false, 0, err
	}

	total, err := r.rdb.SCard(ctx, likesKey).Result()
	if err != nil {
		return false, 0, err
	}

	song.Likes = total
	if err := r.save(ctx, song); err != nil {
		return false, 0, err
	}
	return !wasLiked, total, nil
}

// AddView counts each listener once per song.
func (r *SongRepo) AddView(ctx context.Context, songID, userID string) (int64, error) {
	song, err := r.GetByID(ctx, songID)
	if err != nil {
		return 0, err
	}

	viewsKey := keySongViews + songID
	added, err := r.rdb.SAdd(ctx, viewsKey, userID).Result()
	if err != nil {
		return 0, err
	}

	total, err := r.rdb.SCard(ctx, viewsKey).Result()
	if err != nil {
		return 0, err
	}
	if added > 0 {
		song.Views = total
		if err := r.save(ctx, song); err != nil {
			return 0, err
		}
	}
	return total, nil
}

func (r *SongRepo) Delete(ctx context.Context, id string) error {
	song, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	pipe := r.rdb.TxPipeline()
	pipe.Del(ctx, songKey(id))
	pipe.ZRem(ctx, statusKey(song.Status), id)
	pipe.Del(ctx, keySongLikes+id)
	pipe.Del(ctx, keySongViews+id)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *SongRepo) Count(ctx context.Context) (int64, error) {
	var total int64
	for _, status := range []domain.SongStatus{domain.SongPending, domain.SongApproved, domain.SongRejected} {
		n, err := r.rdb.ZCard(ctx, statusKey(status)).Result()
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}
