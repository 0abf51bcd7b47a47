package port

import (
	"context"
	"time"

	"github.com/anthanhphan/go-music-streaming/internal/domain"
)

//go:generate mockgen -destination=../service/mocks/repository_mock.go -package=mocks -source=repository.go

// UserRepository persists registry accounts.
type UserRepository interface {
	// Create fails with domain.ErrUserExists when email or username is taken.
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.User, error)
	Count(ctx context.Context) (int64, error)
}

// SessionStore tracks the single active session token id per user. Each login
// overwrites the stored value, invalidating every other token.
type SessionStore interface {
	Put(ctx context.Context, userID, tokenID string, ttl time.Duration) error
	// Get returns the active token id, or "" when the user has no session.
	Get(ctx context.Context, userID string) (string, error)
	Clear(ctx context.Context, userID string) error
	CountActive(ctx context.Context) (int64, error)
}

// SongRepository persists song registry entries and their like/view sets.
type SongRepository interface {
	Create(ctx context.Context, song *domain.Song) error
	GetByID(ctx context.Context, id string) (*domain.Song, error)
	ListByStatus(ctx context.Context, status domain.SongStatus) ([]*domain.Song, error)
	UpdateStatus(ctx context.Context, id string, status domain.SongStatus) error
	// ToggleLike adds or removes the user from the song's like set and
	// reports the new state.
	ToggleLike(ctx context.Context, songID, userID string) (liked bool, total int64, err error)
	// AddView records a unique listener and returns the view count.
	AddView(ctx context.Context, songID, userID string) (int64, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// MonetizationRepository persists the ad configuration singleton and artist
// payout requests.
type MonetizationRepository interface {
	GetAdConfig(ctx context.Context) (*domain.AdConfig, error)
	SaveAdConfig(ctx context.Context, cfg *domain.AdConfig) error
	CreatePayout(ctx context.Context, payout *domain.Payout) error
	GetPayout(ctx context.Context, id string) (*domain.Payout, error)
	ListPayouts(ctx context.Context) ([]*domain.Payout, error)
	UpdatePayout(ctx context.Context, payout *domain.Payout) error
}

// IDGenerator allocates unique ids for filenames and registry entities.
type IDGenerator interface {
	Next() (int64, error)
}
