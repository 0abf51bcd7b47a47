package port

import (
	"context"
	"io"

	"github.com/anthanhphan/go-music-streaming/internal/domain"
)

// FilePart is one binary part of a multipart upload, consumed as a stream.
type FilePart struct {
	FieldName   string
	Filename    string
	ContentType string
	Reader      io.Reader
}

// SongUpload carries everything needed to publish a new song.
type SongUpload struct {
	Uploader *domain.User
	Title    string
	Artist   string
	Album    string
	Genre    string
	Song     *FilePart
	Cover    *FilePart
	// CoverURLBase is the public prefix for cover links,
	// e.g. "https://host/api/song/cover".
	CoverURLBase string
}

// Stream describes one resolved streaming response. Reader must be closed by
// the caller on every exit path.
type Stream struct {
	Status        int
	ContentType   string
	ContentLength int64
	ContentRange  string
	TotalSize     int64
	Reader        io.ReadCloser
}

// AuthService implements accounts, login, and the single-session policy.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (token string, user *domain.User, err error)
	Login(ctx context.Context, email, password string) (token string, user *domain.User, err error)
	// Authenticate validates a bearer token and enforces ban and
	// single-session checks.
	Authenticate(ctx context.Context, token string) (*domain.User, error)
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
	// SetAvatar streams a new avatar into the blob store and replaces the
	// user's previous one, best-effort deleting the old blob.
	SetAvatar(ctx context.Context, userID string, part *FilePart) (*domain.User, error)
	GetProfile(ctx context.Context, userID string) (*domain.User, error)
}

// SongService implements song publishing, listing, and engagement.
type SongService interface {
	Upload(ctx context.Context, up *SongUpload) (*domain.Song, error)
	ListApproved(ctx context.Context) ([]*domain.Song, error)
	Get(ctx context.Context, id string) (*domain.Song, error)
	ToggleLike(ctx context.Context, songID, userID string) (liked bool, total int64, err error)
	AddView(ctx context.Context, songID, userID string) (int64, error)
	// Delete removes the song's blob then its registry entry. Only the
	// uploader or an admin may delete.
	Delete(ctx context.Context, songID string, requester *domain.User) error
}

// StreamService is the range reader over stored blobs.
type StreamService interface {
	// Open resolves a file and prepares a full (200) or partial (206)
	// response for the optional Range header value. An unsatisfiable range
	// yields a 416 Stream with a nil Reader and a "bytes */size"
	// Content-Range.
	Open(ctx context.Context, bucket, idOrName, rangeHeader string) (*Stream, error)
}

// AdminStats is the dashboard counters payload.
type AdminStats struct {
	Users  int64 `json:"users"`
	Songs  int64 `json:"songs"`
	Online int64 `json:"online"`
}

// IntegrityReport is the outcome of a store audit.
type IntegrityReport struct {
	Fingerprint string   `json:"fingerprint"`
	FilesTotal  int      `json:"filesTotal"`
	FilesBroken int      `json:"filesBroken"`
	Issues      []string `json:"issues,omitempty"`
}

// AdminService implements moderation and operational endpoints.
type AdminService interface {
	Stats(ctx context.Context) (*AdminStats, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
	// ToggleBan flips the ban flag; banning clears the user's session.
	// Admins cannot ban themselves.
	ToggleBan(ctx context.Context, adminID, userID string) (*domain.User, error)
	DeleteUser(ctx context.Context, adminID, userID string) error
	PendingSongs(ctx context.Context) ([]*domain.Song, error)
	ApproveSong(ctx context.Context, songID string) (*domain.Song, error)
	Integrity(ctx context.Context) (*IntegrityReport, error)
}

// MonetizationService implements ad config and artist payouts.
type MonetizationService interface {
	GetAdConfig(ctx context.Context) (*domain.AdConfig, error)
	SaveAdConfig(ctx context.Context, cfg *domain.AdConfig) (*domain.AdConfig, error)
	RequestPayout(ctx context.Context, artistID string, amount float64, notes string) (*domain.Payout, error)
	ListPayouts(ctx context.Context) ([]*domain.Payout, error)
	UpdatePayout(ctx context.Context, id string, status domain.PayoutStatus, transactionID, notes string) (*domain.Payout, error)
}

// Dispatcher fans push notifications out without blocking callers.
type Dispatcher interface {
	NotifyTopic(topic, title, body string, data map[string]string)
	NotifyToken(token, title, body string, data map[string]string)
}
