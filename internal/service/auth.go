package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/anthanhphan/go-music-streaming/internal/config"
	"github.com/anthanhphan/go-music-streaming/internal/domain"
	"github.com/anthanhphan/go-music-streaming/internal/port"
	"github.com/anthanhphan/gosdk/logger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AuthSvc implements accounts and the single-active-session policy: every
// issued token carries a jti, and only the most recently issued jti per user
// authenticates.
type AuthSvc struct {
	users    port.UserRepository
	sessions port.SessionStore
	sink     *UploadSink
	store    port.BlobStore
	idGen    port.IDGenerator

	secret   []byte
	tokenTTL time.Duration
}

var _ port.AuthService = (*AuthSvc)(nil)

func NewAuthService(
	users port.UserRepository,
	sessions port.SessionStore,
	sink *UploadSink,
	store port.BlobStore,
	idGen port.IDGenerator,
	cfg config.AuthConfig,
) *AuthSvc {
	ttl := time.Duration(cfg.TokenTTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 100 * time.Hour
	}
	return &AuthSvc{
		users:    users,
		sessions: sessions,
		sink:     sink,
		store:    store,
		idGen:    idGen,
		secret:   []byte(cfg.JWTSecret),
		tokenTTL: ttl,
	}
}

func (s *AuthSvc) Register(ctx context.Context, username, email, password string) (string, *domain.User, error) {
	if username == "" || email == "" || password == "" {
		return "", nil, fmt.Errorf("username, email and password are required: %w", domain.ErrInvalidCredentials)
	}

	hash, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		return "", nil, fmt.Errorf("failed to hash password: %w", err)
	}

	id, err := s.idGen.Next()
	if err != nil {
		return "", nil, err
	}

	user := &domain.User{
		ID:           strconv.FormatInt(id, 10),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return "", nil, err
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return "", nil, err
	}
	logger.Infow("User registered", "user_id", user.ID, "username", username)
	return token, user, nil
}

func (s *AuthSvc) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	match, err := argon2id.ComparePasswordAndHash(password, user.PasswordHash)
	if err != nil {
		return "", nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !match {
		return "", nil, domain.ErrInvalidCredentials
	}
	if user.IsBanned {
		return "", nil, domain.ErrUserBanned
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// issueToken signs a fresh token and pins its jti as the user's only active
// session.
func (s *AuthSvc) issueToken(ctx context.Context, user *domain.User) (string, error) {
	jti := uuid.NewString()
	now := time.Now()

	claims := jwt.RegisteredClaims{
		Subject:   user.ID,
		ID:        jti,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	if err := s.sessions.Put(ctx, user.ID, jti, s.tokenTTL); err != nil {
		return "", fmt.Errorf("failed to pin session: %w", err)
	}
	return token, nil
}

func (s *AuthSvc) Authenticate(ctx context.Context, tokenString string) (*domain.User, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("token rejected: %w", domain.ErrInvalidCredentials)
	}

	user, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if user.IsBanned {
		return nil, domain.ErrUserBanned
	}

	active, err := s.sessions.Get(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if active == "" || active != claims.ID {
		return nil, domain.ErrSessionInvalidated
	}
	return user, nil
}

func (s *AuthSvc) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("new password is required: %w", domain.ErrInvalidCredentials)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	match, err := argon2id.ComparePasswordAndHash(oldPassword, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("failed to verify password: %w", err)
	}
	if !match {
		return domain.ErrInvalidCredentials
	}

	hash, err := argon2id.CreateHash(newPassword, argon2id.DefaultParams)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = hash
	return s.users.Update(ctx, user)
}

// SetAvatar stores the new avatar blob, points the profile at it, and then
// drops the previous blob. A failed cleanup only logs; the profile update has
// already landed.
func (s *AuthSvc) SetAvatar(ctx context.Context, userID string, part *port.FilePart) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	rec, err := s.sink.Store(ctx, part)
	if err != nil {
		return nil, err
	}

	previous := user.Avatar
	user.Avatar = rec.Filename
	if err := s.users.Update(ctx, user); err != nil {
		if delErr := s.store.Delete(ctx, domain.BucketAvatars, rec.Filename); delErr != nil {
			logger.Warnw("Failed to drop orphaned avatar", "filename", rec.Filename, "error", delErr.Error())
		}
		return nil, err
	}

	if previous != "" {
		if err := s.store.Delete(ctx, domain.BucketAvatars, previous); err != nil {
			logger.Warnw("Failed to delete replaced avatar",
				"user_id", userID, "filename", previous, "error", err.Error())
		}
	}
	return user, nil
}

func (s *AuthSvc) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}
