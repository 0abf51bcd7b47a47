package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anthanhphan/go-music-streaming/internal/domain"
	"github.com/anthanhphan/go-music-streaming/internal/port"
	"github.com/redis/go-redis/v9"
)

// storedUser carries the password hash, which the domain type keeps out of
// its JSON form.
type storedUser struct {
	ID           string      `json:"id"`
	Username     string      `json:"username"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"passwordHash"`
	Avatar       string      `json:"avatar,omitempty"`
	Role         domain.Role `json:"role"`
	IsBanned     bool        `json:"isBanned"`
	IsPremium    bool        `json:"isPremium"`
	CreatedAt    time.Time   `json:"createdAt"`
}

func toStored(u *domain.User) *storedUser {
	return &storedUser{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Avatar:       u.Avatar,
		Role:         u.Role,
		IsBanned:     u.IsBanned,
		IsPremium:    u.IsPremium,
		CreatedAt:    u.CreatedAt,
	}
}

func (s *storedUser) toDomain() *domain.User {
	return &domain.User{
		ID:           s.ID,
		Username:     s.Username,
		Email:        s.Email,
		PasswordHash: s.PasswordHash,
		Avatar:       s.Avatar,
		Role:         s.Role,
		IsBanned:     s.IsBanned,
		IsPremium:    s.IsPremium,
		CreatedAt:    s.CreatedAt,
	}
}

// UserRepo is the Redis-backed account repository. Email and username
// uniqueness is enforced through index hashes written with HSETNX.
type UserRepo struct {
	rdb *redis.Client
}

var _ port.UserRepository = (*UserRepo)(nil)

func NewUserRepo(rdb *redis.Client) *UserRepo {
	return &UserRepo{rdb: rdb}
}

func userKey(id string) string {
	return keyUserPrefix + id
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *UserRepo) Create(ctx context.Context, user *domain.User) error {
	email := normalizeEmail(user.Email)

	ok, err := r.rdb.HSetNX(ctx, keyUserByEmail, email, user.ID).Result()
	if err != nil {
		return fmt.Errorf("failed to reserve email: %w", err)
	}
	if !ok {
		return fmt.Errorf("email %s: %w", user.Email, domain.ErrUserExists)
	}

	ok, err = r.rdb.HSetNX(ctx, keyUserByName, user.Username, user.ID).Result()
	if err == nil && !ok {
		err = fmt.Errorf("username %s: %w", user.Username, domain.ErrUserExists)
	}
	if err != nil {
		_ = r.rdb.HDel(ctx, keyUserByEmail, email).Err()
		return err
	}

	payload, err := json.Marshal(toStored(user))
	if err != nil {
		return err
	}
	pipe := r.rdb.TxPipeline()
	pipe.Set(ctx, userKey(user.ID), payload, 0)
	pipe.SAdd(ctx, keyUserAll, user.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		_ = r.rdb.HDel(ctx, keyUserByEmail, email).Err()
		_ = r.rdb.HDel(ctx, keyUserByName, user.Username).Err()
		return fmt.Errorf("failed to store user: %w", err)
	}
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	raw, err := r.rdb.Get(ctx, userKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("user %s: %w", id, domain.ErrUserNotFound)
	}
	if err != nil {
		return nil, err
	}

	var stored storedUser
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("failed to decode user %s: %w", id, err)
	}
	return stored.toDomain(), nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	id, err := r.rdb.HGet(ctx, keyUserByEmail, normalizeEmail(email)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("email %s: %w", email, domain.ErrUserNotFound)
	}
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *UserRepo) Update(ctx context.Context, user *domain.User) error {
	exists, err := r.rdb.Exists(ctx, userKey(user.ID)).Result()
	if err != nil {
		return err
	}
	if exists == 0 {
		return fmt.Errorf("user %s: %w", user.ID, domain.ErrUserNotFound)
	}

	payload, err := json.Marshal(toStored(user))
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, userKey(user.ID), payload, 0).Err()
}

func (r *UserRepo) Delete(ctx context.Context, id string) error {
	user, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	pipe := r.rdb.TxPipeline()
	pipe.Del(ctx, userKey(id))
	pipe.HDel(ctx, keyUserByEmail, normalizeEmail(user.Email))
	pipe.HDel(ctx, keyUserByName, user.Username)
	pipe.SRem(ctx, keyUserAll, id)
	pipe.Del(ctx, sessionKey(id))
	_, err = pipe.Exec(ctx)
	return err
}

func (r *UserRepo) List(ctx context.Context) ([]*domain.User, error) {
	ids, err := r.rdb.SMembers(ctx, keyUserAll).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = userKey(id)
	}
	rows, err := r.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	users := make([]*domain.User, 0, len(rows))
	for _, row := range rows {
		raw, ok := row.(string)
		if !ok {
			continue
		}
		var stored storedUser
		if err := json.Unmarshal([]byte(raw), &stored); err != nil {
			continue
		}
		users = append(users, stored.toDomain())
	}
	return users, nil
}

func (r *UserRepo) Count(ctx context.Context) (int64, error) {
	return r.rdb.SCard(ctx, keyUserAll).Result()
}
