package service

import (
	"context"
	"testing"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/anthanhphan/go-music-streaming/internal/config"
	"github.com/anthanhphan/go-music-streaming/internal/domain"
	"github.com/anthanhphan/go-music-streaming/internal/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// fakeSessions keeps the pinned jti per user in memory, so issue/authenticate
// flows can be exercised end to end.
type fakeSessions struct {
	pinned map[string]string
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{pinned: make(map[string]string)}
}

func (f *fakeSessions) Put(ctx context.Context, userID, tokenID string, ttl time.Duration) error {
	f.pinned[userID] = tokenID
	return nil
}

func (f *fakeSessions) Get(ctx context.Context, userID string) (string, error) {
	return f.pinned[userID], nil
}

func (f *fakeSessions) Clear(ctx context.Context, userID string) error {
	delete(f.pinned, userID)
	return nil
}

func (f *fakeSessions) CountActive(ctx context.Context) (int64, error) {
	return int64(len(f.pinned)), nil
}

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{JWTSecret: "test-secret", TokenTTLHours: 1}
}

func TestAuthRegisterAndAuthenticate(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserRepository(ctrl)
	idGen := mocks.NewMockIDGenerator(ctrl)
	sessions := newFakeSessions()

	var created *domain.User
	idGen.EXPECT().Next().Return(int64(101), nil)
	users.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, u *domain.User) error {
			created = u
			return nil
		})

	svc := NewAuthService(users, sessions, nil, nil, idGen, testAuthConfig())
	token, user, err := svc.Register(context.Background(), "alice", "alice@example.com", "secret-pw")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, "101", user.ID)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.NotEqual(t, "secret-pw", created.PasswordHash)

	users.EXPECT().GetByID(gomock.Any(), "101").Return(user, nil)
	got, err := svc.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "101", got.ID)
}

func TestAuthRegisterRequiresFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewAuthService(mocks.NewMockUserRepository(ctrl), newFakeSessions(), nil, nil,
		mocks.NewMockIDGenerator(ctrl), testAuthConfig())

	_, _, err := svc.Register(context.Background(), "", "a@example.com", "pw")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthLogin(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserRepository(ctrl)
	sessions := newFakeSessions()
	svc := NewAuthService(users, sessions, nil, nil, mocks.NewMockIDGenerator(ctrl), testAuthConfig())

	hash, err := argon2id.CreateHash("right-pw", argon2id.DefaultParams)
	require.NoError(t, err)
	account := &domain.User{ID: "u1", Email: "a@example.com", PasswordHash: hash, Role: domain.RoleUser}

	t.Run("unknown email", func(t *testing.T) {
		users.EXPECT().GetByEmail(gomock.Any(), "nobody@example.com").
			Return(nil, domain.ErrUserNotFound)
		_, _, err := svc.Login(context.Background(), "nobody@example.com", "pw")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("wrong password", func(t *testing.T) {
		users.EXPECT().GetByEmail(gomock.Any(), "a@example.com").Return(account, nil)
		_, _, err := svc.Login(context.Background(), "a@example.com", "wrong-pw")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("banned", func(t *testing.T) {
		banned := *account
		banned.IsBanned = true
		users.EXPECT().GetByEmail(gomock.Any(), "a@example.com").Return(&banned, nil)
		_, _, err := svc.Login(context.Background(), "a@example.com", "right-pw")
		assert.ErrorIs(t, err, domain.ErrUserBanned)
	})

	t.Run("success pins session", func(t *testing.T) {
		users.EXPECT().GetByEmail(gomock.Any(), "a@example.com").Return(account, nil)
		token, user, err := svc.Login(context.Background(), "a@example.com", "right-pw")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, "u1", user.ID)
		assert.NotEmpty(t, sessions.pinned["u1"])
	})
}

func TestAuthSecondLoginInvalidatesFirstToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserRepository(ctrl)
	sessions := newFakeSessions()
	svc := NewAuthService(users, sessions, nil, nil, mocks.NewMockIDGenerator(ctrl), testAuthConfig())

	hash, err := argon2id.CreateHash("pw", argon2id.DefaultParams)
	require.NoError(t, err)
	account := &domain.User{ID: "u1", Email: "a@example.com", PasswordHash: hash}

	users.EXPECT().GetByEmail(gomock.Any(), "a@example.com").Return(account, nil).Times(2)
	first, _, err := svc.Login(context.Background(), "a@example.com", "pw")
	require.NoError(t, err)
	second, _, err := svc.Login(context.Background(), "a@example.com", "pw")
	require.NoError(t, err)

	users.EXPECT().GetByID(gomock.Any(), "u1").Return(account, nil).Times(2)
	_, err = svc.Authenticate(context.Background(), first)
	assert.ErrorIs(t, err, domain.ErrSessionInvalidated)
	_, err = svc.Authenticate(context.Background(), second)
	assert.NoError(t, err)
}

func TestAuthAuthenticateRejectsGarbageAndBanned(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserRepository(ctrl)
	sessions := newFakeSessions()
	svc := NewAuthService(users, sessions, nil, nil, mocks.NewMockIDGenerator(ctrl), testAuthConfig())

	_, err := svc.Authenticate(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	hash, err := argon2id.CreateHash("pw", argon2id.DefaultParams)
	require.NoError(t, err)
	account := &domain.User{ID: "u1", Email: "a@example.com", PasswordHash: hash}
	users.EXPECT().GetByEmail(gomock.Any(), "a@example.com").Return(account, nil)
	token, _, err := svc.Login(context.Background(), "a@example.com", "pw")
	require.NoError(t, err)

	// Ban lands between issue and use.
	banned := *account
	banned.IsBanned = true
	users.EXPECT().GetByID(gomock.Any(), "u1").Return(&banned, nil)
	_, err = svc.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrUserBanned)
}

func TestAuthChangePassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserRepository(ctrl)
	svc := NewAuthService(users, newFakeSessions(), nil, nil, mocks.NewMockIDGenerator(ctrl), testAuthConfig())

	hash, err := argon2id.CreateHash("old-pw", argon2id.DefaultParams)
	require.NoError(t, err)
	account := &domain.User{ID: "u1", PasswordHash: hash}

	users.EXPECT().GetByID(gomock.Any(), "u1").Return(account, nil)
	err = svc.ChangePassword(context.Background(), "u1", "wrong-pw", "new-pw")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	users.EXPECT().GetByID(gomock.Any(), "u1").Return(account, nil)
	users.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, u *domain.User) error {
			match, err := argon2id.ComparePasswordAndHash("new-pw", u.PasswordHash)
			require.NoError(t, err)
			assert.True(t, match)
			return nil
		})
	require.NoError(t, svc.ChangePassword(context.Background(), "u1", "old-pw", "new-pw"))
}
