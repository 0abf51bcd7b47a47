package http_handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/anthanhphan/go-music-streaming/internal/adapter/outbound/blobstore"
	"github.com/anthanhphan/go-music-streaming/internal/adapter/outbound/registry"
	"github.com/anthanhphan/go-music-streaming/internal/config"
	"github.com/anthanhphan/go-music-streaming/internal/domain"
	"github.com/anthanhphan/go-music-streaming/internal/service"
	"github.com/anthanhphan/go-music-streaming/pkg/idgen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	server *Server
	users  *registry.UserRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb, err := registry.NewClient(config.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	store, err := blobstore.New(config.StoreConfig{DataDir: t.TempDir()}, 1024)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	idGen, err := idgen.New(1, nil)
	require.NoError(t, err)

	cfg := config.DefaultConfig()
	cfg.App.MaxSongSize = 64 * 1024
	cfg.App.MaxCoverSize = 8 * 1024
	cfg.App.MaxAvatarSize = 4 * 1024
	cfg.Auth.JWTSecret = "test-secret"

	users := registry.NewUserRepo(rdb)
	sessions := registry.NewSessionRepo(rdb)
	songs := registry.NewSongRepo(rdb)
	monetization := registry.NewMonetizationRepo(rdb)

	sink := service.NewUploadSink(store, idGen, cfg.App)
	dispatcher := service.NewDispatcher(nil, 1, false)
	t.Cleanup(dispatcher.Close)

	server := NewServer(cfg, Services{
		Auth:         service.NewAuthService(users, sessions, sink, store, idGen, cfg.Auth),
		Song:         service.NewSongService(songs, store, sink, idGen, dispatcher),
		Stream:       service.NewStreamService(store),
		Admin:        service.NewAdminService(users, sessions, songs, store, dispatcher),
		Monetization: service.NewMonetizationService(monetization, idGen, dispatcher),
		Dispatcher:   dispatcher,
	})

	return &testEnv{server: server, users: users}
}

func (e *testEnv) doJSON(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.server.App().Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func decodeList(t *testing.T, resp *http.Response) []map[string]any {
	t.Helper()
	defer resp.Body.Close()

	var out []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// registerUser creates an account through the API and returns its token.
func (e *testEnv) registerUser(t *testing.T, username, email string) string {
	t.Helper()

	resp := e.doJSON(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": username,
		"email":    email,
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

// registerAdmin registers a user then flips its role directly in the registry.
// Admins are provisioned out of band, there is no promotion endpoint.
func (e *testEnv) registerAdmin(t *testing.T, username, email string) string {
	t.Helper()

	_ = e.registerUser(t, username, email)
	user, err := e.users.GetByEmail(t.Context(), email)
	require.NoError(t, err)
	user.Role = domain.RoleAdmin
	require.NoError(t, e.users.Update(t.Context(), user))

	// Re-login so the token reflects the admin role on subsequent loads.
	resp := e.doJSON(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := decodeBody(t, resp)["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func filePartHeader(field, filename, contentType string) textproto.MIMEHeader {
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	h.Set("Content-Type", contentType)
	return h
}

// buildSongUpload writes fields and the cover before the audio part, matching
// the order the upload handler consumes them in.
func buildSongUpload(t *testing.T, fields map[string]string, cover, song []byte) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if cover != nil {
		part, err := w.CreatePart(filePartHeader("coverImage", "cover.png", "image/png"))
		require.NoError(t, err)
		_, err = part.Write(cover)
		require.NoError(t, err)
	}
	if song != nil {
		part, err := w.CreatePart(filePartHeader("song", "track.mp3", "audio/mpeg"))
		require.NoError(t, err)
		_, err = part.Write(song)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func (e *testEnv) uploadSong(t *testing.T, token string, song []byte) map[string]any {
	t.Helper()

	body, contentType := buildSongUpload(t, map[string]string{
		"title":  "Test Track",
		"artist": "Tester",
	}, []byte("not-a-real-png"), song)

	req, err := http.NewRequest(http.MethodPost, "/api/song/upload", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := e.server.App().Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	out := decodeBody(t, resp)
	songBody, ok := out["song"].(map[string]any)
	require.True(t, ok)
	return songBody
}

func TestRegisterLoginProfile(t *testing.T) {
	env := newTestEnv(t)

	token := env.registerUser(t, "alice", "alice@example.com")

	resp := env.doJSON(t, http.MethodGet, "/api/auth/profile", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	profile := decodeBody(t, resp)
	assert.Equal(t, "alice", profile["username"])
	assert.NotContains(t, profile, "passwordHash")

	resp = env.doJSON(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestSecondLoginInvalidatesFirstSession(t *testing.T) {
	env := newTestEnv(t)
	first := env.registerUser(t, "bob", "bob@example.com")

	resp := env.doJSON(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "bob@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = env.doJSON(t, http.MethodGet, "/api/auth/profile", first, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "SESSION_INVALIDATED", decodeBody(t, resp)["msg"])
}

func TestAuthRequired(t *testing.T) {
	env := newTestEnv(t)

	resp := env.doJSON(t, http.MethodGet, "/api/auth/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = env.doJSON(t, http.MethodGet, "/api/auth/profile", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestSongUploadModerationAndStreaming(t *testing.T) {
	env := newTestEnv(t)
	userToken := env.registerUser(t, "carol", "carol@example.com")
	adminToken := env.registerAdmin(t, "root", "root@example.com")

	audio := bytes.Repeat([]byte("abcdefgh"), 512) // 4096 bytes, spans chunks
	song := env.uploadSong(t, userToken, audio)
	assert.Equal(t, "pending", song["status"])
	fileID, _ := song["fileId"].(string)
	require.NotEmpty(t, fileID)
	songID, _ := song["id"].(string)
	assert.True(t, strings.HasPrefix(song["coverImage"].(string), "http://"))

	// Pending songs are hidden from the public list.
	resp := env.doJSON(t, http.MethodGet, "/api/song", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decodeList(t, resp))

	resp = env.doJSON(t, http.MethodPut, "/api/admin/songs/"+songID+"/approve", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "approved", decodeBody(t, resp)["status"])

	resp = env.doJSON(t, http.MethodGet, "/api/song", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	listed := decodeList(t, resp)
	require.Len(t, listed, 1)
	assert.Equal(t, "Test Track", listed[0]["title"])

	// Full stream.
	resp = env.doJSON(t, http.MethodGet, "/api/song/stream/"+fileID, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "bytes", resp.Header.Get("Accept-Ranges"))
	assert.Equal(t, "audio/mpeg", resp.Header.Get("Content-Type"))
	got, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, audio, got)

	// Partial stream.
	req, err := http.NewRequest(http.MethodGet, "/api/song/stream/"+fileID, nil)
	require.NoError(t, err)
	req.Header.Set("Range", "bytes=1000-1999")
	resp, err = env.server.App().Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusPartialContent, resp.StatusCode)
	assert.Equal(t, fmt.Sprintf("bytes 1000-1999/%d", len(audio)), resp.Header.Get("Content-Range"))
	got, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, audio[1000:2000], got)

	// Unsatisfiable range.
	req, err = http.NewRequest(http.MethodGet, "/api/song/stream/"+fileID, nil)
	require.NoError(t, err)
	req.Header.Set("Range", fmt.Sprintf("bytes=%d-", len(audio)))
	resp, err = env.server.App().Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusRequestedRangeNotSatisfiable, resp.StatusCode)
	assert.Equal(t, fmt.Sprintf("bytes */%d", len(audio)), resp.Header.Get("Content-Range"))
	resp.Body.Close()

	// Malformed range.
	req, err = http.NewRequest(http.MethodGet, "/api/song/stream/"+fileID, nil)
	require.NoError(t, err)
	req.Header.Set("Range", "bytes=abc")
	resp, err = env.server.App().Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = env.doJSON(t, http.MethodGet, "/api/song/stream/no-such-file", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestSongLikeAndView(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerUser(t, "dave", "dave@example.com")

	song := env.uploadSong(t, token, bytes.Repeat([]byte("x"), 2048))
	songID, _ := song["id"].(string)

	resp := env.doJSON(t, http.MethodPut, "/api/song/like/"+songID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, true, body["liked"])
	assert.Equal(t, float64(1), body["likes"])

	resp = env.doJSON(t, http.MethodPut, "/api/song/like/"+songID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, false, body["liked"])
	assert.Equal(t, float64(0), body["likes"])

	// Views are unique per user.
	for i := 0; i < 3; i++ {
		resp = env.doJSON(t, http.MethodPost, "/api/song/view/"+songID, token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, float64(1), decodeBody(t, resp)["views"])
	}
}

func TestAvatarUploadAndFetch(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerUser(t, "erin", "erin@example.com")

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreatePart(filePartHeader("avatar", "me.png", "image/png"))
	require.NoError(t, err)
	avatar := bytes.Repeat([]byte{0x89, 0x50, 0x4e, 0x47}, 64)
	_, err = part.Write(avatar)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPost, "/api/auth/profile/photo", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := env.server.App().Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	filename, _ := decodeBody(t, resp)["avatar"].(string)
	require.NotEmpty(t, filename)

	resp = env.doJSON(t, http.MethodGet, "/api/auth/avatar/"+filename, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, avatar, got)
}

func TestAdminGate(t *testing.T) {
	env := newTestEnv(t)
	userToken := env.registerUser(t, "frank", "frank@example.com")
	adminToken := env.registerAdmin(t, "root", "root@example.com")

	resp := env.doJSON(t, http.MethodGet, "/api/admin/stats", userToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = env.doJSON(t, http.MethodGet, "/api/admin/stats", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stats := decodeBody(t, resp)
	assert.Equal(t, float64(2), stats["users"])
}

func TestAdminBanBlocksUser(t *testing.T) {
	env := newTestEnv(t)
	userToken := env.registerUser(t, "grace", "grace@example.com")
	adminToken := env.registerAdmin(t, "root", "root@example.com")

	user, err := env.users.GetByEmail(t.Context(), "grace@example.com")
	require.NoError(t, err)

	resp := env.doJSON(t, http.MethodPut, "/api/admin/users/"+user.ID+"/ban", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, decodeBody(t, resp)["isBanned"])

	// Banned user can no longer authenticate or log back in.
	resp = env.doJSON(t, http.MethodGet, "/api/auth/profile", userToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = env.doJSON(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "grace@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestMonetizationFlow(t *testing.T) {
	env := newTestEnv(t)
	userToken := env.registerUser(t, "henry", "henry@example.com")
	adminToken := env.registerAdmin(t, "root", "root@example.com")

	// Ad config is public and defaults to enabled.
	resp := env.doJSON(t, http.MethodGet, "/api/monetization/ads", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, decodeBody(t, resp)["isEnabled"])

	// Only admins may change it.
	resp = env.doJSON(t, http.MethodPost, "/api/monetization/ads", userToken, map[string]any{"isEnabled": false})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = env.doJSON(t, http.MethodPost, "/api/monetization/ads", adminToken, map[string]any{"isEnabled": false})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, decodeBody(t, resp)["isEnabled"])

	resp = env.doJSON(t, http.MethodPost, "/api/monetization/payouts/request", userToken, map[string]any{
		"amount": 120.5,
		"notes":  "march earnings",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	payout := decodeBody(t, resp)
	assert.Equal(t, "pending", payout["status"])
	payoutID, _ := payout["id"].(string)

	resp = env.doJSON(t, http.MethodGet, "/api/monetization/payouts", userToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = env.doJSON(t, http.MethodGet, "/api/monetization/payouts", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, decodeList(t, resp), 1)

	resp = env.doJSON(t, http.MethodPut, "/api/monetization/payouts/"+payoutID, adminToken, map[string]any{
		"status":        "paid",
		"transactionId": "tx-42",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decodeBody(t, resp)
	assert.Equal(t, "paid", updated["status"])
	assert.Equal(t, "tx-42", updated["transactionId"])
	assert.NotEmpty(t, updated["processedDate"])
}

func TestNotificationEndpoints(t *testing.T) {
	env := newTestEnv(t)
	userToken := env.registerUser(t, "iris", "iris@example.com")
	adminToken := env.registerAdmin(t, "root", "root@example.com")

	resp := env.doJSON(t, http.MethodPost, "/api/notification", userToken, map[string]string{
		"title": "t", "body": "b",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = env.doJSON(t, http.MethodPost, "/api/notification", adminToken, map[string]string{
		"title": "t", "body": "b",
	})
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	resp.Body.Close()

	resp = env.doJSON(t, http.MethodPost, "/api/notification", adminToken, map[string]string{
		"title": "t",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = env.doJSON(t, http.MethodPost, "/api/notification/send-to-token", adminToken, map[string]string{
		"token": "device-1", "title": "t", "body": "b",
	})
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	resp.Body.Close()
}
