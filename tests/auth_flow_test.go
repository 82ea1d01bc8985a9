package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bako110/backend/internal/controller"
	"github.com/bako110/backend/internal/domain"
	"github.com/bako110/backend/internal/middleware"
	"github.com/bako110/backend/internal/registry"
	"github.com/bako110/backend/internal/repository"
	"github.com/bako110/backend/internal/service"
	"github.com/bako110/backend/internal/token"
	"github.com/bako110/backend/internal/utils"
	"github.com/bako110/backend/internal/worker"
)

// memoryUserRepository backs the full-flow tests without a database.
type memoryUserRepository struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*domain.User
}

func newMemoryUserRepository() *memoryUserRepository {
	return &memoryUserRepository{nextID: 1, users: make(map[int64]*domain.User)}
}

func (r *memoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if user.Email != nil && existing.Email != nil && *existing.Email == *user.Email {
			return &domain.ConflictError{Message: "email already registered"}
		}
		if user.Phone != nil && existing.Phone != nil && *existing.Phone == *user.Phone {
			return &domain.ConflictError{Message: "phone already registered"}
		}
	}

	user.ID = r.nextID
	r.nextID++
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *memoryUserRepository) FindByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if (u.Email != nil && *u.Email == identifier) || (u.Phone != nil && *u.Phone == identifier) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, &domain.NotFoundError{Message: "user not found"}
}

func (r *memoryUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.FindByIdentifier(ctx, email)
}

func (r *memoryUserRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok {
		return &domain.NotFoundError{Message: "user not found"}
	}
	u.PasswordHash = passwordHash
	return nil
}

func (r *memoryUserRepository) ExistsEmail(ctx context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email != nil && *u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryUserRepository) ExistsPhone(ctx context.Context, phone string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Phone != nil && *u.Phone == phone {
			return true, nil
		}
	}
	return false, nil
}

var _ repository.IUserRepository = (*memoryUserRepository)(nil)

// memoryProfileStore keeps profile documents in a map.
type memoryProfileStore struct {
	mu       sync.Mutex
	profiles map[int64]*domain.Profile
}

func newMemoryProfileStore() *memoryProfileStore {
	return &memoryProfileStore{profiles: make(map[int64]*domain.Profile)}
}

func (s *memoryProfileStore) CreateProfile(ctx context.Context, profile *domain.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.UserID] = profile
	return nil
}

func (s *memoryProfileStore) FindByUserID(ctx context.Context, userID int64) (*domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.profiles[userID]; ok {
		return p, nil
	}
	return nil, &domain.NotFoundError{Message: "profile not found"}
}

var _ repository.IProfileStore = (*memoryProfileStore)(nil)

// flowEnv wires the whole stack over httptest with in-memory collaborators.
type flowEnv struct {
	server *httptest.Server
	notify *worker.MockProvider
}

func newFlowEnv(t *testing.T) *flowEnv {
	t.Helper()

	notify := worker.NewMockProvider()
	pool := worker.NewNotifyPool(1, 8, map[worker.Channel]worker.Provider{
		worker.ChannelEmail: notify,
		worker.ChannelSMS:   notify,
	})
	t.Cleanup(pool.Stop)

	svc := service.NewAuthService(
		newMemoryUserRepository(),
		newMemoryProfileStore(),
		utils.NewPasswordHasher(),
		utils.NewValidator(),
		token.NewService("0123456789abcdef0123456789abcdef", time.Hour),
		registry.NewMemoryRevocationStore(),
		registry.NewResetCodeRegistry(6, 10*time.Minute),
		nil,
		service.AuthServiceConfig{
			PasswordMinLength: 6,
			ResetCodeTTL:      10 * time.Minute,
			NotifyPool:        pool,
		},
	)

	handler := middleware.Chain(
		controller.NewAuthController(svc).Routes(),
		middleware.Recovery,
		middleware.Logging,
	)
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return &flowEnv{server: server, notify: notify}
}

func (e *flowEnv) post(t *testing.T, path string, body any, bearer string) (int, map[string]any) {
	t.Helper()
	return e.request(t, http.MethodPost, path, body, bearer)
}

func (e *flowEnv) get(t *testing.T, path string, bearer string) (int, map[string]any) {
	t.Helper()
	return e.request(t, http.MethodGet, path, nil, bearer)
}

func (e *flowEnv) request(t *testing.T, method, path string, body any, bearer string) (int, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, e.server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := e.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp.StatusCode, decoded
}

func registerAndLogin(t *testing.T, env *flowEnv, email, password string) string {
	t.Helper()

	status, body := env.post(t, "/api/auth/register", map[string]string{
		"email":            email,
		"password":         password,
		"password_confirm": password,
		"first_name":       "Jean",
		"last_name":        "Dupont",
	}, "")
	require.Equal(t, http.StatusCreated, status, "register failed: %v", body)

	status, body = env.post(t, "/api/auth/login", map[string]string{
		"identifier": email,
		"password":   password,
	}, "")
	require.Equal(t, http.StatusOK, status, "login failed: %v", body)

	accessToken, ok := body["access_token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, accessToken)
	return accessToken
}

func TestSessionLifecycle(t *testing.T) {
	env := newFlowEnv(t)

	accessToken := registerAndLogin(t, env, "jean@example.com", "secret1")

	// The profile document is written asynchronously.
	require.Eventually(t, func() bool {
		status, body := env.get(t, "/api/auth/me", accessToken)
		return status == http.StatusOK && body["profile"] != nil
	}, 2*time.Second, 20*time.Millisecond)

	status, body := env.get(t, "/api/auth/me", accessToken)
	require.Equal(t, http.StatusOK, status)
	user := body["user"].(map[string]any)
	assert.Equal(t, "jean@example.com", user["email"])
	assert.Equal(t, "user", user["role"])

	status, _ = env.post(t, "/api/auth/logout", nil, accessToken)
	require.Equal(t, http.StatusOK, status)

	status, body = env.get(t, "/api/auth/me", accessToken)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Contains(t, body["detail"], "revoked")

	// Logout is idempotent.
	status, _ = env.post(t, "/api/auth/logout", nil, accessToken)
	assert.Equal(t, http.StatusOK, status)
}

func TestRegister_DuplicateEmailRejected(t *testing.T) {
	env := newFlowEnv(t)

	registerAndLogin(t, env, "jean@example.com", "secret1")

	status, body := env.post(t, "/api/auth/register", map[string]string{
		"email":            "jean@example.com",
		"password":         "other12",
		"password_confirm": "other12",
	}, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["detail"], "already registered")
}

func TestLogin_WrongPassword(t *testing.T) {
	env := newFlowEnv(t)
	registerAndLogin(t, env, "jean@example.com", "secret1")

	status, body := env.post(t, "/api/auth/login", map[string]string{
		"identifier": "jean@example.com",
		"password":   "wrong",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	statusUnknown, bodyUnknown := env.post(t, "/api/auth/login", map[string]string{
		"identifier": "nobody@example.com",
		"password":   "secret1",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, statusUnknown)

	// Unknown account and wrong password are indistinguishable.
	assert.Equal(t, body["detail"], bodyUnknown["detail"])
}

func TestPasswordResetFlow(t *testing.T) {
	env := newFlowEnv(t)
	registerAndLogin(t, env, "jean@example.com", "secret1")

	status, _ := env.post(t, "/api/auth/forgot-password", map[string]string{
		"identifier": "jean@example.com",
	}, "")
	require.Equal(t, http.StatusOK, status)

	// Pull the code out of the delivered email.
	var code string
	require.Eventually(t, func() bool {
		for _, task := range env.notify.Sent() {
			if task.Recipient == "jean@example.com" {
				code = extractCode(task.Body)
				return code != ""
			}
		}
		return false
	}, 2*time.Second, 20*time.Millisecond)

	status, body := env.post(t, "/api/auth/verify-code", map[string]string{
		"code": code,
	}, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "jean@example.com", body["identifier"])

	status, _ = env.post(t, "/api/auth/reset-password", map[string]string{
		"newPassword":     "newsecret",
		"confirmPassword": "newsecret",
	}, "")
	require.Equal(t, http.StatusOK, status)

	// The old password no longer works, the new one does.
	status, _ = env.post(t, "/api/auth/login", map[string]string{
		"identifier": "jean@example.com",
		"password":   "secret1",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = env.post(t, "/api/auth/login", map[string]string{
		"identifier": "jean@example.com",
		"password":   "newsecret",
	}, "")
	assert.Equal(t, http.StatusOK, status)

	// The verified attempt was consumed with the first reset.
	status, _ = env.post(t, "/api/auth/reset-password", map[string]string{
		"newPassword":     "another1",
		"confirmPassword": "another1",
	}, "")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestVerifyCode_WrongCode(t *testing.T) {
	env := newFlowEnv(t)
	registerAndLogin(t, env, "jean@example.com", "secret1")

	status, _ := env.post(t, "/api/auth/forgot-password", map[string]string{
		"identifier": "jean@example.com",
	}, "")
	require.Equal(t, http.StatusOK, status)

	status, _ = env.post(t, "/api/auth/verify-code", map[string]string{
		"code": "not-a-code",
	}, "")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestForgotPassword_UnknownIdentifier(t *testing.T) {
	env := newFlowEnv(t)

	status, _ := env.post(t, "/api/auth/forgot-password", map[string]string{
		"identifier": "nobody@example.com",
	}, "")
	assert.Equal(t, http.StatusNotFound, status)
}

// extractCode returns the first run of six or more digits in body, trimmed to
// six characters.
func extractCode(body string) string {
	var code []byte
	for i := 0; i < len(body); i++ {
		if body[i] >= '0' && body[i] <= '9' {
			code = append(code, body[i])
			continue
		}
		if len(code) >= 6 {
			break
		}
		code = code[:0]
	}
	if len(code) < 6 {
		return ""
	}
	return string(code[:6])
}
