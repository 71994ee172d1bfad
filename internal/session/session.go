package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"ndphc-monitor/internal/gateway"
	"ndphc-monitor/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

var ErrNotLoggedIn = errors.New("not logged in")

// Persister stores the single {token, user} entry.
type Persister interface {
	SaveSession(token string, user *model.User) error
	LoadSession() (string, *model.User, error)
	ClearSession() error
}

// Manager is the session context shared by the gateway and every caller that
// needs the acting user. It implements gateway.SessionProvider.
type Manager struct {
	client    *gateway.Client
	persister Persister
	logger    *zap.SugaredLogger

	// Redirect is invoked after a 401 teardown. It must be idempotent.
	Redirect func()

	mu        sync.RWMutex
	token     string
	user      *model.User
	isLoading bool
	lastError string
}

func NewManager(client *gateway.Client, persister Persister, logger *zap.SugaredLogger) *Manager {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	m := &Manager{client: client, persister: persister, logger: logger}
	client.SetSession(m)
	return m
}

func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

func (m *Manager) User() *model.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user
}

// Role is empty for an anonymous session.
func (m *Manager) Role() model.Role {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return ""
	}
	return m.user.Role
}

func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token != ""
}

func (m *Manager) IsLoading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.isLoading
}

func (m *Manager) LastError() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastError
}

// Restore loads the persisted session, if any.
func (m *Manager) Restore() error {
	if m.persister == nil {
		return nil
	}
	token, user, err := m.persister.LoadSession()
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	m.mu.Lock()
	m.token = token
	m.user = user
	m.mu.Unlock()
	return nil
}

func (m *Manager) Login(ctx context.Context, username, password string) error {
	m.begin()

	resp, err := m.client.Do(ctx, gateway.Request{
		Method: http.MethodPost,
		Path:   "/api/v1/auth/login",
		Form:   url.Values{"username": {username}, "password": {password}},
	})
	if err != nil {
		return m.fail(err)
	}

	var token model.Token
	if err := json.Unmarshal(resp.Body, &token); err != nil {
		return m.fail(fmt.Errorf("decode login response: %w", err))
	}

	m.mu.Lock()
	m.token = token.AccessToken
	m.mu.Unlock()

	var user model.User
	if err := m.client.JSON(ctx, http.MethodGet, "/api/v1/users/me", nil, nil, &user); err != nil {
		return m.fail(err)
	}

	m.mu.Lock()
	m.user = &user
	m.isLoading = false
	m.mu.Unlock()

	m.persist()
	m.logger.Infow("logged in", "email", user.Email, "role", user.Role)
	return nil
}

func (m *Manager) Logout() {
	m.mu.Lock()
	m.token = ""
	m.user = nil
	m.lastError = ""
	m.mu.Unlock()

	if m.persister != nil {
		if err := m.persister.ClearSession(); err != nil {
			m.logger.Warnw("failed to clear persisted session", "error", err)
		}
	}
}

// HandleUnauthorized tears the session down and hands control to Redirect.
// Concurrent 401s each call it; both steps are idempotent.
func (m *Manager) HandleUnauthorized() {
	m.Logout()
	if m.Redirect != nil {
		m.Redirect()
	}
}

func (m *Manager) FetchUser(ctx context.Context) (*model.User, error) {
	if !m.IsAuthenticated() {
		return nil, ErrNotLoggedIn
	}
	m.begin()

	var user model.User
	if err := m.client.JSON(ctx, http.MethodGet, "/api/v1/users/me", nil, nil, &user); err != nil {
		return nil, m.fail(err)
	}

	m.mu.Lock()
	m.user = &user
	m.isLoading = false
	m.mu.Unlock()

	m.persist()
	return &user, nil
}

func (m *Manager) UpdateProfile(ctx context.Context, fullName string) (*model.User, error) {
	m.begin()

	var user model.User
	body := map[string]string{"full_name": fullName}
	if err := m.client.JSON(ctx, http.MethodPut, "/api/v1/users/me", body, nil, &user); err != nil {
		return nil, m.failKeep(err)
	}

	m.mu.Lock()
	m.user = &user
	m.isLoading = false
	m.mu.Unlock()

	m.persist()
	return &user, nil
}

func (m *Manager) UpdatePassword(ctx context.Context, current, next string) error {
	m.begin()

	body := map[string]string{"current_password": current, "new_password": next}
	if err := m.client.JSON(ctx, http.MethodPut, "/api/v1/users/me/password", body, nil, nil); err != nil {
		return m.failKeep(err)
	}

	m.mu.Lock()
	m.isLoading = false
	m.mu.Unlock()
	return nil
}

// ExpiresAt reads the exp claim of the current token without verifying it.
// It is informational; the backend stays the authority on validity.
func (m *Manager) ExpiresAt() (time.Time, bool) {
	token := m.Token()
	if token == "" {
		return time.Time{}, false
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

func (m *Manager) begin() {
	m.mu.Lock()
	m.isLoading = true
	m.lastError = ""
	m.mu.Unlock()
}

// fail clears the credentials, as a failed login or profile probe leaves no usable session.
func (m *Manager) fail(err error) error {
	m.mu.Lock()
	m.token = ""
	m.user = nil
	m.isLoading = false
	m.lastError = gateway.Message(err)
	m.mu.Unlock()
	if m.persister != nil {
		if clearErr := m.persister.ClearSession(); clearErr != nil {
			m.logger.Warnw("failed to clear persisted session", "error", clearErr)
		}
	}
	return err
}

func (m *Manager) failKeep(err error) error {
	m.mu.Lock()
	m.isLoading = false
	m.lastError = gateway.Message(err)
	m.mu.Unlock()
	return err
}

func (m *Manager) persist() {
	if m.persister == nil {
		return
	}
	m.mu.RLock()
	token, user := m.token, m.user
	m.mu.RUnlock()
	if err := m.persister.SaveSession(token, user); err != nil {
		m.logger.Warnw("failed to persist session", "error", err)
	}
}
