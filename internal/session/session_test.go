package session

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"ndphc-monitor/internal/gateway"
	"ndphc-monitor/internal/model"
	"ndphc-monitor/internal/storage"
	"ndphc-monitor/internal/testutil/fakebackend"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const password = "password123"

func setup(t *testing.T) (*fakebackend.Server, *gateway.Client, *storage.Database) {
	t.Helper()
	srv := fakebackend.New(t)
	srv.AddUser(model.User{Email: "ed@ndphc.net", FullName: "Editor", Role: model.RoleEditor, IsActive: true}, password)

	db, err := storage.NewDatabase(storage.Options{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "session.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return srv, gateway.NewClient(gateway.Config{BaseURL: srv.URL}), db
}

func TestLoginPersistsAndRestores(t *testing.T) {
	srv, gw, db := setup(t)
	m := NewManager(gw, db, nil)

	require.NoError(t, m.Login(context.Background(), "ed@ndphc.net", password))
	assert.True(t, m.IsAuthenticated())
	assert.Equal(t, model.RoleEditor, m.Role())
	assert.False(t, m.IsLoading())

	exp, ok := m.ExpiresAt()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	// a fresh process picks the session up from storage
	restored := NewManager(gateway.NewClient(gateway.Config{BaseURL: srv.URL}), db, nil)
	require.NoError(t, restored.Restore())
	assert.Equal(t, m.Token(), restored.Token())
	require.NotNil(t, restored.User())
	assert.Equal(t, "ed@ndphc.net", restored.User().Email)

	user, err := restored.FetchUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Editor", user.FullName)
}

func TestLoginFailureClearsSession(t *testing.T) {
	_, gw, db := setup(t)
	m := NewManager(gw, db, nil)

	err := m.Login(context.Background(), "ed@ndphc.net", "wrong-password")
	require.Error(t, err)
	assert.Equal(t, "Incorrect email or password", m.LastError())
	assert.False(t, m.IsAuthenticated())
	assert.Nil(t, m.User())

	token, user, err := db.LoadSession()
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Nil(t, user)
}

func TestFetchUserRequiresLogin(t *testing.T) {
	_, gw, _ := setup(t)
	m := NewManager(gw, nil, nil)

	_, err := m.FetchUser(context.Background())
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	_, ok := m.ExpiresAt()
	assert.False(t, ok)
}

func TestProfileAndPassword(t *testing.T) {
	_, gw, db := setup(t)
	m := NewManager(gw, db, nil)
	ctx := context.Background()
	require.NoError(t, m.Login(ctx, "ed@ndphc.net", password))

	user, err := m.UpdateProfile(ctx, "Chief Editor")
	require.NoError(t, err)
	assert.Equal(t, "Chief Editor", user.FullName)
	_, stored, err := db.LoadSession()
	require.NoError(t, err)
	assert.Equal(t, "Chief Editor", stored.FullName)

	err = m.UpdatePassword(ctx, "not-it", "newpassword1")
	require.Error(t, err)
	assert.Equal(t, "Incorrect password", m.LastError())
	// a rejected password change keeps the session
	assert.True(t, m.IsAuthenticated())

	require.NoError(t, m.UpdatePassword(ctx, password, "newpassword1"))
	assert.Empty(t, m.LastError())

	m.Logout()
	require.NoError(t, m.Login(ctx, "ed@ndphc.net", "newpassword1"))
}

func TestUnauthorizedTearsDown(t *testing.T) {
	srv, gw, db := setup(t)
	m := NewManager(gw, db, nil)
	var redirects atomic.Int32
	m.Redirect = func() { redirects.Add(1) }
	ctx := context.Background()
	require.NoError(t, m.Login(ctx, "ed@ndphc.net", password))

	srv.RevokeTokens()
	_, err := m.FetchUser(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, gateway.ErrUnauthorized)
	assert.False(t, m.IsAuthenticated())
	assert.Equal(t, int32(1), redirects.Load())

	token, _, err := db.LoadSession()
	require.NoError(t, err)
	assert.Empty(t, token)
}
