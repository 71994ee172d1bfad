package store

import (
	"context"
	"testing"

	"ndphc-monitor/internal/backend"
	"ndphc-monitor/internal/gateway"
	"ndphc-monitor/internal/model"
	"ndphc-monitor/internal/session"
	"ndphc-monitor/internal/testutil/fakebackend"

	"github.com/stretchr/testify/require"
)

const testPassword = "password123"

type testEnv struct {
	srv     *fakebackend.Server
	api     *backend.API
	session *session.Manager
}

// newTestEnv logs user into a fresh fake backend.
func newTestEnv(t *testing.T, user model.User) *testEnv {
	t.Helper()
	srv := fakebackend.New(t)
	user.IsActive = true
	srv.AddUser(user, testPassword)

	gw := gateway.NewClient(gateway.Config{BaseURL: srv.URL})
	sess := session.NewManager(gw, nil, nil)
	require.NoError(t, sess.Login(context.Background(), user.Email, testPassword))

	return &testEnv{srv: srv, api: backend.New(gw), session: sess}
}

func adminUser() model.User {
	return model.User{Email: "admin@ndphc.net", FullName: "Admin", Role: model.RoleAdmin}
}
