package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/gatepass/internal/client/client"
	"github.com/dmitrijs2005/gatepass/internal/client/models"
	"github.com/dmitrijs2005/gatepass/internal/client/repositories/session"
	"github.com/dmitrijs2005/gatepass/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuth(t *testing.T, fc *fakeClient) (*authService, *SessionManager) {
	t.Helper()
	m := NewSessionManager(session.NewMemoryRepository(), session.NewMemoryRepository(), 24*time.Hour, logging.Discard())
	m.now = func() time.Time { return loginAt }
	a := NewAuthService(fc, m, logging.Discard()).(*authService)
	a.now = func() time.Time { return loginAt }
	return a, m
}

func TestLogin_StoresSession(t *testing.T) {
	fc := &fakeClient{LoginResp: &models.LoginResponse{Token: "tok", Role: "admin", Username: "root", Name: "Root"}}
	a, m := newAuth(t, fc)

	s, err := a.Login(context.Background(), "root", "pw")
	require.NoError(t, err)
	assert.Equal(t, models.Session{Token: "tok", Role: models.RoleAdmin, Username: "root", DisplayName: "Root", LoginTimestamp: loginAt.UnixMilli()}, s)
	assert.Equal(t, s, m.Current())
	assert.Equal(t, map[string]string{"Authorization": "Bearer tok"}, a.AuthHeaders())
}

func TestLogin_ReplacesWholesale(t *testing.T) {
	fc := &fakeClient{LoginResp: &models.LoginResponse{Token: "t1", Role: "admin", Username: "root", Name: "Root"}}
	a, m := newAuth(t, fc)
	ctx := context.Background()
	_, err := a.Login(ctx, "root", "pw")
	require.NoError(t, err)

	fc.LoginResp = &models.LoginResponse{Token: "t2", Role: "user"}
	_, err = a.Login(ctx, "op1", "pw")
	require.NoError(t, err)

	cur := m.Current()
	assert.Equal(t, "t2", cur.Token)
	assert.Equal(t, models.RoleUser, cur.Role)
	assert.Equal(t, "op1", cur.Username)
	assert.Empty(t, cur.DisplayName, "no leftovers from the previous login")
}

func TestLogin_Failures(t *testing.T) {
	ctx := context.Background()

	fc := &fakeClient{LoginErr: &client.APIError{StatusCode: 401, Message: "Invalid credentials"}}
	a, m := newAuth(t, fc)
	_, err := a.Login(ctx, "u", "bad")
	require.ErrorIs(t, err, client.ErrUnauthorized)
	assert.True(t, m.Current().Anonymous())

	fc = &fakeClient{LoginResp: &models.LoginResponse{Token: "tok", Role: "superuser"}}
	a, _ = newAuth(t, fc)
	_, err = a.Login(ctx, "u", "p")
	require.ErrorIs(t, err, ErrBadLoginResponse)

	fc = &fakeClient{LoginResp: &models.LoginResponse{Role: "user"}}
	a, _ = newAuth(t, fc)
	_, err = a.Login(ctx, "u", "p")
	require.ErrorIs(t, err, ErrBadLoginResponse)
}

func TestAuthHeaders_EmptyWithoutToken(t *testing.T) {
	a, _ := newAuth(t, &fakeClient{})
	assert.Empty(t, a.AuthHeaders())
	assert.NotNil(t, a.AuthHeaders())
}

func TestAuthHeaders_EmptyAfterClearAll(t *testing.T) {
	fc := &fakeClient{LoginResp: &models.LoginResponse{Token: "tok", Role: "user"}}
	a, m := newAuth(t, fc)
	ctx := context.Background()
	_, err := a.Login(ctx, "u", "p")
	require.NoError(t, err)

	m.ClearAll(ctx)
	assert.Empty(t, a.AuthHeaders())
}

func TestValidateToken_FailClosed(t *testing.T) {
	ctx := context.Background()

	fc := &fakeClient{}
	a, _ := newAuth(t, fc)
	assert.False(t, a.ValidateToken(ctx))
	assert.Empty(t, fc.Calls(), "no token, no request")

	fc.LoginResp = &models.LoginResponse{Token: "tok", Role: "user"}
	_, err := a.Login(ctx, "u", "p")
	require.NoError(t, err)
	assert.True(t, a.ValidateToken(ctx))

	fc.ValidateErr = &client.APIError{StatusCode: 500, Message: "oops"}
	assert.False(t, a.ValidateToken(ctx))

	fc.ValidateErr = client.ErrUnavailable
	assert.False(t, a.ValidateToken(ctx))
}

func TestLogout_ClearsEvenWhenServerFails(t *testing.T) {
	fc := &fakeClient{LoginResp: &models.LoginResponse{Token: "tok", Role: "user"}, LogoutErr: errors.New("connection refused")}
	a, m := newAuth(t, fc)
	ctx := context.Background()
	_, err := a.Login(ctx, "u", "p")
	require.NoError(t, err)

	var hooked int32
	a.OnLogout(func(context.Context) { atomic.AddInt32(&hooked, 1) })

	a.Logout(ctx)
	assert.True(t, m.Current().Anonymous())
	assert.Equal(t, int32(1), atomic.LoadInt32(&hooked))
	assert.Contains(t, fc.Calls(), "Logout")

	v, err := m.Get(ctx, KeyToken)
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestLogout_AnonymousSkipsServer(t *testing.T) {
	fc := &fakeClient{}
	a, _ := newAuth(t, fc)
	a.Logout(context.Background())
	assert.NotContains(t, fc.Calls(), "Logout")
}

func TestInvalidate(t *testing.T) {
	fc := &fakeClient{LoginResp: &models.LoginResponse{Token: "tok", Role: "user"}}
	a, _ := newAuth(t, fc)
	ctx := context.Background()
	_, err := a.Login(ctx, "u", "p")
	require.NoError(t, err)

	a.Invalidate(ctx)
	assert.True(t, a.Session().Anonymous())
	assert.NotContains(t, fc.Calls(), "Logout")
}

func TestSessionWatcher_ForcesLogout(t *testing.T) {
	fc := &fakeClient{LoginResp: &models.LoginResponse{Token: "tok", Role: "user"}}
	a, m := newAuth(t, fc)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err := a.Login(ctx, "u", "p")
	require.NoError(t, err)

	done := make(chan struct{})
	a.OnLogout(func(context.Context) { close(done) })

	m.now = func() time.Time { return loginAt.Add(25 * time.Hour) }

	go a.StartSessionWatcher(ctx, 5*time.Millisecond)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not log out")
	}
	assert.True(t, a.Session().Anonymous())
}
