package services

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homework-agent/internal/app/transport"
	"homework-agent/internal/pkg/stubserver"
	"homework-agent/pkg/config"
)

func newAuthService(t *testing.T) (*AuthService, *transport.Client, string) {
	t.Helper()
	srv := httptest.NewServer(stubserver.New().Engine())
	t.Cleanup(srv.Close)

	client := transport.NewClient(config.Backend{BaseURL: srv.URL, TimeoutSeconds: 5})
	dir := t.TempDir()
	return NewAuthService(client, dir), client, dir
}

func TestRegisterThenLogin(t *testing.T) {
	auth, client, dir := newAuthService(t)
	ctx := context.Background()

	resp, err := auth.Register(ctx, "student", "secret", "小明")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "小明", resp.UserInfo.Name)

	// 令牌落盘，下次启动直接复用
	data, err := os.ReadFile(filepath.Join(dir, "token"))
	require.NoError(t, err)
	assert.Equal(t, resp.AccessToken, string(data))

	// 登录态下可以访问云端会话
	_, err = client.ListSessions(ctx, "solve")
	require.NoError(t, err)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	auth, _, _ := newAuthService(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, "student", "secret", "")
	require.NoError(t, err)

	_, err = auth.Login(ctx, "student", "wrong")
	assert.Error(t, err)
}

func TestLogoutClearsToken(t *testing.T) {
	auth, client, dir := newAuthService(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, "student", "secret", "")
	require.NoError(t, err)

	auth.Logout()
	_, statErr := os.Stat(filepath.Join(dir, "token"))
	assert.True(t, os.IsNotExist(statErr))

	// 注销后云端会话接口拒绝访问
	_, err = client.ListSessions(ctx, "solve")
	assert.ErrorIs(t, err, transport.ErrUnauthorized)
}

func TestUnauthorizedResponseClearsStoredToken(t *testing.T) {
	auth, client, dir := newAuthService(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, "student", "secret", "")
	require.NoError(t, err)

	// 伪造一个过期令牌
	client.SetToken("expired-token")
	_, err = client.ListSessions(ctx, "solve")
	require.ErrorIs(t, err, transport.ErrUnauthorized)

	_, statErr := os.Stat(filepath.Join(dir, "token"))
	assert.True(t, os.IsNotExist(statErr))
}
