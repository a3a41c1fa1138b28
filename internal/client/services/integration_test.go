package services_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/tavernauth/internal/client/authtest"
	"github.com/dmitrijs2005/tavernauth/internal/client/client"
	"github.com/dmitrijs2005/tavernauth/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/tavernauth/internal/client/services"
	"github.com/dmitrijs2005/tavernauth/internal/client/tokenstore"
	"github.com/dmitrijs2005/tavernauth/internal/logging"
)

type env struct {
	fake *authtest.Server
	srv  *httptest.Server
	repo *metadata.MemoryRepository
	svc  services.AuthService
}

func setupEnv(t *testing.T, timeout time.Duration, opts ...authtest.Option) *env {
	t.Helper()
	fake := authtest.New(opts...)
	srv := httptest.NewServer(fake.Router())
	t.Cleanup(srv.Close)

	api := client.NewAuthAPI(
		client.NewRequester(client.WithTimeout(timeout)),
		client.Endpoints{
			Login:    srv.URL + authtest.LoginPath,
			Register: srv.URL + authtest.RegisterPath,
			Logout:   srv.URL + authtest.LogoutPath,
		},
		logging.NewNop(),
	)
	repo := metadata.NewMemoryRepository()
	return &env{
		fake: fake,
		srv:  srv,
		repo: repo,
		svc:  services.NewAuthService(api, tokenstore.New(repo)),
	}
}

func TestFlow_RegisterLogoutLogin(t *testing.T) {
	ctx := context.Background()
	e := setupEnv(t, 5*time.Second)

	out := e.svc.Register(ctx, "hero", "hero@example.com", "longenough1")
	require.True(t, out.OK(), out.Message)
	assert.True(t, e.svc.IsSessionValid(ctx))
	assert.Equal(t, 1, e.fake.ActiveRefreshTokens())

	rec, ok := e.svc.Session(ctx)
	require.True(t, ok)
	assert.Equal(t, "hero", rec.Username)
	assert.NotEmpty(t, rec.UserID)
	require.NotNil(t, rec.AccessTokenExpiresAt)

	out = e.svc.Logout(ctx)
	require.True(t, out.OK())
	assert.Zero(t, e.fake.ActiveRefreshTokens(), "server revoked the refresh token")
	assert.False(t, e.svc.IsAuthenticated(ctx))

	out = e.svc.Login(ctx, "hero", "longenough1")
	require.True(t, out.OK(), out.Message)
	assert.True(t, e.svc.IsAuthenticated(ctx))

	for _, id := range e.fake.RequestIDs() {
		assert.Len(t, id, 36, "every request carries a uuid request id")
	}
}

func TestFlow_ServerErrorsAreClassified(t *testing.T) {
	ctx := context.Background()
	e := setupEnv(t, 5*time.Second)

	require.True(t, e.svc.Register(ctx, "hero", "hero@example.com", "longenough1").OK())
	require.True(t, e.svc.Logout(ctx).OK())

	out := e.svc.Register(ctx, "hero2", "hero@example.com", "longenough1")
	assert.Equal(t, services.MsgConflict, out.Message)

	out = e.svc.Login(ctx, "hero@example.com", "wrongpassword")
	assert.Equal(t, services.MsgUnauthorized, out.Message)

	e.fake.FailNext(authtest.LoginPath, http.StatusInternalServerError)
	out = e.svc.Login(ctx, "hero@example.com", "longenough1")
	assert.Equal(t, services.MsgServerError, out.Message)

	assert.False(t, e.svc.IsAuthenticated(ctx))
}

func TestFlow_AutoLoginFailure(t *testing.T) {
	ctx := context.Background()
	e := setupEnv(t, 5*time.Second)

	e.fake.FailNext(authtest.LoginPath, http.StatusUnauthorized)
	out := e.svc.Register(ctx, "hero", "hero@example.com", "longenough1")
	assert.Equal(t, services.KindAutoLogin, out.Kind)
	assert.Equal(t, services.MsgAutoLoginFailed, out.Message)

	all, err := e.repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	assert.True(t, e.svc.Login(ctx, "hero", "longenough1").OK(), "the account exists")
}

func TestFlow_Timeout(t *testing.T) {
	e := setupEnv(t, 50*time.Millisecond, authtest.WithLatency(time.Second))

	out := e.svc.Login(context.Background(), "hero", "longenough1")
	assert.Equal(t, services.KindTimeout, out.Kind)
	assert.Equal(t, services.MsgTimeout, out.Message)
}

func TestFlow_Unreachable(t *testing.T) {
	e := setupEnv(t, time.Second)
	e.srv.Close()

	out := e.svc.Login(context.Background(), "hero", "longenough1")
	assert.Equal(t, services.KindNetwork, out.Kind)
	assert.Equal(t, services.MsgNetwork, out.Message)

	// Logout still succeeds locally.
	assert.True(t, e.svc.Logout(context.Background()).OK())
}
