package client

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/tavernauth/internal/common"
	"github.com/dmitrijs2005/tavernauth/internal/logging"
)

// Endpoints holds the full URL (base + path) of each auth operation.
type Endpoints struct {
	Login    string
	Register string
	Logout   string
}

type credentialsRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type logoutRequest struct {
	RefreshToken string `json:"refreshToken"`
	UserID       string `json:"userId"`
}

type accessTokenKey struct{}

// WithAccessToken attaches an access token to ctx. AuthAPI sends it as a
// bearer Authorization header on calls that act on an existing session.
func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, accessTokenKey{}, token)
}

func accessTokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(accessTokenKey{}).(string)
	return token
}

// AuthAPI is the HTTP implementation of Client.
type AuthAPI struct {
	doer      Doer
	endpoints Endpoints
	log       logging.Logger
}

func NewAuthAPI(doer Doer, endpoints Endpoints, log logging.Logger) *AuthAPI {
	if log == nil {
		log = logging.NewNop()
	}
	return &AuthAPI{doer: doer, endpoints: endpoints, log: log}
}

func (a *AuthAPI) Login(ctx context.Context, creds Credentials) (any, error) {
	a.log.Info(ctx, "attempting login", "username", creds.Username, "email", creds.Email)
	return a.post(ctx, a.endpoints.Login, credentialsRequest(creds))
}

func (a *AuthAPI) Register(ctx context.Context, creds Credentials) (any, error) {
	a.log.Info(ctx, "attempting registration", "username", creds.Username, "email", creds.Email)
	return a.post(ctx, a.endpoints.Register, credentialsRequest(creds))
}

// Logout asks the server to revoke refreshToken. Callers treat it as
// best-effort.
func (a *AuthAPI) Logout(ctx context.Context, refreshToken string, userID string) (any, error) {
	a.log.Info(ctx, "revoking session", "user_id", userID)
	return a.post(ctx, a.endpoints.Logout, logoutRequest{RefreshToken: refreshToken, UserID: userID})
}

func (a *AuthAPI) post(ctx context.Context, url string, body any) (any, error) {
	var headers map[string]string
	if token := accessTokenFrom(ctx); token != "" {
		headers = map[string]string{common.AuthorizationHeaderName: common.BearerPrefix + token}
	}

	resp, err := a.doer.Do(ctx, http.MethodPost, url, body, headers)
	if err != nil {
		a.log.Error(ctx, "api call failed", "url", url, "error", err)
		return nil, err
	}
	return resp.Data, nil
}
