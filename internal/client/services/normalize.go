package services

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/tavernauth/internal/client/tokenstore"
)

// ErrMissingAccessToken is returned when a login response carries no
// recognisable access token.
var ErrMissingAccessToken = errors.New("login response carries no access token")

// Login response shapes.
//
// The current server answers with the v2 envelope:
//
//	{
//	  "accessToken": "...",
//	  "refreshToken": "...",
//	  "accessTokenExpiresAt": 1700000900000,
//	  "refreshTokenExpiresAt": 1700086400000,
//	  "userId": "42",
//	  "username": "hero",
//	  "email": "hero@example.com"
//	}
//
// Expiries are Unix milliseconds, as a number or a numeric string. userId may
// be a string or a number.
//
// Older deployments answer with the v1 shape, still accepted:
//
//	{"token": "..."} | {"access_token": "..."} | {"data": {"token": "..."}}
//	optionally with {"user": {"username": "...", "email": "..."}}
//
// or with the bare token as a text body.
const (
	fieldAccessToken           = "accessToken"
	fieldRefreshToken          = "refreshToken"
	fieldAccessTokenExpiresAt  = "accessTokenExpiresAt"
	fieldRefreshTokenExpiresAt = "refreshTokenExpiresAt"
	fieldUserID                = "userId"
	fieldUsername              = "username"
	fieldEmail                 = "email"
)

// normalizeLogin turns a decoded login body into a Record. Identity fields
// the body leaves out are taken from fallback. When no access token expiry
// is present and the token is a JWT, its exp claim is used.
func normalizeLogin(data any, fallback tokenstore.Record) (tokenstore.Record, error) {
	rec := tokenstore.Record{}

	switch body := data.(type) {
	case string:
		rec.AccessToken = strings.TrimSpace(body)
	case map[string]any:
		rec.AccessToken = firstString(
			stringField(body, fieldAccessToken),
			stringField(body, "token"),
			stringField(body, "access_token"),
			stringField(objectField(body, "data"), "token"),
		)
		rec.RefreshToken = firstString(
			stringField(body, fieldRefreshToken),
			stringField(body, "refresh_token"),
		)
		rec.AccessTokenExpiresAt = millisField(body, fieldAccessTokenExpiresAt)
		rec.RefreshTokenExpiresAt = millisField(body, fieldRefreshTokenExpiresAt)
		rec.UserID = idField(body, fieldUserID)

		user := objectField(body, "user")
		rec.Username = firstString(stringField(body, fieldUsername), stringField(user, "username"))
		rec.Email = firstString(stringField(body, fieldEmail), stringField(user, "email"))
	}

	if rec.AccessToken == "" {
		return tokenstore.Record{}, ErrMissingAccessToken
	}
	if rec.AccessTokenExpiresAt == nil {
		rec.AccessTokenExpiresAt = jwtExpiry(rec.AccessToken)
	}
	if rec.Username == "" {
		rec.Username = fallback.Username
	}
	if rec.Email == "" {
		rec.Email = fallback.Email
	}
	return rec, nil
}

func firstString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func objectField(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}
	v, _ := m[key].(map[string]any)
	return v
}

func stringField(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	v, _ := m[key].(string)
	return strings.TrimSpace(v)
}

// idField accepts a string or an integral JSON number.
func idField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		if v == math.Trunc(v) {
			return strconv.FormatInt(int64(v), 10)
		}
	}
	return ""
}

// millisField accepts an integral JSON number or a string of decimal digits.
func millisField(m map[string]any, key string) *int64 {
	switch v := m[key].(type) {
	case float64:
		if v == math.Trunc(v) && v > 0 {
			return tokenstore.Millis(int64(v))
		}
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err == nil && n > 0 {
			return tokenstore.Millis(n)
		}
	}
	return nil
}

// jwtExpiry reads the exp claim without verifying the signature; the client
// holds no key and only uses it to schedule expiry.
func jwtExpiry(token string) *int64 {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	return tokenstore.Millis(exp.UnixMilli())
}
