package authtest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/tavernauth/internal/client/validate"
	"github.com/dmitrijs2005/tavernauth/internal/common"
	"github.com/dmitrijs2005/tavernauth/internal/logging"
)

var ErrEmailTaken = errors.New("email already registered")

type credentialsRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type logoutRequest struct {
	RefreshToken string `json:"refreshToken"`
	UserID       string `json:"userId"`
}

type violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type loginResponse struct {
	AccessToken           string `json:"accessToken"`
	RefreshToken          string `json:"refreshToken"`
	AccessTokenExpiresAt  int64  `json:"accessTokenExpiresAt"`
	RefreshTokenExpiresAt int64  `json:"refreshTokenExpiresAt"`
	UserID                string `json:"userId"`
	Username              string `json:"username"`
	Email                 string `json:"email"`
}

type registerResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req credentialsRequest
	if !decodeRequest(ctx, s.log, &req, w, r) {
		return
	}

	var violations []violation
	for _, check := range []struct {
		field  string
		result validate.Result
	}{
		{"username", validate.Username(req.Username)},
		{"email", validate.Email(req.Email)},
		{"password", validate.Password(req.Password)},
	} {
		if !check.result.Valid {
			violations = append(violations, violation{Field: check.field, Message: check.result.Message})
		}
	}
	if len(violations) > 0 {
		writeJSON(ctx, s.log, w, http.StatusBadRequest, map[string]any{
			"message":    "Validation failed",
			"violations": violations,
		})
		return
	}

	id, err := s.Seed(ctx, req.Username, req.Email, req.Password)
	switch {
	case errors.Is(err, ErrEmailTaken):
		writeJSON(ctx, s.log, w, http.StatusConflict, messageBody("User with this email already exists"))
		return
	case err != nil:
		s.log.Error(ctx, "failed to create account", "err", err)
		writeJSON(ctx, s.log, w, http.StatusInternalServerError, messageBody("Internal error"))
		return
	}

	writeJSON(ctx, s.log, w, http.StatusCreated, registerResponse{ID: id, Username: req.Username, Email: req.Email})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req credentialsRequest
	if !decodeRequest(ctx, s.log, &req, w, r) {
		return
	}

	s.mu.Lock()
	u := s.byName[req.Username]
	if req.Email != "" {
		u = s.byEmail[req.Email]
	}
	s.mu.Unlock()

	if u == nil || bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(req.Password)) != nil {
		writeJSON(ctx, s.log, w, http.StatusUnauthorized, messageBody("Invalid credentials"))
		return
	}

	now := s.now()
	accessExp := now.Add(s.accessTTL)
	refreshExp := now.Add(s.refreshTTL)

	access, err := s.issueAccessToken(u, now, accessExp)
	if err != nil {
		s.log.Error(ctx, "failed to sign access token", "err", err)
		writeJSON(ctx, s.log, w, http.StatusInternalServerError, messageBody("Internal error"))
		return
	}
	refresh := s.newID()

	s.mu.Lock()
	s.refresh[refresh] = u.ID
	s.mu.Unlock()

	writeJSON(ctx, s.log, w, http.StatusOK, loginResponse{
		AccessToken:           access,
		RefreshToken:          refresh,
		AccessTokenExpiresAt:  accessExp.UnixMilli(),
		RefreshTokenExpiresAt: refreshExp.UnixMilli(),
		UserID:                u.ID,
		Username:              u.Username,
		Email:                 u.Email,
	})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	subject, err := s.bearerSubject(r)
	if err != nil {
		s.log.Warn(ctx, "logout rejected", "err", err)
		writeJSON(ctx, s.log, w, http.StatusUnauthorized, messageBody("Invalid or missing access token"))
		return
	}

	var req logoutRequest
	if !decodeRequest(ctx, s.log, &req, w, r) {
		return
	}

	s.mu.Lock()
	owner, ok := s.refresh[req.RefreshToken]
	if ok && owner == req.UserID && owner == subject {
		delete(s.refresh, req.RefreshToken)
	}
	s.mu.Unlock()

	if !ok || owner != req.UserID || owner != subject {
		writeJSON(ctx, s.log, w, http.StatusBadRequest, messageBody("Unknown refresh token"))
		return
	}

	writeJSON(ctx, s.log, w, http.StatusOK, messageBody("Logged out"))
}

func (s *Server) issueAccessToken(u *user, issued, expires time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Issuer:    "tavernauth-fake",
		Subject:   u.ID,
		IssuedAt:  jwt.NewNumericDate(issued),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Server) bearerSubject(r *http.Request) (string, error) {
	header := r.Header.Get(common.AuthorizationHeaderName)
	raw, ok := strings.CutPrefix(header, common.BearerPrefix)
	if !ok || raw == "" {
		return "", errors.New("no bearer token")
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", fmt.Errorf("parse access token: %w", err)
	}
	return claims.Subject, nil
}

func hashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
}

func messageBody(msg string) map[string]string {
	return map[string]string{"message": msg}
}

func decodeRequest[T any](ctx context.Context, log logging.Logger, req *T, w http.ResponseWriter, r *http.Request) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		log.Warn(ctx, "bad json request", "method", r.Method, "path", r.URL.Path, "err", err)
		writeJSON(ctx, log, w, http.StatusBadRequest, messageBody("Malformed JSON body"))
		return false
	}
	return true
}

func writeJSON(ctx context.Context, log logging.Logger, w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error(ctx, "failed to write response", "err", err)
	}
}
