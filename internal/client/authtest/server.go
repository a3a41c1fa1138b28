// Package authtest is an in-process stand-in for the tavern auth API. It
// speaks the same JSON as the real service (v2 login envelope, violation
// lists on 400, 409 on a taken email) and keeps everything in memory.
package authtest

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/dmitrijs2005/tavernauth/internal/common"
	"github.com/dmitrijs2005/tavernauth/internal/logging"
)

const (
	LoginPath    = "/auth/login-tokens"
	RegisterPath = "/users"
	LogoutPath   = "/auth/logout"
)

const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 24 * time.Hour
)

type user struct {
	ID           string
	Username     string
	Email        string
	PasswordHash []byte
}

// Server holds accounts and issued refresh tokens. It is safe for
// concurrent use.
type Server struct {
	mu       sync.Mutex
	byEmail  map[string]*user
	byName   map[string]*user
	refresh  map[string]string // refresh token -> user id
	requests []string          // X-Request-ID of every request seen

	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	latency    time.Duration
	now        func() time.Time
	newID      func() string
	log        logging.Logger

	failMu   sync.Mutex
	failures map[string]int // path -> status to answer once
}

type Option func(*Server)

// WithSecret sets the HS256 signing key for access tokens.
func WithSecret(secret []byte) Option {
	return func(s *Server) { s.secret = secret }
}

func WithTokenTTL(access, refresh time.Duration) Option {
	return func(s *Server) {
		s.accessTTL = access
		s.refreshTTL = refresh
	}
}

// WithLatency delays every response, for exercising client timeouts.
func WithLatency(d time.Duration) Option {
	return func(s *Server) { s.latency = d }
}

func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

func WithLogger(l logging.Logger) Option {
	return func(s *Server) { s.log = l }
}

func New(opts ...Option) *Server {
	s := &Server{
		byEmail:    make(map[string]*user),
		byName:     make(map[string]*user),
		refresh:    make(map[string]string),
		secret:     []byte("tavern-dev-secret"),
		accessTTL:  DefaultAccessTTL,
		refreshTTL: DefaultRefreshTTL,
		now:        time.Now,
		newID:      uuid.NewString,
		log:        logging.NewNop(),
		failures:   make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router returns a fresh router with all endpoints mounted.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	s.BuildRouter(r)
	return r
}

func (s *Server) BuildRouter(r *mux.Router) {
	r.Use(s.trace)
	r.HandleFunc(LoginPath, s.login).Methods(http.MethodPost)
	r.HandleFunc(RegisterPath, s.register).Methods(http.MethodPost)
	r.HandleFunc(LogoutPath, s.logout).Methods(http.MethodPost)
}

// FailNext makes the next request to path answer with status and an
// error body.
func (s *Server) FailNext(path string, status int) {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	s.failures[path] = status
}

func (s *Server) takeFailure(path string) (int, bool) {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	status, ok := s.failures[path]
	delete(s.failures, path)
	return status, ok
}

// RequestIDs returns the X-Request-ID values received so far.
func (s *Server) RequestIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

// ActiveRefreshTokens counts refresh tokens not yet revoked by logout.
func (s *Server) ActiveRefreshTokens() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.refresh)
}

func (s *Server) trace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(common.RequestIDHeaderName)
		s.mu.Lock()
		s.requests = append(s.requests, id)
		s.mu.Unlock()

		s.log.Debug(r.Context(), "request", "method", r.Method, "path", r.URL.Path, "request_id", id)

		if s.latency > 0 {
			select {
			case <-time.After(s.latency):
			case <-r.Context().Done():
				return
			}
		}

		if status, ok := s.takeFailure(r.URL.Path); ok {
			writeJSON(r.Context(), s.log, w, status, messageBody(http.StatusText(status)))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Seed creates an account directly, bypassing validation.
func (s *Server) Seed(ctx context.Context, username, email, password string) (string, error) {
	hash, err := hashPassword(password)
	if err != nil {
		return "", err
	}
	u := &user{ID: s.newID(), Username: username, Email: email, PasswordHash: hash}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byEmail[email]; taken {
		return "", ErrEmailTaken
	}
	s.byEmail[email] = u
	s.byName[username] = u
	s.log.Info(ctx, "account seeded", "user", username, "user_id", u.ID)
	return u.ID, nil
}
