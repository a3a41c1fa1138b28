// Package tokenstore persists the access/refresh token pair and the user
// identity returned by a successful login, and answers expiry questions
// about it.
package tokenstore

import (
	"context"
	"strconv"
	"time"

	"github.com/dmitrijs2005/tavernauth/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/tavernauth/internal/logging"
)

// Store reads and writes a Record over a metadata.Repository.
//
// Every operation is independently fallible; failures are logged and
// reported as false / absent rather than returned, because callers only
// need to know whether a session is usable.
type Store struct {
	repo metadata.Repository
	log  logging.Logger
	now  func() time.Time
}

type Option func(*Store)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithLogger(l logging.Logger) Option {
	return func(s *Store) { s.log = l }
}

func New(repo metadata.Repository, opts ...Option) *Store {
	s := &Store{repo: repo, log: logging.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save writes rec and stamps loginTimestamp. The access token, username and
// email are always written. Optional fields that are absent are not written, and any value left from a previous session under their
// key is removed.
//
// On backends implementing metadata.Transactor the writes are atomic.
// Elsewhere a failure may leave some keys written; a later successful Save
// overwrites them.
func (s *Store) Save(ctx context.Context, rec Record) bool {
	if rec.AccessToken == "" {
		s.log.Error(ctx, "refusing to save auth data without an access token")
		return false
	}
	rec.LoginTimestamp = s.now().UnixMilli()

	write := func(ctx context.Context, repo metadata.Repository) error {
		set := func(key, value string) error {
			return repo.Set(ctx, key, []byte(value))
		}
		setOptional := func(key, value string, present bool) error {
			if !present {
				return repo.Delete(ctx, key)
			}
			return set(key, value)
		}

		if err := set(KeyAccessToken, rec.AccessToken); err != nil {
			return err
		}
		if err := setOptional(KeyRefreshToken, rec.RefreshToken, rec.RefreshToken != ""); err != nil {
			return err
		}
		if err := setOptional(KeyAccessTokenExpiresAt, formatMillis(rec.AccessTokenExpiresAt), rec.AccessTokenExpiresAt != nil); err != nil {
			return err
		}
		if err := setOptional(KeyRefreshTokenExpiresAt, formatMillis(rec.RefreshTokenExpiresAt), rec.RefreshTokenExpiresAt != nil); err != nil {
			return err
		}
		if err := set(KeyUsername, rec.Username); err != nil {
			return err
		}
		if err := set(KeyEmail, rec.Email); err != nil {
			return err
		}
		if err := setOptional(KeyUserID, rec.UserID, rec.UserID != ""); err != nil {
			return err
		}
		return set(KeyLoginTimestamp, strconv.FormatInt(rec.LoginTimestamp, 10))
	}

	var err error
	if tx, ok := s.repo.(metadata.Transactor); ok {
		err = tx.WithinTx(ctx, write)
	} else {
		err = write(ctx, s.repo)
	}
	if err != nil {
		s.log.Error(ctx, "failed to save auth data", "error", err)
		return false
	}

	s.log.Debug(ctx, "auth data saved", "username", rec.Username, "user_id", rec.UserID)
	return true
}

// Clear removes every key the store owns. Missing keys are fine, so calling
// it twice is harmless.
func (s *Store) Clear(ctx context.Context) bool {
	ok := true
	for _, key := range Keys {
		if err := s.repo.Delete(ctx, key); err != nil {
			s.log.Error(ctx, "failed to clear auth data", "key", key, "error", err)
			ok = false
		}
	}
	return ok
}

func (s *Store) get(ctx context.Context, key string) (string, bool) {
	v, err := s.repo.Get(ctx, key)
	if err != nil {
		s.log.Error(ctx, "failed to read auth data", "key", key, "error", err)
		return "", false
	}
	if len(v) == 0 {
		return "", false
	}
	return string(v), true
}

// getMillis reads a timestamp. A value that does not parse means the record
// is corrupt, and the whole record is dropped.
func (s *Store) getMillis(ctx context.Context, key string) (int64, bool) {
	v, ok := s.get(ctx, key)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		s.log.Warn(ctx, "corrupted auth data, clearing", "key", key, "value", v)
		s.Clear(ctx)
		return 0, false
	}
	return n, true
}

func (s *Store) AccessToken(ctx context.Context) (string, bool) {
	return s.get(ctx, KeyAccessToken)
}

func (s *Store) RefreshToken(ctx context.Context) (string, bool) {
	return s.get(ctx, KeyRefreshToken)
}

func (s *Store) UserID(ctx context.Context) (string, bool) {
	return s.get(ctx, KeyUserID)
}

func (s *Store) Username(ctx context.Context) (string, bool) {
	return s.get(ctx, KeyUsername)
}

func (s *Store) Email(ctx context.Context) (string, bool) {
	return s.get(ctx, KeyEmail)
}

func (s *Store) AccessTokenExpiresAt(ctx context.Context) (int64, bool) {
	return s.getMillis(ctx, KeyAccessTokenExpiresAt)
}

func (s *Store) RefreshTokenExpiresAt(ctx context.Context) (int64, bool) {
	return s.getMillis(ctx, KeyRefreshTokenExpiresAt)
}

// Load returns the whole record. It reports false when there is no access
// token, and clears the store when a token exists without the
// loginTimestamp every Save writes.
func (s *Store) Load(ctx context.Context) (Record, bool) {
	token, ok := s.AccessToken(ctx)
	if !ok {
		return Record{}, false
	}
	loginTS, ok := s.getMillis(ctx, KeyLoginTimestamp)
	if !ok {
		s.log.Warn(ctx, "auth data without login timestamp, clearing")
		s.Clear(ctx)
		return Record{}, false
	}

	rec := Record{AccessToken: token, LoginTimestamp: loginTS}
	rec.RefreshToken, _ = s.RefreshToken(ctx)
	rec.UserID, _ = s.UserID(ctx)
	rec.Username, _ = s.Username(ctx)
	rec.Email, _ = s.Email(ctx)
	if v, ok := s.AccessTokenExpiresAt(ctx); ok {
		rec.AccessTokenExpiresAt = Millis(v)
	}
	if v, ok := s.RefreshTokenExpiresAt(ctx); ok {
		rec.RefreshTokenExpiresAt = Millis(v)
	}
	return rec, true
}

// IsAccessTokenExpired is true when no expiry is recorded or it has passed.
func (s *Store) IsAccessTokenExpired(ctx context.Context) bool {
	exp, ok := s.AccessTokenExpiresAt(ctx)
	if !ok {
		return true
	}
	return s.now().UnixMilli() >= exp
}

// IsRefreshTokenExpired applies the same rule to the refresh token.
func (s *Store) IsRefreshTokenExpired(ctx context.Context) bool {
	exp, ok := s.RefreshTokenExpiresAt(ctx)
	if !ok {
		return true
	}
	return s.now().UnixMilli() >= exp
}

// IsAuthenticated reports whether an access token is stored. Expiry is not
// considered; see IsSessionValid.
func (s *Store) IsAuthenticated(ctx context.Context) bool {
	_, ok := s.AccessToken(ctx)
	return ok
}

// IsSessionValid is IsAuthenticated plus an unexpired access token.
func (s *Store) IsSessionValid(ctx context.Context) bool {
	return s.IsAuthenticated(ctx) && !s.IsAccessTokenExpired(ctx)
}

func formatMillis(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}
