// Package session holds the authenticated session of the current user and
// keeps it in sync with the local SQLite database.
package session

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/rentdesk/internal/client/models"
	"github.com/dmitrijs2005/rentdesk/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/rentdesk/internal/common"
	"github.com/dmitrijs2005/rentdesk/internal/dbx"
	"github.com/dmitrijs2005/rentdesk/internal/logging"
)

// Session is an authenticated snapshot. A Session always has both a token
// and a user.
type Session struct {
	Token string
	User  models.User
}

// Store is the single source of truth for the current session. Reads are
// lock-free and always observe a whole snapshot; writes are serialized and
// persisted before they become visible.
type Store struct {
	db     *sql.DB
	logger logging.Logger
	now    func() time.Time

	mu  sync.Mutex
	cur atomic.Pointer[Session] // nil when anonymous
}

type Option func(*Store)

// WithClock overrides the clock used to check token expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New returns an anonymous Store backed by db. Call Initialize to restore a
// previously saved session.
func New(db *sql.DB, logger logging.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = logging.Nop()
	}
	s := &Store{db: db, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize restores the saved session. A missing, partial, undecodable
// or expired session is removed from storage and the Store stays
// anonymous. Failures are logged, never returned.
func (s *Store) Initialize(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.load(ctx)
	if err == nil {
		s.cur.Store(sess)
		s.logger.Info(ctx, "session restored", "user_id", sess.User.ID)
		return
	}

	s.cur.Store(nil)
	if errors.Is(err, common.ErrorNotFound) {
		s.logger.Debug(ctx, "no saved session")
	} else {
		s.logger.Warn(ctx, "discarding saved session", "error", err)
	}
	if err := s.deleteKeys(ctx); err != nil {
		s.logger.Warn(ctx, "failed to remove saved session", "error", err)
	}
}

func (s *Store) load(ctx context.Context) (*Session, error) {
	repo := metadata.NewSQLiteRepository(s.db)

	token, err := repo.Get(ctx, common.AccessTokenKey)
	if err != nil {
		return nil, err
	}
	data, err := repo.Get(ctx, common.UserDataKey)
	if err != nil {
		return nil, err
	}
	if token == "" || data == "" {
		return nil, common.ErrorNotFound
	}

	user, err := decodeUser(data)
	if err != nil {
		return nil, err
	}
	if tokenExpired(token, s.now()) {
		return nil, common.ErrTokenExpired
	}
	return &Session{Token: token, User: user}, nil
}

func decodeUser(data string) (models.User, error) {
	var u models.User
	raw := bytes.TrimSpace([]byte(data))
	if len(raw) == 0 || raw[0] != '{' {
		return u, fmt.Errorf("%w: user data is not a JSON object", common.ErrorSessionCorrupt)
	}
	if err := json.Unmarshal(raw, &u); err != nil {
		return u, fmt.Errorf("%w: %w", common.ErrorSessionCorrupt, err)
	}
	return u, nil
}

// tokenExpired reports whether token is a JWT whose exp claim is not after
// now. Tokens that are not JWTs, or carry no exp, never expire here.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !now.Before(exp.Time)
}

// SetSession persists token and user, then makes them current. On error
// the previous session stays current.
func (s *Store) SetSession(ctx context.Context, token string, user models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, common.AccessTokenKey, token); err != nil {
			return err
		}
		return repo.Set(ctx, common.UserDataKey, string(data))
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	s.cur.Store(&Session{Token: token, User: user})
	return nil
}

// ClearSession removes the session from storage and memory. The Store is
// anonymous afterwards even if the storage error is returned.
func (s *Store) ClearSession(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cur.Store(nil)
	if err := s.deleteKeys(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *Store) deleteKeys(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		return metadata.NewSQLiteRepository(tx).Delete(ctx, common.AccessTokenKey, common.UserDataKey)
	})
}

// Current returns the whole session snapshot.
func (s *Store) Current() (Session, bool) {
	sess := s.cur.Load()
	if sess == nil {
		return Session{}, false
	}
	return *sess, true
}

func (s *Store) Token() (string, bool) {
	sess, ok := s.Current()
	return sess.Token, ok
}

func (s *Store) CurrentUser() (models.User, bool) {
	sess, ok := s.Current()
	return sess.User, ok
}

func (s *Store) IsAuthenticated() bool {
	return s.cur.Load() != nil
}
