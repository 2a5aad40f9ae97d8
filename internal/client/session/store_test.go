package session

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/rentdesk/internal/client/client"
	"github.com/dmitrijs2005/rentdesk/internal/client/models"
	"github.com/dmitrijs2005/rentdesk/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/rentdesk/internal/common"
	"github.com/dmitrijs2005/rentdesk/internal/logging"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "rentdesk.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seed(t *testing.T, db *sql.DB, kv map[string]string) {
	t.Helper()
	repo := metadata.NewSQLiteRepository(db)
	for k, v := range kv {
		require.NoError(t, repo.Set(context.Background(), k, v))
	}
}

func requireKeysRemoved(t *testing.T, db *sql.DB) {
	t.Helper()
	repo := metadata.NewSQLiteRepository(db)
	for _, k := range []string{common.AccessTokenKey, common.UserDataKey} {
		_, err := repo.Get(context.Background(), k)
		require.ErrorIs(t, err, common.ErrorNotFound, "key %s should be removed", k)
	}
}

func requireConsistent(t *testing.T, s *Store) {
	t.Helper()
	_, hasToken := s.Token()
	_, hasUser := s.CurrentUser()
	require.Equal(t, hasToken, hasUser)
	require.Equal(t, hasToken, s.IsAuthenticated())
}

func signedJWT(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "1",
		"exp":     exp.Unix(),
	}).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return tok
}

func TestNew_IsAnonymous(t *testing.T) {
	s := New(openDB(t), nil)

	_, ok := s.Token()
	assert.False(t, ok)
	_, ok = s.CurrentUser()
	assert.False(t, ok)
	assert.False(t, s.IsAuthenticated())
}

func TestTokenAndUser_PresentTogether(t *testing.T) {
	ctx := context.Background()
	s := New(openDB(t), logging.Nop())
	user := models.User{ID: "1", Email: "a@b.com"}

	steps := []func() error{
		func() error { return s.SetSession(ctx, "t1", user) },
		func() error { return s.SetSession(ctx, "t2", models.User{ID: "2", Email: "c@d.com"}) },
		func() error { return s.ClearSession(ctx) },
		func() error { return s.ClearSession(ctx) },
		func() error { return s.SetSession(ctx, "t3", user) },
		func() error { return s.ClearSession(ctx) },
	}
	for i, step := range steps {
		require.NoError(t, step(), "step %d", i)
		requireConsistent(t, s)
	}
}

func TestInitialize_InvalidUserJSON_ClearsBothKeys(t *testing.T) {
	db := openDB(t)
	seed(t, db, map[string]string{
		common.AccessTokenKey: "t",
		common.UserDataKey:    "<invalid json>",
	})

	s := New(db, logging.Nop())
	s.Initialize(context.Background())

	assert.False(t, s.IsAuthenticated())
	requireConsistent(t, s)
	requireKeysRemoved(t, db)
}

func TestInitialize_ValidSession_Authenticated(t *testing.T) {
	db := openDB(t)
	seed(t, db, map[string]string{
		common.AccessTokenKey: "t",
		common.UserDataKey:    `{"id":"1","email":"a@b.com"}`,
	})

	s := New(db, logging.Nop())
	s.Initialize(context.Background())

	tok, ok := s.Token()
	require.True(t, ok)
	assert.Equal(t, "t", tok)

	u, ok := s.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, models.User{ID: "1", Email: "a@b.com"}, u)
}

func TestInitialize_DiscardsIncompleteOrCorruptSessions(t *testing.T) {
	tests := []struct {
		name string
		kv   map[string]string
	}{
		{"empty storage", map[string]string{}},
		{"token only", map[string]string{common.AccessTokenKey: "t"}},
		{"user only", map[string]string{common.UserDataKey: `{"id":"1"}`}},
		{"empty token", map[string]string{common.AccessTokenKey: "", common.UserDataKey: `{"id":"1"}`}},
		{"user is null", map[string]string{common.AccessTokenKey: "t", common.UserDataKey: "null"}},
		{"user is array", map[string]string{common.AccessTokenKey: "t", common.UserDataKey: `[{"id":"1"}]`}},
		{"user is string", map[string]string{common.AccessTokenKey: "t", common.UserDataKey: `"a@b.com"`}},
		{"user wrong field types", map[string]string{common.AccessTokenKey: "t", common.UserDataKey: `{"id":1}`}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			db := openDB(t)
			seed(t, db, tc.kv)

			s := New(db, logging.Nop())
			s.Initialize(context.Background())

			assert.False(t, s.IsAuthenticated())
			requireConsistent(t, s)
			requireKeysRemoved(t, db)
		})
	}
}

func TestInitialize_JWTExpiry(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	user := `{"id":"1","email":"a@b.com"}`

	t.Run("expired", func(t *testing.T) {
		db := openDB(t)
		seed(t, db, map[string]string{
			common.AccessTokenKey: signedJWT(t, now.Add(-time.Minute)),
			common.UserDataKey:    user,
		})

		s := New(db, logging.Nop(), WithClock(clock))
		s.Initialize(context.Background())

		assert.False(t, s.IsAuthenticated())
		requireKeysRemoved(t, db)
	})

	t.Run("not yet expired", func(t *testing.T) {
		db := openDB(t)
		tok := signedJWT(t, now.Add(time.Hour))
		seed(t, db, map[string]string{common.AccessTokenKey: tok, common.UserDataKey: user})

		s := New(db, logging.Nop(), WithClock(clock))
		s.Initialize(context.Background())

		got, ok := s.Token()
		require.True(t, ok)
		assert.Equal(t, tok, got)
	})

	t.Run("opaque token never inspected", func(t *testing.T) {
		db := openDB(t)
		seed(t, db, map[string]string{common.AccessTokenKey: "not.a.jwt", common.UserDataKey: user})

		s := New(db, logging.Nop(), WithClock(clock))
		s.Initialize(context.Background())

		assert.True(t, s.IsAuthenticated())
	})
}

func TestSetSession_SurvivesRestart(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	user := models.User{ID: "9", Email: "owner@b.com", FirstName: "Awa"}

	require.NoError(t, New(db, logging.Nop()).SetSession(ctx, "tok", user))

	restarted := New(db, logging.Nop())
	restarted.Initialize(ctx)

	sess, ok := restarted.Current()
	require.True(t, ok)
	assert.Equal(t, Session{Token: "tok", User: user}, sess)
}

func TestSetSession_PersistenceFailure_KeepsPreviousState(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	s := New(db, logging.Nop())
	prev := models.User{ID: "1", Email: "a@b.com"}
	require.NoError(t, s.SetSession(ctx, "old", prev))

	require.NoError(t, db.Close())

	err := s.SetSession(ctx, "new", models.User{ID: "2"})
	require.Error(t, err)

	sess, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, Session{Token: "old", User: prev}, sess)
}

func TestClearSession_TwiceIsSafe(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	s := New(db, logging.Nop())
	require.NoError(t, s.SetSession(ctx, "t", models.User{ID: "1"}))

	require.NoError(t, s.ClearSession(ctx))
	require.NoError(t, s.ClearSession(ctx))

	assert.False(t, s.IsAuthenticated())
	requireKeysRemoved(t, db)
}

func TestClearSession_PersistenceFailure_StillAnonymous(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	s := New(db, logging.Nop())
	require.NoError(t, s.SetSession(ctx, "t", models.User{ID: "1"}))

	require.NoError(t, db.Close())

	require.Error(t, s.ClearSession(ctx))
	assert.False(t, s.IsAuthenticated())
	requireConsistent(t, s)
}

func TestInitialize_StorageFailure_StaysAnonymous(t *testing.T) {
	db := openDB(t)
	require.NoError(t, db.Close())

	s := New(db, logging.Nop())
	s.Initialize(context.Background())

	assert.False(t, s.IsAuthenticated())
}

func TestConcurrentReaders_NeverSeeMixedSnapshot(t *testing.T) {
	ctx := context.Background()
	s := New(openDB(t), logging.Nop())

	var wg sync.WaitGroup
	stop := make(chan struct{})

	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				if sess, ok := s.Current(); ok {
					assert.Equal(t, "tok-"+sess.User.ID, sess.Token)
				}
			}
		}()
	}

	for i := range 20 {
		id := fmt.Sprint(i)
		require.NoError(t, s.SetSession(ctx, "tok-"+id, models.User{ID: id}))
		if i%3 == 0 {
			require.NoError(t, s.ClearSession(ctx))
		}
	}
	close(stop)
	wg.Wait()
}
