package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/rentdesk/internal/client/client"
	"github.com/dmitrijs2005/rentdesk/internal/client/models"
	"github.com/dmitrijs2005/rentdesk/internal/common"
	"github.com/dmitrijs2005/rentdesk/internal/logging"
	"github.com/dmitrijs2005/rentdesk/internal/validate"
)

// ---- fake session store ----

type fakeStore struct {
	token string
	user  *models.User

	SetErr   error
	ClearErr error

	SetCalls   int
	ClearCalls int
}

func (f *fakeStore) SetSession(_ context.Context, token string, user models.User) error {
	f.SetCalls++
	if f.SetErr != nil {
		return f.SetErr
	}
	f.token, f.user = token, &user
	return nil
}

func (f *fakeStore) ClearSession(context.Context) error {
	f.ClearCalls++
	f.token, f.user = "", nil
	return f.ClearErr
}

func (f *fakeStore) CurrentUser() (models.User, bool) {
	if f.user == nil {
		return models.User{}, false
	}
	return *f.user, true
}

func (f *fakeStore) Token() (string, bool) {
	return f.token, f.token != ""
}

// ---- fake backend ----

type backend struct {
	*httptest.Server

	mu       sync.Mutex
	requests int
	lastAuth string
	lastBody map[string]any
}

func (b *backend) Requests() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.requests
}

func (b *backend) LastAuth() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastAuth
}

func (b *backend) LastBody() map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastBody
}

func newBackend(t *testing.T, routes func(r chi.Router)) *backend {
	t.Helper()
	b := &backend{}
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			var body map[string]any
			if req.Header.Get("Content-Type") == "application/json" && req.ContentLength > 0 {
				_ = json.NewDecoder(req.Body).Decode(&body)
			}
			b.mu.Lock()
			b.requests++
			b.lastAuth = req.Header.Get(common.AuthorizationHeaderName)
			b.lastBody = body
			b.mu.Unlock()
			next.ServeHTTP(w, req)
		})
	})
	r.Route("/api", routes)
	b.Server = httptest.NewServer(r)
	t.Cleanup(b.Close)
	return b
}

func reply(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func newAuth(t *testing.T, b *backend, store *fakeStore) AuthService {
	t.Helper()
	c := client.NewHTTPClient(b.URL+"/api", store)
	return NewAuthService(c, store, logging.Nop())
}

// ---- TESTS ----

func TestLogin_Success_StoresSession(t *testing.T) {
	b := newBackend(t, func(r chi.Router) {
		r.Post("/auth/login/", reply(200, `{"access_token":"jwt","refresh_token":"r","user":{"id":"u1","email":"a@b.com"}}`))
	})
	store := &fakeStore{token: "stale"}
	svc := newAuth(t, b, store)

	u, err := svc.Login(context.Background(), models.LoginCredentials{Email: "a@b.com", Password: "secret1"})
	require.NoError(t, err)

	assert.Equal(t, models.User{ID: "u1", Email: "a@b.com"}, u)
	assert.Equal(t, "jwt", store.token)
	assert.Empty(t, b.LastAuth(), "login must not send a token")
	assert.Equal(t, map[string]any{"email": "a@b.com", "password": "secret1"}, b.LastBody())

	cur, ok := svc.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, u, cur)
}

func TestLogin_InvalidCredentials_NoRequest(t *testing.T) {
	b := newBackend(t, func(r chi.Router) {
		r.Post("/auth/login/", reply(200, `{}`))
	})
	store := &fakeStore{}
	svc := newAuth(t, b, store)

	_, err := svc.Login(context.Background(), models.LoginCredentials{Email: "nope", Password: "1"})
	require.ErrorIs(t, err, validate.ErrValidation)
	assert.Zero(t, b.Requests())
	assert.Zero(t, store.SetCalls)
}

func TestLogin_Rejected_ReturnsAPIError(t *testing.T) {
	b := newBackend(t, func(r chi.Router) {
		r.Post("/auth/login/", reply(401, `{"error":"Identifiants invalides"}`))
	})
	store := &fakeStore{}
	svc := newAuth(t, b, store)

	_, err := svc.Login(context.Background(), models.LoginCredentials{Email: "a@b.com", Password: "wrong-pw"})
	require.ErrorIs(t, err, client.ErrUnauthorized)

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Identifiants invalides", apiErr.Message)
	assert.Zero(t, store.SetCalls)
}

func TestLogin_ResponseWithoutToken_IsInvalid(t *testing.T) {
	b := newBackend(t, func(r chi.Router) {
		r.Post("/auth/login/", reply(200, `{"user":{"id":"u1"}}`))
	})
	store := &fakeStore{}

	_, err := newAuth(t, b, store).Login(context.Background(), models.LoginCredentials{Email: "a@b.com", Password: "secret1"})
	require.ErrorIs(t, err, client.ErrInvalidResponse)
	assert.Zero(t, store.SetCalls)
}

func TestLogin_StoreFailure_Propagates(t *testing.T) {
	b := newBackend(t, func(r chi.Router) {
		r.Post("/auth/login/", reply(200, `{"access_token":"jwt","user":{"id":"u1","email":"a@b.com"}}`))
	})
	boom := errors.New("disk full")
	store := &fakeStore{SetErr: boom}

	_, err := newAuth(t, b, store).Login(context.Background(), models.LoginCredentials{Email: "a@b.com", Password: "secret1"})
	require.ErrorIs(t, err, boom)
}

func TestRegister_BuildsUserFromID(t *testing.T) {
	b := newBackend(t, func(r chi.Router) {
		r.Post("/auth/register/", reply(200, `{"id":"u2","access_token":"jwt2","refresh_token":"r"}`))
	})
	store := &fakeStore{}
	svc := newAuth(t, b, store)

	creds := models.RegisterCredentials{Email: "new@b.com", Password: "Secret123", FirstName: "Awa"}
	u, err := svc.Register(context.Background(), creds)
	require.NoError(t, err)

	assert.Equal(t, models.User{ID: "u2", Email: "new@b.com", FirstName: "Awa"}, u)
	assert.Equal(t, "jwt2", store.token)
	assert.Empty(t, b.LastAuth())
	assert.Equal(t, "new@b.com", b.LastBody()["email"])
}

func TestRegister_UserInResponseWins(t *testing.T) {
	b := newBackend(t, func(r chi.Router) {
		r.Post("/auth/register/", reply(200, `{"access_token":"jwt","user":{"id":"u3","email":"x@b.com"}}`))
	})
	u, err := newAuth(t, b, &fakeStore{}).Register(context.Background(),
		models.RegisterCredentials{Email: "x@b.com", Password: "Secret123", FirstName: "Ignored"})
	require.NoError(t, err)
	assert.Equal(t, models.User{ID: "u3", Email: "x@b.com"}, u)
}

func TestRegister_NoUserNoID(t *testing.T) {
	b := newBackend(t, func(r chi.Router) {
		r.Post("/auth/register/", reply(200, `{"access_token":"jwt"}`))
	})
	store := &fakeStore{}
	_, err := newAuth(t, b, store).Register(context.Background(),
		models.RegisterCredentials{Email: "x@b.com", Password: "Secret123"})
	require.ErrorIs(t, err, models.ErrMissingUser)
	assert.Zero(t, store.SetCalls)
}

func TestRegister_BackendError(t *testing.T) {
	b := newBackend(t, func(r chi.Router) {
		r.Post("/auth/register/", reply(400, `{"error":"Email déjà utilisé"}`))
	})
	_, err := newAuth(t, b, &fakeStore{}).Register(context.Background(),
		models.RegisterCredentials{Email: "x@b.com", Password: "Secret123"})

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.StatusCode)
	assert.Equal(t, "Email déjà utilisé", apiErr.Message)
}

func TestLogout_ClearsWithoutNetwork(t *testing.T) {
	b := newBackend(t, func(r chi.Router) {})
	store := &fakeStore{token: "t", user: &models.User{ID: "1"}}
	svc := newAuth(t, b, store)

	require.NoError(t, svc.Logout(context.Background()))
	assert.Equal(t, 1, store.ClearCalls)
	assert.Zero(t, b.Requests())

	_, ok := svc.CurrentUser()
	assert.False(t, ok)
}

func TestLogout_StoreErrorWrapped(t *testing.T) {
	boom := errors.New("locked")
	svc := NewAuthService(client.NewHTTPClient("http://127.0.0.1:0", nil), &fakeStore{ClearErr: boom}, nil)

	err := svc.Logout(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "logout")
}
