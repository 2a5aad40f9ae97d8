package services

import (
	"context"
	"encoding/json"

	"github.com/dmitrijs2005/rentdesk/internal/client/client"
	"github.com/dmitrijs2005/rentdesk/internal/client/models"
)

// Backend routes, relative to the API base URL.
const (
	loginPath           = "/auth/login/"
	registerPath        = "/auth/register/"
	apartmentsPath      = "/Appartements/"
	apartmentCreatePath = "/Appartements/create/"
	apartmentUploadPath = "/Appartements/upload/"
)

func apartmentPath(id string) string       { return apartmentsPath + id + "/" }
func apartmentUpdatePath(id string) string { return apartmentsPath + id + "/update/" }
func apartmentDeletePath(id string) string { return apartmentsPath + id + "/delete/" }

// apiClient is the part of *client.HTTPClient the services use.
type apiClient interface {
	Get(ctx context.Context, path string, opts ...client.RequestOption) (json.RawMessage, error)
	Post(ctx context.Context, path string, body any, opts ...client.RequestOption) (json.RawMessage, error)
	Put(ctx context.Context, path string, body any, opts ...client.RequestOption) (json.RawMessage, error)
	Patch(ctx context.Context, path string, body any, opts ...client.RequestOption) (json.RawMessage, error)
	Delete(ctx context.Context, path string, opts ...client.RequestOption) (json.RawMessage, error)
	UploadFile(ctx context.Context, path string, form *client.Form, opts ...client.RequestOption) (json.RawMessage, error)
}

// sessionStore is the part of *session.Store the auth service uses.
type sessionStore interface {
	SetSession(ctx context.Context, token string, user models.User) error
	ClearSession(ctx context.Context) error
	CurrentUser() (models.User, bool)
}
