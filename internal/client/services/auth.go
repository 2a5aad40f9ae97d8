// Package services contains the application services of the rentdesk
// client: authentication and apartment management on top of the API
// client and the session store.
package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/rentdesk/internal/client/client"
	"github.com/dmitrijs2005/rentdesk/internal/client/models"
	"github.com/dmitrijs2005/rentdesk/internal/logging"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login / Register: validate the credentials locally, call the backend
//     without a token and store the returned session.
//   - Logout: forget the session; no network call.
//   - CurrentUser: the signed-in user, if any.
type AuthService interface {
	Login(ctx context.Context, creds models.LoginCredentials) (models.User, error)
	Register(ctx context.Context, creds models.RegisterCredentials) (models.User, error)
	Logout(ctx context.Context) error
	CurrentUser() (models.User, bool)
}

type authService struct {
	client apiClient
	store  sessionStore
	logger logging.Logger
}

// NewAuthService constructs an AuthService bound to the given API client
// and session store.
func NewAuthService(c apiClient, store sessionStore, logger logging.Logger) AuthService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &authService{client: c, store: store, logger: logger}
}

func (a *authService) Login(ctx context.Context, creds models.LoginCredentials) (models.User, error) {
	if err := creds.Validate(); err != nil {
		return models.User{}, err
	}

	resp, err := client.Decode[models.AuthResponse](a.client.Post(ctx, loginPath, creds, client.WithoutAuth()))
	if err != nil {
		return models.User{}, fmt.Errorf("login: %w", err)
	}

	user, err := resp.ResolveUser(models.User{Email: creds.Email})
	if err != nil {
		return models.User{}, fmt.Errorf("login: %w", err)
	}
	if err := a.store.SetSession(ctx, resp.AccessToken, user); err != nil {
		return models.User{}, fmt.Errorf("login: %w", err)
	}

	a.logger.Info(ctx, "logged in", "user_id", user.ID)
	return user, nil
}

// Register creates the account and signs it in. The backend answers with
// the new id only, so the user record is completed from creds.
func (a *authService) Register(ctx context.Context, creds models.RegisterCredentials) (models.User, error) {
	if err := creds.Validate(); err != nil {
		return models.User{}, err
	}

	resp, err := client.Decode[models.AuthResponse](a.client.Post(ctx, registerPath, creds, client.WithoutAuth()))
	if err != nil {
		return models.User{}, fmt.Errorf("register: %w", err)
	}

	user, err := resp.ResolveUser(models.User{
		Email:     creds.Email,
		FirstName: creds.FirstName,
		LastName:  creds.LastName,
	})
	if err != nil {
		return models.User{}, fmt.Errorf("register: %w", err)
	}
	if err := a.store.SetSession(ctx, resp.AccessToken, user); err != nil {
		return models.User{}, fmt.Errorf("register: %w", err)
	}

	a.logger.Info(ctx, "registered", "user_id", user.ID)
	return user, nil
}

func (a *authService) Logout(ctx context.Context) error {
	if err := a.store.ClearSession(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

func (a *authService) CurrentUser() (models.User, bool) {
	return a.store.CurrentUser()
}
