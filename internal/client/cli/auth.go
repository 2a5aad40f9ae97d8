package cli

import (
	"context"

	"github.com/dmitrijs2005/rentdesk/internal/client/models"
	"github.com/dmitrijs2005/rentdesk/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for an email, a password and optional names, then
// creates the account. On success the new account is signed in.
//
// The password byte slice is wiped before returning. Validation and
// service errors are returned unchanged.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	firstName, err := getSimpleText(a.reader, "First name (optional)", a.out)
	if err != nil {
		return err
	}
	lastName, err := getSimpleText(a.reader, "Last name (optional)", a.out)
	if err != nil {
		return err
	}

	user, err := a.auth.Register(ctx, models.RegisterCredentials{
		Email:     email,
		Password:  string(password),
		FirstName: firstName,
		LastName:  lastName,
	})
	if err != nil {
		return err
	}

	printlnFn(a.out, "Account created. Welcome,", user.DisplayName())
	return nil
}

// Login prompts for credentials and signs in.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.auth.Login(ctx, models.LoginCredentials{Email: email, Password: string(password)})
	if err != nil {
		return err
	}

	printlnFn(a.out, "Welcome back,", user.DisplayName())
	return nil
}

// Logout forgets the stored session. No request is made.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	printlnFn(a.out, "Logged out")
	return nil
}

func (a *App) WhoAmI(_ context.Context) error {
	u, ok := a.auth.CurrentUser()
	if !ok {
		return common.ErrorNotAuthenticated
	}
	printlnFn(a.out, "[" + u.Initials() + "] " + u.DisplayName())
	printlnFn(a.out, "  email:", u.Email)
	printlnFn(a.out, "  id:   ", u.ID)
	return nil
}
