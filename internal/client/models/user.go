// Package models defines the client-side data models exchanged with the
// rentdesk backend and kept in the local session.
package models

import (
	"errors"
	"strings"

	"github.com/dmitrijs2005/rentdesk/internal/validate"
)

// ErrMissingUser is returned when an auth response carries neither a user
// record nor a user id.
var ErrMissingUser = errors.New("auth response has no user")

// User is the account record returned by login/register. The client does
// not interpret it beyond display; it is stored and returned as-is.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Avatar    string `json:"avatar,omitempty"`
}

// DisplayName returns "First Last" when known, otherwise the email.
func (u User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

// Initials returns up to two upper-case initials, "U" when no name is set.
func (u User) Initials() string {
	var b strings.Builder
	for _, s := range []string{u.FirstName, u.LastName} {
		for _, r := range s {
			b.WriteRune(r)
			break
		}
	}
	if b.Len() == 0 {
		return "U"
	}
	return strings.ToUpper(b.String())
}

// LoginCredentials are sent to /auth/login/. Never persisted.
type LoginCredentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c LoginCredentials) Validate() error {
	v := &validate.Validator{}
	v.Required("email", c.Email)
	if strings.TrimSpace(c.Email) != "" {
		v.Email("email", c.Email)
	}
	v.Required("password", c.Password)
	if c.Password != "" {
		v.MinLen("password", c.Password, 6)
	}
	return v.Err()
}

// RegisterCredentials are sent to /auth/register/. Never persisted.
type RegisterCredentials struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

func (c RegisterCredentials) Validate() error {
	v := &validate.Validator{}
	v.Required("email", c.Email)
	if strings.TrimSpace(c.Email) != "" {
		v.Email("email", c.Email)
	}
	v.Required("password", c.Password)
	if c.Password != "" {
		v.MinLen("password", c.Password, 8)
		v.Custom("password", !hasUpperLowerDigit(c.Password),
			"must contain an upper-case letter, a lower-case letter and a digit")
	}
	return v.Err()
}

func hasUpperLowerDigit(s string) bool {
	var upper, lower, digit bool
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		}
	}
	return upper && lower && digit
}

// AuthResponse is the body of a successful login or register call.
// Register responses may omit User and carry only ID.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	User        *User  `json:"user"`
	ID          string `json:"id,omitempty"`
}

func (r AuthResponse) Validate() error {
	return (&validate.Validator{}).Required("access_token", r.AccessToken).Err()
}

// ResolveUser returns the user carried by the response. When the backend
// only sent an id, the record is completed from fallback (the credentials
// that were just registered).
func (r AuthResponse) ResolveUser(fallback User) (User, error) {
	if r.User != nil {
		return *r.User, nil
	}
	if r.ID == "" {
		return User{}, ErrMissingUser
	}
	u := fallback
	u.ID = r.ID
	return u, nil
}
