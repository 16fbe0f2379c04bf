package auth

import (
	"crypto/subtle"

	"shopfront/internal/model"
)

// Directory is the fixed set of users that may log in locally. Logins are
// matched against the email-keyed accounts first, then by username.
type Directory struct {
	byEmail    map[string]model.User
	byUsername map[string]model.User
}

// NewDirectory returns the built-in development accounts.
func NewDirectory() *Directory {
	return NewDirectoryWith(
		[]model.User{
			{ID: "mock-admin-id", Username: "admin", Email: "admin@example.com", Password: "admin123"},
			{ID: "mock-user-id", Username: "user", Email: "user@example.com", Password: "user123"},
		},
		[]model.User{
			{ID: "1", Username: "admin", Password: "admin123"},
			{ID: "2", Username: "user", Password: "user123"},
		},
	)
}

// NewDirectoryWith builds a directory from email-keyed and username-keyed
// accounts.
func NewDirectoryWith(emailUsers, usernameUsers []model.User) *Directory {
	d := &Directory{
		byEmail:    make(map[string]model.User, len(emailUsers)),
		byUsername: make(map[string]model.User, len(usernameUsers)),
	}
	for _, u := range emailUsers {
		d.byEmail[u.Email] = u
	}
	for _, u := range usernameUsers {
		d.byUsername[u.Username] = u
	}
	return d
}

// Authenticate returns the user whose email or username is login and whose
// password matches, or model.ErrInvalidCredentials.
func (d *Directory) Authenticate(login, password string) (*model.User, error) {
	if u, ok := d.byEmail[login]; ok && passwordMatches(u.Password, password) {
		return &u, nil
	}
	if u, ok := d.byUsername[login]; ok && passwordMatches(u.Password, password) {
		return &u, nil
	}
	return nil, model.ErrInvalidCredentials
}

func passwordMatches(want, got string) bool {
	return subtle.ConstantTimeCompare([]byte(want), []byte(got)) == 1
}
