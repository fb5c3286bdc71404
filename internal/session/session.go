// Package session holds who is logged in. The session is an explicit value
// handed to the screens that need it; the only global state is the persisted
// isLogged/username pair in the Store.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/yourusername/docchat/internal/api"
)

// ErrNotLoggedIn is returned when an operation needs a logged-in user
var ErrNotLoggedIn = errors.New("not logged in")

// Session is the login state passed to views
type Session struct {
	LoggedIn bool
	username string
	hasName  bool
	// Email is kept for the lifetime of the process only
	Email string
}

// Username returns the user name and whether one is set
func (s Session) Username() (string, bool) {
	return s.username, s.hasName
}

// DisplayName returns the username or "anonymous"
func (s Session) DisplayName() string {
	if s.hasName && s.username != "" {
		return s.username
	}
	return "anonymous"
}

// Author returns the name used to attribute messages and edits
func (s Session) Author() (string, error) {
	if !s.LoggedIn || !s.hasName {
		return "", ErrNotLoggedIn
	}
	return s.username, nil
}

// LoggedInAs builds a logged-in session
func LoggedInAs(username, email string) Session {
	return Session{LoggedIn: true, username: username, hasName: true, Email: email}
}

// Load reads the persisted keys. Presence of isLogged is what counts.
func Load(store *Store) (Session, error) {
	_, logged, err := store.Get(KeyIsLogged)
	if err != nil {
		return Session{}, fmt.Errorf("read %s: %w", KeyIsLogged, err)
	}
	name, hasName, err := store.Get(KeyUsername)
	if err != nil {
		return Session{}, fmt.Errorf("read %s: %w", KeyUsername, err)
	}
	return Session{LoggedIn: logged, username: name, hasName: hasName}, nil
}

// Save persists a logged-in session
func Save(store *Store, s Session) error {
	name, ok := s.Username()
	if !s.LoggedIn || !ok {
		return ErrNotLoggedIn
	}
	if err := store.Set(KeyUsername, name); err != nil {
		return err
	}
	return store.Set(KeyIsLogged, "true")
}

// Clear forgets the persisted login
func Clear(store *Store) error {
	return store.Delete(KeyIsLogged, KeyUsername)
}

// Authenticator performs the backend login call
type Authenticator interface {
	Login(ctx context.Context, req api.LoginRequest) (api.LoginResponse, error)
}

// Login calls the backend and, on success, persists the session
func Login(ctx context.Context, auth Authenticator, store *Store, username, email string) (Session, error) {
	if _, err := auth.Login(ctx, api.LoginRequest{Username: username, Email: email}); err != nil {
		return Session{}, err
	}

	s := LoggedInAs(username, email)
	if err := Save(store, s); err != nil {
		return Session{}, fmt.Errorf("persist session: %w", err)
	}
	return s, nil
}
