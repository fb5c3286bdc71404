package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yourusername/docchat/internal/api"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(filepath.Join(t.TempDir(), "state", "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

type fakeAuth struct {
	err  error
	reqs []api.LoginRequest
}

func (f *fakeAuth) Login(ctx context.Context, req api.LoginRequest) (api.LoginResponse, error) {
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return nil, f.err
	}
	return api.LoginResponse{"ok": true}, nil
}

func TestLoadEmptyStore(t *testing.T) {
	s, err := Load(openTestStore(t))
	require.NoError(t, err)
	require.False(t, s.LoggedIn)

	_, ok := s.Username()
	require.False(t, ok)
	require.Equal(t, "anonymous", s.DisplayName())

	_, err = s.Author()
	require.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestLoginPersistsKeys(t *testing.T) {
	store := openTestStore(t)
	auth := &fakeAuth{}

	s, err := Login(context.Background(), auth, store, "ana", "ana@example.com")
	require.NoError(t, err)
	require.True(t, s.LoggedIn)
	require.Equal(t, "ana@example.com", s.Email)
	require.Equal(t, []api.LoginRequest{{Username: "ana", Email: "ana@example.com"}}, auth.reqs)

	v, ok, err := store.Get(KeyIsLogged)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "true", v)

	loaded, err := Load(store)
	require.NoError(t, err)
	require.True(t, loaded.LoggedIn)
	name, ok := loaded.Username()
	require.True(t, ok)
	require.Equal(t, "ana", name)
	require.Empty(t, loaded.Email)
}

func TestFailedLoginPersistsNothing(t *testing.T) {
	store := openTestStore(t)
	auth := &fakeAuth{err: errors.New("401")}

	_, err := Login(context.Background(), auth, store, "ana", "x")
	require.Error(t, err)

	loaded, err := Load(store)
	require.NoError(t, err)
	require.False(t, loaded.LoggedIn)
}

func TestClear(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, Save(store, LoggedInAs("bo", "")))

	require.NoError(t, Clear(store))
	loaded, err := Load(store)
	require.NoError(t, err)
	require.False(t, loaded.LoggedIn)
	_, ok := loaded.Username()
	require.False(t, ok)
}

func TestSaveRequiresLogin(t *testing.T) {
	require.ErrorIs(t, Save(openTestStore(t), Session{}), ErrNotLoggedIn)
}
