package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pawhaven/adoption-api-server/internal/domains/users/domain"
	"github.com/pawhaven/adoption-api-server/internal/domains/users/ports"
	"github.com/pawhaven/adoption-api-server/internal/shared/auth"
)

type fakeUserRepo struct {
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (f *fakeUserRepo) Save(_ context.Context, user *domain.User) (*domain.User, error) {
	copy := *user
	f.users[user.Username] = &copy
	return &copy, nil
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	if u, ok := f.users[username]; ok {
		copy := *u
		return &copy, nil
	}
	return nil, ports.ErrNotFound
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			copy := *u
			return &copy, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (f *fakeUserRepo) Delete(_ context.Context, username string) error {
	if _, ok := f.users[username]; !ok {
		return ports.ErrNotFound
	}
	delete(f.users, username)
	return nil
}

func (f *fakeUserRepo) List(_ context.Context) ([]*domain.User, error) {
	var list []*domain.User
	for _, u := range f.users {
		copy := *u
		list = append(list, &copy)
	}
	return list, nil
}

type fakeSessionStore struct {
	byUser  map[string]string
	byToken map[string]string
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{byUser: map[string]string{}, byToken: map[string]string{}}
}

func (f *fakeSessionStore) Save(_ context.Context, username, token string) error {
	if old, ok := f.byUser[username]; ok {
		delete(f.byToken, old)
	}
	f.byUser[username] = token
	f.byToken[token] = username
	return nil
}

func (f *fakeSessionStore) Resolve(_ context.Context, token string) (string, error) {
	if username, ok := f.byToken[token]; ok {
		return username, nil
	}
	return "", ports.ErrTokenNotFound
}

func (f *fakeSessionStore) Delete(_ context.Context, username string) error {
	if token, ok := f.byUser[username]; ok {
		delete(f.byToken, token)
		delete(f.byUser, username)
	}
	return nil
}

func newIdentityService(t *testing.T) (*Service, *fakeUserRepo, *fakeSessionStore) {
	t.Helper()
	repo := newFakeUserRepo()
	sessions := newFakeSessionStore()
	return NewService(repo, sessions), repo, sessions
}

func createUser(t *testing.T, svc *Service, id int64, username string, role auth.Role) *domain.User {
	t.Helper()
	user, err := domain.NewUser(id, username, "correct horse battery", role)
	require.NoError(t, err)
	created, err := svc.CreateUser(context.Background(), user)
	require.NoError(t, err)
	return created
}

func TestCreateAndLoginUser(t *testing.T) {
	svc, _, sessions := newIdentityService(t)
	created := createUser(t, svc, 1, "alice", auth.RoleAdopter)
	require.Equal(t, "alice", created.Username)
	require.NotEmpty(t, created.PasswordHash)

	token, err := svc.Login(context.Background(), "alice", "correct horse battery")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, token, sessions.byUser["alice"])
}

func TestCreateUser_WeakPassword(t *testing.T) {
	_, err := domain.NewUser(1, "alice", "short", auth.RoleAdopter)
	require.ErrorIs(t, err, domain.ErrWeakPassword)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc, _, _ := newIdentityService(t)
	createUser(t, svc, 1, "alice", auth.RoleAdopter)

	// Unknown usernames and wrong passwords report the same failure.
	_, err := svc.Login(context.Background(), "missing", "correct horse battery")
	require.ErrorIs(t, err, ErrAuthentication)

	_, err = svc.Login(context.Background(), "alice", "wrong password here")
	require.ErrorIs(t, err, ErrAuthentication)
}

func TestAuthenticate_ResolvesPrincipal(t *testing.T) {
	svc, _, _ := newIdentityService(t)
	createUser(t, svc, 42, "alice", auth.RoleAdmin)

	token, err := svc.Login(context.Background(), "alice", "correct horse battery")
	require.NoError(t, err)

	principal, err := svc.Authenticate(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, int64(42), principal.UserID)
	require.Equal(t, "alice", principal.Username)
	require.True(t, principal.IsAdmin())
}

func TestAuthenticate_UnknownToken(t *testing.T) {
	svc, _, _ := newIdentityService(t)

	_, err := svc.Authenticate(context.Background(), "deadbeef")
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Authenticate(context.Background(), "")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogout_RevokesSession(t *testing.T) {
	svc, _, _ := newIdentityService(t)
	createUser(t, svc, 1, "alice", auth.RoleAdopter)

	token, err := svc.Login(context.Background(), "alice", "correct horse battery")
	require.NoError(t, err)

	svc.Logout(context.Background(), "alice")

	_, err = svc.Authenticate(context.Background(), token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestUpdate_KeepsPasswordAndRoleWhenOmitted(t *testing.T) {
	svc, _, _ := newIdentityService(t)
	created := createUser(t, svc, 1, "alice", auth.RoleAdmin)

	patch := &domain.User{FirstName: "Alice", Email: "alice@example.org"}
	updated, err := svc.Update(context.Background(), "alice", patch)
	require.NoError(t, err)
	require.Equal(t, created.ID, updated.ID)
	require.Equal(t, created.PasswordHash, updated.PasswordHash)
	require.Equal(t, auth.RoleAdmin, updated.Role)
	require.Equal(t, "Alice", updated.FirstName)

	// The stored credentials still work.
	_, err = svc.Login(context.Background(), "alice", "correct horse battery")
	require.NoError(t, err)
}

func TestDelete_RevokesSessions(t *testing.T) {
	svc, repo, sessions := newIdentityService(t)
	createUser(t, svc, 1, "alice", auth.RoleAdopter)

	_, err := svc.Login(context.Background(), "alice", "correct horse battery")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), "alice"))
	require.Empty(t, sessions.byUser)
	_, err = repo.GetByUsername(context.Background(), "alice")
	require.ErrorIs(t, err, ports.ErrNotFound)
}
