package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"pharmacy/m/domain"
	"pharmacy/m/internal/store"
)

type fakeUsers struct {
	byName map[string]*domain.User
	saves  int
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byName: map[string]*domain.User{}}
}

func (f *fakeUsers) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	u, ok := f.byName[username]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) ExistsByUsername(_ context.Context, username string) (bool, error) {
	_, ok := f.byName[username]
	return ok, nil
}

func (f *fakeUsers) Insert(_ context.Context, u *domain.User) error {
	f.saves++
	u.ID = int64(len(f.byName) + 1)
	cp := *u
	f.byName[u.Username] = &cp
	return nil
}

func newTestService(users UserStore) *Service {
	return NewService(users, NewTokenProvider("test-secret", time.Hour), zap.NewNop()).WithCost(bcrypt.MinCost)
}

func TestRegisterAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	users := newFakeUsers()
	svc := newTestService(users)

	u, err := svc.Register(ctx, RegisterInput{Username: "jane", Email: "jane@example.com", Password: "pw123456"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, u.Role)
	assert.True(t, u.Enabled)
	assert.NotEqual(t, "pw123456", u.Password)

	session, err := svc.Authenticate(ctx, "jane", "pw123456")
	require.NoError(t, err)
	assert.Equal(t, "jane", session.User.Username)

	sub, err := svc.Tokens().Subject(session.Token)
	require.NoError(t, err)
	assert.Equal(t, "jane", sub)
}

func TestRegisterKeepsExplicitRole(t *testing.T) {
	svc := newTestService(newFakeUsers())
	u, err := svc.Register(context.Background(), RegisterInput{Username: "boss", Password: "pw", Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, u.Role)
}

func TestRegisterDuplicateDoesNotSave(t *testing.T) {
	ctx := context.Background()
	users := newFakeUsers()
	svc := newTestService(users)

	_, err := svc.Register(ctx, RegisterInput{Username: "jane", Password: "pw"})
	require.NoError(t, err)
	require.Equal(t, 1, users.saves)

	_, err = svc.Register(ctx, RegisterInput{Username: "jane", Password: "other"})
	assert.ErrorIs(t, err, ErrUsernameTaken)
	assert.Equal(t, 1, users.saves)
}

func TestRegisterRequiresFields(t *testing.T) {
	users := newFakeUsers()
	svc := newTestService(users)
	_, err := svc.Register(context.Background(), RegisterInput{Username: " ", Password: "pw"})
	assert.ErrorIs(t, err, ErrMissingFields)
	assert.Zero(t, users.saves)
}

func TestAuthenticateFailuresLookAlike(t *testing.T) {
	ctx := context.Background()
	users := newFakeUsers()
	svc := newTestService(users)

	_, err := svc.Register(ctx, RegisterInput{Username: "jane", Password: "right"})
	require.NoError(t, err)
	hash, err := svc.HashPassword("right")
	require.NoError(t, err)
	users.byName["disabled"] = &domain.User{ID: 99, Username: "disabled", Password: hash, Role: domain.RoleUser}

	for name, creds := range map[string][2]string{
		"unknown user": {"ghost", "right"},
		"bad password": {"jane", "wrong"},
		"disabled":     {"disabled", "right"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Authenticate(ctx, creds[0], creds[1])
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestCurrentUser(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakeUsers())
	_, err := svc.Register(ctx, RegisterInput{Username: "jane", Email: "jane@example.com", Password: "pw"})
	require.NoError(t, err)

	u, err := svc.CurrentUser(ctx, "jane")
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", u.Email)

	_, err = svc.CurrentUser(ctx, "ghost")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUsernameContext(t *testing.T) {
	_, ok := UsernameFromContext(context.Background())
	assert.False(t, ok)

	name, ok := UsernameFromContext(WithUsername(context.Background(), "jane"))
	assert.True(t, ok)
	assert.Equal(t, "jane", name)
}
