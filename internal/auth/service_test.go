package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"goflix/internal/auth"
)

type fakeRepo struct {
	byEmail map[string]*auth.User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byEmail: make(map[string]*auth.User)}
}

func (r *fakeRepo) CreateUser(ctx context.Context, u *auth.User) error {
	if _, ok := r.byEmail[u.Email]; ok {
		return auth.ErrUserAlreadyExists
	}
	r.byEmail[u.Email] = u
	return nil
}

func (r *fakeRepo) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	return u, nil
}

func TestServiceRegisterAndLogin(t *testing.T) {
	svc := auth.NewService(newFakeRepo(), auth.NewJWTTokenManager("test-secret"))
	ctx := context.Background()

	userID, token, err := svc.Register(ctx, "a@example.com", "hunter2")
	require.NoError(t, err)
	require.NotEmpty(t, userID)
	require.NotEmpty(t, token)

	loginID, loginToken, err := svc.Login(ctx, "a@example.com", "hunter2")
	require.NoError(t, err)
	require.Equal(t, userID, loginID)
	require.NotEmpty(t, loginToken)
}

func TestServiceRegisterDuplicateEmail(t *testing.T) {
	svc := auth.NewService(newFakeRepo(), auth.NewJWTTokenManager("test-secret"))
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "a@example.com", "hunter2")
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, "a@example.com", "other-pass")
	require.ErrorIs(t, err, auth.ErrUserAlreadyExists)
}

func TestServiceLoginWrongPassword(t *testing.T) {
	svc := auth.NewService(newFakeRepo(), auth.NewJWTTokenManager("test-secret"))
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "a@example.com", "hunter2")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "a@example.com", "wrong")
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestServiceLoginUnknownUser(t *testing.T) {
	svc := auth.NewService(newFakeRepo(), auth.NewJWTTokenManager("test-secret"))
	_, _, err := svc.Login(context.Background(), "nobody@example.com", "x")
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)
}
