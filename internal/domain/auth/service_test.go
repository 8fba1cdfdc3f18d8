package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/jalmitra/rainharvest/pkg/errors"
)

func newTestService(repo Repository) Service {
	return NewService(Config{
		Secret:          "test-secret",
		TokenTTL:        time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
	}, repo, newTestLogger())
}

func TestService_SignupLoginAndRefresh(t *testing.T) {
	svc := newTestService(newMemoryRepo())

	resp, err := svc.Signup(context.Background(), SignupRequest{
		FullName: "Asha Verma",
		Email:    "User@Example.com",
		Password: "pass1234",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	require.NotEmpty(t, resp.RefreshToken)
	require.Equal(t, "user@example.com", resp.User.Email)
	require.Equal(t, "Asha Verma", resp.User.FullName)
	require.NotZero(t, resp.User.ID)

	login, err := svc.Login(context.Background(), LoginRequest{
		Email:    "user@example.com",
		Password: "pass1234",
	})
	require.NoError(t, err)
	require.NotEmpty(t, login.Token)
	require.Equal(t, resp.User.Email, login.User.Email)

	claims, err := svc.ValidateToken(context.Background(), login.Token)
	require.NoError(t, err)
	require.Equal(t, resp.User.ID, claims.UserID)
	require.Equal(t, resp.User.Email, claims.Email)
	require.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, time.Minute)

	refreshed, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, refreshed.Token)
	require.Equal(t, "Asha Verma", refreshed.User.FullName)
}

func TestService_DuplicateEmail(t *testing.T) {
	svc := newTestService(newMemoryRepo())

	_, err := svc.Signup(context.Background(), SignupRequest{
		FullName: "First User",
		Email:    "user@example.com",
		Password: "pass1234",
	})
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), SignupRequest{
		FullName: "Second User",
		Email:    "user@example.com",
		Password: "pass12345",
	})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "email_exists"))
}

func TestService_InvalidCredentials(t *testing.T) {
	svc := newTestService(newMemoryRepo())

	_, err := svc.Signup(context.Background(), SignupRequest{
		FullName: "Asha Verma",
		Email:    "user@example.com",
		Password: "pass1234",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginRequest{
		Email:    "user@example.com",
		Password: "wrong-password",
	})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "invalid_credentials"))

	_, err = svc.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.com",
		Password: "pass1234",
	})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "invalid_credentials"))
}

func TestService_SignupValidation(t *testing.T) {
	svc := newTestService(newMemoryRepo())

	cases := []SignupRequest{
		{FullName: "Asha", Email: "not-an-email", Password: "pass1234"},
		{FullName: "", Email: "user@example.com", Password: "pass1234"},
		{FullName: "Asha", Email: "user@example.com", Password: "short"},
	}
	for _, req := range cases {
		_, err := svc.Signup(context.Background(), req)
		require.Error(t, err, "request %+v", req)
		require.True(t, apperrors.IsCode(err, "invalid_input"))
	}
}

func TestService_RefreshRejectsAccessToken(t *testing.T) {
	svc := newTestService(newMemoryRepo())

	resp, err := svc.Signup(context.Background(), SignupRequest{
		FullName: "Asha Verma",
		Email:    "user@example.com",
		Password: "pass1234",
	})
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), resp.Token)
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "invalid_token"))

	_, err = svc.ValidateToken(context.Background(), resp.RefreshToken)
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "invalid_token"))
}

func TestService_ValidateTokenRejectsGarbage(t *testing.T) {
	svc := newTestService(newMemoryRepo())

	for _, token := range []string{"", "   ", "not.a.token"} {
		_, err := svc.ValidateToken(context.Background(), token)
		require.Error(t, err)
		require.True(t, apperrors.IsCode(err, "invalid_token"))
	}
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

type memoryRepo struct {
	users map[int64]User
	seq   int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{users: make(map[int64]User)}
}

func (m *memoryRepo) Create(_ context.Context, email, fullName, passwordHash string) (User, error) {
	m.seq++
	user := User{
		ID:           m.seq,
		Email:        email,
		FullName:     fullName,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	m.users[user.ID] = user
	return user, nil
}

func (m *memoryRepo) GetByEmail(_ context.Context, email string) (User, bool, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, true, nil
		}
	}
	return User{}, false, nil
}

func (m *memoryRepo) GetByID(_ context.Context, id int64) (User, bool, error) {
	user, ok := m.users[id]
	return user, ok, nil
}
