package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"yahveh/internal/core/apperror"
)

type fakeUsers struct {
	users map[string]*User
}

func (f *fakeUsers) FindByLogin(ctx context.Context, login string) (*User, bool, error) {
	u, ok := f.users[login]
	return u, ok, nil
}

func newAuthFixture(t *testing.T) (*Service, *TokenManager) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("secreto123"), bcrypt.MinCost)
	require.NoError(t, err)

	users := &fakeUsers{users: map[string]*User{
		"ana": {
			UserID:       7,
			EmployeeID:   3,
			EmployeeName: "Ana Pérez",
			Login:        "ana",
			PasswordHash: string(hash),
			UserType:     "ADMIN",
			Status:       StatusActive,
		},
		"inactivo": {
			UserID:       8,
			Login:        "inactivo",
			PasswordHash: string(hash),
			UserType:     "LIM",
			Status:       "B",
		},
	}}

	tokens := NewTokenManager("test-secret", "yahveh", time.Hour)
	return NewService(users, tokens), tokens
}

func TestLoginSuccess(t *testing.T) {
	svc, tokens := newAuthFixture(t)

	session, err := svc.Login(context.Background(), Credentials{Login: "ana", Password: "secreto123"})
	require.NoError(t, err)

	assert.Equal(t, int64(7), session.UserID)
	assert.Equal(t, "ADMIN", session.UserType)
	assert.Equal(t, "Ana Pérez", session.FullName)
	assert.NotEmpty(t, session.Token)

	actor, err := tokens.Validate(session.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), actor.UserID)
	assert.Equal(t, "ana", actor.Login)
	assert.Equal(t, "ADMIN", actor.Role)
}

func TestLoginFailures(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		creds   Credentials
		wantMsg string
	}{
		{"unknown account", Credentials{Login: "nadie", Password: "x"}, invalidCredentialsMsg},
		{"wrong password", Credentials{Login: "ana", Password: "incorrecta"}, invalidCredentialsMsg},
		{"inactive account", Credentials{Login: "inactivo", Password: "secreto123"}, "Usuario inactivo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, tt.creds)
			require.Error(t, err)

			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
			assert.Equal(t, tt.wantMsg, appErr.Message)
		})
	}
}

func TestLoginValidatesInput(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), Credentials{Login: "", Password: ""})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestValidateRejectsForeignSignature(t *testing.T) {
	_, tokens := newAuthFixture(t)
	other := NewTokenManager("another-secret", "yahveh", time.Hour)

	signed, _, err := other.Issue(&User{UserID: 1, Login: "ana", UserType: "ADMIN"})
	require.NoError(t, err)

	_, err = tokens.Validate(signed)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	tokens := NewTokenManager("test-secret", "yahveh", -time.Minute)

	signed, _, err := tokens.Issue(&User{UserID: 1, Login: "ana", UserType: "ADMIN"})
	require.NoError(t, err)

	_, err = tokens.Validate(signed)
	require.Error(t, err)
}
