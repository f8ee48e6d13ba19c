package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"yahveh/internal/core/apperror"
	"yahveh/pkg/logger"
)

// The same message covers unknown accounts and wrong passwords so the
// response does not reveal whether an account exists.
const invalidCredentialsMsg = "Credenciales inválidas"

// Service authenticates users and mints sessions.
type Service struct {
	users  Repository
	tokens *TokenManager
}

// NewService creates the auth service.
func NewService(users Repository, tokens *TokenManager) *Service {
	return &Service{users: users, tokens: tokens}
}

// Login verifies the credentials against the stored bcrypt hash and
// returns a session with a signed token.
func (s *Service) Login(ctx context.Context, creds Credentials) (*Session, error) {
	if creds.Login == "" || creds.Password == "" {
		return nil, apperror.NewValidation("login and password are required")
	}

	user, found, err := s.users.FindByLogin(ctx, creds.Login)
	if err != nil {
		return nil, err
	}
	if !found {
		logger.Warn(ctx, "login attempt for unknown account", "login", creds.Login)
		return nil, apperror.NewUnauthorized(invalidCredentialsMsg)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		logger.Warn(ctx, "login attempt with wrong password", "login", creds.Login)
		return nil, apperror.NewUnauthorized(invalidCredentialsMsg)
	}

	if !user.IsActive() {
		logger.Warn(ctx, "login attempt for inactive account", "login", creds.Login)
		return nil, apperror.NewUnauthorized("Usuario inactivo")
	}

	token, expires, err := s.tokens.Issue(user)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	logger.Info(ctx, "login successful", "login", user.Login, "user_type", user.UserType)
	return &Session{
		Token:     token,
		UserID:    user.UserID,
		Login:     user.Login,
		UserType:  user.UserType,
		FullName:  user.EmployeeName,
		ExpiresAt: expires.Unix(),
	}, nil
}
