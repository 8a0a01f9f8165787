package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/abduss/accounts/internal/metrics"
	"github.com/abduss/accounts/internal/token"
	"github.com/abduss/accounts/internal/user"
)

type userLookup interface {
	FindByLogin(ctx context.Context, login string) (user.User, error)
}

type passwordVerifier interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hashed string) bool
}

// decoyPassword backs the hash checked for unknown logins.
const decoyPassword = "decoy-password-for-unknown-logins"

type pairIssuer interface {
	IssuePair(userID string) (token.Pair, error)
}

// Service encapsulates authentication use cases.
type Service struct {
	users    userLookup
	verifier passwordVerifier
	issuer   pairIssuer

	decoyOnce sync.Once
	decoyHash string
}

// NewService creates a Service with dependencies.
func NewService(users userLookup, verifier passwordVerifier, issuer pairIssuer) *Service {
	return &Service{users: users, verifier: verifier, issuer: issuer}
}

// Credentials is a login attempt.
type Credentials struct {
	Login    string
	Password string
}

// Login verifies credentials and issues a token pair. An unknown login and a wrong
// password both yield ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, creds Credentials) (token.Pair, error) {
	u, err := s.users.FindByLogin(ctx, creds.Login)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			s.verifier.Verify(creds.Password, s.decoy())
			metrics.ObserveLogin(metrics.LoginRejected)
			return token.Pair{}, ErrInvalidCredentials
		}
		metrics.ObserveLogin(metrics.LoginFailed)
		return token.Pair{}, fmt.Errorf("lookup user: %w", err)
	}

	if !s.verifier.Verify(creds.Password, u.PasswordHash) {
		metrics.ObserveLogin(metrics.LoginRejected)
		return token.Pair{}, ErrInvalidCredentials
	}

	pair, err := s.issuer.IssuePair(u.ID.String())
	if err != nil {
		metrics.ObserveLogin(metrics.LoginFailed)
		return token.Pair{}, fmt.Errorf("issue tokens: %w", err)
	}

	metrics.ObserveLogin(metrics.LoginSucceeded)
	return pair, nil
}

func (s *Service) decoy() string {
	s.decoyOnce.Do(func() {
		s.decoyHash, _ = s.verifier.Hash(decoyPassword)
	})
	return s.decoyHash
}

// Refresh issues a fresh pair for a user already proven by a valid refresh token.
func (s *Service) Refresh(_ context.Context, userID string) (token.Pair, error) {
	if userID == "" {
		return token.Pair{}, ErrUnauthorized
	}
	pair, err := s.issuer.IssuePair(userID)
	if err != nil {
		return token.Pair{}, fmt.Errorf("issue tokens: %w", err)
	}
	return pair, nil
}
