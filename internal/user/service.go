package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type store interface {
	Create(ctx context.Context, params CreateParams) (User, error)
	FindByLogin(ctx context.Context, login string) (User, error)
	FindByID(ctx context.Context, id uuid.UUID) (User, error)
	LoginExists(ctx context.Context, login string) (bool, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateParams) (int64, error)
	Remove(ctx context.Context, id uuid.UUID) (int64, error)
	List(ctx context.Context) ([]User, error)
}

type passwordHasher interface {
	Hash(plaintext string) (string, error)
}

// Service encapsulates user directory use cases.
type Service struct {
	store  store
	hasher passwordHasher
	phone  PhoneRule
}

// NewService creates a Service with dependencies. Phone numbers are stored in the
// E.164 form produced by phone.
func NewService(store store, hasher passwordHasher, phone PhoneRule) *Service {
	return &Service{store: store, hasher: hasher, phone: phone}
}

// CreateInput carries data for a new account.
type CreateInput struct {
	FirstName   string
	LastName    string
	PhoneNumber string
	Login       string
	Password    string
}

// Create hashes the password and stores the user.
func (s *Service) Create(ctx context.Context, input CreateInput) (User, error) {
	phone, err := s.phone.Normalize(input.PhoneNumber)
	if err != nil {
		return User{}, err
	}

	hashed, err := s.hasher.Hash(input.Password)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.store.Create(ctx, CreateParams{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PhoneNumber:  phone,
		Login:        input.Login,
		PasswordHash: hashed,
	})
	if err != nil {
		if errors.Is(err, ErrLoginAlreadyExists) {
			return User{}, ErrLoginAlreadyExists
		}
		return User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// LoginTaken is an early check for friendlier sign-up errors. It can race with a
// concurrent sign-up; Create remains authoritative.
func (s *Service) LoginTaken(ctx context.Context, login string) (bool, error) {
	return s.store.LoginExists(ctx, login)
}

// FindByLogin returns the user with login or ErrUserNotFound.
func (s *Service) FindByLogin(ctx context.Context, login string) (User, error) {
	return s.store.FindByLogin(ctx, login)
}

// FindByID returns the user with id or ErrUserNotFound.
func (s *Service) FindByID(ctx context.Context, id uuid.UUID) (User, error) {
	return s.store.FindByID(ctx, id)
}

// List returns every user.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.store.List(ctx)
}

// Update changes the names and phone number of a user. An empty update touches nothing.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (int64, error) {
	if params.Empty() {
		return 0, nil
	}
	if params.PhoneNumber != nil {
		phone, err := s.phone.Normalize(*params.PhoneNumber)
		if err != nil {
			return 0, err
		}
		params.PhoneNumber = &phone
	}
	return s.store.Update(ctx, id, params)
}

// Remove deletes a user by id.
func (s *Service) Remove(ctx context.Context, id uuid.UUID) (int64, error) {
	return s.store.Remove(ctx, id)
}
