package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/abduss/accounts/internal/config"
	"github.com/abduss/accounts/internal/password"
	"github.com/abduss/accounts/internal/token"
	"github.com/abduss/accounts/internal/user"
	"github.com/google/uuid"
)

type memoryStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]user.User
}

func newMemoryStore() *memoryStore {
	return &memoryStore{users: make(map[uuid.UUID]user.User)}
}

func (m *memoryStore) Create(_ context.Context, params user.CreateParams) (user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Login == params.Login {
			return user.User{}, user.ErrLoginAlreadyExists
		}
	}
	now := time.Now().UTC()
	u := user.User{
		ID:           uuid.New(),
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		PhoneNumber:  params.PhoneNumber,
		Login:        params.Login,
		PasswordHash: params.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.users[u.ID] = u
	return u, nil
}

func (m *memoryStore) FindByLogin(_ context.Context, login string) (user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Login == login {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (m *memoryStore) FindByID(_ context.Context, id uuid.UUID) (user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (m *memoryStore) LoginExists(ctx context.Context, login string) (bool, error) {
	_, err := m.FindByLogin(ctx, login)
	return err == nil, nil
}

func (m *memoryStore) Update(context.Context, uuid.UUID, user.UpdateParams) (int64, error) {
	return 0, nil
}

func (m *memoryStore) Remove(context.Context, uuid.UUID) (int64, error) {
	return 0, nil
}

func (m *memoryStore) List(context.Context) ([]user.User, error) {
	return nil, nil
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

var testPhoneRule = user.PhoneRule{Region: "BY"}

type fixture struct {
	store   *memoryStore
	hasher  *password.Hasher
	issuer  *token.Issuer
	clock   *fakeClock
	users   *user.Service
	service *Service
}

func newFixture(t testing.TB) *fixture {
	t.Helper()

	hasher, err := password.NewHasher(4)
	if err != nil {
		t.Fatalf("new hasher: %v", err)
	}

	clock := &fakeClock{now: time.Now().UTC()}
	issuer, err := token.NewIssuer(config.AuthConfig{
		AccessTokenSecret:         "access-secret-value",
		AccessTokenExpirationSec:  60,
		RefreshTokenSecret:        "refresh-secret-value",
		RefreshTokenExpirationSec: 3600,
		SaltRounds:                4,
	}, token.WithClock(clock.Now))
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}

	store := newMemoryStore()
	users := user.NewService(store, hasher, testPhoneRule)
	return &fixture{
		store:   store,
		hasher:  hasher,
		issuer:  issuer,
		clock:   clock,
		users:   users,
		service: NewService(users, hasher, issuer),
	}
}
