package account

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPasswordRequired   = errors.New("password is required")
)

// User is an account that can sign in with a password.
type User struct {
	ID    uuid.UUID
	Email string
}

// UserStorage defines the storage operations needed for password authentication.
type UserStorage interface {
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetPasswordHash(ctx context.Context, userID uuid.UUID) ([]byte, error)
}

var compareHash = bcrypt.CompareHashAndPassword

// dummyHash is compared against when no real hash exists, so unknown emails
// cost the same bcrypt work as wrong passwords.
var dummyHash = sync.OnceValue(func() []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte("sessionkit-dummy-password"), bcrypt.DefaultCost)
	if err != nil {
		panic("account: failed to generate dummy password hash: " + err.Error())
	}
	return hash
})

// Authenticate verifies email and password. Any failure is reported as
// ErrInvalidCredentials so callers cannot tell which part was wrong.
func Authenticate(ctx context.Context, storage UserStorage, email, password string) (*User, error) {
	user, err := storage.GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		_ = compareHash(dummyHash(), []byte(password))
		return nil, ErrInvalidCredentials
	}

	hash, err := storage.GetPasswordHash(ctx, user.ID)
	if err != nil {
		_ = compareHash(dummyHash(), []byte(password))
		return nil, ErrInvalidCredentials
	}

	if err := compareHash(hash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// NormalizeEmail trims and lowercases an address for lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// MemoryUsers is a UserStorage kept in memory, for demos and tests.
type MemoryUsers struct {
	mu     sync.RWMutex
	cost   int
	users  map[string]User
	hashes map[uuid.UUID][]byte
}

// NewMemoryUsers creates an empty store hashing with the given bcrypt cost.
// Costs outside bcrypt's range fall back to bcrypt.DefaultCost.
func NewMemoryUsers(cost int) *MemoryUsers {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &MemoryUsers{
		cost:   cost,
		users:  make(map[string]User),
		hashes: make(map[uuid.UUID][]byte),
	}
}

// Register adds a user with a bcrypt hash of password.
func (m *MemoryUsers) Register(ctx context.Context, email, password string) (*User, error) {
	if password == "" {
		return nil, ErrPasswordRequired
	}
	email = NormalizeEmail(email)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), m.cost)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.users[email]; exists {
		return nil, ErrEmailAlreadyExists
	}

	user := User{ID: uuid.New(), Email: email}
	m.users[email] = user
	m.hashes[user.ID] = hash
	return &user, nil
}

func (m *MemoryUsers) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[NormalizeEmail(email)]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

func (m *MemoryUsers) GetPasswordHash(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	hash, ok := m.hashes[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	return hash, nil
}
