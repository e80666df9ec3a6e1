package identity

import (
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidCredentials is a local result, not an upstream failure:
// the credential check is mocked and never leaves the process.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrNoSession means the presented token does not map to a live session.
var ErrNoSession = errors.New("no active session")

// UseCase defines the mock authentication operations
type UseCase interface {
	Register(username, email, password string) (Identity, string, error)
	Login(email, password string) (Identity, string, error)
	Logout(token string)
	Session(token string) (Identity, error)
}

type account struct {
	identity Identity
	password string
}

/* Service holds accounts and sessions in process memory. Sessions are
 * opaque uuid tokens; they exist from login/registration to logout and
 * are lost on restart, which is acceptable for a mock identity layer.
 */
type Service struct {
	mu       sync.Mutex
	accounts map[string]account  // keyed by email
	sessions map[string]Identity // keyed by token
	now      func() time.Time
}

// NewService creates the identity service seeded with the demo account.
func NewService() *Service {
	s := &Service{
		accounts: make(map[string]account),
		sessions: make(map[string]Identity),
		now:      time.Now,
	}
	s.accounts["demo@example.com"] = account{
		identity: Identity{ID: "1", Username: "Demo User", Email: "demo@example.com"},
		password: "demo123",
	}
	return s
}

// Register creates an account and opens a session for it. Registration
// always succeeds unless the email is already taken.
func (s *Service) Register(username, email, password string) (Identity, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.accounts[email]; taken {
		return Identity{}, "", ErrInvalidCredentials
	}

	id := Identity{
		ID:       strconv.FormatInt(s.now().UnixMilli(), 10),
		Username: username,
		Email:    email,
	}
	s.accounts[email] = account{identity: id, password: password}

	token := uuid.New().String()
	s.sessions[token] = id
	return id, token, nil
}

// Login checks the mock credentials and opens a session.
func (s *Service) Login(email, password string) (Identity, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[email]
	if !ok || acc.password != password {
		return Identity{}, "", ErrInvalidCredentials
	}

	token := uuid.New().String()
	s.sessions[token] = acc.identity
	return acc.identity, token, nil
}

// Logout discards the session; unknown tokens are a no-op.
func (s *Service) Logout(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

// Session resolves a token to its identity.
func (s *Service) Session(token string) (Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.sessions[token]
	if !ok {
		return Identity{}, ErrNoSession
	}
	return id, nil
}
