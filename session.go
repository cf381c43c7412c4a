package gourdianauth

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// SessionTokenKey is the well-known key under which the current token is
// persisted in a SessionStorage.
const SessionTokenKey = "gourdianauth_token"

// SessionStorage is an injected key-value capability for persisting the
// current token, typically backed by browser local storage or an equivalent
// per-user store. Implementations may be asynchronous under the hood; the
// context bounds each call.
type SessionStorage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// SessionManager persists a signed token under SessionTokenKey and answers
// identity questions about the current session using the codec's
// decode-without-validate path. It never verifies signatures: the stored
// token was validated when the session was established, and client-side
// inspection must work offline.
type SessionManager struct {
	storage SessionStorage
}

// NewSessionManager creates a session manager over the given storage.
func NewSessionManager(storage SessionStorage) (*SessionManager, error) {
	if storage == nil {
		return nil, fmt.Errorf("session storage cannot be nil")
	}
	return &SessionManager{storage: storage}, nil
}

// SignIn stores a token as the current session. The token must at least be
// structurally decodable.
func (m *SessionManager) SignIn(ctx context.Context, token string) error {
	if _, err := DecodeToken(token); err != nil {
		return err
	}
	return m.storage.Set(ctx, SessionTokenKey, token)
}

// SignOut removes the current session token.
func (m *SessionManager) SignOut(ctx context.Context) error {
	return m.storage.Remove(ctx, SessionTokenKey)
}

// Token returns the stored session token, or ErrSessionNotFound when no
// session is active.
func (m *SessionManager) Token(ctx context.Context) (string, error) {
	token, err := m.storage.Get(ctx, SessionTokenKey)
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", ErrSessionNotFound
	}
	return token, nil
}

// CurrentClaims decodes the stored session token into its claim set without
// signature validation.
func (m *SessionManager) CurrentClaims(ctx context.Context) (Claims, error) {
	token, err := m.Token(ctx)
	if err != nil {
		return nil, err
	}
	return DecodeToken(token)
}

// IsAuthenticated reports whether a session token is present and not expired.
// A token without an exp claim counts as authenticated, since it never
// expires under the codec's own checks. No session at all is not an error.
func (m *SessionManager) IsAuthenticated(ctx context.Context) (bool, error) {
	token, err := m.Token(ctx)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return false, nil
		}
		return false, err
	}

	expired, err := IsTokenExpired(token)
	if err != nil {
		if errors.Is(err, ErrMissingExpirationClaim) {
			return true, nil
		}
		return false, err
	}
	return !expired, nil
}

// MemorySessionStorage is an in-memory SessionStorage for tests and
// single-process use. A missing key reads as the empty string, mirroring
// browser local storage.
type MemorySessionStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemorySessionStorage creates an empty in-memory session storage.
func NewMemorySessionStorage() *MemorySessionStorage {
	return &MemorySessionStorage{
		values: make(map[string]string),
	}
}

func (s *MemorySessionStorage) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[key], nil
}

func (s *MemorySessionStorage) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *MemorySessionStorage) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}
