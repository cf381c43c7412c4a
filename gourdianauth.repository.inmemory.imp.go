// File: gourdianauth.repository.inmemory.imp.go

package gourdianauth

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// refreshEntry represents a stored refresh token with its expiration time
type refreshEntry struct {
	subjectID string
	expiresAt time.Time
}

// MemoryRefreshTokenRepository is an in-memory implementation of
// RefreshTokenRepository. Suitable for development, testing, or
// single-instance deployments.
type MemoryRefreshTokenRepository struct {
	mu              sync.RWMutex
	tokens          map[string]refreshEntry
	cleanupInterval time.Duration
	stopCleanup     chan struct{}
	cleanupOnce     sync.Once
}

// NewMemoryRefreshTokenRepository creates a new in-memory refresh token
// repository. cleanupInterval determines how often expired entries are
// removed (default: 5 minutes).
func NewMemoryRefreshTokenRepository(cleanupInterval time.Duration) *MemoryRefreshTokenRepository {
	if cleanupInterval <= 0 {
		cleanupInterval = 5 * time.Minute
	}

	repo := &MemoryRefreshTokenRepository{
		tokens:          make(map[string]refreshEntry),
		cleanupInterval: cleanupInterval,
		stopCleanup:     make(chan struct{}),
	}

	// Start background cleanup
	go repo.periodicCleanup()

	return repo
}

// SaveRefreshToken records a refresh token for the given subject by storing its hash
func (m *MemoryRefreshTokenRepository) SaveRefreshToken(ctx context.Context, subjectID, token string, ttl time.Duration) error {
	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}
	if subjectID == "" {
		return fmt.Errorf("subject ID cannot be empty")
	}
	if ttl <= 0 {
		return fmt.Errorf("ttl must be positive")
	}

	tokenHash := hashToken(token)
	entry := refreshEntry{
		subjectID: subjectID,
		expiresAt: time.Now().Add(ttl),
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.tokens[tokenHash] = entry

	return nil
}

// LookupRefreshToken returns the subject a live refresh token belongs to
func (m *MemoryRefreshTokenRepository) LookupRefreshToken(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", fmt.Errorf("token cannot be empty")
	}

	tokenHash := hashToken(token)

	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, exists := m.tokens[tokenHash]
	if !exists {
		return "", ErrRefreshTokenNotFound
	}

	// Check if entry has expired
	if time.Now().After(entry.expiresAt) {
		return "", ErrRefreshTokenNotFound
	}

	return entry.subjectID, nil
}

// RevokeRefreshToken removes a refresh token by its hash
func (m *MemoryRefreshTokenRepository) RevokeRefreshToken(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}

	tokenHash := hashToken(token)

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.tokens, tokenHash)

	return nil
}

// cleanupExpired removes expired entries from memory
func (m *MemoryRefreshTokenRepository) cleanupExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for hash, entry := range m.tokens {
		if now.After(entry.expiresAt) {
			delete(m.tokens, hash)
		}
	}
}

// periodicCleanup runs background cleanup of expired entries
func (m *MemoryRefreshTokenRepository) periodicCleanup() {
	ticker := time.NewTicker(m.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopCleanup:
			return
		case <-ticker.C:
			m.cleanupExpired()
		}
	}
}

// Close stops the background cleanup goroutine.
// Call this when shutting down the application.
func (m *MemoryRefreshTokenRepository) Close() error {
	m.cleanupOnce.Do(func() {
		close(m.stopCleanup)
	})
	return nil
}

// Stats returns statistics about the repository.
// Useful for monitoring and debugging.
func (m *MemoryRefreshTokenRepository) Stats() map[string]int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]int{
		"refresh_tokens": len(m.tokens),
	}
}
