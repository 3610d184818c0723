package repository

import (
	"sync"
	"time"

	"recipe-explorer/internal/model"
)

// TokenRepository holds issued token records keyed by their opaque value.
// Records are never mutated after insertion; expiry is evaluated by the
// caller against the stored expires_at.
type TokenRepository struct {
	mu      sync.RWMutex
	byValue map[string]model.Token
}

func NewTokenRepository() *TokenRepository {
	return &TokenRepository{byValue: map[string]model.Token{}}
}

func (r *TokenRepository) Store(token model.Token) {
	r.mu.Lock()
	r.byValue[token.Value] = token
	r.mu.Unlock()
}

func (r *TokenRepository) Find(value string) (model.Token, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	token, exists := r.byValue[value]
	if !exists {
		return model.Token{}, model.ErrTokenNotFound
	}

	return token, nil
}

func (r *TokenRepository) RevokeAllForUser(userID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	revoked := 0
	for value, token := range r.byValue {
		if token.UserID == userID {
			delete(r.byValue, value)
			revoked++
		}
	}

	return revoked
}

// DeleteExpired reclaims memory for abandoned tokens. It is an optional
// sweep; validation never depends on it.
func (r *TokenRepository) DeleteExpired(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for value, token := range r.byValue {
		if !now.Before(token.ExpiresAt) {
			delete(r.byValue, value)
			removed++
		}
	}

	return removed
}

func (r *TokenRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.byValue)
}
