package service

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"recipe-explorer/internal/clock"
	"recipe-explorer/internal/model"
	"recipe-explorer/internal/repository"
	"recipe-explorer/pkg/apierror"
)

const tokenValueBytes = 32

// TokenService issues and validates opaque bearer tokens. The token value is
// random and carries no claims; validity lives entirely in the server-side
// record, whose integrity is protected by an HMAC keyed with the server
// secret. Expiry is checked lazily at validation time; there is no sliding
// window and no revocation before natural expiry other than logout-all.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	tokens *repository.TokenRepository
	clock  clock.Clock
}

func NewTokenService(secret string, ttl time.Duration, tokens *repository.TokenRepository, clk clock.Clock) (*TokenService, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("token signing secret is required")
	}
	if ttl <= 0 {
		return nil, errors.New("token ttl must be positive")
	}

	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		tokens: tokens,
		clock:  clk,
	}, nil
}

func (s *TokenService) Issue(userID string) (model.Token, error) {
	value, err := newTokenValue()
	if err != nil {
		return model.Token{}, fmt.Errorf("generate token value: %w", err)
	}

	issued := s.clock.Now()
	token := model.Token{
		Value:     value,
		UserID:    userID,
		IssuedAt:  issued,
		ExpiresAt: issued.Add(s.ttl),
	}
	token.Signature = s.sign(token)

	s.tokens.Store(token)
	return token, nil
}

// Validate returns the user id bound to the token. It fails with
// Unauthorized when the token is unknown, its stored record fails the HMAC
// check, or it has expired. Expiry does not refresh on use.
func (s *TokenService) Validate(value string) (string, error) {
	token, err := s.tokens.Find(value)
	if err != nil {
		return "", apierror.Unauthorized("invalid or expired token")
	}

	if !hmac.Equal(token.Signature, s.sign(token)) {
		return "", apierror.Unauthorized("invalid or expired token")
	}

	if !s.clock.Now().Before(token.ExpiresAt) {
		return "", apierror.Unauthorized("invalid or expired token")
	}

	return token.UserID, nil
}

func (s *TokenService) RevokeAllForUser(userID string) int {
	return s.tokens.RevokeAllForUser(userID)
}

// StartSweep periodically deletes expired token records. Purely a memory
// reclaim: validation does not depend on it.
func (s *TokenService) StartSweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.tokens.DeleteExpired(s.clock.Now()); removed > 0 {
				slog.Debug("swept expired tokens", "removed", removed)
			}
		}
	}
}

func (s *TokenService) sign(token model.Token) []byte {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s|%s|%d", token.Value, token.UserID, token.ExpiresAt.Unix())
	return mac.Sum(nil)
}

func newTokenValue() (string, error) {
	raw := make([]byte, tokenValueBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(raw), nil
}
