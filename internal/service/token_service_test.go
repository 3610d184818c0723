package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-explorer/internal/clock"
	"recipe-explorer/internal/repository"
	"recipe-explorer/pkg/apierror"
)

func newTestTokenService(t *testing.T) (*TokenService, *repository.TokenRepository, *clock.Mock) {
	t.Helper()

	repo := repository.NewTokenRepository()
	clk := clock.NewMock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	svc, err := NewTokenService("test-secret", 30*time.Minute, repo, clk)
	require.NoError(t, err)

	return svc, repo, clk
}

func assertUnauthorized(t *testing.T, err error) {
	t.Helper()

	var apiErr *apierror.APIError
	require.True(t, errors.As(err, &apiErr), "expected an APIError, got %v", err)
	assert.Equal(t, "UNAUTHORIZED", apiErr.Code)
}

func TestTokenService_RoundTrip(t *testing.T) {
	svc, _, _ := newTestTokenService(t)

	token, err := svc.Issue("u1")
	require.NoError(t, err)
	assert.NotEmpty(t, token.Value)
	assert.Equal(t, token.IssuedAt.Add(30*time.Minute), token.ExpiresAt)

	userID, err := svc.Validate(token.Value)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
}

func TestTokenService_UniqueValues(t *testing.T) {
	svc, _, _ := newTestTokenService(t)

	first, err := svc.Issue("u1")
	require.NoError(t, err)
	second, err := svc.Issue("u1")
	require.NoError(t, err)

	assert.NotEqual(t, first.Value, second.Value)
}

func TestTokenService_Expiry(t *testing.T) {
	svc, _, clk := newTestTokenService(t)

	token, err := svc.Issue("u1")
	require.NoError(t, err)

	// One instant before expiry the token is still valid.
	clk.Set(token.ExpiresAt.Add(-time.Second))
	_, err = svc.Validate(token.Value)
	require.NoError(t, err)

	// At the expiry instant it is not.
	clk.Set(token.ExpiresAt)
	_, err = svc.Validate(token.Value)
	assertUnauthorized(t, err)

	clk.Advance(time.Hour)
	_, err = svc.Validate(token.Value)
	assertUnauthorized(t, err)
}

func TestTokenService_UnknownToken(t *testing.T) {
	svc, _, _ := newTestTokenService(t)

	_, err := svc.Validate("no-such-token")
	assertUnauthorized(t, err)
}

func TestTokenService_TamperDetection(t *testing.T) {
	t.Run("mutated signature", func(t *testing.T) {
		svc, repo, _ := newTestTokenService(t)

		token, err := svc.Issue("u1")
		require.NoError(t, err)

		stored, err := repo.Find(token.Value)
		require.NoError(t, err)
		stored.Signature[0] ^= 0xff
		repo.Store(stored)

		_, err = svc.Validate(token.Value)
		assertUnauthorized(t, err)
	})

	t.Run("rewritten user id", func(t *testing.T) {
		svc, repo, _ := newTestTokenService(t)

		token, err := svc.Issue("u1")
		require.NoError(t, err)

		// An attacker with write access to the store cannot repoint the
		// token without the signing secret.
		stored, err := repo.Find(token.Value)
		require.NoError(t, err)
		stored.UserID = "u2"
		repo.Store(stored)

		_, err = svc.Validate(token.Value)
		assertUnauthorized(t, err)
	})

	t.Run("extended expiry", func(t *testing.T) {
		svc, repo, _ := newTestTokenService(t)

		token, err := svc.Issue("u1")
		require.NoError(t, err)

		stored, err := repo.Find(token.Value)
		require.NoError(t, err)
		stored.ExpiresAt = stored.ExpiresAt.Add(24 * time.Hour)
		repo.Store(stored)

		_, err = svc.Validate(token.Value)
		assertUnauthorized(t, err)
	})
}

func TestTokenService_RevokeAllForUser(t *testing.T) {
	svc, _, _ := newTestTokenService(t)

	first, err := svc.Issue("u1")
	require.NoError(t, err)
	second, err := svc.Issue("u1")
	require.NoError(t, err)
	other, err := svc.Issue("u2")
	require.NoError(t, err)

	assert.Equal(t, 2, svc.RevokeAllForUser("u1"))

	_, err = svc.Validate(first.Value)
	assertUnauthorized(t, err)
	_, err = svc.Validate(second.Value)
	assertUnauthorized(t, err)

	userID, err := svc.Validate(other.Value)
	require.NoError(t, err)
	assert.Equal(t, "u2", userID)
}

func TestNewTokenService_RequiresSecret(t *testing.T) {
	repo := repository.NewTokenRepository()
	clk := clock.NewMock(time.Now().UTC())

	_, err := NewTokenService("  ", time.Hour, repo, clk)
	assert.Error(t, err)

	_, err = NewTokenService("secret", 0, repo, clk)
	assert.Error(t, err)
}
