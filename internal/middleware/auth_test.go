package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubValidator struct {
	userID string
	err    error
}

func (s stubValidator) Validate(token string) (string, error) {
	return s.userID, s.err
}

func authRequest(t *testing.T, handler http.Handler, authorization string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddleware_RequireAuth(t *testing.T) {
	var seenUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserIDFromContext(r.Context())
		require.True(t, ok)
		seenUserID = userID
		w.WriteHeader(http.StatusOK)
	})

	t.Run("valid bearer token reaches the handler", func(t *testing.T) {
		handler := NewAuthMiddleware(stubValidator{userID: "u1"}).RequireAuth(next)

		rec := authRequest(t, handler, "Bearer some-token")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "u1", seenUserID)
	})

	t.Run("scheme is case-insensitive", func(t *testing.T) {
		handler := NewAuthMiddleware(stubValidator{userID: "u1"}).RequireAuth(next)

		rec := authRequest(t, handler, "bearer some-token")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing header", func(t *testing.T) {
		handler := NewAuthMiddleware(stubValidator{userID: "u1"}).RequireAuth(next)

		rec := authRequest(t, handler, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "UNAUTHORIZED")
	})

	t.Run("wrong scheme", func(t *testing.T) {
		handler := NewAuthMiddleware(stubValidator{userID: "u1"}).RequireAuth(next)

		rec := authRequest(t, handler, "Basic dXNlcjpwdw==")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejected token", func(t *testing.T) {
		handler := NewAuthMiddleware(stubValidator{err: errors.New("nope")}).RequireAuth(next)

		rec := authRequest(t, handler, "Bearer bad-token")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid or expired token")
	})
}

func TestUserIDFromContext_Absent(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := UserIDFromContext(req.Context())
	assert.False(t, ok)
}
