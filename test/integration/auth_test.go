//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterLoginMeFlow(t *testing.T) {
	server := newServer(t)

	token := registerAndLogin(t, server, "alice@example.com", "alice")

	resp, envelope := doJSON(t, http.MethodGet, server.URL+"/api/v1/auth/me", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, envelope.Success)

	var me struct {
		ID       string `json:"id"`
		Email    string `json:"email"`
		Username string `json:"username"`
	}
	require.NoError(t, json.Unmarshal(envelope.Data, &me))
	assert.Equal(t, "alice@example.com", me.Email)
	assert.Equal(t, "alice", me.Username)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	server := newServer(t)

	registerAndLogin(t, server, "alice@example.com", "alice")

	body, err := json.Marshal(map[string]string{
		"email":    "Alice@Example.com",
		"username": "alice2",
		"password": "pw123456",
	})
	require.NoError(t, err)

	resp, err := http.Post(server.URL+"/api/v1/auth/register", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	var envelope apiEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "CONFLICT", envelope.Error.Code)
}

func TestLoginBadCredentials(t *testing.T) {
	server := newServer(t)

	registerAndLogin(t, server, "alice@example.com", "alice")

	for _, payload := range []map[string]string{
		{"email": "alice@example.com", "password": "wrong-password"},
		{"email": "nobody@example.com", "password": "pw123456"},
	} {
		body, err := json.Marshal(payload)
		require.NoError(t, err)

		resp, err := http.Post(server.URL+"/api/v1/auth/login", "application/json", bytes.NewReader(body))
		require.NoError(t, err)
		t.Cleanup(func() { _ = resp.Body.Close() })
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}
}

func TestLogoutRevokesEveryToken(t *testing.T) {
	server := newServer(t)

	first := registerAndLogin(t, server, "alice@example.com", "alice")

	loginBody, err := json.Marshal(map[string]string{"email": "alice@example.com", "password": "pw123456"})
	require.NoError(t, err)
	loginResp, err := http.Post(server.URL+"/api/v1/auth/login", "application/json", bytes.NewReader(loginBody))
	require.NoError(t, err)
	t.Cleanup(func() { _ = loginResp.Body.Close() })
	require.Equal(t, http.StatusOK, loginResp.StatusCode)

	var parsed struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(loginResp.Body).Decode(&parsed))
	second := parsed.Data.AccessToken

	resp, envelope := doJSON(t, http.MethodPost, server.URL+"/api/v1/auth/logout", nil, first)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, envelope.Success)

	var result struct {
		LoggedOut bool `json:"logged_out"`
		Revoked   int  `json:"revoked"`
	}
	require.NoError(t, json.Unmarshal(envelope.Data, &result))
	assert.True(t, result.LoggedOut)
	assert.Equal(t, 2, result.Revoked)

	for _, token := range []string{first, second} {
		meResp := doRequest(t, newAuthRequest(t, http.MethodGet, server.URL+"/api/v1/auth/me", nil, token))
		assert.Equal(t, http.StatusUnauthorized, meResp.StatusCode)
	}
}

func TestProtectedEndpointsRejectAnonymous(t *testing.T) {
	server := newServer(t)

	resp := doRequest(t, newAuthRequest(t, http.MethodGet, server.URL+"/api/v1/auth/me", nil, ""))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	createResp, _ := doJSON(t, http.MethodPost, server.URL+"/api/v1/recipes/", map[string]any{"title": "nope"}, "")
	assert.Equal(t, http.StatusUnauthorized, createResp.StatusCode)
}
