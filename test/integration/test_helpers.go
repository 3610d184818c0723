//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"recipe-explorer/internal/clock"
	"recipe-explorer/internal/config"
	"recipe-explorer/internal/event"
	"recipe-explorer/internal/handler"
	"recipe-explorer/internal/middleware"
	"recipe-explorer/internal/repository"
	"recipe-explorer/internal/router"
	"recipe-explorer/internal/security"
	"recipe-explorer/internal/service"
)

type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Meta *struct {
		Page       int `json:"page"`
		Limit      int `json:"limit"`
		Total      int `json:"total"`
		TotalPages int `json:"total_pages"`
	} `json:"meta"`
}

type recipePayload struct {
	ID          string   `json:"id"`
	OwnerID     string   `json:"owner_id"`
	Title       string   `json:"title"`
	Tags        []string `json:"tags"`
	Cuisine     string   `json:"cuisine"`
	TimeMinutes int      `json:"time_minutes"`
	RatingAvg   float64  `json:"rating_avg"`
	RatingCount int      `json:"rating_count"`
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		ServerPort:       "8080",
		RequestTimeout:   30 * time.Second,
		TokenSecret:      "test-secret",
		TokenTTL:         30 * time.Minute,
		CORSOrigins:      []string{"*"},
		RateLimitRPM:     10000,
		AuthRateLimitRPM: 10000,
		DefaultPageSize:  20,
		MaxPageSize:      100,
	}

	clk := clock.System{}
	bus := event.NewBus()

	tokenService, err := service.NewTokenService(cfg.TokenSecret, cfg.TokenTTL, repository.NewTokenRepository(), clk)
	require.NoError(t, err)

	authService := service.NewAuthService(
		repository.NewUserRepository(),
		tokenService,
		security.NewBcryptHasher(bcrypt.MinCost),
		clk,
		bus,
	)
	recipeService := service.NewRecipeService(
		repository.NewRecipeRepository(),
		repository.NewRatingRepository(),
		clk,
		bus,
		cfg.DefaultPageSize,
		cfg.MaxPageSize,
	)
	searchService := service.NewSearchService(recipeService)

	authMiddleware := middleware.NewAuthMiddleware(tokenService)
	handlers := router.Handlers{
		Auth:   handler.NewAuthHandler(authService),
		Recipe: handler.NewRecipeHandler(recipeService),
		Search: handler.NewSearchHandler(searchService),
	}

	server := httptest.NewServer(router.New(cfg, authMiddleware, handlers))
	t.Cleanup(server.Close)

	return server
}

func registerAndLogin(t *testing.T, server *httptest.Server, email string, username string) string {
	t.Helper()

	registerBody, err := json.Marshal(map[string]string{
		"email":    email,
		"username": username,
		"password": "pw123456",
	})
	require.NoError(t, err)

	registerResp, err := http.Post(server.URL+"/api/v1/auth/register", "application/json", bytes.NewReader(registerBody))
	require.NoError(t, err)
	t.Cleanup(func() { _ = registerResp.Body.Close() })
	require.Equal(t, http.StatusCreated, registerResp.StatusCode)

	loginBody, err := json.Marshal(map[string]string{
		"email":    email,
		"password": "pw123456",
	})
	require.NoError(t, err)

	loginResp, err := http.Post(server.URL+"/api/v1/auth/login", "application/json", bytes.NewReader(loginBody))
	require.NoError(t, err)
	t.Cleanup(func() { _ = loginResp.Body.Close() })
	require.Equal(t, http.StatusOK, loginResp.StatusCode)

	var parsed struct {
		Success bool `json:"success"`
		Data    struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(loginResp.Body).Decode(&parsed))
	require.True(t, parsed.Success)
	require.NotEmpty(t, parsed.Data.AccessToken)

	return parsed.Data.AccessToken
}

func newAuthRequest(t *testing.T, method string, url string, body []byte, accessToken string) *http.Request {
	t.Helper()

	var payloadReader *bytes.Reader
	if body == nil {
		payloadReader = bytes.NewReader([]byte{})
	} else {
		payloadReader = bytes.NewReader(body)
	}

	req, err := http.NewRequest(method, url, payloadReader)
	require.NoError(t, err)
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req
}

func doRequest(t *testing.T, req *http.Request) *http.Response {
	t.Helper()

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func doJSON(t *testing.T, method string, url string, payload any, accessToken string) (*http.Response, apiEnvelope) {
	t.Helper()

	var body []byte
	if payload != nil {
		marshaled, err := json.Marshal(payload)
		require.NoError(t, err)
		body = marshaled
	}

	resp := doRequest(t, newAuthRequest(t, method, url, body, accessToken))

	var envelope apiEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp, envelope
}

func createRecipe(t *testing.T, server *httptest.Server, accessToken string, payload map[string]any) recipePayload {
	t.Helper()

	resp, envelope := doJSON(t, http.MethodPost, server.URL+"/api/v1/recipes/", payload, accessToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.True(t, envelope.Success)

	var recipe recipePayload
	require.NoError(t, json.Unmarshal(envelope.Data, &recipe))
	require.NotEmpty(t, recipe.ID)
	return recipe
}

func decodeRecipes(t *testing.T, envelope apiEnvelope) []recipePayload {
	t.Helper()

	var recipes []recipePayload
	require.NoError(t, json.Unmarshal(envelope.Data, &recipes))
	return recipes
}
