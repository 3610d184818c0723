//go:build integration

package integration

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchMatchesTitleAndIngredients(t *testing.T) {
	server := newServer(t)
	token := registerAndLogin(t, server, "alice@example.com", "alice")

	byTitle := createRecipe(t, server, token, map[string]any{"title": "Garlic Butter Pasta"})
	byIngredient := createRecipe(t, server, token, map[string]any{
		"title":       "Green Soup",
		"ingredients": []string{"spinach", "garlic cloves"},
	})
	createRecipe(t, server, token, map[string]any{"title": "Plain Oatmeal"})

	resp, envelope := doJSON(t, http.MethodGet, server.URL+"/api/v1/search?q=GARLIC", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	results := decodeRecipes(t, envelope)
	require.Len(t, results, 2)

	ids := map[string]bool{}
	for _, recipe := range results {
		ids[recipe.ID] = true
	}
	assert.True(t, ids[byTitle.ID])
	assert.True(t, ids[byIngredient.ID])
}

func TestSearchCombinesWithFilters(t *testing.T) {
	server := newServer(t)
	token := registerAndLogin(t, server, "alice@example.com", "alice")

	quick := createRecipe(t, server, token, map[string]any{
		"title":        "Garlic Noodles",
		"tags":         []string{"quick"},
		"time_minutes": 15,
	})
	createRecipe(t, server, token, map[string]any{
		"title":        "Garlic Roast",
		"tags":         []string{"slow"},
		"time_minutes": 120,
	})

	query := url.Values{}
	query.Set("q", "garlic")
	query.Set("tags", "quick")
	query.Set("time_max", "30")

	resp, envelope := doJSON(t, http.MethodGet, server.URL+"/api/v1/search?"+query.Encode(), nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	results := decodeRecipes(t, envelope)
	require.Len(t, results, 1)
	assert.Equal(t, quick.ID, results[0].ID)
}

func TestSearchNoMatches(t *testing.T) {
	server := newServer(t)
	token := registerAndLogin(t, server, "alice@example.com", "alice")

	createRecipe(t, server, token, map[string]any{"title": "Plain Oatmeal"})

	resp, envelope := doJSON(t, http.MethodGet, server.URL+"/api/v1/search?q=truffle", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, envelope.Meta)
	assert.Equal(t, 0, envelope.Meta.Total)
	assert.Empty(t, decodeRecipes(t, envelope))
}
