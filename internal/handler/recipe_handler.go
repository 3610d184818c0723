package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"recipe-explorer/internal/middleware"
	"recipe-explorer/internal/model"
	"recipe-explorer/internal/service"
	"recipe-explorer/pkg/apierror"
)

type RecipeHandler struct {
	service *service.RecipeService
}

func NewRecipeHandler(service *service.RecipeService) *RecipeHandler {
	return &RecipeHandler{service: service}
}

func (h *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := filterFromQuery(r)
	page := parseIntOrDefault(r.URL.Query().Get("page"), 1)
	pageSize := parseIntOrDefault(r.URL.Query().Get("page_size"), 0)

	items, meta, err := h.service.List(filter, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, items, &meta)
}

func (h *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	var payload model.CreateRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	recipe, err := h.service.Create(userID, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, recipe, nil)
}

func (h *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	recipeID := chi.URLParam(r, "recipe_id")

	recipe, err := h.service.Get(recipeID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, recipe, nil)
}

func (h *RecipeHandler) Update(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	var payload model.UpdateRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	recipe, err := h.service.Update(chi.URLParam(r, "recipe_id"), userID, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, recipe, nil)
}

func (h *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	if err := h.service.Delete(chi.URLParam(r, "recipe_id"), userID); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"deleted": true}, nil)
}

func (h *RecipeHandler) Rate(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	var payload model.RateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	recipe, err := h.service.Rate(chi.URLParam(r, "recipe_id"), userID, payload.Score)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, recipe, nil)
}

func filterFromQuery(r *http.Request) model.RecipeFilter {
	query := r.URL.Query()

	return model.RecipeFilter{
		Tags:    parseTags(query["tags"]),
		Cuisine: strings.TrimSpace(query.Get("cuisine")),
		TimeMax: parseIntOrDefault(query.Get("time_max"), 0),
	}
}
