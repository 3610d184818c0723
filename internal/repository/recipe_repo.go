package repository

import (
	"sort"
	"strings"
	"sync"

	"recipe-explorer/internal/model"
)

// RecipeRepository is a thread-safe in-memory recipe store. Readers receive
// copies, so no caller ever observes a partially applied write. List returns
// a snapshot sorted by (created_at, id) so page boundaries are stable across
// calls with no intervening writes.
type RecipeRepository struct {
	mu   sync.RWMutex
	byID map[string]model.Recipe
}

func NewRecipeRepository() *RecipeRepository {
	return &RecipeRepository{byID: map[string]model.Recipe{}}
}

func (r *RecipeRepository) Create(recipe model.Recipe) {
	r.mu.Lock()
	r.byID[recipe.ID] = cloneRecipe(recipe)
	r.mu.Unlock()
}

func (r *RecipeRepository) FindByID(id string) (model.Recipe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	recipe, exists := r.byID[id]
	if !exists {
		return model.Recipe{}, model.ErrRecipeNotFound
	}

	return cloneRecipe(recipe), nil
}

// Update applies a mutation under the write lock. When apply returns an
// error (unknown recipe, non-owner, invalid field) the store is left
// unchanged.
func (r *RecipeRepository) Update(id string, apply func(*model.Recipe) error) (model.Recipe, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, exists := r.byID[id]
	if !exists {
		return model.Recipe{}, model.ErrRecipeNotFound
	}

	updated := cloneRecipe(current)
	if err := apply(&updated); err != nil {
		return model.Recipe{}, err
	}

	r.byID[id] = updated
	return cloneRecipe(updated), nil
}

// Delete removes a recipe after checking ownership under the write lock.
func (r *RecipeRepository) Delete(id string, callerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	recipe, exists := r.byID[id]
	if !exists {
		return model.ErrRecipeNotFound
	}
	if recipe.OwnerID != callerID {
		return model.ErrNotOwner
	}

	delete(r.byID, id)
	return nil
}

// List returns every recipe matching the filter, sorted by (created_at, id).
// Pagination happens above this layer on the returned snapshot.
func (r *RecipeRepository) List(filter model.RecipeFilter) []model.Recipe {
	r.mu.RLock()
	matched := make([]model.Recipe, 0, len(r.byID))
	for _, recipe := range r.byID {
		if matchesFilter(recipe, filter) {
			matched = append(matched, cloneRecipe(recipe))
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	return matched
}

func matchesFilter(recipe model.Recipe, filter model.RecipeFilter) bool {
	if len(filter.Tags) > 0 && !containsAllTags(recipe.Tags, filter.Tags) {
		return false
	}

	if filter.Cuisine != "" && !strings.EqualFold(recipe.Cuisine, filter.Cuisine) {
		return false
	}

	// A recipe with no declared time never matches a time ceiling.
	if filter.TimeMax > 0 && (recipe.TimeMinutes <= 0 || recipe.TimeMinutes > filter.TimeMax) {
		return false
	}

	if filter.Query != "" && !matchesQuery(recipe, filter.Query) {
		return false
	}

	return true
}

func containsAllTags(recipeTags []string, wanted []string) bool {
	have := make(map[string]struct{}, len(recipeTags))
	for _, tag := range recipeTags {
		have[strings.ToLower(tag)] = struct{}{}
	}

	for _, tag := range wanted {
		if _, ok := have[strings.ToLower(tag)]; !ok {
			return false
		}
	}

	return true
}

func matchesQuery(recipe model.Recipe, query string) bool {
	needle := strings.ToLower(query)
	if strings.Contains(strings.ToLower(recipe.Title), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(recipe.Description), needle) {
		return true
	}
	for _, ingredient := range recipe.Ingredients {
		if strings.Contains(strings.ToLower(ingredient), needle) {
			return true
		}
	}

	return false
}

func cloneRecipe(recipe model.Recipe) model.Recipe {
	out := recipe
	out.Ingredients = append([]string(nil), recipe.Ingredients...)
	out.Steps = append([]string(nil), recipe.Steps...)
	out.Tags = append([]string(nil), recipe.Tags...)
	return out
}
