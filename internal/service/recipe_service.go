package service

import (
	"strings"

	"github.com/google/uuid"

	"recipe-explorer/internal/clock"
	"recipe-explorer/internal/event"
	"recipe-explorer/internal/model"
	"recipe-explorer/internal/repository"
	"recipe-explorer/pkg/apierror"
)

type RecipeService struct {
	recipes         *repository.RecipeRepository
	ratings         *repository.RatingRepository
	clock           clock.Clock
	bus             event.Bus
	defaultPageSize int
	maxPageSize     int
}

func NewRecipeService(recipes *repository.RecipeRepository, ratings *repository.RatingRepository, clk clock.Clock, bus event.Bus, defaultPageSize int, maxPageSize int) *RecipeService {
	if defaultPageSize <= 0 {
		defaultPageSize = 20
	}
	if maxPageSize <= 0 {
		maxPageSize = 100
	}

	return &RecipeService{
		recipes:         recipes,
		ratings:         ratings,
		clock:           clk,
		bus:             bus,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

func (s *RecipeService) Create(ownerID string, req model.CreateRecipeRequest) (model.Recipe, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" || len(title) > 200 {
		return model.Recipe{}, apierror.Validation("title must be 1-200 characters", "title")
	}
	if req.TimeMinutes < 0 {
		return model.Recipe{}, apierror.Validation("time_minutes must be positive", "time_minutes")
	}

	now := s.clock.Now()
	recipe := model.Recipe{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Title:       title,
		Description: req.Description,
		Ingredients: normalizeList(req.Ingredients),
		Steps:       normalizeList(req.Steps),
		Tags:        normalizeList(req.Tags),
		Cuisine:     strings.TrimSpace(req.Cuisine),
		TimeMinutes: req.TimeMinutes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.recipes.Create(recipe)
	s.bus.Publish(event.New(event.TypeRecipeCreated, ownerID, map[string]string{"recipe_id": recipe.ID}))

	return recipe, nil
}

func (s *RecipeService) Get(id string) (model.Recipe, error) {
	recipe, err := s.recipes.FindByID(id)
	if err != nil {
		return model.Recipe{}, apierror.NotFound("recipe not found", id)
	}

	return s.withRatings(recipe), nil
}

// Update applies a partial merge of the provided fields. Only the owner may
// update; a rejected update leaves the store unchanged.
func (s *RecipeService) Update(id string, callerID string, req model.UpdateRecipeRequest) (model.Recipe, error) {
	updated, err := s.recipes.Update(id, func(recipe *model.Recipe) error {
		if recipe.OwnerID != callerID {
			return model.ErrNotOwner
		}

		if req.Title != nil {
			title := strings.TrimSpace(*req.Title)
			if title == "" || len(title) > 200 {
				return apierror.Validation("title must be 1-200 characters", "title")
			}
			recipe.Title = title
		}
		if req.Description != nil {
			recipe.Description = *req.Description
		}
		if req.Ingredients != nil {
			recipe.Ingredients = normalizeList(*req.Ingredients)
		}
		if req.Steps != nil {
			recipe.Steps = normalizeList(*req.Steps)
		}
		if req.Tags != nil {
			recipe.Tags = normalizeList(*req.Tags)
		}
		if req.Cuisine != nil {
			recipe.Cuisine = strings.TrimSpace(*req.Cuisine)
		}
		if req.TimeMinutes != nil {
			if *req.TimeMinutes < 0 {
				return apierror.Validation("time_minutes must be positive", "time_minutes")
			}
			recipe.TimeMinutes = *req.TimeMinutes
		}

		recipe.UpdatedAt = s.clock.Now()
		return nil
	})
	if err != nil {
		return model.Recipe{}, s.mapRecipeError(err, id)
	}

	s.bus.Publish(event.New(event.TypeRecipeUpdated, callerID, map[string]string{"recipe_id": id}))
	return s.withRatings(updated), nil
}

// Delete removes an owned recipe and cascades removal of its ratings.
func (s *RecipeService) Delete(id string, callerID string) error {
	if err := s.recipes.Delete(id, callerID); err != nil {
		return s.mapRecipeError(err, id)
	}

	s.ratings.DeleteForRecipe(id)
	s.bus.Publish(event.New(event.TypeRecipeDeleted, callerID, map[string]string{"recipe_id": id}))

	return nil
}

// List pages through the filtered snapshot. Ordering is (created_at, id)
// ascending, so repeated reads with no intervening writes see stable page
// boundaries.
func (s *RecipeService) List(filter model.RecipeFilter, page int, pageSize int) ([]model.Recipe, model.Meta, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = s.defaultPageSize
	}
	if pageSize > s.maxPageSize {
		pageSize = s.maxPageSize
	}

	matched := s.recipes.List(filter)
	total := len(matched)

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	items := make([]model.Recipe, 0, end-start)
	for _, recipe := range matched[start:end] {
		items = append(items, s.withRatings(recipe))
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}

	meta := model.Meta{Page: page, Limit: pageSize, Total: total, TotalPages: totalPages}
	return items, meta, nil
}

// Rate upserts the caller's score for a recipe and returns the recipe with
// the recomputed average/count. Re-rating replaces the previous score.
func (s *RecipeService) Rate(recipeID string, userID string, score int) (model.Recipe, error) {
	if score < 1 || score > 5 {
		return model.Recipe{}, apierror.Validation("score must be between 1 and 5", "score")
	}

	recipe, err := s.recipes.FindByID(recipeID)
	if err != nil {
		return model.Recipe{}, apierror.NotFound("recipe not found", recipeID)
	}

	summary := s.ratings.Upsert(recipeID, userID, score)
	recipe.RatingAvg = summary.Average
	recipe.RatingCount = summary.Count

	s.bus.Publish(event.New(event.TypeRecipeRated, userID, map[string]any{"recipe_id": recipeID, "score": score}))
	return recipe, nil
}

func (s *RecipeService) withRatings(recipe model.Recipe) model.Recipe {
	summary := s.ratings.Summary(recipe.ID)
	recipe.RatingAvg = summary.Average
	recipe.RatingCount = summary.Count
	return recipe
}

func (s *RecipeService) mapRecipeError(err error, id string) error {
	switch err {
	case model.ErrRecipeNotFound:
		return apierror.NotFound("recipe not found", id)
	case model.ErrNotOwner:
		return apierror.Forbidden("you are not the owner of this recipe", id)
	default:
		return err
	}
}

func normalizeList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}

	return out
}
