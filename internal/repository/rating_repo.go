package repository

import (
	"math"
	"sync"

	"recipe-explorer/internal/model"
)

// RatingRepository keeps at most one score per (recipe, user) pair and
// derives the live average/count. The summary returned by Upsert is computed
// under the same lock as the write, so concurrent raters never observe a
// count without its score.
type RatingRepository struct {
	mu       sync.RWMutex
	byRecipe map[string]map[string]int
}

func NewRatingRepository() *RatingRepository {
	return &RatingRepository{byRecipe: map[string]map[string]int{}}
}

func (r *RatingRepository) Upsert(recipeID string, userID string, score int) model.RatingSummary {
	r.mu.Lock()
	defer r.mu.Unlock()

	scores, exists := r.byRecipe[recipeID]
	if !exists {
		scores = map[string]int{}
		r.byRecipe[recipeID] = scores
	}
	scores[userID] = score

	return summarize(scores)
}

func (r *RatingRepository) Summary(recipeID string) model.RatingSummary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return summarize(r.byRecipe[recipeID])
}

// DeleteForRecipe cascades rating removal when a recipe is deleted; ratings
// have no independent lifecycle.
func (r *RatingRepository) DeleteForRecipe(recipeID string) {
	r.mu.Lock()
	delete(r.byRecipe, recipeID)
	r.mu.Unlock()
}

func summarize(scores map[string]int) model.RatingSummary {
	count := len(scores)
	if count == 0 {
		return model.RatingSummary{}
	}

	sum := 0
	for _, score := range scores {
		sum += score
	}

	average := float64(sum) / float64(count)
	return model.RatingSummary{
		Average: math.Round(average*100) / 100,
		Count:   count,
	}
}
