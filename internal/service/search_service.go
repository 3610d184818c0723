package service

import (
	"strings"

	"recipe-explorer/internal/model"
)

// SearchService matches free text against recipe title, description, and
// ingredients, on top of the regular list filters and pagination.
type SearchService struct {
	recipes *RecipeService
}

func NewSearchService(recipes *RecipeService) *SearchService {
	return &SearchService{recipes: recipes}
}

func (s *SearchService) Search(query string, filter model.RecipeFilter, page int, pageSize int) ([]model.Recipe, model.Meta, error) {
	filter.Query = strings.TrimSpace(query)
	return s.recipes.List(filter, page, pageSize)
}
