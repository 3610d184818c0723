package model

import "time"

type Recipe struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Ingredients []string  `json:"ingredients"`
	Steps       []string  `json:"steps"`
	Tags        []string  `json:"tags"`
	Cuisine     string    `json:"cuisine,omitempty"`
	TimeMinutes int       `json:"time_minutes,omitempty"`
	RatingAvg   float64   `json:"rating_avg"`
	RatingCount int       `json:"rating_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RecipeFilter holds the optional, conjunctive list/search criteria. A recipe
// matches when it satisfies every non-zero field.
type RecipeFilter struct {
	Query   string
	Tags    []string
	Cuisine string
	TimeMax int
}

type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}
