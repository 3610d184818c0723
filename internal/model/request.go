package model

type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateRecipeRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Ingredients []string `json:"ingredients"`
	Steps       []string `json:"steps"`
	Tags        []string `json:"tags"`
	Cuisine     string   `json:"cuisine"`
	TimeMinutes int      `json:"time_minutes"`
}

// UpdateRecipeRequest carries a partial merge: nil fields are left untouched.
type UpdateRecipeRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Ingredients *[]string `json:"ingredients"`
	Steps       *[]string `json:"steps"`
	Tags        *[]string `json:"tags"`
	Cuisine     *string   `json:"cuisine"`
	TimeMinutes *int      `json:"time_minutes"`
}

type RateRequest struct {
	Score int `json:"score"`
}
