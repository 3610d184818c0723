package model

import "errors"

var (
	// User related errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Token related errors
	ErrTokenNotFound = errors.New("token not found")
	ErrTokenExpired  = errors.New("token expired")

	// Recipe related errors
	ErrRecipeNotFound = errors.New("recipe not found")
	ErrNotOwner       = errors.New("caller does not own the recipe")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
