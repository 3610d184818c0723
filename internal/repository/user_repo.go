package repository

import (
	"strings"
	"sync"

	"recipe-explorer/internal/model"
)

// UserRepository is a thread-safe in-memory user store. Email uniqueness is
// case-insensitive; the uniqueness check and the insert happen under one
// exclusive lock so two concurrent registrations for the same email can never
// both succeed.
type UserRepository struct {
	mu         sync.RWMutex
	byID       map[string]model.User
	byEmail    map[string]string
	byUsername map[string]string
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:       map[string]model.User{},
		byEmail:    map[string]string{},
		byUsername: map[string]string{},
	}
}

func (r *UserRepository) Create(user model.User) error {
	emailKey := emailKey(user.Email)
	usernameKey := strings.TrimSpace(user.Username)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[emailKey]; exists {
		return model.ErrEmailTaken
	}
	if _, exists := r.byUsername[usernameKey]; exists {
		return model.ErrUsernameTaken
	}

	r.byID[user.ID] = user
	r.byEmail[emailKey] = user.ID
	r.byUsername[usernameKey] = user.ID

	return nil
}

func (r *UserRepository) FindByID(id string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, exists := r.byID[id]
	if !exists {
		return model.User{}, model.ErrUserNotFound
	}

	return user, nil
}

func (r *UserRepository) FindByEmail(email string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.byEmail[emailKey(email)]
	if !exists {
		return model.User{}, model.ErrUserNotFound
	}

	return r.byID[id], nil
}

func (r *UserRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.byID)
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
