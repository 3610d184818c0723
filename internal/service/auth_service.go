package service

import (
	"strings"

	"github.com/google/uuid"

	"recipe-explorer/internal/clock"
	"recipe-explorer/internal/event"
	"recipe-explorer/internal/model"
	"recipe-explorer/internal/repository"
	"recipe-explorer/internal/security"
	"recipe-explorer/pkg/apierror"
)

type AuthService struct {
	users  *repository.UserRepository
	tokens *TokenService
	hasher security.PasswordHasher
	clock  clock.Clock
	bus    event.Bus
}

func NewAuthService(users *repository.UserRepository, tokens *TokenService, hasher security.PasswordHasher, clk clock.Clock, bus event.Bus) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		hasher: hasher,
		clock:  clk,
		bus:    bus,
	}
}

func (s *AuthService) Register(email string, username string, password string) (model.PublicUser, error) {
	email = strings.TrimSpace(email)
	username = strings.TrimSpace(username)

	if email == "" || !strings.Contains(email, "@") {
		return model.PublicUser{}, apierror.Validation("a valid email is required", "email")
	}
	if len(username) < 3 || len(username) > 32 {
		return model.PublicUser{}, apierror.Validation("username must be 3-32 characters", "username")
	}
	if len(password) < 6 || len(password) > 128 {
		return model.PublicUser{}, apierror.Validation("password must be 6-128 characters", "password")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return model.PublicUser{}, err
	}

	user := model.User{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    s.clock.Now(),
	}

	if err := s.users.Create(user); err != nil {
		switch err {
		case model.ErrEmailTaken:
			return model.PublicUser{}, apierror.Conflict("email already registered", "email")
		case model.ErrUsernameTaken:
			return model.PublicUser{}, apierror.Conflict("username already taken", "username")
		default:
			return model.PublicUser{}, err
		}
	}

	s.bus.Publish(event.New(event.TypeUserRegistered, user.ID, user.Public()))
	return user.Public(), nil
}

// Login authenticates by email and issues a fresh token. Unknown email and
// wrong password return the same error shape, and the unknown-email path
// still burns a hash comparison so timing does not tell them apart.
func (s *AuthService) Login(email string, password string) (model.TokenResponse, error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		_ = s.hasher.Compare(security.DummyHash, password)
		return model.TokenResponse{}, apierror.Unauthorized("invalid credentials")
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return model.TokenResponse{}, apierror.Unauthorized("invalid credentials")
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return model.TokenResponse{}, err
	}

	return model.TokenResponse{
		AccessToken: token.Value,
		TokenType:   "Bearer",
		ExpiresAt:   token.ExpiresAt,
		User:        user.Public(),
	}, nil
}

func (s *AuthService) GetUser(id string) (model.PublicUser, error) {
	user, err := s.users.FindByID(id)
	if err != nil {
		return model.PublicUser{}, apierror.NotFound("user not found", id)
	}

	return user.Public(), nil
}

// LogoutAll revokes every outstanding token for the user and reports how
// many were removed.
func (s *AuthService) LogoutAll(userID string) int {
	return s.tokens.RevokeAllForUser(userID)
}
