package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"eventhub/internal/model"
	"eventhub/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// UserService handles account registration and credential checks.
type UserService struct {
	users UserStore
}

// NewUserService constructs a UserService.
func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

func validName(s string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(s)) >= 3
}

// Register validates the payload, hashes the password, and stores the
// account.
func (s *UserService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	if !validName(req.FirstName) {
		return nil, invalidField("first_name", "must be at least 3 characters")
	}
	if !validName(req.LastName) {
		return nil, invalidField("last_name", "must be at least 3 characters")
	}
	if !validName(req.Username) {
		return nil, invalidField("username", "must be at least 3 characters")
	}
	if len(req.Password) < 3 {
		return nil, invalidField("password", "must be at least 3 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Username:  strings.TrimSpace(req.Username),
		Password:  string(hash),
	}
	created, err := s.users.Insert(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, &Error{Kind: KindUsernameTaken, Message: "username already exists"}
		}
		return nil, fmt.Errorf("register user: %w", err)
	}
	return created, nil
}

// Login checks credentials and returns the matching account. A missing
// user and a wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, req model.LoginRequest) (*model.User, error) {
	if !validName(req.Username) {
		return nil, &Error{Kind: KindInvalidCredentials, Message: "invalid username or password"}
	}
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &Error{Kind: KindInvalidCredentials, Message: "invalid username or password"}
		}
		return nil, fmt.Errorf("login: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return nil, &Error{Kind: KindInvalidCredentials, Message: "invalid username or password"}
	}
	return user, nil
}
