package services

import (
	"context"
	"errors"
	"sync"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/pkg/auth"
	"github.com/shashiranjanraj/catalog/pkg/rbac"
)

// UserFinder is the slice of the user repository AuthService needs.
type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, u *models.User) error
}

type AuthService struct {
	users  UserFinder
	tokens *auth.TokenIssuer
}

func NewAuthService(users UserFinder, tokens *auth.TokenIssuer) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

var (
	dummyOnce sync.Once
	dummyHash string
)

// burnHash spends one bcrypt comparison so unknown emails take as long as
// wrong passwords.
func burnHash(password string) {
	dummyOnce.Do(func() { dummyHash, _ = auth.HashPassword("catalog-dummy") })
	auth.CheckPassword(dummyHash, password)
}

// Attempt verifies email and password. Any mismatch is
// auth.ErrInvalidCredentials.
func (s *AuthService) Attempt(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		burnHash(password)
		return nil, auth.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(u.Password, password) {
		return nil, auth.ErrInvalidCredentials
	}
	return u, nil
}

// IssueToken signs an API token for u.
func (s *AuthService) IssueToken(u *models.User) (string, int64, error) {
	token, exp, err := s.tokens.Issue(u.Actor())
	if err != nil {
		return "", 0, err
	}
	return token, exp.Unix(), nil
}

// Register creates a user with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, name, email, password string, role rbac.Role) (*models.User, error) {
	if !rbac.Valid(role) {
		role = rbac.RoleUser
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &models.User{Name: name, Email: email, Password: hash, Role: role}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
