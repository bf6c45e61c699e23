package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-ecommerce/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-ecommerce/internal/domain/repository"
	"github.com/oksasatya/go-ddd-ecommerce/pkg/apperror"
	"github.com/oksasatya/go-ddd-ecommerce/pkg/helpers"
)

type AuthService struct {
	Users  repo.UserRepository
	Hasher helpers.PasswordHasher
	JWT    *helpers.JWTManager
	Logger *logrus.Logger
}

func NewAuthService(users repo.UserRepository, hasher helpers.PasswordHasher, jwt *helpers.JWTManager, logger *logrus.Logger) *AuthService {
	return &AuthService{Users: users, Hasher: hasher, JWT: jwt, Logger: logger}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     entity.Role
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      *entity.User
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email := normalizeEmail(in.Email)

	existing, err := s.Users.GetByEmail(ctx, email)
	switch {
	case err == nil && existing != nil:
		return nil, apperror.New(apperror.EmailAlreadyRegistered, "e-mail already registered")
	case err != nil && !errors.Is(err, repo.ErrNotFound):
		return nil, apperror.Wrap(err, apperror.Internal, "lookup user")
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.Internal, "hash password")
	}

	u := &entity.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         entity.RoleOrDefault(in.Role),
	}
	if err := s.Users.Create(ctx, u); err != nil {
		// Lost a race with a concurrent registration of the same address.
		if errors.Is(err, repo.ErrDuplicateKey) {
			return nil, apperror.New(apperror.EmailAlreadyRegistered, "e-mail already registered")
		}
		return nil, apperror.Wrap(err, apperror.Internal, "create user")
	}

	return s.issue(u)
}

// Login answers InvalidCredentials for both an unknown address and a wrong
// password so callers cannot probe which emails exist.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.Users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, apperror.New(apperror.InvalidCredentials, "invalid credentials")
		}
		return nil, apperror.Wrap(err, apperror.Internal, "lookup user")
	}
	if !s.Hasher.Compare(u.PasswordHash, password) {
		return nil, apperror.New(apperror.InvalidCredentials, "invalid credentials")
	}
	return s.issue(u)
}

func (s *AuthService) issue(u *entity.User) (*AuthResult, error) {
	token, exp, err := s.JWT.Generate(helpers.Identity{
		UserID: u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   string(u.Role),
	})
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate token failed")
		}
		return nil, apperror.Wrap(err, apperror.Internal, "issue token")
	}
	return &AuthResult{Token: token, ExpiresAt: exp, User: u}, nil
}

// Authorize grants access iff role equals required.
func Authorize(role, required entity.Role) error {
	if role != required {
		return apperror.New(apperror.Forbidden, "insufficient permissions")
	}
	return nil
}
