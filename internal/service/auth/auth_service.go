package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/akarpov91/flightbook/internal/auth"
	"github.com/akarpov91/flightbook/internal/domain"
	"github.com/akarpov91/flightbook/internal/repository"
)

type AuthUseCase interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Profile(ctx context.Context, userID int64) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID int64, input ProfileInput) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	UpdateUser(ctx context.Context, id int64, input UpdateUserInput) (*domain.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

type RegisterInput struct {
	Username    string          `json:"username"`
	Email       string          `json:"email"`
	Password    string          `json:"password"`
	FirstName   string          `json:"first_name"`
	LastName    string          `json:"last_name"`
	UserType    domain.UserType `json:"user_type"`
	PhoneNumber string          `json:"phone_number"`
}

type ProfileInput struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
}

type UpdateUserInput struct {
	Email       string          `json:"email"`
	FirstName   string          `json:"first_name"`
	LastName    string          `json:"last_name"`
	UserType    domain.UserType `json:"user_type"`
	PhoneNumber string          `json:"phone_number"`
}

// LoginResult carries the token pair plus the user summary embedded in
// the login response.
type LoginResult struct {
	Tokens auth.TokenPair
	User   *domain.User
}

type AuthService struct {
	users  repository.UserRepository
	tokens *auth.TokenManager
}

func NewAuthService(users repository.UserRepository, tokens *auth.TokenManager) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if input.Username == "" {
		return nil, domain.NewValidationError("username", "must not be empty")
	}
	if len(input.Password) < 6 {
		return nil, domain.NewValidationError("password", "must be at least 6 characters")
	}
	userType := input.UserType
	if userType == "" {
		userType = domain.UserTypeCustomer
	}
	if !userType.Valid() {
		return nil, domain.NewValidationError("user_type", "must be one of admin, staff, customer")
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		UserType:     userType,
		PhoneNumber:  input.PhoneNumber,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, domain.ErrInvalidCredentials
	}

	tokens, err := s.tokens.IssuePair(user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Tokens: tokens, User: user}, nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return "", err
	}
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", auth.ErrInvalidToken
		}
		return "", err
	}
	return s.tokens.IssueAccess(user)
}

func (s *AuthService) Profile(ctx context.Context, userID int64) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

// UpdateProfile rejects updates that would leave required profile
// fields empty and only fills fields the user has not set yet, so an
// existing value is never overwritten.
func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, input ProfileInput) (*domain.User, error) {
	var missing []string
	if input.FirstName == "" {
		missing = append(missing, "first_name")
	}
	if input.LastName == "" {
		missing = append(missing, "last_name")
	}
	if input.PhoneNumber == "" {
		missing = append(missing, "phone_number")
	}
	if len(missing) > 0 {
		return nil, domain.MissingFieldsError(missing)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.FirstName == "" {
		user.FirstName = input.FirstName
	}
	if user.LastName == "" {
		user.LastName = input.LastName
	}
	if user.PhoneNumber == "" {
		user.PhoneNumber = input.PhoneNumber
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

func (s *AuthService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *AuthService) UpdateUser(ctx context.Context, id int64, input UpdateUserInput) (*domain.User, error) {
	if input.UserType != "" && !input.UserType.Valid() {
		return nil, domain.NewValidationError("user_type", "must be one of admin, staff, customer")
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Email != "" {
		user.Email = input.Email
	}
	if input.FirstName != "" {
		user.FirstName = input.FirstName
	}
	if input.LastName != "" {
		user.LastName = input.LastName
	}
	if input.UserType != "" {
		user.UserType = input.UserType
	}
	if input.PhoneNumber != "" {
		user.PhoneNumber = input.PhoneNumber
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) DeleteUser(ctx context.Context, id int64) error {
	return s.users.Delete(ctx, id)
}

var _ AuthUseCase = (*AuthService)(nil)
